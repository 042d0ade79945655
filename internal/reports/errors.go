package reports

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrNotEvaluated  = errors.New("assessment has no evaluation result")
	ErrUnknownFormat = errors.New("unknown export format")
)
