package resumes

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnknownTemplate = errors.New("unknown template")
	ErrNothingParsed   = errors.New("no resume content recognised")
	ErrUnknownFormat   = errors.New("unknown export format")
)
