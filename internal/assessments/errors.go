package assessments

import "errors"

var (
	ErrNotFound             = errors.New("session not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnknownQuestion      = errors.New("unknown question")
	ErrSessionCompleted     = errors.New("session already completed")
	ErrEvaluationInProgress = errors.New("evaluation already in progress")
	ErrAlreadyEvaluated     = errors.New("session already evaluated")
	ErrNothingToRetry       = errors.New("no failed evaluation to retry")
	ErrRetryLimit           = errors.New("retry limit reached")
	ErrEvaluationFailed     = errors.New("evaluation failed")
)
