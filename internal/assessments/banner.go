package assessments

import "strings"

// BannerKind classifies a failed backend call for the user.
type BannerKind string

const (
	BannerQuota      BannerKind = "quota"
	BannerValidation BannerKind = "validation"
	BannerServer     BannerKind = "server"
	BannerNetwork    BannerKind = "network"
	BannerUnknown    BannerKind = "unknown"
)

// Banner is the user-facing explanation of a failed evaluation.
type Banner struct {
	Kind      BannerKind `json:"kind"`
	Title     string     `json:"title"`
	Guidance  string     `json:"guidance"`
	Retryable bool       `json:"retryable"`
}

// CategorizeError maps an error to a banner by matching its message.
// Order matters: a 429 body often mentions both quota and the status.
func CategorizeError(err error) Banner {
	if err == nil {
		return Banner{}
	}
	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "quota", "rate limit", "status 429", "too many requests"):
		return Banner{
			Kind:      BannerQuota,
			Title:     "Evaluation quota exceeded",
			Guidance:  "You have reached the evaluation limit for now. Wait a few minutes and retry.",
			Retryable: true,
		}
	case containsAny(msg, "status 422", "422", "validation", "unprocessable"):
		return Banner{
			Kind:     BannerValidation,
			Title:    "Answers could not be validated",
			Guidance: "Some answers were not in the expected format. Review your answers and retake the assessment if this persists.",
		}
	case containsAny(msg, "status 500", "status 502", "status 503", "status 504", "server error", "internal error"):
		return Banner{
			Kind:      BannerServer,
			Title:     "The evaluation service had a problem",
			Guidance:  "This is on our side. Your answers are kept; retry in a moment.",
			Retryable: true,
		}
	case containsAny(msg, "network", "timeout", "deadline exceeded", "connection refused", "no such host", "eof"):
		return Banner{
			Kind:      BannerNetwork,
			Title:     "Connection problem",
			Guidance:  "Check your internet connection and retry.",
			Retryable: true,
		}
	default:
		return Banner{
			Kind:      BannerUnknown,
			Title:     "Evaluation failed",
			Guidance:  "Something went wrong while scoring your answers. Retry, or retake the assessment.",
			Retryable: true,
		}
	}
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
