package assessments

import (
	"time"

	"careerprep-backend/internal/backend"
)

// SessionResponse is the JSON view of a session. Answer keys are withheld
// until the session is completed.
type SessionResponse struct {
	SessionID       string                      `json:"sessionId"`
	Kind            string                      `json:"kind"`
	Questions       []Question                  `json:"questions"`
	Answers         map[string]Answer           `json:"answers"`
	TimeLimit       int                         `json:"timeLimit"`
	TimeRemaining   int                         `json:"timeRemaining"`
	CurrentQuestion int                         `json:"currentQuestion"`
	Flagged         []int                       `json:"flaggedQuestions"`
	Completed       bool                        `json:"isCompleted"`
	CompletedReason string                      `json:"completedReason,omitempty"`
	TimerRunning    bool                        `json:"timerRunning"`
	StartedAt       time.Time                   `json:"startedAt"`
	CompletedAt     *time.Time                  `json:"completedAt,omitempty"`
	Evaluating      bool                        `json:"evaluating"`
	Result          *backend.EvaluationResponse `json:"result,omitempty"`
	RetryAttempts   int                         `json:"retryAttempts"`
	Banner          *Banner                     `json:"banner,omitempty"`
}

// ToResponse converts a session snapshot for JSON output.
func ToResponse(s Session) SessionResponse {
	questions := make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		if !s.Completed {
			q.CorrectAnswer = ""
		}
		if q.Options == nil {
			q.Options = []string{}
		}
		questions[i] = q
	}
	answers := s.Answers
	if answers == nil {
		answers = map[string]Answer{}
	}
	return SessionResponse{
		SessionID:       s.ID,
		Kind:            s.Kind,
		Questions:       questions,
		Answers:         answers,
		TimeLimit:       s.TimeLimit,
		TimeRemaining:   s.TimeRemaining,
		CurrentQuestion: s.CurrentQuestion,
		Flagged:         s.FlaggedIndices(),
		Completed:       s.Completed,
		CompletedReason: s.CompletedReason,
		TimerRunning:    s.TimerRunning,
		StartedAt:       s.StartedAt,
		CompletedAt:     s.CompletedAt,
		Evaluating:      s.Evaluating,
		Result:          s.Result,
		RetryAttempts:   s.RetryAttempts,
		Banner:          s.Banner,
	}
}
