package assessments

import (
	"sort"
	"time"

	"careerprep-backend/internal/backend"
)

// Reasons a session stopped accepting answers.
const (
	ReasonSubmitted = "submitted"
	ReasonTimeUp    = "time_up"
	ReasonRetake    = "retake"
	ReasonDeleted   = "deleted"
	ReasonShutdown  = "shutdown"
)

// Question is one assessment question. IDs stay stable for the session's life.
type Question struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Type          string   `json:"type"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
	Points        int      `json:"points"`
	TimeLimit     int      `json:"timeLimit"`
}

// Session is one run through a question set.
type Session struct {
	ID              string
	UserID          string
	Kind            string
	Questions       []Question
	Answers         map[string]Answer
	TimeLimit       int
	TimeRemaining   int
	CurrentQuestion int
	Flagged         map[int]struct{}
	Completed       bool
	CompletedReason string
	StartedAt       time.Time
	CompletedAt     *time.Time
	Evaluating      bool
	Result          *backend.EvaluationResponse
	RetryAttempts   int
	Banner          *Banner
	// TimerRunning is only meaningful on snapshots.
	TimerRunning bool

	countdown *Countdown
}

// Tick advances the clock by one second. It reports whether the countdown
// should keep running. Reaching zero completes the session as time_up.
func (s *Session) Tick(now time.Time) bool {
	if s.Completed {
		return false
	}
	s.TimeRemaining--
	if s.TimeRemaining > 0 {
		return true
	}
	s.TimeRemaining = 0
	s.finish(ReasonTimeUp, now)
	return false
}

// finish is the single teardown path: it stops the countdown and closes the
// session for answers. Calling it again keeps the first reason.
func (s *Session) finish(reason string, now time.Time) {
	s.countdown.Stop()
	s.countdown = nil
	if s.Completed {
		return
	}
	s.Completed = true
	s.CompletedReason = reason
	at := now.UTC()
	s.CompletedAt = &at
}

// ElapsedSeconds is how long the countdown ran.
func (s *Session) ElapsedSeconds() int {
	elapsed := s.TimeLimit - s.TimeRemaining
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// FlaggedIndices returns flagged question indices in ascending order.
func (s *Session) FlaggedIndices() []int {
	out := make([]int, 0, len(s.Flagged))
	for i := range s.Flagged {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// snapshot copies the session so callers can read it without the lock.
func (s *Session) snapshot() Session {
	cp := *s
	cp.TimerRunning = s.countdown != nil
	cp.countdown = nil
	cp.Questions = make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		q.Options = append([]string(nil), q.Options...)
		cp.Questions[i] = q
	}
	cp.Answers = make(map[string]Answer, len(s.Answers))
	for k, v := range s.Answers {
		cp.Answers[k] = v
	}
	cp.Flagged = make(map[int]struct{}, len(s.Flagged))
	for k := range s.Flagged {
		cp.Flagged[k] = struct{}{}
	}
	if s.CompletedAt != nil {
		at := *s.CompletedAt
		cp.CompletedAt = &at
	}
	if s.Result != nil {
		res := *s.Result
		res.Results = append([]backend.QuestionResult(nil), s.Result.Results...)
		cp.Result = &res
	}
	if s.Banner != nil {
		b := *s.Banner
		cp.Banner = &b
	}
	return cp
}
