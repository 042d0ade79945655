// Package assessments runs timed question sessions and sends the answers to
// the backend for scoring.
package assessments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"careerprep-backend/internal/backend"
	"careerprep-backend/internal/shared/metrics"
	"careerprep-backend/internal/shared/telemetry"
	"careerprep-backend/internal/skillcache"
)

const (
	defaultMaxRetries    = 3
	defaultTimeLimit     = 30 * time.Minute
	defaultQuestionCount = 10
)

// Backend generates and scores question sets.
type Backend interface {
	GenerateQuiz(ctx context.Context, req backend.QuizRequest) (backend.QuizResponse, error)
	EvaluateQuiz(ctx context.Context, req backend.EvaluationRequest) (backend.EvaluationResponse, error)
}

// Service holds live sessions in memory. Each session owns one countdown.
type Service struct {
	Backend            Backend
	Skills             *skillcache.Service
	Policy             Policy
	TimeLimit          time.Duration
	QuestionCount      int
	RetryBaseDelay     time.Duration
	MaxRetries         int
	AutoSubmitOnExpiry bool
	// TickInterval is one countdown second. Tests shorten it.
	TickInterval time.Duration
	Now          func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
	wg       sync.WaitGroup
}

// StartRequest describes a new session. Questions, when given, skip generation.
type StartRequest struct {
	Kind             string
	Questions        []Question
	Count            int
	Difficulty       string
	TimeLimitSeconds int
}

// Start creates a session and starts its countdown.
func (s *Service) Start(ctx context.Context, userID string, req StartRequest) (Session, error) {
	if strings.TrimSpace(userID) == "" {
		return Session{}, fmt.Errorf("%w: user is required", ErrInvalidInput)
	}
	kind := strings.ToLower(strings.TrimSpace(req.Kind))
	if kind == "" {
		kind = "mcq"
	}

	questions := req.Questions
	timeLimit := req.TimeLimitSeconds
	if len(questions) == 0 {
		if s.Backend == nil {
			return Session{}, fmt.Errorf("%w: questions are required", ErrInvalidInput)
		}
		generated, err := s.generate(ctx, userID, kind, req)
		if err != nil {
			return Session{}, err
		}
		questions = generated.questions
		if timeLimit <= 0 {
			timeLimit = generated.timeLimit
		}
	}
	questions = assignIDs(questions)
	if timeLimit <= 0 {
		timeLimit = s.defaultTimeLimitSeconds()
	}

	sess := &Session{
		ID:            uuid.NewString(),
		UserID:        userID,
		Kind:          kind,
		Questions:     questions,
		Answers:       map[string]Answer{},
		TimeLimit:     timeLimit,
		TimeRemaining: timeLimit,
		Flagged:       map[int]struct{}{},
		StartedAt:     s.now(),
	}

	s.mu.Lock()
	if s.sessions == nil {
		s.sessions = make(map[string]*Session)
	}
	s.sessions[sess.ID] = sess
	s.startCountdownLocked(sess)
	out := sess.snapshot()
	s.mu.Unlock()

	telemetry.Info("assessment.started", map[string]any{
		"session_id":     sess.ID,
		"user_id":        userID,
		"kind":           kind,
		"question_count": len(questions),
		"time_limit_s":   timeLimit,
	})
	return out, nil
}

// Get returns a snapshot of the session.
func (s *Service) Get(ctx context.Context, userID, sessionID string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.lookupLocked(userID, sessionID)
	if err != nil {
		return Session{}, err
	}
	return sess.snapshot(), nil
}

// SelectAnswer records an answer. Selecting the same answer again clears it.
func (s *Service) SelectAnswer(ctx context.Context, userID, sessionID, questionID string, answer Answer) (Session, error) {
	return s.update(ctx, userID, sessionID, func(sess *Session) error {
		if sess.Completed {
			return ErrSessionCompleted
		}
		if !hasQuestion(sess.Questions, questionID) {
			return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
		}
		if prev, ok := sess.Answers[questionID]; ok && prev == answer {
			delete(sess.Answers, questionID)
			return nil
		}
		sess.Answers[questionID] = answer
		return nil
	})
}

// Navigate moves the cursor, clamped to the question range.
func (s *Service) Navigate(ctx context.Context, userID, sessionID string, index int) (Session, error) {
	return s.update(ctx, userID, sessionID, func(sess *Session) error {
		if index < 0 {
			index = 0
		}
		if last := len(sess.Questions) - 1; index > last {
			index = last
		}
		sess.CurrentQuestion = index
		return nil
	})
}

// ToggleFlag marks or unmarks a question for review.
func (s *Service) ToggleFlag(ctx context.Context, userID, sessionID string, index int) (Session, error) {
	return s.update(ctx, userID, sessionID, func(sess *Session) error {
		if index < 0 || index >= len(sess.Questions) {
			return fmt.Errorf("%w: question index %d out of range", ErrInvalidInput, index)
		}
		if _, ok := sess.Flagged[index]; ok {
			delete(sess.Flagged, index)
		} else {
			sess.Flagged[index] = struct{}{}
		}
		return nil
	})
}

// Submit closes the session and sends the answers for scoring. Answers that
// map outside A-D reject the submission and leave the session open.
func (s *Service) Submit(ctx context.Context, userID, sessionID string) (Session, error) {
	var req backend.EvaluationRequest
	_, err := s.update(ctx, userID, sessionID, func(sess *Session) error {
		if sess.Evaluating {
			return ErrEvaluationInProgress
		}
		if sess.Result != nil {
			return ErrAlreadyEvaluated
		}
		built, err := s.buildRequest(sess)
		if err != nil {
			metrics.IncAssessmentSubmission("rejected")
			return err
		}
		req = built
		sess.finish(ReasonSubmitted, s.now())
		sess.Evaluating = true
		return nil
	})
	if err != nil {
		return Session{}, err
	}
	return s.evaluate(ctx, userID, sessionID, req)
}

// RetryEvaluation re-sends a failed evaluation after a linear backoff.
func (s *Service) RetryEvaluation(ctx context.Context, userID, sessionID string) (Session, error) {
	var (
		req     backend.EvaluationRequest
		attempt int
	)
	_, err := s.update(ctx, userID, sessionID, func(sess *Session) error {
		switch {
		case sess.Evaluating:
			return ErrEvaluationInProgress
		case sess.Result != nil:
			return ErrAlreadyEvaluated
		case !sess.Completed || sess.Banner == nil:
			return ErrNothingToRetry
		case sess.RetryAttempts >= s.maxRetries():
			return ErrRetryLimit
		}
		built, err := s.buildRequest(sess)
		if err != nil {
			return err
		}
		req = built
		sess.RetryAttempts++
		attempt = sess.RetryAttempts
		sess.Evaluating = true
		return nil
	})
	if err != nil {
		return Session{}, err
	}

	delay := time.Duration(attempt) * s.RetryBaseDelay
	if delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			_, _ = s.update(context.Background(), userID, sessionID, func(sess *Session) error {
				sess.Evaluating = false
				return nil
			})
			return Session{}, ctx.Err()
		case <-timer.C:
		}
	}
	telemetry.Info("assessment.retry", map[string]any{
		"session_id": sessionID,
		"user_id":    userID,
		"attempt":    attempt,
		"delay_ms":   delay.Milliseconds(),
	})
	return s.evaluate(ctx, userID, sessionID, req)
}

// Retake clears answers, flags and results and restarts the countdown on the
// same questions.
func (s *Service) Retake(ctx context.Context, userID, sessionID string) (Session, error) {
	return s.update(ctx, userID, sessionID, func(sess *Session) error {
		if sess.Evaluating {
			return ErrEvaluationInProgress
		}
		sess.finish(ReasonRetake, s.now())
		sess.Answers = map[string]Answer{}
		sess.Flagged = map[int]struct{}{}
		sess.CurrentQuestion = 0
		sess.TimeRemaining = sess.TimeLimit
		sess.Completed = false
		sess.CompletedReason = ""
		sess.CompletedAt = nil
		sess.Result = nil
		sess.Banner = nil
		sess.RetryAttempts = 0
		sess.StartedAt = s.now()
		s.startCountdownLocked(sess)
		return nil
	})
}

// Delete tears the session down and forgets it.
func (s *Service) Delete(ctx context.Context, userID, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.lookupLocked(userID, sessionID)
	if err != nil {
		return err
	}
	sess.finish(ReasonDeleted, s.now())
	delete(s.sessions, sessionID)
	return nil
}

// Shutdown stops every countdown and waits for background evaluations.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for _, sess := range s.sessions {
		sess.finish(ReasonShutdown, s.now())
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type generatedSet struct {
	questions []Question
	timeLimit int
}

func (s *Service) generate(ctx context.Context, userID, kind string, req StartRequest) (generatedSet, error) {
	count := req.Count
	if count <= 0 {
		count = s.QuestionCount
	}
	if count <= 0 {
		count = defaultQuestionCount
	}
	quizReq := backend.QuizRequest{Kind: kind, Count: count, Difficulty: req.Difficulty}
	if s.Skills != nil {
		if skills, err := s.Skills.Skills(ctx, userID); err == nil {
			quizReq.Skills = skills
		}
	}
	resp, err := s.Backend.GenerateQuiz(ctx, quizReq)
	if err != nil {
		return generatedSet{}, fmt.Errorf("generate questions: %w", err)
	}
	out := generatedSet{timeLimit: resp.TimeLimit}
	for _, q := range resp.Questions {
		out.questions = append(out.questions, Question{
			ID:            q.ID,
			Question:      q.Question,
			Type:          q.Type,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Points:        q.Points,
			TimeLimit:     q.TimeLimit,
		})
	}
	if out.timeLimit <= 0 {
		sum := 0
		for _, q := range resp.Questions {
			sum += q.TimeLimit
		}
		out.timeLimit = sum
	}
	return out, nil
}

func (s *Service) buildRequest(sess *Session) (backend.EvaluationRequest, error) {
	payload, err := MapAnswers(sess.Questions, sess.Answers, s.policy())
	if err != nil {
		return backend.EvaluationRequest{}, err
	}
	if payload.Unanswered > 0 {
		telemetry.Info("assessment.unanswered", map[string]any{
			"session_id": sess.ID,
			"count":      payload.Unanswered,
			"policy":     string(s.policy()),
		})
	}
	return backend.EvaluationRequest{
		AssessmentID:       sess.ID,
		Kind:               sess.Kind,
		QuestionIDs:        payload.QuestionIDs,
		SelectedOptions:    payload.SelectedOptions,
		SkippedQuestionIDs: payload.SkippedQuestionIDs,
		TimeTakenSeconds:   sess.ElapsedSeconds(),
	}, nil
}

// evaluate calls the backend without holding the lock and records the outcome.
func (s *Service) evaluate(ctx context.Context, userID, sessionID string, req backend.EvaluationRequest) (Session, error) {
	if s.Backend == nil {
		return s.recordEvaluation(userID, sessionID, req, backend.EvaluationResponse{}, errors.New("evaluation backend is not configured"))
	}
	resp, err := s.Backend.EvaluateQuiz(ctx, req)
	return s.recordEvaluation(userID, sessionID, req, resp, err)
}

func (s *Service) recordEvaluation(userID, sessionID string, req backend.EvaluationRequest, resp backend.EvaluationResponse, evalErr error) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.lookupLocked(userID, sessionID)
	if err != nil {
		return Session{}, err
	}
	sess.Evaluating = false

	if evalErr != nil {
		banner := CategorizeError(evalErr)
		if sess.RetryAttempts >= s.maxRetries() {
			banner.Retryable = false
		}
		sess.Banner = &banner
		metrics.IncAssessmentSubmission("failed")
		telemetry.Error("assessment.submit", map[string]any{
			"session_id":  sessionID,
			"user_id":     userID,
			"attempt":     sess.RetryAttempts,
			"banner_kind": string(banner.Kind),
			"err":         evalErr,
		})
		return sess.snapshot(), fmt.Errorf("%w: %v", ErrEvaluationFailed, evalErr)
	}

	sess.Result = &resp
	sess.Banner = nil
	metrics.IncAssessmentSubmission("ok")
	logDiagnostics(sess, req, resp)
	telemetry.Info("assessment.submit", map[string]any{
		"session_id": sessionID,
		"user_id":    userID,
		"score":      resp.Score,
		"correct":    resp.CorrectAnswers,
		"total":      resp.TotalQuestions,
	})
	return sess.snapshot(), nil
}

// logDiagnostics compares the backend verdicts with the answer keys we hold.
// The backend score stands regardless.
func logDiagnostics(sess *Session, req backend.EvaluationRequest, resp backend.EvaluationResponse) {
	selected := make(map[string]string, len(req.QuestionIDs))
	for i, id := range req.QuestionIDs {
		selected[id] = req.SelectedOptions[i]
	}
	byID := make(map[string]Question, len(sess.Questions))
	for _, q := range sess.Questions {
		byID[q.ID] = q
	}
	mismatches := 0
	checked := 0
	for _, r := range resp.Results {
		q, ok := byID[r.QuestionID]
		if !ok || q.CorrectAnswer == "" {
			continue
		}
		expected := expectedLetter(q)
		if expected == "" {
			continue
		}
		checked++
		if (selected[r.QuestionID] == expected) != r.Correct {
			mismatches++
		}
	}
	if mismatches > 0 {
		telemetry.Warn("assessment.diagnostic", map[string]any{
			"session_id": sess.ID,
			"checked":    checked,
			"mismatches": mismatches,
		})
	}
}

// expectedLetter resolves a question's answer key, which may be a letter or option text.
func expectedLetter(q Question) string {
	key := strings.TrimSpace(q.CorrectAnswer)
	if i, ok := OptionIndex(key); ok && len(key) == 1 && i < len(q.Options) {
		return LetterFor(i)
	}
	for i, opt := range q.Options {
		if strings.EqualFold(strings.TrimSpace(opt), key) {
			return LetterFor(i)
		}
	}
	return ""
}

func (s *Service) update(ctx context.Context, userID, sessionID string, fn func(*Session) error) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.lookupLocked(userID, sessionID)
	if err != nil {
		return Session{}, err
	}
	if err := fn(sess); err != nil {
		return Session{}, err
	}
	return sess.snapshot(), nil
}

func (s *Service) lookupLocked(userID, sessionID string) (*Session, error) {
	sess, ok := s.sessions[sessionID]
	if !ok || sess.UserID != userID {
		return nil, ErrNotFound
	}
	return sess, nil
}

func (s *Service) startCountdownLocked(sess *Session) {
	interval := s.TickInterval
	if interval <= 0 {
		interval = time.Second
	}
	// cd is assigned under s.mu and only read by tick under s.mu.
	var cd *Countdown
	cd = StartCountdown(interval, func() bool {
		return s.tick(sess, &cd)
	})
	sess.countdown = cd
}

// tick runs on the countdown goroutine. A stale countdown (after retake) is ignored.
func (s *Service) tick(sess *Session, cd **Countdown) bool {
	s.mu.Lock()
	if sess.countdown != *cd {
		s.mu.Unlock()
		return false
	}
	more := sess.Tick(s.now())
	if more {
		s.mu.Unlock()
		return true
	}

	metrics.IncAssessmentTimeUp()
	telemetry.Info("assessment.time_up", map[string]any{
		"session_id": sess.ID,
		"user_id":    sess.UserID,
		"answered":   len(sess.Answers),
	})
	var (
		req    backend.EvaluationRequest
		submit bool
	)
	if s.AutoSubmitOnExpiry && sess.Result == nil && !sess.Evaluating {
		built, err := s.buildRequest(sess)
		if err == nil {
			req = built
			submit = true
			sess.Evaluating = true
		} else {
			telemetry.Warn("assessment.auto_submit_rejected", map[string]any{"session_id": sess.ID, "err": err})
		}
	}
	userID, sessionID := sess.UserID, sess.ID
	if submit {
		s.wg.Add(1)
	}
	s.mu.Unlock()

	if submit {
		go func() {
			defer s.wg.Done()
			_, _ = s.evaluate(context.Background(), userID, sessionID, req)
		}()
	}
	return false
}

// assignIDs keeps the first occurrence of each supplied id and gives blank or
// repeated ones an index-based id that no other question uses.
func assignIDs(questions []Question) []Question {
	out := make([]Question, len(questions))
	taken := make(map[string]struct{}, len(questions))
	keep := make([]bool, len(questions))
	for i, q := range questions {
		id := strings.TrimSpace(q.ID)
		if _, dup := taken[id]; id != "" && !dup {
			taken[id] = struct{}{}
			keep[i] = true
		}
	}
	for i, q := range questions {
		if keep[i] {
			q.ID = strings.TrimSpace(q.ID)
		} else {
			q.ID = freeID(i, taken)
			taken[q.ID] = struct{}{}
		}
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}

func freeID(index int, taken map[string]struct{}) string {
	base := strconv.Itoa(index)
	candidate := base
	for n := 1; ; n++ {
		if _, used := taken[candidate]; !used {
			return candidate
		}
		candidate = "q" + base
		if n > 1 {
			candidate += "-" + strconv.Itoa(n)
		}
	}
}

func hasQuestion(questions []Question, id string) bool {
	for _, q := range questions {
		if q.ID == id {
			return true
		}
	}
	return false
}

func (s *Service) policy() Policy {
	if s.Policy == "" {
		return PolicyFabricate
	}
	return s.Policy
}

func (s *Service) maxRetries() int {
	if s.MaxRetries <= 0 {
		return defaultMaxRetries
	}
	return s.MaxRetries
}

func (s *Service) defaultTimeLimitSeconds() int {
	limit := s.TimeLimit
	if limit <= 0 {
		limit = defaultTimeLimit
	}
	return int(limit / time.Second)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
