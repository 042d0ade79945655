package assessments

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerprep-backend/internal/backend"
	"careerprep-backend/internal/skillcache"
)

type fakeBackend struct {
	mu         sync.Mutex
	quiz       backend.QuizResponse
	quizReqs   []backend.QuizRequest
	evalReqs   []backend.EvaluationRequest
	evalErrs   []error
	evalResult backend.EvaluationResponse
}

func (f *fakeBackend) GenerateQuiz(ctx context.Context, req backend.QuizRequest) (backend.QuizResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quizReqs = append(f.quizReqs, req)
	return f.quiz, nil
}

func (f *fakeBackend) EvaluateQuiz(ctx context.Context, req backend.EvaluationRequest) (backend.EvaluationResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evalReqs = append(f.evalReqs, req)
	if len(f.evalErrs) > 0 {
		err := f.evalErrs[0]
		f.evalErrs = f.evalErrs[1:]
		if err != nil {
			return backend.EvaluationResponse{}, err
		}
	}
	return f.evalResult, nil
}

func (f *fakeBackend) evaluations() []backend.EvaluationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]backend.EvaluationRequest(nil), f.evalReqs...)
}

func newTestService(t *testing.T, fb *fakeBackend) *Service {
	t.Helper()
	svc := &Service{
		Backend:      fb,
		Policy:       PolicyFabricate,
		TickInterval: time.Hour,
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = svc.Shutdown(ctx)
	})
	return svc
}

func okResult() backend.EvaluationResponse {
	return backend.EvaluationResponse{
		Score:          66.7,
		TotalQuestions: 3,
		CorrectAnswers: 2,
		Results: []backend.QuestionResult{
			{QuestionID: "q1", Correct: true},
			{QuestionID: "q2", Correct: true},
			{QuestionID: "q3", Correct: false},
		},
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestStartGeneratesWithCachedSkills(t *testing.T) {
	fb := &fakeBackend{quiz: backend.QuizResponse{Questions: []backend.QuizQuestion{
		{Question: "a?", Options: []string{"1", "2"}, TimeLimit: 30},
		{ID: "x", Question: "b?", Options: []string{"1", "2"}, TimeLimit: 45},
	}}}
	svc := newTestService(t, fb)
	svc.Skills = skillcache.NewService(skillcache.NewMemoryRepo())
	ctx := context.Background()
	_, _ = svc.Skills.SetSkills(ctx, "user:1", []string{"Go"})

	sess, err := svc.Start(ctx, "user:1", StartRequest{Kind: "aptitude", Count: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{"Go"}, fb.quizReqs[0].Skills)
	assert.Equal(t, "0", sess.Questions[0].ID)
	assert.Equal(t, "x", sess.Questions[1].ID)
	assert.Equal(t, 75, sess.TimeLimit)
	assert.Equal(t, 75, sess.TimeRemaining)
	assert.True(t, sess.TimerRunning)
}

func TestSelectAnswerTogglesOff(t *testing.T) {
	svc := newTestService(t, &fakeBackend{})
	ctx := context.Background()
	sess, err := svc.Start(ctx, "user:1", StartRequest{Questions: sampleQuestions()})
	require.NoError(t, err)

	got, err := svc.SelectAnswer(ctx, "user:1", sess.ID, "q1", IndexAnswer(2))
	require.NoError(t, err)
	assert.Len(t, got.Answers, 1)

	got, err = svc.SelectAnswer(ctx, "user:1", sess.ID, "q1", IndexAnswer(2))
	require.NoError(t, err)
	assert.Empty(t, got.Answers)

	_, err = svc.SelectAnswer(ctx, "user:1", sess.ID, "nope", IndexAnswer(0))
	assert.ErrorIs(t, err, ErrUnknownQuestion)
	_, err = svc.SelectAnswer(ctx, "user:2", sess.ID, "q1", IndexAnswer(0))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNavigateAndFlags(t *testing.T) {
	svc := newTestService(t, &fakeBackend{})
	ctx := context.Background()
	sess, _ := svc.Start(ctx, "user:1", StartRequest{Questions: sampleQuestions()})

	got, err := svc.Navigate(ctx, "user:1", sess.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentQuestion)
	got, _ = svc.Navigate(ctx, "user:1", sess.ID, -3)
	assert.Equal(t, 0, got.CurrentQuestion)

	_, _ = svc.ToggleFlag(ctx, "user:1", sess.ID, 2)
	got, _ = svc.ToggleFlag(ctx, "user:1", sess.ID, 0)
	assert.Equal(t, []int{0, 2}, got.FlaggedIndices())
	got, _ = svc.ToggleFlag(ctx, "user:1", sess.ID, 2)
	assert.Equal(t, []int{0}, got.FlaggedIndices())

	_, err = svc.ToggleFlag(ctx, "user:1", sess.ID, 3)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSubmitSendsFabricatedAForUnanswered(t *testing.T) {
	fb := &fakeBackend{evalResult: okResult()}
	svc := newTestService(t, fb)
	ctx := context.Background()
	sess, _ := svc.Start(ctx, "user:1", StartRequest{Kind: "mcq", Questions: sampleQuestions()})
	_, _ = svc.SelectAnswer(ctx, "user:1", sess.ID, "q2", IndexAnswer(1))

	got, err := svc.Submit(ctx, "user:1", sess.ID)
	require.NoError(t, err)

	reqs := fb.evaluations()
	require.Len(t, reqs, 1)
	assert.Equal(t, []string{"q1", "q2", "q3"}, reqs[0].QuestionIDs)
	assert.Equal(t, []string{"A", "B", "A"}, reqs[0].SelectedOptions)
	assert.True(t, got.Completed)
	assert.Equal(t, ReasonSubmitted, got.CompletedReason)
	assert.False(t, got.TimerRunning)
	require.NotNil(t, got.Result)
	assert.InDelta(t, 66.7, got.Result.Score, 0.001)

	_, err = svc.Submit(ctx, "user:1", sess.ID)
	assert.ErrorIs(t, err, ErrAlreadyEvaluated)
	_, err = svc.SelectAnswer(ctx, "user:1", sess.ID, "q1", IndexAnswer(0))
	assert.ErrorIs(t, err, ErrSessionCompleted)
}

func TestSubmitWithSkipPolicy(t *testing.T) {
	fb := &fakeBackend{evalResult: okResult()}
	svc := newTestService(t, fb)
	svc.Policy = PolicySkip
	ctx := context.Background()
	sess, _ := svc.Start(ctx, "user:1", StartRequest{Questions: sampleQuestions()})
	_, _ = svc.SelectAnswer(ctx, "user:1", sess.ID, "q3", TextAnswer("Pacific Ocean"))

	_, err := svc.Submit(ctx, "user:1", sess.ID)
	require.NoError(t, err)
	req := fb.evaluations()[0]
	assert.Equal(t, []string{"q3"}, req.QuestionIDs)
	assert.Equal(t, []string{"C"}, req.SelectedOptions)
	assert.Equal(t, []string{"q1", "q2"}, req.SkippedQuestionIDs)
}

func TestInvalidLetterRejectsAndKeepsSessionOpen(t *testing.T) {
	fb := &fakeBackend{}
	svc := newTestService(t, fb)
	ctx := context.Background()
	questions := []Question{{ID: "q1", Options: []string{"a", "b", "c", "d", "e"}}}
	sess, _ := svc.Start(ctx, "user:1", StartRequest{Questions: questions})
	_, _ = svc.SelectAnswer(ctx, "user:1", sess.ID, "q1", IndexAnswer(4))

	_, err := svc.Submit(ctx, "user:1", sess.ID)
	assert.ErrorIs(t, err, ErrInvalidOptionLetter)
	assert.Empty(t, fb.evaluations())

	got, _ := svc.Get(ctx, "user:1", sess.ID)
	assert.False(t, got.Completed)
	assert.True(t, got.TimerRunning)
}

func TestFailedEvaluationSetsBannerAndRetryIsBounded(t *testing.T) {
	apiErr := &backend.APIError{Operation: "evaluate_quiz", Status: 500, Body: "boom"}
	fb := &fakeBackend{evalErrs: []error{apiErr, apiErr, apiErr, apiErr}}
	svc := newTestService(t, fb)
	svc.RetryBaseDelay = time.Millisecond
	ctx := context.Background()
	sess, _ := svc.Start(ctx, "user:1", StartRequest{Questions: sampleQuestions()})

	got, err := svc.Submit(ctx, "user:1", sess.ID)
	assert.ErrorIs(t, err, ErrEvaluationFailed)
	require.NotNil(t, got.Banner)
	assert.Equal(t, BannerServer, got.Banner.Kind)
	assert.True(t, got.Completed)

	for i := 1; i <= 3; i++ {
		got, err = svc.RetryEvaluation(ctx, "user:1", sess.ID)
		assert.ErrorIs(t, err, ErrEvaluationFailed)
		assert.Equal(t, i, got.RetryAttempts)
	}
	assert.False(t, got.Banner.Retryable)

	_, err = svc.RetryEvaluation(ctx, "user:1", sess.ID)
	assert.ErrorIs(t, err, ErrRetryLimit)
	assert.Len(t, fb.evaluations(), 4)
}

func TestRetrySucceedsAfterFailure(t *testing.T) {
	fb := &fakeBackend{evalErrs: []error{errors.New("network error: connection refused")}, evalResult: okResult()}
	svc := newTestService(t, fb)
	ctx := context.Background()
	sess, _ := svc.Start(ctx, "user:1", StartRequest{Questions: sampleQuestions()})

	got, err := svc.Submit(ctx, "user:1", sess.ID)
	require.Error(t, err)
	assert.Equal(t, BannerNetwork, got.Banner.Kind)

	got, err = svc.RetryEvaluation(ctx, "user:1", sess.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Banner)
	require.NotNil(t, got.Result)
}

func TestRetryWithoutFailureIsConflict(t *testing.T) {
	svc := newTestService(t, &fakeBackend{})
	ctx := context.Background()
	sess, _ := svc.Start(ctx, "user:1", StartRequest{Questions: sampleQuestions()})
	_, err := svc.RetryEvaluation(ctx, "user:1", sess.ID)
	assert.ErrorIs(t, err, ErrNothingToRetry)
}

func TestCountdownCompletesSessionOnTimeUp(t *testing.T) {
	fb := &fakeBackend{evalResult: okResult()}
	svc := newTestService(t, fb)
	svc.TickInterval = 2 * time.Millisecond
	ctx := context.Background()

	sess, err := svc.Start(ctx, "user:1", StartRequest{Questions: sampleQuestions(), TimeLimitSeconds: 1})
	require.NoError(t, err)

	waitFor(t, func() bool {
		got, _ := svc.Get(ctx, "user:1", sess.ID)
		return got.Completed
	})
	got, _ := svc.Get(ctx, "user:1", sess.ID)
	assert.Equal(t, 0, got.TimeRemaining)
	assert.Equal(t, ReasonTimeUp, got.CompletedReason)
	assert.False(t, got.TimerRunning)
	assert.Nil(t, got.Result)
	assert.Empty(t, fb.evaluations())

	time.Sleep(10 * time.Millisecond)
	got, _ = svc.Get(ctx, "user:1", sess.ID)
	assert.Equal(t, 0, got.TimeRemaining)
}

func TestTimeUpAutoSubmitsWhenEnabled(t *testing.T) {
	fb := &fakeBackend{evalResult: okResult()}
	svc := newTestService(t, fb)
	svc.TickInterval = 2 * time.Millisecond
	svc.AutoSubmitOnExpiry = true
	ctx := context.Background()

	sess, _ := svc.Start(ctx, "user:1", StartRequest{Questions: sampleQuestions(), TimeLimitSeconds: 2})
	waitFor(t, func() bool {
		got, _ := svc.Get(ctx, "user:1", sess.ID)
		return got.Result != nil
	})
	req := fb.evaluations()[0]
	assert.Equal(t, 2, req.TimeTakenSeconds)
}

func TestRetakeResetsAndRestartsTimer(t *testing.T) {
	fb := &fakeBackend{evalResult: okResult()}
	svc := newTestService(t, fb)
	ctx := context.Background()
	sess, _ := svc.Start(ctx, "user:1", StartRequest{Questions: sampleQuestions(), TimeLimitSeconds: 90})
	_, _ = svc.SelectAnswer(ctx, "user:1", sess.ID, "q1", IndexAnswer(1))
	_, _ = svc.ToggleFlag(ctx, "user:1", sess.ID, 1)
	_, _ = svc.Submit(ctx, "user:1", sess.ID)

	got, err := svc.Retake(ctx, "user:1", sess.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
	assert.Empty(t, got.Answers)
	assert.Empty(t, got.Flagged)
	assert.Nil(t, got.Result)
	assert.Equal(t, 90, got.TimeRemaining)
	assert.True(t, got.TimerRunning)
	assert.Equal(t, sess.Questions, got.Questions)
}

func TestDeleteStopsTimer(t *testing.T) {
	svc := newTestService(t, &fakeBackend{})
	ctx := context.Background()
	sess, _ := svc.Start(ctx, "user:1", StartRequest{Questions: sampleQuestions()})

	require.NoError(t, svc.Delete(ctx, "user:1", sess.ID))
	_, err := svc.Get(ctx, "user:1", sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStartWithoutQuestionsOrBackend(t *testing.T) {
	svc := &Service{}
	_, err := svc.Start(context.Background(), "user:1", StartRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAssignIDsNeverCollide(t *testing.T) {
	cases := []struct {
		in   []string
		want []string
	}{
		{[]string{"q2", "2", ""}, []string{"q2", "2", "q2-2"}},
		{[]string{"", "0"}, []string{"q0", "0"}},
		{[]string{"a", "a", " b "}, []string{"a", "1", "b"}},
		{[]string{"", "x"}, []string{"0", "x"}},
	}
	for _, tc := range cases {
		questions := make([]Question, len(tc.in))
		for i, id := range tc.in {
			questions[i] = Question{ID: id, Options: []string{"yes", "no"}}
		}
		got := assignIDs(questions)
		ids := make([]string, len(got))
		seen := map[string]bool{}
		for i, q := range got {
			ids[i] = q.ID
			assert.False(t, seen[q.ID], "duplicate id %q for input %v", q.ID, tc.in)
			seen[q.ID] = true
		}
		assert.Equal(t, tc.want, ids, "input %v", tc.in)
	}
}
