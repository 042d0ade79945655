package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/", Token: "secret", Timeout: 2 * time.Second})
}

func TestGenerateQuizDecodesAndSendsToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/assessments/generate", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"kind":"mcq"`)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"questions":[{"question":"2+2?","options":["3","4","5","6"],"points":1}]}`))
	})

	resp, err := client.GenerateQuiz(context.Background(), QuizRequest{Kind: "mcq", Count: 1})
	require.NoError(t, err)
	require.Len(t, resp.Questions, 1)
	assert.Equal(t, "2+2?", resp.Questions[0].Question)
}

func TestRequestValidationRunsBeforeSending(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	_, err := client.GenerateQuiz(context.Background(), QuizRequest{Kind: "poetry", Count: 1})
	require.Error(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestNonSuccessStatusReturnsAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"bad"}`))
	})

	_, err := client.GetAnalysis(context.Background(), "r1")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.True(t, IsStatus(err, http.StatusUnprocessableEntity))
	assert.Contains(t, err.Error(), "bad")
}

func TestSchemaViolationIsInvalidResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"score":140,"total_questions":2,"correct_answers":1,"results":[]}`))
	})

	_, err := client.EvaluateQuiz(context.Background(), EvaluationRequest{
		QuestionIDs:     []string{"0"},
		SelectedOptions: []string{"A"},
	})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestMalformedJSONIsInvalidResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.SearchJobs(context.Background(), JobSearchRequest{Query: "go"})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestSearchJobsEncodesQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs/search", r.URL.Path)
		assert.Equal(t, "golang dev", r.URL.Query().Get("q"))
		assert.Equal(t, "Berlin", r.URL.Query().Get("location"))
		_, _ = w.Write([]byte(`{"jobs":[{"id":"j1","title":"Go Engineer","url":"https://example.com/j1"}],"total":1}`))
	})

	list, err := client.SearchJobs(context.Background(), JobSearchRequest{Query: "golang dev", Location: "Berlin"})
	require.NoError(t, err)
	require.Len(t, list.Jobs, 1)
	assert.Equal(t, "Go Engineer", list.Jobs[0].Title)
}

func TestUploadResumeSendsMultipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "cv.pdf", header.Filename)
		assert.Equal(t, "%PDF-", string(data))
		_, _ = w.Write([]byte(`{"resume_id":"r9","status":"PENDING"}`))
	})

	out, err := client.UploadResume(context.Background(), "cv.pdf", strings.NewReader("%PDF-"))
	require.NoError(t, err)
	assert.Equal(t, "r9", out.ResumeID)
}

func TestWaitForAnalysisPollsUntilComplete(t *testing.T) {
	var polls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&polls, 1) < 3 {
			_, _ = w.Write([]byte(`{"resume_id":"r1","status":"IN_PROGRESS"}`))
			return
		}
		_, _ = w.Write([]byte(`{"resume_id":"r1","status":"COMPLETE","skills":["Go"]}`))
	})

	status, err := client.WaitForAnalysis(context.Background(), "r1", 5*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, status.Status)
	assert.Equal(t, int32(3), atomic.LoadInt32(&polls))
}

func TestWaitForAnalysisReportsFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"resume_id":"r1","status":"FAILED","error":"unreadable"}`))
	})

	_, err := client.WaitForAnalysis(context.Background(), "r1", time.Millisecond)
	assert.ErrorIs(t, err, ErrAnalysisFailed)
}

func TestBreakerOpensAfterServerErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 5; i++ {
		_, _ = client.GetAnalysis(context.Background(), "r1")
	}
	_, err := client.GetAnalysis(context.Background(), "r1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit open")
	assert.Equal(t, "open", client.BreakerState())
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for i := 0; i < 8; i++ {
		_, err := client.GetAnalysis(context.Background(), "missing")
		require.True(t, IsStatus(err, http.StatusNotFound))
	}
	assert.Equal(t, "closed", client.BreakerState())
}
