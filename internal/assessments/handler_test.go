package assessments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"careerprep-backend/internal/backend"
	"careerprep-backend/internal/shared/server/middleware"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1", middleware.Identity())
	NewHandler(svc).RegisterRoutes(api)
	return r
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User-Id", "u1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

const startBody = `{"kind":"mcq","timeLimitSeconds":600,"questions":[
	{"id":"q1","question":"Capital of France?","options":["Berlin","Paris"],"correctAnswer":"Paris"},
	{"id":"q2","question":"2+2?","options":["3","4"],"correctAnswer":"B"}]}`

func startSession(t *testing.T, router *gin.Engine) SessionResponse {
	t.Helper()
	resp := doJSON(router, http.MethodPost, "/api/v1/assessments", startBody)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var out SessionResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestStartHidesAnswerKeys(t *testing.T) {
	svc := &Service{Backend: &fakeBackend{}, TickInterval: time.Hour}
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })
	router := newTestRouter(svc)

	out := startSession(t, router)
	if out.SessionID == "" || !out.TimerRunning || out.TimeRemaining != 600 {
		t.Fatalf("unexpected session %+v", out)
	}
	for _, q := range out.Questions {
		if q.CorrectAnswer != "" {
			t.Fatalf("answer key leaked for %s", q.ID)
		}
	}
}

func TestAnswerSubmitFlow(t *testing.T) {
	fb := &fakeBackend{evalResult: backend.EvaluationResponse{Score: 100, TotalQuestions: 2, CorrectAnswers: 2}}
	svc := &Service{Backend: fb, TickInterval: time.Hour}
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })
	router := newTestRouter(svc)
	out := startSession(t, router)
	base := "/api/v1/assessments/" + out.SessionID

	resp := doJSON(router, http.MethodPost, base+"/answers", `{"questionId":"q1","answer":"Paris"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("answer: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	resp = doJSON(router, http.MethodPost, base+"/answers", `{"questionId":"q2","answer":1}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("answer: expected 200, got %d", resp.Code)
	}

	resp = doJSON(router, http.MethodPost, base+"/submit", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var done SessionResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &done); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !done.Completed || done.TimerRunning || done.Result == nil {
		t.Fatalf("unexpected completed session %+v", done)
	}
	if done.Questions[0].CorrectAnswer != "Paris" {
		t.Fatalf("expected answer key after completion")
	}
	got := fb.evaluations()[0].SelectedOptions
	if len(got) != 2 || got[0] != "B" || got[1] != "B" {
		t.Fatalf("unexpected selected options %v", got)
	}

	resp = doJSON(router, http.MethodPost, base+"/answers", `{"questionId":"q1","answer":0}`)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 after completion, got %d", resp.Code)
	}
}

func TestSubmitFailureReturnsBanner(t *testing.T) {
	fb := &fakeBackend{evalErrs: []error{&backend.APIError{Operation: "evaluate_quiz", Status: 429, Body: "quota"}}}
	svc := &Service{Backend: fb, TickInterval: time.Hour}
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })
	router := newTestRouter(svc)
	out := startSession(t, router)

	resp := doJSON(router, http.MethodPost, "/api/v1/assessments/"+out.SessionID+"/submit", "")
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
	var body struct {
		Error struct {
			Code    string          `json:"code"`
			Details SessionResponse `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "evaluation_failed" {
		t.Fatalf("unexpected code %s", body.Error.Code)
	}
	if body.Error.Details.Banner == nil || body.Error.Details.Banner.Kind != BannerQuota {
		t.Fatalf("expected quota banner, got %+v", body.Error.Details.Banner)
	}
}

func TestRejectsInvalidRequests(t *testing.T) {
	svc := &Service{Backend: &fakeBackend{}, TickInterval: time.Hour}
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })
	router := newTestRouter(svc)
	out := startSession(t, router)
	base := "/api/v1/assessments/" + out.SessionID

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"bad kind", http.MethodPost, "/api/v1/assessments", `{"kind":"poker"}`, http.StatusBadRequest},
		{"missing answer", http.MethodPost, base + "/answers", `{"questionId":"q1"}`, http.StatusBadRequest},
		{"unknown question", http.MethodPost, base + "/answers", `{"questionId":"zz","answer":0}`, http.StatusBadRequest},
		{"missing index", http.MethodPost, base + "/navigate", `{}`, http.StatusBadRequest},
		{"flag out of range", http.MethodPost, base + "/flags", `{"index":9}`, http.StatusBadRequest},
		{"retry before failure", http.MethodPost, base + "/retry", "", http.StatusConflict},
		{"unknown session", http.MethodGet, "/api/v1/assessments/nope", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(router, tc.method, tc.path, tc.body)
			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestDeleteSession(t *testing.T) {
	svc := &Service{Backend: &fakeBackend{}, TickInterval: time.Hour}
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })
	router := newTestRouter(svc)
	out := startSession(t, router)

	resp := doJSON(router, http.MethodDelete, "/api/v1/assessments/"+out.SessionID, "")
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	resp = doJSON(router, http.MethodGet, "/api/v1/assessments/"+out.SessionID, "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
