package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHandlerRendersCounters(t *testing.T) {
	gin.SetMode(gin.TestMode)

	IncParseJob("COMPLETE")
	IncAssessmentSubmission("ok")
	ObserveParseDurationMs(-5)

	r := gin.New()
	r.GET("/metrics", Handler())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	for _, want := range []string{
		`resume_parse_jobs_total{status="COMPLETE"}`,
		`assessment_submissions_total{outcome="ok"}`,
		"resume_parse_duration_ms_count",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics output", want)
		}
	}
}
