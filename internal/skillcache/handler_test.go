package skillcache

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"careerprep-backend/internal/shared/server/middleware"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1", middleware.Identity())
	NewHandler(svc).RegisterRoutes(api)
	return r
}

func TestPutThenGetSkills(t *testing.T) {
	router := newTestRouter(NewService(NewMemoryRepo()))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/skills", strings.NewReader(`{"skills":["Go","Go","SQL"]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-Id", "g1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/skills", nil)
	req.Header.Set("X-Guest-Id", "g1")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snap.Skills) != 2 || snap.Skills[0] != "Go" || snap.Skills[1] != "SQL" {
		t.Fatalf("unexpected skills %v", snap.Skills)
	}
}

func TestPutRejectsMissingSkills(t *testing.T) {
	router := newTestRouter(NewService(NewMemoryRepo()))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/skills", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "u1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
