package jobs

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerprep-backend/internal/backend"
	"careerprep-backend/internal/shared/server/middleware"
	"careerprep-backend/internal/skillcache"
)

type fakeBackend struct {
	search    backend.JobSearchRequest
	recommend backend.JobRecommendationRequest
	list      backend.JobList
	err       error
}

func (f *fakeBackend) SearchJobs(ctx context.Context, req backend.JobSearchRequest) (backend.JobList, error) {
	f.search = req
	return f.list, f.err
}

func (f *fakeBackend) RecommendJobs(ctx context.Context, req backend.JobRecommendationRequest) (backend.JobList, error) {
	f.recommend = req
	return f.list, f.err
}

func TestSearchTrimsAndNormalizes(t *testing.T) {
	fb := &fakeBackend{}
	svc := &Service{Backend: fb}

	list, err := svc.Search(context.Background(), "  golang ", "Berlin", -2)
	require.NoError(t, err)
	assert.Equal(t, backend.JobSearchRequest{Query: "golang", Location: "Berlin"}, fb.search)
	assert.NotNil(t, list.Jobs)

	_, err = svc.Search(context.Background(), " ", "", 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRecommendUsesCachedSkills(t *testing.T) {
	fb := &fakeBackend{list: backend.JobList{Jobs: []backend.Job{{ID: "1", Title: "Go Developer"}}}}
	skills := skillcache.NewService(skillcache.NewMemoryRepo())
	svc := &Service{Backend: fb, Skills: skills}
	ctx := context.Background()

	_, err := svc.Recommend(ctx, "user:1", nil, 0)
	assert.ErrorIs(t, err, ErrNoSkills)

	_, _ = skills.SetSkills(ctx, "user:1", []string{"Go", "Kubernetes"})
	list, err := svc.Recommend(ctx, "user:1", nil, 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Kubernetes"}, fb.recommend.Skills)
	assert.Equal(t, defaultLimit, fb.recommend.Limit)
	assert.Equal(t, 1, list.Total)

	_, err = svc.Recommend(ctx, "user:1", []string{"Rust"}, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rust"}, fb.recommend.Skills)
	assert.Equal(t, 5, fb.recommend.Limit)
}

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1", middleware.Identity())
	NewHandler(svc).RegisterRoutes(api)
	return r
}

func TestHandlerMapsBackendErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		path string
		want int
	}{
		{"ok", nil, "/api/v1/jobs?q=go", http.StatusOK},
		{"missing query", nil, "/api/v1/jobs", http.StatusBadRequest},
		{"api error", &backend.APIError{Operation: "search_jobs", Status: 500}, "/api/v1/jobs?q=go", http.StatusBadGateway},
		{"invalid response", fmt.Errorf("%w: search_jobs", backend.ErrInvalidResponse), "/api/v1/jobs?q=go", http.StatusBadGateway},
		{"circuit open", fmt.Errorf("backend search_jobs: %w", gobreaker.ErrOpenState), "/api/v1/jobs?q=go", http.StatusServiceUnavailable},
		{"no skills", nil, "/api/v1/jobs/recommendations", http.StatusUnprocessableEntity},
		{"explicit skills", nil, "/api/v1/jobs/recommendations?skills=Go,%20SQL", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fb := &fakeBackend{err: tc.err}
			router := newTestRouter(&Service{Backend: fb, Skills: skillcache.NewService(skillcache.NewMemoryRepo())})
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			req.Header.Set("X-Guest-Id", "g1")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, resp.Code, resp.Body.String())
			}
		})
	}
}
