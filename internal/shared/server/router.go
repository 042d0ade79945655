package server

import (
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"careerprep-backend/internal/services/health"
	"careerprep-backend/internal/shared/config"
	"careerprep-backend/internal/shared/metrics"
	"careerprep-backend/internal/shared/server/middleware"
	"careerprep-backend/internal/shared/server/respond"
)

// Rate limit groups.
const (
	GroupDefault   = "DEFAULT"
	GroupPolling   = "POLLING"
	GroupExpensive = "EXPENSIVE"
)

// RouteRegistrar is implemented by every feature handler.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps carries everything NewRouter wires.
type RouterDeps struct {
	Config   config.Config
	Health   *health.Service
	Handlers []RouteRegistrar
	Limiter  *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(nil, nil)
	}
	r.GET("/api/v1/health", func(c *gin.Context) {
		status := healthSvc.Status(c.Request.Context())
		code := http.StatusOK
		if !status.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})

	api := r.Group("/api/v1",
		middleware.Identity(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:        RateLimitRules(deps.Config),
			DefaultGroup: GroupDefault,
			GroupFor:     RateLimitGroup,
			Limiter:      deps.Limiter,
		}),
	)
	for _, h := range deps.Handlers {
		if h != nil {
			h.RegisterRoutes(api)
		}
	}
	return r
}

// RateLimitRules derives per-group token buckets from the configured default.
// Polling gets double the budget, backend-heavy calls a fifth.
func RateLimitRules(cfg config.Config) map[string]middleware.RateLimitRule {
	rps, burst := cfg.RateLimitRPS, cfg.RateLimitBurst
	if rps <= 0 || burst <= 0 {
		return nil
	}
	return map[string]middleware.RateLimitRule{
		GroupDefault:   {Rate: rps, Burst: burst},
		GroupPolling:   {Rate: rps * 2, Burst: burst * 2},
		GroupExpensive: {Rate: math.Max(rps/5, 0.2), Burst: max(burst/4, 1)},
	}
}

// RateLimitGroup classifies a request by its matched route.
func RateLimitGroup(c *gin.Context) string {
	route := c.FullPath()
	method := c.Request.Method
	switch {
	case method == http.MethodGet && strings.HasPrefix(route, "/api/v1/resumes/uploads/"):
		return GroupPolling
	case method == http.MethodGet && route == "/api/v1/assessments/:id":
		return GroupPolling
	case method != http.MethodPost:
		return GroupDefault
	case route == "/api/v1/assessments",
		route == "/api/v1/assessments/:id/submit",
		route == "/api/v1/assessments/:id/retry",
		route == "/api/v1/assessments/:id/report",
		route == "/api/v1/resumes/:id/upload",
		route == "/api/v1/transcriptions":
		return GroupExpensive
	default:
		return GroupDefault
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
