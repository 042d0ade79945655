package jobs

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"careerprep-backend/internal/backend"
	"careerprep-backend/internal/shared/server/middleware"
	"careerprep-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs", h.search)
	rg.GET("/jobs/recommendations", h.recommend)
}

func (h *Handler) search(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	list, err := h.Svc.Search(c.Request.Context(), c.Query("q"), c.Query("location"), page)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, list)
}

func (h *Handler) recommend(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	var skills []string
	if raw := strings.TrimSpace(c.Query("skills")); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				skills = append(skills, s)
			}
		}
	}
	list, err := h.Svc.Recommend(c.Request.Context(), middleware.UserIDFromContext(c), skills, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, list)
}

func writeError(c *gin.Context, err error) {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNoSkills):
		respond.Error(c, http.StatusUnprocessableEntity, "no_skills", "Upload a resume or add skills to get recommendations", nil)
	case backend.IsUnavailable(err):
		respond.Error(c, http.StatusServiceUnavailable, "backend_unavailable", "Job service is temporarily unavailable", nil)
	case errors.As(err, &apiErr), errors.Is(err, backend.ErrInvalidResponse):
		respond.Error(c, http.StatusBadGateway, "backend_error", "Job service returned an error", nil)
	default:
		respond.Internal(c, "job request failed", err)
	}
}
