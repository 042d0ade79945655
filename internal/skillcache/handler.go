package skillcache

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"careerprep-backend/internal/shared/server/middleware"
	"careerprep-backend/internal/shared/server/respond"
)

// Handler exposes the skill cache over HTTP.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches skill cache routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/skills", h.get)
	rg.PUT("/skills", h.put)
	rg.DELETE("/skills", h.clear)
}

type putSkillsRequest struct {
	Skills []string `json:"skills" binding:"required"`
}

func (h *Handler) get(c *gin.Context) {
	snap, err := h.Svc.Snapshot(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load skills", nil)
		return
	}
	respond.JSON(c, http.StatusOK, snap)
}

func (h *Handler) put(c *gin.Context) {
	var req putSkillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "skills must be a list", nil)
		return
	}
	skills, err := h.Svc.SetSkills(c.Request.Context(), middleware.UserIDFromContext(c), req.Skills)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save skills", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"skills": skills})
}

func (h *Handler) clear(c *gin.Context) {
	if err := h.Svc.Clear(c.Request.Context(), middleware.UserIDFromContext(c)); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to clear skills", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
