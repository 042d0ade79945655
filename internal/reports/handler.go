package reports

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"careerprep-backend/internal/shared/server/middleware"
	"careerprep-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches report routes under the assessment they belong to.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/assessments/:id/report", h.assemble)
	rg.GET("/assessments/:id/report", h.get)
	rg.GET("/assessments/:id/report/export", h.export)
}

func (h *Handler) assemble(c *gin.Context) {
	c.Set("sessionId", c.Param("id"))
	r, err := h.Svc.Assemble(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(r))
}

func (h *Handler) get(c *gin.Context) {
	c.Set("sessionId", c.Param("id"))
	r, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(r))
}

func (h *Handler) export(c *gin.Context) {
	c.Set("sessionId", c.Param("id"))
	out, err := h.Svc.Export(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), c.Query("format"))
	if err != nil {
		writeError(c, err)
		return
	}
	if out.StorageKey != "" {
		c.Header("X-Storage-Key", out.StorageKey)
	}
	respond.Attachment(c, out.FileName, out.ContentType, out.Data)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "report not found", nil)
	case errors.Is(err, ErrNotEvaluated):
		respond.Error(c, http.StatusConflict, "not_evaluated", "Submit the assessment before requesting a report", nil)
	case errors.Is(err, ErrUnknownFormat):
		respond.Error(c, http.StatusBadRequest, "validation_error", "format must be text or pdf", nil)
	default:
		respond.Internal(c, "report request failed", err)
	}
}
