package transcription

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/transcriptions", h.transcribe)
	rg.GET("/transcriptions/media-errors/:name", h.mediaError)
}

func (h *Handler) transcribe(c *gin.Context) {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "audio file is required", nil)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read audio", nil)
		return
	}
	defer f.Close()

	res, err := h.Svc.Transcribe(c.Request.Context(), middleware.UserIDFromContext(c), fileHeader.Filename, fileHeader.Size, f)
	if err != nil {
		switch {
		case errors.Is(err, ErrBusy):
			respond.Error(c, http.StatusConflict, "transcription_in_progress", "A transcription is already running", nil)
		case errors.Is(err, ErrTooLarge):
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "Audio file is too large", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Internal(c, "transcription failed", err)
		}
		return
	}
	respond.OK(c, res)
}

func (h *Handler) mediaError(c *gin.Context) {
	me, _ := DescribeMediaError(c.Param("name"))
	respond.OK(c, me)
}
