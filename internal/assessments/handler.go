package assessments

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"careerprep-backend/internal/shared/server/middleware"
	"careerprep-backend/internal/shared/server/respond"
)

// Handler exposes assessment sessions over HTTP.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches assessment routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/assessments", h.start)
	rg.GET("/assessments/:id", h.get)
	rg.POST("/assessments/:id/answers", h.answer)
	rg.POST("/assessments/:id/navigate", h.navigate)
	rg.POST("/assessments/:id/flags", h.flag)
	rg.POST("/assessments/:id/submit", h.submit)
	rg.POST("/assessments/:id/retry", h.retry)
	rg.POST("/assessments/:id/retake", h.retake)
	rg.DELETE("/assessments/:id", h.delete)
}

type startRequest struct {
	Kind             string     `json:"kind" binding:"omitempty,oneof=aptitude mcq coding behavioral scenario"`
	Questions        []Question `json:"questions" binding:"omitempty,max=100,dive"`
	Count            int        `json:"count" binding:"omitempty,min=1,max=50"`
	Difficulty       string     `json:"difficulty"`
	TimeLimitSeconds int        `json:"timeLimitSeconds" binding:"omitempty,min=1,max=14400"`
}

type answerRequest struct {
	QuestionID string  `json:"questionId" binding:"required"`
	Answer     *Answer `json:"answer" binding:"required"`
}

type indexRequest struct {
	Index *int `json:"index" binding:"required"`
}

func (h *Handler) start(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid assessment request", nil)
		return
	}
	sess, err := h.Svc.Start(c.Request.Context(), middleware.UserIDFromContext(c), StartRequest{
		Kind:             req.Kind,
		Questions:        req.Questions,
		Count:            req.Count,
		Difficulty:       req.Difficulty,
		TimeLimitSeconds: req.TimeLimitSeconds,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		banner := CategorizeError(err)
		respond.Error(c, http.StatusBadGateway, "generation_failed", banner.Title, banner)
		return
	}
	c.Set("sessionId", sess.ID)
	respond.JSON(c, http.StatusCreated, ToResponse(sess))
}

func (h *Handler) get(c *gin.Context) {
	c.Set("sessionId", c.Param("id"))
	sess, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, ToResponse(sess))
}

func (h *Handler) answer(c *gin.Context) {
	c.Set("sessionId", c.Param("id"))
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "questionId and answer are required", nil)
		return
	}
	sess, err := h.Svc.SelectAnswer(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), req.QuestionID, *req.Answer)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, ToResponse(sess))
}

func (h *Handler) navigate(c *gin.Context) {
	c.Set("sessionId", c.Param("id"))
	var req indexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "index is required", nil)
		return
	}
	sess, err := h.Svc.Navigate(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), *req.Index)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, ToResponse(sess))
}

func (h *Handler) flag(c *gin.Context) {
	c.Set("sessionId", c.Param("id"))
	var req indexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "index is required", nil)
		return
	}
	sess, err := h.Svc.ToggleFlag(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), *req.Index)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, ToResponse(sess))
}

func (h *Handler) submit(c *gin.Context) {
	c.Set("sessionId", c.Param("id"))
	sess, err := h.Svc.Submit(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	writeEvaluation(c, sess, err)
}

func (h *Handler) retry(c *gin.Context) {
	c.Set("sessionId", c.Param("id"))
	sess, err := h.Svc.RetryEvaluation(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	writeEvaluation(c, sess, err)
}

func (h *Handler) retake(c *gin.Context) {
	c.Set("sessionId", c.Param("id"))
	sess, err := h.Svc.Retake(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, ToResponse(sess))
}

func (h *Handler) delete(c *gin.Context) {
	c.Set("sessionId", c.Param("id"))
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// writeEvaluation returns the session with its banner when scoring failed, so
// the client can render the guidance and offer a retry.
func writeEvaluation(c *gin.Context, sess Session, err error) {
	if err == nil {
		respond.OK(c, ToResponse(sess))
		return
	}
	if errors.Is(err, ErrEvaluationFailed) && sess.ID != "" {
		respond.Error(c, http.StatusBadGateway, "evaluation_failed", "evaluation failed", ToResponse(sess))
		return
	}
	writeError(c, err)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "assessment not found", nil)
	case errors.Is(err, ErrInvalidOptionLetter):
		respond.Error(c, http.StatusUnprocessableEntity, "invalid_answer", err.Error(), nil)
	case errors.Is(err, ErrUnknownQuestion), errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrSessionCompleted),
		errors.Is(err, ErrEvaluationInProgress),
		errors.Is(err, ErrAlreadyEvaluated),
		errors.Is(err, ErrNothingToRetry):
		respond.Error(c, http.StatusConflict, "conflict", err.Error(), nil)
	case errors.Is(err, ErrRetryLimit):
		respond.Error(c, http.StatusTooManyRequests, "retry_limit", "Maximum retry attempts reached", nil)
	default:
		respond.Internal(c, "assessment request failed", err)
	}
}
