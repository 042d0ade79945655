package resumes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"careerprep-backend/internal/documents"
	"careerprep-backend/internal/shared/server/middleware"
	"careerprep-backend/internal/shared/server/respond"
	"careerprep-backend/resume/model"
	"careerprep-backend/resume/reconcile"
	"careerprep-backend/resume/templates"
)

// Handler exposes resume drafts over HTTP.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resume-templates", h.listTemplates)
	rg.POST("/resumes", h.create)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/uploads/:jobId", h.getJob)
	rg.GET("/resumes/:id", h.get)
	rg.PUT("/resumes/:id", h.update)
	rg.DELETE("/resumes/:id", h.delete)
	rg.POST("/resumes/:id/template", h.applyTemplate)
	rg.POST("/resumes/:id/generated", h.applyGenerated)
	rg.POST("/resumes/:id/upload", h.upload)
	rg.GET("/resumes/:id/export", h.export)
}

type createRequest struct {
	Template string `json:"template"`
}

type templateRequest struct {
	Template string `json:"template" binding:"required"`
}

type generatedRequest struct {
	Text string `json:"text" binding:"required"`
	Mode string `json:"mode"`
}

func (h *Handler) listTemplates(c *gin.Context) {
	respond.OK(c, gin.H{"templates": templates.Names()})
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}
	draft, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), req.Template)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Set("draftId", draft.ID)
	respond.JSON(c, http.StatusCreated, toDraftResponse(draft))
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	drafts, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), limit, offset)
	if err != nil {
		respond.Internal(c, "failed to list resumes", err)
		return
	}
	out := make([]DraftResponse, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, toDraftResponse(d))
	}
	respond.OK(c, out)
}

func (h *Handler) get(c *gin.Context) {
	c.Set("draftId", c.Param("id"))
	draft, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, toDraftResponse(draft))
}

func (h *Handler) update(c *gin.Context) {
	c.Set("draftId", c.Param("id"))
	var doc model.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid resume document", nil)
		return
	}
	draft, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), doc)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, toDraftResponse(draft))
}

func (h *Handler) delete(c *gin.Context) {
	c.Set("draftId", c.Param("id"))
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) applyTemplate(c *gin.Context) {
	c.Set("draftId", c.Param("id"))
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "template is required", nil)
		return
	}
	draft, err := h.Svc.ApplyTemplate(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), req.Template)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, toDraftResponse(draft))
}

func (h *Handler) applyGenerated(c *gin.Context) {
	c.Set("draftId", c.Param("id"))
	var req generatedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "text is required", nil)
		return
	}
	mode, err := reconcile.ParseMode(req.Mode)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "mode must be merge or replace", nil)
		return
	}
	draft, err := h.Svc.ApplyGenerated(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), req.Text, mode)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, toDraftResponse(draft))
}

func (h *Handler) upload(c *gin.Context) {
	c.Set("draftId", c.Param("id"))
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if h.Svc.Documents != nil {
		if err := h.Svc.Documents.ValidateUpload(fileHeader.Filename, fileHeader.Size); err != nil {
			documents.WriteUploadError(c, err)
			return
		}
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	job, err := h.Svc.StartUpload(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), fileHeader.Filename, fileHeader.Size, file)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeError(c, err)
			return
		}
		documents.WriteUploadError(c, err)
		return
	}
	c.Set("jobId", job.ID)
	respond.JSON(c, http.StatusAccepted, toJobResponse(job))
}

func (h *Handler) getJob(c *gin.Context) {
	c.Set("jobId", c.Param("jobId"))
	job, err := h.Svc.GetJob(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("jobId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, toJobResponse(job))
}

func (h *Handler) export(c *gin.Context) {
	c.Set("draftId", c.Param("id"))
	out, err := h.Svc.Export(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), c.Query("format"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.Attachment(c, out.FileName, out.ContentType, out.Data)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, ErrUnknownTemplate):
		respond.Error(c, http.StatusBadRequest, "unknown_template", err.Error(), gin.H{"templates": templates.Names()})
	case errors.Is(err, ErrUnknownFormat):
		respond.Error(c, http.StatusBadRequest, "validation_error", "format must be text or pdf", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNothingParsed):
		// Parser details stay internal.
		respond.Error(c, http.StatusUnprocessableEntity, "parse_failed", "Could not read the generated resume text", nil)
	case IsValidationError(err):
		respond.Error(c, http.StatusUnprocessableEntity, "resume_incomplete", err.Error(), nil)
	default:
		respond.Internal(c, "resume request failed", err)
	}
}
