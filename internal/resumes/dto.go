package resumes

import (
	"time"

	"careerprep-backend/resume/model"
)

// DraftResponse is the JSON shape of a draft.
type DraftResponse struct {
	DraftID    string         `json:"draftId"`
	TemplateID string         `json:"templateId,omitempty"`
	Data       model.Document `json:"data"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// ParseJobResponse is the JSON shape of a parse job.
type ParseJobResponse struct {
	JobID       string         `json:"jobId"`
	DraftID     string         `json:"draftId"`
	DocumentID  string         `json:"documentId"`
	Status      string         `json:"status"`
	Source      string         `json:"source,omitempty"`
	Error       *ParseJobError `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	StartedAt   *time.Time     `json:"startedAt,omitempty"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
}

// ParseJobError explains a FAILED job.
type ParseJobError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toDraftResponse(d Draft) DraftResponse {
	data := d.Data
	data.Normalize()
	return DraftResponse{
		DraftID:    d.ID,
		TemplateID: d.TemplateID,
		Data:       data,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func toJobResponse(j ParseJob) ParseJobResponse {
	resp := ParseJobResponse{
		JobID:       j.ID,
		DraftID:     j.DraftID,
		DocumentID:  j.DocumentID,
		Status:      j.Status,
		Source:      j.Source,
		CreatedAt:   j.CreatedAt,
		StartedAt:   j.StartedAt,
		CompletedAt: j.CompletedAt,
	}
	if j.Status == JobFailed {
		resp.Error = &ParseJobError{Code: j.ErrorCode, Message: j.ErrorMessage}
	}
	return resp
}
