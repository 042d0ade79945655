package resumes

import (
	"time"

	"careerprep-backend/resume/model"
)

// Parse job statuses.
const (
	JobPending    = "PENDING"
	JobInProgress = "IN_PROGRESS"
	JobComplete   = "COMPLETE"
	JobFailed     = "FAILED"
)

// Parse job sources record where the draft content came from.
const (
	SourceExtracted = "extracted"
	SourceMock      = "mock"
)

// Draft is the server-held form state of one resume being edited.
type Draft struct {
	ID         string
	OwnerID    string
	TemplateID string
	Data       model.Document
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ParseJob tracks an uploaded file being turned into draft content.
type ParseJob struct {
	ID           string
	OwnerID      string
	DocumentID   string
	DraftID      string
	Status       string
	Source       string
	ErrorCode    string
	ErrorMessage string
	CreatedAt    time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
}

// Terminal reports whether the job has finished.
func (j ParseJob) Terminal() bool {
	return j.Status == JobComplete || j.Status == JobFailed
}
