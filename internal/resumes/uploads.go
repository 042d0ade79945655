package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"careerprep-backend/internal/backend"
	"careerprep-backend/internal/documents"
	"careerprep-backend/internal/extract"
	"careerprep-backend/internal/shared/metrics"
	"careerprep-backend/internal/shared/telemetry"
	"careerprep-backend/internal/skillcache"
	"careerprep-backend/resume/model"
	"careerprep-backend/resume/templates"
)

// Analyzer submits an uploaded resume for backend analysis.
type Analyzer interface {
	UploadResume(ctx context.Context, fileName string, r io.Reader) (backend.ResumeUpload, error)
	WaitForAnalysis(ctx context.Context, resumeID string, interval time.Duration) (backend.AnalysisStatus, error)
}

const (
	analysisTimeout      = 2 * time.Minute
	analysisPollInterval = 2 * time.Second
)

// StartUpload stores the file and schedules a parse job that will replace the
// draft content once it runs. The returned job is PENDING.
func (s *Service) StartUpload(ctx context.Context, ownerID, draftID, fileName string, size int64, r io.Reader) (ParseJob, error) {
	if s.Documents == nil {
		return ParseJob{}, errors.New("document storage is not configured")
	}
	if _, err := s.Drafts.Get(ctx, ownerID, draftID); err != nil {
		return ParseJob{}, err
	}
	doc, err := s.Documents.Upload(ctx, ownerID, fileName, size, r)
	if err != nil {
		return ParseJob{}, err
	}

	job := ParseJob{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		DocumentID: doc.ID,
		DraftID:    draftID,
		Status:     JobPending,
		CreatedAt:  s.now(),
	}
	if err := s.Jobs.Create(ctx, job); err != nil {
		return ParseJob{}, err
	}
	s.recordUpload(ctx, ownerID, doc)
	logJob(job, nil)

	bg := s.background()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runJob(bg, job, doc)
	}()
	return job, nil
}

// GetJob returns a parse job for polling.
func (s *Service) GetJob(ctx context.Context, ownerID, jobID string) (ParseJob, error) {
	return s.Jobs.Get(ctx, ownerID, jobID)
}

// Shutdown cancels pending parse jobs and waits for running ones to exit.
func (s *Service) Shutdown(ctx context.Context) error {
	s.background()
	s.cancel()
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) background() context.Context {
	s.once.Do(func() {
		s.ctx, s.cancel = context.WithCancel(context.Background())
	})
	return s.ctx
}

func (s *Service) runJob(ctx context.Context, job ParseJob, doc documents.Document) {
	start := time.Now()

	delay := s.ParseDelay
	if delay < 0 {
		delay = 0
	}
	timer := time.NewTimer(delay)
	select {
	case <-ctx.Done():
		timer.Stop()
		s.failJob(job, "cancelled", "parse cancelled")
		return
	case <-timer.C:
	}

	startedAt := s.now()
	job.Status = JobInProgress
	job.StartedAt = &startedAt
	if err := s.Jobs.Update(ctx, job); err != nil {
		telemetry.Error("resume.parse_job.update_failed", map[string]any{"job_id": job.ID, "err": err})
	}
	logJob(job, nil)

	parsed, source := s.contentFor(ctx, job, doc)
	draft, err := s.mutate(ctx, job.OwnerID, job.DraftID, func(d *Draft) error {
		d.Data = parsed
		d.TemplateID = ""
		return nil
	})
	if err != nil {
		code := "draft_update_failed"
		if errors.Is(err, ErrNotFound) {
			code = "draft_not_found"
		}
		s.failJob(job, code, err.Error())
		return
	}
	s.cacheSkills(ctx, job.OwnerID, draft.Data.Skills)
	if s.Analyzer != nil && s.ParseMode != ParseModeMock {
		s.analyze(ctx, job, doc)
	}

	completedAt := s.now()
	job.Status = JobComplete
	job.Source = source
	job.CompletedAt = &completedAt
	if err := s.Jobs.Update(ctx, job); err != nil {
		telemetry.Error("resume.parse_job.update_failed", map[string]any{"job_id": job.ID, "err": err})
	}
	metrics.IncParseJob(JobComplete)
	metrics.ObserveParseDurationMs(float64(time.Since(start).Milliseconds()))
	logJob(job, nil)
}

// contentFor extracts and parses the upload. Any failure or an empty result
// falls back to the bundled mock resume.
func (s *Service) contentFor(ctx context.Context, job ParseJob, doc documents.Document) (model.Document, string) {
	if s.ParseMode == ParseModeMock {
		return templates.MockResumeData(), SourceMock
	}
	text, err := extract.ExtractText(ctx, s.Documents.Store, doc.StorageKey, doc.MimeType, doc.FileName)
	if err != nil {
		telemetry.Warn("resume.parse_job.fallback", map[string]any{
			"job_id":      job.ID,
			"document_id": doc.ID,
			"reason":      "extract_failed",
			"err":         err,
		})
		return templates.MockResumeData(), SourceMock
	}
	parsed := s.parse(text)
	if parsed.IsEmpty() {
		telemetry.Warn("resume.parse_job.fallback", map[string]any{
			"job_id":      job.ID,
			"document_id": doc.ID,
			"reason":      "nothing_parsed",
		})
		return templates.MockResumeData(), SourceMock
	}
	return parsed, SourceExtracted
}

// analyze is best effort; its failures never fail the parse job.
func (s *Service) analyze(ctx context.Context, job ParseJob, doc documents.Document) {
	content, err := s.Documents.ReadContent(ctx, doc)
	if err != nil {
		telemetry.Warn("resume.analysis.skipped", map[string]any{"job_id": job.ID, "err": err})
		return
	}
	ctx, cancel := context.WithTimeout(ctx, analysisTimeout)
	defer cancel()

	upload, err := s.Analyzer.UploadResume(ctx, doc.FileName, bytes.NewReader(content))
	if err != nil {
		telemetry.Warn("resume.analysis.upload_failed", map[string]any{"job_id": job.ID, "err": err})
		return
	}
	status, err := s.Analyzer.WaitForAnalysis(ctx, upload.ResumeID, analysisPollInterval)
	if err != nil {
		telemetry.Warn("resume.analysis.failed", map[string]any{
			"job_id":    job.ID,
			"resume_id": upload.ResumeID,
			"err":       err,
		})
		return
	}
	s.cacheSkills(ctx, job.OwnerID, status.Skills)
}

func (s *Service) failJob(job ParseJob, code, message string) {
	// The job context may already be cancelled; the final status must still land.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	completedAt := s.now()
	job.Status = JobFailed
	job.ErrorCode = code
	job.ErrorMessage = message
	job.CompletedAt = &completedAt
	if err := s.Jobs.Update(ctx, job); err != nil {
		telemetry.Error("resume.parse_job.update_failed", map[string]any{"job_id": job.ID, "err": err})
	}
	metrics.IncParseJob(JobFailed)
	logJob(job, fmt.Errorf("%s: %s", code, message))
}

func (s *Service) recordUpload(ctx context.Context, ownerID string, doc documents.Document) {
	if s.Skills == nil {
		return
	}
	err := s.Skills.SetLatestUpload(ctx, ownerID, skillcache.UploadInfo{
		DocumentID: doc.ID,
		FileName:   doc.FileName,
		UploadedAt: doc.CreatedAt,
	})
	if err != nil {
		telemetry.Warn("resume.skill_cache_failed", map[string]any{"user_id": ownerID, "err": err})
	}
}

func logJob(job ParseJob, err error) {
	fields := map[string]any{
		"job_id":      job.ID,
		"draft_id":    job.DraftID,
		"document_id": job.DocumentID,
		"user_id":     job.OwnerID,
		"status":      job.Status,
	}
	if job.Source != "" {
		fields["source"] = job.Source
	}
	if err != nil {
		fields["err"] = err
		telemetry.Error("resume.parse_job.status", fields)
		return
	}
	telemetry.Info("resume.parse_job.status", fields)
}
