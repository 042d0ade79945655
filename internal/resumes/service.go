package resumes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"careerprep-backend/internal/documents"
	"careerprep-backend/internal/shared/metrics"
	"careerprep-backend/internal/shared/telemetry"
	"careerprep-backend/internal/shared/util"
	"careerprep-backend/internal/skillcache"
	"careerprep-backend/resume/model"
	"careerprep-backend/resume/parser"
	"careerprep-backend/resume/reconcile"
	"careerprep-backend/resume/render"
	"careerprep-backend/resume/templates"
)

// Parse modes for uploaded files.
const (
	ParseModeExtract = "extract"
	ParseModeMock    = "mock"
)

// Service owns resume drafts and the parse jobs that fill them from uploads.
type Service struct {
	Drafts    DraftRepo
	Jobs      JobRepo
	Documents *documents.Service
	Skills    *skillcache.Service
	// Analyzer is optional. When set, uploads are also sent for backend analysis
	// and the skills it reports land in the skill cache.
	Analyzer   Analyzer
	Parse      parser.Func
	ParseMode  string
	ParseDelay time.Duration
	Now        func() time.Time

	// draftLocks serialises read-modify-write on one draft across handlers
	// and parse jobs. It covers a single process only.
	draftLocks util.KeyedMutex

	once   sync.Once
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Create starts a new draft, optionally seeded from a template.
func (s *Service) Create(ctx context.Context, ownerID, templateName string) (Draft, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Draft{}, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	doc := model.New()
	templateID := ""
	if name := strings.TrimSpace(templateName); name != "" {
		tpl, ok := templates.Get(name)
		if !ok {
			return Draft{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
		}
		doc = tpl
		templateID = strings.ToLower(name)
	}
	now := s.now()
	draft := Draft{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		TemplateID: templateID,
		Data:       doc,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Drafts.Create(ctx, draft); err != nil {
		return Draft{}, err
	}
	return draft, nil
}

// Get returns one draft.
func (s *Service) Get(ctx context.Context, ownerID, draftID string) (Draft, error) {
	return s.Drafts.Get(ctx, ownerID, draftID)
}

// List returns the owner's drafts, most recently edited first.
func (s *Service) List(ctx context.Context, ownerID string, limit, offset int) ([]Draft, error) {
	return s.Drafts.ListByOwner(ctx, ownerID, limit, offset)
}

// Update stores the full form state. Incomplete documents are accepted; only
// export requires a valid document.
func (s *Service) Update(ctx context.Context, ownerID, draftID string, doc model.Document) (Draft, error) {
	return s.mutate(ctx, ownerID, draftID, func(d *Draft) error {
		doc.Normalize()
		d.Data = doc
		return nil
	})
}

// Delete removes a draft.
func (s *Service) Delete(ctx context.Context, ownerID, draftID string) error {
	return s.Drafts.Delete(ctx, ownerID, draftID)
}

// ApplyTemplate overwrites the whole draft with a canned template.
func (s *Service) ApplyTemplate(ctx context.Context, ownerID, draftID, name string) (Draft, error) {
	tpl, ok := templates.Get(name)
	if !ok {
		return Draft{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	return s.mutate(ctx, ownerID, draftID, func(d *Draft) error {
		d.Data = tpl
		d.TemplateID = strings.ToLower(strings.TrimSpace(name))
		return nil
	})
}

// ApplyGenerated parses generated resume text and reconciles it into the draft.
func (s *Service) ApplyGenerated(ctx context.Context, ownerID, draftID, text string, mode reconcile.Mode) (Draft, error) {
	if strings.TrimSpace(text) == "" {
		return Draft{}, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}
	parsed := s.parse(text)
	if parsed.IsEmpty() {
		return Draft{}, ErrNothingParsed
	}
	draft, err := s.mutate(ctx, ownerID, draftID, func(d *Draft) error {
		d.Data = reconcile.Apply(mode, d.Data, parsed)
		return nil
	})
	if err != nil {
		return Draft{}, err
	}
	metrics.IncReconciliation(string(mode))
	s.cacheSkills(ctx, ownerID, draft.Data.Skills)
	return draft, nil
}

// Export renders a named draft as text or PDF. Malformed links are logged, not blocking.
func (s *Service) Export(ctx context.Context, ownerID, draftID, format string) (Export, error) {
	draft, err := s.Drafts.Get(ctx, ownerID, draftID)
	if err != nil {
		return Export{}, err
	}
	if err := draft.Data.Validate(); err != nil {
		return Export{}, err
	}
	for _, problem := range draft.Data.FieldProblems() {
		telemetry.Warn("resume.export_field_problem", map[string]any{
			"draft_id": draftID,
			"err":      problem,
		})
	}
	base := exportBaseName(draft.Data.PersonalInfo.Name)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text", "txt":
		return Export{
			FileName:    base + ".txt",
			ContentType: "text/plain; charset=utf-8",
			Data:        []byte(render.Text(draft.Data)),
		}, nil
	case "pdf":
		data, err := render.PDF(draft.Data)
		if err != nil {
			return Export{}, fmt.Errorf("render pdf: %w", err)
		}
		return Export{FileName: base + ".pdf", ContentType: "application/pdf", Data: data}, nil
	default:
		return Export{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Export is a rendered file ready for download.
type Export struct {
	FileName    string
	ContentType string
	Data        []byte
}

func (s *Service) mutate(ctx context.Context, ownerID, draftID string, apply func(*Draft) error) (Draft, error) {
	unlock := s.draftLocks.Lock(ownerID + "|" + draftID)
	defer unlock()

	draft, err := s.Drafts.Get(ctx, ownerID, draftID)
	if err != nil {
		return Draft{}, err
	}
	if err := apply(&draft); err != nil {
		return Draft{}, err
	}
	draft.Data.Normalize()
	draft.UpdatedAt = s.now()
	if err := s.Drafts.Update(ctx, draft); err != nil {
		return Draft{}, err
	}
	return draft, nil
}

func (s *Service) parse(text string) model.Document {
	if s.Parse != nil {
		return s.Parse(text)
	}
	return parser.Parse(text)
}

func (s *Service) cacheSkills(ctx context.Context, ownerID string, skills []string) {
	if s.Skills == nil || len(skills) == 0 {
		return
	}
	if _, err := s.Skills.AddSkills(ctx, ownerID, skills); err != nil {
		telemetry.Warn("resume.skill_cache_failed", map[string]any{
			"user_id": ownerID,
			"err":     err,
		})
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// IsValidationError reports whether err came from document validation.
func IsValidationError(err error) bool {
	return errors.Is(err, model.ErrNameRequired) || errors.Is(err, model.ErrInvalidField)
}

func exportBaseName(name string) string {
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
	if slug == "" {
		return "resume"
	}
	return slug + "_resume"
}
