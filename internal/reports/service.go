// Package reports assembles post-assessment analysis and exports it as text or PDF.
package reports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"careerprep-backend/internal/assessments"
	"careerprep-backend/internal/backend"
	"careerprep-backend/internal/shared/metrics"
	"careerprep-backend/internal/shared/storage/object"
	"careerprep-backend/internal/shared/telemetry"
	"careerprep-backend/internal/shared/util"
	"careerprep-backend/internal/skillcache"
)

// Sessions looks up evaluated assessment sessions.
type Sessions interface {
	Get(ctx context.Context, userID, sessionID string) (assessments.Session, error)
}

// Analyzer runs the two analysis endpoints.
type Analyzer interface {
	AnalyzePerformanceGaps(ctx context.Context, req backend.PerformanceGapRequest) (backend.PerformanceGapAnalysis, error)
	RecommendSkills(ctx context.Context, req backend.SkillRecommendationRequest) (backend.SkillRecommendations, error)
}

// Service builds reports and keeps the latest one per session in memory,
// alongside the sessions themselves.
type Service struct {
	Sessions Sessions
	Analyzer Analyzer
	Skills   *skillcache.Service
	// Store receives exported PDFs under reports/. Optional.
	Store object.ObjectStore
	Now   func() time.Time

	mu      sync.RWMutex
	reports map[string]Report
}

// Assemble builds the report for an evaluated session. The gap analysis runs
// first and feeds its weak areas into the recommendations call; a failure in
// either is recorded on the report and never fails the whole assembly.
func (s *Service) Assemble(ctx context.Context, ownerID, sessionID string) (Report, error) {
	sess, err := s.Sessions.Get(ctx, ownerID, sessionID)
	if err != nil {
		if errors.Is(err, assessments.ErrNotFound) {
			return Report{}, ErrNotFound
		}
		return Report{}, err
	}
	if !sess.Completed || sess.Result == nil {
		return Report{}, ErrNotEvaluated
	}

	report := Report{
		SessionID:     sess.ID,
		OwnerID:       ownerID,
		Kind:          sess.Kind,
		Stats:         ComputeStats(*sess.Result, sess.ElapsedSeconds()),
		Result:        *sess.Result,
		SectionErrors: map[string]string{},
		GeneratedAt:   s.now(),
	}

	if s.Analyzer == nil {
		report.SectionErrors[SectionGaps] = "analysis backend is not configured"
		report.SectionErrors[SectionRecommendations] = "analysis backend is not configured"
	} else {
		s.runGaps(ctx, &report)
		s.runRecommendations(ctx, &report)
	}

	s.mu.Lock()
	if s.reports == nil {
		s.reports = make(map[string]Report)
	}
	s.reports[reportKey(ownerID, sessionID)] = report
	s.mu.Unlock()

	telemetry.Info("report.assembled", map[string]any{
		"session_id":     sessionID,
		"user_id":        ownerID,
		"score":          report.Stats.OverallScore,
		"section_errors": len(report.SectionErrors),
	})
	return report, nil
}

// Get returns the last assembled report for the session.
func (s *Service) Get(ctx context.Context, ownerID, sessionID string) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[reportKey(ownerID, sessionID)]
	if !ok {
		return Report{}, ErrNotFound
	}
	return r, nil
}

// Export renders the assembled report. PDFs are also written to the object store.
func (s *Service) Export(ctx context.Context, ownerID, sessionID, format string) (Export, error) {
	r, err := s.Get(ctx, ownerID, sessionID)
	if err != nil {
		return Export{}, err
	}
	base := "assessment_report_" + r.GeneratedAt.Format("20060102")
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text", "txt":
		return Export{
			FileName:    base + ".txt",
			ContentType: "text/plain; charset=utf-8",
			Data:        []byte(Text(r)),
		}, nil
	case "pdf":
		data, err := PDF(r)
		if err != nil {
			return Export{}, err
		}
		out := Export{FileName: base + ".pdf", ContentType: "application/pdf", Data: data}
		out.StorageKey = s.save(ctx, ownerID, sessionID, data)
		return out, nil
	default:
		return Export{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func (s *Service) runGaps(ctx context.Context, r *Report) {
	gaps, err := s.Analyzer.AnalyzePerformanceGaps(ctx, backend.PerformanceGapRequest{
		Kind:  r.Kind,
		Stats: r.Stats,
		Wrong: IncorrectQuestionIDs(r.Result),
	})
	if err != nil {
		s.sectionFailed(r, SectionGaps, err)
		return
	}
	r.Gaps = &gaps
	metrics.IncReportSection(SectionGaps, "ok")
}

func (s *Service) runRecommendations(ctx context.Context, r *Report) {
	req := backend.SkillRecommendationRequest{Stats: r.Stats}
	if s.Skills != nil {
		if skills, err := s.Skills.Skills(ctx, r.OwnerID); err == nil {
			req.Skills = skills
		}
	}
	if r.Gaps != nil {
		for _, g := range r.Gaps.Gaps {
			req.WeakAreas = append(req.WeakAreas, g.Area)
		}
	}
	recs, err := s.Analyzer.RecommendSkills(ctx, req)
	if err != nil {
		s.sectionFailed(r, SectionRecommendations, err)
		return
	}
	r.Recommendations = &recs
	metrics.IncReportSection(SectionRecommendations, "ok")
}

func (s *Service) sectionFailed(r *Report, section string, err error) {
	banner := assessments.CategorizeError(err)
	r.SectionErrors[section] = banner.Title
	metrics.IncReportSection(section, "failed")
	telemetry.Error("report.section_failed", map[string]any{
		"session_id":  r.SessionID,
		"user_id":     r.OwnerID,
		"section":     section,
		"banner_kind": string(banner.Kind),
		"err":         err,
	})
}

// save stores the PDF and returns its key, or "" when storing failed.
func (s *Service) save(ctx context.Context, ownerID, sessionID string, data []byte) string {
	if s.Store == nil {
		return ""
	}
	key := path.Join("reports", util.OwnerKey(ownerID), sessionID+".pdf")
	if _, err := s.Store.SaveWithKey(ctx, key, "application/pdf", bytes.NewReader(data)); err != nil {
		telemetry.Warn("report.store_failed", map[string]any{
			"session_id": sessionID,
			"key":        key,
			"err":        err,
		})
		return ""
	}
	return key
}

func reportKey(ownerID, sessionID string) string {
	return ownerID + "|" + sessionID
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
