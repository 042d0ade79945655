package reports

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerprep-backend/internal/assessments"
	"careerprep-backend/internal/backend"
	"careerprep-backend/internal/shared/storage/object/local"
	"careerprep-backend/internal/shared/util"
	"careerprep-backend/internal/skillcache"
)

type fakeSessions map[string]assessments.Session

func (f fakeSessions) Get(ctx context.Context, userID, sessionID string) (assessments.Session, error) {
	sess, ok := f[sessionID]
	if !ok || sess.UserID != userID {
		return assessments.Session{}, assessments.ErrNotFound
	}
	return sess, nil
}

type fakeAnalyzer struct {
	calls  []string
	gapReq backend.PerformanceGapRequest
	recReq backend.SkillRecommendationRequest
	gapErr error
	recErr error
	gaps   backend.PerformanceGapAnalysis
	recs   backend.SkillRecommendations
}

func (f *fakeAnalyzer) AnalyzePerformanceGaps(ctx context.Context, req backend.PerformanceGapRequest) (backend.PerformanceGapAnalysis, error) {
	f.calls = append(f.calls, SectionGaps)
	f.gapReq = req
	return f.gaps, f.gapErr
}

func (f *fakeAnalyzer) RecommendSkills(ctx context.Context, req backend.SkillRecommendationRequest) (backend.SkillRecommendations, error) {
	f.calls = append(f.calls, SectionRecommendations)
	f.recReq = req
	return f.recs, f.recErr
}

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func evaluatedSessions() fakeSessions {
	return fakeSessions{
		"s1": {
			ID:            "s1",
			UserID:        "user:1",
			Kind:          "aptitude",
			Completed:     true,
			TimeLimit:     600,
			TimeRemaining: 480,
			Result: &backend.EvaluationResponse{
				Score:          50,
				TotalQuestions: 4,
				CorrectAnswers: 2,
				Results: []backend.QuestionResult{
					{QuestionID: "q1", Correct: true},
					{QuestionID: "q2"},
					{QuestionID: "q3", Correct: true},
					{QuestionID: "q4"},
				},
			},
		},
		"open": {ID: "open", UserID: "user:1", Kind: "mcq"},
	}
}

func sampleAnalyzer() *fakeAnalyzer {
	return &fakeAnalyzer{
		gaps: backend.PerformanceGapAnalysis{
			Summary: "## Overview\nYou did **well** on logic.",
			Gaps:    []backend.Gap{{Area: "Probability", Severity: "high", Detail: "Review *conditional* probability."}},
		},
		recs: backend.SkillRecommendations{Recommendations: []backend.SkillRecommendation{
			{Skill: "Statistics", Reason: "Closes the probability gap", Resources: []string{"[Khan Academy](https://khanacademy.org)"}},
		}},
	}
}

func newTestService(analyzer Analyzer) *Service {
	return &Service{
		Sessions: evaluatedSessions(),
		Analyzer: analyzer,
		Now:      func() time.Time { return fixedNow },
	}
}

func TestAssembleRunsSectionsInOrder(t *testing.T) {
	fa := sampleAnalyzer()
	svc := newTestService(fa)
	svc.Skills = skillcache.NewService(skillcache.NewMemoryRepo())
	ctx := context.Background()
	_, _ = svc.Skills.SetSkills(ctx, "user:1", []string{"Excel"})

	r, err := svc.Assemble(ctx, "user:1", "s1")
	require.NoError(t, err)

	assert.Equal(t, []string{SectionGaps, SectionRecommendations}, fa.calls)
	assert.Equal(t, []string{"q2", "q4"}, fa.gapReq.Wrong)
	assert.Equal(t, 2.0, fa.gapReq.Stats.TimeEfficiency)
	assert.Equal(t, []string{"Probability"}, fa.recReq.WeakAreas)
	assert.Equal(t, []string{"Excel"}, fa.recReq.Skills)
	assert.Empty(t, r.SectionErrors)
	require.NotNil(t, r.Gaps)
	require.NotNil(t, r.Recommendations)

	stored, err := svc.Get(ctx, "user:1", "s1")
	require.NoError(t, err)
	assert.Equal(t, r.GeneratedAt, stored.GeneratedAt)
}

func TestAssembleKeepsGoingWhenGapAnalysisFails(t *testing.T) {
	fa := sampleAnalyzer()
	fa.gapErr = &backend.APIError{Operation: "performance_gaps", Status: 503, Body: "down"}
	svc := newTestService(fa)

	r, err := svc.Assemble(context.Background(), "user:1", "s1")
	require.NoError(t, err)
	assert.Nil(t, r.Gaps)
	assert.NotEmpty(t, r.SectionErrors[SectionGaps])
	require.NotNil(t, r.Recommendations)
	assert.Empty(t, fa.recReq.WeakAreas)
	assert.Equal(t, 50.0, r.Stats.OverallScore)
}

func TestAssembleRecordsBothFailures(t *testing.T) {
	fa := &fakeAnalyzer{gapErr: errors.New("timeout"), recErr: errors.New("status 429")}
	svc := newTestService(fa)

	r, err := svc.Assemble(context.Background(), "user:1", "s1")
	require.NoError(t, err)
	assert.Len(t, r.SectionErrors, 2)
	assert.Equal(t, 2, r.Result.CorrectAnswers)
}

func TestAssembleRequiresEvaluation(t *testing.T) {
	svc := newTestService(sampleAnalyzer())
	ctx := context.Background()

	_, err := svc.Assemble(ctx, "user:1", "open")
	assert.ErrorIs(t, err, ErrNotEvaluated)
	_, err = svc.Assemble(ctx, "user:2", "s1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Get(ctx, "user:1", "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExportText(t *testing.T) {
	svc := newTestService(sampleAnalyzer())
	ctx := context.Background()
	_, err := svc.Assemble(ctx, "user:1", "s1")
	require.NoError(t, err)

	out, err := svc.Export(ctx, "user:1", "s1", "text")
	require.NoError(t, err)
	assert.Equal(t, "assessment_report_20260314.txt", out.FileName)
	text := string(out.Data)
	assert.Contains(t, text, "Aptitude Assessment Report")
	assert.Contains(t, text, "Overall score: 50.0%")
	assert.Contains(t, text, "You did well on logic.")
	assert.Contains(t, text, "• Probability (high): Review conditional probability.")
	assert.Contains(t, text, "Resource: Khan Academy")
	assert.NotContains(t, text, "**")
}

func TestExportPDFIsStored(t *testing.T) {
	store := local.New(t.TempDir())
	svc := newTestService(sampleAnalyzer())
	svc.Store = store
	ctx := context.Background()
	_, err := svc.Assemble(ctx, "user:1", "s1")
	require.NoError(t, err)

	out, err := svc.Export(ctx, "user:1", "s1", "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", out.ContentType)
	assert.True(t, bytes.HasPrefix(out.Data, []byte("%PDF")))
	assert.Equal(t, "reports/"+util.OwnerKey("user:1")+"/s1.pdf", out.StorageKey)

	rc, err := store.Open(ctx, out.StorageKey)
	require.NoError(t, err)
	defer rc.Close()
	saved, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, out.Data, saved)
}

func TestExportUnknownFormat(t *testing.T) {
	svc := newTestService(sampleAnalyzer())
	ctx := context.Background()
	_, _ = svc.Assemble(ctx, "user:1", "s1")
	_, err := svc.Export(ctx, "user:1", "s1", "docx")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFailedSectionRendersNotice(t *testing.T) {
	r := Report{
		Kind:          "mcq",
		SectionErrors: map[string]string{SectionGaps: "Connection problem"},
		GeneratedAt:   fixedNow,
	}
	text := Text(r)
	assert.Contains(t, text, "This section is unavailable: Connection problem")
	assert.Contains(t, text, "SKILL RECOMMENDATIONS")
}

func TestPDFPaginatesLongReports(t *testing.T) {
	r := Report{Kind: "mcq", GeneratedAt: fixedNow, Recommendations: &backend.SkillRecommendations{}}
	gaps := &backend.PerformanceGapAnalysis{}
	for i := 0; i < 200; i++ {
		gaps.Gaps = append(gaps.Gaps, backend.Gap{Area: "Area", Detail: "A long explanation of a weak area that wraps across the line."})
	}
	r.Gaps = gaps
	data, err := PDF(r)
	require.NoError(t, err)
	// One "/Type /Page" per page plus the "/Type /Pages" root.
	assert.GreaterOrEqual(t, bytes.Count(data, []byte("/Type /Page")), 3)
}
