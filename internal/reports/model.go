package reports

import (
	"time"

	"careerprep-backend/internal/backend"
)

// Section names used in SectionErrors and metrics.
const (
	SectionGaps            = "performance_gaps"
	SectionRecommendations = "skill_recommendations"
)

// Report is an evaluated assessment plus its analysis sections. Either section
// may be missing; the reason is kept in SectionErrors.
type Report struct {
	SessionID       string
	OwnerID         string
	Kind            string
	Stats           backend.PerformanceStats
	Result          backend.EvaluationResponse
	Gaps            *backend.PerformanceGapAnalysis
	Recommendations *backend.SkillRecommendations
	SectionErrors   map[string]string
	GeneratedAt     time.Time
}

// Export is a rendered report file.
type Export struct {
	FileName    string
	ContentType string
	Data        []byte
	StorageKey  string
}
