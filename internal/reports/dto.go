package reports

import (
	"time"

	"careerprep-backend/internal/backend"
)

// ReportResponse is the JSON view of a report.
type ReportResponse struct {
	SessionID       string                          `json:"sessionId"`
	Kind            string                          `json:"kind"`
	Stats           backend.PerformanceStats        `json:"stats"`
	Result          backend.EvaluationResponse      `json:"result"`
	Gaps            *backend.PerformanceGapAnalysis `json:"performanceGaps"`
	Recommendations *backend.SkillRecommendations   `json:"skillRecommendations"`
	SectionErrors   map[string]string               `json:"sectionErrors"`
	GeneratedAt     time.Time                       `json:"generatedAt"`
}

func toResponse(r Report) ReportResponse {
	errs := r.SectionErrors
	if errs == nil {
		errs = map[string]string{}
	}
	return ReportResponse{
		SessionID:       r.SessionID,
		Kind:            r.Kind,
		Stats:           r.Stats,
		Result:          r.Result,
		Gaps:            r.Gaps,
		Recommendations: r.Recommendations,
		SectionErrors:   errs,
		GeneratedAt:     r.GeneratedAt,
	}
}
