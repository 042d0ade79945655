package reports

import (
	"math"

	"careerprep-backend/internal/backend"
)

// ComputeStats derives the summary numbers sent to both analysis endpoints.
// Time efficiency is questions per minute and 0 when no time elapsed.
func ComputeStats(result backend.EvaluationResponse, elapsedSeconds int) backend.PerformanceStats {
	stats := backend.PerformanceStats{
		OverallScore:   clamp(result.Score, 0, 100),
		TotalQuestions: result.TotalQuestions,
	}
	if result.TotalQuestions > 0 {
		stats.Accuracy = round2(float64(result.CorrectAnswers) / float64(result.TotalQuestions) * 100)
	}
	if elapsedSeconds > 0 {
		minutes := float64(elapsedSeconds) / 60
		stats.TimeEfficiency = round2(float64(result.TotalQuestions) / minutes)
	}
	return stats
}

// IncorrectQuestionIDs lists the questions the backend marked wrong.
func IncorrectQuestionIDs(result backend.EvaluationResponse) []string {
	var out []string
	for _, r := range result.Results {
		if !r.Correct {
			out = append(out, r.QuestionID)
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
