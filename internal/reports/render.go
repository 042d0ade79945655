package reports

import (
	"fmt"
	"strings"

	"careerprep-backend/internal/shared/pdfdoc"
)

const footerText = "CareerPrep Assessment Report"

// Blocks linearises a report: summary, performance gaps, then recommendations.
// Sections that failed to load are rendered as a short notice.
func Blocks(r Report) []pdfdoc.Block {
	var out []pdfdoc.Block
	add := func(kind pdfdoc.Kind, text string) {
		if text = strings.TrimSpace(text); text != "" {
			out = append(out, pdfdoc.Block{Kind: kind, Text: text})
		}
	}

	add(pdfdoc.Title, titleFor(r.Kind))
	add(pdfdoc.Paragraph, "Generated "+r.GeneratedAt.Format("2006-01-02 15:04 MST"))

	add(pdfdoc.Heading, "Summary")
	add(pdfdoc.Bullet, fmt.Sprintf("Overall score: %.1f%%", r.Stats.OverallScore))
	add(pdfdoc.Bullet, fmt.Sprintf("Correct answers: %d of %d", r.Result.CorrectAnswers, r.Result.TotalQuestions))
	add(pdfdoc.Bullet, fmt.Sprintf("Accuracy: %.1f%%", r.Stats.Accuracy))
	add(pdfdoc.Bullet, fmt.Sprintf("Time efficiency: %.2f questions per minute", r.Stats.TimeEfficiency))
	for _, l := range lines(r.Result.Feedback) {
		add(pdfdoc.Paragraph, l)
	}

	add(pdfdoc.Heading, "Performance Gaps")
	switch {
	case r.Gaps != nil:
		for _, l := range lines(r.Gaps.Summary) {
			add(pdfdoc.Paragraph, l)
		}
		for _, g := range r.Gaps.Gaps {
			text := StripMarkdown(g.Area)
			if g.Severity != "" {
				text += " (" + g.Severity + ")"
			}
			if detail := strings.Join(lines(g.Detail), " "); detail != "" {
				text += ": " + detail
			}
			add(pdfdoc.Bullet, text)
		}
		if strings.TrimSpace(r.Gaps.Summary) == "" && len(r.Gaps.Gaps) == 0 {
			add(pdfdoc.Paragraph, "No performance gaps identified.")
		}
	default:
		add(pdfdoc.Paragraph, unavailable(r, SectionGaps))
	}

	add(pdfdoc.Heading, "Skill Recommendations")
	switch {
	case r.Recommendations != nil && len(r.Recommendations.Recommendations) > 0:
		for _, rec := range r.Recommendations.Recommendations {
			text := StripMarkdown(rec.Skill)
			if reason := strings.Join(lines(rec.Reason), " "); reason != "" {
				text += ": " + reason
			}
			add(pdfdoc.Bullet, text)
			for _, res := range rec.Resources {
				add(pdfdoc.Paragraph, "Resource: "+StripMarkdown(res))
			}
		}
	case r.Recommendations != nil:
		add(pdfdoc.Paragraph, "No recommendations available.")
	default:
		add(pdfdoc.Paragraph, unavailable(r, SectionRecommendations))
	}
	return out
}

// Text renders the report as plain text.
func Text(r Report) string {
	return pdfdoc.PlainText(Blocks(r))
}

// PDF renders the report as an A4 PDF with the report footer on every page.
func PDF(r Report) ([]byte, error) {
	return pdfdoc.Render(Blocks(r), footerText)
}

func titleFor(kind string) string {
	if kind == "" {
		return "Assessment Report"
	}
	return strings.ToUpper(kind[:1]) + kind[1:] + " Assessment Report"
}

func unavailable(r Report, section string) string {
	if msg := r.SectionErrors[section]; msg != "" {
		return "This section is unavailable: " + msg
	}
	return "This section is unavailable."
}
