// Package render exports resume documents as plain text or PDF.
package render

import (
	"strings"

	"careerprep-backend/internal/shared/pdfdoc"
	"careerprep-backend/resume/model"
)

// Text renders the document as plain text. Callers gate on Validate first.
func Text(doc model.Document) string {
	return pdfdoc.PlainText(Blocks(doc))
}

// PDF renders the document as an A4 PDF with the candidate name in the footer.
func PDF(doc model.Document) ([]byte, error) {
	return pdfdoc.Render(Blocks(doc), doc.PersonalInfo.Name+" - Resume")
}

// Blocks linearises a document into layout blocks, skipping empty sections.
func Blocks(doc model.Document) []pdfdoc.Block {
	var out []pdfdoc.Block
	add := func(kind pdfdoc.Kind, text string) {
		if text = strings.TrimSpace(text); text != "" {
			out = append(out, pdfdoc.Block{Kind: kind, Text: text})
		}
	}

	info := doc.PersonalInfo
	add(pdfdoc.Title, info.Name)
	add(pdfdoc.Paragraph, joinNonEmpty(" | ", info.Email, info.Phone, info.Location))
	add(pdfdoc.Paragraph, joinNonEmpty(" | ", info.LinkedIn, info.GitHub, info.Website))

	if strings.TrimSpace(doc.Summary) != "" {
		add(pdfdoc.Heading, "Summary")
		add(pdfdoc.Paragraph, doc.Summary)
	}

	if len(doc.Skills) > 0 {
		add(pdfdoc.Heading, "Skills")
		add(pdfdoc.Paragraph, strings.Join(doc.Skills, ", "))
	}

	if len(doc.Experience) > 0 {
		add(pdfdoc.Heading, "Experience")
		for _, e := range doc.Experience {
			add(pdfdoc.Paragraph, joinNonEmpty(" | ", e.Position, e.Company, dateRange(e.StartDate, e.EndDate)))
			add(pdfdoc.Paragraph, e.Description)
			for _, a := range e.Achievements {
				add(pdfdoc.Bullet, a)
			}
		}
	}

	if len(doc.Education) > 0 {
		add(pdfdoc.Heading, "Education")
		for _, e := range doc.Education {
			degree := joinNonEmpty(" in ", e.Degree, e.Field)
			line := joinNonEmpty(" | ", e.Institution, degree, dateRange(e.StartDate, e.EndDate))
			if e.GPA != "" {
				line += " | GPA " + e.GPA
			}
			add(pdfdoc.Paragraph, line)
		}
	}

	if len(doc.Projects) > 0 {
		add(pdfdoc.Heading, "Projects")
		for _, p := range doc.Projects {
			add(pdfdoc.Paragraph, joinNonEmpty(" | ", p.Name, p.URL))
			add(pdfdoc.Paragraph, p.Description)
			if len(p.Technologies) > 0 {
				add(pdfdoc.Paragraph, "Technologies: "+strings.Join(p.Technologies, ", "))
			}
		}
	}

	if len(doc.Certifications) > 0 {
		add(pdfdoc.Heading, "Certifications")
		for _, c := range doc.Certifications {
			add(pdfdoc.Bullet, joinNonEmpty(", ", c.Name, c.Issuer, c.Date))
		}
	}

	if len(doc.Hobbies) > 0 {
		add(pdfdoc.Heading, "Interests")
		add(pdfdoc.Paragraph, strings.Join(doc.Hobbies, ", "))
	}
	return out
}

func dateRange(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start == "":
		return end
	case end == "":
		return start
	default:
		return start + " - " + end
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
