// Package parser turns generated free-text resumes into structured documents.
//
// The format it understands is the one the generation backend emits: a name
// line, a pipe-delimited contact line, upper-case section headers, "•" bullets
// and "Title | Company | Start - End" experience lines. Anything else is
// skipped, so malformed input yields a partially filled or empty document
// rather than an error.
package parser

import (
	"regexp"
	"strings"
	"unicode"

	"careerprep-backend/resume/model"
)

// Func is the narrow parsing contract services depend on, so the heuristic can
// be swapped for a structured-output parser without touching callers.
type Func func(text string) model.Document

type section string

const (
	sectionNone           section = ""
	sectionSummary        section = "summary"
	sectionSkills         section = "skills"
	sectionExperience     section = "experience"
	sectionEducation      section = "education"
	sectionProjects       section = "projects"
	sectionCertifications section = "certifications"
	sectionHobbies        section = "hobbies"
)

// contactLines is how many leading lines are scanned for contact details.
const contactLines = 5

// maxHeaderWords keeps prose such as "experienced engineer ..." from being read as a header.
const maxHeaderWords = 4

var headerKeywords = []struct {
	keyword string
	section section
}{
	{"SUMMARY", sectionSummary},
	{"SKILLS", sectionSkills},
	{"EXPERIENCE", sectionExperience},
	{"EDUCATION", sectionEducation},
	{"PROJECTS", sectionProjects},
	{"CERTIFICATIONS", sectionCertifications},
	{"INTERESTS", sectionHobbies},
	{"HOBBIES", sectionHobbies},
}

var emailPattern = regexp.MustCompile(`[^\s|]+@[^\s|]+`)

type state struct {
	doc     model.Document
	section section
	summary strings.Builder

	exp     *model.Experience
	edu     *model.Education
	project *model.Project
}

// Parse converts generated resume text into a Document. It never fails.
func Parse(text string) model.Document {
	st := &state{doc: model.New()}

	for i, line := range splitLines(text) {
		if i < contactLines {
			st.scanContact(i, line)
		}

		bullet, content := stripBullet(line)
		if !bullet {
			if sec, rest, ok := detectHeader(line); ok {
				st.switchSection(sec)
				if rest == "" {
					continue
				}
				content = rest
			}
		}
		st.consume(bullet, content)
	}

	st.flush()
	st.doc.Summary = strings.TrimSpace(st.summary.String())
	return st.doc
}

func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if trimmed := strings.TrimSpace(l); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func (st *state) scanContact(index int, line string) {
	info := &st.doc.PersonalInfo

	if index == 0 && looksLikeName(line) {
		info.Name = normalizeName(line)
		return
	}
	if info.Email == "" {
		if m := emailPattern.FindString(line); m != "" {
			info.Email = m
		}
	}
	for _, segment := range strings.Split(line, "|") {
		segment = strings.TrimSpace(segment)
		if info.Phone == "" && strings.Contains(segment, "+") && strings.Contains(segment, "-") {
			info.Phone = afterLabel(segment)
		}
	}
	if info.LinkedIn == "" {
		info.LinkedIn = labelledValue(line, "LinkedIn:")
	}
	if info.GitHub == "" {
		info.GitHub = labelledValue(line, "GitHub:")
	}
}

func looksLikeName(line string) bool {
	if strings.ContainsAny(line, "@|:/") {
		return false
	}
	if _, _, ok := detectHeader(line); ok {
		return false
	}
	for _, r := range line {
		if unicode.IsDigit(r) {
			return false
		}
	}
	return len(strings.Fields(line)) <= maxHeaderWords
}

// normalizeName title-cases names given in all caps ("JOHN DOE" -> "John Doe").
func normalizeName(line string) string {
	if strings.ToUpper(line) != line {
		return line
	}
	words := strings.Fields(strings.ToLower(line))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// labelledValue returns the text after label up to the next pipe.
func labelledValue(line, label string) string {
	idx := strings.Index(strings.ToLower(line), strings.ToLower(label))
	if idx < 0 {
		return ""
	}
	rest := line[idx+len(label):]
	if cut := strings.Index(rest, "|"); cut >= 0 {
		rest = rest[:cut]
	}
	return strings.TrimSpace(rest)
}

func afterLabel(segment string) string {
	if idx := strings.Index(segment, ":"); idx >= 0 {
		return strings.TrimSpace(segment[idx+1:])
	}
	return segment
}

func stripBullet(line string) (bool, string) {
	switch {
	case strings.HasPrefix(line, "•"):
		return true, strings.TrimSpace(strings.TrimPrefix(line, "•"))
	case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
		return true, strings.TrimSpace(line[2:])
	default:
		return false, line
	}
}

// detectHeader reports whether line is a section header. Text after a colon on
// the header line ("Skills: Go, SQL") is returned as rest.
func detectHeader(line string) (section, string, bool) {
	head, rest := line, ""
	if idx := strings.Index(line, ":"); idx >= 0 {
		head, rest = line[:idx], strings.TrimSpace(line[idx+1:])
	}
	if len(strings.Fields(head)) > maxHeaderWords {
		return sectionNone, "", false
	}
	upper := strings.ToUpper(head)
	for _, h := range headerKeywords {
		if strings.Contains(upper, h.keyword) {
			return h.section, rest, true
		}
	}
	return sectionNone, "", false
}

func (st *state) switchSection(sec section) {
	st.flush()
	st.section = sec
}

func (st *state) consume(bullet bool, content string) {
	switch st.section {
	case sectionSummary:
		if !strings.Contains(content, ":") {
			st.summary.WriteString(content)
			st.summary.WriteString(" ")
		}
	case sectionSkills:
		st.doc.Skills = append(st.doc.Skills, listItems(bullet, content)...)
	case sectionHobbies:
		st.doc.Hobbies = append(st.doc.Hobbies, listItems(bullet, content)...)
	case sectionCertifications:
		if bullet {
			st.doc.Certifications = append(st.doc.Certifications, model.Certification{Name: content})
		}
	case sectionExperience:
		st.consumeExperience(bullet, content)
	case sectionEducation:
		st.consumeEducation(bullet, content)
	case sectionProjects:
		st.consumeProject(bullet, content)
	}
}

// listItems takes bullet lines whole and splits comma-separated plain lines.
func listItems(bullet bool, content string) []string {
	if bullet {
		return []string{content}
	}
	if !strings.Contains(content, ",") {
		return nil
	}
	if idx := strings.Index(content, ":"); idx >= 0 {
		content = content[idx+1:]
	}
	var out []string
	for _, part := range strings.Split(content, ",") {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (st *state) consumeExperience(bullet bool, content string) {
	if !bullet && strings.Contains(content, "|") && strings.Contains(content, "202") {
		st.flushExperience()
		st.exp = newExperience(content)
		return
	}
	if st.exp == nil {
		return
	}
	if bullet {
		st.exp.Achievements = append(st.exp.Achievements, content)
		return
	}
	st.exp.Description = strings.TrimSpace(st.exp.Description + " " + content)
}

func newExperience(line string) *model.Experience {
	parts := splitPipes(line)
	exp := &model.Experience{Achievements: []string{}}
	exp.Position = parts[0]
	var dates string
	switch {
	case len(parts) >= 3:
		exp.Company = parts[1]
		dates = parts[2]
	case len(parts) == 2:
		dates = parts[1]
	}
	exp.StartDate, exp.EndDate = splitDateRange(dates)
	return exp
}

func splitDateRange(dates string) (string, string) {
	dates = strings.TrimSpace(dates)
	if dates == "" {
		return "", "Present"
	}
	for _, sep := range []string{" - ", " – ", "–", "-"} {
		if idx := strings.Index(dates, sep); idx >= 0 {
			start := strings.TrimSpace(dates[:idx])
			end := strings.TrimSpace(dates[idx+len(sep):])
			if end == "" {
				end = "Present"
			}
			return start, end
		}
	}
	return dates, "Present"
}

func (st *state) consumeEducation(bullet bool, content string) {
	if bullet {
		return
	}
	if strings.Contains(content, "|") || strings.Contains(content, "Bachelor") || strings.Contains(content, "Master") {
		st.flushEducation()
		st.edu = &model.Education{Institution: splitPipes(content)[0]}
	}
}

func (st *state) consumeProject(bullet bool, content string) {
	switch {
	case strings.HasPrefix(content, "Technologies:"):
		if st.project == nil {
			return
		}
		for _, tech := range strings.Split(strings.SplitN(content, ":", 2)[1], ",") {
			if tech = strings.TrimSpace(tech); tech != "" {
				st.project.Technologies = append(st.project.Technologies, tech)
			}
		}
	case bullet:
		if st.project == nil {
			return
		}
		st.project.Description = strings.TrimSpace(st.project.Description + " " + content)
	default:
		st.flushProject()
		st.project = &model.Project{Name: content, Technologies: []string{}}
	}
}

func splitPipes(line string) []string {
	raw := strings.Split(line, "|")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func (st *state) flush() {
	st.flushExperience()
	st.flushEducation()
	st.flushProject()
}

func (st *state) flushExperience() {
	if st.exp != nil {
		st.doc.Experience = append(st.doc.Experience, *st.exp)
		st.exp = nil
	}
}

func (st *state) flushEducation() {
	if st.edu != nil {
		st.doc.Education = append(st.doc.Education, *st.edu)
		st.edu = nil
	}
}

func (st *state) flushProject() {
	if st.project != nil {
		st.doc.Projects = append(st.doc.Projects, *st.project)
		st.project = nil
	}
}
