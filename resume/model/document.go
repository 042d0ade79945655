package model

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrNameRequired gates export and generation on a named resume.
	ErrNameRequired = errors.New("personal_info.name is required")
	// ErrInvalidField wraps malformed email and link values.
	ErrInvalidField = errors.New("invalid field")
)

// Document is the structured resume form state.
type Document struct {
	PersonalInfo   PersonalInfo    `json:"personal_info"`
	Summary        string          `json:"summary"`
	Skills         []string        `json:"skills"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Projects       []Project       `json:"projects"`
	Certifications []Certification `json:"certifications"`
	Hobbies        []string        `json:"hobbies"`
}

// PersonalInfo captures top-of-resume contact details.
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Website  string `json:"website"`
}

// Experience represents a work history entry.
type Experience struct {
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
}

// Education represents an education entry.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	GPA         string `json:"gpa"`
}

// Project represents a notable project.
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url"`
}

// Certification represents a certification entry.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
	URL    string `json:"url,omitempty"`
}

// New returns an empty document with every list initialised.
func New() Document {
	var d Document
	d.Normalize()
	return d
}

// Normalize replaces nil lists with empty ones so JSON carries [] rather than null.
func (d *Document) Normalize() {
	if d.Skills == nil {
		d.Skills = []string{}
	}
	if d.Experience == nil {
		d.Experience = []Experience{}
	}
	for i := range d.Experience {
		if d.Experience[i].Achievements == nil {
			d.Experience[i].Achievements = []string{}
		}
	}
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.Projects == nil {
		d.Projects = []Project{}
	}
	for i := range d.Projects {
		if d.Projects[i].Technologies == nil {
			d.Projects[i].Technologies = []string{}
		}
	}
	if d.Certifications == nil {
		d.Certifications = []Certification{}
	}
	if d.Hobbies == nil {
		d.Hobbies = []string{}
	}
}

// Clone returns a deep copy; the result shares no slices with d.
func (d Document) Clone() Document {
	out := d
	out.Skills = cloneStrings(d.Skills)
	out.Hobbies = cloneStrings(d.Hobbies)

	out.Experience = make([]Experience, len(d.Experience))
	for i, e := range d.Experience {
		e.Achievements = cloneStrings(e.Achievements)
		out.Experience[i] = e
	}
	out.Education = append([]Education{}, d.Education...)
	out.Projects = make([]Project, len(d.Projects))
	for i, p := range d.Projects {
		p.Technologies = cloneStrings(p.Technologies)
		out.Projects[i] = p
	}
	out.Certifications = append([]Certification{}, d.Certifications...)
	return out
}

// IsEmpty reports whether no field carries content.
func (d Document) IsEmpty() bool {
	return d.PersonalInfo == (PersonalInfo{}) &&
		strings.TrimSpace(d.Summary) == "" &&
		len(d.Skills) == 0 &&
		len(d.Experience) == 0 &&
		len(d.Education) == 0 &&
		len(d.Projects) == 0 &&
		len(d.Certifications) == 0 &&
		len(d.Hobbies) == 0
}

// Validate is the gate for export and generation: the resume must be named.
// Malformed contact fields do not block; see FieldProblems.
func (d Document) Validate() error {
	if strings.TrimSpace(d.PersonalInfo.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

// FieldProblems lists malformed email and link values in document order.
// Each entry wraps ErrInvalidField.
func (d Document) FieldProblems() []error {
	var problems []error
	if email := strings.TrimSpace(d.PersonalInfo.Email); email != "" && !strings.Contains(email, "@") {
		problems = append(problems, fmt.Errorf("%w: personal_info.email %q is not an email address", ErrInvalidField, email))
	}
	links := []struct{ field, value string }{
		{"personal_info.linkedin", d.PersonalInfo.LinkedIn},
		{"personal_info.github", d.PersonalInfo.GitHub},
		{"personal_info.website", d.PersonalInfo.Website},
	}
	for i, p := range d.Projects {
		links = append(links, struct{ field, value string }{fmt.Sprintf("projects[%d].url", i), p.URL})
	}
	for i, c := range d.Certifications {
		links = append(links, struct{ field, value string }{fmt.Sprintf("certifications[%d].url", i), c.URL})
	}
	for _, l := range links {
		if err := validateLink(l.field, l.value); err != nil {
			problems = append(problems, err)
		}
	}
	return problems
}

// validateLink accepts blank values and bare hosts ("linkedin.com/in/x");
// anything with a scheme must be http(s) with a host.
func validateLink(field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if strings.ContainsAny(value, " \t\n") {
		return fmt.Errorf("%w: %s must not contain whitespace", ErrInvalidField, field)
	}
	if !strings.Contains(value, "://") {
		return nil
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidField, field, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%w: %s must be an http(s) URL", ErrInvalidField, field)
	}
	return nil
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
