// Package reconcile combines parsed resume content with the user's existing draft.
//
// Both strategies are pure: inputs are never mutated and the result shares no
// slices with either argument.
package reconcile

import (
	"fmt"
	"strings"

	"careerprep-backend/resume/model"
)

// Mode selects a reconciliation strategy.
type Mode string

const (
	ModeMerge   Mode = "merge"
	ModeReplace Mode = "replace"
)

// ParseMode maps user input to a Mode. Blank input defaults to merge.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeMerge:
		return ModeMerge, nil
	case ModeReplace:
		return ModeReplace, nil
	default:
		return "", fmt.Errorf("unknown reconcile mode %q", raw)
	}
}

// Apply runs the strategy named by mode.
func Apply(mode Mode, current, parsed model.Document) model.Document {
	if mode == ModeReplace {
		return Replace(current, parsed)
	}
	return Merge(current, parsed)
}

// Merge keeps everything the user already has, fills empty fields and appends
// parsed list items whose identity is not yet present.
func Merge(current, parsed model.Document) model.Document {
	out := current.Clone()
	out.PersonalInfo = fillPersonalInfo(current.PersonalInfo, parsed.PersonalInfo)
	out.Summary = mergeSummary(current.Summary, parsed.Summary)
	out.Skills = union(current.Skills, parsed.Skills)
	out.Hobbies = union(current.Hobbies, parsed.Hobbies)
	out.Experience = appendUnseen(out.Experience, parsed.Clone().Experience, experienceKey)
	out.Education = appendUnseen(out.Education, parsed.Education, educationKey)
	out.Projects = appendUnseen(out.Projects, parsed.Clone().Projects, projectKey)
	out.Certifications = appendUnseen(out.Certifications, parsed.Certifications, certificationKey)
	out.Normalize()
	return out
}

// Replace swaps each content section for the parsed one when the parsed
// section is non-empty. Personal info is filled, never overwritten.
func Replace(current, parsed model.Document) model.Document {
	out := current.Clone()
	p := parsed.Clone()
	out.PersonalInfo = fillPersonalInfo(current.PersonalInfo, parsed.PersonalInfo)
	if strings.TrimSpace(p.Summary) != "" {
		out.Summary = p.Summary
	}
	if len(p.Skills) > 0 {
		out.Skills = p.Skills
	}
	if len(p.Experience) > 0 {
		out.Experience = p.Experience
	}
	if len(p.Education) > 0 {
		out.Education = p.Education
	}
	if len(p.Projects) > 0 {
		out.Projects = p.Projects
	}
	if len(p.Certifications) > 0 {
		out.Certifications = p.Certifications
	}
	if len(p.Hobbies) > 0 {
		out.Hobbies = p.Hobbies
	}
	out.Normalize()
	return out
}

func fillPersonalInfo(current, parsed model.PersonalInfo) model.PersonalInfo {
	return model.PersonalInfo{
		Name:     firstNonEmpty(current.Name, parsed.Name),
		Email:    firstNonEmpty(current.Email, parsed.Email),
		Phone:    firstNonEmpty(current.Phone, parsed.Phone),
		Location: firstNonEmpty(current.Location, parsed.Location),
		LinkedIn: firstNonEmpty(current.LinkedIn, parsed.LinkedIn),
		GitHub:   firstNonEmpty(current.GitHub, parsed.GitHub),
		Website:  firstNonEmpty(current.Website, parsed.Website),
	}
}

func firstNonEmpty(current, parsed string) string {
	if strings.TrimSpace(current) != "" {
		return current
	}
	return parsed
}

// mergeSummary appends the parsed summary after a blank line unless the
// current summary already contains it, so repeated merges do not duplicate text.
func mergeSummary(current, parsed string) string {
	cur := strings.TrimSpace(current)
	add := strings.TrimSpace(parsed)
	switch {
	case add == "":
		return current
	case cur == "":
		return parsed
	case strings.Contains(cur, add):
		return current
	default:
		return cur + "\n\n" + add
	}
}

// union returns current followed by unseen parsed items, without repeats.
func union(current, parsed []string) []string {
	seen := make(map[string]struct{}, len(current)+len(parsed))
	out := make([]string, 0, len(current)+len(parsed))
	for _, list := range [][]string{current, parsed} {
		for _, item := range list {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}

func appendUnseen[T any](current, parsed []T, key func(T) string) []T {
	seen := make(map[string]struct{}, len(current)+len(parsed))
	for _, item := range current {
		seen[key(item)] = struct{}{}
	}
	for _, item := range parsed {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		current = append(current, item)
	}
	return current
}

func experienceKey(e model.Experience) string { return e.Company + "-" + e.Position }

func educationKey(e model.Education) string { return e.Institution + "-" + e.Degree }

func projectKey(p model.Project) string { return p.Name }

func certificationKey(c model.Certification) string { return c.Name }
