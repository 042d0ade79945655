package assessments

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Policy decides what an unanswered question contributes to the payload.
type Policy string

const (
	// PolicyFabricate sends "A" for unanswered questions. This matches what
	// clients have always sent and is the default.
	PolicyFabricate Policy = "fabricate"
	// PolicySkip leaves unanswered questions out and lists them as skipped.
	PolicySkip Policy = "skip"
)

const placeholderLetter = "A"

// ErrInvalidOptionLetter rejects a submission whose answer maps outside A-D.
var ErrInvalidOptionLetter = errors.New("answer maps to an option outside A-D")

// ParsePolicy maps configuration to a Policy. Unknown values fall back to fabricate.
func ParsePolicy(raw string) Policy {
	if Policy(strings.ToLower(strings.TrimSpace(raw))) == PolicySkip {
		return PolicySkip
	}
	return PolicyFabricate
}

// Payload holds the parallel arrays the evaluation endpoint expects.
type Payload struct {
	QuestionIDs        []string
	SelectedOptions    []string
	SkippedQuestionIDs []string
	// Unanswered counts questions with no usable answer, whatever the policy.
	Unanswered int
}

// MapAnswers converts sparse answers into letters, in question order.
// Answers are looked up by question ID first, then by position.
func MapAnswers(questions []Question, answers map[string]Answer, policy Policy) (Payload, error) {
	out := Payload{
		QuestionIDs:        make([]string, 0, len(questions)),
		SelectedOptions:    make([]string, 0, len(questions)),
		SkippedQuestionIDs: []string{},
	}
	for i, q := range questions {
		id := q.ID
		if id == "" {
			id = strconv.Itoa(i)
		}
		answer, ok := answers[id]
		if !ok {
			answer, ok = answers[strconv.Itoa(i)]
		}

		letter := ""
		if ok {
			letter = toLetter(answer, q.Options)
		}
		if letter == "" {
			out.Unanswered++
			if policy == PolicySkip {
				out.SkippedQuestionIDs = append(out.SkippedQuestionIDs, id)
				continue
			}
			letter = placeholderLetter
		} else if !validLetter(letter) {
			return Payload{}, fmt.Errorf("%w: question %s answered %q", ErrInvalidOptionLetter, id, letter)
		}
		out.QuestionIDs = append(out.QuestionIDs, id)
		out.SelectedOptions = append(out.SelectedOptions, letter)
	}
	return out, nil
}

// LetterFor converts an option index to its letter.
func LetterFor(index int) string {
	return string(rune('A' + index))
}

// OptionIndex converts a letter back to an option index.
func OptionIndex(letter string) (int, bool) {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
		return 0, false
	}
	return int(letter[0] - 'A'), true
}

// toLetter returns "" when the answer cannot be converted.
func toLetter(a Answer, options []string) string {
	if i, ok := a.Index(); ok {
		if i >= 0 && i < len(options) {
			return LetterFor(i)
		}
		return ""
	}

	text := strings.TrimSpace(a.Text())
	if text == "" {
		return ""
	}
	if upper := strings.ToUpper(text); len(upper) == 1 && validLetter(upper) {
		return upper
	}

	lower := strings.ToLower(text)
	for i, opt := range options {
		if strings.ToLower(strings.TrimSpace(opt)) == lower {
			return LetterFor(i)
		}
	}
	for i, opt := range options {
		o := strings.ToLower(strings.TrimSpace(opt))
		if o == "" {
			continue
		}
		if strings.Contains(o, lower) || strings.Contains(lower, o) {
			return LetterFor(i)
		}
	}
	return ""
}

func validLetter(letter string) bool {
	return len(letter) == 1 && letter[0] >= 'A' && letter[0] <= 'D'
}
