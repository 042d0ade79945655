package assessments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Answer is what a user picked for one question: an option index, or text
// (a letter or free text, e.g. from voice input).
type Answer struct {
	index   int
	text    string
	isIndex bool
}

// IndexAnswer selects the option at i.
func IndexAnswer(i int) Answer {
	return Answer{index: i, isIndex: true}
}

// TextAnswer records a letter or free-text answer.
func TextAnswer(s string) Answer {
	return Answer{text: s}
}

// Index returns the option index when the answer is one.
func (a Answer) Index() (int, bool) {
	return a.index, a.isIndex
}

// Text returns the textual answer, empty for index answers.
func (a Answer) Text() string {
	return a.text
}

func (a Answer) String() string {
	if a.isIndex {
		return strconv.Itoa(a.index)
	}
	return a.text
}

// MarshalJSON encodes index answers as numbers and text answers as strings.
func (a Answer) MarshalJSON() ([]byte, error) {
	if a.isIndex {
		return []byte(strconv.Itoa(a.index)), nil
	}
	return json.Marshal(a.text)
}

// UnmarshalJSON accepts a JSON number or string.
func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("answer must be a number or string")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = TextAnswer(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("answer must be a number or string")
	}
	i, err := n.Int64()
	if err != nil {
		return fmt.Errorf("answer index must be an integer")
	}
	*a = IndexAnswer(int(i))
	return nil
}
