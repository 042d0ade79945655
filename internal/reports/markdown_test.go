package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"heading", "## Key Gaps", "Key Gaps"},
		{"bold and italic", "You are **strong** in _logic_.", "You are strong in logic."},
		{"list markers", "- one\n* two\n3. three", "one\ntwo\nthree"},
		{"link", "See [the docs](https://example.com).", "See the docs."},
		{"inline code", "Use `go test` often", "Use go test often"},
		{"quote and rule", "> quoted\n---\nafter", "quoted\nafter"},
		{"blank runs collapse", "a\n\n\n\nb", "a\n\nb"},
		{"snake case kept", "use snake_case_names", "use snake_case_names"},
		{"fences dropped", "```go\nx := 1\n```", "x := 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripMarkdown(tt.in))
		})
	}
}
