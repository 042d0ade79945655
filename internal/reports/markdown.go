package reports

import (
	"regexp"
	"strings"
)

var (
	mdLink      = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	mdHeading   = regexp.MustCompile(`^\s{0,3}#{1,6}\s*`)
	mdQuote     = regexp.MustCompile(`^\s*>\s?`)
	mdListItem  = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+`)
	mdRule      = regexp.MustCompile(`^\s*(?:[-*_]\s*){3,}$`)
	mdEmphasis  = regexp.MustCompile(`(\*\*|__)(.+?)(\*\*|__)`)
	mdItalic    = regexp.MustCompile(`(^|[^\w*])[*_]([^*_\n]+)[*_]`)
	mdCode      = regexp.MustCompile("`+([^`]*)`+")
	multiSpaces = regexp.MustCompile(`[ \t]{2,}`)
)

// StripMarkdown flattens the light Markdown the analysis endpoints return into
// plain lines. List markers and headings are dropped, link text is kept and
// blank-line runs collapse to one.
func StripMarkdown(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var out []string
	blank := false
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") || mdRule.MatchString(line) {
			continue
		}
		line = mdHeading.ReplaceAllString(line, "")
		line = mdQuote.ReplaceAllString(line, "")
		line = mdListItem.ReplaceAllString(line, "")
		line = mdLink.ReplaceAllString(line, "$1")
		line = mdCode.ReplaceAllString(line, "$1")
		line = mdEmphasis.ReplaceAllString(line, "$2")
		line = mdItalic.ReplaceAllString(line, "$1$2")
		line = multiSpaces.ReplaceAllString(strings.TrimSpace(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// lines returns the non-empty lines of stripped text.
func lines(s string) []string {
	var out []string
	for _, l := range strings.Split(StripMarkdown(s), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
