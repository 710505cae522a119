// Package search compiles user-supplied regular expressions and produces
// highlight spans for matched text. User patterns come straight from a
// search box, so compilation failure is an expected state, not an error:
// a nil Pattern means "no usable pattern" and callers fall back to
// showing everything unfiltered.
package search

import (
	"regexp"
	"strings"
)

// Span is one contiguous run of output text. Text is already HTML-escaped;
// Match marks runs that matched the pattern.
type Span struct {
	Text  string `json:"text"`
	Match bool   `json:"match"`
}

// Pattern is a compiled user search expression.
type Pattern struct {
	re *regexp.Regexp
}

// Compile builds a Pattern from a raw user expression. It returns nil for
// an empty expression or one that does not compile. Matching is case
// insensitive unless caseSensitive is set.
func Compile(expr string, caseSensitive bool) *Pattern {
	if expr == "" {
		return nil
	}
	if !caseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil
	}
	return &Pattern{re: re}
}

// Match reports whether text contains the pattern. A nil Pattern matches
// nothing.
func (p *Pattern) Match(text string) bool {
	if p == nil {
		return false
	}
	return p.re.MatchString(text)
}

// Highlight splits text into escaped spans, marking the runs the pattern
// matched. Zero-length matches produce no marked span and never stall:
// the regexp engine advances past them on its own.
func (p *Pattern) Highlight(text string) []Span {
	if p == nil {
		return []Span{{Text: EscapeHTML(text)}}
	}
	idx := p.re.FindAllStringIndex(text, -1)
	if len(idx) == 0 {
		return []Span{{Text: EscapeHTML(text)}}
	}
	var spans []Span
	last := 0
	for _, m := range idx {
		if m[0] > last {
			spans = append(spans, Span{Text: EscapeHTML(text[last:m[0]])})
		}
		if m[1] > m[0] {
			spans = append(spans, Span{Text: EscapeHTML(text[m[0]:m[1]]), Match: true})
		}
		last = m[1]
	}
	if last < len(text) {
		spans = append(spans, Span{Text: EscapeHTML(text[last:])})
	}
	if len(spans) == 0 {
		spans = []Span{{Text: ""}}
	}
	return spans
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"/", "&#x2F;",
)

// EscapeHTML escapes the characters that matter when the text is later
// rendered into markup, including quotes and the forward slash.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}
