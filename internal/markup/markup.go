// Package markup converts between the plain text users type and the small
// inline-HTML subset pages are persisted in: escaped text with <br> line breaks.
package markup

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// EmptyPreview is shown for pages with no visible text.
const EmptyPreview = "Empty page"

var (
	breakRe      = regexp.MustCompile(`(?i)<br\s*/?>|</(div|p)>`)
	whitespaceRe = regexp.MustCompile(`\s+`)

	stripPolicy   = bluemonday.StripTagsPolicy()
	spacingPolicy = newSpacingPolicy()
)

func newSpacingPolicy() *bluemonday.Policy {
	p := bluemonday.StripTagsPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}

// FromText encodes plain text as page content.
func FromText(text string) string {
	if text == "" {
		return ""
	}
	escaped := html.EscapeString(text)
	return strings.ReplaceAll(escaped, "\n", "<br>")
}

// ToText decodes page content back into plain text. Block closers and <br>
// become newlines; every other tag is dropped.
func ToText(content string) string {
	if content == "" {
		return ""
	}
	withBreaks := breakRe.ReplaceAllString(content, "\n")
	return html.UnescapeString(stripPolicy.Sanitize(withBreaks))
}

// Preview renders a single-line excerpt of content: tags replaced by spaces,
// whitespace collapsed and the result cut to limit runes. The bool reports
// whether the text was truncated.
func Preview(content string, limit int) (string, bool) {
	text := html.UnescapeString(spacingPolicy.Sanitize(content))
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	if text == "" {
		return EmptyPreview, false
	}
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text, false
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:limit])), true
}
