// Package htmlsanitize strips markup from free text supplied by the
// analytics backend before it reaches a template.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes every tag and returns plain text. Entities are decoded
// so html/template can escape the result once.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// IsPlainText reports whether s contains no tags.
func IsPlainText(s string) bool {
	return !strings.ContainsAny(s, "<>")
}
