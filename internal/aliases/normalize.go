// Package aliases builds the company-name alias index and performs ticker
// mention extraction against it. The index is immutable after construction
// and safe for concurrent reads.
package aliases

import (
	"regexp"
	"strings"
)

var (
	nonWordPattern    = regexp.MustCompile(`[^\w\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes raw text for matching: lowercase, every
// non-word/non-space character replaced with a space, repeated whitespace
// collapsed, trimmed. Pure and idempotent.
func Normalize(text string) string {
	t := strings.ToLower(text)
	t = nonWordPattern.ReplaceAllString(t, " ")
	t = whitespacePattern.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}
