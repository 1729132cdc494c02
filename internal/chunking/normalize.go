package chunking

import (
	"regexp"
	"strings"
)

const byteOrderMark = "\uFEFF"

var (
	// word characters, whitespace and . ? ! , ; : " - survive
	disallowedChars = regexp.MustCompile(`[^A-Za-z0-9_ \t\n\v\f\r.?!,;:"-]+`)
	whitespaceRuns  = regexp.MustCompile(`[ \t\n\v\f\r]+`)
)

// Normalize strips a leading byte-order mark, removes characters outside the
// allowed set, collapses whitespace runs to a single space and trims the
// result. It never fails; an empty result is for the caller to reject.
//
// Normalize is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = strings.TrimPrefix(text, byteOrderMark)
	text = disallowedChars.ReplaceAllString(text, "")
	text = whitespaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
