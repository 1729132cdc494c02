// Package redact scrubs credentials and other sensitive fragments from strings
// before they reach logs or client-facing error messages. Upstream LLM errors
// in particular may echo request URLs carrying the API key.
package redact

import "regexp"

// Placeholders substituted for redacted fragments.
const (
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
)

type rule struct {
	re          *regexp.Regexp
	placeholder string
}

// rules run in order; earlier rules win on overlapping matches.
var rules = []rule{
	// user:password@ in connection strings
	{regexp.MustCompile(`(?i)(postgres(?:ql)?|mysql|mongodb|redis)://[^@\s]+@`), "$1://" + RedactedCredentialPlaceholder + "@"},
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), RedactedJWTPlaceholder},
	// Google API keys, including those echoed back inside request URLs
	{regexp.MustCompile(`AIza[0-9A-Za-z_-]{20,}`), RedactedKeyPlaceholder},
	{regexp.MustCompile(`(?i)([?&](?:key|api_key|access_token)=)[^&\s"']+`), "${1}" + RedactedKeyPlaceholder},
	{regexp.MustCompile(`(?i)\b(api[_-]?key|secret|token|password)(\s*[=:]\s*['"]?)[^'"&\s,]{6,}`), "${1}${2}" + RedactedKeyPlaceholder},
	{regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9_\-.~+/=]{8,}`), "Bearer " + RedactedKeyPlaceholder},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), RedactedEmailPlaceholder},
	{regexp.MustCompile(`(^|\s)/(?:home|root|var|etc|tmp|usr|opt|Users)(?:/[\w.-]+)+`), "${1}" + RedactedPathPlaceholder},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}
	out := input
	for _, r := range rules {
		out = r.re.ReplaceAllString(out, r.placeholder)
	}
	return out
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
