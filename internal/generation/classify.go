package generation

import "strings"

// Category is the coarse class of a failed generation.
type Category string

// Failure categories.
const (
	CategoryRateLimited Category = "rate_limited"
	CategoryTimedOut    Category = "timed_out"
	CategoryGeneric     Category = "generic"
)

// Classify derives a Category from an error's message: "rate limit" means
// RateLimited, "timeout" means TimedOut, anything else is Generic.
//
// Matching is by substring over the whole error chain's text and is the
// only place in the codebase that inspects error messages. Replace it with
// structured provider codes once the client surfaces them.
func Classify(err error) Category {
	if err == nil {
		return CategoryGeneric
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit"):
		return CategoryRateLimited
	case strings.Contains(msg, "timeout"):
		return CategoryTimedOut
	default:
		return CategoryGeneric
	}
}
