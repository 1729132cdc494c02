package chunking

// CharsPerToken is the character-to-token ratio used for estimates.
const CharsPerToken = 4

// DefaultTokenThreshold is the estimated token count above which a document
// is generated through the chunked path.
const DefaultTokenThreshold = 100_000

// EstimateTokens approximates the token count of text as len(text)/4,
// rounded down.
func EstimateTokens(text string) int {
	return len(text) / CharsPerToken
}

// ExceedsTokenLimit reports whether the estimate for text is above threshold.
// A non-positive threshold falls back to DefaultTokenThreshold.
func ExceedsTokenLimit(text string, threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultTokenThreshold
	}
	return EstimateTokens(text) > threshold
}
