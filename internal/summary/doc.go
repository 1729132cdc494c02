// Package summary orchestrates study-artifact generation for documents.
//
// Generate decides between a direct call and the chunked path (per-chunk
// generation followed by one synthesis call over the combined results),
// wraps every model call in the backoff executor, parses the final JSON and
// persists it. AppendMore and its MCQ/flashcard/alternate-summary variants
// extend a stored artifact through a single read, validate, write cycle so a
// malformed model response never changes what is stored.
//
// Every operation takes the caller's user ID explicitly and refuses to touch
// documents or summaries owned by someone else.
package summary
