// Package gemini implements generation.Client on top of Google's Gemini API.
//
// The client renders one of four prompt templates (full study artifact, more
// questions, more flashcards, alternate summary), sends it through the genai
// SDK and returns the model's text with any Markdown code fence removed. It
// does not parse or validate the returned content; that belongs to the
// summary package.
//
// Outgoing calls are throttled with a token-bucket limiter and bounded by a
// per-request timeout. Provider failures are mapped onto the generation
// package's sentinel errors so callers can decide what to retry:
//
//   - HTTP 429 and RESOURCE_EXHAUSTED become generation.ErrRateLimited
//   - an expired request deadline becomes generation.ErrTimeout
//   - safety blocks become generation.ErrContentBlocked
//   - 400, 401 and 403 responses become non-retryable request or config errors
//
// Retrying is not done here. Callers wrap the client in a backoff.Executor.
//
// Prompt templates are embedded in the binary. LLMConfig.PromptTemplateDir
// can point at a directory with replacements of the same file names.
package gemini
