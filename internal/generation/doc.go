// Package generation defines the contract between the summarization
// pipeline and an external LLM (Gemini in production): the Client interface,
// the incremental generation kinds, the errors clients return, and the
// classification of failures into rate-limit, timeout and generic categories.
package generation
