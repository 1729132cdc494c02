// Package chunking prepares document text for generation. It normalizes raw
// extracted text into a restricted character set and splits text that is too
// large for a single model call into ordered, overlapping windows.
//
// Everything in this package is pure: no I/O, no logging, deterministic for
// identical inputs. Callers that need to report truncation inspect
// Result.Truncated.
package chunking
