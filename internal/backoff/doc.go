// Package backoff runs a unit of work with a bounded number of attempts and
// an exponentially growing, cancellable delay between them. It knows nothing
// about the work it retries; callers decide which errors are final.
package backoff
