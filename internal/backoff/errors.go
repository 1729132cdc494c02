package backoff

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned when the context ends while waiting between
// attempts or during an attempt. Remaining attempts are skipped.
var ErrCancelled = errors.New("operation cancelled")

// RetryExhaustedError is returned after every attempt failed with a
// retryable error. Its message deliberately omits the upstream error text;
// the cause is still reachable through errors.Is and errors.As.
type RetryExhaustedError struct {
	Attempts int
	Label    string
	Err      error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts. Please try again later.", e.Label, e.Attempts)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.Err
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. Execute returns the original
// error unwrapped from the marker.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

func unwrapPermanent(err error) error {
	var p *permanentError
	if errors.As(err, &p) && p == err {
		return p.err
	}
	return err
}
