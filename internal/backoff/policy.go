package backoff

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Default policy values.
const (
	DefaultMaxAttempts  = 3
	DefaultInitialDelay = time.Second
	DefaultMultiplier   = 2.0
)

// ErrInvalidPolicy is returned by NewPolicy for an unusable policy.
var ErrInvalidPolicy = errors.New("invalid retry policy")

// Policy bounds the number of attempts and shapes the delay between them.
type Policy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
}

// DefaultPolicy returns three attempts starting at one second, doubling.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  DefaultMaxAttempts,
		InitialDelay: DefaultInitialDelay,
		Multiplier:   DefaultMultiplier,
	}
}

// NewPolicy builds a validated policy.
func NewPolicy(maxAttempts int, initialDelay time.Duration, multiplier float64) (Policy, error) {
	p := Policy{MaxAttempts: maxAttempts, InitialDelay: initialDelay, Multiplier: multiplier}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Validate checks the policy invariants.
func (p Policy) Validate() error {
	switch {
	case p.MaxAttempts < 1:
		return fmt.Errorf("%w: max attempts must be at least 1, got %d", ErrInvalidPolicy, p.MaxAttempts)
	case p.InitialDelay < 0:
		return fmt.Errorf("%w: initial delay must not be negative", ErrInvalidPolicy)
	case p.Multiplier < 1:
		return fmt.Errorf("%w: multiplier must be at least 1, got %v", ErrInvalidPolicy, p.Multiplier)
	}
	return nil
}

// Delay returns the wait before the given retry, counting from 1: the first
// retry waits InitialDelay, the k-th waits InitialDelay*Multiplier^(k-1).
func (p Policy) Delay(retry int) time.Duration {
	if retry < 1 {
		return 0
	}
	d := float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(retry-1))
	if d > math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}

// Delays lists every wait a fully failing run would go through.
func (p Policy) Delays() []time.Duration {
	out := make([]time.Duration, 0, max(p.MaxAttempts-1, 0))
	for k := 1; k < p.MaxAttempts; k++ {
		out = append(out, p.Delay(k))
	}
	return out
}
