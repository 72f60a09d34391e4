package sink

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/ajitpratap0/columnar/pkg/errors"
)

// RetryConfig configures Publish retries.
type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts" json:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay" json:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay" json:"max_delay"`
}

// DefaultRetryConfig tries three times starting at 200ms.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     10 * time.Second,
	}
}

// Validate rejects a retry section that would never attempt a put.
func (c RetryConfig) Validate() error {
	if c.MaxAttempts < 1 {
		return errors.New(errors.ErrorTypeConfig, "retry max_attempts must be at least 1").
			WithDetail("max_attempts", c.MaxAttempts)
	}
	if c.InitialDelay < 0 || c.MaxDelay < c.InitialDelay {
		return errors.New(errors.ErrorTypeConfig, "retry delays must satisfy 0 <= initial_delay <= max_delay")
	}
	return nil
}

// Policy builds the backoff policy for c.
func (c RetryConfig) Policy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts:     max(c.MaxAttempts, 1),
		InitialDelay:    c.InitialDelay,
		MaxDelay:        c.MaxDelay,
		Multiplier:      2.0,
		RandomizeFactor: 0.25,
	}
}

// RetryPolicy defines retry behavior with exponential backoff and jitter.
type RetryPolicy struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	Multiplier      float64
	RandomizeFactor float64
}

// Execute runs fn until it succeeds, returns an error shouldRetry rejects,
// or MaxAttempts is reached. The last error is returned unwrapped.
func (rp *RetryPolicy) Execute(ctx context.Context, shouldRetry func(error) bool, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt < rp.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !shouldRetry(err) || attempt == rp.MaxAttempts-1 {
			break
		}

		timer := time.NewTimer(rp.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Wrap(ctx.Err(), errors.ErrorTypeTimeout, "retry cancelled")
		case <-timer.C:
		}
	}

	return lastErr
}

// Delay returns the wait after the given zero-based attempt.
func (rp *RetryPolicy) Delay(attempt int) time.Duration {
	delay := float64(rp.InitialDelay) * math.Pow(rp.Multiplier, float64(attempt))
	if delay > float64(rp.MaxDelay) {
		delay = float64(rp.MaxDelay)
	}

	if rp.RandomizeFactor > 0 {
		delta := delay * rp.RandomizeFactor
		delay = delay - delta + rand.Float64()*2*delta
	}
	return time.Duration(delay)
}
