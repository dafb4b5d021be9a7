package fetcher

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/jonesrussell/doctracer/internal/domain"
)

// RetryConfig configures repeated fetch attempts. The zero value and the
// default both mean a single attempt.
type RetryConfig struct {
	// MaxAttempts is the number of attempts including the first one.
	MaxAttempts int
	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration
	// MaxDelay caps the exponential backoff.
	MaxDelay time.Duration
	// Multiplier is the exponential backoff multiplier.
	Multiplier float64
}

// DefaultRetryConfig returns the single-attempt policy.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  1,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	}
}

func (c RetryConfig) withDefaults() RetryConfig {
	d := DefaultRetryConfig()
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = d.InitialDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = d.MaxDelay
	}
	if c.Multiplier <= 0 {
		c.Multiplier = d.Multiplier
	}
	return c
}

// backoff returns the delay after the given 1-based attempt.
func (c RetryConfig) backoff(attempt int) time.Duration {
	f := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt-1))
	if f >= float64(c.MaxDelay) || math.IsNaN(f) {
		return c.MaxDelay
	}
	return time.Duration(f)
}

// retryable reports whether a failed result may succeed on another attempt:
// transport failures and server errors.
func retryable(r Result) bool {
	switch r.Status {
	case domain.StatusConnectionError:
		return true
	case domain.StatusHTTPError:
		return r.HTTPCode >= http.StatusInternalServerError
	default:
		return false
	}
}

// sleep waits for d or until ctx is done. It returns false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
