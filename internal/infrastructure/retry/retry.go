// Package retry retries transient data source failures with exponential backoff.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/wanderlust/travel-listing-service/internal/domain"
)

// Config holds the retry configuration options.
type Config struct {
	// MaxAttempts is the maximum number of attempts, including the first one.
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries.
	MaxDelay time.Duration

	// Multiplier is the factor by which the delay grows after each retry.
	Multiplier float64

	// JitterFactor adds up to this fraction of the delay as random jitter (0.0 to 1.0).
	JitterFactor float64

	// RetryIf decides whether an error is worth another attempt.
	// If nil, all errors are retried.
	RetryIf func(error) bool

	// OnRetry is called before sleeping between attempts.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultConfig provides sensible defaults for retry behavior.
var DefaultConfig = Config{
	MaxAttempts:  3,
	InitialDelay: 100 * time.Millisecond,
	MaxDelay:     2 * time.Second,
	Multiplier:   2.0,
	JitterFactor: 0.1,
}

// SourceConfig is tuned for calls to a remote listings backend. It stops on
// permanent errors and on fetch errors not marked retryable.
var SourceConfig = Config{
	MaxAttempts:  3,
	InitialDelay: 200 * time.Millisecond,
	MaxDelay:     2 * time.Second,
	Multiplier:   2.0,
	JitterFactor: 0.2,
	RetryIf:      RetryableFetch,
}

// Do executes fn with retry logic and returns the last error if every attempt fails.
func Do(ctx context.Context, fn func() error, cfg Config) error {
	_, err := DoWithResult(ctx, func() (struct{}, error) {
		return struct{}{}, fn()
	}, cfg)
	return err
}

// DoWithResult executes fn with retry logic and returns its result.
func DoWithResult[T any](ctx context.Context, fn func() (T, error), cfg Config) (T, error) {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	var result T
	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		result, lastErr = fn()
		if lastErr == nil {
			return result, nil
		}

		if cfg.RetryIf != nil && !cfg.RetryIf(lastErr) {
			return result, lastErr
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		sleep := calculateSleepTime(delay, cfg.MaxDelay, cfg.JitterFactor)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, lastErr, sleep)
		}

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return result, ctx.Err()
		case <-timer.C:
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
	}

	return result, lastErr
}

// calculateSleepTime computes the sleep duration with jitter and max cap.
func calculateSleepTime(delay, maxDelay time.Duration, jitterFactor float64) time.Duration {
	jitter := time.Duration(rand.Float64() * float64(delay) * jitterFactor)
	return min(delay+jitter, maxDelay)
}

// Permanent wraps an error to indicate it should not be retried.
type Permanent struct {
	Err error
}

func (p *Permanent) Error() string {
	if p.Err == nil {
		return "permanent error"
	}
	return p.Err.Error()
}

func (p *Permanent) Unwrap() error {
	return p.Err
}

// NewPermanent creates a permanent (non-retryable) error.
func NewPermanent(err error) error {
	if err == nil {
		return nil
	}
	return &Permanent{Err: err}
}

// IsPermanent checks if an error is permanent (non-retryable).
func IsPermanent(err error) bool {
	var permanent *Permanent
	return errors.As(err, &permanent)
}

// SkipPermanent is a RetryIf predicate that skips permanent errors.
func SkipPermanent(err error) bool {
	return !IsPermanent(err)
}

// RetryableFetch is a RetryIf predicate for data source calls: permanent
// errors and fetch errors without the retryable flag stop immediately.
func RetryableFetch(err error) bool {
	if IsPermanent(err) {
		return false
	}
	if domain.IsFetchError(err) {
		return domain.IsRetryable(err)
	}
	return true
}

// WithRetryIf returns a new config with the given RetryIf predicate.
func (c Config) WithRetryIf(fn func(error) bool) Config {
	c.RetryIf = fn
	return c
}

// WithOnRetry returns a new config with the given retry hook.
func (c Config) WithOnRetry(fn func(attempt int, err error, delay time.Duration)) Config {
	c.OnRetry = fn
	return c
}

// WithMaxAttempts returns a new config with the given max attempts.
func (c Config) WithMaxAttempts(n int) Config {
	c.MaxAttempts = n
	return c
}

// WithInitialDelay returns a new config with the given initial delay.
func (c Config) WithInitialDelay(d time.Duration) Config {
	c.InitialDelay = d
	return c
}

// WithMaxDelay returns a new config with the given max delay.
func (c Config) WithMaxDelay(d time.Duration) Config {
	c.MaxDelay = d
	return c
}
