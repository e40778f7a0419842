package retry

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wanderlust/travel-listing-service/internal/domain"
)

// fastConfig retries quickly and without jitter.
func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     10 * time.Millisecond,
		Multiplier:   2.0,
		JitterFactor: 0,
	}
}

func TestDo_SuccessOnFirstAttempt(t *testing.T) {
	var attempts int32

	err := Do(context.Background(), func() error {
		atomic.AddInt32(&attempts, 1)
		return nil
	}, DefaultConfig)

	assert.NoError(t, err)
	assert.Equal(t, int32(1), attempts)
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	var attempts int32

	err := Do(context.Background(), func() error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("temporary error")
		}
		return nil
	}, fastConfig(5))

	assert.NoError(t, err)
	assert.Equal(t, int32(3), attempts)
}

func TestDo_MaxAttemptsExceeded(t *testing.T) {
	var attempts int32
	expectedErr := errors.New("persistent error")

	err := Do(context.Background(), func() error {
		atomic.AddInt32(&attempts, 1)
		return expectedErr
	}, fastConfig(3))

	assert.Equal(t, expectedErr, err)
	assert.Equal(t, int32(3), attempts)
}

func TestDo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var attempts int32

	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	cfg := fastConfig(100)
	cfg.InitialDelay = 20 * time.Millisecond
	cfg.MaxDelay = 100 * time.Millisecond

	err := Do(ctx, func() error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("temporary error")
	}, cfg)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, atomic.LoadInt32(&attempts), int32(100))
}

func TestDo_ContextAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var attempts int32
	err := Do(ctx, func() error {
		atomic.AddInt32(&attempts, 1)
		return nil
	}, DefaultConfig)

	assert.Equal(t, context.Canceled, err)
	assert.Equal(t, int32(0), attempts)
}

func TestDo_ZeroMaxAttempts(t *testing.T) {
	var attempts int32
	err := Do(context.Background(), func() error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("fail")
	}, fastConfig(0))

	assert.Error(t, err)
	assert.Equal(t, int32(1), attempts)
}

func TestDo_MaxDelayRespected(t *testing.T) {
	cfg := fastConfig(3)
	cfg.InitialDelay = time.Second
	cfg.MaxDelay = 5 * time.Millisecond

	start := time.Now()
	_ = Do(context.Background(), func() error { return errors.New("fail") }, cfg)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestDo_OnRetryHook(t *testing.T) {
	var seen []int
	cfg := fastConfig(3).WithOnRetry(func(attempt int, err error, delay time.Duration) {
		seen = append(seen, attempt)
		assert.Error(t, err)
		assert.LessOrEqual(t, delay, 10*time.Millisecond)
	})

	_ = Do(context.Background(), func() error { return errors.New("fail") }, cfg)
	assert.Equal(t, []int{1, 2}, seen, "no hook after the last attempt")
}

func TestDoWithResult_SuccessAfterRetries(t *testing.T) {
	var attempts int32
	result, err := DoWithResult(context.Background(), func() (*domain.ListingResult, error) {
		if atomic.AddInt32(&attempts, 1) < 2 {
			return nil, domain.NewSourceUnavailableError("remote")
		}
		return domain.NewListingResult(nil, domain.NewPage(1, 1, 0)), nil
	}, fastConfig(3).WithRetryIf(RetryableFetch))

	assert.NoError(t, err)
	assert.True(t, result.IsEmpty())
	assert.Equal(t, int32(2), attempts)
}

func TestDoWithResult_RetryIfPredicate(t *testing.T) {
	var attempts int32
	retryableErr := errors.New("retryable")
	nonRetryableErr := errors.New("non-retryable")

	result, err := DoWithResult(context.Background(), func() (int, error) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			return 0, retryableErr
		}
		return 99, nonRetryableErr
	}, fastConfig(5).WithRetryIf(func(err error) bool {
		return err == retryableErr
	}))

	assert.Equal(t, nonRetryableErr, err)
	assert.Equal(t, 99, result)
	assert.Equal(t, int32(2), attempts)
}

func TestPermanentError(t *testing.T) {
	originalErr := errors.New("bad request")
	permanent := NewPermanent(originalErr)

	assert.True(t, IsPermanent(permanent))
	assert.Equal(t, "bad request", permanent.Error())

	var pErr *Permanent
	assert.True(t, errors.As(permanent, &pErr))
	assert.Equal(t, originalErr, pErr.Unwrap())

	assert.Nil(t, NewPermanent(nil))
	assert.Equal(t, "permanent error", (&Permanent{}).Error())
}

func TestSkipPermanent(t *testing.T) {
	assert.True(t, SkipPermanent(errors.New("regular")))
	assert.False(t, SkipPermanent(NewPermanent(errors.New("permanent"))))
	assert.False(t, IsPermanent(nil))
}

func TestRetryableFetch(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "plain error", err: errors.New("io"), want: true},
		{name: "permanent", err: NewPermanent(errors.New("400")), want: false},
		{name: "retryable fetch error", err: domain.NewRetryableFetchError("remote", errors.New("502")), want: true},
		{name: "unavailable", err: domain.NewSourceUnavailableError("remote"), want: true},
		{name: "non-retryable fetch error", err: domain.NewFetchError("remote", errors.New("bad payload")), want: false},
		{name: "permanent fetch error", err: NewPermanent(domain.NewRetryableFetchError("remote", errors.New("x"))), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RetryableFetch(tt.err))
		})
	}
}

func TestDo_WithRetryableFetch(t *testing.T) {
	var attempts int32
	err := Do(context.Background(), func() error {
		if atomic.AddInt32(&attempts, 1) == 1 {
			return domain.NewRetryableFetchError("remote", errors.New("503"))
		}
		return domain.NewFetchError("remote", errors.New("malformed"))
	}, fastConfig(5).WithRetryIf(RetryableFetch))

	assert.ErrorIs(t, err, domain.ErrFetch)
	assert.Equal(t, int32(2), attempts)
}

func TestConfig_Builders(t *testing.T) {
	cfg := DefaultConfig.
		WithMaxAttempts(5).
		WithInitialDelay(200 * time.Millisecond).
		WithMaxDelay(5 * time.Second).
		WithRetryIf(SkipPermanent)

	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 200*time.Millisecond, cfg.InitialDelay)
	assert.Equal(t, 5*time.Second, cfg.MaxDelay)
	assert.NotNil(t, cfg.RetryIf)
	assert.Nil(t, DefaultConfig.RetryIf, "builders must not modify the receiver")
}

func TestDefaultConfigs(t *testing.T) {
	assert.Equal(t, 3, DefaultConfig.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, DefaultConfig.InitialDelay)
	assert.Equal(t, 2.0, DefaultConfig.Multiplier)

	assert.Equal(t, 3, SourceConfig.MaxAttempts)
	assert.Equal(t, 200*time.Millisecond, SourceConfig.InitialDelay)
	assert.Equal(t, 0.2, SourceConfig.JitterFactor)
	assert.NotNil(t, SourceConfig.RetryIf)
}
