// Package retry provides bounded retries with exponential backoff and
// jitter. It is used at dial time for dependencies (Postgres, Redis)
// that may come up after the service does.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// ErrExhausted is returned in Result.Err when the retry budget ran out
// before any attempt succeeded.
var ErrExhausted = errors.New("retry attempts exhausted")

// Operation is a single attempt. Return nil on success, wrap the error
// with Retryable to request another attempt, or return it unwrapped to
// stop immediately.
type Operation func(ctx context.Context) error

// RetryableError marks an error as transient.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err so Do will attempt the operation again.
// A nil err passes through unchanged.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Config controls the backoff schedule.
type Config struct {
	// MaxRetries is the number of attempts beyond the first.
	MaxRetries int
	// InitialInterval is the delay before the second attempt.
	InitialInterval time.Duration
	// MaxInterval caps the delay between attempts.
	MaxInterval time.Duration
	// Multiplier grows the delay after each failed attempt.
	Multiplier float64
	// JitterFactor (0..1) randomizes each delay by that fraction.
	JitterFactor float64
}

// DefaultConfig yields delays of 1s, 2s, 4s, 8s, 16s, then 30s capped.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:      5,
		InitialInterval: time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
		JitterFactor:    0.1,
	}
}

// Result reports how a Do call ended.
type Result struct {
	// Err is nil on success, ErrExhausted when the budget ran out, the
	// operation's own error when it was not retryable, or the context
	// error when ctx ended first.
	Err error
	// LastError is the unwrapped error from the final failed attempt.
	LastError error
	// Attempts counts attempts made, including the first.
	Attempts int
}

// Do runs op until it succeeds, returns a non-retryable error, the
// retry budget runs out, or ctx is done.
func Do(ctx context.Context, cfg *Config, op Operation) *Result {
	cfg = normalize(cfg)
	res := &Result{}
	delay := cfg.InitialInterval

	for {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}

		res.Attempts++
		err := op(ctx)
		if err == nil {
			return res
		}

		var transient *RetryableError
		if !errors.As(err, &transient) {
			res.Err = err
			res.LastError = err
			return res
		}
		res.LastError = transient.Err

		if res.Attempts > cfg.MaxRetries {
			res.Err = ErrExhausted
			return res
		}

		select {
		case <-ctx.Done():
			res.Err = ctx.Err()
			return res
		case <-time.After(jittered(delay, cfg.JitterFactor)):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxInterval {
			delay = cfg.MaxInterval
		}
	}
}

// normalize fills zero values with defaults without mutating the
// caller's Config.
func normalize(cfg *Config) *Config {
	if cfg == nil {
		return DefaultConfig()
	}
	out := *cfg
	if out.InitialInterval <= 0 {
		out.InitialInterval = time.Second
	}
	if out.MaxInterval <= 0 {
		out.MaxInterval = 30 * time.Second
	}
	if out.Multiplier <= 1 {
		out.Multiplier = 2.0
	}
	if out.JitterFactor < 0 {
		out.JitterFactor = 0
	}
	if out.JitterFactor > 1 {
		out.JitterFactor = 1
	}
	return &out
}

func jittered(d time.Duration, factor float64) time.Duration {
	if factor <= 0 {
		return d
	}
	spread := float64(d) * factor
	j := time.Duration(float64(d) + (rand.Float64()*2-1)*spread)
	if j <= 0 {
		return d
	}
	return j
}
