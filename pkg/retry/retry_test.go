package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig(maxRetries int) *Config {
	return &Config{
		MaxRetries:      maxRetries,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2.0,
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	res := Do(context.Background(), fastConfig(3), func(ctx context.Context) error {
		calls++
		return nil
	})

	if res.Err != nil {
		t.Fatalf("Err = %v, want nil", res.Err)
	}
	if res.Attempts != 1 || calls != 1 {
		t.Fatalf("Attempts = %d, calls = %d, want 1 each", res.Attempts, calls)
	}
	if res.LastError != nil {
		t.Fatalf("LastError = %v, want nil", res.LastError)
	}
}

func TestDoRetriesTransientErrors(t *testing.T) {
	boom := errors.New("connection refused")
	calls := 0
	res := Do(context.Background(), fastConfig(5), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return Retryable(boom)
		}
		return nil
	})

	if res.Err != nil {
		t.Fatalf("Err = %v, want nil", res.Err)
	}
	if res.Attempts != 3 {
		t.Fatalf("Attempts = %d, want 3", res.Attempts)
	}
	if !errors.Is(res.LastError, boom) {
		t.Fatalf("LastError = %v, want %v", res.LastError, boom)
	}
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	fatal := errors.New("invalid credentials")
	calls := 0
	res := Do(context.Background(), fastConfig(5), func(ctx context.Context) error {
		calls++
		return fatal
	})

	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if !errors.Is(res.Err, fatal) {
		t.Fatalf("Err = %v, want %v", res.Err, fatal)
	}
	if !errors.Is(res.LastError, fatal) {
		t.Fatalf("LastError = %v, want %v", res.LastError, fatal)
	}
}

func TestDoExhaustsBudget(t *testing.T) {
	boom := errors.New("still down")
	calls := 0
	res := Do(context.Background(), fastConfig(2), func(ctx context.Context) error {
		calls++
		return Retryable(boom)
	})

	if !errors.Is(res.Err, ErrExhausted) {
		t.Fatalf("Err = %v, want ErrExhausted", res.Err)
	}
	// Initial attempt plus two retries.
	if res.Attempts != 3 || calls != 3 {
		t.Fatalf("Attempts = %d, calls = %d, want 3 each", res.Attempts, calls)
	}
	if !errors.Is(res.LastError, boom) {
		t.Fatalf("LastError = %v, want %v", res.LastError, boom)
	}
}

func TestDoZeroRetriesSingleAttempt(t *testing.T) {
	calls := 0
	res := Do(context.Background(), fastConfig(0), func(ctx context.Context) error {
		calls++
		return Retryable(errors.New("nope"))
	})

	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if !errors.Is(res.Err, ErrExhausted) {
		t.Fatalf("Err = %v, want ErrExhausted", res.Err)
	}
}

func TestDoContextCanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	res := Do(ctx, fastConfig(3), func(ctx context.Context) error {
		calls++
		return nil
	})

	if calls != 0 {
		t.Fatalf("calls = %d, want 0", calls)
	}
	if !errors.Is(res.Err, context.Canceled) {
		t.Fatalf("Err = %v, want context.Canceled", res.Err)
	}
}

func TestDoContextCanceledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := &Config{
		MaxRetries:      3,
		InitialInterval: time.Minute,
		MaxInterval:     time.Minute,
		Multiplier:      2.0,
	}

	done := make(chan *Result, 1)
	go func() {
		done <- Do(ctx, cfg, func(ctx context.Context) error {
			return Retryable(errors.New("down"))
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case res := <-done:
		if !errors.Is(res.Err, context.Canceled) {
			t.Fatalf("Err = %v, want context.Canceled", res.Err)
		}
		if res.Attempts != 1 {
			t.Fatalf("Attempts = %d, want 1", res.Attempts)
		}
	case <-time.After(time.Second):
		t.Fatal("Do did not return after cancellation")
	}
}

func TestRetryableNilPassthrough(t *testing.T) {
	if Retryable(nil) != nil {
		t.Fatal("Retryable(nil) should be nil")
	}
}

func TestRetryableUnwraps(t *testing.T) {
	base := errors.New("base")
	wrapped := Retryable(base)

	if wrapped.Error() != "base" {
		t.Fatalf("Error() = %q, want %q", wrapped.Error(), "base")
	}
	if !errors.Is(wrapped, base) {
		t.Fatal("wrapped error should match base via errors.Is")
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := normalize(&Config{MaxRetries: 2})

	if cfg.InitialInterval != time.Second {
		t.Errorf("InitialInterval = %v, want 1s", cfg.InitialInterval)
	}
	if cfg.MaxInterval != 30*time.Second {
		t.Errorf("MaxInterval = %v, want 30s", cfg.MaxInterval)
	}
	if cfg.Multiplier != 2.0 {
		t.Errorf("Multiplier = %v, want 2.0", cfg.Multiplier)
	}
	if normalize(nil).MaxRetries != DefaultConfig().MaxRetries {
		t.Error("normalize(nil) should fall back to DefaultConfig")
	}
}

func TestNormalizeClampsJitter(t *testing.T) {
	if got := normalize(&Config{JitterFactor: 1.5}).JitterFactor; got != 1 {
		t.Errorf("JitterFactor = %v, want 1", got)
	}
	if got := normalize(&Config{JitterFactor: -0.5}).JitterFactor; got != 0 {
		t.Errorf("JitterFactor = %v, want 0", got)
	}
}

func TestJitteredBounds(t *testing.T) {
	base := 100 * time.Millisecond
	for i := 0; i < 50; i++ {
		d := jittered(base, 0.1)
		if d < 90*time.Millisecond || d > 110*time.Millisecond {
			t.Fatalf("jittered delay %v outside 90ms..110ms", d)
		}
	}
	if jittered(base, 0) != base {
		t.Fatal("zero jitter should return the base delay")
	}
}
