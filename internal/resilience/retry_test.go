package resilience

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// recordSleep captures requested delays without waiting.
func recordSleep(trace *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*trace = append(*trace, d)
		return nil
	}
}

func rateLimited() error {
	return NewTransientError(errors.New("429 too many requests"), http.StatusTooManyRequests)
}

func TestDoVal_SuccessOnFirstAttempt(t *testing.T) {
	var calls int
	_, err := DoVal(context.Background(), RetryConfig{ShouldRetry: IsRateLimited}, func(_ context.Context) (struct{}, error) {
		calls++
		return struct{}{}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDoVal_SuccessAfterRetry(t *testing.T) {
	var calls int
	var trace []time.Duration
	cfg := RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 5 * time.Second,
		MaxBackoff:     time.Minute,
		Multiplier:     2.0,
		ShouldRetry:    IsRateLimited,
		Sleep:          recordSleep(&trace),
	}

	_, err := DoVal(context.Background(), cfg, func(_ context.Context) (struct{}, error) {
		calls++
		if calls < 3 {
			return struct{}{}, rateLimited()
		}
		return struct{}{}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if len(trace) != 2 || trace[0] != 5*time.Second || trace[1] != 10*time.Second {
		t.Errorf("expected sleeps [5s 10s], got %v", trace)
	}
}

func TestDoVal_ExhaustsRetries(t *testing.T) {
	var calls int
	var trace []time.Duration
	cfg := RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 1 * time.Millisecond,
		MaxBackoff:     10 * time.Millisecond,
		Multiplier:     2.0,
		ShouldRetry:    IsRateLimited,
		Sleep:          recordSleep(&trace),
	}

	_, err := DoVal(context.Background(), cfg, func(_ context.Context) (struct{}, error) {
		calls++
		return struct{}{}, rateLimited()
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsExhausted(err) {
		t.Errorf("expected ExhaustedError, got %T", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if len(trace) != 2 {
		t.Errorf("expected 2 sleeps without BackoffAfterFinal, got %d", len(trace))
	}
}

func TestDoVal_BackoffAfterFinal(t *testing.T) {
	var calls int
	var trace []time.Duration
	cfg := RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    5 * time.Second,
		MaxBackoff:        time.Minute,
		Multiplier:        2.0,
		BackoffAfterFinal: true,
		ShouldRetry:       IsRateLimited,
		Sleep:             recordSleep(&trace),
	}

	_, err := DoVal(context.Background(), cfg, func(_ context.Context) (struct{}, error) {
		calls++
		return struct{}{}, rateLimited()
	})
	if !IsExhausted(err) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	want := []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second}
	if len(trace) != len(want) {
		t.Fatalf("expected %d sleeps, got %v", len(want), trace)
	}
	var total time.Duration
	for i, d := range trace {
		if d != want[i] {
			t.Errorf("sleep %d: expected %v, got %v", i, want[i], d)
		}
		total += d
	}
	if total != 35*time.Second {
		t.Errorf("expected 35s total backoff, got %v", total)
	}

	var ee *ExhaustedError
	if !errors.As(err, &ee) || ee.Attempts != 3 {
		t.Errorf("expected 3 attempts recorded, got %+v", ee)
	}
	if !IsRateLimited(err) {
		t.Error("expected last error to stay in the chain")
	}
}

func TestDoVal_NonTransientError_NoRetry(t *testing.T) {
	var calls int
	cfg := RetryConfig{
		MaxAttempts:    5,
		InitialBackoff: 1 * time.Millisecond,
		ShouldRetry:    IsRateLimited,
	}

	permanent := errors.New("bad request")
	_, err := DoVal(context.Background(), cfg, func(_ context.Context) (struct{}, error) {
		calls++
		return struct{}{}, permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if IsExhausted(err) {
		t.Error("permanent failure must not be reported as exhausted")
	}
	if calls != 1 {
		t.Errorf("expected 1 call (no retry), got %d", calls)
	}
}

func TestDoVal_NilShouldRetry_NoRetry(t *testing.T) {
	var calls int
	var trace []time.Duration
	cfg := RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		Sleep:          recordSleep(&trace),
	}

	_, err := DoVal(context.Background(), cfg, func(_ context.Context) (struct{}, error) {
		calls++
		return struct{}{}, rateLimited()
	})
	if !IsRateLimited(err) || IsExhausted(err) {
		t.Fatalf("expected the first failure unwrapped, got %v", err)
	}
	if calls != 1 || len(trace) != 0 {
		t.Errorf("expected 1 call and no sleeps, got %d calls, sleeps %v", calls, trace)
	}
}

func TestDoVal_ContextCancelled_StopsRetry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	cfg := RetryConfig{
		MaxAttempts:    10,
		InitialBackoff: time.Hour,
		ShouldRetry:    IsRateLimited,
	}

	_, err := DoVal(ctx, cfg, func(_ context.Context) (struct{}, error) {
		calls++
		cancel()
		return struct{}{}, rateLimited()
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call after cancellation, got %d", calls)
	}
}

func TestDoVal_SleepInterrupted(t *testing.T) {
	var calls int
	cfg := RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		ShouldRetry:    IsRateLimited,
		Sleep: func(_ context.Context, _ time.Duration) error {
			return context.Canceled
		},
	}

	_, err := DoVal(context.Background(), cfg, func(_ context.Context) (struct{}, error) {
		calls++
		return struct{}{}, rateLimited()
	})
	if err == nil || IsExhausted(err) {
		t.Fatalf("expected last attempt error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDoVal_CustomShouldRetry(t *testing.T) {
	var calls int
	var trace []time.Duration
	cfg := RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 1 * time.Millisecond,
		ShouldRetry:    IsRateLimited,
		Sleep:          recordSleep(&trace),
	}

	// 503 is transient but not a rate limit, so it must not be retried.
	_, err := DoVal(context.Background(), cfg, func(_ context.Context) (struct{}, error) {
		calls++
		return struct{}{}, NewTransientError(errors.New("unavailable"), 503)
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if len(trace) != 0 {
		t.Errorf("expected no sleeps, got %v", trace)
	}
}

func TestDoVal_OnRetryCallback(t *testing.T) {
	var attempts []int
	cfg := RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 1 * time.Millisecond,
		ShouldRetry:    IsRateLimited,
		Sleep:          recordSleep(new([]time.Duration)),
		OnRetry: func(attempt int, _ time.Duration, _ error) {
			attempts = append(attempts, attempt)
		},
	}

	_, _ = DoVal(context.Background(), cfg, func(_ context.Context) (struct{}, error) {
		return struct{}{}, rateLimited()
	})
	if len(attempts) != 2 || attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("expected OnRetry for attempts [1 2], got %v", attempts)
	}
}

func TestDoVal_ReturnsValueOnSuccess(t *testing.T) {
	var calls int
	cfg := RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 1 * time.Millisecond,
		ShouldRetry:    IsRateLimited,
		Sleep:          recordSleep(new([]time.Duration)),
	}

	val, err := DoVal(context.Background(), cfg, func(_ context.Context) ([]byte, error) {
		calls++
		if calls == 1 {
			return nil, rateLimited()
		}
		return []byte("<html></html>"), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(val) != "<html></html>" {
		t.Errorf("unexpected value %q", val)
	}
}

func TestDoVal_ReturnsZeroOnFailure(t *testing.T) {
	val, err := DoVal(context.Background(), RetryConfig{MaxAttempts: 1}, func(_ context.Context) (int, error) {
		return 42, errors.New("fail")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if val != 0 {
		t.Errorf("expected zero value, got %d", val)
	}
}

func TestComputeBackoff_ExponentialGrowth(t *testing.T) {
	cfg := applyDefaults(RetryConfig{
		InitialBackoff: 5 * time.Second,
		MaxBackoff:     time.Minute,
		Multiplier:     2.0,
	})

	want := []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second, 40 * time.Second}
	for i, w := range want {
		if got := computeBackoff(i, cfg); got != w {
			t.Errorf("attempt %d: expected %v, got %v", i, w, got)
		}
	}
}

func TestComputeBackoff_CapsAtMax(t *testing.T) {
	cfg := applyDefaults(RetryConfig{
		InitialBackoff: 5 * time.Second,
		MaxBackoff:     15 * time.Second,
		Multiplier:     2.0,
	})
	if got := computeBackoff(5, cfg); got != 15*time.Second {
		t.Errorf("expected cap at 15s, got %v", got)
	}
}

func TestSleepContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := SleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSleepContext_Elapses(t *testing.T) {
	if err := SleepContext(context.Background(), time.Millisecond); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRetryLogger(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	defer zap.ReplaceGlobals(zap.New(core))()

	RetryLogger("fetcher", "https://example.test/years/2022/passing.htm")(2, 10*time.Second, rateLimited())

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["component"] != "fetcher" || fields["attempt"] != int64(2) {
		t.Errorf("unexpected fields %v", fields)
	}
	if fields["delay"] != 10*time.Second {
		t.Errorf("expected delay 10s, got %v", fields["delay"])
	}
}
