package circuit

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(config Config) (*Breaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := NewBreaker("redis-cache", config, zap.NewNop())
	b.now = clock.now
	return b, clock
}

var errCache = errors.New("dial tcp: connection refused")

func TestNewBreaker(t *testing.T) {
	breaker := NewBreaker("test", DefaultConfig(), nil)

	if breaker.State() != StateClosed {
		t.Errorf("Expected initial state CLOSED, got %s", breaker.State())
	}
	if breaker.Name() != "test" {
		t.Errorf("unexpected name %q", breaker.Name())
	}
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	breaker, _ := newTestBreaker(Config{Threshold: 3, Timeout: time.Second, SuccessThreshold: 1, MaxHalfOpen: 1})

	for i := 0; i < 2; i++ {
		breaker.Record(errCache)
	}
	if breaker.State() != StateClosed {
		t.Fatalf("Expected CLOSED below threshold, got %s", breaker.State())
	}

	breaker.Record(errCache)
	if breaker.State() != StateOpen {
		t.Fatalf("Expected OPEN after threshold, got %s", breaker.State())
	}
	if err := breaker.Allow(); err != ErrCircuitOpen {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	breaker, _ := newTestBreaker(Config{Threshold: 2, Timeout: time.Second})

	breaker.Record(errCache)
	breaker.Record(nil)
	breaker.Record(errCache)

	if breaker.State() != StateClosed {
		t.Errorf("non-consecutive failures must not open the circuit, got %s", breaker.State())
	}
}

func TestBreaker_HalfOpenProbe(t *testing.T) {
	breaker, clock := newTestBreaker(Config{Threshold: 1, Timeout: time.Second, SuccessThreshold: 1, MaxHalfOpen: 1})

	breaker.Record(errCache)
	clock.advance(500 * time.Millisecond)
	if err := breaker.Allow(); err != ErrCircuitOpen {
		t.Fatalf("Expected ErrCircuitOpen before timeout, got %v", err)
	}

	clock.advance(time.Second)
	if err := breaker.Allow(); err != nil {
		t.Fatalf("Expected probe to be allowed, got %v", err)
	}
	if breaker.State() != StateHalfOpen {
		t.Fatalf("Expected HALF_OPEN, got %s", breaker.State())
	}
	if err := breaker.Allow(); err != ErrTooManyRequests {
		t.Errorf("Expected ErrTooManyRequests for second probe, got %v", err)
	}

	breaker.Record(nil)
	if breaker.State() != StateClosed {
		t.Errorf("Expected CLOSED after successful probe, got %s", breaker.State())
	}
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	breaker, clock := newTestBreaker(Config{Threshold: 1, Timeout: time.Second, SuccessThreshold: 1, MaxHalfOpen: 1})

	breaker.Record(errCache)
	clock.advance(2 * time.Second)
	if err := breaker.Allow(); err != nil {
		t.Fatalf("probe: %v", err)
	}

	breaker.Record(errCache)
	if breaker.State() != StateOpen {
		t.Errorf("Expected OPEN after failed probe, got %s", breaker.State())
	}
}

func TestBreaker_Execute(t *testing.T) {
	breaker, _ := newTestBreaker(Config{Threshold: 1, Timeout: time.Hour})

	if err := breaker.Execute(func() error { return nil }); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := breaker.Execute(func() error { return errCache }); err != errCache {
		t.Errorf("Expected cache error, got %v", err)
	}

	called := false
	err := breaker.Execute(func() error {
		called = true
		return nil
	})
	if err != ErrCircuitOpen || called {
		t.Errorf("open circuit must short-circuit: err=%v called=%v", err, called)
	}
}

func TestBreaker_Reset(t *testing.T) {
	breaker, _ := newTestBreaker(Config{Threshold: 1, Timeout: time.Hour})

	breaker.Record(errCache)
	breaker.Reset()

	if breaker.State() != StateClosed {
		t.Errorf("Expected state CLOSED after reset, got %s", breaker.State())
	}
}
