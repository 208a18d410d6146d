package breaker

import (
	"errors"
	"sync"
	"testing"
	"time"
)

var errDown = errors.New("service down")

func newTestBreaker(t *testing.T, cfg Config) *Breaker {
	t.Helper()
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.RecoveryTimeout == 0 {
		cfg.RecoveryTimeout = 25 * time.Millisecond
	}
	if cfg.HalfOpenMaxCalls == 0 {
		cfg.HalfOpenMaxCalls = 1
	}
	b, err := New("svc", cfg)
	if err != nil {
		t.Fatalf("new breaker: %v", err)
	}
	return b
}

func tripOpen(t *testing.T, b *Breaker, failures int) {
	t.Helper()
	for i := 0; i < failures; i++ {
		if err := b.Do(func() error { return errDown }); !errors.Is(err, errDown) {
			t.Fatalf("failure %d: expected wrapped error, got %v", i, err)
		}
	}
	if got := b.State(); got != StateOpen {
		t.Fatalf("expected open after %d failures, got %v", failures, got)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cases := []Config{
		{FailureThreshold: 0, RecoveryTimeout: time.Second, HalfOpenMaxCalls: 1},
		{FailureThreshold: 3, RecoveryTimeout: 0, HalfOpenMaxCalls: 1},
		{FailureThreshold: 3, RecoveryTimeout: time.Second, HalfOpenMaxCalls: 0},
	}
	for i, cfg := range cases {
		if _, err := New("svc", cfg); err == nil {
			t.Fatalf("case %d: expected config error", i)
		}
	}
	if _, err := New("", Config{FailureThreshold: 1, RecoveryTimeout: time.Second, HalfOpenMaxCalls: 1}); err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func TestInitialStateClosed(t *testing.T) {
	b := newTestBreaker(t, Config{})
	if got := b.State(); got != StateClosed {
		t.Fatalf("expected closed, got %v", got)
	}
}

func TestSuccessStaysClosedAndResetsFailures(t *testing.T) {
	b := newTestBreaker(t, Config{FailureThreshold: 3})

	for i := 0; i < 2; i++ {
		_ = b.Do(func() error { return errDown })
	}
	if err := b.Do(func() error { return nil }); err != nil {
		t.Fatalf("success call: %v", err)
	}

	// Counter reset: two more failures must not reach the threshold.
	for i := 0; i < 2; i++ {
		_ = b.Do(func() error { return errDown })
	}
	if got := b.State(); got != StateClosed {
		t.Fatalf("expected closed, got %v", got)
	}
}

func TestFailuresAtThresholdOpenCircuit(t *testing.T) {
	b := newTestBreaker(t, Config{FailureThreshold: 3})
	tripOpen(t, b, 3)
}

func TestOpenRejectsWithoutInvokingFn(t *testing.T) {
	b := newTestBreaker(t, Config{FailureThreshold: 1, RecoveryTimeout: time.Hour})
	tripOpen(t, b, 1)

	invoked := false
	err := b.Do(func() error {
		invoked = true
		return nil
	})
	if !errors.Is(err, ErrOpen) {
		t.Fatalf("expected ErrOpen, got %v", err)
	}
	if invoked {
		t.Fatalf("wrapped function must not run while open")
	}
}

func TestOpenUsesFallback(t *testing.T) {
	b := newTestBreaker(t, Config{FailureThreshold: 1, RecoveryTimeout: time.Hour})
	tripOpen(t, b, 1)

	called := false
	if err := b.DoWithFallback(func() error { return nil }, func() error {
		called = true
		return nil
	}); err != nil {
		t.Fatalf("fallback path: %v", err)
	}
	if !called {
		t.Fatalf("expected fallback to run")
	}
}

func TestRecoveryTimeoutAdmitsProbeAndClosesOnSuccess(t *testing.T) {
	b := newTestBreaker(t, Config{FailureThreshold: 1, RecoveryTimeout: 10 * time.Millisecond})
	tripOpen(t, b, 1)

	time.Sleep(15 * time.Millisecond)

	if err := b.Do(func() error { return nil }); err != nil {
		t.Fatalf("probe call: %v", err)
	}
	if got := b.State(); got != StateClosed {
		t.Fatalf("expected closed after successful probe, got %v", got)
	}

	// Failure counter was reset on close.
	_ = b.Do(func() error { return errDown })
	if got := b.State(); got != StateOpen {
		t.Fatalf("threshold 1: expected open, got %v", got)
	}
}

func TestFailedProbeReopens(t *testing.T) {
	b := newTestBreaker(t, Config{FailureThreshold: 1, RecoveryTimeout: 10 * time.Millisecond})
	tripOpen(t, b, 1)

	time.Sleep(15 * time.Millisecond)

	if err := b.Do(func() error { return errDown }); !errors.Is(err, errDown) {
		t.Fatalf("probe: expected wrapped error, got %v", err)
	}
	if got := b.State(); got != StateOpen {
		t.Fatalf("expected open after failed probe, got %v", got)
	}
}

func TestHalfOpenProbeBudget(t *testing.T) {
	b := newTestBreaker(t, Config{FailureThreshold: 1, RecoveryTimeout: 5 * time.Millisecond, HalfOpenMaxCalls: 2})
	tripOpen(t, b, 1)

	time.Sleep(10 * time.Millisecond)
	if got := b.State(); got != StateHalfOpen {
		t.Fatalf("expected half_open, got %v", got)
	}

	release := make(chan struct{})
	started := make(chan struct{}, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.Do(func() error {
				started <- struct{}{}
				<-release
				return nil
			})
		}()
	}
	<-started
	<-started

	// Both probe slots held: a third call is rejected like open.
	if err := b.Do(func() error { return nil }); !errors.Is(err, ErrOpen) {
		t.Fatalf("expected ErrOpen beyond probe budget, got %v", err)
	}

	close(release)
	wg.Wait()
	if got := b.State(); got != StateClosed {
		t.Fatalf("expected closed after successful probes, got %v", got)
	}
}

func TestResetClosesManually(t *testing.T) {
	b := newTestBreaker(t, Config{FailureThreshold: 1, RecoveryTimeout: time.Hour})
	tripOpen(t, b, 1)

	b.Reset()
	if got := b.State(); got != StateClosed {
		t.Fatalf("expected closed after reset, got %v", got)
	}
	if err := b.Do(func() error { return nil }); err != nil {
		t.Fatalf("call after reset: %v", err)
	}
}

func TestOnStateChangeHook(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	b := newTestBreaker(t, Config{
		FailureThreshold: 1,
		RecoveryTimeout:  5 * time.Millisecond,
		OnStateChange: func(name string, from, to State) {
			mu.Lock()
			seen = append(seen, name+":"+from.String()+">"+to.String())
			mu.Unlock()
		},
	})

	_ = b.Do(func() error { return errDown })
	time.Sleep(10 * time.Millisecond)
	if err := b.Do(func() error { return nil }); err != nil {
		t.Fatalf("probe: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{"svc:closed>open", "svc:open>half_open", "svc:half_open>closed"}
	if len(seen) != len(want) {
		t.Fatalf("expected %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("transition %d: expected %q, got %q", i, want[i], seen[i])
		}
	}
}

func TestConcurrentThresholdRace(t *testing.T) {
	b := newTestBreaker(t, Config{FailureThreshold: 50, RecoveryTimeout: time.Hour})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.Do(func() error { return errDown })
		}()
	}
	wg.Wait()

	if got := b.State(); got != StateOpen {
		t.Fatalf("expected open after concurrent failures, got %v", got)
	}
}
