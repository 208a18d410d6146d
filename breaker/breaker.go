package breaker

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrOpen is returned when the breaker rejects a call without invoking the
// wrapped function and no fallback was supplied.
var ErrOpen = errors.New("circuit open: service unavailable")

// State is the current position of the breaker state machine.
type State uint8

const (
	// StateClosed passes calls through and counts consecutive failures.
	StateClosed State = iota
	// StateOpen rejects calls without invoking the wrapped function.
	StateOpen
	// StateHalfOpen admits a bounded number of probe calls.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Config holds breaker tuning parameters. All values are fixed at
// construction and immutable afterwards.
type Config struct {
	// FailureThreshold is the number of consecutive failures in the closed
	// state that opens the circuit.
	FailureThreshold int
	// RecoveryTimeout is how long the circuit stays open before the next
	// call is admitted as a half-open probe. The wait is a polled
	// elapsed-time check, never a sleep.
	RecoveryTimeout time.Duration
	// HalfOpenMaxCalls bounds concurrent probe calls while half-open.
	HalfOpenMaxCalls int
	// OnStateChange, when set, is invoked (outside the breaker lock) after
	// every state transition.
	OnStateChange func(name string, from, to State)
}

// Breaker guards one named downstream dependency.
type Breaker struct {
	name   string
	config Config

	mu            sync.Mutex
	state         State
	failures      int
	lastFailure   time.Time
	halfOpenCalls int
}

// New creates a [Breaker] for the named dependency.
func New(name string, cfg Config) (*Breaker, error) {
	if name == "" {
		return nil, errors.New("breaker name must not be empty")
	}
	if cfg.FailureThreshold < 1 {
		return nil, errors.New("failure threshold must be >= 1")
	}
	if cfg.RecoveryTimeout <= 0 {
		return nil, errors.New("recovery timeout must be > 0")
	}
	if cfg.HalfOpenMaxCalls < 1 {
		return nil, errors.New("half-open max calls must be >= 1")
	}

	return &Breaker{
		name:   name,
		config: cfg,
		state:  StateClosed,
	}, nil
}

// Name returns the downstream dependency name this breaker guards.
func (b *Breaker) Name() string {
	return b.name
}

// State reports the current state, promoting open→half-open first if the
// recovery timeout has elapsed.
func (b *Breaker) State() State {
	b.mu.Lock()
	transitioned := b.pendingTransition()
	s := b.state
	b.mu.Unlock()

	b.notify(transitioned)
	return s
}

// Do executes fn through the breaker. When the circuit rejects the call,
// fn is not invoked and [ErrOpen] is returned.
func (b *Breaker) Do(fn func() error) error {
	return b.do(fn, nil)
}

// DoWithFallback executes fn through the breaker. When the circuit rejects
// the call, fallback runs instead of returning [ErrOpen]. A failing
// fallback does not count against the breaker.
func (b *Breaker) DoWithFallback(fn, fallback func() error) error {
	return b.do(fn, fallback)
}

// Reset manually closes the circuit and clears all counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	from := b.state
	b.transitionLocked(StateClosed)
	b.lastFailure = time.Time{}
	b.mu.Unlock()

	if from != StateClosed {
		b.notifyOne(from, StateClosed)
	}
}

func (b *Breaker) do(fn, fallback func() error) error {
	admitted, probe, transitions := b.admit()
	b.notify(transitions)

	if !admitted {
		if fallback != nil {
			return fallback()
		}
		return fmt.Errorf("%w: %s", ErrOpen, b.name)
	}

	err := fn()
	b.notify(b.settle(probe, err))
	return err
}

type transition struct {
	from, to State
}

// admit decides, atomically, whether one call may proceed and records the
// probe slot when half-open. Concurrent callers racing at the failure
// threshold or the probe budget serialize here.
func (b *Breaker) admit() (admitted, probe bool, ts []transition) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ts = b.pendingTransition()

	switch b.state {
	case StateOpen:
		return false, false, ts
	case StateHalfOpen:
		if b.halfOpenCalls >= b.config.HalfOpenMaxCalls {
			return false, false, ts
		}
		b.halfOpenCalls++
		return true, true, ts
	default:
		return true, false, ts
	}
}

// settle applies the outcome of an admitted call to the state machine.
func (b *Breaker) settle(probe bool, err error) []transition {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		if b.state == StateHalfOpen {
			from := b.state
			b.transitionLocked(StateClosed)
			return []transition{{from, StateClosed}}
		}
		b.failures = 0
		return nil
	}

	b.failures++
	b.lastFailure = time.Now()

	if probe || b.state == StateHalfOpen {
		from := b.state
		b.transitionLocked(StateOpen)
		return []transition{{from, StateOpen}}
	}
	if b.state == StateClosed && b.failures >= b.config.FailureThreshold {
		b.transitionLocked(StateOpen)
		return []transition{{StateClosed, StateOpen}}
	}
	return nil
}

// pendingTransition promotes open→half-open once the recovery timeout has
// elapsed. Caller must hold the mutex.
func (b *Breaker) pendingTransition() []transition {
	if b.state != StateOpen {
		return nil
	}
	if b.lastFailure.IsZero() || time.Since(b.lastFailure) < b.config.RecoveryTimeout {
		return nil
	}
	b.transitionLocked(StateHalfOpen)
	return []transition{{StateOpen, StateHalfOpen}}
}

// transitionLocked moves to the new state and resets the counters that
// state owns. Caller must hold the mutex.
func (b *Breaker) transitionLocked(to State) {
	b.state = to
	switch to {
	case StateClosed:
		b.failures = 0
		b.halfOpenCalls = 0
	case StateHalfOpen:
		b.halfOpenCalls = 0
	}
}

func (b *Breaker) notify(ts []transition) {
	if b.config.OnStateChange == nil {
		return
	}
	for _, t := range ts {
		b.config.OnStateChange(b.name, t.from, t.to)
	}
}

func (b *Breaker) notifyOne(from, to State) {
	if b.config.OnStateChange != nil {
		b.config.OnStateChange(b.name, from, to)
	}
}
