package authcore

import (
	"context"
	"fmt"
	"time"

	"github.com/MrEthical07/authcore/breaker"
	internalaudit "github.com/MrEthical07/authcore/internal/audit"
	"github.com/MrEthical07/authcore/internal/flows"
	internalmetrics "github.com/MrEthical07/authcore/internal/metrics"
	"github.com/MrEthical07/authcore/password"
	"github.com/MrEthical07/authcore/store"
	"github.com/MrEthical07/authcore/token"
)

// Engine is the authentication core. Construct through [Builder.Build];
// treat as immutable afterwards. All methods are safe for concurrent use.
type Engine struct {
	config       Config
	store        *store.RedisStore
	tokens       *token.Manager
	passwordHash *password.Hasher
	flows        flows.Service
	audit        *internalaudit.Dispatcher
	metrics      *internalmetrics.Metrics
}

// Close flushes and stops the audit dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

// ready reports whether Build wired every dependency.
func (e *Engine) ready() bool {
	return e != nil && e.store != nil && e.tokens != nil &&
		e.passwordHash != nil && e.flows.Initialized()
}

// AuditDropped returns the number of audit events dropped because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil {
		return
	}
	e.metrics.Inc(id)
}

// Health reports whether the backing store answers, and its round-trip
// latency.
func (e *Engine) Health(ctx context.Context) (bool, time.Duration) {
	if !e.ready() {
		return false, 0
	}
	latency, err := e.store.Ping(ctx)
	return err == nil, latency
}

// NewBreaker constructs a circuit breaker for the named downstream
// dependency, tuned by [Config.Breaker], with state transitions reported
// to the engine's audit pipeline. Each protected dependency gets its own
// instance; the engine never shares breaker state between them.
func (e *Engine) NewBreaker(name string) (*breaker.Breaker, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	cfg := e.config.breakerConfig()
	cfg.OnStateChange = func(name string, from, to breaker.State) {
		e.audit.Emit(context.Background(), AuditEvent{
			Timestamp: time.Now().UTC(),
			EventType: auditEventBreakerStateChange,
			Success:   to == breaker.StateClosed,
			Metadata: map[string]string{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			},
		})
	}
	return breaker.New(name, cfg)
}

// storeFailure maps an unexpected persistence error into the generic
// internal failure kind without losing the cause.
func storeFailure(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// timeNow is swappable in tests.
var timeNow = time.Now
