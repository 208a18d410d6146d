package authcore

import internalmetrics "github.com/MrEthical07/authcore/internal/metrics"

// MetricID identifies a specific counter in the in-process metrics
// system.
type MetricID = internalmetrics.MetricID

const (
	MetricRegisterSuccess    = internalmetrics.MetricRegisterSuccess
	MetricRegisterConflict   = internalmetrics.MetricRegisterConflict
	MetricLoginSuccess       = internalmetrics.MetricLoginSuccess
	MetricLoginFailure       = internalmetrics.MetricLoginFailure
	MetricPairIssued         = internalmetrics.MetricPairIssued
	MetricRefreshSuccess     = internalmetrics.MetricRefreshSuccess
	MetricRefreshFailure     = internalmetrics.MetricRefreshFailure
	MetricRefreshRevoked     = internalmetrics.MetricRefreshRevoked
	MetricRefreshExpired     = internalmetrics.MetricRefreshExpired
	MetricLogout             = internalmetrics.MetricLogout
	MetricLogoutInvalidToken = internalmetrics.MetricLogoutInvalidToken
	MetricStoreUnavailable   = internalmetrics.MetricStoreUnavailable

	metricIDCount = internalmetrics.MetricIDCount
)

// Metrics holds the engine's atomic counters.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time deep copy of all counters.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a [Metrics] instance configured by the given
// [MetricsConfig]. When Enabled is false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{Enabled: cfg.Enabled})
}
