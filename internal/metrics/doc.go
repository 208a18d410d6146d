// Package metrics implements the in-process atomic counters behind the
// engine's MetricsSnapshot API. Counters are lock-free; Snapshot is a
// point-in-time deep copy safe to hand to exporters.
package metrics
