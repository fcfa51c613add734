// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Query outcomes.
const (
	OutcomeSuccess    = "success"
	OutcomeNotFound   = "not_found"
	OutcomeInvalid    = "invalid"
	OutcomeStoreError = "store_error"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Query metrics, labelled by operation name (e.g. "get_user_by_id")
	IncQuery(operation, outcome string)
	ObserveQueryDuration(operation string, duration time.Duration)

	// Store connection attempts, including lazy reconnects
	IncStoreConnect(success bool)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
