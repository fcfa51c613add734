package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncQuery is a no-op.
func (n *NoopRecorder) IncQuery(operation, outcome string) {}

// ObserveQueryDuration is a no-op.
func (n *NoopRecorder) ObserveQueryDuration(operation string, duration time.Duration) {}

// IncStoreConnect is a no-op.
func (n *NoopRecorder) IncStoreConnect(success bool) {}
