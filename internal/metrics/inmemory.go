package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// QueryKey labels a query counter.
type QueryKey struct {
	Operation string
	Outcome   string
}

// DurationStat is a count/sum pair for a duration histogram.
type DurationStat struct {
	Count   uint64
	TotalNs int64
}

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Queries          map[QueryKey]uint64
	QueryDurations   map[string]DurationStat
	StoreConnects    uint64
	StoreConnectFail uint64
}

// SortedQueryKeys returns the query counter keys in a stable order.
func (s Snapshot) SortedQueryKeys() []QueryKey {
	keys := make([]QueryKey, 0, len(s.Queries))
	for k := range s.Queries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Operation != keys[j].Operation {
			return keys[i].Operation < keys[j].Operation
		}
		return keys[i].Outcome < keys[j].Outcome
	})
	return keys
}

// SortedOperations returns the operations with recorded durations.
func (s Snapshot) SortedOperations() []string {
	ops := make([]string, 0, len(s.QueryDurations))
	for op := range s.QueryDurations {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	mu        sync.Mutex
	queries   map[QueryKey]uint64
	durations map[string]DurationStat

	storeConnects    uint64
	storeConnectFail uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		queries:   make(map[QueryKey]uint64),
		durations: make(map[string]DurationStat),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	queries := make(map[QueryKey]uint64, len(m.queries))
	for k, v := range m.queries {
		queries[k] = v
	}
	durations := make(map[string]DurationStat, len(m.durations))
	for k, v := range m.durations {
		durations[k] = v
	}

	return Snapshot{
		Queries:          queries,
		QueryDurations:   durations,
		StoreConnects:    atomic.LoadUint64(&m.storeConnects),
		StoreConnectFail: atomic.LoadUint64(&m.storeConnectFail),
	}
}

// IncQuery increments the counter for operation and outcome.
func (m *InMemoryRecorder) IncQuery(operation, outcome string) {
	m.mu.Lock()
	m.queries[QueryKey{Operation: operation, Outcome: outcome}]++
	m.mu.Unlock()
}

// ObserveQueryDuration records how long an operation took.
func (m *InMemoryRecorder) ObserveQueryDuration(operation string, duration time.Duration) {
	m.mu.Lock()
	stat := m.durations[operation]
	stat.Count++
	stat.TotalNs += duration.Nanoseconds()
	m.durations[operation] = stat
	m.mu.Unlock()
}

// IncStoreConnect counts a connection attempt.
func (m *InMemoryRecorder) IncStoreConnect(success bool) {
	if success {
		atomic.AddUint64(&m.storeConnects, 1)
		return
	}
	atomic.AddUint64(&m.storeConnectFail, 1)
}
