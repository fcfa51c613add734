package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestInMemoryRecorder_Queries(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	m.IncQuery("get_user_by_id", OutcomeSuccess)
	m.IncQuery("get_user_by_id", OutcomeSuccess)
	m.IncQuery("get_user_by_id", OutcomeNotFound)
	m.IncQuery("get_policies_by_status", OutcomeInvalid)

	snap := m.Snapshot()

	if got := snap.Queries[QueryKey{"get_user_by_id", OutcomeSuccess}]; got != 2 {
		t.Errorf("success count = %d, want 2", got)
	}
	if got := snap.Queries[QueryKey{"get_user_by_id", OutcomeNotFound}]; got != 1 {
		t.Errorf("not_found count = %d, want 1", got)
	}

	keys := snap.SortedQueryKeys()
	if len(keys) != 3 {
		t.Fatalf("expected 3 keys, got %d", len(keys))
	}
	if keys[0].Operation != "get_policies_by_status" {
		t.Errorf("keys not sorted: %+v", keys)
	}
}

func TestInMemoryRecorder_Durations(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	m.ObserveQueryDuration("search_users_by_name", 2*time.Millisecond)
	m.ObserveQueryDuration("search_users_by_name", 3*time.Millisecond)

	stat := m.Snapshot().QueryDurations["search_users_by_name"]
	if stat.Count != 2 {
		t.Errorf("count = %d, want 2", stat.Count)
	}
	if stat.TotalNs != (5 * time.Millisecond).Nanoseconds() {
		t.Errorf("total = %d, want %d", stat.TotalNs, (5 * time.Millisecond).Nanoseconds())
	}
}

func TestInMemoryRecorder_StoreConnects(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	m.IncStoreConnect(true)
	m.IncStoreConnect(false)
	m.IncStoreConnect(false)

	snap := m.Snapshot()
	if snap.StoreConnects != 1 || snap.StoreConnectFail != 2 {
		t.Errorf("connects = %d/%d, want 1/2", snap.StoreConnects, snap.StoreConnectFail)
	}
}

func TestInMemoryRecorder_SnapshotIsCopy(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	m.IncQuery("get_user_by_email", OutcomeSuccess)
	snap := m.Snapshot()
	m.IncQuery("get_user_by_email", OutcomeSuccess)

	if got := snap.Queries[QueryKey{"get_user_by_email", OutcomeSuccess}]; got != 1 {
		t.Errorf("snapshot mutated after recording: %d", got)
	}
}

func TestInMemoryRecorder_Concurrent(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncQuery("get_policy_by_number", OutcomeSuccess)
			m.ObserveQueryDuration("get_policy_by_number", time.Millisecond)
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	if got := snap.Queries[QueryKey{"get_policy_by_number", OutcomeSuccess}]; got != 50 {
		t.Errorf("count = %d, want 50", got)
	}
	if got := snap.QueryDurations["get_policy_by_number"].Count; got != 50 {
		t.Errorf("duration count = %d, want 50", got)
	}
}
