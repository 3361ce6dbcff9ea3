package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"
)

type memoryStore struct {
	mu      sync.Mutex
	nextID  int64
	types   map[int64]string
	status  map[int64]string
	details map[int64]json.RawMessage
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		types:   map[int64]string{},
		status:  map[int64]string{},
		details: map[int64]json.RawMessage{},
	}
}

func (m *memoryStore) CreateRun(_ context.Context, jobType string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.types[m.nextID] = jobType
	m.status[m.nextID] = StatusRunning
	return m.nextID, nil
}

func (m *memoryStore) FinishRun(_ context.Context, id int64, status string, details json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status[id] = status
	m.details[id] = details
	return nil
}

func (m *memoryStore) snapshot(id int64) (string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status[id], string(m.details[id])
}

type countingObserver struct {
	mu    sync.Mutex
	count map[string]int
}

func (c *countingObserver) JobFinished(job, status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.count == nil {
		c.count = map[string]int{}
	}
	c.count[job+"/"+status]++
}

func TestRunNowRecordsCompletion(t *testing.T) {
	store := newMemoryStore()
	obs := &countingObserver{}
	svc := New(store, obs)

	details, err := svc.RunNow(context.Background(), JobScheduleDispatch, func(context.Context) (any, error) {
		return map[string]any{"status": 200}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.(map[string]any)["status"] != 200 {
		t.Fatalf("unexpected details: %v", details)
	}
	status, body := store.snapshot(1)
	if status != StatusCompleted || body != `{"status":200}` {
		t.Fatalf("unexpected run record: %s %s", status, body)
	}
	if obs.count["schedule_dispatch/completed"] != 1 {
		t.Fatalf("expected observer call, got %v", obs.count)
	}
}

func TestRunNowRecordsFailure(t *testing.T) {
	store := newMemoryStore()
	svc := New(store, nil)
	boom := errors.New("upstream down")

	_, err := svc.RunNow(context.Background(), JobScheduleDispatch, func(context.Context) (any, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected original error, got %v", err)
	}
	status, body := store.snapshot(1)
	if status != StatusFailed || body != `{"error":"upstream down"}` {
		t.Fatalf("unexpected run record: %s %s", status, body)
	}
}

func TestEnqueueRunsOnWorker(t *testing.T) {
	store := newMemoryStore()
	svc := New(store, nil)
	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)

	done := make(chan struct{})
	if !svc.Enqueue(JobEmployeeWebhook, func(context.Context) (any, error) {
		close(done)
		return nil, nil
	}) {
		t.Fatal("expected job to be queued")
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
	cancel()
	svc.Wait()
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	svc := New(nil, nil)
	noop := func(context.Context) (any, error) { return nil, nil }
	for i := 0; i < cap(svc.queue); i++ {
		if !svc.Enqueue(JobEmployeeWebhook, noop) {
			t.Fatalf("expected slot %d to be free", i)
		}
	}
	if svc.Enqueue(JobEmployeeWebhook, noop) {
		t.Fatal("expected full queue to drop job")
	}
}
