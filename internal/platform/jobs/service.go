package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

const (
	JobScheduleDispatch = "schedule_dispatch"
	JobEmployeeWebhook  = "employee_webhook"

	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type RunFunc func(context.Context) (any, error)

// Observer is notified once per finished run.
type Observer interface {
	JobFinished(job, status string)
}

type Service struct {
	store    RunStore
	observer Observer
	queue    chan job
	wg       sync.WaitGroup
}

type job struct {
	Type string
	Run  RunFunc
}

func New(store RunStore, observer Observer) *Service {
	return &Service{
		store:    store,
		observer: observer,
		queue:    make(chan job, 128),
	}
}

// Start launches the worker. It returns once ctx is cancelled and the
// worker has drained whatever it was running.
func (s *Service) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.worker(ctx)
}

func (s *Service) Wait() {
	s.wg.Wait()
}

// Enqueue hands best-effort work to the worker. A full queue drops the job.
func (s *Service) Enqueue(jobType string, run RunFunc) bool {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
		return true
	default:
		slog.Warn("job queue full", "jobType", jobType)
		return false
	}
}

// RunNow executes run on the caller's goroutine and records it like any
// queued job.
func (s *Service) RunNow(ctx context.Context, jobType string, run RunFunc) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(context.WithoutCancel(ctx), j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	var runID int64
	if s.store != nil {
		id, err := s.store.CreateRun(ctx, j.Type)
		if err != nil {
			slog.Warn("job run insert failed", "jobType", j.Type, "err", err)
		}
		runID = id
	}

	details, err := j.Run(ctx)
	status := StatusCompleted
	if err != nil {
		status = StatusFailed
		details = failureDetails(details, err)
	}
	if s.observer != nil {
		s.observer.JobFinished(j.Type, status)
	}

	if runID != 0 {
		detailsJSON, marshalErr := json.Marshal(details)
		if marshalErr != nil {
			slog.Warn("job details marshal failed", "err", marshalErr)
			detailsJSON = []byte("{}")
		}
		if updErr := s.store.FinishRun(ctx, runID, status, detailsJSON); updErr != nil {
			slog.Warn("job run update failed", "jobType", j.Type, "err", updErr)
		}
	}
	return details, err
}

func failureDetails(details any, err error) any {
	out := map[string]any{"error": err.Error()}
	if details != nil {
		out["details"] = details
	}
	return out
}
