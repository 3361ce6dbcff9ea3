package notifications

import (
	"context"
	"log/slog"
	"time"

	"paydesk/internal/domain/employee"
	"paydesk/internal/platform/jobs"
)

type Sender interface {
	Configured() bool
	Send(ctx context.Context, ev Event) (int, error)
}

// Queue runs best-effort work off the request path.
type Queue interface {
	Enqueue(jobType string, run jobs.RunFunc) bool
}

type Service struct {
	sender Sender
	queue  Queue
	now    func() time.Time
}

func New(sender Sender, queue Queue) *Service {
	return &Service{sender: sender, queue: queue, now: time.Now}
}

// EmployeeCreated queues the employee.created webhook. It never blocks the
// caller and never reports failure back to it.
func (s *Service) EmployeeCreated(_ context.Context, emp employee.Employee) {
	if s.sender == nil || !s.sender.Configured() {
		return
	}
	ev := Event{
		Event:      TypeEmployeeCreated,
		EmployeeID: emp.ID.String(),
		Email:      emp.Email,
		PayType:    emp.PayType,
		PayGroup:   emp.PayGroup,
		OccurredAt: s.now().UTC().Format(time.RFC3339),
	}
	queued := s.queue.Enqueue(jobs.JobEmployeeWebhook, func(ctx context.Context) (any, error) {
		status, err := s.sender.Send(ctx, ev)
		details := map[string]any{"employeeId": ev.EmployeeID, "status": status}
		if err != nil {
			slog.Warn("employee webhook failed", "employeeId", ev.EmployeeID, "status", status, "err", err)
			return details, err
		}
		return details, nil
	})
	if !queued {
		slog.Warn("employee webhook dropped", "employeeId", ev.EmployeeID)
	}
}
