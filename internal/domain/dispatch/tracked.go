package dispatch

import (
	"context"
	"errors"

	"paydesk/internal/platform/jobs"
)

type Scheduler interface {
	Schedule(ctx context.Context, req Request) (Result, error)
}

// Runner records a unit of work as a job run.
type Runner interface {
	RunNow(ctx context.Context, jobType string, run jobs.RunFunc) (any, error)
}

type OutcomeRecorder interface {
	Dispatched(outcome string)
}

const (
	OutcomeOK             = "ok"
	OutcomeUpstreamError  = "upstream_error"
	OutcomeTransportError = "transport_error"
	OutcomeNotConfigured  = "not_configured"
	OutcomeInvalid        = "invalid_request"
)

type tracked struct {
	next    Scheduler
	runner  Runner
	metrics OutcomeRecorder
}

// Tracked wraps a Scheduler so every attempt that reaches the network is
// stored as a schedule_dispatch job run and counted by outcome.
func Tracked(next Scheduler, runner Runner, metrics OutcomeRecorder) Scheduler {
	return &tracked{next: next, runner: runner, metrics: metrics}
}

func (t *tracked) Schedule(ctx context.Context, req Request) (Result, error) {
	var result Result
	var err error
	if t.runner == nil || !t.reachesNetwork(req) {
		result, err = t.next.Schedule(ctx, req)
	} else {
		_, err = t.runner.RunNow(ctx, jobs.JobScheduleDispatch, func(ctx context.Context) (any, error) {
			var runErr error
			result, runErr = t.next.Schedule(ctx, req)
			return attemptDetails(req, result, runErr), runErr
		})
	}
	if t.metrics != nil {
		t.metrics.Dispatched(Outcome(err))
	}
	return result, err
}

// reachesNetwork reports whether the wrapped dispatcher would make a call.
// Requests rejected locally are not worth a job run row.
func (t *tracked) reachesNetwork(req Request) bool {
	d, ok := t.next.(*Dispatcher)
	if !ok {
		return true
	}
	if !d.Configured() {
		return false
	}
	_, err := d.BuildPayload(req)
	return err == nil
}

func Outcome(err error) string {
	var upstream *UpstreamError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrNotConfigured):
		return OutcomeNotConfigured
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrInvalidSendAt), errors.Is(err, ErrInvalidTimezone):
		return OutcomeInvalid
	case errors.As(err, &upstream) && upstream.Status == 0:
		return OutcomeTransportError
	default:
		return OutcomeUpstreamError
	}
}

func attemptDetails(req Request, result Result, err error) map[string]any {
	details := map[string]any{
		"employees": len(req.EmployeeIDs),
		"payDate":   req.PayDate,
	}
	if err == nil {
		details["status"] = result.Status
		details["sendAtIso"] = result.SendAtISO
		return details
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		details["status"] = upstream.Status
		details["body"] = upstream.Body
	}
	return details
}
