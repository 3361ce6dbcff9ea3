package payroll

import (
	"context"
	"errors"
	"log/slog"

	"paydesk/internal/domain/dispatch"
	"paydesk/internal/domain/holiday"
	"paydesk/internal/platform/ids"
)

// DispatchOutcome reports the scheduling step of a combined submission.
type DispatchOutcome struct {
	OK        bool             `json:"ok"`
	SendAtISO string           `json:"sendAtIso,omitempty"`
	Error     *DispatchFailure `json:"error,omitempty"`
}

type DispatchFailure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
	Body    any    `json:"body,omitempty"`
}

type SubmitResult struct {
	RunSummary
	Dispatch *DispatchOutcome `json:"dispatch,omitempty"`
}

// Orchestrator composes persistence and scheduling as two separate steps.
// The run is committed first; a failed dispatch is reported, never rolled
// back, and can be retried on its own.
type Orchestrator struct {
	payroll   *Service
	scheduler dispatch.Scheduler
}

func NewOrchestrator(payroll *Service, scheduler dispatch.Scheduler) *Orchestrator {
	return &Orchestrator{payroll: payroll, scheduler: scheduler}
}

func (o *Orchestrator) SubmitAndSchedule(ctx context.Context, in RunInput, schedule *dispatch.Request) (SubmitResult, error) {
	summary, err := o.payroll.SubmitPayRun(ctx, in)
	if err != nil {
		return SubmitResult{}, err
	}
	result := SubmitResult{RunSummary: summary}
	if schedule == nil {
		return result, nil
	}

	req := *schedule
	if len(req.EmployeeIDs) == 0 {
		req.EmployeeIDs = runEmployees(in.Items)
	}
	if req.PayDate == "" {
		req.PayDate = in.PayDate.Format(holiday.DateLayout)
	}
	if req.PeriodStart == nil {
		start := in.PeriodStart.Format(holiday.DateLayout)
		req.PeriodStart = &start
	}
	if req.PeriodEnd == nil {
		end := in.PeriodEnd.Format(holiday.DateLayout)
		req.PeriodEnd = &end
	}

	dispatched, err := o.scheduler.Schedule(ctx, req)
	if err != nil {
		slog.Warn("pay run persisted but schedule dispatch failed", "count", summary.Count, "err", err)
		result.Dispatch = &DispatchOutcome{Error: describeDispatchError(err)}
		return result, nil
	}
	result.Dispatch = &DispatchOutcome{OK: true, SendAtISO: dispatched.SendAtISO}
	return result, nil
}

func describeDispatchError(err error) *DispatchFailure {
	var upstream *dispatch.UpstreamError
	switch {
	case errors.As(err, &upstream):
		return &DispatchFailure{Code: "upstream_error", Message: err.Error(), Status: upstream.Status, Body: upstream.Body}
	case errors.Is(err, dispatch.ErrNotConfigured):
		return &DispatchFailure{Code: "dispatch_not_configured", Message: err.Error()}
	case errors.Is(err, dispatch.ErrInvalidRequest):
		return &DispatchFailure{Code: "validation_error", Message: err.Error()}
	default:
		return &DispatchFailure{Code: "dispatch_failed", Message: err.Error()}
	}
}

func runEmployees(items []LineItem) []ids.Flexible {
	out := make([]ids.Flexible, 0, len(items))
	for _, item := range items {
		if item.IsIncluded() {
			out = append(out, item.EmployeeID)
		}
	}
	return out
}
