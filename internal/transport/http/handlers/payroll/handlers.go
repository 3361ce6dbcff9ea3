package payroll

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/go-chi/chi/v5"

	"paydesk/internal/domain/dispatch"
	"paydesk/internal/domain/payroll"
	"paydesk/internal/platform/ids"
	"paydesk/internal/transport/http/api"
	"paydesk/internal/transport/http/middleware"
	"paydesk/internal/transport/http/shared"
)

const endpointPayrollRuns = "payroll.runs"

type Service interface {
	Preview(ctx context.Context, in payroll.RunInput) (payroll.Preview, error)
	UpdateStatus(ctx context.Context, recordIDs []snowflake.ID, status string) (int64, error)
	ExportPending(ctx context.Context, recordIDs []snowflake.ID) ([]payroll.PendingExport, error)
	WritePaystub(ctx context.Context, id snowflake.ID, w io.Writer) error
}

type RunSubmitter interface {
	SubmitAndSchedule(ctx context.Context, in payroll.RunInput, schedule *dispatch.Request) (payroll.SubmitResult, error)
}

type IdempotencyStore interface {
	Check(ctx context.Context, endpoint, key, requestHash string) (middleware.StoredResponse, bool, error)
	Save(ctx context.Context, endpoint, key, requestHash string, response middleware.StoredResponse) error
}

type Handler struct {
	Payroll     Service
	Runs        RunSubmitter
	Scheduler   dispatch.Scheduler
	Idempotency IdempotencyStore
	UpdateToken string
}

func NewHandler(svc Service, runs RunSubmitter, scheduler dispatch.Scheduler, idempotency IdempotencyStore, updateToken string) *Handler {
	return &Handler{
		Payroll:     svc,
		Runs:        runs,
		Scheduler:   scheduler,
		Idempotency: idempotency,
		UpdateToken: updateToken,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Post("/runs", h.handleSubmitRun)
		r.Post("/preview", h.handlePreview)
		r.Patch("/history/status", h.handleUpdateStatus)
		r.With(middleware.RequireToken(middleware.UpdateTokenHeader, h.UpdateToken)).Post("/update-status", h.handleScheduleOrUpdate)
		r.Get("/export", h.handleExport)
		r.Get("/history/{id}/paystub.pdf", h.handlePaystub)
	})
}

type runPayload struct {
	PeriodStart string             `json:"periodStart"`
	PeriodEnd   string             `json:"periodEnd"`
	PayDate     string             `json:"payDate"`
	Items       []payroll.LineItem `json:"items"`
	Schedule    *dispatch.Request  `json:"schedule"`
}

func (p runPayload) toInput(v *shared.Validator) payroll.RunInput {
	start, _ := v.Date("periodStart", p.PeriodStart)
	end, _ := v.Date("periodEnd", p.PeriodEnd)
	payDate, _ := v.Date("payDate", p.PayDate)
	v.DateOrder("periodStart", start, "periodEnd", end)

	if len(p.Items) == 0 {
		v.Add("items", "must list at least one employee")
	}
	seen := make(map[snowflake.ID]int, len(p.Items))
	for i, item := range p.Items {
		field := fmt.Sprintf("items[%d]", i)
		id := item.EmployeeID.ID()
		if id == 0 {
			v.Add(field+".employeeId", "is required")
			continue
		}
		if prev, ok := seen[id]; ok {
			v.Add(field+".employeeId", fmt.Sprintf("duplicates items[%d]", prev))
		} else {
			seen[id] = i
		}
		v.NonNegative(field+".hoursWorked", item.HoursWorked)
		v.NonNegative(field+".overtimeHours", item.OvertimeHours)
		v.NonNegative(field+".holidayHours", item.HolidayHours)
	}
	return payroll.RunInput{PeriodStart: start, PeriodEnd: end, PayDate: payDate, Items: p.Items}
}

func (h *Handler) handleSubmitRun(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		shared.FailDecode(w, requestID, err)
		return
	}
	var payload runPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		shared.FailDecode(w, requestID, err)
		return
	}
	v := shared.NewValidator()
	in := payload.toInput(v)
	if v.Reject(w, requestID) {
		return
	}

	key := middleware.IdempotencyKey(r.Header.Get(middleware.IdempotencyKeyHeader))
	requestHash := middleware.RequestHash(body)
	if key != "" && h.Idempotency != nil {
		stored, found, err := h.Idempotency.Check(r.Context(), endpointPayrollRuns, key, requestHash)
		switch {
		case errors.Is(err, middleware.ErrIdempotencyConflict):
			api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key was used with a different payload", requestID)
			return
		case err != nil:
			slog.Warn("idempotency check failed", "err", err, "requestId", requestID)
		case found:
			api.Replay(w, stored.Status, stored.Body, requestID)
			return
		}
	}

	result, err := h.Runs.SubmitAndSchedule(r.Context(), in, payload.Schedule)
	if err != nil {
		failRun(w, requestID, err)
		return
	}

	if key != "" && h.Idempotency != nil {
		encoded, err := json.Marshal(result)
		if err != nil {
			slog.Warn("idempotency response marshal failed", "err", err)
		} else if err := h.Idempotency.Save(r.Context(), endpointPayrollRuns, key, requestHash, middleware.StoredResponse{Status: http.StatusCreated, Body: encoded}); err != nil {
			slog.Warn("idempotency save failed", "err", err, "requestId", requestID)
		}
	}
	api.Created(w, result, requestID)
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload runPayload
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.FailDecode(w, requestID, err)
		return
	}
	v := shared.NewValidator()
	in := payload.toInput(v)
	if v.Reject(w, requestID) {
		return
	}

	preview, err := h.Payroll.Preview(r.Context(), in)
	if err != nil {
		failRun(w, requestID, err)
		return
	}
	api.Success(w, preview, requestID)
}

// failRun maps pay run errors onto the response taxonomy.
func failRun(w http.ResponseWriter, requestID string, err error) {
	var unknown *payroll.UnknownEmployeeError
	var rowErr *payroll.RowError
	switch {
	case errors.As(err, &unknown):
		api.FailWithDetails(w, http.StatusNotFound, "unknown_employee", err.Error(),
			map[string]any{"employeeId": unknown.ID.String()}, requestID)
	case errors.Is(err, payroll.ErrInvalidPeriod):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "periodStart", Reason: "must be on or before periodEnd"}})
	case errors.Is(err, payroll.ErrEmptyRun), errors.Is(err, payroll.ErrDuplicateEmployee), errors.Is(err, payroll.ErrNothingIncluded):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "items", Reason: err.Error()}})
	case errors.As(err, &rowErr):
		api.FailWithDetails(w, http.StatusUnprocessableEntity, "uncomputable_row", err.Error(),
			map[string]any{"employeeId": rowErr.EmployeeID.String(), "reason": rowErr.Err.Error()}, requestID)
	default:
		slog.Error("pay run failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "payroll_run_failed", "failed to process pay run", requestID)
	}
}

type statusPayload struct {
	IDs    []ids.Flexible `json:"ids"`
	Status string         `json:"status"`
}

type statusResponse struct {
	Updated int64 `json:"updated"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload statusPayload
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.FailDecode(w, requestID, err)
		return
	}
	h.updateStatus(w, r, requestID, payload)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request, requestID string, payload statusPayload) {
	v := shared.NewValidator()
	if len(payload.IDs) == 0 {
		v.Add("ids", "must list at least one pay history id")
	}
	if _, err := payroll.NormalizeStatus(payload.Status); err != nil {
		v.Add("status", "must be one of PENDING, PROCESSED, PAID")
	}
	if v.Reject(w, requestID) {
		return
	}

	updated, err := h.Payroll.UpdateStatus(r.Context(), ids.FromFlexible(payload.IDs), payload.Status)
	if err != nil {
		if errors.Is(err, payroll.ErrInvalidStatus) {
			shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "status", Reason: "must be one of PENDING, PROCESSED, PAID"}})
			return
		}
		slog.Error("pay history status update failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "status_update_failed", "failed to update pay history status", requestID)
		return
	}
	api.Success(w, statusResponse{Updated: updated}, requestID)
}

// scheduleOrUpdatePayload carries either a schedule (nested, or flat with
// employeeIds) or a status update.
type scheduleOrUpdatePayload struct {
	Schedule    *dispatch.Request `json:"schedule"`
	EmployeeIDs json.RawMessage   `json:"employeeIds"`
	IDs         []ids.Flexible    `json:"ids"`
	Status      string            `json:"status"`
}

type scheduleResponse struct {
	Scheduled bool `json:"scheduled"`
	dispatch.Result
}

func (h *Handler) handleScheduleOrUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		shared.FailDecode(w, requestID, err)
		return
	}
	var payload scheduleOrUpdatePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		shared.FailDecode(w, requestID, err)
		return
	}

	schedule := payload.Schedule
	if raw := bytes.TrimSpace(payload.EmployeeIDs); schedule == nil && len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		var flat dispatch.Request
		if err := json.Unmarshal(body, &flat); err != nil {
			shared.FailDecode(w, requestID, err)
			return
		}
		schedule = &flat
	}
	if schedule == nil {
		h.updateStatus(w, r, requestID, statusPayload{IDs: payload.IDs, Status: payload.Status})
		return
	}

	result, err := h.Scheduler.Schedule(r.Context(), *schedule)
	if err != nil {
		failSchedule(w, requestID, err)
		return
	}
	api.Success(w, scheduleResponse{Scheduled: true, Result: result}, requestID)
}

func failSchedule(w http.ResponseWriter, requestID string, err error) {
	var fieldErr *dispatch.FieldError
	var upstream *dispatch.UpstreamError
	switch {
	case errors.As(err, &fieldErr):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: fieldErr.Field, Reason: fieldErr.Reason}})
	case errors.Is(err, dispatch.ErrNotConfigured):
		api.Fail(w, http.StatusServiceUnavailable, "dispatch_not_configured", err.Error(), requestID)
	case errors.As(err, &upstream):
		api.FailWithDetails(w, http.StatusBadGateway, "upstream_error", err.Error(), map[string]any{
			"stage":  "schedule",
			"status": upstream.Status,
			"body":   upstream.Body,
		}, requestID)
	default:
		slog.Error("schedule dispatch failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "schedule_failed", "failed to schedule payroll", requestID)
	}
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	recordIDs, bad, err := shared.ParseIDList(r.URL.Query().Get("ids"))
	if err != nil {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "ids", Reason: fmt.Sprintf("%q is not a valid id", bad)}})
		return
	}
	records, err := h.Payroll.ExportPending(r.Context(), recordIDs)
	if err != nil {
		slog.Error("pending export failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export pending pay history", requestID)
		return
	}
	api.Success(w, records, requestID)
}

func (h *Handler) handlePaystub(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := ids.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "id", Reason: "must be a positive integer"}})
		return
	}

	var buf bytes.Buffer
	if err := h.Payroll.WritePaystub(r.Context(), id, &buf); err != nil {
		if errors.Is(err, payroll.ErrRecordNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "pay history record not found", requestID)
			return
		}
		slog.Error("paystub render failed", "err", err, "payHistoryId", id.String(), "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "paystub_failed", "failed to render paystub", requestID)
		return
	}
	api.Attachment(w, "application/pdf", "paystub-"+id.String()+".pdf", buf.Bytes())
}
