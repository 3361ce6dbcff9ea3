package payroll

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"

	"paydesk/internal/domain/holiday"
)

type IDSource interface {
	Generate() snowflake.ID
}

// Recorder receives pay run counters. It may be nil.
type Recorder interface {
	PayRunSubmitted(records int)
	StatusUpdated(status string, count int64)
}

type Service struct {
	store    StoreAPI
	ids      IDSource
	calendar *holiday.Calendar
	metrics  Recorder
	now      func() time.Time
}

func NewService(store StoreAPI, ids IDSource, calendar *holiday.Calendar, metrics Recorder) *Service {
	return &Service{
		store:    store,
		ids:      ids,
		calendar: calendar,
		metrics:  metrics,
		now:      time.Now,
	}
}

func (s *Service) Calendar() *holiday.Calendar {
	return s.calendar
}

// SubmitPayRun computes every included row and persists one PENDING pay
// history record per row in a single transaction. Any unresolved employee
// or uncomputable row aborts the run before anything is written.
func (s *Service) SubmitPayRun(ctx context.Context, in RunInput) (RunSummary, error) {
	if err := validateRun(in); err != nil {
		return RunSummary{}, err
	}

	profiles, err := s.store.PayProfiles(ctx, employeeIDs(in.Items))
	if err != nil {
		return RunSummary{}, err
	}
	for _, item := range in.Items {
		if _, ok := profiles[item.EmployeeID.ID()]; !ok {
			return RunSummary{}, &UnknownEmployeeError{ID: item.EmployeeID.ID()}
		}
	}
	results, totals, err := Aggregate(profiles, in.Items)
	if err != nil {
		return RunSummary{}, err
	}
	if totals.Included == 0 {
		return RunSummary{}, ErrNothingIncluded
	}

	records := make([]PayHistoryRecord, 0, totals.Included)
	for i, item := range in.Items {
		row := results[i]
		if !row.Included {
			continue
		}
		records = append(records, s.newRecord(in, item, row))
	}

	if err := s.store.CreatePayHistoryBatch(ctx, records); err != nil {
		return RunSummary{}, fmt.Errorf("persist pay run: %w", err)
	}
	if s.metrics != nil {
		s.metrics.PayRunSubmitted(len(records))
	}

	summary := RunSummary{Count: len(records), IDs: make([]snowflake.ID, len(records)), Totals: totals}
	for i, record := range records {
		summary.IDs[i] = record.ID
	}
	slog.Info("pay run persisted",
		"count", summary.Count,
		"payDate", in.PayDate.Format(holiday.DateLayout),
		"gross", Cents(totals.GrossPay).StringFixed(2),
	)
	return summary, nil
}

func (s *Service) newRecord(in RunInput, item LineItem, row LineResult) PayHistoryRecord {
	now := s.now().UTC()
	deductions := Deductions{
		CPP:       decimal.Zero,
		EI:        decimal.Zero,
		IncomeTax: decimal.Zero,
		EHT:       decimal.Zero,
		WSIB:      decimal.Zero,
	}
	record := PayHistoryRecord{
		ID:             s.ids.Generate(),
		EmployeeID:     row.EmployeeID,
		PayDate:        in.PayDate,
		PeriodStart:    in.PeriodStart,
		PeriodEnd:      in.PeriodEnd,
		BasePay:        row.BasePay,
		VacationPay:    row.VacationPay,
		GrossPay:       row.GrossPay,
		Deductions:     deductions,
		NetPay:         ComputeNet(row.GrossPay, deductions),
		Status:         StatusPending,
		ReviewValid:    len(row.Errors) == 0,
		ReviewErrors:   row.Errors,
		ReviewWarnings: row.Warnings,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if row.PayType == PayTypeHourly {
		hours := item.Hours()
		record.HoursWorked = &hours.Worked
		record.OvertimeHours = &hours.Overtime
		record.HolidayHours = &hours.Holiday
	}
	return record
}

// Preview computes a run without persisting it. Rows that cannot be
// computed are reported in place rather than failing the preview.
func (s *Service) Preview(ctx context.Context, in RunInput) (Preview, error) {
	if err := validateRun(in); err != nil {
		return Preview{}, err
	}
	profiles, err := s.store.PayProfiles(ctx, employeeIDs(in.Items))
	if err != nil {
		return Preview{}, err
	}
	rows, totals, _ := Aggregate(profiles, in.Items)
	holidays := []holiday.Holiday{}
	if s.calendar != nil {
		holidays = append(holidays, s.calendar.InRange(in.PeriodStart, in.PeriodEnd)...)
	}
	return Preview{Rows: rows, Totals: totals, Holidays: holidays}, nil
}

// UpdateStatus applies a status transition to the listed records and
// returns how many actually changed.
func (s *Service) UpdateStatus(ctx context.Context, recordIDs []snowflake.ID, rawStatus string) (int64, error) {
	status, err := NormalizeStatus(rawStatus)
	if err != nil {
		return 0, err
	}
	unique := dedupe(recordIDs)
	if len(unique) == 0 {
		return 0, nil
	}
	updated, err := s.store.UpdateStatus(ctx, unique, status, AllowedFrom(status))
	if err != nil {
		return 0, err
	}
	if s.metrics != nil {
		s.metrics.StatusUpdated(status, updated)
	}
	slog.Info("pay history status updated", "status", status, "requested", len(unique), "updated", updated)
	return updated, nil
}

func (s *Service) ExportPending(ctx context.Context, recordIDs []snowflake.ID) ([]PendingExport, error) {
	records, err := s.store.ListPending(ctx, dedupe(recordIDs))
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []PendingExport{}
	}
	return records, nil
}

func (s *Service) WritePaystub(ctx context.Context, id snowflake.ID, w io.Writer) error {
	data, err := s.store.PaystubData(ctx, id)
	if err != nil {
		return err
	}
	return RenderPaystub(w, data)
}

func validateRun(in RunInput) error {
	if in.PeriodStart.After(in.PeriodEnd) {
		return ErrInvalidPeriod
	}
	if len(in.Items) == 0 {
		return ErrEmptyRun
	}
	seen := make(map[snowflake.ID]struct{}, len(in.Items))
	for _, item := range in.Items {
		id := item.EmployeeID.ID()
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateEmployee, id.String())
		}
		seen[id] = struct{}{}
	}
	return nil
}

func employeeIDs(items []LineItem) []snowflake.ID {
	out := make([]snowflake.ID, len(items))
	for i, item := range items {
		out[i] = item.EmployeeID.ID()
	}
	return out
}

func dedupe(values []snowflake.ID) []snowflake.ID {
	seen := make(map[snowflake.ID]struct{}, len(values))
	out := make([]snowflake.ID, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
