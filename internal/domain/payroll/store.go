package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"paydesk/internal/platform/ids"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) PayProfiles(ctx context.Context, employeeIDs []snowflake.ID) (map[snowflake.ID]PayProfile, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, pay_type, pay_group, hourly_rate::text, salary::text, vacation_pay_percent::text
    FROM employees
    WHERE id = ANY($1)
  `, ids.Int64s(employeeIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make(map[snowflake.ID]PayProfile, len(employeeIDs))
	for rows.Next() {
		var id int64
		var profile PayProfile
		var rate, salary *string
		var vacation string
		if err := rows.Scan(&id, &profile.PayType, &profile.PayGroup, &rate, &salary, &vacation); err != nil {
			return nil, err
		}
		profile.EmployeeID = snowflake.ID(id)
		if profile.HourlyRate, err = decimalPtr(rate); err != nil {
			return nil, fmt.Errorf("employee %d hourly_rate: %w", id, err)
		}
		if profile.Salary, err = decimalPtr(salary); err != nil {
			return nil, fmt.Errorf("employee %d salary: %w", id, err)
		}
		if profile.VacationPayPercent, err = decimal.NewFromString(vacation); err != nil {
			return nil, fmt.Errorf("employee %d vacation_pay_percent: %w", id, err)
		}
		profiles[profile.EmployeeID] = profile
	}
	return profiles, rows.Err()
}

// CreatePayHistoryBatch inserts every record in one transaction.
func (s *Store) CreatePayHistoryBatch(ctx context.Context, records []PayHistoryRecord) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, record := range records {
		reviewErrors, err := json.Marshal(nonNil(record.ReviewErrors))
		if err != nil {
			return err
		}
		reviewWarnings, err := json.Marshal(nonNil(record.ReviewWarnings))
		if err != nil {
			return err
		}
		batch.Queue(`
      INSERT INTO pay_history (
        id, employee_id, pay_date, period_start, period_end,
        hours_worked, overtime_hours, holiday_hours,
        base_pay, vacation_pay, gross_pay,
        ded_cpp, ded_ei, ded_income_tax, ded_eht, ded_wsib,
        net_pay, status, review_valid, review_errors, review_warnings
      ) VALUES (
        $1, $2, $3, $4, $5,
        $6::text::numeric, $7::text::numeric, $8::text::numeric,
        $9::text::numeric, $10::text::numeric, $11::text::numeric,
        $12::text::numeric, $13::text::numeric, $14::text::numeric, $15::text::numeric, $16::text::numeric,
        $17::text::numeric, $18, $19, $20, $21
      )
    `,
			record.ID.Int64(), record.EmployeeID.Int64(), record.PayDate, record.PeriodStart, record.PeriodEnd,
			decimalText(record.HoursWorked), decimalText(record.OvertimeHours), decimalText(record.HolidayHours),
			moneyText(record.BasePay), moneyText(record.VacationPay), moneyText(record.GrossPay),
			moneyText(record.Deductions.CPP), moneyText(record.Deductions.EI), moneyText(record.Deductions.IncomeTax),
			moneyText(record.Deductions.EHT), moneyText(record.Deductions.WSIB),
			moneyText(record.NetPay), record.Status, record.ReviewValid, reviewErrors, reviewWarnings,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range records {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return err
		}
	}
	if err := results.Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// UpdateStatus moves the listed records to status when their current status
// is one of from. Unknown ids and disallowed transitions are not counted.
func (s *Store) UpdateStatus(ctx context.Context, recordIDs []snowflake.ID, status string, from []string) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE pay_history
    SET status = $1, updated_at = now()
    WHERE id = ANY($2) AND status = ANY($3)
  `, status, ids.Int64s(recordIDs), from)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const recordColumns = `
    h.id, h.employee_id, h.pay_date, h.period_start, h.period_end,
    h.hours_worked::text, h.overtime_hours::text, h.holiday_hours::text,
    h.base_pay::text, h.vacation_pay::text, h.gross_pay::text,
    h.ded_cpp::text, h.ded_ei::text, h.ded_income_tax::text, h.ded_eht::text, h.ded_wsib::text,
    h.net_pay::text, h.status, h.review_valid, h.review_errors, h.review_warnings,
    h.created_at, h.updated_at,
    e.first_name, e.last_name, e.email, e.pay_type, e.pay_group, e.payment_method`

func (s *Store) ListPending(ctx context.Context, recordIDs []snowflake.ID) ([]PendingExport, error) {
	query := `SELECT` + recordColumns + `
    FROM pay_history h
    JOIN employees e ON e.id = h.employee_id
    WHERE h.status = $1`
	args := []any{StatusPending}
	if len(recordIDs) > 0 {
		query += ` AND h.id = ANY($2)`
		args = append(args, ids.Int64s(recordIDs))
	}
	query += ` ORDER BY h.pay_date, h.id`

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PendingExport
	for rows.Next() {
		record, employee, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, PendingExport{PayHistoryRecord: record, Employee: employee})
	}
	return out, rows.Err()
}

func (s *Store) PaystubData(ctx context.Context, id snowflake.ID) (PaystubData, error) {
	row := s.DB.QueryRow(ctx, `SELECT`+recordColumns+`
    FROM pay_history h
    JOIN employees e ON e.id = h.employee_id
    WHERE h.id = $1`, id.Int64())
	record, employee, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return PaystubData{}, ErrRecordNotFound
	}
	if err != nil {
		return PaystubData{}, err
	}
	return PaystubData{Record: record, Employee: employee}, nil
}

func scanRecord(row pgx.Row) (PayHistoryRecord, EmployeeSummary, error) {
	var record PayHistoryRecord
	var employee EmployeeSummary
	var id, employeeID int64
	var worked, overtime, holidayHours *string
	var base, vacation, gross, cpp, ei, tax, eht, wsib, net string
	var reviewErrors, reviewWarnings []byte
	err := row.Scan(
		&id, &employeeID, &record.PayDate, &record.PeriodStart, &record.PeriodEnd,
		&worked, &overtime, &holidayHours,
		&base, &vacation, &gross,
		&cpp, &ei, &tax, &eht, &wsib,
		&net, &record.Status, &record.ReviewValid, &reviewErrors, &reviewWarnings,
		&record.CreatedAt, &record.UpdatedAt,
		&employee.FirstName, &employee.LastName, &employee.Email, &employee.PayType, &employee.PayGroup, &employee.PaymentMethod,
	)
	if err != nil {
		return record, employee, err
	}
	record.ID = snowflake.ID(id)
	record.EmployeeID = snowflake.ID(employeeID)
	employee.ID = record.EmployeeID

	for _, field := range []struct {
		dst **decimal.Decimal
		raw *string
	}{{&record.HoursWorked, worked}, {&record.OvertimeHours, overtime}, {&record.HolidayHours, holidayHours}} {
		if *field.dst, err = decimalPtr(field.raw); err != nil {
			return record, employee, err
		}
	}
	for _, field := range []struct {
		dst *decimal.Decimal
		raw string
	}{
		{&record.BasePay, base}, {&record.VacationPay, vacation}, {&record.GrossPay, gross},
		{&record.Deductions.CPP, cpp}, {&record.Deductions.EI, ei}, {&record.Deductions.IncomeTax, tax},
		{&record.Deductions.EHT, eht}, {&record.Deductions.WSIB, wsib}, {&record.NetPay, net},
	} {
		if *field.dst, err = decimal.NewFromString(field.raw); err != nil {
			return record, employee, err
		}
	}
	if err := json.Unmarshal(reviewErrors, &record.ReviewErrors); err != nil {
		record.ReviewErrors = []string{}
	}
	if err := json.Unmarshal(reviewWarnings, &record.ReviewWarnings); err != nil {
		record.ReviewWarnings = []string{}
	}
	return record, employee, nil
}

func decimalPtr(raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func decimalText(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	value := d.String()
	return &value
}

func moneyText(d decimal.Decimal) string {
	return Cents(d).StringFixed(2)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
