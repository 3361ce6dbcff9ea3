package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const uniqueViolation = "23505"

type Store struct {
	DB     *pgxpool.Pool
	sealer Sealer
}

func NewStore(db *pgxpool.Pool, sealer Sealer) *Store {
	return &Store{DB: db, sealer: sealer}
}

func (s *Store) Create(ctx context.Context, emp Employee) error {
	sinEnc, err := s.sealer.SealString(emp.SIN)
	if err != nil {
		return fmt.Errorf("seal sin: %w", err)
	}
	bankEnc, err := s.sealer.SealString(emp.BankAccount)
	if err != nil {
		return fmt.Errorf("seal bank account: %w", err)
	}

	_, err = s.DB.Exec(ctx, `
    INSERT INTO employees (
      id, first_name, last_name, email, sin_enc,
      address_line1, address_line2, city, province, postal_code, country,
      employment_type, pay_type, pay_group, hourly_rate, salary,
      vacation_pay_percent, bonus, federal_td1, provincial_td1,
      payment_method, bank_name, bank_account_enc, transit_number, institution_number,
      birth_date, hire_date, created_at, updated_at
    ) VALUES (
      $1, $2, $3, $4, $5,
      $6, $7, $8, $9, $10, $11,
      $12, $13, $14, $15::text::numeric, $16::text::numeric,
      $17::text::numeric, $18::text::numeric, $19::text::numeric, $20::text::numeric,
      $21, $22, $23, $24, $25,
      $26, $27, $28, $28
    )
  `,
		emp.ID.Int64(), emp.FirstName, emp.LastName, emp.Email, sinEnc,
		emp.AddrLine1, nullIfEmpty(emp.AddrLine2), emp.AddrCity, emp.AddrProvince, emp.AddrPostal, emp.AddrCountry,
		emp.EmploymentType, emp.PayType, emp.PayGroup, decimalText(emp.HourlyRate), decimalText(emp.Salary),
		emp.VacationPay.String(), emp.Bonus.String(), emp.FederalTD1.String(), emp.ProvincialTD1.String(),
		emp.PaymentMethod, nullIfEmpty(emp.BankName), bankEnc, nullIfEmpty(emp.TransitNumber), nullIfEmpty(emp.InstitutionNumber),
		emp.BirthDate, emp.HireDate, emp.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateEmail
	}
	return err
}

func (s *Store) List(ctx context.Context, filter ListFilter) ([]Summary, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM employees WHERE ($1 = '' OR pay_type = $1)
  `, filter.PayType).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT id, first_name, last_name, email, city, province,
           employment_type, pay_type, pay_group,
           hourly_rate::text, salary::text, vacation_pay_percent::text,
           payment_method, COALESCE(hire_date, created_at::date), created_at
    FROM employees
    WHERE ($1 = '' OR pay_type = $1)
    ORDER BY last_name, first_name, id
    LIMIT $2 OFFSET $3
  `, filter.PayType, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Summary, 0, filter.Limit)
	for rows.Next() {
		var sum Summary
		var id int64
		var rate, salary *string
		var vacation string
		if err := rows.Scan(&id, &sum.FirstName, &sum.LastName, &sum.Email, &sum.AddrCity, &sum.AddrProvince,
			&sum.EmploymentType, &sum.PayType, &sum.PayGroup,
			&rate, &salary, &vacation,
			&sum.PaymentMethod, &sum.HireDate, &sum.CreatedAt); err != nil {
			return nil, 0, err
		}
		sum.ID = snowflake.ID(id)
		if sum.HourlyRate, err = parseDecimal(rate); err != nil {
			return nil, 0, err
		}
		if sum.Salary, err = parseDecimal(salary); err != nil {
			return nil, 0, err
		}
		if sum.VacationPay, err = decimal.NewFromString(vacation); err != nil {
			return nil, 0, err
		}
		out = append(out, sum)
	}
	return out, total, rows.Err()
}

func parseDecimal(raw *string) (*decimal.Decimal, error) {
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

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
