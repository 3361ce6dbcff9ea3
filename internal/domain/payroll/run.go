package payroll

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"

	"paydesk/internal/platform/ids"
)

// LineItem is one employee's row in a pay run submission. Absent hour
// fields decode as zero; IncludeVacation defaults to true when omitted.
type LineItem struct {
	EmployeeID      ids.Flexible     `json:"employeeId"`
	Included        *bool            `json:"included,omitempty"`
	HoursWorked     *decimal.Decimal `json:"hoursWorked"`
	OvertimeHours   *decimal.Decimal `json:"overtimeHours,omitempty"`
	HolidayHours    *decimal.Decimal `json:"holidayHours,omitempty"`
	IncludeVacation *bool            `json:"includeVacation,omitempty"`
}

func (li LineItem) IsIncluded() bool {
	return li.Included == nil || *li.Included
}

func (li LineItem) Hours() Hours {
	return Hours{
		Worked:          valueOrZero(li.HoursWorked),
		Overtime:        valueOrZero(li.OvertimeHours),
		Holiday:         valueOrZero(li.HolidayHours),
		IncludeVacation: li.IncludeVacation == nil || *li.IncludeVacation,
	}
}

type LineResult struct {
	EmployeeID  snowflake.ID    `json:"employeeId"`
	PayType     string          `json:"payType,omitempty"`
	Included    bool            `json:"included"`
	BasePay     decimal.Decimal `json:"basePay"`
	VacationPay decimal.Decimal `json:"vacationPay"`
	GrossPay    decimal.Decimal `json:"grossPay"`
	Warnings    []string        `json:"warnings"`
	Errors      []string        `json:"errors"`
}

type Totals struct {
	BasePay     decimal.Decimal `json:"basePay"`
	VacationPay decimal.Decimal `json:"vacationPay"`
	GrossPay    decimal.Decimal `json:"grossPay"`
	Included    int             `json:"included"`
}

// Aggregate runs the engine over every included row and sums the results.
// Excluded rows are listed with zero amounts. A row whose profile is
// missing or cannot be computed carries the reason in Errors and adds
// nothing to the totals. The returned error is the first row failure,
// wrapped in a RowError.
func Aggregate(profiles map[snowflake.ID]PayProfile, items []LineItem) ([]LineResult, Totals, error) {
	results := make([]LineResult, 0, len(items))
	totals := Totals{BasePay: decimal.Zero, VacationPay: decimal.Zero, GrossPay: decimal.Zero}
	var firstErr error

	for _, item := range items {
		id := item.EmployeeID.ID()
		row := LineResult{
			EmployeeID:  id,
			Included:    item.IsIncluded(),
			BasePay:     decimal.Zero,
			VacationPay: decimal.Zero,
			GrossPay:    decimal.Zero,
			Warnings:    []string{},
			Errors:      []string{},
		}
		profile, ok := profiles[id]
		if ok {
			row.PayType = profile.PayType
		}
		if !row.Included {
			results = append(results, row)
			continue
		}
		if !ok {
			err := &UnknownEmployeeError{ID: id}
			row.Errors = append(row.Errors, err.Error())
			results = append(results, row)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		pay, err := ComputePay(profile, item.Hours())
		if err != nil {
			row.Errors = append(row.Errors, err.Error())
			results = append(results, row)
			if firstErr == nil {
				firstErr = &RowError{EmployeeID: id, Err: err}
			}
			continue
		}
		row.BasePay = pay.Base
		row.VacationPay = pay.Vacation
		row.GrossPay = pay.Gross
		row.Warnings = append(row.Warnings, pay.Warnings...)
		results = append(results, row)

		totals.BasePay = totals.BasePay.Add(pay.Base)
		totals.VacationPay = totals.VacationPay.Add(pay.Vacation)
		totals.GrossPay = totals.GrossPay.Add(pay.Gross)
		totals.Included++
	}
	return results, totals, firstErr
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
