package payroll

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

var (
	hundred           = decimal.NewFromInt(100)
	premiumMultiplier = decimal.RequireFromString("1.5")
)

// PayProfile is the slice of an employee record the engine needs.
type PayProfile struct {
	EmployeeID         snowflake.ID
	PayType            string
	PayGroup           string
	HourlyRate         *decimal.Decimal
	Salary             *decimal.Decimal
	VacationPayPercent decimal.Decimal
}

type Hours struct {
	Worked          decimal.Decimal
	Overtime        decimal.Decimal
	Holiday         decimal.Decimal
	IncludeVacation bool
}

type Pay struct {
	Base     decimal.Decimal
	Vacation decimal.Decimal
	Gross    decimal.Decimal
	Warnings []string
}

// ComputePay derives base, vacation and gross pay for one employee and one
// period. Values are not rounded; callers round when persisting or rendering.
func ComputePay(profile PayProfile, hours Hours) (Pay, error) {
	payType := strings.ToUpper(strings.TrimSpace(profile.PayType))
	payGroup := NormalizePayGroup(profile.PayGroup)
	if _, ok := periodsPerYear[payGroup]; !ok {
		return Pay{}, fmt.Errorf("%w: %q", ErrUnknownPayGroup, profile.PayGroup)
	}
	if profile.VacationPayPercent.IsNegative() {
		return Pay{}, ErrNegativeInput
	}

	var pay Pay
	switch payType {
	case PayTypeHourly:
		if profile.HourlyRate == nil {
			return Pay{}, ErrMissingPayRate
		}
		rate := *profile.HourlyRate
		if rate.IsNegative() || hours.Worked.IsNegative() || hours.Overtime.IsNegative() || hours.Holiday.IsNegative() {
			return Pay{}, ErrNegativeInput
		}
		normal := hours.Worked.Sub(hours.Holiday)
		if normal.IsNegative() {
			normal = decimal.Zero
			pay.Warnings = append(pay.Warnings, WarningHolidayExceedsWorked)
		}
		premium := rate.Mul(premiumMultiplier)
		pay.Base = rate.Mul(normal).
			Add(premium.Mul(hours.Holiday)).
			Add(premium.Mul(hours.Overtime))
	case PayTypeSalary:
		if profile.Salary == nil {
			return Pay{}, ErrMissingPayRate
		}
		salary := *profile.Salary
		if salary.IsNegative() {
			return Pay{}, ErrNegativeInput
		}
		pay.Base = salary.Div(decimal.NewFromInt(periodsPerYear[payGroup]))
		if !hours.Overtime.IsZero() || !hours.Holiday.IsZero() {
			pay.Warnings = append(pay.Warnings, WarningHoursIgnoredSalary)
		}
	default:
		return Pay{}, fmt.Errorf("%w: %q", ErrUnknownPayType, profile.PayType)
	}

	pay.Vacation = decimal.Zero
	if hours.IncludeVacation {
		pay.Vacation = pay.Base.Mul(profile.VacationPayPercent).Div(hundred)
	}
	pay.Gross = pay.Base.Add(pay.Vacation)
	if pay.Gross.IsZero() {
		pay.Warnings = append(pay.Warnings, WarningZeroGross)
	}
	return pay, nil
}

// Deductions are withheld amounts. Statutory withholding is not computed
// yet, so every field is zero for records created by a pay run.
type Deductions struct {
	CPP       decimal.Decimal `json:"cpp"`
	EI        decimal.Decimal `json:"ei"`
	IncomeTax decimal.Decimal `json:"incomeTax"`
	EHT       decimal.Decimal `json:"eht"`
	WSIB      decimal.Decimal `json:"wsib"`
}

func (d Deductions) Total() decimal.Decimal {
	return decimal.Sum(d.CPP, d.EI, d.IncomeTax, d.EHT, d.WSIB)
}

func ComputeNet(gross decimal.Decimal, deductions Deductions) decimal.Decimal {
	return gross.Sub(deductions.Total())
}

func NormalizePayGroup(raw string) string {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return PayGroupBiWeekly
	}
	return value
}

// Cents rounds a money amount half away from zero to two places.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
