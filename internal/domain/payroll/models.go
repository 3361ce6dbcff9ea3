package payroll

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"

	"paydesk/internal/domain/holiday"
)

type PayHistoryRecord struct {
	ID             snowflake.ID     `json:"id"`
	EmployeeID     snowflake.ID     `json:"employeeId"`
	PayDate        time.Time        `json:"payDate"`
	PeriodStart    time.Time        `json:"periodStart"`
	PeriodEnd      time.Time        `json:"periodEnd"`
	HoursWorked    *decimal.Decimal `json:"hoursWorked"`
	OvertimeHours  *decimal.Decimal `json:"overtimeHours"`
	HolidayHours   *decimal.Decimal `json:"holidayHours"`
	BasePay        decimal.Decimal  `json:"basePay"`
	VacationPay    decimal.Decimal  `json:"vacationPay"`
	GrossPay       decimal.Decimal  `json:"grossPay"`
	Deductions     Deductions       `json:"deductions"`
	NetPay         decimal.Decimal  `json:"netPay"`
	Status         string           `json:"status"`
	ReviewValid    bool             `json:"reviewValid"`
	ReviewErrors   []string         `json:"reviewErrors"`
	ReviewWarnings []string         `json:"reviewWarnings"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

type EmployeeSummary struct {
	ID            snowflake.ID `json:"id"`
	FirstName     string       `json:"firstName"`
	LastName      string       `json:"lastName"`
	Email         string       `json:"email"`
	PayType       string       `json:"payType"`
	PayGroup      string       `json:"payGroup"`
	PaymentMethod string       `json:"paymentMethod"`
}

type PendingExport struct {
	PayHistoryRecord
	Employee EmployeeSummary `json:"employee"`
}

type PaystubData struct {
	Record   PayHistoryRecord
	Employee EmployeeSummary
}

// RunInput is a validated pay run submission.
type RunInput struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	PayDate     time.Time
	Items       []LineItem
}

type RunSummary struct {
	Count  int            `json:"count"`
	IDs    []snowflake.ID `json:"ids"`
	Totals Totals         `json:"totals"`
}

type Preview struct {
	Rows     []LineResult      `json:"rows"`
	Totals   Totals            `json:"totals"`
	Holidays []holiday.Holiday `json:"holidays"`
}
