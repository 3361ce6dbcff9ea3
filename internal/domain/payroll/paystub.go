package payroll

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"paydesk/internal/domain/holiday"
)

// RenderPaystub writes a one-page PDF paystub for a pay history record.
func RenderPaystub(w io.Writer, data PaystubData) error {
	record := data.Record
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle(fmt.Sprintf("Paystub %s", record.ID.String()), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Paystub")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s %s", data.Employee.FirstName, data.Employee.LastName))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Employee ID: %s", data.Employee.ID.String()))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Pay date: %s", record.PayDate.Format(holiday.DateLayout)))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s to %s", record.PeriodStart.Format(holiday.DateLayout), record.PeriodEnd.Format(holiday.DateLayout)))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Status: %s", record.Status))
	pdf.Ln(10)

	if record.HoursWorked != nil {
		pdf.Cell(0, 7, fmt.Sprintf("Hours: %s regular, %s overtime, %s holiday",
			hoursText(record.HoursWorked), hoursText(record.OvertimeHours), hoursText(record.HolidayHours)))
		pdf.Ln(8)
	}

	lines := []struct {
		label  string
		amount decimal.Decimal
	}{
		{"Base pay", record.BasePay},
		{"Vacation pay", record.VacationPay},
		{"Gross pay", record.GrossPay},
		{"CPP", record.Deductions.CPP},
		{"EI", record.Deductions.EI},
		{"Income tax", record.Deductions.IncomeTax},
		{"EHT", record.Deductions.EHT},
		{"WSIB", record.Deductions.WSIB},
		{"Net pay", record.NetPay},
	}
	for _, line := range lines {
		pdf.CellFormat(60, 7, line.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, Cents(line.amount).StringFixed(2), "", 1, "R", false, 0, "")
	}

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.Output(w)
}

func hoursText(d *decimal.Decimal) string {
	if d == nil {
		return "0"
	}
	return d.String()
}
