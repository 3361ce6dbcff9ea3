package payroll

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func decPtr(value string) *decimal.Decimal {
	d := dec(value)
	return &d
}

func hourlyProfile(rate string) PayProfile {
	return PayProfile{
		EmployeeID:         1,
		PayType:            PayTypeHourly,
		PayGroup:           PayGroupBiWeekly,
		HourlyRate:         decPtr(rate),
		VacationPayPercent: dec("4"),
	}
}

func TestComputePayHourlyWithOvertime(t *testing.T) {
	pay, err := ComputePay(hourlyProfile("20"), Hours{
		Worked:          dec("40"),
		Overtime:        dec("5"),
		IncludeVacation: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pay.Base.Equal(dec("950")) {
		t.Fatalf("expected base 950, got %s", pay.Base)
	}
	if !pay.Vacation.Equal(dec("38")) {
		t.Fatalf("expected vacation 38, got %s", pay.Vacation)
	}
	if !pay.Gross.Equal(dec("988")) {
		t.Fatalf("expected gross 988, got %s", pay.Gross)
	}
	if len(pay.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", pay.Warnings)
	}
}

func TestComputePayHourlyWithHolidayHours(t *testing.T) {
	pay, err := ComputePay(hourlyProfile("20"), Hours{
		Worked:  dec("40"),
		Holiday: dec("8"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pay.Base.Equal(dec("880")) {
		t.Fatalf("expected base 880, got %s", pay.Base)
	}
	if !pay.Vacation.IsZero() || !pay.Gross.Equal(dec("880")) {
		t.Fatalf("expected no vacation pay, got vacation %s gross %s", pay.Vacation, pay.Gross)
	}
}

func TestComputePayHolidayHoursExceedingWorked(t *testing.T) {
	pay, err := ComputePay(hourlyProfile("10"), Hours{
		Worked:  dec("4"),
		Holiday: dec("8"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pay.Base.Equal(dec("120")) {
		t.Fatalf("expected base 120, got %s", pay.Base)
	}
	if len(pay.Warnings) != 1 || pay.Warnings[0] != WarningHolidayExceedsWorked {
		t.Fatalf("expected holiday warning, got %v", pay.Warnings)
	}
}

func TestComputePaySalary(t *testing.T) {
	tests := []struct {
		name     string
		salary   string
		group    string
		vacation bool
		base     string
		gross    string
	}{
		{name: "bi-weekly", salary: "52000", group: PayGroupBiWeekly, base: "2000", gross: "2000"},
		{name: "default group", salary: "52000", group: "", base: "2000", gross: "2000"},
		{name: "monthly", salary: "60000", group: PayGroupMonthly, base: "5000", gross: "5000"},
		{name: "monthly with vacation", salary: "60000", group: "monthly", vacation: true, base: "5000", gross: "5200"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			pay, err := ComputePay(PayProfile{
				PayType:            PayTypeSalary,
				PayGroup:           tc.group,
				Salary:             decPtr(tc.salary),
				VacationPayPercent: dec("4"),
			}, Hours{IncludeVacation: tc.vacation})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !pay.Base.Equal(dec(tc.base)) {
				t.Fatalf("expected base %s, got %s", tc.base, pay.Base)
			}
			if !pay.Gross.Equal(dec(tc.gross)) {
				t.Fatalf("expected gross %s, got %s", tc.gross, pay.Gross)
			}
		})
	}
}

func TestComputePaySalaryIgnoresHours(t *testing.T) {
	pay, err := ComputePay(PayProfile{
		PayType:            PayTypeSalary,
		Salary:             decPtr("52000"),
		VacationPayPercent: dec("4"),
	}, Hours{Worked: dec("80"), Overtime: dec("10"), Holiday: dec("8")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pay.Base.Equal(dec("2000")) {
		t.Fatalf("expected base 2000, got %s", pay.Base)
	}
	if len(pay.Warnings) != 1 || pay.Warnings[0] != WarningHoursIgnoredSalary {
		t.Fatalf("expected hours ignored warning, got %v", pay.Warnings)
	}
}

func TestComputePayRejectsBadProfiles(t *testing.T) {
	tests := []struct {
		name    string
		profile PayProfile
		hours   Hours
		want    error
	}{
		{
			name:    "hourly without rate",
			profile: PayProfile{PayType: PayTypeHourly},
			hours:   Hours{Worked: dec("40")},
			want:    ErrMissingPayRate,
		},
		{
			name:    "salary without salary",
			profile: PayProfile{PayType: PayTypeSalary, HourlyRate: decPtr("20")},
			want:    ErrMissingPayRate,
		},
		{
			name:    "negative hours",
			profile: hourlyProfile("20"),
			hours:   Hours{Worked: dec("-1")},
			want:    ErrNegativeInput,
		},
		{
			name:    "negative rate",
			profile: hourlyProfile("-20"),
			want:    ErrNegativeInput,
		},
		{
			name:    "unknown pay type",
			profile: PayProfile{PayType: "COMMISSION"},
			want:    ErrUnknownPayType,
		},
		{
			name:    "unknown pay group",
			profile: PayProfile{PayType: PayTypeSalary, PayGroup: "WEEKLY", Salary: decPtr("1")},
			want:    ErrUnknownPayGroup,
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputePay(tc.profile, tc.hours)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestComputePayZeroHoursWarns(t *testing.T) {
	pay, err := ComputePay(hourlyProfile("20"), Hours{IncludeVacation: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pay.Warnings) != 1 || pay.Warnings[0] != WarningZeroGross {
		t.Fatalf("expected zero gross warning, got %v", pay.Warnings)
	}
}

func TestComputeNet(t *testing.T) {
	net := ComputeNet(dec("988"), Deductions{})
	if !net.Equal(dec("988")) {
		t.Fatalf("expected net equal to gross with zero deductions, got %s", net)
	}
	net = ComputeNet(dec("1000"), Deductions{CPP: dec("50.25"), EI: dec("16.30"), IncomeTax: dec("120")})
	if !net.Equal(dec("813.45")) {
		t.Fatalf("expected 813.45, got %s", net)
	}
}
