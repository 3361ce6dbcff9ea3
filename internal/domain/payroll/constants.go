package payroll

const (
	PayTypeHourly = "HOURLY"
	PayTypeSalary = "SALARY"

	PayGroupBiWeekly = "BI_WEEKLY"
	PayGroupMonthly  = "MONTHLY"

	StatusPending   = "PENDING"
	StatusProcessed = "PROCESSED"
	StatusPaid      = "PAID"

	WarningHolidayExceedsWorked = "holiday_hours_exceed_hours_worked"
	WarningZeroGross            = "zero_gross"
	WarningHoursIgnoredSalary   = "hours_ignored_for_salary"

	DefaultVacationPayPercent = 4
)

var periodsPerYear = map[string]int64{
	PayGroupBiWeekly: 26,
	PayGroupMonthly:  12,
}
