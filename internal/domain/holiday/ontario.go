package holiday

import "time"

const OntarioCode = "CA-ON"

const (
	IDNewYear      = "new_year"
	IDFamilyDay    = "family_day"
	IDGoodFriday   = "good_friday"
	IDVictoriaDay  = "victoria_day"
	IDCanadaDay    = "canada_day"
	IDLabourDay    = "labour_day"
	IDThanksgiving = "thanksgiving"
	IDChristmas    = "christmas"
	IDBoxingDay    = "boxing_day"
)

// Ontario is the provincial public holiday set. Canada Day stays on July 1
// with no weekend observance shift.
type Ontario struct{}

func (Ontario) Code() string { return OntarioCode }

func (Ontario) Holidays(year int) []Holiday {
	return []Holiday{
		{ID: IDNewYear, Name: "New Year's Day", Date: date(year, time.January, 1)},
		{ID: IDFamilyDay, Name: "Family Day", Date: NthWeekday(year, time.February, time.Monday, 3)},
		{ID: IDGoodFriday, Name: "Good Friday", Date: EasterSunday(year).AddDate(0, 0, -2)},
		{ID: IDVictoriaDay, Name: "Victoria Day", Date: WeekdayBefore(year, time.May, 25, time.Monday)},
		{ID: IDCanadaDay, Name: "Canada Day", Date: date(year, time.July, 1)},
		{ID: IDLabourDay, Name: "Labour Day", Date: NthWeekday(year, time.September, time.Monday, 1)},
		{ID: IDThanksgiving, Name: "Thanksgiving", Date: NthWeekday(year, time.October, time.Monday, 2)},
		{ID: IDChristmas, Name: "Christmas Day", Date: date(year, time.December, 25)},
		{ID: IDBoxingDay, Name: "Boxing Day", Date: date(year, time.December, 26)},
	}
}
