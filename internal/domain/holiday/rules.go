package holiday

import "time"

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NthWeekday returns the nth occurrence of weekday in the given month.
func NthWeekday(year int, month time.Month, weekday time.Weekday, nth int) time.Time {
	first := date(year, month, 1)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+(nth-1)*7)
}

// WeekdayBefore returns the last given weekday strictly before the date.
func WeekdayBefore(year int, month time.Month, day int, weekday time.Weekday) time.Time {
	prev := date(year, month, day).AddDate(0, 0, -1)
	offset := (int(prev.Weekday()) - int(weekday) + 7) % 7
	return prev.AddDate(0, 0, -offset)
}

// EasterSunday uses the anonymous Gregorian (Meeus/Jones/Butcher) algorithm.
func EasterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return date(year, time.Month(month), day)
}
