package dispatch

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

const (
	DefaultTimezone = "America/Toronto"
	DefaultSendHour = 9
	dateLayout      = "2006-01-02"
)

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ResolveSendAt turns the requested send time into an absolute instant.
//
//   - unset: 09:00 on payDate in tz
//   - YYYY-MM-DD: 09:00 on that date in tz
//   - RFC 3339 with offset: that instant
//   - date-time without offset: that wall clock in tz
//
// Wall clock conversion follows the zone's rules for that date, so the
// offset differs across daylight saving transitions.
func ResolveSendAt(payDate string, sendAt *string, tz string) (time.Time, error) {
	loc, err := LoadZone(tz)
	if err != nil {
		return time.Time{}, err
	}

	raw := ""
	if sendAt != nil {
		raw = strings.TrimSpace(*sendAt)
	}
	if raw == "" {
		day, err := ParseDay(payDate)
		if err != nil {
			return time.Time{}, &FieldError{Field: "payDate", Reason: "must be YYYY-MM-DD", Err: err}
		}
		return atLocalHour(day, loc), nil
	}

	if day, err := time.Parse(dateLayout, raw); err == nil {
		return atLocalHour(day, loc), nil
	}
	if instant, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return instant.UTC(), nil
	}
	for _, layout := range localLayouts {
		if local, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return local.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidSendAt, raw)
}

func LoadZone(tz string) (*time.Location, error) {
	name := strings.TrimSpace(tz)
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	return loc, nil
}

// ParseDay accepts YYYY-MM-DD, or an RFC 3339 timestamp whose calendar date
// is taken as written.
func ParseDay(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if day, err := time.Parse(dateLayout, raw); err == nil {
		return day, nil
	}
	instant, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(instant.Year(), instant.Month(), instant.Day(), 0, 0, 0, 0, time.UTC), nil
}

func atLocalHour(day time.Time, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), DefaultSendHour, 0, 0, 0, loc).UTC()
}
