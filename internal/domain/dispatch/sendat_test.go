package dispatch

import (
	"errors"
	"testing"
	"time"
)

func strPtr(v string) *string {
	return &v
}

func TestResolveSendAt(t *testing.T) {
	tests := []struct {
		name    string
		payDate string
		sendAt  *string
		tz      string
		want    string
	}{
		{name: "unset uses pay date at nine EST", payDate: "2025-11-15", tz: "America/Toronto", want: "2025-11-15T14:00:00Z"},
		{name: "default timezone", payDate: "2025-11-15", want: "2025-11-15T14:00:00Z"},
		{name: "empty sendAt", payDate: "2025-11-15", sendAt: strPtr("  "), tz: "America/Toronto", want: "2025-11-15T14:00:00Z"},
		{name: "summer uses EDT", payDate: "2025-07-04", tz: "America/Toronto", want: "2025-07-04T13:00:00Z"},
		{name: "bare date forces nine", payDate: "2025-11-15", sendAt: strPtr("2025-11-14"), tz: "America/Toronto", want: "2025-11-14T14:00:00Z"},
		{name: "day after DST ends", payDate: "2025-11-02", tz: "America/Toronto", want: "2025-11-02T14:00:00Z"},
		{name: "day before DST ends", payDate: "2025-11-01", tz: "America/Toronto", want: "2025-11-01T13:00:00Z"},
		{name: "instant kept", payDate: "2025-11-15", sendAt: strPtr("2025-11-15T10:30:00-05:00"), tz: "America/Vancouver", want: "2025-11-15T15:30:00Z"},
		{name: "utc instant", payDate: "2025-11-15", sendAt: strPtr("2025-11-15T08:00:00Z"), want: "2025-11-15T08:00:00Z"},
		{name: "local date-time in zone", payDate: "2025-11-15", sendAt: strPtr("2025-11-15T07:45"), tz: "America/Vancouver", want: "2025-11-15T15:45:00Z"},
		{name: "other zone", payDate: "2025-01-31", tz: "Europe/Berlin", want: "2025-01-31T08:00:00Z"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveSendAt(tc.payDate, tc.sendAt, tc.tz)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Format(time.RFC3339) != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got.Format(time.RFC3339))
			}
			if got.Location() != time.UTC {
				t.Fatalf("expected UTC instant, got %s", got.Location())
			}
		})
	}
}

func TestResolveSendAtErrors(t *testing.T) {
	if _, err := ResolveSendAt("2025-11-15", nil, "Mars/Olympus"); !errors.Is(err, ErrInvalidTimezone) {
		t.Fatalf("expected ErrInvalidTimezone, got %v", err)
	}
	if _, err := ResolveSendAt("2025-11-15", strPtr("next friday"), ""); !errors.Is(err, ErrInvalidSendAt) {
		t.Fatalf("expected ErrInvalidSendAt, got %v", err)
	}
	if _, err := ResolveSendAt("15/11/2025", nil, ""); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for bad pay date, got %v", err)
	}
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2025-11-15T23:30:00-05:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day.Format(dateLayout) != "2025-11-15" {
		t.Fatalf("expected calendar date as written, got %s", day.Format(dateLayout))
	}
}
