package payroll

import (
	"errors"
	"testing"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "PENDING", want: StatusPending},
		{raw: "processed", want: StatusProcessed},
		{raw: " PAID ", want: StatusPaid},
		{raw: "SENT", want: StatusPaid},
		{raw: "sent", want: StatusPaid},
	}
	for _, tc := range tests {
		got, err := NormalizeStatus(tc.raw)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %s, got %s", tc.raw, tc.want, got)
		}
	}

	for _, raw := range []string{"", "VOID", "DRAFT"} {
		if _, err := NormalizeStatus(raw); !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("%q: expected ErrInvalidStatus, got %v", raw, err)
		}
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{StatusPending, StatusProcessed, true},
		{StatusPending, StatusPaid, true},
		{StatusProcessed, StatusPaid, true},
		{StatusProcessed, StatusPending, true},
		{StatusPaid, StatusPending, false},
		{StatusPaid, StatusProcessed, false},
		{StatusPending, StatusPending, false},
		{StatusPaid, StatusPaid, false},
	}
	for _, tc := range tests {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestAllowedFromReturnsCopy(t *testing.T) {
	from := AllowedFrom(StatusPaid)
	from[0] = "MUTATED"
	if AllowedFrom(StatusPaid)[0] == "MUTATED" {
		t.Fatal("expected AllowedFrom to return a copy")
	}
}
