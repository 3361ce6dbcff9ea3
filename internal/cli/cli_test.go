package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONFIG_FILE", "")
	for _, cmd := range rootCmd.Commands() {
		resetFlags(cmd)
	}
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func TestHolidaysForYear(t *testing.T) {
	out, err := run(t, "holidays", "--year", "2025")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 9 {
		t.Fatalf("expected 9 holidays, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(out, "2025-10-13  Mon  Thanksgiving") {
		t.Fatalf("expected Thanksgiving row, got:\n%s", out)
	}
}

func TestHolidaysForDate(t *testing.T) {
	out, err := run(t, "holidays", "--date", "2025-07-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "2025-07-01 is Canada Day" {
		t.Fatalf("unexpected output %q", out)
	}

	if _, err := run(t, "holidays", "--jurisdiction", "XX-YY"); err == nil {
		t.Fatal("expected unknown jurisdiction error")
	}
}

func TestSendTimeAcrossDaylightSaving(t *testing.T) {
	out, err := run(t, "send-time", "--pay-date", "2025-11-03", "--timezone", "America/Toronto")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "utc:   2025-11-03T14:00:00Z") {
		t.Fatalf("expected EST offset after the change, got:\n%s", out)
	}

	out, err = run(t, "send-time", "--pay-date", "2025-10-31", "--timezone", "America/Toronto")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "utc:   2025-10-31T13:00:00Z") {
		t.Fatalf("expected EDT offset before the change, got:\n%s", out)
	}
}

func TestSendTimeRequiresInput(t *testing.T) {
	if _, err := run(t, "send-time"); err == nil {
		t.Fatal("expected error without --pay-date")
	}
}

func TestMigrateList(t *testing.T) {
	out, err := run(t, "migrate", "--list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "0001_init.sql") {
		t.Fatalf("expected embedded migration, got %q", out)
	}
}
