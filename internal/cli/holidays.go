package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"paydesk/internal/domain/holiday"
)

func init() {
	rootCmd.AddCommand(holidaysCmd)
	holidaysCmd.Flags().Int("year", 0, "Calendar year (default: current year)")
	holidaysCmd.Flags().String("date", "", "Check a single date (YYYY-MM-DD)")
	holidaysCmd.Flags().String("jurisdiction", "", "Jurisdiction code (default: HOLIDAY_JURISDICTION)")
}

var holidaysCmd = &cobra.Command{
	Use:   "holidays",
	Short: "Print statutory holidays",
	Args:  cobra.NoArgs,
	RunE:  runHolidays,
}

func runHolidays(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	code, _ := cmd.Flags().GetString("jurisdiction")
	if code == "" {
		code = cfg.HolidayJurisdiction
	}
	rules, err := holiday.Lookup(code)
	if err != nil {
		return fmt.Errorf("%w: %q (known: %v)", err, code, holiday.Codes())
	}
	calendar := holiday.NewCalendar(rules)
	out := cmd.OutOrStdout()

	if raw, _ := cmd.Flags().GetString("date"); raw != "" {
		date, err := time.Parse(holiday.DateLayout, raw)
		if err != nil {
			return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
		}
		if found, ok := calendar.OnDate(date); ok {
			fmt.Fprintf(out, "%s is %s\n", raw, found.Name)
			return nil
		}
		fmt.Fprintf(out, "%s is not a holiday in %s\n", raw, calendar.Jurisdiction())
		return nil
	}

	year, _ := cmd.Flags().GetInt("year")
	if year == 0 {
		year = time.Now().Year()
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, h := range calendar.ForYear(year) {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", h.Date.Format(holiday.DateLayout), h.Date.Weekday().String()[:3], h.Name)
	}
	return tw.Flush()
}
