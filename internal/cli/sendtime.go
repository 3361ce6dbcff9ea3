package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"paydesk/internal/domain/dispatch"
)

func init() {
	rootCmd.AddCommand(sendTimeCmd)
	sendTimeCmd.Flags().String("pay-date", "", "Pay date (YYYY-MM-DD)")
	sendTimeCmd.Flags().String("send-at", "", "Requested send time: date, local date-time or RFC 3339 instant")
	sendTimeCmd.Flags().String("timezone", "", "IANA timezone (default: DEFAULT_TIMEZONE)")
}

var sendTimeCmd = &cobra.Command{
	Use:   "send-time",
	Short: "Resolve when a paystub schedule would be sent",
	Args:  cobra.NoArgs,
	RunE:  runSendTime,
}

func runSendTime(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	payDate, _ := cmd.Flags().GetString("pay-date")
	rawSendAt, _ := cmd.Flags().GetString("send-at")
	tz, _ := cmd.Flags().GetString("timezone")
	if tz == "" {
		tz = cfg.DefaultTimezone
	}
	if payDate == "" && rawSendAt == "" {
		return fmt.Errorf("--pay-date or --send-at is required")
	}

	var sendAt *string
	if rawSendAt != "" {
		sendAt = &rawSendAt
	}
	instant, err := dispatch.ResolveSendAt(payDate, sendAt, tz)
	if err != nil {
		return err
	}
	loc, err := dispatch.LoadZone(tz)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "utc:   %s\n", instant.Format(time.RFC3339))
	fmt.Fprintf(out, "local: %s\n", instant.In(loc).Format("2006-01-02 15:04:05 MST"))
	return nil
}
