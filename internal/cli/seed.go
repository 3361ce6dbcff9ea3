package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"paydesk/internal/app/server"
	"paydesk/internal/platform/db"
)

func init() {
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create demo employees",
	Long:  `Create a small set of demo employees through the normal validation and storage path. Emails that already exist are skipped.`,
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	app, err := server.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	created, err := db.Seed(cmd.Context(), app.Employees)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d employees\n", created)
	return nil
}
