package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"paydesk/internal/platform/db"
	"paydesk/migrations"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().Bool("list", false, "List embedded migration files without touching the database")
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if list, _ := cmd.Flags().GetBool("list"); list {
		files, err := db.PendingFiles(migrations.FS)
		if err != nil {
			return err
		}
		for _, file := range files {
			fmt.Fprintln(out, file)
		}
		return nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	pool, err := db.Connect(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer pool.Close()

	applied, err := db.Migrate(cmd.Context(), pool, migrations.FS)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		fmt.Fprintln(out, "database is up to date")
		return nil
	}
	for _, version := range applied {
		fmt.Fprintf(out, "applied %s\n", version)
	}
	return nil
}
