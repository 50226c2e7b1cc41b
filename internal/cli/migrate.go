package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wakeupmh/sensory-profile-backend/internal/data/db"
)

func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run schema automigration against the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, gdb, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			if err := db.AutoMigrateAll(gdb); err != nil {
				return fmt.Errorf("automigrate: %w", err)
			}
			log.Info("Migration complete")
			fmt.Fprintln(cmd.OutOrStdout(), "migration complete")
			return nil
		},
	}
}
