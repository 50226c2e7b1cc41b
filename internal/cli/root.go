package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/wakeupmh/sensory-profile-backend/internal/data/db"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
)

// NewRootCommand builds the spadmin command tree. Subcommands talk to
// the database directly through the same repos and services as the API,
// so anything they write obeys the same validation.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "spadmin",
		Short:        "Administrative tasks for the sensory profile backend",
		SilenceUsage: true,
	}

	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewSeedCommand())
	cmd.AddCommand(NewRescoreCommand())
	cmd.AddCommand(NewSweepCommand())

	return cmd
}

// bootstrap opens the logger and database connection shared by all
// subcommands.
func bootstrap() (*logger.Logger, *gorm.DB, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, nil, fmt.Errorf("init postgres: %w", err)
	}
	return log, pg.DB(), nil
}
