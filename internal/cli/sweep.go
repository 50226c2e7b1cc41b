package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/wakeupmh/sensory-profile-backend/internal/data/repos"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
	"github.com/wakeupmh/sensory-profile-backend/internal/platform/envutil"
	"github.com/wakeupmh/sensory-profile-backend/internal/services"
)

// NewSweepCommand runs one consistency sweep in the foreground and
// prints the findings. Exits non-zero when any assessment fails
// validation so it can gate cron alerts.
func NewSweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Validate every scored assessment against its responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, gdb, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			sweep := newSweepService(log, gdb)
			summary, err := sweep.Run(cmd.Context(), func(checked int) {
				if checked%500 == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "checked %d assessments...\n", checked)
				}
			})
			if err != nil {
				return fmt.Errorf("sweep: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "checked: %d\nvalid: %d\ninvalid: %d\nwith issues: %d\n",
				summary.Checked, summary.Valid, summary.Invalid, summary.WithIssues)
			for _, f := range summary.Findings {
				fmt.Fprintf(out, "  assessment %s (child %s): valid=%t", f.AssessmentID, f.ChildID, f.IsValid)
				for _, e := range f.Errors {
					fmt.Fprintf(out, "\n    error: %s", e)
				}
				for _, w := range f.Warnings {
					fmt.Fprintf(out, "\n    warning: %s", w)
				}
				fmt.Fprintln(out)
			}
			if summary.Invalid > 0 {
				return fmt.Errorf("%d assessments failed validation", summary.Invalid)
			}
			return nil
		},
	}
}

func newSweepService(log *logger.Logger, gdb *gorm.DB) services.SweepService {
	return services.NewSweepService(
		log,
		repos.NewAssessmentRepo(gdb, log),
		repos.NewResponseRepo(gdb, log),
		repos.NewChildRepo(gdb, log),
		envutil.GetEnvAsInt("SWEEP_CONCURRENCY", 4),
		cliEngineOpts()...,
	)
}
