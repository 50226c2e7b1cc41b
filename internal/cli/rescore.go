package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wakeupmh/sensory-profile-backend/internal/platform/envutil"
	"github.com/wakeupmh/sensory-profile-backend/internal/scoring"
)

// NewRescoreCommand recomputes the persisted score columns of every
// scored assessment. Meant for after a scoring table correction or a
// change to the item 86 quadrant flag.
func NewRescoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rescore",
		Short: "Recompute score columns for all scored assessments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, gdb, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			sweep := newSweepService(log, gdb)
			changed, err := sweep.Rescore(cmd.Context(), func(checked int) {
				if checked%500 == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "rescored %d assessments...\n", checked)
				}
			})
			if err != nil {
				return fmt.Errorf("rescore: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rescore complete, %d assessments updated\n", changed)
			return nil
		},
	}
}

func cliEngineOpts() []scoring.Option {
	var opts []scoring.Option
	if envutil.GetEnvAsBool("SCORE_ITEM86_QUADRANT", false) {
		opts = append(opts, scoring.WithItem86Quadrant(true))
	}
	return opts
}
