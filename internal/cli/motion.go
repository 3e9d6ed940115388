package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pithos-gov/pithos/internal/cli/render"
	"github.com/pithos-gov/pithos/internal/domain"
)

// NewMotionCmd creates the motion command group
func NewMotionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "motion",
		Short: "Inspect motions",
	}

	cmd.AddCommand(NewMotionListCmd())
	cmd.AddCommand(NewMotionTallyCmd())

	return cmd
}

// NewMotionListCmd creates the motion list command
func NewMotionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List running motions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			motions, err := app.ListMotions.Run(cmd.Context())
			if err != nil {
				return err
			}

			renderer := render.NewMotionsRenderer(cmd.OutOrStdout(), useColor(app))
			return renderer.RenderMotionList(motions)
		},
	}
}

// NewMotionTallyCmd creates the motion tally command
func NewMotionTallyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tally [motion]",
		Short: "Count the effective votes of a motion",
		Long: `Count every member's effective vote on a motion, following delegations.

Without an argument, pick one of the running motions interactively.`,
		Example: `  pithos motion tally 3
  pithos motion tally '#3'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if err := app.ManageDelegation.Load(ctx); err != nil {
				return err
			}

			var id domain.MotionID
			if len(args) == 1 {
				n, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
				if err != nil || n <= 0 {
					return fmt.Errorf("invalid motion id %q", args[0])
				}
				id = domain.MotionID(n)
			} else {
				running, err := app.ListMotions.Run(ctx)
				if err != nil {
					return err
				}
				selected, err := app.Selector.SelectMotion(ctx, running, "Select a motion")
				if err != nil {
					return err
				}
				id = selected.ID
			}

			result, err := app.TallyMotion.Run(ctx, id)
			if err != nil {
				return err
			}

			renderer := render.NewMotionsRenderer(cmd.OutOrStdout(), useColor(app))
			return renderer.RenderTally(result, time.Now())
		},
	}
}
