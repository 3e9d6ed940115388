package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pithos-gov/pithos/internal/cli/render"
)

// NewSweepCmd creates the sweep command
func NewSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Archive expired motions now",
		Long: `Tally every expired motion that hasn't been archived yet, post the result
to the archive channel and mark it archived. serve does this periodically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if err := app.ManageDelegation.Load(cmd.Context()); err != nil {
				return err
			}

			archived, err := app.SweepExpired.Run(cmd.Context())
			if err != nil {
				return err
			}

			if len(archived) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No expired motions to archive")
				return nil
			}
			for _, r := range archived {
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("Archived #%d %s", r.Motion.ID, r.Motion.Description)))
			}
			return nil
		},
	}
}
