package cli

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/pithos-gov/pithos/internal/cli/render"
	"github.com/pithos-gov/pithos/internal/domain"
)

// NewMembersCmd creates the members command
func NewMembersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "members",
		Short: "Show members and their delegations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if err := app.ManageDelegation.Load(cmd.Context()); err != nil {
				return err
			}

			rows := lo.Map(app.ManageDelegation.Members(), func(m domain.Member, _ int) render.MemberRow {
				return render.MemberRow{
					Member:       m,
					Constituents: len(app.ManageDelegation.Constituents(m.ID)),
				}
			})

			return render.NewMembersRenderer(cmd.OutOrStdout(), useColor(app)).Render(rows)
		},
	}
}
