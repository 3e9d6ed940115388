package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build metadata, overridden with -ldflags "-X ...cli.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = ""
)

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of pithos",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pithos version %s\n", Version)
			if !verbose {
				return
			}
			commit := Commit
			if commit == "" {
				commit = "unknown"
			}
			fmt.Fprintf(out, "commit: %s\ngo: %s %s/%s\n", commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also print the commit and Go toolchain")
	return cmd
}
