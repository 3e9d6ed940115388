package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pithos-gov/pithos/internal/adapters/metrics"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bot",
		Long: `Run the bot until interrupted or until its input ends.

Chat messages are read from standard input, one per line:

  alice: !motion list          message in the default channel
  #motions bob: !vote 1 2      message in channel "motions"
  @carol: Paint benches        direct message to the bot

Expired motions are tallied and posted to the archive channel every
sweep_interval. When metrics.listen is set, Prometheus metrics are served
on /metrics.`,
		Example: `  # Run with the configured storage
  pithos serve

  # Try it out without touching the database
  pithos serve --storage memory`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, gctx := errgroup.WithContext(ctx)
			runCtx, cancel := context.WithCancel(gctx)
			defer cancel()

			g.Go(func() error {
				// the bot stopping ends the metrics listener too
				defer cancel()
				return app.RunBot.Run(runCtx)
			})
			if listen := app.Config.MetricsListen; listen != "" {
				g.Go(func() error {
					return metrics.Serve(runCtx, listen, app.Metrics, app.Log)
				})
			}

			return g.Wait()
		},
	}

	cmd.Flags().String("storage", "", "Storage driver to use (sqlite, memory)")

	return cmd
}
