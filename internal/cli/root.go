package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pithos-gov/pithos/internal/app"
	"github.com/pithos-gov/pithos/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"

	// skipAppAnnotation marks commands that run without a wired app
	skipAppAnnotation = "pithos/skip-app"
)

// Execute runs the root command and releases the app afterwards
func Execute(ctx context.Context) error {
	rootCmd, closeApp := newRootCmd()
	defer closeApp()
	return rootCmd.ExecuteContext(ctx)
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd, _ := newRootCmd()
	return rootCmd
}

func newRootCmd() (*cobra.Command, func()) {
	var (
		configPath string
		cleanup    func()
		once       sync.Once
	)
	closeApp := func() {
		once.Do(func() {
			if cleanup != nil {
				cleanup()
			}
		})
	}

	rootCmd := &cobra.Command{
		Use:   "pithos",
		Short: "Liquid democracy for chat communities",
		Long: `pithos lets the members of a chat community file motions and vote on them.
Members who don't vote can delegate their vote to another member, either for a
single hop (fixed) or along their delegate's own delegation (transitive).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			if _, ok := cmd.Annotations[skipAppAnnotation]; ok {
				return nil
			}

			if err := config.EnsureConfigFile(configPath); err != nil {
				return err
			}

			v := config.SetupViper(configPath)
			bindGlobalFlags(v, cmd)

			// Initialize app with DI
			appInstance, appCleanup, err := app.InitApp(cmd.Context(), v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			cleanup = appCleanup

			// Store app in context
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeApp()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Path to the config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	serveCmd := NewServeCmd()
	serveCmd.GroupID = "main"
	rootCmd.AddCommand(serveCmd)

	motionCmd := NewMotionCmd()
	motionCmd.GroupID = "main"
	rootCmd.AddCommand(motionCmd)

	membersCmd := NewMembersCmd()
	membersCmd.GroupID = "main"
	rootCmd.AddCommand(membersCmd)

	sweepCmd := NewSweepCmd()
	sweepCmd.GroupID = "management"
	rootCmd.AddCommand(sweepCmd)

	configCmd := NewConfigCmd(&configPath)
	configCmd.GroupID = "management"
	rootCmd.AddCommand(configCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd, closeApp
}

// flagKeys maps flag names to their viper keys
var flagKeys = map[string]string{
	"debug":           "debug",
	"non-interactive": "non_interactive",
	"no-color":        "no_color",
	"log-level":       "log_level",
	"storage":         "storage.driver",
}

// bindGlobalFlags copies the flags that have been set into viper
func bindGlobalFlags(v *viper.Viper, cmd *cobra.Command) {
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			v.Set(key, f.Value.String())
		}
	})
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	a, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return a, nil
}

// useColor reports whether output may be colored
func useColor(a *app.App) bool {
	return !a.Config.NoColor
}
