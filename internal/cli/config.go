package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/pithos-gov/pithos/internal/cli/render"
	"github.com/pithos-gov/pithos/internal/config"
	domainconfig "github.com/pithos-gov/pithos/internal/domain/config"
)

// NewConfigCmd creates the config command. configPath points at the
// --config flag value.
func NewConfigCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the pithos config file",
		Long: `Manage the config file (config.yml by default).

Available subcommands:
  config           Show the resolved config
  config init      Write a config file interactively

When run without subcommands, displays the current config.`,
		Annotations: map[string]string{skipAppAnnotation: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, *configPath)
		},
	}

	cmd.AddCommand(NewConfigInitCmd(configPath))

	return cmd
}

// NewConfigInitCmd creates the config init subcommand
func NewConfigInitCmd(configPath *string) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a config file interactively",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipAppAnnotation: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			if nonInteractive, _ := cmd.Flags().GetBool("non-interactive"); nonInteractive {
				return fmt.Errorf("config init needs a terminal, edit %s by hand in non-interactive mode", *configPath)
			}

			if _, err := os.Stat(*configPath); err == nil && !force {
				if !confirm(fmt.Sprintf("%s exists, overwrite it", *configPath)) {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing written")
					return nil
				}
			}

			f, err := promptConfig(config.DefaultFile())
			if err != nil {
				return err
			}
			if err := config.WriteFile(*configPath, f); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess("Wrote "+*configPath))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file without asking")

	return cmd
}

func showConfig(cmd *cobra.Command, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("no config file at %s, run 'pithos config init' to create one", path)
	}

	v := config.SetupViper(path)
	bindGlobalFlags(v, cmd)
	cfg, err := config.Provider(v)
	if err != nil {
		return err
	}

	return render.NewConfigRenderer(cmd.OutOrStdout()).Render(cfg)
}

// promptConfig asks for every setting, offering the values of defaults
func promptConfig(defaults *config.File) (*config.File, error) {
	f := *defaults
	f.DefaultGenerated = false

	fields := []struct {
		label    string
		target   *string
		mask     rune
		validate promptui.ValidateFunc
	}{
		{"Bot token", &f.Chat.Token, '*', required},
		{"Server id", &f.Chat.ServerID, 0, required},
		{"Client id", &f.Chat.ClientID, 0, required},
		{"Command prefix", &f.Chat.CommandPrefix, 0, required},
		{"Motion channel id", &f.Chat.MotionChannelID, 0, required},
		{"Archive channel id", &f.Chat.ArchiveChannelID, 0, required},
	}
	for _, field := range fields {
		prompt := promptui.Prompt{
			Label:    field.label,
			Default:  *field.target,
			Mask:     field.mask,
			Validate: field.validate,
		}
		if field.mask != 0 {
			prompt.Default = ""
		}
		result, err := prompt.Run()
		if err != nil {
			return nil, fmt.Errorf("input cancelled: %w", err)
		}
		*field.target = strings.TrimSpace(result)
	}

	drivers := []string{domainconfig.StorageSQLite, domainconfig.StorageMemory}
	sel := promptui.Select{
		Label: "Storage",
		Items: drivers,
	}
	idx, _, err := sel.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}
	f.Storage.Driver = drivers[idx]

	if f.Storage.Driver == domainconfig.StorageSQLite {
		prompt := promptui.Prompt{
			Label:    "Database file",
			Default:  f.Storage.Path,
			Validate: required,
		}
		result, err := prompt.Run()
		if err != nil {
			return nil, fmt.Errorf("input cancelled: %w", err)
		}
		f.Storage.Path = strings.TrimSpace(result)
	}

	return &f, nil
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("a value is required")
	}
	return nil
}

func confirm(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	_, err := prompt.Run()
	return err == nil
}
