package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pithos-gov/pithos/internal/domain/config"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	cfg := &config.RuntimeConfig{
		ConfigPath: v.ConfigFileUsed(),
		Chat: config.ChatConfig{
			Token:            v.GetString("chat.token"),
			ServerID:         v.GetString("chat.server_id"),
			ClientID:         v.GetString("chat.client_id"),
			CommandPrefix:    v.GetString("chat.command_prefix"),
			MotionChannelID:  v.GetString("chat.motion_channel_id"),
			ArchiveChannelID: v.GetString("chat.archive_channel_id"),
		},
		Storage: config.StorageConfig{
			Driver: strings.ToLower(v.GetString("storage.driver")),
			Path:   v.GetString("storage.path"),
		},
		MetricsListen:          v.GetString("metrics.listen"),
		SweepInterval:          v.GetDuration("sweep_interval"),
		LogLevel:               v.GetString("log_level"),
		Debug:                  v.GetBool("debug"),
		NonInteractive:         v.GetBool("non_interactive"),
		NoColor:                v.GetBool("no_color"),
		AcceptDelegatesDefault: v.GetBool("accept_delegates_default"),
	}

	if strings.TrimSpace(cfg.Chat.CommandPrefix) == "" {
		return nil, fmt.Errorf("chat.command_prefix must not be empty")
	}
	switch cfg.Storage.Driver {
	case config.StorageMemory:
	case config.StorageSQLite:
		if cfg.Storage.Path == "" {
			return nil, fmt.Errorf("storage.path is required for the sqlite driver")
		}
	default:
		return nil, fmt.Errorf("unknown storage.driver %q (want %q or %q)",
			cfg.Storage.Driver, config.StorageSQLite, config.StorageMemory)
	}
	if cfg.SweepInterval < 0 {
		return nil, fmt.Errorf("sweep_interval must not be negative")
	}

	return cfg, nil
}

// SetupViper creates and configures a viper instance for the config file at
// path. .env files next to it are loaded into the environment first.
func SetupViper(path string) *viper.Viper {
	loadEnvFiles(filepath.Dir(path))

	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("PITHOS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	defaults := DefaultFile()
	v.SetDefault("chat.command_prefix", defaults.Chat.CommandPrefix)
	v.SetDefault("storage.driver", defaults.Storage.Driver)
	v.SetDefault("storage.path", defaults.Storage.Path)
	v.SetDefault("metrics.listen", "")
	v.SetDefault("sweep_interval", defaults.SweepInterval)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("accept_delegates_default", defaults.AcceptDelegatesDefault)
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("no_color", false)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	return v
}

func loadEnvFiles(dir string) {
	for _, name := range []string{".env", ".env.local"} {
		envFile := filepath.Join(dir, name)
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
		}
	}
}
