package config

import (
	"time"
)

// Storage drivers
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Where the settings were read from
	ConfigPath string

	Chat    ChatConfig
	Storage StorageConfig

	// MetricsListen is the address of the /metrics listener, empty disables it
	MetricsListen string
	SweepInterval time.Duration
	LogLevel      string
	Debug         bool

	// NonInteractive disables prompts in the CLI
	NonInteractive bool
	NoColor        bool

	// AcceptDelegatesDefault applies to members seen for the first time
	AcceptDelegatesDefault bool
}

// ChatConfig holds the chat platform settings
type ChatConfig struct {
	Token            string `yaml:"token"`
	ServerID         string `yaml:"server_id"`
	ClientID         string `yaml:"client_id"`
	CommandPrefix    string `yaml:"command_prefix"`
	MotionChannelID  string `yaml:"motion_channel_id"`
	ArchiveChannelID string `yaml:"archive_channel_id"`
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}
