package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/pithos-gov/pithos/internal/domain/config"
)

// ConfigRenderer renders the resolved configuration
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{out: out}
}

// Render prints the settings with the token masked
func (r *ConfigRenderer) Render(cfg *config.RuntimeConfig) error {
	metrics := cfg.MetricsListen
	if metrics == "" {
		metrics = "disabled"
	}
	storage := cfg.Storage.Driver
	if cfg.Storage.Driver == config.StorageSQLite {
		storage += " (" + cfg.Storage.Path + ")"
	}

	rows := [][2]string{
		{"Config file", cfg.ConfigPath},
		{"Token", maskToken(cfg.Chat.Token)},
		{"Server id", cfg.Chat.ServerID},
		{"Client id", cfg.Chat.ClientID},
		{"Command prefix", cfg.Chat.CommandPrefix},
		{"Motion channel", cfg.Chat.MotionChannelID},
		{"Archive channel", cfg.Chat.ArchiveChannelID},
		{"Storage", storage},
		{"Metrics", metrics},
		{"Sweep interval", cfg.SweepInterval.String()},
		{"Log level", cfg.LogLevel},
		{"Accept delegates", fmt.Sprintf("%t by default", cfg.AcceptDelegatesDefault)},
	}

	fmt.Fprintln(r.out, "📋 Current config:")
	for _, row := range rows {
		fmt.Fprintf(r.out, "  %-17s %s\n", row[0]+":", row[1])
	}
	return nil
}

func maskToken(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}

var _ Renderer[*config.RuntimeConfig] = (*ConfigRenderer)(nil)
