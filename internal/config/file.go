package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/pithos-gov/pithos/internal/domain/config"
)

// DefaultConfigPath is where the config file is looked up when --config isn't given
const DefaultConfigPath = "config.yml"

var (
	// ErrConfigGenerated is returned after a default config file has been written
	ErrConfigGenerated = errors.New("config file not found")
	// ErrDefaultConfig is returned while the config still carries default_generated: true
	ErrDefaultConfig = errors.New("default configuration in use")
)

// MissingFieldsError lists the fields that were filled in from defaults
type MissingFieldsError struct {
	Path   string
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("config %s was missing %d field(s): %v", e.Path, len(e.Fields), e.Fields)
}

// File is the on-disk shape of config.yml
type File struct {
	DefaultGenerated       bool                 `yaml:"default_generated"`
	Chat                   config.ChatConfig    `yaml:"chat"`
	Storage                config.StorageConfig `yaml:"storage"`
	Metrics                MetricsFile          `yaml:"metrics"`
	SweepInterval          string               `yaml:"sweep_interval"`
	LogLevel               string               `yaml:"log_level"`
	AcceptDelegatesDefault bool                 `yaml:"accept_delegates_default"`
}

// MetricsFile configures the metrics listener
type MetricsFile struct {
	Listen string `yaml:"listen"`
}

// DefaultFile returns the config written when none exists
func DefaultFile() *File {
	return &File{
		DefaultGenerated: true,
		Chat: config.ChatConfig{
			Token:            "your_bot_token",
			ServerID:         "12345",
			ClientID:         "12345",
			CommandPrefix:    "!",
			MotionChannelID:  "motions",
			ArchiveChannelID: "archive",
		},
		Storage: config.StorageConfig{
			Driver: config.StorageSQLite,
			Path:   "pithos.db",
		},
		SweepInterval:          "1m",
		LogLevel:               "info",
		AcceptDelegatesDefault: true,
	}
}

// WriteFile writes f to path as yaml
func WriteFile(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// EnsureConfigFile checks the config file at path before it is used.
// A missing file is generated from defaults. Missing fields are filled in
// and the file is rewritten. In both cases, and while default_generated is
// still set, an error tells the operator what to adjust.
func EnsureConfigFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := WriteFile(path, DefaultFile()); err != nil {
			return err
		}
		return fmt.Errorf("%w: a default config has been generated at %s. "+
			"Please adjust as needed and then set 'default_generated: false'", ErrConfigGenerated, path)
	}
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var loaded map[string]any
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if loaded == nil {
		loaded = map[string]any{}
	}

	defaults, err := defaultMap()
	if err != nil {
		return err
	}

	if changed := fillMissing(loaded, defaults, ""); len(changed) > 0 {
		out, err := yaml.Marshal(loaded)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		if err := os.WriteFile(path, out, 0o600); err != nil {
			return fmt.Errorf("failed to write config %s: %w", path, err)
		}
		return &MissingFieldsError{Path: path, Fields: changed}
	}

	if generated, _ := loaded["default_generated"].(bool); generated {
		return fmt.Errorf("%w: the bot needs your token and channels. "+
			"Please adjust %s and then set 'default_generated: false'", ErrDefaultConfig, path)
	}
	return nil
}

func defaultMap() (map[string]any, error) {
	data, err := yaml.Marshal(DefaultFile())
	if err != nil {
		return nil, fmt.Errorf("failed to encode default config: %w", err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode default config: %w", err)
	}
	return m, nil
}

// fillMissing copies every key of defaults that is absent from loaded, or
// present with a different kind of value, and returns the dotted paths it set
func fillMissing(loaded, defaults map[string]any, prefix string) []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var changed []string
	for _, key := range keys {
		def := defaults[key]
		got, ok := loaded[key]
		if !ok || !sameKind(got, def) {
			loaded[key] = def
			changed = append(changed, prefix+key)
			continue
		}
		if sub, ok := def.(map[string]any); ok {
			changed = append(changed, fillMissing(got.(map[string]any), sub, prefix+key+".")...)
		}
	}
	return changed
}

func sameKind(a, b any) bool {
	switch b.(type) {
	case map[string]any:
		_, ok := a.(map[string]any)
		return ok
	case bool:
		_, ok := a.(bool)
		return ok
	case string:
		// numeric ids are fine where a string is expected
		switch a.(type) {
		case string, int, float64:
			return true
		}
		return false
	default:
		return true
	}
}
