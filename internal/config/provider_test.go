package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pithos-gov/pithos/internal/domain/config"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestEnsureConfigFile(t *testing.T) {
	t.Run("missing file is generated", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")

		err := EnsureConfigFile(path)
		assert.ErrorIs(t, err, ErrConfigGenerated)
		assert.Contains(t, err.Error(), "default_generated: false")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var f File
		require.NoError(t, yaml.Unmarshal(data, &f))
		assert.Equal(t, *DefaultFile(), f)

		// second run stops at the default guard
		assert.ErrorIs(t, EnsureConfigFile(path), ErrDefaultConfig)
	})

	t.Run("missing fields are filled and listed", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), `
default_generated: false
chat:
  token: secret
  command_prefix: "?"
storage: not-a-map
`)

		err := EnsureConfigFile(path)
		var missing *MissingFieldsError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{
			"accept_delegates_default",
			"chat.archive_channel_id",
			"chat.client_id",
			"chat.motion_channel_id",
			"chat.server_id",
			"log_level",
			"metrics",
			"storage",
			"sweep_interval",
		}, missing.Fields)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var f File
		require.NoError(t, yaml.Unmarshal(data, &f))
		assert.Equal(t, "secret", f.Chat.Token)
		assert.Equal(t, "?", f.Chat.CommandPrefix)
		assert.Equal(t, config.StorageSQLite, f.Storage.Driver)

		assert.NoError(t, EnsureConfigFile(path))
	})

	t.Run("numeric ids are accepted", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), `
default_generated: false
chat:
  token: secret
  server_id: 12345
  client_id: 67890
  command_prefix: "!"
  motion_channel_id: 1001
  archive_channel_id: 1002
storage:
  driver: sqlite
  path: pithos.db
metrics:
  listen: ""
sweep_interval: 1m
log_level: info
accept_delegates_default: true
`)
		assert.NoError(t, EnsureConfigFile(path))
	})
}

func TestProvider(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
default_generated: false
chat:
  token: secret
  command_prefix: "!"
  motion_channel_id: 42
  archive_channel_id: archive
storage:
  driver: MEMORY
sweep_interval: 30s
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PITHOS_LOG_LEVEL=debug\n"), 0o600))
	t.Setenv("PITHOS_CHAT_TOKEN", "from-env")
	// restored after the test, the .env file sets it
	t.Setenv("PITHOS_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("PITHOS_LOG_LEVEL"))

	cfg, err := Provider(SetupViper(path))
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigPath)
	assert.Equal(t, "from-env", cfg.Chat.Token)
	assert.Equal(t, "42", cfg.Chat.MotionChannelID)
	assert.Equal(t, config.StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 30*time.Second, cfg.SweepInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.AcceptDelegatesDefault)
}

func TestProvider_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "unknown driver",
			body: "storage:\n  driver: postgres\n",
			want: "unknown storage.driver",
		},
		{
			name: "empty prefix",
			body: "chat:\n  command_prefix: \" \"\n",
			want: "command_prefix",
		},
		{
			name: "sqlite without path",
			body: "storage:\n  driver: sqlite\n  path: \"\"\n",
			want: "storage.path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Provider(SetupViper(path))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
