package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[log]
level = "debug"
dir = "logs"

[telegram]
bot_token = "123:abc"

[telegraph]
access_token = "tg-token"
author_name = "Relay"

[limits]
max_file_bytes = 1024
download_timeout = "30s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "logs", cfg.Log.Dir)
	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, DefaultPollTimeoutSeconds, cfg.Telegram.PollTimeoutSeconds)
	assert.Equal(t, "tg-token", cfg.Telegraph.AccessToken)
	assert.Equal(t, "Relay", cfg.Telegraph.AuthorName)
	assert.Equal(t, DefaultTelegraphUploadURL, cfg.Telegraph.UploadURL)
	assert.Equal(t, int64(1024), cfg.Limits.MaxFileBytes)
	assert.Equal(t, "30s", cfg.Limits.DownloadTimeout)
	assert.Equal(t, DefaultUploadTimeout, cfg.Limits.UploadTimeout)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log\nlevel = "), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestExampleConfigMatchesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join("..", "..", "config.example.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
