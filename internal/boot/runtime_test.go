package boot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memohai/telegraph-relay/internal/config"
)

func TestProvideRuntimeConfigRequiresCredentials(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAPH_ACCESS_TOKEN", "")

	_, err := ProvideRuntimeConfig(config.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")
	assert.Contains(t, err.Error(), "TELEGRAPH_ACCESS_TOKEN")
}

func TestProvideRuntimeConfigEnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-bot")
	t.Setenv("TELEGRAPH_ACCESS_TOKEN", "env-graph")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("TEMP_DIR", "/tmp/relay")

	cfg := config.Default()
	cfg.Telegram.BotToken = "file-bot"

	rc, err := ProvideRuntimeConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "env-bot", rc.TelegramBotToken)
	assert.Equal(t, "env-graph", rc.TelegraphAccessToken)
	assert.Equal(t, ":9090", rc.ServerAddr)
	assert.Equal(t, "/tmp/relay", rc.TempDir)
	assert.Equal(t, 5*time.Minute, rc.DownloadTimeout)
	assert.Equal(t, 2*time.Minute, rc.UploadTimeout)
	assert.Equal(t, int64(config.DefaultMaxFileBytes), rc.MaxFileBytes)
}

func TestProvideRuntimeConfigRejectsBadTimeout(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "bot")
	t.Setenv("TELEGRAPH_ACCESS_TOKEN", "graph")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("TEMP_DIR", "")

	cfg := config.Default()
	cfg.Limits.UploadTimeout = "soon"

	_, err := ProvideRuntimeConfig(cfg)
	assert.ErrorContains(t, err, "upload timeout")
}

func TestParseTimeoutEmptyDisables(t *testing.T) {
	t.Parallel()

	d, err := parseTimeout("  ")
	require.NoError(t, err)
	assert.Zero(t, d)
}
