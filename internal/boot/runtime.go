// Package boot provides runtime configuration and dependency wiring for the relay.
package boot

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/memohai/telegraph-relay/internal/config"
)

// RuntimeConfig holds validated runtime settings (credentials, limits, addresses).
// Values may be overridden by environment variables (e.g. TELEGRAM_BOT_TOKEN, HTTP_ADDR).
type RuntimeConfig struct {
	TelegramBotToken     string
	TelegraphAccessToken string
	ServerAddr           string
	TempDir              string
	MaxFileBytes         int64
	DownloadTimeout      time.Duration
	UploadTimeout        time.Duration
}

// ProvideRuntimeConfig builds RuntimeConfig from the given config and applies env overrides.
// Missing credentials are a startup error.
func ProvideRuntimeConfig(cfg config.Config) (*RuntimeConfig, error) {
	ret := &RuntimeConfig{
		TelegramBotToken:     strings.TrimSpace(cfg.Telegram.BotToken),
		TelegraphAccessToken: strings.TrimSpace(cfg.Telegraph.AccessToken),
		ServerAddr:           cfg.Server.Addr,
		TempDir:              cfg.Storage.TempDir,
		MaxFileBytes:         cfg.Limits.MaxFileBytes,
	}

	if value := strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")); value != "" {
		ret.TelegramBotToken = value
	}
	if value := strings.TrimSpace(os.Getenv("TELEGRAPH_ACCESS_TOKEN")); value != "" {
		ret.TelegraphAccessToken = value
	}
	if value := os.Getenv("HTTP_ADDR"); value != "" {
		ret.ServerAddr = value
	}
	if value := os.Getenv("TEMP_DIR"); value != "" {
		ret.TempDir = value
	}

	var missing []string
	if ret.TelegramBotToken == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}
	if ret.TelegraphAccessToken == "" {
		missing = append(missing, "TELEGRAPH_ACCESS_TOKEN")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required credentials: %s", strings.Join(missing, ", "))
	}

	if ret.MaxFileBytes < 0 {
		return nil, errors.New("max file bytes must not be negative")
	}
	if strings.TrimSpace(ret.TempDir) == "" {
		ret.TempDir = config.DefaultTempDir
	}

	var err error
	if ret.DownloadTimeout, err = parseTimeout(cfg.Limits.DownloadTimeout); err != nil {
		return nil, fmt.Errorf("invalid download timeout: %w", err)
	}
	if ret.UploadTimeout, err = parseTimeout(cfg.Limits.UploadTimeout); err != nil {
		return nil, fmt.Errorf("invalid upload timeout: %w", err)
	}
	return ret, nil
}

// parseTimeout treats an empty value as "no timeout".
func parseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, errors.New("timeout must not be negative")
	}
	return d, nil
}
