// Package config loads and exposes application configuration (TOML).
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath         = "config.toml"
	DefaultHTTPAddr           = ":8080"
	DefaultTempDir            = "temp"
	DefaultPollTimeoutSeconds = 30
	DefaultAPIRatePerSecond   = 25
	DefaultTelegraphAPIURL    = "https://api.telegra.ph"
	DefaultTelegraphUploadURL = "https://telegra.ph"
	DefaultAuthorName         = "Telegraph Bot"
	DefaultShortName          = "TelegraphBot"
	DefaultMaxFileBytes       = 20 * 1024 * 1024
	DefaultDownloadTimeout    = "5m"
	DefaultUploadTimeout      = "2m"
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log       LogConfig       `toml:"log"`
	Server    ServerConfig    `toml:"server"`
	Telegram  TelegramConfig  `toml:"telegram"`
	Telegraph TelegraphConfig `toml:"telegraph"`
	Storage   StorageConfig   `toml:"storage"`
	Limits    LimitsConfig    `toml:"limits"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
// Dir enables combined.log and error.log files.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Dir    string `toml:"dir"`
}

// ServerConfig holds the HTTP listen address for health and metrics.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// TelegramConfig holds the bot credential and polling options.
type TelegramConfig struct {
	BotToken           string  `toml:"bot_token"`
	PollTimeoutSeconds int     `toml:"poll_timeout_seconds"`
	APIRatePerSecond   float64 `toml:"api_rate_per_second"`
}

// TelegraphConfig holds the hosting credential, endpoints, and page author labels.
type TelegraphConfig struct {
	AccessToken string `toml:"access_token"`
	APIURL      string `toml:"api_url"`
	UploadURL   string `toml:"upload_url"`
	AuthorName  string `toml:"author_name"`
	AuthorURL   string `toml:"author_url"`
	ShortName   string `toml:"short_name"`
}

// StorageConfig holds the local staging directory for downloads.
type StorageConfig struct {
	TempDir string `toml:"temp_dir"`
}

// LimitsConfig bounds transfers. MaxFileBytes of 0 disables the size cap.
type LimitsConfig struct {
	MaxFileBytes    int64  `toml:"max_file_bytes"`
	DownloadTimeout string `toml:"download_timeout"`
	UploadTimeout   string `toml:"upload_timeout"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Telegram: TelegramConfig{
			PollTimeoutSeconds: DefaultPollTimeoutSeconds,
			APIRatePerSecond:   DefaultAPIRatePerSecond,
		},
		Telegraph: TelegraphConfig{
			APIURL:     DefaultTelegraphAPIURL,
			UploadURL:  DefaultTelegraphUploadURL,
			AuthorName: DefaultAuthorName,
			ShortName:  DefaultShortName,
		},
		Storage: StorageConfig{
			TempDir: DefaultTempDir,
		},
		Limits: LimitsConfig{
			MaxFileBytes:    DefaultMaxFileBytes,
			DownloadTimeout: DefaultDownloadTimeout,
			UploadTimeout:   DefaultUploadTimeout,
		},
	}
}

// Load reads and parses the TOML config file at path and applies default values for missing fields.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
