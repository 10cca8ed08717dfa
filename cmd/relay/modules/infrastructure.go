package modules

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"

	"github.com/memohai/telegraph-relay/internal/boot"
	"github.com/memohai/telegraph-relay/internal/config"
	"github.com/memohai/telegraph-relay/internal/logger"
	"github.com/memohai/telegraph-relay/internal/metrics"
	"github.com/memohai/telegraph-relay/internal/storage"
	"github.com/memohai/telegraph-relay/internal/storage/localfs"
)

// ConfigPath is the config file chosen on the command line; empty falls back to CONFIG_PATH.
type ConfigPath string

var InfraModule = fx.Module(
	"infra",
	fx.Provide(
		provideConfig,
		provideLogger,
		boot.ProvideRuntimeConfig,
		provideRegistry,
		metrics.MustNewMetrics,
		fx.Annotate(provideStorage, fx.As(new(storage.Provider))),
	),
)

// ---------------------------------------------------------------------------
// infrastructure providers
// ---------------------------------------------------------------------------

// LoadConfig reads .env (without overriding the real environment) and then the TOML config.
func LoadConfig(path string) (config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.Config{}, fmt.Errorf("load .env: %w", err)
	}
	if strings.TrimSpace(path) == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideConfig(path ConfigPath) (config.Config, error) {
	return LoadConfig(string(path))
}

func provideLogger(lc fx.Lifecycle, cfg config.Config) (*slog.Logger, error) {
	closer, err := logger.Setup(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Dir:    cfg.Log.Dir,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return closer.Close()
		},
	})
	return logger.L, nil
}

func provideRegistry() (*prometheus.Registry, prometheus.Registerer) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, reg
}

func provideStorage(log *slog.Logger, rc *boot.RuntimeConfig) (*localfs.Provider, error) {
	provider, err := localfs.New(rc.TempDir)
	if err != nil {
		return nil, fmt.Errorf("init staging dir: %w", err)
	}
	log.Info("staging dir ready", slog.String("dir", provider.Root()))
	return provider, nil
}
