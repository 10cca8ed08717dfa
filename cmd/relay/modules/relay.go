package modules

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/memohai/telegraph-relay/internal/boot"
	"github.com/memohai/telegraph-relay/internal/channel/telegram"
	"github.com/memohai/telegraph-relay/internal/config"
	"github.com/memohai/telegraph-relay/internal/fetch"
	"github.com/memohai/telegraph-relay/internal/metrics"
	"github.com/memohai/telegraph-relay/internal/publish"
	"github.com/memohai/telegraph-relay/internal/relay"
	"github.com/memohai/telegraph-relay/internal/storage"
	"github.com/memohai/telegraph-relay/internal/telegraph"
)

var RelayModule = fx.Module(
	"relay",
	fx.Provide(
		provideTelegraphClient,
		provideFetcher,
		providePublisher,
		provideRelayService,
	),
)

func provideTelegraphClient(log *slog.Logger, cfg config.Config, rc *boot.RuntimeConfig) *telegraph.Client {
	return telegraph.NewClient(log, telegraph.Options{
		APIURL:      cfg.Telegraph.APIURL,
		UploadURL:   cfg.Telegraph.UploadURL,
		AccessToken: rc.TelegraphAccessToken,
	})
}

func provideFetcher(log *slog.Logger, store storage.Provider, rc *boot.RuntimeConfig) *fetch.Fetcher {
	return fetch.NewFetcher(log, store, fetch.Options{MaxBytes: rc.MaxFileBytes})
}

func providePublisher(log *slog.Logger, client *telegraph.Client, store storage.Provider, cfg config.Config) *publish.Publisher {
	return publish.NewPublisher(log, client, store, publish.Options{
		AuthorName: cfg.Telegraph.AuthorName,
		AuthorURL:  cfg.Telegraph.AuthorURL,
	})
}

func provideRelayService(log *slog.Logger, bot *telegram.Bot, fetcher *fetch.Fetcher, publisher *publish.Publisher, m *metrics.Metrics, rc *boot.RuntimeConfig) *relay.Service {
	return relay.NewService(log, bot, fetcher, publisher, m, relay.Options{
		DownloadTimeout: rc.DownloadTimeout,
		UploadTimeout:   rc.UploadTimeout,
	})
}
