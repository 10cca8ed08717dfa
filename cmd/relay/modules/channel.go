package modules

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/memohai/telegraph-relay/internal/boot"
	"github.com/memohai/telegraph-relay/internal/channel/telegram"
	"github.com/memohai/telegraph-relay/internal/config"
	"github.com/memohai/telegraph-relay/internal/relay"
)

var ChannelModule = fx.Module(
	"channel",
	fx.Provide(provideBot),
	fx.Invoke(startBot),
)

func provideBot(log *slog.Logger, cfg config.Config, rc *boot.RuntimeConfig) (*telegram.Bot, error) {
	return telegram.New(log, telegram.Options{
		Token:              rc.TelegramBotToken,
		PollTimeoutSeconds: cfg.Telegram.PollTimeoutSeconds,
		RatePerSecond:      cfg.Telegram.APIRatePerSecond,
	})
}

func startBot(lc fx.Lifecycle, log *slog.Logger, bot *telegram.Bot, service *relay.Service) {
	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				bot.Run(runCtx, service)
			}()
			log.Info("bot polling started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}
