// Package telegram connects the relay to the Telegram Bot API: it long-polls
// updates, answers commands, and hands media to the relay pipeline.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/memohai/telegraph-relay/internal/logger"
	"github.com/memohai/telegraph-relay/internal/media"
	"github.com/memohai/telegraph-relay/internal/relay"
)

const defaultPollTimeout = 30

// botAPI is the subset of *tgbotapi.BotAPI the bot uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// MediaHandler processes one inbound attachment.
type MediaHandler interface {
	Handle(ctx context.Context, att media.Attachment, conv relay.Conversation)
}

// Options configures the bot connection.
type Options struct {
	Token string
	// PollTimeoutSeconds is the long-poll timeout passed to getUpdates.
	PollTimeoutSeconds int
	// RatePerSecond throttles outbound Bot API calls. Zero or less disables throttling.
	RatePerSecond float64
}

// Bot is a long-polling Telegram bot.
type Bot struct {
	api         botAPI
	token       string
	limiter     *rate.Limiter
	pollTimeout int
	logger      *slog.Logger
}

var setLoggerOnce sync.Once

// New connects to the Bot API with opts.Token.
func New(log *slog.Logger, opts Options) (*Bot, error) {
	if log == nil {
		log = slog.Default()
	}
	token := strings.TrimSpace(opts.Token)
	if token == "" {
		return nil, errors.New("telegram bot token is required")
	}
	setLoggerOnce.Do(func() {
		_ = tgbotapi.SetLogger(&slogBotLogger{log: log.With(slog.String("adapter", "telegram")), token: token})
	})
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", redactErr(err, token))
	}
	bot := newBot(log, api, opts)
	bot.logger.Info("authorized", slog.String("username", api.Self.UserName))
	return bot, nil
}

func newBot(log *slog.Logger, api botAPI, opts Options) *Bot {
	if log == nil {
		log = slog.Default()
	}
	limit := rate.Inf
	burst := 1
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
		burst = max(1, int(opts.RatePerSecond))
	}
	pollTimeout := opts.PollTimeoutSeconds
	if pollTimeout <= 0 {
		pollTimeout = defaultPollTimeout
	}
	return &Bot{
		api:         api,
		token:       strings.TrimSpace(opts.Token),
		limiter:     rate.NewLimiter(limit, burst),
		pollTimeout: pollTimeout,
		logger:      log.With(slog.String("adapter", "telegram")),
	}
}

// ResolveFileURL returns the direct download URL for a file id. The URL embeds the bot token.
func (b *Bot) ResolveFileURL(ctx context.Context, fileID string) (string, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return "", err
	}
	link, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", redactErr(err, b.token)
	}
	return link, nil
}

// Run polls updates until ctx is cancelled, then waits for in-flight handlers.
// Each update is handled on its own goroutine.
func (b *Bot) Run(ctx context.Context, handler MediaHandler) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(cfg)

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("stop")
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				b.logger.Info("updates channel closed")
				return
			}
			if update.Message == nil || update.Message.Chat == nil {
				continue
			}
			msg := update.Message
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.dispatch(ctx, msg, handler)
			}()
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, msg *tgbotapi.Message, handler MediaHandler) {
	log := b.logger.With(slog.Int64("chat_id", msg.Chat.ID))
	if msg.From != nil {
		log = log.With(slog.String("user", senderName(msg.From)))
	}
	ctx = logger.WithContext(ctx, log)
	conv := &chatConversation{bot: b, chatID: msg.Chat.ID}

	if msg.IsCommand() {
		reply, ok := commandReply(msg.Command())
		if !ok {
			return
		}
		log.Info("command received", slog.String("command", msg.Command()))
		if _, err := conv.Send(ctx, reply); err != nil {
			log.Error("command reply failed", slog.Any("error", err))
		}
		return
	}

	att, ok := attachmentFromMessage(msg)
	if !ok {
		return
	}
	log.Info("inbound media", slog.String("kind", string(att.Kind)), slog.String("file", att.FileName), slog.Int64("size", att.Size))
	handler.Handle(ctx, att, conv)
}

func senderName(user *tgbotapi.User) string {
	if name := strings.TrimSpace(user.UserName); name != "" {
		return name
	}
	return strconv.FormatInt(user.ID, 10)
}

// attachmentFromMessage extracts the first supported media item: photo, then video, then document.
func attachmentFromMessage(msg *tgbotapi.Message) (media.Attachment, bool) {
	if msg == nil {
		return media.Attachment{}, false
	}
	switch {
	case len(msg.Photo) > 0:
		photo := pickTelegramPhoto(msg.Photo)
		return media.Attachment{
			Kind:     media.KindPhoto,
			FileID:   photo.FileID,
			FileName: media.DefaultFileName(media.KindPhoto, ""),
			Size:     int64(photo.FileSize),
		}, true
	case msg.Video != nil:
		return media.Attachment{
			Kind:     media.KindVideo,
			FileID:   msg.Video.FileID,
			FileName: media.DefaultFileName(media.KindVideo, msg.Video.FileName),
			Size:     int64(msg.Video.FileSize),
		}, true
	case msg.Document != nil:
		return media.Attachment{
			Kind:     media.KindDocument,
			FileID:   msg.Document.FileID,
			FileName: media.DefaultFileName(media.KindDocument, msg.Document.FileName),
			Size:     int64(msg.Document.FileSize),
		}, true
	default:
		return media.Attachment{}, false
	}
}

func pickTelegramPhoto(items []tgbotapi.PhotoSize) tgbotapi.PhotoSize {
	if len(items) == 0 {
		return tgbotapi.PhotoSize{}
	}
	best := items[0]
	for _, item := range items[1:] {
		if item.FileSize > best.FileSize {
			best = item
			continue
		}
		if item.Width*item.Height > best.Width*best.Height {
			best = item
		}
	}
	return best
}

// chatConversation reports status into one Telegram chat.
type chatConversation struct {
	bot    *Bot
	chatID int64
}

func (c *chatConversation) Send(ctx context.Context, text string) (relay.MessageRef, error) {
	if err := c.bot.limiter.Wait(ctx); err != nil {
		return relay.MessageRef{}, err
	}
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.DisableWebPagePreview = true
	sent, err := c.bot.api.Send(msg)
	if err != nil {
		return relay.MessageRef{}, redactErr(err, c.bot.token)
	}
	return relay.MessageRef{ChatID: c.chatID, MessageID: sent.MessageID}, nil
}

func (c *chatConversation) Edit(ctx context.Context, ref relay.MessageRef, text string, preview bool) error {
	if err := c.bot.limiter.Wait(ctx); err != nil {
		return err
	}
	edit := tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, text)
	edit.DisableWebPagePreview = !preview
	_, err := c.bot.api.Send(edit)
	if err != nil && isTelegramMessageNotModified(err) {
		return nil
	}
	return redactErr(err, c.bot.token)
}

func isTelegramMessageNotModified(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 400 && strings.Contains(apiErr.Message, "message is not modified")
	}
	var apiErrValue tgbotapi.Error
	if errors.As(err, &apiErrValue) {
		return apiErrValue.Code == 400 && strings.Contains(apiErrValue.Message, "message is not modified")
	}
	return false
}
