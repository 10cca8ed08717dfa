package telegram

import (
	"fmt"
	"log/slog"
	"strings"
)

// slogBotLogger adapts slog.Logger to tgbotapi.BotLogger so library logs go through slog.
// The library logs raw request errors, which embed the bot token in the URL.
type slogBotLogger struct {
	log   *slog.Logger
	token string
}

func (s *slogBotLogger) Println(v ...any) {
	s.log.Warn(redactToken(fmt.Sprint(v...), s.token))
}

func (s *slogBotLogger) Printf(format string, v ...any) {
	s.log.Warn(redactToken(fmt.Sprintf(format, v...), s.token))
}

func redactToken(text, token string) string {
	if token == "" {
		return text
	}
	return strings.ReplaceAll(text, token, "***")
}

// redactedError hides the bot token from an error's text while keeping the chain.
type redactedError struct {
	err   error
	token string
}

func (e *redactedError) Error() string { return redactToken(e.err.Error(), e.token) }

func (e *redactedError) Unwrap() error { return e.err }

func redactErr(err error, token string) error {
	if err == nil || token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return &redactedError{err: err, token: token}
}
