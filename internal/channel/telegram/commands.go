package telegram

import (
	"fmt"

	"github.com/memohai/telegraph-relay/internal/version"
)

const (
	startText = "Welcome to the Media to Telegraph Link Converter Bot!\n\n" +
		"Send me any photo, video, or document and I will convert it to a Telegraph link for you.\n\n" +
		"Use /help for more information."
	helpText = "How to use this bot:\n\n" +
		"1. Simply send any photo, video, or document to the bot\n" +
		"2. The bot will upload it to Telegraph and send you the link\n" +
		"3. You can share this link with anyone\n\n" +
		"Available commands:\n" +
		"/start - Start the bot\n" +
		"/help - Show this help message\n" +
		"/about - Information about the bot"
	aboutText = "Media to Telegraph Link Converter Bot\n\n" +
		"This bot helps you convert media files to Telegraph links for easy sharing.\n\n" +
		"Version: %s"
)

// commandReply returns the static reply for a bot command, or false for unknown commands.
func commandReply(command string) (string, bool) {
	switch command {
	case "start":
		return startText, true
	case "help":
		return helpText, true
	case "about":
		return fmt.Sprintf(aboutText, version.GetInfo()), true
	default:
		return "", false
	}
}
