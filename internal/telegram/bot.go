package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Bot wraps the telegram bot for outbound notifications
type Bot struct {
	bot *bot.Bot
	log *slog.Logger
}

// New creates a new telegram bot
func New(token string, log *slog.Logger) (*Bot, error) {
	tgBot, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &Bot{bot: tgBot, log: log}, nil
}

// SendNotification sends a Markdown message to a chat. The chat ID is the
// webhook caller's user_id, passed through as-is.
func (b *Bot) SendNotification(ctx context.Context, chatID string, text string) error {
	disablePreview := true
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdownV1,
		LinkPreviewOptions: &models.LinkPreviewOptions{
			IsDisabled: &disablePreview,
		},
	}

	_, err := b.bot.SendMessage(ctx, params)
	return err
}
