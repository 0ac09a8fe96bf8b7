package telegram

import (
	"context"
	"fmt"
	"strings"

	"go-loyalty/modules/notification/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// notifier adapts the Telegram Bot API to the messaging boundary. Recipient
// ids are Telegram chat ids.
type notifier struct {
	bot *tgbotapi.BotAPI
}

func NewNotifier(token string) (service.Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	return &notifier{bot: bot}, nil
}

func (n *notifier) SendText(_ context.Context, recipient int64, text string) error {
	msg := tgbotapi.NewMessage(recipient, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := n.bot.Send(msg); err != nil {
		return classify(err)
	}
	return nil
}

func (n *notifier) SendImage(_ context.Context, recipient int64, image []byte, caption string) (int64, error) {
	photo := tgbotapi.NewPhoto(recipient, tgbotapi.FileBytes{Name: "image.png", Bytes: image})
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeHTML
	sent, err := n.bot.Send(photo)
	if err != nil {
		return 0, classify(err)
	}
	return int64(sent.MessageID), nil
}

func (n *notifier) DeleteMessage(_ context.Context, recipient int64, messageID int64) error {
	if _, err := n.bot.Request(tgbotapi.NewDeleteMessage(recipient, int(messageID))); err != nil {
		return classify(err)
	}
	return nil
}

// classify splits permanent recipient failures from everything else, matching
// the API's error strings.
func classify(err error) error {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"bot was blocked by the user",
		"user is deactivated",
		"chat not found",
		"user not found",
	} {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %v", service.ErrRecipientUnreachable, err)
		}
	}
	return err
}
