package service

import (
	"context"
	"errors"
	"fmt"

	"go-loyalty/util/logger"
)

// ErrRecipientUnreachable marks a permanent delivery failure: the recipient
// blocked the bot, was deactivated, or the chat no longer exists. Callers must
// not retry these.
var ErrRecipientUnreachable = errors.New("recipient unreachable")

// Notifier is the messaging boundary. Every call is fallible and is never
// retried automatically by this core.
type Notifier interface {
	SendText(ctx context.Context, recipient int64, text string) error
	SendImage(ctx context.Context, recipient int64, image []byte, caption string) (messageID int64, err error)
	DeleteMessage(ctx context.Context, recipient int64, messageID int64) error
}

// NewNoopNotifier returns a Notifier that only logs. Used when no messaging
// credentials are configured, e.g. in local development.
func NewNoopNotifier() Notifier {
	return &noopNotifier{}
}

type noopNotifier struct{}

func (n *noopNotifier) SendText(_ context.Context, recipient int64, text string) error {
	logger.Log.Debug(fmt.Sprintf("noop notifier: text to %d: %s", recipient, text))
	return nil
}

func (n *noopNotifier) SendImage(_ context.Context, recipient int64, _ []byte, caption string) (int64, error) {
	logger.Log.Debug(fmt.Sprintf("noop notifier: image to %d: %s", recipient, caption))
	return 0, nil
}

func (n *noopNotifier) DeleteMessage(_ context.Context, recipient int64, messageID int64) error {
	logger.Log.Debug(fmt.Sprintf("noop notifier: delete message %d for %d", messageID, recipient))
	return nil
}
