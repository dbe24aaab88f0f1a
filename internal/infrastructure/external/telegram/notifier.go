package telegram

import (
	"context"
	"log/slog"
)

// Sender is the part of the Bot API the notifier needs.
type Sender interface {
	SendText(ctx context.Context, chatID string, text string) (*Message, error)
}

// Notifier delivers text to a single configured chat, best-effort:
// a failed delivery is logged and dropped, never returned or retried.
type Notifier struct {
	sender Sender
	chatID string
	logger *slog.Logger
}

// NewNotifier creates a notifier bound to chatID.
func NewNotifier(sender Sender, chatID string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		sender: sender,
		chatID: chatID,
		logger: logger,
	}
}

// Notify sends the message and reports whether it was delivered.
func (n *Notifier) Notify(ctx context.Context, text string) bool {
	msg, err := n.sender.SendText(ctx, n.chatID, text)
	if err != nil {
		n.logger.Error("failed to send telegram message",
			"chat_id", n.chatID,
			"error", err,
		)
		return false
	}

	n.logger.Debug("telegram message sent",
		"chat_id", n.chatID,
		"message_id", msg.MessageID,
	)
	return true
}
