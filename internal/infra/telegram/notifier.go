package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quote_delivery_engine/internal/domain/quote"
	"quote_delivery_engine/internal/domain/schedule"
	domainTelegram "quote_delivery_engine/internal/domain/telegram"

	"gopkg.in/telebot.v3"
)

// QuoteNotifier is the notification delivery surface: it formats the
// chosen quote and pushes it to the configured chat.
type QuoteNotifier struct {
	client domainTelegram.Client
	chatID int64
}

func NewQuoteNotifier(client domainTelegram.Client, chatID int64) *QuoteNotifier {
	return &QuoteNotifier{client: client, chatID: chatID}
}

// Deliver sends the quote as a plain-text message.
func (n *QuoteNotifier) Deliver(_ context.Context, _ *schedule.Schedule, q *quote.Quote, _ time.Time) error {
	var b strings.Builder
	b.WriteString(q.Content)
	if q.Author != "" {
		b.WriteString(fmt.Sprintf("\n\n— %s", q.Author))
	}
	return n.client.SendMessage(n.chatID, b.String(), &telebot.SendOptions{ParseMode: telebot.ModeDefault})
}
