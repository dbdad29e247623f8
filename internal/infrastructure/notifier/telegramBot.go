package notifier

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"dealsadmin/internal/domain/entity"
	"dealsadmin/pkg/logx"
)

type messageSender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// TelegramBot posts deal events to an operators' chat.
type TelegramBot struct {
	bot    messageSender
	chatID int64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("telego.NewBot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Run sends events from the channel until it is closed or ctx is done.
// A failed send is logged and the next event is processed.
func (b *TelegramBot) Run(ctx context.Context, events <-chan entity.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err() //nolint:wrapcheck
		case event, ok := <-events:
			if !ok {
				return nil
			}

			if err := b.SendEvent(ctx, event); err != nil {
				logger(ctx).Error(
					"bot.SendEvent",
					slog.String(logx.FieldDealID, event.Deal.ID.String()),
					logx.Error(err),
				)
			}
		}
	}
}

func (b *TelegramBot) SendEvent(ctx context.Context, event entity.Event) error {
	msg := tu.Message(
		tu.ID(b.chatID),
		formatEvent(event),
	).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("bot.SendMessage: %w", err)
	}

	return nil
}

// SendText sends a plain text message.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	if _, err := b.bot.SendMessage(ctx, tu.Message(tu.ID(b.chatID), text)); err != nil {
		return fmt.Errorf("bot.SendMessage: %w", err)
	}

	return nil
}

func formatEvent(event entity.Event) string {
	deal := event.Deal

	var sb strings.Builder

	switch event.Kind {
	case entity.EventDealPending:
		sb.WriteString("🕒 <b>New deal awaiting validation</b>\n\n")
	case entity.EventDealApproved:
		sb.WriteString("✅ <b>Deal approved</b>\n\n")
	case entity.EventDealRejected:
		sb.WriteString("❌ <b>Deal rejected</b>\n\n")
	default:
		fmt.Fprintf(&sb, "<b>%s</b>\n\n", html.EscapeString(string(event.Kind)))
	}

	title := deal.Title
	if title == "" {
		title = deal.ID.String()
	}

	fmt.Fprintf(&sb, "🏠 <b>%s</b>\n", html.EscapeString(title))
	fmt.Fprintf(&sb, "💰 Off-plan: %s %s\n", html.EscapeString(deal.Currency), deal.OpPrice.String())
	fmt.Fprintf(&sb, "🏷 Asking: %s %s\n", html.EscapeString(deal.Currency), deal.AskingPrice.String())

	if percent, ok := deal.DiscountPercent(); ok {
		fmt.Fprintf(&sb, "📉 Discount: %.1f%%\n", percent)
	}

	if location := deal.LocationText(); location != "" {
		fmt.Fprintf(&sb, "📍 %s\n", html.EscapeString(location))
	}

	if event.Operator != "" {
		fmt.Fprintf(&sb, "\n👤 %s", html.EscapeString(event.Operator))
	}

	return sb.String()
}
