package handler

import (
	"fmt"
	"html"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"dealsadmin/internal/domain/entity"
	"dealsadmin/internal/domain/service/review"
	"dealsadmin/pkg/logx"
)

const (
	startMessage = "👋 <b>Deals admin</b>\n\n" +
		"/pending - deals awaiting validation\n" +
		"/stats - deals per status"
	fetchFailedMessage = "❌ Failed to fetch deals"
	pendingPagePrefix  = "pending_page:"
	noopCallbackData   = "noop"
)

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, startMessage, nil)
}

func (h *Handler) OnPending(ctx *th.Context, msg telego.Message) error {
	deals, err := h.api.ListDeals(ctx, entity.StatusPendingValidation)
	if err != nil {
		logger(ctx).Error("api.ListDeals", logx.Error(err))

		return h.sendHTML(ctx, msg.Chat.ID, fetchFailedMessage, nil)
	}

	text, keyboard := pendingPage(deals, 1, h.pageSize)

	return h.sendHTML(ctx, msg.Chat.ID, text, keyboard)
}

func (h *Handler) OnStats(ctx *th.Context, msg telego.Message) error {
	deals, err := h.api.ListDeals(ctx, entity.StatusAll)
	if err != nil {
		logger(ctx).Error("api.ListDeals", logx.Error(err))

		return h.sendHTML(ctx, msg.Chat.ID, fetchFailedMessage, nil)
	}

	return h.sendHTML(ctx, msg.Chat.ID, statsText(deals), nil)
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string, keyboard *telego.InlineKeyboardMarkup) error {
	msg := tu.Message(tu.ID(chatID), text).WithParseMode(telego.ModeHTML)
	if keyboard != nil {
		msg = msg.WithReplyMarkup(keyboard)
	}

	if _, err := ctx.Bot().SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("bot.SendMessage: %w", err)
	}

	return nil
}

func statsText(deals []entity.Deal) string {
	counts := review.ComputeStatusCounts(deals)

	var sb strings.Builder

	fmt.Fprintf(&sb, "📊 <b>Deals</b>: %d\n\n", len(deals))

	for _, status := range entity.Statuses {
		fmt.Fprintf(&sb, "%s: %d\n", status.Label(), counts[status])
	}

	return sb.String()
}

// pendingPage renders one page of the queue. Out of range pages are clamped.
func pendingPage(deals []entity.Deal, page, pageSize int) (string, *telego.InlineKeyboardMarkup) {
	if len(deals) == 0 {
		return "✅ All caught up! No deals awaiting validation.", nil
	}

	totalPages := (len(deals) + pageSize - 1) / pageSize
	page = max(1, min(page, totalPages))

	start := (page - 1) * pageSize
	end := min(start+pageSize, len(deals))

	var sb strings.Builder

	fmt.Fprintf(&sb, "🕒 <b>Awaiting validation</b>: %d (page %d/%d)\n\n", len(deals), page, totalPages)

	for i, deal := range deals[start:end] {
		fmt.Fprintf(&sb, "%d. <b>%s</b>\n", start+i+1, html.EscapeString(deal.Title))
		fmt.Fprintf(&sb, "   %s %s → %s", html.EscapeString(deal.Currency), deal.OpPrice.String(), deal.AskingPrice.String())

		if percent, ok := deal.DiscountPercent(); ok {
			fmt.Fprintf(&sb, " (%.1f%%)", percent)
		}

		sb.WriteString("\n")

		if location := deal.LocationText(); location != "" {
			fmt.Fprintf(&sb, "   📍 %s\n", html.EscapeString(location))
		}
	}

	if totalPages == 1 {
		return sb.String(), nil
	}

	return sb.String(), paginationKeyboard(page, totalPages)
}

func paginationKeyboard(page, totalPages int) *telego.InlineKeyboardMarkup {
	var buttons []telego.InlineKeyboardButton

	if page > 1 {
		buttons = append(buttons, tu.InlineKeyboardButton("⬅️").
			WithCallbackData(fmt.Sprintf("%s%d", pendingPagePrefix, page-1)))
	}

	buttons = append(buttons, tu.InlineKeyboardButton(fmt.Sprintf("%d / %d", page, totalPages)).
		WithCallbackData(noopCallbackData))

	if page < totalPages {
		buttons = append(buttons, tu.InlineKeyboardButton("➡️").
			WithCallbackData(fmt.Sprintf("%s%d", pendingPagePrefix, page+1)))
	}

	return tu.InlineKeyboard(tu.InlineKeyboardRow(buttons...))
}
