package handler

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"dealsadmin/internal/domain/entity"
	"dealsadmin/pkg/logx"
)

// OnPendingCallback switches the queue message to another page.
func (h *Handler) OnPendingCallback(ctx *th.Context, query telego.CallbackQuery) error {
	if query.Message == nil {
		return answer(ctx, query)
	}

	page := parsePage(query.Data)

	deals, err := h.api.ListDeals(ctx, entity.StatusPendingValidation)
	if err != nil {
		logger(ctx).Error("api.ListDeals", logx.Error(err))

		alert := tu.CallbackQuery(query.ID).WithText(fetchFailedMessage).WithShowAlert()
		if err := ctx.Bot().AnswerCallbackQuery(ctx, alert); err != nil {
			logger(ctx).Debug("bot.AnswerCallbackQuery", logx.Error(err))
		}

		return nil
	}

	text, keyboard := pendingPage(deals, page, h.pageSize)

	_, err = ctx.Bot().EditMessageText(ctx, &telego.EditMessageTextParams{
		//nolint:exhaustruct
		ChatID:      tu.ID(query.Message.GetChat().ID),
		MessageID:   query.Message.GetMessageID(),
		Text:        text,
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		// Telegram refuses edits that change nothing.
		logger(ctx).Debug("bot.EditMessageText", slog.Int("page", page), logx.Error(err))
	}

	return answer(ctx, query)
}

// OnNoopCallback acknowledges the page counter button so the client stops
// showing its loading state.
func (h *Handler) OnNoopCallback(ctx *th.Context, query telego.CallbackQuery) error {
	return answer(ctx, query)
}

func answer(ctx *th.Context, query telego.CallbackQuery) error {
	if err := ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID)); err != nil {
		return fmt.Errorf("bot.AnswerCallbackQuery: %w", err)
	}

	return nil
}

func parsePage(data string) int {
	page, err := strconv.Atoi(strings.TrimPrefix(data, pendingPagePrefix))
	if err != nil || page < 1 {
		return 1
	}

	return page
}
