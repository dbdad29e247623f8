package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"dealsadmin/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, chatID int64) {
	messages := bh.Group(th.AnyMessage())
	messages.Use(middleware.ChatOnly(chatID))

	messages.HandleMessage(h.OnStart, th.CommandEqual("start"))
	messages.HandleMessage(h.OnPending, th.CommandEqual("pending"))
	messages.HandleMessage(h.OnStats, th.CommandEqual("stats"))

	callbacks := bh.Group(th.AnyCallbackQuery())
	callbacks.Use(middleware.ChatOnly(chatID))

	callbacks.HandleCallbackQuery(h.OnPendingCallback, th.CallbackDataPrefix(pendingPagePrefix))
	callbacks.HandleCallbackQuery(h.OnNoopCallback, th.CallbackDataEqual(noopCallbackData))
}
