package middleware

import (
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"dealsadmin/pkg/contextx"
	"dealsadmin/pkg/logx"
)

// ChatOnly drops updates that do not come from the operators' chat. Dropped
// callback queries are still answered so the button stops spinning.
func ChatOnly(chatID int64) th.Handler {
	return func(ctx *th.Context, update telego.Update) error {
		if id, ok := UpdateChatID(update); ok && id == chatID {
			return ctx.Next(update)
		}

		if update.CallbackQuery != nil {
			err := ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(update.CallbackQuery.ID))
			if err != nil {
				contextx.LoggerFromContextOrDefault(ctx).Debug("bot.AnswerCallbackQuery", logx.Error(err))
			}
		}

		return nil
	}
}

func UpdateChatID(update telego.Update) (int64, bool) {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID, true
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		return update.CallbackQuery.Message.GetChat().ID, true
	default:
		return 0, false
	}
}
