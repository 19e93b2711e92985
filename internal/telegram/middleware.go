package telegram

import (
	"context"

	"github.com/go-telegram/bot"
	botModels "github.com/go-telegram/bot/models"

	"tracker_bot/internal/locales"
	"tracker_bot/internal/logger"
)

// asyncHandler 把 handler 包装为经工作池异步执行
func (b *Bot) asyncHandler(handler bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
		b.workerPool.Submit(HandlerTask{
			Ctx:         ctx,
			BotInstance: botInstance,
			Update:      update,
			Handler:     handler,
		})
	}
}

// RequireOwner 中间件：仅允许 Owner 执行
func (b *Bot) RequireOwner(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}

		userID := update.Message.From.ID
		user, err := b.userService.GetUserInfo(ctx, userID)
		if err != nil || user == nil || !user.IsOwner() {
			logger.WithUser(userID).Warn("non-owner attempted to use owner command")
			lang := b.userService.GetLanguage(ctx, userID)
			b.sendMessage(ctx, update.Message.Chat.ID, locales.Get(lang, "generic_error"))
			return
		}

		next(ctx, botInstance, update)
	}
}
