package telegram

import (
	"context"

	"github.com/go-telegram/bot"
	botModels "github.com/go-telegram/bot/models"

	"tracker_bot/internal/logger"
)

// sendMessage 发送消息（统一错误处理）
func (b *Bot) sendMessage(ctx context.Context, chatID int64, text string, replyTo ...int) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}

	if len(replyTo) > 0 && replyTo[0] > 0 {
		params.ReplyParameters = &botModels.ReplyParameters{
			MessageID: replyTo[0],
		}
	}

	if _, err := b.bot.SendMessage(ctx, params); err != nil {
		logger.L().Errorf("Failed to send message to chat %d: %v", chatID, err)
	}
}

// reply 按用户语言发送本地化文案
func (b *Bot) reply(ctx context.Context, chatID, userID int64, key string, args ...interface{}) {
	lang := b.userService.GetLanguage(ctx, userID)
	b.sendLocalized(ctx, chatID, lang, key, args...)
}

// sendLocalized 发送指定语言的文案
func (b *Bot) sendLocalized(ctx context.Context, chatID int64, lang, key string, args ...interface{}) {
	text := localize(lang, key, args...)
	b.sendMessage(ctx, chatID, text)
}
