package telegram

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	botModels "github.com/go-telegram/bot/models"

	"tracker_bot/internal/logger"
	"tracker_bot/internal/telegram/service"
	"tracker_bot/internal/tracker"
)

// registerHandlers 注册所有命令处理器（异步执行）
func (b *Bot) registerHandlers() {
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact,
		b.asyncHandler(b.handleStart))
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact,
		b.asyncHandler(b.handleHelp))
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/language", bot.MatchTypeExact,
		b.asyncHandler(b.handleLanguage))

	// 追踪配置
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/add_sources", bot.MatchTypePrefix,
		b.asyncHandler(b.handleAddSources))
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/del_source", bot.MatchTypePrefix,
		b.asyncHandler(b.handleDeleteSource))
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/sources", bot.MatchTypeExact,
		b.asyncHandler(b.handleListSources))
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/add_keywords", bot.MatchTypePrefix,
		b.asyncHandler(b.handleAddKeywords))
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/del_keyword", bot.MatchTypePrefix,
		b.asyncHandler(b.handleDeleteKeyword))
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/keywords", bot.MatchTypeExact,
		b.asyncHandler(b.handleListKeywords))
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/set_target", bot.MatchTypePrefix,
		b.asyncHandler(b.handleSetTarget))
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/target", bot.MatchTypeExact,
		b.asyncHandler(b.handleShowTarget))

	// 追踪生命周期
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/track", bot.MatchTypeExact,
		b.asyncHandler(b.handleTrack))
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/stop", bot.MatchTypeExact,
		b.asyncHandler(b.handleStopTracking))
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/status", bot.MatchTypeExact,
		b.asyncHandler(b.handleStatus))

	// AI 群组发现（仅 Owner，消耗 API 配额）
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/discover", bot.MatchTypePrefix,
		b.asyncHandler(b.RequireOwner(b.handleDiscover)))

	logger.L().Debug("All handlers registered with async execution")
}

// handleStart 处理 /start 命令：注册用户并展示当前配置概览
func (b *Bot) handleStart(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	from := update.Message.From
	userInfo := &service.TelegramUserInfo{
		TelegramID:   from.ID,
		Username:     from.Username,
		FirstName:    from.FirstName,
		LastName:     from.LastName,
		LanguageCode: from.LanguageCode,
	}
	if err := b.userService.RegisterOrUpdateUser(ctx, userInfo); err != nil {
		b.reply(ctx, update.Message.Chat.ID, from.ID, "generic_error")
		return
	}

	accounts := 0
	if b.sessions.HasCredential(from.ID) {
		accounts = 1
	}

	target, err := b.configService.GetTarget(ctx, from.ID)
	if err != nil {
		if !errors.Is(err, tracker.ErrNoTarget) {
			logger.WithUser(from.ID).Warnf("Failed to load target group: %v", err)
		}
		target = "—"
	}

	keywords, _ := b.configService.ListKeywords(ctx, from.ID)
	sources, _ := b.configService.ListSources(ctx, from.ID)

	b.reply(ctx, update.Message.Chat.ID, from.ID, "welcome",
		accounts, target, len(keywords), len(sources))
}

// handleHelp 处理 /help 命令
func (b *Bot) handleHelp(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	_ = b.userService.UpdateUserActivity(ctx, update.Message.From.ID)
	b.reply(ctx, update.Message.Chat.ID, update.Message.From.ID, "help")
}

// handleLanguage 处理 /language 命令：在 ru/en 之间切换
func (b *Bot) handleLanguage(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	userID := update.Message.From.ID
	lang, err := b.userService.ToggleLanguage(ctx, userID)
	if err != nil {
		b.reply(ctx, update.Message.Chat.ID, userID, "generic_error")
		return
	}

	b.sendLocalized(ctx, update.Message.Chat.ID, lang, "lang_selected")
}
