package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	botModels "github.com/go-telegram/bot/models"

	"tracker_bot/internal/logger"
	"tracker_bot/internal/telegram/service"
	"tracker_bot/internal/tracker"
)

// commandArgs 去掉命令本身，返回参数文本
func commandArgs(text string) string {
	if i := strings.IndexAny(text, " \n"); i >= 0 {
		return strings.TrimSpace(text[i+1:])
	}
	return ""
}

// handleAddSources 处理 /add_sources 命令
func (b *Bot) handleAddSources(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	added, err := b.configService.AddSources(ctx, userID, commandArgs(update.Message.Text))
	if err != nil {
		if errors.Is(err, service.ErrBadHandle) {
			b.reply(ctx, chatID, userID, "bad_handle")
		} else {
			b.reply(ctx, chatID, userID, "generic_error")
		}
		return
	}

	b.reply(ctx, chatID, userID, "sources_added", added)
}

// handleDeleteSource 处理 /del_source 命令
// 未在追踪时顺带尝试远端退群，失败不影响配置删除
func (b *Bot) handleDeleteSource(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	handle, err := service.NormalizeHandle(commandArgs(update.Message.Text))
	if err != nil {
		b.reply(ctx, chatID, userID, "bad_handle")
		return
	}

	if err := b.configService.DeleteSource(ctx, userID, handle); err != nil {
		b.reply(ctx, chatID, userID, "generic_error")
		return
	}

	b.leaveSourceBestEffort(ctx, userID, handle)
	b.reply(ctx, chatID, userID, "source_deleted", handle)
}

// leaveSourceBestEffort 远端退群（尽力而为）
// 追踪运行中时跳过：凭证被活动会话占用，退群在下次 /track 后自然生效
func (b *Bot) leaveSourceBestEffort(ctx context.Context, userID int64, handle string) {
	if b.manager.Status(userID) != tracker.StateIdle {
		return
	}
	if !b.sessions.HasCredential(userID) {
		return
	}

	client, err := b.sessions.Acquire(ctx, userID)
	if err != nil {
		logger.WithUser(userID).Debugf("Skipping remote leave for %s: %v", handle, err)
		return
	}
	defer func() { _ = client.Disconnect() }()

	tracker.LeaveSource(ctx, client, handle)
}

// handleListSources 处理 /sources 命令
func (b *Bot) handleListSources(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	sources, err := b.configService.ListSources(ctx, userID)
	if err != nil {
		b.reply(ctx, chatID, userID, "generic_error")
		return
	}
	if len(sources) == 0 {
		b.reply(ctx, chatID, userID, "sources_empty")
		return
	}

	var text strings.Builder
	text.WriteString("📡\n")
	for i, handle := range sources {
		text.WriteString(fmt.Sprintf("%d. %s\n", i+1, handle))
	}
	b.sendMessage(ctx, chatID, text.String())
}

// handleAddKeywords 处理 /add_keywords 命令
func (b *Bot) handleAddKeywords(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	added, err := b.configService.AddKeywords(ctx, userID, commandArgs(update.Message.Text))
	if err != nil {
		if errors.Is(err, service.ErrBadHandle) {
			b.reply(ctx, chatID, userID, "keywords_empty")
		} else {
			b.reply(ctx, chatID, userID, "generic_error")
		}
		return
	}

	b.reply(ctx, chatID, userID, "keywords_added", added)
}

// handleDeleteKeyword 处理 /del_keyword 命令
func (b *Bot) handleDeleteKeyword(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	word := commandArgs(update.Message.Text)
	if err := b.configService.DeleteKeyword(ctx, userID, word); err != nil {
		b.reply(ctx, chatID, userID, "generic_error")
		return
	}

	b.reply(ctx, chatID, userID, "keyword_deleted", strings.ToLower(strings.TrimSpace(word)))
}

// handleListKeywords 处理 /keywords 命令
func (b *Bot) handleListKeywords(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	keywords, err := b.configService.ListKeywords(ctx, userID)
	if err != nil {
		b.reply(ctx, chatID, userID, "generic_error")
		return
	}
	if len(keywords) == 0 {
		b.reply(ctx, chatID, userID, "keywords_empty")
		return
	}

	var text strings.Builder
	text.WriteString("🔍\n")
	for i, word := range keywords {
		text.WriteString(fmt.Sprintf("%d. %s\n", i+1, word))
	}
	b.sendMessage(ctx, chatID, text.String())
}

// handleSetTarget 处理 /set_target 命令
func (b *Bot) handleSetTarget(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	handle := commandArgs(update.Message.Text)
	if err := b.configService.SetTarget(ctx, userID, handle); err != nil {
		if errors.Is(err, service.ErrBadHandle) {
			b.reply(ctx, chatID, userID, "bad_handle")
		} else {
			b.reply(ctx, chatID, userID, "generic_error")
		}
		return
	}

	normalized, _ := service.NormalizeHandle(handle)
	b.reply(ctx, chatID, userID, "target_set", normalized)
}

// handleShowTarget 处理 /target 命令
func (b *Bot) handleShowTarget(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	target, err := b.configService.GetTarget(ctx, userID)
	if err != nil {
		if errors.Is(err, tracker.ErrNoTarget) {
			b.reply(ctx, chatID, userID, "target_missing")
		} else {
			b.reply(ctx, chatID, userID, "generic_error")
		}
		return
	}

	b.reply(ctx, chatID, userID, "target_set", target)
}
