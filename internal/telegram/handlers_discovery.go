package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	botModels "github.com/go-telegram/bot/models"

	"tracker_bot/internal/ai/discovery"
	"tracker_bot/internal/logger"
	"tracker_bot/internal/tracker"
)

// handleDiscover 处理 /discover 命令：AI 搜索群组并收录到目录
func (b *Bot) handleDiscover(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if !b.discovery.Enabled() {
		b.reply(ctx, chatID, userID, "discover_disabled")
		return
	}

	topic := commandArgs(update.Message.Text)
	if topic == "" {
		b.reply(ctx, chatID, userID, "discover_usage")
		return
	}

	b.reply(ctx, chatID, userID, "discover_started", topic)

	// 用户已连接账号且未在追踪时，顺带做远端校验
	var resolver discovery.EntityResolver
	var client tracker.ChatClient
	if b.manager.Status(userID) == tracker.StateIdle && b.sessions.HasCredential(userID) {
		if c, err := b.sessions.Acquire(ctx, userID); err == nil {
			client = c
			resolver = c
		} else {
			logger.WithUser(userID).Debugf("Discovery runs without verification: %v", err)
		}
	}
	if client != nil {
		defer func() { _ = client.Disconnect() }()
	}

	groups, err := b.discovery.Discover(ctx, topic, userID, resolver)
	if err != nil {
		logger.WithUser(userID).Errorf("Discovery failed: %v", err)
		b.reply(ctx, chatID, userID, "generic_error")
		return
	}
	if len(groups) == 0 {
		b.reply(ctx, chatID, userID, "discover_empty", topic)
		return
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("🧠 %s\n\n", topic))
	for i, g := range groups {
		title := g.Title
		if title == "" {
			title = g.Username
		}
		text.WriteString(fmt.Sprintf("%d. %s — %s\n", i+1, title, g.Link))
	}
	b.sendMessage(ctx, chatID, text.String())
}
