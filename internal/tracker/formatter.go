package tracker

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tracker_bot/internal/logger"
)

// 源聊天解析失败时的占位名，与原有转发文案保持一致
const unknownSourceTitle = "Неизвестно"

// 无法构造链接时的占位文本
const linkUnavailable = "недоступна"

// ContextBlock 转发上下文：源名称、消息链接、原文
type ContextBlock struct {
	SourceTitle string
	Link        string
	Text        string
}

// Render 渲染发送给目标群的上下文消息
func (b ContextBlock) Render() string {
	link := b.Link
	if link == "" {
		link = linkUnavailable
	}
	return fmt.Sprintf("📥 Новое сообщение\n\nИсточник: %s\nСсылка: %s\n\nТекст сообщения:\n%s",
		b.SourceTitle, link, b.Text)
}

// MessageLink 构造消息永久链接
// 超级群 / 频道的 chat_id 带 -100 前缀，链接为 t.me/c/<去前缀 id>/<msg>；
// 其余聊天仅在有 username 时可链接：t.me/<username>/<msg>
func MessageLink(chatID, messageID int64, username string) string {
	idStr := strconv.FormatInt(chatID, 10)
	if strings.HasPrefix(idStr, "-100") {
		return fmt.Sprintf("https://t.me/c/%s/%d", idStr[4:], messageID)
	}
	if username != "" {
		return fmt.Sprintf("https://t.me/%s/%d", username, messageID)
	}
	return ""
}

// BuildContext 为命中的消息构造上下文块
// 源聊天解析是尽力而为的：失败时退回占位名，绝不报错
func BuildContext(ctx context.Context, client ChatClient, ev MessageEvent) ContextBlock {
	title := unknownSourceTitle
	username := ""

	entity, err := client.GetEntity(ctx, strconv.FormatInt(ev.ChatID, 10))
	if err != nil {
		logger.L().Warnf("Failed to resolve source chat %d: %v", ev.ChatID, err)
	} else {
		if entity.Title != "" {
			title = entity.Title
		} else if entity.Username != "" {
			title = entity.Username
		}
		username = entity.Username
	}

	return ContextBlock{
		SourceTitle: title,
		Link:        MessageLink(ev.ChatID, ev.MessageID, username),
		Text:        ev.Text,
	}
}

// Deliver 两步投递：先把上下文作为新消息发送，再转发原始消息
// 非事务性：第一步失败则不执行第二步；任何一步失败都返回错误，
// 调用方只有在完整成功后才应标记去重键
func Deliver(ctx context.Context, client ChatClient, targetID int64, block ContextBlock, ref MessageRef) error {
	if err := client.Send(ctx, targetID, block.Render()); err != nil {
		return fmt.Errorf("failed to send context block: %w", err)
	}
	if err := client.Forward(ctx, targetID, ref); err != nil {
		return fmt.Errorf("failed to forward original message: %w", err)
	}
	return nil
}
