package telegram

import (
	"context"
	"fmt"

	"tracker_bot/internal/locales"
)

// localize 取指定语言的文案并按需格式化
func localize(lang, key string, args ...interface{}) string {
	text := locales.Get(lang, key)
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}

// Notify 追踪引擎的状态通知：按用户语言推送到用户私聊
// 实现 tracker.Notifier
func (b *Bot) Notify(ctx context.Context, userID int64, key string, args ...interface{}) {
	lang := b.userService.GetLanguage(ctx, userID)
	b.sendMessage(ctx, userID, localize(lang, key, args...))
}

// NotifyJoinReport 批量加群结果汇总
func (b *Bot) NotifyJoinReport(ctx context.Context, userID int64, joined, failed, pruned int) {
	b.Notify(ctx, userID, "join_report", joined, failed, pruned)
}
