package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	botModels "github.com/go-telegram/bot/models"

	"tracker_bot/internal/logger"
	"tracker_bot/internal/tracker"
)

const stopTimeout = 30 * time.Second

// handleTrack 处理 /track 命令：启动追踪会话
// 前置检查失败（无凭证 / 无目标群）在会话内部上报，这里只管启动
func (b *Bot) handleTrack(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	_ = b.userService.UpdateUserActivity(ctx, userID)

	if err := b.manager.Start(ctx, userID); err != nil {
		if errors.Is(err, tracker.ErrAlreadyTracking) {
			b.reply(ctx, chatID, userID, "already_tracking")
		} else {
			b.reply(ctx, chatID, userID, "generic_error")
		}
		return
	}

	logger.WithUser(userID).Info("Tracking session launched")
	b.reply(ctx, chatID, userID, "launching_tracking")
}

// handleStopTracking 处理 /stop 命令：协作式停止追踪会话
func (b *Bot) handleStopTracking(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	stopCtx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()

	stopped, err := b.manager.Stop(stopCtx, userID)
	if err != nil {
		logger.WithUser(userID).Warnf("Tracking session did not stop in time: %v", err)
		b.reply(ctx, chatID, userID, "generic_error")
		return
	}
	if !stopped {
		b.reply(ctx, chatID, userID, "tracking_not_running")
		return
	}

	logger.WithUser(userID).Info("Tracking session stopped")
	b.reply(ctx, chatID, userID, "tracking_stopped")
}

// handleStatus 处理 /status 命令：当前会话状态 + 运行时概览
func (b *Bot) handleStatus(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	var lines []string

	state := b.manager.Status(userID)
	stateEmoji := map[tracker.State]string{
		tracker.StateIdle:           "💤",
		tracker.StateConnecting:     "🔌",
		tracker.StateJoiningTarget:  "📤",
		tracker.StateJoiningSources: "📡",
		tracker.StateListening:      "👂",
		tracker.StateStopping:       "🛑",
		tracker.StateTornDown:       "💤",
		tracker.StateError:          "❌",
	}[state]
	lines = append(lines, fmt.Sprintf("%s %s", stateEmoji, state))

	if !b.startTime.IsZero() {
		lines = append(lines, fmt.Sprintf("⏱ uptime: %s", time.Since(b.startTime).Round(time.Second)))
	}
	lines = append(lines, fmt.Sprintf("🔄 active sessions: %d", b.manager.ActiveSessions()))

	stats := b.workerPool.Stats()
	lines = append(lines, fmt.Sprintf("🛠 workers: %d, queue %d/%d",
		stats.Workers, stats.QueueLength, stats.QueueCapacity))

	b.sendMessage(ctx, chatID, strings.Join(lines, "\n"))
}
