package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-telegram/bot"
	botModels "github.com/go-telegram/bot/models"

	"tracker_bot/internal/logger"
)

const maxSessionFileSize = 10 << 20 // 10 MiB

// handleDefault 非命令消息的默认处理：接收账号 .session 文件上传
func (b *Bot) handleDefault(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	if update.Message.Document == nil {
		return
	}

	b.handleSessionUpload(ctx, botInstance, update)
}

// handleSessionUpload 下载上传的凭证文件并原子替换该用户的旧凭证
func (b *Bot) handleSessionUpload(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	doc := update.Message.Document

	if !strings.HasSuffix(strings.ToLower(doc.FileName), ".session") {
		b.reply(ctx, chatID, userID, "account_save_error")
		return
	}
	if doc.FileSize > maxSessionFileSize {
		logger.WithUser(userID).Warnf("Session file too large: %d bytes", doc.FileSize)
		b.reply(ctx, chatID, userID, "account_save_error")
		return
	}

	if err := b.downloadSessionFile(ctx, botInstance, userID, doc); err != nil {
		logger.WithUser(userID).Errorf("Failed to save session file: %v", err)
		b.reply(ctx, chatID, userID, "account_save_error")
		return
	}

	logger.WithUser(userID).Info("Session file replaced")
	b.reply(ctx, chatID, userID, "account_connected")
}

func (b *Bot) downloadSessionFile(ctx context.Context, botInstance *bot.Bot, userID int64, doc *botModels.Document) error {
	file, err := botInstance.GetFile(ctx, &bot.GetFileParams{FileID: doc.FileID})
	if err != nil {
		return fmt.Errorf("get file: %w", err)
	}

	url := botInstance.FileDownloadLink(file)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download file: unexpected status %s", resp.Status)
	}

	if err := b.sessions.Replace(userID, doc.FileName, resp.Body); err != nil {
		return fmt.Errorf("replace credential: %w", err)
	}
	return nil
}
