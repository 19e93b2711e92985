package service

import (
	"context"

	"tracker_bot/internal/telegram/models"
)

// UserService 用户业务逻辑接口
type UserService interface {
	// RegisterOrUpdateUser 注册或更新用户
	RegisterOrUpdateUser(ctx context.Context, info *TelegramUserInfo) error

	// GetUserInfo 获取用户信息
	GetUserInfo(ctx context.Context, telegramID int64) (*models.User, error)

	// GetLanguage 用户界面语言，查不到时返回默认语言
	GetLanguage(ctx context.Context, telegramID int64) string

	// ToggleLanguage 在 ru/en 之间切换，返回新语言
	ToggleLanguage(ctx context.Context, telegramID int64) (string, error)

	// UpdateUserActivity 更新用户活跃时间
	UpdateUserActivity(ctx context.Context, telegramID int64) error
}

// TrackingConfigService 追踪配置业务逻辑接口
// 同时实现 tracker.ConfigStore，供追踪引擎只读消费
type TrackingConfigService interface {
	// AddSources 解析并批量添加源 handle，返回实际新增数
	AddSources(ctx context.Context, userID int64, raw string) (int, error)

	// DeleteSource 删除单个源 handle（幂等）
	DeleteSource(ctx context.Context, userID int64, handle string) error

	// ListSources 用户的全部源 handle
	ListSources(ctx context.Context, userID int64) ([]string, error)

	// PruneSource 追踪引擎发现无效 handle 时的自愈删除
	PruneSource(ctx context.Context, userID int64, handle string) error

	// AddKeywords 解析并批量添加关键词，返回实际新增数
	AddKeywords(ctx context.Context, userID int64, raw string) (int, error)

	// DeleteKeyword 删除单个关键词（幂等）
	DeleteKeyword(ctx context.Context, userID int64, word string) error

	// ListKeywords 用户的全部关键词
	ListKeywords(ctx context.Context, userID int64) ([]string, error)

	// SetTarget 设置转发目标群（整体替换）
	SetTarget(ctx context.Context, userID int64, handle string) error

	// GetTarget 用户的目标群 handle，未配置返回 tracker.ErrNoTarget
	GetTarget(ctx context.Context, userID int64) (string, error)
}

// TelegramUserInfo Telegram 用户信息 DTO
type TelegramUserInfo struct {
	TelegramID   int64
	Username     string
	FirstName    string
	LastName     string
	LanguageCode string
}
