package repository

import (
	"context"

	"tracker_bot/internal/telegram/models"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	// CreateOrUpdate 创建或更新用户
	CreateOrUpdate(ctx context.Context, user *models.User) error

	// GetByTelegramID 根据 Telegram ID 获取用户
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)

	// UpdateLanguage 更新界面语言
	UpdateLanguage(ctx context.Context, telegramID int64, language string) error

	// UpdateLastActive 更新用户最后活跃时间
	UpdateLastActive(ctx context.Context, telegramID int64) error

	// EnsureIndexes 确保索引存在
	EnsureIndexes(ctx context.Context) error
}

// TrackedSourceRepository 追踪源数据访问接口
type TrackedSourceRepository interface {
	// AddMany 批量添加，重复的 handle 静默跳过，返回实际新增数
	AddMany(ctx context.Context, userID int64, handles []string) (int, error)

	// ListByUser 用户的全部源 handle
	ListByUser(ctx context.Context, userID int64) ([]string, error)

	// Delete 按值删除，删除不存在的 handle 不算错误
	Delete(ctx context.Context, userID int64, handle string) error

	// EnsureIndexes 确保索引存在
	EnsureIndexes(ctx context.Context) error
}

// KeywordRepository 关键词数据访问接口
type KeywordRepository interface {
	// AddMany 批量添加，重复的词静默跳过，返回实际新增数
	AddMany(ctx context.Context, userID int64, words []string) (int, error)

	// ListByUser 用户的全部关键词
	ListByUser(ctx context.Context, userID int64) ([]string, error)

	// Delete 按值删除（幂等）
	Delete(ctx context.Context, userID int64, word string) error

	// EnsureIndexes 确保索引存在
	EnsureIndexes(ctx context.Context) error
}

// TargetGroupRepository 转发目标群数据访问接口
type TargetGroupRepository interface {
	// Set 设置目标群，旧记录整体替换
	Set(ctx context.Context, userID int64, handle string) error

	// Get 用户的目标群 handle，未设置返回 mongo.ErrNoDocuments
	Get(ctx context.Context, userID int64) (string, error)

	// EnsureIndexes 确保索引存在
	EnsureIndexes(ctx context.Context) error
}

// CatalogGroupRepository 群组目录数据访问接口
type CatalogGroupRepository interface {
	// Upsert 按 username 去重收录
	Upsert(ctx context.Context, group *models.CatalogGroup) error

	// ListByTopic 按主题列出收录的群组
	ListByTopic(ctx context.Context, topic string) ([]*models.CatalogGroup, error)

	// Count 目录中的群组总数
	Count(ctx context.Context) (int64, error)

	// EnsureIndexes 确保索引存在
	EnsureIndexes(ctx context.Context) error
}
