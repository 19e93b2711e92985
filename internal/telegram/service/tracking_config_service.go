package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	"tracker_bot/internal/logger"
	"tracker_bot/internal/telegram/repository"
	"tracker_bot/internal/tracker"
)

// ErrBadHandle handle 格式非法
var ErrBadHandle = errors.New("invalid handle format")

// Telegram username：5-32 位字母/数字/下划线
var handlePattern = regexp.MustCompile(`^@[A-Za-z][A-Za-z0-9_]{4,31}$`)

// trackingConfigService 追踪配置业务逻辑实现
// 同时实现 tracker.ConfigStore
type trackingConfigService struct {
	sourceRepo  repository.TrackedSourceRepository
	keywordRepo repository.KeywordRepository
	targetRepo  repository.TargetGroupRepository
}

// NewTrackingConfigService 创建追踪配置服务
func NewTrackingConfigService(
	sourceRepo repository.TrackedSourceRepository,
	keywordRepo repository.KeywordRepository,
	targetRepo repository.TargetGroupRepository,
) TrackingConfigService {
	return &trackingConfigService{
		sourceRepo:  sourceRepo,
		keywordRepo: keywordRepo,
		targetRepo:  targetRepo,
	}
}

// NormalizeHandle 把各种写法收敛为 @username，非法时返回 ErrBadHandle
// 接受 @username、username、t.me/username、https://t.me/username
func NormalizeHandle(raw string) (string, error) {
	h := strings.TrimSpace(raw)
	h = strings.TrimPrefix(h, "https://")
	h = strings.TrimPrefix(h, "http://")
	h = strings.TrimPrefix(h, "t.me/")
	h = strings.TrimPrefix(h, "telegram.me/")
	h = strings.TrimSuffix(h, "/")
	if h == "" {
		return "", ErrBadHandle
	}
	if !strings.HasPrefix(h, "@") {
		h = "@" + h
	}
	if !handlePattern.MatchString(h) {
		return "", ErrBadHandle
	}
	return strings.ToLower(h), nil
}

// ParseHandles 从自由文本里解析 handle 列表，跳过非法项
func ParseHandles(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\n' || r == '\t'
	})

	seen := make(map[string]bool, len(fields))
	handles := make([]string, 0, len(fields))
	for _, f := range fields {
		h, err := NormalizeHandle(f)
		if err != nil || seen[h] {
			continue
		}
		seen[h] = true
		handles = append(handles, h)
	}
	return handles
}

// ParseKeywords 从自由文本里解析关键词列表，按逗号/换行分隔
// 关键词统一转小写，匹配时不区分大小写
func ParseKeywords(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	seen := make(map[string]bool, len(fields))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.ToLower(strings.TrimSpace(f))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	return words
}

// AddSources 解析并批量添加源 handle
func (s *trackingConfigService) AddSources(ctx context.Context, userID int64, raw string) (int, error) {
	handles := ParseHandles(raw)
	if len(handles) == 0 {
		return 0, ErrBadHandle
	}

	added, err := s.sourceRepo.AddMany(ctx, userID, handles)
	if err != nil {
		return 0, fmt.Errorf("failed to add sources for user %d: %w", userID, err)
	}

	logger.WithUser(userID).WithField("added", added).Info("tracked sources added")
	return added, nil
}

// DeleteSource 删除单个源 handle
func (s *trackingConfigService) DeleteSource(ctx context.Context, userID int64, handle string) error {
	h, err := NormalizeHandle(handle)
	if err != nil {
		return err
	}
	if err := s.sourceRepo.Delete(ctx, userID, h); err != nil {
		return fmt.Errorf("failed to delete source %s for user %d: %w", h, userID, err)
	}
	return nil
}

// ListSources 用户的全部源 handle
func (s *trackingConfigService) ListSources(ctx context.Context, userID int64) ([]string, error) {
	return s.sourceRepo.ListByUser(ctx, userID)
}

// PruneSource 追踪引擎发现无效 handle 时的自愈删除
func (s *trackingConfigService) PruneSource(ctx context.Context, userID int64, handle string) error {
	if err := s.sourceRepo.Delete(ctx, userID, handle); err != nil {
		return fmt.Errorf("failed to prune source %s for user %d: %w", handle, userID, err)
	}
	logger.WithUser(userID).WithField("handle", handle).Warn("invalid source pruned")
	return nil
}

// AddKeywords 解析并批量添加关键词
func (s *trackingConfigService) AddKeywords(ctx context.Context, userID int64, raw string) (int, error) {
	words := ParseKeywords(raw)
	if len(words) == 0 {
		return 0, ErrBadHandle
	}

	added, err := s.keywordRepo.AddMany(ctx, userID, words)
	if err != nil {
		return 0, fmt.Errorf("failed to add keywords for user %d: %w", userID, err)
	}

	logger.WithUser(userID).WithField("added", added).Info("keywords added")
	return added, nil
}

// DeleteKeyword 删除单个关键词
func (s *trackingConfigService) DeleteKeyword(ctx context.Context, userID int64, word string) error {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return ErrBadHandle
	}
	if err := s.keywordRepo.Delete(ctx, userID, w); err != nil {
		return fmt.Errorf("failed to delete keyword %q for user %d: %w", w, userID, err)
	}
	return nil
}

// ListKeywords 用户的全部关键词
func (s *trackingConfigService) ListKeywords(ctx context.Context, userID int64) ([]string, error) {
	return s.keywordRepo.ListByUser(ctx, userID)
}

// SetTarget 设置转发目标群
func (s *trackingConfigService) SetTarget(ctx context.Context, userID int64, handle string) error {
	h, err := NormalizeHandle(handle)
	if err != nil {
		return err
	}
	if err := s.targetRepo.Set(ctx, userID, h); err != nil {
		return fmt.Errorf("failed to set target for user %d: %w", userID, err)
	}

	logger.WithUser(userID).WithField("target", h).Info("target group set")
	return nil
}

// GetTarget 用户的目标群 handle，未配置返回 tracker.ErrNoTarget
func (s *trackingConfigService) GetTarget(ctx context.Context, userID int64) (string, error) {
	handle, err := s.targetRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", tracker.ErrNoTarget
		}
		return "", fmt.Errorf("failed to get target for user %d: %w", userID, err)
	}
	return handle, nil
}
