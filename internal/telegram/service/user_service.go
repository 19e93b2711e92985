package service

import (
	"context"
	"fmt"

	"tracker_bot/internal/locales"
	"tracker_bot/internal/logger"
	"tracker_bot/internal/telegram/models"
	"tracker_bot/internal/telegram/repository"
)

// userService 用户业务逻辑实现
type userService struct {
	userRepo repository.UserRepository
	ownerIDs map[int64]bool
}

// NewUserService 创建用户服务
func NewUserService(userRepo repository.UserRepository, ownerIDs []int64) UserService {
	owners := make(map[int64]bool, len(ownerIDs))
	for _, id := range ownerIDs {
		owners[id] = true
	}
	return &userService{
		userRepo: userRepo,
		ownerIDs: owners,
	}
}

// RegisterOrUpdateUser 注册或更新用户
func (s *userService) RegisterOrUpdateUser(ctx context.Context, info *TelegramUserInfo) error {
	if info == nil || info.TelegramID == 0 {
		return fmt.Errorf("invalid user info")
	}

	user := &models.User{
		TelegramID: info.TelegramID,
		Username:   info.Username,
		FirstName:  info.FirstName,
		LastName:   info.LastName,
	}

	if s.ownerIDs[info.TelegramID] {
		user.Role = models.RoleOwner
	}

	if err := s.userRepo.CreateOrUpdate(ctx, user); err != nil {
		return fmt.Errorf("failed to register user %d: %w", info.TelegramID, err)
	}

	logger.WithUser(info.TelegramID).Debug("user registered or updated")
	return nil
}

// GetUserInfo 获取用户信息
func (s *userService) GetUserInfo(ctx context.Context, telegramID int64) (*models.User, error) {
	user, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", telegramID, err)
	}
	return user, nil
}

// GetLanguage 用户界面语言，查不到时返回默认语言
func (s *userService) GetLanguage(ctx context.Context, telegramID int64) string {
	user, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil || user == nil {
		return locales.LangRU
	}
	return locales.Normalize(user.Language)
}

// ToggleLanguage 在 ru/en 之间切换，返回新语言
func (s *userService) ToggleLanguage(ctx context.Context, telegramID int64) (string, error) {
	current := s.GetLanguage(ctx, telegramID)

	next := locales.LangEN
	if current == locales.LangEN {
		next = locales.LangRU
	}

	if err := s.userRepo.UpdateLanguage(ctx, telegramID, next); err != nil {
		return "", fmt.Errorf("failed to update language for user %d: %w", telegramID, err)
	}
	return next, nil
}

// UpdateUserActivity 更新用户活跃时间
func (s *userService) UpdateUserActivity(ctx context.Context, telegramID int64) error {
	return s.userRepo.UpdateLastActive(ctx, telegramID)
}
