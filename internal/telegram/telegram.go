package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	botModels "github.com/go-telegram/bot/models"
	"go.mongodb.org/mongo-driver/mongo"

	"tracker_bot/internal/ai/discovery"
	"tracker_bot/internal/config"
	"tracker_bot/internal/logger"
	"tracker_bot/internal/telegram/models"
	"tracker_bot/internal/telegram/repository"
	"tracker_bot/internal/telegram/service"
	"tracker_bot/internal/tracker"
)

const (
	defaultWorkers   = 8
	defaultQueueSize = 64
)

// Bot Telegram Bot 服务
// 聚合机器人接口、追踪引擎和 AI 发现功能
type Bot struct {
	bot        *bot.Bot
	db         *mongo.Database
	ownerIDs   []int64
	startTime  time.Time
	workerPool *WorkerPool

	userRepo    repository.UserRepository
	sourceRepo  repository.TrackedSourceRepository
	keywordRepo repository.KeywordRepository
	targetRepo  repository.TargetGroupRepository
	catalogRepo repository.CatalogGroupRepository

	userService   service.UserService
	configService service.TrackingConfigService

	sessions  *tracker.SessionStore
	manager   *tracker.Manager
	discovery *discovery.Service
}

// New 创建 Telegram Bot 实例
// factory 提供用户账号的底层连接实现
func New(cfg *config.Config, db *mongo.Database, factory tracker.ClientFactory) (*Bot, error) {
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("telegram token cannot be empty")
	}

	userRepo := repository.NewUserRepository(db)
	sourceRepo := repository.NewTrackedSourceRepository(db)
	keywordRepo := repository.NewKeywordRepository(db)
	targetRepo := repository.NewTargetGroupRepository(db)
	catalogRepo := repository.NewCatalogGroupRepository(db)

	// 默认 handler 接收非命令消息（账号 .session 文件上传）
	var telegramBot *Bot
	defaultHandler := func(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
		telegramBot.asyncHandler(telegramBot.handleDefault)(ctx, botInstance, update)
	}

	b, err := bot.New(cfg.TelegramToken, bot.WithDefaultHandler(defaultHandler))
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	telegramBot = &Bot{
		bot:         b,
		db:          db,
		ownerIDs:    cfg.BotOwnerIDs,
		startTime:   time.Now(),
		workerPool:  NewWorkerPool(defaultWorkers, defaultQueueSize),
		userRepo:    userRepo,
		sourceRepo:  sourceRepo,
		keywordRepo: keywordRepo,
		targetRepo:  targetRepo,
		catalogRepo: catalogRepo,
	}

	telegramBot.userService = service.NewUserService(userRepo, cfg.BotOwnerIDs)
	telegramBot.configService = service.NewTrackingConfigService(sourceRepo, keywordRepo, targetRepo)

	telegramBot.sessions = tracker.NewSessionStore(cfg.AccountsDir, factory)

	subscriber := tracker.NewSubscriber(
		tracker.RetryPolicy{MaxRetries: cfg.Tracking.FloodWaitRetries},
		tracker.JoinDelay{Min: cfg.Tracking.JoinDelayMin, Max: cfg.Tracking.JoinDelayMax},
		telegramBot.configService,
	)
	telegramBot.manager = tracker.NewManager(
		telegramBot.sessions,
		telegramBot.configService,
		telegramBot,
		subscriber,
		cfg.Tracking.SeenCacheCapacity,
	)

	telegramBot.discovery = discovery.NewService(discovery.NewClient(cfg.Discovery), catalogRepo)

	// 初始化 owners
	if err := telegramBot.initOwners(context.Background()); err != nil {
		logger.L().Warnf("Failed to initialize owners: %v", err)
	}

	telegramBot.registerHandlers()

	// 初始化数据库索引
	if err := telegramBot.ensureIndexes(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	logger.L().Info("Telegram bot initialized successfully")
	return telegramBot, nil
}

// InitFromConfig 从应用配置初始化 Telegram Bot
func InitFromConfig(cfg *config.Config, db *mongo.Database, factory tracker.ClientFactory) (*Bot, error) {
	return New(cfg, db, factory)
}

// Start 启动 Bot（阻塞式，应在 goroutine 中运行）
func (b *Bot) Start(ctx context.Context) error {
	logger.L().Info("Starting Telegram bot...")
	b.bot.Start(ctx)
	logger.L().Info("Telegram bot stopped")
	return nil
}

// Stop 停止 Bot：先停掉所有追踪会话，再关闭工作池
func (b *Bot) Stop(ctx context.Context) error {
	logger.L().Info("Stopping Telegram bot...")

	for _, userID := range b.manager.ActiveUserIDs() {
		if _, err := b.manager.Stop(ctx, userID); err != nil {
			logger.WithUser(userID).Warnf("Failed to stop tracking session: %v", err)
		}
	}

	b.workerPool.Shutdown()
	return nil
}

// initOwners 初始化 owner 角色
func (b *Bot) initOwners(ctx context.Context) error {
	for _, ownerID := range b.ownerIDs {
		user, err := b.userRepo.GetByTelegramID(ctx, ownerID)
		if err != nil {
			// 用户不存在，创建 owner 记录
			user = &models.User{
				TelegramID: ownerID,
				Role:       models.RoleOwner,
			}
			if err := b.userRepo.CreateOrUpdate(ctx, user); err != nil {
				logger.L().Warnf("Failed to create owner %d: %v", ownerID, err)
				continue
			}
			logger.L().Infof("Initialized owner: %d", ownerID)
		} else if user.Role != models.RoleOwner {
			user.Role = models.RoleOwner
			if err := b.userRepo.CreateOrUpdate(ctx, user); err != nil {
				logger.L().Warnf("Failed to update owner role for %d: %v", ownerID, err)
				continue
			}
			logger.L().Infof("Updated user %d to owner", ownerID)
		}
	}
	return nil
}

// ensureIndexes 确保所有数据库索引存在
func (b *Bot) ensureIndexes(ctx context.Context) error {
	repos := map[string]interface {
		EnsureIndexes(ctx context.Context) error
	}{
		"user":           b.userRepo,
		"tracked_source": b.sourceRepo,
		"keyword":        b.keywordRepo,
		"target_group":   b.targetRepo,
		"catalog_group":  b.catalogRepo,
	}

	for name, repo := range repos {
		if err := repo.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("failed to ensure %s indexes: %w", name, err)
		}
		logger.L().Debugf("%s indexes ensured", name)
	}
	return nil
}
