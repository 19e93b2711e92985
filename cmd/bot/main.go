package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tracker_bot/internal/app"
	"tracker_bot/internal/config"
	"tracker_bot/internal/logger"
	"tracker_bot/internal/tracker"
)

const shutdownTimeout = 30 * time.Second

// newChatClient 构造用户账号的底层连接
// MTProto 客户端在部署时链接进来；未链接时 /track 会明确报错
var newChatClient tracker.ClientFactory = tracker.FactoryFunc(
	func(sessionPath string) (tracker.ChatClient, error) {
		return nil, errors.New("no MTProto client linked into this build")
	},
)

func main() {
	// .env 文件可选，生产环境直接用环境变量
	_ = godotenv.Load()

	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.L().Fatalf("Failed to load config: %v", err)
	}

	application, err := app.New(cfg, newChatClient)
	if err != nil {
		logger.L().Fatalf("Failed to initialize application: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.L().Info("Application started")
	if err := application.Run(ctx); err != nil {
		logger.L().Errorf("Application run failed: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := application.Close(shutdownCtx); err != nil {
		logger.L().Errorf("Shutdown failed: %v", err)
		os.Exit(1)
	}
	logger.L().Info("Application stopped")
}
