package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config 应用程序配置
type Config struct {
	TelegramToken string  // Telegram Bot API Token
	BotOwnerIDs   []int64 // Bot管理员ID列表
	MongoURI      string  // MongoDB连接URI
	MongoDBName   string  // MongoDB数据库名称
	AccountsDir   string  // 账号 .session 凭证文件根目录
	Tracking      TrackingConfig
	Discovery     DiscoveryConfig
}

// TrackingConfig 追踪引擎配置
type TrackingConfig struct {
	JoinDelayMin      time.Duration // 批量加群之间的最小随机延迟
	JoinDelayMax      time.Duration // 批量加群之间的最大随机延迟
	FloodWaitRetries  int           // 限流后的最大重试次数
	SeenCacheCapacity int           // 去重缓存容量（LRU）
}

// DiscoveryConfig AI 群组发现配置
type DiscoveryConfig struct {
	BaseURL string        // OpenAI 兼容接口地址（默认 Groq）
	APIKey  string        // API Key，为空则禁用发现功能
	Model   string        // 模型名称
	Timeout time.Duration // 请求超时时间
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	if mongoDBName == "" {
		mongoDBName = "tracker_bot"
	}

	accountsDir := os.Getenv("ACCOUNTS_DIR")
	if accountsDir == "" {
		accountsDir = "accounts"
	}

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDBName:   mongoDBName,
		AccountsDir:   accountsDir,
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	// 解析BOT_OWNER_IDS
	ownerIDsStr := os.Getenv("BOT_OWNER_IDS")
	if ownerIDsStr != "" {
		var err error
		cfg.BotOwnerIDs, err = parseOwnerIDs(ownerIDsStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse BOT_OWNER_IDS: %w", err)
		}
	}

	trackingCfg, err := loadTrackingConfig()
	if err != nil {
		return nil, err
	}
	cfg.Tracking = trackingCfg

	discoveryCfg, err := loadDiscoveryConfig()
	if err != nil {
		return nil, err
	}
	cfg.Discovery = discoveryCfg

	return cfg, nil
}

// parseOwnerIDs 解析逗号分隔的用户ID字符串
// 支持格式: "123456789" 或 "123456789,987654321"
func parseOwnerIDs(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid owner ID %q: %w", part, err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func loadTrackingConfig() (TrackingConfig, error) {
	cfg := TrackingConfig{
		JoinDelayMin:      3 * time.Second,
		JoinDelayMax:      7 * time.Second,
		FloodWaitRetries:  1,
		SeenCacheCapacity: 4096,
	}

	var err error
	if cfg.JoinDelayMin, err = parseSeconds("JOIN_DELAY_MIN_SECONDS", cfg.JoinDelayMin); err != nil {
		return TrackingConfig{}, err
	}
	if cfg.JoinDelayMax, err = parseSeconds("JOIN_DELAY_MAX_SECONDS", cfg.JoinDelayMax); err != nil {
		return TrackingConfig{}, err
	}
	if cfg.JoinDelayMax < cfg.JoinDelayMin {
		return TrackingConfig{}, fmt.Errorf("JOIN_DELAY_MAX_SECONDS (%s) must be >= JOIN_DELAY_MIN_SECONDS (%s)",
			cfg.JoinDelayMax, cfg.JoinDelayMin)
	}

	if retriesStr := strings.TrimSpace(os.Getenv("FLOOD_WAIT_RETRIES")); retriesStr != "" {
		retries, err := strconv.Atoi(retriesStr)
		if err != nil || retries < 0 {
			return TrackingConfig{}, fmt.Errorf("invalid FLOOD_WAIT_RETRIES: %s", retriesStr)
		}
		cfg.FloodWaitRetries = retries
	}

	if capStr := strings.TrimSpace(os.Getenv("SEEN_CACHE_CAPACITY")); capStr != "" {
		capacity, err := strconv.Atoi(capStr)
		if err != nil || capacity < 1 {
			return TrackingConfig{}, fmt.Errorf("invalid SEEN_CACHE_CAPACITY: %s", capStr)
		}
		cfg.SeenCacheCapacity = capacity
	}

	return cfg, nil
}

func loadDiscoveryConfig() (DiscoveryConfig, error) {
	cfg := DiscoveryConfig{
		BaseURL: strings.TrimSpace(os.Getenv("DISCOVERY_BASE_URL")),
		APIKey:  strings.TrimSpace(os.Getenv("DISCOVERY_API_KEY")),
		Model:   strings.TrimSpace(os.Getenv("DISCOVERY_MODEL")),
		Timeout: 30 * time.Second,
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "meta-llama/llama-4-scout-17b-16e-instruct"
	}

	if timeoutStr := strings.TrimSpace(os.Getenv("DISCOVERY_TIMEOUT_SECONDS")); timeoutStr != "" {
		seconds, err := strconv.Atoi(timeoutStr)
		if err != nil || seconds <= 0 {
			return DiscoveryConfig{}, fmt.Errorf("invalid DISCOVERY_TIMEOUT_SECONDS: %s", timeoutStr)
		}
		cfg.Timeout = time.Duration(seconds) * time.Second
	}

	return cfg, nil
}

// parseSeconds 从环境变量读取秒数，未设置时返回默认值
func parseSeconds(name string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return 0, fmt.Errorf("invalid %s: %s", name, raw)
	}
	return time.Duration(seconds) * time.Second, nil
}
