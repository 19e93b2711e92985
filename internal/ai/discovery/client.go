package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"tracker_bot/internal/config"
)

const suggestSystemPrompt = "Ты помощник по поиску Telegram-групп и каналов. " +
	"По теме пользователя предложи публичные Telegram-группы и каналы. " +
	"Отвечай только списком, по одному в строке, в формате @username — краткое описание. " +
	"Не выдумывай несуществующие username, если не уверен — пропусти."

// Client OpenAI 兼容接口的薄封装（默认指向 Groq）
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewClient 创建 AI 客户端；API Key 为空时返回 nil（发现功能禁用）
func NewClient(cfg config.DiscoveryConfig) *Client {
	if cfg.APIKey == "" {
		return nil
	}

	apiConfig := openai.DefaultConfig(cfg.APIKey)
	apiConfig.BaseURL = cfg.BaseURL

	return &Client{
		client:  openai.NewClientWithConfig(apiConfig),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}
}

// SuggestGroups 按主题向模型询问候选群组，返回原始回答文本
func (c *Client) SuggestGroups(ctx context.Context, topic string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: suggestSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: topic},
		},
		Temperature: 0.3,
		MaxTokens:   512,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
