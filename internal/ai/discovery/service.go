package discovery

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"tracker_bot/internal/logger"
	"tracker_bot/internal/telegram/models"
	"tracker_bot/internal/telegram/repository"
	"tracker_bot/internal/tracker"
)

// Candidate 模型回答里解析出的一个候选群组
type Candidate struct {
	Username    string // @username 形式
	Description string
}

var candidatePattern = regexp.MustCompile(`@([A-Za-z][A-Za-z0-9_]{4,31})`)

// ParseCandidates 从模型的自由文本回答中提取候选 @username 列表
// 同一 username 只保留第一次出现；描述取 username 之后的行尾文本
func ParseCandidates(raw string) []Candidate {
	seen := make(map[string]bool)
	var candidates []Candidate

	for _, line := range strings.Split(raw, "\n") {
		m := candidatePattern.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}

		username := strings.ToLower(line[m[0]:m[1]])
		if seen[username] {
			continue
		}
		seen[username] = true

		desc := strings.TrimLeft(line[m[1]:], " -—:–\t")
		candidates = append(candidates, Candidate{
			Username:    username,
			Description: strings.TrimSpace(desc),
		})
	}

	return candidates
}

// EntityResolver 候选群组的远端校验能力（ChatClient 的子集）
type EntityResolver interface {
	GetEntity(ctx context.Context, handle string) (*tracker.Entity, error)
}

// Service AI 群组发现：模型建议 → 可选远端校验 → 入库
type Service struct {
	ai      *Client
	catalog repository.CatalogGroupRepository
}

// NewService 创建发现服务；ai 为 nil 时功能禁用
func NewService(ai *Client, catalog repository.CatalogGroupRepository) *Service {
	return &Service{ai: ai, catalog: catalog}
}

// Enabled 发现功能是否可用
func (s *Service) Enabled() bool {
	return s != nil && s.ai != nil
}

// Discover 按主题搜索群组并收录到目录
// resolver 不为 nil 时对每个候选做远端校验：解析失败的候选丢弃，
// 成功的用远端返回的标题和类型覆盖模型给的描述
func (s *Service) Discover(ctx context.Context, topic string, foundBy int64, resolver EntityResolver) ([]*models.CatalogGroup, error) {
	raw, err := s.ai.SuggestGroups(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestions for topic %q: %w", topic, err)
	}

	candidates := ParseCandidates(raw)
	logger.L().WithField("topic", topic).Infof("Discovery produced %d candidates", len(candidates))

	groups := make([]*models.CatalogGroup, 0, len(candidates))
	for _, c := range candidates {
		group := &models.CatalogGroup{
			Username:  c.Username,
			Title:     c.Description,
			Kind:      string(tracker.EntityGroup),
			Topic:     topic,
			Link:      "https://t.me/" + strings.TrimPrefix(c.Username, "@"),
			FoundBy:   foundBy,
			CreatedAt: time.Now(),
		}

		if resolver != nil {
			entity, err := resolver.GetEntity(ctx, c.Username)
			if err != nil {
				logger.L().WithField("handle", c.Username).Debugf("Discovery candidate dropped: %v", err)
				continue
			}
			if entity.Title != "" {
				group.Title = entity.Title
			}
			group.Kind = string(entity.Kind)
		}

		if err := s.catalog.Upsert(ctx, group); err != nil {
			logger.L().Warnf("Failed to store catalog group %s: %v", c.Username, err)
			continue
		}
		groups = append(groups, group)
	}

	return groups, nil
}
