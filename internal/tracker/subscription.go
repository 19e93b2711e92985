package tracker

import (
	"context"
	"fmt"

	"tracker_bot/internal/logger"

	"github.com/google/uuid"
)

// SourcePruner 从持久化的追踪列表里删除失效 handle（自愈）
type SourcePruner interface {
	PruneSource(ctx context.Context, userID int64, handle string) error
}

// JoinOutcome 单个 handle 的加群结果
type JoinOutcome struct {
	Handle string
	Status JoinStatus
	ChatID int64
	Err    error
}

// JoinReport 批量加群的汇总结果，用于向用户反馈
type JoinReport struct {
	TaskID string
	Joined []JoinOutcome
	Failed []JoinOutcome
	Pruned []string
}

// ChatIDs 返回成功加入的聊天 ID 列表
func (r *JoinReport) ChatIDs() []int64 {
	ids := make([]int64, 0, len(r.Joined))
	for _, out := range r.Joined {
		ids = append(ids, out.ChatID)
	}
	return ids
}

// Subscriber 订阅管理器：串行加入一批群组 / 频道，
// 处理已在群、限流、无效 handle、待审批等情况
type Subscriber struct {
	policy RetryPolicy
	delay  JoinDelay
	pruner SourcePruner
}

// NewSubscriber 创建订阅管理器
func NewSubscriber(policy RetryPolicy, delay JoinDelay, pruner SourcePruner) *Subscriber {
	return &Subscriber{policy: policy, delay: delay, pruner: pruner}
}

// JoinAll 逐个加入 handles（串行，同一连接不允许并发请求）
// 单个失败不会中断批次；无效 handle 会从用户的追踪列表里删除
func (s *Subscriber) JoinAll(ctx context.Context, client ChatClient, userID int64, handles []string) *JoinReport {
	report := &JoinReport{TaskID: uuid.New().String()}
	log := logger.WithUser(userID).WithField("task_id", report.TaskID)

	for i, handle := range handles {
		if ctx.Err() != nil {
			log.Warnf("Join batch cancelled after %d/%d handles", i, len(handles))
			break
		}

		// 相邻两次加群之间插入随机延迟
		if i > 0 {
			if err := sleepCtx(ctx, s.delay.Next()); err != nil {
				break
			}
		}

		out := s.joinOne(ctx, client, handle)
		switch out.Status {
		case JoinJoined, JoinAlreadyMember:
			log.Infof("Joined %s (status=%s, chat_id=%d)", handle, out.Status, out.ChatID)
			report.Joined = append(report.Joined, out)
		case JoinInvalidHandle:
			log.Warnf("Invalid handle %s, pruning from tracked sources", handle)
			report.Failed = append(report.Failed, out)
			if s.pruner != nil {
				if err := s.pruner.PruneSource(ctx, userID, handle); err != nil {
					log.Errorf("Failed to prune %s: %v", handle, err)
				} else {
					report.Pruned = append(report.Pruned, handle)
				}
			}
		default:
			log.Warnf("Failed to join %s (status=%s): %v", handle, out.Status, out.Err)
			report.Failed = append(report.Failed, out)
		}
	}

	log.Infof("Join batch finished: joined=%d failed=%d pruned=%d",
		len(report.Joined), len(report.Failed), len(report.Pruned))
	return report
}

// joinOne 加入单个 handle，限流时按策略等待并重试
func (s *Subscriber) joinOne(ctx context.Context, client ChatClient, handle string) JoinOutcome {
	res := client.Join(ctx, handle)

	for attempt := 0; res.Status == JoinRateLimited && attempt < s.policy.MaxRetries; attempt++ {
		logger.L().Warnf("Rate limited joining %s, waiting %s before retry", handle, res.RetryAfter)
		if err := sleepCtx(ctx, res.RetryAfter); err != nil {
			return JoinOutcome{Handle: handle, Status: JoinFailed, Err: err}
		}
		res = client.Join(ctx, handle)
	}

	out := JoinOutcome{Handle: handle, Status: res.Status, ChatID: res.ChatID, Err: res.Err}

	// 已在群 / 刚加入但客户端没带回 ID 时，按 handle 解析出规范 ID
	if (res.Status == JoinJoined || res.Status == JoinAlreadyMember) && res.ChatID == 0 {
		entity, err := client.GetEntity(ctx, handle)
		if err != nil {
			out.Status = JoinFailed
			out.Err = fmt.Errorf("joined but failed to resolve %s: %w", handle, err)
			return out
		}
		out.ChatID = entity.ID
	}

	return out
}

// JoinTarget 加入转发目标群并返回其规范 ID
// 目标群必须成功，失败返回错误由调用方终止会话
func (s *Subscriber) JoinTarget(ctx context.Context, client ChatClient, handle string) (int64, error) {
	out := s.joinOne(ctx, client, handle)
	switch out.Status {
	case JoinJoined, JoinAlreadyMember:
		return out.ChatID, nil
	default:
		if out.Err != nil {
			return 0, fmt.Errorf("failed to join target %s (status=%s): %w", handle, out.Status, out.Err)
		}
		return 0, fmt.Errorf("failed to join target %s (status=%s)", handle, out.Status)
	}
}

// LeaveSource 删除追踪源时尽力而为地退订远端群组
// 解析失败或已不在群内只记日志，不阻塞本地删除
func LeaveSource(ctx context.Context, client ChatClient, handle string) {
	if _, err := client.GetEntity(ctx, handle); err != nil {
		logger.L().Warnf("Cannot resolve %s for unsubscribe: %v", handle, err)
		return
	}
	if err := client.Leave(ctx, handle); err != nil {
		logger.L().Warnf("Failed to leave %s: %v", handle, err)
		return
	}
	logger.L().Infof("Left %s", handle)
}
