package tracker

import (
	"context"
	"math/rand"
	"time"
)

// RetryPolicy 限流重试策略：等待服务端指定的时长后重试，
// 最多 MaxRetries 次，之后按失败处理
type RetryPolicy struct {
	MaxRetries int
}

// DefaultRetryPolicy 限流后只重试一次
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 1}
}

// JoinDelay 批量加群之间的随机延迟区间，降低限流压力
type JoinDelay struct {
	Min time.Duration
	Max time.Duration
}

// DefaultJoinDelay 原有行为约 5 秒，这里取 3-7 秒随机
func DefaultJoinDelay() JoinDelay {
	return JoinDelay{Min: 3 * time.Second, Max: 7 * time.Second}
}

// Next 返回区间内的一个随机延迟
func (d JoinDelay) Next() time.Duration {
	if d.Max <= d.Min {
		return d.Min
	}
	return d.Min + time.Duration(rand.Int63n(int64(d.Max-d.Min)))
}

// sleepCtx 可被上下文中断的睡眠
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
