package tracker

import "errors"

// 追踪引擎错误分类，调用方用 errors.Is 区分并给出可操作的提示
var (
	// ErrNoCredential 用户没有上传过 .session 凭证文件
	ErrNoCredential = errors.New("no session credential found")

	// ErrUnauthorized 凭证已失效，需要重新上传
	ErrUnauthorized = errors.New("session credential is not authorized")

	// ErrAlreadyTracking 该用户已有一个运行中的追踪会话
	ErrAlreadyTracking = errors.New("tracking session already running")

	// ErrNoTarget 未配置转发目标群
	ErrNoTarget = errors.New("target group is not configured")

	// ErrNoSources 清理无效 handle 后没有可追踪的源
	ErrNoSources = errors.New("no sources to track")
)
