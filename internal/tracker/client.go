package tracker

import (
	"context"
	"time"
)

// EntityKind 聊天实体类型
type EntityKind string

const (
	EntityChannel EntityKind = "channel" // 广播频道 / 超级群，链接走 t.me/c/<id> 形式
	EntityGroup   EntityKind = "group"   // 普通群组
	EntityUser    EntityKind = "user"    // 私聊对端
)

// Entity 通过 handle 解析出的聊天实体
type Entity struct {
	ID       int64
	Title    string
	Username string
	Kind     EntityKind
}

// JoinStatus 加群操作的结果状态
type JoinStatus string

const (
	JoinJoined          JoinStatus = "joined"
	JoinAlreadyMember   JoinStatus = "already_member"
	JoinRateLimited     JoinStatus = "rate_limited"
	JoinInvalidHandle   JoinStatus = "invalid_handle"
	JoinPendingApproval JoinStatus = "pending_approval"
	JoinFailed          JoinStatus = "failed"
)

// JoinResult 单次加群的结果
// RateLimited 时 RetryAfter 为服务端要求的等待时长；
// Joined/AlreadyMember 时 ChatID 可能为 0，需要调用方自行通过 GetEntity 解析
type JoinResult struct {
	Status     JoinStatus
	ChatID     int64
	RetryAfter time.Duration
	Err        error
}

// MessageEvent 事件流中的一条入站消息
type MessageEvent struct {
	ChatID    int64
	MessageID int64
	Text      string
}

// MessageRef 指向源聊天中一条已存在消息的引用
type MessageRef struct {
	ChatID    int64
	MessageID int64
}

// ChatClient 已认证的用户账号连接能力，由追踪引擎消费
// 具体的 MTProto 实现不属于本模块；测试使用 fake 实现
// 同一个客户端不支持并发请求，调用方保证串行使用
type ChatClient interface {
	// Connect 建立网络连接
	Connect(ctx context.Context) error

	// IsAuthorized 检查远端是否仍认可该会话凭证
	IsAuthorized(ctx context.Context) (bool, error)

	// GetEntity 解析聊天实体
	// handle 为 @username 形式或十进制 chat id 字符串，两种形式都必须支持
	GetEntity(ctx context.Context, handle string) (*Entity, error)

	// Join 按 handle 加入群组 / 频道
	Join(ctx context.Context, handle string) JoinResult

	// Leave 退出群组 / 频道；已不在群内不算错误
	Leave(ctx context.Context, handle string) error

	// Subscribe 订阅指定聊天集合的新消息事件流
	// 连接断开或 Disconnect 后通道关闭
	Subscribe(chatIDs []int64) (<-chan MessageEvent, error)

	// Send 向聊天发送一条文本消息
	Send(ctx context.Context, chatID int64, text string) error

	// Forward 把源消息原样转发到聊天
	Forward(ctx context.Context, chatID int64, ref MessageRef) error

	// Disconnect 断开连接并释放资源
	Disconnect() error
}

// ClientFactory 基于凭证文件构造 ChatClient
type ClientFactory interface {
	NewClient(sessionPath string) (ChatClient, error)
}

// FactoryFunc 函数式 ClientFactory 适配器
type FactoryFunc func(sessionPath string) (ChatClient, error)

// NewClient 实现 ClientFactory
func (f FactoryFunc) NewClient(sessionPath string) (ChatClient, error) {
	return f(sessionPath)
}
