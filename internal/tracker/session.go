package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"tracker_bot/internal/logger"
)

// State 追踪会话状态
type State string

const (
	StateIdle           State = "idle"
	StateConnecting     State = "connecting"
	StateJoiningTarget  State = "joining_target"
	StateJoiningSources State = "joining_sources"
	StateListening      State = "listening"
	StateStopping       State = "stopping"
	StateTornDown       State = "torn_down"
	StateError          State = "error"
)

// deliverTimeout 单条消息投递的超时时间
const deliverTimeout = 30 * time.Second

// ClientProvider 按用户获取已连接且已授权的客户端
type ClientProvider interface {
	Acquire(ctx context.Context, userID int64) (ChatClient, error)
}

// ConfigStore 追踪配置的只读视图 + 无效源清理
type ConfigStore interface {
	SourcePruner

	// ListSources 用户追踪的源 handle 列表
	ListSources(ctx context.Context, userID int64) ([]string, error)

	// ListKeywords 用户的关键词列表
	ListKeywords(ctx context.Context, userID int64) ([]string, error)

	// GetTarget 用户的转发目标 handle，未配置返回 ErrNoTarget
	GetTarget(ctx context.Context, userID int64) (string, error)
}

// Notifier 面向用户的通知出口，key 为文案键，由实现方本地化
type Notifier interface {
	Notify(ctx context.Context, userID int64, key string, args ...interface{})

	// NotifyJoinReport 批量加群结果汇总
	NotifyJoinReport(ctx context.Context, userID int64, joined, failed, pruned int)
}

// Session 单个用户的运行时追踪会话（不持久化）
type Session struct {
	userID int64
	cancel context.CancelFunc
	done   chan struct{}
	seen   *SeenCache

	mu    sync.Mutex
	state State
}

// State 当前状态
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	logger.WithUser(s.userID).Debugf("Tracking session state: %s", st)
}

// Done 会话完全退出（TornDown）后关闭
func (s *Session) Done() <-chan struct{} { return s.done }

// Manager 追踪会话管理器，每个用户最多一个活动会话
type Manager struct {
	clients      ClientProvider
	config       ConfigStore
	notifier     Notifier
	sub          *Subscriber
	seenCapacity int

	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewManager 创建会话管理器
func NewManager(clients ClientProvider, config ConfigStore, notifier Notifier, sub *Subscriber, seenCapacity int) *Manager {
	return &Manager{
		clients:      clients,
		config:       config,
		notifier:     notifier,
		sub:          sub,
		seenCapacity: seenCapacity,
		sessions:     make(map[int64]*Session),
	}
}

// Start 启动用户的追踪会话
// 该用户已有活动会话时拒绝并返回 ErrAlreadyTracking
func (m *Manager) Start(ctx context.Context, userID int64) error {
	m.mu.Lock()
	if _, exists := m.sessions[userID]; exists {
		m.mu.Unlock()
		return ErrAlreadyTracking
	}

	sessCtx, cancel := context.WithCancel(context.Background())
	sess := &Session{
		userID: userID,
		cancel: cancel,
		done:   make(chan struct{}),
		seen:   NewSeenCache(m.seenCapacity),
		state:  StateIdle,
	}
	m.sessions[userID] = sess
	m.mu.Unlock()

	go m.run(sessCtx, sess)
	return nil
}

// Stop 协作式停止：取消会话上下文并等待其完全退出
// 无活动会话时是幂等空操作，返回 false
func (m *Manager) Stop(ctx context.Context, userID int64) (bool, error) {
	m.mu.Lock()
	sess, exists := m.sessions[userID]
	m.mu.Unlock()

	if !exists {
		return false, nil
	}

	sess.cancel()

	select {
	case <-sess.done:
		return true, nil
	case <-ctx.Done():
		return true, ctx.Err()
	}
}

// Status 用户当前会话状态，无会话返回 StateIdle
func (m *Manager) Status(userID int64) State {
	m.mu.Lock()
	sess, exists := m.sessions[userID]
	m.mu.Unlock()

	if !exists {
		return StateIdle
	}
	return sess.State()
}

// ActiveSessions 当前活动会话数
func (m *Manager) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// ActiveUserIDs 当前有活动会话的用户列表
func (m *Manager) ActiveUserIDs() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int64, 0, len(m.sessions))
	for userID := range m.sessions {
		ids = append(ids, userID)
	}
	return ids
}

// release 把会话从管理器中摘除（仅摘除自己）
func (m *Manager) release(sess *Session) {
	m.mu.Lock()
	if current, exists := m.sessions[sess.userID]; exists && current == sess {
		delete(m.sessions, sess.userID)
	}
	m.mu.Unlock()
}

// run 会话主流程：连接 → 加目标群 → 加源群 → 监听直到停止
// 所有退出路径都保证断开客户端并释放会话记录
func (m *Manager) run(ctx context.Context, sess *Session) {
	userID := sess.userID
	log := logger.WithUser(userID)

	var client ChatClient
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Tracking session panic recovered: %v", r)
			m.notifier.Notify(context.Background(), userID, "tracking_failed")
		}
		if client != nil {
			if err := client.Disconnect(); err != nil {
				log.Warnf("Failed to disconnect client: %v", err)
			}
		}
		sess.cancel()
		sess.setState(StateTornDown)
		m.release(sess)
		close(sess.done)
		log.Info("Tracking session torn down")
	}()

	// 连接并校验凭证
	sess.setState(StateConnecting)
	var err error
	client, err = m.clients.Acquire(ctx, userID)
	if err != nil {
		sess.setState(StateError)
		switch {
		case errors.Is(err, ErrNoCredential):
			m.notifier.Notify(ctx, userID, "account_missing")
		case errors.Is(err, ErrUnauthorized):
			m.notifier.Notify(ctx, userID, "account_invalid")
		default:
			log.Errorf("Failed to acquire client: %v", err)
			m.notifier.Notify(ctx, userID, "generic_error")
		}
		return
	}

	// 解析并加入转发目标群，失败则终止
	sess.setState(StateJoiningTarget)
	targetHandle, err := m.config.GetTarget(ctx, userID)
	if err != nil {
		sess.setState(StateError)
		if !errors.Is(err, ErrNoTarget) {
			log.Errorf("Failed to load target group: %v", err)
		}
		m.notifier.Notify(ctx, userID, "target_group_missing")
		return
	}

	targetID, err := m.sub.JoinTarget(ctx, client, targetHandle)
	if err != nil {
		sess.setState(StateError)
		log.Errorf("Failed to join target group: %v", err)
		m.notifier.Notify(ctx, userID, "target_group_missing")
		return
	}
	log.Infof("Target group %s resolved: chat_id=%d", targetHandle, targetID)

	// 批量加入源群，允许部分失败
	sess.setState(StateJoiningSources)
	handles, err := m.config.ListSources(ctx, userID)
	if err != nil {
		sess.setState(StateError)
		log.Errorf("Failed to load tracked sources: %v", err)
		m.notifier.Notify(ctx, userID, "generic_error")
		return
	}

	report := m.sub.JoinAll(ctx, client, userID, handles)
	if ctx.Err() != nil {
		// 停止信号打断了批量加群，直接进入清理
		sess.setState(StateStopping)
		return
	}
	m.notifier.NotifyJoinReport(ctx, userID, len(report.Joined), len(report.Failed), len(report.Pruned))

	chatIDs := report.ChatIDs()
	if len(chatIDs) == 0 {
		sess.setState(StateError)
		log.Warn("Nothing to track after pruning")
		m.notifier.Notify(ctx, userID, "tracking_launch_error")
		return
	}

	// 订阅事件流并监听
	events, err := client.Subscribe(chatIDs)
	if err != nil {
		sess.setState(StateError)
		log.Errorf("Failed to subscribe to %d chats: %v", len(chatIDs), err)
		m.notifier.Notify(ctx, userID, "generic_error")
		return
	}

	sess.setState(StateListening)
	log.Infof("Listening on %d source chats", len(chatIDs))

	for {
		select {
		case <-ctx.Done():
			sess.setState(StateStopping)
			return
		case ev, ok := <-events:
			if !ok {
				// 事件流被远端关闭：连接意外断开
				sess.setState(StateError)
				log.Warn("Event stream closed unexpectedly")
				m.notifier.Notify(context.Background(), userID, "tracking_failed")
				return
			}
			m.processEvent(sess, client, targetID, ev)
		}
	}
}

// processEvent 单条消息处理：去重 → 关键词匹配 → 构造上下文并投递
// 使用独立的超时上下文，停止信号到来时在途处理仍会完成
func (m *Manager) processEvent(sess *Session, client ChatClient, targetID int64, ev MessageEvent) {
	if ev.Text == "" {
		return
	}

	key := DedupeKey{ChatID: ev.ChatID, MessageID: ev.MessageID}
	if sess.seen.Seen(key) {
		return
	}

	opCtx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	keywords, err := m.config.ListKeywords(opCtx, sess.userID)
	if err != nil {
		logger.WithUser(sess.userID).Errorf("Failed to load keywords: %v", err)
		return
	}

	if !Matches(ev.Text, keywords) {
		return
	}

	logger.WithUser(sess.userID).Infof("Keyword match: chat_id=%d message_id=%d", ev.ChatID, ev.MessageID)

	block := BuildContext(opCtx, client, ev)
	ref := MessageRef{ChatID: ev.ChatID, MessageID: ev.MessageID}

	if err := Deliver(opCtx, client, targetID, block, ref); err != nil {
		// 投递失败不标记已读，同样的事件重放时还有机会成功
		logger.WithUser(sess.userID).Errorf("Delivery failed for message %d/%d: %v", ev.ChatID, ev.MessageID, err)
		return
	}

	sess.seen.MarkSeen(key)
}
