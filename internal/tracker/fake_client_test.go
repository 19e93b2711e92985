package tracker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// fakeClient 测试用的 ChatClient 实现
type fakeClient struct {
	mu sync.Mutex

	authorized   bool
	connectErr   error
	subscribeErr error
	sendErr      error
	forwardErr   error

	entities    map[string]*Entity      // 按 handle 或 chat_id 字符串索引
	joinResults map[string][]JoinResult // 每个 handle 的顺序结果

	joinCalls    []string
	leftHandles  []string
	sentTexts    []string
	forwarded    []MessageRef
	connected    bool
	disconnected bool

	events    chan MessageEvent
	closeOnce sync.Once
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		authorized:  true,
		entities:    make(map[string]*Entity),
		joinResults: make(map[string][]JoinResult),
		events:      make(chan MessageEvent, 16),
	}
}

func (f *fakeClient) addEntity(handle string, e *Entity) {
	f.entities[handle] = e
	f.entities[strconv.FormatInt(e.ID, 10)] = e
}

func (f *fakeClient) queueJoin(handle string, results ...JoinResult) {
	f.joinResults[handle] = append(f.joinResults[handle], results...)
}

func (f *fakeClient) Connect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	return nil
}

func (f *fakeClient) IsAuthorized(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authorized, nil
}

func (f *fakeClient) GetEntity(ctx context.Context, handle string) (*Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.entities[handle]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("entity not found: %s", handle)
}

func (f *fakeClient) Join(ctx context.Context, handle string) JoinResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.joinCalls = append(f.joinCalls, handle)

	if queue := f.joinResults[handle]; len(queue) > 0 {
		res := queue[0]
		f.joinResults[handle] = queue[1:]
		return res
	}

	// 默认：handle 已知则加入成功（ID 留给调用方解析），未知则视为无效
	if _, ok := f.entities[handle]; ok {
		return JoinResult{Status: JoinJoined}
	}
	return JoinResult{Status: JoinInvalidHandle}
}

func (f *fakeClient) Leave(ctx context.Context, handle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leftHandles = append(f.leftHandles, handle)
	return nil
}

func (f *fakeClient) Subscribe(chatIDs []int64) (<-chan MessageEvent, error) {
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	return f.events, nil
}

func (f *fakeClient) Send(ctx context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sentTexts = append(f.sentTexts, text)
	return nil
}

func (f *fakeClient) Forward(ctx context.Context, chatID int64, ref MessageRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.forwardErr != nil {
		return f.forwardErr
	}
	f.forwarded = append(f.forwarded, ref)
	return nil
}

func (f *fakeClient) Disconnect() error {
	f.mu.Lock()
	f.disconnected = true
	f.mu.Unlock()
	f.closeOnce.Do(func() { close(f.events) })
	return nil
}

func (f *fakeClient) forwardCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.forwarded)
}

func (f *fakeClient) isDisconnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.disconnected
}

// fakeProvider 测试用的 ClientProvider
type fakeProvider struct {
	client ChatClient
	err    error
}

func (p *fakeProvider) Acquire(ctx context.Context, userID int64) (ChatClient, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.client, nil
}

// fakeConfig 测试用的 ConfigStore
type fakeConfig struct {
	mu       sync.Mutex
	sources  []string
	keywords []string
	target   string
	pruned   []string
}

func (c *fakeConfig) ListSources(ctx context.Context, userID int64) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sources...), nil
}

func (c *fakeConfig) ListKeywords(ctx context.Context, userID int64) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.keywords...), nil
}

func (c *fakeConfig) GetTarget(ctx context.Context, userID int64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.target == "" {
		return "", ErrNoTarget
	}
	return c.target, nil
}

func (c *fakeConfig) PruneSource(ctx context.Context, userID int64, handle string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pruned = append(c.pruned, handle)
	kept := c.sources[:0]
	for _, h := range c.sources {
		if h != handle {
			kept = append(kept, h)
		}
	}
	c.sources = kept
	return nil
}

func (c *fakeConfig) prunedHandles() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.pruned...)
}

// fakeNotifier 记录发给用户的通知键
type fakeNotifier struct {
	mu   sync.Mutex
	keys []string
}

func (n *fakeNotifier) Notify(ctx context.Context, userID int64, key string, args ...interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.keys = append(n.keys, key)
}

func (n *fakeNotifier) NotifyJoinReport(ctx context.Context, userID int64, joined, failed, pruned int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.keys = append(n.keys, "join_report")
}

func (n *fakeNotifier) received(key string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, k := range n.keys {
		if k == key {
			return true
		}
	}
	return false
}
