package tracker

import (
	"container/list"
	"strings"
	"sync"
)

// Matches 大小写不敏感的子串匹配：任一关键词出现在文本中即命中
// 不做分词，也不检查词边界；关键词为空时恒为 false
func Matches(text string, keywords []string) bool {
	if len(keywords) == 0 || text == "" {
		return false
	}
	lowered := strings.ToLower(text)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// DedupeKey 去重键：(源聊天 ID, 消息 ID)
type DedupeKey struct {
	ChatID    int64
	MessageID int64
}

// SeenCache 固定容量的 LRU 去重缓存，防止同一条消息被重复转发
// 归会话私有，容量满时淘汰最久未访问的键
type SeenCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // 头部为最近访问
	items    map[DedupeKey]*list.Element
}

// NewSeenCache 创建去重缓存，capacity 小于 1 时取 1
func NewSeenCache(capacity int) *SeenCache {
	if capacity < 1 {
		capacity = 1
	}
	return &SeenCache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[DedupeKey]*list.Element, capacity),
	}
}

// Seen 该键是否已处理过；命中时刷新其新鲜度
func (c *SeenCache) Seen(key DedupeKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if ok {
		c.order.MoveToFront(elem)
	}
	return ok
}

// MarkSeen 标记该键已处理
func (c *SeenCache) MarkSeen(key DedupeKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		return
	}

	c.items[key] = c.order.PushFront(key)

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(DedupeKey))
	}
}

// Len 当前缓存的键数量
func (c *SeenCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
