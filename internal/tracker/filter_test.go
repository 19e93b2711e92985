package tracker

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		keywords []string
		want     bool
	}{
		{"case insensitive", "Hello WORLD", []string{"world"}, true},
		{"no match", "foobar", []string{"baz"}, false},
		{"empty keyword set", "anything at all", nil, false},
		{"empty text", "", []string{"sale"}, false},
		{"substring not word boundary", "пересдача", []string{"сдача"}, true},
		{"phrase keyword", "Big SALE today only", []string{"sale today"}, true},
		{"mixed case keyword", "скидка на квартиры", []string{"СКИДКА"}, true},
		{"second keyword matches", "ищу работу", []string{"продам", "работ"}, true},
		{"stem matches inflected form", "сдам квартиру недорого", []string{"квартир"}, true},
		{"inflected form misses nominative keyword", "сдам квартиру недорого", []string{"квартира"}, false},
		{"blank keyword ignored", "whatever", []string{""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.text, tt.keywords))
		})
	}
}

func TestSeenCacheMarkAndCheck(t *testing.T) {
	cache := NewSeenCache(10)
	key := DedupeKey{ChatID: -1001918436153, MessageID: 42}

	assert.False(t, cache.Seen(key))
	cache.MarkSeen(key)
	assert.True(t, cache.Seen(key))

	// 重复标记不增长
	cache.MarkSeen(key)
	assert.Equal(t, 1, cache.Len())
}

func TestSeenCacheEvictsOldest(t *testing.T) {
	cache := NewSeenCache(3)
	for i := int64(1); i <= 4; i++ {
		cache.MarkSeen(DedupeKey{ChatID: -100, MessageID: i})
	}

	assert.Equal(t, 3, cache.Len())
	assert.False(t, cache.Seen(DedupeKey{ChatID: -100, MessageID: 1}), "oldest key should be evicted")
	assert.True(t, cache.Seen(DedupeKey{ChatID: -100, MessageID: 4}))
}

func TestSeenCacheRefreshOnCheck(t *testing.T) {
	cache := NewSeenCache(2)
	first := DedupeKey{ChatID: -100, MessageID: 1}
	second := DedupeKey{ChatID: -100, MessageID: 2}

	cache.MarkSeen(first)
	cache.MarkSeen(second)

	// 访问 first 刷新新鲜度，随后插入第三个键应淘汰 second
	cache.Seen(first)
	cache.MarkSeen(DedupeKey{ChatID: -100, MessageID: 3})

	assert.True(t, cache.Seen(first))
	assert.False(t, cache.Seen(second))
}

func TestSeenCacheMinimumCapacity(t *testing.T) {
	cache := NewSeenCache(0)
	for i := int64(0); i < 5; i++ {
		cache.MarkSeen(DedupeKey{ChatID: -100, MessageID: i})
	}
	assert.Equal(t, 1, cache.Len())
}

func BenchmarkMatches(b *testing.B) {
	keywords := make([]string, 50)
	for i := range keywords {
		keywords[i] = fmt.Sprintf("keyword%d", i)
	}
	text := "a reasonably long chat message that mentions keyword49 somewhere near the end"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Matches(text, keywords)
	}
}
