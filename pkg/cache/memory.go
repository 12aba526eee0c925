package cache

import (
	"sync"
	"time"
)

// 基于时间失效的进程内缓存，行情网关用它缓存报价和K线
// 过期条目不会被后台清理，只在读取时判断年龄

type entry[V any] struct {
	value     V
	fetchedAt time.Time
}

type TTLCache[K comparable, V any] struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[K]entry[V]
}

func NewTTL[K comparable, V any](ttl time.Duration) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		ttl:   ttl,
		items: make(map[K]entry[V]),
	}
}

// Get 只返回未过期的条目
func (c *TTLCache[K, V]) Get(k K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.items[k]
	if !ok || time.Since(e.fetchedAt) >= c.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

// GetStale 返回条目及其抓取时间，过期的也返回
// 数据源故障时调用方可以拿过期值做降级提示
func (c *TTLCache[K, V]) GetStale(k K) (V, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.items[k]
	if !ok {
		var zero V
		return zero, time.Time{}, false
	}
	return e.value, e.fetchedAt, true
}

func (c *TTLCache[K, V]) Set(k K, v V) {
	c.mu.Lock()
	c.items[k] = entry[V]{value: v, fetchedAt: time.Now()}
	c.mu.Unlock()
}

func (c *TTLCache[K, V]) Delete(k K) {
	c.mu.Lock()
	delete(c.items, k)
	c.mu.Unlock()
}

func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
