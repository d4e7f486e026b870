// internal/cache/ttl.go
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/rovshanmuradov/reclaim-hub/internal/utils/metrics"
)

// TTLCache - потокобезопасный кэш с ограничением размера и временем жизни записей.
// Запись старше ttl никогда не возвращается.
type TTLCache[K comparable, V any] struct {
	name    string
	cache   *expirable.LRU[K, V]
	metrics *metrics.Collector
}

// Option настраивает TTLCache
type Option[K comparable, V any] func(*TTLCache[K, V])

// WithMetrics включает учет попаданий и промахов под указанным именем
func WithMetrics[K comparable, V any](name string, collector *metrics.Collector) Option[K, V] {
	return func(c *TTLCache[K, V]) {
		c.name = name
		c.metrics = collector
	}
}

// NewTTL создает кэш на maxSize записей (0 - без ограничения) со временем жизни ttl
func NewTTL[K comparable, V any](maxSize int, ttl time.Duration, opts ...Option[K, V]) *TTLCache[K, V] {
	c := &TTLCache[K, V]{
		name:  "default",
		cache: expirable.NewLRU[K, V](maxSize, nil, ttl),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get возвращает значение, если оно есть и не устарело
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	value, ok := c.cache.Get(key)
	c.metrics.RecordCacheLookup(c.name, ok)
	return value, ok
}

// Set сохраняет значение и обновляет время его записи
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.cache.Add(key, value)
}

// Delete удаляет запись
func (c *TTLCache[K, V]) Delete(key K) {
	c.cache.Remove(key)
}

// DeleteFunc удаляет все записи, ключ которых удовлетворяет предикату.
// Возвращает количество удаленных записей.
func (c *TTLCache[K, V]) DeleteFunc(match func(K) bool) int {
	removed := 0
	for _, key := range c.cache.Keys() {
		if match(key) && c.cache.Remove(key) {
			removed++
		}
	}
	return removed
}

// Len возвращает количество записей (включая еще не вычищенные устаревшие)
func (c *TTLCache[K, V]) Len() int {
	return c.cache.Len()
}

// Purge очищает кэш
func (c *TTLCache[K, V]) Purge() {
	c.cache.Purge()
}
