package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryTranslationCache is an in-memory implementation of
// TranslationCache. Suitable for single-instance deployments without
// redis; entries expire lazily on read.
type MemoryTranslationCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	translated string
	expiresAt  time.Time
}

func NewMemoryTranslationCache() *MemoryTranslationCache {
	return &MemoryTranslationCache{entries: make(map[string]memoryEntry)}
}

func (c *MemoryTranslationCache) BuildKey(text, targetLanguage string) string {
	return fmt.Sprintf("%s:%s", targetLanguage, text)
}

func (c *MemoryTranslationCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return "", ErrCacheMiss
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", ErrCacheMiss
	}
	return entry.translated, nil
}

func (c *MemoryTranslationCache) Set(ctx context.Context, key, translated string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{translated: translated, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (c *MemoryTranslationCache) Close() error {
	return nil
}
