package services

import (
	"sync"
	"time"

	"github.com/iota-uz/treesync/pkg/tree"
)

type cachedForest struct {
	Forest   tree.Forest
	Records  int
	LoadedAt time.Time
}

type forestCache struct {
	mu      sync.RWMutex
	entries map[string]cachedForest
}

func newForestCache() *forestCache {
	return &forestCache{entries: make(map[string]cachedForest)}
}

func (c *forestCache) Get(kind string) (cachedForest, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[kind]
	return v, ok
}

func (c *forestCache) Set(kind string, value cachedForest) {
	if kind == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[kind] = value
}

func (c *forestCache) Invalidate(kind string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[kind]
	delete(c.entries, kind)
	return ok
}

func (c *forestCache) InvalidateAll() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[string]cachedForest)
	return n
}
