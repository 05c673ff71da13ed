package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is a process-local Cache with lazy expiry and a periodic sweep.
type MemoryCache struct {
	config *Config
	now    func() time.Time

	mu    sync.RWMutex
	items map[string]memoryItem

	stopOnce sync.Once
	stopCh   chan struct{}
}

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

func (i memoryItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// NewMemoryCache creates a MemoryCache and starts its sweeper.
func NewMemoryCache(config *Config) *MemoryCache {
	if config == nil {
		config = DefaultConfig()
	}

	mc := &MemoryCache{
		config: config,
		now:    time.Now,
		items:  make(map[string]memoryItem),
		stopCh: make(chan struct{}),
	}

	go mc.sweep(time.Minute)

	return mc
}

func (mc *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	key = mc.config.Prefix + key

	mc.mu.RLock()
	item, ok := mc.items[key]
	mc.mu.RUnlock()

	if !ok || item.expired(mc.now()) {
		return nil, ErrMiss
	}

	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, nil
}

func (mc *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = mc.config.DefaultTTL
	}

	item := memoryItem{value: make([]byte, len(value))}
	copy(item.value, value)
	if ttl > 0 {
		item.expiresAt = mc.now().Add(ttl)
	}

	mc.mu.Lock()
	mc.items[mc.config.Prefix+key] = item
	mc.mu.Unlock()

	return nil
}

func (mc *MemoryCache) Delete(ctx context.Context, key string) error {
	mc.mu.Lock()
	delete(mc.items, mc.config.Prefix+key)
	mc.mu.Unlock()
	return nil
}

func (mc *MemoryCache) Ping(ctx context.Context) error {
	return nil
}

// Close stops the sweeper. It is safe to call more than once.
func (mc *MemoryCache) Close() error {
	mc.stopOnce.Do(func() { close(mc.stopCh) })
	return nil
}

func (mc *MemoryCache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := mc.now()
			mc.mu.Lock()
			for key, item := range mc.items {
				if item.expired(now) {
					delete(mc.items, key)
				}
			}
			mc.mu.Unlock()
		case <-mc.stopCh:
			return
		}
	}
}
