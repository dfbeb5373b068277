package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory кеш в памяти процесса на go-cache.
type Memory struct {
	c *gocache.Cache
}

// NewMemory создает кеш с TTL по умолчанию и ежеминутной очисткой.
func NewMemory(defaultTTL time.Duration) *Memory {
	return &Memory{c: gocache.New(defaultTTL, time.Minute)}
}

// Get читает и декодирует значение по ключу.
func (m *Memory) Get(_ context.Context, key string, result any) (bool, error) {
	const op = "cache.Memory.Get"
	v, ok := m.c.Get(key)
	if !ok {
		return false, nil
	}
	b, _ := v.([]byte)
	if err := json.Unmarshal(b, result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Set сохраняет значение. Нулевой expiration означает TTL по умолчанию.
func (m *Memory) Set(_ context.Context, key string, value any, expiration time.Duration) error {
	const op = "cache.Memory.Set"
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if expiration == 0 {
		expiration = gocache.DefaultExpiration
	}
	m.c.Set(key, b, expiration)
	return nil
}

// Close очищает кеш.
func (m *Memory) Close() error {
	m.c.Flush()
	return nil
}
