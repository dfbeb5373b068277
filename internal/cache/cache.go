// Package cache предоставляет кеш для поиска API-токенов: Redis, если он
// настроен, иначе кеш в памяти процесса. Значения хранятся в JSON.
package cache

import (
	"context"
	"time"
)

// Cache описывает кеш "ключ -> JSON-значение".
type Cache interface {
	// Get читает значение в result. При промахе возвращается (false, nil).
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Close() error
}
