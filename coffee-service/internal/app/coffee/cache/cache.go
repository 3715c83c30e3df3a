// Package cache содержит абстракцию кеша каталога и две её реализации:
// in-memory на ristretto и Redis.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"coffeehouse/pkg/logger"
	"coffeehouse/pkg/metrics"
)

// Store контракт кеша. Ошибки хранилища не возвращаются вызывающему:
// реализации логируют их и ведут себя как промах (Get) или no-op (Set, Remove).
// ttl <= 0 означает время жизни по умолчанию для бэкенда.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Remove(ctx context.Context, key string)
	Clear(ctx context.Context)
}

// Get читает значение и декодирует его из JSON.
// Повреждённая запись удаляется и считается промахом.
func Get[T any](ctx context.Context, s Store, key string) (T, bool) {
	var value T

	data, ok := s.Get(ctx, key)
	if !ok {
		return value, false
	}

	if err := json.Unmarshal(data, &value); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Dropping undecodable cache entry")
		metrics.RecordCacheError("codec", metrics.CacheOpDecode)
		s.Remove(ctx, key)
		var zero T
		return zero, false
	}

	return value, true
}

// Set кодирует значение в JSON и сохраняет его. В кеше лежит копия,
// поэтому изменения исходного значения после Set на запись не влияют.
func Set[T any](ctx context.Context, s Store, key string, value T, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Failed to encode cache entry")
		return
	}
	s.Set(ctx, key, data, ttl)
}
