package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coffeehouse/pkg/logger"
	"coffeehouse/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	backendRedis  = "redis"
	scanBatchSize = 200
)

// RedisStore кеш в Redis. Все ключи получают префикс экземпляра.
// Недоступность Redis не ломает запросы: ошибка логируется,
// Get возвращает промах, остальные операции ничего не делают.
type RedisStore struct {
	client *redis.Client
	prefix string
	expiry time.Duration
}

func NewRedisStore(client *redis.Client, instanceName string, defaultExpiry time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: instanceName,
		expiry: defaultExpiry,
	}
}

// NewRedisClient подключается к Redis и проверяет соединение
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	timer := metrics.NewCacheTimer(backendRedis, metrics.CacheOpGet)
	defer timer.ObserveDuration()

	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.fail(metrics.CacheOpGet, key, err)
		}
		metrics.RecordCacheMiss(backendRedis, key)
		return nil, false
	}

	metrics.RecordCacheHit(backendRedis, key)
	return data, true
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	timer := metrics.NewCacheTimer(backendRedis, metrics.CacheOpSet)
	defer timer.ObserveDuration()

	if ttl <= 0 {
		ttl = s.expiry
	}

	if err := s.client.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		s.fail(metrics.CacheOpSet, key, err)
	}
}

func (s *RedisStore) Remove(ctx context.Context, key string) {
	timer := metrics.NewCacheTimer(backendRedis, metrics.CacheOpDel)
	defer timer.ObserveDuration()

	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		s.fail(metrics.CacheOpDel, key, err)
	}
}

// Clear удаляет только ключи своего префикса, FLUSHDB не используется
func (s *RedisStore) Clear(ctx context.Context) {
	timer := metrics.NewCacheTimer(backendRedis, metrics.CacheOpClear)
	defer timer.ObserveDuration()

	iter := s.client.Scan(ctx, 0, s.prefix+"*", scanBatchSize).Iterator()
	batch := make([]string, 0, scanBatchSize)

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatchSize {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				s.fail(metrics.CacheOpClear, s.prefix+"*", err)
				return
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		s.fail(metrics.CacheOpClear, s.prefix+"*", err)
		return
	}
	if len(batch) > 0 {
		if err := s.client.Del(ctx, batch...).Err(); err != nil {
			s.fail(metrics.CacheOpClear, s.prefix+"*", err)
		}
	}
}

// Ping используется health check'ом
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) fail(op metrics.CacheOperation, key string, err error) {
	metrics.RecordCacheError(backendRedis, op)
	logger.Error().
		Err(err).
		Str("operation", string(op)).
		Str("key", key).
		Msg("Redis cache operation failed")
}
