package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"coffeehouse/pkg/logger"
	"coffeehouse/pkg/metrics"

	"github.com/dgraph-io/ristretto"
)

const backendMemory = "memory"

// MemoryConfig настройки in-memory кеша
type MemoryConfig struct {
	MaxCost       int64         // Бюджет в байтах закодированных значений
	DefaultExpiry time.Duration // Абсолютное время жизни, если ttl не задан
	SlidingExpiry time.Duration // Запись без обращений дольше окна считается истёкшей; 0 - выключено
}

// MemoryStore кеш в памяти процесса поверх ristretto.
// Абсолютное истечение задаётся TTL ristretto, скользящее
// проверяется по времени последнего обращения к записи.
type MemoryStore struct {
	cache   *ristretto.Cache
	expiry  time.Duration
	sliding time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	data       []byte
	expiresAt  int64        // unix nano
	lastAccess atomic.Int64 // unix nano
}

func NewMemoryStore(cfg MemoryConfig) (*MemoryStore, error) {
	if cfg.MaxCost <= 0 {
		return nil, errors.New("cache: max cost must be positive")
	}
	if cfg.DefaultExpiry <= 0 {
		return nil, errors.New("cache: default expiry must be positive")
	}

	// NumCounters ~ 10x ожидаемого числа записей при средней записи ~1KB
	counters := cfg.MaxCost / 100
	if counters < 1000 {
		counters = 1000
	}

	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: counters,
		MaxCost:     cfg.MaxCost,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, err
	}

	return &MemoryStore{
		cache:   c,
		expiry:  cfg.DefaultExpiry,
		sliding: cfg.SlidingExpiry,
		now:     time.Now,
	}, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	timer := metrics.NewCacheTimer(backendMemory, metrics.CacheOpGet)
	defer timer.ObserveDuration()

	v, ok := s.cache.Get(key)
	if !ok {
		metrics.RecordCacheMiss(backendMemory, key)
		return nil, false
	}

	entry, ok := v.(*memoryEntry)
	if !ok {
		s.cache.Del(key)
		metrics.RecordCacheMiss(backendMemory, key)
		return nil, false
	}

	now := s.now().UnixNano()
	if now >= entry.expiresAt || (s.sliding > 0 && now-entry.lastAccess.Load() > int64(s.sliding)) {
		s.cache.Del(key)
		metrics.RecordCacheMiss(backendMemory, key)
		return nil, false
	}

	entry.lastAccess.Store(now)
	metrics.RecordCacheHit(backendMemory, key)
	return entry.data, true
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.expiry
	}

	now := s.now()
	entry := &memoryEntry{
		data:      value,
		expiresAt: now.Add(ttl).UnixNano(),
	}
	entry.lastAccess.Store(now.UnixNano())

	if !s.cache.SetWithTTL(key, entry, int64(len(value)), ttl) {
		logger.Debug().Str("key", key).Msg("Cache entry rejected by admission policy")
		metrics.RecordCacheError(backendMemory, metrics.CacheOpSet)
		return
	}
	// запись видна следующему Get сразу после Set
	s.cache.Wait()
}

func (s *MemoryStore) Remove(_ context.Context, key string) {
	s.cache.Del(key)
}

func (s *MemoryStore) Clear(_ context.Context) {
	s.cache.Clear()
}

// Ratio доля попаданий по статистике ristretto
func (s *MemoryStore) Ratio() float64 {
	return s.cache.Metrics.Ratio()
}

func (s *MemoryStore) Close() {
	s.cache.Wait()
	s.cache.Close()
}
