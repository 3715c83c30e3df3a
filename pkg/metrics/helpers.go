package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type CacheOperation string

const (
	CacheOpGet    CacheOperation = "get"
	CacheOpSet    CacheOperation = "set"
	CacheOpDel    CacheOperation = "del"
	CacheOpClear  CacheOperation = "clear"
	CacheOpDecode CacheOperation = "decode"
)

type CacheTimer struct {
	backend   string
	operation CacheOperation
	start     time.Time
}

func NewCacheTimer(backend string, op CacheOperation) *CacheTimer {
	return &CacheTimer{
		backend:   backend,
		operation: op,
		start:     time.Now(),
	}
}

func (ct *CacheTimer) ObserveDuration() {
	CacheOperationDuration.WithLabelValues(ct.backend, string(ct.operation)).Observe(time.Since(ct.start).Seconds())
}

func RecordCacheHit(backend, key string) {
	CacheHits.WithLabelValues(backend, KeyPrefix(key)).Inc()
}

func RecordCacheMiss(backend, key string) {
	CacheMisses.WithLabelValues(backend, KeyPrefix(key)).Inc()
}

func RecordCacheError(backend string, op CacheOperation) {
	CacheErrors.WithLabelValues(backend, string(op)).Inc()
}

func RecordCacheInvalidation(entity string, keys int) {
	CacheInvalidations.WithLabelValues(entity).Add(float64(keys))
}

// KeyPrefix первый сегмент ключа до ':' для ограничения кардинальности
func KeyPrefix(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}

func RecordKafkaMessageProduced(service, topic string, duration time.Duration) {
	KafkaMessagesProduced.WithLabelValues(service, topic).Inc()
	KafkaProduceDuration.WithLabelValues(service, topic).Observe(duration.Seconds())
}

func RecordKafkaError(service, topic, operation string) {
	KafkaErrors.WithLabelValues(service, topic, operation).Inc()
}

type DbOperation string

const (
	DbOpSelect DbOperation = "select"
	DbOpInsert DbOperation = "insert"
	DbOpUpdate DbOperation = "update"
	DbOpDelete DbOperation = "delete"
)

type DbTimer struct {
	service   string
	operation DbOperation
	table     string
	start     time.Time
}

func NewDbTimer(service string, op DbOperation, table string) *DbTimer {
	return &DbTimer{
		service:   service,
		operation: op,
		table:     table,
		start:     time.Now(),
	}
}

func (dt *DbTimer) ObserveDuration() {
	DbQueryDuration.WithLabelValues(dt.service, string(dt.operation), dt.table).Observe(time.Since(dt.start).Seconds())
}

// Done фиксирует длительность и, если err != nil, ошибку
func (dt *DbTimer) Done(err error) {
	dt.ObserveDuration()
	if err != nil {
		DbErrors.WithLabelValues(dt.service, string(dt.operation), dt.table).Inc()
	}
}

func RecordCatalogMutation(entity, operation string) {
	CatalogMutations.WithLabelValues(entity, operation).Inc()
}

func RecordCatalogFailure(entity, code string) {
	CatalogFailures.WithLabelValues(entity, code).Inc()
}

func RecordCacheWarmup(entity string, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	CacheWarmupRuns.WithLabelValues(entity, status).Inc()
}

// RegisterCacheHitRatio регистрирует gauge доли попаданий в реестре по умолчанию
func RegisterCacheHitRatio(backend string, ratio func() float64) error {
	return prometheus.Register(NewCacheHitRatioGauge(backend, ratio))
}
