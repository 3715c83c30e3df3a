package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP Метрики
// =============================================================================

// HttpRequestsTotal - счётчик всех HTTP запросов
// Пример запроса PromQL: rate(http_requests_total{service="coffee-service"}[5m])
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - гистограмма времени ответа
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

// HttpRequestsInFlight - текущее количество обрабатываемых запросов
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// Database Метрики
// =============================================================================

// DbQueryDuration - время выполнения SQL запросов
var DbQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "table"},
)

// DbErrors - счётчик ошибок базы данных
var DbErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Total number of database errors",
	},
	[]string{"service", "operation", "table"},
)

// =============================================================================
// Cache Метрики (backend: memory, redis)
// =============================================================================

// CacheHits - попадания в кеш
var CacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total number of cache hits",
	},
	[]string{"backend", "key_prefix"},
)

// CacheMisses - промахи кеша
var CacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total number of cache misses",
	},
	[]string{"backend", "key_prefix"},
)

// CacheOperationDuration - время операций с кешем
var CacheOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "cache_operation_duration_seconds",
		Help:    "Duration of cache operations in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	},
	[]string{"backend", "operation"},
)

// CacheErrors - ошибки кеша; запрос при этом не падает
var CacheErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cache_errors_total",
		Help: "Total number of cache backend errors",
	},
	[]string{"backend", "operation"},
)

// CacheInvalidations - удалённые при записи ключи
var CacheInvalidations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cache_invalidated_keys_total",
		Help: "Total number of cache keys removed on writes",
	},
	[]string{"entity"},
)

// =============================================================================
// Kafka Метрики
// =============================================================================

// KafkaMessagesProduced - отправленные сообщения
var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

// KafkaProduceDuration - время отправки сообщения
var KafkaProduceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_produce_duration_seconds",
		Help:    "Duration of Kafka produce operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"service", "topic"},
)

// KafkaErrors - ошибки Kafka
var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"},
)

// =============================================================================
// Business Метрики
// =============================================================================

// CatalogMutations - успешные изменения каталога
// Labels: entity (coffee, category, ingredient), operation (create, update, delete)
var CatalogMutations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_mutations_total",
		Help: "Total number of successful catalog mutations",
	},
	[]string{"entity", "operation"},
)

// CatalogFailures - неуспешные операции по коду ошибки
var CatalogFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_failures_total",
		Help: "Total number of failed catalog operations by error code",
	},
	[]string{"entity", "code"},
)

// CacheWarmupRuns - запуски прогрева кеша
var CacheWarmupRuns = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cache_warmup_runs_total",
		Help: "Total number of list cache warm-up runs",
	},
	[]string{"entity", "status"}, // success, failed
)

// NewCacheHitRatioGauge - доля попаданий кеша, значение читается при каждом сборе
func NewCacheHitRatioGauge(backend string, ratio func() float64) prometheus.GaugeFunc {
	return prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name:        "cache_hit_ratio",
			Help:        "Cache hit ratio reported by the cache backend",
			ConstLabels: prometheus.Labels{"backend": backend},
		},
		ratio,
	)
}
