package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestKeyPrefix(t *testing.T) {
	assert.Equal(t, "coffees", KeyPrefix("coffees:list:page1:size10"))
	assert.Equal(t, "coffee", KeyPrefix("coffee:3f2a"))
	assert.Equal(t, "plain", KeyPrefix("plain"))
	assert.Equal(t, ":odd", KeyPrefix(":odd"))
}

func TestRecordCacheHitAndMiss(t *testing.T) {
	hits := testutil.ToFloat64(CacheHits.WithLabelValues("memory", "categories"))
	misses := testutil.ToFloat64(CacheMisses.WithLabelValues("memory", "categories"))

	RecordCacheHit("memory", "categories:list:page1")
	RecordCacheMiss("memory", "categories:list:page2")
	RecordCacheMiss("memory", "categories:list:page3")

	assert.Equal(t, hits+1, testutil.ToFloat64(CacheHits.WithLabelValues("memory", "categories")))
	assert.Equal(t, misses+2, testutil.ToFloat64(CacheMisses.WithLabelValues("memory", "categories")))
}

func TestCacheHitRatioGauge_ReadsCurrentValue(t *testing.T) {
	// Arrange
	ratio := 0.25
	gauge := NewCacheHitRatioGauge("memory", func() float64 { return ratio })

	// Act & Assert
	assert.Equal(t, 0.25, testutil.ToFloat64(gauge))
	ratio = 0.75
	assert.Equal(t, 0.75, testutil.ToFloat64(gauge))
}

func TestRegisterCacheHitRatio_RejectsDuplicate(t *testing.T) {
	backend := "ratio-test"

	assert.NoError(t, RegisterCacheHitRatio(backend, func() float64 { return 1 }))
	assert.Error(t, RegisterCacheHitRatio(backend, func() float64 { return 1 }))
}

func TestDbTimer_DoneCountsErrors(t *testing.T) {
	before := testutil.ToFloat64(DbErrors.WithLabelValues("test", "select", "coffees"))

	NewDbTimer("test", DbOpSelect, "coffees").Done(nil)
	NewDbTimer("test", DbOpSelect, "coffees").Done(errors.New("connection reset"))

	assert.Equal(t, before+1, testutil.ToFloat64(DbErrors.WithLabelValues("test", "select", "coffees")))
}

func TestGinPrometheusMiddleware_UsesRouteTemplate(t *testing.T) {
	router := gin.New()
	router.Use(GinPrometheusMiddleware("metrics-test"))
	router.GET("/api/v1/coffee/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(HttpRequestsTotal.WithLabelValues("metrics-test", "GET", "/api/v1/coffee/:id", "200"))

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/coffee/"+id, nil))
	}

	assert.Equal(t, before+2, testutil.ToFloat64(HttpRequestsTotal.WithLabelValues("metrics-test", "GET", "/api/v1/coffee/:id", "200")))
}

func TestGinPrometheusMiddleware_SkipsHealth(t *testing.T) {
	router := gin.New()
	router.Use(GinPrometheusMiddleware("metrics-skip"))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, 0.0, testutil.ToFloat64(HttpRequestsTotal.WithLabelValues("metrics-skip", "GET", "/health", "200")))
}
