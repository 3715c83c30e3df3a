package messaging

import (
	"errors"
	"testing"
	"time"

	"coffeehouse/coffee-service/internal/app/coffee/infrastructure"
	"coffeehouse/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

var _ infrastructure.MessagePublisher = (*KafkaProducer)(nil)

func TestNewKafkaProducer(t *testing.T) {
	p := NewKafkaProducer([]string{"localhost:9092", "localhost:9093"}, "catalog_events")

	assert.Equal(t, "catalog_events", p.writer.Topic)
	assert.True(t, p.writer.Async)
	assert.NotNil(t, p.writer.Completion)
}

func TestKafkaProducer_CompletionRecordsMetrics(t *testing.T) {
	p := NewKafkaProducer([]string{"localhost:9092"}, "completion_test")
	messages := []kafka.Message{{Time: time.Now()}, {Time: time.Now()}}

	produced := testutil.ToFloat64(metrics.KafkaMessagesProduced.WithLabelValues(serviceName, "completion_test"))
	failed := testutil.ToFloat64(metrics.KafkaErrors.WithLabelValues(serviceName, "completion_test", "produce"))

	p.completion(messages, nil)
	p.completion(messages[:1], errors.New("leader not available"))

	assert.Equal(t, produced+2, testutil.ToFloat64(metrics.KafkaMessagesProduced.WithLabelValues(serviceName, "completion_test")))
	assert.Equal(t, failed+1, testutil.ToFloat64(metrics.KafkaErrors.WithLabelValues(serviceName, "completion_test", "produce")))
}
