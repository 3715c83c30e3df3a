package messaging

import (
	"context"
	"fmt"
	"time"

	"coffeehouse/pkg/logger"
	"coffeehouse/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

const serviceName = "coffee-service"

// KafkaProducer асинхронная отправка событий каталога.
// WriteMessages не ждёт брокера, результат доставки
// обрабатывается в Completion.
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	p := &KafkaProducer{topic: topic}
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Completion:   p.completion,
	}
	return p
}

func (p *KafkaProducer) PublishMessage(ctx context.Context, key string, value []byte) error {
	message := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		metrics.RecordKafkaError(serviceName, p.topic, "produce")
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}
	return nil
}

func (p *KafkaProducer) completion(messages []kafka.Message, err error) {
	if err != nil {
		for range messages {
			metrics.RecordKafkaError(serviceName, p.topic, "produce")
		}
		logger.Error().
			Err(err).
			Str("topic", p.topic).
			Int("messages", len(messages)).
			Msg("Failed to deliver catalog events")
		return
	}

	for _, m := range messages {
		metrics.RecordKafkaMessageProduced(serviceName, p.topic, time.Since(m.Time))
	}
	logger.Debug().Str("topic", p.topic).Int("messages", len(messages)).Msg("Catalog events delivered")
}

// Close дожидается отправки буфера и закрывает writer
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
