package infrastructure

import "context"

// MessagePublisher отправка событий каталога во внешнюю очередь (Kafka)
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}
