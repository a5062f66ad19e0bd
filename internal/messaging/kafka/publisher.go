package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/Nest-Microservices-dev/orders-ms/internal/domain"
)

// OrderEventPublisher публикует события заказа в заданный Kafka topic.
type OrderEventPublisher struct {
	producer *Producer
	topic    string
}

// NewOrderEventPublisher создаёт Kafka-паблишер событий заказа.
func NewOrderEventPublisher(producer *Producer, topic string) *OrderEventPublisher {
	if topic == "" {
		topic = TopicOrderEvents
	}
	return &OrderEventPublisher{
		producer: producer,
		topic:    topic,
	}
}

// Publish отправляет событие с ключом order_id, чтобы события одного заказа попадали в одну партицию.
func (p *OrderEventPublisher) Publish(ctx context.Context, event domain.OrderEvent) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka order event publisher is not initialized")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	header := sarama.RecordHeader{Key: []byte(HeaderEventType), Value: []byte(event.Type)}
	return p.producer.PublishEvent(p.topic, event.OrderID, NewOrderEventMessage(event), header)
}

var _ domain.EventPublisher = (*OrderEventPublisher)(nil)
