package kafka

import (
	"context"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"

	"github.com/Nest-Microservices-dev/orders-ms/internal/domain"
)

func TestOrderEventPublisher_Publish(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndSucceed()

	publisher := NewOrderEventPublisher(NewProducerFromSync(mockProducer, log.WithField("test", "publisher")), "")
	if publisher.topic != TopicOrderEvents {
		t.Fatalf("expected default topic %s, got %s", TopicOrderEvents, publisher.topic)
	}

	err := publisher.Publish(context.Background(), domain.OrderEvent{
		Type:    domain.OrderEventStatusChanged,
		OrderID: "order-1",
		Status:  domain.OrderStatusDelivered,
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOrderEventPublisher_Errors(t *testing.T) {
	var nilPublisher *OrderEventPublisher
	if err := nilPublisher.Publish(context.Background(), domain.OrderEvent{}); err == nil {
		t.Fatal("expected error for nil publisher")
	}

	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	publisher := NewOrderEventPublisher(NewProducerFromSync(mockProducer, nil), "custom.topic")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := publisher.Publish(ctx, domain.OrderEvent{OrderID: "o-1"}); err == nil {
		t.Fatal("expected context error")
	}

	if err := publisher.Publish(context.Background(), domain.OrderEvent{OrderID: "o-1"}); err == nil {
		t.Fatal("expected send error")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}
