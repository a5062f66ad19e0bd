package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/shopspring/decimal"

	"github.com/Nest-Microservices-dev/orders-ms/internal/domain"
)

// Topics для Kafka
const (
	TopicOrderEvents      = "orders.events"
	TopicPaymentSucceeded = "payments.succeeded"
	TopicDeadLetterQueue  = "orders.dlq" // Dead Letter Queue для failed messages
)

// Kafka headers для retry логики и DLQ
const (
	HeaderRetryCount    = "x-retry-count"
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
	HeaderEventType     = "x-event-type"
)

// OrderEventMessage — сообщение о событии заказа в topic orders.events.
type OrderEventMessage struct {
	EventType   domain.OrderEventType `json:"event_type"`
	OrderID     string                `json:"order_id"`
	Status      string                `json:"status"`
	TotalAmount decimal.Decimal       `json:"total_amount"`
	TotalItems  int32                 `json:"total_items"`
	Timestamp   time.Time             `json:"timestamp"`
}

// NewOrderEventMessage строит сообщение из доменного события.
func NewOrderEventMessage(event domain.OrderEvent) *OrderEventMessage {
	ts := event.OccurredAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return &OrderEventMessage{
		EventType:   event.Type,
		OrderID:     event.OrderID,
		Status:      string(event.Status),
		TotalAmount: event.TotalAmount,
		TotalItems:  event.TotalItems,
		Timestamp:   ts,
	}
}

// PaymentSucceededEvent публикует платёжный сервис после успешной оплаты.
type PaymentSucceededEvent struct {
	StripePaymentID string `json:"stripePaymentId"`
	OrderID         string `json:"orderId"`
	ReceiptURL      string `json:"receiptUrl"`
}

// Confirmation переводит событие в доменное подтверждение оплаты.
func (e PaymentSucceededEvent) Confirmation() domain.PaymentConfirmation {
	return domain.PaymentConfirmation{
		OrderID:         e.OrderID,
		StripePaymentID: e.StripePaymentID,
		ReceiptURL:      e.ReceiptURL,
	}
}

// ParsePaymentSucceeded парсит PaymentSucceededEvent из сообщения
func ParsePaymentSucceeded(message *sarama.ConsumerMessage) (*PaymentSucceededEvent, error) {
	var event PaymentSucceededEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment succeeded event: %w", err)
	}
	return &event, nil
}

// ParseOrderEvent парсит OrderEventMessage из сообщения
func ParseOrderEvent(message *sarama.ConsumerMessage) (*OrderEventMessage, error) {
	var event OrderEventMessage
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order event: %w", err)
	}
	return &event, nil
}
