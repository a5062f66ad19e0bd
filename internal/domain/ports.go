package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ProductValidator описывает взаимодействие с каталогом товаров.
type ProductValidator interface {
	// Validate возвращает записи для всех запрошенных ID. Если хотя бы одного
	// товара нет, возвращается ошибка.
	Validate(ctx context.Context, ids []int64) ([]Product, error)
}

// PaymentGateway описывает взаимодействие с платёжным сервисом.
type PaymentGateway interface {
	// CreateSession создаёт платёжную сессию для заказа.
	CreateSession(ctx context.Context, req PaymentSessionRequest) (PaymentSession, error)
}

// EventPublisher публикует доменные события заказа во внешнюю шину.
type EventPublisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}

// OrderEventType задаёт тип доменного события.
type OrderEventType string

const (
	OrderEventCreated       OrderEventType = "order.created"
	OrderEventStatusChanged OrderEventType = "order.status_changed"
	OrderEventPaid          OrderEventType = "order.paid"
)

// OrderEvent — событие жизненного цикла заказа.
type OrderEvent struct {
	Type        OrderEventType
	OrderID     string
	Status      OrderStatus
	TotalAmount decimal.Decimal
	TotalItems  int32
	OccurredAt  time.Time
}

// NewOrderEvent создаёт событие по текущему состоянию заказа.
func NewOrderEvent(eventType OrderEventType, order Order) OrderEvent {
	return OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		TotalItems:  order.TotalItems,
		OccurredAt:  time.Now().UTC(),
	}
}
