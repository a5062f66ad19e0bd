package domain

import (
	"context"
	"time"
)

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create атомарно сохраняет заказ вместе с позициями и возвращает сохранённую запись.
	Create(ctx context.Context, order Order) (Order, error)
	// Count возвращает количество заказов под фильтром.
	Count(ctx context.Context, filter OrderFilter) (int, error)
	// FindMany возвращает срез [skip, skip+take) без позиций, в порядке хранилища.
	FindMany(ctx context.Context, filter OrderFilter, skip, take int) ([]Order, error)
	// FindOne возвращает заказ с позициями или ErrOrderNotFound.
	FindOne(ctx context.Context, id string) (Order, error)
	// UpdateStatus меняет статус и возвращает обновлённую строку без позиций.
	UpdateStatus(ctx context.Context, id string, status OrderStatus) (Order, error)
	// MarkPaid атомарно переводит заказ в PAID, фиксирует платёж и создаёт чек.
	MarkPaid(ctx context.Context, confirmation PaymentConfirmation, paidAt time.Time) (Order, error)
}
