package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан и ожидает оплаты.
	OrderStatusPending OrderStatus = "PENDING"
	// OrderStatusPaid — оплата подтверждена платёжным шлюзом.
	OrderStatusPaid OrderStatus = "PAID"
	// OrderStatusDelivered — заказ доставлен клиенту.
	OrderStatusDelivered OrderStatus = "DELIVERED"
	// OrderStatusCancelled — заказ отменён.
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// OrderStatuses перечисляет все поддерживаемые статусы в порядке жизненного цикла.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Valid проверяет, что статус относится к поддерживаемым значениям.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// ParseOrderStatus разбирает статус без учёта регистра и пробелов по краям.
func ParseOrderStatus(value string) (OrderStatus, error) {
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(value)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
	}
	return status, nil
}

// CheckStatusChange проверяет ручную смену статуса from -> to.
// Статус PAID устанавливается только подтверждением оплаты вместе с paid, paid_at и чеком,
// поэтому ручной переход в PAID и из PAID запрещён.
func CheckStatusChange(from, to OrderStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if to == OrderStatusPaid {
		return fmt.Errorf("%w: %s is set by payment confirmation", ErrStatusChangeNotAllowed, OrderStatusPaid)
	}
	if from == OrderStatusPaid {
		return fmt.Errorf("%w: paid order cannot move to %s", ErrStatusChangeNotAllowed, to)
	}
	return nil
}

// OrderItem представляет одну позицию заказа.
type OrderItem struct {
	ID string
	// ProductID — идентификатор товара во внешнем каталоге.
	ProductID int64
	Quantity  int32
	// Price — цена за единицу, зафиксированная в момент создания заказа.
	Price decimal.Decimal
	// Name не хранится в базе: заполняется при чтении из каталога товаров.
	Name string
}

// OrderReceipt хранит ссылку на чек платёжного провайдера.
type OrderReceipt struct {
	ID         string
	OrderID    string
	ReceiptURL string
	CreatedAt  time.Time
}

// Order агрегирует состояние заказа и его позиции.
type Order struct {
	ID             string
	TotalAmount    decimal.Decimal
	TotalItems     int32
	Status         OrderStatus
	Paid           bool
	PaidAt         *time.Time
	StripeChargeID string
	Items          []OrderItem
	Receipt        *OrderReceipt
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Totals возвращает сумму price*quantity и общее количество единиц по всем позициям.
func Totals(items []OrderItem) (decimal.Decimal, int32) {
	amount := decimal.Zero
	var count int32
	for _, item := range items {
		amount = amount.Add(item.Price.Mul(decimal.NewFromInt32(item.Quantity)))
		count += item.Quantity
	}
	return amount, count
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if o.TotalAmount.IsNegative() {
		errs = append(errs, ErrAmountNegative)
	}
	if !o.Status.Valid() {
		errs = append(errs, ErrInvalidStatus)
	}

	for _, item := range o.Items {
		if item.Quantity <= 0 {
			errs = append(errs, ErrItemQuantityInvalid)
		}
		if item.Price.IsNegative() {
			errs = append(errs, ErrItemPriceInvalid)
		}
	}

	// Сверяем итоги заказа с позициями.
	amount, count := Totals(o.Items)
	if !amount.Equal(o.TotalAmount) {
		errs = append(errs, ErrAmountMismatch)
	}
	if count != o.TotalItems {
		errs = append(errs, ErrItemsCountMismatch)
	}

	if o.Paid && o.PaidAt == nil {
		errs = append(errs, ErrPaidAtRequired)
	}

	return errs
}

// ProductIDs возвращает уникальные идентификаторы товаров в порядке первого появления.
func (o *Order) ProductIDs() []int64 {
	ids := make([]int64, 0, len(o.Items))
	seen := make(map[int64]struct{}, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
