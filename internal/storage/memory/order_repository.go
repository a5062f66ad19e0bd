package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Nest-Microservices-dev/orders-ms/internal/domain"
)

// orderRepositoryInMemory — простая in-memory реализация OrderRepository.
type orderRepositoryInMemory struct {
	mu     sync.RWMutex
	items  map[string]domain.Order
	sorted []string // порядок вставки, аналог естественного порядка таблицы
	now    func() time.Time
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		items: make(map[string]domain.Order),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create сохраняет новый заказ, если ID ещё не занят.
func (r *orderRepositoryInMemory) Create(_ context.Context, order domain.Order) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[order.ID]; exists {
		return domain.Order{}, domain.ErrOrderAlreadyExists
	}

	now := r.now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = order.CreatedAt
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}

	// Название товара не хранится, как и в PostgreSQL.
	items := make([]domain.OrderItem, len(order.Items))
	for i, item := range order.Items {
		item.Name = ""
		items[i] = item
	}
	order.Items = items
	order.Receipt = nil

	r.items[order.ID] = order
	r.sorted = append(r.sorted, order.ID)
	return cloneOrder(order, true), nil
}

// Count возвращает количество заказов под фильтром.
func (r *orderRepositoryInMemory) Count(_ context.Context, filter domain.OrderFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, id := range r.sorted {
		if matches(r.items[id], filter) {
			count++
		}
	}
	return count, nil
}

// FindMany возвращает страницу заказов без позиций.
func (r *orderRepositoryInMemory) FindMany(_ context.Context, filter domain.OrderFilter, skip, take int) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0)
	seen := 0
	for _, id := range r.sorted {
		order := r.items[id]
		if !matches(order, filter) {
			continue
		}
		seen++
		if seen <= skip {
			continue
		}
		if take > 0 && len(result) >= take {
			break
		}
		result = append(result, cloneOrder(order, false))
	}
	return result, nil
}

// FindOne возвращает заказ с позициями или ErrOrderNotFound.
func (r *orderRepositoryInMemory) FindOne(_ context.Context, id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(order, true), nil
}

// UpdateStatus меняет статус заказа.
func (r *orderRepositoryInMemory) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	order.Status = status
	order.UpdatedAt = r.now()
	r.items[id] = order
	return cloneOrder(order, false), nil
}

// MarkPaid переводит заказ в PAID и создаёт либо обновляет чек.
func (r *orderRepositoryInMemory) MarkPaid(_ context.Context, confirmation domain.PaymentConfirmation, paidAt time.Time) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.items[confirmation.OrderID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	paid := paidAt
	order.Status = domain.OrderStatusPaid
	order.Paid = true
	order.PaidAt = &paid
	order.StripeChargeID = confirmation.StripePaymentID
	order.UpdatedAt = r.now()

	if order.Receipt == nil {
		order.Receipt = &domain.OrderReceipt{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			CreatedAt: order.UpdatedAt,
		}
	} else {
		receipt := *order.Receipt
		order.Receipt = &receipt
	}
	order.Receipt.ReceiptURL = confirmation.ReceiptURL

	r.items[order.ID] = order
	return cloneOrder(order, false), nil
}

func matches(order domain.Order, filter domain.OrderFilter) bool {
	return filter.Status == nil || order.Status == *filter.Status
}

// cloneOrder отдаёт копию, чтобы избежать непредсказуемых мутаций извне.
func cloneOrder(order domain.Order, withItems bool) domain.Order {
	if withItems {
		order.Items = append([]domain.OrderItem(nil), order.Items...)
	} else {
		order.Items = nil
	}
	if order.PaidAt != nil {
		paidAt := *order.PaidAt
		order.PaidAt = &paidAt
	}
	if order.Receipt != nil {
		receipt := *order.Receipt
		order.Receipt = &receipt
	}
	return order
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
