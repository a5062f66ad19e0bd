package products

import (
	"context"
	"fmt"
	"sync"

	"github.com/Nest-Microservices-dev/orders-ms/internal/domain"
)

// MockValidator — конфигурируемая заглушка ProductValidator для тестов и локального запуска.
type MockValidator struct {
	mu      sync.Mutex
	catalog map[int64]domain.Product

	ValidateErr   error
	ValidateCalls int
	LastIDs       []int64
}

// NewMockValidator возвращает mock с заданным каталогом.
func NewMockValidator(catalog ...domain.Product) *MockValidator {
	m := &MockValidator{catalog: make(map[int64]domain.Product, len(catalog))}
	for _, p := range catalog {
		m.catalog[p.ID] = p
	}
	return m
}

// Put добавляет или заменяет товар в каталоге.
func (m *MockValidator) Put(product domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog[product.ID] = product
}

// Calls возвращает количество вызовов Validate.
func (m *MockValidator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ValidateCalls
}

// Validate возвращает товары из каталога или ErrProductNotFound для первого отсутствующего ID.
func (m *MockValidator) Validate(_ context.Context, ids []int64) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ValidateCalls++
	m.LastIDs = append([]int64(nil), ids...)
	if m.ValidateErr != nil {
		return nil, m.ValidateErr
	}

	result := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		p, ok := m.catalog[id]
		if !ok {
			return nil, fmt.Errorf("%w: %d", domain.ErrProductNotFound, id)
		}
		result = append(result, p)
	}
	return result, nil
}

var _ domain.ProductValidator = (*MockValidator)(nil)
