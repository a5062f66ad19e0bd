package payments

import (
	"context"
	"fmt"
	"sync"

	"github.com/Nest-Microservices-dev/orders-ms/internal/domain"
)

// MockGateway — конфигурируемая заглушка PaymentGateway для тестов и локального запуска.
type MockGateway struct {
	mu sync.Mutex

	BaseURL    string
	SessionErr error

	SessionCalls int
	Requests     []domain.PaymentSessionRequest
}

// NewMockGateway возвращает mock с успешным сценарием по умолчанию.
func NewMockGateway() *MockGateway {
	return &MockGateway{BaseURL: "http://localhost:3003/payments"}
}

// Calls возвращает количество вызовов CreateSession.
func (m *MockGateway) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SessionCalls
}

// CreateSession запоминает запрос и возвращает детерминированные URL сессии.
func (m *MockGateway) CreateSession(_ context.Context, req domain.PaymentSessionRequest) (domain.PaymentSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SessionCalls++
	m.Requests = append(m.Requests, req)
	if m.SessionErr != nil {
		return domain.PaymentSession{}, m.SessionErr
	}
	return domain.PaymentSession{
		CancelURL:  m.BaseURL + "/cancel",
		SuccessURL: m.BaseURL + "/success",
		URL:        fmt.Sprintf("%s/checkout/%s", m.BaseURL, req.OrderID),
	}, nil
}

var _ domain.PaymentGateway = (*MockGateway)(nil)
