// Package payments содержит клиента платёжного сервиса.
package payments

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"github.com/Nest-Microservices-dev/orders-ms/internal/domain"
	"github.com/Nest-Microservices-dev/orders-ms/internal/transport/rpc"
)

// DefaultTimeout ограничивает один вызов платёжного сервиса.
const DefaultTimeout = 5 * time.Second

// Client реализует domain.PaymentGateway поверх gRPC платёжного сервиса.
type Client struct {
	rpc     rpc.PaymentServiceClient
	timeout time.Duration
	logger  *log.Entry
}

// NewClient создаёт клиента платёжного сервиса.
func NewClient(conn grpc.ClientConnInterface, timeout time.Duration, logger *log.Entry) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.New().WithField("component", "payments-client")
	}
	return &Client{
		rpc:     rpc.NewPaymentServiceClient(conn),
		timeout: timeout,
		logger:  logger,
	}
}

// CreateSession создаёт платёжную сессию для заказа.
func (c *Client) CreateSession(ctx context.Context, req domain.PaymentSessionRequest) (domain.PaymentSession, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	in := &rpc.PaymentSessionRequest{
		OrderID:  req.OrderID,
		Currency: req.Currency,
		Items:    make([]rpc.PaymentSessionItem, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, rpc.PaymentSessionItem{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	resp, err := c.rpc.CreatePaymentSession(ctx, in)
	if err != nil {
		c.logger.WithError(err).WithField("order_id", req.OrderID).Warn("create payment session call failed")
		return domain.PaymentSession{}, fmt.Errorf("create payment session: %w", err)
	}

	return domain.PaymentSession{
		CancelURL:  resp.CancelURL,
		SuccessURL: resp.SuccessURL,
		URL:        resp.URL,
	}, nil
}

var _ domain.PaymentGateway = (*Client)(nil)
