// Package products содержит клиента каталога товаров.
package products

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Nest-Microservices-dev/orders-ms/internal/domain"
	"github.com/Nest-Microservices-dev/orders-ms/internal/transport/rpc"
)

// DefaultTimeout ограничивает один вызов каталога.
const DefaultTimeout = 3 * time.Second

// Client реализует domain.ProductValidator поверх gRPC сервиса каталога.
type Client struct {
	rpc     rpc.ProductServiceClient
	timeout time.Duration
	logger  *log.Entry
}

// NewClient создаёт клиента каталога поверх соединения.
func NewClient(conn grpc.ClientConnInterface, timeout time.Duration, logger *log.Entry) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.New().WithField("component", "products-client")
	}
	return &Client{
		rpc:     rpc.NewProductServiceClient(conn),
		timeout: timeout,
		logger:  logger,
	}
}

// Validate запрашивает товары по ID. Отсутствие хотя бы одного товара — ErrProductNotFound.
func (c *Client) Validate(ctx context.Context, ids []int64) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.rpc.ValidateProducts(ctx, &rpc.ValidateProductsRequest{IDs: ids})
	if err != nil {
		switch status.Code(err) {
		case codes.NotFound, codes.InvalidArgument:
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, status.Convert(err).Message())
		default:
			c.logger.WithError(err).WithField("product_ids", ids).Warn("validate products call failed")
			return nil, fmt.Errorf("validate products: %w", err)
		}
	}

	products := make([]domain.Product, 0, len(resp.Products))
	for _, p := range resp.Products {
		products = append(products, domain.Product{ID: p.ID, Name: p.Name, Price: p.Price})
	}

	index := domain.ProductsByID(products)
	for _, id := range ids {
		if _, ok := index[id]; !ok {
			return nil, fmt.Errorf("%w: %d", domain.ErrProductNotFound, id)
		}
	}
	return products, nil
}

var _ domain.ProductValidator = (*Client)(nil)
