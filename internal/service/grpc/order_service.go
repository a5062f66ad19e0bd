package grpcsvc

import (
	"context"
	"errors"
	"fmt"

	validatorv10 "github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Nest-Microservices-dev/orders-ms/internal/domain"
	"github.com/Nest-Microservices-dev/orders-ms/internal/service/orders"
	"github.com/Nest-Microservices-dev/orders-ms/internal/transport/rpc"
)

// invalidProductsMessage отдаётся клиенту вместо конкретной причины, причина остаётся в логах.
const invalidProductsMessage = "One or more products not found, check logs"

// OrderService реализует gRPC API поверх оркестратора заказов.
type OrderService struct {
	rpc.UnimplementedOrderServiceServer

	orders   orders.Orchestrator
	validate *validatorv10.Validate
	logger   *log.Entry
}

// NewOrderService конструирует сервис с зависимостями.
func NewOrderService(orchestrator orders.Orchestrator, logger *log.Entry) *OrderService {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &OrderService{
		orders:   orchestrator,
		validate: newValidator(),
		logger:   logger,
	}
}

// CreateOrder создаёт заказ и сразу запрашивает для него платёжную сессию.
// Если сессию получить не удалось, заказ всё равно возвращается без неё.
func (s *OrderService) CreateOrder(ctx context.Context, req *rpc.CreateOrderRequest) (*rpc.CreateOrderResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	order, err := s.orders.Create(ctx, toCreateItems(req.Items))
	if err != nil {
		return nil, s.toStatus(err, "CreateOrder", "")
	}

	resp := &rpc.CreateOrderResponse{Order: *toRPCOrder(order)}

	session, err := s.orders.CreatePaymentSession(ctx, order)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("order created without payment session")
		return resp, nil
	}
	resp.PaymentSession = toRPCSession(session)

	return resp, nil
}

// FindAllOrders возвращает страницу заказов.
func (s *OrderService) FindAllOrders(ctx context.Context, req *rpc.FindAllOrdersRequest) (*rpc.FindAllOrdersResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	query, err := toListQuery(req)
	if err != nil {
		return nil, s.toStatus(err, "FindAllOrders", "")
	}

	page, err := s.orders.FindAll(ctx, query)
	if err != nil {
		return nil, s.toStatus(err, "FindAllOrders", "")
	}
	return toRPCPage(page), nil
}

// FindOneOrder возвращает заказ с позициями.
func (s *OrderService) FindOneOrder(ctx context.Context, req *rpc.FindOneOrderRequest) (*rpc.Order, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	order, err := s.orders.FindOne(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus(err, "FindOneOrder", req.ID)
	}
	return toRPCOrder(order), nil
}

// ChangeOrderStatus меняет статус заказа.
func (s *OrderService) ChangeOrderStatus(ctx context.Context, req *rpc.ChangeOrderStatusRequest) (*rpc.Order, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	target, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, s.toStatus(err, "ChangeOrderStatus", req.ID)
	}

	order, err := s.orders.ChangeStatus(ctx, req.ID, target)
	if err != nil {
		return nil, s.toStatus(err, "ChangeOrderStatus", req.ID)
	}
	return toRPCOrder(order), nil
}

// CreatePaymentSession повторно запрашивает платёжную сессию для существующего заказа.
func (s *OrderService) CreatePaymentSession(ctx context.Context, req *rpc.CreatePaymentSessionRequest) (*rpc.PaymentSession, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	order, err := s.orders.FindOne(ctx, req.OrderID)
	if err != nil {
		return nil, s.toStatus(err, "CreatePaymentSession", req.OrderID)
	}

	session, err := s.orders.CreatePaymentSession(ctx, order)
	if err != nil {
		return nil, s.toStatus(err, "CreatePaymentSession", req.OrderID)
	}
	return toRPCSession(session), nil
}

// ConfirmPayment отмечает заказ оплаченным.
func (s *OrderService) ConfirmPayment(ctx context.Context, req *rpc.ConfirmPaymentRequest) (*rpc.Order, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	order, err := s.orders.ConfirmPayment(ctx, domain.PaymentConfirmation{
		OrderID:         req.OrderID,
		StripePaymentID: req.StripePaymentID,
		ReceiptURL:      req.ReceiptURL,
	})
	if err != nil {
		return nil, s.toStatus(err, "ConfirmPayment", req.OrderID)
	}
	return toRPCOrder(order), nil
}

// toStatus переводит доменную ошибку в gRPC статус. Внутренние причины только логируются.
func (s *OrderService) toStatus(err error, operation, orderID string) error {
	entry := s.logger.WithError(err).WithField("operation", operation)
	if orderID != "" {
		entry = entry.WithField("order_id", orderID)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidProducts):
		entry.Warn("request rejected")
		return status.Error(codes.InvalidArgument, invalidProductsMessage)
	case errors.Is(err, domain.ErrOrderNotFound):
		entry.Debug("order not found")
		if orderID != "" {
			return status.Error(codes.NotFound, fmt.Sprintf("Order with id %s not found", orderID))
		}
		return status.Error(codes.NotFound, "Order not found")
	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidPagination),
		errors.Is(err, domain.ErrOrderIDRequired),
		errors.Is(err, domain.ErrPaymentIDRequired),
		errors.Is(err, domain.ErrReceiptURLRequired):
		entry.Debug("invalid request")
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrStatusChangeNotAllowed):
		entry.Debug("status change rejected")
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrPaymentGateway):
		entry.Warn("payment gateway failure")
		return status.Error(codes.Unavailable, domain.ErrPaymentGateway.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		entry.Warn("request context finished")
		return status.FromContextError(err).Err()
	default:
		entry.Error("operation failed")
		return status.Error(codes.Internal, "internal error")
	}
}

var _ rpc.OrderServiceServer = (*OrderService)(nil)
