package rpc

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// OrderServiceName задаёт полное имя сервиса заказов.
const OrderServiceName = "orders.v1.OrderService"

const (
	OrderServiceCreateOrderMethod          = "/" + OrderServiceName + "/CreateOrder"
	OrderServiceFindAllOrdersMethod        = "/" + OrderServiceName + "/FindAllOrders"
	OrderServiceFindOneOrderMethod         = "/" + OrderServiceName + "/FindOneOrder"
	OrderServiceChangeOrderStatusMethod    = "/" + OrderServiceName + "/ChangeOrderStatus"
	OrderServiceCreatePaymentSessionMethod = "/" + OrderServiceName + "/CreatePaymentSession"
	OrderServiceConfirmPaymentMethod       = "/" + OrderServiceName + "/ConfirmPayment"
)

// CreateOrderItem описывает позицию запроса на создание заказа.
type CreateOrderItem struct {
	ProductID int64 `json:"productId" validate:"gt=0"`
	Quantity  int32 `json:"quantity" validate:"gt=0"`
}

// CreateOrderRequest передаёт позиции нового заказа.
type CreateOrderRequest struct {
	Items []CreateOrderItem `json:"items" validate:"required,min=1,dive"`
}

// CreateOrderResponse возвращает созданный заказ и платёжную сессию для него.
type CreateOrderResponse struct {
	Order          Order           `json:"order"`
	PaymentSession *PaymentSession `json:"paymentSession,omitempty"`
}

// FindAllOrdersRequest задаёт фильтр и пагинацию списка заказов. Нулевые page и limit заменяются значениями по умолчанию.
type FindAllOrdersRequest struct {
	Status string `json:"status,omitempty" validate:"omitempty,oneof=PENDING PAID DELIVERED CANCELLED"`
	Page   int    `json:"page,omitempty" validate:"gte=0"`
	Limit  int    `json:"limit,omitempty" validate:"gte=0,lte=100"`
}

// PageMeta содержит метаданные страницы.
type PageMeta struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	LastPage int `json:"lastPage"`
}

// FindAllOrdersResponse содержит страницу заказов.
type FindAllOrdersResponse struct {
	Data []Order  `json:"data"`
	Meta PageMeta `json:"meta"`
}

// FindOneOrderRequest запрашивает заказ по идентификатору.
type FindOneOrderRequest struct {
	ID string `json:"id" validate:"required,uuid"`
}

// ChangeOrderStatusRequest запрашивает смену статуса.
type ChangeOrderStatusRequest struct {
	ID     string `json:"id" validate:"required,uuid"`
	Status string `json:"status" validate:"required,oneof=PENDING PAID DELIVERED CANCELLED"`
}

// CreatePaymentSessionRequest запрашивает платёжную сессию для существующего заказа.
type CreatePaymentSessionRequest struct {
	OrderID string `json:"orderId" validate:"required,uuid"`
}

// ConfirmPaymentRequest несёт подтверждение оплаты от платёжного сервиса.
type ConfirmPaymentRequest struct {
	StripePaymentID string `json:"stripePaymentId" validate:"required"`
	OrderID         string `json:"orderId" validate:"required,uuid"`
	ReceiptURL      string `json:"receiptUrl" validate:"required,url"`
}

// OrderItem описывает позицию заказа на проводе.
type OrderItem struct {
	ProductID int64           `json:"productId"`
	Quantity  int32           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Name      string          `json:"name,omitempty"`
}

// OrderReceipt описывает чек об оплате.
type OrderReceipt struct {
	ID         string    `json:"id"`
	ReceiptURL string    `json:"receiptUrl"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Order описывает заказ на проводе.
type Order struct {
	ID             string          `json:"id"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	TotalItems     int32           `json:"totalItems"`
	Status         string          `json:"status"`
	Paid           bool            `json:"paid"`
	PaidAt         *time.Time      `json:"paidAt,omitempty"`
	StripeChargeID string          `json:"stripeChargeId,omitempty"`
	Items          []OrderItem     `json:"items,omitempty"`
	Receipt        *OrderReceipt   `json:"receipt,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// OrderServiceServer реализует серверную часть сервиса заказов.
type OrderServiceServer interface {
	CreateOrder(context.Context, *CreateOrderRequest) (*CreateOrderResponse, error)
	FindAllOrders(context.Context, *FindAllOrdersRequest) (*FindAllOrdersResponse, error)
	FindOneOrder(context.Context, *FindOneOrderRequest) (*Order, error)
	ChangeOrderStatus(context.Context, *ChangeOrderStatusRequest) (*Order, error)
	CreatePaymentSession(context.Context, *CreatePaymentSessionRequest) (*PaymentSession, error)
	ConfirmPayment(context.Context, *ConfirmPaymentRequest) (*Order, error)
}

// UnimplementedOrderServiceServer отвечает Unimplemented на все методы.
type UnimplementedOrderServiceServer struct{}

func (UnimplementedOrderServiceServer) CreateOrder(context.Context, *CreateOrderRequest) (*CreateOrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateOrder not implemented")
}

func (UnimplementedOrderServiceServer) FindAllOrders(context.Context, *FindAllOrdersRequest) (*FindAllOrdersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method FindAllOrders not implemented")
}

func (UnimplementedOrderServiceServer) FindOneOrder(context.Context, *FindOneOrderRequest) (*Order, error) {
	return nil, status.Error(codes.Unimplemented, "method FindOneOrder not implemented")
}

func (UnimplementedOrderServiceServer) ChangeOrderStatus(context.Context, *ChangeOrderStatusRequest) (*Order, error) {
	return nil, status.Error(codes.Unimplemented, "method ChangeOrderStatus not implemented")
}

func (UnimplementedOrderServiceServer) CreatePaymentSession(context.Context, *CreatePaymentSessionRequest) (*PaymentSession, error) {
	return nil, status.Error(codes.Unimplemented, "method CreatePaymentSession not implemented")
}

func (UnimplementedOrderServiceServer) ConfirmPayment(context.Context, *ConfirmPaymentRequest) (*Order, error) {
	return nil, status.Error(codes.Unimplemented, "method ConfirmPayment not implemented")
}

// OrderServiceDesc описывает сервис заказов для grpc.Server.
var OrderServiceDesc = grpc.ServiceDesc{
	ServiceName: OrderServiceName,
	HandlerType: (*OrderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateOrder",
			Handler:    unaryHandler(OrderServiceCreateOrderMethod, OrderServiceServer.CreateOrder),
		},
		{
			MethodName: "FindAllOrders",
			Handler:    unaryHandler(OrderServiceFindAllOrdersMethod, OrderServiceServer.FindAllOrders),
		},
		{
			MethodName: "FindOneOrder",
			Handler:    unaryHandler(OrderServiceFindOneOrderMethod, OrderServiceServer.FindOneOrder),
		},
		{
			MethodName: "ChangeOrderStatus",
			Handler:    unaryHandler(OrderServiceChangeOrderStatusMethod, OrderServiceServer.ChangeOrderStatus),
		},
		{
			MethodName: "CreatePaymentSession",
			Handler:    unaryHandler(OrderServiceCreatePaymentSessionMethod, OrderServiceServer.CreatePaymentSession),
		},
		{
			MethodName: "ConfirmPayment",
			Handler:    unaryHandler(OrderServiceConfirmPaymentMethod, OrderServiceServer.ConfirmPayment),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "orders/v1/orders.json",
}

// RegisterOrderServiceServer регистрирует реализацию сервиса заказов.
func RegisterOrderServiceServer(s grpc.ServiceRegistrar, srv OrderServiceServer) {
	s.RegisterService(&OrderServiceDesc, srv)
}

// OrderServiceClient вызывает сервис заказов.
type OrderServiceClient interface {
	CreateOrder(ctx context.Context, in *CreateOrderRequest, opts ...grpc.CallOption) (*CreateOrderResponse, error)
	FindAllOrders(ctx context.Context, in *FindAllOrdersRequest, opts ...grpc.CallOption) (*FindAllOrdersResponse, error)
	FindOneOrder(ctx context.Context, in *FindOneOrderRequest, opts ...grpc.CallOption) (*Order, error)
	ChangeOrderStatus(ctx context.Context, in *ChangeOrderStatusRequest, opts ...grpc.CallOption) (*Order, error)
	CreatePaymentSession(ctx context.Context, in *CreatePaymentSessionRequest, opts ...grpc.CallOption) (*PaymentSession, error)
	ConfirmPayment(ctx context.Context, in *ConfirmPaymentRequest, opts ...grpc.CallOption) (*Order, error)
}

type orderServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewOrderServiceClient создаёт клиент поверх соединения.
func NewOrderServiceClient(cc grpc.ClientConnInterface) OrderServiceClient {
	return &orderServiceClient{cc: cc}
}

func (c *orderServiceClient) CreateOrder(ctx context.Context, in *CreateOrderRequest, opts ...grpc.CallOption) (*CreateOrderResponse, error) {
	return invoke[CreateOrderResponse](ctx, c.cc, OrderServiceCreateOrderMethod, in, opts)
}

func (c *orderServiceClient) FindAllOrders(ctx context.Context, in *FindAllOrdersRequest, opts ...grpc.CallOption) (*FindAllOrdersResponse, error) {
	return invoke[FindAllOrdersResponse](ctx, c.cc, OrderServiceFindAllOrdersMethod, in, opts)
}

func (c *orderServiceClient) FindOneOrder(ctx context.Context, in *FindOneOrderRequest, opts ...grpc.CallOption) (*Order, error) {
	return invoke[Order](ctx, c.cc, OrderServiceFindOneOrderMethod, in, opts)
}

func (c *orderServiceClient) ChangeOrderStatus(ctx context.Context, in *ChangeOrderStatusRequest, opts ...grpc.CallOption) (*Order, error) {
	return invoke[Order](ctx, c.cc, OrderServiceChangeOrderStatusMethod, in, opts)
}

func (c *orderServiceClient) CreatePaymentSession(ctx context.Context, in *CreatePaymentSessionRequest, opts ...grpc.CallOption) (*PaymentSession, error) {
	return invoke[PaymentSession](ctx, c.cc, OrderServiceCreatePaymentSessionMethod, in, opts)
}

func (c *orderServiceClient) ConfirmPayment(ctx context.Context, in *ConfirmPaymentRequest, opts ...grpc.CallOption) (*Order, error) {
	return invoke[Order](ctx, c.cc, OrderServiceConfirmPaymentMethod, in, opts)
}
