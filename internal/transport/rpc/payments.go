package rpc

import (
	"context"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
)

// PaymentServiceName задаёт полное имя платёжного сервиса.
const PaymentServiceName = "payments.v1.PaymentService"

// PaymentServiceCreatePaymentSessionMethod создаёт платёжную сессию.
const PaymentServiceCreatePaymentSessionMethod = "/" + PaymentServiceName + "/CreatePaymentSession"

// PaymentSessionItem описывает позицию платёжной сессии.
type PaymentSessionItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int32           `json:"quantity"`
}

// PaymentSessionRequest передаёт платёжному сервису состав заказа.
type PaymentSessionRequest struct {
	OrderID  string               `json:"orderId"`
	Currency string               `json:"currency"`
	Items    []PaymentSessionItem `json:"items"`
}

// PaymentSession содержит ответ платёжного сервиса.
type PaymentSession struct {
	CancelURL  string `json:"cancelUrl"`
	SuccessURL string `json:"successUrl"`
	URL        string `json:"url"`
}

// PaymentServiceServer реализует серверную часть платёжного сервиса.
type PaymentServiceServer interface {
	CreatePaymentSession(context.Context, *PaymentSessionRequest) (*PaymentSession, error)
}

// PaymentServiceDesc описывает платёжный сервис.
var PaymentServiceDesc = grpc.ServiceDesc{
	ServiceName: PaymentServiceName,
	HandlerType: (*PaymentServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreatePaymentSession",
			Handler:    unaryHandler(PaymentServiceCreatePaymentSessionMethod, PaymentServiceServer.CreatePaymentSession),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "payments/v1/payments.json",
}

// RegisterPaymentServiceServer регистрирует реализацию платёжного сервиса.
func RegisterPaymentServiceServer(s grpc.ServiceRegistrar, srv PaymentServiceServer) {
	s.RegisterService(&PaymentServiceDesc, srv)
}

// PaymentServiceClient вызывает платёжный сервис.
type PaymentServiceClient interface {
	CreatePaymentSession(ctx context.Context, in *PaymentSessionRequest, opts ...grpc.CallOption) (*PaymentSession, error)
}

type paymentServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPaymentServiceClient создаёт клиент платёжного сервиса.
func NewPaymentServiceClient(cc grpc.ClientConnInterface) PaymentServiceClient {
	return &paymentServiceClient{cc: cc}
}

func (c *paymentServiceClient) CreatePaymentSession(ctx context.Context, in *PaymentSessionRequest, opts ...grpc.CallOption) (*PaymentSession, error) {
	return invoke[PaymentSession](ctx, c.cc, PaymentServiceCreatePaymentSessionMethod, in, opts)
}
