package grpcsvc_test

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/Nest-Microservices-dev/orders-ms/internal/clients/payments"
	"github.com/Nest-Microservices-dev/orders-ms/internal/clients/products"
	"github.com/Nest-Microservices-dev/orders-ms/internal/domain"
	grpcsvc "github.com/Nest-Microservices-dev/orders-ms/internal/service/grpc"
	"github.com/Nest-Microservices-dev/orders-ms/internal/service/orders"
	"github.com/Nest-Microservices-dev/orders-ms/internal/storage/memory"
	"github.com/Nest-Microservices-dev/orders-ms/internal/transport/rpc"
)

const bufSize = 1024 * 1024

type testEnv struct {
	client   rpc.OrderServiceClient
	catalog  *products.MockValidator
	payments *payments.MockGateway
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()

	logger := loggerForTests()
	catalog := products.NewMockValidator(
		domain.Product{ID: 1, Name: "Keyboard", Price: decimal.RequireFromString("10.00")},
		domain.Product{ID: 2, Name: "Mouse", Price: decimal.RequireFromString("5.00")},
	)
	gateway := payments.NewMockGateway()
	orchestrator := orders.NewOrchestrator(memory.NewOrderRepository(), catalog, gateway, logger.WithField("layer", "orders"))
	service := grpcsvc.NewOrderService(orchestrator, logger)

	listener := bufconn.Listen(bufSize)
	server := grpc.NewServer()
	rpc.RegisterOrderServiceServer(server, service)

	go func() {
		if err := server.Serve(listener); err != nil {
			logger.WithError(err).Error("grpc serve failed")
		}
	}()

	dialer := func(context.Context, string) (net.Conn, error) {
		return listener.Dial()
	}
	conn, err := grpc.NewClient("passthrough:///bufnet", grpc.WithContextDialer(dialer), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		server.Stop()
	})

	return &testEnv{
		client:   rpc.NewOrderServiceClient(conn),
		catalog:  catalog,
		payments: gateway,
	}
}

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: false, DisableTimestamp: true})
	logger.SetLevel(logrus.DebugLevel)
	return logger.WithField("component", "test")
}

func createOrder(t *testing.T, env *testEnv) *rpc.CreateOrderResponse {
	t.Helper()
	resp, err := env.client.CreateOrder(context.Background(), &rpc.CreateOrderRequest{
		Items: []rpc.CreateOrderItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	})
	require.NoError(t, err)
	return resp
}

func TestCreateOrder(t *testing.T) {
	env := newTestServer(t)

	resp := createOrder(t, env)

	order := resp.Order
	_, err := uuid.Parse(order.ID)
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("25.00")), "total %s", order.TotalAmount)
	assert.Equal(t, int32(3), order.TotalItems)
	assert.Equal(t, string(domain.OrderStatusPending), order.Status)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Keyboard", order.Items[0].Name)

	require.NotNil(t, resp.PaymentSession)
	assert.Contains(t, resp.PaymentSession.URL, order.ID)
	assert.Equal(t, 1, env.payments.Calls())
}

func TestCreateOrder_PaymentFailureStillReturnsOrder(t *testing.T) {
	env := newTestServer(t)
	env.payments.SessionErr = errors.New("stripe down")

	resp := createOrder(t, env)
	assert.NotEmpty(t, resp.Order.ID)
	assert.Nil(t, resp.PaymentSession)
}

func TestCreateOrder_Validation(t *testing.T) {
	env := newTestServer(t)

	tests := []struct {
		name string
		req  *rpc.CreateOrderRequest
	}{
		{name: "no items", req: &rpc.CreateOrderRequest{}},
		{name: "zero quantity", req: &rpc.CreateOrderRequest{Items: []rpc.CreateOrderItem{{ProductID: 1, Quantity: 0}}}},
		{name: "negative product", req: &rpc.CreateOrderRequest{Items: []rpc.CreateOrderItem{{ProductID: -1, Quantity: 1}}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.client.CreateOrder(context.Background(), tc.req)
			require.Error(t, err)
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
	assert.Zero(t, env.catalog.Calls())
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	env := newTestServer(t)

	_, err := env.client.CreateOrder(context.Background(), &rpc.CreateOrderRequest{
		Items: []rpc.CreateOrderItem{{ProductID: 1, Quantity: 1}, {ProductID: 99, Quantity: 1}},
	})
	require.Error(t, err)
	st := status.Convert(err)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Equal(t, "One or more products not found, check logs", st.Message())

	page, err := env.client.FindAllOrders(context.Background(), &rpc.FindAllOrdersRequest{})
	require.NoError(t, err)
	assert.Zero(t, page.Meta.Total)
}

func TestFindOneOrder(t *testing.T) {
	env := newTestServer(t)
	created := createOrder(t, env)

	order, err := env.client.FindOneOrder(context.Background(), &rpc.FindOneOrderRequest{ID: created.Order.ID})
	require.NoError(t, err)
	assert.Equal(t, created.Order.ID, order.ID)
	require.Len(t, order.Items, 2)
	for _, item := range order.Items {
		assert.NotEmpty(t, item.Name)
	}
}

func TestFindOneOrder_Errors(t *testing.T) {
	env := newTestServer(t)

	missing := uuid.NewString()
	_, err := env.client.FindOneOrder(context.Background(), &rpc.FindOneOrderRequest{ID: missing})
	st := status.Convert(err)
	assert.Equal(t, codes.NotFound, st.Code())
	assert.Contains(t, st.Message(), missing)

	_, err = env.client.FindOneOrder(context.Background(), &rpc.FindOneOrderRequest{ID: "not-a-uuid"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	created := createOrder(t, env)
	env.catalog.ValidateErr = errors.New("catalog down")
	_, err = env.client.FindOneOrder(context.Background(), &rpc.FindOneOrderRequest{ID: created.Order.ID})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestFindAllOrders(t *testing.T) {
	env := newTestServer(t)
	for i := 0; i < 25; i++ {
		createOrder(t, env)
	}

	page, err := env.client.FindAllOrders(context.Background(), &rpc.FindAllOrdersRequest{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Data, 5)
	assert.Equal(t, rpc.PageMeta{Total: 25, Page: 3, LastPage: 3}, page.Meta)
	assert.Empty(t, page.Data[0].Items)

	page, err = env.client.FindAllOrders(context.Background(), &rpc.FindAllOrdersRequest{Status: "DELIVERED"})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Equal(t, rpc.PageMeta{Total: 0, Page: 1, LastPage: 0}, page.Meta)
}

func TestFindAllOrders_Validation(t *testing.T) {
	env := newTestServer(t)

	for _, req := range []*rpc.FindAllOrdersRequest{
		{Status: "SHIPPED"},
		{Page: -1},
		{Limit: -5},
		{Limit: 101},
		{Page: 1<<32 + 1, Limit: 1 << 32},
		{Page: 1 << 62, Limit: 100},
	} {
		_, err := env.client.FindAllOrders(context.Background(), req)
		assert.Equal(t, codes.InvalidArgument, status.Code(err), "request %+v", req)
	}
}

func TestChangeOrderStatus(t *testing.T) {
	env := newTestServer(t)
	created := createOrder(t, env)

	same, err := env.client.ChangeOrderStatus(context.Background(), &rpc.ChangeOrderStatusRequest{
		ID: created.Order.ID, Status: "PENDING",
	})
	require.NoError(t, err)
	assert.Equal(t, "PENDING", same.Status)
	assert.Len(t, same.Items, 2)

	changed, err := env.client.ChangeOrderStatus(context.Background(), &rpc.ChangeOrderStatusRequest{
		ID: created.Order.ID, Status: "DELIVERED",
	})
	require.NoError(t, err)
	assert.Equal(t, "DELIVERED", changed.Status)
	assert.Empty(t, changed.Items)

	_, err = env.client.ChangeOrderStatus(context.Background(), &rpc.ChangeOrderStatusRequest{
		ID: created.Order.ID, Status: "SHIPPED",
	})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = env.client.ChangeOrderStatus(context.Background(), &rpc.ChangeOrderStatusRequest{
		ID: uuid.NewString(), Status: "PAID",
	})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestChangeOrderStatus_PaidIsSetOnlyByConfirmation(t *testing.T) {
	env := newTestServer(t)
	created := createOrder(t, env)

	_, err := env.client.ChangeOrderStatus(context.Background(), &rpc.ChangeOrderStatusRequest{
		ID: created.Order.ID, Status: "PAID",
	})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	order, err := env.client.FindOneOrder(context.Background(), &rpc.FindOneOrderRequest{ID: created.Order.ID})
	require.NoError(t, err)
	assert.Equal(t, "PENDING", order.Status)
	assert.False(t, order.Paid)
	assert.Nil(t, order.PaidAt)
	assert.Nil(t, order.Receipt)

	_, err = env.client.ConfirmPayment(context.Background(), &rpc.ConfirmPaymentRequest{
		OrderID: created.Order.ID, StripePaymentID: "ch_1", ReceiptURL: "https://pay.example/receipts/1",
	})
	require.NoError(t, err)

	_, err = env.client.ChangeOrderStatus(context.Background(), &rpc.ChangeOrderStatusRequest{
		ID: created.Order.ID, Status: "CANCELLED",
	})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestCreatePaymentSession(t *testing.T) {
	env := newTestServer(t)
	created := createOrder(t, env)

	session, err := env.client.CreatePaymentSession(context.Background(), &rpc.CreatePaymentSessionRequest{OrderID: created.Order.ID})
	require.NoError(t, err)
	assert.Contains(t, session.URL, created.Order.ID)

	env.payments.SessionErr = errors.New("stripe down")
	_, err = env.client.CreatePaymentSession(context.Background(), &rpc.CreatePaymentSessionRequest{OrderID: created.Order.ID})
	assert.Equal(t, codes.Unavailable, status.Code(err))

	_, err = env.client.CreatePaymentSession(context.Background(), &rpc.CreatePaymentSessionRequest{OrderID: uuid.NewString()})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestConfirmPayment(t *testing.T) {
	env := newTestServer(t)
	created := createOrder(t, env)

	order, err := env.client.ConfirmPayment(context.Background(), &rpc.ConfirmPaymentRequest{
		OrderID:         created.Order.ID,
		StripePaymentID: "ch_123",
		ReceiptURL:      "https://pay.stripe.com/receipts/123",
	})
	require.NoError(t, err)
	assert.Equal(t, "PAID", order.Status)
	assert.True(t, order.Paid)
	require.NotNil(t, order.PaidAt)
	assert.Equal(t, "ch_123", order.StripeChargeID)
	require.NotNil(t, order.Receipt)
	assert.Equal(t, "https://pay.stripe.com/receipts/123", order.Receipt.ReceiptURL)

	_, err = env.client.ConfirmPayment(context.Background(), &rpc.ConfirmPaymentRequest{
		OrderID: created.Order.ID, StripePaymentID: "ch_1", ReceiptURL: "not a url",
	})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = env.client.ConfirmPayment(context.Background(), &rpc.ConfirmPaymentRequest{
		OrderID: uuid.NewString(), StripePaymentID: "ch_1", ReceiptURL: "https://r.example/1",
	})
	assert.Equal(t, codes.NotFound, status.Code(err))
}
