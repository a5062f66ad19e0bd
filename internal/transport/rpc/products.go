package rpc

import (
	"context"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
)

// ProductServiceName задаёт полное имя сервиса каталога товаров.
const ProductServiceName = "products.v1.ProductService"

// ProductServiceValidateProductsMethod проверяет существование товаров по ID.
const ProductServiceValidateProductsMethod = "/" + ProductServiceName + "/ValidateProducts"

// ValidateProductsRequest содержит набор ID для проверки.
type ValidateProductsRequest struct {
	IDs []int64 `json:"ids"`
}

// Product описывает товар каталога.
type Product struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// ValidateProductsResponse содержит найденные товары.
type ValidateProductsResponse struct {
	Products []Product `json:"products"`
}

// ProductServiceServer реализует серверную часть каталога. В этом репозитории используется тестовыми стендами.
type ProductServiceServer interface {
	ValidateProducts(context.Context, *ValidateProductsRequest) (*ValidateProductsResponse, error)
}

// ProductServiceDesc описывает сервис каталога.
var ProductServiceDesc = grpc.ServiceDesc{
	ServiceName: ProductServiceName,
	HandlerType: (*ProductServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ValidateProducts",
			Handler:    unaryHandler(ProductServiceValidateProductsMethod, ProductServiceServer.ValidateProducts),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "products/v1/products.json",
}

// RegisterProductServiceServer регистрирует реализацию каталога.
func RegisterProductServiceServer(s grpc.ServiceRegistrar, srv ProductServiceServer) {
	s.RegisterService(&ProductServiceDesc, srv)
}

// ProductServiceClient вызывает каталог товаров.
type ProductServiceClient interface {
	ValidateProducts(ctx context.Context, in *ValidateProductsRequest, opts ...grpc.CallOption) (*ValidateProductsResponse, error)
}

type productServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewProductServiceClient создаёт клиент каталога.
func NewProductServiceClient(cc grpc.ClientConnInterface) ProductServiceClient {
	return &productServiceClient{cc: cc}
}

func (c *productServiceClient) ValidateProducts(ctx context.Context, in *ValidateProductsRequest, opts ...grpc.CallOption) (*ValidateProductsResponse, error) {
	return invoke[ValidateProductsResponse](ctx, c.cc, ProductServiceValidateProductsMethod, in, opts)
}
