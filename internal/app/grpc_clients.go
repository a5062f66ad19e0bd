package app

import (
	promgrpc "github.com/grpc-ecosystem/go-grpc-prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/Nest-Microservices-dev/orders-ms/internal/transport/rpc"
)

// dialService открывает соединение к соседнему сервису. Соединение ленивое:
// адрес резолвится при первом вызове, поэтому старт не зависит от доступности соседей.
func dialService(target string) (*grpc.ClientConn, error) {
	return grpc.NewClient(target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(promgrpc.UnaryClientInterceptor),
		grpc.WithDefaultCallOptions(rpc.CallOption()),
	)
}
