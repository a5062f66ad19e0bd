package app

import (
	"github.com/Nest-Microservices-dev/orders-ms/internal/messaging/kafka"
	"github.com/Nest-Microservices-dev/orders-ms/internal/metrics"
	"github.com/Nest-Microservices-dev/orders-ms/internal/service/orders"
)

// createOrchestrator собирает оркестратор заказов. Публикация событий включается,
// только если есть Kafka producer.
func createOrchestrator(
	deps *Dependencies,
	kafkaProducer *kafka.Producer,
	eventsTopic string,
	orderMetrics *metrics.OrderMetrics,
	currency string,
) orders.Orchestrator {
	opts := []orders.Option{
		orders.WithCurrency(currency),
	}
	if orderMetrics != nil {
		opts = append(opts, orders.WithMetrics(orderMetrics))
	}
	if kafkaProducer != nil {
		opts = append(opts, orders.WithEventPublisher(kafka.NewOrderEventPublisher(kafkaProducer, eventsTopic)))
	}

	return orders.NewOrchestrator(
		deps.Orders,
		deps.Products,
		deps.Payments,
		deps.Logger.WithField("layer", "orders"),
		opts...,
	)
}
