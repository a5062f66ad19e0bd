package app

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/Nest-Microservices-dev/orders-ms/internal/messaging/kafka"
)

// initKafkaProducer инициализирует Kafka producer, если брокеры заданы.
// Возвращает nil, nil при выключенной Kafka.
func initKafkaProducer(cfg KafkaConfig, logger *log.Entry) (*kafka.Producer, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	producer, err := kafka.NewProducer(cfg.Brokers, logger.WithField("layer", "kafka-producer"))
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return nil, err
	}

	logger.WithField("brokers", cfg.Brokers).Info("kafka producer initialized")
	return producer, nil
}

// startPaymentConsumer подписывается на подтверждения оплаты. Необработанные сообщения уходят в DLQ через producer.
func startPaymentConsumer(ctx context.Context, cfg KafkaConfig, confirmer kafka.PaymentConfirmer, dlq *kafka.Producer, logger *log.Entry) (*kafka.Consumer, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	handler := kafka.NewPaymentSucceededHandler(confirmer, logger.WithField("layer", "payments-handler"))
	consumer, err := kafka.NewConsumerWithDLQ(cfg.Brokers, cfg.ConsumerGroup, []string{cfg.PaymentsTopic}, handler, dlq, cfg.MaxRetries)
	if err != nil {
		return nil, err
	}
	consumer.WithDLQTopic(cfg.DLQTopic).WithRetryBackoff(cfg.RetryBackoff, cfg.MaxRetryBackoff)

	if err := consumer.Start(ctx); err != nil {
		_ = consumer.Stop()
		return nil, err
	}
	return consumer, nil
}

// closeKafka останавливает consumer и закрывает producer, если они были созданы.
func closeKafka(producer *kafka.Producer, consumer *kafka.Consumer, logger *log.Entry) {
	if consumer != nil {
		if err := consumer.Stop(); err != nil {
			logger.WithError(err).Warn("failed to stop kafka consumer")
		}
	}
	if producer == nil {
		return
	}

	if err := producer.Close(); err != nil {
		logger.WithError(err).Warn("failed to close kafka producer")
	} else {
		logger.Info("kafka producer closed")
	}
}
