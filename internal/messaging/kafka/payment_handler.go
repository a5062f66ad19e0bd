package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/Nest-Microservices-dev/orders-ms/internal/domain"
)

// PaymentConfirmer применяет подтверждение оплаты к заказу.
type PaymentConfirmer interface {
	ConfirmPayment(ctx context.Context, confirmation domain.PaymentConfirmation) (domain.Order, error)
}

// NewPaymentSucceededHandler возвращает обработчик topic payments.succeeded.
// Битые сообщения, невалидные подтверждения и неизвестные заказы считаются постоянными ошибками.
func NewPaymentSucceededHandler(confirmer PaymentConfirmer, logger *log.Entry) MessageHandler {
	if logger == nil {
		logger = log.WithField("component", "payment-succeeded-handler")
	}
	return func(ctx context.Context, message *sarama.ConsumerMessage) error {
		event, err := ParsePaymentSucceeded(message)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPermanent, err)
		}

		order, err := confirmer.ConfirmPayment(ctx, event.Confirmation())
		if err != nil {
			if isPermanentConfirmError(err) {
				return fmt.Errorf("%w: %v", ErrPermanent, err)
			}
			return err
		}

		logger.WithFields(log.Fields{
			"order_id":   order.ID,
			"payment_id": event.StripePaymentID,
			"offset":     message.Offset,
		}).Info("payment confirmation applied")
		return nil
	}
}

func isPermanentConfirmError(err error) bool {
	return errors.Is(err, domain.ErrOrderNotFound) ||
		errors.Is(err, domain.ErrOrderIDRequired) ||
		errors.Is(err, domain.ErrPaymentIDRequired) ||
		errors.Is(err, domain.ErrReceiptURLRequired)
}
