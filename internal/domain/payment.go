package domain

import "github.com/shopspring/decimal"

// DefaultPaymentCurrency — валюта платёжной сессии по умолчанию.
const DefaultPaymentCurrency = "usd"

// PaymentSessionItem описывает позицию, передаваемую в платёжный шлюз.
type PaymentSessionItem struct {
	Name     string
	Quantity int32
	Price    decimal.Decimal
}

// PaymentSessionRequest — запрос на создание платёжной сессии.
type PaymentSessionRequest struct {
	OrderID  string
	Currency string
	Items    []PaymentSessionItem
}

// PaymentSession — дескриптор сессии, который вернул шлюз.
type PaymentSession struct {
	CancelURL  string
	SuccessURL string
	URL        string
}

// PaymentConfirmation приходит от платёжного шлюза после успешной оплаты.
// Имена полей повторяют контракт провайдера.
type PaymentConfirmation struct {
	OrderID         string
	StripePaymentID string
	ReceiptURL      string
}

// Validate проверяет корректность подтверждения платежа.
func (p *PaymentConfirmation) Validate() []error {
	var errs []error

	if p.OrderID == "" {
		errs = append(errs, ErrOrderIDRequired)
	}
	if p.StripePaymentID == "" {
		errs = append(errs, ErrPaymentIDRequired)
	}
	if p.ReceiptURL == "" {
		errs = append(errs, ErrReceiptURLRequired)
	}

	return errs
}
