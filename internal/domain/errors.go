package domain

import "errors"

var (
	// Ошибка отсутствия хотя бы одного товара в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQuantityInvalid = errors.New("item quantity must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// Ошибка отрицательной суммы заказа.
	ErrAmountNegative = errors.New("total amount must be non-negative")
	// Ошибка несоответствия суммы заказа и сумм позиций.
	ErrAmountMismatch = errors.New("order total amount does not match items sum")
	// Ошибка несоответствия количества единиц и позиций.
	ErrItemsCountMismatch = errors.New("order total items does not match items quantity")
	// Оплаченный заказ обязан хранить момент оплаты.
	ErrPaidAtRequired = errors.New("paid order must have paid_at")
	// Ошибка неизвестного статуса заказа.
	ErrInvalidStatus = errors.New("invalid order status")
	// Ручная смена статуса нарушила бы связку paid/PAID/paid_at/чек.
	ErrStatusChangeNotAllowed = errors.New("status change not allowed")
	// Ошибка некорректных параметров пагинации.
	ErrInvalidPagination = errors.New("page must be positive and limit must be between 1 and 100")
	// Ошибка отсутствующего идентификатора заказа.
	ErrOrderIDRequired = errors.New("order_id is required")
	// Ошибка отсутствующего идентификатора платежа.
	ErrPaymentIDRequired = errors.New("stripe_payment_id is required")
	// Ошибка отсутствующей ссылки на чек.
	ErrReceiptURLRequired = errors.New("receipt_url is required")
	// ErrInvalidProducts — один или несколько товаров не найдены или не прошли проверку.
	ErrInvalidProducts = errors.New("one or more products were not found or could not be validated")
	// ErrProductNotFound возвращается каталогом, если товара с таким ID нет.
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderAlreadyExists сигнализирует о повторной вставке заказа с тем же ID.
	ErrOrderAlreadyExists = errors.New("order already exists")
	// ErrPaymentGateway — платёжный шлюз не смог создать сессию.
	ErrPaymentGateway = errors.New("payment gateway failure")
)

// IsNotFound проверяет, является ли ошибка отсутствием заказа.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound)
}

// IsInvalidProducts проверяет, связана ли ошибка с проверкой товаров.
func IsInvalidProducts(err error) bool {
	return errors.Is(err, ErrInvalidProducts)
}
