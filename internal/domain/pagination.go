package domain

import "math"

const (
	// DefaultPage — первая страница, страницы нумеруются с единицы.
	DefaultPage = 1
	// DefaultLimit — размер страницы по умолчанию.
	DefaultLimit = 10
	// MaxLimit ограничивает размер одной страницы.
	MaxLimit = 100
)

// OrderFilter ограничивает выборку заказов. Nil-статус означает "все статусы".
type OrderFilter struct {
	Status *OrderStatus
}

// ListQuery — параметры постраничного списка заказов.
type ListQuery struct {
	Status *OrderStatus
	Page   int
	Limit  int
}

// Normalize подставляет значения по умолчанию для незаданных страницы и лимита.
func (q ListQuery) Normalize() ListQuery {
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	return q
}

// Validate проверяет параметры после нормализации.
func (q ListQuery) Validate() error {
	if q.Page < 1 || q.Limit < 1 || q.Limit > MaxLimit {
		return ErrInvalidPagination
	}
	// (page-1)*limit должно помещаться в int.
	if q.Page-1 > math.MaxInt/q.Limit {
		return ErrInvalidPagination
	}
	if q.Status != nil && !q.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// Offset возвращает количество пропускаемых строк: (page-1)*limit.
// Вызывать только для запроса, прошедшего Validate.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Filter возвращает фильтр репозитория для запроса.
func (q ListQuery) Filter() OrderFilter {
	return OrderFilter{Status: q.Status}
}

// PageMeta описывает положение страницы в общей выборке.
type PageMeta struct {
	Total    int
	Page     int
	LastPage int
}

// OrderPage — страница заказов вместе с метаданными.
type OrderPage struct {
	Data []Order
	Meta PageMeta
}

// LastPage вычисляет ceil(total/limit).
func LastPage(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
