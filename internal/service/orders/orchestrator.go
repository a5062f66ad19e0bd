package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Nest-Microservices-dev/orders-ms/internal/domain"
	"github.com/Nest-Microservices-dev/orders-ms/internal/metrics"
)

// Orchestrator описывает операции над заказами поверх каталога, платёжного шлюза и хранилища.
type Orchestrator interface {
	Create(ctx context.Context, items []domain.CreateItem) (domain.Order, error)
	FindAll(ctx context.Context, query domain.ListQuery) (domain.OrderPage, error)
	FindOne(ctx context.Context, id string) (domain.Order, error)
	ChangeStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error)
	CreatePaymentSession(ctx context.Context, order domain.Order) (domain.PaymentSession, error)
	ConfirmPayment(ctx context.Context, confirmation domain.PaymentConfirmation) (domain.Order, error)
}

// Option настраивает оркестратор.
type Option func(*orchestrator)

// WithEventPublisher включает публикацию доменных событий.
func WithEventPublisher(publisher domain.EventPublisher) Option {
	return func(o *orchestrator) { o.events = publisher }
}

// WithMetrics подключает метрики. Без опции метрики не пишутся.
func WithMetrics(m *metrics.OrderMetrics) Option {
	return func(o *orchestrator) { o.metrics = m }
}

// WithCurrency задаёт валюту платёжных сессий.
func WithCurrency(currency string) Option {
	return func(o *orchestrator) {
		if currency != "" {
			o.currency = currency
		}
	}
}

// WithClock подменяет источник времени (используется в тестах).
func WithClock(now func() time.Time) Option {
	return func(o *orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

type orchestrator struct {
	orders   domain.OrderRepository
	products domain.ProductValidator
	payments domain.PaymentGateway
	events   domain.EventPublisher // опционально
	logger   *log.Entry
	metrics  *metrics.OrderMetrics // опционально
	currency string
	now      func() time.Time
}

// NewOrchestrator создаёт оркестратор заказов.
func NewOrchestrator(
	orders domain.OrderRepository,
	products domain.ProductValidator,
	payments domain.PaymentGateway,
	logger *log.Entry,
	opts ...Option,
) Orchestrator {
	if logger == nil {
		logger = log.New().WithField("component", "orders")
	}
	o := &orchestrator{
		orders:   orders,
		products: products,
		payments: payments,
		logger:   logger,
		currency: domain.DefaultPaymentCurrency,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Create проверяет товары, фиксирует цены и сохраняет заказ.
// Любая ошибка проверки или сохранения превращается в ErrInvalidProducts.
func (o *orchestrator) Create(ctx context.Context, items []domain.CreateItem) (order domain.Order, err error) {
	defer o.observe("create", time.Now(), &err)

	if len(items) == 0 {
		return domain.Order{}, o.rejectCreate(domain.ErrItemsRequired, nil)
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return domain.Order{}, o.rejectCreate(domain.ErrItemQuantityInvalid, nil)
		}
	}

	ids := domain.DistinctProductIDs(items)
	products, err := o.products.Validate(ctx, ids)
	if err != nil {
		return domain.Order{}, o.rejectCreate(err, ids)
	}
	index := domain.ProductsByID(products)

	now := o.now()
	order = domain.Order{
		ID:        uuid.NewString(),
		Status:    domain.OrderStatusPending,
		Items:     make([]domain.OrderItem, 0, len(items)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, item := range items {
		product, ok := index[item.ProductID]
		if !ok {
			return domain.Order{}, o.rejectCreate(fmt.Errorf("%w: %d", domain.ErrProductNotFound, item.ProductID), ids)
		}
		order.Items = append(order.Items, domain.OrderItem{
			ID:        uuid.NewString(),
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     product.Price,
			Name:      product.Name,
		})
	}
	order.TotalAmount, order.TotalItems = domain.Totals(order.Items)

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, o.rejectCreate(errors.Join(errs...), ids)
	}

	created, err := o.orders.Create(ctx, order)
	if err != nil {
		return domain.Order{}, o.rejectCreate(fmt.Errorf("persist order: %w", err), ids)
	}
	if created.Items, err = enrichItems(created.Items, index); err != nil {
		return domain.Order{}, o.rejectCreate(err, ids)
	}

	o.logger.WithFields(log.Fields{
		"order_id":     created.ID,
		"total_amount": created.TotalAmount.StringFixed(2),
		"total_items":  created.TotalItems,
	}).Info("order created")
	if o.metrics != nil {
		o.metrics.RecordOrderCreated()
	}
	o.publish(ctx, domain.OrderEventCreated, created)

	return created, nil
}

// FindAll возвращает страницу заказов без позиций.
func (o *orchestrator) FindAll(ctx context.Context, query domain.ListQuery) (page domain.OrderPage, err error) {
	defer o.observe("find_all", time.Now(), &err)

	query = query.Normalize()
	if err := query.Validate(); err != nil {
		return domain.OrderPage{}, err
	}

	total, err := o.orders.Count(ctx, query.Filter())
	if err != nil {
		return domain.OrderPage{}, fmt.Errorf("count orders: %w", err)
	}
	data, err := o.orders.FindMany(ctx, query.Filter(), query.Offset(), query.Limit)
	if err != nil {
		return domain.OrderPage{}, fmt.Errorf("list orders: %w", err)
	}

	return domain.OrderPage{
		Data: data,
		Meta: domain.PageMeta{
			Total:    total,
			Page:     query.Page,
			LastPage: domain.LastPage(total, query.Limit),
		},
	}, nil
}

// FindOne возвращает заказ с позициями и актуальными названиями товаров.
func (o *orchestrator) FindOne(ctx context.Context, id string) (order domain.Order, err error) {
	defer o.observe("find_one", time.Now(), &err)
	return o.findOne(ctx, id)
}

func (o *orchestrator) findOne(ctx context.Context, id string) (domain.Order, error) {
	if id == "" {
		return domain.Order{}, domain.ErrOrderIDRequired
	}

	order, err := o.orders.FindOne(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}

	ids := order.ProductIDs()
	if len(ids) == 0 {
		return order, nil
	}
	products, err := o.products.Validate(ctx, ids)
	if err != nil {
		o.logger.WithError(err).WithFields(log.Fields{
			"order_id":    order.ID,
			"product_ids": ids,
		}).Warn("product lookup failed for order items")
		return domain.Order{}, domain.ErrInvalidProducts
	}
	items, err := enrichItems(order.Items, domain.ProductsByID(products))
	if err != nil {
		o.logger.WithError(err).WithField("order_id", order.ID).Warn("order item has no catalog entry")
		return domain.Order{}, fmt.Errorf("%w: %v", domain.ErrInvalidProducts, err)
	}
	order.Items = items
	return order, nil
}

// ChangeStatus переводит заказ в новый статус. Повторный запрос с тем же статусом
// ничего не пишет и возвращает заказ с названиями товаров, при реальной смене
// возвращается сохранённая строка без позиций. Переходы в PAID и из PAID запрещены.
func (o *orchestrator) ChangeStatus(ctx context.Context, id string, status domain.OrderStatus) (order domain.Order, err error) {
	defer o.observe("change_status", time.Now(), &err)

	if !status.Valid() {
		return domain.Order{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	current, err := o.findOne(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if current.Status == status {
		o.logger.WithFields(log.Fields{
			"order_id": id,
			"status":   status,
		}).Debug("order already in requested status")
		return current, nil
	}
	if err := domain.CheckStatusChange(current.Status, status); err != nil {
		return domain.Order{}, err
	}

	updated, err := o.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return domain.Order{}, err
	}

	o.logger.WithFields(log.Fields{
		"order_id": id,
		"from":     current.Status,
		"to":       updated.Status,
	}).Info("order status changed")
	if o.metrics != nil {
		o.metrics.RecordStatusChange(string(updated.Status))
	}
	o.publish(ctx, domain.OrderEventStatusChanged, updated)

	return updated, nil
}

// CreatePaymentSession запрашивает платёжную сессию для заказа. Локальное состояние не меняется.
func (o *orchestrator) CreatePaymentSession(ctx context.Context, order domain.Order) (session domain.PaymentSession, err error) {
	defer o.observe("create_payment_session", time.Now(), &err)

	req := domain.PaymentSessionRequest{
		OrderID:  order.ID,
		Currency: o.currency,
		Items:    make([]domain.PaymentSessionItem, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		req.Items = append(req.Items, domain.PaymentSessionItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	session, err = o.payments.CreateSession(ctx, req)
	if err != nil {
		o.logger.WithError(err).WithField("order_id", order.ID).Error("create payment session failed")
		if o.metrics != nil {
			o.metrics.RecordPaymentSession(metrics.ResultError)
		}
		return domain.PaymentSession{}, fmt.Errorf("%w: %v", domain.ErrPaymentGateway, err)
	}
	if o.metrics != nil {
		o.metrics.RecordPaymentSession(metrics.ResultSuccess)
	}
	return session, nil
}

// ConfirmPayment фиксирует успешную оплату: статус PAID, время оплаты, платёж и чек.
// Повторное подтверждение перезаписывает данные платежа и чек.
func (o *orchestrator) ConfirmPayment(ctx context.Context, confirmation domain.PaymentConfirmation) (order domain.Order, err error) {
	defer o.observe("confirm_payment", time.Now(), &err)

	if errs := confirmation.Validate(); len(errs) > 0 {
		return domain.Order{}, errors.Join(errs...)
	}

	order, err = o.orders.MarkPaid(ctx, confirmation, o.now())
	if err != nil {
		return domain.Order{}, err
	}

	o.logger.WithFields(log.Fields{
		"order_id":   order.ID,
		"payment_id": confirmation.StripePaymentID,
	}).Info("order paid")
	if o.metrics != nil {
		o.metrics.RecordPaymentConfirmed()
	}
	o.publish(ctx, domain.OrderEventPaid, order)

	return order, nil
}

func (o *orchestrator) rejectCreate(cause error, ids []int64) error {
	o.logger.WithError(cause).WithField("product_ids", ids).Warn("order rejected")
	if o.metrics != nil {
		o.metrics.RecordOrderRejected()
	}
	return domain.ErrInvalidProducts
}

// publish отправляет событие, если publisher настроен. Ошибка публикации не прерывает операцию.
func (o *orchestrator) publish(ctx context.Context, eventType domain.OrderEventType, order domain.Order) {
	if o.events == nil {
		return
	}
	event := domain.NewOrderEvent(eventType, order)
	event.OccurredAt = o.now()
	if err := o.events.Publish(ctx, event); err != nil {
		o.logger.WithError(err).WithFields(log.Fields{
			"event_type": eventType,
			"order_id":   order.ID,
		}).Warn("failed to publish order event")
	}
}

func (o *orchestrator) observe(operation string, start time.Time, err *error) {
	if o.metrics != nil {
		o.metrics.RecordOperation(operation, *err, time.Since(start))
	}
}

// enrichItems подставляет названия товаров. Каждая позиция обязана найтись в каталоге.
func enrichItems(items []domain.OrderItem, index map[int64]domain.Product) ([]domain.OrderItem, error) {
	out := make([]domain.OrderItem, len(items))
	for i, item := range items {
		product, ok := index[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %d", domain.ErrProductNotFound, item.ProductID)
		}
		item.Name = product.Name
		out[i] = item
	}
	return out, nil
}

var _ Orchestrator = (*orchestrator)(nil)
