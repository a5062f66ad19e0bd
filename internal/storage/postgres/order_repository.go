package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Nest-Microservices-dev/orders-ms/internal/domain"
)

const (
	opTimeout = 5 * time.Second

	orderColumns = `id, total_amount, total_items, status, paid, paid_at, stripe_charge_id, created_at, updated_at`
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

// Create сохраняет заказ и позиции одной транзакцией.
func (r *orderRepository) Create(ctx context.Context, order domain.Order) (created domain.Order, err error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	created, err = scanOrder(tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			id, total_amount, total_items, status, paid, paid_at, stripe_charge_id, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING `+orderColumns,
		order.ID, order.TotalAmount, order.TotalItems, string(order.Status),
		order.Paid, nullTime(order.PaidAt), nullString(order.StripeChargeID),
		order.CreatedAt, order.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Order{}, domain.ErrOrderAlreadyExists
		}
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}

	created.Items = make([]domain.OrderItem, 0, len(order.Items))
	for i, item := range order.Items {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				id, order_id, line_no, product_id, quantity, price
			) VALUES ($1,$2,$3,$4,$5,$6)
		`,
			item.ID, order.ID, i, item.ProductID, item.Quantity, item.Price,
		); err != nil {
			return domain.Order{}, fmt.Errorf("insert order item: %w", err)
		}
		item.Name = ""
		created.Items = append(created.Items, item)
	}

	if err = tx.Commit(); err != nil {
		return domain.Order{}, fmt.Errorf("commit create order: %w", err)
	}

	return created, nil
}

// Count считает заказы под фильтром.
func (r *orderRepository) Count(ctx context.Context, filter domain.OrderFilter) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	where, args := filterClause(filter)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return total, nil
}

// FindMany возвращает страницу заказов без позиций в порядке создания.
func (r *orderRepository) FindMany(ctx context.Context, filter domain.OrderFilter, skip, take int) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	where, args := filterClause(filter)
	args = append(args, skip, take)

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM orders%s
		ORDER BY created_at ASC, id ASC
		OFFSET $%d LIMIT $%d
	`, orderColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return orders, nil
}

// FindOne возвращает заказ вместе с позициями и чеком.
func (r *orderRepository) FindOne(ctx context.Context, id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var (
		order         domain.Order
		status        string
		paidAt        sql.NullTime
		chargeID      sql.NullString
		receiptID     sql.NullString
		receiptURL    sql.NullString
		receiptCreate sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT o.id, o.total_amount, o.total_items, o.status, o.paid, o.paid_at, o.stripe_charge_id,
		       o.created_at, o.updated_at, rc.id, rc.receipt_url, rc.created_at
		FROM orders o
		LEFT JOIN order_receipts rc ON rc.order_id = o.id
		WHERE o.id = $1
	`, id).Scan(
		&order.ID, &order.TotalAmount, &order.TotalItems, &status, &order.Paid, &paidAt, &chargeID,
		&order.CreatedAt, &order.UpdatedAt, &receiptID, &receiptURL, &receiptCreate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}
	order.Status = domain.OrderStatus(status)
	applyPayment(&order, paidAt, chargeID)
	if receiptID.Valid {
		order.Receipt = &domain.OrderReceipt{
			ID:         receiptID.String,
			OrderID:    order.ID,
			ReceiptURL: receiptURL.String,
			CreatedAt:  receiptCreate.Time,
		}
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items

	return order, nil
}

// UpdateStatus меняет статус и возвращает обновлённую строку без позиций.
func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	order, err := scanOrder(r.db.QueryRowContext(ctx, `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+orderColumns,
		id, string(status),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("update order status: %w", err)
	}
	return order, nil
}

// MarkPaid в одной транзакции переводит заказ в PAID и создаёт или перезаписывает чек.
func (r *orderRepository) MarkPaid(ctx context.Context, confirmation domain.PaymentConfirmation, paidAt time.Time) (order domain.Order, err error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	order, err = scanOrder(tx.QueryRowContext(ctx, `
		UPDATE orders
		SET status = $2, paid = TRUE, paid_at = $3, stripe_charge_id = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING `+orderColumns,
		confirmation.OrderID, string(domain.OrderStatusPaid), paidAt, confirmation.StripePaymentID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("mark order paid: %w", err)
	}

	receipt := domain.OrderReceipt{OrderID: order.ID}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO order_receipts (id, order_id, receipt_url, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (order_id) DO UPDATE
		SET receipt_url = EXCLUDED.receipt_url, updated_at = NOW()
		RETURNING id, receipt_url, created_at
	`, uuid.NewString(), order.ID, confirmation.ReceiptURL).Scan(&receipt.ID, &receipt.ReceiptURL, &receipt.CreatedAt)
	if err != nil {
		return domain.Order{}, fmt.Errorf("upsert order receipt: %w", err)
	}
	order.Receipt = &receipt

	if err = tx.Commit(); err != nil {
		return domain.Order{}, fmt.Errorf("commit mark paid: %w", err)
	}

	return order, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY line_no ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order    domain.Order
		status   string
		paidAt   sql.NullTime
		chargeID sql.NullString
	)
	if err := row.Scan(
		&order.ID, &order.TotalAmount, &order.TotalItems, &status, &order.Paid, &paidAt, &chargeID,
		&order.CreatedAt, &order.UpdatedAt,
	); err != nil {
		return domain.Order{}, err
	}
	order.Status = domain.OrderStatus(status)
	applyPayment(&order, paidAt, chargeID)
	return order, nil
}

func applyPayment(order *domain.Order, paidAt sql.NullTime, chargeID sql.NullString) {
	if paidAt.Valid {
		t := paidAt.Time.UTC()
		order.PaidAt = &t
	}
	order.StripeChargeID = chargeID.String
	order.CreatedAt = order.CreatedAt.UTC()
	order.UpdatedAt = order.UpdatedAt.UTC()
}

// filterClause строит WHERE для фильтра. Аргументы нумеруются с $1.
func filterClause(filter domain.OrderFilter) (string, []any) {
	if filter.Status == nil {
		return "", nil
	}
	return " WHERE status = $1", []any{string(*filter.Status)}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.OrderRepository = (*orderRepository)(nil)
