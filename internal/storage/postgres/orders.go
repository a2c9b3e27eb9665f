package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dkhamitov/order-service/internal/domain"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts the order header and all item rows in one transaction.
// Either the whole order becomes visible or nothing does.
func (r *OrderRepository) Create(ctx context.Context, userID int64, total decimal.Decimal, items []domain.NewItem) (_ *domain.Order, txErr error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if txErr != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("rollback: %w", rbErr))
			}
		}
	}()

	order, err := scanOrder(tx.QueryRow(ctx, `
		INSERT INTO orders (user_id, total_amount)
		VALUES ($1, $2)
		RETURNING id, user_id, total_amount::text, status, created_at, updated_at
		`, userID, total.StringFixed(2)))
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	for _, it := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4)
			`, order.ID, it.ProductID, it.Quantity, it.Price.StringFixed(2))
		if err != nil {
			return nil, fmt.Errorf("insert item (product %d): %w", it.ProductID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return order, nil
}

// ListByUser returns the user's order headers most-recent-first. The ordering
// is part of the read contract, not incidental.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, total_amount::text, status, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		`, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// GetByID fetches one order header together with its item rows.
func (r *OrderRepository) GetByID(ctx context.Context, orderID int64) (*domain.Order, []domain.OrderItem, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, `
		SELECT id, user_id, total_amount::text, status, created_at, updated_at
		FROM orders
		WHERE id = $1
		`, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("query order: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, product_id, quantity, price::text
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
		`, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var (
			it       domain.OrderItem
			priceStr string
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &priceStr); err != nil {
			return nil, nil, fmt.Errorf("scan item: %w", err)
		}
		if it.Price, err = decimal.NewFromString(priceStr); err != nil {
			return nil, nil, fmt.Errorf("parse price %q: %w", priceStr, err)
		}
		items = append(items, it)
	}
	return order, items, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o        domain.Order
		totalStr string
	)
	if err := row.Scan(&o.ID, &o.UserID, &totalStr, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	total, err := decimal.NewFromString(totalStr)
	if err != nil {
		return nil, fmt.Errorf("parse total %q: %w", totalStr, err)
	}
	o.TotalAmount = total
	return &o, nil
}
