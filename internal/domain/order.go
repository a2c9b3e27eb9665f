package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound    = errors.New("order not found")
	ErrNoItems     = errors.New("no items to order")
	ErrInvalidItem = errors.New("invalid order item")
)

const StatusPending = "pending"

// Order is the persisted order header. Item rows are stored separately and
// joined in only by GetByID.
type Order struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// NewItem is a single line of an incoming order. Price is the caller's
// snapshot of the catalog price and is stored verbatim.
type NewItem struct {
	ProductID int64
	Quantity  int
	Price     decimal.Decimal
}

// ValidateItems rejects orders that must never reach the store.
func ValidateItems(items []NewItem) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	for i, it := range items {
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: item %d: quantity must be positive, got %d", ErrInvalidItem, i, it.Quantity)
		}
		if it.Price.IsNegative() {
			return fmt.Errorf("%w: item %d: price must not be negative, got %s", ErrInvalidItem, i, it.Price)
		}
	}
	return nil
}

// Total computes the order total as Σ price×quantity with decimal arithmetic,
// rounded to two fractional digits.
func Total(items []NewItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total.Round(2)
}
