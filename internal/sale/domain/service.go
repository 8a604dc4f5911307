package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallretail/tillpoint/internal/cart"
)

type Service interface {
	// Checkout commits the cart as a sale: one transactional boundary
	// covering the sale header, the per-line snapshots, and the stock
	// decrements. On success the cart is cleared; on any failure nothing
	// persists and the cart is untouched.
	Checkout(ctx context.Context, c *cart.Cart, req CheckoutRequest) (*Receipt, error)

	Get(ctx context.Context, id int64) (*Receipt, error)
	List(ctx context.Context, req ListRequest) ([]Sale, error)
	DailySummary(ctx context.Context, day time.Time) (*DailySummary, error)

	// Void and Refund transition a committed sale's status. Totals and
	// items never change.
	Void(ctx context.Context, id int64) (*Sale, error)
	Refund(ctx context.Context, id int64) (*Sale, error)
}

type CheckoutRequest struct {
	CashierID     int64
	CashierName   string
	AmountPaid    float64
	PaymentMethod PaymentMethod
}

// Receipt is the finalized sale plus its frozen line items, the value
// handed to downstream consumers such as the PDF renderer.
type Receipt struct {
	Sale  Sale       `json:"sale"`
	Items []SaleItem `json:"items"`
}

var (
	ErrEmptyCart           = errors.New("empty_cart")
	ErrInvalidPayment      = errors.New("invalid_payment_method")
	ErrInsufficientPayment = errors.New("insufficient_payment")
	ErrStockChanged        = errors.New("stock_changed")
	ErrPersistence         = errors.New("persistence_failure")
	ErrNotFound            = errors.New("not_found")
	ErrInvalidTransition   = errors.New("invalid_status_transition")
)
