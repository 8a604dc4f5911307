package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Product, error)
	Update(ctx context.Context, req UpdateRequest) (*Product, error)
	Archive(ctx context.Context, id int64) (*Product, error)
	Get(ctx context.Context, id int64) (*Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*Product, error)
	List(ctx context.Context, req ListRequest) ([]Product, error)
	LowStock(ctx context.Context) ([]Product, error)
	Snapshot(ctx context.Context) (*Snapshot, error)

	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error)

	// StockFor reports the current stock level for an active product.
	// Cart mutations call this on every change; the value is never cached.
	StockFor(ctx context.Context, productID int64) (int, error)
}

// Snapshot is a point-in-time read of the sellable catalog,
// re-queried from storage on every call.
type Snapshot struct {
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories"`
}

type CreateRequest struct {
	Code        string
	Name        string
	Barcode     *string
	Description *string
	Price       float64
	CostPrice   float64
	Stock       int
	MinStock    int
	CategoryID  *int64
	Metadata    map[string]any
}

type UpdateRequest struct {
	ID          int64
	Name        *string
	Barcode     *string
	Description *string
	Price       *float64
	CostPrice   *float64
	Stock       *int
	MinStock    *int
	CategoryID  *int64
	Active      *bool
	Metadata    map[string]any
}

type ListRequest struct {
	Name       string
	CategoryID *int64
	Active     *bool
	SortBy     string
	OrderBy    string
}

type CreateCategoryRequest struct {
	Name        string
	Description *string
}

var (
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidPrice   = errors.New("invalid_price")
	ErrInvalidStock   = errors.New("invalid_stock")
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("not_found")
	ErrDuplicateCode  = errors.New("duplicate_code")
	ErrDuplicateEAN   = errors.New("duplicate_barcode")
	ErrInvalidBarcode = errors.New("invalid_barcode")
)
