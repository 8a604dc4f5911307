package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, product *Product) error
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Product, error)
	FindByBarcode(ctx context.Context, db *gorm.DB, barcode string) (*Product, error)
	FindAllActive(ctx context.Context, db *gorm.DB) ([]Product, error)
	List(ctx context.Context, db *gorm.DB, filter ListRequest) ([]Product, error)

	// DecreaseStock applies a guarded decrement and reports whether a row
	// was affected. Zero rows means stock fell below qty since validation.
	DecreaseStock(ctx context.Context, db *gorm.DB, productID int64, qty int) (bool, error)
	IncreaseStock(ctx context.Context, db *gorm.DB, productID int64, qty int) error

	CreateCategory(ctx context.Context, db *gorm.DB, category *Category) error
	FindAllActiveCategories(ctx context.Context, db *gorm.DB) ([]Category, error)
}
