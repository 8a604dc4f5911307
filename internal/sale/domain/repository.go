package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	InsertSale(ctx context.Context, db *gorm.DB, sale *Sale) error
	InsertSaleItem(ctx context.Context, db *gorm.DB, item *SaleItem) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Sale, error)
	FindItems(ctx context.Context, db *gorm.DB, saleID int64) ([]SaleItem, error)
	List(ctx context.Context, db *gorm.DB, filter ListRequest) ([]Sale, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id int64, status Status, at time.Time) error
	DailySummary(ctx context.Context, db *gorm.DB, from, to time.Time) (*DailySummary, error)
}

type ListRequest struct {
	From   *time.Time
	To     *time.Time
	Status *Status
	Limit  int
}

type DailySummary struct {
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}
