package repository

import (
	"context"
	"time"

	"github.com/smallretail/tillpoint/internal/sale/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertSale(ctx context.Context, db *gorm.DB, sale *domain.Sale) error {
	return db.WithContext(ctx).Create(sale).Error
}

func (r *repo) InsertSaleItem(ctx context.Context, db *gorm.DB, item *domain.SaleItem) error {
	return db.WithContext(ctx).Create(item).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Sale, error) {
	var s domain.Sale
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM sales WHERE id = ?`, id,
	).Scan(&s).Error
	if err != nil {
		return nil, err
	}
	if s.ID == 0 {
		return nil, nil
	}
	return &s, nil
}

func (r *repo) FindItems(ctx context.Context, db *gorm.DB, saleID int64) ([]domain.SaleItem, error) {
	var items []domain.SaleItem
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM sale_items WHERE sale_id = ? ORDER BY id ASC`, saleID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.Sale, error) {
	var items []domain.Sale
	stmt := db.WithContext(ctx).Model(&domain.Sale{})

	if filter.From != nil {
		stmt = stmt.Where("sold_at >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("sold_at < ?", *filter.To)
	}
	if filter.Status != nil {
		stmt = stmt.Where("status = ?", *filter.Status)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	if err := stmt.Order("sold_at DESC").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id int64, status domain.Status, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE sales SET status = ?, updated_at = ? WHERE id = ?`,
		status, at, id,
	).Error
}

func (r *repo) DailySummary(ctx context.Context, db *gorm.DB, from, to time.Time) (*domain.DailySummary, error) {
	var summary domain.DailySummary
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) AS count, COALESCE(SUM(total), 0) AS revenue
		 FROM sales WHERE sold_at >= ? AND sold_at < ? AND status = ?`,
		from, to, domain.StatusCompleted,
	).Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
