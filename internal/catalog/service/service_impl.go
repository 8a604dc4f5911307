package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallretail/tillpoint/internal/catalog/domain"
	"github.com/smallretail/tillpoint/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.Price < 0 {
		return nil, domain.ErrInvalidPrice
	}
	if req.Stock < 0 || req.MinStock < 0 {
		return nil, domain.ErrInvalidStock
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		code = slug.Make(name)
	}

	barcode := trimPtr(req.Barcode)
	description := trimPtr(req.Description)

	now := time.Now().UTC()
	p := &domain.Product{
		ID:          s.genID.Generate().Int64(),
		Code:        code,
		Name:        name,
		Barcode:     barcode,
		Description: description,
		Price:       req.Price,
		CostPrice:   req.CostPrice,
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		CategoryID:  req.CategoryID,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Metadata != nil {
		p.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.repo.Create(ctx, s.db, p); err != nil {
		if db.IsDuplicateKeyErr(err) {
			if barcode != nil {
				return nil, domain.ErrDuplicateEAN
			}
			return nil, domain.ErrDuplicateCode
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Product, error) {
	if req.ID == 0 {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, req.ID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		item.Name = name
	}
	if req.Barcode != nil {
		item.Barcode = trimPtr(req.Barcode)
	}
	if req.Description != nil {
		item.Description = trimPtr(req.Description)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, domain.ErrInvalidPrice
		}
		item.Price = *req.Price
	}
	if req.CostPrice != nil {
		item.CostPrice = *req.CostPrice
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, domain.ErrInvalidStock
		}
		item.Stock = *req.Stock
	}
	if req.MinStock != nil {
		if *req.MinStock < 0 {
			return nil, domain.ErrInvalidStock
		}
		item.MinStock = *req.MinStock
	}
	if req.CategoryID != nil {
		item.CategoryID = req.CategoryID
	}
	if req.Active != nil {
		item.Active = *req.Active
	}
	if req.Metadata != nil {
		item.Metadata = datatypes.JSONMap(req.Metadata)
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateEAN
		}
		return nil, err
	}
	return item, nil
}

func (s *Service) Archive(ctx context.Context, id int64) (*domain.Product, error) {
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	item.Active = false
	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *Service) GetByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, domain.ErrInvalidBarcode
	}
	item, err := s.repo.FindByBarcode(ctx, s.db, barcode)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Product, error) {
	filter := domain.ListRequest{
		Name:       strings.TrimSpace(req.Name),
		CategoryID: req.CategoryID,
		Active:     req.Active,
		SortBy:     strings.TrimSpace(req.SortBy),
		OrderBy:    strings.TrimSpace(req.OrderBy),
	}
	return s.repo.List(ctx, s.db, filter)
}

func (s *Service) LowStock(ctx context.Context) ([]domain.Product, error) {
	items, err := s.repo.FindAllActive(ctx, s.db)
	if err != nil {
		return nil, err
	}
	low := make([]domain.Product, 0)
	for _, item := range items {
		if item.LowStock() {
			low = append(low, item)
		}
	}
	return low, nil
}

func (s *Service) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	products, err := s.repo.FindAllActive(ctx, s.db)
	if err != nil {
		return nil, err
	}
	categories, err := s.repo.FindAllActiveCategories(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return &domain.Snapshot{Products: products, Categories: categories}, nil
}

func (s *Service) CreateCategory(ctx context.Context, req domain.CreateCategoryRequest) (*domain.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	category := &domain.Category{
		ID:          s.genID.Generate().Int64(),
		Name:        name,
		Description: trimPtr(req.Description),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateCategory(ctx, s.db, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Service) StockFor(ctx context.Context, productID int64) (int, error) {
	item, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return 0, err
	}
	if item == nil || !item.Active {
		return 0, domain.ErrNotFound
	}
	return item.Stock, nil
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
