package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallretail/tillpoint/internal/catalog/domain"
	"github.com/smallretail/tillpoint/internal/catalog/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Category{}, &domain.Product{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	}), db
}

func strPtr(s string) *string { return &s }

func TestCreateProduct(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, domain.CreateRequest{
		Name:    "Cola 500ml",
		Barcode: strPtr("8901234567890"),
		Price:   100,
		Stock:   12,
	})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.True(t, p.Active)
	// Code falls back to a slug of the name.
	assert.Equal(t, "cola-500ml", p.Code)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Name: "  ", Price: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateRequest{Name: "x", Price: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = svc.Create(ctx, domain.CreateRequest{Name: "x", Price: 1, Stock: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidStock)
}

func TestCreateProductDuplicateBarcode(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Name: "A", Price: 1, Barcode: strPtr("111")})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateRequest{Name: "B", Price: 1, Barcode: strPtr("111")})
	assert.ErrorIs(t, err, domain.ErrDuplicateEAN)
}

func TestGetByBarcode(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Cola", Price: 100, Barcode: strPtr("8901234567890")})
	require.NoError(t, err)

	found, err := svc.GetByBarcode(ctx, " 8901234567890 ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetByBarcode(ctx, "0000000000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetByBarcode(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidBarcode)
}

func TestUpdateProduct(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Cola", Price: 100, Stock: 5})
	require.NoError(t, err)

	price := 120.0
	stock := 8
	updated, err := svc.Update(ctx, domain.UpdateRequest{ID: created.ID, Price: &price, Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, 120.0, updated.Price)
	assert.Equal(t, 8, updated.Stock)

	bad := -5.0
	_, err = svc.Update(ctx, domain.UpdateRequest{ID: created.ID, Price: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = svc.Update(ctx, domain.UpdateRequest{ID: 424242})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestArchiveHidesProductFromSale(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Cola", Price: 100, Stock: 5})
	require.NoError(t, err)

	archived, err := svc.Archive(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, archived.Active)

	// Archived products have no sellable stock.
	_, err = svc.StockFor(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	snapshot, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Products)
}

func TestStockFor(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Cola", Price: 100, Stock: 7})
	require.NoError(t, err)

	stock, err := svc.StockFor(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stock)

	_, err = svc.StockFor(ctx, 424242)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLowStock(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Name: "Plenty", Price: 1, Stock: 50, MinStock: 5})
	require.NoError(t, err)
	low, err := svc.Create(ctx, domain.CreateRequest{Name: "Scarce", Price: 1, Stock: 2, MinStock: 5})
	require.NoError(t, err)

	items, err := svc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, low.ID, items[0].ID)
}

func TestSnapshotIncludesCategories(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, domain.CreateCategoryRequest{Name: "Drinks"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateRequest{Name: "Cola", Price: 100, Stock: 5})
	require.NoError(t, err)

	snapshot, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot.Products, 1)
	assert.Len(t, snapshot.Categories, 1)
}

func TestDecreaseStockGuard(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	repo := repository.Provide()

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Cola", Price: 100, Stock: 2})
	require.NoError(t, err)

	ok, err := repo.DecreaseStock(ctx, db, created.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	// Guard refuses to go below zero.
	ok, err = repo.DecreaseStock(ctx, db, created.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	stock, err := svc.StockFor(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stock)

	require.NoError(t, repo.IncreaseStock(ctx, db, created.ID, 3))
	stock, err = svc.StockFor(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stock)
}
