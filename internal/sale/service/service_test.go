package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallretail/tillpoint/internal/cart"
	catalogdomain "github.com/smallretail/tillpoint/internal/catalog/domain"
	catalogrepository "github.com/smallretail/tillpoint/internal/catalog/repository"
	"github.com/smallretail/tillpoint/internal/clock"
	"github.com/smallretail/tillpoint/internal/sale/domain"
	"github.com/smallretail/tillpoint/internal/sale/format"
	salerepository "github.com/smallretail/tillpoint/internal/sale/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubStocks map[int64]int

func (s stubStocks) StockFor(_ context.Context, productID int64) (int, error) {
	return s[productID], nil
}

type fixture struct {
	db    *gorm.DB
	svc   domain.Service
	clock *clock.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&catalogdomain.Product{},
		&domain.Sale{},
		&domain.SaleItem{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2025, 9, 1, 12, 30, 45, 0, time.UTC))

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       clk,
		Repo:        salerepository.Provide(),
		CatalogRepo: catalogrepository.Provide(),
		InvoiceGen:  format.NewInvoiceNumberGenerator("INV"),
	})

	return &fixture{db: db, svc: svc, clock: clk}
}

func (f *fixture) seedProduct(t *testing.T, id int64, price float64, stock int) {
	t.Helper()
	require.NoError(t, f.db.Create(&catalogdomain.Product{
		ID:     id,
		Code:   fmt.Sprintf("p-%d", id),
		Name:   fmt.Sprintf("Product %d", id),
		Price:  price,
		Stock:  stock,
		Active: true,
	}).Error)
}

func (f *fixture) productStock(t *testing.T, id int64) int {
	t.Helper()
	var p catalogdomain.Product
	require.NoError(t, f.db.First(&p, id).Error)
	return p.Stock
}

func checkoutReq(paid float64) domain.CheckoutRequest {
	return domain.CheckoutRequest{
		CashierID:     7,
		CashierName:   "Asha",
		AmountPaid:    paid,
		PaymentMethod: domain.PaymentCash,
	}
}

func TestCheckoutCommitsSale(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, 1, 100, 5)
	ctx := context.Background()

	c := cart.New(stubStocks{1: 5}, 0)
	require.NoError(t, c.AddProduct(ctx, cart.LineProduct{ID: 1, Name: "Product 1", Price: 100}, 2))

	receipt, err := f.svc.Checkout(ctx, c, checkoutReq(250))
	require.NoError(t, err)

	assert.Equal(t, "INV20250901123045-0001", receipt.Sale.InvoiceNumber)
	assert.Equal(t, domain.StatusCompleted, receipt.Sale.Status)
	assert.InDelta(t, 200.0, receipt.Sale.Total, 1e-9)
	assert.InDelta(t, 50.0, receipt.Sale.Change, 1e-9)
	require.Len(t, receipt.Items, 1)
	assert.Equal(t, "Product 1", receipt.Items[0].ProductName)
	assert.Equal(t, 2, receipt.Items[0].Quantity)

	assert.Equal(t, 3, f.productStock(t, 1))
	assert.True(t, c.IsEmpty())

	var count int64
	require.NoError(t, f.db.Model(&domain.Sale{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCheckoutDiscountAndTaxTotals(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, 1, 100, 10)
	f.seedProduct(t, 2, 50, 10)
	ctx := context.Background()

	c := cart.New(stubStocks{1: 10, 2: 10}, 5)
	require.NoError(t, c.AddProduct(ctx, cart.LineProduct{ID: 1, Name: "Product 1", Price: 100}, 2))
	require.NoError(t, c.AddProduct(ctx, cart.LineProduct{ID: 2, Name: "Product 2", Price: 50}, 3))
	c.SetDiscountPercent(10)

	receipt, err := f.svc.Checkout(ctx, c, checkoutReq(330.75))
	require.NoError(t, err)

	assert.InDelta(t, 350.0, receipt.Sale.Subtotal, 1e-9)
	assert.InDelta(t, 35.0, receipt.Sale.Discount, 1e-9)
	assert.InDelta(t, 15.75, receipt.Sale.Tax, 1e-9)
	assert.InDelta(t, 330.75, receipt.Sale.Total, 1e-9)
	assert.InDelta(t, 0.0, receipt.Sale.Change, 1e-6)
}

func TestCheckoutRejectsInsufficientPayment(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, 1, 100, 10)
	f.seedProduct(t, 2, 50, 10)
	ctx := context.Background()

	c := cart.New(stubStocks{1: 10, 2: 10}, 5)
	require.NoError(t, c.AddProduct(ctx, cart.LineProduct{ID: 1, Name: "Product 1", Price: 100}, 2))
	require.NoError(t, c.AddProduct(ctx, cart.LineProduct{ID: 2, Name: "Product 2", Price: 50}, 3))
	c.SetDiscountPercent(10)

	_, err := f.svc.Checkout(ctx, c, checkoutReq(330.74))
	assert.ErrorIs(t, err, domain.ErrInsufficientPayment)

	// Nothing persisted, cart untouched.
	var count int64
	require.NoError(t, f.db.Model(&domain.Sale{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, 2, c.ItemCount())
	assert.Equal(t, 10, f.productStock(t, 1))
}

func TestCheckoutRejectsInvalidPaymentMethod(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := cart.New(stubStocks{}, 0)
	req := checkoutReq(100)
	req.PaymentMethod = "CRYPTO"

	_, err := f.svc.Checkout(ctx, c, req)
	assert.ErrorIs(t, err, domain.ErrInvalidPayment)
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := cart.New(stubStocks{}, 0)
	_, err := f.svc.Checkout(ctx, c, checkoutReq(100))
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestCheckoutStockChangedRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, 1, 100, 1)
	ctx := context.Background()

	// The cart was priced when three units looked available; another
	// terminal has since sold two of them.
	c := cart.New(stubStocks{1: 3}, 0)
	require.NoError(t, c.AddProduct(ctx, cart.LineProduct{ID: 1, Name: "Product 1", Price: 100}, 3))

	_, err := f.svc.Checkout(ctx, c, checkoutReq(300))
	assert.ErrorIs(t, err, domain.ErrStockChanged)

	var sales, items int64
	require.NoError(t, f.db.Model(&domain.Sale{}).Count(&sales).Error)
	require.NoError(t, f.db.Model(&domain.SaleItem{}).Count(&items).Error)
	assert.Equal(t, int64(0), sales)
	assert.Equal(t, int64(0), items)
	assert.Equal(t, 1, f.productStock(t, 1))
	assert.Equal(t, 1, c.ItemCount())
}

func TestCheckoutSameSecondInvoiceNumbersDiffer(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, 1, 100, 10)
	ctx := context.Background()

	first := cart.New(stubStocks{1: 10}, 0)
	require.NoError(t, first.AddProduct(ctx, cart.LineProduct{ID: 1, Name: "Product 1", Price: 100}, 1))
	second := cart.New(stubStocks{1: 10}, 0)
	require.NoError(t, second.AddProduct(ctx, cart.LineProduct{ID: 1, Name: "Product 1", Price: 100}, 1))

	r1, err := f.svc.Checkout(ctx, first, checkoutReq(100))
	require.NoError(t, err)
	r2, err := f.svc.Checkout(ctx, second, checkoutReq(100))
	require.NoError(t, err)

	assert.NotEqual(t, r1.Sale.InvoiceNumber, r2.Sale.InvoiceNumber)
}

func TestGetReturnsReceipt(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, 1, 100, 5)
	ctx := context.Background()

	c := cart.New(stubStocks{1: 5}, 0)
	require.NoError(t, c.AddProduct(ctx, cart.LineProduct{ID: 1, Name: "Product 1", Price: 100}, 2))
	committed, err := f.svc.Checkout(ctx, c, checkoutReq(200))
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, committed.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, committed.Sale.InvoiceNumber, got.Sale.InvoiceNumber)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestGetUnknownSale(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Get(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVoidKeepsStock(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, 1, 100, 5)
	ctx := context.Background()

	c := cart.New(stubStocks{1: 5}, 0)
	require.NoError(t, c.AddProduct(ctx, cart.LineProduct{ID: 1, Name: "Product 1", Price: 100}, 2))
	committed, err := f.svc.Checkout(ctx, c, checkoutReq(200))
	require.NoError(t, err)

	voided, err := f.svc.Void(ctx, committed.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusVoid, voided.Status)

	// A void does not put quantities back.
	assert.Equal(t, 3, f.productStock(t, 1))
}

func TestRefundRestocks(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, 1, 100, 5)
	ctx := context.Background()

	c := cart.New(stubStocks{1: 5}, 0)
	require.NoError(t, c.AddProduct(ctx, cart.LineProduct{ID: 1, Name: "Product 1", Price: 100}, 2))
	committed, err := f.svc.Checkout(ctx, c, checkoutReq(200))
	require.NoError(t, err)
	require.Equal(t, 3, f.productStock(t, 1))

	refunded, err := f.svc.Refund(ctx, committed.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRefunded, refunded.Status)
	assert.Equal(t, 5, f.productStock(t, 1))
}

func TestTransitionOnlyFromCompleted(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, 1, 100, 5)
	ctx := context.Background()

	c := cart.New(stubStocks{1: 5}, 0)
	require.NoError(t, c.AddProduct(ctx, cart.LineProduct{ID: 1, Name: "Product 1", Price: 100}, 1))
	committed, err := f.svc.Checkout(ctx, c, checkoutReq(100))
	require.NoError(t, err)

	_, err = f.svc.Void(ctx, committed.Sale.ID)
	require.NoError(t, err)

	_, err = f.svc.Refund(ctx, committed.Sale.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestDailySummary(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, 1, 100, 10)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		c := cart.New(stubStocks{1: 10}, 0)
		require.NoError(t, c.AddProduct(ctx, cart.LineProduct{ID: 1, Name: "Product 1", Price: 100}, 1))
		_, err := f.svc.Checkout(ctx, c, checkoutReq(100))
		require.NoError(t, err)
	}

	summary, err := f.svc.DailySummary(ctx, f.clock.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Count)
	assert.InDelta(t, 200.0, summary.Revenue, 1e-9)

	// The day after has nothing.
	empty, err := f.svc.DailySummary(ctx, f.clock.Now().Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.Count)
}
