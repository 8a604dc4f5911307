package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStocks map[int64]int

func (s stubStocks) StockFor(_ context.Context, productID int64) (int, error) {
	stock, ok := s[productID]
	if !ok {
		return 0, errors.New("not_found")
	}
	return stock, nil
}

func cola() LineProduct {
	barcode := "8901234567890"
	return LineProduct{ID: 1, Name: "Cola 500ml", Barcode: &barcode, Price: 100}
}

func chips() LineProduct {
	return LineProduct{ID: 2, Name: "Potato Chips", Price: 50}
}

func TestAddProductClampsToStock(t *testing.T) {
	c := New(stubStocks{1: 4}, 0)

	require.NoError(t, c.AddProduct(context.Background(), cola(), 10))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 4, lines[0].Quantity)
}

func TestAddProductAccumulatesAndClamps(t *testing.T) {
	c := New(stubStocks{1: 4}, 0)
	ctx := context.Background()

	require.NoError(t, c.AddProduct(ctx, cola(), 2))
	require.NoError(t, c.AddProduct(ctx, cola(), 3))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 4, lines[0].Quantity)
}

func TestAddProductRemovesLineWhenStockDropsToZero(t *testing.T) {
	stocks := stubStocks{1: 5}
	c := New(stocks, 0)
	ctx := context.Background()

	require.NoError(t, c.AddProduct(ctx, cola(), 3))

	// Stock sold out elsewhere since the line was added.
	stocks[1] = 0
	require.NoError(t, c.AddProduct(ctx, cola(), 1))

	assert.False(t, c.Contains(1))
	assert.True(t, c.IsEmpty())
}

func TestAddProductClampsWhenStockShrinks(t *testing.T) {
	stocks := stubStocks{1: 5}
	c := New(stocks, 0)
	ctx := context.Background()

	require.NoError(t, c.AddProduct(ctx, cola(), 3))

	stocks[1] = 2
	require.NoError(t, c.AddProduct(ctx, cola(), 1))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestAddProductOutOfStockIsNoOp(t *testing.T) {
	c := New(stubStocks{1: 0}, 0)

	require.NoError(t, c.AddProduct(context.Background(), cola(), 3))

	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.ItemCount())
}

func TestAddProductFreezesUnitPrice(t *testing.T) {
	stocks := stubStocks{1: 10}
	c := New(stocks, 0)
	ctx := context.Background()

	require.NoError(t, c.AddProduct(ctx, cola(), 1))

	// Catalog price changes do not reprice an open cart.
	changed := cola()
	changed.Price = 120
	require.NoError(t, c.AddProduct(ctx, changed, 1))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 100.0, lines[0].UnitPrice)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	c := New(stubStocks{1: 4}, 0)
	ctx := context.Background()

	require.NoError(t, c.AddProduct(ctx, cola(), 2))
	require.NoError(t, c.SetQuantity(ctx, 1, 0))

	assert.False(t, c.Contains(1))
}

func TestSetQuantityClampsToStock(t *testing.T) {
	c := New(stubStocks{1: 4}, 0)
	ctx := context.Background()

	require.NoError(t, c.AddProduct(ctx, cola(), 1))
	require.NoError(t, c.SetQuantity(ctx, 1, 99))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 4, lines[0].Quantity)
}

func TestIncrementStopsAtStock(t *testing.T) {
	c := New(stubStocks{1: 2}, 0)
	ctx := context.Background()

	require.NoError(t, c.AddProduct(ctx, cola(), 2))
	require.NoError(t, c.IncrementQuantity(ctx, 1))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestDecrementFromOneRemovesLine(t *testing.T) {
	c := New(stubStocks{1: 4}, 0)
	ctx := context.Background()

	require.NoError(t, c.AddProduct(ctx, cola(), 1))
	c.DecrementQuantity(1)

	assert.False(t, c.Contains(1))
	assert.True(t, c.IsEmpty())
}

func TestRemoveUnknownProductIsNoOp(t *testing.T) {
	c := New(stubStocks{1: 4}, 0)
	ctx := context.Background()

	require.NoError(t, c.AddProduct(ctx, cola(), 1))
	c.RemoveProduct(42)

	assert.Equal(t, 1, c.ItemCount())
}

func TestClearResetsDiscountButKeepsTax(t *testing.T) {
	c := New(stubStocks{1: 4}, 5)
	ctx := context.Background()

	require.NoError(t, c.AddProduct(ctx, cola(), 2))
	c.SetDiscountPercent(10)

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0.0, c.DiscountPercent())
	assert.Equal(t, 5.0, c.TaxPercent())
}

func TestPercentsAreClamped(t *testing.T) {
	c := New(stubStocks{}, 0)

	c.SetDiscountPercent(150)
	assert.Equal(t, 100.0, c.DiscountPercent())

	c.SetTaxPercent(-3)
	assert.Equal(t, 0.0, c.TaxPercent())
}

func TestLinesReturnsDefensiveCopy(t *testing.T) {
	c := New(stubStocks{1: 4}, 0)
	ctx := context.Background()

	require.NoError(t, c.AddProduct(ctx, cola(), 2))

	lines := c.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 2, c.Lines()[0].Quantity)
}

func TestTotals(t *testing.T) {
	c := New(stubStocks{1: 10, 2: 10}, 5)
	ctx := context.Background()

	require.NoError(t, c.AddProduct(ctx, cola(), 2))  // 200
	require.NoError(t, c.AddProduct(ctx, chips(), 3)) // 150
	c.SetDiscountPercent(10)

	subtotal, discount, tax, total := c.Totals()
	assert.InDelta(t, 350.0, subtotal, 1e-9)
	assert.InDelta(t, 35.0, discount, 1e-9)
	assert.InDelta(t, 15.75, tax, 1e-9)
	assert.InDelta(t, 330.75, total, 1e-9)

	assert.InDelta(t, c.Subtotal(), subtotal, 1e-9)
	assert.InDelta(t, c.DiscountAmount(), discount, 1e-9)
	assert.InDelta(t, c.TaxAmount(), tax, 1e-9)
	assert.InDelta(t, c.Total(), total, 1e-9)
}

func TestSnapshotMatchesTotalsAndCopiesLines(t *testing.T) {
	c := New(stubStocks{1: 10, 2: 10}, 5)
	ctx := context.Background()

	require.NoError(t, c.AddProduct(ctx, cola(), 2))
	require.NoError(t, c.AddProduct(ctx, chips(), 3))
	c.SetDiscountPercent(10)

	snap := c.Snapshot()

	require.Len(t, snap.Lines, 2)
	assert.InDelta(t, 350.0, snap.Subtotal, 1e-9)
	assert.InDelta(t, 35.0, snap.Discount, 1e-9)
	assert.InDelta(t, 15.75, snap.Tax, 1e-9)
	assert.InDelta(t, 330.75, snap.Total, 1e-9)

	// The totals are priced from exactly the captured lines.
	sum := 0.0
	for _, l := range snap.Lines {
		sum += l.Subtotal()
	}
	assert.InDelta(t, snap.Subtotal, sum, 1e-9)

	// Mutating the snapshot does not touch the live cart.
	snap.Lines[0].Quantity = 99
	assert.Equal(t, 2, c.Lines()[0].Quantity)
}

func TestLineDiscountReducesLineTotal(t *testing.T) {
	c := New(stubStocks{1: 10}, 0)
	ctx := context.Background()

	require.NoError(t, c.AddProduct(ctx, cola(), 2))
	c.SetLineDiscount(1, 20)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.InDelta(t, 200.0, lines[0].Subtotal(), 1e-9)
	assert.InDelta(t, 180.0, lines[0].Total(), 1e-9)
	assert.InDelta(t, 200.0, c.Subtotal(), 1e-9)
}

func TestTotalQuantitySumsAcrossLines(t *testing.T) {
	c := New(stubStocks{1: 10, 2: 10}, 0)
	ctx := context.Background()

	require.NoError(t, c.AddProduct(ctx, cola(), 2))
	require.NoError(t, c.AddProduct(ctx, chips(), 3))

	assert.Equal(t, 2, c.ItemCount())
	assert.Equal(t, 5, c.TotalQuantity())
}

func TestSessionStoreReusesCartPerTerminal(t *testing.T) {
	store := NewSessionStore(stubStocks{1: 10}, 5)

	a := store.Cart("till-1")
	b := store.Cart("till-1")
	other := store.Cart("till-2")

	assert.Same(t, a, b)
	assert.NotSame(t, a, other)

	// Empty terminal falls back to the default register.
	assert.Same(t, store.Cart(""), store.Cart(DefaultTerminal))
}

func TestSessionStoreAbandonClearsCart(t *testing.T) {
	store := NewSessionStore(stubStocks{1: 10}, 5)
	ctx := context.Background()

	c := store.Cart("till-1")
	require.NoError(t, c.AddProduct(ctx, cola(), 2))
	c.SetDiscountPercent(10)

	store.Abandon("till-1")

	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0.0, c.DiscountPercent())
	assert.Equal(t, 5.0, c.TaxPercent())
}
