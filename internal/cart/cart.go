package cart

import (
	"context"
	"sync"
)

// StockReader reports the live stock level for an active product.
// Implemented by the catalog service; consulted on every mutation,
// never cached inside the cart.
type StockReader interface {
	StockFor(ctx context.Context, productID int64) (int, error)
}

// LineProduct carries the product fields a cart line freezes at add time.
type LineProduct struct {
	ID      int64
	Name    string
	Barcode *string
	Price   float64
}

// Line is one product entry in the cart. Name, barcode, and unit price
// are snapshots taken when the line was created; a later catalog price
// change does not reprice an open cart.
type Line struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Barcode   *string `json:"barcode,omitempty"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Discount  float64 `json:"discount"`
}

func (l Line) Subtotal() float64 { return l.UnitPrice * float64(l.Quantity) }

func (l Line) Total() float64 { return l.Subtotal() - l.Discount }

// Cart accumulates line items for one checkout session. All mutations
// are serialized through an internal mutex; quantity requests beyond
// current stock are silently clamped rather than rejected, so a sale
// can never be built that oversells inventory.
type Cart struct {
	mu              sync.Mutex
	stocks          StockReader
	lines           []Line
	discountPercent float64
	taxPercent      float64
}

func New(stocks StockReader, taxPercent float64) *Cart {
	return &Cart{
		stocks:     stocks,
		lines:      make([]Line, 0),
		taxPercent: clampPercent(taxPercent),
	}
}

// AddProduct adds qty units of the product, accumulating onto an
// existing line. The resulting quantity is clamped to current stock;
// a request that clamps to zero is a no-op.
func (c *Cart) AddProduct(ctx context.Context, product LineProduct, qty int) error {
	if qty <= 0 {
		return nil
	}

	stock, err := c.stocks.StockFor(ctx, product.ID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == product.ID {
			clamped := clampQty(c.lines[i].Quantity+qty, stock)
			if clamped <= 0 {
				c.removeLocked(product.ID)
				return nil
			}
			c.lines[i].Quantity = clamped
			return nil
		}
	}

	if clamped := clampQty(qty, stock); clamped > 0 {
		c.lines = append(c.lines, Line{
			ProductID: product.ID,
			Name:      product.Name,
			Barcode:   product.Barcode,
			UnitPrice: product.Price,
			Quantity:  clamped,
		})
	}
	return nil
}

// SetQuantity sets a line's quantity. Zero or negative removes the
// line; anything above current stock is clamped.
func (c *Cart) SetQuantity(ctx context.Context, productID int64, qty int) error {
	if qty <= 0 {
		c.RemoveProduct(productID)
		return nil
	}

	stock, err := c.stocks.StockFor(ctx, productID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			clamped := clampQty(qty, stock)
			if clamped <= 0 {
				c.removeLocked(productID)
				return nil
			}
			c.lines[i].Quantity = clamped
			return nil
		}
	}
	return nil
}

// RemoveProduct removes the line for productID. Absent line is a no-op.
func (c *Cart) RemoveProduct(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(productID)
}

func (c *Cart) IncrementQuantity(ctx context.Context, productID int64) error {
	stock, err := c.stocks.StockFor(ctx, productID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			if c.lines[i].Quantity < stock {
				c.lines[i].Quantity++
			}
			return nil
		}
	}
	return nil
}

// DecrementQuantity reduces a line by one; decrementing from quantity 1
// removes the line entirely.
func (c *Cart) DecrementQuantity(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			if c.lines[i].Quantity > 1 {
				c.lines[i].Quantity--
			} else {
				c.removeLocked(productID)
			}
			return
		}
	}
}

func (c *Cart) SetLineDiscount(productID int64, discount float64) {
	if discount < 0 {
		discount = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Discount = discount
			return
		}
	}
}

// Clear empties the cart and resets the discount percentage. The tax
// percentage is configuration, not transaction state, and survives.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = c.lines[:0]
	c.discountPercent = 0
}

func (c *Cart) SetDiscountPercent(pct float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.discountPercent = clampPercent(pct)
}

func (c *Cart) SetTaxPercent(pct float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.taxPercent = clampPercent(pct)
}

func (c *Cart) DiscountPercent() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.discountPercent
}

func (c *Cart) TaxPercent() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.taxPercent
}

// Lines returns a defensive copy of the line collection.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Contains(productID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return true
		}
	}
	return false
}

func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

func (c *Cart) TotalQuantity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for i := range c.lines {
		total += c.lines[i].Quantity
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// Pricing reads are pure over current state. Intermediate values stay
// full precision; rounding happens only at formatting time.

func (c *Cart) Subtotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotalLocked()
}

func (c *Cart) DiscountAmount() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotalLocked() * (c.discountPercent / 100)
}

func (c *Cart) TaxAmount() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	subtotal := c.subtotalLocked()
	discount := subtotal * (c.discountPercent / 100)
	return (subtotal - discount) * (c.taxPercent / 100)
}

func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	subtotal := c.subtotalLocked()
	discount := subtotal * (c.discountPercent / 100)
	tax := (subtotal - discount) * (c.taxPercent / 100)
	return subtotal - discount + tax
}

// Totals returns a consistent view of all four amounts under one lock.
func (c *Cart) Totals() (subtotal, discount, tax, total float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	subtotal = c.subtotalLocked()
	discount = subtotal * (c.discountPercent / 100)
	tax = (subtotal - discount) * (c.taxPercent / 100)
	total = subtotal - discount + tax
	return
}

// Snapshot captures the lines and all four amounts under a single
// lock, so a sale built from it cannot mix line items from one cart
// state with totals from another.
type Snapshot struct {
	Lines    []Line
	Subtotal float64
	Discount float64
	Tax      float64
	Total    float64
}

func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)

	subtotal := c.subtotalLocked()
	discount := subtotal * (c.discountPercent / 100)
	tax := (subtotal - discount) * (c.taxPercent / 100)

	return Snapshot{
		Lines:    lines,
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    subtotal - discount + tax,
	}
}

func (c *Cart) subtotalLocked() float64 {
	subtotal := 0.0
	for i := range c.lines {
		subtotal += c.lines[i].Subtotal()
	}
	return subtotal
}

func (c *Cart) removeLocked(productID int64) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

func clampQty(qty, stock int) int {
	if stock < 0 {
		stock = 0
	}
	if qty > stock {
		return stock
	}
	return qty
}

func clampPercent(pct float64) float64 {
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}
