package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallretail/tillpoint/internal/cart"
	catalogdomain "github.com/smallretail/tillpoint/internal/catalog/domain"
	"github.com/smallretail/tillpoint/internal/sale/format"
)

type cartView struct {
	Terminal        string      `json:"terminal"`
	Lines           []cart.Line `json:"lines"`
	ItemCount       int         `json:"item_count"`
	TotalQuantity   int         `json:"total_quantity"`
	DiscountPercent float64     `json:"discount_percent"`
	TaxPercent      float64     `json:"tax_percent"`
	Subtotal        float64     `json:"subtotal"`
	DiscountAmount  float64     `json:"discount_amount"`
	TaxAmount       float64     `json:"tax_amount"`
	Total           float64     `json:"total"`

	// Display strings rendered with the configured currency label, so
	// a thin till client never reimplements money formatting.
	SubtotalDisplay string `json:"subtotal_display"`
	DiscountDisplay string `json:"discount_display"`
	TaxDisplay      string `json:"tax_display"`
	TotalDisplay    string `json:"total_display"`
}

func (s *Server) cartViewFor(terminal string, c *cart.Cart) cartView {
	subtotal, discount, tax, total := c.Totals()
	label := s.cfg.CurrencyLabel

	return cartView{
		Terminal:        terminal,
		Lines:           c.Lines(),
		ItemCount:       c.ItemCount(),
		TotalQuantity:   c.TotalQuantity(),
		DiscountPercent: c.DiscountPercent(),
		TaxPercent:      c.TaxPercent(),
		Subtotal:        subtotal,
		DiscountAmount:  discount,
		TaxAmount:       tax,
		Total:           total,
		SubtotalDisplay: format.FormatCurrency(label, subtotal),
		DiscountDisplay: format.FormatCurrency(label, discount),
		TaxDisplay:      format.FormatCurrency(label, tax),
		TotalDisplay:    format.FormatCurrency(label, total),
	}
}

func (s *Server) respondCart(c *gin.Context, terminal string) {
	view := s.cartViewFor(terminal, s.carts.Cart(terminal))
	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (s *Server) ViewCart(c *gin.Context) {
	s.respondCart(c, terminalFrom(c))
}

func (s *Server) AbandonCart(c *gin.Context) {
	terminal := terminalFrom(c)
	s.carts.Abandon(terminal)
	s.respondCart(c, terminal)
}

type addCartItemRequest struct {
	ProductID int64  `json:"product_id"`
	Barcode   string `json:"barcode"`
	Quantity  int    `json:"quantity"`
}

// AddCartItem adds a product to the terminal's cart, either by id or
// by a scanned barcode. Quantity defaults to one.
func (s *Server) AddCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var (
		product *catalogdomain.Product
		err     error
	)
	switch {
	case req.ProductID > 0:
		product, err = s.catalogSvc.Get(c.Request.Context(), req.ProductID)
	case strings.TrimSpace(req.Barcode) != "":
		product, err = s.catalogSvc.GetByBarcode(c.Request.Context(), strings.TrimSpace(req.Barcode))
	default:
		AbortWithError(c, newValidationError("product_id", "missing_product", "product_id or barcode is required"))
		return
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !product.Active {
		AbortWithError(c, catalogdomain.ErrNotFound)
		return
	}

	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}

	terminal := terminalFrom(c)
	err = s.carts.Cart(terminal).AddProduct(c.Request.Context(), cart.LineProduct{
		ID:      product.ID,
		Name:    product.Name,
		Barcode: product.Barcode,
		Price:   product.Price,
	}, qty)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.respondCart(c, terminal)
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (s *Server) SetCartItemQuantity(c *gin.Context) {
	productID, err := pathID(c, "productId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	terminal := terminalFrom(c)
	if err := s.carts.Cart(terminal).SetQuantity(c.Request.Context(), productID, req.Quantity); err != nil {
		AbortWithError(c, err)
		return
	}

	s.respondCart(c, terminal)
}

func (s *Server) RemoveCartItem(c *gin.Context) {
	productID, err := pathID(c, "productId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	terminal := terminalFrom(c)
	s.carts.Cart(terminal).RemoveProduct(productID)
	s.respondCart(c, terminal)
}

func (s *Server) IncrementCartItem(c *gin.Context) {
	productID, err := pathID(c, "productId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	terminal := terminalFrom(c)
	if err := s.carts.Cart(terminal).IncrementQuantity(c.Request.Context(), productID); err != nil {
		AbortWithError(c, err)
		return
	}

	s.respondCart(c, terminal)
}

func (s *Server) DecrementCartItem(c *gin.Context) {
	productID, err := pathID(c, "productId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	terminal := terminalFrom(c)
	s.carts.Cart(terminal).DecrementQuantity(productID)
	s.respondCart(c, terminal)
}

type setLineDiscountRequest struct {
	Discount float64 `json:"discount"`
}

func (s *Server) SetCartItemDiscount(c *gin.Context) {
	productID, err := pathID(c, "productId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req setLineDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.Discount < 0 {
		AbortWithError(c, newValidationError("discount", "invalid_discount", "discount must not be negative"))
		return
	}

	terminal := terminalFrom(c)
	s.carts.Cart(terminal).SetLineDiscount(productID, req.Discount)
	s.respondCart(c, terminal)
}

type setPercentRequest struct {
	Percent float64 `json:"percent"`
}

func (s *Server) SetCartDiscount(c *gin.Context) {
	var req setPercentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	terminal := terminalFrom(c)
	s.carts.Cart(terminal).SetDiscountPercent(req.Percent)
	s.respondCart(c, terminal)
}

func (s *Server) SetCartTax(c *gin.Context) {
	var req setPercentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	terminal := terminalFrom(c)
	s.carts.Cart(terminal).SetTaxPercent(req.Percent)
	s.respondCart(c, terminal)
}
