package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	saledomain "github.com/smallretail/tillpoint/internal/sale/domain"
	"github.com/smallretail/tillpoint/internal/sale/format"
)

type checkoutRequest struct {
	PaymentMethod string  `json:"payment_method"`
	AmountPaid    float64 `json:"amount_paid"`
}

func (s *Server) Checkout(c *gin.Context) {
	cashier, ok := cashierFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	terminal := terminalFrom(c)
	receipt, err := s.saleSvc.Checkout(c.Request.Context(), s.carts.Cart(terminal), saledomain.CheckoutRequest{
		CashierID:     cashier.ID,
		CashierName:   cashier.DisplayName,
		AmountPaid:    req.AmountPaid,
		PaymentMethod: saledomain.PaymentMethod(strings.ToUpper(strings.TrimSpace(req.PaymentMethod))),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	label := s.cfg.CurrencyLabel
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"sale":  receipt.Sale,
			"items": receipt.Items,
			"display": gin.H{
				"subtotal": format.FormatCurrency(label, receipt.Sale.Subtotal),
				"discount": format.FormatCurrency(label, receipt.Sale.Discount),
				"tax":      format.FormatCurrency(label, receipt.Sale.Tax),
				"total":    format.FormatCurrency(label, receipt.Sale.Total),
				"paid":     format.FormatCurrency(label, receipt.Sale.AmountPaid),
				"change":   format.FormatCurrency(label, receipt.Sale.Change),
			},
		},
	})
}
