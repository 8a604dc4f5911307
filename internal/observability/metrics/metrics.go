package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes application-level instruments.
type Metrics struct {
	SalesCommitted   prometheus.Counter
	SaleRevenue      prometheus.Counter
	CheckoutRejected *prometheus.CounterVec
	StockDecrements  prometheus.Counter
}

// New registers the POS instruments on the default registry.
func New() *Metrics {
	return &Metrics{
		SalesCommitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tillpoint_sales_committed_total",
			Help: "Number of sales committed.",
		}),
		SaleRevenue: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tillpoint_sale_revenue_total",
			Help: "Gross revenue of committed sales.",
		}),
		CheckoutRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tillpoint_checkout_rejected_total",
			Help: "Checkout attempts rejected, by reason.",
		}, []string{"reason"}),
		StockDecrements: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tillpoint_stock_decrements_total",
			Help: "Stock decrement statements applied during checkout.",
		}),
	}
}

func (m *Metrics) RecordSale(total float64, items int) {
	if m == nil {
		return
	}
	m.SalesCommitted.Inc()
	m.SaleRevenue.Add(total)
	m.StockDecrements.Add(float64(items))
}

func (m *Metrics) RecordRejection(reason string) {
	if m == nil {
		return
	}
	m.CheckoutRejected.WithLabelValues(reason).Inc()
}
