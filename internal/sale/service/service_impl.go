package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallretail/tillpoint/internal/cart"
	catalogdomain "github.com/smallretail/tillpoint/internal/catalog/domain"
	"github.com/smallretail/tillpoint/internal/clock"
	"github.com/smallretail/tillpoint/internal/observability/metrics"
	"github.com/smallretail/tillpoint/internal/sale/domain"
	"github.com/smallretail/tillpoint/internal/sale/format"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// paymentEpsilon absorbs float representation noise when comparing the
// tendered amount against the computed total. Exact payment is accepted.
const paymentEpsilon = 1e-6

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	CatalogRepo catalogdomain.Repository
	InvoiceGen  *format.InvoiceNumberGenerator
	Metrics     *metrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	catalogRepo catalogdomain.Repository
	invoiceGen  *format.InvoiceNumberGenerator
	metrics     *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("sale.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		catalogRepo: p.CatalogRepo,
		invoiceGen:  p.InvoiceGen,
		metrics:     p.Metrics,
	}
}

func (s *Service) Checkout(ctx context.Context, c *cart.Cart, req domain.CheckoutRequest) (*domain.Receipt, error) {
	if !req.PaymentMethod.Valid() {
		return nil, domain.ErrInvalidPayment
	}

	// One snapshot under one lock: the header totals below are priced
	// from exactly the lines that become SaleItems.
	snap := c.Snapshot()
	lines := snap.Lines
	if len(lines) == 0 {
		s.metrics.RecordRejection("empty_cart")
		return nil, domain.ErrEmptyCart
	}

	subtotal, discount, tax, total := snap.Subtotal, snap.Discount, snap.Tax, snap.Total
	if req.AmountPaid+paymentEpsilon < total {
		s.metrics.RecordRejection("insufficient_payment")
		return nil, domain.ErrInsufficientPayment
	}

	now := s.clock.Now()
	sale := &domain.Sale{
		ID:            s.genID.Generate().Int64(),
		InvoiceNumber: s.invoiceGen.Next(now),
		CashierID:     req.CashierID,
		CashierName:   req.CashierName,
		SoldAt:        now,
		Subtotal:      subtotal,
		Discount:      discount,
		Tax:           tax,
		Total:         total,
		AmountPaid:    req.AmountPaid,
		Change:        req.AmountPaid - total,
		PaymentMethod: req.PaymentMethod,
		Status:        domain.StatusCompleted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	items := make([]domain.SaleItem, 0, len(lines))

	// One transactional boundary: the header, every line snapshot, and
	// every stock decrement commit together or not at all. A guarded
	// decrement finding too little stock aborts the whole sale.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertSale(ctx, tx, sale); err != nil {
			return fmt.Errorf("%w: insert sale: %v", domain.ErrPersistence, err)
		}

		for _, line := range lines {
			productID := line.ProductID
			item := domain.SaleItem{
				ID:             s.genID.Generate().Int64(),
				SaleID:         sale.ID,
				ProductID:      &productID,
				ProductName:    line.Name,
				ProductBarcode: line.Barcode,
				Quantity:       line.Quantity,
				UnitPrice:      line.UnitPrice,
				Discount:       line.Discount,
				Total:          line.Total(),
			}
			if err := s.repo.InsertSaleItem(ctx, tx, &item); err != nil {
				return fmt.Errorf("%w: insert sale item: %v", domain.ErrPersistence, err)
			}

			ok, err := s.catalogRepo.DecreaseStock(ctx, tx, line.ProductID, line.Quantity)
			if err != nil {
				return fmt.Errorf("%w: decrease stock: %v", domain.ErrPersistence, err)
			}
			if !ok {
				return domain.ErrStockChanged
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrStockChanged):
			s.metrics.RecordRejection("stock_changed")
		default:
			s.metrics.RecordRejection("persistence_failure")
		}
		s.log.Warn("checkout aborted",
			zap.String("invoice_number", sale.InvoiceNumber),
			zap.Error(err),
		)
		return nil, err
	}

	// Storage is committed; only now does the cart reset.
	c.Clear()

	s.metrics.RecordSale(total, len(items))
	s.log.Info("sale committed",
		zap.String("invoice_number", sale.InvoiceNumber),
		zap.Int64("sale_id", sale.ID),
		zap.Float64("total", total),
		zap.Int("items", len(items)),
	)

	return &domain.Receipt{Sale: *sale, Items: items}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Receipt, error) {
	sale, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := s.repo.FindItems(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	return &domain.Receipt{Sale: *sale, Items: items}, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Sale, error) {
	return s.repo.List(ctx, s.db, req)
}

func (s *Service) DailySummary(ctx context.Context, day time.Time) (*domain.DailySummary, error) {
	day = day.UTC()
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return s.repo.DailySummary(ctx, s.db, from, from.Add(24*time.Hour))
}

func (s *Service) Void(ctx context.Context, id int64) (*domain.Sale, error) {
	return s.transition(ctx, id, domain.StatusVoid)
}

func (s *Service) Refund(ctx context.Context, id int64) (*domain.Sale, error) {
	return s.transition(ctx, id, domain.StatusRefunded)
}

// transition moves a COMPLETED sale to VOID or REFUNDED. A refund puts
// the sold quantities back into stock; a void is status-only (the sale
// never left the store's counted inventory assumptions behind it).
func (s *Service) transition(ctx context.Context, id int64, to domain.Status) (*domain.Sale, error) {
	sale, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.Status != domain.StatusCompleted {
		return nil, domain.ErrInvalidTransition
	}

	now := s.clock.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UpdateStatus(ctx, tx, id, to, now); err != nil {
			return fmt.Errorf("%w: update status: %v", domain.ErrPersistence, err)
		}
		if to != domain.StatusRefunded {
			return nil
		}
		items, err := s.repo.FindItems(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("%w: load items: %v", domain.ErrPersistence, err)
		}
		for _, item := range items {
			if item.ProductID == nil {
				continue
			}
			if err := s.catalogRepo.IncreaseStock(ctx, tx, *item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("%w: restock: %v", domain.ErrPersistence, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sale.Status = to
	sale.UpdatedAt = now
	s.log.Info("sale status changed",
		zap.Int64("sale_id", id),
		zap.String("status", string(to)),
	)
	return sale, nil
}
