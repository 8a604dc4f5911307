package domain

import "time"

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentCard PaymentMethod = "CARD"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCard
}

type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusRefunded  Status = "REFUNDED"
	StatusVoid      Status = "VOID"
)

func (s Status) Valid() bool {
	return s == StatusCompleted || s == StatusRefunded || s == StatusVoid
}

// Sale is the committed transaction header. Monetary fields and items
// are immutable after commit; only Status may transition afterwards.
type Sale struct {
	ID            int64         `json:"id" gorm:"primaryKey"`
	InvoiceNumber string        `json:"invoice_number" gorm:"column:invoice_number;type:text;not null;uniqueIndex"`
	CashierID     int64         `json:"cashier_id" gorm:"column:cashier_id;not null;index"`
	CashierName   string        `json:"cashier_name" gorm:"column:cashier_name;type:text;not null"`
	SoldAt        time.Time     `json:"sold_at" gorm:"column:sold_at;not null;index"`
	Subtotal      float64       `json:"subtotal" gorm:"not null"`
	Discount      float64       `json:"discount" gorm:"not null;default:0"`
	Tax           float64       `json:"tax" gorm:"not null;default:0"`
	Total         float64       `json:"total" gorm:"not null"`
	AmountPaid    float64       `json:"amount_paid" gorm:"column:amount_paid;not null"`
	Change        float64       `json:"change" gorm:"not null;default:0"`
	PaymentMethod PaymentMethod `json:"payment_method" gorm:"column:payment_method;type:text;not null"`
	Status        Status        `json:"status" gorm:"type:text;not null"`
	CreatedAt     time.Time     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time     `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Sale) TableName() string { return "sales" }

// SaleItem is a denormalized snapshot of a cart line at commit time.
// Product name and barcode are copied verbatim so the record survives
// later product edits or deletion; ProductID is nullable for the same
// reason.
type SaleItem struct {
	ID             int64   `json:"id" gorm:"primaryKey"`
	SaleID         int64   `json:"sale_id" gorm:"column:sale_id;not null;index"`
	ProductID      *int64  `json:"product_id,omitempty" gorm:"column:product_id;index"`
	ProductName    string  `json:"product_name" gorm:"column:product_name;type:text;not null"`
	ProductBarcode *string `json:"product_barcode,omitempty" gorm:"column:product_barcode;type:text"`
	Quantity       int     `json:"quantity" gorm:"not null"`
	UnitPrice      float64 `json:"unit_price" gorm:"column:unit_price;not null"`
	Discount       float64 `json:"discount" gorm:"not null;default:0"`
	Total          float64 `json:"total" gorm:"not null"`
}

func (SaleItem) TableName() string { return "sale_items" }
