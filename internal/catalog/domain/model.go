package domain

import (
	"time"

	"gorm.io/datatypes"
)

type Product struct {
	ID          int64             `json:"id" gorm:"primaryKey"`
	Code        string            `json:"code" gorm:"type:text;not null;uniqueIndex"`
	Name        string            `json:"name" gorm:"type:text;not null"`
	Barcode     *string           `json:"barcode,omitempty" gorm:"type:text;uniqueIndex"`
	Description *string           `json:"description,omitempty" gorm:"type:text"`
	Price       float64           `json:"price" gorm:"not null"`
	CostPrice   float64           `json:"cost_price" gorm:"column:cost_price;not null;default:0"`
	Stock       int               `json:"stock" gorm:"not null;default:0"`
	MinStock    int               `json:"min_stock" gorm:"column:min_stock;not null;default:0"`
	CategoryID  *int64            `json:"category_id,omitempty" gorm:"column:category_id;index"`
	Active      bool              `json:"active" gorm:"not null;default:true"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }

// LowStock reports whether stock has fallen to the reorder threshold.
func (p Product) LowStock() bool { return p.Stock <= p.MinStock }

func (p Product) OutOfStock() bool { return p.Stock <= 0 }

type Category struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:text;not null"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	Active      bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Category) TableName() string { return "categories" }
