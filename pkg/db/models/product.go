package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalog listing. The price/stock/min-quantity columns
// on the product itself are the legacy fallback used when an order line does
// not reference a variant.
type Product struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string           `gorm:"column:name;not null"`
	Description     *string          `gorm:"column:description"`
	Category        string           `gorm:"column:category;not null;index"`
	ImageURL        *string          `gorm:"column:image_url"`
	PriceRetail     decimal.Decimal  `gorm:"column:price_retail;type:numeric(12,2);not null"`
	PriceWholesale  decimal.Decimal  `gorm:"column:price_wholesale;type:numeric(12,2);not null"`
	Stock           int              `gorm:"column:stock;not null;default:0"`
	MinQtyWholesale int              `gorm:"column:min_qty_wholesale;not null;default:1"`
	IsFeatured      bool             `gorm:"column:is_featured;not null;default:false"`
	Variants        []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
