package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductVariant is a purchasable unit of a product (e.g. "1 kg") carrying
// its own prices and stock counter, independent of the parent's legacy fields.
type ProductVariant struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID       uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	Quantity        string          `gorm:"column:quantity;not null"`
	Unit            string          `gorm:"column:unit;not null"`
	DisplayName     string          `gorm:"column:display_name;not null"`
	PriceRetail     decimal.Decimal `gorm:"column:price_retail;type:numeric(12,2);not null"`
	PriceWholesale  decimal.Decimal `gorm:"column:price_wholesale;type:numeric(12,2);not null"`
	MinQtyWholesale int             `gorm:"column:min_qty_wholesale;not null;default:1"`
	Stock           int             `gorm:"column:stock;not null;default:0"`
	SortOrder       int             `gorm:"column:sort_order;not null;default:0"`
	IsDefault       bool            `gorm:"column:is_default;not null;default:false"`
	Product         *Product        `gorm:"foreignKey:ProductID"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
