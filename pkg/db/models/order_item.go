package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fruitify/fruitify-backend/pkg/enums"
)

// OrderItem captures the immutable snapshot of one line at order time.
// Price, SelectedQuantity and SelectedUnit are denormalized copies and must
// never be recomputed from live product or variant state.
type OrderItem struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID          uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	VariantID        *uuid.UUID      `gorm:"column:variant_id;type:uuid"`
	Quantity         int             `gorm:"column:quantity;not null"`
	Price            decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	OrderType        enums.OrderType `gorm:"column:order_type;not null"`
	SelectedQuantity *string         `gorm:"column:selected_quantity"`
	SelectedUnit     *string         `gorm:"column:selected_unit"`
	Product          *Product        `gorm:"foreignKey:ProductID"`
	Variant          *ProductVariant `gorm:"foreignKey:VariantID"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
}
