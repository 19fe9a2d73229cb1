package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fruitify/fruitify-backend/pkg/enums"
)

// Order is the aggregate created atomically with its items at checkout.
// UserID is nullable: guest checkout is allowed, and deleting a user detaches
// their orders rather than cascading.
type Order struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            *uuid.UUID          `gorm:"column:user_id;type:uuid;index"`
	Status            enums.OrderStatus   `gorm:"column:status;not null;default:'PENDING'"`
	OrderType         enums.OrderType     `gorm:"column:order_type;not null;default:'RETAIL'"`
	Total             decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	CustomerName      string              `gorm:"column:customer_name;not null"`
	CustomerEmail     string              `gorm:"column:customer_email;not null"`
	CustomerPhone     *string             `gorm:"column:customer_phone"`
	ShippingAddress   string              `gorm:"column:shipping_address;not null"`
	ShippingCity      string              `gorm:"column:shipping_city;not null"`
	ShippingZip       string              `gorm:"column:shipping_zip;not null"`
	PaymentStatus     enums.PaymentStatus `gorm:"column:payment_status;not null;default:'PENDING'"`
	PaymentMethod     enums.PaymentMethod `gorm:"column:payment_method;not null;default:'RAZORPAY'"`
	RazorpayOrderID   *string             `gorm:"column:razorpay_order_id"`
	RazorpayPaymentID *string             `gorm:"column:razorpay_payment_id"`
	RazorpaySignature *string             `gorm:"column:razorpay_signature"`
	PaidAt            *time.Time          `gorm:"column:paid_at"`
	Items             []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
