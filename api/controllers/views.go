package controllers

import (
	"time"

	"github.com/fruitify/fruitify-backend/pkg/db/models"
	"github.com/fruitify/fruitify-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// View types decouple the wire shape from the GORM models. All fields are
// camelCase per the storefront contract.

type orderView struct {
	ID                uuid.UUID           `json:"id"`
	UserID            *uuid.UUID          `json:"userId"`
	Status            enums.OrderStatus   `json:"status"`
	OrderType         enums.OrderType     `json:"orderType"`
	Total             decimal.Decimal     `json:"total"`
	CustomerName      string              `json:"customerName"`
	CustomerEmail     string              `json:"customerEmail"`
	CustomerPhone     *string             `json:"customerPhone,omitempty"`
	ShippingAddress   string              `json:"shippingAddress"`
	ShippingCity      string              `json:"shippingCity"`
	ShippingZip       string              `json:"shippingZip"`
	PaymentStatus     enums.PaymentStatus `json:"paymentStatus"`
	PaymentMethod     enums.PaymentMethod `json:"paymentMethod"`
	RazorpayOrderID   *string             `json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID *string             `json:"razorpayPaymentId,omitempty"`
	PaidAt            *time.Time          `json:"paidAt,omitempty"`
	OrderItems        []orderItemView     `json:"orderItems"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

type orderItemView struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"productId"`
	VariantID        *uuid.UUID      `json:"variantId,omitempty"`
	Quantity         int             `json:"quantity"`
	Price            decimal.Decimal `json:"price"`
	OrderType        enums.OrderType `json:"orderType"`
	SelectedQuantity *string         `json:"selectedQuantity,omitempty"`
	SelectedUnit     *string         `json:"selectedUnit,omitempty"`
	Product          *productView    `json:"product,omitempty"`
	Variant          *variantView    `json:"variant,omitempty"`
}

type productView struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	Category        string          `json:"category"`
	ImageURL        *string         `json:"imageUrl,omitempty"`
	PriceRetail     decimal.Decimal `json:"priceRetail"`
	PriceWholesale  decimal.Decimal `json:"priceWholesale"`
	Stock           int             `json:"stock"`
	MinQtyWholesale int             `json:"minQtyWholesale"`
	IsFeatured      bool            `json:"isFeatured"`
	Variants        []variantView   `json:"variants,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type variantView struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"productId"`
	Quantity        string          `json:"quantity"`
	Unit            string          `json:"unit"`
	DisplayName     string          `json:"displayName"`
	PriceRetail     decimal.Decimal `json:"priceRetail"`
	PriceWholesale  decimal.Decimal `json:"priceWholesale"`
	MinQtyWholesale int             `json:"minQtyWholesale"`
	Stock           int             `json:"stock"`
	SortOrder       int             `json:"sortOrder"`
	IsDefault       bool            `json:"isDefault"`
}

type userView struct {
	ID        uuid.UUID      `json:"id"`
	Email     string         `json:"email"`
	Role      enums.UserRole `json:"role"`
	Name      string         `json:"name"`
	Phone     *string        `json:"phone,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

type telegramLogView struct {
	ID        uuid.UUID               `json:"id"`
	OrderID   *uuid.UUID              `json:"orderId,omitempty"`
	Type      string                  `json:"type"`
	Payload   string                  `json:"payload"`
	Attempts  int                     `json:"attempts"`
	LastError *string                 `json:"lastError,omitempty"`
	Status    enums.TelegramLogStatus `json:"status"`
	CreatedAt time.Time               `json:"createdAt"`
}

func newOrderView(order *models.Order) orderView {
	items := make([]orderItemView, 0, len(order.Items))
	for i := range order.Items {
		items = append(items, newOrderItemView(&order.Items[i]))
	}
	return orderView{
		ID:                order.ID,
		UserID:            order.UserID,
		Status:            order.Status,
		OrderType:         order.OrderType,
		Total:             order.Total,
		CustomerName:      order.CustomerName,
		CustomerEmail:     order.CustomerEmail,
		CustomerPhone:     order.CustomerPhone,
		ShippingAddress:   order.ShippingAddress,
		ShippingCity:      order.ShippingCity,
		ShippingZip:       order.ShippingZip,
		PaymentStatus:     order.PaymentStatus,
		PaymentMethod:     order.PaymentMethod,
		RazorpayOrderID:   order.RazorpayOrderID,
		RazorpayPaymentID: order.RazorpayPaymentID,
		PaidAt:            order.PaidAt,
		OrderItems:        items,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
}

func newOrderListView(orders []models.Order) []orderView {
	views := make([]orderView, 0, len(orders))
	for i := range orders {
		views = append(views, newOrderView(&orders[i]))
	}
	return views
}

func newOrderItemView(item *models.OrderItem) orderItemView {
	view := orderItemView{
		ID:               item.ID,
		ProductID:        item.ProductID,
		VariantID:        item.VariantID,
		Quantity:         item.Quantity,
		Price:            item.Price,
		OrderType:        item.OrderType,
		SelectedQuantity: item.SelectedQuantity,
		SelectedUnit:     item.SelectedUnit,
	}
	if item.Product != nil {
		product := newProductView(item.Product)
		view.Product = &product
	}
	if item.Variant != nil {
		variant := newVariantView(item.Variant)
		view.Variant = &variant
	}
	return view
}

func newProductView(product *models.Product) productView {
	variants := make([]variantView, 0, len(product.Variants))
	for i := range product.Variants {
		variants = append(variants, newVariantView(&product.Variants[i]))
	}
	return productView{
		ID:              product.ID,
		Name:            product.Name,
		Description:     product.Description,
		Category:        product.Category,
		ImageURL:        product.ImageURL,
		PriceRetail:     product.PriceRetail,
		PriceWholesale:  product.PriceWholesale,
		Stock:           product.Stock,
		MinQtyWholesale: product.MinQtyWholesale,
		IsFeatured:      product.IsFeatured,
		Variants:        variants,
		CreatedAt:       product.CreatedAt,
	}
}

func newProductListView(products []models.Product) []productView {
	views := make([]productView, 0, len(products))
	for i := range products {
		views = append(views, newProductView(&products[i]))
	}
	return views
}

func newVariantView(variant *models.ProductVariant) variantView {
	return variantView{
		ID:              variant.ID,
		ProductID:       variant.ProductID,
		Quantity:        variant.Quantity,
		Unit:            variant.Unit,
		DisplayName:     variant.DisplayName,
		PriceRetail:     variant.PriceRetail,
		PriceWholesale:  variant.PriceWholesale,
		MinQtyWholesale: variant.MinQtyWholesale,
		Stock:           variant.Stock,
		SortOrder:       variant.SortOrder,
		IsDefault:       variant.IsDefault,
	}
}

func newUserView(user *models.User) userView {
	return userView{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
		Name:      user.Name,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
	}
}

func newTelegramLogView(log *models.TelegramLog) telegramLogView {
	return telegramLogView{
		ID:        log.ID,
		OrderID:   log.OrderID,
		Type:      log.Type,
		Payload:   log.Payload,
		Attempts:  log.Attempts,
		LastError: log.LastError,
		Status:    log.Status,
		CreatedAt: log.CreatedAt,
	}
}
