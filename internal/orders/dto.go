package orders

import (
	"github.com/fruitify/fruitify-backend/pkg/enums"
	"github.com/google/uuid"
)

// LineInput is one requested cart line in a placement request.
type LineInput struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
	OrderType enums.OrderType
}

// PlaceOrderInput carries everything needed to place an order. UserID is nil
// for guest checkout.
type PlaceOrderInput struct {
	UserID          *uuid.UUID
	Items           []LineInput
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   *string
	ShippingAddress string
	ShippingCity    string
	ShippingZip     string
}

// ListFilters describe the inputs supported by the admin order list.
type ListFilters struct {
	Status *enums.OrderStatus
	Limit  int
}
