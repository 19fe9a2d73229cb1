package controllers

import (
	"net/http"

	"github.com/fruitify/fruitify-backend/api/middleware"
	"github.com/fruitify/fruitify-backend/api/responses"
	"github.com/fruitify/fruitify-backend/api/validators"
	"github.com/fruitify/fruitify-backend/internal/orders"
	"github.com/fruitify/fruitify-backend/pkg/enums"
	pkgerrors "github.com/fruitify/fruitify-backend/pkg/errors"
	"github.com/fruitify/fruitify-backend/pkg/logger"
	"github.com/google/uuid"
)

type orderLineRequest struct {
	ProductID uuid.UUID  `json:"productId" validate:"required"`
	VariantID *uuid.UUID `json:"variantId,omitempty"`
	Quantity  int        `json:"quantity" validate:"required,gt=0"`
	OrderType string     `json:"orderType" validate:"required,oneof=RETAIL WHOLESALE"`
}

type placeOrderRequest struct {
	Items           []orderLineRequest `json:"items" validate:"required,min=1,dive"`
	CustomerName    string             `json:"customerName" validate:"required"`
	CustomerEmail   string             `json:"customerEmail" validate:"required,email"`
	CustomerPhone   *string            `json:"customerPhone,omitempty"`
	ShippingAddress string             `json:"shippingAddress" validate:"required"`
	ShippingCity    string             `json:"shippingCity" validate:"required"`
	ShippingZip     string             `json:"shippingZip" validate:"required"`
}

// PlaceOrder creates an order for a guest or an authenticated customer.
func PlaceOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req placeOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.PlaceOrderInput{
			CustomerName:    req.CustomerName,
			CustomerEmail:   req.CustomerEmail,
			CustomerPhone:   req.CustomerPhone,
			ShippingAddress: req.ShippingAddress,
			ShippingCity:    req.ShippingCity,
			ShippingZip:     req.ShippingZip,
		}
		if userID := middleware.UserIDFromContext(r.Context()); userID != uuid.Nil {
			input.UserID = &userID
		}
		for _, item := range req.Items {
			input.Items = append(input.Items, orders.LineInput{
				ProductID: item.ProductID,
				VariantID: item.VariantID,
				Quantity:  item.Quantity,
				OrderType: enums.OrderType(item.OrderType),
			})
		}

		order, err := svc.Place(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"order": newOrderView(order)})
	}
}

// MyOrders lists the authenticated customer's own orders.
func MyOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		list, err := svc.ListByUser(r.Context(), userID, validators.QueryInt(r, "limit", 0))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderListView(list))
	}
}

// OrderDetail serves one order, restricted to its owner unless the caller is
// an admin. Guest orders are only reachable through the admin surface.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.UUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if middleware.RoleFromContext(r.Context()) != string(enums.UserRoleAdmin) {
			userID := middleware.UserIDFromContext(r.Context())
			if order.UserID == nil || *order.UserID != userID {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]any{"order": newOrderView(order)})
	}
}
