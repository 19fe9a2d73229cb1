package controllers

import (
	"net/http"

	"github.com/fruitify/fruitify-backend/api/responses"
	"github.com/fruitify/fruitify-backend/api/validators"
	"github.com/fruitify/fruitify-backend/internal/orders"
	"github.com/fruitify/fruitify-backend/pkg/enums"
	"github.com/fruitify/fruitify-backend/pkg/logger"
)

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminOrderList serves the back-office order list with an optional status
// filter.
func AdminOrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := orders.ListFilters{
			Limit: validators.QueryInt(r, "limit", 0),
		}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status := enums.OrderStatus(raw)
			filters.Status = &status
		}

		list, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderListView(list))
	}
}

// AdminOrderStatusUpdate transitions an order's status. Invalid values and
// terminal states reject; a successful transition emits the realtime event
// through the orders service.
func AdminOrderStatusUpdate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.UUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateStatus(r.Context(), orderID, enums.OrderStatus(req.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"order": newOrderView(order)})
	}
}
