package controllers

import (
	"net/http"
	"time"

	"github.com/fruitify/fruitify-backend/api/responses"
	"github.com/fruitify/fruitify-backend/api/validators"
	"github.com/fruitify/fruitify-backend/internal/payments"
	"github.com/fruitify/fruitify-backend/pkg/enums"
	"github.com/fruitify/fruitify-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type createPaymentOrderRequest struct {
	OrderID uuid.UUID       `json:"orderId" validate:"required"`
	Amount  decimal.Decimal `json:"amount" validate:"required"`
}

type verifyPaymentRequest struct {
	OrderID           uuid.UUID `json:"orderId" validate:"required"`
	RazorpayOrderID   string    `json:"razorpayOrderId" validate:"required"`
	RazorpayPaymentID string    `json:"razorpayPaymentId" validate:"required"`
	RazorpaySignature string    `json:"razorpaySignature" validate:"required"`
}

type paymentFailureRequest struct {
	OrderID uuid.UUID `json:"orderId" validate:"required"`
	Reason  *string   `json:"reason,omitempty"`
}

// codSkippedBody is the degradation response: HTTP 200 with success=false,
// telling the storefront to fall back to cash on delivery.
type codSkippedBody struct {
	Success bool                `json:"success"`
	Payment string              `json:"payment"`
	Method  enums.PaymentMethod `json:"method"`
}

type createPaymentOrderView struct {
	OrderID        uuid.UUID       `json:"orderId"`
	GatewayOrderID string          `json:"gatewayOrderId"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	KeyID          string          `json:"keyId"`
}

type paymentStatusView struct {
	PaymentStatus enums.PaymentStatus `json:"paymentStatus"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
	PaidAt        *time.Time          `json:"paidAt"`
	Amount        decimal.Decimal     `json:"amount"`
}

func PaymentCreateOrder(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPaymentOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CreatePaymentOrder(r.Context(), req.OrderID, req.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if result.Skipped {
			responses.WriteJSON(w, http.StatusOK, codSkippedBody{
				Payment: "SKIPPED",
				Method:  result.PaymentMethod,
			})
			return
		}

		responses.WriteSuccess(w, createPaymentOrderView{
			OrderID:        result.OrderID,
			GatewayOrderID: result.GatewayOrderID,
			Amount:         result.Amount,
			Currency:       result.Currency,
			KeyID:          result.KeyID,
		})
	}
}

func PaymentVerify(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyPaymentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Verify(r.Context(), payments.VerifyInput{
			OrderID:           req.OrderID,
			RazorpayOrderID:   req.RazorpayOrderID,
			RazorpayPaymentID: req.RazorpayPaymentID,
			RazorpaySignature: req.RazorpaySignature,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"order": newOrderView(order)})
	}
}

func PaymentFailure(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req paymentFailureRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Failure(r.Context(), req.OrderID, req.Reason); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// success=false: the payment failed even though the report itself
		// was recorded fine.
		responses.WriteJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"data": map[string]any{
				"orderId":       req.OrderID,
				"paymentStatus": enums.PaymentStatusFailed,
			},
		})
	}
}

func PaymentStatus(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.UUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := svc.Status(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, paymentStatusView{
			PaymentStatus: status.PaymentStatus,
			PaymentMethod: status.PaymentMethod,
			PaidAt:        status.PaidAt,
			Amount:        status.Amount,
		})
	}
}
