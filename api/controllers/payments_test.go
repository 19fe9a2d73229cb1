package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fruitify/fruitify-backend/internal/payments"
	"github.com/fruitify/fruitify-backend/pkg/db/models"
	"github.com/fruitify/fruitify-backend/pkg/enums"
	"github.com/fruitify/fruitify-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

type stubPaymentsService struct {
	createResult *payments.CreateResult
	verifyOrder  *models.Order
	failureCalls int
	lastReason   *string
}

func (s *stubPaymentsService) CreatePaymentOrder(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal) (*payments.CreateResult, error) {
	return s.createResult, nil
}

func (s *stubPaymentsService) Verify(ctx context.Context, input payments.VerifyInput) (*models.Order, error) {
	return s.verifyOrder, nil
}

func (s *stubPaymentsService) Failure(ctx context.Context, orderID uuid.UUID, reason *string) error {
	s.failureCalls++
	s.lastReason = reason
	return nil
}

func (s *stubPaymentsService) Status(ctx context.Context, orderID uuid.UUID) (*payments.StatusResult, error) {
	panic("unimplemented")
}

func TestPaymentCreateOrderSkipsToCOD(t *testing.T) {
	logg := testLogger()
	orderID := uuid.New()
	stub := &stubPaymentsService{
		createResult: &payments.CreateResult{
			Skipped:       true,
			OrderID:       orderID,
			PaymentMethod: enums.PaymentMethodCOD,
			PaymentStatus: enums.PaymentStatusPending,
		},
	}

	body := `{"orderId":"` + orderID.String() + `","amount":"120.50"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/create-order", strings.NewReader(body))
	rec := httptest.NewRecorder()
	PaymentCreateOrder(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for COD degradation, got %d", rec.Code)
	}
	var resp struct {
		Success bool   `json:"success"`
		Payment string `json:"payment"`
		Method  string `json:"method"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success {
		t.Fatalf("expected success=false in COD degradation body")
	}
	if resp.Payment != "SKIPPED" || resp.Method != "COD" {
		t.Fatalf("unexpected degradation body: %+v", resp)
	}
}

func TestPaymentCreateOrderReturnsGatewayDetails(t *testing.T) {
	logg := testLogger()
	orderID := uuid.New()
	stub := &stubPaymentsService{
		createResult: &payments.CreateResult{
			OrderID:        orderID,
			GatewayOrderID: "order_abc123",
			Amount:         decimal.RequireFromString("120.50"),
			Currency:       "INR",
			KeyID:          "rzp_test_key",
			PaymentMethod:  enums.PaymentMethodRazorpay,
			PaymentStatus:  enums.PaymentStatusPending,
		},
	}

	body := `{"orderId":"` + orderID.String() + `","amount":"120.50"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/create-order", strings.NewReader(body))
	rec := httptest.NewRecorder()
	PaymentCreateOrder(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			GatewayOrderID string `json:"gatewayOrderId"`
			KeyID          string `json:"keyId"`
			Currency       string `json:"currency"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success envelope")
	}
	if resp.Data.GatewayOrderID != "order_abc123" || resp.Data.KeyID != "rzp_test_key" || resp.Data.Currency != "INR" {
		t.Fatalf("unexpected data: %+v", resp.Data)
	}
}

func TestPaymentCreateOrderRejectsInvalidBody(t *testing.T) {
	logg := testLogger()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/create-order", strings.NewReader(`{"amount":"10"}`))
	rec := httptest.NewRecorder()
	PaymentCreateOrder(&stubPaymentsService{}, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing orderId, got %d", rec.Code)
	}
}

func TestPaymentFailureRespondsWithFailedStatus(t *testing.T) {
	logg := testLogger()
	orderID := uuid.New()
	stub := &stubPaymentsService{}

	body := `{"orderId":"` + orderID.String() + `","reason":"card declined"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/failure", strings.NewReader(body))
	rec := httptest.NewRecorder()
	PaymentFailure(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.failureCalls != 1 {
		t.Fatalf("expected Failure to be invoked once, got %d", stub.failureCalls)
	}
	if stub.lastReason == nil || *stub.lastReason != "card declined" {
		t.Fatalf("expected reason to be forwarded")
	}
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			PaymentStatus string `json:"paymentStatus"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success {
		t.Fatalf("expected success=false after a failed payment")
	}
	if resp.Data.PaymentStatus != "FAILED" {
		t.Fatalf("expected FAILED status, got %q", resp.Data.PaymentStatus)
	}
}
