package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/fruitify/fruitify-backend/internal/orders"
	"github.com/fruitify/fruitify-backend/pkg/config"
	"github.com/fruitify/fruitify-backend/pkg/db/models"
	"github.com/fruitify/fruitify-backend/pkg/enums"
	pkgerrors "github.com/fruitify/fruitify-backend/pkg/errors"
	"github.com/fruitify/fruitify-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateResult is the outcome of a payment-order creation. Skipped is an
// explicit non-error outcome: the gateway is unconfigured and the order
// degraded to cash on delivery.
type CreateResult struct {
	Skipped        bool
	OrderID        uuid.UUID
	GatewayOrderID string
	Amount         decimal.Decimal
	Currency       string
	KeyID          string
	PaymentMethod  enums.PaymentMethod
	PaymentStatus  enums.PaymentStatus
}

// VerifyInput carries the gateway callback fields for verification.
type VerifyInput struct {
	OrderID           uuid.UUID
	RazorpayOrderID   string
	RazorpayPaymentID string
	RazorpaySignature string
}

// StatusResult summarizes an order's payment state.
type StatusResult struct {
	PaymentStatus enums.PaymentStatus
	PaymentMethod enums.PaymentMethod
	PaidAt        *time.Time
	Amount        decimal.Decimal
}

// Service defines the payment operations.
type Service interface {
	CreatePaymentOrder(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal) (*CreateResult, error)
	Verify(ctx context.Context, input VerifyInput) (*models.Order, error)
	Failure(ctx context.Context, orderID uuid.UUID, reason *string) error
	Status(ctx context.Context, orderID uuid.UUID) (*StatusResult, error)
}

type service struct {
	repo    orders.Repository
	gateway GatewayClient
	cfg     config.RazorpayConfig
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds a payments service. gateway may be nil when the gateway
// is unconfigured; creation then degrades to COD.
func NewService(repo orders.Repository, gateway GatewayClient, cfg config.RazorpayConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		gateway: gateway,
		cfg:     cfg,
		logg:    logg,
		now:     time.Now,
	}, nil
}

func (s *service) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

// CreatePaymentOrder registers the order with the gateway, or degrades to COD
// when the gateway is unconfigured. The requested amount must equal the stored
// total so clients cannot tamper with what they owe.
func (s *service) CreatePaymentOrder(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal) (*CreateResult, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !amount.Equal(order.Total) {
		return nil, pkgerrors.New(
			pkgerrors.CodeValidation,
			fmt.Sprintf("amount %s does not match order total %s", amount, order.Total),
		)
	}

	ctx = s.logg.WithOrderID(ctx, orderID.String())

	if !s.cfg.Configured() || s.gateway == nil {
		if err := s.repo.UpdateFields(ctx, orderID, map[string]any{
			"payment_method": enums.PaymentMethodCOD,
			"payment_status": enums.PaymentStatusPending,
		}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "degrading order to COD")
		}
		s.logg.Warn(ctx, "payment gateway unconfigured, order degraded to COD")
		return &CreateResult{
			Skipped:       true,
			OrderID:       orderID,
			PaymentMethod: enums.PaymentMethodCOD,
			PaymentStatus: enums.PaymentStatusPending,
		}, nil
	}

	amountMinor := order.Total.Mul(decimal.NewFromInt(100)).IntPart()
	gatewayOrderID, err := s.gateway.CreateOrder(ctx, amountMinor, s.cfg.Currency, orderID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating gateway order")
	}

	if err := s.repo.UpdateFields(ctx, orderID, map[string]any{
		"razorpay_order_id": gatewayOrderID,
		"payment_method":    enums.PaymentMethodRazorpay,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording gateway order id")
	}

	s.logg.Info(ctx, "gateway payment order created")
	return &CreateResult{
		OrderID:        orderID,
		GatewayOrderID: gatewayOrderID,
		Amount:         order.Total,
		Currency:       s.cfg.Currency,
		KeyID:          s.cfg.KeyID,
		PaymentMethod:  enums.PaymentMethodRazorpay,
		PaymentStatus:  order.PaymentStatus,
	}, nil
}

// Verify checks the gateway signature and transitions payment state. The
// rejection message is deliberately generic.
func (s *service) Verify(ctx context.Context, input VerifyInput) (*models.Order, error) {
	if input.RazorpayOrderID == "" || input.RazorpayPaymentID == "" || input.RazorpaySignature == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "missing payment verification fields")
	}

	order, err := s.loadOrder(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithOrderID(ctx, order.ID.String())

	if !signatureMatches(s.cfg.KeySecret, input.RazorpayOrderID, input.RazorpayPaymentID, input.RazorpaySignature) {
		if err := s.repo.UpdateFields(ctx, order.ID, map[string]any{
			"payment_status": enums.PaymentStatusFailed,
		}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking payment failed")
		}
		s.logg.Warn(ctx, "payment signature mismatch")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment verification failed")
	}

	paidAt := s.now()
	updates := map[string]any{
		"payment_status":      enums.PaymentStatusPaid,
		"razorpay_order_id":   input.RazorpayOrderID,
		"razorpay_payment_id": input.RazorpayPaymentID,
		"razorpay_signature":  input.RazorpaySignature,
		"paid_at":             paidAt,
	}
	if order.Status == enums.OrderStatusPending {
		updates["status"] = enums.OrderStatusProcessing
	}
	if err := s.repo.UpdateFields(ctx, order.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording payment")
	}

	s.logg.Info(ctx, "payment verified")
	return s.repo.FindByID(ctx, order.ID)
}

// Failure records a client-reported payment failure. The order itself stays
// PENDING so the customer can retry payment.
func (s *service) Failure(ctx context.Context, orderID uuid.UUID, reason *string) error {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return err
	}
	ctx = s.logg.WithOrderID(ctx, order.ID.String())

	if err := s.repo.UpdateFields(ctx, order.ID, map[string]any{
		"payment_status": enums.PaymentStatusFailed,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking payment failed")
	}

	if reason != nil {
		ctx = s.logg.WithField(ctx, "reason", *reason)
	}
	s.logg.Warn(ctx, "payment reported failed by client")
	return nil
}

func (s *service) Status(ctx context.Context, orderID uuid.UUID) (*StatusResult, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &StatusResult{
		PaymentStatus: order.PaymentStatus,
		PaymentMethod: order.PaymentMethod,
		PaidAt:        order.PaidAt,
		Amount:        order.Total,
	}, nil
}
