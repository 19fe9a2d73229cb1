package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"testing"
	"time"

	"github.com/fruitify/fruitify-backend/internal/orders"
	"github.com/fruitify/fruitify-backend/pkg/config"
	"github.com/fruitify/fruitify-backend/pkg/db/models"
	"github.com/fruitify/fruitify-backend/pkg/enums"
	pkgerrors "github.com/fruitify/fruitify-backend/pkg/errors"
	"github.com/fruitify/fruitify-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "rzp_test_secret"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:payments_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  status TEXT NOT NULL DEFAULT 'PENDING',
  order_type TEXT NOT NULL DEFAULT 'RETAIL',
  total NUMERIC NOT NULL,
  customer_name TEXT NOT NULL,
  customer_email TEXT NOT NULL,
  customer_phone TEXT,
  shipping_address TEXT NOT NULL,
  shipping_city TEXT NOT NULL,
  shipping_zip TEXT NOT NULL,
  payment_status TEXT NOT NULL DEFAULT 'PENDING',
  payment_method TEXT NOT NULL DEFAULT 'RAZORPAY',
  razorpay_order_id TEXT,
  razorpay_payment_id TEXT,
  razorpay_signature TEXT,
  paid_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  variant_id TEXT,
  quantity INTEGER NOT NULL,
  price NUMERIC NOT NULL,
  order_type TEXT NOT NULL,
  selected_quantity TEXT,
  selected_unit TEXT,
  created_at DATETIME
);`,
	} {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func seedOrder(t *testing.T, conn *gorm.DB, total decimal.Decimal) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:              uuid.New(),
		Status:          enums.OrderStatusPending,
		OrderType:       enums.OrderTypeRetail,
		Total:           total,
		CustomerName:    "Asha Patel",
		CustomerEmail:   "asha@example.com",
		ShippingAddress: "12 Orchard Lane",
		ShippingCity:    "Pune",
		ShippingZip:     "411001",
		PaymentStatus:   enums.PaymentStatusPending,
		PaymentMethod:   enums.PaymentMethodRazorpay,
	}
	require.NoError(t, conn.Omit("Items").Create(order).Error)
	return order
}

type fakeGateway struct {
	orderID string
	calls   int
	err     error
}

func (f *fakeGateway) CreateOrder(context.Context, int64, string, string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.orderID, nil
}

func testService(t *testing.T, conn *gorm.DB, gateway GatewayClient, cfg config.RazorpayConfig) Service {
	t.Helper()
	svc, err := NewService(
		orders.NewRepository(conn),
		gateway,
		cfg,
		logger.New(logger.Options{ServiceName: "payments-test", Output: io.Discard}),
	)
	require.NoError(t, err)
	return svc
}

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreatePaymentOrderConfigured(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	order := seedOrder(t, conn, decimal.NewFromInt(200))
	gateway := &fakeGateway{orderID: "order_rzp_123"}
	cfg := config.RazorpayConfig{KeyID: "rzp_key", KeySecret: testSecret, Currency: "INR"}
	svc := testService(t, conn, gateway, cfg)

	result, err := svc.CreatePaymentOrder(context.Background(), order.ID, decimal.NewFromInt(200))
	require.NoError(t, err)

	assert.False(t, result.Skipped)
	assert.Equal(t, "order_rzp_123", result.GatewayOrderID)
	assert.Equal(t, "rzp_key", result.KeyID)
	assert.Equal(t, "INR", result.Currency)
	assert.Equal(t, 1, gateway.calls)

	var reloaded models.Order
	require.NoError(t, conn.First(&reloaded, "id = ?", order.ID).Error)
	require.NotNil(t, reloaded.RazorpayOrderID)
	assert.Equal(t, "order_rzp_123", *reloaded.RazorpayOrderID)
}

func TestCreatePaymentOrderUnconfiguredDegradesToCOD(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	order := seedOrder(t, conn, decimal.NewFromInt(200))
	svc := testService(t, conn, nil, config.RazorpayConfig{Currency: "INR"})

	result, err := svc.CreatePaymentOrder(context.Background(), order.ID, decimal.NewFromInt(200))
	require.NoError(t, err)

	assert.True(t, result.Skipped)
	assert.Equal(t, enums.PaymentMethodCOD, result.PaymentMethod)
	assert.Equal(t, enums.PaymentStatusPending, result.PaymentStatus)

	var reloaded models.Order
	require.NoError(t, conn.First(&reloaded, "id = ?", order.ID).Error)
	assert.Equal(t, enums.PaymentMethodCOD, reloaded.PaymentMethod)
}

func TestCreatePaymentOrderAmountMismatch(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	order := seedOrder(t, conn, decimal.NewFromInt(200))
	svc := testService(t, conn, &fakeGateway{orderID: "x"}, config.RazorpayConfig{KeyID: "k", KeySecret: "s", Currency: "INR"})

	_, err := svc.CreatePaymentOrder(context.Background(), order.ID, decimal.NewFromInt(150))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreatePaymentOrderUnknownOrder(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := testService(t, conn, nil, config.RazorpayConfig{})

	_, err := svc.CreatePaymentOrder(context.Background(), uuid.New(), decimal.NewFromInt(1))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestVerifyValidSignature(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	order := seedOrder(t, conn, decimal.NewFromInt(200))
	cfg := config.RazorpayConfig{KeyID: "k", KeySecret: testSecret, Currency: "INR"}
	svc := testService(t, conn, nil, cfg)

	input := VerifyInput{
		OrderID:           order.ID,
		RazorpayOrderID:   "order_rzp_123",
		RazorpayPaymentID: "pay_rzp_456",
		RazorpaySignature: sign(testSecret, "order_rzp_123", "pay_rzp_456"),
	}

	updated, err := svc.Verify(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, enums.PaymentStatusPaid, updated.PaymentStatus)
	assert.Equal(t, enums.OrderStatusProcessing, updated.Status)
	require.NotNil(t, updated.PaidAt)
	assert.WithinDuration(t, time.Now(), *updated.PaidAt, 5*time.Second)
	require.NotNil(t, updated.RazorpayPaymentID)
	assert.Equal(t, "pay_rzp_456", *updated.RazorpayPaymentID)
}

func TestVerifyBitFlippedSignatureFails(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	order := seedOrder(t, conn, decimal.NewFromInt(200))
	cfg := config.RazorpayConfig{KeyID: "k", KeySecret: testSecret, Currency: "INR"}
	svc := testService(t, conn, nil, cfg)

	valid := sign(testSecret, "order_rzp_123", "pay_rzp_456")
	raw, err := hex.DecodeString(valid)
	require.NoError(t, err)
	raw[0] ^= 0x01
	tampered := hex.EncodeToString(raw)

	_, err = svc.Verify(context.Background(), VerifyInput{
		OrderID:           order.ID,
		RazorpayOrderID:   "order_rzp_123",
		RazorpayPaymentID: "pay_rzp_456",
		RazorpaySignature: tampered,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "payment verification failed", typed.Message())

	var reloaded models.Order
	require.NoError(t, conn.First(&reloaded, "id = ?", order.ID).Error)
	assert.Equal(t, enums.PaymentStatusFailed, reloaded.PaymentStatus)
	assert.Equal(t, enums.OrderStatusPending, reloaded.Status)
}

func TestVerifyMissingFields(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := testService(t, conn, nil, config.RazorpayConfig{KeySecret: testSecret})

	_, err := svc.Verify(context.Background(), VerifyInput{OrderID: uuid.New()})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestFailureKeepsOrderPending(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	order := seedOrder(t, conn, decimal.NewFromInt(200))
	svc := testService(t, conn, nil, config.RazorpayConfig{KeySecret: testSecret})

	reason := "card declined"
	require.NoError(t, svc.Failure(context.Background(), order.ID, &reason))

	var reloaded models.Order
	require.NoError(t, conn.First(&reloaded, "id = ?", order.ID).Error)
	assert.Equal(t, enums.PaymentStatusFailed, reloaded.PaymentStatus)
	assert.Equal(t, enums.OrderStatusPending, reloaded.Status)
}

func TestStatus(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	order := seedOrder(t, conn, decimal.NewFromInt(321))
	svc := testService(t, conn, nil, config.RazorpayConfig{KeySecret: testSecret})

	status, err := svc.Status(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPending, status.PaymentStatus)
	assert.Equal(t, enums.PaymentMethodRazorpay, status.PaymentMethod)
	assert.Nil(t, status.PaidAt)
	assert.True(t, status.Amount.Equal(decimal.NewFromInt(321)))
}
