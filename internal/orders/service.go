package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/fruitify/fruitify-backend/internal/inventory"
	"github.com/fruitify/fruitify-backend/pkg/db/models"
	"github.com/fruitify/fruitify-backend/pkg/enums"
	pkgerrors "github.com/fruitify/fruitify-backend/pkg/errors"
	"github.com/fruitify/fruitify-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type lineResolver interface {
	ResolveAll(ctx context.Context, reqs []inventory.LineRequest) ([]inventory.PricedLine, error)
}

// Notifier receives post-commit order events. Implementations must not block
// the caller; delivery failures stay on their side of the boundary.
type Notifier interface {
	OrderCreated(ctx context.Context, order *models.Order)
	OrderStatusUpdated(ctx context.Context, order *models.Order, oldStatus enums.OrderStatus)
}

// Service defines order placement and lifecycle operations.
type Service interface {
	Place(ctx context.Context, input PlaceOrderInput) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Order, error)
	List(ctx context.Context, filters ListFilters) ([]models.Order, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	resolver lineResolver
	notifier Notifier
	logg     *logger.Logger
}

// NewService builds an orders service with the required dependencies.
// notifier may be nil when no post-commit fan-out is wanted (tests).
func NewService(repo Repository, tx txRunner, resolver lineResolver, notifier Notifier, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("inventory resolver required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		resolver: resolver,
		notifier: notifier,
		logg:     logg,
	}, nil
}

// Place resolves, assembles and commits an order atomically, then hands the
// committed order to the notifier. The resolver pre-check is advisory; the
// conditional decrements inside the transaction are the authoritative guard.
func (s *service) Place(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	requests := make([]inventory.LineRequest, 0, len(input.Items))
	for _, item := range input.Items {
		requests = append(requests, inventory.LineRequest{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			OrderType: item.OrderType,
		})
	}

	lines, err := s.resolver.ResolveAll(ctx, requests)
	if err != nil {
		return nil, err
	}

	order, items := assemble(input, lines)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		created, err := txRepo.CreateOrder(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
		}
		for i := range items {
			items[i].OrderID = created.ID
		}
		if err := txRepo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order items")
		}

		for i, line := range lines {
			ok, err := decrementLineStock(ctx, txRepo, line)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrementing stock")
			}
			if !ok {
				return pkgerrors.New(
					pkgerrors.CodeValidation,
					fmt.Sprintf("insufficient stock for %q", lineLabel(items[i], line)),
				)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Items = items
	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(ctx, "order placed")

	if s.notifier != nil {
		s.notifier.OrderCreated(ctx, order)
	}
	return order, nil
}

func decrementLineStock(ctx context.Context, repo Repository, line inventory.PricedLine) (bool, error) {
	if line.Kind == inventory.LineVariant {
		return repo.DecrementVariantStock(ctx, line.Variant.ID, line.Quantity)
	}
	return repo.DecrementProductStock(ctx, line.Product.ID, line.Quantity)
}

func lineLabel(item models.OrderItem, line inventory.PricedLine) string {
	if line.Kind == inventory.LineVariant && line.Variant != nil {
		return line.Variant.DisplayName
	}
	if line.Product != nil {
		return line.Product.Name
	}
	return item.ProductID.String()
}

// assemble folds priced lines into the order aggregate and its immutable item
// snapshots. One wholesale line upgrades the whole order's type.
func assemble(input PlaceOrderInput, lines []inventory.PricedLine) (*models.Order, []models.OrderItem) {
	total := decimal.Zero
	orderType := enums.OrderTypeRetail
	items := make([]models.OrderItem, 0, len(lines))

	for _, line := range lines {
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(lineTotal)
		if line.OrderType == enums.OrderTypeWholesale {
			orderType = enums.OrderTypeWholesale
		}

		item := models.OrderItem{
			ID:        uuid.New(),
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
			OrderType: line.OrderType,
		}
		if line.Kind == inventory.LineVariant {
			item.VariantID = &line.Variant.ID
			qty := line.Variant.Quantity
			unit := line.Variant.Unit
			item.SelectedQuantity = &qty
			item.SelectedUnit = &unit
		}
		items = append(items, item)
	}

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          input.UserID,
		Status:          enums.OrderStatusPending,
		OrderType:       orderType,
		Total:           total,
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
		ShippingAddress: input.ShippingAddress,
		ShippingCity:    input.ShippingCity,
		ShippingZip:     input.ShippingZip,
		PaymentStatus:   enums.PaymentStatusPending,
		PaymentMethod:   enums.PaymentMethodRazorpay,
	}
	return order, items
}

// UpdateStatus transitions an order and emits a realtime event on success.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", status))
	}

	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	oldStatus := order.Status
	if oldStatus == status {
		return order, nil
	}
	if oldStatus.IsTerminal() {
		return nil, pkgerrors.New(
			pkgerrors.CodeStateConflict,
			fmt.Sprintf("order is already %s", oldStatus),
		)
	}

	if err := s.repo.UpdateFields(ctx, orderID, map[string]any{"status": status}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}
	order.Status = status

	ctx = s.logg.WithOrderID(ctx, orderID.String())
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"old_status": oldStatus,
		"new_status": status,
	}), "order status updated")

	if s.notifier != nil {
		s.notifier.OrderStatusUpdated(ctx, order, oldStatus)
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return orders, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]models.Order, error) {
	orders, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return orders, nil
}
