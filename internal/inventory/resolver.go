package inventory

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/fruitify/fruitify-backend/pkg/errors"

	"github.com/fruitify/fruitify-backend/pkg/db/models"
	"github.com/fruitify/fruitify-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LineKind tags which pricing source a resolved line uses.
type LineKind string

const (
	// LineVariant prices the line from a product variant.
	LineVariant LineKind = "variant"
	// LineProduct prices the line from the product's legacy fields.
	LineProduct LineKind = "product"
)

// LineRequest is one requested cart line prior to resolution.
type LineRequest struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
	OrderType enums.OrderType
}

// PricedLine is the resolved form of a cart line. Kind determines whether
// Variant is set; downstream code switches on Kind instead of null-checking.
type PricedLine struct {
	Kind            LineKind
	Product         *models.Product
	Variant         *models.ProductVariant
	Quantity        int
	OrderType       enums.OrderType
	UnitPrice       decimal.Decimal
	AvailableStock  int
	MinWholesaleQty int
}

// Resolver turns cart lines into priced lines against live catalog state.
// It performs reads only; the authoritative stock guard lives in the order
// commit transaction.
type Resolver struct {
	db *gorm.DB
}

// NewResolver builds a resolver bound to the provided DB.
func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Resolve validates and prices a single line.
func (r *Resolver) Resolve(ctx context.Context, req LineRequest) (*PricedLine, error) {
	if req.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if !req.OrderType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order type %q", req.OrderType))
	}

	if req.VariantID != nil {
		return r.resolveVariant(ctx, req)
	}
	return r.resolveProduct(ctx, req)
}

// ResolveAll resolves every line, failing fast on the first rejection.
func (r *Resolver) ResolveAll(ctx context.Context, reqs []LineRequest) ([]PricedLine, error) {
	if len(reqs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	lines := make([]PricedLine, 0, len(reqs))
	for _, req := range reqs {
		line, err := r.Resolve(ctx, req)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *line)
	}
	return lines, nil
}

func (r *Resolver) resolveVariant(ctx context.Context, req LineRequest) (*PricedLine, error) {
	var variant models.ProductVariant
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id = ? AND product_id = ?", *req.VariantID, req.ProductID).
		First(&variant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product variant")
	}

	line := &PricedLine{
		Kind:            LineVariant,
		Product:         variant.Product,
		Variant:         &variant,
		Quantity:        req.Quantity,
		OrderType:       req.OrderType,
		UnitPrice:       variant.PriceRetail,
		AvailableStock:  variant.Stock,
		MinWholesaleQty: variant.MinQtyWholesale,
	}
	if req.OrderType == enums.OrderTypeWholesale {
		line.UnitPrice = variant.PriceWholesale
	}
	return r.check(line, variant.DisplayName)
}

func (r *Resolver) resolveProduct(ctx context.Context, req LineRequest) (*PricedLine, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", req.ProductID).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	line := &PricedLine{
		Kind:            LineProduct,
		Product:         &product,
		Quantity:        req.Quantity,
		OrderType:       req.OrderType,
		UnitPrice:       product.PriceRetail,
		AvailableStock:  product.Stock,
		MinWholesaleQty: product.MinQtyWholesale,
	}
	if req.OrderType == enums.OrderTypeWholesale {
		line.UnitPrice = product.PriceWholesale
	}
	return r.check(line, product.Name)
}

func (r *Resolver) check(line *PricedLine, label string) (*PricedLine, error) {
	if line.AvailableStock < line.Quantity {
		return nil, pkgerrors.New(
			pkgerrors.CodeValidation,
			fmt.Sprintf("insufficient stock for %q: %d available, %d requested", label, line.AvailableStock, line.Quantity),
		)
	}
	if line.OrderType == enums.OrderTypeWholesale && line.Quantity < line.MinWholesaleQty {
		return nil, pkgerrors.New(
			pkgerrors.CodeValidation,
			fmt.Sprintf("wholesale orders of %q require at least %d units", label, line.MinWholesaleQty),
		)
	}
	return line, nil
}
