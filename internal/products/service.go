package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/fruitify/fruitify-backend/pkg/db/models"
	pkgerrors "github.com/fruitify/fruitify-backend/pkg/errors"
	"github.com/fruitify/fruitify-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines catalog reads and admin catalog writes.
type Service interface {
	List(ctx context.Context, filters CatalogFilters) ([]models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, input ProductInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddVariant(ctx context.Context, productID uuid.UUID, input VariantInput) (*models.ProductVariant, error)
	UpdateVariant(ctx context.Context, productID, variantID uuid.UUID, input VariantInput) (*models.ProductVariant, error)
	DeleteVariant(ctx context.Context, productID, variantID uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds a products service with the required dependencies.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) List(ctx context.Context, filters CatalogFilters) ([]models.Product, error) {
	products, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	return products, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return product, nil
}

func (s *service) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	product := &models.Product{
		ID:              uuid.New(),
		Name:            input.Name,
		Description:     input.Description,
		Category:        input.Category,
		ImageURL:        input.ImageURL,
		PriceRetail:     input.PriceRetail,
		PriceWholesale:  input.PriceWholesale,
		Stock:           input.Stock,
		MinQtyWholesale: normalizeMinQty(input.MinQtyWholesale),
		IsFeatured:      input.IsFeatured,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", product.ID), "product created")
	return product, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	updates := map[string]any{
		"name":              input.Name,
		"description":       input.Description,
		"category":          input.Category,
		"image_url":         input.ImageURL,
		"price_retail":      input.PriceRetail,
		"price_wholesale":   input.PriceWholesale,
		"stock":             input.Stock,
		"min_qty_wholesale": normalizeMinQty(input.MinQtyWholesale),
		"is_featured":       input.IsFeatured,
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", id), "product deleted")
	return nil
}

// AddVariant creates a variant. The first variant of a product becomes the
// default; an explicit default clears its siblings inside the same
// transaction. Uniqueness of is_default is a write-path convention, not a
// storage constraint.
func (s *service) AddVariant(ctx context.Context, productID uuid.UUID, input VariantInput) (*models.ProductVariant, error) {
	if _, err := s.Get(ctx, productID); err != nil {
		return nil, err
	}

	variant := &models.ProductVariant{
		ID:              uuid.New(),
		ProductID:       productID,
		Quantity:        input.Quantity,
		Unit:            input.Unit,
		DisplayName:     input.DisplayName,
		PriceRetail:     input.PriceRetail,
		PriceWholesale:  input.PriceWholesale,
		MinQtyWholesale: normalizeMinQty(input.MinQtyWholesale),
		Stock:           input.Stock,
		SortOrder:       input.SortOrder,
		IsDefault:       input.IsDefault,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		count, err := txRepo.CountVariants(ctx, productID)
		if err != nil {
			return err
		}
		if count == 0 {
			variant.IsDefault = true
		}
		if err := txRepo.CreateVariant(ctx, variant); err != nil {
			return err
		}
		if variant.IsDefault {
			return txRepo.ClearDefaultVariants(ctx, productID, variant.ID)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating variant")
	}
	return variant, nil
}

func (s *service) UpdateVariant(ctx context.Context, productID, variantID uuid.UUID, input VariantInput) (*models.ProductVariant, error) {
	if _, err := s.getVariant(ctx, productID, variantID); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"quantity":          input.Quantity,
		"unit":              input.Unit,
		"display_name":      input.DisplayName,
		"price_retail":      input.PriceRetail,
		"price_wholesale":   input.PriceWholesale,
		"min_qty_wholesale": normalizeMinQty(input.MinQtyWholesale),
		"stock":             input.Stock,
		"sort_order":        input.SortOrder,
		"is_default":        input.IsDefault,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.UpdateVariant(ctx, variantID, updates); err != nil {
			return err
		}
		if input.IsDefault {
			return txRepo.ClearDefaultVariants(ctx, productID, variantID)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating variant")
	}
	return s.getVariant(ctx, productID, variantID)
}

func (s *service) DeleteVariant(ctx context.Context, productID, variantID uuid.UUID) error {
	if _, err := s.getVariant(ctx, productID, variantID); err != nil {
		return err
	}
	if err := s.repo.DeleteVariant(ctx, variantID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting variant")
	}
	return nil
}

func (s *service) getVariant(ctx context.Context, productID, variantID uuid.UUID) (*models.ProductVariant, error) {
	variant, err := s.repo.FindVariant(ctx, productID, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading variant")
	}
	return variant, nil
}

func normalizeMinQty(minQty int) int {
	if minQty < 1 {
		return 1
	}
	return minQty
}
