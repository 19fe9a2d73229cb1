package controllers

import (
	"net/http"

	"github.com/fruitify/fruitify-backend/api/responses"
	"github.com/fruitify/fruitify-backend/api/validators"
	"github.com/fruitify/fruitify-backend/internal/products"
	"github.com/fruitify/fruitify-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type productRequest struct {
	Name            string          `json:"name" validate:"required"`
	Description     *string         `json:"description,omitempty"`
	Category        string          `json:"category" validate:"required"`
	ImageURL        *string         `json:"imageUrl,omitempty"`
	PriceRetail     decimal.Decimal `json:"priceRetail" validate:"required"`
	PriceWholesale  decimal.Decimal `json:"priceWholesale" validate:"required"`
	Stock           int             `json:"stock" validate:"min=0"`
	MinQtyWholesale int             `json:"minQtyWholesale" validate:"min=0"`
	IsFeatured      bool            `json:"isFeatured"`
}

type variantRequest struct {
	Quantity        string          `json:"quantity" validate:"required"`
	Unit            string          `json:"unit" validate:"required"`
	DisplayName     string          `json:"displayName" validate:"required"`
	PriceRetail     decimal.Decimal `json:"priceRetail" validate:"required"`
	PriceWholesale  decimal.Decimal `json:"priceWholesale" validate:"required"`
	MinQtyWholesale int             `json:"minQtyWholesale" validate:"min=0"`
	Stock           int             `json:"stock" validate:"min=0"`
	SortOrder       int             `json:"sortOrder"`
	IsDefault       bool            `json:"isDefault"`
}

func (req productRequest) toInput() products.ProductInput {
	return products.ProductInput{
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		ImageURL:        req.ImageURL,
		PriceRetail:     req.PriceRetail,
		PriceWholesale:  req.PriceWholesale,
		Stock:           req.Stock,
		MinQtyWholesale: req.MinQtyWholesale,
		IsFeatured:      req.IsFeatured,
	}
}

func (req variantRequest) toInput() products.VariantInput {
	return products.VariantInput{
		Quantity:        req.Quantity,
		Unit:            req.Unit,
		DisplayName:     req.DisplayName,
		PriceRetail:     req.PriceRetail,
		PriceWholesale:  req.PriceWholesale,
		MinQtyWholesale: req.MinQtyWholesale,
		Stock:           req.Stock,
		SortOrder:       req.SortOrder,
		IsDefault:       req.IsDefault,
	}
}

func AdminProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req productRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newProductView(product))
	}
}

func AdminProductUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req productRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductView(product))
	}
}

func AdminProductDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func AdminVariantCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.UUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req variantRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variant, err := svc.AddVariant(r.Context(), productID, req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newVariantView(variant))
	}
}

func AdminVariantUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.UUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variantID, err := validators.UUIDParam(r, "variantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req variantRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variant, err := svc.UpdateVariant(r.Context(), productID, variantID, req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newVariantView(variant))
	}
}

func AdminVariantDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.UUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variantID, err := validators.UUIDParam(r, "variantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteVariant(r.Context(), productID, variantID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
