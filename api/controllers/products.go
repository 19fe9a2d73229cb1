package controllers

import (
	"net/http"
	"strings"

	"github.com/fruitify/fruitify-backend/api/responses"
	"github.com/fruitify/fruitify-backend/api/validators"
	"github.com/fruitify/fruitify-backend/internal/products"
	"github.com/fruitify/fruitify-backend/pkg/logger"
)

// ProductList serves the public catalog with optional category/featured
// filters.
func ProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := products.CatalogFilters{
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			Featured: validators.QueryBool(r, "featured"),
			Limit:    validators.QueryInt(r, "limit", 0),
		}

		list, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductListView(list))
	}
}

// ProductDetail serves one product with its variants.
func ProductDetail(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductView(product))
	}
}
