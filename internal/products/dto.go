package products

import "github.com/shopspring/decimal"

// CatalogFilters describe the public catalog list inputs.
type CatalogFilters struct {
	Category string
	Featured *bool
	Limit    int
}

// ProductInput carries admin create/update fields for a product.
type ProductInput struct {
	Name            string
	Description     *string
	Category        string
	ImageURL        *string
	PriceRetail     decimal.Decimal
	PriceWholesale  decimal.Decimal
	Stock           int
	MinQtyWholesale int
	IsFeatured      bool
}

// VariantInput carries admin create/update fields for a variant.
type VariantInput struct {
	Quantity        string
	Unit            string
	DisplayName     string
	PriceRetail     decimal.Decimal
	PriceWholesale  decimal.Decimal
	MinQtyWholesale int
	Stock           int
	SortOrder       int
	IsDefault       bool
}
