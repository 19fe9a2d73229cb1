package products

import (
	"context"
	"io"
	"testing"

	"github.com/fruitify/fruitify-backend/pkg/db"
	"github.com/fruitify/fruitify-backend/pkg/db/models"
	pkgerrors "github.com/fruitify/fruitify-backend/pkg/errors"
	"github.com/fruitify/fruitify-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:products_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  category TEXT NOT NULL,
  image_url TEXT,
  price_retail NUMERIC NOT NULL,
  price_wholesale NUMERIC NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  min_qty_wholesale INTEGER NOT NULL DEFAULT 1,
  is_featured INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_variants (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  quantity TEXT NOT NULL,
  unit TEXT NOT NULL,
  display_name TEXT NOT NULL,
  price_retail NUMERIC NOT NULL,
  price_wholesale NUMERIC NOT NULL,
  min_qty_wholesale INTEGER NOT NULL DEFAULT 1,
  stock INTEGER NOT NULL DEFAULT 0,
  sort_order INTEGER NOT NULL DEFAULT 0,
  is_default INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
	} {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(
		NewRepository(conn),
		db.FromGorm(conn),
		logger.New(logger.Options{ServiceName: "products-test", Output: io.Discard}),
	)
	require.NoError(t, err)
	return svc
}

func productInput() ProductInput {
	return ProductInput{
		Name:            "Alphonso Mango",
		Category:        "fruits",
		PriceRetail:     decimal.NewFromInt(100),
		PriceWholesale:  decimal.NewFromInt(80),
		Stock:           30,
		MinQtyWholesale: 10,
	}
}

func variantInput(displayName string) VariantInput {
	return VariantInput{
		Quantity:        "1",
		Unit:            "kg",
		DisplayName:     displayName,
		PriceRetail:     decimal.NewFromInt(120),
		PriceWholesale:  decimal.NewFromInt(95),
		MinQtyWholesale: 5,
		Stock:           50,
	}
}

func TestCreateAndGetProduct(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)

	created, err := svc.Create(context.Background(), productInput())
	require.NoError(t, err)

	loaded, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alphonso Mango", loaded.Name)
	assert.Equal(t, 10, loaded.MinQtyWholesale)
}

func TestGetUnknownProduct(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)

	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListFilters(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)

	_, err := svc.Create(context.Background(), productInput())
	require.NoError(t, err)

	veg := productInput()
	veg.Name = "Spinach"
	veg.Category = "vegetables"
	veg.IsFeatured = true
	_, err = svc.Create(context.Background(), veg)
	require.NoError(t, err)

	fruits, err := svc.List(context.Background(), CatalogFilters{Category: "fruits"})
	require.NoError(t, err)
	require.Len(t, fruits, 1)
	assert.Equal(t, "Alphonso Mango", fruits[0].Name)

	featured := true
	hot, err := svc.List(context.Background(), CatalogFilters{Featured: &featured})
	require.NoError(t, err)
	require.Len(t, hot, 1)
	assert.Equal(t, "Spinach", hot[0].Name)
}

func TestFirstVariantBecomesDefault(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)

	product, err := svc.Create(context.Background(), productInput())
	require.NoError(t, err)

	first, err := svc.AddVariant(context.Background(), product.ID, variantInput("1 kg box"))
	require.NoError(t, err)
	assert.True(t, first.IsDefault, "first variant defaults even when not requested")

	second, err := svc.AddVariant(context.Background(), product.ID, variantInput("5 kg crate"))
	require.NoError(t, err)
	assert.False(t, second.IsDefault)
}

func TestNewDefaultClearsSiblings(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)

	product, err := svc.Create(context.Background(), productInput())
	require.NoError(t, err)

	first, err := svc.AddVariant(context.Background(), product.ID, variantInput("1 kg box"))
	require.NoError(t, err)

	input := variantInput("5 kg crate")
	input.IsDefault = true
	second, err := svc.AddVariant(context.Background(), product.ID, input)
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	var variants []models.ProductVariant
	require.NoError(t, conn.Where("product_id = ?", product.ID).Find(&variants).Error)
	defaults := 0
	for _, v := range variants {
		if v.IsDefault {
			defaults++
			assert.Equal(t, second.ID, v.ID)
		}
	}
	assert.Equal(t, 1, defaults)
	_ = first
}

func TestUpdateVariantPromotesDefault(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)

	product, err := svc.Create(context.Background(), productInput())
	require.NoError(t, err)

	first, err := svc.AddVariant(context.Background(), product.ID, variantInput("1 kg box"))
	require.NoError(t, err)
	second, err := svc.AddVariant(context.Background(), product.ID, variantInput("5 kg crate"))
	require.NoError(t, err)

	promote := variantInput("5 kg crate")
	promote.IsDefault = true
	updated, err := svc.UpdateVariant(context.Background(), product.ID, second.ID, promote)
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)

	var reloadedFirst models.ProductVariant
	require.NoError(t, conn.First(&reloadedFirst, "id = ?", first.ID).Error)
	assert.False(t, reloadedFirst.IsDefault)
}

func TestDeleteProductRemovesVariants(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)

	product, err := svc.Create(context.Background(), productInput())
	require.NoError(t, err)
	_, err = svc.AddVariant(context.Background(), product.ID, variantInput("1 kg box"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), product.ID))

	var variantCount int64
	require.NoError(t, conn.Model(&models.ProductVariant{}).Where("product_id = ?", product.ID).Count(&variantCount).Error)
	assert.Zero(t, variantCount)

	_, err = svc.Get(context.Background(), product.ID)
	require.Error(t, err)
}

func TestDeleteVariantUnknown(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)

	product, err := svc.Create(context.Background(), productInput())
	require.NoError(t, err)

	err = svc.DeleteVariant(context.Background(), product.ID, uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
