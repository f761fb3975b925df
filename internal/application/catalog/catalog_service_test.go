package catalog_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	catalogapp "github.com/retailops/backend/internal/application/catalog"
	"github.com/retailops/backend/internal/domain/accounting"
	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/company"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/infrastructure/persistence"
)

func setupCatalog(t *testing.T) (*gorm.DB, *catalogapp.Service, *company.Company) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&company.Company{},
		&company.Branch{},
		&catalog.Category{},
		&catalog.Product{},
		&catalog.Item{},
		&accounting.TaxRate{},
	))

	comp, err := company.NewCompany("Catalog Traders", "", "", "")
	require.NoError(t, err)
	require.NoError(t, db.Create(comp).Error)

	scope := persistence.NewGormTransactionScope(db)
	return db, catalogapp.NewService(scope, nil), comp
}

func TestService_CreateProductWithDefaultVariant(t *testing.T) {
	_, svc, comp := setupCatalog(t)

	product, err := svc.CreateProduct(context.Background(), catalogapp.CreateProductInput{
		CompanyID: comp.ID,
		Name:      "Notebook",
		SKU:       "NB-100",
		Price:     decimal.NewFromInt(55),
	})
	require.NoError(t, err)

	// No explicit variants means one default item carrying the product SKU.
	require.Len(t, product.Items, 1)
	assert.Equal(t, "NB-100", product.Items[0].SKU)
	assert.True(t, product.Items[0].Price.Equal(decimal.NewFromInt(55)))
}

func TestService_CreateProductWithVariants(t *testing.T) {
	_, svc, comp := setupCatalog(t)

	product, err := svc.CreateProduct(context.Background(), catalogapp.CreateProductInput{
		CompanyID: comp.ID,
		Name:      "T-Shirt",
		SKU:       "TS-01",
		Items: []catalogapp.CreateItemInput{
			{Variant: "S", SKU: "TS-01-S", Price: decimal.NewFromInt(300)},
			{Variant: "M", SKU: "TS-01-M", Price: decimal.NewFromInt(300)},
			{Variant: "L", SKU: "TS-01-L", Price: decimal.NewFromInt(320)},
		},
	})
	require.NoError(t, err)
	assert.Len(t, product.Items, 3)
}

func TestService_CreateProductRejectsDuplicateSKU(t *testing.T) {
	db, svc, comp := setupCatalog(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, catalogapp.CreateProductInput{
		CompanyID: comp.ID, Name: "First", SKU: "DUP-01", Price: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, catalogapp.CreateProductInput{
		CompanyID: comp.ID, Name: "Second", SKU: "DUP-01", Price: decimal.NewFromInt(10),
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&catalog.Product{}).Where("company_id = ?", comp.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestService_AddAndUpdateItem(t *testing.T) {
	db, svc, comp := setupCatalog(t)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, catalogapp.CreateProductInput{
		CompanyID: comp.ID, Name: "Shoe", SKU: "SH-01", Price: decimal.NewFromInt(900),
	})
	require.NoError(t, err)

	item, err := svc.AddItem(ctx, comp.ID, product.ID, catalogapp.CreateItemInput{
		Variant: "42", SKU: "SH-01-42", Price: decimal.NewFromInt(950),
	})
	require.NoError(t, err)

	taxRate, err := accounting.NewTaxRate(comp.ID, "GST 12%", decimal.NewFromInt(12), "GST", false)
	require.NoError(t, err)
	require.NoError(t, db.Create(taxRate).Error)

	newPrice := decimal.NewFromInt(999)
	updated, err := svc.UpdateItem(ctx, comp.ID, item.ID, catalogapp.UpdateItemInput{
		Price:     &newPrice,
		TaxRateID: &taxRate.ID,
	})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	require.NotNil(t, updated.TaxRateID)
	assert.Equal(t, taxRate.ID, *updated.TaxRateID)
}

func TestService_UpdateItemRejectsUnknownTaxRate(t *testing.T) {
	_, svc, comp := setupCatalog(t)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, catalogapp.CreateProductInput{
		CompanyID: comp.ID, Name: "Pen", SKU: "PEN-01", Price: decimal.NewFromInt(20),
	})
	require.NoError(t, err)

	bogus := uuid.New()
	_, err = svc.UpdateItem(ctx, comp.ID, product.Items[0].ID, catalogapp.UpdateItemInput{
		TaxRateID: &bogus,
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeTaxRateNotFound, domainErr.Code)
}

func TestService_CategoryLifecycle(t *testing.T) {
	_, svc, comp := setupCatalog(t)
	ctx := context.Background()

	parent, err := svc.CreateCategory(ctx, comp.ID, "Beverages", nil)
	require.NoError(t, err)
	child, err := svc.CreateCategory(ctx, comp.ID, "Juices", &parent.ID)
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)

	categories, err := svc.ListCategories(ctx, comp.ID)
	require.NoError(t, err)
	assert.Len(t, categories, 2)

	require.NoError(t, svc.DeleteCategory(ctx, comp.ID, child.ID))
	categories, err = svc.ListCategories(ctx, comp.ID)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func TestService_ListProductsPaginates(t *testing.T) {
	_, svc, comp := setupCatalog(t)
	ctx := context.Background()

	for _, sku := range []string{"P-01", "P-02", "P-03"} {
		_, err := svc.CreateProduct(ctx, catalogapp.CreateProductInput{
			CompanyID: comp.ID, Name: "Product " + sku, SKU: sku, Price: decimal.NewFromInt(10),
		})
		require.NoError(t, err)
	}

	page, err := svc.ListProducts(ctx, comp.ID, shared.Filter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 2)
}

func TestService_DeleteItem(t *testing.T) {
	db, svc, comp := setupCatalog(t)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, catalogapp.CreateProductInput{
		CompanyID: comp.ID, Name: "Cap", SKU: "CAP-01", Price: decimal.NewFromInt(150),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(ctx, comp.ID, product.Items[0].ID))

	var count int64
	require.NoError(t, db.Model(&catalog.Item{}).Where("product_id = ?", product.ID).Count(&count).Error)
	assert.Zero(t, count)
}
