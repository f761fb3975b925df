package billing_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	billingapp "github.com/retailops/backend/internal/application/billing"
	"github.com/retailops/backend/internal/domain/accounting"
	"github.com/retailops/backend/internal/domain/billing"
	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/company"
	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/partner"
	"github.com/retailops/backend/internal/domain/pos"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/infrastructure/persistence"
)

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&company.Company{},
		&company.Branch{},
		&partner.Customer{},
		&partner.Vendor{},
		&catalog.Category{},
		&catalog.Product{},
		&catalog.Item{},
		&accounting.Account{},
		&accounting.TaxRate{},
		&accounting.JournalEntry{},
		&inventory.BranchItem{},
		&inventory.StockLedger{},
		&billing.Invoice{},
		&billing.InvoiceItem{},
		&billing.InvoiceTax{},
		&billing.Payment{},
		&pos.Cart{},
		&pos.CartItem{},
	))
	return db
}

// fixture is a provisioned tenant with a stocked item and an 18% tax rate
type fixture struct {
	db      *gorm.DB
	scope   *persistence.GormTransactionScope
	company *company.Company
	branch  *company.Branch
	product *catalog.Product
	item    *catalog.Item
	taxRate *accounting.TaxRate
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := setupTestDB(t)

	comp, err := company.NewCompany("Test Traders", "shop@test.in", "", "")
	require.NoError(t, err)
	require.NoError(t, db.Create(comp).Error)

	branch, err := company.NewBranch(comp.ID, "Main Branch", "", true)
	require.NoError(t, err)
	require.NoError(t, db.Create(branch).Error)

	accounts := accounting.DefaultChart(comp.ID)
	require.NoError(t, db.Create(&accounts).Error)

	taxRate, err := accounting.NewTaxRate(comp.ID, "GST 18%", decimal.NewFromInt(18), "GST", true)
	require.NoError(t, err)
	require.NoError(t, db.Create(taxRate).Error)

	product, err := catalog.NewProduct(comp.ID, "Widget", "WID-001", "", nil, nil)
	require.NoError(t, err)
	require.NoError(t, db.Create(product).Error)

	item, err := catalog.NewItem(comp.ID, product.ID, "", "WID-001-STD", decimal.NewFromInt(100), &taxRate.ID)
	require.NoError(t, err)
	require.NoError(t, db.Create(item).Error)

	return &fixture{
		db:      db,
		scope:   persistence.NewGormTransactionScope(db),
		company: comp,
		branch:  branch,
		product: product,
		item:    item,
		taxRate: taxRate,
	}
}

// stockUp gives the fixture item on-hand quantity at the fixture branch
func (f *fixture) stockUp(t *testing.T, quantity int64) {
	t.Helper()

	err := f.scope.Execute(context.Background(), func(repos billingapp.Repositories) error {
		_, err := billingapp.StockServiceFor(repos).Adjust(context.Background(), inventory.Adjustment{
			CompanyID: f.company.ID,
			BranchID:  f.branch.ID,
			ItemID:    f.item.ID,
			Type:      inventory.MovementPurchase,
			Quantity:  decimal.NewFromInt(quantity),
			Reference: "opening-stock",
			Defaults:  inventory.BranchItemDefaults{Price: f.item.Price},
		})
		return err
	})
	require.NoError(t, err)
}

func (f *fixture) branchQuantity(t *testing.T) decimal.Decimal {
	t.Helper()

	var row inventory.BranchItem
	require.NoError(t, f.db.
		Where("company_id = ? AND branch_id = ? AND item_id = ?", f.company.ID, f.branch.ID, f.item.ID).
		First(&row).Error)
	return row.Quantity
}

func TestInvoiceService_DuplicateInvoiceNumberConflicts(t *testing.T) {
	f := newFixture(t)
	f.stockUp(t, 10)
	svc := billingapp.NewInvoiceService(f.scope, nil)

	invoice, err := svc.CreateSaleInvoice(context.Background(), billingapp.CreateSaleInvoiceInput{
		CompanyID: f.company.ID,
		BranchID:  &f.branch.ID,
		Items: []billingapp.SaleInvoiceLine{
			{ItemID: f.item.ID, Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)

	clash, err := billing.NewInvoice(f.company.ID, billing.InvoiceTypeSale, invoice.InvoiceNumber, invoice.Date, nil)
	require.NoError(t, err)

	err = f.scope.Execute(context.Background(), func(repos billingapp.Repositories) error {
		return repos.Invoices().Save(context.Background(), clash)
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestInvoiceService_CreateSaleInvoice_DerivesTotals(t *testing.T) {
	f := newFixture(t)
	f.stockUp(t, 10)
	svc := billingapp.NewInvoiceService(f.scope, nil)

	invoice, err := svc.CreateSaleInvoice(context.Background(), billingapp.CreateSaleInvoiceInput{
		CompanyID: f.company.ID,
		BranchID:  &f.branch.ID,
		Items: []billingapp.SaleInvoiceLine{
			{ItemID: f.item.ID, Quantity: decimal.NewFromInt(2), Price: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)

	assert.True(t, invoice.TotalAmount.Equal(decimal.NewFromInt(200)), "total: %s", invoice.TotalAmount)
	assert.True(t, invoice.TaxAmount.Equal(decimal.NewFromInt(36)), "tax: %s", invoice.TaxAmount)
	assert.Equal(t, billing.InvoiceStatusPending, invoice.Status)
	require.Len(t, invoice.Items, 1)
	require.Len(t, invoice.Taxes, 1)
	assert.True(t, invoice.Taxes[0].Amount.Equal(decimal.NewFromInt(36)))

	// Stock moved down by the sold quantity.
	assert.True(t, f.branchQuantity(t).Equal(decimal.NewFromInt(8)))
}

func TestInvoiceService_CreateSaleInvoice_PostsBalancedEntries(t *testing.T) {
	f := newFixture(t)
	f.stockUp(t, 5)
	svc := billingapp.NewInvoiceService(f.scope, nil)

	invoice, err := svc.CreateSaleInvoice(context.Background(), billingapp.CreateSaleInvoiceInput{
		CompanyID: f.company.ID,
		BranchID:  &f.branch.ID,
		Items: []billingapp.SaleInvoiceLine{
			{ItemID: f.item.ID, Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)

	var entries []accounting.JournalEntry
	require.NoError(t, f.db.
		Where("company_id = ? AND reference = ?", f.company.ID, invoice.ID.String()).
		Find(&entries).Error)
	require.NotEmpty(t, entries)

	debit, credit := decimal.Zero, decimal.Zero
	for _, entry := range entries {
		debit = debit.Add(entry.Debit)
		credit = credit.Add(entry.Credit)
	}
	assert.True(t, debit.Equal(credit), "debit %s != credit %s", debit, credit)
	// Receivable carries the gross amount: 100 + 18 tax.
	assert.True(t, debit.Equal(decimal.NewFromInt(118)))
}

func TestInvoiceService_CreateSaleInvoice_InsufficientStockRollsBack(t *testing.T) {
	f := newFixture(t)
	f.stockUp(t, 1)
	svc := billingapp.NewInvoiceService(f.scope, nil)

	_, err := svc.CreateSaleInvoice(context.Background(), billingapp.CreateSaleInvoiceInput{
		CompanyID: f.company.ID,
		BranchID:  &f.branch.ID,
		Items: []billingapp.SaleInvoiceLine{
			{ItemID: f.item.ID, Quantity: decimal.NewFromInt(5), Price: decimal.NewFromInt(100)},
		},
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeInsufficientStock, domainErr.Code)

	// Nothing of the failed invoice survives the rollback.
	var invoiceCount, entryCount int64
	require.NoError(t, f.db.Model(&billing.Invoice{}).Where("company_id = ?", f.company.ID).Count(&invoiceCount).Error)
	require.NoError(t, f.db.Model(&accounting.JournalEntry{}).Where("company_id = ?", f.company.ID).Count(&entryCount).Error)
	assert.Zero(t, invoiceCount)
	assert.Zero(t, entryCount)
	assert.True(t, f.branchQuantity(t).Equal(decimal.NewFromInt(1)))
}

func TestInvoiceService_CreateSaleInvoice_MissingAccountFails(t *testing.T) {
	f := newFixture(t)
	f.stockUp(t, 5)
	// Remove the revenue account so posting cannot resolve it.
	require.NoError(t, f.db.
		Where("company_id = ? AND name = ?", f.company.ID, accounting.AccountSalesRevenue).
		Delete(&accounting.Account{}).Error)

	svc := billingapp.NewInvoiceService(f.scope, nil)
	_, err := svc.CreateSaleInvoice(context.Background(), billingapp.CreateSaleInvoiceInput{
		CompanyID: f.company.ID,
		BranchID:  &f.branch.ID,
		Items: []billingapp.SaleInvoiceLine{
			{ItemID: f.item.ID, Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(100)},
		},
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeAccountNotFound, domainErr.Code)
}

func TestInvoiceService_CreateSaleInvoice_RequiresBranch(t *testing.T) {
	f := newFixture(t)
	svc := billingapp.NewInvoiceService(f.scope, nil)

	_, err := svc.CreateSaleInvoice(context.Background(), billingapp.CreateSaleInvoiceInput{
		CompanyID: f.company.ID,
		Items: []billingapp.SaleInvoiceLine{
			{ItemID: f.item.ID, Quantity: decimal.NewFromInt(1)},
		},
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeValidation, domainErr.Code)
}

func TestInvoiceService_CreatePurchaseInvoice_ExistingItem(t *testing.T) {
	f := newFixture(t)
	svc := billingapp.NewInvoiceService(f.scope, nil)

	invoice, err := svc.CreatePurchaseInvoice(context.Background(), billingapp.CreatePurchaseInvoiceInput{
		CompanyID: f.company.ID,
		BranchID:  &f.branch.ID,
		Items: []billingapp.PurchaseInvoiceLine{
			{ItemID: &f.item.ID, Quantity: decimal.NewFromInt(10), Price: decimal.NewFromInt(60)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, billing.InvoiceTypePurchase, invoice.Type)
	assert.True(t, invoice.TotalAmount.Equal(decimal.NewFromInt(600)))

	// Purchases add stock synchronously.
	assert.True(t, f.branchQuantity(t).Equal(decimal.NewFromInt(10)))
}

func TestInvoiceService_CreatePurchaseInvoice_NewProductData(t *testing.T) {
	f := newFixture(t)
	svc := billingapp.NewInvoiceService(f.scope, nil)

	invoice, err := svc.CreatePurchaseInvoice(context.Background(), billingapp.CreatePurchaseInvoiceInput{
		CompanyID: f.company.ID,
		BranchID:  &f.branch.ID,
		Items: []billingapp.PurchaseInvoiceLine{
			{
				ProductData: &billingapp.ProductData{
					Name:  "Gadget",
					SKU:   "GAD-001",
					Price: decimal.NewFromInt(250),
				},
				Quantity: decimal.NewFromInt(4),
				Price:    decimal.NewFromInt(150),
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, invoice.Items, 1)

	// The line minted a product and its first variant.
	var created catalog.Product
	require.NoError(t, f.db.
		Where("company_id = ? AND sku = ?", f.company.ID, "GAD-001").
		First(&created).Error)
	var variant catalog.Item
	require.NoError(t, f.db.
		Where("company_id = ? AND product_id = ?", f.company.ID, created.ID).
		First(&variant).Error)
	assert.Equal(t, variant.ID, invoice.Items[0].ItemID)
}

func TestInvoiceService_CreatePurchaseInvoice_LineNeedsIdentity(t *testing.T) {
	f := newFixture(t)
	svc := billingapp.NewInvoiceService(f.scope, nil)

	_, err := svc.CreatePurchaseInvoice(context.Background(), billingapp.CreatePurchaseInvoiceInput{
		CompanyID: f.company.ID,
		BranchID:  &f.branch.ID,
		Items: []billingapp.PurchaseInvoiceLine{
			{Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(10)},
		},
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeValidation, domainErr.Code)
}

func TestInvoiceService_ListInvoices_FiltersByType(t *testing.T) {
	f := newFixture(t)
	f.stockUp(t, 10)
	svc := billingapp.NewInvoiceService(f.scope, nil)
	ctx := context.Background()

	_, err := svc.CreateSaleInvoice(ctx, billingapp.CreateSaleInvoiceInput{
		CompanyID: f.company.ID,
		BranchID:  &f.branch.ID,
		Items:     []billingapp.SaleInvoiceLine{{ItemID: f.item.ID, Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)
	_, err = svc.CreatePurchaseInvoice(ctx, billingapp.CreatePurchaseInvoiceInput{
		CompanyID: f.company.ID,
		BranchID:  &f.branch.ID,
		Items:     []billingapp.PurchaseInvoiceLine{{ItemID: &f.item.ID, Quantity: decimal.NewFromInt(2), Price: decimal.NewFromInt(50)}},
	})
	require.NoError(t, err)

	sales, err := svc.ListInvoices(ctx, f.company.ID, billing.InvoiceTypeSale, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), sales.Total)

	all, err := svc.ListInvoices(ctx, f.company.ID, "", shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)

	// Tenant isolation: another company sees nothing.
	none, err := svc.ListInvoices(ctx, uuid.New(), "", shared.DefaultFilter())
	require.NoError(t, err)
	assert.Zero(t, none.Total)
}
