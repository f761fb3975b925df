package inventory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	inventoryapp "github.com/retailops/backend/internal/application/inventory"
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

type stockFixture struct {
	db      *gorm.DB
	service *inventoryapp.StockService
	company *company.Company
	branch  *company.Branch
	item    *catalog.Item
}

func newStockFixture(t *testing.T) *stockFixture {
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

	comp, err := company.NewCompany("Stock Traders", "", "", "")
	require.NoError(t, err)
	require.NoError(t, db.Create(comp).Error)

	branch, err := company.NewBranch(comp.ID, "Godown", "", true)
	require.NoError(t, err)
	require.NoError(t, db.Create(branch).Error)

	product, err := catalog.NewProduct(comp.ID, "Rice Bag", "RICE-25", "", nil, nil)
	require.NoError(t, err)
	require.NoError(t, db.Create(product).Error)

	item, err := catalog.NewItem(comp.ID, product.ID, "25kg", "RICE-25-A", decimal.NewFromInt(1200), nil)
	require.NoError(t, err)
	require.NoError(t, db.Create(item).Error)

	scope := persistence.NewGormTransactionScope(db)
	return &stockFixture{
		db:      db,
		service: inventoryapp.NewStockService(scope, nil),
		company: comp,
		branch:  branch,
		item:    item,
	}
}

func TestStockService_AdjustCreatesRowAndLedger(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()

	movement, err := f.service.AdjustStock(ctx, inventoryapp.AdjustStockInput{
		CompanyID: f.company.ID,
		BranchID:  f.branch.ID,
		ItemID:    f.item.ID,
		Type:      inventory.MovementPurchase,
		Quantity:  decimal.NewFromInt(40),
		Reference: "grn-77",
	})
	require.NoError(t, err)
	assert.Equal(t, inventory.MovementPurchase, movement.Type)

	// First movement lazily creates the branch-item row.
	var row inventory.BranchItem
	require.NoError(t, f.db.
		Where("branch_id = ? AND item_id = ?", f.branch.ID, f.item.ID).
		First(&row).Error)
	assert.True(t, row.Quantity.Equal(decimal.NewFromInt(40)))

	_, err = f.service.AdjustStock(ctx, inventoryapp.AdjustStockInput{
		CompanyID: f.company.ID,
		BranchID:  f.branch.ID,
		ItemID:    f.item.ID,
		Type:      inventory.MovementAdjustment,
		Quantity:  decimal.NewFromInt(3),
		Note:      "shelf recount",
	})
	require.NoError(t, err)

	require.NoError(t, f.db.
		Where("branch_id = ? AND item_id = ?", f.branch.ID, f.item.ID).
		First(&row).Error)
	assert.True(t, row.Quantity.Equal(decimal.NewFromInt(43)))
}

func TestStockService_LedgerConservation(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()

	for _, qty := range []int64{10, 5, 25} {
		_, err := f.service.AdjustStock(ctx, inventoryapp.AdjustStockInput{
			CompanyID: f.company.ID,
			BranchID:  f.branch.ID,
			ItemID:    f.item.ID,
			Type:      inventory.MovementPurchase,
			Quantity:  decimal.NewFromInt(qty),
		})
		require.NoError(t, err)
	}

	// On-hand quantity always equals the sum of signed ledger movements.
	var movements []inventory.StockLedger
	require.NoError(t, f.db.
		Where("branch_id = ? AND item_id = ?", f.branch.ID, f.item.ID).
		Find(&movements).Error)
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(m.SignedQuantity())
	}

	var row inventory.BranchItem
	require.NoError(t, f.db.
		Where("branch_id = ? AND item_id = ?", f.branch.ID, f.item.ID).
		First(&row).Error)
	assert.True(t, row.Quantity.Equal(total))
	assert.True(t, row.Quantity.Equal(decimal.NewFromInt(40)))
}

func TestStockService_RejectsManualSale(t *testing.T) {
	f := newStockFixture(t)

	_, err := f.service.AdjustStock(context.Background(), inventoryapp.AdjustStockInput{
		CompanyID: f.company.ID,
		BranchID:  f.branch.ID,
		ItemID:    f.item.ID,
		Type:      inventory.MovementSale,
		Quantity:  decimal.NewFromInt(1),
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeValidation, domainErr.Code)
}

func TestStockService_RejectsUnknownItem(t *testing.T) {
	f := newStockFixture(t)

	_, err := f.service.AdjustStock(context.Background(), inventoryapp.AdjustStockInput{
		CompanyID: f.company.ID,
		BranchID:  f.branch.ID,
		ItemID:    uuid.New(),
		Type:      inventory.MovementPurchase,
		Quantity:  decimal.NewFromInt(1),
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeNotFound, domainErr.Code)
}

func TestStockService_ListBranchStockAndMovements(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()

	_, err := f.service.AdjustStock(ctx, inventoryapp.AdjustStockInput{
		CompanyID: f.company.ID,
		BranchID:  f.branch.ID,
		ItemID:    f.item.ID,
		Type:      inventory.MovementPurchase,
		Quantity:  decimal.NewFromInt(12),
	})
	require.NoError(t, err)

	stock, err := f.service.ListBranchStock(ctx, f.company.ID, f.branch.ID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Equal(t, int64(1), stock.Total)
	assert.True(t, stock.Items[0].Quantity.Equal(decimal.NewFromInt(12)))

	movements, err := f.service.ListMovements(ctx, f.company.ID, f.branch.ID, f.item.ID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), movements.Total)
}
