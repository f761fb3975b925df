package company_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	companyapp "github.com/retailops/backend/internal/application/company"
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

func setupService(t *testing.T) (*gorm.DB, *companyapp.Service) {
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

	scope := persistence.NewGormTransactionScope(db)
	purger := persistence.NewGormTenantPurger(db)
	return db, companyapp.NewService(scope, purger, nil)
}

func TestService_OnboardProvisionsTenant(t *testing.T) {
	db, svc := setupService(t)

	result, err := svc.Onboard(context.Background(), companyapp.OnboardInput{
		Name:  "Sharma Stores",
		Email: "owner@sharma.in",
	})
	require.NoError(t, err)

	assert.Equal(t, "Sharma Stores", result.Company.Name)
	assert.True(t, result.Branch.IsMain)
	assert.Equal(t, "Main Branch", result.Branch.Name)
	assert.Len(t, result.Accounts, 7)

	// The chart holds exactly the accounts the posting pipeline resolves.
	var names []string
	require.NoError(t, db.Model(&accounting.Account{}).
		Where("company_id = ?", result.Company.ID).
		Order("code").Pluck("name", &names).Error)
	assert.Equal(t, []string{
		accounting.AccountCash,
		accounting.AccountAccountsReceivable,
		accounting.AccountTaxReceivable,
		accounting.AccountAccountsPayable,
		accounting.AccountTaxPayable,
		accounting.AccountSalesRevenue,
		accounting.AccountPurchases,
	}, names)

	var gst accounting.TaxRate
	require.NoError(t, db.
		Where("company_id = ? AND is_default = ?", result.Company.ID, true).
		First(&gst).Error)
	assert.True(t, gst.Rate.Equal(decimal.NewFromInt(18)))
}

func TestService_OnboardRejectsDuplicateName(t *testing.T) {
	db, svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Onboard(ctx, companyapp.OnboardInput{Name: "Twin Mart"})
	require.NoError(t, err)

	_, err = svc.Onboard(ctx, companyapp.OnboardInput{Name: "Twin Mart"})
	require.Error(t, err)

	// The failed attempt provisions nothing.
	var count int64
	require.NoError(t, db.Model(&company.Company{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestService_CreateBranchAndList(t *testing.T) {
	_, svc := setupService(t)
	ctx := context.Background()

	result, err := svc.Onboard(ctx, companyapp.OnboardInput{Name: "Branching Out"})
	require.NoError(t, err)

	branch, err := svc.CreateBranch(ctx, result.Company.ID, "Warehouse", "Plot 4")
	require.NoError(t, err)
	assert.False(t, branch.IsMain)

	branches, err := svc.ListBranches(ctx, result.Company.ID)
	require.NoError(t, err)
	assert.Len(t, branches, 2)
}

func TestService_DeleteBranchRejectsMain(t *testing.T) {
	_, svc := setupService(t)
	ctx := context.Background()

	result, err := svc.Onboard(ctx, companyapp.OnboardInput{Name: "One Branch"})
	require.NoError(t, err)

	err = svc.DeleteBranch(ctx, result.Company.ID, result.Branch.ID)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeValidation, domainErr.Code)

	branch, err := svc.CreateBranch(ctx, result.Company.ID, "Outlet", "")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteBranch(ctx, result.Company.ID, branch.ID))
}

func TestService_PurgeCompanyRemovesAllRows(t *testing.T) {
	db, svc := setupService(t)
	ctx := context.Background()

	victim, err := svc.Onboard(ctx, companyapp.OnboardInput{Name: "Doomed Traders"})
	require.NoError(t, err)
	survivor, err := svc.Onboard(ctx, companyapp.OnboardInput{Name: "Lucky Traders"})
	require.NoError(t, err)

	require.NoError(t, svc.PurgeCompany(ctx, victim.Company.ID))

	var companies, branches, accounts, taxRates int64
	require.NoError(t, db.Model(&company.Company{}).Where("id = ?", victim.Company.ID).Count(&companies).Error)
	require.NoError(t, db.Model(&company.Branch{}).Where("company_id = ?", victim.Company.ID).Count(&branches).Error)
	require.NoError(t, db.Model(&accounting.Account{}).Where("company_id = ?", victim.Company.ID).Count(&accounts).Error)
	require.NoError(t, db.Model(&accounting.TaxRate{}).Where("company_id = ?", victim.Company.ID).Count(&taxRates).Error)
	assert.Zero(t, companies+branches+accounts+taxRates)

	// Other tenants are untouched.
	var remaining int64
	require.NoError(t, db.Model(&accounting.Account{}).Where("company_id = ?", survivor.Company.ID).Count(&remaining).Error)
	assert.Equal(t, int64(7), remaining)
}

func TestService_GetCompanyNotFound(t *testing.T) {
	_, svc := setupService(t)

	_, err := svc.GetCompany(context.Background(), uuid.New())
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeNotFound, domainErr.Code)
}
