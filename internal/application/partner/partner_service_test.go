package partner_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	partnerapp "github.com/retailops/backend/internal/application/partner"
	"github.com/retailops/backend/internal/domain/company"
	"github.com/retailops/backend/internal/domain/partner"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/infrastructure/persistence"
)

func setupPartner(t *testing.T) (*partnerapp.Service, *company.Company) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&company.Company{},
		&partner.Customer{},
		&partner.Vendor{},
	))

	comp, err := company.NewCompany("Partner Traders", "", "", "")
	require.NoError(t, err)
	require.NoError(t, db.Create(comp).Error)

	scope := persistence.NewGormTransactionScope(db)
	return partnerapp.NewService(scope, nil), comp
}

func TestService_CustomerLifecycle(t *testing.T) {
	svc, comp := setupPartner(t)
	ctx := context.Background()

	customer, err := svc.CreateCustomer(ctx, partnerapp.CreateCustomerInput{
		CompanyID: comp.ID,
		Name:      "Ravi Kumar",
		Phone:     "9876543210",
	})
	require.NoError(t, err)
	assert.False(t, customer.Ephemeral)

	found, err := svc.GetCustomer(ctx, comp.ID, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", found.Name)

	page, err := svc.ListCustomers(ctx, comp.ID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	require.NoError(t, svc.DeleteCustomer(ctx, comp.ID, customer.ID))
	_, err = svc.GetCustomer(ctx, comp.ID, customer.ID)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeNotFound, domainErr.Code)
}

func TestService_CreateWalkInCustomer(t *testing.T) {
	svc, comp := setupPartner(t)

	customer, err := svc.CreateWalkInCustomer(context.Background(), comp.ID, "")
	require.NoError(t, err)
	assert.True(t, customer.Ephemeral)
	assert.NotEmpty(t, customer.Name)
}

func TestService_CreateCustomerRequiresName(t *testing.T) {
	svc, comp := setupPartner(t)

	_, err := svc.CreateCustomer(context.Background(), partnerapp.CreateCustomerInput{
		CompanyID: comp.ID,
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeValidation, domainErr.Code)
}

func TestService_VendorLifecycle(t *testing.T) {
	svc, comp := setupPartner(t)
	ctx := context.Background()

	vendor, err := svc.CreateVendor(ctx, partnerapp.CreateVendorInput{
		CompanyID: comp.ID,
		Name:      "Gupta Wholesalers",
		GSTIN:     "27AAPFU0939F1ZV",
	})
	require.NoError(t, err)
	assert.Equal(t, "27AAPFU0939F1ZV", vendor.GSTIN)

	page, err := svc.ListVendors(ctx, comp.ID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	require.NoError(t, svc.DeleteVendor(ctx, comp.ID, vendor.ID))
	_, err = svc.GetVendor(ctx, comp.ID, vendor.ID)
	require.Error(t, err)
}

func TestService_TenantIsolation(t *testing.T) {
	svc, comp := setupPartner(t)
	ctx := context.Background()

	customer, err := svc.CreateCustomer(ctx, partnerapp.CreateCustomerInput{
		CompanyID: comp.ID,
		Name:      "Local Only",
	})
	require.NoError(t, err)

	// Another tenant cannot read or delete across the boundary.
	_, err = svc.GetCustomer(ctx, uuid.New(), customer.ID)
	require.Error(t, err)
	require.Error(t, svc.DeleteCustomer(ctx, uuid.New(), customer.ID))
}
