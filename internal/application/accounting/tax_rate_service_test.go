package accounting_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountingapp "github.com/retailops/backend/internal/application/accounting"
	"github.com/retailops/backend/internal/domain/accounting"
	"github.com/retailops/backend/internal/domain/shared"
)

func TestTaxRateService_CreateClearsPreviousDefault(t *testing.T) {
	f := newLedgerFixture(t) // fixture seeds "GST 18%" as the default
	ctx := context.Background()

	svc := accountingapp.NewTaxRateService(f.scope, nil)
	created, err := svc.CreateTaxRate(ctx, accountingapp.CreateTaxRateInput{
		CompanyID: f.company.ID,
		Name:      "GST 5%",
		Rate:      decimal.NewFromInt(5),
		IsDefault: true,
	})
	require.NoError(t, err)
	assert.True(t, created.IsDefault)

	var defaults []accounting.TaxRate
	require.NoError(t, f.db.
		Where("company_id = ? AND is_default = ?", f.company.ID, true).
		Find(&defaults).Error)
	require.Len(t, defaults, 1)
	assert.Equal(t, created.ID, defaults[0].ID)
}

func TestTaxRateService_CreateRejectsNegativeRate(t *testing.T) {
	f := newLedgerFixture(t)

	svc := accountingapp.NewTaxRateService(f.scope, nil)
	_, err := svc.CreateTaxRate(context.Background(), accountingapp.CreateTaxRateInput{
		CompanyID: f.company.ID,
		Name:      "Impossible",
		Rate:      decimal.NewFromInt(-1),
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeValidation, domainErr.Code)
}

func TestTaxRateService_UpdateRenamesAndRerates(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	svc := accountingapp.NewTaxRateService(f.scope, nil)
	name := "GST 12%"
	rate := decimal.NewFromInt(12)
	updated, err := svc.UpdateTaxRate(ctx, f.company.ID, f.taxRate.ID, accountingapp.UpdateTaxRateInput{
		Name: &name,
		Rate: &rate,
	})
	require.NoError(t, err)
	assert.Equal(t, "GST 12%", updated.Name)
	assert.True(t, updated.Rate.Equal(decimal.NewFromInt(12)))
}

func TestTaxRateService_DeleteAndGet(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	svc := accountingapp.NewTaxRateService(f.scope, nil)
	require.NoError(t, svc.DeleteTaxRate(ctx, f.company.ID, f.taxRate.ID))

	_, err := svc.GetTaxRate(ctx, f.company.ID, f.taxRate.ID)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeNotFound, domainErr.Code)

	_, err = svc.GetTaxRate(ctx, f.company.ID, uuid.New())
	require.Error(t, err)
}

func TestTaxRateService_ListScopedToCompany(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	svc := accountingapp.NewTaxRateService(f.scope, nil)
	rates, err := svc.ListTaxRates(ctx, f.company.ID)
	require.NoError(t, err)
	assert.Len(t, rates, 1)

	none, err := svc.ListTaxRates(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}
