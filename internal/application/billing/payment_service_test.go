package billing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billingapp "github.com/retailops/backend/internal/application/billing"
	"github.com/retailops/backend/internal/domain/billing"
	"github.com/retailops/backend/internal/domain/shared"
)

func createSale(t *testing.T, f *fixture, quantity int64) *billing.Invoice {
	t.Helper()

	svc := billingapp.NewInvoiceService(f.scope, nil)
	invoice, err := svc.CreateSaleInvoice(context.Background(), billingapp.CreateSaleInvoiceInput{
		CompanyID: f.company.ID,
		BranchID:  &f.branch.ID,
		Items: []billingapp.SaleInvoiceLine{
			{ItemID: f.item.ID, Quantity: decimal.NewFromInt(quantity), Price: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)
	return invoice
}

func TestPaymentService_FullPaymentMarksPaid(t *testing.T) {
	f := newFixture(t)
	f.stockUp(t, 10)
	invoice := createSale(t, f, 1) // 118.00 gross

	svc := billingapp.NewPaymentService(f.scope, nil)
	payment, err := svc.CreatePayment(context.Background(), billingapp.CreatePaymentInput{
		CompanyID: f.company.ID,
		InvoiceID: invoice.ID,
		Amount:    invoice.TotalAmount,
		Method:    "CASH",
	})
	require.NoError(t, err)
	assert.Equal(t, billing.PaymentStatusSuccess, payment.Status)

	var reloaded billing.Invoice
	require.NoError(t, f.db.First(&reloaded, "id = ?", invoice.ID).Error)
	assert.Equal(t, billing.InvoiceStatusPaid, reloaded.Status)
}

func TestPaymentService_PartialPaymentMarksPartial(t *testing.T) {
	f := newFixture(t)
	f.stockUp(t, 10)
	invoice := createSale(t, f, 2) // 236.00 gross

	svc := billingapp.NewPaymentService(f.scope, nil)
	_, err := svc.CreatePayment(context.Background(), billingapp.CreatePaymentInput{
		CompanyID: f.company.ID,
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(100),
		Method:    "UPI",
	})
	require.NoError(t, err)

	var reloaded billing.Invoice
	require.NoError(t, f.db.First(&reloaded, "id = ?", invoice.ID).Error)
	assert.Equal(t, billing.InvoiceStatusPartial, reloaded.Status)
	assert.Nil(t, reloaded.PaidAt)
}

func TestPaymentService_RejectsNonPositiveAmount(t *testing.T) {
	f := newFixture(t)
	f.stockUp(t, 10)
	invoice := createSale(t, f, 1)

	svc := billingapp.NewPaymentService(f.scope, nil)
	_, err := svc.CreatePayment(context.Background(), billingapp.CreatePaymentInput{
		CompanyID: f.company.ID,
		InvoiceID: invoice.ID,
		Amount:    decimal.Zero,
		Method:    "CASH",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeValidation, domainErr.Code)
}

func TestPaymentService_DeletePaymentRecomputesStatus(t *testing.T) {
	f := newFixture(t)
	f.stockUp(t, 10)
	invoice := createSale(t, f, 1)
	ctx := context.Background()

	svc := billingapp.NewPaymentService(f.scope, nil)
	payment, err := svc.CreatePayment(ctx, billingapp.CreatePaymentInput{
		CompanyID: f.company.ID,
		InvoiceID: invoice.ID,
		Amount:    invoice.TotalAmount,
		Method:    "CARD",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePayment(ctx, f.company.ID, payment.ID))

	var reloaded billing.Invoice
	require.NoError(t, f.db.First(&reloaded, "id = ?", invoice.ID).Error)
	assert.Equal(t, billing.InvoiceStatusPending, reloaded.Status)
	assert.Nil(t, reloaded.PaidAt)
}

func TestPaymentService_ListByInvoice(t *testing.T) {
	f := newFixture(t)
	f.stockUp(t, 10)
	invoice := createSale(t, f, 2)
	ctx := context.Background()

	svc := billingapp.NewPaymentService(f.scope, nil)
	for _, amount := range []int64{50, 70} {
		_, err := svc.CreatePayment(ctx, billingapp.CreatePaymentInput{
			CompanyID: f.company.ID,
			InvoiceID: invoice.ID,
			Amount:    decimal.NewFromInt(amount),
			Method:    "CASH",
		})
		require.NoError(t, err)
	}

	payments, err := svc.ListByInvoice(ctx, f.company.ID, invoice.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}
