package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceRepository is the persistence boundary for invoices and their
// owned lines and tax rows
type InvoiceRepository interface {
	Save(ctx context.Context, invoice *Invoice) error
	// FindByID loads the bare invoice row
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Invoice, error)
	// FindByIDWithDetails preloads items, taxes and payments
	FindByIDWithDetails(ctx context.Context, companyID, id uuid.UUID) (*Invoice, error)
	FindAll(ctx context.Context, companyID uuid.UUID, invoiceType InvoiceType, filter shared.Filter) ([]Invoice, int64, error)
	SaveItem(ctx context.Context, item *InvoiceItem) error
	SaveTax(ctx context.Context, tax *InvoiceTax) error
}

// PaymentRepository is the persistence boundary for payments
type PaymentRepository interface {
	Save(ctx context.Context, payment *Payment) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Payment, error)
	// FindByGatewayPaymentID returns shared.ErrNotFound when no payment
	// of the company carries the gateway id.
	FindByGatewayPaymentID(ctx context.Context, companyID uuid.UUID, gatewayPaymentID string) (*Payment, error)
	FindByInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) ([]Payment, error)
	// SumForInvoice totals the amounts of payments that count towards the
	// invoice's paid total.
	SumForInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) (decimal.Decimal, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}
