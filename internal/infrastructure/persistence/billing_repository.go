package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/billing"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Save creates or updates an invoice row without touching its associations
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	return translateError(r.db.WithContext(ctx).
		Omit("Items", "Taxes", "Payments").
		Save(invoice).Error)
}

// FindByID loads the bare invoice row
func (r *GormInvoiceRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByIDWithDetails preloads items, taxes and payments
func (r *GormInvoiceRepository) FindByIDWithDetails(ctx context.Context, companyID, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Taxes").
		Preload("Payments").
		Where("company_id = ? AND id = ?", companyID, id).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAll finds invoices of a type matching the filter
func (r *GormInvoiceRepository) FindAll(ctx context.Context, companyID uuid.UUID, invoiceType billing.InvoiceType, filter shared.Filter) ([]billing.Invoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&billing.Invoice{}).Where("company_id = ?", companyID)
	if invoiceType != "" {
		query = query.Where("type = ?", invoiceType)
	}
	if filter.Search != "" {
		query = query.Where("invoice_number ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoices []billing.Invoice
	if err := query.Order("date DESC, created_at DESC").
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// SaveItem inserts or updates an invoice line
func (r *GormInvoiceRepository) SaveItem(ctx context.Context, item *billing.InvoiceItem) error {
	return translateError(r.db.WithContext(ctx).Save(item).Error)
}

// SaveTax inserts or updates an invoice tax row
func (r *GormInvoiceRepository) SaveTax(ctx context.Context, tax *billing.InvoiceTax) error {
	return translateError(r.db.WithContext(ctx).Save(tax).Error)
}

// GormPaymentRepository implements billing.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Save creates or updates a payment. A duplicate gateway payment id fails
// with Conflict; the unique index is the idempotency backstop for webhook
// deliveries.
func (r *GormPaymentRepository) Save(ctx context.Context, payment *billing.Payment) error {
	return translateError(r.db.WithContext(ctx).Save(payment).Error)
}

// FindByID finds a payment within a company
func (r *GormPaymentRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*billing.Payment, error) {
	var payment billing.Payment
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByGatewayPaymentID finds a company's payment by its gateway id
func (r *GormPaymentRepository) FindByGatewayPaymentID(ctx context.Context, companyID uuid.UUID, gatewayPaymentID string) (*billing.Payment, error) {
	var payment billing.Payment
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND gateway_payment_id = ?", companyID, gatewayPaymentID).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByInvoice finds all payments of an invoice
func (r *GormPaymentRepository) FindByInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) ([]billing.Payment, error) {
	var payments []billing.Payment
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND invoice_id = ?", companyID, invoiceID).
		Order("created_at ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// SumForInvoice totals SUCCESS payments for an invoice. PENDING and FAILED
// payments never count towards the paid total.
func (r *GormPaymentRepository) SumForInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&billing.Payment{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("company_id = ? AND invoice_id = ? AND status = ?", companyID, invoiceID, billing.PaymentStatusSuccess).
		Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

// Delete deletes a payment
func (r *GormPaymentRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.Payment{}, "company_id = ? AND id = ?", companyID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure interfaces are implemented
var (
	_ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
	_ billing.PaymentRepository = (*GormPaymentRepository)(nil)
)
