package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceType classifies an invoice
type InvoiceType string

const (
	InvoiceTypeSale     InvoiceType = "SALE"
	InvoiceTypePurchase InvoiceType = "PURCHASE"
	InvoiceTypeExpense  InvoiceType = "EXPENSE"
)

// IsValid checks if the type is a known InvoiceType
func (t InvoiceType) IsValid() bool {
	switch t {
	case InvoiceTypeSale, InvoiceTypePurchase, InvoiceTypeExpense:
		return true
	}
	return false
}

// InvoiceStatus is derived from payments, never hand-set, except for the
// terminal FAILED transition driven by a failed gateway callback.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "PENDING"
	InvoiceStatusPartial InvoiceStatus = "PARTIAL"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
	InvoiceStatusFailed  InvoiceStatus = "FAILED"
)

// DeriveStatus computes the invoice status from the sum of its payments.
// It is a pure re-derivation so deletes and retried callbacks converge on
// the correct status.
func DeriveStatus(totalPaid, totalAmount decimal.Decimal) InvoiceStatus {
	switch {
	case totalPaid.LessThanOrEqual(decimal.Zero):
		return InvoiceStatusPending
	case totalPaid.LessThan(totalAmount):
		return InvoiceStatusPartial
	default:
		return InvoiceStatusPaid
	}
}

// Invoice is created as a zero-total shell first so its id can serve as the
// StockLedger reference and InvoiceItem foreign key, then finalized once
// line processing completes.
type Invoice struct {
	shared.TenantEntity
	BranchID      *uuid.UUID      `gorm:"type:uuid;index" json:"branchId,omitempty"`
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index" json:"customerId,omitempty"`
	VendorID      *uuid.UUID      `gorm:"type:uuid;index" json:"vendorId,omitempty"`
	Type          InvoiceType     `gorm:"not null" json:"type"`
	Status        InvoiceStatus   `gorm:"not null;default:'PENDING'" json:"status"`
	Date          time.Time       `gorm:"not null" json:"date"`
	DueDate       *time.Time      `json:"dueDate,omitempty"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"totalAmount"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"taxAmount"`
	InvoiceNumber string          `gorm:"not null;uniqueIndex" json:"invoiceNumber"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`

	Items    []InvoiceItem `gorm:"foreignKey:InvoiceID;references:ID" json:"items,omitempty"`
	Taxes    []InvoiceTax  `gorm:"foreignKey:InvoiceID;references:ID" json:"taxes,omitempty"`
	Payments []Payment     `gorm:"foreignKey:InvoiceID;references:ID" json:"payments,omitempty"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates an invoice shell with zero totals and PENDING status
func NewInvoice(companyID uuid.UUID, invoiceType InvoiceType, invoiceNumber string, date time.Time, dueDate *time.Time) (*Invoice, error) {
	if !invoiceType.IsValid() {
		return nil, shared.NewValidationError("Invalid invoice type: " + string(invoiceType))
	}
	if strings.TrimSpace(invoiceNumber) == "" {
		return nil, shared.NewValidationError("Invoice number cannot be empty")
	}
	if date.IsZero() {
		date = time.Now()
	}
	return &Invoice{
		TenantEntity:  shared.NewTenantEntity(companyID),
		Type:          invoiceType,
		Status:        InvoiceStatusPending,
		Date:          date,
		DueDate:       dueDate,
		TotalAmount:   decimal.Zero,
		TaxAmount:     decimal.Zero,
		InvoiceNumber: invoiceNumber,
	}, nil
}

// Finalize sets the computed totals, rounded to the persistence precision
func (i *Invoice) Finalize(totalAmount, taxAmount decimal.Decimal) {
	i.TotalAmount = totalAmount.Round(2)
	i.TaxAmount = taxAmount.Round(2)
	i.UpdatedAt = time.Now()
}

// ApplyPayments re-derives the status from the given payment total.
// FAILED is terminal; payments recorded after a failed gateway attempt do
// not resurrect the invoice.
func (i *Invoice) ApplyPayments(totalPaid decimal.Decimal) {
	if i.Status == InvoiceStatusFailed {
		return
	}
	i.Status = DeriveStatus(totalPaid, i.TotalAmount)
	i.UpdatedAt = time.Now()
}

// MarkPaid records a successful gateway settlement
func (i *Invoice) MarkPaid(at time.Time) {
	i.Status = InvoiceStatusPaid
	i.PaidAt = &at
	i.UpdatedAt = time.Now()
}

// MarkFailed records a terminal gateway failure. No further stock or ledger
// effects follow a failed invoice.
func (i *Invoice) MarkFailed() {
	i.Status = InvoiceStatusFailed
	i.UpdatedAt = time.Now()
}

// IsFailed reports whether the invoice is in the terminal FAILED state
func (i *Invoice) IsFailed() bool {
	return i.Status == InvoiceStatusFailed
}

// InvoiceItem is an immutable invoice line
type InvoiceItem struct {
	shared.TenantEntity
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoiceId"`
	ItemID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"itemId"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null" json:"productId"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	TaxRateID *uuid.UUID      `gorm:"type:uuid" json:"taxRateId,omitempty"`
	Total     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total"`
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// InvoiceTax is the per-line tax breakdown row
type InvoiceTax struct {
	shared.TenantEntity
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoiceId"`
	TaxRateID   uuid.UUID       `gorm:"type:uuid;not null" json:"taxRateId"`
	InvoiceType InvoiceType     `gorm:"not null" json:"invoiceType"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
}

// TableName returns the table name for GORM
func (InvoiceTax) TableName() string {
	return "invoice_taxes"
}

// NewInvoiceNumber generates a unique, human-sortable invoice number.
// Uniqueness is additionally enforced by the store's unique constraint.
func NewInvoiceNumber(invoiceType InvoiceType, at time.Time) string {
	prefix := "INV"
	switch invoiceType {
	case InvoiceTypePurchase:
		prefix = "PUR"
	case InvoiceTypeExpense:
		prefix = "EXP"
	}
	if at.IsZero() {
		at = time.Now()
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, at.Format("20060102"), suffix)
}
