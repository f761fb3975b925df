package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentStatus mirrors the gateway's settlement state for gateway payments;
// direct payments are recorded as SUCCESS.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// IsValid checks if the status is a known PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusSuccess, PaymentStatusFailed:
		return true
	}
	return false
}

// Payment records money received (sale side) or paid out (purchase side)
// against an invoice. GatewayPaymentID is the idempotency key for webhook
// deliveries; the store enforces its uniqueness.
type Payment struct {
	shared.TenantEntity
	InvoiceID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoiceId"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Method           string          `gorm:"not null;default:'CASH'" json:"method"`
	ReferenceNo      string          `json:"referenceNo"`
	GatewayPaymentID *string         `gorm:"uniqueIndex" json:"gatewayPaymentId,omitempty"`
	Gateway          string          `json:"gateway"`
	RawResponse      string          `gorm:"type:text" json:"-"`
	Date             time.Time       `gorm:"not null" json:"date"`
	Status           PaymentStatus   `gorm:"not null;default:'SUCCESS'" json:"status"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment records a direct payment against an invoice
func NewPayment(companyID, invoiceID uuid.UUID, amount decimal.Decimal, method, referenceNo string, date time.Time) (*Payment, error) {
	if invoiceID == uuid.Nil {
		return nil, shared.NewValidationError("Invoice ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Payment amount must be positive")
	}
	if method == "" {
		method = "CASH"
	}
	if date.IsZero() {
		date = time.Now()
	}
	return &Payment{
		TenantEntity: shared.NewTenantEntity(companyID),
		InvoiceID:    invoiceID,
		Amount:       amount.Round(2),
		Method:       method,
		ReferenceNo:  referenceNo,
		Date:         date,
		Status:       PaymentStatusSuccess,
	}, nil
}

// NewGatewayPayment records a payment reported by an external gateway
// callback, keyed by the gateway's payment id.
func NewGatewayPayment(companyID, invoiceID uuid.UUID, gatewayPaymentID, gateway string, amount decimal.Decimal, status PaymentStatus, rawResponse string) (*Payment, error) {
	if invoiceID == uuid.Nil {
		return nil, shared.NewValidationError("Invoice ID cannot be empty")
	}
	if gatewayPaymentID == "" {
		return nil, shared.NewValidationError("Gateway payment ID cannot be empty")
	}
	if !status.IsValid() {
		return nil, shared.NewValidationError("Invalid payment status: " + string(status))
	}
	return &Payment{
		TenantEntity:     shared.NewTenantEntity(companyID),
		InvoiceID:        invoiceID,
		Amount:           amount.Round(2),
		Method:           "GATEWAY",
		GatewayPaymentID: &gatewayPaymentID,
		Gateway:          gateway,
		RawResponse:      rawResponse,
		Date:             time.Now(),
		Status:           status,
	}, nil
}

// CountsTowardsPaid reports whether the payment contributes to the
// invoice's paid total. Pending and failed gateway attempts do not.
func (p *Payment) CountsTowardsPaid() bool {
	return p.Status == PaymentStatusSuccess
}
