package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// SaleInvoiceLine is one requested line of a sale invoice
type SaleInvoiceLine struct {
	ItemID    uuid.UUID       `json:"itemId"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	TaxRateID *uuid.UUID      `json:"taxRateId,omitempty"`
}

// CreateSaleInvoiceInput is the request for creating a sale invoice
type CreateSaleInvoiceInput struct {
	CompanyID  uuid.UUID         `json:"companyId"`
	BranchID   *uuid.UUID        `json:"branchId"`
	CustomerID *uuid.UUID        `json:"customerId,omitempty"`
	Date       time.Time         `json:"date"`
	DueDate    *time.Time        `json:"dueDate,omitempty"`
	Items      []SaleInvoiceLine `json:"items"`
}

// ProductData describes a product created on the fly during purchase intake
type ProductData struct {
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Description   string          `json:"description"`
	CategoryID    *uuid.UUID      `json:"categoryId,omitempty"`
	SubCategoryID *uuid.UUID      `json:"subCategoryId,omitempty"`
	Variant       string          `json:"variant"`
	Price         decimal.Decimal `json:"price"`
}

// PurchaseInvoiceLine is one requested line of a purchase invoice.
// Exactly one of ItemID, ProductID or ProductData identifies the goods:
// an existing item, a new variant under an existing product, or a brand new
// product with its first variant.
type PurchaseInvoiceLine struct {
	ItemID      *uuid.UUID      `json:"itemId,omitempty"`
	ProductID   *uuid.UUID      `json:"productId,omitempty"`
	ProductData *ProductData    `json:"productData,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	TaxRateID   *uuid.UUID      `json:"taxRateId,omitempty"`
	Location    string          `json:"location,omitempty"`
}

// CreatePurchaseInvoiceInput is the request for creating a purchase invoice
type CreatePurchaseInvoiceInput struct {
	CompanyID uuid.UUID             `json:"companyId"`
	BranchID  *uuid.UUID            `json:"branchId"`
	VendorID  *uuid.UUID            `json:"vendorId,omitempty"`
	Date      time.Time             `json:"date"`
	DueDate   *time.Time            `json:"dueDate,omitempty"`
	Items     []PurchaseInvoiceLine `json:"items"`
}

// CreatePaymentInput is the request for recording a direct payment
type CreatePaymentInput struct {
	CompanyID   uuid.UUID       `json:"companyId"`
	InvoiceID   uuid.UUID       `json:"invoiceId"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	ReferenceNo string          `json:"referenceNo,omitempty"`
	Date        time.Time       `json:"date,omitempty"`
}

// CallbackInput is the payload of a payment gateway webhook
type CallbackInput struct {
	CompanyID   uuid.UUID             `json:"companyId"`
	PaymentID   string                `json:"paymentId"`
	InvoiceID   uuid.UUID             `json:"invoiceId"`
	Status      billing.PaymentStatus `json:"status"`
	Amount      decimal.Decimal       `json:"amount"`
	Gateway     string                `json:"gateway"`
	RawResponse string                `json:"rawResponse,omitempty"`
}

// CallbackResult is the structured reply for a webhook delivery.
// Duplicate deliveries return the first delivery's result.
type CallbackResult struct {
	Message   string    `json:"message"`
	InvoiceID uuid.UUID `json:"invoiceId"`
	PaymentID uuid.UUID `json:"paymentId"`
	Duplicate bool      `json:"duplicate,omitempty"`
}
