package shared

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DomainError represents a domain-level error with a stable code
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes used across the domain
const (
	CodeNotFound          = "NOT_FOUND"
	CodeValidation        = "VALIDATION_ERROR"
	CodeConflict          = "CONFLICT"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeAccountNotFound   = "ACCOUNT_NOT_FOUND"
	CodeTaxRateNotFound   = "TAX_RATE_NOT_FOUND"
	CodeInvalidState      = "INVALID_STATE"
)

// Common domain errors
var (
	ErrNotFound     = NewDomainError(CodeNotFound, "Resource not found")
	ErrValidation   = NewDomainError(CodeValidation, "Invalid input provided")
	ErrConflict     = NewDomainError(CodeConflict, "Resource already exists")
	ErrInvalidState = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
)

// NewValidationError creates a validation error with a specific message
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewNotFoundError creates a not-found error naming the missing entity
func NewNotFoundError(entity string) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", entity))
}

// NewInsufficientStockError names the product and variant so an operator can
// act on the message, and reports available versus required quantities.
func NewInsufficientStockError(productName, variant string, available, required decimal.Decimal) *DomainError {
	name := productName
	if variant != "" {
		name = fmt.Sprintf("%s (%s)", productName, variant)
	}
	return NewDomainError(CodeInsufficientStock,
		fmt.Sprintf("Insufficient stock for %s: available %s, required %s",
			name, available.String(), required.String()))
}

// NewAccountNotFoundError indicates the chart of accounts is missing a
// required account. This is a company onboarding integrity problem, not a
// caller mistake.
func NewAccountNotFoundError(name string) *DomainError {
	return NewDomainError(CodeAccountNotFound,
		fmt.Sprintf("Account %q is not configured for this company", name))
}

// NewTaxRateNotFoundError indicates a referenced tax rate does not exist
func NewTaxRateNotFoundError() *DomainError {
	return NewDomainError(CodeTaxRateNotFound, "Tax rate not found")
}
