package accounting

import (
	"strings"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TaxRate is a company-scoped percentage applied per invoice line,
// never per invoice total.
type TaxRate struct {
	shared.TenantEntity
	Name      string          `gorm:"not null" json:"name"`
	Rate      decimal.Decimal `gorm:"type:decimal(7,4);not null" json:"rate"`
	Type      string          `gorm:"not null;default:'GST'" json:"type"`
	IsDefault bool            `gorm:"not null;default:false" json:"isDefault"`
}

// TableName returns the table name for GORM
func (TaxRate) TableName() string {
	return "tax_rates"
}

// NewTaxRate creates a new tax rate for a company
func NewTaxRate(companyID uuid.UUID, name string, rate decimal.Decimal, taxType string, isDefault bool) (*TaxRate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Tax rate name cannot be empty")
	}
	if rate.IsNegative() {
		return nil, shared.NewValidationError("Tax rate cannot be negative")
	}
	if taxType == "" {
		taxType = "GST"
	}
	return &TaxRate{
		TenantEntity: shared.NewTenantEntity(companyID),
		Name:         name,
		Rate:         rate,
		Type:         taxType,
		IsDefault:    isDefault,
	}, nil
}

// Rename changes the tax rate's display name
func (t *TaxRate) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("Tax rate name cannot be empty")
	}
	t.Name = name
	return nil
}

// SetRate replaces the percentage. Existing invoice tax rows keep the rate
// they captured at invoicing time.
func (t *TaxRate) SetRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return shared.NewValidationError("Tax rate cannot be negative")
	}
	t.Rate = rate
	return nil
}

// AmountOn computes the tax on a line total at full precision.
// Rounding happens only when the amount is persisted.
func (t *TaxRate) AmountOn(lineTotal decimal.Decimal) decimal.Decimal {
	return lineTotal.Mul(t.Rate).Div(decimal.NewFromInt(100))
}
