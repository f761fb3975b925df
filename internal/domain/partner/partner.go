package partner

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
)

// Customer is a buyer for sale invoices. Walk-in POS customers are created
// ephemeral and removed when their cart is finished.
type Customer struct {
	shared.TenantEntity
	Name      string `gorm:"not null;index" json:"name"`
	Phone     string `gorm:"index" json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	Ephemeral bool   `gorm:"not null;default:false" json:"ephemeral"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer for a company
func NewCustomer(companyID uuid.UUID, name, phone, email, address string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Customer name cannot be empty")
	}
	return &Customer{
		TenantEntity: shared.NewTenantEntity(companyID),
		Name:         name,
		Phone:        phone,
		Email:        email,
		Address:      address,
	}, nil
}

// NewWalkInCustomer creates an ephemeral customer for POS walk-in flows
func NewWalkInCustomer(companyID uuid.UUID, name string) *Customer {
	if strings.TrimSpace(name) == "" {
		name = "Walk-in Customer"
	}
	c := &Customer{
		TenantEntity: shared.NewTenantEntity(companyID),
		Name:         name,
		Ephemeral:    true,
	}
	return c
}

// Vendor is a supplier for purchase invoices
type Vendor struct {
	shared.TenantEntity
	Name    string `gorm:"not null;index" json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	GSTIN   string `gorm:"column:gstin" json:"gstin"`
}

// TableName returns the table name for GORM
func (Vendor) TableName() string {
	return "vendors"
}

// NewVendor creates a new vendor for a company
func NewVendor(companyID uuid.UUID, name, phone, email, address, gstin string) (*Vendor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Vendor name cannot be empty")
	}
	return &Vendor{
		TenantEntity: shared.NewTenantEntity(companyID),
		Name:         name,
		Phone:        phone,
		Email:        email,
		Address:      address,
		GSTIN:        gstin,
	}, nil
}

// CustomerRepository is the persistence boundary for customers
type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Customer, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Customer, int64, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

// VendorRepository is the persistence boundary for vendors
type VendorRepository interface {
	Save(ctx context.Context, vendor *Vendor) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Vendor, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Vendor, int64, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}
