package company

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
)

// Company is the tenant root. Every other entity in the system carries its
// CompanyID. Created once at onboarding; the ID is immutable.
type Company struct {
	shared.BaseEntity
	Name     string `gorm:"not null;uniqueIndex" json:"name"`
	Email    string `gorm:"index" json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Currency string `gorm:"not null;default:'INR'" json:"currency"`
}

// TableName returns the table name for GORM
func (Company) TableName() string {
	return "companies"
}

// NewCompany creates a new company
func NewCompany(name, email, phone, address string) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Company name cannot be empty")
	}
	return &Company{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      email,
		Phone:      phone,
		Address:    address,
		Currency:   "INR",
	}, nil
}

// Branch is a physical or logical sub-unit of a company. Exactly one branch
// per company is flagged as MAIN; it is created during onboarding.
type Branch struct {
	shared.TenantEntity
	Name    string `gorm:"not null" json:"name"`
	Address string `json:"address"`
	IsMain  bool   `gorm:"not null;default:false" json:"isMain"`
}

// TableName returns the table name for GORM
func (Branch) TableName() string {
	return "branches"
}

// NewBranch creates a new branch for a company
func NewBranch(companyID uuid.UUID, name, address string, isMain bool) (*Branch, error) {
	name = strings.TrimSpace(name)
	if companyID == uuid.Nil {
		return nil, shared.NewValidationError("Company ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("Branch name cannot be empty")
	}
	return &Branch{
		TenantEntity: shared.NewTenantEntity(companyID),
		Name:         name,
		Address:      address,
		IsMain:       isMain,
	}, nil
}

// Repository is the persistence boundary for companies
type Repository interface {
	Save(ctx context.Context, company *Company) error
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Company, int64, error)
}

// BranchRepository is the persistence boundary for branches
type BranchRepository interface {
	Save(ctx context.Context, branch *Branch) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Branch, error)
	FindMain(ctx context.Context, companyID uuid.UUID) (*Branch, error)
	FindAll(ctx context.Context, companyID uuid.UUID) ([]Branch, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}
