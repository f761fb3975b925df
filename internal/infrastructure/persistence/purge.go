package persistence

import (
	"context"

	"github.com/google/uuid"
	appcompany "github.com/retailops/backend/internal/application/company"
	"github.com/retailops/backend/internal/domain/accounting"
	"github.com/retailops/backend/internal/domain/billing"
	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/company"
	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/partner"
	"github.com/retailops/backend/internal/domain/pos"
	"gorm.io/gorm"
)

// GormTenantPurger deletes every row owned by a company in one transaction,
// children before parents so foreign keys never dangle mid-delete.
type GormTenantPurger struct {
	db *gorm.DB
}

// NewGormTenantPurger creates a new GormTenantPurger
func NewGormTenantPurger(db *gorm.DB) *GormTenantPurger {
	return &GormTenantPurger{db: db}
}

// Purge removes a tenant and all of its data
func (p *GormTenantPurger) Purge(ctx context.Context, companyID uuid.UUID) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scoped := []any{
			&pos.CartItem{},
			&pos.Cart{},
			&billing.Payment{},
			&billing.InvoiceTax{},
			&billing.InvoiceItem{},
			&billing.Invoice{},
			&accounting.JournalEntry{},
			&inventory.StockLedger{},
			&inventory.BranchItem{},
			&catalog.Item{},
			&catalog.Product{},
			&catalog.Category{},
			&accounting.TaxRate{},
			&accounting.Account{},
			&partner.Customer{},
			&partner.Vendor{},
			&company.Branch{},
		}
		for _, model := range scoped {
			if err := tx.Delete(model, "company_id = ?", companyID).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&company.Company{}, "id = ?", companyID).Error
	})
}

// Ensure GormTenantPurger implements TenantPurger
var _ appcompany.TenantPurger = (*GormTenantPurger)(nil)
