package persistence

import (
	"context"

	appbilling "github.com/retailops/backend/internal/application/billing"
	"github.com/retailops/backend/internal/domain/accounting"
	"github.com/retailops/backend/internal/domain/billing"
	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/company"
	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/partner"
	"github.com/retailops/backend/internal/domain/pos"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepositories{tx: tx})
	})
}

// gormRepositories provides access to all repositories within a transaction
type gormRepositories struct {
	tx *gorm.DB
}

func (r *gormRepositories) Companies() company.Repository {
	return NewGormCompanyRepository(r.tx)
}

func (r *gormRepositories) Branches() company.BranchRepository {
	return NewGormBranchRepository(r.tx)
}

func (r *gormRepositories) Accounts() accounting.AccountRepository {
	return NewGormAccountRepository(r.tx)
}

func (r *gormRepositories) Journal() accounting.JournalEntryRepository {
	return NewGormJournalEntryRepository(r.tx)
}

func (r *gormRepositories) TaxRates() accounting.TaxRateRepository {
	return NewGormTaxRateRepository(r.tx)
}

func (r *gormRepositories) Invoices() billing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *gormRepositories) Payments() billing.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

func (r *gormRepositories) BranchItems() inventory.BranchItemRepository {
	return NewGormBranchItemRepository(r.tx)
}

func (r *gormRepositories) StockLedger() inventory.StockLedgerRepository {
	return NewGormStockLedgerRepository(r.tx)
}

func (r *gormRepositories) Categories() catalog.CategoryRepository {
	return NewGormCategoryRepository(r.tx)
}

func (r *gormRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormRepositories) Items() catalog.ItemRepository {
	return NewGormItemRepository(r.tx)
}

func (r *gormRepositories) Carts() pos.CartRepository {
	return NewGormCartRepository(r.tx)
}

func (r *gormRepositories) Customers() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

func (r *gormRepositories) Vendors() partner.VendorRepository {
	return NewGormVendorRepository(r.tx)
}

// Atomic opens a nested transaction. GORM issues a savepoint when the
// receiver is already transactional, so a unique violation inside fn
// aborts only the savepoint and the outer transaction stays live.
func (r *gormRepositories) Atomic(fn func(repos appbilling.Repositories) error) error {
	return r.tx.Transaction(func(nested *gorm.DB) error {
		return fn(&gormRepositories{tx: nested})
	})
}

// Ensure interfaces are implemented
var (
	_ appbilling.TransactionScope = (*GormTransactionScope)(nil)
	_ appbilling.Repositories     = (*gormRepositories)(nil)
)
