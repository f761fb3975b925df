package billing

import (
	"context"

	"github.com/retailops/backend/internal/domain/accounting"
	"github.com/retailops/backend/internal/domain/billing"
	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/company"
	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/partner"
	"github.com/retailops/backend/internal/domain/pos"
)

// TransactionScope runs a function against transaction-scoped repositories.
// Every multi-row mutation in the invoice/payment/cart pipelines executes
// inside exactly one Execute call: an error from fn rolls back every write
// performed so far, including already created invoice, line and stock rows.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories exposes every repository the transactional core touches,
// all bound to the same unit of work.
type Repositories interface {
	Companies() company.Repository
	Branches() company.BranchRepository
	Accounts() accounting.AccountRepository
	Journal() accounting.JournalEntryRepository
	TaxRates() accounting.TaxRateRepository
	Invoices() billing.InvoiceRepository
	Payments() billing.PaymentRepository
	BranchItems() inventory.BranchItemRepository
	StockLedger() inventory.StockLedgerRepository
	Categories() catalog.CategoryRepository
	Products() catalog.ProductRepository
	Items() catalog.ItemRepository
	Carts() pos.CartRepository
	Customers() partner.CustomerRepository
	Vendors() partner.VendorRepository

	// Atomic runs fn inside a nested unit of work (a savepoint on SQL
	// backends). A failure inside fn rolls back only fn's writes and
	// leaves the enclosing transaction usable, which is what lets a
	// losing concurrent insert recover instead of poisoning the whole
	// transaction.
	Atomic(fn func(repos Repositories) error) error
}

// StockServiceFor builds the stock ledger engine over the scope's
// transaction-bound repositories.
func StockServiceFor(repos Repositories) *inventory.StockService {
	return inventory.NewStockService(repos.BranchItems(), repos.StockLedger())
}
