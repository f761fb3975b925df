package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/accounting"
	"github.com/retailops/backend/internal/domain/billing"
	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceService composes sale and purchase invoices. Each create call is
// one atomic unit of work: invoice shell, lines, per-line tax rows, stock
// movements, finalized totals and balanced journal entries all commit or
// roll back together.
type InvoiceService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(scope TransactionScope, logger *zap.Logger) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{scope: scope, logger: logger}
}

// CreateSaleInvoice creates a sale invoice in its own transaction
func (s *InvoiceService) CreateSaleInvoice(ctx context.Context, input CreateSaleInvoiceInput) (*billing.Invoice, error) {
	var invoice *billing.Invoice
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		created, err := s.CreateSaleInvoiceWith(ctx, repos, input)
		if err != nil {
			return err
		}
		invoice = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Sale invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("total_amount", invoice.TotalAmount.String()),
		zap.String("tax_amount", invoice.TaxAmount.String()))
	return invoice, nil
}

// CreateSaleInvoiceWith creates a sale invoice inside the caller's
// transaction. The POS checkout uses this to combine invoice creation,
// payment and cart destruction in one unit of work.
func (s *InvoiceService) CreateSaleInvoiceWith(ctx context.Context, repos Repositories, input CreateSaleInvoiceInput) (*billing.Invoice, error) {
	if input.BranchID == nil || *input.BranchID == uuid.Nil {
		return nil, shared.NewValidationError("Branch ID is required for sale invoices")
	}
	if len(input.Items) == 0 {
		return nil, shared.NewValidationError("Invoice requires at least one line item")
	}

	// The shell is created first so the invoice id exists as the stock
	// ledger reference and line foreign key before totals are known.
	invoice, err := billing.NewInvoice(input.CompanyID, billing.InvoiceTypeSale,
		billing.NewInvoiceNumber(billing.InvoiceTypeSale, input.Date), input.Date, input.DueDate)
	if err != nil {
		return nil, err
	}
	invoice.BranchID = input.BranchID
	invoice.CustomerID = input.CustomerID
	if err := repos.Invoices().Save(ctx, invoice); err != nil {
		return nil, err
	}

	stock := StockServiceFor(repos)
	totalAmount := decimal.Zero
	totalTax := decimal.Zero

	for _, line := range input.Items {
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewValidationError("Line quantity must be positive")
		}
		item, err := repos.Items().FindByID(ctx, input.CompanyID, line.ItemID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewNotFoundError("Item")
			}
			return nil, err
		}

		price := line.Price
		if price.IsZero() {
			price = item.Price
		}
		lineTotal := line.Quantity.Mul(price)
		totalAmount = totalAmount.Add(lineTotal)

		taxRateID := line.TaxRateID
		if taxRateID == nil {
			taxRateID = item.TaxRateID
		}
		if taxRateID != nil {
			taxAmount, err := s.applyLineTax(ctx, repos, invoice, *taxRateID, lineTotal)
			if err != nil {
				return nil, err
			}
			totalTax = totalTax.Add(taxAmount)
		}

		invoiceItem := &billing.InvoiceItem{
			TenantEntity: shared.NewTenantEntity(input.CompanyID),
			InvoiceID:    invoice.ID,
			ItemID:       item.ID,
			ProductID:    item.ProductID,
			Quantity:     line.Quantity,
			Price:        price,
			TaxRateID:    taxRateID,
			Total:        lineTotal.Round(2),
		}
		if err := repos.Invoices().SaveItem(ctx, invoiceItem); err != nil {
			return nil, err
		}

		if _, err := stock.Adjust(ctx, inventory.Adjustment{
			CompanyID: input.CompanyID,
			BranchID:  *input.BranchID,
			ItemID:    item.ID,
			Type:      inventory.MovementSale,
			Quantity:  line.Quantity,
			Reference: invoice.ID.String(),
			Note:      "Sale invoice " + invoice.InvoiceNumber,
			ItemName:  item.DisplayName(),
			Defaults:  inventory.BranchItemDefaults{Price: item.Price},
		}); err != nil {
			return nil, err
		}
	}

	invoice.Finalize(totalAmount, totalTax)
	if err := repos.Invoices().Save(ctx, invoice); err != nil {
		return nil, err
	}

	if err := s.postSaleEntries(ctx, repos, invoice); err != nil {
		return nil, err
	}
	return repos.Invoices().FindByIDWithDetails(ctx, input.CompanyID, invoice.ID)
}

// GetInvoice loads an invoice with its lines, tax rows and payments
func (s *InvoiceService) GetInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) (*billing.Invoice, error) {
	var invoice *billing.Invoice
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		found, err := repos.Invoices().FindByIDWithDetails(ctx, companyID, invoiceID)
		if err != nil {
			return err
		}
		invoice = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// ListInvoices lists invoices of the given type. An empty type lists all.
func (s *InvoiceService) ListInvoices(ctx context.Context, companyID uuid.UUID, invoiceType billing.InvoiceType, filter shared.Filter) (*shared.Paginated[billing.Invoice], error) {
	var page *shared.Paginated[billing.Invoice]
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		rows, total, err := repos.Invoices().FindAll(ctx, companyID, invoiceType, filter)
		if err != nil {
			return err
		}
		p := shared.NewPaginated(rows, total, filter.Page, filter.Limit())
		page = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// CreatePurchaseInvoice creates a purchase invoice in its own transaction
func (s *InvoiceService) CreatePurchaseInvoice(ctx context.Context, input CreatePurchaseInvoiceInput) (*billing.Invoice, error) {
	var invoice *billing.Invoice
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		created, err := s.createPurchaseInvoice(ctx, repos, input)
		if err != nil {
			return err
		}
		invoice = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Purchase invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("total_amount", invoice.TotalAmount.String()))
	return invoice, nil
}

func (s *InvoiceService) createPurchaseInvoice(ctx context.Context, repos Repositories, input CreatePurchaseInvoiceInput) (*billing.Invoice, error) {
	if input.BranchID == nil || *input.BranchID == uuid.Nil {
		return nil, shared.NewValidationError("Branch ID is required for purchase invoices")
	}
	if len(input.Items) == 0 {
		return nil, shared.NewValidationError("Invoice requires at least one line item")
	}

	invoice, err := billing.NewInvoice(input.CompanyID, billing.InvoiceTypePurchase,
		billing.NewInvoiceNumber(billing.InvoiceTypePurchase, input.Date), input.Date, input.DueDate)
	if err != nil {
		return nil, err
	}
	invoice.BranchID = input.BranchID
	invoice.VendorID = input.VendorID
	if err := repos.Invoices().Save(ctx, invoice); err != nil {
		return nil, err
	}

	stock := StockServiceFor(repos)
	totalAmount := decimal.Zero
	totalTax := decimal.Zero

	for _, line := range input.Items {
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewValidationError("Line quantity must be positive")
		}
		item, err := s.resolvePurchaseLineItem(ctx, repos, input.CompanyID, line)
		if err != nil {
			return nil, err
		}

		lineTotal := line.Quantity.Mul(line.Price)
		totalAmount = totalAmount.Add(lineTotal)

		if line.TaxRateID != nil {
			taxAmount, err := s.applyLineTax(ctx, repos, invoice, *line.TaxRateID, lineTotal)
			if err != nil {
				return nil, err
			}
			totalTax = totalTax.Add(taxAmount)
		}

		invoiceItem := &billing.InvoiceItem{
			TenantEntity: shared.NewTenantEntity(input.CompanyID),
			InvoiceID:    invoice.ID,
			ItemID:       item.ID,
			ProductID:    item.ProductID,
			Quantity:     line.Quantity,
			Price:        line.Price,
			TaxRateID:    line.TaxRateID,
			Total:        lineTotal.Round(2),
		}
		if err := repos.Invoices().SaveItem(ctx, invoiceItem); err != nil {
			return nil, err
		}

		// Purchase intake increments stock in the same transaction,
		// mirroring the sale-side decrement.
		if _, err := stock.Adjust(ctx, inventory.Adjustment{
			CompanyID: input.CompanyID,
			BranchID:  *input.BranchID,
			ItemID:    item.ID,
			Type:      inventory.MovementPurchase,
			Quantity:  line.Quantity,
			Reference: invoice.ID.String(),
			Note:      "Purchase invoice " + invoice.InvoiceNumber,
			ItemName:  item.DisplayName(),
			Defaults:  inventory.BranchItemDefaults{Price: item.Price},
		}); err != nil {
			return nil, err
		}
	}

	invoice.Finalize(totalAmount, totalTax)
	if err := repos.Invoices().Save(ctx, invoice); err != nil {
		return nil, err
	}

	if err := s.postPurchaseEntries(ctx, repos, invoice); err != nil {
		return nil, err
	}
	return repos.Invoices().FindByIDWithDetails(ctx, input.CompanyID, invoice.ID)
}

// resolvePurchaseLineItem finds or creates the catalog item a purchase line
// refers to. A line may name an existing item, request a new variant under
// an existing product, or carry full product data for a brand new product.
func (s *InvoiceService) resolvePurchaseLineItem(ctx context.Context, repos Repositories, companyID uuid.UUID, line PurchaseInvoiceLine) (*catalog.Item, error) {
	switch {
	case line.ItemID != nil:
		item, err := repos.Items().FindByID(ctx, companyID, *line.ItemID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewNotFoundError("Item")
			}
			return nil, err
		}
		return item, nil

	case line.ProductID != nil:
		product, err := repos.Products().FindByID(ctx, companyID, *line.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewNotFoundError("Product")
			}
			return nil, err
		}
		variant := ""
		if line.ProductData != nil {
			variant = line.ProductData.Variant
		}
		item, err := catalog.NewItem(companyID, product.ID, variant, product.SKU, line.Price, line.TaxRateID)
		if err != nil {
			return nil, err
		}
		if err := repos.Items().Save(ctx, item); err != nil {
			return nil, err
		}
		item.Product = product
		return item, nil

	case line.ProductData != nil:
		data := line.ProductData
		product, err := catalog.NewProduct(companyID, data.Name, data.SKU, data.Description, data.CategoryID, data.SubCategoryID)
		if err != nil {
			return nil, err
		}
		if err := repos.Products().Save(ctx, product); err != nil {
			return nil, err
		}
		price := data.Price
		if price.IsZero() {
			price = line.Price
		}
		item, err := catalog.NewItem(companyID, product.ID, data.Variant, data.SKU, price, line.TaxRateID)
		if err != nil {
			return nil, err
		}
		if err := repos.Items().Save(ctx, item); err != nil {
			return nil, err
		}
		item.Product = product
		return item, nil

	default:
		return nil, shared.NewValidationError("Purchase line requires itemId, productId or productData")
	}
}

// applyLineTax looks up the tax rate, writes the per-line tax row and
// returns the unrounded tax amount for accumulation.
func (s *InvoiceService) applyLineTax(ctx context.Context, repos Repositories, invoice *billing.Invoice, taxRateID uuid.UUID, lineTotal decimal.Decimal) (decimal.Decimal, error) {
	rate, err := repos.TaxRates().FindByID(ctx, invoice.CompanyID, taxRateID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return decimal.Zero, shared.NewTaxRateNotFoundError()
		}
		return decimal.Zero, err
	}
	taxAmount := rate.AmountOn(lineTotal)
	invoiceTax := &billing.InvoiceTax{
		TenantEntity: shared.NewTenantEntity(invoice.CompanyID),
		InvoiceID:    invoice.ID,
		TaxRateID:    rate.ID,
		InvoiceType:  invoice.Type,
		Amount:       taxAmount.Round(2),
	}
	if err := repos.Invoices().SaveTax(ctx, invoiceTax); err != nil {
		return decimal.Zero, err
	}
	return taxAmount, nil
}

// postSaleEntries posts the balanced sale-side journal:
// Debit Accounts Receivable, Credit Sales Revenue, Credit Tax Payable.
// Posted from the finalized rounded totals so the legs sum exactly.
func (s *InvoiceService) postSaleEntries(ctx context.Context, repos Repositories, invoice *billing.Invoice) error {
	resolver := accounting.NewAccountResolver(repos.Accounts(), invoice.CompanyID)
	receivable, err := resolver.Resolve(ctx, accounting.AccountAccountsReceivable)
	if err != nil {
		return err
	}
	revenue, err := resolver.Resolve(ctx, accounting.AccountSalesRevenue)
	if err != nil {
		return err
	}

	posting := accounting.NewPosting(invoice.CompanyID, invoice.Date,
		"Sale invoice "+invoice.InvoiceNumber, invoice.ID.String()).
		Debit(receivable, invoice.TotalAmount.Add(invoice.TaxAmount)).
		Credit(revenue, invoice.TotalAmount)

	if invoice.TaxAmount.IsPositive() {
		taxPayable, err := resolver.Resolve(ctx, accounting.AccountTaxPayable)
		if err != nil {
			return err
		}
		posting.Credit(taxPayable, invoice.TaxAmount)
	}

	entries, err := posting.Entries()
	if err != nil {
		return err
	}
	return repos.Journal().SaveAll(ctx, entries)
}

// postPurchaseEntries mirrors the sale posting with roles reversed:
// Debit Purchases and Tax Receivable, Credit Accounts Payable.
func (s *InvoiceService) postPurchaseEntries(ctx context.Context, repos Repositories, invoice *billing.Invoice) error {
	resolver := accounting.NewAccountResolver(repos.Accounts(), invoice.CompanyID)
	purchases, err := resolver.Resolve(ctx, accounting.AccountPurchases)
	if err != nil {
		return err
	}
	payable, err := resolver.Resolve(ctx, accounting.AccountAccountsPayable)
	if err != nil {
		return err
	}

	posting := accounting.NewPosting(invoice.CompanyID, invoice.Date,
		"Purchase invoice "+invoice.InvoiceNumber, invoice.ID.String()).
		Debit(purchases, invoice.TotalAmount).
		Credit(payable, invoice.TotalAmount.Add(invoice.TaxAmount))

	if invoice.TaxAmount.IsPositive() {
		taxReceivable, err := resolver.Resolve(ctx, accounting.AccountTaxReceivable)
		if err != nil {
			return err
		}
		posting.Debit(taxReceivable, invoice.TaxAmount)
	}

	entries, err := posting.Entries()
	if err != nil {
		return err
	}
	return repos.Journal().SaveAll(ctx, entries)
}
