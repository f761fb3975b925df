package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/accounting"
	"github.com/retailops/backend/internal/domain/billing"
	"github.com/retailops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PaymentService records and deletes payments and keeps invoice status a
// pure derivation of the payment rows.
type PaymentService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(scope TransactionScope, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{scope: scope, logger: logger}
}

// CreatePayment records a payment in its own transaction
func (s *PaymentService) CreatePayment(ctx context.Context, input CreatePaymentInput) (*billing.Payment, error) {
	var payment *billing.Payment
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		created, err := s.CreatePaymentWith(ctx, repos, input)
		if err != nil {
			return err
		}
		payment = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("invoice_id", payment.InvoiceID.String()),
		zap.String("amount", payment.Amount.String()))
	return payment, nil
}

// CreatePaymentWith records a payment inside the caller's transaction:
// payment row, re-derived invoice status, and the cash-side journal pair.
func (s *PaymentService) CreatePaymentWith(ctx context.Context, repos Repositories, input CreatePaymentInput) (*billing.Payment, error) {
	invoice, err := repos.Invoices().FindByID(ctx, input.CompanyID, input.InvoiceID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Invoice")
		}
		return nil, err
	}

	payment, err := billing.NewPayment(input.CompanyID, invoice.ID, input.Amount, input.Method, input.ReferenceNo, input.Date)
	if err != nil {
		return nil, err
	}
	if err := repos.Payments().Save(ctx, payment); err != nil {
		return nil, err
	}

	if err := RecomputeInvoiceStatus(ctx, repos, input.CompanyID, invoice.ID); err != nil {
		return nil, err
	}
	if err := s.postPaymentEntries(ctx, repos, invoice, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// ListByInvoice returns all payments recorded against an invoice
func (s *PaymentService) ListByInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) ([]billing.Payment, error) {
	var payments []billing.Payment
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		if _, err := repos.Invoices().FindByID(ctx, companyID, invoiceID); err != nil {
			return err
		}
		rows, err := repos.Payments().FindByInvoice(ctx, companyID, invoiceID)
		if err != nil {
			return err
		}
		payments = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// DeletePayment removes a payment and re-derives the invoice status.
// Stock moved by the invoice is deliberately not reversed here.
func (s *PaymentService) DeletePayment(ctx context.Context, companyID, paymentID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos Repositories) error {
		payment, err := repos.Payments().FindByID(ctx, companyID, paymentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Payment")
			}
			return err
		}
		if err := repos.Payments().Delete(ctx, companyID, payment.ID); err != nil {
			return err
		}
		return RecomputeInvoiceStatus(ctx, repos, companyID, payment.InvoiceID)
	})
}

// RecomputeInvoiceStatus derives the invoice status from the current sum of
// its payments. Every path that changes payment rows calls this; status is
// never incremented in place.
func RecomputeInvoiceStatus(ctx context.Context, repos Repositories, companyID, invoiceID uuid.UUID) error {
	invoice, err := repos.Invoices().FindByID(ctx, companyID, invoiceID)
	if err != nil {
		return err
	}
	totalPaid, err := repos.Payments().SumForInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return err
	}
	invoice.ApplyPayments(totalPaid)
	return repos.Invoices().Save(ctx, invoice)
}

// postPaymentEntries posts the cash-side pair for a payment:
// sale invoices move cash in against receivables, purchase invoices settle
// payables out of cash.
func (s *PaymentService) postPaymentEntries(ctx context.Context, repos Repositories, invoice *billing.Invoice, payment *billing.Payment) error {
	resolver := accounting.NewAccountResolver(repos.Accounts(), invoice.CompanyID)
	cash, err := resolver.Resolve(ctx, accounting.AccountCash)
	if err != nil {
		return err
	}

	posting := accounting.NewPosting(invoice.CompanyID, payment.Date,
		"Payment for invoice "+invoice.InvoiceNumber, payment.ID.String())

	switch invoice.Type {
	case billing.InvoiceTypePurchase:
		payable, err := resolver.Resolve(ctx, accounting.AccountAccountsPayable)
		if err != nil {
			return err
		}
		posting.Debit(payable, payment.Amount).Credit(cash, payment.Amount)
	default:
		receivable, err := resolver.Resolve(ctx, accounting.AccountAccountsReceivable)
		if err != nil {
			return err
		}
		posting.Debit(cash, payment.Amount).Credit(receivable, payment.Amount)
	}

	entries, err := posting.Entries()
	if err != nil {
		return err
	}
	return repos.Journal().SaveAll(ctx, entries)
}
