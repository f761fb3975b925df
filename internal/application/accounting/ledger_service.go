package accounting

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	appbilling "github.com/retailops/backend/internal/application/billing"
	"github.com/retailops/backend/internal/domain/accounting"
	"github.com/retailops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AccountLedger is the posting history of one account
type AccountLedger struct {
	Account *accounting.Account                       `json:"account"`
	Entries shared.Paginated[accounting.JournalEntry] `json:"entries"`
}

// LedgerService exposes read-side views over the journal: per-account
// ledgers and the trial balance. The journal itself is only written through
// the invoice and payment pipelines.
type LedgerService struct {
	scope  appbilling.TransactionScope
	logger *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(scope appbilling.TransactionScope, logger *zap.Logger) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{scope: scope, logger: logger}
}

// ListAccounts returns the company's chart of accounts
func (s *LedgerService) ListAccounts(ctx context.Context, companyID uuid.UUID) ([]accounting.Account, error) {
	var accounts []accounting.Account
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		found, err := repos.Accounts().FindAll(ctx, companyID)
		if err != nil {
			return err
		}
		accounts = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetAccountLedger returns an account with a page of its journal entries
func (s *LedgerService) GetAccountLedger(ctx context.Context, companyID, accountID uuid.UUID, filter shared.Filter) (*AccountLedger, error) {
	var ledger *AccountLedger
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		account, err := repos.Accounts().FindByID(ctx, companyID, accountID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Account")
			}
			return err
		}
		entries, total, err := repos.Journal().FindByAccount(ctx, companyID, accountID, filter)
		if err != nil {
			return err
		}
		ledger = &AccountLedger{
			Account: account,
			Entries: shared.NewPaginated(entries, total, filter.Page, filter.Limit()),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ledger, nil
}

// GetEntriesByReference returns every journal entry posted under a reference,
// typically an invoice or payment id.
func (s *LedgerService) GetEntriesByReference(ctx context.Context, companyID uuid.UUID, reference string) ([]accounting.JournalEntry, error) {
	if reference == "" {
		return nil, shared.NewValidationError("Reference cannot be empty")
	}
	var entries []accounting.JournalEntry
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		found, err := repos.Journal().FindByReference(ctx, companyID, reference)
		if err != nil {
			return err
		}
		entries = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// GetTrialBalance aggregates journal entries per account over a period.
// Zero from/to mean an unbounded range end.
func (s *LedgerService) GetTrialBalance(ctx context.Context, companyID uuid.UUID, from, to time.Time) (*accounting.TrialBalance, error) {
	var tb *accounting.TrialBalance
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		accounts, err := repos.Accounts().FindAll(ctx, companyID)
		if err != nil {
			return err
		}
		sums, err := repos.Journal().SumByAccount(ctx, companyID, from, to)
		if err != nil {
			return err
		}
		tb = accounting.BuildTrialBalance(accounts, sums)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !tb.IsBalanced() {
		s.logger.Error("Trial balance out of balance",
			zap.String("company_id", companyID.String()),
			zap.String("total_debit", tb.TotalDebit.String()),
			zap.String("total_credit", tb.TotalCredit.String()))
	}
	return tb, nil
}
