package accounting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AccountRepository is the persistence boundary for the chart of accounts
type AccountRepository interface {
	Save(ctx context.Context, account *Account) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Account, error)
	// FindByName matches {companyID, name} exactly
	FindByName(ctx context.Context, companyID uuid.UUID, name string) (*Account, error)
	FindAll(ctx context.Context, companyID uuid.UUID) ([]Account, error)
	SaveAll(ctx context.Context, accounts []Account) error
}

// JournalEntryRepository is the persistence boundary for journal entries.
// Entries are append-only.
type JournalEntryRepository interface {
	SaveAll(ctx context.Context, entries []JournalEntry) error
	FindByAccount(ctx context.Context, companyID, accountID uuid.UUID, filter shared.Filter) ([]JournalEntry, int64, error)
	FindByReference(ctx context.Context, companyID uuid.UUID, reference string) ([]JournalEntry, error)
	// SumByAccount returns total debit and total credit per account over the
	// given period. Zero times mean an unbounded range end.
	SumByAccount(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]AccountSum, error)
}

// AccountSum is an aggregate row used by the trial balance
type AccountSum struct {
	AccountID   uuid.UUID
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// TaxRateRepository is the persistence boundary for tax rates
type TaxRateRepository interface {
	Save(ctx context.Context, rate *TaxRate) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*TaxRate, error)
	FindAll(ctx context.Context, companyID uuid.UUID) ([]TaxRate, error)
	FindDefault(ctx context.Context, companyID uuid.UUID) (*TaxRate, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}
