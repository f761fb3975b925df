package accounting

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// JournalEntry is one side (debit or credit) of a double-entry posting.
// Entries are immutable; they are never updated or deleted except by an
// explicit reversal entry.
type JournalEntry struct {
	shared.TenantEntity
	AccountID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"accountId"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"debit"`
	Credit      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"credit"`
	Reference   string          `gorm:"index" json:"reference"`
}

// TableName returns the table name for GORM
func (JournalEntry) TableName() string {
	return "journal_entries"
}

// Posting collects the journal entries of one business operation and
// enforces the double-entry invariant before they are persisted.
type Posting struct {
	companyID   uuid.UUID
	date        time.Time
	description string
	reference   string
	entries     []JournalEntry
}

// NewPosting starts a posting for one operation. All entries share the
// company, date, description and reference.
func NewPosting(companyID uuid.UUID, date time.Time, description, reference string) *Posting {
	return &Posting{
		companyID:   companyID,
		date:        date,
		description: description,
		reference:   reference,
	}
}

// Debit adds a debit entry. Zero amounts are skipped so callers can pass
// optional legs (e.g. a zero tax amount) without branching.
func (p *Posting) Debit(accountID uuid.UUID, amount decimal.Decimal) *Posting {
	if amount.IsZero() {
		return p
	}
	p.entries = append(p.entries, p.entry(accountID, amount.Round(2), decimal.Zero))
	return p
}

// Credit adds a credit entry, skipping zero amounts
func (p *Posting) Credit(accountID uuid.UUID, amount decimal.Decimal) *Posting {
	if amount.IsZero() {
		return p
	}
	p.entries = append(p.entries, p.entry(accountID, decimal.Zero, amount.Round(2)))
	return p
}

func (p *Posting) entry(accountID uuid.UUID, debit, credit decimal.Decimal) JournalEntry {
	return JournalEntry{
		TenantEntity: shared.NewTenantEntity(p.companyID),
		AccountID:    accountID,
		Date:         p.date,
		Description:  p.description,
		Debit:        debit,
		Credit:       credit,
		Reference:    p.reference,
	}
}

// TotalDebit returns the sum of all debit legs
func (p *Posting) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, e := range p.entries {
		total = total.Add(e.Debit)
	}
	return total
}

// TotalCredit returns the sum of all credit legs
func (p *Posting) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, e := range p.entries {
		total = total.Add(e.Credit)
	}
	return total
}

// IsBalanced reports whether total debits equal total credits
func (p *Posting) IsBalanced() bool {
	return p.TotalDebit().Equal(p.TotalCredit())
}

// Entries validates the double-entry invariant and returns the entries.
// An unbalanced posting is a programming error in the caller; it must never
// reach the journal.
func (p *Posting) Entries() ([]JournalEntry, error) {
	if len(p.entries) == 0 {
		return nil, shared.NewValidationError("Posting has no journal entries")
	}
	if !p.IsBalanced() {
		return nil, shared.NewDomainError(shared.CodeInvalidState,
			"Unbalanced posting: debit "+p.TotalDebit().String()+" != credit "+p.TotalCredit().String())
	}
	return p.entries, nil
}
