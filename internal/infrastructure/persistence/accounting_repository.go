package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/accounting"
	"github.com/retailops/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAccountRepository implements accounting.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, account *accounting.Account) error {
	return translateError(r.db.WithContext(ctx).Save(account).Error)
}

// SaveAll creates or updates accounts in one statement
func (r *GormAccountRepository) SaveAll(ctx context.Context, accounts []accounting.Account) error {
	if len(accounts) == 0 {
		return nil
	}
	return translateError(r.db.WithContext(ctx).Save(&accounts).Error)
}

// FindByID finds an account within a company
func (r *GormAccountRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*accounting.Account, error) {
	var account accounting.Account
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindByName matches {companyID, name} exactly
func (r *GormAccountRepository) FindByName(ctx context.Context, companyID uuid.UUID, name string) (*accounting.Account, error) {
	var account accounting.Account
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND name = ?", companyID, name).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindAll finds all accounts of a company ordered by code
func (r *GormAccountRepository) FindAll(ctx context.Context, companyID uuid.UUID) ([]accounting.Account, error) {
	var accounts []accounting.Account
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("code ASC").
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// GormJournalEntryRepository implements accounting.JournalEntryRepository
// using GORM. Entries are append-only; there is no update or delete path.
type GormJournalEntryRepository struct {
	db *gorm.DB
}

// NewGormJournalEntryRepository creates a new GormJournalEntryRepository
func NewGormJournalEntryRepository(db *gorm.DB) *GormJournalEntryRepository {
	return &GormJournalEntryRepository{db: db}
}

// SaveAll inserts journal entries in one statement
func (r *GormJournalEntryRepository) SaveAll(ctx context.Context, entries []accounting.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return translateError(r.db.WithContext(ctx).Create(&entries).Error)
}

// FindByAccount finds entries for an account, newest first
func (r *GormJournalEntryRepository) FindByAccount(ctx context.Context, companyID, accountID uuid.UUID, filter shared.Filter) ([]accounting.JournalEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&accounting.JournalEntry{}).
		Where("company_id = ? AND account_id = ?", companyID, accountID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []accounting.JournalEntry
	if err := query.Order("date DESC, created_at DESC").
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// FindByReference finds all entries posted under a reference
func (r *GormJournalEntryRepository) FindByReference(ctx context.Context, companyID uuid.UUID, reference string) ([]accounting.JournalEntry, error) {
	var entries []accounting.JournalEntry
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND reference = ?", companyID, reference).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// SumByAccount returns total debit and credit per account over the period.
// Zero times mean an unbounded range end.
func (r *GormJournalEntryRepository) SumByAccount(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]accounting.AccountSum, error) {
	query := r.db.WithContext(ctx).Model(&accounting.JournalEntry{}).
		Select("account_id, COALESCE(SUM(debit), 0) AS total_debit, COALESCE(SUM(credit), 0) AS total_credit").
		Where("company_id = ?", companyID)
	if !from.IsZero() {
		query = query.Where("date >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("date <= ?", to)
	}

	var sums []accounting.AccountSum
	if err := query.Group("account_id").Scan(&sums).Error; err != nil {
		return nil, err
	}
	return sums, nil
}

// GormTaxRateRepository implements accounting.TaxRateRepository using GORM
type GormTaxRateRepository struct {
	db *gorm.DB
}

// NewGormTaxRateRepository creates a new GormTaxRateRepository
func NewGormTaxRateRepository(db *gorm.DB) *GormTaxRateRepository {
	return &GormTaxRateRepository{db: db}
}

// Save creates or updates a tax rate
func (r *GormTaxRateRepository) Save(ctx context.Context, rate *accounting.TaxRate) error {
	return translateError(r.db.WithContext(ctx).Save(rate).Error)
}

// FindByID finds a tax rate within a company
func (r *GormTaxRateRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*accounting.TaxRate, error) {
	var rate accounting.TaxRate
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rate, nil
}

// FindAll finds all tax rates of a company
func (r *GormTaxRateRepository) FindAll(ctx context.Context, companyID uuid.UUID) ([]accounting.TaxRate, error) {
	var rates []accounting.TaxRate
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("rate ASC").
		Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

// FindDefault finds the company's default tax rate
func (r *GormTaxRateRepository) FindDefault(ctx context.Context, companyID uuid.UUID) (*accounting.TaxRate, error) {
	var rate accounting.TaxRate
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND is_default = ?", companyID, true).
		First(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rate, nil
}

// Delete deletes a tax rate
func (r *GormTaxRateRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&accounting.TaxRate{}, "company_id = ? AND id = ?", companyID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure interfaces are implemented
var (
	_ accounting.AccountRepository      = (*GormAccountRepository)(nil)
	_ accounting.JournalEntryRepository = (*GormJournalEntryRepository)(nil)
	_ accounting.TaxRateRepository      = (*GormTaxRateRepository)(nil)
)
