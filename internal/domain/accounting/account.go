package accounting

import (
	"strings"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
)

// AccountType classifies a chart-of-accounts row
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeIncome    AccountType = "INCOME"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// IsValid checks if the type is a known AccountType
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeIncome, AccountTypeExpense:
		return true
	}
	return false
}

// Well-known account names resolved by the invoice and payment pipelines.
// Company onboarding seeds all of them; a miss at posting time is an
// integrity error, not a caller mistake.
const (
	AccountCash               = "Cash"
	AccountSalesRevenue       = "Sales Revenue"
	AccountAccountsReceivable = "Accounts Receivable"
	AccountTaxPayable         = "Tax Payable"
	AccountPurchases          = "Purchases"
	AccountTaxReceivable      = "Tax Receivable"
	AccountAccountsPayable    = "Accounts Payable"
)

// Account is a chart-of-accounts row. Its balance is never stored; it is
// derived as sum(debit) - sum(credit) over its journal entries.
type Account struct {
	shared.TenantEntity
	Name     string      `gorm:"not null;uniqueIndex:idx_accounts_company_name,priority:2" json:"name"`
	Type     AccountType `gorm:"not null" json:"type"`
	Code     string      `gorm:"index" json:"code"`
	ParentID *uuid.UUID  `gorm:"type:uuid;index" json:"parentId,omitempty"`
}

// TableName returns the table name for GORM
func (Account) TableName() string {
	return "accounts"
}

// NewAccount creates a new account for a company
func NewAccount(companyID uuid.UUID, name string, accountType AccountType, code string, parentID *uuid.UUID) (*Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Account name cannot be empty")
	}
	if !accountType.IsValid() {
		return nil, shared.NewValidationError("Invalid account type: " + string(accountType))
	}
	return &Account{
		TenantEntity: shared.NewTenantEntity(companyID),
		Name:         name,
		Type:         accountType,
		Code:         code,
		ParentID:     parentID,
	}, nil
}

// DefaultChart returns the account set seeded at company onboarding.
// The invoice and payment pipelines resolve these by name.
func DefaultChart(companyID uuid.UUID) []Account {
	seed := []struct {
		name string
		typ  AccountType
		code string
	}{
		{AccountCash, AccountTypeAsset, "1001"},
		{AccountAccountsReceivable, AccountTypeAsset, "1100"},
		{AccountTaxReceivable, AccountTypeAsset, "1200"},
		{AccountAccountsPayable, AccountTypeLiability, "2100"},
		{AccountTaxPayable, AccountTypeLiability, "2200"},
		{AccountSalesRevenue, AccountTypeIncome, "4000"},
		{AccountPurchases, AccountTypeExpense, "5000"},
	}
	accounts := make([]Account, 0, len(seed))
	for _, s := range seed {
		accounts = append(accounts, Account{
			TenantEntity: shared.NewTenantEntity(companyID),
			Name:         s.name,
			Type:         s.typ,
			Code:         s.code,
		})
	}
	return accounts
}
