package accounting

import (
	"github.com/shopspring/decimal"
)

// TrialBalanceLine is one account row in a trial balance
type TrialBalanceLine struct {
	Account     Account         `json:"account"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	// Balance is sum(debit) - sum(credit); positive means a debit balance
	Balance decimal.Decimal `json:"balance"`
}

// TrialBalance lists per-account debit/credit totals for a period.
// A healthy journal always has TotalDebit == TotalCredit.
type TrialBalance struct {
	Lines       []TrialBalanceLine `json:"lines"`
	TotalDebit  decimal.Decimal    `json:"totalDebit"`
	TotalCredit decimal.Decimal    `json:"totalCredit"`
}

// IsBalanced reports whether debits equal credits across the journal
func (t *TrialBalance) IsBalanced() bool {
	return t.TotalDebit.Equal(t.TotalCredit)
}

// BuildTrialBalance joins account rows with their journal sums.
// Accounts with no postings appear with zero totals.
func BuildTrialBalance(accounts []Account, sums []AccountSum) *TrialBalance {
	byAccount := make(map[string]AccountSum, len(sums))
	for _, s := range sums {
		byAccount[s.AccountID.String()] = s
	}

	tb := &TrialBalance{
		Lines:       make([]TrialBalanceLine, 0, len(accounts)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, account := range accounts {
		sum, ok := byAccount[account.ID.String()]
		if !ok {
			sum = AccountSum{AccountID: account.ID, TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
		}
		tb.Lines = append(tb.Lines, TrialBalanceLine{
			Account:     account,
			TotalDebit:  sum.TotalDebit,
			TotalCredit: sum.TotalCredit,
			Balance:     sum.TotalDebit.Sub(sum.TotalCredit),
		})
		tb.TotalDebit = tb.TotalDebit.Add(sum.TotalDebit)
		tb.TotalCredit = tb.TotalCredit.Add(sum.TotalCredit)
	}
	return tb
}
