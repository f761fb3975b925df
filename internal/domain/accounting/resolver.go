package accounting

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
)

// AccountResolver maps well-known account names to account ids within a
// company. A resolver is created per transaction and memoizes lookups for
// the life of that transaction only; caching across transactions would race
// with concurrent chart seeding.
type AccountResolver struct {
	repo      AccountRepository
	companyID uuid.UUID
	cache     map[string]uuid.UUID
}

// NewAccountResolver creates a resolver bound to one company and one
// transaction-scoped account repository.
func NewAccountResolver(repo AccountRepository, companyID uuid.UUID) *AccountResolver {
	return &AccountResolver{
		repo:      repo,
		companyID: companyID,
		cache:     make(map[string]uuid.UUID),
	}
}

// Resolve returns the account id for the given well-known name.
// Fails with an AccountNotFound error if the company's chart of accounts
// does not contain the name.
func (r *AccountResolver) Resolve(ctx context.Context, name string) (uuid.UUID, error) {
	if id, ok := r.cache[name]; ok {
		return id, nil
	}
	account, err := r.repo.FindByName(ctx, r.companyID, name)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return uuid.Nil, shared.NewAccountNotFoundError(name)
		}
		return uuid.Nil, err
	}
	r.cache[name] = account.ID
	return account.ID, nil
}
