package accounting

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appbilling "github.com/retailops/backend/internal/application/billing"
	"github.com/retailops/backend/internal/domain/accounting"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateTaxRateInput is the request for creating a tax rate
type CreateTaxRateInput struct {
	CompanyID uuid.UUID       `json:"companyId"`
	Name      string          `json:"name"`
	Rate      decimal.Decimal `json:"rate"`
	Type      string          `json:"type,omitempty"`
	IsDefault bool            `json:"isDefault"`
}

// UpdateTaxRateInput carries the mutable fields of a tax rate
type UpdateTaxRateInput struct {
	Name      *string          `json:"name,omitempty"`
	Rate      *decimal.Decimal `json:"rate,omitempty"`
	IsDefault *bool            `json:"isDefault,omitempty"`
}

// TaxRateService manages the company's tax rates
type TaxRateService struct {
	scope  appbilling.TransactionScope
	logger *zap.Logger
}

// NewTaxRateService creates a new TaxRateService
func NewTaxRateService(scope appbilling.TransactionScope, logger *zap.Logger) *TaxRateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaxRateService{scope: scope, logger: logger}
}

// CreateTaxRate creates a tax rate. Marking a rate default clears the flag
// on the previous default in the same transaction.
func (s *TaxRateService) CreateTaxRate(ctx context.Context, input CreateTaxRateInput) (*accounting.TaxRate, error) {
	rate, err := accounting.NewTaxRate(input.CompanyID, input.Name, input.Rate, input.Type, input.IsDefault)
	if err != nil {
		return nil, err
	}
	err = s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		if input.IsDefault {
			if err := s.clearDefault(ctx, repos, input.CompanyID, uuid.Nil); err != nil {
				return err
			}
		}
		return repos.TaxRates().Save(ctx, rate)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Tax rate created",
		zap.String("tax_rate_id", rate.ID.String()),
		zap.String("name", rate.Name),
		zap.String("rate", rate.Rate.String()))
	return rate, nil
}

// GetTaxRate returns a tax rate by id
func (s *TaxRateService) GetTaxRate(ctx context.Context, companyID, id uuid.UUID) (*accounting.TaxRate, error) {
	var rate *accounting.TaxRate
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		found, err := repos.TaxRates().FindByID(ctx, companyID, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewTaxRateNotFoundError()
			}
			return err
		}
		rate = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rate, nil
}

// ListTaxRates lists a company's tax rates
func (s *TaxRateService) ListTaxRates(ctx context.Context, companyID uuid.UUID) ([]accounting.TaxRate, error) {
	var rates []accounting.TaxRate
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		found, err := repos.TaxRates().FindAll(ctx, companyID)
		if err != nil {
			return err
		}
		rates = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rates, nil
}

// UpdateTaxRate applies partial updates to a tax rate
func (s *TaxRateService) UpdateTaxRate(ctx context.Context, companyID, id uuid.UUID, input UpdateTaxRateInput) (*accounting.TaxRate, error) {
	var rate *accounting.TaxRate
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		found, err := repos.TaxRates().FindByID(ctx, companyID, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewTaxRateNotFoundError()
			}
			return err
		}
		if input.Name != nil {
			if err := found.Rename(*input.Name); err != nil {
				return err
			}
		}
		if input.Rate != nil {
			if err := found.SetRate(*input.Rate); err != nil {
				return err
			}
		}
		if input.IsDefault != nil && *input.IsDefault && !found.IsDefault {
			if err := s.clearDefault(ctx, repos, companyID, found.ID); err != nil {
				return err
			}
			found.IsDefault = true
		}
		if err := repos.TaxRates().Save(ctx, found); err != nil {
			return err
		}
		rate = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rate, nil
}

// DeleteTaxRate removes a tax rate. Historical invoice tax rows keep their
// captured name and rate, so deletion does not rewrite past invoices.
func (s *TaxRateService) DeleteTaxRate(ctx context.Context, companyID, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		if _, err := repos.TaxRates().FindByID(ctx, companyID, id); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewTaxRateNotFoundError()
			}
			return err
		}
		return repos.TaxRates().Delete(ctx, companyID, id)
	})
}

func (s *TaxRateService) clearDefault(ctx context.Context, repos appbilling.Repositories, companyID, keep uuid.UUID) error {
	current, err := repos.TaxRates().FindDefault(ctx, companyID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if current.ID == keep {
		return nil
	}
	current.IsDefault = false
	return repos.TaxRates().Save(ctx, current)
}
