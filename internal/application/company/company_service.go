package company

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appbilling "github.com/retailops/backend/internal/application/billing"
	"github.com/retailops/backend/internal/domain/accounting"
	"github.com/retailops/backend/internal/domain/company"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OnboardInput is the request for creating a new tenant
type OnboardInput struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	// BranchName names the MAIN branch; defaults to "Main Branch"
	BranchName string `json:"branchName,omitempty"`
}

// OnboardResult is the newly provisioned tenant
type OnboardResult struct {
	Company  *company.Company     `json:"company"`
	Branch   *company.Branch      `json:"branch"`
	Accounts []accounting.Account `json:"accounts"`
}

// TenantPurger deletes every row belonging to a company, children before
// parents, in one transaction.
type TenantPurger interface {
	Purge(ctx context.Context, companyID uuid.UUID) error
}

// Service provisions and manages tenants. Onboarding seeds everything the
// transactional core assumes exists: the MAIN branch, the default chart of
// accounts and a default tax rate.
type Service struct {
	scope  appbilling.TransactionScope
	purger TenantPurger
	logger *zap.Logger
}

// NewService creates a new company Service
func NewService(scope appbilling.TransactionScope, purger TenantPurger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{scope: scope, purger: purger, logger: logger}
}

// Onboard provisions a tenant in one transaction: the company row, its MAIN
// branch, the seven-account default chart and an 18% GST default tax rate.
// A duplicate company name fails with Conflict and provisions nothing.
func (s *Service) Onboard(ctx context.Context, input OnboardInput) (*OnboardResult, error) {
	comp, err := company.NewCompany(input.Name, input.Email, input.Phone, input.Address)
	if err != nil {
		return nil, err
	}
	branchName := input.BranchName
	if branchName == "" {
		branchName = "Main Branch"
	}

	var result *OnboardResult
	err = s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		if err := repos.Companies().Save(ctx, comp); err != nil {
			return err
		}
		branch, err := company.NewBranch(comp.ID, branchName, input.Address, true)
		if err != nil {
			return err
		}
		if err := repos.Branches().Save(ctx, branch); err != nil {
			return err
		}
		chart := accounting.DefaultChart(comp.ID)
		if err := repos.Accounts().SaveAll(ctx, chart); err != nil {
			return err
		}
		gst, err := accounting.NewTaxRate(comp.ID, "GST 18%", decimal.NewFromInt(18), "GST", true)
		if err != nil {
			return err
		}
		if err := repos.TaxRates().Save(ctx, gst); err != nil {
			return err
		}
		result = &OnboardResult{Company: comp, Branch: branch, Accounts: chart}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Company onboarded",
		zap.String("company_id", comp.ID.String()),
		zap.String("name", comp.Name))
	return result, nil
}

// GetCompany returns a company by id
func (s *Service) GetCompany(ctx context.Context, id uuid.UUID) (*company.Company, error) {
	var comp *company.Company
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		found, err := repos.Companies().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Company")
			}
			return err
		}
		comp = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comp, nil
}

// ListCompanies lists companies
func (s *Service) ListCompanies(ctx context.Context, filter shared.Filter) (*shared.Paginated[company.Company], error) {
	var page *shared.Paginated[company.Company]
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		rows, total, err := repos.Companies().FindAll(ctx, filter)
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

// CreateBranch adds a branch to a company
func (s *Service) CreateBranch(ctx context.Context, companyID uuid.UUID, name, address string) (*company.Branch, error) {
	branch, err := company.NewBranch(companyID, name, address, false)
	if err != nil {
		return nil, err
	}
	err = s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		if _, err := repos.Companies().FindByID(ctx, companyID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Company")
			}
			return err
		}
		return repos.Branches().Save(ctx, branch)
	})
	if err != nil {
		return nil, err
	}
	return branch, nil
}

// ListBranches lists a company's branches
func (s *Service) ListBranches(ctx context.Context, companyID uuid.UUID) ([]company.Branch, error) {
	var branches []company.Branch
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		found, err := repos.Branches().FindAll(ctx, companyID)
		if err != nil {
			return err
		}
		branches = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return branches, nil
}

// DeleteBranch removes a branch. The MAIN branch cannot be deleted.
func (s *Service) DeleteBranch(ctx context.Context, companyID, branchID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		branch, err := repos.Branches().FindByID(ctx, companyID, branchID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Branch")
			}
			return err
		}
		if branch.IsMain {
			return shared.NewValidationError("The main branch cannot be deleted")
		}
		return repos.Branches().Delete(ctx, companyID, branchID)
	})
}

// PurgeCompany deletes a tenant and every row it owns. Irreversible.
func (s *Service) PurgeCompany(ctx context.Context, companyID uuid.UUID) error {
	if s.purger == nil {
		return shared.NewValidationError("Tenant purge is not configured")
	}
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		if _, err := repos.Companies().FindByID(ctx, companyID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Company")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := s.purger.Purge(ctx, companyID); err != nil {
		return err
	}
	s.logger.Warn("Company purged", zap.String("company_id", companyID.String()))
	return nil
}
