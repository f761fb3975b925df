package partner

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appbilling "github.com/retailops/backend/internal/application/billing"
	"github.com/retailops/backend/internal/domain/partner"
	"github.com/retailops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CreateCustomerInput is the request for creating a customer
type CreateCustomerInput struct {
	CompanyID uuid.UUID `json:"companyId"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
}

// CreateVendorInput is the request for creating a vendor
type CreateVendorInput struct {
	CompanyID uuid.UUID `json:"companyId"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	GSTIN     string    `json:"gstin,omitempty"`
}

// Service manages customers and vendors
type Service struct {
	scope  appbilling.TransactionScope
	logger *zap.Logger
}

// NewService creates a new partner Service
func NewService(scope appbilling.TransactionScope, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{scope: scope, logger: logger}
}

// CreateCustomer creates a durable customer
func (s *Service) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*partner.Customer, error) {
	customer, err := partner.NewCustomer(input.CompanyID, input.Name, input.Phone, input.Email, input.Address)
	if err != nil {
		return nil, err
	}
	err = s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		return repos.Customers().Save(ctx, customer)
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// CreateWalkInCustomer creates an ephemeral customer for a POS session.
// It is deleted when the cart it backs is finished.
func (s *Service) CreateWalkInCustomer(ctx context.Context, companyID uuid.UUID, name string) (*partner.Customer, error) {
	customer := partner.NewWalkInCustomer(companyID, name)
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		return repos.Customers().Save(ctx, customer)
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer returns a customer by id
func (s *Service) GetCustomer(ctx context.Context, companyID, id uuid.UUID) (*partner.Customer, error) {
	var customer *partner.Customer
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		found, err := repos.Customers().FindByID(ctx, companyID, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Customer")
			}
			return err
		}
		customer = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// ListCustomers lists a company's customers
func (s *Service) ListCustomers(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[partner.Customer], error) {
	var page *shared.Paginated[partner.Customer]
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		rows, total, err := repos.Customers().FindAll(ctx, companyID, filter)
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

// DeleteCustomer removes a customer. Invoices keep the customer id.
func (s *Service) DeleteCustomer(ctx context.Context, companyID, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		if _, err := repos.Customers().FindByID(ctx, companyID, id); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Customer")
			}
			return err
		}
		return repos.Customers().Delete(ctx, companyID, id)
	})
}

// CreateVendor creates a vendor
func (s *Service) CreateVendor(ctx context.Context, input CreateVendorInput) (*partner.Vendor, error) {
	vendor, err := partner.NewVendor(input.CompanyID, input.Name, input.Phone, input.Email, input.Address, input.GSTIN)
	if err != nil {
		return nil, err
	}
	err = s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		return repos.Vendors().Save(ctx, vendor)
	})
	if err != nil {
		return nil, err
	}
	return vendor, nil
}

// GetVendor returns a vendor by id
func (s *Service) GetVendor(ctx context.Context, companyID, id uuid.UUID) (*partner.Vendor, error) {
	var vendor *partner.Vendor
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		found, err := repos.Vendors().FindByID(ctx, companyID, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Vendor")
			}
			return err
		}
		vendor = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vendor, nil
}

// ListVendors lists a company's vendors
func (s *Service) ListVendors(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[partner.Vendor], error) {
	var page *shared.Paginated[partner.Vendor]
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		rows, total, err := repos.Vendors().FindAll(ctx, companyID, filter)
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

// DeleteVendor removes a vendor. Invoices keep the vendor id.
func (s *Service) DeleteVendor(ctx context.Context, companyID, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		if _, err := repos.Vendors().FindByID(ctx, companyID, id); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Vendor")
			}
			return err
		}
		return repos.Vendors().Delete(ctx, companyID, id)
	})
}
