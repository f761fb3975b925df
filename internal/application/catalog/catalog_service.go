package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appbilling "github.com/retailops/backend/internal/application/billing"
	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateProductInput is the request for creating a product with its initial
// variants. A product without explicit variants gets one default item.
type CreateProductInput struct {
	CompanyID     uuid.UUID         `json:"companyId"`
	Name          string            `json:"name"`
	SKU           string            `json:"sku"`
	Description   string            `json:"description,omitempty"`
	CategoryID    *uuid.UUID        `json:"categoryId,omitempty"`
	SubCategoryID *uuid.UUID        `json:"subCategoryId,omitempty"`
	Items         []CreateItemInput `json:"items,omitempty"`
	Price         decimal.Decimal   `json:"price,omitempty"`
	TaxRateID     *uuid.UUID        `json:"taxRateId,omitempty"`
}

// CreateItemInput describes one sellable variant
type CreateItemInput struct {
	Variant   string          `json:"variant,omitempty"`
	SKU       string          `json:"sku,omitempty"`
	Price     decimal.Decimal `json:"price"`
	TaxRateID *uuid.UUID      `json:"taxRateId,omitempty"`
}

// UpdateItemInput carries the mutable fields of an item
type UpdateItemInput struct {
	Variant   *string          `json:"variant,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	TaxRateID *uuid.UUID       `json:"taxRateId,omitempty"`
}

// Service manages categories, products and their sellable items
type Service struct {
	scope  appbilling.TransactionScope
	logger *zap.Logger
}

// NewService creates a new catalog Service
func NewService(scope appbilling.TransactionScope, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{scope: scope, logger: logger}
}

// CreateCategory creates a category, optionally under a parent
func (s *Service) CreateCategory(ctx context.Context, companyID uuid.UUID, name string, parentID *uuid.UUID) (*catalog.Category, error) {
	category, err := catalog.NewCategory(companyID, name, parentID)
	if err != nil {
		return nil, err
	}
	err = s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		if parentID != nil {
			if _, err := repos.Categories().FindByID(ctx, companyID, *parentID); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewNotFoundError("Parent category")
				}
				return err
			}
		}
		return repos.Categories().Save(ctx, category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories lists a company's categories
func (s *Service) ListCategories(ctx context.Context, companyID uuid.UUID) ([]catalog.Category, error) {
	var categories []catalog.Category
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		found, err := repos.Categories().FindAll(ctx, companyID)
		if err != nil {
			return err
		}
		categories = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// DeleteCategory removes a category
func (s *Service) DeleteCategory(ctx context.Context, companyID, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		if _, err := repos.Categories().FindByID(ctx, companyID, id); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Category")
			}
			return err
		}
		return repos.Categories().Delete(ctx, companyID, id)
	})
}

// CreateProduct creates a product and its items in one transaction.
// A duplicate {company, SKU} pair fails with Conflict.
func (s *Service) CreateProduct(ctx context.Context, input CreateProductInput) (*catalog.Product, error) {
	product, err := catalog.NewProduct(input.CompanyID, input.Name, input.SKU, input.Description, input.CategoryID, input.SubCategoryID)
	if err != nil {
		return nil, err
	}
	err = s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}
		variants := input.Items
		if len(variants) == 0 {
			variants = []CreateItemInput{{SKU: input.SKU, Price: input.Price, TaxRateID: input.TaxRateID}}
		}
		for _, v := range variants {
			item, err := catalog.NewItem(input.CompanyID, product.ID, v.Variant, v.SKU, v.Price, v.TaxRateID)
			if err != nil {
				return err
			}
			if err := repos.Items().Save(ctx, item); err != nil {
				return err
			}
			product.Items = append(product.Items, *item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU))
	return product, nil
}

// GetProduct returns a product by id
func (s *Service) GetProduct(ctx context.Context, companyID, id uuid.UUID) (*catalog.Product, error) {
	var product *catalog.Product
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		found, err := repos.Products().FindByID(ctx, companyID, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Product")
			}
			return err
		}
		product = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// ListProducts lists a company's products
func (s *Service) ListProducts(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[catalog.Product], error) {
	var page *shared.Paginated[catalog.Product]
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		rows, total, err := repos.Products().FindAll(ctx, companyID, filter)
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

// AddItem adds a variant to an existing product
func (s *Service) AddItem(ctx context.Context, companyID, productID uuid.UUID, input CreateItemInput) (*catalog.Item, error) {
	var item *catalog.Item
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		if _, err := repos.Products().FindByID(ctx, companyID, productID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Product")
			}
			return err
		}
		created, err := catalog.NewItem(companyID, productID, input.Variant, input.SKU, input.Price, input.TaxRateID)
		if err != nil {
			return err
		}
		if err := repos.Items().Save(ctx, created); err != nil {
			return err
		}
		item = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem applies partial updates to an item
func (s *Service) UpdateItem(ctx context.Context, companyID, itemID uuid.UUID, input UpdateItemInput) (*catalog.Item, error) {
	var item *catalog.Item
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		found, err := repos.Items().FindByID(ctx, companyID, itemID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Item")
			}
			return err
		}
		if input.Variant != nil {
			found.Variant = *input.Variant
		}
		if input.Price != nil {
			if input.Price.IsNegative() {
				return shared.NewValidationError("Item price cannot be negative")
			}
			found.Price = *input.Price
		}
		if input.TaxRateID != nil {
			if _, err := repos.TaxRates().FindByID(ctx, companyID, *input.TaxRateID); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewTaxRateNotFoundError()
				}
				return err
			}
			found.TaxRateID = input.TaxRateID
		}
		if err := repos.Items().Save(ctx, found); err != nil {
			return err
		}
		item = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes a variant. Stock and ledger history keep the item id.
func (s *Service) DeleteItem(ctx context.Context, companyID, itemID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		if _, err := repos.Items().FindByID(ctx, companyID, itemID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Item")
			}
			return err
		}
		return repos.Items().Delete(ctx, companyID, itemID)
	})
}
