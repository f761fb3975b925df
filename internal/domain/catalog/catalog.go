package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Category groups products. A category with a ParentID is a sub-category.
type Category struct {
	shared.TenantEntity
	Name     string     `gorm:"not null;index" json:"name"`
	ParentID *uuid.UUID `gorm:"type:uuid;index" json:"parentId,omitempty"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(companyID uuid.UUID, name string, parentID *uuid.UUID) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Category name cannot be empty")
	}
	return &Category{
		TenantEntity: shared.NewTenantEntity(companyID),
		Name:         name,
		ParentID:     parentID,
	}, nil
}

// Product is a catalog entry. It owns one or more Items (sellable variants).
type Product struct {
	shared.TenantEntity
	Name          string     `gorm:"not null;index" json:"name"`
	SKU           string     `gorm:"not null;uniqueIndex:idx_products_company_sku,priority:2" json:"sku"`
	Description   string     `json:"description"`
	CategoryID    *uuid.UUID `gorm:"type:uuid;index" json:"categoryId,omitempty"`
	SubCategoryID *uuid.UUID `gorm:"type:uuid;index" json:"subCategoryId,omitempty"`

	Items []Item `gorm:"foreignKey:ProductID;references:ID" json:"items,omitempty"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(companyID uuid.UUID, name, sku, description string, categoryID, subCategoryID *uuid.UUID) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Product name cannot be empty")
	}
	if strings.TrimSpace(sku) == "" {
		return nil, shared.NewValidationError("Product SKU cannot be empty")
	}
	return &Product{
		TenantEntity:  shared.NewTenantEntity(companyID),
		Name:          name,
		SKU:           strings.TrimSpace(sku),
		Description:   description,
		CategoryID:    categoryID,
		SubCategoryID: subCategoryID,
	}, nil
}

// Item is a sellable variant of a product. The Quantity column is the legacy
// company-wide count, superseded by the per-branch BranchItem rows.
type Item struct {
	shared.TenantEntity
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"productId"`
	Variant   string          `json:"variant"`
	SKU       string          `gorm:"index" json:"sku"`
	Price     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"price"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"quantity"`
	TaxRateID *uuid.UUID      `gorm:"type:uuid;index" json:"taxRateId,omitempty"`

	Product *Product `gorm:"foreignKey:ProductID;references:ID" json:"product,omitempty"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "items"
}

// NewItem creates a new item under a product
func NewItem(companyID, productID uuid.UUID, variant, sku string, price decimal.Decimal, taxRateID *uuid.UUID) (*Item, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewValidationError("Item price cannot be negative")
	}
	return &Item{
		TenantEntity: shared.NewTenantEntity(companyID),
		ProductID:    productID,
		Variant:      variant,
		SKU:          sku,
		Price:        price,
		Quantity:     decimal.Zero,
		TaxRateID:    taxRateID,
	}, nil
}

// DisplayName renders the product name with the variant for diagnostics
func (i *Item) DisplayName() string {
	name := i.SKU
	if i.Product != nil {
		name = i.Product.Name
	}
	if i.Variant != "" {
		return name + " (" + i.Variant + ")"
	}
	return name
}

// CategoryRepository is the persistence boundary for categories
type CategoryRepository interface {
	Save(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Category, error)
	FindAll(ctx context.Context, companyID uuid.UUID) ([]Category, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

// ProductRepository is the persistence boundary for products
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, companyID uuid.UUID, sku string) (*Product, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Product, int64, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

// ItemRepository is the persistence boundary for items
type ItemRepository interface {
	Save(ctx context.Context, item *Item) error
	// FindByID loads the item with its product preloaded
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Item, error)
	FindByProduct(ctx context.Context, companyID, productID uuid.UUID) ([]Item, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}
