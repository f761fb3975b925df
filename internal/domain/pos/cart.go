package pos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CartStatus marks a cart's lifecycle. Carts are single-use: checkout or
// finish destroys them and the next order starts a fresh one.
type CartStatus string

const (
	CartStatusActive CartStatus = "ACTIVE"
)

// Cart is a short-lived mutable pre-invoice aggregate for one customer.
// One ACTIVE cart exists per customer per company, created lazily on the
// first add.
type Cart struct {
	shared.TenantEntity
	CustomerID uuid.UUID  `gorm:"type:uuid;not null;index" json:"customerId"`
	Status     CartStatus `gorm:"not null;default:'ACTIVE'" json:"status"`

	Items []CartItem `gorm:"foreignKey:CartID;references:ID" json:"items,omitempty"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// NewCart creates an active cart for a customer
func NewCart(companyID, customerID uuid.UUID) (*Cart, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Customer ID cannot be empty")
	}
	return &Cart{
		TenantEntity: shared.NewTenantEntity(companyID),
		CustomerID:   customerID,
		Status:       CartStatusActive,
	}, nil
}

// CartItem is one mutable line of a cart. Total is always price * quantity.
type CartItem struct {
	shared.TenantEntity
	CartID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"cartId"`
	ItemID    uuid.UUID       `gorm:"type:uuid;not null" json:"itemId"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null" json:"productId"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	Total     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// NewCartItem creates a cart line
func NewCartItem(companyID, cartID, itemID, productID uuid.UUID, quantity, price decimal.Decimal) (*CartItem, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Cart item quantity must be positive")
	}
	if price.IsNegative() {
		return nil, shared.NewValidationError("Cart item price cannot be negative")
	}
	line := &CartItem{
		TenantEntity: shared.NewTenantEntity(companyID),
		CartID:       cartID,
		ItemID:       itemID,
		ProductID:    productID,
		Quantity:     quantity,
		Price:        price,
	}
	line.recalculate()
	return line, nil
}

// AddQuantity increases the line quantity and recomputes the total
func (c *CartItem) AddQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Quantity must be positive")
	}
	c.Quantity = c.Quantity.Add(quantity)
	c.recalculate()
	return nil
}

// DecrementOne lowers the quantity by one. Reaching zero means the line
// must be deleted; the caller acts on the returned flag.
func (c *CartItem) DecrementOne() (deleted bool) {
	c.Quantity = c.Quantity.Sub(decimal.NewFromInt(1))
	if c.Quantity.LessThanOrEqual(decimal.Zero) {
		return true
	}
	c.recalculate()
	return false
}

// SetQuantity replaces the line quantity
func (c *CartItem) SetQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Quantity must be positive")
	}
	c.Quantity = quantity
	c.recalculate()
	return nil
}

func (c *CartItem) recalculate() {
	c.Total = c.Price.Mul(c.Quantity).Round(2)
	c.UpdatedAt = time.Now()
}

// CartRepository is the persistence boundary for carts
type CartRepository interface {
	Save(ctx context.Context, cart *Cart) error
	// FindByID loads the cart with its items preloaded
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Cart, error)
	// FindActiveByCustomer returns shared.ErrNotFound when the customer has
	// no active cart.
	FindActiveByCustomer(ctx context.Context, companyID, customerID uuid.UUID) (*Cart, error)
	FindAll(ctx context.Context, companyID uuid.UUID) ([]Cart, error)
	SaveItem(ctx context.Context, item *CartItem) error
	FindItemByID(ctx context.Context, companyID, cartItemID uuid.UUID) (*CartItem, error)
	FindItemByCartAndItem(ctx context.Context, companyID, cartID, itemID uuid.UUID) (*CartItem, error)
	DeleteItem(ctx context.Context, companyID, cartItemID uuid.UUID) error
	// Delete removes the cart and all of its items
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}
