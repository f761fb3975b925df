package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/pos"
	"github.com/retailops/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCartRepository implements pos.CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// Save creates or updates a cart row without touching its items
func (r *GormCartRepository) Save(ctx context.Context, cart *pos.Cart) error {
	return translateError(r.db.WithContext(ctx).Omit("Items").Save(cart).Error)
}

// FindByID loads the cart with its items preloaded
func (r *GormCartRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*pos.Cart, error) {
	var cart pos.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("company_id = ? AND id = ?", companyID, id).
		First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// FindActiveByCustomer finds the customer's active cart
func (r *GormCartRepository) FindActiveByCustomer(ctx context.Context, companyID, customerID uuid.UUID) (*pos.Cart, error) {
	var cart pos.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("company_id = ? AND customer_id = ? AND status = ?", companyID, customerID, pos.CartStatusActive).
		First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// FindAll finds all carts of a company with items preloaded
func (r *GormCartRepository) FindAll(ctx context.Context, companyID uuid.UUID) ([]pos.Cart, error) {
	var carts []pos.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&carts).Error; err != nil {
		return nil, err
	}
	return carts, nil
}

// SaveItem creates or updates a cart line
func (r *GormCartRepository) SaveItem(ctx context.Context, item *pos.CartItem) error {
	return translateError(r.db.WithContext(ctx).Save(item).Error)
}

// FindItemByID finds a cart line within a company
func (r *GormCartRepository) FindItemByID(ctx context.Context, companyID, cartItemID uuid.UUID) (*pos.CartItem, error) {
	var item pos.CartItem
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, cartItemID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindItemByCartAndItem finds the cart line for an item, if any
func (r *GormCartRepository) FindItemByCartAndItem(ctx context.Context, companyID, cartID, itemID uuid.UUID) (*pos.CartItem, error) {
	var item pos.CartItem
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND cart_id = ? AND item_id = ?", companyID, cartID, itemID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// DeleteItem deletes a cart line
func (r *GormCartRepository) DeleteItem(ctx context.Context, companyID, cartItemID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&pos.CartItem{}, "company_id = ? AND id = ?", companyID, cartItemID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes the cart and all of its items
func (r *GormCartRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Delete(&pos.CartItem{}, "company_id = ? AND cart_id = ?", companyID, id).Error; err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&pos.Cart{}, "company_id = ? AND id = ?", companyID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormCartRepository implements CartRepository
var _ pos.CartRepository = (*GormCartRepository)(nil)
