package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBranchItemRepository implements inventory.BranchItemRepository using GORM
type GormBranchItemRepository struct {
	db *gorm.DB
}

// NewGormBranchItemRepository creates a new GormBranchItemRepository
func NewGormBranchItemRepository(db *gorm.DB) *GormBranchItemRepository {
	return &GormBranchItemRepository{db: db}
}

// Save creates or updates a stock row
func (r *GormBranchItemRepository) Save(ctx context.Context, item *inventory.BranchItem) error {
	return translateError(r.db.WithContext(ctx).Save(item).Error)
}

// FindByID finds a stock row within a company
func (r *GormBranchItemRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*inventory.BranchItem, error) {
	var item inventory.BranchItem
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByBranchAndItem finds the stock row for a branch-item pair
func (r *GormBranchItemRepository) FindByBranchAndItem(ctx context.Context, companyID, branchID, itemID uuid.UUID) (*inventory.BranchItem, error) {
	var item inventory.BranchItem
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND branch_id = ? AND item_id = ?", companyID, branchID, itemID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByBranchAndItemForUpdate locks the stock row (SELECT ... FOR UPDATE)
// for the remainder of the transaction. Concurrent sales serialize here, so
// the stock check never runs against a stale quantity.
func (r *GormBranchItemRepository) FindByBranchAndItemForUpdate(ctx context.Context, companyID, branchID, itemID uuid.UUID) (*inventory.BranchItem, error) {
	query := r.db.WithContext(ctx)
	// SQLite has no row locks; its writes serialize on the database lock.
	if r.db.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var item inventory.BranchItem
	if err := query.
		Where("company_id = ? AND branch_id = ? AND item_id = ?", companyID, branchID, itemID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByBranch finds stock rows of a branch
func (r *GormBranchItemRepository) FindByBranch(ctx context.Context, companyID, branchID uuid.UUID, filter shared.Filter) ([]inventory.BranchItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.BranchItem{}).
		Where("company_id = ? AND branch_id = ?", companyID, branchID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []inventory.BranchItem
	if err := query.Order("created_at ASC").
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GormStockLedgerRepository implements inventory.StockLedgerRepository using
// GORM. The ledger is append-only.
type GormStockLedgerRepository struct {
	db *gorm.DB
}

// NewGormStockLedgerRepository creates a new GormStockLedgerRepository
func NewGormStockLedgerRepository(db *gorm.DB) *GormStockLedgerRepository {
	return &GormStockLedgerRepository{db: db}
}

// Save inserts a movement record
func (r *GormStockLedgerRepository) Save(ctx context.Context, movement *inventory.StockLedger) error {
	return translateError(r.db.WithContext(ctx).Create(movement).Error)
}

// FindByReferenceItemType finds a movement by its idempotency triple
func (r *GormStockLedgerRepository) FindByReferenceItemType(ctx context.Context, companyID uuid.UUID, reference string, itemID uuid.UUID, movementType inventory.MovementType) (*inventory.StockLedger, error) {
	var movement inventory.StockLedger
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND reference = ? AND item_id = ? AND type = ?", companyID, reference, itemID, movementType).
		First(&movement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindByItem finds the movement history of a branch-item pair, newest first
func (r *GormStockLedgerRepository) FindByItem(ctx context.Context, companyID, branchID, itemID uuid.UUID, filter shared.Filter) ([]inventory.StockLedger, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.StockLedger{}).
		Where("company_id = ? AND branch_id = ? AND item_id = ?", companyID, branchID, itemID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movements []inventory.StockLedger
	if err := query.Order("created_at DESC").
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&movements).Error; err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}

// Ensure interfaces are implemented
var (
	_ inventory.BranchItemRepository  = (*GormBranchItemRepository)(nil)
	_ inventory.StockLedgerRepository = (*GormStockLedgerRepository)(nil)
)
