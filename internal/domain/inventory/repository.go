package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
)

// BranchItemRepository is the persistence boundary for branch stock rows
type BranchItemRepository interface {
	Save(ctx context.Context, item *BranchItem) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*BranchItem, error)
	// FindByBranchAndItem returns shared.ErrNotFound when the pair has never
	// been referenced.
	FindByBranchAndItem(ctx context.Context, companyID, branchID, itemID uuid.UUID) (*BranchItem, error)
	// FindByBranchAndItemForUpdate locks the row for the remainder of the
	// transaction so concurrent check-and-decrement is serialized.
	FindByBranchAndItemForUpdate(ctx context.Context, companyID, branchID, itemID uuid.UUID) (*BranchItem, error)
	FindByBranch(ctx context.Context, companyID, branchID uuid.UUID, filter shared.Filter) ([]BranchItem, int64, error)
}

// StockLedgerRepository is the append-only persistence boundary for
// stock movements
type StockLedgerRepository interface {
	Save(ctx context.Context, movement *StockLedger) error
	// FindByReferenceItemType returns shared.ErrNotFound when no movement
	// exists for the {reference, itemID, type} triple.
	FindByReferenceItemType(ctx context.Context, companyID uuid.UUID, reference string, itemID uuid.UUID, movementType MovementType) (*StockLedger, error)
	FindByItem(ctx context.Context, companyID, branchID, itemID uuid.UUID, filter shared.Filter) ([]StockLedger, int64, error)
}
