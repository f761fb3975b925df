package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockService is the stock ledger engine: the only writer of StockLedger
// rows and BranchItem quantities. Both repositories must be scoped to the
// same transaction; callers own the transaction boundary.
type StockService struct {
	branchItems BranchItemRepository
	ledger      StockLedgerRepository
}

// NewStockService creates a stock service over transaction-scoped repositories
func NewStockService(branchItems BranchItemRepository, ledger StockLedgerRepository) *StockService {
	return &StockService{
		branchItems: branchItems,
		ledger:      ledger,
	}
}

// BranchItemDefaults carries values used when a stock row is created lazily
type BranchItemDefaults struct {
	Price decimal.Decimal
	MRP   *decimal.Decimal
}

// Adjustment describes one stock movement request
type Adjustment struct {
	CompanyID uuid.UUID
	BranchID  uuid.UUID
	ItemID    uuid.UUID
	Type      MovementType
	Quantity  decimal.Decimal
	Reference string
	Note      string
	// ItemName names the product (and variant) in operator-facing errors
	ItemName string
	Defaults BranchItemDefaults
}

// EnsureBranchItem returns the stock row for a branch-item pair, creating it
// with zero quantity on first reference.
func (s *StockService) EnsureBranchItem(ctx context.Context, companyID, branchID, itemID uuid.UUID, defaults BranchItemDefaults) (*BranchItem, error) {
	existing, err := s.branchItems.FindByBranchAndItem(ctx, companyID, branchID, itemID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	created, err := NewBranchItem(companyID, branchID, itemID, defaults.Price, defaults.MRP)
	if err != nil {
		return nil, err
	}
	if err := s.branchItems.Save(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

// Adjust validates and applies one stock movement: it appends a StockLedger
// row and updates the BranchItem quantity by the signed delta. The BranchItem
// row is read with a row lock so a concurrent sale cannot pass the stock
// check against a stale quantity. For SALE movements the on-hand quantity
// must cover the request or the whole transaction fails with
// InsufficientStock.
func (s *StockService) Adjust(ctx context.Context, adj Adjustment) (*StockLedger, error) {
	movement, err := NewStockLedger(adj.CompanyID, adj.BranchID, adj.ItemID, adj.Type, adj.Quantity, adj.Reference, adj.Note)
	if err != nil {
		return nil, err
	}

	if _, err := s.EnsureBranchItem(ctx, adj.CompanyID, adj.BranchID, adj.ItemID, adj.Defaults); err != nil {
		return nil, err
	}
	branchItem, err := s.branchItems.FindByBranchAndItemForUpdate(ctx, adj.CompanyID, adj.BranchID, adj.ItemID)
	if err != nil {
		return nil, err
	}

	if adj.Type == MovementSale && !branchItem.CanFulfill(adj.Quantity) {
		return nil, shared.NewInsufficientStockError(adj.ItemName, "", branchItem.Quantity, adj.Quantity)
	}

	branchItem.Apply(movement)
	if err := s.branchItems.Save(ctx, branchItem); err != nil {
		return nil, err
	}
	if err := s.ledger.Save(ctx, movement); err != nil {
		return nil, err
	}
	return movement, nil
}

// AdjustOnce applies a movement at most once per {reference, itemID, type}
// triple. Externally triggered stock effects (payment callbacks) go through
// here so duplicate deliveries cannot double-move stock. The existence check
// runs inside the caller's transaction, closing the race window with the
// subsequent insert.
func (s *StockService) AdjustOnce(ctx context.Context, adj Adjustment) (*StockLedger, bool, error) {
	if adj.Reference == "" {
		return nil, false, shared.NewValidationError("Idempotent stock adjustment requires a reference")
	}
	existing, err := s.ledger.FindByReferenceItemType(ctx, adj.CompanyID, adj.Reference, adj.ItemID, adj.Type)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}
	movement, err := s.Adjust(ctx, adj)
	if err != nil {
		return nil, false, err
	}
	return movement, true, nil
}
