package inventory

import (
	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BranchItem is the authoritative stock row for a branch-item pair.
// Created lazily with zero quantity on first reference. Its quantity is only
// ever changed together with an appended StockLedger row, inside the same
// transaction, so that the ledger sum always equals the stored quantity.
type BranchItem struct {
	shared.TenantEntity
	BranchID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_branch_items_branch_item,priority:1" json:"branchId"`
	ItemID   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_branch_items_branch_item,priority:2" json:"itemId"`
	Quantity decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0" json:"quantity"`
	Price    decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0" json:"price"`
	MRP      *decimal.Decimal `gorm:"type:decimal(18,2)" json:"mrp,omitempty"`
}

// TableName returns the table name for GORM
func (BranchItem) TableName() string {
	return "branch_items"
}

// NewBranchItem creates a stock row with zero quantity
func NewBranchItem(companyID, branchID, itemID uuid.UUID, price decimal.Decimal, mrp *decimal.Decimal) (*BranchItem, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewValidationError("Branch ID cannot be empty")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewValidationError("Item ID cannot be empty")
	}
	return &BranchItem{
		TenantEntity: shared.NewTenantEntity(companyID),
		BranchID:     branchID,
		ItemID:       itemID,
		Quantity:     decimal.Zero,
		Price:        price,
		MRP:          mrp,
	}, nil
}

// CanFulfill reports whether the on-hand quantity covers the request
func (b *BranchItem) CanFulfill(quantity decimal.Decimal) bool {
	return b.Quantity.GreaterThanOrEqual(quantity)
}

// Apply adjusts the on-hand quantity by the signed delta of a movement
func (b *BranchItem) Apply(movement *StockLedger) {
	b.Quantity = b.Quantity.Add(movement.SignedQuantity())
}
