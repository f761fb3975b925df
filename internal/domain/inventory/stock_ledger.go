package inventory

import (
	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementType classifies a stock movement
type MovementType string

const (
	MovementPurchase   MovementType = "PURCHASE"
	MovementSale       MovementType = "SALE"
	MovementAdjustment MovementType = "ADJUSTMENT"
)

// IsValid checks if the type is a known MovementType
func (t MovementType) IsValid() bool {
	switch t {
	case MovementPurchase, MovementSale, MovementAdjustment:
		return true
	}
	return false
}

// Sign returns +1 for inbound movements and -1 for sales
func (t MovementType) Sign() int {
	if t == MovementSale {
		return -1
	}
	return 1
}

// StockLedger is an append-only movement record. Rows are never mutated;
// they are the audit trail for every BranchItem quantity change.
// Invariant: sum of signed quantities for a branch-item pair equals the
// current BranchItem quantity.
type StockLedger struct {
	shared.TenantEntity
	BranchID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_ledger_branch_item,priority:1" json:"branchId"`
	ItemID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_ledger_branch_item,priority:2" json:"itemId"`
	Type      MovementType    `gorm:"not null" json:"type"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"quantity"`
	Reference string          `gorm:"index" json:"reference"`
	Note      string          `json:"note"`
}

// TableName returns the table name for GORM
func (StockLedger) TableName() string {
	return "stock_ledger"
}

// NewStockLedger creates a movement record. Quantity is stored unsigned;
// the sign is derived from the movement type.
func NewStockLedger(companyID, branchID, itemID uuid.UUID, movementType MovementType, quantity decimal.Decimal, reference, note string) (*StockLedger, error) {
	if !movementType.IsValid() {
		return nil, shared.NewValidationError("Invalid stock movement type: " + string(movementType))
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Stock movement quantity must be positive")
	}
	return &StockLedger{
		TenantEntity: shared.NewTenantEntity(companyID),
		BranchID:     branchID,
		ItemID:       itemID,
		Type:         movementType,
		Quantity:     quantity,
		Reference:    reference,
		Note:         note,
	}, nil
}

// SignedQuantity returns the quantity signed by movement type:
// PURCHASE and ADJUSTMENT are positive, SALE is negative.
func (s *StockLedger) SignedQuantity() decimal.Decimal {
	if s.Type.Sign() < 0 {
		return s.Quantity.Neg()
	}
	return s.Quantity
}
