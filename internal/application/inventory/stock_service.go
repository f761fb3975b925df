package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appbilling "github.com/retailops/backend/internal/application/billing"
	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AdjustStockInput is a manual stock movement request. SALE movements are
// reserved for the invoice pipeline; manual moves are PURCHASE or
// ADJUSTMENT and always increase stock.
type AdjustStockInput struct {
	CompanyID uuid.UUID              `json:"companyId"`
	BranchID  uuid.UUID              `json:"branchId"`
	ItemID    uuid.UUID              `json:"itemId"`
	Type      inventory.MovementType `json:"type"`
	Quantity  decimal.Decimal        `json:"quantity"`
	Reference string                 `json:"reference,omitempty"`
	Note      string                 `json:"note,omitempty"`
}

// StockService is the operator-facing surface over the stock ledger engine:
// manual adjustments, branch stock listings and movement history.
type StockService struct {
	scope  appbilling.TransactionScope
	logger *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(scope appbilling.TransactionScope, logger *zap.Logger) *StockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockService{scope: scope, logger: logger}
}

// AdjustStock applies a manual stock movement through the ledger engine
func (s *StockService) AdjustStock(ctx context.Context, input AdjustStockInput) (*inventory.StockLedger, error) {
	if input.Type == inventory.MovementSale {
		return nil, shared.NewValidationError("Manual SALE movements are not allowed; sales move stock through invoices")
	}
	var movement *inventory.StockLedger
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		item, err := repos.Items().FindByID(ctx, input.CompanyID, input.ItemID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Item")
			}
			return err
		}
		created, err := appbilling.StockServiceFor(repos).Adjust(ctx, inventory.Adjustment{
			CompanyID: input.CompanyID,
			BranchID:  input.BranchID,
			ItemID:    input.ItemID,
			Type:      input.Type,
			Quantity:  input.Quantity,
			Reference: input.Reference,
			Note:      input.Note,
			ItemName:  item.DisplayName(),
			Defaults:  inventory.BranchItemDefaults{Price: item.Price},
		})
		if err != nil {
			return err
		}
		movement = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Stock adjusted",
		zap.String("item_id", input.ItemID.String()),
		zap.String("branch_id", input.BranchID.String()),
		zap.String("type", string(input.Type)),
		zap.String("quantity", input.Quantity.String()))
	return movement, nil
}

// ListBranchStock lists the stock rows of a branch
func (s *StockService) ListBranchStock(ctx context.Context, companyID, branchID uuid.UUID, filter shared.Filter) (*shared.Paginated[inventory.BranchItem], error) {
	var page *shared.Paginated[inventory.BranchItem]
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		rows, total, err := repos.BranchItems().FindByBranch(ctx, companyID, branchID, filter)
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

// ListMovements returns the movement history of a branch-item pair
func (s *StockService) ListMovements(ctx context.Context, companyID, branchID, itemID uuid.UUID, filter shared.Filter) (*shared.Paginated[inventory.StockLedger], error) {
	var page *shared.Paginated[inventory.StockLedger]
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		rows, total, err := repos.StockLedger().FindByItem(ctx, companyID, branchID, itemID, filter)
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
