package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	inventoryapp "github.com/retailops/backend/internal/application/inventory"
	"github.com/retailops/backend/internal/domain/inventory"
)

// StockHandler handles branch stock and stock ledger endpoints
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockService, logger *zap.Logger) *StockHandler {
	return &StockHandler{
		BaseHandler:  NewBaseHandler(logger),
		stockService: stockService,
	}
}

// AdjustStockRequest records a manual stock movement. SALE movements are
// rejected; sales move stock through invoices.
type AdjustStockRequest struct {
	BranchID  uuid.UUID       `json:"branch_id" binding:"required"`
	ItemID    uuid.UUID       `json:"item_id" binding:"required"`
	Type      string          `json:"type" binding:"required,oneof=PURCHASE ADJUSTMENT"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reference string          `json:"reference" binding:"max=200"`
	Note      string          `json:"note" binding:"max=500"`
}

// Adjust records a manual PURCHASE or ADJUSTMENT movement
func (h *StockHandler) Adjust(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	entry, err := h.stockService.AdjustStock(c.Request.Context(), inventoryapp.AdjustStockInput{
		CompanyID: companyID,
		BranchID:  req.BranchID,
		ItemID:    req.ItemID,
		Type:      inventory.MovementType(req.Type),
		Quantity:  req.Quantity,
		Reference: req.Reference,
		Note:      req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// ListBranchStock returns the per-item quantities of a branch
func (h *StockHandler) ListBranchStock(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	branchID, ok := h.uuidParam(c, "branchId")
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}

	page, err := h.stockService.ListBranchStock(c.Request.Context(), companyID, branchID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// ListMovements returns the stock ledger of one item at a branch,
// newest first
func (h *StockHandler) ListMovements(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	branchID, ok := h.uuidParam(c, "branchId")
	if !ok {
		return
	}
	itemID, ok := h.uuidParam(c, "itemId")
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}

	page, err := h.stockService.ListMovements(c.Request.Context(), companyID, branchID, itemID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}
