package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	accountingapp "github.com/retailops/backend/internal/application/accounting"
)

// AccountingHandler handles ledger, trial balance and tax rate endpoints
type AccountingHandler struct {
	BaseHandler
	ledgerService  *accountingapp.LedgerService
	taxRateService *accountingapp.TaxRateService
}

// NewAccountingHandler creates a new AccountingHandler
func NewAccountingHandler(ledgerService *accountingapp.LedgerService, taxRateService *accountingapp.TaxRateService, logger *zap.Logger) *AccountingHandler {
	return &AccountingHandler{
		BaseHandler:    NewBaseHandler(logger),
		ledgerService:  ledgerService,
		taxRateService: taxRateService,
	}
}

// CreateTaxRateRequest creates a tax rate
type CreateTaxRateRequest struct {
	Name      string          `json:"name" binding:"required,min=1,max=100"`
	Rate      decimal.Decimal `json:"rate"`
	Type      string          `json:"type" binding:"max=50"`
	IsDefault bool            `json:"is_default"`
}

// UpdateTaxRateRequest updates a tax rate's mutable fields
type UpdateTaxRateRequest struct {
	Name      *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Rate      *decimal.Decimal `json:"rate"`
	IsDefault *bool            `json:"is_default"`
}

// TrialBalanceRequest bounds the trial balance period. Zero values mean
// an unbounded side.
type TrialBalanceRequest struct {
	From time.Time `form:"from" time_format:"2006-01-02"`
	To   time.Time `form:"to" time_format:"2006-01-02"`
}

// ListAccounts returns the company's chart of accounts
func (h *AccountingHandler) ListAccounts(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}

	accounts, err := h.ledgerService.ListAccounts(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, accounts)
}

// GetAccountLedger returns one account with its journal entries,
// newest first
func (h *AccountingHandler) GetAccountLedger(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	accountID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}

	ledger, err := h.ledgerService.GetAccountLedger(c.Request.Context(), companyID, accountID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ledger)
}

// GetEntriesByReference returns all journal entries posted under one
// reference, the full double-entry picture of a document
func (h *AccountingHandler) GetEntriesByReference(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}

	entries, err := h.ledgerService.GetEntriesByReference(c.Request.Context(), companyID, c.Param("reference"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// GetTrialBalance returns per-account debit and credit totals for a period
func (h *AccountingHandler) GetTrialBalance(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}

	var req TrialBalanceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid date range")
		return
	}

	balance, err := h.ledgerService.GetTrialBalance(c.Request.Context(), companyID, req.From, req.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// CreateTaxRate creates a tax rate, displacing the previous default when
// is_default is set
func (h *AccountingHandler) CreateTaxRate(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}

	var req CreateTaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	taxRate, err := h.taxRateService.CreateTaxRate(c.Request.Context(), accountingapp.CreateTaxRateInput{
		CompanyID: companyID,
		Name:      req.Name,
		Rate:      req.Rate,
		Type:      req.Type,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, taxRate)
}

// ListTaxRates returns the company's tax rates
func (h *AccountingHandler) ListTaxRates(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}

	taxRates, err := h.taxRateService.ListTaxRates(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, taxRates)
}

// UpdateTaxRate updates a tax rate
func (h *AccountingHandler) UpdateTaxRate(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	taxRateID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	taxRate, err := h.taxRateService.UpdateTaxRate(c.Request.Context(), companyID, taxRateID, accountingapp.UpdateTaxRateInput{
		Name:      req.Name,
		Rate:      req.Rate,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, taxRate)
}

// DeleteTaxRate removes a tax rate. Historical invoice tax rows keep the
// captured name and rate.
func (h *AccountingHandler) DeleteTaxRate(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	taxRateID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.taxRateService.DeleteTaxRate(c.Request.Context(), companyID, taxRateID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
