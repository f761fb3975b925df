package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	billingapp "github.com/retailops/backend/internal/application/billing"
	"github.com/retailops/backend/internal/domain/billing"
)

// InvoiceHandler handles sale and purchase invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		BaseHandler:    NewBaseHandler(logger),
		invoiceService: invoiceService,
	}
}

// SaleLineRequest is one line of a sale invoice
type SaleLineRequest struct {
	ItemID    uuid.UUID       `json:"item_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	TaxRateID *uuid.UUID      `json:"tax_rate_id"`
}

// CreateSaleInvoiceRequest creates a sale invoice
type CreateSaleInvoiceRequest struct {
	BranchID   *uuid.UUID        `json:"branch_id"`
	CustomerID *uuid.UUID        `json:"customer_id"`
	Date       time.Time         `json:"date"`
	DueDate    *time.Time        `json:"due_date"`
	Items      []SaleLineRequest `json:"items" binding:"required,min=1"`
}

// ProductDataRequest describes a product created during purchase intake
type ProductDataRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=200"`
	SKU           string          `json:"sku" binding:"max=100"`
	Description   string          `json:"description" binding:"max=1000"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	SubCategoryID *uuid.UUID      `json:"sub_category_id"`
	Variant       string          `json:"variant" binding:"max=200"`
	Price         decimal.Decimal `json:"price"`
}

// PurchaseLineRequest is one line of a purchase invoice. Exactly one of
// item_id, product_id or product_data identifies the goods.
type PurchaseLineRequest struct {
	ItemID      *uuid.UUID          `json:"item_id"`
	ProductID   *uuid.UUID          `json:"product_id"`
	ProductData *ProductDataRequest `json:"product_data"`
	Quantity    decimal.Decimal     `json:"quantity"`
	Price       decimal.Decimal     `json:"price"`
	TaxRateID   *uuid.UUID          `json:"tax_rate_id"`
	Location    string              `json:"location" binding:"max=200"`
}

// CreatePurchaseInvoiceRequest creates a purchase invoice
type CreatePurchaseInvoiceRequest struct {
	BranchID *uuid.UUID            `json:"branch_id"`
	VendorID *uuid.UUID            `json:"vendor_id"`
	Date     time.Time             `json:"date"`
	DueDate  *time.Time            `json:"due_date"`
	Items    []PurchaseLineRequest `json:"items" binding:"required,min=1"`
}

// CreateSale creates a sale invoice: lines, derived taxes and totals,
// stock decrements and balanced journal entries in one transaction
func (h *InvoiceHandler) CreateSale(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}

	var req CreateSaleInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	branchID := req.BranchID
	if branchID == nil {
		branchID = h.branchID(c)
	}

	input := billingapp.CreateSaleInvoiceInput{
		CompanyID:  companyID,
		BranchID:   branchID,
		CustomerID: req.CustomerID,
		Date:       req.Date,
		DueDate:    req.DueDate,
	}
	for _, line := range req.Items {
		input.Items = append(input.Items, billingapp.SaleInvoiceLine{
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			Price:     line.Price,
			TaxRateID: line.TaxRateID,
		})
	}

	invoice, err := h.invoiceService.CreateSaleInvoice(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// CreatePurchase creates a purchase invoice, resolving each line to an
// existing item, a new variant, or a brand new product
func (h *InvoiceHandler) CreatePurchase(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}

	var req CreatePurchaseInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	branchID := req.BranchID
	if branchID == nil {
		branchID = h.branchID(c)
	}

	input := billingapp.CreatePurchaseInvoiceInput{
		CompanyID: companyID,
		BranchID:  branchID,
		VendorID:  req.VendorID,
		Date:      req.Date,
		DueDate:   req.DueDate,
	}
	for _, line := range req.Items {
		appLine := billingapp.PurchaseInvoiceLine{
			ItemID:    line.ItemID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
			TaxRateID: line.TaxRateID,
			Location:  line.Location,
		}
		if line.ProductData != nil {
			appLine.ProductData = &billingapp.ProductData{
				Name:          line.ProductData.Name,
				SKU:           line.ProductData.SKU,
				Description:   line.ProductData.Description,
				CategoryID:    line.ProductData.CategoryID,
				SubCategoryID: line.ProductData.SubCategoryID,
				Variant:       line.ProductData.Variant,
				Price:         line.ProductData.Price,
			}
		}
		input.Items = append(input.Items, appLine)
	}

	invoice, err := h.invoiceService.CreatePurchaseInvoice(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// Get returns an invoice with its lines, tax rows and payments
func (h *InvoiceHandler) Get(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	invoiceID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), companyID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List returns invoices, paginated. The type query parameter filters
// SALE or PURCHASE invoices; empty lists all.
func (h *InvoiceHandler) List(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}

	var invoiceType billing.InvoiceType
	switch t := c.Query("type"); t {
	case "":
	case string(billing.InvoiceTypeSale), string(billing.InvoiceTypePurchase), string(billing.InvoiceTypeExpense):
		invoiceType = billing.InvoiceType(t)
	default:
		h.BadRequest(c, "Invalid invoice type")
		return
	}

	page, err := h.invoiceService.ListInvoices(c.Request.Context(), companyID, invoiceType, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}
