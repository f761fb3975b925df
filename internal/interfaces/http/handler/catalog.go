package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	catalogapp "github.com/retailops/backend/internal/application/catalog"
)

// CatalogHandler handles category, product and item endpoints
type CatalogHandler struct {
	BaseHandler
	catalogService *catalogapp.Service
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *catalogapp.Service, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler:    NewBaseHandler(logger),
		catalogService: catalogService,
	}
}

// CreateCategoryRequest creates a category, optionally under a parent
type CreateCategoryRequest struct {
	Name     string     `json:"name" binding:"required,min=1,max=200"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// ItemRequest describes one sellable variant of a product
type ItemRequest struct {
	Variant   string          `json:"variant" binding:"max=200"`
	SKU       string          `json:"sku" binding:"max=100"`
	Price     decimal.Decimal `json:"price"`
	TaxRateID *uuid.UUID      `json:"tax_rate_id"`
}

// CreateProductRequest creates a product with its variants. When Items is
// empty a single default variant is created from the top-level fields.
type CreateProductRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=200"`
	SKU           string          `json:"sku" binding:"max=100"`
	Description   string          `json:"description" binding:"max=1000"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	SubCategoryID *uuid.UUID      `json:"sub_category_id"`
	Items         []ItemRequest   `json:"items"`
	Price         decimal.Decimal `json:"price"`
	TaxRateID     *uuid.UUID      `json:"tax_rate_id"`
}

// UpdateItemRequest carries the mutable fields of an item
type UpdateItemRequest struct {
	Variant   *string          `json:"variant" binding:"omitempty,max=200"`
	Price     *decimal.Decimal `json:"price"`
	TaxRateID *uuid.UUID       `json:"tax_rate_id"`
}

// CreateCategory creates a category
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), companyID, req.Name, req.ParentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// ListCategories returns all categories of the company
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}

	categories, err := h.catalogService.ListCategories(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// DeleteCategory removes a category
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	categoryID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteCategory(c.Request.Context(), companyID, categoryID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateProduct creates a product with its sellable items
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	input := catalogapp.CreateProductInput{
		CompanyID:     companyID,
		Name:          req.Name,
		SKU:           req.SKU,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		SubCategoryID: req.SubCategoryID,
		Price:         req.Price,
		TaxRateID:     req.TaxRateID,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, catalogapp.CreateItemInput{
			Variant:   item.Variant,
			SKU:       item.SKU,
			Price:     item.Price,
			TaxRateID: item.TaxRateID,
		})
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// GetProduct returns a product with its items
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	productID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), companyID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// ListProducts returns products, paginated and searchable by name or SKU
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}

	page, err := h.catalogService.ListProducts(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// AddItem adds a variant to an existing product
func (h *CatalogHandler) AddItem(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	productID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	item, err := h.catalogService.AddItem(c.Request.Context(), companyID, productID, catalogapp.CreateItemInput{
		Variant:   req.Variant,
		SKU:       req.SKU,
		Price:     req.Price,
		TaxRateID: req.TaxRateID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// UpdateItem updates a variant's mutable fields
func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	itemID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	item, err := h.catalogService.UpdateItem(c.Request.Context(), companyID, itemID, catalogapp.UpdateItemInput{
		Variant:   req.Variant,
		Price:     req.Price,
		TaxRateID: req.TaxRateID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// DeleteItem removes a variant
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	itemID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteItem(c.Request.Context(), companyID, itemID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
