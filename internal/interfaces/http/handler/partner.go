package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	partnerapp "github.com/retailops/backend/internal/application/partner"
)

// PartnerHandler handles customer and vendor endpoints
type PartnerHandler struct {
	BaseHandler
	partnerService *partnerapp.Service
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(partnerService *partnerapp.Service, logger *zap.Logger) *PartnerHandler {
	return &PartnerHandler{
		BaseHandler:    NewBaseHandler(logger),
		partnerService: partnerService,
	}
}

// CreateCustomerRequest creates a named customer
type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Address string `json:"address" binding:"max=500"`
}

// CreateWalkInCustomerRequest creates an ephemeral POS customer. The name
// is optional; a placeholder is generated when absent.
type CreateWalkInCustomerRequest struct {
	Name string `json:"name" binding:"max=200"`
}

// CreateVendorRequest creates a vendor
type CreateVendorRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Address string `json:"address" binding:"max=500"`
	GSTIN   string `json:"gstin" binding:"max=20"`
}

// CreateCustomer creates a customer
func (h *PartnerHandler) CreateCustomer(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}

	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	customer, err := h.partnerService.CreateCustomer(c.Request.Context(), partnerapp.CreateCustomerInput{
		CompanyID: companyID,
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// CreateWalkInCustomer creates an ephemeral customer for a POS session.
// Walk-in customers are deleted when their cart finishes.
func (h *PartnerHandler) CreateWalkInCustomer(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}

	var req CreateWalkInCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	customer, err := h.partnerService.CreateWalkInCustomer(c.Request.Context(), companyID, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// GetCustomer returns a customer by ID
func (h *PartnerHandler) GetCustomer(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	customerID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	customer, err := h.partnerService.GetCustomer(c.Request.Context(), companyID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// ListCustomers returns customers, paginated and searchable
func (h *PartnerHandler) ListCustomers(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}

	page, err := h.partnerService.ListCustomers(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// DeleteCustomer removes a customer
func (h *PartnerHandler) DeleteCustomer(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	customerID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.partnerService.DeleteCustomer(c.Request.Context(), companyID, customerID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateVendor creates a vendor
func (h *PartnerHandler) CreateVendor(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}

	var req CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	vendor, err := h.partnerService.CreateVendor(c.Request.Context(), partnerapp.CreateVendorInput{
		CompanyID: companyID,
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		GSTIN:     req.GSTIN,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, vendor)
}

// GetVendor returns a vendor by ID
func (h *PartnerHandler) GetVendor(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	vendorID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	vendor, err := h.partnerService.GetVendor(c.Request.Context(), companyID, vendorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, vendor)
}

// ListVendors returns vendors, paginated and searchable
func (h *PartnerHandler) ListVendors(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}

	page, err := h.partnerService.ListVendors(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// DeleteVendor removes a vendor
func (h *PartnerHandler) DeleteVendor(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	vendorID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.partnerService.DeleteVendor(c.Request.Context(), companyID, vendorID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
