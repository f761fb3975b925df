package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	companyapp "github.com/retailops/backend/internal/application/company"
)

// CompanyHandler handles tenant provisioning and branch endpoints
type CompanyHandler struct {
	BaseHandler
	companyService *companyapp.Service
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyService *companyapp.Service, logger *zap.Logger) *CompanyHandler {
	return &CompanyHandler{
		BaseHandler:    NewBaseHandler(logger),
		companyService: companyService,
	}
}

// OnboardRequest provisions a new tenant
type OnboardRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=200"`
	Email      string `json:"email" binding:"omitempty,email,max=200"`
	Phone      string `json:"phone" binding:"max=50"`
	Address    string `json:"address" binding:"max=500"`
	BranchName string `json:"branch_name" binding:"max=200"`
}

// CreateBranchRequest adds a branch to the current company
type CreateBranchRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Address string `json:"address" binding:"max=500"`
}

// Onboard provisions a company with its main branch, default chart of
// accounts and default tax rate
func (h *CompanyHandler) Onboard(c *gin.Context) {
	var req OnboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.companyService.Onboard(c.Request.Context(), companyapp.OnboardInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		BranchName: req.BranchName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Get returns the authenticated tenant's company
func (h *CompanyHandler) Get(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}

	comp, err := h.companyService.GetCompany(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, comp)
}

// List returns all companies, paginated
func (h *CompanyHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}

	page, err := h.companyService.ListCompanies(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// CreateBranch adds a non-main branch
func (h *CompanyHandler) CreateBranch(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}

	var req CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	branch, err := h.companyService.CreateBranch(c.Request.Context(), companyID, req.Name, req.Address)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, branch)
}

// ListBranches returns all branches of the company
func (h *CompanyHandler) ListBranches(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}

	branches, err := h.companyService.ListBranches(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, branches)
}

// DeleteBranch removes a branch. The main branch cannot be deleted.
func (h *CompanyHandler) DeleteBranch(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	branchID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.companyService.DeleteBranch(c.Request.Context(), companyID, branchID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Purge deletes the company and every row belonging to it
func (h *CompanyHandler) Purge(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}

	if err := h.companyService.PurgeCompany(c.Request.Context(), companyID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
