package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	posapp "github.com/retailops/backend/internal/application/pos"
)

// CartHandler handles POS cart endpoints
type CartHandler struct {
	BaseHandler
	cartService *posapp.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *posapp.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		BaseHandler: NewBaseHandler(logger),
		cartService: cartService,
	}
}

// AddCartItemRequest adds an item to a customer's active cart. The cart
// is created lazily on first add. Quantity defaults to 1.
type AddCartItemRequest struct {
	CustomerID uuid.UUID       `json:"customer_id" binding:"required"`
	ItemID     uuid.UUID       `json:"item_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// SetQuantityRequest replaces a cart line's quantity
type SetQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// CheckoutRequest converts a cart into a sale invoice plus payment.
// Paid defaults to the invoice's grand total.
type CheckoutRequest struct {
	BranchID uuid.UUID       `json:"branch_id" binding:"required"`
	Method   string          `json:"method" binding:"required,oneof=CASH CARD UPI BANK_TRANSFER CHEQUE"`
	Paid     decimal.Decimal `json:"paid"`
}

// AddItem adds an item to the customer's active cart
func (h *CartHandler) AddItem(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), posapp.AddItemInput{
		CompanyID:  companyID,
		CustomerID: req.CustomerID,
		ItemID:     req.ItemID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// List returns the company's open carts
func (h *CartHandler) List(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}

	carts, err := h.cartService.ListCarts(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, carts)
}

// IncrementLine adds one to a cart line's quantity
func (h *CartHandler) IncrementLine(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	lineID, ok := h.uuidParam(c, "lineId")
	if !ok {
		return
	}

	result, err := h.cartService.Increment(c.Request.Context(), companyID, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// DecrementLine subtracts one from a cart line's quantity, removing the
// line when it reaches zero
func (h *CartHandler) DecrementLine(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	lineID, ok := h.uuidParam(c, "lineId")
	if !ok {
		return
	}

	result, err := h.cartService.Decrement(c.Request.Context(), companyID, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SetLineQuantity replaces a cart line's quantity
func (h *CartHandler) SetLineQuantity(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	lineID, ok := h.uuidParam(c, "lineId")
	if !ok {
		return
	}

	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.cartService.SetQuantity(c.Request.Context(), companyID, lineID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RemoveLine removes a cart line
func (h *CartHandler) RemoveLine(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	lineID, ok := h.uuidParam(c, "lineId")
	if !ok {
		return
	}

	if err := h.cartService.RemoveItem(c.Request.Context(), companyID, lineID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Checkout converts the cart into a sale invoice plus payment and
// destroys the cart, all in one transaction
func (h *CartHandler) Checkout(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	cartID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.cartService.Checkout(c.Request.Context(), posapp.CheckoutInput{
		CompanyID: companyID,
		CartID:    cartID,
		BranchID:  req.BranchID,
		Method:    req.Method,
		Paid:      req.Paid,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Finish abandons a cart without checkout, deleting the cart and any
// ephemeral walk-in customer attached to it
func (h *CartHandler) Finish(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	cartID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.cartService.Finish(c.Request.Context(), companyID, cartID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
