package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	billingapp "github.com/retailops/backend/internal/application/billing"
	"github.com/retailops/backend/internal/domain/billing"
)

// PaymentCallbackHandler handles payment gateway webhook deliveries.
// The endpoint is public: gateways authenticate deliveries out of band,
// and duplicate deliveries are absorbed idempotently.
type PaymentCallbackHandler struct {
	BaseHandler
	callbackService *billingapp.CallbackService
}

// NewPaymentCallbackHandler creates a new PaymentCallbackHandler
func NewPaymentCallbackHandler(callbackService *billingapp.CallbackService, logger *zap.Logger) *PaymentCallbackHandler {
	return &PaymentCallbackHandler{
		BaseHandler:     NewBaseHandler(logger),
		callbackService: callbackService,
	}
}

// PaymentCallbackRequest is the webhook payload sent by the gateway
type PaymentCallbackRequest struct {
	CompanyID   uuid.UUID       `json:"company_id" binding:"required"`
	PaymentID   string          `json:"payment_id" binding:"required,max=200"`
	InvoiceID   uuid.UUID       `json:"invoice_id" binding:"required"`
	Status      string          `json:"status" binding:"required,oneof=PENDING SUCCESS FAILED"`
	Amount      decimal.Decimal `json:"amount"`
	Gateway     string          `json:"gateway" binding:"max=100"`
	RawResponse string          `json:"raw_response"`
}

// Handle processes one webhook delivery. Replays of an already processed
// gateway payment ID return the first delivery's result with 200.
func (h *PaymentCallbackHandler) Handle(c *gin.Context) {
	var req PaymentCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.callbackService.HandleCallback(c.Request.Context(), billingapp.CallbackInput{
		CompanyID:   req.CompanyID,
		PaymentID:   req.PaymentID,
		InvoiceID:   req.InvoiceID,
		Status:      billing.PaymentStatus(req.Status),
		Amount:      req.Amount,
		Gateway:     req.Gateway,
		RawResponse: req.RawResponse,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
