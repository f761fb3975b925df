package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	billingapp "github.com/retailops/backend/internal/application/billing"
)

// PaymentHandler handles direct payment endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *billingapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *billingapp.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    NewBaseHandler(logger),
		paymentService: paymentService,
	}
}

// CreatePaymentRequest records a payment against an invoice
type CreatePaymentRequest struct {
	InvoiceID   uuid.UUID       `json:"invoice_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method" binding:"required,oneof=CASH CARD UPI BANK_TRANSFER CHEQUE"`
	ReferenceNo string          `json:"reference_no" binding:"max=100"`
	Date        time.Time       `json:"date"`
}

// Create records a payment and re-derives the invoice status
func (h *PaymentHandler) Create(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), billingapp.CreatePaymentInput{
		CompanyID:   companyID,
		InvoiceID:   req.InvoiceID,
		Amount:      req.Amount,
		Method:      req.Method,
		ReferenceNo: req.ReferenceNo,
		Date:        req.Date,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// ListByInvoice returns all payments recorded against an invoice
func (h *PaymentHandler) ListByInvoice(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	invoiceID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	payments, err := h.paymentService.ListByInvoice(c.Request.Context(), companyID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// Delete removes a payment and re-derives the invoice status
func (h *PaymentHandler) Delete(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	paymentID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.paymentService.DeletePayment(c.Request.Context(), companyID, paymentID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
