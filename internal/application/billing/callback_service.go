package billing

import (
	"context"
	"errors"
	"time"

	"github.com/retailops/backend/internal/domain/billing"
	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CallbackService consumes payment gateway webhooks. Deliveries are
// at-least-once and may arrive concurrently; every branch absorbs
// duplicates instead of rejecting them. The unique constraint on the
// gateway payment id is the authoritative guard; the idempotency store is
// only a fast path that spares the database on hot retries.
type CallbackService struct {
	scope  TransactionScope
	idem   shared.IdempotencyStore
	logger *zap.Logger
}

// NewCallbackService creates a new CallbackService. The idempotency store
// is optional; without it every delivery goes straight to the database.
func NewCallbackService(scope TransactionScope, idem shared.IdempotencyStore, logger *zap.Logger) *CallbackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CallbackService{scope: scope, idem: idem, logger: logger}
}

// HandleCallback finalizes one gateway delivery: at most one payment row and
// at most one stock decrement per invoice item, no matter how many times the
// gateway retries.
func (s *CallbackService) HandleCallback(ctx context.Context, input CallbackInput) (*CallbackResult, error) {
	if input.PaymentID == "" {
		return nil, shared.NewValidationError("Gateway payment ID is required")
	}

	marked := true
	if s.idem != nil {
		newlyMarked, err := s.idem.MarkProcessed(ctx, callbackKey(input.PaymentID), shared.DefaultIdempotencyTTL)
		if err != nil {
			// The store is an optimization; fall through to the database.
			s.logger.Warn("Idempotency store unavailable", zap.Error(err))
		} else {
			marked = newlyMarked
		}
	}
	if !marked {
		s.logger.Info("Duplicate callback absorbed by idempotency store",
			zap.String("gateway_payment_id", input.PaymentID))
	}

	result, err := s.handle(ctx, input)
	if err != nil {
		// Allow the gateway to retry a failed delivery.
		if s.idem != nil && marked {
			if forgetErr := s.idem.Forget(ctx, callbackKey(input.PaymentID)); forgetErr != nil {
				s.logger.Warn("Failed to release idempotency key", zap.Error(forgetErr))
			}
		}
		return nil, err
	}
	return result, nil
}

func (s *CallbackService) handle(ctx context.Context, input CallbackInput) (*CallbackResult, error) {
	var result *CallbackResult
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		// The existence check runs inside the same transaction as the
		// insert, closing the race window between concurrent deliveries.
		existing, err := repos.Payments().FindByGatewayPaymentID(ctx, input.CompanyID, input.PaymentID)
		if err == nil {
			result = &CallbackResult{
				Message:   "Callback already processed",
				InvoiceID: existing.InvoiceID,
				PaymentID: existing.ID,
				Duplicate: true,
			}
			return nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		invoice, err := repos.Invoices().FindByIDWithDetails(ctx, input.CompanyID, input.InvoiceID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Invoice")
			}
			return err
		}

		payment, err := billing.NewGatewayPayment(input.CompanyID, invoice.ID,
			input.PaymentID, input.Gateway, input.Amount, input.Status, input.RawResponse)
		if err != nil {
			return err
		}
		// The insert runs in its own savepoint: on Postgres a unique
		// violation aborts the surrounding transaction, and the recovery
		// lookup below needs a live one.
		err = repos.Atomic(func(inner Repositories) error {
			return inner.Payments().Save(ctx, payment)
		})
		if err != nil {
			// A concurrent delivery won the insert race; surface its result.
			if errors.Is(err, shared.ErrConflict) {
				winner, findErr := repos.Payments().FindByGatewayPaymentID(ctx, input.CompanyID, input.PaymentID)
				if findErr != nil {
					return findErr
				}
				result = &CallbackResult{
					Message:   "Callback already processed",
					InvoiceID: winner.InvoiceID,
					PaymentID: winner.ID,
					Duplicate: true,
				}
				return nil
			}
			return err
		}

		switch input.Status {
		case billing.PaymentStatusFailed:
			invoice.MarkFailed()
			if err := repos.Invoices().Save(ctx, invoice); err != nil {
				return err
			}
			result = &CallbackResult{
				Message:   "Payment failed",
				InvoiceID: invoice.ID,
				PaymentID: payment.ID,
			}
			return nil

		case billing.PaymentStatusSuccess:
			invoice.MarkPaid(time.Now())
			if err := repos.Invoices().Save(ctx, invoice); err != nil {
				return err
			}
			if err := s.settleStock(ctx, repos, invoice); err != nil {
				return err
			}
			result = &CallbackResult{
				Message:   "Payment confirmed",
				InvoiceID: invoice.ID,
				PaymentID: payment.ID,
			}
			return nil

		default:
			result = &CallbackResult{
				Message:   "Payment pending",
				InvoiceID: invoice.ID,
				PaymentID: payment.ID,
			}
			return nil
		}
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// settleStock decrements stock for every invoice item that has not already
// been moved by the direct checkout path. Checkout and callback may race or
// duplicate; the {reference, item, type} check makes the effect
// at-most-once per line.
func (s *CallbackService) settleStock(ctx context.Context, repos Repositories, invoice *billing.Invoice) error {
	if invoice.BranchID == nil {
		s.logger.Warn("Invoice has no branch; skipping stock settlement",
			zap.String("invoice_id", invoice.ID.String()))
		return nil
	}
	stock := StockServiceFor(repos)
	for _, line := range invoice.Items {
		itemName := line.ItemID.String()
		if item, err := repos.Items().FindByID(ctx, invoice.CompanyID, line.ItemID); err == nil {
			itemName = item.DisplayName()
		}
		_, applied, err := stock.AdjustOnce(ctx, inventory.Adjustment{
			CompanyID: invoice.CompanyID,
			BranchID:  *invoice.BranchID,
			ItemID:    line.ItemID,
			Type:      inventory.MovementSale,
			Quantity:  line.Quantity,
			Reference: invoice.ID.String(),
			Note:      "Gateway settlement " + invoice.InvoiceNumber,
			ItemName:  itemName,
			Defaults:  inventory.BranchItemDefaults{Price: line.Price},
		})
		if err != nil {
			return err
		}
		if !applied {
			s.logger.Debug("Stock already settled for invoice line",
				zap.String("invoice_id", invoice.ID.String()),
				zap.String("item_id", line.ItemID.String()))
		}
	}
	return nil
}

func callbackKey(gatewayPaymentID string) string {
	return "payment:callback:" + gatewayPaymentID
}
