package pos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appbilling "github.com/retailops/backend/internal/application/billing"
	"github.com/retailops/backend/internal/domain/pos"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartService manages the POS staging area: one ACTIVE cart per customer,
// mutated line by line and consumed whole by checkout.
type CartService struct {
	scope      appbilling.TransactionScope
	invoiceSvc *appbilling.InvoiceService
	paymentSvc *appbilling.PaymentService
	logger     *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(scope appbilling.TransactionScope, invoiceSvc *appbilling.InvoiceService, paymentSvc *appbilling.PaymentService, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		scope:      scope,
		invoiceSvc: invoiceSvc,
		paymentSvc: paymentSvc,
		logger:     logger,
	}
}

// AddItem adds an item to the customer's active cart, creating the cart on
// first use. An existing line for the item has its quantity increased and
// its total recomputed.
func (s *CartService) AddItem(ctx context.Context, input AddItemInput) (*pos.Cart, error) {
	quantity := input.Quantity
	if quantity.IsZero() {
		quantity = decimal.NewFromInt(1)
	}

	var cartID uuid.UUID
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		item, err := repos.Items().FindByID(ctx, input.CompanyID, input.ItemID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Item")
			}
			return err
		}

		cart, err := repos.Carts().FindActiveByCustomer(ctx, input.CompanyID, input.CustomerID)
		if errors.Is(err, shared.ErrNotFound) {
			cart, err = pos.NewCart(input.CompanyID, input.CustomerID)
			if err != nil {
				return err
			}
			if err := repos.Carts().Save(ctx, cart); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		cartID = cart.ID

		line, err := repos.Carts().FindItemByCartAndItem(ctx, input.CompanyID, cart.ID, item.ID)
		if errors.Is(err, shared.ErrNotFound) {
			line, err = pos.NewCartItem(input.CompanyID, cart.ID, item.ID, item.ProductID, quantity, item.Price)
			if err != nil {
				return err
			}
			return repos.Carts().SaveItem(ctx, line)
		}
		if err != nil {
			return err
		}
		if err := line.AddQuantity(quantity); err != nil {
			return err
		}
		return repos.Carts().SaveItem(ctx, line)
	})
	if err != nil {
		return nil, err
	}
	return s.getCart(ctx, input.CompanyID, cartID)
}

// Increment raises a cart line's quantity by one
func (s *CartService) Increment(ctx context.Context, companyID, cartItemID uuid.UUID) (*LineResult, error) {
	var result *LineResult
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		line, err := repos.Carts().FindItemByID(ctx, companyID, cartItemID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Cart item")
			}
			return err
		}
		if err := line.AddQuantity(decimal.NewFromInt(1)); err != nil {
			return err
		}
		if err := repos.Carts().SaveItem(ctx, line); err != nil {
			return err
		}
		result = &LineResult{Item: line}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Decrement lowers a cart line's quantity by one. A line reaching zero is
// deleted and reported as such, never stored with a non-positive quantity.
func (s *CartService) Decrement(ctx context.Context, companyID, cartItemID uuid.UUID) (*LineResult, error) {
	var result *LineResult
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		line, err := repos.Carts().FindItemByID(ctx, companyID, cartItemID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Cart item")
			}
			return err
		}
		if line.DecrementOne() {
			if err := repos.Carts().DeleteItem(ctx, companyID, line.ID); err != nil {
				return err
			}
			result = &LineResult{Deleted: true}
			return nil
		}
		if err := repos.Carts().SaveItem(ctx, line); err != nil {
			return err
		}
		result = &LineResult{Item: line}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetQuantity replaces a cart line's quantity
func (s *CartService) SetQuantity(ctx context.Context, companyID, cartItemID uuid.UUID, quantity decimal.Decimal) (*LineResult, error) {
	var result *LineResult
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		line, err := repos.Carts().FindItemByID(ctx, companyID, cartItemID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Cart item")
			}
			return err
		}
		if err := line.SetQuantity(quantity); err != nil {
			return err
		}
		if err := repos.Carts().SaveItem(ctx, line); err != nil {
			return err
		}
		result = &LineResult{Item: line}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveItem deletes a cart line
func (s *CartService) RemoveItem(ctx context.Context, companyID, cartItemID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		if _, err := repos.Carts().FindItemByID(ctx, companyID, cartItemID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Cart item")
			}
			return err
		}
		return repos.Carts().DeleteItem(ctx, companyID, cartItemID)
	})
}

// ListCarts lists all carts for a company
func (s *CartService) ListCarts(ctx context.Context, companyID uuid.UUID) ([]pos.Cart, error) {
	var carts []pos.Cart
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		found, err := repos.Carts().FindAll(ctx, companyID)
		if err != nil {
			return err
		}
		carts = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return carts, nil
}

// Checkout consumes a cart in one transaction: sale invoice through the
// full composer pipeline (stock decrement and journal entries included),
// payment for the paid amount, then destruction of the cart. The cart is
// single-use; the customer's next order starts a fresh one.
func (s *CartService) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	var result *CheckoutResult
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		cart, err := repos.Carts().FindByID(ctx, input.CompanyID, input.CartID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Cart")
			}
			return err
		}
		if len(cart.Items) == 0 {
			return shared.NewValidationError("Cannot check out an empty cart")
		}

		lines := make([]appbilling.SaleInvoiceLine, 0, len(cart.Items))
		for _, line := range cart.Items {
			lines = append(lines, appbilling.SaleInvoiceLine{
				ItemID:   line.ItemID,
				Quantity: line.Quantity,
				Price:    line.Price,
			})
		}
		branchID := input.BranchID
		invoice, err := s.invoiceSvc.CreateSaleInvoiceWith(ctx, repos, appbilling.CreateSaleInvoiceInput{
			CompanyID:  input.CompanyID,
			BranchID:   &branchID,
			CustomerID: &cart.CustomerID,
			Items:      lines,
		})
		if err != nil {
			return err
		}

		result = &CheckoutResult{Invoice: invoice}
		paid := input.Paid
		if paid.IsZero() {
			paid = invoice.TotalAmount.Add(invoice.TaxAmount)
		}
		if paid.IsPositive() {
			payment, err := s.paymentSvc.CreatePaymentWith(ctx, repos, appbilling.CreatePaymentInput{
				CompanyID: input.CompanyID,
				InvoiceID: invoice.ID,
				Amount:    paid,
				Method:    input.Method,
			})
			if err != nil {
				return err
			}
			result.Payment = payment
		}

		return repos.Carts().Delete(ctx, input.CompanyID, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Cart checked out",
		zap.String("cart_id", input.CartID.String()),
		zap.String("invoice_id", result.Invoice.ID.String()))
	return result, nil
}

// Finish deletes a cart without checkout, removing the ephemeral walk-in
// customer it belonged to.
func (s *CartService) Finish(ctx context.Context, companyID, cartID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		cart, err := repos.Carts().FindByID(ctx, companyID, cartID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Cart")
			}
			return err
		}
		if err := repos.Carts().Delete(ctx, companyID, cart.ID); err != nil {
			return err
		}
		customer, err := repos.Customers().FindByID(ctx, companyID, cart.CustomerID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil
			}
			return err
		}
		if customer.Ephemeral {
			return repos.Customers().Delete(ctx, companyID, customer.ID)
		}
		return nil
	})
}

func (s *CartService) getCart(ctx context.Context, companyID, cartID uuid.UUID) (*pos.Cart, error) {
	var cart *pos.Cart
	err := s.scope.Execute(ctx, func(repos appbilling.Repositories) error {
		found, err := repos.Carts().FindByID(ctx, companyID, cartID)
		if err != nil {
			return err
		}
		cart = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}
