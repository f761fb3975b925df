package pos

import (
	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/billing"
	"github.com/retailops/backend/internal/domain/pos"
	"github.com/shopspring/decimal"
)

// AddItemInput adds an item to a customer's active cart, creating the cart
// lazily on first add.
type AddItemInput struct {
	CompanyID  uuid.UUID       `json:"companyId"`
	CustomerID uuid.UUID       `json:"customerId"`
	ItemID     uuid.UUID       `json:"itemId"`
	Quantity   decimal.Decimal `json:"quantity,omitempty"`
}

// LineResult is the snapshot returned by cart line mutations. Deleted is
// true when a decrement removed the line instead of updating it.
type LineResult struct {
	Item    *pos.CartItem `json:"item,omitempty"`
	Deleted bool          `json:"deleted"`
}

// CheckoutInput consumes a cart into a sale invoice plus payment
type CheckoutInput struct {
	CompanyID uuid.UUID       `json:"companyId"`
	CartID    uuid.UUID       `json:"cartId"`
	BranchID  uuid.UUID       `json:"branchId"`
	Method    string          `json:"method"`
	Paid      decimal.Decimal `json:"paid,omitempty"`
}

// CheckoutResult reports the invoice produced by a checkout
type CheckoutResult struct {
	Invoice *billing.Invoice `json:"invoice"`
	Payment *billing.Payment `json:"payment,omitempty"`
}
