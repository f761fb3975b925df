package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovementType_Sign(t *testing.T) {
	assert.Equal(t, 1, MovementPurchase.Sign())
	assert.Equal(t, 1, MovementAdjustment.Sign())
	assert.Equal(t, -1, MovementSale.Sign())
}

func TestNewStockLedger(t *testing.T) {
	companyID, branchID, itemID := uuid.New(), uuid.New(), uuid.New()

	movement, err := NewStockLedger(companyID, branchID, itemID, MovementSale,
		decimal.NewFromInt(3), "inv-1", "")
	require.NoError(t, err)
	assert.True(t, movement.Quantity.Equal(decimal.NewFromInt(3)), "quantity is stored unsigned")
	assert.True(t, movement.SignedQuantity().Equal(decimal.NewFromInt(-3)))

	_, err = NewStockLedger(companyID, branchID, itemID, MovementType("TRANSFER"),
		decimal.NewFromInt(1), "", "")
	require.Error(t, err)

	_, err = NewStockLedger(companyID, branchID, itemID, MovementPurchase,
		decimal.Zero, "", "")
	require.Error(t, err)

	_, err = NewStockLedger(companyID, branchID, itemID, MovementPurchase,
		decimal.NewFromInt(-5), "", "")
	require.Error(t, err)
}

func TestBranchItem_ApplyKeepsLedgerInvariant(t *testing.T) {
	companyID, branchID, itemID := uuid.New(), uuid.New(), uuid.New()

	row, err := NewBranchItem(companyID, branchID, itemID, decimal.NewFromInt(100), nil)
	require.NoError(t, err)
	assert.True(t, row.Quantity.IsZero())

	movements := []struct {
		typ MovementType
		qty int64
	}{
		{MovementPurchase, 10},
		{MovementSale, 4},
		{MovementAdjustment, 1},
		{MovementSale, 2},
	}
	total := decimal.Zero
	for _, m := range movements {
		movement, err := NewStockLedger(companyID, branchID, itemID, m.typ,
			decimal.NewFromInt(m.qty), "", "")
		require.NoError(t, err)
		row.Apply(movement)
		total = total.Add(movement.SignedQuantity())
	}

	assert.True(t, row.Quantity.Equal(total))
	assert.True(t, row.Quantity.Equal(decimal.NewFromInt(5)))
}

func TestBranchItem_CanFulfill(t *testing.T) {
	row, err := NewBranchItem(uuid.New(), uuid.New(), uuid.New(), decimal.Zero, nil)
	require.NoError(t, err)

	purchase, err := NewStockLedger(row.CompanyID, row.BranchID, row.ItemID,
		MovementPurchase, decimal.NewFromInt(5), "", "")
	require.NoError(t, err)
	row.Apply(purchase)

	assert.True(t, row.CanFulfill(decimal.NewFromInt(5)))
	assert.True(t, row.CanFulfill(decimal.NewFromInt(1)))
	assert.False(t, row.CanFulfill(decimal.NewFromInt(6)))
}

func TestNewBranchItem_Validation(t *testing.T) {
	_, err := NewBranchItem(uuid.New(), uuid.Nil, uuid.New(), decimal.Zero, nil)
	require.Error(t, err)
	_, err = NewBranchItem(uuid.New(), uuid.New(), uuid.Nil, decimal.Zero, nil)
	require.Error(t, err)
}
