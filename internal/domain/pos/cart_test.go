package pos

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCart(t *testing.T) {
	cart, err := NewCart(uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, CartStatusActive, cart.Status)

	_, err = NewCart(uuid.New(), uuid.Nil)
	require.Error(t, err)
}

func TestNewCartItem(t *testing.T) {
	line, err := NewCartItem(uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		decimal.NewFromInt(3), decimal.NewFromFloat(24.50))
	require.NoError(t, err)
	assert.True(t, line.Total.Equal(decimal.NewFromFloat(73.50)))

	_, err = NewCartItem(uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		decimal.Zero, decimal.NewFromInt(10))
	require.Error(t, err)

	_, err = NewCartItem(uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		decimal.NewFromInt(1), decimal.NewFromInt(-10))
	require.Error(t, err)
}

func TestCartItem_AddQuantityRecomputesTotal(t *testing.T) {
	line, err := NewCartItem(uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		decimal.NewFromInt(1), decimal.NewFromInt(40))
	require.NoError(t, err)

	require.NoError(t, line.AddQuantity(decimal.NewFromInt(2)))
	assert.True(t, line.Quantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, line.Total.Equal(decimal.NewFromInt(120)))

	require.Error(t, line.AddQuantity(decimal.Zero))
	require.Error(t, line.AddQuantity(decimal.NewFromInt(-1)))
}

func TestCartItem_DecrementOne(t *testing.T) {
	line, err := NewCartItem(uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		decimal.NewFromInt(2), decimal.NewFromInt(40))
	require.NoError(t, err)

	assert.False(t, line.DecrementOne())
	assert.True(t, line.Total.Equal(decimal.NewFromInt(40)))

	// The last unit signals deletion to the caller.
	assert.True(t, line.DecrementOne())
}

func TestCartItem_SetQuantity(t *testing.T) {
	line, err := NewCartItem(uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		decimal.NewFromInt(1), decimal.NewFromFloat(9.99))
	require.NoError(t, err)

	require.NoError(t, line.SetQuantity(decimal.NewFromInt(5)))
	assert.True(t, line.Total.Equal(decimal.NewFromFloat(49.95)))

	require.Error(t, line.SetQuantity(decimal.Zero))
	require.Error(t, line.SetQuantity(decimal.NewFromInt(-2)))
}
