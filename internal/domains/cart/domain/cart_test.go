package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id int64, amount int) Product {
	return Product{
		ID:     id,
		Title:  "product",
		Price:  decimal.NewFromInt(10),
		Amount: amount,
	}
}

func TestNewCart_RejectsDuplicates(t *testing.T) {
	_, err := NewCart([]Product{product(1, 1), product(1, 2)})
	require.ErrorIs(t, err, ErrDuplicateProduct)
}

func TestNewCart_RejectsNonPositiveAmount(t *testing.T) {
	_, err := NewCart([]Product{product(1, 0)})
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestWithProduct_AppendsAndKeepsOrder(t *testing.T) {
	cart, err := NewCart([]Product{product(1, 1)})
	require.NoError(t, err)

	cart, err = cart.WithProduct(product(2, 3))
	require.NoError(t, err)

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, int64(2), items[1].ID)
}

func TestWithProduct_RejectsExisting(t *testing.T) {
	cart, err := NewCart([]Product{product(1, 1)})
	require.NoError(t, err)

	_, err = cart.WithProduct(product(1, 1))
	require.ErrorIs(t, err, ErrDuplicateProduct)
}

func TestWithAmount_DoesNotAliasPreviousSnapshot(t *testing.T) {
	cart, err := NewCart([]Product{product(1, 1), product(2, 2)})
	require.NoError(t, err)
	before := cart.Items()

	updated, ok, err := cart.WithAmount(1, 7)
	require.NoError(t, err)
	require.True(t, ok)

	got, found := updated.Find(1)
	require.True(t, found)
	assert.Equal(t, 7, got.Amount)

	// the earlier snapshot must be untouched
	assert.Equal(t, 1, before[0].Amount)
	prev, _ := cart.Find(1)
	assert.Equal(t, 1, prev.Amount)
}

func TestWithAmount_UnknownProduct(t *testing.T) {
	cart, err := NewCart([]Product{product(1, 1)})
	require.NoError(t, err)

	_, ok, err := cart.WithAmount(99, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWithout_RemovesExactlyOneEntry(t *testing.T) {
	cart, err := NewCart([]Product{product(1, 1), product(2, 3), product(3, 2)})
	require.NoError(t, err)

	cart, ok := cart.Without(2)
	require.True(t, ok)
	require.Equal(t, 2, cart.Len())
	assert.True(t, cart.Contains(1))
	assert.False(t, cart.Contains(2))
	assert.True(t, cart.Contains(3))
}

func TestWithout_UnknownProduct(t *testing.T) {
	cart, err := NewCart([]Product{product(1, 1)})
	require.NoError(t, err)

	_, ok := cart.Without(99)
	assert.False(t, ok)
}

func TestStockCovers(t *testing.T) {
	stock := Stock{ProductID: 1, Amount: 5}
	assert.True(t, stock.Covers(5))
	assert.True(t, stock.Covers(1))
	assert.False(t, stock.Covers(6))
}
