package cart

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemQuantity(t *testing.T) {
	item, err := NewItem(1, 10, 2)
	require.NoError(t, err)

	require.NoError(t, item.Add(3))
	assert.Equal(t, 5, item.Quantity)

	assert.ErrorIs(t, item.Add(0), ErrInvalidQuantity)
	assert.ErrorIs(t, item.SetQuantity(-1), ErrInvalidQuantity)
	assert.Equal(t, 5, item.Quantity)

	_, err = NewItem(1, 10, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestItemQuantityUpperBound(t *testing.T) {
	item, err := NewItem(1, 10, MaxQuantity-1)
	require.NoError(t, err)

	assert.ErrorIs(t, item.Add(2), ErrQuantityTooLarge)
	assert.Equal(t, MaxQuantity-1, item.Quantity, "超限时数量不变")
	require.NoError(t, item.Add(1))
	assert.Equal(t, MaxQuantity, item.Quantity)

	// 极大值不会因相加而回绕成负数
	assert.ErrorIs(t, item.Add(math.MaxInt), ErrQuantityTooLarge)
	assert.Equal(t, MaxQuantity, item.Quantity)

	assert.ErrorIs(t, item.SetQuantity(MaxQuantity+1), ErrQuantityTooLarge)
	_, err = NewItem(1, 10, math.MaxInt)
	assert.ErrorIs(t, err, ErrQuantityTooLarge)
}

func TestCartTotal(t *testing.T) {
	c := &Cart{Items: []Item{
		{BookID: 2, Quantity: 3, BookPrice: decimal.RequireFromString("10.00")},
		{BookID: 1, Quantity: 1, BookPrice: decimal.RequireFromString("4.50")},
	}}

	assert.False(t, c.IsEmpty())
	assert.Equal(t, "34.50", c.Total().StringFixed(2))
}

func TestLinesByBookID(t *testing.T) {
	c := &Cart{Items: []Item{{BookID: 9}, {BookID: 3}, {BookID: 5}}}

	lines := c.LinesByBookID()
	assert.Equal(t, []uint{3, 5, 9}, []uint{lines[0].BookID, lines[1].BookID, lines[2].BookID})
	assert.Equal(t, uint(9), c.Items[0].BookID, "原切片顺序不变")
}
