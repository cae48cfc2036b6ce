package book

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBook(t *testing.T) {
	b, err := NewBook("  Dune ", "Frank Herbert", "", nil, decimal.RequireFromString("10.00"), 5, 3)
	require.NoError(t, err)

	assert.Equal(t, "Dune", b.Title)
	assert.True(t, b.Price.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 5, b.Stock)
	assert.True(t, b.IsOwnedBy(3))
	assert.False(t, b.IsOwnedBy(0))
}

func TestNewBookValidation(t *testing.T) {
	_, err := NewBook("", "a", "", nil, decimal.NewFromInt(1), 1, 1)
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = NewBook("t", "a", "", nil, decimal.Zero, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewBook("t", "a", "", nil, decimal.RequireFromString("9.999"), 1, 1)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewBook("t", "a", "", nil, decimal.NewFromInt(1), -1, 1)
	assert.ErrorIs(t, err, ErrInvalidStock)
}

func TestRename(t *testing.T) {
	b := &Book{Title: "Dune"}

	changed, err := b.Rename("Dune")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = b.Rename("Dune Messiah")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "Dune Messiah", b.Title)

	_, err = b.Rename("   ")
	assert.ErrorIs(t, err, ErrTitleRequired)
}

func TestInsufficientStockMessage(t *testing.T) {
	err := InsufficientStock("Dune", 2)
	assert.Equal(t, `Not enough stock for "Dune". Only 2 available.`, err.Message)
}
