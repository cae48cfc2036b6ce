package cart_test

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcart "github.com/xiebiao/bookshop/internal/application/cart"
	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/gormstore"
	"github.com/xiebiao/bookshop/internal/testutil"
)

func setup(t *testing.T) (*appcart.CartUseCase, book.Repository) {
	t.Helper()
	db := testutil.NewDB(t)
	books := gormstore.NewBookRepository(db)
	uc := appcart.NewCartUseCase(gormstore.NewCartRepository(db), books, gormstore.NewTxManager(db))
	return uc, books
}

func createBook(t *testing.T, repo book.Repository, title string) *book.Book {
	t.Helper()
	b, err := book.NewBook(title, "Author", "", nil, decimal.RequireFromString("7.50"), 1, 1)
	require.NoError(t, err)
	b.Slug = book.Slugify(title)
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}

func TestAddItemAccumulates(t *testing.T) {
	uc, books := setup(t)
	ctx := context.Background()
	b := createBook(t, books, "Go Programming")

	first, err := uc.AddItem(ctx, 7, b.ID, 2)
	require.NoError(t, err)
	second, err := uc.AddItem(ctx, 7, b.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "同一本书只有一行")
	assert.Equal(t, 5, second.Quantity)
	assert.Equal(t, "37.50", second.Subtotal)

	c, err := uc.GetCart(ctx, 7)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "37.50", c.TotalPrice)
}

func TestAddItemDoesNotCheckStock(t *testing.T) {
	uc, books := setup(t)
	b := createBook(t, books, "Rare")

	item, err := uc.AddItem(context.Background(), 7, b.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, item.Quantity)

	got, err := books.FindByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stock, "加购不占用库存")
}

func TestAddItemValidation(t *testing.T) {
	uc, books := setup(t)
	ctx := context.Background()
	b := createBook(t, books, "Go Programming")

	_, err := uc.AddItem(ctx, 7, b.ID, 0)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	_, err = uc.AddItem(ctx, 7, 999, 1)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestAddItemRejectsOverflowingQuantity(t *testing.T) {
	uc, books := setup(t)
	ctx := context.Background()
	b := createBook(t, books, "Go Programming")

	_, err := uc.AddItem(ctx, 7, b.ID, math.MaxInt)
	assert.ErrorIs(t, err, cart.ErrQuantityTooLarge)

	_, err = uc.AddItem(ctx, 7, b.ID, cart.MaxQuantity)
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, 7, b.ID, 1)
	assert.ErrorIs(t, err, cart.ErrQuantityTooLarge)

	c, err := uc.GetCart(ctx, 7)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, cart.MaxQuantity, c.Items[0].Quantity, "累加失败时数量保持不变")
}

func TestItemsScopedToOwnCart(t *testing.T) {
	uc, books := setup(t)
	ctx := context.Background()
	b := createBook(t, books, "Go Programming")

	item, err := uc.AddItem(ctx, 7, b.ID, 1)
	require.NoError(t, err)

	_, err = uc.GetItem(ctx, 8, item.ID)
	assert.ErrorIs(t, err, cart.ErrItemNotFound)
	_, err = uc.UpdateItem(ctx, 8, item.ID, 4)
	assert.ErrorIs(t, err, cart.ErrItemNotFound)
	assert.ErrorIs(t, uc.DeleteItem(ctx, 8, item.ID), cart.ErrItemNotFound)

	updated, err := uc.UpdateItem(ctx, 7, item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	_, err = uc.UpdateItem(ctx, 7, item.ID, -1)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	require.NoError(t, uc.DeleteItem(ctx, 7, item.ID))
	_, err = uc.GetItem(ctx, 7, item.ID)
	assert.ErrorIs(t, err, cart.ErrItemNotFound)
}
