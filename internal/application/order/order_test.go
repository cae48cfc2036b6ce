package order_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcart "github.com/xiebiao/bookshop/internal/application/cart"
	apporder "github.com/xiebiao/bookshop/internal/application/order"
	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/gormstore"
	"github.com/xiebiao/bookshop/internal/testutil"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []order.Event
}

func (p *recordingPublisher) PublishOrderEvent(_ context.Context, evt order.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) types() []order.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]order.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type recordingCache struct {
	mu  sync.Mutex
	ids []uint
}

func (c *recordingCache) InvalidateBooks(_ context.Context, ids ...uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids = append(c.ids, ids...)
	return nil
}

type fixture struct {
	txm       *gormstore.TxManager
	cartRepo  cart.Repository
	books     book.Repository
	orders    order.Repository
	carts     *appcart.CartUseCase
	checkout  *apporder.CheckoutUseCase
	cancel    *apporder.CancelOrderUseCase
	status    *apporder.UpdateStatusUseCase
	query     *apporder.QueryOrdersUseCase
	publisher *recordingPublisher
	cache     *recordingCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	txm := gormstore.NewTxManager(db)
	books := gormstore.NewBookRepository(db)
	orders := gormstore.NewOrderRepository(db)
	carts := gormstore.NewCartRepository(db)
	pub := &recordingPublisher{}
	cache := &recordingCache{}

	cancel := apporder.NewCancelOrderUseCase(orders, books, txm, cache, pub)
	return &fixture{
		txm:       txm,
		cartRepo:  carts,
		books:     books,
		orders:    orders,
		carts:     appcart.NewCartUseCase(carts, books, txm),
		checkout:  apporder.NewCheckoutUseCase(carts, books, orders, txm, cache, pub),
		cancel:    cancel,
		status:    apporder.NewUpdateStatusUseCase(orders, txm, cancel, cache, pub),
		query:     apporder.NewQueryOrdersUseCase(orders),
		publisher: pub,
		cache:     cache,
	}
}

func (f *fixture) addBook(t *testing.T, title, price string, stock int) *book.Book {
	t.Helper()
	b, err := book.NewBook(title, "Author", "", nil, decimal.RequireFromString(price), stock, 1)
	require.NoError(t, err)
	b.Slug = book.Slugify(title)
	require.NoError(t, f.books.Create(context.Background(), b))
	return b
}

func (f *fixture) stock(t *testing.T, id uint) int {
	t.Helper()
	b, err := f.books.FindByID(context.Background(), id)
	require.NoError(t, err)
	return b.Stock
}

func buyer(id uint) user.Principal {
	return user.Principal{UserID: id, Role: user.RoleBuyer, Groups: []user.Group{user.GroupBuyer}}
}

func admin(id uint) user.Principal {
	return user.Principal{UserID: id, Role: user.RoleAdmin, Groups: []user.Group{user.GroupBuyer, user.GroupAdmin}}
}

func TestCheckoutReservesStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.addBook(t, "Go Programming", "10.00", 5)

	_, err := f.carts.AddItem(ctx, 7, b.ID, 3)
	require.NoError(t, err)

	resp, err := f.checkout.Execute(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "30.00", resp.TotalPrice)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, apporder.CheckoutLineItem{BookTitle: "Go Programming", Quantity: 3}, resp.Items[0])

	assert.Equal(t, 2, f.stock(t, b.ID))

	c, err := f.carts.GetCart(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, c.Items, "结算后购物车清空")

	o, err := f.orders.FindByID(ctx, resp.OrderID)
	require.NoError(t, err)
	assert.True(t, o.CalculateTotal().Equal(o.TotalPrice))
	assert.Equal(t, []order.EventType{order.EventCreated}, f.publisher.types())
	assert.Contains(t, f.cache.ids, b.ID)
}

func TestCheckoutInsufficientStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plenty := f.addBook(t, "Alpha", "4.00", 10)
	scarce := f.addBook(t, "Go Programming", "10.00", 2)

	_, err := f.carts.AddItem(ctx, 7, plenty.ID, 1)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, 7, scarce.ID, 5)
	require.NoError(t, err)

	_, err = f.checkout.Execute(ctx, 7)
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	assert.Equal(t, apperrors.ErrCodeInsufficientStock, appErr.Code)
	assert.Equal(t, `Not enough stock for "Go Programming". Only 2 available.`, appErr.Message)

	assert.Equal(t, 10, f.stock(t, plenty.ID), "已扣减的行随事务回滚")
	assert.Equal(t, 2, f.stock(t, scarce.ID))

	list, err := f.query.List(ctx, buyer(7), apporder.ListOrdersRequest{})
	require.NoError(t, err)
	assert.Zero(t, list.Total)

	c, err := f.carts.GetCart(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, c.Items, 2, "失败时购物车保留")
	assert.Empty(t, f.publisher.types())
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.checkout.Execute(context.Background(), 7)
	assert.ErrorIs(t, err, cart.ErrCartEmpty)
	assert.Equal(t, "Cart is empty", apperrors.GetAppError(err).Message)

	list, err := f.query.List(context.Background(), admin(1), apporder.ListOrdersRequest{All: true})
	require.NoError(t, err)
	assert.Zero(t, list.Total)
}

func TestCancelRestoresStockOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.addBook(t, "Refactoring", "12.50", 5)

	_, err := f.carts.AddItem(ctx, 7, b.ID, 2)
	require.NoError(t, err)
	resp, err := f.checkout.Execute(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, 3, f.stock(t, b.ID))

	cancelled, err := f.cancel.Execute(ctx, buyer(7), resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.Equal(t, 5, f.stock(t, b.ID))

	_, err = f.cancel.Execute(ctx, buyer(7), resp.OrderID)
	assert.ErrorIs(t, err, order.ErrNotCancellable)
	assert.Equal(t, 5, f.stock(t, b.ID), "重复取消不会再次回补")

	assert.Equal(t, []order.EventType{order.EventCreated, order.EventCancelled}, f.publisher.types())
}

func TestCancelByStrangerIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.addBook(t, "Refactoring", "12.50", 5)

	_, err := f.carts.AddItem(ctx, 7, b.ID, 2)
	require.NoError(t, err)
	resp, err := f.checkout.Execute(ctx, 7)
	require.NoError(t, err)

	_, err = f.cancel.Execute(ctx, buyer(8), resp.OrderID)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)

	_, err = f.query.Get(ctx, buyer(8), resp.OrderID)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)

	// 管理员可以取消任何人的订单
	_, err = f.cancel.Execute(ctx, admin(1), resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, 5, f.stock(t, b.ID))
}

func TestCancelRestoresDeletedBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.addBook(t, "Legacy", "8.00", 4)

	_, err := f.carts.AddItem(ctx, 7, b.ID, 4)
	require.NoError(t, err)
	resp, err := f.checkout.Execute(ctx, 7)
	require.NoError(t, err)

	require.NoError(t, f.books.Delete(ctx, b.ID))
	_, err = f.cancel.Execute(ctx, buyer(7), resp.OrderID)
	require.NoError(t, err)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.addBook(t, "DDD", "20.00", 5)

	place := func() uint {
		_, err := f.carts.AddItem(ctx, 7, b.ID, 1)
		require.NoError(t, err)
		resp, err := f.checkout.Execute(ctx, 7)
		require.NoError(t, err)
		return resp.OrderID
	}

	t.Run("非管理员发货被拒绝", func(t *testing.T) {
		id := place()
		_, err := f.status.Execute(ctx, buyer(7), id, "shipped")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)

		o, err := f.orders.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, order.StatusPending, o.Status)
	})

	t.Run("管理员发货后不能再取消", func(t *testing.T) {
		id := place()
		resp, err := f.status.Execute(ctx, admin(1), id, "shipped")
		require.NoError(t, err)
		assert.Equal(t, "shipped", resp.Status)

		_, err = f.status.Execute(ctx, buyer(7), id, "cancelled")
		assert.ErrorIs(t, err, order.ErrNotCancellable)

		_, err = f.status.Execute(ctx, admin(1), id, "shipped")
		assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)
	})

	t.Run("状态接口取消会回补库存", func(t *testing.T) {
		id := place()
		before := f.stock(t, b.ID)
		_, err := f.status.Execute(ctx, buyer(7), id, "cancelled")
		require.NoError(t, err)
		assert.Equal(t, before+1, f.stock(t, b.ID))
	})

	t.Run("回到pending是非法转换", func(t *testing.T) {
		id := place()
		_, err := f.status.Execute(ctx, buyer(7), id, "pending")
		assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)
	})

	t.Run("未知状态", func(t *testing.T) {
		_, err := f.status.Execute(ctx, admin(1), 1, "lost")
		assert.ErrorIs(t, err, order.ErrUnknownStatus)
	})
}

// 测试库只有一个连接,各结算依次执行;这里验证结果,条件更新的兜底见TestConditionalStockUpdateStopsOversell
func TestConcurrentCheckoutNeverOversells(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.addBook(t, "Hot Book", "5.00", 3)

	const buyers = 6
	for i := uint(1); i <= buyers; i++ {
		_, err := f.carts.AddItem(ctx, i, b.ID, 1)
		require.NoError(t, err)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := uint(1); i <= buyers; i++ {
		wg.Add(1)
		go func(uid uint) {
			defer wg.Done()
			if _, err := f.checkout.Execute(ctx, uid); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 3, success)
	assert.Equal(t, 0, f.stock(t, b.ID))
}

// staleStockBooks 加锁读返回偏大的库存,模拟读到旧值的情况
type staleStockBooks struct {
	book.Repository
	extra int
}

func (r staleStockBooks) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	b, err := r.Repository.LockByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Stock += r.extra
	return b, nil
}

func TestConditionalStockUpdateStopsOversell(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.addBook(t, "Hot Book", "5.00", 2)
	other := f.addBook(t, "Another Book", "1.00", 10)

	_, err := f.carts.AddItem(ctx, 7, other.ID, 1)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, 7, b.ID, 5)
	require.NoError(t, err)

	checkout := apporder.NewCheckoutUseCase(f.cartRepo, staleStockBooks{Repository: f.books, extra: 100},
		f.orders, f.txm, f.cache, f.publisher)
	_, err = checkout.Execute(ctx, 7)
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	assert.Equal(t, apperrors.ErrCodeInsufficientStock, appErr.Code)
	assert.Equal(t, `Not enough stock for "Hot Book". Only 2 available.`, appErr.Message)

	// 整个事务回滚:前一行的扣减撤销,没有订单,购物车保留
	assert.Equal(t, 2, f.stock(t, b.ID))
	assert.Equal(t, 10, f.stock(t, other.ID))
	all, err := f.query.List(ctx, admin(1), apporder.ListOrdersRequest{All: true})
	require.NoError(t, err)
	assert.Equal(t, int64(0), all.Total)
	c, err := f.carts.GetCart(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, c.Items, 2)
	assert.Empty(t, f.publisher.types())
}

// callLog 记录结算对购物车仓储的调用顺序
type callLog struct {
	cart.Repository
	mu    sync.Mutex
	calls []string
}

func (r *callLog) record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
}

func (r *callLog) GetOrCreate(ctx context.Context, userID uint) (*cart.Cart, error) {
	r.record("GetOrCreate")
	return r.Repository.GetOrCreate(ctx, userID)
}

func (r *callLog) LockByUser(ctx context.Context, userID uint) (*cart.Cart, error) {
	r.record("LockByUser")
	return r.Repository.LockByUser(ctx, userID)
}

func (r *callLog) Clear(ctx context.Context, cartID uint) error {
	r.record("Clear")
	return r.Repository.Clear(ctx, cartID)
}

func TestDoubleSubmitCheckoutCreatesOneOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.addBook(t, "Go Programming", "10.00", 10)

	_, err := f.carts.AddItem(ctx, 7, b.ID, 3)
	require.NoError(t, err)

	carts := &callLog{Repository: f.cartRepo}
	checkout := apporder.NewCheckoutUseCase(carts, f.books, f.orders, f.txm, f.cache, f.publisher)

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = checkout.Execute(ctx, 7)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, cart.ErrCartEmpty)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 7, f.stock(t, b.ID), "库存只扣一次")

	mine, err := f.query.List(ctx, buyer(7), apporder.ListOrdersRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), mine.Total)

	// 购物车行锁是每次结算事务里的第一次购物车访问
	assert.Equal(t, []string{"LockByUser", "Clear", "LockByUser"}, carts.calls)
}

func TestListOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.addBook(t, "DDD", "20.00", 10)

	for _, uid := range []uint{7, 7, 8} {
		_, err := f.carts.AddItem(ctx, uid, b.ID, 1)
		require.NoError(t, err)
		_, err = f.checkout.Execute(ctx, uid)
		require.NoError(t, err)
	}

	mine, err := f.query.List(ctx, buyer(7), apporder.ListOrdersRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), mine.Total)

	_, err = f.query.List(ctx, buyer(7), apporder.ListOrdersRequest{All: true})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	all, err := f.query.List(ctx, admin(1), apporder.ListOrdersRequest{All: true, Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)

	_, err = f.query.List(ctx, user.Principal{}, apporder.ListOrdersRequest{})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
