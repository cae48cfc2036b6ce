package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appbook "github.com/xiebiao/bookshop/internal/application/book"
	appcart "github.com/xiebiao/bookshop/internal/application/cart"
	appcompany "github.com/xiebiao/bookshop/internal/application/company"
	apporder "github.com/xiebiao/bookshop/internal/application/order"
	appuser "github.com/xiebiao/bookshop/internal/application/user"
	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/infrastructure/messaging"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/gormstore"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshop/internal/interface/http/handler"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/internal/interface/http/router"
	"github.com/xiebiao/bookshop/internal/testutil"
	"github.com/xiebiao/bookshop/pkg/jwt"
)

const password = "secret123"

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	admin  *appuser.CreateAdminUseCase
}

// newTestServer 用SQLite内存库和miniredis组装完整的路由
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.NewDB(t)
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{
		Server: config.ServerConfig{Port: 8080, Mode: "test"},
		Cache:  config.CacheConfig{Enabled: true, ListTTL: time.Minute, DetailTTL: time.Minute, HTTPMaxAge: 60},
	}

	userRepo := gormstore.NewUserRepository(db)
	bookRepo := gormstore.NewBookRepository(db)
	cartRepo := gormstore.NewCartRepository(db)
	orderRepo := gormstore.NewOrderRepository(db)
	companyRepo := gormstore.NewCompanyRepository(db)
	txm := gormstore.NewTxManager(db)

	userService := user.NewService(userRepo, user.WithBcryptCost(bcrypt.MinCost))
	jwtManager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	sessions := redis.NewSessionStore(client)
	cache := redis.NewBookCache(client, cfg.Cache.ListTTL, cfg.Cache.DetailTTL)
	publisher := messaging.LogPublisher{}

	cancel := apporder.NewCancelOrderUseCase(orderRepo, bookRepo, txm, cache, publisher)
	handlers := router.NewHandlers(
		handler.NewUserHandler(
			appuser.NewRegisterUseCase(userService),
			appuser.NewLoginUseCase(userService, jwtManager, sessions),
			appuser.NewLogoutUseCase(sessions, jwtManager),
			appuser.NewProfileUseCase(userRepo),
			appuser.NewRefreshUseCase(userRepo, jwtManager, sessions),
		),
		handler.NewBookHandler(
			appbook.NewCreateBookUseCase(bookRepo, book.NewService(bookRepo), txm, cache),
			appbook.NewUpdateBookUseCase(bookRepo, book.NewService(bookRepo), txm, cache),
			appbook.NewDeleteBookUseCase(bookRepo, txm, cache),
			appbook.NewGetBookUseCase(bookRepo, cache),
			appbook.NewListBooksUseCase(bookRepo, cache),
		),
		handler.NewCartHandler(appcart.NewCartUseCase(cartRepo, bookRepo, txm)),
		handler.NewOrderHandler(
			apporder.NewCheckoutUseCase(cartRepo, bookRepo, orderRepo, txm, cache, publisher),
			cancel,
			apporder.NewUpdateStatusUseCase(orderRepo, txm, cancel, cache, publisher),
			apporder.NewQueryOrdersUseCase(orderRepo),
		),
		handler.NewCompanyHandler(appcompany.NewCompanyUseCase(companyRepo, userRepo)),
	)

	return &testServer{
		t:      t,
		engine: router.New(cfg, handlers, middleware.NewAuthMiddleware(jwtManager, sessions)),
		admin:  appuser.NewCreateAdminUseCase(userService),
	}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Detail  json.RawMessage `json:"detail"`
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func detailString(t *testing.T, env envelope) string {
	t.Helper()
	var s string
	require.NoError(t, json.Unmarshal(env.Detail, &s))
	return s
}

func (s *testServer) register(email, userType, company string) {
	s.t.Helper()
	w, _ := s.do(http.MethodPost, "/api/v1/users/register", "", gin.H{
		"email": email, "password": password, "first_name": "Test", "last_name": "User",
		"user_type": userType, "company_name": company,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
}

func (s *testServer) login(email string) string {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/v1/users/login", "", gin.H{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var data appuser.LoginResponse
	decodeData(s.t, env, &data)
	return data.AccessToken
}

func (s *testServer) adminToken() string {
	s.t.Helper()
	_, err := s.admin.Execute(context.Background(), appuser.CreateAdminRequest{
		Email: "admin@example.com", Password: password, FirstName: "Ad", LastName: "Min",
	})
	require.NoError(s.t, err)
	return s.login("admin@example.com")
}

func (s *testServer) createBook(token, title, price string, stock int) appbook.BookResponse {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/v1/books", token, gin.H{
		"title": title, "author": "Someone", "price": price, "stock": stock,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var b appbook.BookResponse
	decodeData(s.t, env, &b)
	return b
}

func (s *testServer) stockOf(id uint) int {
	s.t.Helper()
	w, env := s.do(http.MethodGet, fmt.Sprintf("/api/v1/books/%d", id), "", nil)
	require.Equal(s.t, http.StatusOK, w.Code)
	var b appbook.BookResponse
	decodeData(s.t, env, &b)
	return b.Stock
}

func (s *testServer) addToCart(token string, bookID uint, qty int) {
	s.t.Helper()
	w, _ := s.do(http.MethodPost, "/api/v1/cart/items", token, gin.H{"book_id": bookID, "quantity": qty})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
}

// setup 一个卖家、一个买家
func setup(t *testing.T) (s *testServer, seller, buyer string) {
	s = newTestServer(t)
	s.register("seller@example.com", "seller", "Acme")
	s.register("buyer@example.com", "buyer", "")
	return s, s.login("seller@example.com"), s.login("buyer@example.com")
}

func TestCheckoutReservesStock(t *testing.T) {
	s, seller, buyer := setup(t)
	b := s.createBook(seller, "Go in Action", "10.00", 5)

	s.addToCart(buyer, b.ID, 3)
	w, env := s.do(http.MethodPost, "/api/v1/cart/checkout", buyer, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var result apporder.CheckoutResponse
	decodeData(t, env, &result)
	assert.Equal(t, "pending", result.Status)
	assert.Equal(t, "30.00", result.TotalPrice)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Go in Action", result.Items[0].BookTitle)
	assert.Equal(t, 3, result.Items[0].Quantity)

	assert.Equal(t, 2, s.stockOf(b.ID))

	w, env = s.do(http.MethodGet, "/api/v1/cart", buyer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cart appcart.CartResponse
	decodeData(t, env, &cart)
	assert.Empty(t, cart.Items, "结算后购物车清空")
}

func TestCheckoutInsufficientStock(t *testing.T) {
	s, seller, buyer := setup(t)
	b := s.createBook(seller, "Rare Book", "10.00", 2)

	s.addToCart(buyer, b.ID, 5)
	w, env := s.do(http.MethodPost, "/api/v1/cart/checkout", buyer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, `Not enough stock for "Rare Book". Only 2 available.`, detailString(t, env))

	assert.Equal(t, 2, s.stockOf(b.ID))
	w, env = s.do(http.MethodGet, "/api/v1/orders", buyer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Total int64 `json:"total"`
	}
	decodeData(t, env, &page)
	assert.Zero(t, page.Total, "失败的结算不产生订单")
}

func TestCheckoutEmptyCart(t *testing.T) {
	s, _, buyer := setup(t)

	w, env := s.do(http.MethodPost, "/api/v1/orders", buyer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cart is empty", detailString(t, env))
}

func TestCancelRestoresStockOnce(t *testing.T) {
	s, seller, buyer := setup(t)
	b := s.createBook(seller, "Refactoring", "20.00", 5)
	s.addToCart(buyer, b.ID, 2)

	_, env := s.do(http.MethodPost, "/api/v1/cart/checkout", buyer, nil)
	var order apporder.CheckoutResponse
	decodeData(t, env, &order)
	require.Equal(t, 3, s.stockOf(b.ID))

	path := fmt.Sprintf("/api/v1/orders/%d/cancel", order.OrderID)
	w, env := s.do(http.MethodPost, path, buyer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, apporder.CancelledDetail, detailString(t, env))
	assert.Equal(t, 5, s.stockOf(b.ID))

	w, env = s.do(http.MethodPost, path, buyer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Only pending orders can be cancelled.", detailString(t, env))
	assert.Equal(t, 5, s.stockOf(b.ID), "重复取消不能再次回补")

	// 其他用户看不到这个订单
	s.register("other@example.com", "buyer", "")
	other := s.login("other@example.com")
	w, _ = s.do(http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", order.OrderID), other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShippingRequiresAdmin(t *testing.T) {
	s, seller, buyer := setup(t)
	b := s.createBook(seller, "DDD", "15.50", 5)
	s.addToCart(buyer, b.ID, 1)

	_, env := s.do(http.MethodPost, "/api/v1/cart/checkout", buyer, nil)
	var order apporder.CheckoutResponse
	decodeData(t, env, &order)
	path := fmt.Sprintf("/api/v1/orders/%d/status", order.OrderID)

	w, _ := s.do(http.MethodPatch, path, buyer, gin.H{"status": "shipped"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = s.do(http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", order.OrderID), buyer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got apporder.OrderResponse
	decodeData(t, env, &got)
	assert.Equal(t, "pending", got.Status)

	admin := s.adminToken()
	w, env = s.do(http.MethodPatch, path, admin, gin.H{"status": "shipped"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeData(t, env, &got)
	assert.Equal(t, "shipped", got.Status)

	// shipped是终态
	w, _ = s.do(http.MethodPut, path, admin, gin.H{"status": "cancelled"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 4, s.stockOf(b.ID))

	w, _ = s.do(http.MethodPatch, path, admin, gin.H{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthAndPermissions(t *testing.T) {
	s, seller, buyer := setup(t)

	w, _ := s.do(http.MethodPost, "/api/v1/books", "", gin.H{"title": "X"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodPost, "/api/v1/books", buyer, gin.H{"title": "X", "author": "Y", "price": "1", "stock": 1})
	assert.Equal(t, http.StatusForbidden, w.Code, "买家不能上架图书")

	w, _ = s.do(http.MethodGet, "/api/v1/cart", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 卖家只能改自己的书
	b := s.createBook(seller, "Mine", "9.99", 1)
	s.register("seller2@example.com", "seller", "Other Co")
	seller2 := s.login("seller2@example.com")
	w, _ = s.do(http.MethodPatch, fmt.Sprintf("/api/v1/books/%d", b.ID), seller2, gin.H{"stock": 100})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 登出后Token失效
	w, _ = s.do(http.MethodPost, "/api/v1/users/logout", buyer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodGet, "/api/v1/users/me", buyer, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodGet, "/api/v1/orders?scope=all", seller, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestValidationErrors(t *testing.T) {
	s, seller, buyer := setup(t)

	w, env := s.do(http.MethodPost, "/api/v1/books", seller, gin.H{
		"title": "Free Book", "author": "A", "price": "0", "stock": -1,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var fields map[string]string
	require.NoError(t, json.Unmarshal(env.Detail, &fields), string(env.Detail))
	assert.Contains(t, fields, "price")
	assert.Contains(t, fields, "stock")

	b := s.createBook(seller, "Valid", "5.00", 1)
	w, _ = s.do(http.MethodPost, "/api/v1/cart/items", buyer, gin.H{"book_id": b.ID, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPost, "/api/v1/cart/items", buyer, gin.H{"book_id": 9999, "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = s.do(http.MethodPost, "/api/v1/cart/items", buyer, gin.H{"book_id": b.ID, "quantity": math.MaxInt64})
	require.Equal(t, http.StatusBadRequest, w.Code)
	fields = nil
	require.NoError(t, json.Unmarshal(env.Detail, &fields), string(env.Detail))
	assert.Equal(t, "Ensure this value is less than or equal to 10000.", fields["quantity"])

	w, _ = s.do(http.MethodPost, "/api/v1/users/register", "", gin.H{
		"email": "x@example.com", "password": password, "first_name": "A", "last_name": "B", "user_type": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "注册接口不能创建管理员")
}

func TestCartAccumulatesQuantity(t *testing.T) {
	s, seller, buyer := setup(t)
	b := s.createBook(seller, "Patterns", "12.00", 1)

	s.addToCart(buyer, b.ID, 2)
	s.addToCart(buyer, b.ID, 3)

	_, env := s.do(http.MethodGet, "/api/v1/cart", buyer, nil)
	var cart appcart.CartResponse
	decodeData(t, env, &cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, "60.00", cart.TotalPrice)
}

func TestPublicCatalog(t *testing.T) {
	s, seller, _ := setup(t)
	b := s.createBook(seller, "Clean Code", "30.00", 3)
	assert.Equal(t, "clean-code", b.Slug)

	w, env := s.do(http.MethodGet, "/api/v1/books?keyword=clean", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, max-age=60", w.Header().Get("Cache-Control"))
	var page struct {
		Total int64 `json:"total"`
	}
	decodeData(t, env, &page)
	assert.Equal(t, int64(1), page.Total)

	w, _ = s.do(http.MethodGet, "/api/v1/books/slug/clean-code", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, "/api/v1/books/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	w, _ = s.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestCompanyLifecycle(t *testing.T) {
	s, seller, buyer := setup(t)

	w, _ := s.do(http.MethodPost, "/api/v1/companies", buyer, gin.H{"name": "Nope"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := s.do(http.MethodPost, "/api/v1/companies", seller, gin.H{"name": "Acme Books"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var c appcompany.CompanyResponse
	decodeData(t, env, &c)

	w, _ = s.do(http.MethodPost, "/api/v1/companies", seller, gin.H{"name": "Second"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "每个卖家只能有一家公司")

	w, _ = s.do(http.MethodGet, "/api/v1/companies/me", seller, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, fmt.Sprintf("/api/v1/companies/%d", c.ID), buyer, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodGet, "/api/v1/companies", seller, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/companies/%d", c.ID), seller, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
