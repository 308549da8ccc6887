package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"repair-shop/internal/core/cache"
	"repair-shop/internal/core/database"
	"repair-shop/internal/core/events"
	"repair-shop/internal/core/logger"
	"repair-shop/internal/features/cart/adapters"
	"repair-shop/internal/features/cart/domain"
	"repair-shop/internal/features/cart/service"
	catalogadapters "repair-shop/internal/features/catalog/adapters"
	customeradapters "repair-shop/internal/features/customers/adapters"
	customerservice "repair-shop/internal/features/customers/service"
	orderadapters "repair-shop/internal/features/orders/adapters"
	orders "repair-shop/internal/features/orders/domain"
	orderservice "repair-shop/internal/features/orders/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	mr := miniredis.RunT(t)
	redisCache, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { redisCache.Close() })

	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	orderSvc := orderservice.NewOrderService(orderadapters.NewSQLiteOrderRepository(db), events.NewLogPublisher(logger.Get()))
	customerSvc := customerservice.NewCustomerService(customeradapters.NewSQLiteCustomerRepository(db))
	svc := service.NewCartService(
		adapters.NewCacheCartStorage(redisCache, "sat_cart", time.Hour),
		catalogadapters.NewFixtureProvider(),
		orderSvc,
		customerSvc,
	)
	h := NewCartHandler(svc)

	app := fiber.New()
	g := app.Group("/cart/:session")
	g.Get("/", h.GetCart)
	g.Delete("/", h.Clear)
	g.Post("/items", h.AddItem)
	g.Patch("/items/:productId", h.UpdateQuantity)
	g.Delete("/items/:productId", h.RemoveItem)
	g.Post("/open", h.Open)
	g.Post("/close", h.Close)
	g.Post("/checkout", h.Checkout)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decodeView(t *testing.T, data []byte) domain.View {
	t.Helper()
	var v domain.View
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestCartHandler_Flow(t *testing.T) {
	app := setupApp(t)

	status, body := do(t, app, http.MethodPost, "/cart/s1/items", `{"product_id":"ram-ddr4-8","quantity":2}`)
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = do(t, app, http.MethodPost, "/cart/s1/items", `{"product_id":"ram-ddr4-8"}`)
	require.Equal(t, http.StatusOK, status)
	view := decodeView(t, body)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.ItemCount)
	assert.Equal(t, "4470", view.Subtotal.String())
	assert.True(t, view.IsOpen)

	status, body = do(t, app, http.MethodPatch, "/cart/s1/items/ram-ddr4-8", `{"quantity":1}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, decodeView(t, body).ItemCount)

	status, body = do(t, app, http.MethodPost, "/cart/s1/close", "")
	require.Equal(t, http.StatusOK, status)
	assert.False(t, decodeView(t, body).IsOpen)

	status, body = do(t, app, http.MethodGet, "/cart/s1", "")
	require.Equal(t, http.StatusOK, status)
	view = decodeView(t, body)
	assert.Equal(t, 1, view.ItemCount)
	assert.False(t, view.IsOpen)

	status, body = do(t, app, http.MethodDelete, "/cart/s1/items/ram-ddr4-8", "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decodeView(t, body).Items)
}

func TestCartHandler_Checkout(t *testing.T) {
	app := setupApp(t)

	status, _ := do(t, app, http.MethodPost, "/cart/s1/checkout", "")
	assert.Equal(t, http.StatusConflict, status)

	status, _ = do(t, app, http.MethodPost, "/cart/s1/items", `{"product_id":"paste-thermal","quantity":2}`)
	require.Equal(t, http.StatusOK, status)

	status, body := do(t, app, http.MethodPost, "/cart/s1/checkout", `{"name":"Ana","phone":"099123456"}`)
	require.Equal(t, http.StatusCreated, status, string(body))

	var order orders.Order
	require.NoError(t, json.Unmarshal(body, &order))
	assert.NotEmpty(t, order.CustomerID)
	assert.Equal(t, "780", order.Total.String())

	status, body = do(t, app, http.MethodGet, "/cart/s1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decodeView(t, body).Items)
}

func TestCartHandler_Errors(t *testing.T) {
	app := setupApp(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown product", http.MethodPost, "/cart/s1/items", `{"product_id":"nope"}`, http.StatusNotFound},
		{"missing product id", http.MethodPost, "/cart/s1/items", `{"quantity":1}`, http.StatusBadRequest},
		{"negative quantity", http.MethodPost, "/cart/s1/items", `{"product_id":"ram-ddr4-8","quantity":-1}`, http.StatusBadRequest},
		{"bad json", http.MethodPost, "/cart/s1/items", `{`, http.StatusBadRequest},
		{"missing quantity", http.MethodPatch, "/cart/s1/items/ram-ddr4-8", `{}`, http.StatusBadRequest},
		{"invalid session", http.MethodGet, "/cart/a.b", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, status, string(body))
			assert.Contains(t, string(body), `"message"`)
		})
	}
}
