package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	cartapi "tienda/api/cart"
	"tienda/api/health"
	orderapi "tienda/api/order"
	cartapp "tienda/application/cart"
	orderapp "tienda/application/order"
	"tienda/config"
	"tienda/domain/order"
	"tienda/domain/product"
	"tienda/domain/shared"
	"tienda/infrastructure/persistence/memory"
	"tienda/infrastructure/persistence/retry"
	"tienda/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Details map[string]any  `json:"details"`
	Code    int             `json:"code"`
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	carts := memory.NewCartRepository(store)
	orders := memory.NewOrderRepository(store)

	p, err := product.NewProduct(product.PostOptions{
		ID: 1, Title: "Poncho", Price: shared.NewMoney(1000, "CLP"), Discount: 10, Stock: 5, Available: true,
	})
	require.NoError(t, err)
	require.NoError(t, products.Save(t.Context(), p))

	rc := retry.DefaultConfig
	rc.InitialDelay = time.Millisecond
	rc.MaxDelay = time.Millisecond
	uow := memory.NewUnitOfWorkFactory(store, rc)

	m := metrics.New("tienda_test")
	orderService := orderapp.NewService(orders, products, carts, uow, order.NewCodeGenerator(orders),
		orderapp.Config{DefaultImageURL: "https://cdn.example/default.png"}, orderapp.WithMetrics(m))
	cartService := cartapp.NewService(carts, products, uow, "CLP")

	cfg := &config.Config{
		App:     config.AppConfig{Name: "tienda", Env: "test"},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	router := NewRouter(cfg, m,
		health.NewController(cfg, map[string]health.CheckFunc{"database": func(context.Context) error { return nil }}),
		orderapi.NewController(orderService),
		cartapi.NewController(cartService),
	)
	router.SetupRoutes()
	return router.GetEngine()
}

func do(t *testing.T, engine *gin.Engine, method, path string, body any, headers map[string]string) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func TestCheckoutAndStatusFlow(t *testing.T) {
	engine := newTestEngine(t)
	buyer := map[string]string{"X-User-ID": "42"}
	admin := map[string]string{"X-Admin-ID": "9"}

	status, env := do(t, engine, http.MethodPost, "/api/v1/cart/items",
		map[string]any{"product_id": 1, "quantity": 3}, buyer)
	require.Equal(t, http.StatusOK, status)

	var cartBody cartapp.CartResponse
	require.NoError(t, json.Unmarshal(env.Data, &cartBody))
	assert.Equal(t, int64(2700), cartBody.Total)

	status, env = do(t, engine, http.MethodPost, "/api/v1/orders", nil, buyer)
	require.Equal(t, http.StatusCreated, status)

	var created orderapi.CreateOrderResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.Code)
	assert.False(t, created.Replayed)

	status, env = do(t, engine, http.MethodGet, "/api/v1/orders/"+created.Code, nil, nil)
	require.Equal(t, http.StatusOK, status)
	var detail orderapp.OrderResponse
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "Created", detail.Status)
	assert.Equal(t, int64(2700), detail.Total.Amount)
	assert.Equal(t, []string{"Paid", "Cancelled"}, detail.AllowedStatuses)

	status, env = do(t, engine, http.MethodPut, "/api/v1/admin/orders/"+created.Code+"/status",
		map[string]any{"status": "paid", "reason": "bank transfer"}, admin)
	require.Equal(t, http.StatusOK, status)
	var changed orderapp.StatusChangeResponse
	require.NoError(t, json.Unmarshal(env.Data, &changed))
	assert.True(t, changed.Changed)
	assert.Equal(t, "Paid", changed.Order.Status)

	status, env = do(t, engine, http.MethodPut, "/api/v1/admin/orders/"+created.Code+"/status",
		map[string]any{"status": "Delivered"}, admin)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", env.Error)

	status, env = do(t, engine, http.MethodGet, "/api/v1/orders/"+created.Code+"/history", nil, nil)
	require.Equal(t, http.StatusOK, status)
	var history []orderapp.StatusChangeEntryResponse
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history, 1)
	assert.Equal(t, "Created", history[0].From)
	assert.Equal(t, "Paid", history[0].To)
	assert.Equal(t, int64(9), history[0].AdminID)

	status, env = do(t, engine, http.MethodGet, "/api/v1/orders/user-orders?page=1&page_size=5", nil, buyer)
	require.Equal(t, http.StatusOK, status)
	var orders []orderapp.OrderResponse
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	assert.Len(t, orders, 1)

	// the list is scoped to the caller, never to a user named in the request
	status, env = do(t, engine, http.MethodGet, "/api/v1/orders/user-orders?user_id=42", nil,
		map[string]string{"X-User-ID": "77"})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	assert.Empty(t, orders)

	status, env = do(t, engine, http.MethodGet, "/api/v1/orders/user-orders", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", env.Error)

	// the cart was emptied by checkout
	status, env = do(t, engine, http.MethodPost, "/api/v1/orders", nil, buyer)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "CART_EMPTY", env.Error)
}

func TestErrorMapping(t *testing.T) {
	engine := newTestEngine(t)

	status, env := do(t, engine, http.MethodPost, "/api/v1/orders", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", env.Error)

	status, env = do(t, engine, http.MethodGet, "/api/v1/orders/ORD-UNKNOWN", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "ORDER_NOT_FOUND", env.Error)

	status, env = do(t, engine, http.MethodPost, "/api/v1/orders", nil, map[string]string{"X-User-ID": "77"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "CART_NOT_FOUND", env.Error)

	status, env = do(t, engine, http.MethodPost, "/api/v1/cart/items",
		map[string]any{"product_id": 1, "quantity": 6}, map[string]string{"X-Buyer-ID": "anon"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", env.Error)
	assert.EqualValues(t, 5, env.Details["available"])

	status, env = do(t, engine, http.MethodPost, "/api/v1/cart/items",
		map[string]any{"product_id": 1}, map[string]string{"X-Buyer-ID": "anon"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "BAD_REQUEST", env.Error)

	status, env = do(t, engine, http.MethodPut, "/api/v1/admin/orders/ORD-UNKNOWN/status",
		map[string]any{"status": "Lost"}, map[string]string{"X-Admin-ID": "1"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", env.Error)
}

func TestMetricsEndpoint(t *testing.T) {
	engine := newTestEngine(t)
	do(t, engine, http.MethodGet, "/api/v1/health", nil, nil)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tienda_test_http_requests_total")
}
