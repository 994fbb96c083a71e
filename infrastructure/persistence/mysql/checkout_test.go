package mysql

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	orderapp "tienda/application/order"
	"tienda/domain/cart"
	"tienda/domain/order"
	"tienda/domain/shared"
	"tienda/infrastructure/persistence/po"
	"tienda/infrastructure/persistence/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type checkoutFixture struct {
	db       *gorm.DB
	products *ProductRepository
	carts    *CartRepository
	orders   *OrderRepository
	service  *orderapp.Service
}

func newCheckoutFixture(t *testing.T, conns int, rc retry.Config) *checkoutFixture {
	t.Helper()
	db := newFileTestDB(t, conns)
	f := &checkoutFixture{
		db:       db,
		products: NewProductRepository(db),
		carts:    NewCartRepository(db),
		orders:   NewOrderRepository(db),
	}

	var suffix atomic.Int64
	codes := order.NewCodeGenerator(f.orders, order.WithRandom(func() int {
		return 100 + int(suffix.Add(1))
	}))

	f.service = orderapp.NewService(
		f.orders, f.products, f.carts,
		NewUnitOfWorkFactory(db, rc),
		codes,
		orderapp.Config{DefaultImageURL: "default.png", DefaultPageSize: 10},
	)
	return f
}

// seedCart lines are product id, quantity pairs
func (f *checkoutFixture) seedCart(t *testing.T, userID int64, lines ...[2]int64) {
	t.Helper()
	c, err := cart.NewCart(cart.Owner{UserID: userID}, "CLP")
	require.NoError(t, err)
	for _, l := range lines {
		require.NoError(t, c.AddItem(l[0], int(l[1])))
	}
	require.NoError(t, f.carts.Save(t.Context(), c))
}

func (f *checkoutFixture) stock(t *testing.T, id int64) int {
	t.Helper()
	p, err := f.products.FindByID(t.Context(), id)
	require.NoError(t, err)
	return p.Stock()
}

func (f *checkoutFixture) cartItems(t *testing.T, userID int64) int {
	t.Helper()
	c, err := f.carts.FindByOwner(t.Context(), cart.Owner{UserID: userID})
	require.NoError(t, err)
	return len(c.Items())
}

func (f *checkoutFixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func TestCheckout_PlacesOrderOnGormStore(t *testing.T) {
	f := newCheckoutFixture(t, 4, testRetryConfig())
	seedProduct(t, f.products, 7, 1000, 10, 5)
	f.seedCart(t, 42, [2]int64{7, 3})

	code, err := f.service.CreateOrder(t.Context(), 42)
	require.NoError(t, err)
	assert.Regexp(t, `^ORD-\d{12}-\d{3}$`, code)

	o, err := f.orders.FindByCode(t.Context(), code)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCreated, o.Status())
	assert.Equal(t, int64(2700), o.SubTotal().Amount())
	assert.Equal(t, int64(2700), o.Total().Amount())
	require.Len(t, o.Items(), 1)
	assert.Equal(t, int64(900), o.Items()[0].PriceAtMoment().Amount())
	assert.Equal(t, 3, o.Items()[0].Quantity())

	assert.Equal(t, 2, f.stock(t, 7))
	assert.Equal(t, 0, f.cartItems(t, 42))
	assert.Equal(t, int64(1), f.count(t, &po.OutboxEventPO{}))
}

func TestCheckout_InsufficientStockLeavesStoreUnchanged(t *testing.T) {
	f := newCheckoutFixture(t, 4, testRetryConfig())
	seedProduct(t, f.products, 7, 1000, 10, 2)
	f.seedCart(t, 42, [2]int64{7, 3})

	_, err := f.service.CreateOrder(t.Context(), 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInsufficientStock))

	assert.Equal(t, 2, f.stock(t, 7))
	assert.Equal(t, 1, f.cartItems(t, 42))
	assert.Zero(t, f.count(t, &po.OrderPO{}))
}

func TestCheckout_FailingLaterLineRollsBackEarlierLines(t *testing.T) {
	f := newCheckoutFixture(t, 4, testRetryConfig())
	seedProduct(t, f.products, 7, 1000, 10, 5)
	seedProduct(t, f.products, 8, 300, 0, 1)
	f.seedCart(t, 42, [2]int64{7, 3}, [2]int64{8, 2})

	_, err := f.service.CreateOrder(t.Context(), 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
	assert.Contains(t, err.Error(), "8")

	assert.Equal(t, 5, f.stock(t, 7))
	assert.Equal(t, 1, f.stock(t, 8))
	assert.Equal(t, 2, f.cartItems(t, 42))
	assert.Zero(t, f.count(t, &po.OrderPO{}))
	assert.Zero(t, f.count(t, &po.OrderItemPO{}))
	assert.Zero(t, f.count(t, &po.OutboxEventPO{}))

	// the same cart goes through once stock is back
	p, err := f.products.FindByID(t.Context(), 8)
	require.NoError(t, err)
	require.NoError(t, p.Restock(2))
	require.NoError(t, f.products.Save(t.Context(), p))

	code, err := f.service.CreateOrder(t.Context(), 42)
	require.NoError(t, err)
	assert.Equal(t, 2, f.stock(t, 7))
	assert.Equal(t, 0, f.stock(t, 8))
	assert.Equal(t, 0, f.cartItems(t, 42))

	o, err := f.orders.FindByCode(t.Context(), code)
	require.NoError(t, err)
	assert.Equal(t, int64(2700+600), o.Total().Amount())
}

func TestCheckout_ShippedOrderCannotGoBackToPaid(t *testing.T) {
	f := newCheckoutFixture(t, 4, testRetryConfig())
	seedProduct(t, f.products, 7, 1000, 10, 5)
	f.seedCart(t, 42, [2]int64{7, 1})

	code, err := f.service.CreateOrder(t.Context(), 42)
	require.NoError(t, err)
	_, err = f.service.ChangeStatus(t.Context(), code, "Paid", 1, "payment ok")
	require.NoError(t, err)
	_, err = f.service.ChangeStatus(t.Context(), code, "Shipped", 1, "")
	require.NoError(t, err)

	_, err = f.service.ChangeStatus(t.Context(), code, "Paid", 1, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, order.ErrInvalidTransition))
	assert.True(t, errors.Is(err, shared.ErrConflict))

	o, err := f.orders.FindByCode(t.Context(), code)
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, o.Status())

	history, err := f.service.StatusHistory(t.Context(), code)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestCheckout_ConcurrentBuyersNeverOversell(t *testing.T) {
	rc := testRetryConfig()
	rc.MaxAttempts = 50
	f := newCheckoutFixture(t, 8, rc)

	const (
		initialStock = 5
		buyers       = 12
	)
	seedProduct(t, f.products, 7, 100, 0, initialStock)
	for u := int64(1); u <= buyers; u++ {
		f.seedCart(t, u, [2]int64{7, 1})
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		placed   int
		rejected int
		other    []error
	)
	for u := int64(1); u <= buyers; u++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := f.service.CreateOrder(context.Background(), userID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				placed++
			case errors.Is(err, shared.ErrInsufficientStock):
				rejected++
			default:
				other = append(other, err)
			}
		}(u)
	}
	wg.Wait()

	require.Empty(t, other)
	assert.Equal(t, initialStock, placed)
	assert.Equal(t, buyers-initialStock, rejected)
	assert.Equal(t, 0, f.stock(t, 7))

	var sold int64
	require.NoError(t, f.db.Model(&po.OrderItemPO{}).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sold).Error)
	assert.Equal(t, int64(initialStock), sold)
	assert.Equal(t, int64(initialStock), f.count(t, &po.OrderPO{}))
}
