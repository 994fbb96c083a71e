package order

import (
	"regexp"
	"testing"

	"tienda/domain/product"
	"tienda/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, id int64, price int64, discount, stock int, images ...product.Image) *product.Product {
	t.Helper()
	p, err := product.NewProduct(product.PostOptions{
		ID:          id,
		Title:       "Mate cup",
		Description: "Calabash mate cup",
		Price:       shared.NewMoney(price, "USD"),
		Discount:    discount,
		Stock:       stock,
		Available:   true,
		Images:      images,
	})
	require.NoError(t, err)
	return p
}

func TestNewOrder_PriceSnapshot(t *testing.T) {
	p := newTestProduct(t, 7, 1000, 10, 5)

	o, err := NewOrder(PlaceOptions{
		Code:     "ORD-261014093000-555",
		UserID:   42,
		Currency: "USD",
		Items:    []ItemSnapshot{SnapshotOf(p, 3, "https://cdn.example/default.png")},
	})
	require.NoError(t, err)

	items := o.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(900), items[0].PriceAtMoment().Amount())
	assert.Equal(t, 10, items[0].DiscountAtMoment())
	assert.Equal(t, "https://cdn.example/default.png", items[0].ImageURL())
	assert.Equal(t, int64(2700), items[0].LineTotal().Amount())
	assert.Equal(t, int64(2700), o.SubTotal().Amount())
	assert.True(t, o.SubTotal().Equals(o.Total()))
	assert.Equal(t, StatusCreated, o.Status())
	assert.True(t, o.IsNew())
	assert.False(t, o.StatusChangedAt().IsZero())
	assert.Equal(t, o.CreatedAt(), o.StatusChangedAt())
	assert.Zero(t, o.ChangedByAdminID())

	events := o.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "order.placed", events[0].EventName())
	assert.Equal(t, o.ID(), events[0].GetAggregateID())
}

func TestNewOrder_SnapshotIgnoresLaterProductEdits(t *testing.T) {
	p := newTestProduct(t, 7, 1000, 10, 5,
		product.Image{URL: "b.png", Position: 2},
		product.Image{URL: "a.png", Position: 1},
	)
	o, err := NewOrder(PlaceOptions{
		Code: "ORD-261014093000-556", UserID: 1, Currency: "USD",
		Items: []ItemSnapshot{SnapshotOf(p, 1, "default.png")},
	})
	require.NoError(t, err)

	require.NoError(t, p.Reprice(shared.NewMoney(5000, "USD"), 50))

	item := o.Items()[0]
	assert.Equal(t, int64(900), item.PriceAtMoment().Amount())
	assert.Equal(t, 10, item.DiscountAtMoment())
	assert.Equal(t, "a.png", item.ImageURL())
}

func TestNewOrder_Validation(t *testing.T) {
	_, err := NewOrder(PlaceOptions{Code: "c", UserID: 1, Currency: "USD"})
	assert.ErrorIs(t, err, ErrEmptyOrderItems)

	_, err = NewOrder(PlaceOptions{UserID: 1, Items: []ItemSnapshot{{Quantity: 1}}})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = NewOrder(PlaceOptions{Code: "c", UserID: 1, Items: []ItemSnapshot{{Quantity: 0}}})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestPriceAtMoment_Truncates(t *testing.T) {
	tests := []struct {
		price    int64
		discount int
		want     int64
	}{
		{1000, 10, 900},
		{999, 15, 850}, // 999*15/100 = 149.85 -> 149
		{1, 50, 1},
		{1234, 0, 1234},
		{1234, 100, 0},
	}
	for _, tt := range tests {
		p := newTestProduct(t, 1, tt.price, tt.discount, 1)
		assert.Equal(t, tt.want, p.PriceAtMoment().Amount())
	}
}

var codePattern = regexp.MustCompile(`^ORD-\d{12}-\d{3}$`)

func TestFormatCode(t *testing.T) {
	o := orderInStatus(t, StatusCreated)
	code := FormatCode(o.CreatedAt(), 123)
	assert.Equal(t, "ORD-260102030405-123", code)
	assert.Regexp(t, codePattern, FormatCode(o.CreatedAt(), 5))
}
