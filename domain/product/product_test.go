package product

import (
	"errors"
	"testing"

	"tienda/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(t *testing.T, stock int) *Product {
	t.Helper()
	p, err := NewProduct(PostOptions{
		ID:        7,
		Title:     "Yerba 1kg",
		Price:     shared.NewMoney(1000, "USD"),
		Discount:  10,
		Stock:     stock,
		Available: true,
	})
	require.NoError(t, err)
	return p
}

func TestDecreaseStock(t *testing.T) {
	p := newProduct(t, 5)

	require.NoError(t, p.DecreaseStock(3))
	assert.Equal(t, 2, p.Stock())

	err := p.DecreaseStock(3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
	assert.Equal(t, 2, p.Stock())

	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(7), stockErr.ProductID)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)
	assert.NotEmpty(t, stockErr.Stack())

	require.NoError(t, p.DecreaseStock(2))
	assert.Equal(t, 0, p.Stock())

	assert.ErrorIs(t, p.DecreaseStock(0), shared.ErrInvalidInput)
}

func TestNewProduct_Validation(t *testing.T) {
	tests := []struct {
		name string
		opts PostOptions
	}{
		{"missing id", PostOptions{Title: "x"}},
		{"missing title", PostOptions{ID: 1}},
		{"discount above 100", PostOptions{ID: 1, Title: "x", Discount: 101}},
		{"negative stock", PostOptions{ID: 1, Title: "x", Stock: -1}},
		{"negative price", PostOptions{ID: 1, Title: "x", Price: shared.NewMoney(-1, "USD")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProduct(tt.opts)
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
		})
	}
}

func TestPrimaryImageURL(t *testing.T) {
	p := newProduct(t, 1)
	assert.Equal(t, "fallback.png", p.PrimaryImageURL("fallback.png"))

	p = RebuildFromDTO(ReconstructionDTO{
		ID: 1, Title: "x",
		Images: []Image{{URL: "third.png", Position: 3}, {URL: "first.png", Position: 1}, {URL: "second.png", Position: 2}},
	})
	assert.Equal(t, "first.png", p.PrimaryImageURL("fallback.png"))
	assert.Equal(t, "third.png", p.Images()[2].URL)

	tied := RebuildFromDTO(ReconstructionDTO{
		ID: 1, Title: "x",
		Images: []Image{{URL: "b.png", Position: 1}, {URL: "c.png", Position: 1}, {URL: "a.png", Position: 0}},
	})
	urls := make([]string, 0, 3)
	for _, img := range tied.Images() {
		urls = append(urls, img.URL)
	}
	assert.Equal(t, []string{"a.png", "b.png", "c.png"}, urls)
}

func TestIsPurchasable(t *testing.T) {
	p := newProduct(t, 1)
	assert.True(t, p.IsPurchasable())

	deleted := RebuildFromDTO(ReconstructionDTO{ID: 1, Title: "x", Available: true, Deleted: true})
	assert.False(t, deleted.IsPurchasable())

	hidden := RebuildFromDTO(ReconstructionDTO{ID: 1, Title: "x"})
	assert.False(t, hidden.IsPurchasable())
}

func TestNotFoundErrorKinds(t *testing.T) {
	err := NewProductNotFoundError(9)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Contains(t, err.Error(), "9")
}
