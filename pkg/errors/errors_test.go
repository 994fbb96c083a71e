package errors

import (
	"errors"
	"fmt"
	"testing"

	"tienda/domain/cart"
	"tienda/domain/order"
	"tienda/domain/product"
	"tienda/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDomainError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"cart missing", cart.NewCartNotFoundError(cart.Owner{UserID: 1}), CodeCartNotFound},
		{"cart empty", cart.NewCartEmptyError(), CodeCartEmpty},
		{"product missing", product.NewProductNotFoundError(3), CodeProductNotFound},
		{"product unavailable", product.NewProductUnavailableError(3), CodeProductUnavailable},
		{"order missing", order.NewOrderNotFoundError("ORD-1"), CodeOrderNotFound},
		{"transition", order.NewInvalidTransitionError(order.StatusShipped, order.StatusPaid), CodeInvalidTransition},
		{"validation", shared.NewValidationError("order", "status", "unknown"), CodeValidation},
		{"generic not found", shared.NewNotFoundError("thing", "missing"), CodeNotFound},
		{"concurrent", shared.NewConcurrentModificationError("order", "ORD-1"), CodeConcurrentModify},
		{"transient", shared.NewTransientConflictError(3, shared.NewConcurrentModificationError("product", "1")), CodeTransientConflict},
		{"code exhausted", order.NewCodeGenerationExhaustedError(10), CodeConflict},
		{"wrapped", fmt.Errorf("checkout: %w", cart.NewCartEmptyError()), CodeCartEmpty},
		{"unknown", errors.New("disk on fire"), CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromDomainError(tt.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.want, appErr.Code)
			assert.ErrorIs(t, appErr, tt.err)
		})
	}
}

func TestFromDomainError_InsufficientStockDetails(t *testing.T) {
	p, err := product.NewProduct(product.PostOptions{
		ID: 7, Title: "Poncho", Price: shared.NewMoney(100, "CLP"), Stock: 2, Available: true,
	})
	require.NoError(t, err)
	stockErr := p.DecreaseStock(3)
	require.Error(t, stockErr)

	appErr := FromDomainError(stockErr)
	assert.Equal(t, CodeInsufficientStock, appErr.Code)
	assert.Equal(t, int64(7), appErr.Details["product_id"])
	assert.Equal(t, 3, appErr.Details["requested"])
	assert.Equal(t, 2, appErr.Details["available"])
}

func TestFromDomainError_PassesAppErrorThrough(t *testing.T) {
	orig := BadRequest("bad header")
	assert.Same(t, orig, FromDomainError(orig))
	assert.Nil(t, FromDomainError(nil))
	assert.True(t, Is(fmt.Errorf("wrap: %w", orig), CodeBadRequest))
}
