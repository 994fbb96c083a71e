package shared

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_Multiply(t *testing.T) {
	m, err := NewMoney(900, "USD").Multiply(3)
	require.NoError(t, err)
	assert.Equal(t, int64(2700), m.Amount())

	_, err = NewMoney(math.MaxInt64/2+1, "USD").Multiply(2)
	assert.ErrorIs(t, err, ErrAmountOverflow)
}

func TestMoney_Add(t *testing.T) {
	sum, err := NewMoney(1, "USD").Add(NewMoney(2, "USD"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), sum.Amount())

	_, err = NewMoney(1, "USD").Add(NewMoney(2, "EUR"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = NewMoney(math.MaxInt64, "USD").Add(NewMoney(1, "USD"))
	assert.ErrorIs(t, err, ErrAmountOverflow)
}

func TestMoney_ApplyDiscount(t *testing.T) {
	assert.Equal(t, int64(900), NewMoney(1000, "USD").ApplyDiscount(10).Amount())
	assert.Equal(t, int64(850), NewMoney(999, "USD").ApplyDiscount(15).Amount())
	assert.Equal(t, int64(0), NewMoney(999, "USD").ApplyDiscount(100).Amount())
}

func TestDomainError_Kinds(t *testing.T) {
	cause := ErrConcurrentModification
	err := NewTransientConflictError(3, cause)
	assert.ErrorIs(t, err, ErrTransientConflict)
	assert.ErrorIs(t, err, ErrConcurrentModification)
	assert.Contains(t, err.Error(), "3 attempts")

	stacker, ok := err.(Stacker)
	require.True(t, ok)
	assert.NotEmpty(t, stacker.Stack())
}
