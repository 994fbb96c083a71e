package shared

import (
	"errors"
	"math"
)

var (
	// ErrCurrencyMismatch arithmetic between different currencies
	ErrCurrencyMismatch = errors.New("cannot combine money with different currencies")

	// ErrAmountOverflow arithmetic overflowed int64
	ErrAmountOverflow = errors.New("money amount overflow")
)

// Money value object, amount stored in the smallest currency unit
type Money struct {
	amount   int64
	currency string
}

// NewMoney creates a Money value object
func NewMoney(amount int64, currency string) Money {
	return Money{amount: amount, currency: currency}
}

// Zero returns a zero amount in currency
func Zero(currency string) Money {
	return Money{currency: currency}
}

func (m Money) Amount() int64    { return m.amount }
func (m Money) Currency() string { return m.currency }
func (m Money) IsZero() bool     { return m.amount == 0 }

// Add returns m + other
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	if (other.amount > 0 && m.amount > math.MaxInt64-other.amount) ||
		(other.amount < 0 && m.amount < math.MinInt64-other.amount) {
		return Money{}, ErrAmountOverflow
	}
	return Money{amount: m.amount + other.amount, currency: m.currency}, nil
}

// Multiply returns m * quantity with overflow check
func (m Money) Multiply(quantity int) (Money, error) {
	if quantity == 0 || m.amount == 0 {
		return Money{currency: m.currency}, nil
	}
	q := int64(quantity)
	result := m.amount * q
	if result/q != m.amount {
		return Money{}, ErrAmountOverflow
	}
	return Money{amount: result, currency: m.currency}, nil
}

// ApplyDiscount returns amount - floor(amount * percent / 100).
// percent is expected in [0, 100]; amounts are non-negative so integer
// division truncates the same way floor does.
func (m Money) ApplyDiscount(percent int) Money {
	off := m.amount * int64(percent) / 100
	return Money{amount: m.amount - off, currency: m.currency}
}

// Equals compares amount and currency
func (m Money) Equals(other Money) bool {
	return m.amount == other.amount && m.currency == other.currency
}
