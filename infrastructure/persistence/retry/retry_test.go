package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"tienda/domain/shared"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func fastConfig(attempts int) Config {
	cfg := DefaultConfig
	cfg.MaxAttempts = attempts
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	return cfg
}

func TestIsRetryableError(t *testing.T) {
	cfg := DefaultConfig
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"optimistic lock", shared.NewConcurrentModificationError("product", "7"), true},
		{"deadlock", &mysqlDriver.MySQLError{Number: 1213, Message: "Deadlock found"}, true},
		{"lock wait timeout", &mysqlDriver.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}, true},
		{"duplicate key", &mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry"}, false},
		{"gorm duplicate", gorm.ErrDuplicatedKey, false},
		{"insufficient stock", shared.ErrInsufficientStock, false},
		{"sqlite busy", errors.New("database is locked (5) (SQLITE_BUSY)"), true},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryableError(tt.err, cfg))
		})
	}

	cfg.RetryOnConcurrentModification = false
	assert.False(t, IsRetryableError(shared.ErrConcurrentModification, cfg))
}

func TestExecuteWithRetry_SucceedsAfterConflicts(t *testing.T) {
	calls := 0
	var retried []int
	cfg := fastConfig(3)
	cfg.OnRetry = func(attempt int, _ error) { retried = append(retried, attempt) }

	err := ExecuteWithRetry(context.Background(), cfg, func(context.Context) error {
		calls++
		if calls < 3 {
			return shared.NewConcurrentModificationError("order", "o-1")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestExecuteWithRetry_ExhaustedIsTransientConflict(t *testing.T) {
	calls := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(4), func(context.Context) error {
		calls++
		return shared.NewConcurrentModificationError("product", "7")
	})
	require.ErrorIs(t, err, shared.ErrTransientConflict)
	assert.ErrorIs(t, err, shared.ErrConcurrentModification)
	assert.Equal(t, 4, calls)
}

func TestExecuteWithRetry_BusinessErrorNotRetried(t *testing.T) {
	calls := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(5), func(context.Context) error {
		calls++
		return shared.NewInvalidStateError("cart", "cart is empty")
	})
	require.ErrorIs(t, err, shared.ErrInvalidState)
	assert.False(t, errors.Is(err, shared.ErrTransientConflict))
	assert.Equal(t, 1, calls)
}

func TestExecuteWithRetry_Disabled(t *testing.T) {
	cfg := fastConfig(5)
	cfg.Enabled = false
	calls := 0
	err := ExecuteWithRetry(context.Background(), cfg, func(context.Context) error {
		calls++
		return shared.ErrConcurrentModification
	})
	assert.ErrorIs(t, err, shared.ErrConcurrentModification)
	assert.False(t, errors.Is(err, shared.ErrTransientConflict))
	assert.Equal(t, 1, calls)
}

func TestExecuteWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ExecuteWithRetry(ctx, fastConfig(3), func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExponentialBackoffWithJitter(t *testing.T) {
	cfg := DefaultConfig
	cfg.JitterEnabled = false
	assert.Equal(t, time.Duration(0), ExponentialBackoffWithJitter(0, cfg))
	assert.Equal(t, 100*time.Millisecond, ExponentialBackoffWithJitter(1, cfg))
	assert.Equal(t, 200*time.Millisecond, ExponentialBackoffWithJitter(2, cfg))
	assert.Equal(t, 2*time.Second, ExponentialBackoffWithJitter(10, cfg))

	cfg.JitterEnabled = true
	d := ExponentialBackoffWithJitter(1, cfg)
	assert.GreaterOrEqual(t, d, 80*time.Millisecond)
	assert.Less(t, d, 120*time.Millisecond)
}
