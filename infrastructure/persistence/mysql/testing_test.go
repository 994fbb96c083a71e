package mysql

import (
	"path/filepath"
	"testing"
	"time"

	"tienda/domain/product"
	"tienda/domain/shared"
	"tienda/infrastructure/persistence/retry"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB in-memory SQLite with the production schema. One connection, so
// concurrent transactions serialize exactly like row locks would make them.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), GormConfig("silent"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

// newFileTestDB file-backed SQLite shared by conns connections. WAL lets readers
// run beside the writer; immediate transactions queue on busy_timeout the way
// FOR UPDATE waiters queue on MySQL.
func newFileTestDB(t *testing.T, conns int) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "tienda.db") +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), GormConfig("silent"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(conns)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func testRetryConfig() retry.Config {
	cfg := retry.DefaultConfig
	cfg.MaxAttempts = 5
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 5 * time.Millisecond
	return cfg
}

func seedProduct(t *testing.T, repo *ProductRepository, id int64, price int64, discount, stock int, images ...product.Image) *product.Product {
	t.Helper()
	p, err := product.NewProduct(product.PostOptions{
		ID:          id,
		Title:       "Product " + productKey(id),
		Description: "Seeded product",
		Price:       shared.NewMoney(price, "CLP"),
		Discount:    discount,
		Stock:       stock,
		Available:   true,
		Images:      images,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(t.Context(), p))
	return p
}
