package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "tienda", cfg.App.Name)
	assert.Equal(t, "memory", cfg.Database.Type)
	assert.Equal(t, 3, cfg.Database.Retry.MaxAttempts)
	assert.Equal(t, 10, cfg.Checkout.CodeMaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Worker.PollInterval)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
app:
  env: production
database:
  type: mysql
  database: shop
checkout:
  currency: USD
  code_max_attempts: 4
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	t.Setenv("TIENDA_DATABASE_HOST", "db.internal")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "mysql", cfg.Database.Type)
	assert.Equal(t, "shop", cfg.Database.Database)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "USD", cfg.Checkout.Currency)
	assert.Equal(t, 4, cfg.Checkout.CodeMaxAttempts)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{
		Database: DatabaseConfig{Type: "memory"},
		Checkout: CheckoutConfig{Currency: "USD", CodeMaxAttempts: 1},
	}
	require.NoError(t, base.Validate())

	bad := base
	bad.Database.Type = "oracle"
	assert.Error(t, bad.Validate())

	bad = base
	bad.Checkout.CodeMaxAttempts = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.Kafka = KafkaConfig{Enabled: true}
	assert.Error(t, bad.Validate())
}
