package cmd

import (
	"context"
	"fmt"
	"net/http"

	"tienda/api"
	apicart "tienda/api/cart"
	"tienda/api/health"
	apiorder "tienda/api/order"
	cartapp "tienda/application/cart"
	orderapp "tienda/application/order"
	"tienda/config"
	"tienda/domain/cart"
	"tienda/domain/order"
	"tienda/domain/product"
	"tienda/domain/shared"
	"tienda/infrastructure/cache/redis"
	"tienda/infrastructure/persistence/memory"
	"tienda/infrastructure/persistence/mysql"
	"tienda/infrastructure/persistence/retry"
	"tienda/pkg/logger"
	"tienda/pkg/metrics"

	"go.uber.org/zap"
)

// storage repositories and unit of work of one backend
type storage struct {
	products   product.Repository
	carts      cart.Repository
	orders     order.Repository
	uowFactory shared.UnitOfWorkFactory
	check      health.CheckFunc
	close      func() error
}

// AppBuilder wires the services of the checkout API from configuration
type AppBuilder struct {
	cfg         *config.Config
	memoryStore *memory.Store
	seedDemo    bool
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg, seedDemo: true}
}

// WithMemoryStore uses store instead of a fresh one when database.type is memory
func (b *AppBuilder) WithMemoryStore(store *memory.Store) *AppBuilder {
	b.memoryStore = store
	return b
}

// WithoutDemoCatalog skips seeding the demo products into the memory store
func (b *AppBuilder) WithoutDemoCatalog() *AppBuilder {
	b.seedDemo = false
	return b
}

// Build connects every configured backend. The logger must be initialized.
func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	logger.Info("Starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env),
		zap.String("database", b.cfg.Database.Type))

	app := &App{config: b.cfg}

	var m *metrics.Metrics
	var recorder metrics.Recorder = metrics.Nop{}
	if b.cfg.Metrics.Enabled {
		m = metrics.New(b.cfg.Metrics.Namespace)
		recorder = m
	}

	retryConfig := retry.FromAppConfig(b.cfg)
	retryConfig.OnRetry = func(attempt int, err error) {
		recorder.ObserveRetry("unit_of_work")
		logger.Debug("Retrying unit of work", zap.Int("attempt", attempt), zap.Error(err))
	}

	store, err := b.buildStorage(ctx, retryConfig)
	if err != nil {
		return nil, err
	}
	if store.close != nil {
		app.closers = append(app.closers, store.close)
	}
	checks := map[string]health.CheckFunc{"database": store.check}

	orderOpts := []orderapp.Option{orderapp.WithMetrics(recorder)}
	if b.cfg.Redis.Enabled {
		client, err := redis.NewClient(ctx, b.cfg.Redis)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.closers = append(app.closers, client.Close)
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }

		idem := redis.NewIdempotencyStore(client, b.cfg.Redis.KeyPrefix, b.cfg.Redis.IdempotencyTTL)
		orderOpts = append(orderOpts, orderapp.WithIdempotencyStore(idem))
		logger.Info("Checkout idempotency keys stored in Redis", zap.String("addr", b.cfg.Redis.Addr))
	}

	codes := order.NewCodeGenerator(store.orders, order.WithMaxAttempts(b.cfg.Checkout.CodeMaxAttempts))
	orderService := orderapp.NewService(
		store.orders, store.products, store.carts, store.uowFactory, codes,
		orderapp.Config{
			DefaultImageURL: b.cfg.Checkout.DefaultImageURL,
			DefaultPageSize: b.cfg.Checkout.DefaultPageSize,
		},
		orderOpts...,
	)
	cartService := cartapp.NewService(store.carts, store.products, store.uowFactory, b.cfg.Checkout.Currency)

	router := api.NewRouter(b.cfg, m,
		health.NewController(b.cfg, checks),
		apiorder.NewController(orderService),
		apicart.NewController(cartService),
	)
	router.SetupRoutes()

	app.server = &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}
	return app, nil
}

func (b *AppBuilder) buildStorage(ctx context.Context, retryConfig retry.Config) (*storage, error) {
	switch b.cfg.Database.Type {
	case "mysql":
		return b.buildMySQL(ctx, retryConfig)
	case "memory":
		return b.buildMemory(ctx, retryConfig)
	default:
		return nil, fmt.Errorf("unsupported database type %q", b.cfg.Database.Type)
	}
}

func (b *AppBuilder) buildMySQL(ctx context.Context, retryConfig retry.Config) (*storage, error) {
	db, err := NewMySQLConfig(b.cfg).Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := mysql.Ping(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	if b.cfg.Database.AutoMigrate {
		if err := mysql.AutoMigrate(db); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to auto migrate: %w", err)
		}
	}

	return &storage{
		products:   mysql.NewProductRepository(db),
		carts:      mysql.NewCartRepository(db),
		orders:     mysql.NewOrderRepository(db),
		uowFactory: mysql.NewUnitOfWorkFactory(db, retryConfig),
		check:      func(ctx context.Context) error { return mysql.Ping(ctx, db) },
		close:      sqlDB.Close,
	}, nil
}

func (b *AppBuilder) buildMemory(ctx context.Context, retryConfig retry.Config) (*storage, error) {
	store := b.memoryStore
	if store == nil {
		store = memory.NewStore()
	}
	products := memory.NewProductRepository(store)

	if b.seedDemo {
		if err := seedDemoCatalog(ctx, products, b.cfg.Checkout.Currency); err != nil {
			return nil, err
		}
	}

	logger.Warn("Using in-memory storage; data is lost on restart")
	return &storage{
		products:   products,
		carts:      memory.NewCartRepository(store),
		orders:     memory.NewOrderRepository(store),
		uowFactory: memory.NewUnitOfWorkFactory(store, retryConfig),
		check:      func(context.Context) error { return nil },
	}, nil
}
