/*
Package order application layer: checkout and order status orchestration.

1. Every write runs inside a unit of work taken from the factory per call
2. Aggregates raise events, the unit of work stores them in the outbox before
   commit; services never publish
3. A unit of work may run its function again after a transient storage
   conflict, so every function reloads what it reads
*/
package order

import (
	"context"
	"maps"
	"slices"
	"time"

	"tienda/domain/cart"
	"tienda/domain/order"
	"tienda/domain/product"
	"tienda/domain/shared"
	apperrors "tienda/pkg/errors"
	"tienda/pkg/logger"
	"tienda/pkg/metrics"

	"go.uber.org/zap"
)

// Config checkout settings
type Config struct {
	DefaultImageURL string
	DefaultPageSize int
}

// Service order application service
type Service struct {
	orders     order.Repository
	products   product.Repository
	carts      cart.Repository
	uowFactory shared.UnitOfWorkFactory
	codes      *order.CodeGenerator

	idempotency IdempotencyStore
	metrics     metrics.Recorder
	now         func() time.Time
	cfg         Config
}

// Option optional collaborators
type Option func(*Service)

// WithIdempotencyStore enables CreateOrderOnce deduplication
func WithIdempotencyStore(store IdempotencyStore) Option {
	return func(s *Service) { s.idempotency = store }
}

func WithMetrics(r metrics.Recorder) Option {
	return func(s *Service) { s.metrics = r }
}

// WithClock clock used for status change timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(
	orders order.Repository,
	products product.Repository,
	carts cart.Repository,
	uowFactory shared.UnitOfWorkFactory,
	codes *order.CodeGenerator,
	cfg Config,
	opts ...Option,
) *Service {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 10
	}
	s := &Service{
		orders:     orders,
		products:   products,
		carts:      carts,
		uowFactory: uowFactory,
		codes:      codes,
		metrics:    metrics.Nop{},
		now:        time.Now,
		cfg:        cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder turns the cart of userID into an order and returns its code.
//
// Cart and products are locked for the whole transaction. Every line is
// checked before anything is written; any failure leaves stock, cart and
// orders untouched.
func (s *Service) CreateOrder(ctx context.Context, userID int64) (string, error) {
	if userID <= 0 {
		return "", shared.NewValidationError("order", "user_id", "user id must be positive")
	}

	started := time.Now()
	var placed *order.Order

	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		placed = nil

		c, err := s.carts.FindByUserIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if c.IsEmpty() {
			return cart.NewCartEmptyError()
		}

		locked, err := s.products.FindByIDsForUpdate(ctx, c.ProductIDs())
		if err != nil {
			return err
		}

		code, err := s.codes.Generate(ctx)
		if err != nil {
			return err
		}

		// validate and take stock line by line, in cart order; nothing is written yet
		snapshots := make([]order.ItemSnapshot, 0, len(c.Items()))
		for _, item := range c.Items() {
			p, ok := locked[item.ProductID()]
			if !ok {
				return product.NewProductNotFoundError(item.ProductID())
			}
			if err := p.DecreaseStock(item.Quantity()); err != nil {
				return err
			}
			snapshots = append(snapshots, order.SnapshotOf(p, item.Quantity(), s.cfg.DefaultImageURL))
		}

		o, err := order.NewOrder(order.PlaceOptions{
			Code:     code,
			UserID:   userID,
			Currency: snapshots[0].PriceAtMoment.Currency(),
			Items:    snapshots,
		})
		if err != nil {
			return err
		}

		for _, id := range slices.Sorted(maps.Keys(locked)) {
			if err := s.products.Save(ctx, locked[id]); err != nil {
				return err
			}
		}
		if err := s.orders.Save(ctx, o); err != nil {
			return err
		}
		c.Clear()
		if err := s.carts.Save(ctx, c); err != nil {
			return err
		}

		uow.RegisterNew(o)
		placed = o
		return nil
	})

	log := logger.FromContext(ctx)
	if err != nil {
		s.metrics.ObserveCheckout(outcomeOf(err), 0, time.Since(started))
		log.Warn("Checkout failed",
			zap.Int64("user_id", userID),
			zap.String("outcome", outcomeOf(err)),
			zap.Error(err),
		)
		return "", err
	}

	s.metrics.ObserveCheckout(metrics.OutcomeOK, len(placed.Items()), time.Since(started))
	log.Info("Order placed",
		zap.String("order_code", placed.Code()),
		zap.Int64("user_id", userID),
		zap.Int("items", len(placed.Items())),
		zap.Int64("total", placed.Total().Amount()),
		zap.String("currency", placed.Total().Currency()),
	)
	return placed.Code(), nil
}

// ChangeStatus moves the order identified by code to newStatus on behalf of adminID.
// Asking for the current status succeeds without touching the order.
func (s *Service) ChangeStatus(ctx context.Context, code, newStatus string, adminID int64, reason string) (*StatusChangeResponse, error) {
	target, err := order.ParseStatus(newStatus)
	if err != nil {
		return nil, err
	}
	if adminID <= 0 {
		return nil, shared.NewValidationError("order", "admin_id", "admin id must be positive")
	}

	var (
		updated *order.Order
		from    order.Status
		changed bool
	)

	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		o, err := s.orders.FindByCode(ctx, code)
		if err != nil {
			return err
		}
		from = o.Status()

		changed, err = o.ChangeStatus(target, adminID, reason, s.now())
		if err != nil {
			return err
		}
		if changed {
			if err := s.orders.Save(ctx, o); err != nil {
				return err
			}
			uow.RegisterDirty(o)
		}
		updated = o
		return nil
	})

	log := logger.FromContext(ctx).With(
		zap.String("order_code", code),
		zap.Int64("admin_id", adminID),
		zap.String("from", from.String()),
		zap.String("to", target.String()),
	)
	if err != nil {
		s.metrics.ObserveStatusChange(from.String(), target.String(), outcomeOf(err))
		log.Warn("Order status change rejected", zap.Error(err))
		return nil, err
	}

	s.metrics.ObserveStatusChange(from.String(), target.String(), metrics.OutcomeOK)
	if changed {
		log.Info("Order status changed")
	} else {
		log.Debug("Order status unchanged, already in target status")
	}
	return &StatusChangeResponse{Order: toOrderResponse(updated), Changed: changed}, nil
}

// GetOrder order detail by code
func (s *Service) GetOrder(ctx context.Context, code string) (*OrderResponse, error) {
	o, err := s.orders.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// GetUserOrders orders of userID, newest first
func (s *Service) GetUserOrders(ctx context.Context, userID int64, pageNumber, pageSize int) (*OrderListResponse, error) {
	if userID <= 0 {
		return nil, shared.NewValidationError("order", "user_id", "user id must be positive")
	}
	page := order.Page{Number: pageNumber, Size: pageSize}.Normalize(s.cfg.DefaultPageSize)

	orders, total, err := s.orders.FindByUserID(ctx, userID, page)
	if err != nil {
		return nil, err
	}

	responses := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = toOrderResponse(o)
	}
	return &OrderListResponse{
		Orders:   responses,
		Page:     page.Number,
		PageSize: page.Size,
		Total:    total,
	}, nil
}

// StatusHistory audit entries of an order, oldest first
func (s *Service) StatusHistory(ctx context.Context, code string) ([]order.StatusChange, error) {
	o, err := s.orders.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.orders.StatusHistory(ctx, o.ID())
}

// outcomeOf metric label of a failed operation
func outcomeOf(err error) string {
	return string(apperrors.FromDomainError(err).Code)
}
