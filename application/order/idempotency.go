package order

import (
	"context"
	"strconv"

	apperrors "tienda/pkg/errors"
	"tienda/pkg/logger"

	"go.uber.org/zap"
)

// IdempotencyStore reservation store for checkout Idempotency-Key values.
// scope isolates keys per user.
type IdempotencyStore interface {
	Reserve(ctx context.Context, scope, key string) (code string, acquired bool, err error)
	Complete(ctx context.Context, scope, key, code string) error
	Release(ctx context.Context, scope, key string) error
}

// CreateOrderOnce CreateOrder guarded by an idempotency key.
//
// A key seen before returns the first order code without running checkout
// again; a key whose checkout is still running is a Conflict. Without a store
// or without a key it is plain CreateOrder.
func (s *Service) CreateOrderOnce(ctx context.Context, userID int64, key string) (code string, replayed bool, err error) {
	if s.idempotency == nil || key == "" {
		code, err = s.CreateOrder(ctx, userID)
		return code, false, err
	}

	scope := strconv.FormatInt(userID, 10)
	existing, acquired, err := s.idempotency.Reserve(ctx, scope, key)
	if err != nil {
		return "", false, err
	}
	if !acquired {
		if existing == "" {
			return "", false, apperrors.New(apperrors.CodeRequestInProgress, "a checkout with this idempotency key is in progress")
		}
		logger.FromContext(ctx).Info("Checkout replayed from idempotency key",
			zap.Int64("user_id", userID),
			zap.String("order_code", existing),
		)
		return existing, true, nil
	}

	code, err = s.CreateOrder(ctx, userID)
	if err != nil {
		if relErr := s.idempotency.Release(ctx, scope, key); relErr != nil {
			logger.FromContext(ctx).Error("Failed to release idempotency key",
				zap.Int64("user_id", userID),
				zap.Error(relErr),
			)
		}
		return "", false, err
	}

	err = s.idempotency.Complete(ctx, scope, key, code)
	if err != nil {
		err = s.idempotency.Complete(ctx, scope, key, code)
	}
	if err != nil {
		// the order exists but the key stays pending until its TTL runs out;
		// replays with it get REQUEST_IN_PROGRESS meanwhile
		logger.FromContext(ctx).Error("Failed to complete idempotency key",
			zap.Int64("user_id", userID),
			zap.String("order_code", code),
			zap.Error(err),
		)
	}
	return code, false, nil
}
