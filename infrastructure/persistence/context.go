/*
Package persistence context plumbing shared by every storage backend.

A unit of work places its transaction handle in the context; repositories
pick it up so that every read and write of one business operation runs in
the same transaction. The request id travels the same way down to the SQL
logger.
*/
package persistence

import (
	"context"

	"gorm.io/gorm"
)

type (
	txKey        struct{}
	requestIDKey struct{}
)

// TxFromContext GORM transaction of the running unit of work, or nil
func TxFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// ContextWithTx attaches a GORM transaction
func ContextWithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// RequestIDFromContext request id set by the HTTP middleware, or ""
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// ContextWithRequestID attaches a request id
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}
