// Package ctxutil caller identity carried in request headers.
// Authentication happens upstream; these headers are trusted as given.
package ctxutil

import (
	"strconv"
	"strings"

	"tienda/domain/cart"
	"tienda/pkg/errors"

	"github.com/gin-gonic/gin"
)

const (
	UserIDHeader         = "X-User-ID"
	AdminIDHeader        = "X-Admin-ID"
	BuyerIDHeader        = "X-Buyer-ID"
	IdempotencyKeyHeader = "Idempotency-Key"
)

// UserID authenticated user id; missing or non-positive is Unauthorized
func UserID(c *gin.Context) (int64, error) {
	return positiveHeader(c, UserIDHeader)
}

// AdminID authenticated admin id; missing or non-positive is Unauthorized
func AdminID(c *gin.Context) (int64, error) {
	return positiveHeader(c, AdminIDHeader)
}

// CartOwner registered user when X-User-ID is present, anonymous buyer otherwise
func CartOwner(c *gin.Context) (cart.Owner, error) {
	if c.GetHeader(UserIDHeader) != "" {
		id, err := UserID(c)
		if err != nil {
			return cart.Owner{}, err
		}
		return cart.Owner{UserID: id}, nil
	}
	if buyer := strings.TrimSpace(c.GetHeader(BuyerIDHeader)); buyer != "" {
		return cart.Owner{BuyerID: buyer}, nil
	}
	return cart.Owner{}, errors.Unauthorized(UserIDHeader + " or " + BuyerIDHeader + " header is required")
}

// IdempotencyKey client supplied key, "" when absent
func IdempotencyKey(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
}

func positiveHeader(c *gin.Context, header string) (int64, error) {
	raw := c.GetHeader(header)
	if raw == "" {
		return 0, errors.Unauthorized(header + " header is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Unauthorized(header + " must be a positive integer")
	}
	return id, nil
}
