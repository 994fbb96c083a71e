// Package cart buyer cart API controller. The owner comes from X-User-ID or,
// for anonymous buyers, X-Buyer-ID.
package cart

import (
	"net/http"
	"strconv"

	"tienda/api/ctxutil"
	"tienda/api/response"
	cartapp "tienda/application/cart"

	"github.com/gin-gonic/gin"
)

// Controller cart controller
type Controller struct {
	cartService *cartapp.Service
}

func NewController(cartService *cartapp.Service) *Controller {
	return &Controller{cartService: cartService}
}

// RegisterRoutes routes under /cart
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	cartGroup := router.Group("/cart")
	{
		cartGroup.GET("", c.GetCart)
		cartGroup.POST("/items", c.AddItem)
		cartGroup.PUT("/items/:productId", c.ChangeQuantity)
		cartGroup.DELETE("/items/:productId", c.RemoveItem)
	}
}

// GetCart GET /api/v1/cart
func (c *Controller) GetCart(ctx *gin.Context) {
	owner, err := ctxutil.CartOwner(ctx)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	resp, err := c.cartService.GetCart(ctx.Request.Context(), owner)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, resp, "cart retrieved successfully")
}

// AddItem POST /api/v1/cart/items
func (c *Controller) AddItem(ctx *gin.Context) {
	owner, err := ctxutil.CartOwner(ctx)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	var req cartapp.AddItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	resp, err := c.cartService.AddItem(ctx.Request.Context(), owner, req.ProductID, req.Quantity)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, resp, "item added to cart")
}

// ChangeQuantity PUT /api/v1/cart/items/:productId
func (c *Controller) ChangeQuantity(ctx *gin.Context) {
	owner, err := ctxutil.CartOwner(ctx)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	productID, err := strconv.ParseInt(ctx.Param("productId"), 10, 64)
	if err != nil {
		response.HandleError(ctx, err, "product ID must be an integer", http.StatusBadRequest)
		return
	}

	var req cartapp.ChangeQuantityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	resp, err := c.cartService.ChangeQuantity(ctx.Request.Context(), owner, productID, req.Quantity)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, resp, "cart item updated")
}

// RemoveItem DELETE /api/v1/cart/items/:productId
func (c *Controller) RemoveItem(ctx *gin.Context) {
	owner, err := ctxutil.CartOwner(ctx)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	productID, err := strconv.ParseInt(ctx.Param("productId"), 10, 64)
	if err != nil {
		response.HandleError(ctx, err, "product ID must be an integer", http.StatusBadRequest)
		return
	}

	resp, err := c.cartService.RemoveItem(ctx.Request.Context(), owner, productID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, resp, "cart item removed")
}
