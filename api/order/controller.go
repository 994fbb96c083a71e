/*
Package order order API controller

1. Binding and header errors answer 400/401 directly
2. Service errors go through response.HandleAppError, which maps the
   application code to the HTTP status
*/
package order

import (
	"net/http"
	"strconv"

	"tienda/api/ctxutil"
	"tienda/api/response"
	orderapp "tienda/application/order"
	"tienda/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Controller order controller
type Controller struct {
	orderService *orderapp.Service
}

// NewController creates the order controller
func NewController(orderService *orderapp.Service) *Controller {
	return &Controller{
		orderService: orderService,
	}
}

// RegisterRoutes buyer routes under /orders, admin routes under /admin/orders
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	orderGroup := router.Group("/orders")
	{
		orderGroup.POST("", c.CreateOrder)
		orderGroup.GET("/:code", c.GetOrder)
		orderGroup.GET("/:code/history", c.GetStatusHistory)
		orderGroup.GET("/user-orders", c.GetUserOrders)
	}

	adminGroup := router.Group("/admin/orders")
	{
		adminGroup.PUT("/:code/status", c.ChangeStatus)
	}
}

// CreateOrderResponse checkout result
type CreateOrderResponse struct {
	Code     string `json:"code"`
	Replayed bool   `json:"replayed"`
}

// CreateOrder checks out the cart of the caller
// POST /api/v1/orders
//
// A replayed Idempotency-Key answers 200 with the first order code.
func (c *Controller) CreateOrder(ctx *gin.Context) {
	userID, err := ctxutil.UserID(ctx)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	code, replayed, err := c.orderService.CreateOrderOnce(ctx.Request.Context(), userID, ctxutil.IdempotencyKey(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	body := CreateOrderResponse{Code: code, Replayed: replayed}
	if replayed {
		response.HandleSuccess(ctx, body, "order already created")
		return
	}
	response.HandleCreated(ctx, body, "order created successfully")
}

// GetOrder GET /api/v1/orders/:code
func (c *Controller) GetOrder(ctx *gin.Context) {
	order, err := c.orderService.GetOrder(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, order, "order retrieved successfully")
}

// GetStatusHistory GET /api/v1/orders/:code/history
func (c *Controller) GetStatusHistory(ctx *gin.Context) {
	history, err := c.orderService.StatusHistory(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, orderapp.ToStatusHistoryResponse(history), "status history retrieved successfully")
}

// GetUserOrders orders of the caller
// GET /api/v1/orders/user-orders?page=1&page_size=10
func (c *Controller) GetUserOrders(ctx *gin.Context) {
	userID, err := ctxutil.UserID(ctx)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	page, err := queryInt(ctx, "page")
	if err != nil {
		response.HandleError(ctx, err, "page must be an integer", http.StatusBadRequest)
		return
	}
	pageSize, err := queryInt(ctx, "page_size")
	if err != nil {
		response.HandleError(ctx, err, "page_size must be an integer", http.StatusBadRequest)
		return
	}

	list, err := c.orderService.GetUserOrders(ctx.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandlePaginated(ctx, list.Orders,
		response.NewPagination(list.Page, list.PageSize, list.Total),
		"user orders retrieved successfully")
}

// ChangeStatus admin status change
// PUT /api/v1/admin/orders/:code/status
func (c *Controller) ChangeStatus(ctx *gin.Context) {
	adminID, err := ctxutil.AdminID(ctx)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	var req orderapp.ChangeStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	result, err := c.orderService.ChangeStatus(ctx.Request.Context(), ctx.Param("code"), req.Status, adminID, req.Reason)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	message := "order status updated successfully"
	if !result.Changed {
		message = "order already in requested status"
	}
	response.HandleSuccess(ctx, result, message)
}

func queryInt(ctx *gin.Context, name string) (int, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.BadRequest(name + " must be an integer")
	}
	return v, nil
}
