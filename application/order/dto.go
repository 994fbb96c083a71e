package order

import "time"

// ChangeStatusRequest admin status change input; admin id comes from the X-Admin-ID header
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// OrderResponse order detail
type OrderResponse struct {
	ID               string              `json:"id"`
	Code             string              `json:"code"`
	UserID           int64               `json:"user_id"`
	Items            []OrderItemResponse `json:"items"`
	SubTotal         MoneyResponse       `json:"sub_total"`
	Total            MoneyResponse       `json:"total"`
	Status           string              `json:"status"`
	AllowedStatuses  []string            `json:"allowed_statuses"`
	ChangedByAdminID *int64              `json:"changed_by_admin_id,omitempty"`
	ChangeReason     string              `json:"change_reason,omitempty"`
	StatusChangedAt  *time.Time          `json:"status_changed_at,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// OrderItemResponse snapshot line
type OrderItemResponse struct {
	ProductID        int64         `json:"product_id"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	ImageURL         string        `json:"image_url"`
	PriceAtMoment    MoneyResponse `json:"price_at_moment"`
	DiscountAtMoment int           `json:"discount_at_moment"`
	Quantity         int           `json:"quantity"`
	LineTotal        MoneyResponse `json:"line_total"`
}

// MoneyResponse amount in the smallest currency unit
type MoneyResponse struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// OrderListResponse one page of a user's orders
type OrderListResponse struct {
	Orders   []*OrderResponse `json:"orders"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Total    int64            `json:"total"`
}

// StatusChangeResponse result of ChangeStatus; Changed is false for a same-status request
type StatusChangeResponse struct {
	Order   *OrderResponse `json:"order"`
	Changed bool           `json:"changed"`
}

// StatusChangeEntryResponse one audit entry of the status history
type StatusChangeEntryResponse struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	AdminID   int64     `json:"admin_id"`
	Reason    string    `json:"reason,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
	Line      string    `json:"line"`
}
