package cart

// AddItemRequest body of POST /cart/items
type AddItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required,min=1"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// ChangeQuantityRequest body of PUT /cart/items/:productId
type ChangeQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CartResponse cart priced with the current catalog
type CartResponse struct {
	ID       string             `json:"id"`
	Items    []CartItemResponse `json:"items"`
	SubTotal int64              `json:"sub_total"`
	Total    int64              `json:"total"`
	Currency string             `json:"currency"`
}

// CartItemResponse one line; Missing is true when the product left the catalog
type CartItemResponse struct {
	ProductID     int64  `json:"product_id"`
	Title         string `json:"title,omitempty"`
	Quantity      int    `json:"quantity"`
	UnitPrice     int64  `json:"unit_price"`
	PriceAtMoment int64  `json:"price_at_moment"`
	Discount      int    `json:"discount"`
	LineTotal     int64  `json:"line_total"`
	InStock       bool   `json:"in_stock"`
	Missing       bool   `json:"missing,omitempty"`
}
