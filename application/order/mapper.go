package order

import (
	"tienda/domain/order"
	"tienda/domain/shared"
)

func toMoneyResponse(m shared.Money) MoneyResponse {
	return MoneyResponse{Amount: m.Amount(), Currency: m.Currency()}
}

func toOrderResponse(o *order.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(o.Items()))
	for i, item := range o.Items() {
		items[i] = OrderItemResponse{
			ProductID:        item.ProductID(),
			Title:            item.Title(),
			Description:      item.Description(),
			ImageURL:         item.ImageURL(),
			PriceAtMoment:    toMoneyResponse(item.PriceAtMoment()),
			DiscountAtMoment: item.DiscountAtMoment(),
			Quantity:         item.Quantity(),
			LineTotal:        toMoneyResponse(item.LineTotal()),
		}
	}

	allowed := o.Status().AllowedTargets()
	allowedNames := make([]string, len(allowed))
	for i, s := range allowed {
		allowedNames[i] = s.String()
	}

	resp := &OrderResponse{
		ID:              o.ID(),
		Code:            o.Code(),
		UserID:          o.UserID(),
		Items:           items,
		SubTotal:        toMoneyResponse(o.SubTotal()),
		Total:           toMoneyResponse(o.Total()),
		Status:          o.Status().String(),
		AllowedStatuses: allowedNames,
		ChangeReason:    o.ChangeReason(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}
	if admin := o.ChangedByAdminID(); admin != 0 {
		resp.ChangedByAdminID = &admin
	}
	if at := o.StatusChangedAt(); !at.IsZero() {
		resp.StatusChangedAt = &at
	}
	return resp
}

// ToStatusHistoryResponse audit entries in the order they were applied
func ToStatusHistoryResponse(changes []order.StatusChange) []StatusChangeEntryResponse {
	entries := make([]StatusChangeEntryResponse, len(changes))
	for i, c := range changes {
		entries[i] = StatusChangeEntryResponse{
			From:      c.From.String(),
			To:        c.To.String(),
			AdminID:   c.AdminID,
			Reason:    c.Reason,
			ChangedAt: c.ChangedAt,
			Line:      c.Line(),
		}
	}
	return entries
}
