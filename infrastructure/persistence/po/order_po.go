package po

import (
	"time"

	"tienda/domain/order"
	"tienda/domain/shared"
)

// OrderPO order row
type OrderPO struct {
	ID               string `gorm:"primaryKey;size:64"`
	Code             string `gorm:"size:32;uniqueIndex;not null"`
	UserID           int64  `gorm:"index;not null"`
	SubTotal         int64  `gorm:"not null"`
	Total            int64  `gorm:"not null"`
	Currency         string `gorm:"size:3;not null"`
	Status           string `gorm:"size:20;index;not null"`
	StatusChangedAt  *time.Time
	ChangedByAdminID *int64
	ChangeReason     string    `gorm:"type:text"`
	Version          int       `gorm:"not null;default:0"`
	CreatedAt        time.Time `gorm:"index"`
	UpdatedAt        time.Time
}

func (OrderPO) TableName() string {
	return "orders"
}

// OrderItemPO immutable line snapshot
type OrderItemPO struct {
	ID               string `gorm:"primaryKey;size:64"`
	OrderID          string `gorm:"size:64;index;not null"`
	ProductID        int64  `gorm:"index;not null"`
	Title            string `gorm:"size:255;not null"`
	Description      string `gorm:"type:text"`
	ImageURL         string `gorm:"size:512"`
	PriceAtMoment    int64  `gorm:"not null"`
	DiscountAtMoment int    `gorm:"not null"`
	Quantity         int    `gorm:"not null"`
	LineTotal        int64  `gorm:"not null"`
	Currency         string `gorm:"size:3;not null"`
	Position         int    `gorm:"not null"`
}

func (OrderItemPO) TableName() string {
	return "order_items"
}

// OrderStatusChangePO append-only audit row, one per applied transition
type OrderStatusChangePO struct {
	ID         uint      `gorm:"primaryKey"`
	OrderID    string    `gorm:"size:64;index;not null"`
	FromStatus string    `gorm:"size:20;not null"`
	ToStatus   string    `gorm:"size:20;not null"`
	AdminID    int64     `gorm:"not null"`
	Reason     string    `gorm:"type:text"`
	ChangedAt  time.Time `gorm:"not null"`
}

func (OrderStatusChangePO) TableName() string {
	return "order_status_changes"
}

// FromOrderDomain domain -> rows
func FromOrderDomain(o *order.Order) (*OrderPO, []OrderItemPO) {
	row := &OrderPO{
		ID:           o.ID(),
		Code:         o.Code(),
		UserID:       o.UserID(),
		SubTotal:     o.SubTotal().Amount(),
		Total:        o.Total().Amount(),
		Currency:     o.Total().Currency(),
		Status:       string(o.Status()),
		ChangeReason: o.ChangeReason(),
		Version:      o.Version(),
		CreatedAt:    o.CreatedAt(),
		UpdatedAt:    o.UpdatedAt(),
	}
	if at := o.StatusChangedAt(); !at.IsZero() {
		row.StatusChangedAt = &at
	}
	if admin := o.ChangedByAdminID(); admin != 0 {
		row.ChangedByAdminID = &admin
	}

	items := o.Items()
	itemRows := make([]OrderItemPO, len(items))
	for i, item := range items {
		itemRows[i] = OrderItemPO{
			ID:               item.ID(),
			OrderID:          o.ID(),
			ProductID:        item.ProductID(),
			Title:            item.Title(),
			Description:      item.Description(),
			ImageURL:         item.ImageURL(),
			PriceAtMoment:    item.PriceAtMoment().Amount(),
			DiscountAtMoment: item.DiscountAtMoment(),
			Quantity:         item.Quantity(),
			LineTotal:        item.LineTotal().Amount(),
			Currency:         item.LineTotal().Currency(),
			Position:         i,
		}
	}
	return row, itemRows
}

// FromStatusChanges audit rows for the unsaved transitions of an order
func FromStatusChanges(orderID string, changes []order.StatusChange) []OrderStatusChangePO {
	rows := make([]OrderStatusChangePO, len(changes))
	for i, c := range changes {
		rows[i] = OrderStatusChangePO{
			OrderID:    orderID,
			FromStatus: string(c.From),
			ToStatus:   string(c.To),
			AdminID:    c.AdminID,
			Reason:     c.Reason,
			ChangedAt:  c.ChangedAt,
		}
	}
	return rows
}

// ToDomain audit row -> domain
func (po *OrderStatusChangePO) ToDomain() order.StatusChange {
	return order.StatusChange{
		From:      order.Status(po.FromStatus),
		To:        order.Status(po.ToStatus),
		AdminID:   po.AdminID,
		Reason:    po.Reason,
		ChangedAt: po.ChangedAt.UTC(),
	}
}

// ToDomain rows -> domain; items must be sorted by position
func (po *OrderPO) ToDomain(itemRows []OrderItemPO) *order.Order {
	items := make([]order.OrderItem, len(itemRows))
	for i, it := range itemRows {
		items[i] = order.RebuildItemFromDTO(order.ItemReconstructionDTO{
			ID:               it.ID,
			ProductID:        it.ProductID,
			Title:            it.Title,
			Description:      it.Description,
			ImageURL:         it.ImageURL,
			PriceAtMoment:    shared.NewMoney(it.PriceAtMoment, it.Currency),
			DiscountAtMoment: it.DiscountAtMoment,
			Quantity:         it.Quantity,
			LineTotal:        shared.NewMoney(it.LineTotal, it.Currency),
		})
	}

	dto := order.ReconstructionDTO{
		ID:           po.ID,
		Code:         po.Code,
		UserID:       po.UserID,
		Items:        items,
		SubTotal:     shared.NewMoney(po.SubTotal, po.Currency),
		Total:        shared.NewMoney(po.Total, po.Currency),
		Status:       order.Status(po.Status),
		Version:      po.Version,
		CreatedAt:    po.CreatedAt.UTC(),
		UpdatedAt:    po.UpdatedAt.UTC(),
		ChangeReason: po.ChangeReason,
	}
	if po.StatusChangedAt != nil {
		dto.StatusChangedAt = po.StatusChangedAt.UTC()
	}
	if po.ChangedByAdminID != nil {
		dto.ChangedByAdminID = *po.ChangedByAdminID
	}
	return order.RebuildFromDTO(dto)
}
