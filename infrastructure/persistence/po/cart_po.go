package po

import (
	"time"

	"tienda/domain/cart"
	"tienda/domain/shared"
)

// CartPO cart row; user_id is 0 for anonymous buyers
type CartPO struct {
	ID        string    `gorm:"primaryKey;size:64"`
	BuyerID   string    `gorm:"size:64;index"`
	UserID    int64     `gorm:"index;not null;default:0"`
	SubTotal  int64     `gorm:"not null;default:0"`
	Total     int64     `gorm:"not null;default:0"`
	Currency  string    `gorm:"size:3;not null"`
	Version   int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (CartPO) TableName() string {
	return "carts"
}

// CartItemPO cart line; position keeps insertion order
type CartItemPO struct {
	CartID    string `gorm:"primaryKey;size:64"`
	ProductID int64  `gorm:"primaryKey;autoIncrement:false"`
	Quantity  int    `gorm:"not null;check:quantity > 0"`
	Position  int    `gorm:"not null"`
}

func (CartItemPO) TableName() string {
	return "cart_items"
}

// FromCartDomain domain -> rows
func FromCartDomain(c *cart.Cart) (*CartPO, []CartItemPO) {
	row := &CartPO{
		ID:        c.ID(),
		BuyerID:   c.Owner().BuyerID,
		UserID:    c.Owner().UserID,
		SubTotal:  c.SubTotal().Amount(),
		Total:     c.Total().Amount(),
		Currency:  c.Total().Currency(),
		Version:   c.Version(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}

	items := c.Items()
	itemRows := make([]CartItemPO, len(items))
	for i, item := range items {
		itemRows[i] = CartItemPO{
			CartID:    c.ID(),
			ProductID: item.ProductID(),
			Quantity:  item.Quantity(),
			Position:  i,
		}
	}
	return row, itemRows
}

// ToDomain rows -> domain; items must be sorted by position
func (po *CartPO) ToDomain(items []CartItemPO) *cart.Cart {
	domainItems := make([]cart.CartItem, len(items))
	for i, item := range items {
		domainItems[i] = cart.RebuildItem(item.ProductID, item.Quantity)
	}
	return cart.RebuildFromDTO(cart.ReconstructionDTO{
		ID:        po.ID,
		Owner:     cart.Owner{UserID: po.UserID, BuyerID: po.BuyerID},
		Items:     domainItems,
		SubTotal:  shared.NewMoney(po.SubTotal, po.Currency),
		Total:     shared.NewMoney(po.Total, po.Currency),
		Version:   po.Version,
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
	})
}
