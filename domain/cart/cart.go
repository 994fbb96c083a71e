/*
Package cart Buyer cart subdomain.

A cart belongs either to a registered user (UserID > 0) or to an anonymous
buyer id. Totals are derived from current product prices and are never
authoritative; checkout recomputes everything from the products it locks.
*/
package cart

import (
	"fmt"
	"time"

	"tienda/domain/product"
	"tienda/domain/shared"

	"github.com/google/uuid"
)

// Owner identifies whose cart it is
type Owner struct {
	UserID  int64
	BuyerID string
}

// IsRegistered owner is an authenticated user
func (o Owner) IsRegistered() bool { return o.UserID > 0 }

func (o Owner) String() string {
	if o.IsRegistered() {
		return fmt.Sprintf("user:%d", o.UserID)
	}
	return "buyer:" + o.BuyerID
}

// Cart cart aggregate root
type Cart struct {
	id       string
	owner    Owner
	items    []CartItem
	subTotal shared.Money // before discount
	total    shared.Money // after discount
	version  int

	createdAt time.Time
	updatedAt time.Time

	isNew bool
}

// CartItem line of a cart, kept in insertion order
type CartItem struct {
	productID int64
	quantity  int
}

// NewCart creates an empty cart for owner
func NewCart(owner Owner, currency string) (*Cart, error) {
	if !owner.IsRegistered() && owner.BuyerID == "" {
		return nil, shared.NewValidationError("cart", "owner", "user id or buyer id is required")
	}
	now := time.Now()
	return &Cart{
		id:        uuid.NewString(),
		owner:     owner,
		subTotal:  shared.Zero(currency),
		total:     shared.Zero(currency),
		createdAt: now,
		updatedAt: now,
		isNew:     true,
	}, nil
}

// ReconstructionDTO repository-only reconstruction data
type ReconstructionDTO struct {
	ID        string
	Owner     Owner
	Items     []CartItem
	SubTotal  shared.Money
	Total     shared.Money
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RebuildFromDTO rebuilds a persisted cart
func RebuildFromDTO(dto ReconstructionDTO) *Cart {
	items := make([]CartItem, len(dto.Items))
	copy(items, dto.Items)
	return &Cart{
		id:        dto.ID,
		owner:     dto.Owner,
		items:     items,
		subTotal:  dto.SubTotal,
		total:     dto.Total,
		version:   dto.Version,
		createdAt: dto.CreatedAt,
		updatedAt: dto.UpdatedAt,
	}
}

// RebuildItem rebuilds a persisted line
func RebuildItem(productID int64, quantity int) CartItem {
	return CartItem{productID: productID, quantity: quantity}
}

// ============================================================================
// Behavior
// ============================================================================

// AddItem adds quantity of a product, merging with an existing line
func (c *Cart) AddItem(productID int64, quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("cart", "quantity", "quantity must be positive")
	}
	for i := range c.items {
		if c.items[i].productID == productID {
			c.items[i].quantity += quantity
			c.updatedAt = time.Now()
			return nil
		}
	}
	c.items = append(c.items, CartItem{productID: productID, quantity: quantity})
	c.updatedAt = time.Now()
	return nil
}

// ChangeQuantity replaces the quantity of an existing line
func (c *Cart) ChangeQuantity(productID int64, quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("cart", "quantity", "quantity must be positive")
	}
	for i := range c.items {
		if c.items[i].productID == productID {
			c.items[i].quantity = quantity
			c.updatedAt = time.Now()
			return nil
		}
	}
	return NewCartItemNotFoundError(productID)
}

// RemoveItem drops the line of a product
func (c *Cart) RemoveItem(productID int64) error {
	for i := range c.items {
		if c.items[i].productID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.updatedAt = time.Now()
			return nil
		}
	}
	return NewCartItemNotFoundError(productID)
}

// Clear removes every line and zeroes the totals. The cart itself stays.
func (c *Cart) Clear() {
	c.items = nil
	c.subTotal = shared.Zero(c.subTotal.Currency())
	c.total = shared.Zero(c.total.Currency())
	c.updatedAt = time.Now()
}

// Recalculate derives subTotal and total from the current products.
// Lines whose product is missing from products contribute nothing.
func (c *Cart) Recalculate(products map[int64]*product.Product) error {
	subTotal := shared.Zero(c.subTotal.Currency())
	total := shared.Zero(c.total.Currency())
	for _, item := range c.items {
		p, ok := products[item.productID]
		if !ok {
			continue
		}
		gross, err := p.Price().Multiply(item.quantity)
		if err != nil {
			return err
		}
		net, err := p.PriceAtMoment().Multiply(item.quantity)
		if err != nil {
			return err
		}
		if subTotal, err = subTotal.Add(gross); err != nil {
			return err
		}
		if total, err = total.Add(net); err != nil {
			return err
		}
	}
	c.subTotal = subTotal
	c.total = total
	return nil
}

// IncrementVersionForSave called by the repository after a successful update
func (c *Cart) IncrementVersionForSave() {
	c.version++
}

// ClearDirtyTracking called by the repository after a successful save
func (c *Cart) ClearDirtyTracking() {
	c.isNew = false
}

// ============================================================================
// Getters
// ============================================================================

func (c *Cart) ID() string             { return c.id }
func (c *Cart) Owner() Owner           { return c.owner }
func (c *Cart) SubTotal() shared.Money { return c.subTotal }
func (c *Cart) Total() shared.Money    { return c.total }
func (c *Cart) Version() int           { return c.version }
func (c *Cart) CreatedAt() time.Time   { return c.createdAt }
func (c *Cart) UpdatedAt() time.Time   { return c.updatedAt }
func (c *Cart) IsNew() bool            { return c.isNew }
func (c *Cart) IsEmpty() bool          { return len(c.items) == 0 }

// Items copy of the lines in insertion order
func (c *Cart) Items() []CartItem {
	items := make([]CartItem, len(c.items))
	copy(items, c.items)
	return items
}

// ProductIDs ids referenced by the cart, in cart order
func (c *Cart) ProductIDs() []int64 {
	ids := make([]int64, len(c.items))
	for i, item := range c.items {
		ids[i] = item.productID
	}
	return ids
}

func (i CartItem) ProductID() int64 { return i.productID }
func (i CartItem) Quantity() int    { return i.quantity }
