/*
Package order Order subdomain

An Order is the immutable record of a completed checkout. Its line items are
snapshots of the products at checkout time and never follow later catalog
edits. The only mutable part is the status, which moves through the
whitelist in status.go, each move leaving an audit entry.

DDD rules followed here:
1. All fields are private, behavior is exposed through methods
2. The repository rebuilds aggregates through ReconstructionDTO
3. Events are recorded on the aggregate and pulled by the unit of work
*/
package order

import (
	"fmt"
	"time"

	"tienda/domain/product"
	"tienda/domain/shared"

	"github.com/google/uuid"
)

// Order order aggregate root
type Order struct {
	id       string
	code     string
	userID   int64
	items    []OrderItem
	subTotal shared.Money
	total    shared.Money
	status   Status
	version  int // optimistic lock version

	createdAt        time.Time
	updatedAt        time.Time
	statusChangedAt  time.Time
	changedByAdminID int64 // 0 when no admin has changed the status yet
	changeReason     string

	events []shared.DomainEvent

	// dirty tracking
	newChanges []StatusChange
	isNew      bool
}

// OrderItem snapshot of one cart line at checkout time
type OrderItem struct {
	id               string
	productID        int64
	title            string
	description      string
	imageURL         string
	priceAtMoment    shared.Money
	discountAtMoment int
	quantity         int
	lineTotal        shared.Money
}

// ItemSnapshot everything copied from the product for one line
type ItemSnapshot struct {
	ProductID        int64
	Title            string
	Description      string
	ImageURL         string
	PriceAtMoment    shared.Money
	DiscountAtMoment int
	Quantity         int
}

// SnapshotOf copies the current state of p for a line of quantity.
// defaultImageURL is used when the product has no image.
func SnapshotOf(p *product.Product, quantity int, defaultImageURL string) ItemSnapshot {
	return ItemSnapshot{
		ProductID:        p.ID(),
		Title:            p.Title(),
		Description:      p.Description(),
		ImageURL:         p.PrimaryImageURL(defaultImageURL),
		PriceAtMoment:    p.PriceAtMoment(),
		DiscountAtMoment: p.Discount(),
		Quantity:         quantity,
	}
}

// PlaceOptions order creation options
type PlaceOptions struct {
	Code     string
	UserID   int64
	Currency string
	Items    []ItemSnapshot
}

// ============================================================================
// Factory
// ============================================================================

// NewOrder creates an order in status Created.
// subTotal is the sum of priceAtMoment*quantity and total mirrors it.
func NewOrder(opts PlaceOptions) (*Order, error) {
	if opts.Code == "" {
		return nil, shared.NewValidationError("order", "code", "order code is required")
	}
	if opts.UserID <= 0 {
		return nil, shared.NewValidationError("order", "user_id", "user id must be positive")
	}
	if len(opts.Items) == 0 {
		return nil, NewEmptyOrderItemsError()
	}

	subTotal := shared.Zero(opts.Currency)
	items := make([]OrderItem, len(opts.Items))
	for i, snap := range opts.Items {
		if snap.Quantity <= 0 {
			return nil, shared.NewValidationError("order", "quantity", "quantity must be positive")
		}

		lineTotal, err := snap.PriceAtMoment.Multiply(snap.Quantity)
		if err != nil {
			return nil, err
		}
		if subTotal, err = subTotal.Add(lineTotal); err != nil {
			return nil, err
		}

		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate order item ID: %w", err)
		}

		items[i] = OrderItem{
			id:               id.String(),
			productID:        snap.ProductID,
			title:            snap.Title,
			description:      snap.Description,
			imageURL:         snap.ImageURL,
			priceAtMoment:    snap.PriceAtMoment,
			discountAtMoment: snap.DiscountAtMoment,
			quantity:         snap.Quantity,
			lineTotal:        lineTotal,
		}
	}

	orderID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order ID: %w", err)
	}

	now := time.Now().UTC()
	o := &Order{
		id:        orderID.String(),
		code:      opts.Code,
		userID:    opts.UserID,
		items:     items,
		subTotal:  subTotal,
		total:     subTotal,
		status:          StatusCreated,
		createdAt:       now,
		updatedAt:       now,
		statusChangedAt: now,
		isNew:           true,
	}

	o.events = append(o.events, NewOrderPlacedEvent(o.id, o.code, o.userID, o.total, len(o.items)))

	return o, nil
}

// ============================================================================
// ReconstructionDTO - repository use only
// ============================================================================

// ReconstructionDTO order reconstruction data
type ReconstructionDTO struct {
	ID               string
	Code             string
	UserID           int64
	Items            []OrderItem
	SubTotal         shared.Money
	Total            shared.Money
	Status           Status
	Version          int
	CreatedAt        time.Time
	UpdatedAt        time.Time
	StatusChangedAt  time.Time
	ChangedByAdminID int64
	ChangeReason     string
}

// RebuildFromDTO rebuilds a persisted order
func RebuildFromDTO(dto ReconstructionDTO) *Order {
	return &Order{
		id:               dto.ID,
		code:             dto.Code,
		userID:           dto.UserID,
		items:            dto.Items,
		subTotal:         dto.SubTotal,
		total:            dto.Total,
		status:           dto.Status,
		version:          dto.Version,
		createdAt:        dto.CreatedAt,
		updatedAt:        dto.UpdatedAt,
		statusChangedAt:  dto.StatusChangedAt,
		changedByAdminID: dto.ChangedByAdminID,
		changeReason:     dto.ChangeReason,
	}
}

// ItemReconstructionDTO order item reconstruction data
type ItemReconstructionDTO struct {
	ID               string
	ProductID        int64
	Title            string
	Description      string
	ImageURL         string
	PriceAtMoment    shared.Money
	DiscountAtMoment int
	Quantity         int
	LineTotal        shared.Money
}

// RebuildItemFromDTO rebuilds a persisted order item
func RebuildItemFromDTO(dto ItemReconstructionDTO) OrderItem {
	return OrderItem{
		id:               dto.ID,
		productID:        dto.ProductID,
		title:            dto.Title,
		description:      dto.Description,
		imageURL:         dto.ImageURL,
		priceAtMoment:    dto.PriceAtMoment,
		discountAtMoment: dto.DiscountAtMoment,
		quantity:         dto.Quantity,
		lineTotal:        dto.LineTotal,
	}
}

// ============================================================================
// Status changes
// ============================================================================

// ChangeStatus moves the order to target on behalf of adminID.
//
// Returns changed=false with no mutation when the order already is in target.
// A pair outside the whitelist fails with ErrInvalidTransition (shared.ErrConflict).
// Version is not touched here; the repository increments it after saving.
func (o *Order) ChangeStatus(target Status, adminID int64, reason string, now time.Time) (changed bool, err error) {
	if !target.IsValid() {
		return false, shared.NewValidationError("order", "status", "unknown order status: "+string(target))
	}
	if target == o.status {
		return false, nil
	}
	if !o.status.CanTransitionTo(target) {
		return false, NewInvalidTransitionError(o.status, target)
	}

	now = now.UTC()
	change := StatusChange{
		From:      o.status,
		To:        target,
		AdminID:   adminID,
		Reason:    reason,
		ChangedAt: now,
	}

	o.changeReason = appendLog(o.changeReason, change.Line())
	o.status = target
	o.statusChangedAt = now
	o.changedByAdminID = adminID
	o.updatedAt = now
	o.newChanges = append(o.newChanges, change)

	o.events = append(o.events, NewOrderStatusChangedEvent(o.id, o.code, change))

	return true, nil
}

// IncrementVersionForSave called by the repository after a successful save
func (o *Order) IncrementVersionForSave() {
	o.version++
}

// ============================================================================
// Getters
// ============================================================================

func (o *Order) ID() string                 { return o.id }
func (o *Order) Code() string               { return o.code }
func (o *Order) UserID() int64              { return o.userID }
func (o *Order) SubTotal() shared.Money     { return o.subTotal }
func (o *Order) Total() shared.Money        { return o.total }
func (o *Order) Status() Status             { return o.status }
func (o *Order) Version() int               { return o.version }
func (o *Order) CreatedAt() time.Time       { return o.createdAt }
func (o *Order) UpdatedAt() time.Time       { return o.updatedAt }
func (o *Order) StatusChangedAt() time.Time { return o.statusChangedAt }
func (o *Order) ChangedByAdminID() int64    { return o.changedByAdminID }
func (o *Order) ChangeReason() string       { return o.changeReason }

// Items copy of the order items
func (o *Order) Items() []OrderItem {
	items := make([]OrderItem, len(o.items))
	copy(items, o.items)
	return items
}

// ============================================================================
// Dirty tracking - repository use only
// ============================================================================

// IsNew aggregate was created in this process and not yet saved
func (o *Order) IsNew() bool { return o.isNew }

// NewStatusChanges transitions applied since load, to be inserted in the audit table
func (o *Order) NewStatusChanges() []StatusChange {
	changes := make([]StatusChange, len(o.newChanges))
	copy(changes, o.newChanges)
	return changes
}

// ClearDirtyTracking called by the repository after a successful save
func (o *Order) ClearDirtyTracking() {
	o.newChanges = nil
	o.isNew = false
}

// PullEvents returns and clears the recorded events
func (o *Order) PullEvents() []shared.DomainEvent {
	events := o.events
	o.events = nil
	return events
}

// OrderItem getters

func (item OrderItem) ID() string                  { return item.id }
func (item OrderItem) ProductID() int64            { return item.productID }
func (item OrderItem) Title() string               { return item.title }
func (item OrderItem) Description() string         { return item.description }
func (item OrderItem) ImageURL() string            { return item.imageURL }
func (item OrderItem) PriceAtMoment() shared.Money { return item.priceAtMoment }
func (item OrderItem) DiscountAtMoment() int       { return item.discountAtMoment }
func (item OrderItem) Quantity() int               { return item.quantity }
func (item OrderItem) LineTotal() shared.Money     { return item.lineTotal }

var _ shared.AggregateRoot = (*Order)(nil)
