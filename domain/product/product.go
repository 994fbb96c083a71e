/*
Package product Catalog product as seen by checkout.

The catalog owns product editing; checkout only reads the current price,
discount and images and decrements the stock ledger. Stock never goes
negative: DecreaseStock refuses the change instead of clamping.
*/
package product

import (
	"cmp"
	"slices"
	"time"

	"tienda/domain/shared"
)

// Product product aggregate root
type Product struct {
	id          int64
	title       string
	description string
	price       shared.Money
	discount    int // percent, 0..100
	stock       int
	available   bool
	deleted     bool
	images      []Image
	version     int
	createdAt   time.Time
	updatedAt   time.Time

	isNew bool
}

// Image product image, ordered by position
type Image struct {
	URL      string
	Position int
}

// PostOptions product creation options
type PostOptions struct {
	ID          int64
	Title       string
	Description string
	Price       shared.Money
	Discount    int
	Stock       int
	Available   bool
	Images      []Image
}

// NewProduct creates a product. The catalog assigns the id.
func NewProduct(opts PostOptions) (*Product, error) {
	if opts.ID <= 0 {
		return nil, shared.NewValidationError("product", "id", "product id must be positive")
	}
	if opts.Title == "" {
		return nil, shared.NewValidationError("product", "title", "title is required")
	}
	if opts.Price.Amount() < 0 {
		return nil, shared.NewValidationError("product", "price", "price cannot be negative")
	}
	if opts.Discount < 0 || opts.Discount > 100 {
		return nil, shared.NewValidationError("product", "discount", "discount must be between 0 and 100")
	}
	if opts.Stock < 0 {
		return nil, shared.NewValidationError("product", "stock", "stock cannot be negative")
	}

	now := time.Now()
	return &Product{
		id:          opts.ID,
		title:       opts.Title,
		description: opts.Description,
		price:       opts.Price,
		discount:    opts.Discount,
		stock:       opts.Stock,
		available:   opts.Available,
		images:      sortImages(opts.Images),
		createdAt:   now,
		updatedAt:   now,
		isNew:       true,
	}, nil
}

// ReconstructionDTO repository-only reconstruction data
type ReconstructionDTO struct {
	ID          int64
	Title       string
	Description string
	Price       shared.Money
	Discount    int
	Stock       int
	Available   bool
	Deleted     bool
	Images      []Image
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RebuildFromDTO rebuilds a persisted product
func RebuildFromDTO(dto ReconstructionDTO) *Product {
	return &Product{
		id:          dto.ID,
		title:       dto.Title,
		description: dto.Description,
		price:       dto.Price,
		discount:    dto.Discount,
		stock:       dto.Stock,
		available:   dto.Available,
		deleted:     dto.Deleted,
		images:      sortImages(dto.Images),
		version:     dto.Version,
		createdAt:   dto.CreatedAt,
		updatedAt:   dto.UpdatedAt,
	}
}

// ============================================================================
// Behavior
// ============================================================================

// PriceAtMoment discounted unit price: price - floor(price*discount/100)
func (p *Product) PriceAtMoment() shared.Money {
	return p.price.ApplyDiscount(p.discount)
}

// IsPurchasable product is listed and not soft-deleted
func (p *Product) IsPurchasable() bool {
	return p.available && !p.deleted
}

// HasStock reports whether quantity can be taken from stock
func (p *Product) HasStock(quantity int) bool {
	return quantity <= p.stock
}

// DecreaseStock takes quantity out of the stock ledger
func (p *Product) DecreaseStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("product", "quantity", "quantity must be positive")
	}
	if quantity > p.stock {
		return NewInsufficientStockError(p.id, p.title, quantity, p.stock)
	}
	p.stock -= quantity
	p.updatedAt = time.Now()
	return nil
}

// Reprice catalog edit of price and discount
func (p *Product) Reprice(price shared.Money, discount int) error {
	if price.Amount() < 0 {
		return shared.NewValidationError("product", "price", "price cannot be negative")
	}
	if discount < 0 || discount > 100 {
		return shared.NewValidationError("product", "discount", "discount must be between 0 and 100")
	}
	p.price = price
	p.discount = discount
	p.updatedAt = time.Now()
	return nil
}

// Restock catalog edit of the stock level
func (p *Product) Restock(stock int) error {
	if stock < 0 {
		return shared.NewValidationError("product", "stock", "stock cannot be negative")
	}
	p.stock = stock
	p.updatedAt = time.Now()
	return nil
}

// PrimaryImageURL first image by position, or fallback when there is none
func (p *Product) PrimaryImageURL(fallback string) string {
	if len(p.images) == 0 {
		return fallback
	}
	return p.images[0].URL
}

// IncrementVersionForSave called by the repository after a successful update
func (p *Product) IncrementVersionForSave() {
	p.version++
}

// ClearDirtyTracking called by the repository after a successful save
func (p *Product) ClearDirtyTracking() {
	p.isNew = false
}

// ============================================================================
// Getters
// ============================================================================

func (p *Product) ID() int64            { return p.id }
func (p *Product) Title() string        { return p.title }
func (p *Product) Description() string  { return p.description }
func (p *Product) Price() shared.Money  { return p.price }
func (p *Product) Discount() int        { return p.discount }
func (p *Product) Stock() int           { return p.stock }
func (p *Product) Available() bool      { return p.available }
func (p *Product) Deleted() bool        { return p.deleted }
func (p *Product) Version() int         { return p.version }
func (p *Product) CreatedAt() time.Time { return p.createdAt }
func (p *Product) UpdatedAt() time.Time { return p.updatedAt }
func (p *Product) IsNew() bool          { return p.isNew }

// Images copy of the ordered images
func (p *Product) Images() []Image {
	images := make([]Image, len(p.images))
	copy(images, p.images)
	return images
}

func sortImages(images []Image) []Image {
	sorted := slices.Clone(images)
	// stable: equal positions keep their given order
	slices.SortStableFunc(sorted, func(a, b Image) int {
		return cmp.Compare(a.Position, b.Position)
	})
	return sorted
}
