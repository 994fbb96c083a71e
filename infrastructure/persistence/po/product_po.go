package po

import (
	"time"

	"tienda/domain/product"
	"tienda/domain/shared"

	"gorm.io/gorm"
)

// ProductPO product row. Only columns, no GORM associations.
type ProductPO struct {
	ID          int64          `gorm:"primaryKey;autoIncrement:false"`
	Title       string         `gorm:"size:255;not null"`
	Description string         `gorm:"type:text"`
	Price       int64          `gorm:"not null"`
	Currency    string         `gorm:"size:3;not null"`
	Discount    int            `gorm:"not null;default:0;check:discount >= 0 AND discount <= 100"`
	Stock       int            `gorm:"not null;default:0;check:stock >= 0"`
	Available   bool           `gorm:"not null;default:true"`
	Version     int            `gorm:"not null;default:0"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (ProductPO) TableName() string {
	return "products"
}

// ProductImagePO ordered product image
type ProductImagePO struct {
	ID        uint   `gorm:"primaryKey"`
	ProductID int64  `gorm:"index:idx_product_images_position,priority:1;not null"`
	Position  int    `gorm:"index:idx_product_images_position,priority:2;not null"`
	URL       string `gorm:"size:512;not null"`
}

func (ProductImagePO) TableName() string {
	return "product_images"
}

// FromProductDomain domain -> rows
func FromProductDomain(p *product.Product) (*ProductPO, []ProductImagePO) {
	row := &ProductPO{
		ID:          p.ID(),
		Title:       p.Title(),
		Description: p.Description(),
		Price:       p.Price().Amount(),
		Currency:    p.Price().Currency(),
		Discount:    p.Discount(),
		Stock:       p.Stock(),
		Available:   p.Available(),
		Version:     p.Version(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
	if p.Deleted() {
		row.DeletedAt = gorm.DeletedAt{Time: p.UpdatedAt(), Valid: true}
	}

	images := p.Images()
	imageRows := make([]ProductImagePO, len(images))
	for i, img := range images {
		imageRows[i] = ProductImagePO{ProductID: p.ID(), Position: img.Position, URL: img.URL}
	}
	return row, imageRows
}

// ToDomain rows -> domain; images must be the rows of this product
func (po *ProductPO) ToDomain(images []ProductImagePO) *product.Product {
	domainImages := make([]product.Image, len(images))
	for i, img := range images {
		domainImages[i] = product.Image{URL: img.URL, Position: img.Position}
	}
	return product.RebuildFromDTO(product.ReconstructionDTO{
		ID:          po.ID,
		Title:       po.Title,
		Description: po.Description,
		Price:       shared.NewMoney(po.Price, po.Currency),
		Discount:    po.Discount,
		Stock:       po.Stock,
		Available:   po.Available,
		Deleted:     po.DeletedAt.Valid,
		Images:      domainImages,
		Version:     po.Version,
		CreatedAt:   po.CreatedAt,
		UpdatedAt:   po.UpdatedAt,
	})
}
