package mysql

import (
	"context"
	"errors"
	"slices"
	"time"

	"tienda/domain/product"
	"tienda/domain/shared"
	"tienda/infrastructure/persistence/po"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository MySQL/GORM implementation of product repository.
// Images live in their own table and are loaded explicitly, no GORM associations.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository Create product repository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFrom(ctx, r.db)
}

// FindByID Find product by ID, soft-deleted rows are excluded by GORM
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*product.Product, error) {
	var row po.ProductPO
	if err := r.getDB(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.NewProductNotFoundError(id)
		}
		return nil, err
	}

	images, err := r.loadImages(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	return row.ToDomain(images[id]), nil
}

// FindByIDs plain read, for paths outside a checkout transaction
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*product.Product, error) {
	return r.findByIDs(ctx, r.getDB(ctx), ids)
}

// FindByIDsForUpdate locks rows in ascending id order so concurrent checkouts
// over overlapping products always acquire locks in the same sequence
func (r *ProductRepository) FindByIDsForUpdate(ctx context.Context, ids []int64) (map[int64]*product.Product, error) {
	return r.findByIDs(ctx, r.getDB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), ids)
}

func (r *ProductRepository) findByIDs(ctx context.Context, db *gorm.DB, ids []int64) (map[int64]*product.Product, error) {
	result := make(map[int64]*product.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	var rows []po.ProductPO
	err := db.
		Where("id IN ?", sorted).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	images, err := r.loadImages(ctx, sorted)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		result[rows[i].ID] = rows[i].ToDomain(images[rows[i].ID])
	}
	return result, nil
}

func (r *ProductRepository) loadImages(ctx context.Context, ids []int64) (map[int64][]po.ProductImagePO, error) {
	var rows []po.ProductImagePO
	err := r.getDB(ctx).
		Where("product_id IN ?", ids).
		Order("product_id ASC, position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	byProduct := make(map[int64][]po.ProductImagePO, len(ids))
	for _, img := range rows {
		byProduct[img.ProductID] = append(byProduct[img.ProductID], img)
	}
	return byProduct, nil
}

// Save inserts a new product with its images, or updates the mutable columns
// guarded by the version read at load time
func (r *ProductRepository) Save(ctx context.Context, p *product.Product) error {
	productPO, imagePOs := po.FromProductDomain(p)

	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		if p.IsNew() {
			if err := tx.Create(productPO).Error; err != nil {
				if isDuplicateKeyError(err) {
					return shared.NewConflictError("product", "product already exists")
				}
				return err
			}
			if len(imagePOs) > 0 {
				return tx.Create(&imagePOs).Error
			}
			return nil
		}

		result := tx.Model(&po.ProductPO{}).
			Where("id = ? AND version = ?", p.ID(), p.Version()).
			Updates(map[string]any{
				"stock":      p.Stock(),
				"price":      p.Price().Amount(),
				"currency":   p.Price().Currency(),
				"discount":   p.Discount(),
				"available":  p.Available(),
				"version":    gorm.Expr("version + 1"),
				"updated_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewConcurrentModificationError("product", productKey(p.ID()))
		}
		return nil
	})
	if err != nil {
		return err
	}

	if !p.IsNew() {
		p.IncrementVersionForSave()
	}
	p.ClearDirtyTracking()
	return nil
}

var _ product.Repository = (*ProductRepository)(nil)
