package mysql

import (
	"context"
	"errors"
	"time"

	"tienda/domain/cart"
	"tienda/domain/shared"
	"tienda/infrastructure/persistence/po"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository MySQL/GORM implementation of cart repository
type CartRepository struct {
	db *gorm.DB
}

// NewCartRepository Create cart repository
func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFrom(ctx, r.db)
}

// FindByOwner registered users are looked up by user_id, anonymous buyers by buyer_id
func (r *CartRepository) FindByOwner(ctx context.Context, owner cart.Owner) (*cart.Cart, error) {
	return r.find(ctx, r.getDB(ctx), owner)
}

// FindByUserIDForUpdate locks the cart row for the rest of the transaction
func (r *CartRepository) FindByUserIDForUpdate(ctx context.Context, userID int64) (*cart.Cart, error) {
	db := r.getDB(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.find(ctx, db, cart.Owner{UserID: userID})
}

func (r *CartRepository) find(ctx context.Context, db *gorm.DB, owner cart.Owner) (*cart.Cart, error) {
	if owner.IsRegistered() {
		db = db.Where("user_id = ?", owner.UserID)
	} else {
		db = db.Where("buyer_id = ? AND user_id = 0", owner.BuyerID)
	}

	var row po.CartPO
	if err := db.Order("created_at ASC").First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.NewCartNotFoundError(owner)
		}
		return nil, err
	}

	var items []po.CartItemPO
	err := r.getDB(ctx).
		Where("cart_id = ?", row.ID).
		Order("position ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return row.ToDomain(items), nil
}

// Save writes the cart row and replaces its items (delete then insert)
func (r *CartRepository) Save(ctx context.Context, c *cart.Cart) error {
	cartPO, itemPOs := po.FromCartDomain(c)

	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		if c.IsNew() {
			if err := tx.Create(cartPO).Error; err != nil {
				return err
			}
		} else {
			result := tx.Model(&po.CartPO{}).
				Where("id = ? AND version = ?", c.ID(), c.Version()).
				Updates(map[string]any{
					"sub_total":  cartPO.SubTotal,
					"total":      cartPO.Total,
					"currency":   cartPO.Currency,
					"version":    gorm.Expr("version + 1"),
					"updated_at": time.Now().UTC(),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.NewConcurrentModificationError("cart", c.ID())
			}

			if err := tx.Where("cart_id = ?", c.ID()).Delete(&po.CartItemPO{}).Error; err != nil {
				return err
			}
		}

		if len(itemPOs) > 0 {
			return tx.Create(&itemPOs).Error
		}
		return nil
	})
	if err != nil {
		return err
	}

	if !c.IsNew() {
		c.IncrementVersionForSave()
	}
	c.ClearDirtyTracking()
	return nil
}

var _ cart.Repository = (*CartRepository)(nil)
