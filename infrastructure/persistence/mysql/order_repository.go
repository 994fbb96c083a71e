package mysql

import (
	"context"
	"errors"

	"tienda/domain/order"
	"tienda/domain/shared"
	"tienda/infrastructure/persistence/po"

	"gorm.io/gorm"
)

// OrderRepository MySQL/GORM implementation of order repository
// DDD principle: Repository is only responsible for persistence of aggregate roots, not event publishing
// GORM usage rule: Association features are prohibited to maintain DDD aggregate boundaries
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository Create order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// getDB returns the transaction from context if available, otherwise the default db
func (r *OrderRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFrom(ctx, r.db)
}

// CodeExists Check whether an order code is taken
func (r *OrderRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.getDB(ctx).Model(&po.OrderPO{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save Save order (create or update)
// Items are written once on insert and never touched again.
// A unique code collision on insert is reported as a concurrent modification so
// the unit of work retries and the code is generated again.
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	orderPO, itemPOs := po.FromOrderDomain(o)

	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		if o.IsNew() {
			return r.insert(tx, orderPO, itemPOs)
		}
		return r.updateStatus(tx, o, orderPO)
	})
	if err != nil {
		return err
	}

	if !o.IsNew() {
		o.IncrementVersionForSave()
	}
	o.ClearDirtyTracking()
	return nil
}

func (r *OrderRepository) insert(tx *gorm.DB, orderPO *po.OrderPO, itemPOs []po.OrderItemPO) error {
	if err := tx.Create(orderPO).Error; err != nil {
		if isDuplicateKeyError(err) {
			return shared.NewConcurrentModificationError("order", orderPO.Code)
		}
		return err
	}
	if len(itemPOs) > 0 {
		if err := tx.Create(&itemPOs).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepository) updateStatus(tx *gorm.DB, o *order.Order, orderPO *po.OrderPO) error {
	result := tx.Model(&po.OrderPO{}).
		Where("id = ? AND version = ?", o.ID(), o.Version()).
		Updates(map[string]any{
			"status":              orderPO.Status,
			"status_changed_at":   orderPO.StatusChangedAt,
			"changed_by_admin_id": orderPO.ChangedByAdminID,
			"change_reason":       orderPO.ChangeReason,
			"version":             gorm.Expr("version + 1"),
			"updated_at":          orderPO.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&po.OrderPO{}).Where("id = ?", o.ID()).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return order.NewOrderNotFoundError(o.Code())
		}
		return shared.NewConcurrentModificationError("order", o.Code())
	}

	if changes := po.FromStatusChanges(o.ID(), o.NewStatusChanges()); len(changes) > 0 {
		if err := tx.Create(&changes).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindByCode Find order by code
func (r *OrderRepository) FindByCode(ctx context.Context, code string) (*order.Order, error) {
	var orderPO po.OrderPO
	if err := r.getDB(ctx).Where("code = ?", code).First(&orderPO).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.NewOrderNotFoundError(code)
		}
		return nil, err
	}

	var itemPOs []po.OrderItemPO
	if err := r.getDB(ctx).Where("order_id = ?", orderPO.ID).Order("position ASC").Find(&itemPOs).Error; err != nil {
		return nil, err
	}

	return orderPO.ToDomain(itemPOs), nil
}

// FindByUserID Find orders by user ID, newest first, with the total count
func (r *OrderRepository) FindByUserID(ctx context.Context, userID int64, page order.Page) ([]*order.Order, int64, error) {
	db := r.getDB(ctx)

	var total int64
	if err := db.Model(&po.OrderPO{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orderPOs []po.OrderPO
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&orderPOs).Error
	if err != nil {
		return nil, 0, err
	}
	if len(orderPOs) == 0 {
		return []*order.Order{}, total, nil
	}

	// Batch load order items
	orderIDs := make([]string, len(orderPOs))
	for i, o := range orderPOs {
		orderIDs[i] = o.ID
	}

	var allItems []po.OrderItemPO
	if err := db.Where("order_id IN ?", orderIDs).Order("order_id, position ASC").Find(&allItems).Error; err != nil {
		return nil, 0, err
	}

	itemsByOrder := make(map[string][]po.OrderItemPO)
	for _, item := range allItems {
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}

	orders := make([]*order.Order, len(orderPOs))
	for i := range orderPOs {
		orders[i] = orderPOs[i].ToDomain(itemsByOrder[orderPOs[i].ID])
	}

	return orders, total, nil
}

// StatusHistory audit rows, oldest first
func (r *OrderRepository) StatusHistory(ctx context.Context, orderID string) ([]order.StatusChange, error) {
	var rows []po.OrderStatusChangePO
	if err := r.getDB(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	changes := make([]order.StatusChange, len(rows))
	for i := range rows {
		changes[i] = rows[i].ToDomain()
	}
	return changes, nil
}

var _ order.Repository = (*OrderRepository)(nil)
