/**
 * @description
 * Order repository: all read/write access to the orders table. Every
 * method wraps gorm/pgconn failures into apperrors.Database so callers can
 * branch on error category without reaching into the ORM.
 *
 * @dependencies
 * - gorm.io/gorm: query builder + clause.OnConflict for idempotent upserts
 */

package repository

import (
	"errors"

	"github.com/fuel-spark/orderbook-indexer/internal/apperrors"
	"github.com/fuel-spark/orderbook-indexer/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// activeStatuses is the set of order statuses still eligible to match.
var activeStatuses = []model.OrderStatus{model.OrderStatusNew, model.OrderStatusPartiallyMatched}

// OrderRepository provides all persistence operations on the orders table.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// FindBestBid returns the highest-priced active Buy order in marketID,
// optionally excluding orders from userNE. Ties break deterministically
// by order_id.
func (r *OrderRepository) FindBestBid(marketID string, userNE *string) (*model.Order, error) {
	return r.findBest(marketID, model.OrderSideBuy, "price DESC, order_id ASC", userNE)
}

// FindBestAsk returns the lowest-priced active Sell order in marketID,
// optionally excluding orders from userNE. Ties break deterministically
// by order_id.
func (r *OrderRepository) FindBestAsk(marketID string, userNE *string) (*model.Order, error) {
	return r.findBest(marketID, model.OrderSideSell, "price ASC, order_id ASC", userNE)
}

func (r *OrderRepository) findBest(marketID string, side model.OrderSide, order string, userNE *string) (*model.Order, error) {
	q := r.db.Where("market_id = ? AND order_type = ? AND status IN ?", marketID, side, activeStatuses)
	if userNE != nil {
		q = q.Where("\"user\" <> ?", *userNE)
	}

	var order_ model.Order
	err := q.Order(order).First(&order_).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Database("find best order", err)
	}
	return &order_, nil
}

// FindByID looks up a single order by its primary key.
func (r *OrderRepository) FindByID(orderID string) (*model.Order, error) {
	var o model.Order
	err := r.db.Where("order_id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Database("find order by id", err)
	}
	return &o, nil
}

// Find lists active orders in marketID, newest first.
func (r *OrderRepository) Find(marketID string, limit, offset int) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Where("market_id = ? AND status IN ?", marketID, activeStatuses).
		Order("timestamp DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, apperrors.Database("list orders", err)
	}
	return orders, nil
}

// FindByType lists active orders of one side in marketID, excluding
// userNE if provided. Buy orders sort price DESC (best bid first), Sell
// orders sort price ASC (best ask first).
func (r *OrderRepository) FindByType(marketID string, side model.OrderSide, userNE *string, limit, offset int) ([]model.Order, error) {
	q := r.db.Where("market_id = ? AND order_type = ? AND status IN ?", marketID, side, activeStatuses)
	if userNE != nil {
		q = q.Where("\"user\" <> ?", *userNE)
	}

	sortOrder := "price DESC"
	if side == model.OrderSideSell {
		sortOrder = "price ASC"
	}

	var orders []model.Order
	err := q.Order(sortOrder).Limit(limit).Offset(offset).Find(&orders).Error
	if err != nil {
		return nil, apperrors.Database("list orders by type", err)
	}
	return orders, nil
}

// FindByUser lists every order (any status) placed by user in marketID,
// newest first.
func (r *OrderRepository) FindByUser(marketID, user string, limit, offset int) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Where("market_id = ? AND \"user\" = ?", marketID, user).
		Order("timestamp DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, apperrors.Database("list orders by user", err)
	}
	return orders, nil
}

// Insert upserts a single order, no-op on order_id conflict (idempotent
// re-application of an already-seen Open event).
func (r *OrderRepository) Insert(order model.Order) error {
	return r.InsertMany([]model.Order{order})
}

// InsertMany upserts a batch of orders, no-op on order_id conflict.
// A no-op on an empty slice, since the dispatcher calls this unconditionally
// once per Dispatch even when no Open orders were pending.
func (r *OrderRepository) InsertMany(orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		DoNothing: true,
	}).Create(&orders).Error
	if err != nil {
		return apperrors.Database("insert orders", err)
	}
	return nil
}

// Update loads the order by id, applies the provided status and optional
// new amount, and returns the updated row. Returns gorm.ErrRecordNotFound
// (unwrapped) when the order does not exist, so callers (the dispatcher)
// can distinguish "missing order" from a genuine database failure.
func (r *OrderRepository) Update(orderID string, amount *uint64, status model.OrderStatus) (*model.Order, error) {
	var o model.Order
	if err := r.db.Where("order_id = ?", orderID).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, apperrors.Database("load order for update", err)
	}

	o.Status = status
	if amount != nil {
		o.Amount = *amount
	}

	if err := r.db.Save(&o).Error; err != nil {
		return nil, apperrors.Database("update order", err)
	}
	return &o, nil
}

// DeleteMany removes every order in marketID at or after fromBlock —
// used by reorg-prune at indexer startup.
func (r *OrderRepository) DeleteMany(marketID string, fromBlock int64) error {
	err := r.db.Where("market_id = ? AND block_number >= ?", marketID, fromBlock).Delete(&model.Order{}).Error
	if err != nil {
		return apperrors.Database("prune orders", err)
	}
	return nil
}
