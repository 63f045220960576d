/**
 * @description
 * Order domain model: the mutable side of the orderbook. Status moves
 * monotonically New → PartiallyMatched* → {Matched, Cancelled, Failed}.
 *
 * @dependencies
 * - gorm.io/gorm: persistence tags and table name override
 */

package model

import "time"

// OrderSide is the side of the book an order rests on.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "Buy"
	OrderSideSell OrderSide = "Sell"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusNew              OrderStatus = "New"
	OrderStatusPartiallyMatched OrderStatus = "PartiallyMatched"
	OrderStatusMatched          OrderStatus = "Matched"
	OrderStatusCancelled        OrderStatus = "Cancelled"
	OrderStatusFailed           OrderStatus = "Failed"
)

// Order is one resting order in a market's book.
type Order struct {
	OrderID     string      `gorm:"column:order_id;primaryKey" json:"order_id"`
	TxID        string      `gorm:"column:tx_id" json:"tx_id"`
	OrderType   OrderSide   `gorm:"column:order_type" json:"order_type"`
	User        string      `gorm:"column:user;index" json:"user"`
	Asset       string      `gorm:"column:asset" json:"asset"`
	Amount      uint64      `gorm:"column:amount" json:"amount"`
	Price       uint64      `gorm:"column:price" json:"price"`
	Status      OrderStatus `gorm:"column:status;index" json:"status"`
	BlockNumber int64       `gorm:"column:block_number;index" json:"block_number"`
	Timestamp   time.Time   `gorm:"column:timestamp" json:"timestamp"`
	MarketID    string      `gorm:"column:market_id;index" json:"market_id"`
}

// TableName overrides gorm's pluralization so the schema matches the
// original migration's exact table name.
func (Order) TableName() string {
	return "orders"
}

// IsActive reports whether the order can still be matched against.
func (o Order) IsActive() bool {
	return o.Status == OrderStatusNew || o.Status == OrderStatusPartiallyMatched
}
