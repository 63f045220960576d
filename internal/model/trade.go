package model

import "time"

// LimitType is the order-matching mode a trade was executed under.
type LimitType string

const (
	LimitTypeGTC LimitType = "GTC" // good-till-cancelled
	LimitTypeIOC LimitType = "IOC" // immediate-or-cancel
	LimitTypeFOK LimitType = "FOK" // fill-or-kill
	LimitTypeMKT LimitType = "MKT" // market order
)

// Trade is an insert-only fill record referencing the order it matched.
type Trade struct {
	TradeID     string    `gorm:"column:trade_id;primaryKey" json:"trade_id"`
	TxID        string    `gorm:"column:tx_id" json:"tx_id"`
	OrderID     string    `gorm:"column:order_id;index" json:"order_id"`
	LimitType   LimitType `gorm:"column:limit_type" json:"limit_type"`
	User        string    `gorm:"column:user;index" json:"user"`
	Size        uint64    `gorm:"column:size" json:"size"`
	Price       uint64    `gorm:"column:price" json:"price"`
	BlockNumber int64     `gorm:"column:block_number;index" json:"block_number"`
	Timestamp   time.Time `gorm:"column:timestamp" json:"timestamp"`
	MarketID    string    `gorm:"column:market_id;index" json:"market_id"`
}

// TableName overrides gorm's pluralization so the schema matches the
// original migration's exact table name.
func (Trade) TableName() string {
	return "trades"
}
