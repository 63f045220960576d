package model

import "time"

// State is the durable ingestion cursor, one row per market.
type State struct {
	MarketID            string    `gorm:"column:market_id;primaryKey" json:"market_id"`
	LatestProcessedBlock int64    `gorm:"column:latest_processed_block" json:"latest_processed_block"`
	Timestamp            time.Time `gorm:"column:timestamp" json:"timestamp"`
}

// TableName overrides gorm's pluralization so the schema matches the
// original migration's exact table name.
func (State) TableName() string {
	return "state"
}
