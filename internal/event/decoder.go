/**
 * @description
 * Pure decoder from a raw Pangea event record into domain Order/Trade
 * models. No I/O, no logging — callers decide what to do with a failed
 * decode (the indexer logs and skips).
 *
 * @dependencies
 * - standard "crypto/sha256", "encoding/hex": trade_id derivation, a
 *   byte-identical compatibility contract with the original Rust/sea_orm
 *   implementation (original_source/forge/src/pangea/event.rs)
 */

package event

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/fuel-spark/orderbook-indexer/internal/model"
)

// PangeaEvent is one raw record from the upstream JSON-stream, mirroring
// the field set emitted by the Pangea event provider for Spark contract
// logs. All domain-optional fields are pointers so absence is distinct
// from a zero value.
type PangeaEvent struct {
	Chain            uint64  `json:"chain"`
	BlockNumber      int64   `json:"block_number"`
	BlockHash        string  `json:"block_hash"`
	BlockTimestamp   int64   `json:"block_timestamp"`
	TransactionHash  string  `json:"transaction_hash"`
	TransactionIndex uint64  `json:"transaction_index"`
	LogIndex         uint64  `json:"log_index"`
	MarketID         string  `json:"market_id"`
	OrderID          string  `json:"order_id"`
	EventType        *string `json:"event_type"`
	Asset            *string `json:"asset"`
	Amount           *uint64 `json:"amount"`
	AssetType        *string `json:"asset_type"`
	OrderTypeRaw     *string `json:"order_type"`
	Price            *uint64 `json:"price"`
	User             *string `json:"user"`
	OrderMatcher     *string `json:"order_matcher"`
	Owner            *string `json:"owner"`
	LimitTypeRaw     *string `json:"limit_type"`
}

// OrderType resolves the raw order_type string into a model.OrderSide.
// Returns ok=false for anything other than "Buy"/"Sell", including absent.
func (e *PangeaEvent) OrderType() (model.OrderSide, bool) {
	if e.OrderTypeRaw == nil {
		return "", false
	}
	switch *e.OrderTypeRaw {
	case "Buy":
		return model.OrderSideBuy, true
	case "Sell":
		return model.OrderSideSell, true
	default:
		return "", false
	}
}

// LimitType resolves the raw limit_type string, defaulting to GTC for
// anything unrecognized or absent.
func (e *PangeaEvent) LimitType() model.LimitType {
	if e.LimitTypeRaw == nil {
		return model.LimitTypeGTC
	}
	switch *e.LimitTypeRaw {
	case "FOK":
		return model.LimitTypeFOK
	case "IOC":
		return model.LimitTypeIOC
	case "MKT":
		return model.LimitTypeMKT
	default:
		return model.LimitTypeGTC
	}
}

// TradeID derives the deterministic trade identifier. Concatenation order
// and format (plain decimal/hex textual form, no separators) is a
// byte-identical compatibility contract with the original implementation:
// "0x" + hex(sha256(tx_hash + order_id + block_timestamp + amount + log_index))
func (e *PangeaEvent) TradeID() string {
	var amount uint64
	if e.Amount != nil {
		amount = *e.Amount
	}
	payload := fmt.Sprintf("%s%s%d%d%d", e.TransactionHash, e.OrderID, e.BlockTimestamp, amount, e.LogIndex)
	sum := sha256.Sum256([]byte(payload))
	return "0x" + hex.EncodeToString(sum[:])
}

func blockTime(unixSeconds int64) time.Time {
	return time.Unix(unixSeconds, 0).UTC()
}

// BuildOrder constructs a New order iff price, amount, user are present
// and order_type resolves to Buy/Sell.
func (e *PangeaEvent) BuildOrder() (model.Order, bool) {
	if e.Price == nil || e.Amount == nil || e.User == nil {
		return model.Order{}, false
	}
	orderType, ok := e.OrderType()
	if !ok {
		return model.Order{}, false
	}

	var asset string
	if e.Asset != nil {
		asset = *e.Asset
	}

	return model.Order{
		TxID:        e.TransactionHash,
		OrderID:     e.OrderID,
		OrderType:   orderType,
		User:        *e.User,
		Asset:       asset,
		Amount:      *e.Amount,
		Price:       *e.Price,
		Status:      model.OrderStatusNew,
		BlockNumber: e.BlockNumber,
		Timestamp:   blockTime(e.BlockTimestamp),
		MarketID:    e.MarketID,
	}, true
}

// BuildTrade constructs a Trade iff price and amount are present. user
// defaults to "" when absent (the original panics here; this decoder
// never does, since a malformed/partial upstream record must not crash
// the indexer).
func (e *PangeaEvent) BuildTrade() (model.Trade, bool) {
	if e.Price == nil || e.Amount == nil {
		return model.Trade{}, false
	}

	var user string
	if e.User != nil {
		user = *e.User
	}

	return model.Trade{
		TxID:        e.TransactionHash,
		TradeID:     e.TradeID(),
		OrderID:     e.OrderID,
		LimitType:   e.LimitType(),
		User:        user,
		Size:        *e.Amount,
		Price:       *e.Price,
		BlockNumber: e.BlockNumber,
		Timestamp:   blockTime(e.BlockTimestamp),
		MarketID:    e.MarketID,
	}, true
}
