/**
 * @description
 * Operation Dispatcher: one instance per market, applying a block's worth
 * of Open/Trade/Cancel updates to the repository in strict phase order so
 * that a trade is never applied against an order that hasn't been opened
 * yet in the same batch, and a cancel never races a trade.
 *
 * @dependencies
 * - github.com/google/uuid: per-Dispatch correlation id for log lines
 */

package dispatcher

import (
	"errors"
	"sync"

	"github.com/fuel-spark/orderbook-indexer/internal/logger"
	"github.com/fuel-spark/orderbook-indexer/internal/model"
	"github.com/fuel-spark/orderbook-indexer/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UpdateKind discriminates the three shapes of pending update.
type UpdateKind int

const (
	UpdateOpenOrder UpdateKind = iota
	UpdateTrade
	UpdateCancelOrder
)

// Update is one pending mutation collected between Dispatch calls.
type Update struct {
	Kind  UpdateKind
	Order model.Order // set when Kind == UpdateOpenOrder
	Trade model.Trade // set when Kind == UpdateTrade; Trade.LimitType drives the match-amount rule
	// CancelOrderID is set when Kind == UpdateCancelOrder
	CancelOrderID string
}

// Dispatcher owns the pending buffer for one market and applies it to the
// repository on Dispatch, preserving Open -> Trade -> Cancel ordering
// regardless of arrival interleaving.
type Dispatcher struct {
	marketID string

	orders *repository.OrderRepository
	trades *repository.TradeRepository
	state  *repository.StateRepository

	mu      sync.Mutex
	pending []Update
}

func New(marketID string, orders *repository.OrderRepository, trades *repository.TradeRepository, state *repository.StateRepository) *Dispatcher {
	return &Dispatcher{
		marketID: marketID,
		orders:   orders,
		trades:   trades,
		state:    state,
	}
}

// Add appends one pending update, to be applied on the next Dispatch.
func (d *Dispatcher) Add(u Update) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = append(d.pending, u)
}

// Dispatch applies every pending update for the given block in strict
// Open -> Trade -> Cancel order, then unconditionally advances the
// market's cursor. Each phase is independently logged on error and does
// not abort the rest of the batch.
func (d *Dispatcher) Dispatch(block int64) {
	d.mu.Lock()
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()

	correlationID := uuid.NewString()

	var opens []model.Order
	var trades []Update
	var cancels []Update

	for _, u := range pending {
		switch u.Kind {
		case UpdateOpenOrder:
			opens = append(opens, u.Order)
		case UpdateTrade:
			trades = append(trades, u)
		case UpdateCancelOrder:
			cancels = append(cancels, u)
		}
	}

	if err := d.orders.InsertMany(opens); err != nil {
		logger.Error("[%s] market=%s block=%d: insert open orders failed: %v", correlationID, d.marketID, block, err)
	}

	d.applyTrades(correlationID, block, trades)

	d.applyCancels(correlationID, block, cancels)

	if err := d.state.UpsertLatestProcessedBlock(d.marketID, block); err != nil {
		logger.Error("[%s] market=%s block=%d: upsert latest processed block failed: %v", correlationID, d.marketID, block, err)
	}
}

// applyTrades updates the referenced order's (status, amount) for each
// trade in arrival order, then inserts all trades in one batch.
func (d *Dispatcher) applyTrades(correlationID string, block int64, trades []Update) {
	var toInsert []model.Trade

	for _, u := range trades {
		order, err := d.orders.FindByID(u.Trade.OrderID)
		if err != nil {
			logger.Error("[%s] market=%s block=%d: lookup order %s for trade failed: %v", correlationID, d.marketID, block, u.Trade.OrderID, err)
			continue
		}
		if order == nil {
			logger.Info("[%s] market=%s block=%d: ORDER_NOT_FOUND order=%s trade=%s", correlationID, d.marketID, block, u.Trade.OrderID, u.Trade.TradeID)
			continue
		}

		status, amount := matchResult(*order, u.Trade)

		if _, err := d.orders.Update(order.OrderID, amount, status); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Info("[%s] market=%s block=%d: ORDER_NOT_FOUND order=%s trade=%s", correlationID, d.marketID, block, u.Trade.OrderID, u.Trade.TradeID)
			} else {
				logger.Error("[%s] market=%s block=%d: update order %s for trade failed: %v", correlationID, d.marketID, block, u.Trade.OrderID, err)
			}
			continue
		}

		toInsert = append(toInsert, u.Trade)
	}

	if err := d.trades.InsertMany(toInsert); err != nil {
		logger.Error("[%s] market=%s block=%d: insert trades failed: %v", correlationID, d.marketID, block, err)
	}
}

// matchResult computes the post-trade (status, amount) for an order.
// GTC/MKT orders that still have size left over partially match; every
// other case (IOC/FOK, or GTC/MKT fully consumed) fully matches. amount
// is left nil (unchanged) on a full match — the row keeps whatever
// amount it already had.
func matchResult(order model.Order, trade model.Trade) (model.OrderStatus, *uint64) {
	if (trade.LimitType == model.LimitTypeGTC || trade.LimitType == model.LimitTypeMKT) && order.Amount > trade.Size {
		remaining := order.Amount - trade.Size
		return model.OrderStatusPartiallyMatched, &remaining
	}
	return model.OrderStatusMatched, nil
}

// applyCancels sets each cancelled order's status, logging and skipping
// any order that no longer exists.
func (d *Dispatcher) applyCancels(correlationID string, block int64, cancels []Update) {
	for _, u := range cancels {
		if _, err := d.orders.Update(u.CancelOrderID, nil, model.OrderStatusCancelled); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Info("[%s] market=%s block=%d: ORDER_NOT_FOUND order=%s cancel", correlationID, d.marketID, block, u.CancelOrderID)
			} else {
				logger.Error("[%s] market=%s block=%d: cancel order %s failed: %v", correlationID, d.marketID, block, u.CancelOrderID, err)
			}
		}
	}
}

// Prune removes every order/trade in the market at or after fromBlock —
// called once at indexer startup to discard rows a reorg invalidated.
func (d *Dispatcher) Prune(fromBlock int64) error {
	if err := d.orders.DeleteMany(d.marketID, fromBlock); err != nil {
		return err
	}
	return d.trades.DeleteMany(d.marketID, fromBlock)
}
