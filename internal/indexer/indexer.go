/**
 * @description
 * Per-market indexer: the orchestrator that turns a Pangea event stream
 * into dispatcher Updates. Owns the chain provider handle, the Pangea
 * client, and the market's dispatcher, and drives catch-up followed by
 * live tailing with exponential-backoff reconnection.
 *
 * @dependencies
 * - internal/pangea: upstream event stream client
 * - internal/chain: chain-tip provider
 * - internal/dispatcher: per-block mutation application
 */

package indexer

import (
	"context"
	"time"

	"github.com/fuel-spark/orderbook-indexer/internal/apperrors"
	"github.com/fuel-spark/orderbook-indexer/internal/config"
	"github.com/fuel-spark/orderbook-indexer/internal/dispatcher"
	"github.com/fuel-spark/orderbook-indexer/internal/event"
	"github.com/fuel-spark/orderbook-indexer/internal/logger"
	"github.com/fuel-spark/orderbook-indexer/internal/pangea"
)

// BatchSize is the block-range width of one catch-up request.
const BatchSize = 100_000

const (
	minBackoff = 1 * time.Second
	maxBackoff = 32 * time.Second
)

// ChainProvider reports the current chain tip.
type ChainProvider interface {
	LatestBlockHeight(ctx context.Context) (int64, error)
}

// Stream opens a Spark order-event stream for a given request.
type Stream interface {
	Stream(ctx context.Context, req pangea.GetSparkOrderRequest) (<-chan event.PangeaEvent, <-chan error)
}

// Indexer drives one market's ingestion pipeline end to end.
type Indexer struct {
	marketID string
	chainID  uint64

	chain      ChainProvider
	client     Stream
	dispatcher *dispatcher.Dispatcher
}

// New builds an Indexer for one market.
func New(marketID string, chainID config.ChainID, chain ChainProvider, client Stream, d *dispatcher.Dispatcher) *Indexer {
	return &Indexer{
		marketID:   marketID,
		chainID:    resolveChainNumericID(chainID),
		chain:      chain,
		client:     client,
		dispatcher: d,
	}
}

func resolveChainNumericID(id config.ChainID) uint64 {
	if id == config.ChainFuel {
		return 0
	}
	return 1
}

// Start runs catch-up from latestProcessedBlock (nil meaning "never
// indexed") to the current chain tip, then tails new events forever
// until ctx is cancelled.
func (idx *Indexer) Start(ctx context.Context, latestProcessedBlock *int64) error {
	tip, err := idx.chain.LatestBlockHeight(ctx)
	if err != nil {
		return apperrors.Upstream("fetch chain tip", err)
	}

	var from int64
	if latestProcessedBlock != nil {
		from = *latestProcessedBlock
		if err := idx.dispatcher.Prune(from); err != nil {
			logger.Error("market=%s: prune before catch-up failed: %v", idx.marketID, err)
		}
	}

	if err := idx.catchUp(ctx, from, tip); err != nil {
		return err
	}

	idx.listenEvents(ctx, tip)
	return nil
}

// catchUp replays history in fixed-size batches up to `to`, dispatching
// once per batch.
func (idx *Indexer) catchUp(ctx context.Context, from, to int64) error {
	for from < to {
		batchEnd := from + BatchSize
		if batchEnd > to {
			batchEnd = to
		}

		req := pangea.GetSparkOrderRequest{
			FromBlock:  from,
			ToBlock:    pangea.Exact(batchEnd),
			MarketIDIn: []string{idx.marketID},
			Chains:     []uint64{idx.chainID},
			Format:     "JsonStream",
		}

		events, errs := idx.client.Stream(ctx, req)
		lastBlock := from
		for e := range events {
			idx.handleEvent(e)
			lastBlock = e.BlockNumber
		}
		if err := <-errs; err != nil {
			logger.Error("market=%s: catch-up batch [%d,%d] stream error: %v", idx.marketID, from, batchEnd, err)
		}

		idx.dispatcher.Dispatch(lastBlock)
		from = batchEnd
	}

	return nil
}

// listenEvents tails new events from `from` onward, reconnecting with
// exponential backoff (1s -> 32s) on stream end or error. The backoff
// resets to 1s when an event arrives; a connection that ends before
// delivering any event does not reset it. Dispatch runs once per event rather
// than once per batch, since there is no batch boundary in live mode.
func (idx *Indexer) listenEvents(ctx context.Context, from int64) {
	backoff := minBackoff

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		req := pangea.GetSparkOrderRequest{
			FromBlock:  from + 1,
			ToBlock:    pangea.Subscribe(),
			MarketIDIn: []string{idx.marketID},
			Chains:     []uint64{idx.chainID},
			Format:     "JsonStream",
		}

		events, errs := idx.client.Stream(ctx, req)

		for e := range events {
			backoff = minBackoff
			idx.handleEvent(e)
			idx.dispatcher.Dispatch(e.BlockNumber)
			from = e.BlockNumber
		}

		if err := <-errs; err != nil {
			logger.Error("market=%s: listen stream error: %v", idx.marketID, err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		if backoff < maxBackoff {
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}
	}
}

// handleEvent routes one decoded upstream record to the dispatcher's
// pending buffer based on event_type, logging and ignoring anything it
// can't build or doesn't recognize.
func (idx *Indexer) handleEvent(e event.PangeaEvent) {
	if e.EventType == nil {
		logger.Info("market=%s: event missing event_type, ignoring", idx.marketID)
		return
	}

	switch *e.EventType {
	case "Open":
		if order, ok := e.BuildOrder(); ok {
			idx.dispatcher.Add(dispatcher.Update{Kind: dispatcher.UpdateOpenOrder, Order: order})
		} else {
			logger.Info("market=%s: dropped malformed Open event order_id=%s", idx.marketID, e.OrderID)
		}
	case "Trade":
		if trade, ok := e.BuildTrade(); ok {
			idx.dispatcher.Add(dispatcher.Update{Kind: dispatcher.UpdateTrade, Trade: trade})
		} else {
			logger.Info("market=%s: dropped malformed Trade event order_id=%s", idx.marketID, e.OrderID)
		}
	case "Cancel":
		idx.dispatcher.Add(dispatcher.Update{Kind: dispatcher.UpdateCancelOrder, CancelOrderID: e.OrderID})
	default:
		logger.Info("market=%s: ignoring unrecognized event_type=%s", idx.marketID, *e.EventType)
	}
}
