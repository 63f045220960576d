/**
 * @description
 * In-process fan-out hub for order updates: a map[chan]struct{}
 * subscriber registry with lossy drop-oldest broadcast when a
 * subscriber's channel is full, fed by decoded Order rows sourced from
 * Postgres LISTEN/NOTIFY.
 */

package notify

import (
	"sync"

	"github.com/fuel-spark/orderbook-indexer/internal/model"
)

const subscriberBufferSize = 100

// Hub multiplexes order-row notifications to many subscribers without
// giving each one its own LISTEN connection.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan model.Order]struct{}
}

// NewHub builds an empty Hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[chan model.Order]struct{})}
}

// Publish delivers order to every subscriber, dropping the oldest
// buffered message for any subscriber whose channel is full rather than
// blocking the publisher.
func (h *Hub) Publish(order model.Order) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers {
		select {
		case sub <- order:
		default:
			select {
			case <-sub:
			default:
			}
			select {
			case sub <- order:
			default:
			}
		}
	}
}

// Subscribe registers a new listener and returns its channel plus a
// cleanup function the caller must invoke when done.
func (h *Hub) Subscribe() (<-chan model.Order, func()) {
	ch := make(chan model.Order, subscriberBufferSize)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}

	return ch, unsubscribe
}

// SubscribeOrderUpdates filters the hub's broadcast down to one market,
// optionally restricted to one user's orders.
func (h *Hub) SubscribeOrderUpdates(marketID string, user *string) (<-chan model.Order, func()) {
	raw, unsubscribe := h.Subscribe()
	filtered := make(chan model.Order, subscriberBufferSize)

	go func() {
		defer close(filtered)
		for order := range raw {
			if order.MarketID != marketID {
				continue
			}
			if user != nil && order.User != *user {
				continue
			}
			select {
			case filtered <- order:
			default:
				select {
				case <-filtered:
				default:
				}
				select {
				case filtered <- order:
				default:
				}
			}
		}
	}()

	return filtered, unsubscribe
}
