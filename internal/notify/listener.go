/**
 * @description
 * Postgres LISTEN/NOTIFY bridge: subscribes to the order_updates channel
 * the orders table trigger emits on, decodes each payload, and republishes
 * it on the in-process Hub.
 *
 * @dependencies
 * - github.com/lib/pq: pq.Listener, the standard Go primitive for
 *   Postgres LISTEN/NOTIFY.
 */

package notify

import (
	"encoding/json"
	"time"

	"github.com/fuel-spark/orderbook-indexer/internal/logger"
	"github.com/fuel-spark/orderbook-indexer/internal/model"
	"github.com/lib/pq"
)

const orderUpdatesChannel = "order_updates"

// Listener bridges Postgres NOTIFY payloads into a Hub.
type Listener struct {
	hub      *Hub
	listener *pq.Listener
}

// NewListener opens a pq.Listener against dbURL and subscribes to the
// order_updates channel.
func NewListener(dbURL string, hub *Hub) (*Listener, error) {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.Error("notify: listener event: %v", err)
		}
	}

	pl := pq.NewListener(dbURL, 10*time.Second, time.Minute, reportProblem)
	if err := pl.Listen(orderUpdatesChannel); err != nil {
		return nil, err
	}

	return &Listener{hub: hub, listener: pl}, nil
}

// Run drains notifications until stop is closed, republishing each
// decoded order on the Hub. Also pings the connection periodically so a
// silently dropped connection is detected and re-established.
func (l *Listener) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(90 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			_ = l.listener.Close()
			return
		case n := <-l.listener.Notify:
			if n == nil {
				continue
			}
			l.handle(n.Extra)
		case <-ticker.C:
			go func() {
				_ = l.listener.Ping()
			}()
		}
	}
}

func (l *Listener) handle(payload string) {
	var order model.Order
	if err := json.Unmarshal([]byte(payload), &order); err != nil {
		logger.Error("notify: decode order_updates payload failed: %v", err)
		return
	}
	l.hub.Publish(order)
}
