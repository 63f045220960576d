/**
 * @description
 * WebSocket client for the Pangea Spark order-event stream. Each call to
 * Stream opens one fresh connection: the caller opens one stream per
 * catch-up batch, or one long-lived stream for live tailing.
 *
 * @dependencies
 * - github.com/gorilla/websocket
 */

package pangea

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fuel-spark/orderbook-indexer/internal/event"
	"github.com/fuel-spark/orderbook-indexer/internal/logger"
	"github.com/gorilla/websocket"
)

const (
	WriteWait         = 10 * time.Second
	PongWait          = 60 * time.Second
	PingPeriod        = (PongWait * 9) / 10
	MaxConnectRetries = 5
)

// Client opens Spark order-event streams against a single Pangea host.
type Client struct {
	host     string
	username string
	password string
}

// NewClient builds a Client for the given Pangea host and credentials.
func NewClient(host, username, password string) *Client {
	return &Client{host: host, username: username, password: password}
}

// Stream opens one WebSocket connection, sends req, and returns a channel
// of decoded events plus a channel that receives exactly one error (nil
// on a clean stream end) when the stream terminates. Both channels close
// once the connection is done. Connect failures retry up to
// MaxConnectRetries with exponential backoff before giving up.
func (c *Client) Stream(ctx context.Context, req GetSparkOrderRequest) (<-chan event.PangeaEvent, <-chan error) {
	events := make(chan event.PangeaEvent)
	errs := make(chan error, 1)

	go c.run(ctx, req, events, errs)

	return events, errs
}

func (c *Client) run(ctx context.Context, req GetSparkOrderRequest, events chan<- event.PangeaEvent, errs chan<- error) {
	defer close(events)
	defer close(errs)

	conn, err := c.dialWithRetry(ctx)
	if err != nil {
		errs <- err
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(req); err != nil {
		errs <- fmt.Errorf("pangea: send stream request: %w", err)
		return
	}

	done := make(chan struct{})
	go c.pingLoop(conn, done)
	defer close(done)

	conn.SetReadLimit(1024 * 1024 * 10)
	conn.SetReadDeadline(time.Now().Add(PongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(PongWait))
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			errs <- ctx.Err()
			return
		default:
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				errs <- fmt.Errorf("pangea: read stream: %w", err)
			} else {
				errs <- nil
			}
			return
		}

		var e event.PangeaEvent
		if err := json.Unmarshal(message, &e); err != nil {
			logger.Error("pangea: decode event record failed: %v", err)
			continue
		}

		select {
		case events <- e:
		case <-ctx.Done():
			errs <- ctx.Err()
			return
		}
	}
}

func (c *Client) dialWithRetry(ctx context.Context) (*websocket.Conn, error) {
	u := url.URL{Scheme: "wss", Host: c.host, Path: "/ws"}

	header := http.Header{}
	header.Set("Authorization", basicAuth(c.username, c.password))

	var lastErr error
	backoff := 1 * time.Second

	for i := 0; i < MaxConnectRetries; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		conn, _, err := websocket.DefaultDialer.Dial(u.String(), header)
		if err == nil {
			return conn, nil
		}

		lastErr = err
		logger.Error("pangea: connect attempt %d/%d failed: %v", i+1, MaxConnectRetries, err)
		time.Sleep(backoff)
		backoff *= 2
	}

	return nil, fmt.Errorf("pangea: failed to connect after %d attempts: %w", MaxConnectRetries, lastErr)
}

func (c *Client) pingLoop(conn *websocket.Conn, done chan struct{}) {
	ticker := time.NewTicker(PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func basicAuth(username, password string) string {
	token := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return "Basic " + token
}
