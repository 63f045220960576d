/**
 * @description
 * HTTP query surface: unauthenticated GET endpoints over the repository
 * layer. Contract-only — no write endpoints; orders and trades are
 * written exclusively by the indexer pipeline.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 */

package httpapi

import (
	"strconv"

	"github.com/fuel-spark/orderbook-indexer/internal/apperrors"
	"github.com/fuel-spark/orderbook-indexer/internal/cache"
	"github.com/fuel-spark/orderbook-indexer/internal/model"
	"github.com/fuel-spark/orderbook-indexer/internal/repository"
	"github.com/gofiber/fiber/v2"
)

const (
	defaultLimit  = 50
	defaultOffset = 0
)

// Handlers wires the repository layer (and optional cache) to Fiber routes.
type Handlers struct {
	orders *repository.OrderRepository
	trades *repository.TradeRepository
	cache  *cache.Cache
}

// New builds Handlers. c is stored on Handlers but no route reads through
// it: every lookup goes straight to the repository layer, and c may be nil.
func New(orders *repository.OrderRepository, trades *repository.TradeRepository, c *cache.Cache) *Handlers {
	return &Handlers{orders: orders, trades: trades, cache: c}
}

// Register mounts every route under app.
func (h *Handlers) Register(app *fiber.App) {
	app.Get("/orders/list", h.ListOrders)
	app.Get("/orders/spread", h.Spread)
	app.Get("/orders/best-bid", h.BestBid)
	app.Get("/orders/best-ask", h.BestAsk)
	app.Get("/trades/list", h.ListTrades)
	app.Get("/swagger-ui", h.SwaggerUI)
}

func pagination(c *fiber.Ctx) (limit, offset int) {
	limit = defaultLimit
	offset = defaultOffset
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

// ListOrders handles GET /orders/list?market_id=...&limit=&offset=
func (h *Handlers) ListOrders(c *fiber.Ctx) error {
	marketID := c.Query("market_id")
	if marketID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "market_id is required"})
	}

	limit, offset := pagination(c)

	orders, err := h.orders.Find(marketID, limit, offset)
	if err != nil {
		return databaseErrorResponse(c, err)
	}
	return c.JSON(orders)
}

// spreadResponse mirrors the original's {best_bid, best_ask} shape,
// either nullable.
type spreadResponse struct {
	BestBid *model.Order `json:"best_bid"`
	BestAsk *model.Order `json:"best_ask"`
}

// Spread handles GET /orders/spread?market_id=...
func (h *Handlers) Spread(c *fiber.Ctx) error {
	marketID := c.Query("market_id")
	if marketID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "market_id is required"})
	}

	bid, err := h.orders.FindBestBid(marketID, userFilter(c))
	if err != nil {
		return databaseErrorResponse(c, err)
	}
	ask, err := h.orders.FindBestAsk(marketID, userFilter(c))
	if err != nil {
		return databaseErrorResponse(c, err)
	}

	return c.JSON(spreadResponse{BestBid: bid, BestAsk: ask})
}

// BestBid handles GET /orders/best-bid?market_id=...
func (h *Handlers) BestBid(c *fiber.Ctx) error {
	marketID := c.Query("market_id")
	if marketID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "market_id is required"})
	}

	order, err := h.orders.FindBestBid(marketID, userFilter(c))
	if err != nil {
		return databaseErrorResponse(c, err)
	}
	return c.JSON(order)
}

// BestAsk handles GET /orders/best-ask?market_id=...
func (h *Handlers) BestAsk(c *fiber.Ctx) error {
	marketID := c.Query("market_id")
	if marketID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "market_id is required"})
	}

	order, err := h.orders.FindBestAsk(marketID, userFilter(c))
	if err != nil {
		return databaseErrorResponse(c, err)
	}
	return c.JSON(order)
}

// ListTrades handles GET /trades/list?market_id=...&limit=&offset=
func (h *Handlers) ListTrades(c *fiber.Ctx) error {
	marketID := c.Query("market_id")
	if marketID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "market_id is required"})
	}

	limit, offset := pagination(c)

	trades, err := h.trades.Find(marketID, limit, offset)
	if err != nil {
		return databaseErrorResponse(c, err)
	}
	return c.JSON(trades)
}

func userFilter(c *fiber.Ctx) *string {
	if v := c.Query("user_ne"); v != "" {
		return &v
	}
	return nil
}

func databaseErrorResponse(c *fiber.Ctx, err error) error {
	if apperrors.Is(err, apperrors.KindDatabase) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
