package httpapi

import "github.com/gofiber/fiber/v2"

// swaggerDoc is a minimal static OpenAPI contract covering the five GET
// endpoints, hand-authored since no codegen run is available.
const swaggerDoc = `{
  "openapi": "3.0.0",
  "info": { "title": "Spark Orderbook Indexer Query API", "version": "1.0.0" },
  "paths": {
    "/orders/list": { "get": { "summary": "List active orders in a market" } },
    "/orders/spread": { "get": { "summary": "Best bid/ask for a market" } },
    "/orders/best-bid": { "get": { "summary": "Best bid for a market" } },
    "/orders/best-ask": { "get": { "summary": "Best ask for a market" } },
    "/trades/list": { "get": { "summary": "List trades in a market" } }
  }
}`

// SwaggerUI handles GET /swagger-ui with a static OpenAPI document.
func (h *Handlers) SwaggerUI(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.SendString(swaggerDoc)
}
