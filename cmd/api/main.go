/**
 * @description
 * Query-surface process entry point: boots the Fiber HTTP server and the
 * gRPC server side by side, plus the Postgres notification listener and
 * a periodic staleness sweep.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2 (+ cors/logger/recover middlewares)
 * - google.golang.org/grpc
 * - github.com/robfig/cron/v3
 */

package main

import (
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/fuel-spark/orderbook-indexer/internal/cache"
	"github.com/fuel-spark/orderbook-indexer/internal/config"
	"github.com/fuel-spark/orderbook-indexer/internal/grpcapi"
	"github.com/fuel-spark/orderbook-indexer/internal/httpapi"
	applog "github.com/fuel-spark/orderbook-indexer/internal/logger"
	"github.com/fuel-spark/orderbook-indexer/internal/notify"
	"github.com/fuel-spark/orderbook-indexer/internal/orderbookpb"
	"github.com/fuel-spark/orderbook-indexer/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"google.golang.org/grpc"
)

func main() {
	applog.Info("starting orderbook query surface")

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		applog.Fatal("failed to load config: %v", err)
	}

	db, err := repository.Connect(cfg)
	if err != nil {
		applog.Fatal("failed to connect to postgres: %v", err)
	}

	orders := repository.NewOrderRepository(db)
	trades := repository.NewTradeRepository(db)
	state := repository.NewStateRepository(db)

	redisClient := redis.NewClient(&redis.Options{Addr: addrFromURL(cfg.Redis.URL)})
	readCache := cache.New(redisClient)

	hub := notify.NewHub()
	listener, err := notify.NewListener(cfg.DB.URL, hub)
	if err != nil {
		applog.Fatal("failed to start notify listener: %v", err)
	}
	listenerStop := make(chan struct{})
	go listener.Run(listenerStop)

	stalenessSweep := cron.New()
	if _, err := stalenessSweep.AddFunc("@every 5m", func() {
		runStalenessSweep(cfg, state)
	}); err != nil {
		applog.Error("failed to schedule staleness sweep: %v", err)
	}
	stalenessSweep.Start()

	app := fiber.New(fiber.Config{
		AppName:       "Spark Orderbook Indexer",
		StrictRouting: true,
		CaseSensitive: true,
	})
	app.Use(fiberrecover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET, OPTIONS",
	}))

	handlers := httpapi.New(orders, trades, readCache)
	handlers.Register(app)

	go func() {
		if err := app.Listen(cfg.Server.HTTPAddr); err != nil {
			applog.Fatal("HTTP server exited: %v", err)
		}
	}()

	grpcServer := grpc.NewServer()
	orderbookpb.RegisterOrderbookServer(grpcServer, grpcapi.New(orders, trades, hub))

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		applog.Fatal("failed to listen on %s: %v", cfg.Server.GRPCAddr, err)
	}
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			applog.Fatal("gRPC server exited: %v", err)
		}
	}()

	applog.Info("HTTP listening on %s, gRPC listening on %s", cfg.Server.HTTPAddr, cfg.Server.GRPCAddr)

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, syscall.SIGINT)

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGTERM)

	select {
	case <-sigint:
		applog.Info("received SIGINT, shutting down")
	case <-sigterm:
		applog.Info("received SIGTERM, shutting down")
	}

	close(listenerStop)
	stalenessSweep.Stop()
	grpcServer.GracefulStop()
	_ = app.Shutdown()

	applog.Info("query surface exited")
}

func runStalenessSweep(cfg *config.Config, state *repository.StateRepository) {
	for _, market := range cfg.Markets() {
		block, err := state.FindLatestProcessedBlock(market.ID)
		if err != nil {
			applog.Error("staleness sweep: market=%s: %v", market.ID, err)
			continue
		}
		if block == nil {
			applog.Info("staleness sweep: market=%s has never been indexed", market.ID)
		}
	}
}

func addrFromURL(redisURL string) string {
	const scheme = "redis://"
	if len(redisURL) > len(scheme) && redisURL[:len(scheme)] == scheme {
		return redisURL[len(scheme):]
	}
	return redisURL
}
