/**
 * @description
 * Indexer process entry point: boots one Indexer + Dispatcher pair per
 * configured market and runs them until SIGINT/SIGTERM.
 *
 * @dependencies
 * - internal/config, internal/repository, internal/dispatcher,
 *   internal/indexer, internal/pangea, internal/chain, internal/logger
 */

package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fuel-spark/orderbook-indexer/internal/chain"
	"github.com/fuel-spark/orderbook-indexer/internal/config"
	"github.com/fuel-spark/orderbook-indexer/internal/dispatcher"
	"github.com/fuel-spark/orderbook-indexer/internal/indexer"
	"github.com/fuel-spark/orderbook-indexer/internal/logger"
	"github.com/fuel-spark/orderbook-indexer/internal/pangea"
	"github.com/fuel-spark/orderbook-indexer/internal/repository"
)

func main() {
	logger.Info("starting orderbook indexer")

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatal("failed to load config: %v", err)
	}

	db, err := repository.Connect(cfg)
	if err != nil {
		logger.Fatal("failed to connect to postgres: %v", err)
	}

	orders := repository.NewOrderRepository(db)
	trades := repository.NewTradeRepository(db)
	state := repository.NewStateRepository(db)

	chainProvider := chain.NewProvider(cfg.FuelNodeURL)

	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	for _, market := range cfg.Markets() {
		wg.Add(1)
		go func(market config.MarketInfo) {
			defer wg.Done()
			runMarket(ctx, cfg, market, orders, trades, state, chainProvider)
		}(market)
	}

	// Separate SIGINT/SIGTERM registrations so each signal keeps its own
	// identity in the shutdown log line.
	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, syscall.SIGINT)

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGTERM)

	select {
	case <-sigint:
		logger.Info("received SIGINT, shutting down")
	case <-sigterm:
		logger.Info("received SIGTERM, shutting down")
	}

	cancel()
	wg.Wait()
	logger.Info("indexer exited")
}

func runMarket(
	ctx context.Context,
	cfg *config.Config,
	market config.MarketInfo,
	orders *repository.OrderRepository,
	trades *repository.TradeRepository,
	state *repository.StateRepository,
	chainProvider *chain.Provider,
) {
	d := dispatcher.New(market.ID, orders, trades, state)
	client := pangea.NewClient(cfg.Pangea.Host, cfg.Pangea.Username, cfg.Pangea.Password)
	idx := indexer.New(market.ID, cfg.Chain, chainProvider, client, d)

	latest, err := state.FindLatestProcessedBlock(market.ID)
	if err != nil {
		logger.Error("market=%s: failed to load latest processed block: %v", market.ID, err)
		return
	}
	if latest == nil {
		start := cfg.File.PangeaStartBlock
		latest = &start
	}

	logger.Info("market=%s (%s): starting indexer from block %d", market.ID, market.Name, *latest)
	if err := idx.Start(ctx, latest); err != nil {
		logger.Error("market=%s: indexer exited with error: %v", market.ID, err)
	}
}
