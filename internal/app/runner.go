// internal/app/runner.go
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/reclaim-hub/internal/api"
	"github.com/rovshanmuradov/reclaim-hub/internal/blockchain/solbc"
	"github.com/rovshanmuradov/reclaim-hub/internal/burnfeed"
	"github.com/rovshanmuradov/reclaim-hub/internal/claim"
	"github.com/rovshanmuradov/reclaim-hub/internal/config"
	"github.com/rovshanmuradov/reclaim-hub/internal/helius"
	"github.com/rovshanmuradov/reclaim-hub/internal/price"
	"github.com/rovshanmuradov/reclaim-hub/internal/pumpfun"
	"github.com/rovshanmuradov/reclaim-hub/internal/shutdown"
	"github.com/rovshanmuradov/reclaim-hub/internal/upstream"
	"github.com/rovshanmuradov/reclaim-hub/internal/utils/logger"
	"github.com/rovshanmuradov/reclaim-hub/internal/utils/metrics"
)

// burnFeedCacheTTL - как долго отдается одна и та же лента сжиганий
const burnFeedCacheTTL = 30 * time.Second

// Runner собирает сервисы из конфигурации и управляет их жизненным циклом
type Runner struct {
	cfg      *config.Config
	log      *logger.Logger
	metrics  *metrics.Collector
	chain    *solbc.Client
	server   *api.Server
	shutdown *shutdown.Handler
}

// NewRunner создает все зависимости HTTP API
func NewRunner(cfg *config.Config, log *logger.Logger) (*Runner, error) {
	collector := metrics.NewCollector()

	chain, err := solbc.NewClient(cfg.RPCList, solbc.Options{
		Retries: cfg.Retries,
		Metrics: collector,
	}, log.WithComponent("solana"))
	if err != nil {
		return nil, fmt.Errorf("failed to create Solana client: %w", err)
	}

	newUpstream := func(provider string, retries int) *upstream.Client {
		return upstream.New(upstream.Config{
			Provider: provider,
			Timeout:  cfg.HTTPTimeout(),
			Retries:  retries,
			Metrics:  collector,
		}, log.Logger)
	}

	heliusClient := helius.NewClient(newUpstream("helius", cfg.Retries), cfg.PrimaryRPC(), cfg.HeliusAPIURL, cfg.HeliusAPIKey, log.Logger)

	prices := price.NewService(newUpstream("kraken", cfg.Retries), newUpstream("coingecko", cfg.Retries), price.Options{
		KrakenURL:    cfg.KrakenAPIURL,
		CoinGeckoURL: cfg.CoinGeckoAPIURL,
		TTL:          cfg.PriceCacheTTL(),
		Metrics:      collector,
	}, log.Logger)

	rewards := pumpfun.NewService(chain, newUpstream("pumpfun", cfg.Retries), heliusClient, prices, pumpfun.Options{
		APIURL:    cfg.PumpFunAPIURL,
		CacheTTL:  cfg.CacheTTL(),
		CacheSize: cfg.CacheSize,
		Workers:   cfg.Workers,
		Metrics:   collector,
	}, log.Logger)

	// Транзакция вывода строится один раз - повтор может вернуть другую транзакцию
	claims := claim.NewBuilder(newUpstream("pumpportal", 0), cfg.PumpPortalAPIURL, log.Logger)

	burns := burnfeed.NewFeed(heliusClient, cfg.BurnWallet, log.Logger)

	server := api.New(api.Deps{
		Rewards: rewards,
		Claims:  claims,
		Prices:  prices,
		Burns:   burns,
		Metrics: collector,
	}, api.Options{
		CORSOrigins:   cfg.CORSOrigins,
		CacheTTL:      cfg.CacheTTL(),
		CacheSize:     cfg.CacheSize,
		BurnFeedCache: burnFeedCacheTTL,
	}, log)

	return &Runner{
		cfg:      cfg,
		log:      log,
		metrics:  collector,
		chain:    chain,
		server:   server,
		shutdown: shutdown.NewHandler(log.Logger, 30*time.Second),
	}, nil
}

// Run запускает HTTP-сервер и блокируется до сигнала остановки или отмены ctx
func (r *Runner) Run(ctx context.Context) error {
	// Закрываются в обратном порядке: сервер, RPC, логгер
	r.shutdown.AddFunc("logger", r.log.Sync)
	r.shutdown.Add("solana-rpc", r.chain)
	r.shutdown.Add("http", r.server)

	serveErr := make(chan error, 1)
	go func() {
		if err := r.server.Listen(r.cfg.ListenAddr); err != nil {
			serveErr <- err
		}
		close(serveErr)
	}()

	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err, ok := <-serveErr; ok && err != nil {
			r.log.Error("HTTP server stopped", zap.Error(err))
			cancel()
		}
	}()

	r.log.Info("reclaim-hub started",
		zap.String("listen_addr", r.cfg.ListenAddr),
		zap.Int("rpc_nodes", len(r.cfg.RPCList)),
		zap.Int("workers", r.cfg.Workers))

	return r.shutdown.Wait(waitCtx)
}
