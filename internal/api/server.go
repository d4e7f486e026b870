// =============================
// File: internal/api/server.go
// =============================
package api

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/reclaim-hub/internal/burnfeed"
	"github.com/rovshanmuradov/reclaim-hub/internal/cache"
	"github.com/rovshanmuradov/reclaim-hub/internal/price"
	"github.com/rovshanmuradov/reclaim-hub/internal/pumpfun"
	"github.com/rovshanmuradov/reclaim-hub/internal/utils/logger"
	"github.com/rovshanmuradov/reclaim-hub/internal/utils/metrics"
)

// RewardsService - агрегатор наград создателя
type RewardsService interface {
	Dashboard(ctx context.Context, wallet string) (pumpfun.Dashboard, error)
	GetRewardsHistory(ctx context.Context, wallet string) []pumpfun.RewardsHistory
	Invalidate(wallet string)
}

// ClaimBuilder строит транзакцию вывода комиссий
type ClaimBuilder interface {
	Build(ctx context.Context, wallet string, priorityFee float64) (json.RawMessage, error)
}

// PriceQuoter отдает котировку SOL
type PriceQuoter interface {
	Quote(ctx context.Context) (price.Quote, error)
}

// BurnFeed отдает ленту последних сжиганий
type BurnFeed interface {
	Recent(ctx context.Context) []burnfeed.BurnTransaction
}

// Deps - сервисы, которые обслуживает HTTP-слой
type Deps struct {
	Rewards RewardsService
	Claims  ClaimBuilder
	Prices  PriceQuoter
	Burns   BurnFeed
	Metrics *metrics.Collector
}

// Options задает параметры HTTP-сервера
type Options struct {
	CORSOrigins   []string
	CacheTTL      time.Duration // кэш ответов /api/pumpfun-rewards
	CacheSize     int
	BurnFeedCache time.Duration // 0 - без кэширования ленты
}

// Server - HTTP API поверх fiber
type Server struct {
	app     *fiber.App
	deps    Deps
	log     *logger.Logger
	rewards *cache.TTLCache[string, rewardsResponse]
}

// New собирает приложение fiber со всеми маршрутами
func New(deps Deps, opts Options, log *logger.Logger) *Server {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}

	rewards := cache.NewTTL(opts.CacheSize, opts.CacheTTL,
		cache.WithMetrics[string, rewardsResponse]("rewards_route", deps.Metrics))

	s := &Server{
		deps:    deps,
		log:     log,
		rewards: rewards,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "reclaim-hub",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	s.registerMiddleware(opts)
	s.registerRoutes(opts)
	return s
}

func (s *Server) registerRoutes(opts Options) {
	s.app.Get("/health", health)
	s.app.Get("/metrics", s.metricsHandler())

	api := s.app.Group("/api")

	api.Get("/pumpfun-rewards", s.getRewards)
	api.Post("/pumpfun-rewards", s.postRewards)
	api.Get("/pumpfun-rewards/chart", s.getRewardsChart)
	api.Post("/pumpfun-claim", s.postClaim)
	api.Get("/sol-price", s.getSolPrice)

	if opts.BurnFeedCache > 0 {
		api.Get("/burn-transactions", responseCache(opts.BurnFeedCache), s.getBurnTransactions)
	} else {
		api.Get("/burn-transactions", s.getBurnTransactions)
	}
}

// App возвращает приложение fiber (для тестов)
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen запускает сервер и блокируется до его остановки
func (s *Server) Listen(addr string) error {
	s.log.Info("Starting API server", zap.String("addr", addr))
	return s.app.Listen(addr)
}

// Close останавливает сервер, дожидаясь завершения активных запросов
func (s *Server) Close() error {
	return s.app.Shutdown()
}

// errorHandler отвечает JSON-ошибкой
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		s.log.Error("Request failed",
			zap.String("path", c.Path()),
			zap.String("method", c.Method()),
			zap.Error(err))
		return c.Status(code).JSON(errorBody{Error: "Internal Server Error"})
	}
	if !strings.HasPrefix(err.Error(), "Cannot ") {
		s.log.Debug("Request rejected", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(code).JSON(errorBody{Error: err.Error()})
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func health(c *fiber.Ctx) error {
	return c.SendString("OK")
}
