// =============================
// File: internal/api/middleware.go
// =============================
package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fibercache "github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func (s *Server) registerMiddleware(opts Options) {
	s.app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	s.app.Use(requestid.New())
	s.app.Use(cors.New(corsConfig(opts.CORSOrigins)))
	s.app.Use(s.observe)
}

func corsConfig(origins []string) cors.Config {
	allow := "*"
	if len(origins) > 0 {
		allow = strings.Join(origins, ",")
	}
	return cors.Config{
		AllowOrigins: allow,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}
}

// observe пишет метрики и access-лог по каждому запросу
func (s *Server) observe(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	duration := time.Since(start)

	status := c.Response().StatusCode()
	if err != nil {
		status = fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
	}

	route := c.Route().Path
	s.deps.Metrics.RecordHTTPRequest(route, c.Method(), status, duration)

	s.log.Debug("HTTP request",
		zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.Duration("duration", duration))

	return err
}

// metricsHandler отдает метрики коллектора в формате Prometheus
func (s *Server) metricsHandler() fiber.Handler {
	if s.deps.Metrics == nil {
		return func(c *fiber.Ctx) error {
			return fiber.ErrNotFound
		}
	}
	return adaptor.HTTPHandler(promhttp.HandlerFor(s.deps.Metrics.Registry(), promhttp.HandlerOpts{}))
}

// responseCache кэширует ответы GET-маршрута целиком
func responseCache(expiration time.Duration) fiber.Handler {
	return fibercache.New(fibercache.Config{
		Expiration: expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.Method() + ":" + c.Path()
		},
	})
}
