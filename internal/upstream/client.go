// internal/upstream/client.go
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/reclaim-hub/internal/utils/metrics"
)

// ErrUpstreamStatus - внешний API вернул код, отличный от 2xx
var ErrUpstreamStatus = errors.New("upstream returned non-OK status")

// StatusError несет код и тело неуспешного ответа
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error: %d", e.Provider, e.Code)
}

func (e *StatusError) Unwrap() error {
	return ErrUpstreamStatus
}

// StatusCode извлекает код ответа из ошибки (0, если это не StatusError)
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// Config задает поведение клиента внешнего API
type Config struct {
	Provider        string
	Timeout         time.Duration
	Retries         int
	InitialInterval time.Duration
	Metrics         *metrics.Collector
}

// Client - JSON-клиент поверх fiber.Client с повторами для одного провайдера.
// Ответы 5xx и сетевые ошибки повторяются, 4xx - нет.
type Client struct {
	http     *fiber.Client
	provider string
	timeout  time.Duration
	retries  int
	interval time.Duration
	metrics  *metrics.Collector
	logger   *zap.Logger
}

// New создает клиента для провайдера
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 200 * time.Millisecond
	}
	return &Client{
		http:     &fiber.Client{},
		provider: cfg.Provider,
		timeout:  cfg.Timeout,
		retries:  cfg.Retries,
		interval: cfg.InitialInterval,
		metrics:  cfg.Metrics,
		logger:   logger.Named(cfg.Provider),
	}
}

// Provider возвращает имя провайдера
func (c *Client) Provider() string {
	return c.provider
}

// GetJSON выполняет GET и декодирует JSON-ответ в out
func (c *Client) GetJSON(ctx context.Context, method, url string, out interface{}) error {
	body, err := c.do(ctx, method, func() *fiber.Agent {
		return c.http.Get(url)
	})
	if err != nil {
		return err
	}
	return c.decode(method, body, out)
}

// PostJSON отправляет payload как JSON и декодирует ответ в out
func (c *Client) PostJSON(ctx context.Context, method, url string, payload, out interface{}) error {
	body, err := c.PostRaw(ctx, method, url, payload)
	if err != nil {
		return err
	}
	return c.decode(method, body, out)
}

// PostRaw отправляет payload как JSON и возвращает тело ответа без разбора
func (c *Client) PostRaw(ctx context.Context, method, url string, payload interface{}) ([]byte, error) {
	return c.do(ctx, method, func() *fiber.Agent {
		return c.http.Post(url).JSON(payload)
	})
}

func (c *Client) decode(method string, body []byte, out interface{}) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", c.provider, method, err)
	}
	return nil
}

// attemptTimeout ограничивает таймаут попытки дедлайном ctx
func (c *Client) attemptTimeout(ctx context.Context) (time.Duration, bool) {
	deadline, ok := ctx.Deadline()
	if !ok {
		return c.timeout, true
	}
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return 0, false
	}
	if remaining < c.timeout {
		return remaining, true
	}
	return c.timeout, true
}

// do выполняет запрос с повторами. Агент создается заново на каждую попытку:
// после Bytes() его нельзя переиспользовать.
func (c *Client) do(ctx context.Context, method string, build func() *fiber.Agent) ([]byte, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.interval
	policy.MaxInterval = c.interval * 10

	operation := func() ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, backoff.Permanent(err)
		}
		timeout, ok := c.attemptTimeout(ctx)
		if !ok {
			return nil, backoff.Permanent(context.DeadlineExceeded)
		}

		// fiber.Agent не принимает ctx: отмена без дедлайна видна только между попытками
		agent := build().
			Timeout(timeout).
			Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)

		code, body, errs := agent.Bytes()
		if err := errors.Join(errs...); err != nil {
			return nil, fmt.Errorf("%s %s: %w", c.provider, method, err)
		}
		if code >= 200 && code < 300 {
			return body, nil
		}

		statusErr := &StatusError{Provider: c.provider, Code: code, Body: string(body)}
		if code >= 400 && code < 500 && code != fiber.StatusTooManyRequests {
			return nil, backoff.Permanent(statusErr)
		}
		return nil, statusErr
	}

	notify := func(err error, d time.Duration) {
		c.logger.Debug("Retrying upstream request",
			zap.String("method", method),
			zap.Duration("backoff", d),
			zap.Error(err))
	}

	start := time.Now()
	body, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(c.retries+1)),
		backoff.WithNotify(notify),
	)
	c.metrics.RecordUpstream(c.provider, method, time.Since(start), err)
	return body, err
}
