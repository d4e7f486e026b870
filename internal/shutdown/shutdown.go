// =============================
// File: internal/shutdown/shutdown.go
// =============================
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// CloseFunc позволяет использовать функцию как io.Closer
type CloseFunc func() error

func (f CloseFunc) Close() error {
	return f()
}

type namedCloser struct {
	name   string
	closer io.Closer
}

// Handler закрывает зарегистрированные сервисы в обратном порядке (LIFO)
type Handler struct {
	logger  *zap.Logger
	timeout time.Duration

	mu      sync.Mutex
	closers []namedCloser
}

// NewHandler создает обработчик с таймаутом на закрытие каждого сервиса
func NewHandler(logger *zap.Logger, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Handler{
		logger:  logger.Named("shutdown"),
		timeout: timeout,
	}
}

// Add регистрирует сервис
func (h *Handler) Add(name string, closer io.Closer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closers = append(h.closers, namedCloser{name: name, closer: closer})
	h.logger.Debug("Registered service for shutdown", zap.String("service", name))
}

// AddFunc регистрирует функцию закрытия
func (h *Handler) AddFunc(name string, fn func() error) {
	h.Add(name, CloseFunc(fn))
}

// Wait блокируется до SIGINT/SIGTERM или отмены ctx, затем закрывает сервисы
func (h *Handler) Wait(ctx context.Context) error {
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-sigCtx.Done()
	h.logger.Info("Shutdown signal received", zap.Error(context.Cause(sigCtx)))

	return h.Shutdown(context.Background())
}

// Shutdown закрывает сервисы по одному, начиная с последнего зарегистрированного.
// На каждый сервис отводится свой таймаут; не уложившийся сервис считается закрытым с ошибкой.
func (h *Handler) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	closers := make([]namedCloser, len(h.closers))
	copy(closers, h.closers)
	h.mu.Unlock()

	h.logger.Info("Starting graceful shutdown", zap.Int("services", len(closers)))

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := h.closeOne(ctx, closers[i]); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		err := errors.Join(errs...)
		h.logger.Error("Shutdown completed with errors", zap.Error(err))
		return err
	}
	h.logger.Info("Graceful shutdown completed")
	return nil
}

func (h *Handler) closeOne(ctx context.Context, svc namedCloser) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		h.logger.Info("Shutting down service", zap.String("service", svc.name))
		done <- svc.closer.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%s: %w", svc.name, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s: shutdown timeout", svc.name)
	}
}
