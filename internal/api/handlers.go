// =============================
// File: internal/api/handlers.go
// =============================
package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/reclaim-hub/internal/burnfeed"
	"github.com/rovshanmuradov/reclaim-hub/internal/claim"
	"github.com/rovshanmuradov/reclaim-hub/internal/price"
	"github.com/rovshanmuradov/reclaim-hub/internal/upstream"
)

const errClaimFailed = "Failed to build claim transaction"

type claimRequest struct {
	Wallet      string   `json:"wallet"`
	PriorityFee *float64 `json:"priorityFee"`
}

type claimResponse struct {
	Transaction json.RawMessage `json:"transaction"`
	Success     bool            `json:"success"`
}

type burnResponse struct {
	Transactions []burnfeed.BurnTransaction `json:"transactions"`
}

// postClaim обрабатывает POST /api/pumpfun-claim {wallet, priorityFee}
func (s *Server) postClaim(c *fiber.Ctx) error {
	var req claimRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(errorBody{Error: errClaimFailed, Details: err.Error()})
	}
	if req.Wallet == "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorBody{Error: errWalletRequired})
	}

	fee := claim.DefaultPriorityFee
	if req.PriorityFee != nil {
		fee = *req.PriorityFee
	}

	defer s.log.TrackPerformance("claim")()
	log := s.log.WithWallet(req.Wallet)

	tx, err := s.deps.Claims.Build(c.UserContext(), req.Wallet, fee)
	if err != nil {
		var statusErr *upstream.StatusError
		if errors.As(err, &statusErr) {
			log.Warn("PumpPortal rejected claim", zap.Int("status", statusErr.Code), zap.String("body", statusErr.Body))
			return c.Status(statusErr.Code).JSON(errorBody{Error: errClaimFailed, Details: statusErr.Body})
		}
		log.Error("Failed to build claim transaction", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(errorBody{Error: errClaimFailed, Details: err.Error()})
	}

	log.Info("Claim transaction built")
	return c.JSON(claimResponse{Transaction: tx, Success: true})
}

// getSolPrice обрабатывает GET /api/sol-price
func (s *Server) getSolPrice(c *fiber.Ctx) error {
	quote, err := s.deps.Prices.Quote(c.UserContext())
	if err != nil {
		s.log.Warn("Error fetching SOL price, using fallback", zap.Error(err))
		return c.JSON(price.Quote{Price: price.FallbackPrice})
	}
	return c.JSON(quote)
}

// getBurnTransactions обрабатывает GET /api/burn-transactions
func (s *Server) getBurnTransactions(c *fiber.Ctx) error {
	return c.JSON(burnResponse{Transactions: s.deps.Burns.Recent(c.UserContext())})
}
