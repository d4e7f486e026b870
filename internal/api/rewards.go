// =============================
// File: internal/api/rewards.go
// =============================
package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/reclaim-hub/internal/pumpfun"
)

const (
	errWalletRequired = "Wallet address required"
	errInvalidWallet  = "Invalid wallet address"
)

type rewardsResponse struct {
	Success   bool              `json:"success"`
	Refreshed bool              `json:"refreshed,omitempty"`
	Error     string            `json:"error,omitempty"`
	Details   string            `json:"details,omitempty"`
	Data      pumpfun.Dashboard `json:"data"`
}

type rewardsRequest struct {
	Wallet string `json:"wallet"`
	Action string `json:"action"`
}

type chartResponse struct {
	Success bool                     `json:"success"`
	Period  pumpfun.ChartPeriod      `json:"period"`
	Data    []pumpfun.ChartDataPoint `json:"data"`
}

func rewardsKey(wallet string) string {
	return "rewards-" + wallet
}

// validateWallet возвращает текст ошибки для 400 или пустую строку
func validateWallet(wallet string) string {
	if wallet == "" {
		return errWalletRequired
	}
	if _, err := pumpfun.ParseWallet(wallet); err != nil {
		return errInvalidWallet
	}
	return ""
}

// getRewards обрабатывает GET /api/pumpfun-rewards?wallet=
func (s *Server) getRewards(c *fiber.Ctx) error {
	wallet := c.Query("wallet")
	if msg := validateWallet(wallet); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorBody{Error: msg})
	}

	key := rewardsKey(wallet)
	if cached, ok := s.rewards.Get(key); ok {
		return c.JSON(cached)
	}

	defer s.log.TrackPerformance("rewards")()
	log := s.log.WithWallet(wallet)

	dashboard, err := s.deps.Rewards.Dashboard(c.UserContext(), wallet)
	if err != nil {
		log.Error("Failed to fetch creator rewards", zap.Error(err))
		// 200, чтобы клиент отрисовал пустой дашборд
		return c.JSON(rewardsResponse{
			Success: false,
			Error:   "Failed to fetch creator rewards",
			Details: err.Error(),
			Data:    pumpfun.EmptyDashboard(),
		})
	}

	resp := rewardsResponse{Success: true, Data: dashboard}
	s.rewards.Set(key, resp)

	log.Info("Creator rewards loaded",
		zap.Int("tokens", dashboard.Totals.TokensCreated),
		zap.Float64("unclaimed", dashboard.Totals.Unclaimed))
	return c.JSON(resp)
}

// postRewards обрабатывает POST /api/pumpfun-rewards {wallet, action}
func (s *Server) postRewards(c *fiber.Ctx) error {
	var req rewardsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(errorBody{
			Error:   "Failed to process request",
			Details: err.Error(),
		})
	}

	if msg := validateWallet(req.Wallet); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorBody{Error: msg})
	}
	if req.Action != "refresh" {
		return c.Status(fiber.StatusBadRequest).JSON(errorBody{Error: "Invalid action"})
	}

	key := rewardsKey(req.Wallet)
	s.rewards.Delete(key)
	s.deps.Rewards.Invalidate(req.Wallet)

	defer s.log.TrackPerformance("rewards_refresh")()
	log := s.log.WithWallet(req.Wallet)

	dashboard, err := s.deps.Rewards.Dashboard(c.UserContext(), req.Wallet)
	if err != nil {
		log.Error("Failed to refresh creator rewards", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(errorBody{
			Error:   "Failed to process request",
			Details: err.Error(),
		})
	}

	resp := rewardsResponse{Success: true, Refreshed: true, Data: dashboard}
	s.rewards.Set(key, resp)
	return c.JSON(resp)
}

// getRewardsChart обрабатывает GET /api/pumpfun-rewards/chart?wallet=&period=
func (s *Server) getRewardsChart(c *fiber.Ctx) error {
	wallet := c.Query("wallet")
	if msg := validateWallet(wallet); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorBody{Error: msg})
	}

	period, err := pumpfun.ParseChartPeriod(c.Query("period"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorBody{Error: "Invalid period", Details: err.Error()})
	}

	history := s.deps.Rewards.GetRewardsHistory(c.UserContext(), wallet)
	return c.JSON(chartResponse{
		Success: true,
		Period:  period,
		Data:    pumpfun.FormatRewardsChartData(history, period),
	})
}
