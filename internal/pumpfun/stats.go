// =============================
// File: internal/pumpfun/stats.go
// =============================
package pumpfun

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"net/url"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/reclaim-hub/internal/upstream"
)

// GetTokenStats возвращает статистику токена из pump.fun.
// Если pump.fun ответил неуспешным кодом, статистика оценивается по данным сети (без кэширования).
// При сетевой ошибке или ошибке разбора - нули.
func (s *Service) GetTokenStats(ctx context.Context, mint string) TokenStats {
	key := statsKey(mint)
	if cached, ok := s.stats.Get(key); ok {
		return cached
	}

	endpoint := fmt.Sprintf("%s/api/token/%s/stats", s.apiURL, url.PathEscape(mint))

	var stats TokenStats
	err := s.api.GetJSON(ctx, "tokenStats", endpoint, &stats)
	if err == nil {
		s.stats.Set(key, stats)
		return stats
	}

	if code := upstream.StatusCode(err); code != 0 {
		s.logger.Debug("pump.fun stats unavailable, estimating from chain",
			zap.String("mint", mint),
			zap.Int("status", code))
		return s.estimateStatsFromChain(ctx, mint)
	}

	s.logger.Error("Failed to get token stats", zap.String("mint", mint), zap.Error(err))
	return TokenStats{}
}

// estimateStatsFromChain дает грубую оценку: капитализация = держатели x 100 USD
func (s *Service) estimateStatsFromChain(ctx context.Context, mint string) TokenStats {
	mintKey, err := ParseWallet(mint)
	if err != nil {
		s.logger.Warn("Invalid mint address", zap.Error(err))
		return TokenStats{}
	}

	supply, err := s.chain.GetTokenSupply(ctx, mintKey)
	if err != nil {
		s.logger.Error("Failed to get token supply", zap.String("mint", mint), zap.Error(err))
		return TokenStats{}
	}

	holders, err := s.chain.CountTokenHolders(ctx, mintKey)
	if err != nil {
		s.logger.Error("Failed to count token holders", zap.String("mint", mint), zap.Error(err))
		return TokenStats{}
	}

	return EstimateStats(holders, supply.Amount, supply.Decimals)
}

// EstimateStats рассчитывает оценочную статистику по числу держателей и эмиссии
func EstimateStats(holders int, rawSupply uint64, decimals uint8) TokenStats {
	marketCap := float64(holders * estimatedCapPerHolder)
	progress := math.Min(100, marketCap/GraduationMarketCap*100)

	totalSupply := decimal.NewFromBigInt(new(big.Int).SetUint64(rawSupply), -int32(decimals))

	var priceUSD float64
	if !totalSupply.IsZero() {
		priceUSD = decimal.NewFromFloat(marketCap).Div(totalSupply).InexactFloat64()
	}

	return TokenStats{
		Holders:              holders,
		MarketCap:            marketCap,
		PriceUSD:             priceUSD,
		BondingCurveProgress: progress,
		IsGraduated:          progress >= 100,
	}
}
