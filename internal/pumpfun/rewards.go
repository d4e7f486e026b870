// =============================
// File: internal/pumpfun/rewards.go
// =============================
package pumpfun

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// GetCreatorRewards собирает сводку по всем токенам, созданным кошельком.
// Метаданные, комиссии и статистика каждого токена запрашиваются параллельно.
// Результат отсортирован по невыведенным комиссиям, по убыванию.
func (s *Service) GetCreatorRewards(ctx context.Context, wallet string) ([]CreatorReward, error) {
	mints := s.GetCreatedTokens(ctx, wallet)
	if len(mints) == 0 {
		return []CreatorReward{}, nil
	}

	rewards := make([]CreatorReward, len(mints))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, mint := range mints {
		i, mint := i, mint
		g.Go(func() error {
			rewards[i] = s.buildReward(gCtx, mint, wallet)
			return gCtx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to collect creator rewards",
			zap.String("wallet", wallet),
			zap.Error(err))
		return []CreatorReward{}, err
	}

	sort.SliceStable(rewards, func(a, b int) bool {
		return rewards[a].UnclaimedFees > rewards[b].UnclaimedFees
	})
	return rewards, nil
}

func (s *Service) buildReward(ctx context.Context, mint, creator string) CreatorReward {
	var (
		wg       sync.WaitGroup
		metadata *TokenMetadata
		fees     CreatorFees
		stats    TokenStats
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		metadata = s.FetchTokenMetadata(ctx, mint)
	}()
	go func() {
		defer wg.Done()
		fees = s.CalculateCreatorFees(ctx, mint, creator)
	}()
	go func() {
		defer wg.Done()
		stats = s.GetTokenStats(ctx, mint)
	}()
	wg.Wait()

	info := unknownToken(mint)
	if metadata != nil {
		info = *metadata
	}

	return CreatorReward{
		Mint:                 mint,
		TokenInfo:            info,
		TotalFeesCollected:   fees.Collected,
		UnclaimedFees:        fees.Unclaimed,
		TotalVolume:          stats.Volume24h * volumeDays,
		Holders:              stats.Holders,
		MarketCap:            stats.MarketCap,
		PriceUSD:             stats.PriceUSD,
		PriceChange24h:       stats.PriceChange24h,
		BondingCurveProgress: stats.BondingCurveProgress,
		IsGraduated:          stats.IsGraduated,
	}
}
