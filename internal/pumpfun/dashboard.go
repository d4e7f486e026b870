// =============================
// File: internal/pumpfun/dashboard.go
// =============================
package pumpfun

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Dashboard собирает награды, историю выводов и цену SOL параллельно и считает итоги
func (s *Service) Dashboard(ctx context.Context, wallet string) (Dashboard, error) {
	var (
		rewards  []CreatorReward
		history  []RewardsHistory
		solPrice float64
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rewards, err = s.GetCreatorRewards(gCtx, wallet)
		return err
	})
	g.Go(func() error {
		history = s.GetRewardsHistory(gCtx, wallet)
		return nil
	})
	g.Go(func() error {
		solPrice = s.GetSolPrice(gCtx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return EmptyDashboard(), err
	}

	return Dashboard{
		Rewards:  rewards,
		History:  history,
		Totals:   ComputeTotals(rewards),
		SolPrice: solPrice,
	}, nil
}

// ComputeTotals суммирует показатели по всем токенам
func ComputeTotals(rewards []CreatorReward) Totals {
	totals := Totals{TokensCreated: len(rewards)}
	for _, r := range rewards {
		totals.Collected += r.TotalFeesCollected
		totals.Unclaimed += r.UnclaimedFees
		totals.Volume += r.TotalVolume
		totals.Holders += r.Holders
	}
	return totals
}
