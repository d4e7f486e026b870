// =============================
// File: internal/pumpfun/history.go
// =============================
package pumpfun

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const claimDescription = "Creator Fee Claim"

var claimThreshold = int64(ClaimThresholdSOL * LamportsPerSOL)

// GetRewardsHistory ищет выводы комиссий среди последних 100 транзакций кошелька:
// транзакции программы Pump.fun, в которых баланс кошелька вырос более чем на 0.01 SOL.
// При ошибке возвращается пустой список.
func (s *Service) GetRewardsHistory(ctx context.Context, wallet string) []RewardsHistory {
	key := historyKey(wallet)
	if cached, ok := s.history.Get(key); ok {
		return cached
	}

	owner, err := ParseWallet(wallet)
	if err != nil {
		s.logger.Warn("Cannot load rewards history", zap.Error(err))
		return []RewardsHistory{}
	}

	sigs, err := s.chain.GetSignaturesForAddress(ctx, owner, historySignatureLimit)
	if err != nil {
		s.logger.Error("Failed to get wallet signatures",
			zap.String("wallet", wallet),
			zap.Error(err))
		return []RewardsHistory{}
	}

	txs, err := s.fetchTransactions(ctx, sigs)
	if err != nil {
		s.logger.Error("Failed to fetch wallet transactions",
			zap.String("wallet", wallet),
			zap.Error(err))
		return []RewardsHistory{}
	}

	program := ProgramID.String()
	history := make([]RewardsHistory, 0)
	for _, item := range txs {
		if !item.tx.HasAccount(program) {
			continue
		}
		delta, ok := item.tx.BalanceChange(wallet)
		if !ok || delta <= claimThreshold {
			continue
		}

		timestamp := item.sig.BlockTime
		if timestamp == 0 {
			timestamp = time.Now().Unix()
		}
		history = append(history, RewardsHistory{
			Timestamp:   timestamp,
			Amount:      LamportsToSOL(delta),
			Signature:   item.sig.Signature,
			TokenMint:   "",
			Description: claimDescription,
		})
	}

	s.history.Set(key, history)
	return history
}
