// =============================
// File: internal/pumpfun/fees.go
// =============================
package pumpfun

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/reclaim-hub/internal/blockchain/solbc"
)

// CalculateCreatorFees считает комиссии создателя по токену.
// Невыведенные - баланс PDA комиссий; собранные - сумма положительных изменений
// баланса создателя в последних 100 транзакциях PDA. При ошибке - нули.
func (s *Service) CalculateCreatorFees(ctx context.Context, mint, creator string) CreatorFees {
	key := feesKey(mint, creator)
	if cached, ok := s.fees.Get(key); ok {
		return cached
	}

	logger := s.logger.With(zap.String("mint", mint), zap.String("creator", creator))

	mintKey, err := ParseWallet(mint)
	if err != nil {
		logger.Warn("Invalid mint address", zap.Error(err))
		return CreatorFees{}
	}
	creatorKey, err := ParseWallet(creator)
	if err != nil {
		logger.Warn("Invalid creator address", zap.Error(err))
		return CreatorFees{}
	}

	feeAccount, err := DeriveFeeAccount(mintKey, creatorKey)
	if err != nil {
		logger.Error("Failed to derive fee account", zap.Error(err))
		return CreatorFees{}
	}

	info, err := s.chain.GetAccountInfo(ctx, feeAccount)
	if err != nil {
		if errors.Is(err, solbc.ErrAccountNotFound) {
			logger.Debug("Fee account does not exist", zap.String("fee_account", feeAccount.String()))
		} else {
			logger.Error("Failed to get fee account", zap.Error(err))
		}
		return CreatorFees{}
	}

	sigs, err := s.chain.GetSignaturesForAddress(ctx, feeAccount, feeSignatureLimit)
	if err != nil {
		logger.Error("Failed to get fee account signatures", zap.Error(err))
		return CreatorFees{}
	}

	txs, err := s.fetchTransactions(ctx, sigs)
	if err != nil {
		logger.Error("Failed to fetch fee account transactions", zap.Error(err))
		return CreatorFees{}
	}

	var collected int64
	for _, item := range txs {
		if delta, ok := item.tx.BalanceChange(creator); ok && delta > 0 {
			collected += delta
		}
	}

	fees := CreatorFees{
		Collected: LamportsToSOL(collected),
		Unclaimed: LamportsToSOL(int64(info.Lamports)),
	}
	s.fees.Set(key, fees)
	return fees
}
