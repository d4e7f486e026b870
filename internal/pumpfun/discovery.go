// =============================
// File: internal/pumpfun/discovery.go
// =============================
package pumpfun

import (
	"context"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/reclaim-hub/internal/blockchain/solbc"
)

// GetCreatedTokens находит mint-адреса токенов, созданных кошельком через Pump.fun.
// Просматриваются последние 1000 транзакций кошелька. При любой ошибке возвращается пустой список.
func (s *Service) GetCreatedTokens(ctx context.Context, wallet string) []string {
	key := createdTokensKey(wallet)
	if cached, ok := s.created.Get(key); ok {
		return cached
	}

	owner, err := ParseWallet(wallet)
	if err != nil {
		s.logger.Warn("Cannot discover created tokens", zap.Error(err))
		return []string{}
	}

	sigs, err := s.chain.GetSignaturesForAddress(ctx, owner, createdTokensSignatureLimit)
	if err != nil {
		s.logger.Error("Failed to get wallet signatures",
			zap.String("wallet", wallet),
			zap.Error(err))
		return []string{}
	}

	txs, err := s.fetchTransactions(ctx, sigs)
	if err != nil {
		s.logger.Error("Failed to fetch wallet transactions",
			zap.String("wallet", wallet),
			zap.Error(err))
		return []string{}
	}

	mints := make([]string, 0)
	seen := make(map[string]struct{})
	for _, item := range txs {
		for _, mint := range createdMints(item.tx) {
			if _, dup := seen[mint]; dup {
				continue
			}
			seen[mint] = struct{}{}
			mints = append(mints, mint)
		}
	}

	s.logger.Debug("Discovered created tokens",
		zap.String("wallet", wallet),
		zap.Int("signatures", len(sigs)),
		zap.Int("tokens", len(mints)))

	s.created.Set(key, mints)
	return mints
}

// createdMints извлекает mint-адреса из транзакции создания токена.
// Для каждой инструкции программы Pump.fun, если среди внутренних инструкций есть
// initializeMint или createAccount, mint - первый аккаунт инструкции.
func createdMints(tx *solbc.ParsedTransaction) []string {
	program := ProgramID.String()
	if !tx.HasAccount(program) {
		return nil
	}

	var mints []string
	for _, ix := range tx.Transaction.Message.Instructions {
		if ix.ProgramID != program || len(ix.Accounts) == 0 {
			continue
		}
		if hasMintCreation(tx.Meta.InnerInstructions) {
			mints = append(mints, ix.Accounts[0])
		}
	}
	return mints
}

func hasMintCreation(inner []solbc.ParsedInnerInstruction) bool {
	for _, group := range inner {
		for _, ix := range group.Instructions {
			switch ix.ParsedType() {
			case parsedInitializeMint, parsedCreateAccount:
				return true
			}
		}
	}
	return false
}
