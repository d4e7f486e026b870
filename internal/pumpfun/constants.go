// =============================
// File: internal/pumpfun/constants.go
// =============================
package pumpfun

import (
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// Известные адреса протокола Pump.fun
var (
	// Program ID протокола Pump.fun
	ProgramID = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")

	// Получатель комиссий протокола
	FeeRecipient = solana.MustPublicKeyFromBase58("CebN5WGQ4jvEPvsVU4EoHEpgzq1VV7AbicfhtW4xC9iM")
)

const (
	// Рыночная капитализация (USD), при которой токен уходит с bonding curve
	GraduationMarketCap = 69000.0

	// Минимальное поступление на кошелек (SOL), которое считается выводом комиссии
	ClaimThresholdSOL = 0.01

	// Оценка капитализации на одного держателя при расчете по данным сети
	estimatedCapPerHolder = 100

	// Грубая оценка общего объема: суточный объем за 30 дней
	volumeDays = 30

	// Цена SOL, если котировка недоступна
	FallbackSolPrice = 150.0

	LamportsPerSOL = 1_000_000_000
)

// Лимиты getSignaturesForAddress
const (
	createdTokensSignatureLimit = 1000
	feeSignatureLimit           = 100
	historySignatureLimit       = 100
)

// Seed-префиксы PDA
const (
	feeAccountSeed   = "fee_account"
	creatorVaultSeed = "creator-vault"
	bondingCurveSeed = "bonding-curve"
)

// Типы внутренних инструкций, которые сопровождают создание mint
const (
	parsedInitializeMint = "initializeMint"
	parsedCreateAccount  = "createAccount"
)

var lamportsPerSOL = decimal.NewFromInt(LamportsPerSOL)

// LamportsToSOL переводит лампорты в SOL
func LamportsToSOL(lamports int64) float64 {
	return decimal.NewFromInt(lamports).Div(lamportsPerSOL).InexactFloat64()
}
