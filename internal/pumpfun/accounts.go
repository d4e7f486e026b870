// =============================
// File: internal/pumpfun/accounts.go
// =============================
package pumpfun

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ErrInvalidWallet - строка не является публичным ключом Solana
var ErrInvalidWallet = errors.New("invalid wallet address")

// ParseWallet проверяет и разбирает base58-адрес кошелька
func ParseWallet(address string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %s", ErrInvalidWallet, address)
	}
	return key, nil
}

// DeriveFeeAccount вычисляет PDA аккаунта комиссий создателя:
// seeds ["fee_account", mint, creator] под программой Pump.fun.
func DeriveFeeAccount(mint, creator solana.PublicKey) (solana.PublicKey, error) {
	feeAccount, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(feeAccountSeed), mint.Bytes(), creator.Bytes()},
		ProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive fee account: %w", err)
	}
	return feeAccount, nil
}

// DeriveCreatorVault вычисляет PDA хранилища комиссий создателя
func DeriveCreatorVault(creator solana.PublicKey) (solana.PublicKey, error) {
	vault, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(creatorVaultSeed), creator.Bytes()},
		ProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive creator vault: %w", err)
	}
	return vault, nil
}

// DeriveBondingCurve вычисляет PDA bonding curve токена
func DeriveBondingCurve(mint solana.PublicKey) (solana.PublicKey, error) {
	bondingCurve, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(bondingCurveSeed), mint.Bytes()},
		ProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive bonding curve: %w", err)
	}
	return bondingCurve, nil
}
