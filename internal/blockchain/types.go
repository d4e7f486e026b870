// internal/blockchain/types.go
package blockchain

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/reclaim-hub/internal/blockchain/solbc"
)

// ChainReader определяет операции чтения из блокчейна, нужные агрегатору.
type ChainReader interface {
	// Получить последние подписи транзакций адреса.
	GetSignaturesForAddress(ctx context.Context, address solana.PublicKey, limit int) ([]solbc.SignatureInfo, error)
	// Получить транзакцию в jsonParsed-представлении (nil, если нет).
	GetParsedTransaction(ctx context.Context, signature string) (*solbc.ParsedTransaction, error)
	// Получить информацию об аккаунте.
	GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*solbc.AccountInfo, error)
	// Получить эмиссию токена.
	GetTokenSupply(ctx context.Context, mint solana.PublicKey) (*solbc.TokenSupply, error)
	// Посчитать держателей токена.
	CountTokenHolders(ctx context.Context, mint solana.PublicKey) (int, error)
}

// Гарантируем, что solbc.Client реализует интерфейс ChainReader.
var _ ChainReader = (*solbc.Client)(nil)
