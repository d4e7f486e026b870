// =============================
// File: internal/burnfeed/burnfeed.go
// =============================
package burnfeed

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/reclaim-hub/internal/helius"
)

// FeedSize - количество транзакций в ленте
const FeedSize = 20

// Типы сжигания для отображения
const (
	TypeToken   = "Token"
	TypeNFT     = "NFT"
	TypeCNFT    = "cNFT"
	TypeAccount = "Account"
)

var mockTypes = []string{TypeNFT, TypeToken, TypeAccount, TypeCNFT}

var lamportsPerSOL = decimal.NewFromInt(1_000_000_000)

// BurnTransaction - элемент ленты сжиганий
type BurnTransaction struct {
	Signature    string `json:"signature"`
	BlockTime    int64  `json:"blockTime"`
	Type         string `json:"type"`
	ItemsBurned  int    `json:"itemsBurned"`
	SolReclaimed string `json:"solReclaimed"`
}

// TransactionSource отдает enhanced-транзакции адреса
type TransactionSource interface {
	AddressTransactions(ctx context.Context, address string, limit int) ([]helius.EnhancedTransaction, error)
}

// Feed строит ленту последних сжиганий через burn-кошелек
type Feed struct {
	source TransactionSource
	wallet string
	now    func() time.Time
	logger *zap.Logger
}

// NewFeed создает ленту для указанного burn-кошелька
func NewFeed(source TransactionSource, wallet string, logger *zap.Logger) *Feed {
	return &Feed{
		source: source,
		wallet: wallet,
		now:    time.Now,
		logger: logger.Named("burnfeed"),
	}
}

// Recent возвращает последние сжигания. Если Helius недоступен, отдается сгенерированная лента.
func (f *Feed) Recent(ctx context.Context) []BurnTransaction {
	txs, err := f.source.AddressTransactions(ctx, f.wallet, FeedSize)
	if err != nil {
		f.logger.Error("Failed to fetch burn transactions, serving mock feed", zap.Error(err))
		return f.mock()
	}

	if len(txs) > FeedSize {
		txs = txs[:FeedSize]
	}

	now := f.now().Unix()
	result := make([]BurnTransaction, 0, len(txs))
	for _, tx := range txs {
		result = append(result, convert(tx, now))
	}

	f.logger.Debug("Fetched burn transactions", zap.Int("count", len(result)))
	return result
}

func convert(tx helius.EnhancedTransaction, now int64) BurnTransaction {
	blockTime := tx.Timestamp
	if blockTime == 0 {
		blockTime = now
	}
	return BurnTransaction{
		Signature:    tx.Signature,
		BlockTime:    blockTime,
		Type:         Classify(tx.Type, tx.Description),
		ItemsBurned:  itemsBurned(tx),
		SolReclaimed: solReclaimed(tx.NativeTransfers),
	}
}

// Classify сопоставляет тип транзакции Helius с типом сжигания
func Classify(txType, description string) string {
	switch txType {
	case "NFT_BURN", "NFT_SALE":
		return TypeNFT
	case "COMPRESSED_NFT_BURN":
		return TypeCNFT
	case "BURN", "BURN_NFT":
		if strings.Contains(description, "cNFT") {
			return TypeCNFT
		}
		return TypeNFT
	default:
		return TypeToken
	}
}

func itemsBurned(tx helius.EnhancedTransaction) int {
	switch {
	case len(tx.TokenTransfers) > 0:
		return len(tx.TokenTransfers)
	case len(tx.NativeTransfers) > 0:
		return len(tx.NativeTransfers)
	default:
		return 1
	}
}

func solReclaimed(transfers []helius.NativeTransfer) string {
	var total int64
	for _, t := range transfers {
		total += t.Amount
	}
	return decimal.NewFromInt(total).Div(lamportsPerSOL).StringFixed(4)
}

// mock генерирует ленту-заглушку: по записи в минуту, типы по кругу
func (f *Feed) mock() []BurnTransaction {
	now := f.now()
	result := make([]BurnTransaction, FeedSize)
	for i := range result {
		sol := decimal.NewFromFloat(rand.Float64()*0.02 + 0.001)
		result[i] = BurnTransaction{
			Signature:    strings.ReplaceAll(uuid.NewString(), "-", "") + strconv.FormatInt(now.UnixMilli(), 10),
			BlockTime:    now.Unix() - int64(i*60),
			Type:         mockTypes[i%len(mockTypes)],
			ItemsBurned:  rand.Intn(5) + 1,
			SolReclaimed: sol.StringFixed(4),
		}
	}
	return result
}
