// =============================
// File: internal/pumpfun/service.go
// =============================
package pumpfun

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/reclaim-hub/internal/blockchain"
	"github.com/rovshanmuradov/reclaim-hub/internal/blockchain/solbc"
	"github.com/rovshanmuradov/reclaim-hub/internal/cache"
	"github.com/rovshanmuradov/reclaim-hub/internal/helius"
	"github.com/rovshanmuradov/reclaim-hub/internal/price"
	"github.com/rovshanmuradov/reclaim-hub/internal/upstream"
	"github.com/rovshanmuradov/reclaim-hub/internal/utils/metrics"
)

// AssetSource - резервный источник метаданных (Helius DAS)
type AssetSource interface {
	GetAsset(ctx context.Context, id string) (*helius.Asset, error)
}

// SolPriceSource отдает текущую котировку SOL
type SolPriceSource interface {
	Quote(ctx context.Context) (price.Quote, error)
}

// Options задает параметры сервиса
type Options struct {
	APIURL    string // базовый адрес pump.fun
	CacheTTL  time.Duration
	CacheSize int
	Workers   int // размер пачки параллельно загружаемых транзакций
	Metrics   *metrics.Collector
}

// Service собирает данные о токенах создателя и его комиссиях.
// Все результаты кэшируются на CacheTTL.
type Service struct {
	chain   blockchain.ChainReader
	api     *upstream.Client
	apiURL  string
	assets  AssetSource
	prices  SolPriceSource
	workers int
	logger  *zap.Logger

	metadata *cache.TTLCache[string, *TokenMetadata]
	created  *cache.TTLCache[string, []string]
	fees     *cache.TTLCache[string, CreatorFees]
	stats    *cache.TTLCache[string, TokenStats]
	history  *cache.TTLCache[string, []RewardsHistory]
}

// NewService создает сервис. assets и prices могут быть nil.
func NewService(
	chain blockchain.ChainReader,
	api *upstream.Client,
	assets AssetSource,
	prices SolPriceSource,
	opts Options,
	logger *zap.Logger,
) *Service {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.Workers <= 0 {
		opts.Workers = 10
	}

	return &Service{
		chain:    chain,
		api:      api,
		apiURL:   strings.TrimRight(opts.APIURL, "/"),
		assets:   assets,
		prices:   prices,
		workers:  opts.Workers,
		logger:   logger.Named("pumpfun"),
		metadata: cache.NewTTL(opts.CacheSize, opts.CacheTTL, cache.WithMetrics[string, *TokenMetadata]("metadata", opts.Metrics)),
		created:  cache.NewTTL(opts.CacheSize, opts.CacheTTL, cache.WithMetrics[string, []string]("created_tokens", opts.Metrics)),
		fees:     cache.NewTTL(opts.CacheSize, opts.CacheTTL, cache.WithMetrics[string, CreatorFees]("fees", opts.Metrics)),
		stats:    cache.NewTTL(opts.CacheSize, opts.CacheTTL, cache.WithMetrics[string, TokenStats]("stats", opts.Metrics)),
		history:  cache.NewTTL(opts.CacheSize, opts.CacheTTL, cache.WithMetrics[string, []RewardsHistory]("history", opts.Metrics)),
	}
}

func metadataKey(mint string) string { return "metadata-" + mint }
func createdTokensKey(wallet string) string { return "created-tokens-" + wallet }
func feesKey(mint, creator string) string { return "fees-" + mint + "-" + creator }
func statsKey(mint string) string { return "stats-" + mint }
func historyKey(wallet string) string { return "history-" + wallet }

// Invalidate удаляет записи кэша, относящиеся к кошельку
func (s *Service) Invalidate(wallet string) {
	s.created.Delete(createdTokensKey(wallet))
	s.history.Delete(historyKey(wallet))
	removed := s.fees.DeleteFunc(func(key string) bool {
		return strings.HasSuffix(key, "-"+wallet)
	})
	s.logger.Debug("Invalidated wallet cache",
		zap.String("wallet", wallet),
		zap.Int("fee_entries", removed))
}

// GetSolPrice возвращает цену SOL в USD или FallbackSolPrice
func (s *Service) GetSolPrice(ctx context.Context) float64 {
	if s.prices == nil {
		return FallbackSolPrice
	}
	quote, err := s.prices.Quote(ctx)
	if err != nil {
		s.logger.Warn("Failed to get SOL price, using fallback", zap.Error(err))
		return FallbackSolPrice
	}
	return quote.Price
}

// fetchedTx - транзакция вместе с исходной подписью
type fetchedTx struct {
	sig solbc.SignatureInfo
	tx  *solbc.ParsedTransaction
}

// fetchTransactions загружает транзакции пачками по s.workers штук параллельно.
// Порядок результата совпадает с порядком подписей. Отсутствующие транзакции
// пропускаются, первая ошибка загрузки прерывает всю выборку.
func (s *Service) fetchTransactions(ctx context.Context, sigs []solbc.SignatureInfo) ([]fetchedTx, error) {
	result := make([]fetchedTx, 0, len(sigs))

	for start := 0; start < len(sigs); start += s.workers {
		end := start + s.workers
		if end > len(sigs) {
			end = len(sigs)
		}
		batch := sigs[start:end]
		txs := make([]*solbc.ParsedTransaction, len(batch))

		g, gCtx := errgroup.WithContext(ctx)
		for i, sig := range batch {
			i, sig := i, sig
			g.Go(func() error {
				tx, err := s.chain.GetParsedTransaction(gCtx, sig.Signature)
				if err != nil {
					return fmt.Errorf("failed to fetch transaction %s: %w", sig.Signature, err)
				}
				txs[i] = tx
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for i, tx := range txs {
			if tx == nil || tx.Meta == nil {
				continue
			}
			result = append(result, fetchedTx{sig: batch[i], tx: tx})
		}
	}

	return result, nil
}
