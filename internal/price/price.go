// =============================
// File: internal/price/price.go
// =============================
package price

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/reclaim-hub/internal/cache"
	"github.com/rovshanmuradov/reclaim-hub/internal/upstream"
	"github.com/rovshanmuradov/reclaim-hub/internal/utils/metrics"
)

// FallbackPrice отдается HTTP-слоем, когда котировки нет совсем
const FallbackPrice = 200.0

const quoteKey = "sol-price"

// ErrNoQuote - ни один источник не ответил, и сохраненной котировки нет
var ErrNoQuote = errors.New("SOL price is unavailable")

// Quote - цена SOL в USD и изменение за 24 часа в процентах
type Quote struct {
	Price     float64 `json:"price"`
	Change24h float64 `json:"change24h"`
}

// Options задает адреса источников и время жизни котировки
type Options struct {
	KrakenURL    string
	CoinGeckoURL string
	TTL          time.Duration
	Metrics      *metrics.Collector
}

// Service получает котировку SOL: сначала Kraken, затем CoinGecko
type Service struct {
	kraken       *upstream.Client
	coingecko    *upstream.Client
	krakenURL    string
	coingeckoURL string
	fresh        *cache.TTLCache[string, Quote]
	logger       *zap.Logger

	mu       sync.RWMutex
	lastGood *Quote
}

// NewService создает сервис котировок
func NewService(kraken, coingecko *upstream.Client, opts Options, logger *zap.Logger) *Service {
	if opts.TTL <= 0 {
		opts.TTL = 15 * time.Minute
	}
	return &Service{
		kraken:       kraken,
		coingecko:    coingecko,
		krakenURL:    strings.TrimRight(opts.KrakenURL, "/"),
		coingeckoURL: strings.TrimRight(opts.CoinGeckoURL, "/"),
		fresh:        cache.NewTTL(1, opts.TTL, cache.WithMetrics[string, Quote]("sol_price", opts.Metrics)),
		logger:       logger.Named("price"),
	}
}

// Quote возвращает котировку из кэша либо запрашивает ее у источников.
// Если оба источника недоступны, возвращается последняя полученная котировка.
func (s *Service) Quote(ctx context.Context) (Quote, error) {
	if q, ok := s.fresh.Get(quoteKey); ok {
		return q, nil
	}

	q, err := s.fromKraken(ctx)
	if err != nil {
		s.logger.Info("Kraken API failed, trying CoinGecko", zap.Error(err))
		q, err = s.fromCoinGecko(ctx)
	}
	if err != nil {
		s.logger.Warn("Failed to fetch SOL price", zap.Error(err))
		if last, ok := s.last(); ok {
			return last, nil
		}
		return Quote{}, fmt.Errorf("%w: %v", ErrNoQuote, err)
	}

	s.store(q)
	return q, nil
}

func (s *Service) store(q Quote) {
	s.fresh.Set(quoteKey, q)

	s.mu.Lock()
	s.lastGood = &q
	s.mu.Unlock()
}

func (s *Service) last() (Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastGood == nil {
		return Quote{}, false
	}
	return *s.lastGood, true
}

type krakenTicker struct {
	Error  []string `json:"error"`
	Result map[string]struct {
		C []string `json:"c"` // последняя сделка: [цена, объем]
		O string   `json:"o"` // цена открытия
	} `json:"result"`
}

func (s *Service) fromKraken(ctx context.Context) (Quote, error) {
	var ticker krakenTicker
	if err := s.kraken.GetJSON(ctx, "ticker", s.krakenURL+"/0/public/Ticker?pair=SOLUSD", &ticker); err != nil {
		return Quote{}, err
	}

	pair, ok := ticker.Result["SOLUSD"]
	if !ok || len(pair.C) == 0 {
		return Quote{}, fmt.Errorf("kraken: SOLUSD pair missing (errors: %v)", ticker.Error)
	}

	last, err := strconv.ParseFloat(pair.C[0], 64)
	if err != nil {
		return Quote{}, fmt.Errorf("kraken: invalid last price: %w", err)
	}
	open, err := strconv.ParseFloat(pair.O, 64)
	if err != nil || open == 0 {
		return Quote{}, fmt.Errorf("kraken: invalid open price %q", pair.O)
	}

	return Quote{Price: last, Change24h: (last - open) / open * 100}, nil
}

type coinGeckoPrice struct {
	Solana struct {
		USD          float64 `json:"usd"`
		USD24hChange float64 `json:"usd_24h_change"`
	} `json:"solana"`
}

func (s *Service) fromCoinGecko(ctx context.Context) (Quote, error) {
	endpoint := s.coingeckoURL + "/api/v3/simple/price?ids=solana&vs_currencies=usd&include_24hr_change=true"

	var resp coinGeckoPrice
	if err := s.coingecko.GetJSON(ctx, "simplePrice", endpoint, &resp); err != nil {
		return Quote{}, err
	}
	return Quote{Price: resp.Solana.USD, Change24h: resp.Solana.USD24hChange}, nil
}
