// internal/blockchain/solbc/client.go
package solbc

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/reclaim-hub/internal/utils/metrics"
)

const (
	providerName = "solana-rpc"

	// TokenAccountSize - размер данных аккаунта SPL Token
	TokenAccountSize = 165
)

// Определение ошибок
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrNoEndpoints     = errors.New("no RPC endpoints configured")
)

// IsAccountNotFoundError проверяет, является ли ошибка "not found"
func IsAccountNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAccountNotFound) || errors.Is(err, rpc.ErrNotFound) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

// Options задает поведение повторов
type Options struct {
	Retries         int
	InitialInterval time.Duration
	Metrics         *metrics.Collector
}

// Client – тонкий адаптер для чтения данных Solana через solana-go.
// При ошибке запрос повторяется на следующем узле из списка.
type Client struct {
	nodes    []*rpc.Client
	urls     []string
	next     atomic.Uint32
	retries  int
	interval time.Duration
	metrics  *metrics.Collector
	logger   *zap.Logger
}

// NewClient создаёт клиент для списка RPC URL, принимая логгер через dependency injection.
func NewClient(rpcURLs []string, opts Options, logger *zap.Logger) (*Client, error) {
	if len(rpcURLs) == 0 {
		return nil, ErrNoEndpoints
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = 250 * time.Millisecond
	}
	c := &Client{
		retries:  opts.Retries,
		interval: opts.InitialInterval,
		metrics:  opts.Metrics,
		logger:   logger.Named("solbc-client"),
	}
	for _, u := range rpcURLs {
		c.nodes = append(c.nodes, rpc.New(u))
		c.urls = append(c.urls, u)
	}
	return c, nil
}

// pick возвращает следующий узел по кругу
func (c *Client) pick() *rpc.Client {
	idx := int(c.next.Add(1)-1) % len(c.nodes)
	return c.nodes[idx]
}

// call выполняет операцию с экспоненциальными повторами и учетом метрик
func call[T any](ctx context.Context, c *Client, method string, op func(*rpc.Client) (T, error)) (T, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.interval
	policy.MaxInterval = c.interval * 10

	notify := func(err error, d time.Duration) {
		c.logger.Debug("Retrying RPC call",
			zap.String("method", method),
			zap.Duration("backoff", d),
			zap.Error(err))
	}

	start := time.Now()
	result, err := backoff.Retry(ctx, func() (T, error) {
		res, err := op(c.pick())
		if err != nil && isPermanent(err) {
			return res, backoff.Permanent(err)
		}
		return res, err
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(c.retries+1)),
		backoff.WithNotify(notify),
	)
	c.metrics.RecordUpstream(providerName, method, time.Since(start), err)
	return result, err
}

// isPermanent - ошибки, которые бессмысленно повторять
func isPermanent(err error) bool {
	if IsAccountNotFoundError(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "invalid param") ||
		strings.Contains(msg, "invalid request") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "forbidden")
}

// GetSignaturesForAddress возвращает последние подписи транзакций адреса (новые первыми).
func (c *Client) GetSignaturesForAddress(ctx context.Context, address solana.PublicKey, limit int) ([]SignatureInfo, error) {
	out, err := call(ctx, c, "getSignaturesForAddress", func(node *rpc.Client) ([]*rpc.TransactionSignature, error) {
		return node.GetSignaturesForAddressWithOpts(ctx, address, &rpc.GetSignaturesForAddressOpts{
			Limit:      &limit,
			Commitment: rpc.CommitmentConfirmed,
		})
	})
	if err != nil {
		c.logger.Debug("GetSignaturesForAddress error",
			zap.String("address", address.String()),
			zap.Error(err))
		return nil, err
	}

	sigs := make([]SignatureInfo, 0, len(out))
	for _, s := range out {
		if s == nil {
			continue
		}
		info := SignatureInfo{
			Signature: s.Signature.String(),
			Slot:      s.Slot,
			Failed:    s.Err != nil,
		}
		if s.BlockTime != nil {
			info.BlockTime = int64(*s.BlockTime)
		}
		sigs = append(sigs, info)
	}
	return sigs, nil
}

// GetParsedTransaction получает транзакцию в jsonParsed-представлении.
// Возвращает nil, nil, если узел не знает такой транзакции.
func (c *Client) GetParsedTransaction(ctx context.Context, signature string) (*ParsedTransaction, error) {
	params := []interface{}{
		signature,
		map[string]interface{}{
			"encoding":                       "jsonParsed",
			"commitment":                     string(rpc.CommitmentConfirmed),
			"maxSupportedTransactionVersion": 0,
		},
	}
	tx, err := call(ctx, c, "getTransaction", func(node *rpc.Client) (*ParsedTransaction, error) {
		var out *ParsedTransaction
		if err := node.RPCCallForInto(ctx, &out, "getTransaction", params); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		c.logger.Debug("GetParsedTransaction error",
			zap.String("signature", signature),
			zap.Error(err))
		return nil, err
	}
	return tx, nil
}

// GetAccountInfo получает баланс и владельца аккаунта.
func (c *Client) GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*AccountInfo, error) {
	res, err := call(ctx, c, "getAccountInfo", func(node *rpc.Client) (*rpc.GetAccountInfoResult, error) {
		return node.GetAccountInfoWithOpts(ctx, pubkey, &rpc.GetAccountInfoOpts{
			Commitment: rpc.CommitmentConfirmed,
			Encoding:   solana.EncodingBase64,
		})
	})
	if err != nil {
		if IsAccountNotFoundError(err) {
			return nil, ErrAccountNotFound
		}
		c.logger.Debug("GetAccountInfo error",
			zap.String("pubkey", pubkey.String()),
			zap.Error(err))
		return nil, err
	}
	if res == nil || res.Value == nil {
		return nil, ErrAccountNotFound
	}
	return &AccountInfo{
		Lamports:   res.Value.Lamports,
		Owner:      res.Value.Owner.String(),
		Executable: res.Value.Executable,
	}, nil
}

// GetTokenSupply получает эмиссию токена
func (c *Client) GetTokenSupply(ctx context.Context, mint solana.PublicKey) (*TokenSupply, error) {
	res, err := call(ctx, c, "getTokenSupply", func(node *rpc.Client) (*rpc.GetTokenSupplyResult, error) {
		return node.GetTokenSupply(ctx, mint, rpc.CommitmentConfirmed)
	})
	if err != nil {
		c.logger.Debug("GetTokenSupply error",
			zap.String("mint", mint.String()),
			zap.Error(err))
		return nil, err
	}
	if res == nil || res.Value == nil {
		return nil, fmt.Errorf("empty token supply for %s", mint)
	}
	amount, err := strconv.ParseUint(res.Value.Amount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token supply: %w", err)
	}
	return &TokenSupply{Amount: amount, Decimals: res.Value.Decimals}, nil
}

// CountTokenHolders считает токен-аккаунты SPL Token для минта.
// Данные аккаунтов не запрашиваются (DataSlice нулевой длины).
func (c *Client) CountTokenHolders(ctx context.Context, mint solana.PublicKey) (int, error) {
	offset := uint64(0)
	length := uint64(0)
	opts := &rpc.GetProgramAccountsOpts{
		Commitment: rpc.CommitmentConfirmed,
		Encoding:   solana.EncodingBase64,
		DataSlice: &rpc.DataSlice{
			Offset: &offset,
			Length: &length,
		},
		Filters: []rpc.RPCFilter{
			{DataSize: TokenAccountSize},
			{Memcmp: &rpc.RPCFilterMemcmp{Offset: 0, Bytes: mint.Bytes()}},
		},
	}

	accounts, err := call(ctx, c, "getProgramAccounts", func(node *rpc.Client) (rpc.GetProgramAccountsResult, error) {
		return node.GetProgramAccountsWithOpts(ctx, solana.TokenProgramID, opts)
	})
	if err != nil {
		c.logger.Debug("CountTokenHolders error",
			zap.String("mint", mint.String()),
			zap.Error(err))
		return 0, err
	}
	return len(accounts), nil
}

// Close закрывает соединения со всеми узлами
func (c *Client) Close() error {
	var errs []error
	for _, node := range c.nodes {
		if err := node.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
