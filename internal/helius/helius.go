// internal/helius/helius.go
package helius

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/reclaim-hub/internal/upstream"
)

// Asset - сокращенный ответ DAS getAsset
type Asset struct {
	ID      string       `json:"id"`
	Content AssetContent `json:"content"`
}

type AssetContent struct {
	Metadata struct {
		Name        string `json:"name"`
		Symbol      string `json:"symbol"`
		Description string `json:"description"`
	} `json:"metadata"`
	Links struct {
		Image string `json:"image"`
	} `json:"links"`
	Files []struct {
		URI string `json:"uri"`
	} `json:"files"`
}

// Image возвращает links.image, либо URI первого файла
func (c AssetContent) Image() string {
	if c.Links.Image != "" {
		return c.Links.Image
	}
	if len(c.Files) > 0 {
		return c.Files[0].URI
	}
	return ""
}

// EnhancedTransaction - элемент ответа /v0/addresses/{address}/transactions
type EnhancedTransaction struct {
	Signature       string           `json:"signature"`
	Timestamp       int64            `json:"timestamp"`
	Type            string           `json:"type"`
	Description     string           `json:"description"`
	NativeTransfers []NativeTransfer `json:"nativeTransfers"`
	TokenTransfers  []TokenTransfer  `json:"tokenTransfers"`
}

type NativeTransfer struct {
	FromUserAccount string `json:"fromUserAccount"`
	ToUserAccount   string `json:"toUserAccount"`
	Amount          int64  `json:"amount"`
}

type TokenTransfer struct {
	FromUserAccount string  `json:"fromUserAccount"`
	ToUserAccount   string  `json:"toUserAccount"`
	Mint            string  `json:"mint"`
	TokenAmount     float64 `json:"tokenAmount"`
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// Client обращается к DAS RPC и Enhanced Transactions API Helius
type Client struct {
	http   *upstream.Client
	rpcURL string
	apiURL string
	apiKey string
	logger *zap.Logger
}

// NewClient создает клиента. rpcURL уже содержит api-key, apiURL - базовый адрес REST API.
func NewClient(http *upstream.Client, rpcURL, apiURL, apiKey string, logger *zap.Logger) *Client {
	return &Client{
		http:   http,
		rpcURL: rpcURL,
		apiURL: strings.TrimRight(apiURL, "/"),
		apiKey: apiKey,
		logger: logger.Named("helius"),
	}
}

// GetAsset получает метаданные ассета через DAS getAsset.
// Возвращает nil, nil, если ассет не найден.
func (c *Client) GetAsset(ctx context.Context, id string) (*Asset, error) {
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      "get-asset",
		Method:  "getAsset",
		Params:  map[string]string{"id": id},
	}

	var resp struct {
		Result *Asset    `json:"result"`
		Error  *rpcError `json:"error"`
	}
	if err := c.http.PostJSON(ctx, "getAsset", c.rpcURL, req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Result, nil
}

// AddressTransactions получает последние разобранные транзакции адреса
func (c *Client) AddressTransactions(ctx context.Context, address string, limit int) ([]EnhancedTransaction, error) {
	q := url.Values{}
	q.Set("api-key", c.apiKey)
	q.Set("limit", strconv.Itoa(limit))
	endpoint := fmt.Sprintf("%s/v0/addresses/%s/transactions?%s", c.apiURL, url.PathEscape(address), q.Encode())

	var txs []EnhancedTransaction
	if err := c.http.GetJSON(ctx, "addressTransactions", endpoint, &txs); err != nil {
		return nil, err
	}
	c.logger.Debug("Fetched enhanced transactions",
		zap.String("address", address),
		zap.Int("count", len(txs)))
	return txs, nil
}
