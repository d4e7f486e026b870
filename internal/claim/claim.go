// =============================
// File: internal/claim/claim.go
// =============================
package claim

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/reclaim-hub/internal/upstream"
)

// DefaultPriorityFee - приоритетная комиссия (SOL), если клиент ее не указал
const DefaultPriorityFee = 0.0001

// tradeRequest - тело запроса PumpPortal /api/trade
type tradeRequest struct {
	Action      string  `json:"action"`
	PublicKey   string  `json:"publicKey"`
	PriorityFee float64 `json:"priorityFee"`
	Pool        string  `json:"pool"`
}

// Builder запрашивает у PumpPortal неподписанную транзакцию вывода комиссий создателя
type Builder struct {
	http    *upstream.Client
	baseURL string
	logger  *zap.Logger
}

// NewBuilder создает построитель транзакций вывода
func NewBuilder(http *upstream.Client, baseURL string, logger *zap.Logger) *Builder {
	return &Builder{
		http:    http,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.Named("claim"),
	}
}

// Build возвращает транзакцию для подписи кошельком. priorityFee передается как есть,
// значение по умолчанию подставляет вызывающая сторона.
// Неуспешный ответ PumpPortal возвращается как *upstream.StatusError с кодом и телом ответа.
func (b *Builder) Build(ctx context.Context, wallet string, priorityFee float64) (json.RawMessage, error) {
	req := tradeRequest{
		Action:      "collectCreatorFee",
		PublicKey:   wallet,
		PriorityFee: priorityFee,
		Pool:        "pump",
	}

	body, err := b.http.PostRaw(ctx, "collectCreatorFee", b.baseURL+"/api/trade", req)
	if err != nil {
		b.logger.Error("PumpPortal API error",
			zap.String("wallet", wallet),
			zap.Int("status", upstream.StatusCode(err)),
			zap.Error(err))
		return nil, err
	}

	var resp struct {
		Transaction json.RawMessage `json:"transaction"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode claim response: %w", err)
	}

	if len(resp.Transaction) == 0 || string(resp.Transaction) == "null" {
		return json.RawMessage(body), nil
	}
	return resp.Transaction, nil
}
