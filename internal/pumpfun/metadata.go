// =============================
// File: internal/pumpfun/metadata.go
// =============================
package pumpfun

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"
)

const (
	unknownName   = "Unknown"
	unknownSymbol = "???"
)

// tokenResponse - ответ pump.fun GET /api/token/{mint}
type tokenResponse struct {
	Name        string  `json:"name"`
	Symbol      string  `json:"symbol"`
	Image       string  `json:"image"`
	ImageURI    string  `json:"imageUri"`
	Description string  `json:"description"`
	Twitter     string  `json:"twitter"`
	Telegram    string  `json:"telegram"`
	Website     string  `json:"website"`
	CreatedAt   float64 `json:"createdAt"`
}

func (r *tokenResponse) toMetadata(mint string) *TokenMetadata {
	return &TokenMetadata{
		Mint:        mint,
		Name:        orDefault(r.Name, unknownName),
		Symbol:      orDefault(r.Symbol, unknownSymbol),
		Image:       orDefault(r.Image, r.ImageURI),
		Description: r.Description,
		Twitter:     r.Twitter,
		Telegram:    r.Telegram,
		Website:     r.Website,
		CreatedAt:   int64(r.CreatedAt),
	}
}

// FetchTokenMetadata возвращает метаданные токена из pump.fun.
// При любой ошибке pump.fun (включая 404 и 5xx) используется Helius getAsset;
// nil, если недоступны оба источника.
func (s *Service) FetchTokenMetadata(ctx context.Context, mint string) *TokenMetadata {
	key := metadataKey(mint)
	if cached, ok := s.metadata.Get(key); ok {
		return cached
	}

	md, err := s.fetchPumpMetadata(ctx, mint)
	if err != nil {
		s.logger.Debug("pump.fun metadata unavailable, trying on-chain metadata",
			zap.String("mint", mint),
			zap.Error(err))
		md = s.fetchOnChainMetadata(ctx, mint)
	}
	if md == nil {
		return nil
	}

	s.metadata.Set(key, md)
	return md
}

func (s *Service) fetchPumpMetadata(ctx context.Context, mint string) (*TokenMetadata, error) {
	endpoint := fmt.Sprintf("%s/api/token/%s", s.apiURL, url.PathEscape(mint))

	var resp tokenResponse
	if err := s.api.GetJSON(ctx, "token", endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.toMetadata(mint), nil
}

func (s *Service) fetchOnChainMetadata(ctx context.Context, mint string) *TokenMetadata {
	if s.assets == nil {
		return nil
	}
	asset, err := s.assets.GetAsset(ctx, mint)
	if err != nil {
		s.logger.Warn("Failed to fetch on-chain metadata",
			zap.String("mint", mint),
			zap.Error(err))
		return nil
	}
	if asset == nil {
		return nil
	}

	return &TokenMetadata{
		Mint:        mint,
		Name:        orDefault(asset.Content.Metadata.Name, unknownName),
		Symbol:      orDefault(asset.Content.Metadata.Symbol, unknownSymbol),
		Image:       asset.Content.Image(),
		Description: asset.Content.Metadata.Description,
	}
}

// unknownToken - заглушка для токена без метаданных
func unknownToken(mint string) TokenMetadata {
	return TokenMetadata{Mint: mint, Name: unknownName, Symbol: unknownSymbol}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
