package app

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/reclaim-hub/internal/config"
	"github.com/rovshanmuradov/reclaim-hub/internal/utils/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		ListenAddr:           ":0",
		RPCList:              []string{"http://127.0.0.1:1"},
		HeliusAPIURL:         "http://127.0.0.1:1",
		PumpFunAPIURL:        "http://127.0.0.1:1",
		PumpPortalAPIURL:     "http://127.0.0.1:1",
		KrakenAPIURL:         "http://127.0.0.1:1",
		CoinGeckoAPIURL:      "http://127.0.0.1:1",
		BurnWallet:           config.DefaultBurnWallet,
		CacheTTLSeconds:      60,
		PriceCacheTTLSeconds: 60,
		CacheSize:            16,
		HTTPTimeoutMs:        100,
		Workers:              2,
	}
}

func TestNewRunnerWiresServer(t *testing.T) {
	r, err := NewRunner(testConfig(), &logger.Logger{Logger: zap.NewNop()})
	require.NoError(t, err)
	require.NotNil(t, r.server)

	resp, err := r.server.App().Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestNewRunnerWithoutRPC(t *testing.T) {
	cfg := testConfig()
	cfg.RPCList = nil

	_, err := NewRunner(cfg, &logger.Logger{Logger: zap.NewNop()})
	assert.Error(t, err)
}
