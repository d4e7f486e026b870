// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validConfigJSON = `{
    "listen_addr": ":8080",
    "helius_api_key": "test-key",
    "rpc_list": [
        "https://api.mainnet-beta.solana.com",
        "https://solana-rpc.example.com"
    ],
    "cache_ttl_seconds": 120,
    "workers": 4,
    "debug_logging": true
}`

var keyOnlyConfigJSON = `{
    "helius_api_key": "abc-123"
}`

var invalidConfigJSON = `{
    "rpc_list": ["ws://api.mainnet-beta.solana.com"],
    "cache_ttl_seconds": -1
}`

var invalidNumericJSON = `{
    "rpc_list": ["https://api.mainnet-beta.solana.com"],
    "workers": 0
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:    "Valid config",
			content: validConfigJSON,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ":8080", cfg.ListenAddr)
				assert.Len(t, cfg.RPCList, 2)
				assert.Equal(t, 2*time.Minute, cfg.CacheTTL())
				assert.Equal(t, 4, cfg.Workers)
				assert.True(t, cfg.DebugLogging)
				// Значения по умолчанию
				assert.Equal(t, DefaultPumpFunAPIURL, cfg.PumpFunAPIURL)
				assert.Equal(t, DefaultBurnWallet, cfg.BurnWallet)
				assert.Equal(t, 15*time.Minute, cfg.PriceCacheTTL())
			},
		},
		{
			name:    "Helius key derives RPC",
			content: keyOnlyConfigJSON,
			check: func(t *testing.T, cfg *Config) {
				require.Len(t, cfg.RPCList, 1)
				assert.Equal(t, "https://mainnet.helius-rpc.com/?api-key=abc-123", cfg.PrimaryRPC())
			},
		},
		{
			name:    "Invalid RPC protocol",
			content: invalidConfigJSON,
			wantErr: true,
		},
		{
			name:    "Invalid workers",
			content: invalidNumericJSON,
			wantErr: true,
		},
		{
			name:    "Malformed JSON",
			content: `{"rpc_list": [`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tt.content))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("RECLAIM_HUB_RPC_LIST", "https://rpc-a.example.com, https://rpc-b.example.com,")
	t.Setenv("RECLAIM_HUB_WORKERS", "7")
	t.Setenv("RECLAIM_HUB_CORS_ORIGINS", "https://app.example.com")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://rpc-a.example.com", "https://rpc-b.example.com"}, cfg.RPCList)
	assert.Equal(t, 7, cfg.Workers)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORSOrigins)
}

func TestLoadConfigWithoutRPC(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `{"listen_addr": ":1"}`))
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList(" a ,, b "))
}
