// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ListenAddr           string   `mapstructure:"listen_addr"`
	HeliusAPIKey         string   `mapstructure:"helius_api_key"`
	RPCList              []string `mapstructure:"rpc_list"`
	HeliusAPIURL         string   `mapstructure:"helius_api_url"`
	PumpFunAPIURL        string   `mapstructure:"pumpfun_api_url"`
	PumpPortalAPIURL     string   `mapstructure:"pumpportal_api_url"`
	KrakenAPIURL         string   `mapstructure:"kraken_api_url"`
	CoinGeckoAPIURL      string   `mapstructure:"coingecko_api_url"`
	BurnWallet           string   `mapstructure:"burn_wallet"`
	CacheTTLSeconds      int      `mapstructure:"cache_ttl_seconds"`
	PriceCacheTTLSeconds int      `mapstructure:"price_cache_ttl_seconds"`
	CacheSize            int      `mapstructure:"cache_size"`
	HTTPTimeoutMs        int      `mapstructure:"http_timeout_ms"`
	Retries              int      `mapstructure:"retries"`
	Workers              int      `mapstructure:"workers"`
	DebugLogging         bool     `mapstructure:"debug_logging"`
	LogFile              string   `mapstructure:"log_file"`
	CORSOrigins          []string `mapstructure:"cors_origins"`
}

const (
	DefaultListenAddr           = ":3000"
	DefaultHeliusAPIURL         = "https://api.helius.xyz"
	DefaultHeliusRPCURL         = "https://mainnet.helius-rpc.com"
	DefaultPumpFunAPIURL        = "https://pump.fun"
	DefaultPumpPortalAPIURL     = "https://pumpportal.fun"
	DefaultKrakenAPIURL         = "https://api.kraken.com"
	DefaultCoinGeckoAPIURL      = "https://api.coingecko.com"
	DefaultBurnWallet           = "burn68h9dS2tvZwtCFMt79SyaEgvqtcZZWJphizQxgt"
	DefaultCacheTTLSeconds      = 300
	DefaultPriceCacheTTLSeconds = 900
	DefaultCacheSize            = 4096
	DefaultHTTPTimeoutMs        = 10000
	DefaultRetries              = 3
	DefaultWorkers              = 10
	DefaultLogFile              = "reclaim-hub.log"
)

// CacheTTL возвращает время жизни записей кэша агрегатора
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// PriceCacheTTL возвращает время жизни котировки SOL
func (c *Config) PriceCacheTTL() time.Duration {
	return time.Duration(c.PriceCacheTTLSeconds) * time.Second
}

// HTTPTimeout возвращает таймаут исходящих HTTP-запросов
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMs) * time.Millisecond
}

// PrimaryRPC возвращает первый RPC-узел из списка
func (c *Config) PrimaryRPC() string {
	if len(c.RPCList) == 0 {
		return ""
	}
	return c.RPCList[0]
}

// LoadConfig читает конфигурацию из файла (если путь задан), .env и переменных окружения.
func LoadConfig(path string) (*Config, error) {
	// .env необязателен - ошибки отсутствия файла игнорируем
	_ = godotenv.Load()

	v := viper.New()

	defaults := map[string]interface{}{
		"listen_addr":             DefaultListenAddr,
		"helius_api_url":          DefaultHeliusAPIURL,
		"pumpfun_api_url":         DefaultPumpFunAPIURL,
		"pumpportal_api_url":      DefaultPumpPortalAPIURL,
		"kraken_api_url":          DefaultKrakenAPIURL,
		"coingecko_api_url":       DefaultCoinGeckoAPIURL,
		"burn_wallet":             DefaultBurnWallet,
		"cache_ttl_seconds":       DefaultCacheTTLSeconds,
		"price_cache_ttl_seconds": DefaultPriceCacheTTLSeconds,
		"cache_size":              DefaultCacheSize,
		"http_timeout_ms":         DefaultHTTPTimeoutMs,
		"retries":                 DefaultRetries,
		"workers":                 DefaultWorkers,
		"log_file":                DefaultLogFile,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := loadEnvironmentVariables(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	applyEnvLists(&cfg)
	applyDerivedDefaults(&cfg)

	return &cfg, validateConfig(&cfg)
}

// applyDerivedDefaults подставляет RPC Helius, если список узлов пуст
func applyDerivedDefaults(cfg *Config) {
	if len(cfg.RPCList) == 0 && cfg.HeliusAPIKey != "" {
		cfg.RPCList = []string{fmt.Sprintf("%s/?api-key=%s", DefaultHeliusRPCURL, cfg.HeliusAPIKey)}
	}
}

func validateConfig(cfg *Config) error {
	if len(cfg.RPCList) == 0 {
		return errors.New("rpc_list is empty and helius_api_key is not set")
	}
	for _, rpcURL := range cfg.RPCList {
		if err := validateURLWithCache(rpcURL, "http"); err != nil {
			return errors.New("invalid RPC URL protocol")
		}
	}
	upstreams := map[string]string{
		"helius_api_url":     cfg.HeliusAPIURL,
		"pumpfun_api_url":    cfg.PumpFunAPIURL,
		"pumpportal_api_url": cfg.PumpPortalAPIURL,
		"kraken_api_url":     cfg.KrakenAPIURL,
		"coingecko_api_url":  cfg.CoinGeckoAPIURL,
	}
	for key, raw := range upstreams {
		if err := validateURLWithCache(raw, "http"); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}
	if cfg.BurnWallet == "" {
		return errors.New("missing burn_wallet")
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.CacheTTLSeconds <= 0 {
		return errors.New("invalid cache_ttl_seconds")
	}
	if cfg.PriceCacheTTLSeconds <= 0 {
		return errors.New("invalid price_cache_ttl_seconds")
	}
	if cfg.CacheSize <= 0 {
		return errors.New("invalid cache_size")
	}
	if cfg.HTTPTimeoutMs <= 0 {
		return errors.New("invalid http_timeout_ms")
	}
	if cfg.Workers <= 0 {
		return errors.New("invalid workers count")
	}
	if cfg.Retries < 0 {
		return errors.New("invalid retries count")
	}
	return nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) || parsed.Host == "" {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}

const envPrefix = "RECLAIM_HUB"

// envKeys - ключи без значений по умолчанию, которые viper иначе не увидит в окружении
var envKeys = []string{"helius_api_key", "debug_logging"}

func loadEnvironmentVariables(v *viper.Viper) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind env %s: %w", key, err)
		}
	}
	return nil
}

// applyEnvLists разбирает списки из переменных окружения, перечисленные через запятую
func applyEnvLists(cfg *Config) {
	if list := splitList(os.Getenv(envPrefix + "_RPC_LIST")); len(list) > 0 {
		cfg.RPCList = list
	}
	if list := splitList(os.Getenv(envPrefix + "_CORS_ORIGINS")); len(list) > 0 {
		cfg.CORSOrigins = list
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		clean := strings.TrimSpace(item)
		if clean != "" {
			out = append(out, clean)
		}
	}
	return out
}
