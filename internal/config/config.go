package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "ROUTER"

// load merges config file, environment variables, and flags on top of defaults.
func load(cfgFile string, flags *pflag.FlagSet, defaults map[string]interface{}) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}

// QuoteConfig holds configuration for the quote command.
type QuoteConfig struct {
	ChainID     uint64
	Snapshots   string
	PGDSN       string
	TradeType   string
	CurrencyIn  string
	CurrencyOut string
	Amount      string
	MaxHops     int
	MaxResults  int
	Slippage    string
	Pools       []string
	Out         string
	Timeout     time.Duration
	LogLevel    string
	Chains      []ChainOverride
}

// LoadQuote merges config file, environment variables, and flags into QuoteConfig.
func LoadQuote(cfgFile string, flags *pflag.FlagSet) (QuoteConfig, error) {
	v, err := load(cfgFile, flags, map[string]interface{}{
		"chain-id":    uint64(1),
		"snapshots":   "./data/pools.jsonl",
		"trade-type":  "exact_input",
		"max-hops":    3,
		"max-results": 3,
		"slippage":    "0.5",
		"timeout":     10 * time.Second,
		"log-level":   "info",
	})
	if err != nil {
		return QuoteConfig{}, err
	}

	chains, err := loadChainOverrides(v)
	if err != nil {
		return QuoteConfig{}, err
	}

	cfg := QuoteConfig{
		ChainID:     v.GetUint64("chain-id"),
		Snapshots:   v.GetString("snapshots"),
		PGDSN:       v.GetString("pg-dsn"),
		TradeType:   v.GetString("trade-type"),
		CurrencyIn:  v.GetString("currency-in"),
		CurrencyOut: v.GetString("currency-out"),
		Amount:      v.GetString("amount"),
		MaxHops:     v.GetInt("max-hops"),
		MaxResults:  v.GetInt("max-results"),
		Slippage:    v.GetString("slippage"),
		Pools:       getStringSlice(v, "pool"),
		Out:         v.GetString("out"),
		Timeout:     v.GetDuration("timeout"),
		LogLevel:    v.GetString("log-level"),
		Chains:      chains,
	}

	return cfg, nil
}

// AddressConfig holds configuration for the address command.
type AddressConfig struct {
	ChainID  uint64
	TokenA   string
	TokenB   string
	LogLevel string
	Chains   []ChainOverride
}

// LoadAddress merges config file, environment variables, and flags into AddressConfig.
func LoadAddress(cfgFile string, flags *pflag.FlagSet) (AddressConfig, error) {
	v, err := load(cfgFile, flags, map[string]interface{}{
		"chain-id":  uint64(1),
		"log-level": "info",
	})
	if err != nil {
		return AddressConfig{}, err
	}

	chains, err := loadChainOverrides(v)
	if err != nil {
		return AddressConfig{}, err
	}

	cfg := AddressConfig{
		ChainID:  v.GetUint64("chain-id"),
		TokenA:   v.GetString("token-a"),
		TokenB:   v.GetString("token-b"),
		LogLevel: v.GetString("log-level"),
		Chains:   chains,
	}

	return cfg, nil
}

// ImportConfig holds configuration for the import command.
type ImportConfig struct {
	ChainID      uint64
	In           string
	Calls        string
	Events       string
	PGDSN        string
	Out          string
	BatchSize    int
	MaxRetries   int
	RetryBackoff time.Duration
	LogLevel     string
	Chains       []ChainOverride
}

// LoadImport merges config file, environment variables, and flags into ImportConfig.
func LoadImport(cfgFile string, flags *pflag.FlagSet) (ImportConfig, error) {
	v, err := load(cfgFile, flags, map[string]interface{}{
		"chain-id":      uint64(1),
		"batch-size":    500,
		"max-retries":   3,
		"retry-backoff": 500 * time.Millisecond,
		"log-level":     "info",
	})
	if err != nil {
		return ImportConfig{}, err
	}

	chains, err := loadChainOverrides(v)
	if err != nil {
		return ImportConfig{}, err
	}

	cfg := ImportConfig{
		ChainID:      v.GetUint64("chain-id"),
		In:           v.GetString("in"),
		Calls:        v.GetString("calls"),
		Events:       v.GetString("events"),
		PGDSN:        v.GetString("pg-dsn"),
		Out:          v.GetString("out"),
		BatchSize:    v.GetInt("batch-size"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		LogLevel:     v.GetString("log-level"),
		Chains:       chains,
	}

	return cfg, nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
