package config

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/viper"

	"routeScope/internal/entities"
)

// CurrencyOverride describes a native currency or wrapped token in the config file.
type CurrencyOverride struct {
	Address  string `mapstructure:"address"`
	Decimals uint8  `mapstructure:"decimals"`
	Symbol   string `mapstructure:"symbol"`
	Name     string `mapstructure:"name"`
}

// ChainOverride replaces or adds chain constants. Empty fields keep the built-in value.
type ChainOverride struct {
	ChainID       uint64            `mapstructure:"chain_id"`
	Native        *CurrencyOverride `mapstructure:"native"`
	WrappedNative *CurrencyOverride `mapstructure:"wrapped_native"`
	PoolDeployer  string            `mapstructure:"pool_deployer"`
	InitCodeHash  string            `mapstructure:"init_code_hash"`
}

func loadChainOverrides(v *viper.Viper) ([]ChainOverride, error) {
	if !v.IsSet("chains") {
		return nil, nil
	}
	var overrides []ChainOverride
	if err := v.UnmarshalKey("chains", &overrides); err != nil {
		return nil, fmt.Errorf("decode chains: %w", err)
	}
	return overrides, nil
}

// Registry applies overrides on top of the built-in chain table.
func Registry(overrides []ChainOverride) (entities.ChainRegistry, error) {
	registry := entities.DefaultChains()
	for _, override := range overrides {
		if override.ChainID == 0 {
			return nil, fmt.Errorf("%w: chain override without chain_id", entities.ErrUnknownChain)
		}
		id := entities.ChainID(override.ChainID)
		cfg, known := registry[id]
		cfg.ChainID = id

		if override.Native != nil {
			cfg.Native = entities.NewNative(id, override.Native.Decimals, override.Native.Symbol, override.Native.Name)
		}
		if override.WrappedNative != nil {
			wrapped, err := entities.NewToken(id, override.WrappedNative.Address, override.WrappedNative.Decimals,
				override.WrappedNative.Symbol, override.WrappedNative.Name)
			if err != nil {
				return nil, fmt.Errorf("chain %d wrapped native: %w", id, err)
			}
			cfg.WrappedNative = wrapped
		}
		if override.PoolDeployer != "" {
			if !common.IsHexAddress(override.PoolDeployer) {
				return nil, fmt.Errorf("%w: chain %d pool deployer %q", entities.ErrInvalidAddress, id, override.PoolDeployer)
			}
			cfg.PoolDeployer = common.HexToAddress(override.PoolDeployer)
		}
		if override.InitCodeHash != "" {
			hash, err := parseHash(override.InitCodeHash)
			if err != nil {
				return nil, fmt.Errorf("chain %d init code hash: %w", id, err)
			}
			cfg.InitCodeHash = hash
		}

		if !known && (override.Native == nil || override.WrappedNative == nil ||
			override.PoolDeployer == "" || override.InitCodeHash == "") {
			return nil, fmt.Errorf("%w: chain %d needs native, wrapped_native, pool_deployer and init_code_hash", entities.ErrUnknownChain, id)
		}
		registry[id] = cfg
	}
	return registry, nil
}

func parseHash(value string) (common.Hash, error) {
	b, err := hexutil.Decode(value)
	if err != nil {
		return common.Hash{}, err
	}
	if len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("want %d bytes, got %d", common.HashLength, len(b))
	}
	return common.BytesToHash(b), nil
}
