package entities

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ChainID identifies an EVM chain.
type ChainID uint64

const (
	ChainMainnet   ChainID = 1
	ChainBSC       ChainID = 56
	ChainMatic     ChainID = 137
	ChainArbitrum  ChainID = 42161
	ChainAvalanche ChainID = 43114
	ChainMumbai    ChainID = 80001
)

// ChainConfig carries the chain specific constants the SDK needs: the native currency,
// its wrapped token and the parameters of the pool deployer.
type ChainConfig struct {
	ChainID       ChainID
	Native        Currency
	WrappedNative Currency
	PoolDeployer  common.Address
	InitCodeHash  common.Hash
}

// Wrap normalizes a currency to a poolable token.
func (c ChainConfig) Wrap(currency Currency) (Currency, error) {
	if currency.ChainID() != c.ChainID {
		return Currency{}, fmt.Errorf("%w: currency on %d, config for %d", ErrChainMismatch, currency.ChainID(), c.ChainID)
	}
	if currency.IsToken() {
		return currency, nil
	}
	if !c.WrappedNative.IsToken() {
		return Currency{}, fmt.Errorf("%w: no wrapped native token for chain %d", ErrUnknownChain, c.ChainID)
	}
	return c.WrappedNative, nil
}

// WrapAmount normalizes the currency of an amount.
func (c ChainConfig) WrapAmount(amount CurrencyAmount) (CurrencyAmount, error) {
	wrapped, err := c.Wrap(amount.Currency())
	if err != nil {
		return CurrencyAmount{}, err
	}
	return NewCurrencyAmount(wrapped, amount.Raw())
}

// PoolAddress derives the deployment address of the pool for two tokens.
func (c ChainConfig) PoolAddress(tokenA, tokenB Currency) (common.Address, error) {
	return GetAddress(tokenA, tokenB, c.PoolDeployer, c.InitCodeHash)
}

// ChainRegistry maps chain ids to their configuration.
type ChainRegistry map[ChainID]ChainConfig

// Get returns the configuration for a chain.
func (r ChainRegistry) Get(id ChainID) (ChainConfig, error) {
	cfg, ok := r[id]
	if !ok {
		return ChainConfig{}, fmt.Errorf("%w: %d", ErrUnknownChain, id)
	}
	return cfg, nil
}

// DefaultChains returns the built-in chain table. Callers may copy and extend it.
func DefaultChains() ChainRegistry {
	entries := []struct {
		id       ChainID
		native   Currency
		wrapped  Currency
		deployer string
		initHash string
	}{
		{
			id:       ChainMainnet,
			native:   NewNative(ChainMainnet, 18, "ETH", "Ether"),
			wrapped:  MustToken(ChainMainnet, "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", 18, "WETH", "Wrapped Ether"),
			deployer: "0xC0AEe478e3658e2610c5F7A4A2E1777cE9e4f2Ac",
			initHash: "0xf187ed688403aa4f7acfada758d8d53698753b998a3071b06f1b777f4330eaf3",
		},
		{
			id:       ChainBSC,
			native:   NewNative(ChainBSC, 18, "BNB", "Binance Coin"),
			wrapped:  MustToken(ChainBSC, "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c", 18, "WBNB", "Wrapped BNB"),
			deployer: "0xd9820a17053d6314B20642E465a84Bf01a3D64f5",
			initHash: "0xd3ab2c392f54feb4b3b2a677f449b133c188ad2f1015eff3e94ea9315282c5f5",
		},
		{
			id:       ChainMatic,
			native:   NewNative(ChainMatic, 18, "MATIC", "Matic"),
			wrapped:  MustToken(ChainMatic, "0x4c28f48448720e9000907BC2611F73022fdcE1fA", 18, "WMATIC", "Wrapped Matic"),
			deployer: "0xc32CbdB864C40fB33D23Fad8050DfDBCcF6d528b",
			initHash: "0x6487e708d64180000ef0635d37ca6f03978d5c44b370aabb9ce1ab1ea50fd427",
		},
		{
			id:       ChainArbitrum,
			native:   NewNative(ChainArbitrum, 18, "ETH", "Ether"),
			wrapped:  MustToken(ChainArbitrum, "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", 18, "WETH", "Wrapped ETH"),
			deployer: "0xa102072a4c07f06ec3b4900fdc4c7b80b6c57429",
			initHash: "0xd49917af2b31d70ba7bea89230a93b55d3b6a99aacd03a72c288dfe524ec2f36",
		},
		{
			id:       ChainAvalanche,
			native:   NewNative(ChainAvalanche, 18, "AVAX", "Avalanche"),
			wrapped:  MustToken(ChainAvalanche, "0xB31f66AA3C1e785363F0875A1B74E27b85FD66c7", 18, "WAVAX", "Wrapped AVAX"),
			deployer: "0xd9820a17053d6314B20642E465a84Bf01a3D64f5",
			initHash: "0x512ce213a92fcce51fda9ba8738d5584ab111453ad8da5d2bd7d36bc97d14b5c",
		},
		{
			id:       ChainMumbai,
			native:   NewNative(ChainMumbai, 18, "MATIC", "Matic"),
			wrapped:  MustToken(ChainMumbai, "0x9c3C9283D3e44854697Cd22D3Faa240Cfb032889", 18, "WMATIC", "Wrapped Matic"),
			deployer: "0xc32CbdB864C40fB33D23Fad8050DfDBCcF6d528b",
			initHash: "0x6487e708d64180000ef0635d37ca6f03978d5c44b370aabb9ce1ab1ea50fd427",
		},
	}

	registry := make(ChainRegistry, len(entries))
	for _, entry := range entries {
		registry[entry.id] = ChainConfig{
			ChainID:       entry.id,
			Native:        entry.native,
			WrappedNative: entry.wrapped,
			PoolDeployer:  common.HexToAddress(entry.deployer),
			InitCodeHash:  common.HexToHash(entry.initHash),
		}
	}
	return registry
}
