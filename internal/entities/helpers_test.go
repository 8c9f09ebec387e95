package entities

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"routeScope/internal/tickmath"
)

var (
	mainnet = DefaultChains()[ChainMainnet]

	ether = mainnet.Native
	weth  = mainnet.WrappedNative
	dai   = MustToken(ChainMainnet, "0x6B175474E89094C44Da98b954EedeAC495271d0F", 18, "DAI", "Dai Stablecoin")
	usdc  = MustToken(ChainMainnet, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", 6, "USDC", "USD Coin")

	token0 = MustToken(ChainMainnet, "0x0000000000000000000000000000000000000001", 18, "t0", "token0")
	token1 = MustToken(ChainMainnet, "0x0000000000000000000000000000000000000002", 18, "t1", "token1")
	token2 = MustToken(ChainMainnet, "0x0000000000000000000000000000000000000003", 18, "t2", "token2")
	token3 = MustToken(ChainMainnet, "0x0000000000000000000000000000000000000004", 18, "t3", "token3")
)

func bi(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "bad integer %q", s)
	return v
}

func amountOf(t *testing.T, c Currency, raw int64) CurrencyAmount {
	t.Helper()
	a, err := NewCurrencyAmount(c, big.NewInt(raw))
	require.NoError(t, err)
	return a
}

func encodePrice(t *testing.T, amount1, amount0 int64) *big.Int {
	t.Helper()
	sqrt, err := EncodeSqrtRatioX96(big.NewInt(amount1), big.NewInt(amount0))
	require.NoError(t, err)
	return sqrt
}

// fullRangeTicks returns liquidity spread over the whole usable tick range.
func fullRangeTicks(t *testing.T, spacing int, liquidity *big.Int) TickList {
	t.Helper()
	lower, err := NearestUsableTick(tickmath.MinTick, spacing)
	require.NoError(t, err)
	upper, err := NearestUsableTick(tickmath.MaxTick, spacing)
	require.NoError(t, err)
	ticks, err := NewTickList([]Tick{
		{Index: lower, LiquidityGross: liquidity, LiquidityNet: liquidity},
		{Index: upper, LiquidityGross: liquidity, LiquidityNet: new(big.Int).Neg(liquidity)},
	}, spacing)
	require.NoError(t, err)
	return ticks
}

func newV3Pool(t *testing.T, a, b Currency, sqrtRatioX96, liquidity *big.Int) *ConcentratedPool {
	t.Helper()
	var ticks TickList
	if liquidity.Sign() > 0 {
		ticks = fullRangeTicks(t, 60, liquidity)
	}
	pool, err := NewConcentratedPool(mainnet, ConcentratedPoolParams{
		TokenA:       a,
		TokenB:       b,
		Fee:          FeeMedium,
		SqrtRatioX96: sqrtRatioX96,
		Liquidity:    liquidity,
		Ticks:        ticks,
	})
	require.NoError(t, err)
	return pool
}

func newPair(t *testing.T, a Currency, reserveA int64, b Currency, reserveB int64) *Pair {
	t.Helper()
	pair, err := NewPair(mainnet, amountOf(t, a, reserveA), amountOf(t, b, reserveB), FeeMedium, [20]byte{})
	require.NoError(t, err)
	return pair
}
