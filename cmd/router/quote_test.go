package main

import (
	"bytes"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"routeScope/internal/dex"
	"routeScope/internal/entities"
	"routeScope/internal/model"
)

var mainnet = entities.DefaultChains()[entities.ChainMainnet]

func TestParseAmount(t *testing.T) {
	usdc := entities.MustToken(entities.ChainMainnet, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", 6, "USDC", "USD Coin")

	amount, err := parseAmount(usdc, "12.5")
	require.NoError(t, err)
	require.Equal(t, "12500000", amount.Raw().String())

	_, err = parseAmount(usdc, "0.0000001")
	require.ErrorIs(t, err, entities.ErrInvalidAmount)
	_, err = parseAmount(usdc, "-1")
	require.ErrorIs(t, err, entities.ErrInvalidAmount)
	_, err = parseAmount(usdc, "abc")
	require.ErrorIs(t, err, entities.ErrInvalidAmount)
}

func TestParseSlippage(t *testing.T) {
	pct, err := parseSlippage("0.5")
	require.NoError(t, err)
	want, err := entities.NewPercent(big.NewInt(5), big.NewInt(1000))
	require.NoError(t, err)
	require.True(t, pct.EqualTo(want.Fraction))

	_, err = parseSlippage("-1")
	require.ErrorIs(t, err, entities.ErrNegativeSlippage)
	_, err = parseSlippage("lots")
	require.ErrorIs(t, err, entities.ErrInvalidOption)
}

func TestResolveCurrency(t *testing.T) {
	tokens := dex.NewTokenCache()
	dai, err := tokens.Resolve(entities.ChainMainnet, model.TokenMeta{
		Address:  "0x6B175474E89094C44Da98b954EedeAC495271d0F",
		Decimals: 18,
		Symbol:   "DAI",
	})
	require.NoError(t, err)

	got, err := resolveCurrency(mainnet, tokens, "native")
	require.NoError(t, err)
	require.True(t, got.IsNative())

	got, err = resolveCurrency(mainnet, tokens, "eth")
	require.NoError(t, err)
	require.True(t, got.IsNative())

	got, err = resolveCurrency(mainnet, tokens, "0x6b175474e89094c44da98b954eedeac495271d0f")
	require.NoError(t, err)
	require.True(t, got.Equal(dai))

	got, err = resolveCurrency(mainnet, tokens, mainnet.WrappedNative.Address().Hex())
	require.NoError(t, err)
	require.True(t, got.Equal(mainnet.WrappedNative))

	_, err = resolveCurrency(mainnet, tokens, "0x0000000000000000000000000000000000000009")
	require.Error(t, err)
	_, err = resolveCurrency(mainnet, tokens, "dai")
	require.ErrorIs(t, err, entities.ErrInvalidAddress)
}

func TestFilterSnapshots(t *testing.T) {
	snaps := []model.PoolSnapshot{
		{Address: "0x1111111111111111111111111111111111111111"},
		{Address: "0x2222222222222222222222222222222222222222"},
	}
	require.Len(t, filterSnapshots(snaps, nil), 2)

	filtered := filterSnapshots(snaps, []string{"0x2222222222222222222222222222222222222222"})
	require.Len(t, filtered, 1)
	require.Equal(t, snaps[1].Address, filtered[0].Address)
}

func TestToQuote(t *testing.T) {
	token0 := entities.MustToken(entities.ChainMainnet, "0x0000000000000000000000000000000000000001", 18, "t0", "token0")
	token1 := entities.MustToken(entities.ChainMainnet, "0x0000000000000000000000000000000000000002", 18, "t1", "token1")
	reserve0, err := entities.NewCurrencyAmount(token0, big.NewInt(1000))
	require.NoError(t, err)
	reserve1, err := entities.NewCurrencyAmount(token1, big.NewInt(2000))
	require.NoError(t, err)
	pair, err := entities.NewPair(mainnet, reserve0, reserve1, entities.FeeMedium, [20]byte{})
	require.NoError(t, err)

	route, err := entities.NewRoute(mainnet, []entities.Pool{pair}, token0, token1)
	require.NoError(t, err)
	in, err := entities.NewCurrencyAmount(token0, big.NewInt(100))
	require.NoError(t, err)
	trade, err := entities.FromRoute(route, in, entities.ExactInput)
	require.NoError(t, err)

	slippage, err := parseSlippage("10")
	require.NoError(t, err)
	quote, err := toQuote(1, trade, slippage)
	require.NoError(t, err)
	require.Equal(t, 1, quote.Rank)
	require.Equal(t, "exact_input", quote.TradeType)
	require.Equal(t, "v2", quote.Protocol)
	require.Equal(t, []string{"t0", "t1"}, quote.Path)
	require.Equal(t, []string{pair.Address().Hex()}, quote.Pools)
	require.Equal(t, "0.0000000000000001", quote.AmountIn)
	require.Equal(t, "0.000000000000000181", quote.AmountOut)
	require.Equal(t, "0.000000000000000164", quote.MinimumOut)
	require.Equal(t, quote.AmountIn, quote.MaximumIn)
}

func TestQuoteSink(t *testing.T) {
	var buf bytes.Buffer
	sink, err := openQuoteSink("", &buf)
	require.NoError(t, err)
	require.NoError(t, sink.Put(model.Quote{Rank: 1, AmountOut: "99"}))
	require.NoError(t, sink.Put(model.Quote{Rank: 2, AmountOut: "69"}))
	require.NoError(t, sink.Close())
	require.NoError(t, sink.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[1], `"amount_out":"69"`)

	path := filepath.Join(t.TempDir(), "out", "quotes.jsonl")
	sink, err = openQuoteSink(path, nil)
	require.NoError(t, err)
	require.NoError(t, sink.Put(model.Quote{Rank: 1}))
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(string(data), "\n"))
}
