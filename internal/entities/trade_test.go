package entities

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func route(t *testing.T, input, output Currency, pools ...Pool) *Route {
	t.Helper()
	r, err := NewRoute(mainnet, pools, input, output)
	require.NoError(t, err)
	return r
}

func percent(t *testing.T, num, den int64) Percent {
	t.Helper()
	p, err := NewPercent(big.NewInt(num), big.NewInt(den))
	require.NoError(t, err)
	return p
}

func TestTradeFromRouteExactInput(t *testing.T) {
	pairAB := newPair(t, token0, 1000, token1, 2000)
	pairBC := newPair(t, token1, 1000, token2, 1000)

	trade, err := FromRoute(route(t, token0, token2, pairAB, pairBC), amountOf(t, token0, 100), ExactInput)
	require.NoError(t, err)
	require.Equal(t, ExactInput, trade.TradeType())
	require.True(t, trade.InputAmount().Equal(amountOf(t, token0, 100)))
	require.True(t, trade.OutputAmount().Equal(amountOf(t, token2, 152)))
	require.Equal(t, 2, trade.Hops())

	price, err := trade.ExecutionPrice()
	require.NoError(t, err)
	require.True(t, price.Raw().EqualTo(frac(t, 152, 100)))

	_, err = FromRoute(route(t, token0, token2, pairAB, pairBC), amountOf(t, token2, 100), ExactInput)
	require.ErrorIs(t, err, ErrInputCurrencyMismatch)

	_, err = FromRoute(route(t, token0, token2, pairAB, pairBC), amountOf(t, token0, 100), TradeType(7))
	require.ErrorIs(t, err, ErrInvalidTradeType)
}

func TestTradeFromRouteExactOutput(t *testing.T) {
	pairAB := newPair(t, token0, 1000, token1, 2000)
	pairBC := newPair(t, token1, 1000, token2, 1000)

	trade, err := FromRoute(route(t, token0, token2, pairAB, pairBC), amountOf(t, token2, 152), ExactOutput)
	require.NoError(t, err)
	require.True(t, trade.InputAmount().Equal(amountOf(t, token0, 100)))
	require.True(t, trade.OutputAmount().Equal(amountOf(t, token2, 152)))

	_, err = FromRoute(route(t, token0, token1, pairAB), amountOf(t, token0, 100), ExactOutput)
	require.ErrorIs(t, err, ErrOutputCurrencyMismatch)

	_, err = FromRoute(route(t, token0, token1, pairAB), amountOf(t, token1, 5000), ExactOutput)
	require.ErrorIs(t, err, ErrInsufficientLiquidity)
}

func TestTradeNativeInput(t *testing.T) {
	pair := newPair(t, weth, 1000, token1, 2000)

	trade, err := FromRoute(route(t, ether, token1, pair), amountOf(t, ether, 100), ExactInput)
	require.NoError(t, err)
	require.True(t, trade.InputAmount().Currency().Equal(ether))
	require.True(t, trade.OutputAmount().Equal(amountOf(t, token1, 181)))

	price, err := trade.ExecutionPrice()
	require.NoError(t, err)
	require.True(t, price.BaseCurrency().Equal(ether))
}

func TestTradePriceImpact(t *testing.T) {
	pair := newPair(t, token0, 1000, token1, 2000)
	trade, err := FromRoute(route(t, token0, token1, pair), amountOf(t, token0, 100), ExactInput)
	require.NoError(t, err)

	impact, err := trade.PriceImpact()
	require.NoError(t, err)
	s, err := impact.ToFixed(2, RoundHalfUp)
	require.NoError(t, err)
	require.Equal(t, "9.50", s)
}

func TestTradeSlippageBounds(t *testing.T) {
	pair := newPair(t, token0, 1000, token1, 2000)

	exactIn, err := FromRoute(route(t, token0, token1, pair), amountOf(t, token0, 100), ExactInput)
	require.NoError(t, err)

	minOut, err := exactIn.MinimumAmountOut(percent(t, 0, 1))
	require.NoError(t, err)
	require.True(t, minOut.Equal(exactIn.OutputAmount()))

	minOut, err = exactIn.MinimumAmountOut(percent(t, 10, 100))
	require.NoError(t, err)
	require.Equal(t, int64(164), minOut.Raw().Int64())

	minOut, err = exactIn.MinimumAmountOut(percent(t, 50, 100))
	require.NoError(t, err)
	require.Equal(t, int64(120), minOut.Raw().Int64())

	maxIn, err := exactIn.MaximumAmountIn(percent(t, 50, 100))
	require.NoError(t, err)
	require.True(t, maxIn.Equal(exactIn.InputAmount()))

	_, err = exactIn.MinimumAmountOut(percent(t, -1, 100))
	require.ErrorIs(t, err, ErrNegativeSlippage)
	_, err = exactIn.MaximumAmountIn(percent(t, -1, 100))
	require.ErrorIs(t, err, ErrNegativeSlippage)

	exactOut, err := FromRoute(route(t, token0, token1, pair), amountOf(t, token1, 200), ExactOutput)
	require.NoError(t, err)
	require.Equal(t, int64(112), exactOut.InputAmount().Raw().Int64())

	maxIn, err = exactOut.MaximumAmountIn(percent(t, 0, 1))
	require.NoError(t, err)
	require.Equal(t, int64(112), maxIn.Raw().Int64())

	maxIn, err = exactOut.MaximumAmountIn(percent(t, 50, 100))
	require.NoError(t, err)
	require.Equal(t, int64(168), maxIn.Raw().Int64())

	minOut, err = exactOut.MinimumAmountOut(percent(t, 50, 100))
	require.NoError(t, err)
	require.True(t, minOut.Equal(exactOut.OutputAmount()))

	worst, err := exactOut.WorstExecutionPrice(percent(t, 50, 100))
	require.NoError(t, err)
	require.True(t, worst.Raw().EqualTo(frac(t, 200, 168)))
}

func TestTradeMinimumAmountOutDecreasesWithTolerance(t *testing.T) {
	pair := newPair(t, token0, 1_000_000_000, token1, 2_000_000_000)
	trade, err := FromRoute(route(t, token0, token1, pair), amountOf(t, token0, 1_000_000), ExactInput)
	require.NoError(t, err)

	previous := trade.OutputAmount().Raw()
	for _, bips := range []int64{1, 10, 50, 100, 1000, 5000} {
		minOut, err := trade.MinimumAmountOut(PercentFromBips(bips))
		require.NoError(t, err)
		require.Equal(t, -1, minOut.Raw().Cmp(previous), "bips %d", bips)
		previous = minOut.Raw()
	}
}

func TestTradeFromRoutes(t *testing.T) {
	pairAB := newPair(t, token0, 1000, token1, 2000)
	pairAD := newPair(t, token0, 1000, token3, 1000)
	pairDB := newPair(t, token3, 1000, token1, 1000)

	trade, err := FromRoutes([]RouteAmount{
		{Route: route(t, token0, token1, pairAB), Amount: amountOf(t, token0, 50)},
		{Route: route(t, token0, token1, pairAD, pairDB), Amount: amountOf(t, token0, 50)},
	}, ExactInput)
	require.NoError(t, err)
	require.Len(t, trade.Swaps(), 2)
	require.Equal(t, int64(100), trade.InputAmount().Raw().Int64())
	require.Equal(t, int64(94+44), trade.OutputAmount().Raw().Int64())
	require.Equal(t, 3, trade.Hops())

	_, err = trade.Route()
	require.ErrorIs(t, err, ErrMultipleRoutes)

	_, err = FromRoutes([]RouteAmount{
		{Route: route(t, token0, token1, pairAB), Amount: amountOf(t, token0, 50)},
		{Route: route(t, token0, token1, pairAB), Amount: amountOf(t, token0, 50)},
	}, ExactInput)
	require.ErrorIs(t, err, ErrDuplicatePools)

	_, err = FromRoutes(nil, ExactInput)
	require.ErrorIs(t, err, ErrNoPools)
}

func TestUncheckedTrade(t *testing.T) {
	pairAB := newPair(t, token0, 1000, token1, 2000)
	r := route(t, token0, token1, pairAB)

	trade, err := NewUncheckedTrade(r, amountOf(t, token0, 10), amountOf(t, token1, 19), ExactInput)
	require.NoError(t, err)
	single, err := trade.Route()
	require.NoError(t, err)
	require.Same(t, r, single)

	_, err = NewUncheckedTrade(r, amountOf(t, token2, 10), amountOf(t, token1, 19), ExactInput)
	require.ErrorIs(t, err, ErrInputCurrencyMismatch)

	_, err = NewUncheckedTrade(r, amountOf(t, token0, 10), amountOf(t, token2, 19), ExactInput)
	require.ErrorIs(t, err, ErrOutputCurrencyMismatch)

	other := route(t, token0, token2, newPair(t, token0, 1000, token2, 1000))
	_, err = NewUncheckedTradeWithMultipleRoutes([]Swap{
		{Route: r, InputAmount: amountOf(t, token0, 10), OutputAmount: amountOf(t, token1, 19)},
		{Route: other, InputAmount: amountOf(t, token0, 10), OutputAmount: amountOf(t, token2, 9)},
	}, ExactInput)
	require.ErrorIs(t, err, ErrOutputCurrencyMismatch)
}

func TestTradeComparator(t *testing.T) {
	pairAB := newPair(t, token0, 1000, token1, 2000)
	pairAD := newPair(t, token0, 1000, token3, 1000)
	pairDB := newPair(t, token3, 1000, token1, 1000)
	direct := route(t, token0, token1, pairAB)
	viaD := route(t, token0, token1, pairAD, pairDB)

	unchecked := func(r *Route, in, out int64) *Trade {
		trade, err := NewUncheckedTrade(r, amountOf(t, token0, in), amountOf(t, token1, out), ExactInput)
		require.NoError(t, err)
		return trade
	}

	more := unchecked(direct, 10, 20)
	less := unchecked(direct, 10, 19)
	require.Negative(t, TradeComparator(more, less))
	require.Positive(t, TradeComparator(less, more))

	cheaper := unchecked(direct, 9, 20)
	require.Negative(t, TradeComparator(cheaper, more))

	longer := unchecked(viaD, 10, 20)
	require.Zero(t, InputOutputComparator(more, longer))
	require.Negative(t, TradeComparator(more, longer))
	require.Zero(t, TradeComparator(more, unchecked(direct, 10, 20)))
}
