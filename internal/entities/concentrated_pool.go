package entities

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"routeScope/internal/fullmath"
	"routeScope/internal/swapmath"
	"routeScope/internal/tickmath"
)

// Standard fee tiers in pips.
const (
	FeeLowest uint32 = 100
	FeeLow    uint32 = 500
	FeeMedium uint32 = 3000
	FeeHigh   uint32 = 10000
)

var defaultTickSpacings = map[uint32]int{
	FeeLowest: 1,
	FeeLow:    10,
	FeeMedium: 60,
	FeeHigh:   200,
}

// DefaultTickSpacing returns the tick spacing of a standard fee tier.
func DefaultTickSpacing(fee uint32) (int, bool) {
	spacing, ok := defaultTickSpacings[fee]
	return spacing, ok
}

// ConcentratedPoolParams describes the state of a concentrated liquidity pool.
type ConcentratedPoolParams struct {
	TokenA Currency
	TokenB Currency
	Fee    uint32
	// TickSpacing zero selects the default spacing of the fee tier.
	TickSpacing  int
	SqrtRatioX96 *big.Int
	Liquidity    *big.Int
	// TickCurrent is derived from SqrtRatioX96 when nil.
	TickCurrent *int
	Ticks       TickDataProvider
	// Address is derived with create2 when zero.
	Address common.Address
}

// ConcentratedPool is a pool whose liquidity is distributed over tick ranges.
type ConcentratedPool struct {
	chainID      ChainID
	address      common.Address
	token0       Currency
	token1       Currency
	fee          uint32
	tickSpacing  int
	sqrtRatioX96 *big.Int
	liquidity    *big.Int
	tickCurrent  int
	ticks        TickDataProvider

	pricesOnce  sync.Once
	token0Price Price
	token1Price Price
}

// NewConcentratedPool validates the pool state. The sqrt price is authoritative: a supplied
// tick must satisfy ratio(tick) <= sqrt price <= ratio(tick+1). A swap that stops exactly on an
// initialized tick going down leaves the pool one tick below the price, so both neighbours pass.
func NewConcentratedPool(cfg ChainConfig, params ConcentratedPoolParams) (*ConcentratedPool, error) {
	if !params.TokenA.IsToken() || !params.TokenB.IsToken() {
		return nil, fmt.Errorf("%w: pool tokens must be tokens", ErrCurrencyMismatch)
	}
	token0, token1, err := SortTokens(params.TokenA, params.TokenB)
	if err != nil {
		return nil, err
	}
	if token0.ChainID() != cfg.ChainID {
		return nil, fmt.Errorf("%w: pool on %d, config for %d", ErrChainMismatch, token0.ChainID(), cfg.ChainID)
	}
	if params.Fee >= uint32(swapmath.FeeDenominator.Int64()) {
		return nil, fmt.Errorf("%w: fee %d", ErrInvalidOption, params.Fee)
	}
	tickSpacing := params.TickSpacing
	if tickSpacing == 0 {
		spacing, ok := DefaultTickSpacing(params.Fee)
		if !ok {
			return nil, fmt.Errorf("%w: no default tick spacing for fee %d", ErrInvalidOption, params.Fee)
		}
		tickSpacing = spacing
	}
	if tickSpacing < 0 {
		return nil, fmt.Errorf("%w: tick spacing %d", ErrInvalidOption, tickSpacing)
	}
	if params.SqrtRatioX96 == nil {
		return nil, fmt.Errorf("%w: missing sqrt price", ErrPriceOutOfBounds)
	}
	tick, err := tickmath.TickAtSqrtRatio(params.SqrtRatioX96)
	if err != nil {
		return nil, err
	}
	if params.TickCurrent != nil {
		if err := checkTickBracketsPrice(*params.TickCurrent, params.SqrtRatioX96); err != nil {
			return nil, err
		}
		tick = *params.TickCurrent
	}
	liquidity := new(big.Int)
	if params.Liquidity != nil {
		if params.Liquidity.Sign() < 0 {
			return nil, fmt.Errorf("%w: negative liquidity", ErrInvalidAmount)
		}
		liquidity.Set(params.Liquidity)
	}
	ticks := params.Ticks
	switch list := ticks.(type) {
	case nil:
		ticks = TickList{}
	case TickList:
		// a TickList must be laid out on this pool's spacing
		if ticks, err = NewTickList(list, tickSpacing); err != nil {
			return nil, err
		}
	}
	address := params.Address
	if address == (common.Address{}) {
		address, err = GetAddress(token0, token1, cfg.PoolDeployer, cfg.InitCodeHash)
		if err != nil {
			return nil, err
		}
	}
	return &ConcentratedPool{
		chainID:      token0.ChainID(),
		address:      address,
		token0:       token0,
		token1:       token1,
		fee:          params.Fee,
		tickSpacing:  tickSpacing,
		sqrtRatioX96: new(big.Int).Set(params.SqrtRatioX96),
		liquidity:    liquidity,
		tickCurrent:  tick,
		ticks:        ticks,
	}, nil
}

func checkTickBracketsPrice(tick int, sqrtRatioX96 *big.Int) error {
	if tick < tickmath.MinTick || tick >= tickmath.MaxTick {
		return fmt.Errorf("%w: tick %d out of range", ErrInvalidTick, tick)
	}
	lower, err := tickmath.SqrtRatioAtTick(tick)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTick, err)
	}
	upper, err := tickmath.SqrtRatioAtTick(tick + 1)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTick, err)
	}
	if sqrtRatioX96.Cmp(lower) < 0 || sqrtRatioX96.Cmp(upper) > 0 {
		return fmt.Errorf("%w: tick %d does not bracket sqrt price %s", ErrInvalidTick, tick, sqrtRatioX96.String())
	}
	return nil
}

func (p *ConcentratedPool) Protocol() Protocol            { return ProtocolV3 }
func (p *ConcentratedPool) ChainID() ChainID              { return p.chainID }
func (p *ConcentratedPool) Address() common.Address       { return p.address }
func (p *ConcentratedPool) Token0() Currency              { return p.token0 }
func (p *ConcentratedPool) Token1() Currency              { return p.token1 }
func (p *ConcentratedPool) Fee() uint32                   { return p.fee }
func (p *ConcentratedPool) TickSpacing() int              { return p.tickSpacing }
func (p *ConcentratedPool) TickCurrent() int              { return p.tickCurrent }
func (p *ConcentratedPool) Ticks() TickDataProvider       { return p.ticks }
func (p *ConcentratedPool) SqrtRatioX96() *big.Int        { return new(big.Int).Set(p.sqrtRatioX96) }
func (p *ConcentratedPool) Liquidity() *big.Int           { return new(big.Int).Set(p.liquidity) }
func (p *ConcentratedPool) InvolvesToken(c Currency) bool { return involvesToken(p, c) }

func (p *ConcentratedPool) prices() {
	p.pricesOnce.Do(func() {
		ratioX192 := new(big.Int).Mul(p.sqrtRatioX96, p.sqrtRatioX96)
		// sqrt prices are strictly positive, so neither constructor can fail.
		p.token0Price, _ = NewPrice(p.token0, p.token1, fullmath.Q192, ratioX192)
		p.token1Price, _ = NewPrice(p.token1, p.token0, ratioX192, fullmath.Q192)
	})
}

// Token0Price is the price of token0 in token1.
func (p *ConcentratedPool) Token0Price() Price {
	p.prices()
	return p.token0Price
}

// Token1Price is the price of token1 in token0.
func (p *ConcentratedPool) Token1Price() Price {
	p.prices()
	return p.token1Price
}

func (p *ConcentratedPool) PriceOf(token Currency) (Price, error) { return priceOf(p, token) }

// GetOutputAmount simulates an exact input swap. Input that cannot be fully consumed before
// the price limit fails with ErrInsufficientLiquidity.
func (p *ConcentratedPool) GetOutputAmount(inputAmount CurrencyAmount) (CurrencyAmount, Pool, error) {
	if !p.InvolvesToken(inputAmount.Currency()) {
		return CurrencyAmount{}, nil, fmt.Errorf("%w: %s not in pool %s", ErrCurrencyMismatch, inputAmount.Currency(), p.address.Hex())
	}
	if inputAmount.Raw().Sign() < 0 {
		return CurrencyAmount{}, nil, fmt.Errorf("%w: negative input", ErrInvalidAmount)
	}
	zeroForOne := inputAmount.Currency().Equal(p.token0)
	result, err := p.swap(zeroForOne, inputAmount.Raw(), nil)
	if err != nil {
		return CurrencyAmount{}, nil, err
	}
	if result.remaining.Sign() != 0 {
		return CurrencyAmount{}, nil, fmt.Errorf("%w: %s of input left unswapped", ErrInsufficientLiquidity, result.remaining.String())
	}
	out := new(big.Int).Neg(result.amountCalculated)
	if out.Sign() <= 0 {
		return CurrencyAmount{}, nil, fmt.Errorf("%w: zero output", ErrInsufficientLiquidity)
	}
	outputToken := p.token0
	if zeroForOne {
		outputToken = p.token1
	}
	amount, err := NewCurrencyAmount(outputToken, out)
	if err != nil {
		return CurrencyAmount{}, nil, err
	}
	return amount, p.withState(result), nil
}

// GetInputAmount simulates an exact output swap. Output that cannot be fully filled fails
// with ErrInsufficientLiquidity.
func (p *ConcentratedPool) GetInputAmount(outputAmount CurrencyAmount) (CurrencyAmount, Pool, error) {
	if !p.InvolvesToken(outputAmount.Currency()) {
		return CurrencyAmount{}, nil, fmt.Errorf("%w: %s not in pool %s", ErrCurrencyMismatch, outputAmount.Currency(), p.address.Hex())
	}
	if outputAmount.Raw().Sign() <= 0 {
		return CurrencyAmount{}, nil, fmt.Errorf("%w: output must be positive", ErrInvalidAmount)
	}
	zeroForOne := outputAmount.Currency().Equal(p.token1)
	result, err := p.swap(zeroForOne, new(big.Int).Neg(outputAmount.Raw()), nil)
	if err != nil {
		return CurrencyAmount{}, nil, err
	}
	if result.remaining.Sign() != 0 {
		return CurrencyAmount{}, nil, fmt.Errorf("%w: %s of output unfilled", ErrInsufficientLiquidity, new(big.Int).Neg(result.remaining).String())
	}
	inputToken := p.token1
	if zeroForOne {
		inputToken = p.token0
	}
	amount, err := NewCurrencyAmount(inputToken, result.amountCalculated)
	if err != nil {
		return CurrencyAmount{}, nil, err
	}
	return amount, p.withState(result), nil
}

type swapState struct {
	remaining        *big.Int
	amountCalculated *big.Int
	sqrtRatioX96     *big.Int
	tick             int
	liquidity        *big.Int
}

func (p *ConcentratedPool) withState(state swapState) *ConcentratedPool {
	return &ConcentratedPool{
		chainID:      p.chainID,
		address:      p.address,
		token0:       p.token0,
		token1:       p.token1,
		fee:          p.fee,
		tickSpacing:  p.tickSpacing,
		sqrtRatioX96: state.sqrtRatioX96,
		liquidity:    state.liquidity,
		tickCurrent:  state.tick,
		ticks:        p.ticks,
	}
}

// swap walks initialized ticks until amountSpecified is consumed (positive, exact input) or
// filled (negative, exact output), or the price limit is reached.
func (p *ConcentratedPool) swap(zeroForOne bool, amountSpecified, sqrtPriceLimitX96 *big.Int) (swapState, error) {
	if sqrtPriceLimitX96 == nil {
		if zeroForOne {
			sqrtPriceLimitX96 = new(big.Int).Add(tickmath.MinSqrtRatio, bigOne)
		} else {
			sqrtPriceLimitX96 = new(big.Int).Sub(tickmath.MaxSqrtRatio, bigOne)
		}
	}
	if zeroForOne {
		if sqrtPriceLimitX96.Cmp(tickmath.MinSqrtRatio) <= 0 || sqrtPriceLimitX96.Cmp(p.sqrtRatioX96) >= 0 {
			return swapState{}, fmt.Errorf("%w: price limit %s", ErrInsufficientLiquidity, sqrtPriceLimitX96.String())
		}
	} else {
		if sqrtPriceLimitX96.Cmp(tickmath.MaxSqrtRatio) >= 0 || sqrtPriceLimitX96.Cmp(p.sqrtRatioX96) <= 0 {
			return swapState{}, fmt.Errorf("%w: price limit %s", ErrInsufficientLiquidity, sqrtPriceLimitX96.String())
		}
	}

	exactInput := amountSpecified.Sign() >= 0
	state := swapState{
		remaining:        new(big.Int).Set(amountSpecified),
		amountCalculated: new(big.Int),
		sqrtRatioX96:     new(big.Int).Set(p.sqrtRatioX96),
		tick:             p.tickCurrent,
		liquidity:        new(big.Int).Set(p.liquidity),
	}

	for state.remaining.Sign() != 0 && state.sqrtRatioX96.Cmp(sqrtPriceLimitX96) != 0 {
		sqrtPriceStart := state.sqrtRatioX96
		tickNext, initialized, err := p.ticks.NextInitializedTickWithinOneWord(state.tick, zeroForOne, p.tickSpacing)
		if err != nil {
			return swapState{}, err
		}
		if tickNext < tickmath.MinTick {
			tickNext = tickmath.MinTick
		} else if tickNext > tickmath.MaxTick {
			tickNext = tickmath.MaxTick
		}
		sqrtPriceNext, err := tickmath.SqrtRatioAtTick(tickNext)
		if err != nil {
			return swapState{}, err
		}

		target := sqrtPriceNext
		if (zeroForOne && sqrtPriceNext.Cmp(sqrtPriceLimitX96) < 0) || (!zeroForOne && sqrtPriceNext.Cmp(sqrtPriceLimitX96) > 0) {
			target = sqrtPriceLimitX96
		}
		step, err := swapmath.ComputeSwapStep(state.sqrtRatioX96, target, state.liquidity, state.remaining, p.fee)
		if err != nil {
			return swapState{}, err
		}
		state.sqrtRatioX96 = step.SqrtRatioNextX96

		if exactInput {
			state.remaining.Sub(state.remaining, step.AmountIn)
			state.remaining.Sub(state.remaining, step.FeeAmount)
			state.amountCalculated.Sub(state.amountCalculated, step.AmountOut)
		} else {
			state.remaining.Add(state.remaining, step.AmountOut)
			state.amountCalculated.Add(state.amountCalculated, step.AmountIn)
			state.amountCalculated.Add(state.amountCalculated, step.FeeAmount)
		}

		if state.sqrtRatioX96.Cmp(sqrtPriceNext) == 0 {
			if initialized {
				tick, err := p.ticks.GetTick(tickNext)
				if err != nil {
					return swapState{}, err
				}
				if tick.LiquidityNet == nil {
					return swapState{}, fmt.Errorf("%w: tick %d has no net liquidity", ErrInvalidTickList, tickNext)
				}
				liquidityNet := new(big.Int).Set(tick.LiquidityNet)
				if zeroForOne {
					liquidityNet.Neg(liquidityNet)
				}
				state.liquidity, err = swapmath.AddDelta(state.liquidity, liquidityNet)
				if err != nil {
					return swapState{}, fmt.Errorf("%w: crossing tick %d", ErrInsufficientLiquidity, tickNext)
				}
			}
			if zeroForOne {
				state.tick = tickNext - 1
			} else {
				state.tick = tickNext
			}
		} else if state.sqrtRatioX96.Cmp(sqrtPriceStart) != 0 {
			state.tick, err = tickmath.TickAtSqrtRatio(state.sqrtRatioX96)
			if err != nil {
				return swapState{}, err
			}
		}
	}
	return state, nil
}
