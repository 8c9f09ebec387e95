package entities

import (
	"fmt"
	"math/big"
	"sync"

	"routeScope/internal/fullmath"
	"routeScope/internal/tickmath"
)

// OrderType is the side of a limit order.
type OrderType int

const (
	BuyOrder OrderType = iota
	SellOrder
)

func (t OrderType) String() string {
	if t == BuyOrder {
		return "buy"
	}
	return "sell"
}

// OrderParams describes a limit order resting at a tick of a concentrated pool.
type OrderParams struct {
	Pool       *ConcentratedPool
	Tick       int
	Amount     *big.Int
	ZeroForOne bool
	TradeType  TradeType
}

// Order is a limit order. Amount is the exact side selected by the trade type; the
// other side is derived from the tick price.
type Order struct {
	pool       *ConcentratedPool
	tick       int
	amount     *big.Int
	zeroForOne bool
	tradeType  TradeType

	amountInOnce  sync.Once
	amountIn      CurrencyAmount
	amountInErr   error
	amountOutOnce sync.Once
	amountOut     CurrencyAmount
	amountOutErr  error
}

func NewOrder(params OrderParams) (*Order, error) {
	if params.Pool == nil {
		return nil, ErrNoPools
	}
	if params.Tick < tickmath.MinTick || params.Tick > tickmath.MaxTick {
		return nil, fmt.Errorf("%w: tick %d", ErrTickOutOfBounds, params.Tick)
	}
	if params.Tick%params.Pool.TickSpacing() != 0 {
		return nil, fmt.Errorf("%w: tick %d not a multiple of spacing %d", ErrInvalidTick, params.Tick, params.Pool.TickSpacing())
	}
	if params.Amount == nil || params.Amount.Sign() < 0 {
		return nil, fmt.Errorf("%w: order amount", ErrInvalidAmount)
	}
	if params.TradeType != ExactInput && params.TradeType != ExactOutput {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTradeType, int(params.TradeType))
	}
	return &Order{
		pool:       params.Pool,
		tick:       params.Tick,
		amount:     new(big.Int).Set(params.Amount),
		zeroForOne: params.ZeroForOne,
		tradeType:  params.TradeType,
	}, nil
}

func (o *Order) Pool() *ConcentratedPool { return o.pool }
func (o *Order) Tick() int               { return o.tick }
func (o *Order) Amount() *big.Int        { return new(big.Int).Set(o.amount) }
func (o *Order) ZeroForOne() bool        { return o.zeroForOne }
func (o *Order) TradeType() TradeType    { return o.tradeType }

// Type is BuyOrder for token0 -> token1 orders.
func (o *Order) Type() OrderType {
	if o.zeroForOne {
		return BuyOrder
	}
	return SellOrder
}

// AtPrice is the price of token0 in token1 at the order tick.
func (o *Order) AtPrice() (Price, error) {
	return TickToPrice(o.pool.Token0(), o.pool.Token1(), o.tick)
}

func (o *Order) SqrtPriceX96() (*big.Int, error) {
	return tickmath.SqrtRatioAtTick(o.tick)
}

// AmountIn is the amount the order spends, derived from the tick price and rounded up
// when the order is exact output.
func (o *Order) AmountIn() (CurrencyAmount, error) {
	o.amountInOnce.Do(func() {
		token := o.pool.Token1()
		if o.zeroForOne {
			token = o.pool.Token0()
		}
		if o.tradeType == ExactInput {
			o.amountIn, o.amountInErr = NewCurrencyAmount(token, o.amount)
			return
		}
		var raw *big.Int
		raw, o.amountInErr = o.convert(!o.zeroForOne)
		if o.amountInErr != nil {
			return
		}
		o.amountIn, o.amountInErr = NewCurrencyAmount(token, raw)
	})
	return o.amountIn, o.amountInErr
}

// AmountOut is the amount the order receives, derived from the tick price when the
// order is exact input.
func (o *Order) AmountOut() (CurrencyAmount, error) {
	o.amountOutOnce.Do(func() {
		token := o.pool.Token0()
		if o.zeroForOne {
			token = o.pool.Token1()
		}
		if o.tradeType == ExactOutput {
			o.amountOut, o.amountOutErr = NewCurrencyAmount(token, o.amount)
			return
		}
		var raw *big.Int
		raw, o.amountOutErr = o.convert(o.zeroForOne)
		if o.amountOutErr != nil {
			return
		}
		o.amountOut, o.amountOutErr = NewCurrencyAmount(token, raw)
	})
	return o.amountOut, o.amountOutErr
}

// convert scales amount by the tick price (toToken1) or its inverse, rounding up at each step.
func (o *Order) convert(toToken1 bool) (*big.Int, error) {
	sqrtPrice, err := o.SqrtPriceX96()
	if err != nil {
		return nil, err
	}
	num, den := sqrtPrice, fullmath.Q96
	if !toToken1 {
		num, den = fullmath.Q96, sqrtPrice
	}
	raw, err := fullmath.MulDivRoundingUp(o.amount, num, den)
	if err != nil {
		return nil, err
	}
	return fullmath.MulDivRoundingUp(raw, num, den)
}
