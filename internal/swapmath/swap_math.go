package swapmath

import (
	"errors"
	"math/big"

	"routeScope/internal/fullmath"
	"routeScope/internal/sqrtpricemath"
)

// FeeDenominator is 100% expressed in pips.
var FeeDenominator = big.NewInt(1_000_000)

var ErrLiquidityUnderflow = errors.New("liquidity underflow")

// Step is the result of swapping within a single price range.
type Step struct {
	SqrtRatioNextX96 *big.Int
	AmountIn         *big.Int
	AmountOut        *big.Int
	FeeAmount        *big.Int
}

// ComputeSwapStep swaps amountRemaining (positive for exact input, negative for exact output)
// between the current and target sqrt price at constant liquidity.
func ComputeSwapStep(sqrtRatioCurrentX96, sqrtRatioTargetX96, liquidity, amountRemaining *big.Int, feePips uint32) (Step, error) {
	zeroForOne := sqrtRatioCurrentX96.Cmp(sqrtRatioTargetX96) >= 0
	exactIn := amountRemaining.Sign() >= 0
	fee := new(big.Int).SetUint64(uint64(feePips))
	feeComplement := new(big.Int).Sub(FeeDenominator, fee)

	step := Step{
		AmountIn:  new(big.Int),
		AmountOut: new(big.Int),
	}
	var err error

	amountRemainingAbs := new(big.Int).Abs(amountRemaining)
	if exactIn {
		amountRemainingLessFee, err := fullmath.MulDiv(amountRemaining, feeComplement, FeeDenominator)
		if err != nil {
			return Step{}, err
		}
		if zeroForOne {
			step.AmountIn, err = sqrtpricemath.Amount0Delta(sqrtRatioTargetX96, sqrtRatioCurrentX96, liquidity, true)
		} else {
			step.AmountIn, err = sqrtpricemath.Amount1Delta(sqrtRatioCurrentX96, sqrtRatioTargetX96, liquidity, true)
		}
		if err != nil {
			return Step{}, err
		}
		if amountRemainingLessFee.Cmp(step.AmountIn) >= 0 {
			step.SqrtRatioNextX96 = new(big.Int).Set(sqrtRatioTargetX96)
		} else {
			step.SqrtRatioNextX96, err = sqrtpricemath.NextSqrtPriceFromInput(sqrtRatioCurrentX96, liquidity, amountRemainingLessFee, zeroForOne)
			if err != nil {
				return Step{}, err
			}
		}
	} else {
		if zeroForOne {
			step.AmountOut, err = sqrtpricemath.Amount1Delta(sqrtRatioTargetX96, sqrtRatioCurrentX96, liquidity, false)
		} else {
			step.AmountOut, err = sqrtpricemath.Amount0Delta(sqrtRatioCurrentX96, sqrtRatioTargetX96, liquidity, false)
		}
		if err != nil {
			return Step{}, err
		}
		if amountRemainingAbs.Cmp(step.AmountOut) >= 0 {
			step.SqrtRatioNextX96 = new(big.Int).Set(sqrtRatioTargetX96)
		} else {
			step.SqrtRatioNextX96, err = sqrtpricemath.NextSqrtPriceFromOutput(sqrtRatioCurrentX96, liquidity, amountRemainingAbs, zeroForOne)
			if err != nil {
				return Step{}, err
			}
		}
	}

	max := sqrtRatioTargetX96.Cmp(step.SqrtRatioNextX96) == 0

	if zeroForOne {
		if !(max && exactIn) {
			step.AmountIn, err = sqrtpricemath.Amount0Delta(step.SqrtRatioNextX96, sqrtRatioCurrentX96, liquidity, true)
			if err != nil {
				return Step{}, err
			}
		}
		if !(max && !exactIn) {
			step.AmountOut, err = sqrtpricemath.Amount1Delta(step.SqrtRatioNextX96, sqrtRatioCurrentX96, liquidity, false)
			if err != nil {
				return Step{}, err
			}
		}
	} else {
		if !(max && exactIn) {
			step.AmountIn, err = sqrtpricemath.Amount1Delta(sqrtRatioCurrentX96, step.SqrtRatioNextX96, liquidity, true)
			if err != nil {
				return Step{}, err
			}
		}
		if !(max && !exactIn) {
			step.AmountOut, err = sqrtpricemath.Amount0Delta(sqrtRatioCurrentX96, step.SqrtRatioNextX96, liquidity, false)
			if err != nil {
				return Step{}, err
			}
		}
	}

	if !exactIn && step.AmountOut.Cmp(amountRemainingAbs) > 0 {
		step.AmountOut.Set(amountRemainingAbs)
	}

	if exactIn && step.SqrtRatioNextX96.Cmp(sqrtRatioTargetX96) != 0 {
		// the remainder of the input is taken as fee
		step.FeeAmount = new(big.Int).Sub(amountRemaining, step.AmountIn)
	} else {
		step.FeeAmount, err = fullmath.MulDivRoundingUp(step.AmountIn, fee, feeComplement)
		if err != nil {
			return Step{}, err
		}
	}

	return step, nil
}

// AddDelta applies a signed liquidity delta.
func AddDelta(liquidity, delta *big.Int) (*big.Int, error) {
	next := new(big.Int).Add(liquidity, delta)
	if next.Sign() < 0 {
		return nil, ErrLiquidityUnderflow
	}
	return next, nil
}
