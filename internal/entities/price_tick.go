package entities

import (
	"fmt"
	"math/big"

	"routeScope/internal/fullmath"
	"routeScope/internal/tickmath"
)

// EncodeSqrtRatioX96 returns sqrt(amount1/amount0) as a Q64.96 number.
func EncodeSqrtRatioX96(amount1, amount0 *big.Int) (*big.Int, error) {
	if amount0.Sign() == 0 {
		return nil, ErrInvalidDenominator
	}
	ratioX192 := new(big.Int).Lsh(amount1, 192)
	ratioX192.Quo(ratioX192, amount0)
	if ratioX192.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative ratio", ErrPriceOutOfBounds)
	}
	return ratioX192.Sqrt(ratioX192), nil
}

// TickToPrice returns the price of base in quote at tick. Both currencies must be tokens
// since their address order decides how the tick is read.
func TickToPrice(base, quote Currency, tick int) (Price, error) {
	sqrtRatioX96, err := tickmath.SqrtRatioAtTick(tick)
	if err != nil {
		return Price{}, err
	}
	ratioX192 := new(big.Int).Mul(sqrtRatioX96, sqrtRatioX96)
	sorted, err := base.SortsBefore(quote)
	if err != nil {
		return Price{}, err
	}
	if sorted {
		return NewPrice(base, quote, fullmath.Q192, ratioX192)
	}
	return NewPrice(base, quote, ratioX192, fullmath.Q192)
}

// PriceToClosestTick returns the greatest tick whose price does not exceed price.
// Native currencies are wrapped through chain.
func PriceToClosestTick(price Price, chain ChainConfig) (int, error) {
	base, err := chain.Wrap(price.BaseCurrency())
	if err != nil {
		return 0, err
	}
	quote, err := chain.Wrap(price.QuoteCurrency())
	if err != nil {
		return 0, err
	}
	sorted, err := base.SortsBefore(quote)
	if err != nil {
		return 0, err
	}
	raw := price.Raw()
	var sqrtRatioX96 *big.Int
	if sorted {
		sqrtRatioX96, err = EncodeSqrtRatioX96(raw.num, raw.den)
	} else {
		sqrtRatioX96, err = EncodeSqrtRatioX96(raw.den, raw.num)
	}
	if err != nil {
		return 0, err
	}
	tick, err := tickmath.TickAtSqrtRatio(sqrtRatioX96)
	if err != nil {
		return 0, err
	}
	if tick+1 > tickmath.MaxTick {
		return tick, nil
	}
	next, err := TickToPrice(base, quote, tick+1)
	if err != nil {
		return 0, err
	}
	if sorted {
		if !price.LessThan(next) {
			tick++
		}
	} else if !price.GreaterThan(next) {
		tick++
	}
	return tick, nil
}

// NearestUsableTick rounds tick to the closest multiple of tickSpacing inside the tick range.
// Halves round toward positive infinity.
func NearestUsableTick(tick, tickSpacing int) (int, error) {
	if err := checkUsableTickArgs(tick, tickSpacing); err != nil {
		return 0, err
	}
	rounded := roundHalfUp(tick, tickSpacing) * tickSpacing
	return clampUsable(rounded, tickSpacing), nil
}

// NearestUsableTickParity is NearestUsableTick restricted to even (or odd) multiples of the spacing.
func NearestUsableTickParity(tick, tickSpacing int, even bool) (int, error) {
	if err := checkUsableTickArgs(tick, tickSpacing); err != nil {
		return 0, err
	}
	evenMultiple := roundHalfUp(roundHalfUp(tick, tickSpacing), 2) * 2
	rounded := evenMultiple * tickSpacing
	if !even {
		rounded = (evenMultiple - 1) * tickSpacing
	}
	return clampUsable(rounded, 2*tickSpacing), nil
}

func checkUsableTickArgs(tick, tickSpacing int) error {
	if tickSpacing <= 0 {
		return fmt.Errorf("%w: tick spacing %d", ErrInvalidOption, tickSpacing)
	}
	if tick < tickmath.MinTick || tick > tickmath.MaxTick {
		return fmt.Errorf("%w: tick %d", ErrTickOutOfBounds, tick)
	}
	return nil
}

func clampUsable(tick, step int) int {
	if tick < tickmath.MinTick {
		return tick + step
	}
	if tick > tickmath.MaxTick {
		return tick - step
	}
	return tick
}

// roundHalfUp returns a/b rounded to the nearest integer, halves toward positive infinity.
func roundHalfUp(a, b int) int {
	return floorDiv(2*a+b, 2*b)
}
