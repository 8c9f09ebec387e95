package entities

import (
	"fmt"
	"math/big"
	"sort"

	"routeScope/internal/tickmath"
)

// Tick is an initialized tick of a concentrated liquidity pool.
type Tick struct {
	Index          int
	LiquidityGross *big.Int
	LiquidityNet   *big.Int
}

// TickDataProvider exposes the initialized ticks a swap walks over.
type TickDataProvider interface {
	GetTick(index int) (Tick, error)
	NextInitializedTickWithinOneWord(tick int, lte bool, tickSpacing int) (int, bool, error)
}

// TickList is an ascending list of initialized ticks.
type TickList []Tick

// NewTickList copies and validates ticks for the given spacing. Ticks must be strictly
// ascending multiples of the spacing and their net liquidity must sum to zero.
func NewTickList(ticks []Tick, tickSpacing int) (TickList, error) {
	if tickSpacing <= 0 {
		return nil, fmt.Errorf("%w: tick spacing %d", ErrInvalidTickList, tickSpacing)
	}
	list := make(TickList, len(ticks))
	sum := new(big.Int)
	for i, tick := range ticks {
		if tick.Index < tickmath.MinTick || tick.Index > tickmath.MaxTick {
			return nil, fmt.Errorf("%w: tick %d", ErrTickOutOfBounds, tick.Index)
		}
		if tick.Index%tickSpacing != 0 {
			return nil, fmt.Errorf("%w: tick %d not a multiple of spacing %d", ErrInvalidTickList, tick.Index, tickSpacing)
		}
		if i > 0 && tick.Index <= ticks[i-1].Index {
			return nil, fmt.Errorf("%w: ticks not sorted at %d", ErrInvalidTickList, tick.Index)
		}
		net := new(big.Int)
		if tick.LiquidityNet != nil {
			net.Set(tick.LiquidityNet)
		}
		gross := new(big.Int)
		if tick.LiquidityGross != nil {
			gross.Set(tick.LiquidityGross)
		}
		sum.Add(sum, net)
		list[i] = Tick{Index: tick.Index, LiquidityGross: gross, LiquidityNet: net}
	}
	if sum.Sign() != 0 {
		return nil, fmt.Errorf("%w: net liquidity sums to %s", ErrInvalidTickList, sum.String())
	}
	return list, nil
}

func (l TickList) isBelowSmallest(tick int) bool {
	return len(l) == 0 || tick < l[0].Index
}

func (l TickList) isAtOrAboveLargest(tick int) bool {
	return len(l) == 0 || tick >= l[len(l)-1].Index
}

// search returns the position of the largest tick <= tick. The tick must not be below the smallest.
func (l TickList) search(tick int) int {
	return sort.Search(len(l), func(i int) bool { return l[i].Index > tick }) - 1
}

// GetTick returns the initialized tick at index.
func (l TickList) GetTick(index int) (Tick, error) {
	if l.isBelowSmallest(index) {
		return Tick{}, fmt.Errorf("%w: tick %d not initialized", ErrInvalidTick, index)
	}
	tick := l[l.search(index)]
	if tick.Index != index {
		return Tick{}, fmt.Errorf("%w: tick %d not initialized", ErrInvalidTick, index)
	}
	return tick, nil
}

// NextInitializedTick returns the closest initialized tick at or below (lte) or strictly above tick.
func (l TickList) NextInitializedTick(tick int, lte bool) (Tick, error) {
	if lte {
		if l.isBelowSmallest(tick) {
			return Tick{}, fmt.Errorf("%w: below smallest tick", ErrInvalidTick)
		}
		if l.isAtOrAboveLargest(tick) {
			return l[len(l)-1], nil
		}
		return l[l.search(tick)], nil
	}
	if l.isAtOrAboveLargest(tick) {
		return Tick{}, fmt.Errorf("%w: at or above largest tick", ErrInvalidTick)
	}
	if l.isBelowSmallest(tick) {
		return l[0], nil
	}
	return l[l.search(tick)+1], nil
}

// NextInitializedTickWithinOneWord mirrors the on-chain bitmap search: the result never leaves
// the 256-tick word of the compressed tick. The boolean reports whether the tick is initialized.
func (l TickList) NextInitializedTickWithinOneWord(tick int, lte bool, tickSpacing int) (int, bool, error) {
	compressed := floorDiv(tick, tickSpacing)
	if lte {
		wordPos := compressed >> 8
		minimum := (wordPos << 8) * tickSpacing
		if l.isBelowSmallest(tick) {
			return minimum, false, nil
		}
		next, err := l.NextInitializedTick(tick, lte)
		if err != nil {
			return 0, false, err
		}
		if next.Index < minimum {
			return minimum, false, nil
		}
		return next.Index, true, nil
	}
	wordPos := (compressed + 1) >> 8
	maximum := ((wordPos+1)<<8)*tickSpacing - 1
	if l.isAtOrAboveLargest(tick) {
		return maximum, false, nil
	}
	next, err := l.NextInitializedTick(tick, lte)
	if err != nil {
		return 0, false, err
	}
	if next.Index > maximum {
		return maximum, false, nil
	}
	return next.Index, true, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
