package entities

import (
	"fmt"
	"math/big"
	"sync"
)

// TradeType fixes which side of a trade is exact.
type TradeType int

const (
	ExactInput TradeType = iota
	ExactOutput
)

func (t TradeType) String() string {
	switch t {
	case ExactInput:
		return "exact_input"
	case ExactOutput:
		return "exact_output"
	default:
		return fmt.Sprintf("TradeType(%d)", int(t))
	}
}

// ParseTradeType accepts "exact_input"/"in" and "exact_output"/"out".
func ParseTradeType(value string) (TradeType, error) {
	switch value {
	case "exact_input", "in":
		return ExactInput, nil
	case "exact_output", "out":
		return ExactOutput, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidTradeType, value)
	}
}

// Swap is one route of a trade with its simulated amounts.
type Swap struct {
	Route        *Route
	InputAmount  CurrencyAmount
	OutputAmount CurrencyAmount
}

// RouteAmount pairs a route with the exact amount sent through it.
type RouteAmount struct {
	Route  *Route
	Amount CurrencyAmount
}

// Trade is a swap through one or more routes sharing input and output currencies.
type Trade struct {
	swaps        []Swap
	tradeType    TradeType
	inputAmount  CurrencyAmount
	outputAmount CurrencyAmount

	executionOnce  sync.Once
	executionPrice Price
	executionErr   error

	impactOnce  sync.Once
	priceImpact Percent
	impactErr   error
}

// FromRoute simulates amount through every hop of route. For exact output trades the
// route is walked backwards from the output.
func FromRoute(route *Route, amount CurrencyAmount, tradeType TradeType) (*Trade, error) {
	swap, err := simulateRoute(route, amount, tradeType)
	if err != nil {
		return nil, err
	}
	return newTrade([]Swap{swap}, tradeType)
}

// FromRoutes simulates each route with its own amount and combines the results.
func FromRoutes(routes []RouteAmount, tradeType TradeType) (*Trade, error) {
	swaps := make([]Swap, 0, len(routes))
	for _, ra := range routes {
		swap, err := simulateRoute(ra.Route, ra.Amount, tradeType)
		if err != nil {
			return nil, err
		}
		swaps = append(swaps, swap)
	}
	return newTrade(swaps, tradeType)
}

// NewUncheckedTrade builds a trade from amounts computed elsewhere. No simulation is run.
func NewUncheckedTrade(route *Route, inputAmount, outputAmount CurrencyAmount, tradeType TradeType) (*Trade, error) {
	return newTrade([]Swap{{Route: route, InputAmount: inputAmount, OutputAmount: outputAmount}}, tradeType)
}

// NewUncheckedTradeWithMultipleRoutes is NewUncheckedTrade for several routes.
func NewUncheckedTradeWithMultipleRoutes(swaps []Swap, tradeType TradeType) (*Trade, error) {
	return newTrade(append([]Swap(nil), swaps...), tradeType)
}

func simulateRoute(route *Route, amount CurrencyAmount, tradeType TradeType) (Swap, error) {
	if route == nil {
		return Swap{}, ErrNoPools
	}
	pools := route.pools
	switch tradeType {
	case ExactInput:
		if !amount.Currency().Equal(route.input) {
			return Swap{}, fmt.Errorf("%w: amount in %s, route from %s", ErrInputCurrencyMismatch, amount.Currency(), route.input)
		}
		current, err := route.chain.WrapAmount(amount)
		if err != nil {
			return Swap{}, err
		}
		for _, pool := range pools {
			current, _, err = pool.GetOutputAmount(current)
			if err != nil {
				return Swap{}, err
			}
		}
		output, err := NewCurrencyAmount(route.output, current.Raw())
		if err != nil {
			return Swap{}, err
		}
		return Swap{Route: route, InputAmount: amount, OutputAmount: output}, nil
	case ExactOutput:
		if !amount.Currency().Equal(route.output) {
			return Swap{}, fmt.Errorf("%w: amount in %s, route to %s", ErrOutputCurrencyMismatch, amount.Currency(), route.output)
		}
		current, err := route.chain.WrapAmount(amount)
		if err != nil {
			return Swap{}, err
		}
		for i := len(pools) - 1; i >= 0; i-- {
			current, _, err = pools[i].GetInputAmount(current)
			if err != nil {
				return Swap{}, err
			}
		}
		input, err := NewCurrencyAmount(route.input, current.Raw())
		if err != nil {
			return Swap{}, err
		}
		return Swap{Route: route, InputAmount: input, OutputAmount: amount}, nil
	default:
		return Swap{}, fmt.Errorf("%w: %d", ErrInvalidTradeType, int(tradeType))
	}
}

func newTrade(swaps []Swap, tradeType TradeType) (*Trade, error) {
	if tradeType != ExactInput && tradeType != ExactOutput {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTradeType, int(tradeType))
	}
	if len(swaps) == 0 {
		return nil, ErrNoPools
	}
	for _, swap := range swaps {
		if swap.Route == nil {
			return nil, ErrNoPools
		}
	}

	first := swaps[0]
	chain := first.Route.chain
	inputCurrency, err := chain.Wrap(first.InputAmount.Currency())
	if err != nil {
		return nil, err
	}
	outputCurrency, err := chain.Wrap(first.OutputAmount.Currency())
	if err != nil {
		return nil, err
	}

	totalIn := new(big.Int)
	totalOut := new(big.Int)
	seen := make(map[string]struct{})
	numPools := 0
	for _, swap := range swaps {
		routeIn, err := swap.Route.chain.Wrap(swap.Route.input)
		if err != nil {
			return nil, err
		}
		swapIn, err := swap.Route.chain.Wrap(swap.InputAmount.Currency())
		if err != nil {
			return nil, err
		}
		if !routeIn.Equal(inputCurrency) || !swapIn.Equal(inputCurrency) {
			return nil, fmt.Errorf("%w: route from %s, trade from %s", ErrInputCurrencyMismatch, swap.Route.input, first.InputAmount.Currency())
		}
		routeOut, err := swap.Route.chain.Wrap(swap.Route.output)
		if err != nil {
			return nil, err
		}
		swapOut, err := swap.Route.chain.Wrap(swap.OutputAmount.Currency())
		if err != nil {
			return nil, err
		}
		if !routeOut.Equal(outputCurrency) || !swapOut.Equal(outputCurrency) {
			return nil, fmt.Errorf("%w: route to %s, trade to %s", ErrOutputCurrencyMismatch, swap.Route.output, first.OutputAmount.Currency())
		}
		for _, pool := range swap.Route.pools {
			numPools++
			seen[pool.Address().Hex()] = struct{}{}
		}
		totalIn.Add(totalIn, swap.InputAmount.Raw())
		totalOut.Add(totalOut, swap.OutputAmount.Raw())
	}
	if len(seen) != numPools {
		return nil, fmt.Errorf("%w: %d pools, %d distinct", ErrDuplicatePools, numPools, len(seen))
	}

	inputAmount, err := NewCurrencyAmount(first.InputAmount.Currency(), totalIn)
	if err != nil {
		return nil, err
	}
	outputAmount, err := NewCurrencyAmount(first.OutputAmount.Currency(), totalOut)
	if err != nil {
		return nil, err
	}
	return &Trade{
		swaps:        swaps,
		tradeType:    tradeType,
		inputAmount:  inputAmount,
		outputAmount: outputAmount,
	}, nil
}

func (t *Trade) TradeType() TradeType         { return t.tradeType }
func (t *Trade) InputAmount() CurrencyAmount  { return t.inputAmount }
func (t *Trade) OutputAmount() CurrencyAmount { return t.outputAmount }
func (t *Trade) Swaps() []Swap                { return append([]Swap(nil), t.swaps...) }

// Route returns the only route of a single route trade.
func (t *Trade) Route() (*Route, error) {
	if len(t.swaps) != 1 {
		return nil, fmt.Errorf("%w: %d routes", ErrMultipleRoutes, len(t.swaps))
	}
	return t.swaps[0].Route, nil
}

// Hops is the total number of pools over all routes.
func (t *Trade) Hops() int {
	hops := 0
	for _, swap := range t.swaps {
		hops += len(swap.Route.pools)
	}
	return hops
}

// ExecutionPrice is output per input over the whole trade, computed once.
func (t *Trade) ExecutionPrice() (Price, error) {
	t.executionOnce.Do(func() {
		t.executionPrice, t.executionErr = NewPrice(
			t.inputAmount.Currency(),
			t.outputAmount.Currency(),
			t.inputAmount.Raw(),
			t.outputAmount.Raw(),
		)
	})
	return t.executionPrice, t.executionErr
}

// PriceImpact is (spotOutput - output) / spotOutput where spotOutput quotes each swap's
// input at its route's mid price. Computed once.
func (t *Trade) PriceImpact() (Percent, error) {
	t.impactOnce.Do(func() {
		spotOutput := new(big.Int)
		for _, swap := range t.swaps {
			midPrice, err := swap.Route.MidPrice()
			if err != nil {
				t.impactErr = err
				return
			}
			quoted, err := midPrice.Quote(swap.InputAmount)
			if err != nil {
				t.impactErr = err
				return
			}
			spotOutput.Add(spotOutput, quoted.Raw())
		}
		t.priceImpact, t.impactErr = NewPercent(new(big.Int).Sub(spotOutput, t.outputAmount.Raw()), spotOutput)
	})
	return t.priceImpact, t.impactErr
}

// MinimumAmountOut is the least output accepted under slippageTolerance: output/(1+tolerance)
// rounded down for exact input trades, the exact output otherwise.
func (t *Trade) MinimumAmountOut(slippageTolerance Percent) (CurrencyAmount, error) {
	if err := checkSlippage(slippageTolerance); err != nil {
		return CurrencyAmount{}, err
	}
	if t.tradeType == ExactOutput {
		return t.outputAmount, nil
	}
	factor, err := FractionFromInt(1).Add(slippageTolerance.Fraction).Invert()
	if err != nil {
		return CurrencyAmount{}, err
	}
	adjusted := factor.Mul(Fraction{num: t.outputAmount.Raw(), den: big.NewInt(1)}).Quotient()
	return NewCurrencyAmount(t.outputAmount.Currency(), adjusted)
}

// MaximumAmountIn is the most input spent under slippageTolerance: input*(1+tolerance)
// rounded down for exact output trades, the exact input otherwise.
func (t *Trade) MaximumAmountIn(slippageTolerance Percent) (CurrencyAmount, error) {
	if err := checkSlippage(slippageTolerance); err != nil {
		return CurrencyAmount{}, err
	}
	if t.tradeType == ExactInput {
		return t.inputAmount, nil
	}
	factor := FractionFromInt(1).Add(slippageTolerance.Fraction)
	adjusted := factor.Mul(Fraction{num: t.inputAmount.Raw(), den: big.NewInt(1)}).Quotient()
	return NewCurrencyAmount(t.inputAmount.Currency(), adjusted)
}

// WorstExecutionPrice is the price implied by the slippage adjusted bounds.
func (t *Trade) WorstExecutionPrice(slippageTolerance Percent) (Price, error) {
	maxIn, err := t.MaximumAmountIn(slippageTolerance)
	if err != nil {
		return Price{}, err
	}
	minOut, err := t.MinimumAmountOut(slippageTolerance)
	if err != nil {
		return Price{}, err
	}
	return NewPrice(maxIn.Currency(), minOut.Currency(), maxIn.Raw(), minOut.Raw())
}

func checkSlippage(tolerance Percent) error {
	if tolerance.num == nil {
		return fmt.Errorf("%w: missing tolerance", ErrInvalidOption)
	}
	if tolerance.num.Sign() < 0 {
		return ErrNegativeSlippage
	}
	return nil
}

// InputOutputComparator orders trades between the same currencies: more output first,
// then less input.
func InputOutputComparator(a, b *Trade) int {
	if cmp := a.outputAmount.Cmp(b.outputAmount); cmp != 0 {
		return -cmp
	}
	return a.inputAmount.Cmp(b.inputAmount)
}

// TradeComparator extends InputOutputComparator with fewer hops first.
func TradeComparator(a, b *Trade) int {
	if cmp := InputOutputComparator(a, b); cmp != 0 {
		return cmp
	}
	return a.Hops() - b.Hops()
}
