package entities

import (
	"fmt"
	"strings"
	"sync"
)

// Route is an ordered chain of pools leading from an input currency to an output currency.
type Route struct {
	chain  ChainConfig
	pools  []Pool
	path   []Currency
	input  Currency
	output Currency

	midPriceOnce sync.Once
	midPrice     Price
	midPriceErr  error
}

// NewRoute validates that the pools form a continuous path from input to output.
// Native currencies are wrapped with the chain's wrapped native token.
func NewRoute(chain ChainConfig, pools []Pool, input, output Currency) (*Route, error) {
	if len(pools) == 0 {
		return nil, ErrNoPools
	}
	chainID := pools[0].ChainID()
	for _, pool := range pools[1:] {
		if pool.ChainID() != chainID {
			return nil, fmt.Errorf("%w: pool %s on %d, route on %d", ErrChainMismatch, pool.Address().Hex(), pool.ChainID(), chainID)
		}
	}
	if chain.ChainID != chainID {
		return nil, fmt.Errorf("%w: pools on %d, config for %d", ErrChainMismatch, chainID, chain.ChainID)
	}

	wrappedInput, err := chain.Wrap(input)
	if err != nil {
		return nil, err
	}
	if !pools[0].InvolvesToken(wrappedInput) {
		return nil, fmt.Errorf("%w: %s not in first pool", ErrInputCurrencyMismatch, input)
	}
	wrappedOutput, err := chain.Wrap(output)
	if err != nil {
		return nil, err
	}
	if !pools[len(pools)-1].InvolvesToken(wrappedOutput) {
		return nil, fmt.Errorf("%w: %s not in last pool", ErrOutputCurrencyMismatch, output)
	}

	path := make([]Currency, 0, len(pools)+1)
	path = append(path, wrappedInput)
	current := wrappedInput
	for i, pool := range pools {
		if !pool.InvolvesToken(current) {
			return nil, fmt.Errorf("%w: pool %d (%s) does not contain %s", ErrPathMismatch, i, pool.Address().Hex(), current)
		}
		current = otherToken(pool, current)
		path = append(path, current)
	}
	if !current.Equal(wrappedOutput) {
		return nil, fmt.Errorf("%w: path ends in %s, want %s", ErrPathMismatch, current, output)
	}

	return &Route{
		chain:  chain,
		pools:  append([]Pool(nil), pools...),
		path:   path,
		input:  input,
		output: output,
	}, nil
}

func (r *Route) Chain() ChainConfig { return r.chain }
func (r *Route) ChainID() ChainID   { return r.chain.ChainID }
func (r *Route) Input() Currency    { return r.input }
func (r *Route) Output() Currency   { return r.output }

// Pools returns the pools in path order.
func (r *Route) Pools() []Pool { return append([]Pool(nil), r.pools...) }

// Path returns the wrapped tokens visited, one more than the number of pools.
func (r *Route) Path() []Currency { return append([]Currency(nil), r.path...) }

// Protocol reports the pools' protocol, or ProtocolMixed when they differ.
func (r *Route) Protocol() Protocol {
	protocol := r.pools[0].Protocol()
	for _, pool := range r.pools[1:] {
		if pool.Protocol() != protocol {
			return ProtocolMixed
		}
	}
	return protocol
}

// MidPrice is the product of the spot prices along the path, computed once.
func (r *Route) MidPrice() (Price, error) {
	r.midPriceOnce.Do(func() {
		price, err := r.pools[0].PriceOf(r.path[0])
		if err != nil {
			r.midPriceErr = err
			return
		}
		for i, pool := range r.pools[1:] {
			hop, err := pool.PriceOf(r.path[i+1])
			if err != nil {
				r.midPriceErr = err
				return
			}
			if price, err = price.Multiply(hop); err != nil {
				r.midPriceErr = err
				return
			}
		}
		raw := price.Raw()
		r.midPrice, r.midPriceErr = NewPrice(r.input, r.output, raw.Denominator(), raw.Numerator())
	})
	return r.midPrice, r.midPriceErr
}

func (r *Route) String() string {
	symbols := make([]string, len(r.path))
	for i, token := range r.path {
		symbols[i] = token.String()
	}
	return strings.Join(symbols, " -> ")
}
