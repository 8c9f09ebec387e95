package entities

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"routeScope/internal/swapmath"
)

// Pair is a constant product pool. The fee is charged on the input amount.
type Pair struct {
	address  common.Address
	reserve0 CurrencyAmount
	reserve1 CurrencyAmount
	fee      uint32

	pricesOnce  sync.Once
	token0Price Price
	token1Price Price
	pricesErr   error
}

// NewPair builds a pair from its reserves. The address is derived with create2 when zero.
func NewPair(cfg ChainConfig, reserveA, reserveB CurrencyAmount, fee uint32, address common.Address) (*Pair, error) {
	if !reserveA.Currency().IsToken() || !reserveB.Currency().IsToken() {
		return nil, fmt.Errorf("%w: pair reserves must be tokens", ErrCurrencyMismatch)
	}
	before, err := reserveA.Currency().SortsBefore(reserveB.Currency())
	if err != nil {
		return nil, err
	}
	if !before {
		reserveA, reserveB = reserveB, reserveA
	}
	if reserveA.Currency().ChainID() != cfg.ChainID {
		return nil, fmt.Errorf("%w: pair on %d, config for %d", ErrChainMismatch, reserveA.Currency().ChainID(), cfg.ChainID)
	}
	if reserveA.Raw().Sign() < 0 || reserveB.Raw().Sign() < 0 {
		return nil, fmt.Errorf("%w: negative reserve", ErrInvalidAmount)
	}
	if fee >= uint32(swapmath.FeeDenominator.Int64()) {
		return nil, fmt.Errorf("%w: fee %d", ErrInvalidOption, fee)
	}
	if address == (common.Address{}) {
		address, err = GetAddress(reserveA.Currency(), reserveB.Currency(), cfg.PoolDeployer, cfg.InitCodeHash)
		if err != nil {
			return nil, err
		}
	}
	return &Pair{address: address, reserve0: reserveA, reserve1: reserveB, fee: fee}, nil
}

func (p *Pair) Protocol() Protocol            { return ProtocolV2 }
func (p *Pair) ChainID() ChainID              { return p.reserve0.Currency().ChainID() }
func (p *Pair) Address() common.Address       { return p.address }
func (p *Pair) Token0() Currency              { return p.reserve0.Currency() }
func (p *Pair) Token1() Currency              { return p.reserve1.Currency() }
func (p *Pair) Fee() uint32                   { return p.fee }
func (p *Pair) Reserve0() CurrencyAmount      { return p.reserve0 }
func (p *Pair) Reserve1() CurrencyAmount      { return p.reserve1 }
func (p *Pair) InvolvesToken(c Currency) bool { return involvesToken(p, c) }

func (p *Pair) prices() {
	p.pricesOnce.Do(func() {
		p.token0Price, p.pricesErr = NewPrice(p.Token0(), p.Token1(), p.reserve0.Raw(), p.reserve1.Raw())
		if p.pricesErr != nil {
			return
		}
		p.token1Price, p.pricesErr = p.token0Price.Invert()
	})
}

// Token0Price is the price of token0 in token1. An empty pair has a zero-valued price.
func (p *Pair) Token0Price() Price {
	p.prices()
	return p.token0Price
}

// Token1Price is the price of token1 in token0.
func (p *Pair) Token1Price() Price {
	p.prices()
	return p.token1Price
}

func (p *Pair) PriceOf(token Currency) (Price, error) {
	p.prices()
	if p.pricesErr != nil {
		return Price{}, fmt.Errorf("%w: empty reserves", ErrInsufficientLiquidity)
	}
	return priceOf(p, token)
}

// ReserveOf returns the reserve of a pair token.
func (p *Pair) ReserveOf(token Currency) (CurrencyAmount, error) {
	switch {
	case token.Equal(p.Token0()):
		return p.reserve0, nil
	case token.Equal(p.Token1()):
		return p.reserve1, nil
	default:
		return CurrencyAmount{}, fmt.Errorf("%w: %s not in pair %s", ErrCurrencyMismatch, token, p.address.Hex())
	}
}

func (p *Pair) reserves(token Currency) (*big.Int, *big.Int, error) {
	in, err := p.ReserveOf(token)
	if err != nil {
		return nil, nil, err
	}
	out, _ := p.ReserveOf(otherToken(p, token))
	if in.IsZero() || out.IsZero() {
		return nil, nil, fmt.Errorf("%w: empty reserves", ErrInsufficientLiquidity)
	}
	return in.Raw(), out.Raw(), nil
}

// GetOutputAmount applies out = in*(1-fee)*rOut / (rIn + in*(1-fee)), rounded down.
func (p *Pair) GetOutputAmount(inputAmount CurrencyAmount) (CurrencyAmount, Pool, error) {
	reserveIn, reserveOut, err := p.reserves(inputAmount.Currency())
	if err != nil {
		return CurrencyAmount{}, nil, err
	}
	if inputAmount.Raw().Sign() < 0 {
		return CurrencyAmount{}, nil, fmt.Errorf("%w: negative input", ErrInvalidAmount)
	}
	feeComplement := new(big.Int).Sub(swapmath.FeeDenominator, big.NewInt(int64(p.fee)))
	inputWithFee := new(big.Int).Mul(inputAmount.Raw(), feeComplement)
	numerator := new(big.Int).Mul(inputWithFee, reserveOut)
	denominator := new(big.Int).Mul(reserveIn, swapmath.FeeDenominator)
	denominator.Add(denominator, inputWithFee)
	out := numerator.Quo(numerator, denominator)
	if out.Sign() == 0 {
		return CurrencyAmount{}, nil, fmt.Errorf("%w: zero output", ErrInsufficientLiquidity)
	}

	outputToken := otherToken(p, inputAmount.Currency())
	outputAmount, err := NewCurrencyAmount(outputToken, out)
	if err != nil {
		return CurrencyAmount{}, nil, err
	}
	next, err := p.afterSwap(inputAmount.Currency(), new(big.Int).Add(reserveIn, inputAmount.Raw()), new(big.Int).Sub(reserveOut, out))
	if err != nil {
		return CurrencyAmount{}, nil, err
	}
	return outputAmount, next, nil
}

// GetInputAmount applies in = rIn*out / ((rOut-out)*(1-fee)) + 1.
func (p *Pair) GetInputAmount(outputAmount CurrencyAmount) (CurrencyAmount, Pool, error) {
	reserveOut, reserveIn, err := p.reserves(outputAmount.Currency())
	if err != nil {
		return CurrencyAmount{}, nil, err
	}
	if outputAmount.Raw().Sign() <= 0 {
		return CurrencyAmount{}, nil, fmt.Errorf("%w: output must be positive", ErrInvalidAmount)
	}
	if outputAmount.Raw().Cmp(reserveOut) >= 0 {
		return CurrencyAmount{}, nil, fmt.Errorf("%w: output %s exceeds reserve %s", ErrInsufficientLiquidity, outputAmount.Raw().String(), reserveOut.String())
	}
	feeComplement := new(big.Int).Sub(swapmath.FeeDenominator, big.NewInt(int64(p.fee)))
	numerator := new(big.Int).Mul(reserveIn, outputAmount.Raw())
	numerator.Mul(numerator, swapmath.FeeDenominator)
	denominator := new(big.Int).Sub(reserveOut, outputAmount.Raw())
	denominator.Mul(denominator, feeComplement)
	in := numerator.Quo(numerator, denominator)
	in.Add(in, bigOne)

	inputToken := otherToken(p, outputAmount.Currency())
	inputAmount, err := NewCurrencyAmount(inputToken, in)
	if err != nil {
		return CurrencyAmount{}, nil, err
	}
	next, err := p.afterSwap(inputToken, new(big.Int).Add(reserveIn, in), new(big.Int).Sub(reserveOut, outputAmount.Raw()))
	if err != nil {
		return CurrencyAmount{}, nil, err
	}
	return inputAmount, next, nil
}

func (p *Pair) afterSwap(inputToken Currency, reserveIn, reserveOut *big.Int) (*Pair, error) {
	in, err := NewCurrencyAmount(inputToken, reserveIn)
	if err != nil {
		return nil, err
	}
	out, err := NewCurrencyAmount(otherToken(p, inputToken), reserveOut)
	if err != nil {
		return nil, err
	}
	next := &Pair{address: p.address, fee: p.fee, reserve0: in, reserve1: out}
	if !inputToken.Equal(p.Token0()) {
		next.reserve0, next.reserve1 = out, in
	}
	return next, nil
}
