package entities

import (
	"fmt"
	"math/big"
)

// Price is the exchange rate of quote per base. The raw ratio is expressed in
// smallest units; the adjusted ratio accounts for the currencies' decimals.
type Price struct {
	base   Currency
	quote  Currency
	raw    Fraction
	scalar Fraction
}

// NewPrice builds a price from the amount of base that trades for an amount of quote.
func NewPrice(base, quote Currency, baseAmount, quoteAmount *big.Int) (Price, error) {
	raw, err := NewFraction(quoteAmount, baseAmount)
	if err != nil {
		return Price{}, err
	}
	return Price{
		base:  base,
		quote: quote,
		raw:   raw,
		scalar: Fraction{
			num: pow10(int(base.decimals)),
			den: pow10(int(quote.decimals)),
		},
	}, nil
}

func (p Price) BaseCurrency() Currency  { return p.base }
func (p Price) QuoteCurrency() Currency { return p.quote }

// Raw is the ratio in smallest units.
func (p Price) Raw() Fraction { return p.raw }

// Adjusted is the ratio in whole units.
func (p Price) Adjusted() Fraction { return p.raw.Mul(p.scalar) }

// Invert swaps base and quote.
func (p Price) Invert() (Price, error) {
	return NewPrice(p.quote, p.base, p.raw.num, p.raw.den)
}

// Multiply chains p (base->quote) with other (quote->other quote).
func (p Price) Multiply(other Price) (Price, error) {
	if !p.quote.Equal(other.base) {
		return Price{}, fmt.Errorf("%w: %s quote vs %s base", ErrCurrencyMismatch, p.quote, other.base)
	}
	product := p.raw.Mul(other.raw)
	return NewPrice(p.base, other.quote, product.den, product.num)
}

// Quote converts an amount of base into quote, rounding down.
func (p Price) Quote(amount CurrencyAmount) (CurrencyAmount, error) {
	if !amount.currency.Equal(p.base) {
		return CurrencyAmount{}, fmt.Errorf("%w: %s is not %s", ErrCurrencyMismatch, amount.currency, p.base)
	}
	out := new(big.Int).Mul(amount.Raw(), p.raw.num)
	out.Quo(out, p.raw.den)
	return NewCurrencyAmount(p.quote, out)
}

func (p Price) Cmp(other Price) int          { return p.raw.Cmp(other.raw) }
func (p Price) LessThan(other Price) bool    { return p.Cmp(other) < 0 }
func (p Price) EqualTo(other Price) bool     { return p.Cmp(other) == 0 }
func (p Price) GreaterThan(other Price) bool { return p.Cmp(other) > 0 }

func (p Price) ToSignificant(digits int, rounding Rounding) (string, error) {
	return p.Adjusted().ToSignificant(digits, rounding)
}

func (p Price) ToFixed(places int, rounding Rounding) (string, error) {
	return p.Adjusted().ToFixed(places, rounding)
}

func (p Price) String() string {
	s, _ := p.ToSignificant(6, RoundHalfUp)
	return fmt.Sprintf("%s %s/%s", s, p.quote, p.base)
}
