package entities

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"routeScope/internal/fullmath"
)

// CurrencyAmount is an integer amount of a currency in its smallest unit.
type CurrencyAmount struct {
	currency Currency
	raw      *big.Int
}

// NewCurrencyAmount rejects amounts that do not fit in 256 bits.
func NewCurrencyAmount(currency Currency, raw *big.Int) (CurrencyAmount, error) {
	if raw == nil {
		return CurrencyAmount{}, fmt.Errorf("%w: nil amount", ErrInvalidAmount)
	}
	if new(big.Int).Abs(raw).Cmp(fullmath.MaxUint256) > 0 {
		return CurrencyAmount{}, fmt.Errorf("%w: %s exceeds uint256", ErrInvalidAmount, raw.String())
	}
	return CurrencyAmount{currency: currency, raw: new(big.Int).Set(raw)}, nil
}

// ParseCurrencyAmount reads a base-10 integer in the currency's smallest unit.
func ParseCurrencyAmount(currency Currency, value string) (CurrencyAmount, error) {
	raw, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return CurrencyAmount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}
	return NewCurrencyAmount(currency, raw)
}

func (a CurrencyAmount) Currency() Currency { return a.currency }

// Raw returns a copy of the integer amount.
func (a CurrencyAmount) Raw() *big.Int {
	if a.raw == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.raw)
}

func (a CurrencyAmount) IsZero() bool { return a.raw == nil || a.raw.Sign() == 0 }

func (a CurrencyAmount) Add(other CurrencyAmount) (CurrencyAmount, error) {
	if !a.currency.Equal(other.currency) {
		return CurrencyAmount{}, ErrCurrencyMismatch
	}
	return NewCurrencyAmount(a.currency, new(big.Int).Add(a.Raw(), other.Raw()))
}

func (a CurrencyAmount) Sub(other CurrencyAmount) (CurrencyAmount, error) {
	if !a.currency.Equal(other.currency) {
		return CurrencyAmount{}, ErrCurrencyMismatch
	}
	return NewCurrencyAmount(a.currency, new(big.Int).Sub(a.Raw(), other.Raw()))
}

// Cmp compares raw amounts; the currencies are not checked.
func (a CurrencyAmount) Cmp(other CurrencyAmount) int {
	return a.Raw().Cmp(other.Raw())
}

func (a CurrencyAmount) Equal(other CurrencyAmount) bool {
	return a.currency.Equal(other.currency) && a.Cmp(other) == 0
}

// AsFraction returns the amount in whole units.
func (a CurrencyAmount) AsFraction() Fraction {
	return Fraction{num: a.Raw(), den: pow10(int(a.currency.decimals))}
}

func (a CurrencyAmount) ToSignificant(digits int, rounding Rounding) (string, error) {
	return a.AsFraction().ToSignificant(digits, rounding)
}

// ToFixed renders whole units; places may not exceed the currency decimals.
func (a CurrencyAmount) ToFixed(places int, rounding Rounding) (string, error) {
	if places > int(a.currency.decimals) {
		return "", fmt.Errorf("%w: %d places exceed %d decimals", ErrInvalidOption, places, a.currency.decimals)
	}
	return a.AsFraction().ToFixed(places, rounding)
}

// ToExact renders the amount in whole units without rounding.
func (a CurrencyAmount) ToExact() string {
	return decimal.NewFromBigInt(a.Raw(), -int32(a.currency.decimals)).String()
}

func (a CurrencyAmount) String() string {
	return a.ToExact() + " " + a.currency.String()
}
