package entities

import "math/big"

var hundred = FractionFromInt(100)

// Percent is a fraction rendered as a percentage.
type Percent struct {
	Fraction
}

func NewPercent(num, den *big.Int) (Percent, error) {
	f, err := NewFraction(num, den)
	if err != nil {
		return Percent{}, err
	}
	return Percent{Fraction: f}, nil
}

// PercentFromBips returns bips/10000.
func PercentFromBips(bips int64) Percent {
	return Percent{Fraction: Fraction{num: big.NewInt(bips), den: big.NewInt(10_000)}}
}

func (p Percent) ToSignificant(digits int, rounding Rounding) (string, error) {
	return p.Fraction.Mul(hundred).ToSignificant(digits, rounding)
}

func (p Percent) ToFixed(places int, rounding Rounding) (string, error) {
	return p.Fraction.Mul(hundred).ToFixed(places, rounding)
}
