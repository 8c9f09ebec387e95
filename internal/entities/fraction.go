package entities

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Rounding selects how a value is rounded when rendered.
type Rounding int

const (
	RoundDown Rounding = iota
	RoundHalfUp
	RoundUp
)

var (
	bigOne = big.NewInt(1)
	bigTen = big.NewInt(10)
)

// Fraction is an exact rational number. The denominator is always positive.
type Fraction struct {
	num *big.Int
	den *big.Int
}

// NewFraction returns num/den. A zero denominator is rejected.
func NewFraction(num, den *big.Int) (Fraction, error) {
	if den == nil || den.Sign() == 0 {
		return Fraction{}, ErrInvalidDenominator
	}
	n := new(big.Int).Set(num)
	d := new(big.Int).Set(den)
	if d.Sign() < 0 {
		n.Neg(n)
		d.Neg(d)
	}
	return Fraction{num: n, den: d}, nil
}

// FractionFromInt returns the integer n as a fraction.
func FractionFromInt(n int64) Fraction {
	return Fraction{num: big.NewInt(n), den: big.NewInt(1)}
}

func (f Fraction) Numerator() *big.Int   { return new(big.Int).Set(f.num) }
func (f Fraction) Denominator() *big.Int { return new(big.Int).Set(f.den) }

// Quotient is the integer part, truncated toward zero.
func (f Fraction) Quotient() *big.Int {
	return new(big.Int).Quo(f.num, f.den)
}

// Remainder is the fractional part left after Quotient.
func (f Fraction) Remainder() Fraction {
	return Fraction{num: new(big.Int).Rem(f.num, f.den), den: new(big.Int).Set(f.den)}
}

func (f Fraction) Invert() (Fraction, error) {
	return NewFraction(f.den, f.num)
}

func (f Fraction) Neg() Fraction {
	return Fraction{num: new(big.Int).Neg(f.num), den: new(big.Int).Set(f.den)}
}

func (f Fraction) Add(other Fraction) Fraction {
	if f.den.Cmp(other.den) == 0 {
		return Fraction{num: new(big.Int).Add(f.num, other.num), den: new(big.Int).Set(f.den)}
	}
	num := new(big.Int).Mul(f.num, other.den)
	num.Add(num, new(big.Int).Mul(other.num, f.den))
	return Fraction{num: num, den: new(big.Int).Mul(f.den, other.den)}
}

func (f Fraction) Sub(other Fraction) Fraction {
	return f.Add(other.Neg())
}

func (f Fraction) Mul(other Fraction) Fraction {
	return Fraction{
		num: new(big.Int).Mul(f.num, other.num),
		den: new(big.Int).Mul(f.den, other.den),
	}
}

func (f Fraction) Div(other Fraction) (Fraction, error) {
	return NewFraction(new(big.Int).Mul(f.num, other.den), new(big.Int).Mul(f.den, other.num))
}

// Cmp compares by cross multiplication.
func (f Fraction) Cmp(other Fraction) int {
	left := new(big.Int).Mul(f.num, other.den)
	right := new(big.Int).Mul(other.num, f.den)
	return left.Cmp(right)
}

func (f Fraction) LessThan(other Fraction) bool    { return f.Cmp(other) < 0 }
func (f Fraction) EqualTo(other Fraction) bool     { return f.Cmp(other) == 0 }
func (f Fraction) GreaterThan(other Fraction) bool { return f.Cmp(other) > 0 }

// ToSignificant renders the value with at most digits significant digits.
// Trailing zeros after the decimal point are dropped.
func (f Fraction) ToSignificant(digits int, rounding Rounding) (string, error) {
	if digits <= 0 {
		return "", fmt.Errorf("%w: significant digits %d", ErrInvalidOption, digits)
	}
	if f.num.Sign() == 0 {
		return "0", nil
	}
	abs := new(big.Int).Abs(f.num)
	exp := magnitude(abs, f.den)
	places := digits - 1 - exp

	var scaled *big.Int
	if places >= 0 {
		scaled = roundQuo(new(big.Int).Mul(abs, pow10(places)), f.den, rounding)
	} else {
		scaled = roundQuo(abs, new(big.Int).Mul(f.den, pow10(-places)), rounding)
	}
	if f.num.Sign() < 0 {
		scaled.Neg(scaled)
	}
	return decimal.NewFromBigInt(scaled, int32(-places)).String(), nil
}

// ToFixed renders the value with exactly places digits after the decimal point.
func (f Fraction) ToFixed(places int, rounding Rounding) (string, error) {
	if places < 0 {
		return "", fmt.Errorf("%w: decimal places %d", ErrInvalidOption, places)
	}
	abs := new(big.Int).Abs(f.num)
	scaled := roundQuo(abs.Mul(abs, pow10(places)), f.den, rounding)
	if f.num.Sign() < 0 {
		scaled.Neg(scaled)
	}
	return decimal.NewFromBigInt(scaled, int32(-places)).StringFixed(int32(places)), nil
}

func (f Fraction) String() string {
	return f.num.String() + "/" + f.den.String()
}

// magnitude returns floor(log10(num/den)) for positive num and den.
func magnitude(num, den *big.Int) int {
	exp := len(num.String()) - len(den.String())
	if !atLeastPow10(num, den, exp) {
		exp--
	}
	return exp
}

// atLeastPow10 reports num/den >= 10^exp.
func atLeastPow10(num, den *big.Int, exp int) bool {
	if exp >= 0 {
		return num.Cmp(new(big.Int).Mul(den, pow10(exp))) >= 0
	}
	return new(big.Int).Mul(num, pow10(-exp)).Cmp(den) >= 0
}

// roundQuo divides non-negative num by positive den.
func roundQuo(num, den *big.Int, rounding Rounding) *big.Int {
	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	switch rounding {
	case RoundUp:
		if r.Sign() > 0 {
			q.Add(q, bigOne)
		}
	case RoundHalfUp:
		if new(big.Int).Lsh(r, 1).Cmp(den) >= 0 {
			q.Add(q, bigOne)
		}
	}
	return q
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(bigTen, big.NewInt(int64(n)), nil)
}
