package sqrtpricemath

import (
	"errors"
	"math/big"
	"testing"

	"routeScope/internal/fullmath"
)

func expandTo18(v int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(v), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func TestNextSqrtPriceFromInputValidation(t *testing.T) {
	if _, err := NextSqrtPriceFromInput(big.NewInt(0), big.NewInt(1), big.NewInt(1), true); !errors.Is(err, ErrSqrtPriceZero) {
		t.Fatalf("expected sqrt price zero, got %v", err)
	}
	if _, err := NextSqrtPriceFromInput(big.NewInt(1), big.NewInt(0), big.NewInt(1), true); !errors.Is(err, ErrLiquidityZero) {
		t.Fatalf("expected liquidity zero, got %v", err)
	}
}

func TestNextSqrtPriceFromInputZeroAmount(t *testing.T) {
	price := new(big.Int).Set(fullmath.Q96)
	got, err := NextSqrtPriceFromInput(price, expandTo18(1), big.NewInt(0), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Cmp(price) != 0 {
		t.Fatalf("zero input moved price: %s", got)
	}
}

func TestNextSqrtPriceFromInputDirection(t *testing.T) {
	price := new(big.Int).Set(fullmath.Q96)
	liquidity := expandTo18(1)
	amount := new(big.Int).Div(expandTo18(1), big.NewInt(10))

	down, err := NextSqrtPriceFromInput(price, liquidity, amount, true)
	if err != nil {
		t.Fatalf("zeroForOne: %v", err)
	}
	if down.Cmp(price) >= 0 {
		t.Fatalf("token0 input should lower price")
	}

	up, err := NextSqrtPriceFromInput(price, liquidity, amount, false)
	if err != nil {
		t.Fatalf("oneForZero: %v", err)
	}
	if up.Cmp(price) <= 0 {
		t.Fatalf("token1 input should raise price")
	}

	// price + 0.1 * Q96 exactly, since liquidity is 1e18.
	want := new(big.Int).Add(price, new(big.Int).Div(fullmath.Q96, big.NewInt(10)))
	if up.Cmp(want) != 0 {
		t.Fatalf("token1 input mismatch: %s != %s", up, want)
	}
}

func TestNextSqrtPriceFromOutputTooLarge(t *testing.T) {
	price := new(big.Int).Set(fullmath.Q96)
	liquidity := big.NewInt(1000)
	if _, err := NextSqrtPriceFromOutput(price, liquidity, big.NewInt(1000), false); !errors.Is(err, ErrPriceOverflow) {
		t.Fatalf("expected overflow removing all token0, got %v", err)
	}
	if _, err := NextSqrtPriceFromOutput(price, liquidity, big.NewInt(1000), true); !errors.Is(err, ErrPriceOverflow) {
		t.Fatalf("expected overflow removing all token1, got %v", err)
	}
}

func TestAmountDeltas(t *testing.T) {
	liquidity := expandTo18(1)
	a := new(big.Int).Set(fullmath.Q96)
	b := new(big.Int).Mul(fullmath.Q96, big.NewInt(2))

	amount1, err := Amount1Delta(a, b, liquidity, false)
	if err != nil {
		t.Fatalf("amount1: %v", err)
	}
	if amount1.Cmp(liquidity) != 0 {
		t.Fatalf("amount1 mismatch: %s", amount1)
	}

	amount0Down, err := Amount0Delta(b, a, liquidity, false)
	if err != nil {
		t.Fatalf("amount0: %v", err)
	}
	amount0Up, err := Amount0Delta(a, b, liquidity, true)
	if err != nil {
		t.Fatalf("amount0 up: %v", err)
	}
	half := new(big.Int).Div(liquidity, big.NewInt(2))
	if amount0Down.Cmp(half) != 0 || amount0Up.Cmp(half) != 0 {
		t.Fatalf("amount0 mismatch: %s %s", amount0Down, amount0Up)
	}

	if _, err := Amount0Delta(big.NewInt(0), b, liquidity, false); !errors.Is(err, ErrSqrtPriceZero) {
		t.Fatalf("expected sqrt price zero, got %v", err)
	}
}
