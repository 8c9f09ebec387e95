package fullmath

import (
	"errors"
	"math/big"
	"testing"
)

func TestMulDiv(t *testing.T) {
	got, err := MulDiv(big.NewInt(7), big.NewInt(3), big.NewInt(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("floor mismatch: %s", got)
	}

	got, err = MulDivRoundingUp(big.NewInt(7), big.NewInt(3), big.NewInt(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Cmp(big.NewInt(11)) != 0 {
		t.Fatalf("ceil mismatch: %s", got)
	}

	got, err = MulDivRoundingUp(big.NewInt(6), big.NewInt(3), big.NewInt(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Cmp(big.NewInt(9)) != 0 {
		t.Fatalf("exact ceil mismatch: %s", got)
	}
}

func TestMulDivWidePhantomOverflow(t *testing.T) {
	// (2^256-1)^2 / (2^256-1) must not lose precision.
	got, err := MulDiv(MaxUint256, MaxUint256, MaxUint256)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Cmp(MaxUint256) != 0 {
		t.Fatalf("wide mul-div mismatch: %s", got)
	}

	got, err = MulDivRoundingUp(Q96, Q96, Q192)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("q96 mismatch: %s", got)
	}
}

func TestMulDivDivisionByZero(t *testing.T) {
	if _, err := MulDiv(big.NewInt(1), big.NewInt(1), big.NewInt(0)); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected division by zero, got %v", err)
	}
	if _, err := MulDivRoundingUp(big.NewInt(1), big.NewInt(1), big.NewInt(0)); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected division by zero, got %v", err)
	}
	if _, err := DivRoundingUp(big.NewInt(1), big.NewInt(0)); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected division by zero, got %v", err)
	}
}

func TestDivRoundingUp(t *testing.T) {
	got, err := DivRoundingUp(big.NewInt(10), big.NewInt(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Cmp(big.NewInt(4)) != 0 {
		t.Fatalf("ceil mismatch: %s", got)
	}
}
