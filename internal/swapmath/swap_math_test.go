package swapmath

import (
	"errors"
	"math/big"
	"testing"

	"routeScope/internal/fullmath"
)

func ether(v int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(v), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func TestComputeSwapStepExactInCappedAtTarget(t *testing.T) {
	price := new(big.Int).Set(fullmath.Q96)
	// target slightly above the current price, so a large input reaches it
	target := new(big.Int).Add(price, new(big.Int).Div(fullmath.Q96, big.NewInt(100)))
	liquidity := ether(2)
	amount := ether(1)

	step, err := ComputeSwapStep(price, target, liquidity, amount, 600)
	if err != nil {
		t.Fatalf("swap step: %v", err)
	}
	if step.SqrtRatioNextX96.Cmp(target) != 0 {
		t.Fatalf("price should stop at target: %s", step.SqrtRatioNextX96)
	}
	spent := new(big.Int).Add(step.AmountIn, step.FeeAmount)
	if spent.Cmp(amount) >= 0 {
		t.Fatalf("capped swap should not consume full input: %s", spent)
	}
	if step.AmountOut.Sign() <= 0 {
		t.Fatalf("expected output")
	}
}

func TestComputeSwapStepExactInFullySpent(t *testing.T) {
	price := new(big.Int).Set(fullmath.Q96)
	target := new(big.Int).Mul(price, big.NewInt(2))
	liquidity := ether(2)
	amount := ether(1)

	step, err := ComputeSwapStep(price, target, liquidity, amount, 600)
	if err != nil {
		t.Fatalf("swap step: %v", err)
	}
	if step.SqrtRatioNextX96.Cmp(target) >= 0 {
		t.Fatalf("price should stop before target")
	}
	spent := new(big.Int).Add(step.AmountIn, step.FeeAmount)
	if spent.Cmp(amount) != 0 {
		t.Fatalf("input should be fully spent: %s", spent)
	}
}

func TestComputeSwapStepExactOut(t *testing.T) {
	price := new(big.Int).Set(fullmath.Q96)
	target := new(big.Int).Div(price, big.NewInt(2))
	liquidity := ether(2)
	want := big.NewInt(1_000_000)

	step, err := ComputeSwapStep(price, target, liquidity, new(big.Int).Neg(want), 3000)
	if err != nil {
		t.Fatalf("swap step: %v", err)
	}
	if step.AmountOut.Cmp(want) != 0 {
		t.Fatalf("output mismatch: %s", step.AmountOut)
	}
	if step.AmountIn.Cmp(want) < 0 {
		t.Fatalf("input should cover output at parity: %s", step.AmountIn)
	}
	if step.FeeAmount.Sign() <= 0 {
		t.Fatalf("expected fee")
	}
}

func TestAddDelta(t *testing.T) {
	got, err := AddDelta(big.NewInt(10), big.NewInt(-4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Cmp(big.NewInt(6)) != 0 {
		t.Fatalf("add delta mismatch: %s", got)
	}
	if _, err := AddDelta(big.NewInt(1), big.NewInt(-2)); !errors.Is(err, ErrLiquidityUnderflow) {
		t.Fatalf("expected underflow, got %v", err)
	}
}
