package dex

import (
	"fmt"
	"math/big"
)

// Slot0 holds the price fields of a pool's slot0 call.
type Slot0 struct {
	SqrtPriceX96 *big.Int
	Tick         int32
}

// TickInfo holds the liquidity fields of a pool's ticks(int24) call.
type TickInfo struct {
	LiquidityGross *big.Int
	LiquidityNet   *big.Int
	Initialized    bool
}

// DecodeSlot0 decodes the return data of slot0().
func DecodeSlot0(data []byte) (Slot0, error) {
	values, err := unpackCall(v3PoolABI, "slot0", data, 2)
	if err != nil {
		return Slot0{}, err
	}
	sqrt, err := asBigInt(values[0])
	if err != nil {
		return Slot0{}, fmt.Errorf("sqrt price: %w", err)
	}
	tickInt, err := asBigInt(values[1])
	if err != nil {
		return Slot0{}, fmt.Errorf("tick: %w", err)
	}
	tick, err := int24FromBig(tickInt)
	if err != nil {
		return Slot0{}, fmt.Errorf("tick: %w", err)
	}
	return Slot0{SqrtPriceX96: sqrt, Tick: tick}, nil
}

// DecodeLiquidity decodes the return data of liquidity().
func DecodeLiquidity(data []byte) (*big.Int, error) {
	values, err := unpackCall(v3PoolABI, "liquidity", data, 1)
	if err != nil {
		return nil, err
	}
	return asBigInt(values[0])
}

// DecodeTickInfo decodes the return data of ticks(int24).
func DecodeTickInfo(data []byte) (TickInfo, error) {
	values, err := unpackCall(v3PoolABI, "ticks", data, 8)
	if err != nil {
		return TickInfo{}, err
	}
	gross, err := asBigInt(values[0])
	if err != nil {
		return TickInfo{}, fmt.Errorf("liquidity gross: %w", err)
	}
	net, err := asBigInt(values[1])
	if err != nil {
		return TickInfo{}, fmt.Errorf("liquidity net: %w", err)
	}
	initialized, _ := values[7].(bool)
	return TickInfo{LiquidityGross: gross, LiquidityNet: net, Initialized: initialized}, nil
}

// DecodeReserves decodes the return data of getReserves().
func DecodeReserves(data []byte) (*big.Int, *big.Int, error) {
	values, err := unpackCall(v2PairABI, "getReserves", data, 2)
	if err != nil {
		return nil, nil, err
	}
	reserve0, err := asBigInt(values[0])
	if err != nil {
		return nil, nil, fmt.Errorf("reserve0: %w", err)
	}
	reserve1, err := asBigInt(values[1])
	if err != nil {
		return nil, nil, fmt.Errorf("reserve1: %w", err)
	}
	return reserve0, reserve1, nil
}

func unpackCall(lazy *lazyABI, method string, data []byte, want int) ([]interface{}, error) {
	parsed, err := lazy.get()
	if err != nil {
		return nil, fmt.Errorf("parse abi: %w", err)
	}
	values, err := parsed.Unpack(method, data)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) < want {
		return nil, fmt.Errorf("unpack %s: %d values, want %d", method, len(values), want)
	}
	return values, nil
}
