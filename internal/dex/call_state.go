package dex

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"routeScope/internal/model"
)

// ApplyCalls overwrites snap with the state read by calls: slot0, liquidity and ticks(int24)
// of a concentrated pool, getReserves of a pair, and decimals, symbol and name of either
// token. Calls to other contracts or chains are ignored. On error snap is left unchanged.
// It returns the number of calls applied.
func ApplyCalls(snap *model.PoolSnapshot, calls []model.CallRecord) (int, error) {
	next := *snap
	next.Ticks = append([]model.TickSnapshot(nil), snap.Ticks...)
	sortTicks(next.Ticks)

	var pool common.Address
	hasPool := common.IsHexAddress(snap.Address)
	if hasPool {
		pool = common.HexToAddress(snap.Address)
	}
	tokens := make(map[common.Address]*model.TokenMeta, 2)
	for _, meta := range []*model.TokenMeta{&next.Token0, &next.Token1} {
		if common.IsHexAddress(meta.Address) {
			tokens[common.HexToAddress(meta.Address)] = meta
		}
	}

	tokenCalls := make(map[common.Address]map[string][]byte)
	block := snap.BlockNumber
	applied := 0
	for _, call := range calls {
		if call.ChainID != snap.ChainID || !common.IsHexAddress(call.Address) {
			continue
		}
		target := common.HexToAddress(call.Address)
		_, isToken := tokens[target]
		isPool := hasPool && target == pool
		if !isPool && !isToken {
			continue
		}
		if call.BlockNumber < snap.BlockNumber {
			return 0, fmt.Errorf("%w: %s at block %d < %d", ErrStaleEvent, call.Method, call.BlockNumber, snap.BlockNumber)
		}
		data, err := hexutil.Decode(call.Result)
		if err != nil {
			return 0, fmt.Errorf("%s: decode result: %w", call.Method, err)
		}

		if isPool {
			err = applyPoolCall(&next, call, data)
		} else {
			switch call.Method {
			case "decimals", "symbol", "name":
				if tokenCalls[target] == nil {
					tokenCalls[target] = make(map[string][]byte, 3)
				}
				tokenCalls[target][call.Method] = data
			default:
				err = fmt.Errorf("%w: %s on token", ErrUnsupportedCall, call.Method)
			}
		}
		if err != nil {
			return 0, fmt.Errorf("%s %s: %w", target.Hex(), call.Method, err)
		}
		if call.BlockNumber > block {
			block = call.BlockNumber
		}
		applied++
	}

	for target, methods := range tokenCalls {
		if methods["decimals"] == nil {
			return 0, fmt.Errorf("%w: token %s text without decimals", ErrInvalidSnapshot, target.Hex())
		}
		decoded, err := DecodeTokenMeta(target, methods["decimals"], methods["symbol"], methods["name"])
		if err != nil {
			return 0, fmt.Errorf("token %s: %w", target.Hex(), err)
		}
		meta := tokens[target]
		meta.Decimals = decoded.Decimals
		if decoded.Symbol != "" {
			meta.Symbol = decoded.Symbol
		}
		if decoded.Name != "" {
			meta.Name = decoded.Name
		}
	}

	next.BlockNumber = block
	*snap = next
	return applied, nil
}

func applyPoolCall(snap *model.PoolSnapshot, call model.CallRecord, data []byte) error {
	want := "v3"
	if call.Method == "getReserves" {
		want = "v2"
	}
	if snap.Protocol != want {
		return fmt.Errorf("%w: %s on %s pool", ErrUnsupportedCall, call.Method, snap.Protocol)
	}

	switch call.Method {
	case "slot0":
		slot0, err := DecodeSlot0(data)
		if err != nil {
			return err
		}
		tick := slot0.Tick
		snap.SqrtPriceX96 = slot0.SqrtPriceX96.String()
		snap.Tick = &tick
	case "liquidity":
		liquidity, err := DecodeLiquidity(data)
		if err != nil {
			return err
		}
		snap.Liquidity = liquidity.String()
	case "ticks":
		if len(call.Args) != 1 {
			return fmt.Errorf("%w: ticks takes one argument, got %d", ErrUnsupportedCall, len(call.Args))
		}
		arg, ok := new(big.Int).SetString(call.Args[0], 10)
		if !ok {
			return fmt.Errorf("%w: tick argument %q", ErrUnsupportedCall, call.Args[0])
		}
		index, err := int24FromBig(arg)
		if err != nil {
			return err
		}
		info, err := DecodeTickInfo(data)
		if err != nil {
			return err
		}
		snap.Ticks = setTick(snap.Ticks, index, info)
	case "getReserves":
		reserve0, reserve1, err := DecodeReserves(data)
		if err != nil {
			return err
		}
		snap.Reserve0 = reserve0.String()
		snap.Reserve1 = reserve1.String()
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedCall, call.Method)
	}
	return nil
}

// setTick replaces the tick at index in the sorted ticks; uninitialized ticks are dropped.
func setTick(ticks []model.TickSnapshot, index int32, info TickInfo) []model.TickSnapshot {
	at := sort.Search(len(ticks), func(i int) bool { return ticks[i].Index >= index })
	found := at < len(ticks) && ticks[at].Index == index
	if !info.Initialized || info.LiquidityGross.Sign() == 0 {
		if found {
			ticks = append(ticks[:at], ticks[at+1:]...)
		}
		return ticks
	}
	tick := model.TickSnapshot{Index: index, LiquidityGross: info.LiquidityGross.String(), LiquidityNet: info.LiquidityNet.String()}
	if found {
		ticks[at] = tick
		return ticks
	}
	ticks = append(ticks, model.TickSnapshot{})
	copy(ticks[at+1:], ticks[at:])
	ticks[at] = tick
	return ticks
}
