package dex

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"routeScope/internal/model"
)

const (
	eventSwap = "Swap"
	eventMint = "Mint"
	eventBurn = "Burn"
	eventSync = "Sync"
)

// StateDecoder rolls pool snapshots forward by applying Swap, Mint and Burn logs of
// concentrated liquidity pools and Sync logs of constant product pairs.
type StateDecoder struct {
	poolABI     abi.ABI
	pairABI     abi.ABI
	topicToName map[string]string
}

func NewStateDecoder() (*StateDecoder, error) {
	poolABI, err := V3PoolABI()
	if err != nil {
		return nil, err
	}
	pairABI, err := V2PairABI()
	if err != nil {
		return nil, err
	}

	topicToName := map[string]string{
		strings.ToLower(poolABI.Events[eventSwap].ID.Hex()): eventSwap,
		strings.ToLower(poolABI.Events[eventMint].ID.Hex()): eventMint,
		strings.ToLower(poolABI.Events[eventBurn].ID.Hex()): eventBurn,
		strings.ToLower(pairABI.Events[eventSync].ID.Hex()): eventSync,
	}

	return &StateDecoder{
		poolABI:     poolABI,
		pairABI:     pairABI,
		topicToName: topicToName,
	}, nil
}

// CanDecode checks if the topic0 is supported.
func (d *StateDecoder) CanDecode(topic0 string) bool {
	if topic0 == "" {
		return false
	}
	_, ok := d.topicToName[strings.ToLower(topic0)]
	return ok
}

// Apply updates snap in place with the effect of log. Logs must come from the snapshot's
// pool and must not predate the snapshot block.
func (d *StateDecoder) Apply(snap *model.PoolSnapshot, log model.LogRecord) error {
	if len(log.Topics) == 0 {
		return fmt.Errorf("%w: missing topics", ErrUnsupportedEvent)
	}
	name, ok := d.topicToName[strings.ToLower(log.Topics[0])]
	if !ok {
		return fmt.Errorf("%w: topic0 %s", ErrUnsupportedEvent, log.Topics[0])
	}
	if log.Removed {
		return fmt.Errorf("%w: removed log %s:%d", ErrUnsupportedEvent, log.TxHash, log.LogIndex)
	}
	if log.ChainID != snap.ChainID || !common.IsHexAddress(log.Address) ||
		common.HexToAddress(log.Address) != common.HexToAddress(snap.Address) {
		return fmt.Errorf("%w: log %s on chain %d, snapshot %s on chain %d",
			ErrPoolMismatch, log.Address, log.ChainID, snap.Address, snap.ChainID)
	}
	if log.BlockNumber < snap.BlockNumber {
		return fmt.Errorf("%w: block %d < %d", ErrStaleEvent, log.BlockNumber, snap.BlockNumber)
	}

	data, err := hexutil.Decode(log.Data)
	if err != nil {
		return fmt.Errorf("decode data: %w", err)
	}

	switch name {
	case eventSwap:
		err = d.applySwap(snap, data)
	case eventMint:
		err = d.applyPosition(snap, log, data, eventMint)
	case eventBurn:
		err = d.applyPosition(snap, log, data, eventBurn)
	case eventSync:
		err = d.applySync(snap, data)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", strings.ToLower(name), err)
	}
	snap.BlockNumber = log.BlockNumber
	return nil
}

func (d *StateDecoder) applySwap(snap *model.PoolSnapshot, data []byte) error {
	if snap.Protocol != "v3" {
		return fmt.Errorf("%w: swap log for %s pool", ErrUnsupportedEvent, snap.Protocol)
	}
	values, err := d.poolABI.Events[eventSwap].Inputs.NonIndexed().Unpack(data)
	if err != nil {
		return fmt.Errorf("unpack: %w", err)
	}
	if len(values) != 5 {
		return fmt.Errorf("unexpected values length: %d", len(values))
	}
	sqrt, err := asBigInt(values[2])
	if err != nil {
		return err
	}
	liquidity, err := asBigInt(values[3])
	if err != nil {
		return err
	}
	tickInt, err := asBigInt(values[4])
	if err != nil {
		return err
	}
	tick, err := int24FromBig(tickInt)
	if err != nil {
		return err
	}

	snap.SqrtPriceX96 = sqrt.String()
	snap.Liquidity = liquidity.String()
	snap.Tick = &tick
	return nil
}

// applyPosition adds (Mint) or removes (Burn) position liquidity on its tick range.
func (d *StateDecoder) applyPosition(snap *model.PoolSnapshot, log model.LogRecord, data []byte, name string) error {
	if snap.Protocol != "v3" {
		return fmt.Errorf("%w: %s log for %s pool", ErrUnsupportedEvent, strings.ToLower(name), snap.Protocol)
	}
	if len(log.Topics) != 4 {
		return fmt.Errorf("unexpected topics length: %d", len(log.Topics))
	}
	tickLower, err := int24FromTopic(log.Topics[2])
	if err != nil {
		return fmt.Errorf("tick lower: %w", err)
	}
	tickUpper, err := int24FromTopic(log.Topics[3])
	if err != nil {
		return fmt.Errorf("tick upper: %w", err)
	}
	if tickLower >= tickUpper {
		return fmt.Errorf("tick range [%d, %d)", tickLower, tickUpper)
	}

	values, err := d.poolABI.Events[name].Inputs.NonIndexed().Unpack(data)
	if err != nil {
		return fmt.Errorf("unpack: %w", err)
	}
	// Mint carries the sender before the amount.
	amountIndex := 0
	if name == eventMint {
		amountIndex = 1
	}
	if len(values) <= amountIndex {
		return fmt.Errorf("unexpected values length: %d", len(values))
	}
	amount, err := asBigInt(values[amountIndex])
	if err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return nil
	}
	if name == eventBurn {
		amount.Neg(amount)
	}

	// Changes are staged on a copy so a failed log leaves snap untouched.
	ticks := make([]model.TickSnapshot, len(snap.Ticks))
	copy(ticks, snap.Ticks)
	sortTicks(ticks)
	if ticks, err = addTickLiquidity(ticks, tickLower, amount, amount); err != nil {
		return err
	}
	if ticks, err = addTickLiquidity(ticks, tickUpper, amount, new(big.Int).Neg(amount)); err != nil {
		return err
	}

	liquidity := snap.Liquidity
	if snap.Tick != nil && tickLower <= *snap.Tick && *snap.Tick < tickUpper {
		active, err := parseSnapshotInt(snap.Liquidity, "liquidity")
		if err != nil {
			return err
		}
		active.Add(active, amount)
		if active.Sign() < 0 {
			return fmt.Errorf("%w: liquidity below zero", ErrInvalidSnapshot)
		}
		liquidity = active.String()
	}

	snap.Ticks = ticks
	snap.Liquidity = liquidity
	return nil
}

func (d *StateDecoder) applySync(snap *model.PoolSnapshot, data []byte) error {
	if snap.Protocol != "v2" {
		return fmt.Errorf("%w: sync log for %s pool", ErrUnsupportedEvent, snap.Protocol)
	}
	values, err := d.pairABI.Events[eventSync].Inputs.NonIndexed().Unpack(data)
	if err != nil {
		return fmt.Errorf("unpack: %w", err)
	}
	if len(values) != 2 {
		return fmt.Errorf("unexpected values length: %d", len(values))
	}
	reserve0, err := asBigInt(values[0])
	if err != nil {
		return err
	}
	reserve1, err := asBigInt(values[1])
	if err != nil {
		return err
	}
	snap.Reserve0 = reserve0.String()
	snap.Reserve1 = reserve1.String()
	return nil
}

// addTickLiquidity updates one initialized tick of the sorted ticks, inserting it in order or
// dropping it when its gross liquidity reaches zero. It returns the updated slice.
func addTickLiquidity(ticks []model.TickSnapshot, index int32, grossDelta, netDelta *big.Int) ([]model.TickSnapshot, error) {
	at := sort.Search(len(ticks), func(i int) bool { return ticks[i].Index >= index })
	gross, net := new(big.Int), new(big.Int)
	found := at < len(ticks) && ticks[at].Index == index
	if found {
		var err error
		if gross, err = parseSnapshotInt(ticks[at].LiquidityGross, "liquidity gross"); err != nil {
			return nil, err
		}
		if net, err = parseSnapshotInt(ticks[at].LiquidityNet, "liquidity net"); err != nil {
			return nil, err
		}
	}
	gross.Add(gross, grossDelta)
	net.Add(net, netDelta)

	switch {
	case gross.Sign() < 0:
		return nil, fmt.Errorf("%w: tick %d gross liquidity below zero", ErrInvalidSnapshot, index)
	case gross.Sign() == 0:
		if found {
			ticks = append(ticks[:at], ticks[at+1:]...)
		}
	case found:
		ticks[at].LiquidityGross = gross.String()
		ticks[at].LiquidityNet = net.String()
	default:
		ticks = append(ticks, model.TickSnapshot{})
		copy(ticks[at+1:], ticks[at:])
		ticks[at] = model.TickSnapshot{Index: index, LiquidityGross: gross.String(), LiquidityNet: net.String()}
	}
	return ticks, nil
}

func sortTicks(ticks []model.TickSnapshot) {
	sort.SliceStable(ticks, func(i, j int) bool { return ticks[i].Index < ticks[j].Index })
}

// parseSnapshotInt parses a decimal integer field; empty means zero.
func parseSnapshotInt(value, field string) (*big.Int, error) {
	if value == "" {
		return new(big.Int), nil
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", ErrInvalidSnapshot, field, value)
	}
	return parsed, nil
}
