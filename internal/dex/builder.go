package dex

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"routeScope/internal/entities"
	"routeScope/internal/model"
)

// Builder converts pool snapshots of one chain into pool entities.
type Builder struct {
	chain  entities.ChainConfig
	tokens *TokenCache
	logger *zap.Logger
}

func NewBuilder(chain entities.ChainConfig, tokens *TokenCache, logger *zap.Logger) *Builder {
	if tokens == nil {
		tokens = NewTokenCache()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{chain: chain, tokens: tokens, logger: logger}
}

// BuildPool converts a single snapshot with a private token cache.
func BuildPool(chain entities.ChainConfig, snap model.PoolSnapshot) (entities.Pool, error) {
	return NewBuilder(chain, nil, nil).Build(snap)
}

// Build converts one snapshot. The protocol field selects the pool type.
func (b *Builder) Build(snap model.PoolSnapshot) (entities.Pool, error) {
	if entities.ChainID(snap.ChainID) != b.chain.ChainID {
		return nil, fmt.Errorf("%w: snapshot on %d, config for %d", entities.ErrChainMismatch, snap.ChainID, b.chain.ChainID)
	}
	protocol, err := entities.ParseProtocol(snap.Protocol)
	if err != nil {
		return nil, err
	}

	token0, err := b.tokens.Resolve(b.chain.ChainID, snap.Token0)
	if err != nil {
		return nil, fmt.Errorf("token0: %w", err)
	}
	token1, err := b.tokens.Resolve(b.chain.ChainID, snap.Token1)
	if err != nil {
		return nil, fmt.Errorf("token1: %w", err)
	}

	var address common.Address
	if snap.Address != "" {
		if !common.IsHexAddress(snap.Address) {
			return nil, fmt.Errorf("%w: pool %q", entities.ErrInvalidAddress, snap.Address)
		}
		address = common.HexToAddress(snap.Address)
	}

	switch protocol {
	case entities.ProtocolV3:
		return b.buildConcentrated(snap, token0, token1, address)
	case entities.ProtocolV2:
		return b.buildPair(snap, token0, token1, address)
	default:
		return nil, fmt.Errorf("%w: snapshot protocol %s", entities.ErrInvalidOption, protocol)
	}
}

// BuildAll converts every snapshot, logging and skipping the ones that fail.
func (b *Builder) BuildAll(snaps []model.PoolSnapshot) ([]entities.Pool, int) {
	pools := make([]entities.Pool, 0, len(snaps))
	skipped := 0
	for _, snap := range snaps {
		pool, err := b.Build(snap)
		if err != nil {
			skipped++
			b.logger.Warn("skip snapshot",
				zap.String("pool", snap.Address),
				zap.String("protocol", snap.Protocol),
				zap.Error(err),
			)
			continue
		}
		pools = append(pools, pool)
	}
	return pools, skipped
}

func (b *Builder) buildConcentrated(snap model.PoolSnapshot, token0, token1 entities.Currency, address common.Address) (entities.Pool, error) {
	if snap.SqrtPriceX96 == "" {
		return nil, fmt.Errorf("%w: missing sqrt price", ErrInvalidSnapshot)
	}
	sqrt, err := parseSnapshotInt(snap.SqrtPriceX96, "sqrt price")
	if err != nil {
		return nil, err
	}
	liquidity, err := parseSnapshotInt(snap.Liquidity, "liquidity")
	if err != nil {
		return nil, err
	}

	spacing := int(snap.TickSpacing)
	if spacing == 0 {
		var ok bool
		if spacing, ok = entities.DefaultTickSpacing(snap.Fee); !ok {
			return nil, fmt.Errorf("%w: no tick spacing for fee %d", ErrInvalidSnapshot, snap.Fee)
		}
	}

	raw := make([]entities.Tick, 0, len(snap.Ticks))
	sorted := append([]model.TickSnapshot(nil), snap.Ticks...)
	sortTicks(sorted)
	for _, tick := range sorted {
		gross, err := parseSnapshotInt(tick.LiquidityGross, "liquidity gross")
		if err != nil {
			return nil, err
		}
		net, err := parseSnapshotInt(tick.LiquidityNet, "liquidity net")
		if err != nil {
			return nil, err
		}
		raw = append(raw, entities.Tick{Index: int(tick.Index), LiquidityGross: gross, LiquidityNet: net})
	}
	ticks, err := entities.NewTickList(raw, spacing)
	if err != nil {
		return nil, err
	}

	var tickCurrent *int
	if snap.Tick != nil {
		tick := int(*snap.Tick)
		tickCurrent = &tick
	}

	pool, err := entities.NewConcentratedPool(b.chain, entities.ConcentratedPoolParams{
		TokenA:       token0,
		TokenB:       token1,
		Fee:          snap.Fee,
		TickSpacing:  spacing,
		SqrtRatioX96: sqrt,
		Liquidity:    liquidity,
		TickCurrent:  tickCurrent,
		Ticks:        ticks,
		Address:      address,
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}

func (b *Builder) buildPair(snap model.PoolSnapshot, token0, token1 entities.Currency, address common.Address) (entities.Pool, error) {
	reserve0, err := entities.ParseCurrencyAmount(token0, defaultZero(snap.Reserve0))
	if err != nil {
		return nil, fmt.Errorf("reserve0: %w", err)
	}
	reserve1, err := entities.ParseCurrencyAmount(token1, defaultZero(snap.Reserve1))
	if err != nil {
		return nil, fmt.Errorf("reserve1: %w", err)
	}
	pair, err := entities.NewPair(b.chain, reserve0, reserve1, snap.Fee, address)
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func defaultZero(value string) string {
	if value == "" {
		return "0"
	}
	return value
}
