package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"routeScope/internal/config"
	"routeScope/internal/dex"
	"routeScope/internal/entities"
	"routeScope/internal/model"
	"routeScope/internal/router"
	"routeScope/internal/storage"
	"routeScope/internal/storage/postgres"
)

const nativeCurrency = "native"

func runQuote(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadQuote(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.CurrencyIn == "" || cfg.CurrencyOut == "" {
		return fmt.Errorf("currency-in and currency-out are required")
	}
	if cfg.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	tradeType, err := entities.ParseTradeType(cfg.TradeType)
	if err != nil {
		return err
	}
	slippage, err := parseSlippage(cfg.Slippage)
	if err != nil {
		return err
	}
	chain, err := loadChain(cfg.Chains, cfg.ChainID)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var source storage.SnapshotSource
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		source = store
	} else {
		source = storage.NewJsonlStorage(cfg.Snapshots)
	}

	snaps, err := source.LoadPoolSnapshots(ctx, cfg.ChainID)
	if err != nil {
		return fmt.Errorf("load snapshots: %w", err)
	}
	snaps = filterSnapshots(snaps, cfg.Pools)

	tokens := dex.NewTokenCache()
	pools, skipped := dex.NewBuilder(chain, tokens, logger).BuildAll(snaps)
	if len(pools) == 0 {
		return fmt.Errorf("no usable pools for chain %d (%d skipped)", cfg.ChainID, skipped)
	}

	currencyIn, err := resolveCurrency(chain, tokens, cfg.CurrencyIn)
	if err != nil {
		return fmt.Errorf("currency-in: %w", err)
	}
	currencyOut, err := resolveCurrency(chain, tokens, cfg.CurrencyOut)
	if err != nil {
		return fmt.Errorf("currency-out: %w", err)
	}

	fixed := currencyIn
	if tradeType == entities.ExactOutput {
		fixed = currencyOut
	}
	amount, err := parseAmount(fixed, cfg.Amount)
	if err != nil {
		return err
	}

	logger.Info("quote start",
		zap.Uint64("chain_id", cfg.ChainID),
		zap.String("trade_type", tradeType.String()),
		zap.String("currency_in", currencyIn.String()),
		zap.String("currency_out", currencyOut.String()),
		zap.String("amount", amount.ToExact()),
		zap.Int("pools", len(pools)),
		zap.Int("skipped", skipped),
	)

	searchCtx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	r := router.New(chain, logger)
	opts := router.Options{MaxNumResults: cfg.MaxResults, MaxHops: cfg.MaxHops}
	var trades []*entities.Trade
	if tradeType == entities.ExactInput {
		trades, err = r.BestTradeExactIn(searchCtx, pools, amount, currencyOut, opts)
	} else {
		trades, err = r.BestTradeExactOut(searchCtx, pools, currencyIn, amount, opts)
	}
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	out, err := openQuoteSink(cfg.Out, os.Stdout)
	if err != nil {
		return err
	}
	defer out.Close()

	for i, trade := range trades {
		quote, err := toQuote(i+1, trade, slippage)
		if err != nil {
			return err
		}
		if err := out.Put(quote); err != nil {
			return err
		}
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	logger.Info("quote complete", zap.Int("trades", len(trades)))
	return nil
}

func loadChain(overrides []config.ChainOverride, chainID uint64) (entities.ChainConfig, error) {
	registry, err := config.Registry(overrides)
	if err != nil {
		return entities.ChainConfig{}, err
	}
	return registry.Get(entities.ChainID(chainID))
}

func filterSnapshots(snaps []model.PoolSnapshot, pools []string) []model.PoolSnapshot {
	if len(pools) == 0 {
		return snaps
	}
	wanted := make(map[common.Address]struct{}, len(pools))
	for _, pool := range pools {
		wanted[common.HexToAddress(pool)] = struct{}{}
	}
	out := make([]model.PoolSnapshot, 0, len(pools))
	for _, snap := range snaps {
		if _, ok := wanted[common.HexToAddress(snap.Address)]; ok {
			out = append(out, snap)
		}
	}
	return out
}

// resolveCurrency maps "native" to the chain's native currency and an address to a token
// seen in the snapshots or to the wrapped native token.
func resolveCurrency(chain entities.ChainConfig, tokens *dex.TokenCache, value string) (entities.Currency, error) {
	if strings.EqualFold(value, nativeCurrency) || strings.EqualFold(value, chain.Native.Symbol()) {
		return chain.Native, nil
	}
	if !common.IsHexAddress(value) {
		return entities.Currency{}, fmt.Errorf("%w: %q", entities.ErrInvalidAddress, value)
	}
	address := common.HexToAddress(value)
	if token, ok := tokens.Get(chain.ChainID, address); ok {
		return token, nil
	}
	if chain.WrappedNative.IsToken() && chain.WrappedNative.Address() == address {
		return chain.WrappedNative, nil
	}
	return entities.Currency{}, fmt.Errorf("token %s is not in any pool snapshot", address.Hex())
}

// parseAmount converts a human readable amount into the currency's smallest unit.
func parseAmount(currency entities.Currency, value string) (entities.CurrencyAmount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return entities.CurrencyAmount{}, fmt.Errorf("%w: %q", entities.ErrInvalidAmount, value)
	}
	raw := d.Shift(int32(currency.Decimals()))
	if !raw.IsInteger() || raw.Sign() <= 0 {
		return entities.CurrencyAmount{}, fmt.Errorf("%w: %q is not a positive amount of %s with %d decimals",
			entities.ErrInvalidAmount, value, currency.Symbol(), currency.Decimals())
	}
	return entities.NewCurrencyAmount(currency, raw.BigInt())
}

// parseSlippage reads a tolerance given in percent, e.g. "0.5".
func parseSlippage(value string) (entities.Percent, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return entities.Percent{}, fmt.Errorf("%w: slippage %q", entities.ErrInvalidOption, value)
	}
	if d.Sign() < 0 {
		return entities.Percent{}, fmt.Errorf("%w: slippage %q", entities.ErrNegativeSlippage, value)
	}
	rat := d.Rat()
	return entities.NewPercent(rat.Num(), new(big.Int).Mul(rat.Denom(), big.NewInt(100)))
}

func toQuote(rank int, trade *entities.Trade, slippage entities.Percent) (model.Quote, error) {
	route, err := trade.Route()
	if err != nil {
		return model.Quote{}, err
	}
	path := make([]string, 0, len(route.Path()))
	for _, token := range route.Path() {
		path = append(path, token.Symbol())
	}
	pools := make([]string, 0, len(route.Pools()))
	for _, pool := range route.Pools() {
		pools = append(pools, pool.Address().Hex())
	}

	price, err := trade.ExecutionPrice()
	if err != nil {
		return model.Quote{}, err
	}
	priceText, err := price.ToSignificant(6, entities.RoundHalfUp)
	if err != nil {
		return model.Quote{}, err
	}
	impact, err := trade.PriceImpact()
	if err != nil {
		return model.Quote{}, err
	}
	impactText, err := impact.ToFixed(2, entities.RoundHalfUp)
	if err != nil {
		return model.Quote{}, err
	}
	minimumOut, err := trade.MinimumAmountOut(slippage)
	if err != nil {
		return model.Quote{}, err
	}
	maximumIn, err := trade.MaximumAmountIn(slippage)
	if err != nil {
		return model.Quote{}, err
	}

	return model.Quote{
		Rank:           rank,
		TradeType:      trade.TradeType().String(),
		Protocol:       route.Protocol().String(),
		Path:           path,
		Pools:          pools,
		AmountIn:       trade.InputAmount().ToExact(),
		AmountOut:      trade.OutputAmount().ToExact(),
		ExecutionPrice: priceText,
		PriceImpact:    impactText + "%",
		MinimumOut:     minimumOut.ToExact(),
		MaximumIn:      maximumIn.ToExact(),
	}, nil
}
