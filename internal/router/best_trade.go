package router

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"routeScope/internal/entities"
)

const (
	DefaultMaxNumResults = 3
	DefaultMaxHops       = 3
)

// Options bounds the search. Zero values select the defaults.
type Options struct {
	MaxNumResults int
	MaxHops       int
}

func (o Options) withDefaults() (Options, error) {
	if o.MaxNumResults < 0 || o.MaxHops < 0 {
		return o, fmt.Errorf("%w: max results %d, max hops %d", entities.ErrInvalidOption, o.MaxNumResults, o.MaxHops)
	}
	if o.MaxNumResults == 0 {
		o.MaxNumResults = DefaultMaxNumResults
	}
	if o.MaxHops == 0 {
		o.MaxHops = DefaultMaxHops
	}
	return o, nil
}

// Router searches a set of pools for the best trades on one chain.
type Router struct {
	chain  entities.ChainConfig
	logger *zap.Logger
}

func New(chain entities.ChainConfig, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{chain: chain, logger: logger}
}

type search struct {
	router    *Router
	ctx       context.Context
	opts      Options
	tradeType entities.TradeType
	// exact amount and the currency at the other end of the trade
	amount   entities.CurrencyAmount
	currency entities.Currency
	target   entities.Currency
	best     []*entities.Trade
}

// BestTradeExactIn returns up to MaxNumResults trades spending amountIn for currencyOut,
// best first. Each path uses at most MaxHops pools and no pool twice.
func (r *Router) BestTradeExactIn(ctx context.Context, pools []entities.Pool, amountIn entities.CurrencyAmount, currencyOut entities.Currency, opts Options) ([]*entities.Trade, error) {
	s, err := r.newSearch(ctx, pools, opts, entities.ExactInput, amountIn, currencyOut)
	if err != nil {
		return nil, err
	}
	start, err := r.chain.WrapAmount(amountIn)
	if err != nil {
		return nil, err
	}
	if err := s.exactIn(dedupe(r.logger, pools), start, nil, s.opts.MaxHops); err != nil {
		return nil, err
	}
	r.logger.Debug("best trades exact in",
		zap.String("amount_in", amountIn.String()),
		zap.String("currency_out", currencyOut.String()),
		zap.Int("pools", len(pools)),
		zap.Int("results", len(s.best)),
	)
	return s.best, nil
}

// BestTradeExactOut returns up to MaxNumResults trades buying amountOut with currencyIn,
// best first. Paths are built backwards from the output.
func (r *Router) BestTradeExactOut(ctx context.Context, pools []entities.Pool, currencyIn entities.Currency, amountOut entities.CurrencyAmount, opts Options) ([]*entities.Trade, error) {
	s, err := r.newSearch(ctx, pools, opts, entities.ExactOutput, amountOut, currencyIn)
	if err != nil {
		return nil, err
	}
	start, err := r.chain.WrapAmount(amountOut)
	if err != nil {
		return nil, err
	}
	if err := s.exactOut(dedupe(r.logger, pools), start, nil, s.opts.MaxHops); err != nil {
		return nil, err
	}
	r.logger.Debug("best trades exact out",
		zap.String("amount_out", amountOut.String()),
		zap.String("currency_in", currencyIn.String()),
		zap.Int("pools", len(pools)),
		zap.Int("results", len(s.best)),
	)
	return s.best, nil
}

func (r *Router) newSearch(ctx context.Context, pools []entities.Pool, opts Options, tradeType entities.TradeType, amount entities.CurrencyAmount, currency entities.Currency) (*search, error) {
	if len(pools) == 0 {
		return nil, entities.ErrNoPools
	}
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	target, err := r.chain.Wrap(currency)
	if err != nil {
		return nil, err
	}
	return &search{
		router:    r,
		ctx:       ctx,
		opts:      opts,
		tradeType: tradeType,
		amount:    amount,
		currency:  currency,
		target:    target,
	}, nil
}

// exactIn extends path (pools already walked, in order) with every pool holding amountIn's token.
func (s *search) exactIn(pools []entities.Pool, amountIn entities.CurrencyAmount, path []entities.Pool, hopsLeft int) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}
	for i, pool := range pools {
		if !pool.InvolvesToken(amountIn.Currency()) {
			continue
		}
		amountOut, _, err := pool.GetOutputAmount(amountIn)
		if err != nil {
			// a pool that cannot quote only closes this branch
			s.skip(pool, err)
			continue
		}
		next := append(append([]entities.Pool(nil), path...), pool)
		if amountOut.Currency().Equal(s.target) {
			if err := s.record(next, s.amount.Currency(), s.currency); err != nil {
				return err
			}
			continue
		}
		if hopsLeft > 1 && len(pools) > 1 {
			if err := s.exactIn(without(pools, i), amountOut, next, hopsLeft-1); err != nil {
				return err
			}
		}
	}
	return nil
}

// exactOut prepends to path every pool able to produce amountOut.
func (s *search) exactOut(pools []entities.Pool, amountOut entities.CurrencyAmount, path []entities.Pool, hopsLeft int) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}
	for i, pool := range pools {
		if !pool.InvolvesToken(amountOut.Currency()) {
			continue
		}
		amountIn, _, err := pool.GetInputAmount(amountOut)
		if err != nil {
			// a pool that cannot quote only closes this branch
			s.skip(pool, err)
			continue
		}
		next := append([]entities.Pool{pool}, path...)
		if amountIn.Currency().Equal(s.target) {
			if err := s.record(next, s.currency, s.amount.Currency()); err != nil {
				return err
			}
			continue
		}
		if hopsLeft > 1 && len(pools) > 1 {
			if err := s.exactOut(without(pools, i), amountIn, next, hopsLeft-1); err != nil {
				return err
			}
		}
	}
	return nil
}

// record simulates the full path as a trade and ranks it.
func (s *search) record(pools []entities.Pool, input, output entities.Currency) error {
	route, err := entities.NewRoute(s.router.chain, pools, input, output)
	if err != nil {
		return err
	}
	trade, err := entities.FromRoute(route, s.amount, s.tradeType)
	if err != nil {
		s.router.logger.Debug("skip route", zap.String("route", route.String()), zap.Error(err))
		return nil
	}
	s.best, _, _ = sortedInsert(s.best, trade, s.opts.MaxNumResults, entities.TradeComparator)
	return nil
}

func (s *search) skip(pool entities.Pool, err error) {
	s.router.logger.Debug("skip pool",
		zap.String("pool", pool.Address().Hex()),
		zap.String("protocol", pool.Protocol().String()),
		zap.Error(err),
	)
}

func without(pools []entities.Pool, i int) []entities.Pool {
	rest := make([]entities.Pool, 0, len(pools)-1)
	rest = append(rest, pools[:i]...)
	return append(rest, pools[i+1:]...)
}

// dedupe keeps the first pool seen for each address.
func dedupe(logger *zap.Logger, pools []entities.Pool) []entities.Pool {
	seen := make(map[string]struct{}, len(pools))
	unique := make([]entities.Pool, 0, len(pools))
	for _, pool := range pools {
		key := pool.Address().Hex()
		if _, ok := seen[key]; ok {
			logger.Warn("duplicate pool ignored", zap.String("pool", key))
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, pool)
	}
	return unique
}
