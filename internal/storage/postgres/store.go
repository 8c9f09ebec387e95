package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"routeScope/internal/model"
)

// Schema creates the snapshot table. Ticks are stored as JSONB.
const Schema = `
CREATE TABLE IF NOT EXISTS pool_snapshots (
	chain_id       BIGINT      NOT NULL,
	pool_address   TEXT        NOT NULL,
	protocol       TEXT        NOT NULL,
	token0         JSONB       NOT NULL,
	token1         JSONB       NOT NULL,
	fee            INTEGER     NOT NULL,
	tick_spacing   INTEGER     NOT NULL DEFAULT 0,
	sqrt_price_x96 NUMERIC,
	tick           INTEGER,
	liquidity      NUMERIC,
	ticks          JSONB       NOT NULL DEFAULT '[]',
	reserve0       NUMERIC,
	reserve1       NUMERIC,
	block_number   BIGINT      NOT NULL DEFAULT 0,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (chain_id, pool_address)
)`

// Store provides Postgres persistence for pool snapshots.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the snapshot table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, Schema)
	return err
}

// PutPoolSnapshots inserts or updates snapshots. An older block never overwrites a newer one.
func (s *Store) PutPoolSnapshots(ctx context.Context, snaps []model.PoolSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, snap := range snaps {
		if snap.Address == "" {
			return fmt.Errorf("snapshot without pool address (chain %d)", snap.ChainID)
		}
		args, err := snapshotArgs(snap)
		if err != nil {
			return err
		}
		batch.Queue(`
			INSERT INTO pool_snapshots (
				chain_id, pool_address, protocol, token0, token1, fee, tick_spacing,
				sqrt_price_x96, tick, liquidity, ticks, reserve0, reserve1, block_number, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,now(),now())
			ON CONFLICT (chain_id, pool_address)
			DO UPDATE SET
				protocol = EXCLUDED.protocol,
				token0 = EXCLUDED.token0,
				token1 = EXCLUDED.token1,
				fee = EXCLUDED.fee,
				tick_spacing = EXCLUDED.tick_spacing,
				sqrt_price_x96 = EXCLUDED.sqrt_price_x96,
				tick = EXCLUDED.tick,
				liquidity = EXCLUDED.liquidity,
				ticks = EXCLUDED.ticks,
				reserve0 = EXCLUDED.reserve0,
				reserve1 = EXCLUDED.reserve1,
				block_number = EXCLUDED.block_number,
				updated_at = now()
			WHERE pool_snapshots.block_number <= EXCLUDED.block_number
		`, args...)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range snaps {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadPoolSnapshots returns every stored snapshot of a chain ordered by address.
func (s *Store) LoadPoolSnapshots(ctx context.Context, chainID uint64) ([]model.PoolSnapshot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT pool_address, protocol, token0, token1, fee, tick_spacing,
			COALESCE(sqrt_price_x96::text, ''), tick, COALESCE(liquidity::text, ''), ticks,
			COALESCE(reserve0::text, ''), COALESCE(reserve1::text, ''), block_number,
			to_char(updated_at AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS"Z"')
		FROM pool_snapshots
		WHERE chain_id = $1
		ORDER BY pool_address
	`, int64(chainID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []model.PoolSnapshot
	for rows.Next() {
		var (
			snap                 model.PoolSnapshot
			token0, token1, tick []byte
			tickCurrent          *int32
			blockNumber          int64
		)
		snap.ChainID = chainID
		if err := rows.Scan(
			&snap.Address,
			&snap.Protocol,
			&token0,
			&token1,
			&snap.Fee,
			&snap.TickSpacing,
			&snap.SqrtPriceX96,
			&tickCurrent,
			&snap.Liquidity,
			&tick,
			&snap.Reserve0,
			&snap.Reserve1,
			&blockNumber,
			&snap.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(token0, &snap.Token0); err != nil {
			return nil, fmt.Errorf("decode token0 of %s: %w", snap.Address, err)
		}
		if err := json.Unmarshal(token1, &snap.Token1); err != nil {
			return nil, fmt.Errorf("decode token1 of %s: %w", snap.Address, err)
		}
		if err := json.Unmarshal(tick, &snap.Ticks); err != nil {
			return nil, fmt.Errorf("decode ticks of %s: %w", snap.Address, err)
		}
		snap.Tick = tickCurrent
		snap.BlockNumber = uint64(blockNumber)
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func snapshotArgs(snap model.PoolSnapshot) ([]any, error) {
	token0, err := json.Marshal(snap.Token0)
	if err != nil {
		return nil, fmt.Errorf("encode token0: %w", err)
	}
	token1, err := json.Marshal(snap.Token1)
	if err != nil {
		return nil, fmt.Errorf("encode token1: %w", err)
	}
	ticks := snap.Ticks
	if ticks == nil {
		ticks = []model.TickSnapshot{}
	}
	ticksJSON, err := json.Marshal(ticks)
	if err != nil {
		return nil, fmt.Errorf("encode ticks: %w", err)
	}
	return []any{
		int64(snap.ChainID),
		normalizeAddress(snap.Address),
		snap.Protocol,
		token0,
		token1,
		int64(snap.Fee),
		snap.TickSpacing,
		nullableNumeric(snap.SqrtPriceX96),
		snap.Tick,
		nullableNumeric(snap.Liquidity),
		ticksJSON,
		nullableNumeric(snap.Reserve0),
		nullableNumeric(snap.Reserve1),
		int64(snap.BlockNumber),
	}, nil
}

func nullableNumeric(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
