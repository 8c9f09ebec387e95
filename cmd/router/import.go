package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"routeScope/internal/config"
	"routeScope/internal/dex"
	"routeScope/internal/model"
	"routeScope/internal/storage"
	"routeScope/internal/storage/postgres"
)

func runImport(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadImport(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.In == "" {
		return fmt.Errorf("input path is required")
	}
	if cfg.PGDSN == "" && cfg.Out == "" {
		return fmt.Errorf("pg-dsn or out is required")
	}
	if cfg.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be positive")
	}
	chain, err := loadChain(cfg.Chains, cfg.ChainID)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snaps, err := storage.NewJsonlStorage(cfg.In).LoadPoolSnapshots(ctx, cfg.ChainID)
	if err != nil {
		return fmt.Errorf("load snapshots: %w", err)
	}

	if cfg.Calls != "" {
		applied, err := applyCalls(ctx, cfg.Calls, snaps, logger)
		if err != nil {
			return err
		}
		logger.Info("calls applied", zap.Int("applied", applied))
	}

	if cfg.Events != "" {
		applied, err := applyEvents(ctx, cfg.Events, snaps, logger)
		if err != nil {
			return err
		}
		logger.Info("events applied", zap.Int("applied", applied))
	}

	// only snapshots that build into pools are stored
	builder := dex.NewBuilder(chain, nil, logger)
	valid := make([]model.PoolSnapshot, 0, len(snaps))
	for _, snap := range snaps {
		pool, err := builder.Build(snap)
		if err != nil {
			logger.Warn("skip snapshot", zap.String("pool", snap.Address), zap.Error(err))
			continue
		}
		if snap.Address == "" {
			snap.Address = pool.Address().Hex()
		}
		valid = append(valid, snap)
	}

	var sink storage.SnapshotSink
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		sink = store
	} else {
		if err := os.Remove(cfg.Out); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("reset output: %w", err)
		}
		sink = storage.NewJsonlStorage(cfg.Out)
	}

	logger.Info("import start",
		zap.String("in", cfg.In),
		zap.String("calls", cfg.Calls),
		zap.String("events", cfg.Events),
		zap.Int("snapshots", len(snaps)),
		zap.Int("valid", len(valid)),
		zap.Int("batch_size", cfg.BatchSize),
	)

	err = storage.PutInBatches(ctx, sink, valid, storage.WriteOptions{
		BatchSize:    cfg.BatchSize,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	})
	if err != nil {
		return err
	}

	logger.Info("import complete",
		zap.Int("stored", len(valid)),
		zap.Int("skipped", len(snaps)-len(valid)),
	)
	return nil
}

// applyCalls refreshes snapshots with the call results in path. A snapshot whose calls do not
// apply cleanly is left as loaded.
func applyCalls(ctx context.Context, path string, snaps []model.PoolSnapshot, logger *zap.Logger) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open calls: %w", err)
	}
	defer file.Close()

	calls, err := storage.ReadCallRecords(ctx, file)
	if err != nil {
		return 0, fmt.Errorf("read calls: %w", err)
	}

	byTarget := make(map[common.Address][]model.CallRecord)
	for _, call := range calls {
		if common.IsHexAddress(call.Address) {
			target := common.HexToAddress(call.Address)
			byTarget[target] = append(byTarget[target], call)
		}
	}

	applied := 0
	for i := range snaps {
		snap := &snaps[i]
		var relevant []model.CallRecord
		for _, address := range []string{snap.Address, snap.Token0.Address, snap.Token1.Address} {
			if common.IsHexAddress(address) {
				relevant = append(relevant, byTarget[common.HexToAddress(address)]...)
			}
		}
		if len(relevant) == 0 {
			continue
		}
		n, err := dex.ApplyCalls(snap, relevant)
		if err != nil {
			logger.Warn("skip calls", zap.String("pool", snap.Address), zap.Error(err))
			continue
		}
		applied += n
	}
	return applied, nil
}

// applyEvents rolls snapshots forward with the logs in path, in file order.
func applyEvents(ctx context.Context, path string, snaps []model.PoolSnapshot, logger *zap.Logger) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open events: %w", err)
	}
	defer file.Close()

	logs, err := storage.ReadLogRecords(ctx, file)
	if err != nil {
		return 0, fmt.Errorf("read events: %w", err)
	}

	decoder, err := dex.NewStateDecoder()
	if err != nil {
		return 0, err
	}

	byAddress := make(map[common.Address]*model.PoolSnapshot, len(snaps))
	for i := range snaps {
		if snaps[i].Address != "" {
			byAddress[common.HexToAddress(snaps[i].Address)] = &snaps[i]
		}
	}

	applied := 0
	for _, record := range logs {
		if len(record.Topics) == 0 || !decoder.CanDecode(record.Topics[0]) {
			continue
		}
		snap, ok := byAddress[common.HexToAddress(record.Address)]
		if !ok {
			continue
		}
		if err := decoder.Apply(snap, record); err != nil {
			logger.Warn("skip event",
				zap.String("pool", record.Address),
				zap.String("tx_hash", record.TxHash),
				zap.Uint64("log_index", record.LogIndex),
				zap.Error(err),
			)
			continue
		}
		applied++
	}
	return applied, nil
}
