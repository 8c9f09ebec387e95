package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "router",
		Short:        "Offline AMM quoting and best-trade search",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().Uint64("chain-id", 1, "chain id")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Rank the best trades between two currencies over pool snapshots",
		RunE:  runQuote,
	}

	quoteCmd.Flags().String("snapshots", "./data/pools.jsonl", "pool snapshots JSONL")
	quoteCmd.Flags().String("pg-dsn", "", "Postgres DSN (overrides --snapshots)")
	quoteCmd.Flags().String("trade-type", "exact_input", "exact_input or exact_output")
	quoteCmd.Flags().String("currency-in", "", "input token address or \"native\"")
	quoteCmd.Flags().String("currency-out", "", "output token address or \"native\"")
	quoteCmd.Flags().String("amount", "", "exact amount in human units of the fixed side")
	quoteCmd.Flags().Int("max-hops", 3, "maximum pools per route")
	quoteCmd.Flags().Int("max-results", 3, "maximum trades to print")
	quoteCmd.Flags().String("slippage", "0.5", "slippage tolerance in percent")
	quoteCmd.Flags().StringSlice("pool", nil, "restrict the search to these pool addresses (comma-separated)")
	quoteCmd.Flags().String("out", "", "output JSONL path, stdout when empty")
	quoteCmd.Flags().Duration("timeout", 10*time.Second, "search deadline")

	root.AddCommand(quoteCmd)

	addressCmd := &cobra.Command{
		Use:   "address",
		Short: "Derive the pool address of two tokens",
		RunE:  runAddress,
	}

	addressCmd.Flags().String("token-a", "", "first token address")
	addressCmd.Flags().String("token-b", "", "second token address")

	root.AddCommand(addressCmd)

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Validate pool snapshots, refresh them from calls and logs and store them",
		RunE:  runImport,
	}

	importCmd.Flags().String("in", "", "input pool snapshots JSONL")
	importCmd.Flags().String("calls", "", "optional raw contract call results JSONL applied before events")
	importCmd.Flags().String("events", "", "optional raw logs JSONL applied to the snapshots")
	importCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	importCmd.Flags().String("out", "", "output snapshots JSONL when no DSN is set")
	importCmd.Flags().Int("batch-size", 500, "batch size for DB writes")
	importCmd.Flags().Int("max-retries", 3, "maximum retry attempts per batch")
	importCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")

	root.AddCommand(importCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
