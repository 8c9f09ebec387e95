package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"routeScope/internal/config"
	"routeScope/internal/entities"
)

func runAddress(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadAddress(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	chain, err := loadChain(cfg.Chains, cfg.ChainID)
	if err != nil {
		return err
	}

	// decimals do not take part in the address
	tokenA, err := entities.NewToken(chain.ChainID, cfg.TokenA, 18, "", "")
	if err != nil {
		return fmt.Errorf("token-a: %w", err)
	}
	tokenB, err := entities.NewToken(chain.ChainID, cfg.TokenB, 18, "", "")
	if err != nil {
		return fmt.Errorf("token-b: %w", err)
	}

	address, err := chain.PoolAddress(tokenA, tokenB)
	if err != nil {
		return err
	}

	logger.Debug("pool address",
		zap.Uint64("chain_id", cfg.ChainID),
		zap.String("token_a", tokenA.Address().Hex()),
		zap.String("token_b", tokenB.Address().Hex()),
		zap.String("deployer", chain.PoolDeployer.Hex()),
		zap.String("pool", address.Hex()),
	)

	fmt.Fprintln(cmd.OutOrStdout(), address.Hex())
	return nil
}
