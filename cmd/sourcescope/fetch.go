package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sourceScope/internal/chain"
	"sourceScope/internal/config"
	"sourceScope/internal/fetcher"
	"sourceScope/internal/runner"
	"sourceScope/internal/storage"
	"sourceScope/internal/storage/postgres"
)

func runFetch(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFetch(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	inputs := cfg.Addresses
	if cfg.AddressFile != "" {
		fromFile, err := runner.ReadAddressFile(cfg.AddressFile)
		if err != nil {
			return err
		}
		inputs = append(inputs, fromFile...)
	}
	addresses, err := runner.ParseAddresses(inputs)
	if err != nil {
		return err
	}
	if len(addresses) == 0 {
		return fmt.Errorf("address list is required")
	}
	if cfg.Out == "" && cfg.PGDSN == "" {
		return fmt.Errorf("at least one of --out or --pg-dsn is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sinks storage.Multi
	if cfg.Out != "" {
		sinks = append(sinks, storage.NewJsonlStorage(cfg.Out))
	}
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		sinks = append(sinks, store)
	}

	var checker runner.CodeChecker
	if cfg.RPCURL != "" {
		chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
		if err != nil {
			return fmt.Errorf("connect rpc: %w", err)
		}
		defer chainClient.Close()
		checker = chainClient
	}

	f := fetcher.NewEtherscan(fetcher.EtherscanConfig{
		Network: cfg.Network,
		APIKey:  cfg.APIKey,
		Domain:  cfg.ExplorerDomain,
	}, logger)

	r := runner.NewRunner(runner.RunConfig{
		Network:           cfg.Network,
		Addresses:         addresses,
		BatchSize:         cfg.BatchSize,
		Concurrency:       cfg.Concurrency,
		CheckpointPath:    cfg.Checkpoint,
		CheckpointEnabled: cfg.CheckpointEnabled,
	}, f, checker, sinks, logger)

	logger.Info("fetch start",
		zap.String("network", cfg.Network),
		zap.Bool("api_key", cfg.APIKey != ""),
		zap.Duration("interval", f.Interval()),
		zap.Int("addresses", len(addresses)),
		zap.Int("batch_size", cfg.BatchSize),
		zap.Int("concurrency", cfg.Concurrency),
		zap.String("out", cfg.Out),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.Bool("rpc_check", checker != nil),
		zap.Bool("checkpoint_enabled", cfg.CheckpointEnabled),
		zap.String("checkpoint", cfg.Checkpoint),
	)

	summary, err := r.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d processed, %d verified, %d unverified, %d unsupported, %d failed\n",
		summary.RunID, summary.Processed, summary.Verified, summary.Unverified, summary.Unsupported, summary.Failed)
	return nil
}
