package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "sourcescope",
		Short:        "Verified contract source fetcher",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch verified sources for a list of addresses",
		RunE:  runFetch,
	}

	fetchCmd.Flags().String("network", "mainnet", "network name (mainnet, ropsten, rinkeby, goerli, kovan)")
	fetchCmd.Flags().String("api-key", "", "explorer API key (falls back to ETHERSCAN_API_KEY)")
	fetchCmd.Flags().String("explorer-domain", "", "explorer base domain (default etherscan.io)")
	fetchCmd.Flags().StringSlice("address", nil, "contract addresses (comma-separated)")
	fetchCmd.Flags().String("address-file", "", "file with one address per line")
	fetchCmd.Flags().String("out", "./data/sources.jsonl", "output JSONL path, empty to disable")
	fetchCmd.Flags().String("pg-dsn", "", "Postgres DSN, empty to disable")
	fetchCmd.Flags().String("rpc", "", "optional RPC URL for chain id and bytecode checks")
	fetchCmd.Flags().Int("concurrency", 4, "concurrent lookups")
	fetchCmd.Flags().Int("batch-size", 50, "addresses per batch")
	fetchCmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	fetchCmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	fetchCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(fetchCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve sources over HTTP",
		RunE:  runServe,
	}

	serveCmd.Flags().String("listen", ":8080", "listen address")
	serveCmd.Flags().String("network", "mainnet", "network name (mainnet, ropsten, rinkeby, goerli, kovan)")
	serveCmd.Flags().String("api-key", "", "explorer API key (falls back to ETHERSCAN_API_KEY)")
	serveCmd.Flags().String("explorer-domain", "", "explorer base domain (default etherscan.io)")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(serveCmd)

	root.AddCommand(&cobra.Command{
		Use:   "networks",
		Short: "List supported networks",
		Args:  cobra.NoArgs,
		RunE:  runNetworks,
	})

	return root
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

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
