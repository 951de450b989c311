package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sourceScope/internal/api"
	"sourceScope/internal/config"
	"sourceScope/internal/fetcher"
)

const shutdownTimeout = 10 * time.Second

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadServe(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	f := fetcher.NewEtherscan(fetcher.EtherscanConfig{
		Network: cfg.Network,
		APIKey:  cfg.APIKey,
		Domain:  cfg.ExplorerDomain,
	}, logger)
	if !f.IsNetworkValid(cmd.Context()) {
		logger.Warn("network unsupported, lookups will fail", zap.String("network", cfg.Network))
	}

	srv := &http.Server{
		Addr: cfg.Listen,
		Handler: api.NewServer(f,
			api.WithNetwork(cfg.Network),
			api.WithLogger(logger),
			api.WithMiddlewares(api.LoggingMiddleware(logger)),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("serve start",
			zap.String("listen", cfg.Listen),
			zap.String("network", cfg.Network),
			zap.Duration("interval", f.Interval()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("serve stopped")
		return nil
	})

	return g.Wait()
}
