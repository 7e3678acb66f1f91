package main

import (
	"context"
	"fmt"
	"time"

	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/repository"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/service"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/sse"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the negotiation tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		zapLogger, err := initLogger(cfg.Log)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer zapLogger.Sync()

		db, err := initDatabase(cfg.Database)
		if err != nil {
			return err
		}
		if err := migrate(db); err != nil {
			return err
		}
		zapLogger.Info("Database migration completed")
		return nil
	},
}

var expireTimeout time.Duration

var expireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Run one expiry sweep and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		zapLogger, err := initLogger(cfg.Log)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer zapLogger.Sync()

		db, err := initDatabase(cfg.Database)
		if err != nil {
			return err
		}

		rdb := initRedis(cfg.Redis, zapLogger)
		if rdb != nil {
			defer rdb.Close()
		}
		repos := repository.NewRepositories(db)
		dispatcher := newDispatcher(cfg, repos, sse.NewHub(nil), rdb, nil, zapLogger)

		svc := service.NewNegotiationService(db, repos, dispatcher, zapLogger.Named("negotiation"))
		svc.SetExpiryBatch(cfg.Expiry.Batch)

		ctx, cancel := context.WithTimeout(cmd.Context(), expireTimeout)
		defer cancel()

		n, err := svc.ExpireStaleQuotations(ctx, svc.Now())
		if closeErr := dispatcher.Close(ctx); closeErr != nil {
			zapLogger.Warn("Pending notifications discarded", zap.Error(closeErr))
		}
		if err != nil {
			return err
		}
		zapLogger.Info("Expiry sweep finished", zap.Int64("expired", n))
		fmt.Fprintf(cmd.OutOrStdout(), "expired %d quotation(s)\n", n)
		return nil
	},
}

func init() {
	expireCmd.Flags().DurationVar(&expireTimeout, "timeout", 5*time.Minute, "maximum duration of the sweep")
	rootCmd.AddCommand(migrateCmd, expireCmd)
}
