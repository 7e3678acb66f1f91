package main

import (
	"context"
	"fmt"
	"time"

	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/config"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/feishu"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/entity"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/repository"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/notify"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/sse"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(entity.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// initRedis 未配置 host 时返回 nil，通知不再发布到 Redis
func initRedis(cfg config.RedisConfig, log *zap.Logger) *redis.Client {
	if cfg.Host == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Redis not reachable, events will not be published", zap.String("addr", cfg.Addr()), zap.Error(err))
		rdb.Close()
		return nil
	}
	return rdb
}

// initMinIO 未配置 endpoint 时返回 nil，不生成订单确认单
func initMinIO(cfg config.MinIOConfig, log *zap.Logger) *minio.Client {
	if cfg.Endpoint == "" {
		return nil
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		log.Warn("Failed to init MinIO client", zap.Error(err))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		log.Warn("MinIO not reachable, order documents disabled", zap.String("endpoint", cfg.Endpoint), zap.Error(err))
		return nil
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			log.Warn("Failed to create MinIO bucket", zap.String("bucket", cfg.Bucket), zap.Error(err))
			return nil
		}
	}
	return client
}

// newDispatcher 组装通知分发器及其全部下游
func newDispatcher(cfg *config.Config, repos *repository.Repositories, hub *sse.Hub, rdb *redis.Client, store *minio.Client, log *zap.Logger) *notify.Dispatcher {
	sinks := []notify.Sink{
		notify.NewActivitySink(repos.Notification),
		notify.NewHubSink(hub),
	}
	if rdb != nil {
		sinks = append(sinks, notify.NewRedisSink(rdb, cfg.Notify.RedisChannel))
	}
	if store != nil {
		sinks = append(sinks, notify.NewDocumentSink(repos.Order, store, cfg.MinIO.Bucket))
	}
	if cfg.Feishu.Enabled() {
		client := feishu.NewClient(cfg.Feishu.AppID, cfg.Feishu.AppSecret, cfg.Feishu.BaseURL)
		sinks = append(sinks, notify.NewChatSink(client, cfg.Feishu.ChatID))
	}

	names := make([]string, 0, len(sinks))
	for _, s := range sinks {
		names = append(names, s.Name())
	}
	log.Info("Notification sinks ready", zap.Strings("sinks", names))

	return notify.NewDispatcher(log.Named("notify"), notify.Options{
		QueueSize:   cfg.Notify.QueueSize,
		Workers:     cfg.Notify.Workers,
		SinkTimeout: cfg.Notify.SinkTimeout,
	}, sinks...)
}
