package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/config"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/middleware"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/handler"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/repository"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/service"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/sse"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the expiry scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(loadConfig())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(cfg *config.Config) error {
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting rfq service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := migrate(db); err != nil {
		zapLogger.Fatal("Database migration failed", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis, zapLogger)
	if rdb != nil {
		defer rdb.Close()
	}
	store := initMinIO(cfg.MinIO, zapLogger)

	repos := repository.NewRepositories(db)
	hub := sse.NewHub(zapLogger.Named("sse"))
	dispatcher := newDispatcher(cfg, repos, hub, rdb, store, zapLogger)

	svc := service.NewNegotiationService(db, repos, dispatcher, zapLogger.Named("negotiation"))
	svc.SetExpiryBatch(cfg.Expiry.Batch)

	var scheduler *service.ExpiryScheduler
	if cfg.Expiry.Enabled {
		scheduler, err = service.NewExpiryScheduler(svc, cfg.Expiry.Schedule, zapLogger.Named("expiry"))
		if err != nil {
			zapLogger.Fatal("Invalid expiry schedule", zap.String("schedule", cfg.Expiry.Schedule), zap.Error(err))
		}
		scheduler.Start()
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	router.Use(middleware.RequestID())
	// SSE 流不压缩
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/v1/events"})))

	registerRoutes(router, handler.NewHandlers(svc, repos, hub), cfg, db, hub)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: 0, // SSE 长连接
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	if scheduler != nil {
		if err := scheduler.Stop(ctx); err != nil {
			zapLogger.Warn("Expiry sweep still running at shutdown", zap.Error(err))
		}
	}
	if err := dispatcher.Close(ctx); err != nil {
		zapLogger.Warn("Pending notifications discarded", zap.Error(err))
	}
	zapLogger.Info("Server exited", zap.Uint64("notifications_dropped", dispatcher.Dropped()))
	return nil
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config, db *gorm.DB, hub *sse.Hub) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sse_clients": hub.ClientCount()})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"code": 40400, "message": "Not found"})
	})

	v1 := r.Group("/api/v1", middleware.JWTAuth(cfg.JWT.Secret))
	handler.RegisterRoutes(v1, h)
}
