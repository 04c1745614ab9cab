package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/username/fleet-compliance-api/internal/alert"
	"github.com/username/fleet-compliance-api/internal/auth"
	"github.com/username/fleet-compliance-api/internal/client"
	"github.com/username/fleet-compliance-api/internal/clock"
	"github.com/username/fleet-compliance-api/internal/config"
	"github.com/username/fleet-compliance-api/internal/dashboard"
	"github.com/username/fleet-compliance-api/internal/database"
	"github.com/username/fleet-compliance-api/internal/document"
	"github.com/username/fleet-compliance-api/internal/logger"
	mw "github.com/username/fleet-compliance-api/internal/middleware"
	"github.com/username/fleet-compliance-api/internal/pagination"
	"github.com/username/fleet-compliance-api/internal/personnel"
	"github.com/username/fleet-compliance-api/internal/vehicle"
)

func main() {
	// 0. Config + logger
	cfg := config.Load()

	zl, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("gagal membuat logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	// 1. Jalankan migration dulu
	applied, err := database.Migrate(cfg.MigrationsPath, cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}
	if applied {
		zl.Info("migrations applied")
	} else {
		zl.Info("no new migrations, schema up to date")
	}

	// 2. Buka koneksi database dengan GORM
	gormDB, err := database.Open(cfg.DatabaseURL, database.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	}, zl)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}
	if cfg.AutoMigrate {
		if err := database.AutoMigrate(gormDB); err != nil {
			zl.Fatal("automigrate failed", zap.Error(err))
		}
	}

	pagination.SetMaxLimit(cfg.MaxLimit)
	clk := clock.System{}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		mw.RequestID(),
		mw.NewLoggingMiddleware(zl).LogRequest(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": clk.Now().Format(time.RFC3339),
		})
	})

	// 4. Group API; auth aktif hanya kalau JWT_SECRET diisi
	api := router.Group("/api")
	if cfg.JWTSecret != "" {
		api.Use(auth.Middleware([]byte(cfg.JWTSecret)))
	} else {
		zl.Warn("JWT_SECRET is empty, /api is served without authentication")
	}
	limiter := mw.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	limiter.StartSweeper(ctx, time.Minute, cfg.RateLimitIdleTTL)
	api.Use(limiter.Middleware())

	alertSvc := alert.NewService(alert.NewStore(gormDB), clk, zl.Named("alert"))

	alert.NewHandler(alertSvc, zl).RegisterRoutes(api)
	document.NewHandler(gormDB, clk, zl).RegisterRoutes(api)
	client.NewHandler(gormDB, clk, zl).RegisterRoutes(api)
	vehicle.NewHandler(gormDB, clk, zl).RegisterRoutes(api)
	personnel.NewHandler(gormDB, clk, zl).RegisterRoutes(api)
	dashboard.NewHandler(gormDB, alertSvc, clk, zl).RegisterRoutes(api)

	// 5. Start server, berhenti dengan rapi saat SIGINT/SIGTERM
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mw.CORS(cfg.CORSAllowedOrigins)(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("gagal menjalankan HTTP server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
