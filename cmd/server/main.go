package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"meishi_backend/internal/app/config"
	"meishi_backend/internal/app/di"
	"meishi_backend/internal/app/router"
	cardscanhandler "meishi_backend/internal/feature/cardscan/transport/handler"
	scanlogadapters "meishi_backend/internal/feature/scanlog/adapters"
	scanloghandler "meishi_backend/internal/feature/scanlog/transport/handler"
	scanlogusecase "meishi_backend/internal/feature/scanlog/usecase"
	infradb "meishi_backend/internal/platform/db"
	platformhandler "meishi_backend/internal/platform/http/handler"
	"meishi_backend/internal/platform/ratelimit"
	infraredis "meishi_backend/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	if cfg.SlogLevel() > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var checks []platformhandler.Check

	// Redis（任意）
	var rdb *redisv9.Client
	if cfg.Redis().Enabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis()); err != nil {
			slog.Warn("Redis unavailable. Running without scan rate limit.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("Failed to close Redis client", "error", err)
				}
			}()
			checks = append(checks, platformhandler.Check{
				Name: "redis",
				Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
			})
		}
	}

	// スキャン記録（任意）
	var db *gorm.DB
	var statsH *scanloghandler.StatsHandler
	if cfg.ScanLogEnabled() {
		db, err = infradb.OpenDB(cfg.ScanLogDriver, cfg.ScanLogDSN, &scanlogadapters.ScanEventModel{})
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		defer func() { _ = sqlDB.Close() }()
		checks = append(checks, platformhandler.Check{Name: "scanlog", Ping: sqlDB.PingContext})

		statsUC := scanlogusecase.NewStatsUsecase(scanlogadapters.NewScanEventRepository(db))
		statsH = scanloghandler.NewStatsHandler(statsUC)
	}

	// Usecase
	cardScan, err := di.NewCardScan(ctx, cfg, di.NewScanRecorder(db))
	if err != nil {
		return err
	}
	defer func() {
		if err := cardScan.Close(); err != nil {
			slog.Error("Failed to close external clients", "error", err)
		}
	}()

	// ルータ生成
	r := router.NewRouter(router.Handlers{
		Health:   platformhandler.NewHealthHandler(checks...),
		CardScan: cardscanhandler.NewCardScanHandler(cardScan.Usecase, int64(cfg.MaxImageBytes)),
		Stats:    statsH,
	}, ratelimit.NewLimiter(rdb, cfg.ScanRateLimit, time.Minute, "scan"), cfg.TrustedProxies)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr, "ocr_backend", cfg.OCRBackend, "research_backend", cfg.ResearchBackend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
