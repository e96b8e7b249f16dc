package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yusufkecer/fitness-tracker-backend/internal/config"
	"github.com/yusufkecer/fitness-tracker-backend/internal/db"
	"github.com/yusufkecer/fitness-tracker-backend/internal/handler"
	"github.com/yusufkecer/fitness-tracker-backend/internal/logger"
	"github.com/yusufkecer/fitness-tracker-backend/internal/middleware"
	"github.com/yusufkecer/fitness-tracker-backend/internal/repository"
	"github.com/yusufkecer/fitness-tracker-backend/internal/token"
)

const housekeepingInterval = 10 * time.Minute

func main() {
	cfg := config.Load()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	database, err := db.Connect(cfg, zl)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.DBDriver, zl); err != nil {
		zl.Fatal("migrations failed", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(database)
	activityRepo := repository.NewActivityRepository(database)
	tokenRepo := repository.NewTokenRepository(database)
	sqlDenylist := token.NewSQLDenylist(tokenRepo)

	var denylist token.Denylist = sqlDenylist
	if cfg.TokenDenylist == config.DenylistRedis {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			zl.Fatal("redis connection failed", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		denylist = token.NewRedisDenylist(rdb)
		zl.Info("using redis token denylist", zap.String("addr", cfg.RedisAddr))
	}

	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	loginRL := middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)

	router := handler.NewRouter(handler.Deps{
		Users:          userRepo,
		Activities:     activityRepo,
		Tokens:         tokens,
		Denylist:       denylist,
		Logger:         zl,
		LoginLimiter:   loginRL,
		APIKey:         cfg.APIKey,
		AllowedOrigins: cfg.AllowedOrigins,
		Ping:           database.PingContext,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		housekeeping(ctx, zl, sqlDenylist, loginRL)
	}()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		zl.Info("server starting", zap.String("addr", server.Addr), zap.String("env", cfg.AppEnv), zap.String("db_driver", cfg.DBDriver))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	sig := <-shutdownCh
	zl.Info("shutting down", zap.String("signal", sig.String()))
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
	wg.Wait()
	zl.Info("server stopped")
}

// housekeeping periodically drops expired denylist rows and idle rate
// limiter entries until ctx is cancelled.
func housekeeping(ctx context.Context, zl *zap.Logger, denylist *token.SQLDenylist, limiter *middleware.RateLimiter) {
	ticker := time.NewTicker(housekeepingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep()
			n, err := denylist.Purge(ctx)
			if err != nil {
				zl.Warn("failed to purge token denylist", zap.Error(err))
				continue
			}
			if n > 0 {
				zl.Debug("purged token denylist", zap.Int64("rows", n))
			}
		}
	}
}
