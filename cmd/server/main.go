// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deepanshu089/linkedin-lite/internal/auth"
	"github.com/deepanshu089/linkedin-lite/internal/cache"
	"github.com/deepanshu089/linkedin-lite/internal/config"
	"github.com/deepanshu089/linkedin-lite/internal/database"
	"github.com/deepanshu089/linkedin-lite/internal/handlers"
	"github.com/deepanshu089/linkedin-lite/internal/relationship"
	"github.com/deepanshu089/linkedin-lite/internal/store"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

// recordStore is a store the whole service can run on.
type recordStore interface {
	store.Store
	handlers.UserStore
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	logger := cfg.NewLogger()

	if cfg.JWTPrivateKeyPath != "" {
		err = auth.InitFromPath(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath, cfg.TokenExpireTime)
	} else {
		logger.Warn("no JWT key paths set, sessions will not survive a restart")
		err = auth.Init(cfg.TokenExpireTime)
	}
	if err != nil {
		logger.Fatalf("auth init: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var records recordStore
	switch cfg.Store {
	case "memory":
		logger.Warn("using in-memory store, data is lost on exit")
		records = store.NewMemory()
	default:
		if err := database.ConnectDB(ctx, cfg.DatabaseURL); err != nil {
			logger.Fatalf("database: %v", err)
		}
		defer database.DB.Close()
		if err := database.CreateTables(ctx, database.DB); err != nil {
			logger.Fatalf("database: %v", err)
		}
		records = database.NewUserStore(database.DB)
	}

	opts := relationship.Options{
		MaxRetries:       cfg.MaxRetries,
		OpTimeout:        cfg.StoreOpTimeout,
		DiscoverPageSize: cfg.DiscoverPageSize,
		Logger:           logger,
	}
	if cfg.RedisAddr != "" {
		rdb, err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			logger.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		opts.Profiles = cache.NewProfileCache(rdb, records, cfg.ProfileCacheTTL)
		opts.Notifier = cache.NewEventPublisher(rdb, cfg.EventsQueue)
		logger.WithField("addr", cfg.RedisAddr).Info("redis profile cache and event queue enabled")
	}
	engine := relationship.NewEngine(records, opts)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(logger, engine, records),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("graceful shutdown failed")
		}
	}()

	logger.Infof("Running on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("server exited: %v", err)
	}
}
