package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/retailrewards/rewards-backend/api/routes"
	"github.com/retailrewards/rewards-backend/internal/config"
	"github.com/retailrewards/rewards-backend/internal/handlers"
	"github.com/retailrewards/rewards-backend/internal/services"
	"github.com/retailrewards/rewards-backend/internal/storage"
	"github.com/retailrewards/rewards-backend/pkg/distlock"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := config.NewLogger(cfg.Log)

	ctx := context.Background()

	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open storage")
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.WithError(err).Error("Error closing storage")
		}
	}()

	var locker services.Locker
	if cfg.Redis.Addr != "" {
		var rdb *redis.Client
		rdb, err = distlock.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer rdb.Close()
		locker = distlock.NewRedisLocker(rdb)
		logger.WithField("addr", cfg.Redis.Addr).Info("Connected to Redis")
	}

	customerService := services.NewCustomerService(store.Customers, logger)
	transactionService := services.NewTransactionService(store.Customers, store.Transactions, logger)
	rewardsService := services.NewRewardsService(store.Customers, store.Transactions, cfg.Rewards.WindowMonths, logger)

	if cfg.Seed.Enabled {
		seeder := services.NewSeedService(store.Customers, store.Transactions, locker, cfg.Seed.LockTTL, logger)
		if _, err := seeder.Seed(ctx); err != nil {
			logger.WithError(err).Fatal("Failed to seed sample data")
		}
	}

	router := routes.SetupRouter(&cfg.Server, routes.Handlers{
		Health:      handlers.NewHealthHandler(store.Driver, store.Ping),
		Rewards:     handlers.NewRewardsHandler(rewardsService, logger),
		Transaction: handlers.NewTransactionHandler(transactionService, logger),
		Customer:    handlers.NewCustomerHandler(customerService, logger),
	}, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exiting")
}
