// Package storage opens the repository backend selected by configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/retailrewards/rewards-backend/internal/config"
	"github.com/retailrewards/rewards-backend/internal/repositories"
	"github.com/retailrewards/rewards-backend/internal/repositories/memory"
	mongorepo "github.com/retailrewards/rewards-backend/internal/repositories/mongodb"
	"github.com/retailrewards/rewards-backend/pkg/mongodb"
	"github.com/sirupsen/logrus"
)

// Storage bundles the repositories of one backend
type Storage struct {
	Driver       string
	Customers    repositories.CustomerRepository
	Transactions repositories.TransactionRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping checks the backend is reachable. Memory storage is always reachable.
func (s *Storage) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases backend connections
func (s *Storage) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open creates the repositories for the configured driver
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		logger.Info("Using in-memory storage")
		return &Storage{
			Driver:       config.StorageMemory,
			Customers:    memory.NewCustomerRepository(),
			Transactions: memory.NewTransactionRepository(),
		}, nil
	case config.StorageMongoDB:
		return openMongo(ctx, cfg.MongoDB, logger)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
}

func openMongo(ctx context.Context, cfg config.MongoDBConfig, logger *logrus.Logger) (*Storage, error) {
	client, err := mongodb.NewClient(ctx, cfg.URI, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	db := client.Database(cfg.Database)
	if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	logger.WithField("database", cfg.Database).Info("Connected to MongoDB")
	return &Storage{
		Driver:       config.StorageMongoDB,
		Customers:    mongorepo.NewCustomerRepository(db),
		Transactions: mongorepo.NewTransactionRepository(db),
		ping:         client.Ping,
		close:        client.Disconnect,
	}, nil
}
