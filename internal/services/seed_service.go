package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retailrewards/rewards-backend/internal/models"
	"github.com/retailrewards/rewards-backend/internal/repositories"
	"github.com/retailrewards/rewards-backend/internal/utils"
	"github.com/retailrewards/rewards-backend/pkg/distlock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const seedLockKey = "lock:rewards:seed"

// Locker obtains named locks shared between service instances
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (distlock.Lock, error)
}

type sampleTransaction struct {
	customer int // index into sampleCustomers
	amount   string
	daysAgo  int
}

var sampleCustomers = []models.Customer{
	{Name: "Deepanshu", Email: "deepanshu@example.com"},
	{Name: "Raj", Email: "raj@example.com"},
	{Name: "Gagan", Email: "gagan@example.com"},
}

var sampleTransactions = []sampleTransaction{
	{0, "120.00", 5}, {0, "75.50", 15}, {0, "200.00", 45}, {0, "50.00", 60}, {0, "150.00", 75},
	{1, "89.99", 10}, {1, "110.00", 20}, {1, "45.00", 35}, {1, "250.00", 50}, {1, "95.00", 70},
	{2, "30.00", 8}, {2, "180.00", 25}, {2, "65.00", 40}, {2, "300.00", 55}, {2, "125.00", 80},
}

// SeedService populates an empty store with demonstration data
type SeedService struct {
	customerRepo    repositories.CustomerRepository
	transactionRepo repositories.TransactionRepository
	locker          Locker // optional
	lockTTL         time.Duration
	now             func() time.Time
	logger          *logrus.Logger
}

// NewSeedService creates a new SeedService. locker may be nil, in which case
// seeding is not coordinated across instances.
func NewSeedService(customerRepo repositories.CustomerRepository, transactionRepo repositories.TransactionRepository, locker Locker, lockTTL time.Duration, logger *logrus.Logger) *SeedService {
	return &SeedService{
		customerRepo:    customerRepo,
		transactionRepo: transactionRepo,
		locker:          locker,
		lockTTL:         lockTTL,
		now:             time.Now,
		logger:          logger,
	}
}

// WithClock replaces the clock used to date sample transactions
func (s *SeedService) WithClock(now func() time.Time) *SeedService {
	s.now = now
	return s
}

// Seed inserts sample customers and transactions when no customers exist.
// It reports whether data was written.
func (s *SeedService) Seed(ctx context.Context) (bool, error) {
	if s.locker != nil {
		lock, err := s.locker.Obtain(ctx, seedLockKey, s.lockTTL)
		if errors.Is(err, distlock.ErrNotObtained) {
			s.logger.Info("Seed lock held by another instance, skipping sample data")
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("failed to obtain seed lock: %w", err)
		}
		defer func() {
			if err := lock.Release(context.Background()); err != nil {
				s.logger.WithError(err).Warn("Failed to release seed lock")
			}
		}()
	}

	count, err := s.customerRepo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count customers: %w", err)
	}
	if count > 0 {
		s.logger.WithField("customers", count).Debug("Store already populated, skipping sample data")
		return false, nil
	}

	customers := make([]models.Customer, 0, len(sampleCustomers))
	for _, sample := range sampleCustomers {
		customer := sample
		customer.CreatedAt = s.now().UTC()
		if err := s.customerRepo.Create(ctx, &customer); err != nil {
			s.rollback(customers)
			return false, fmt.Errorf("failed to create sample customer %s: %w", sample.Name, err)
		}
		customers = append(customers, customer)
	}

	today := utils.StartOfDay(s.now())
	transactions := make([]*models.Transaction, 0, len(sampleTransactions))
	for _, sample := range sampleTransactions {
		transactions = append(transactions, &models.Transaction{
			CustomerID:      customers[sample.customer].ID,
			Amount:          decimal.RequireFromString(sample.amount),
			TransactionDate: today.AddDate(0, 0, -sample.daysAgo),
		})
	}
	if err := s.transactionRepo.CreateMany(ctx, transactions); err != nil {
		s.rollback(customers)
		return false, fmt.Errorf("failed to create sample transactions: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"customers":    len(customers),
		"transactions": len(transactions),
	}).Info("Sample data initialised")
	return true, nil
}

// rollback removes sample customers written by a failed Seed so the next
// start sees an empty store and seeds again
func (s *SeedService) rollback(customers []models.Customer) {
	if len(customers) == 0 {
		return
	}
	ids := make([]int64, len(customers))
	for i, c := range customers {
		ids[i] = c.ID
	}
	if err := s.customerRepo.DeleteByIDs(context.Background(), ids); err != nil {
		s.logger.WithError(err).WithField("customers", ids).Error("Failed to remove partially seeded customers")
	}
}
