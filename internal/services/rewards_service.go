package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retailrewards/rewards-backend/internal/models"
	"github.com/retailrewards/rewards-backend/internal/repositories"
	"github.com/retailrewards/rewards-backend/internal/rewards"
	"github.com/retailrewards/rewards-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure RewardsServiceImpl implements RewardsService
var _ RewardsService = (*RewardsServiceImpl)(nil)

// RewardsServiceImpl fetches transactions for a reporting window and hands
// them to the points engine
type RewardsServiceImpl struct {
	customerRepo    repositories.CustomerRepository
	transactionRepo repositories.TransactionRepository
	windowMonths    int
	now             func() time.Time
	logger          *logrus.Logger
}

// NewRewardsService creates a new RewardsServiceImpl. windowMonths is the
// length of the default trailing window.
func NewRewardsService(customerRepo repositories.CustomerRepository, transactionRepo repositories.TransactionRepository, windowMonths int, logger *logrus.Logger) *RewardsServiceImpl {
	return &RewardsServiceImpl{
		customerRepo:    customerRepo,
		transactionRepo: transactionRepo,
		windowMonths:    windowMonths,
		now:             time.Now,
		logger:          logger,
	}
}

// WithClock replaces the clock used to resolve "today"
func (s *RewardsServiceImpl) WithClock(now func() time.Time) *RewardsServiceImpl {
	s.now = now
	return s
}

// DefaultWindow returns the trailing window ending today, inclusive
func (s *RewardsServiceImpl) DefaultWindow() (time.Time, time.Time) {
	return utils.TrailingMonths(s.now(), s.windowMonths)
}

// GetCustomerRewards summarises a customer's points over the default window
func (s *RewardsServiceImpl) GetCustomerRewards(ctx context.Context, customerID int64) (*rewards.Summary, error) {
	start, end := s.DefaultWindow()
	return s.GetCustomerRewardsInRange(ctx, customerID, start, end)
}

// GetCustomerRewardsInRange summarises a customer's points between start and end inclusive
func (s *RewardsServiceImpl) GetCustomerRewardsInRange(ctx context.Context, customerID int64, start, end time.Time) (*rewards.Summary, error) {
	if err := validateWindow(start, end); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.logger.WithField("customerId", customerID).Warn("Rewards requested for unknown customer")
			return nil, customerNotFound(customerID)
		}
		return nil, fmt.Errorf("failed to retrieve customer: %w", err)
	}

	transactions, err := s.transactionRepo.FindByCustomerIDAndDateRange(ctx, customerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	facts := make([]rewards.TransactionFact, 0, len(transactions))
	for _, t := range transactions {
		facts = append(facts, t.Fact())
	}
	summary := rewards.BuildSummary(customer.ID, customer.Name, facts)

	s.logger.WithFields(logrus.Fields{
		"customerId":   customerID,
		"from":         start.Format(utils.DateLayout),
		"to":           end.Format(utils.DateLayout),
		"transactions": len(transactions),
		"totalPoints":  summary.TotalPoints,
	}).Debug("Customer rewards calculated")
	return &summary, nil
}

// GetAllCustomerRewards summarises every customer with activity in the default window
func (s *RewardsServiceImpl) GetAllCustomerRewards(ctx context.Context) ([]rewards.Summary, error) {
	start, end := s.DefaultWindow()
	return s.GetAllCustomerRewardsInRange(ctx, start, end)
}

// GetAllCustomerRewardsInRange summarises every customer with at least one
// transaction between start and end inclusive
func (s *RewardsServiceImpl) GetAllCustomerRewardsInRange(ctx context.Context, start, end time.Time) ([]rewards.Summary, error) {
	if err := validateWindow(start, end); err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	facts := make([]rewards.CustomerTransactionFact, 0, len(transactions))
	customerIDs := make([]int64, 0)
	seen := make(map[int64]bool)
	for _, t := range transactions {
		facts = append(facts, t.CustomerFact())
		if !seen[t.CustomerID] {
			seen[t.CustomerID] = true
			customerIDs = append(customerIDs, t.CustomerID)
		}
	}

	customers, err := s.customerRepo.FindByIDs(ctx, customerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve customers: %w", err)
	}
	summaries := rewards.BuildSummaries(facts, customerNames(customers))

	s.logger.WithFields(logrus.Fields{
		"from":         start.Format(utils.DateLayout),
		"to":           end.Format(utils.DateLayout),
		"transactions": len(transactions),
		"customers":    len(summaries),
	}).Debug("Rewards calculated for all customers")
	return summaries, nil
}

func customerNames(customers []*models.Customer) map[int64]string {
	names := make(map[int64]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}
	return names
}

func validateWindow(start, end time.Time) error {
	if start.After(end) {
		return newValidationError(map[string]string{"from": "from must not be after to"})
	}
	return nil
}
