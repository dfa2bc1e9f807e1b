package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retailrewards/rewards-backend/internal/models"
	"github.com/retailrewards/rewards-backend/internal/repositories"
	"github.com/retailrewards/rewards-backend/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// MaxTransactionAmount is the largest single purchase accepted
var MaxTransactionAmount = decimal.NewFromInt(1_000_000)

// Compile-time check to ensure TransactionServiceImpl implements TransactionService
var _ TransactionService = (*TransactionServiceImpl)(nil)

// TransactionServiceImpl records customer purchases
type TransactionServiceImpl struct {
	customerRepo    repositories.CustomerRepository
	transactionRepo repositories.TransactionRepository
	logger          *logrus.Logger
}

// NewTransactionService creates a new TransactionServiceImpl
func NewTransactionService(customerRepo repositories.CustomerRepository, transactionRepo repositories.TransactionRepository, logger *logrus.Logger) *TransactionServiceImpl {
	return &TransactionServiceImpl{
		customerRepo:    customerRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// CreateTransaction validates and stores a purchase for an existing customer
func (s *TransactionServiceImpl) CreateTransaction(ctx context.Context, req *models.TransactionRequest) (*models.Transaction, error) {
	transactionDate, err := validateTransactionRequest(req)
	if err != nil {
		return nil, err
	}

	customerID := *req.CustomerID
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.logger.WithField("customerId", customerID).Warn("Transaction rejected: customer not found")
			return nil, customerNotFound(customerID)
		}
		return nil, fmt.Errorf("failed to retrieve customer: %w", err)
	}

	transaction := &models.Transaction{
		CustomerID:      customerID,
		Amount:          *req.Amount,
		TransactionDate: transactionDate,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		s.logger.WithError(err).WithField("customerId", customerID).Error("Failed to store transaction")
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"transactionId": transaction.ID,
		"customerId":    customerID,
		"amount":        transaction.Amount.String(),
		"date":          transactionDate.Format(utils.DateLayout),
	}).Info("Transaction recorded")
	return transaction, nil
}

func validateTransactionRequest(req *models.TransactionRequest) (time.Time, error) {
	fields := map[string]string{}
	var transactionDate time.Time

	if req.CustomerID == nil {
		fields["customerId"] = "Customer ID is required"
	}
	switch {
	case req.Amount == nil:
		fields["amount"] = "Amount is required"
	case !req.Amount.IsPositive():
		fields["amount"] = "Amount must be positive"
	case req.Amount.GreaterThan(MaxTransactionAmount):
		fields["amount"] = "Amount must not exceed " + MaxTransactionAmount.String()
	}
	if req.TransactionDate == nil {
		fields["transactionDate"] = "Transaction date is required"
	} else {
		date, err := utils.ParseDate(*req.TransactionDate)
		if err != nil {
			fields["transactionDate"] = err.Error()
		}
		transactionDate = date
	}

	if len(fields) > 0 {
		return time.Time{}, newValidationError(fields)
	}
	return transactionDate, nil
}
