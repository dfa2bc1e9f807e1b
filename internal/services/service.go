package services

import (
	"context"
	"time"

	"github.com/retailrewards/rewards-backend/internal/models"
	"github.com/retailrewards/rewards-backend/internal/rewards"
)

// RewardsService defines the interface for rewards-related operations
type RewardsService interface {
	// GetCustomerRewards summarises a customer's points over the default trailing window
	GetCustomerRewards(ctx context.Context, customerID int64) (*rewards.Summary, error)

	// GetCustomerRewardsInRange summarises a customer's points between start and end inclusive
	GetCustomerRewardsInRange(ctx context.Context, customerID int64, start, end time.Time) (*rewards.Summary, error)

	// GetAllCustomerRewards summarises every customer with activity in the default window
	GetAllCustomerRewards(ctx context.Context) ([]rewards.Summary, error)

	// GetAllCustomerRewardsInRange summarises every customer with activity between start and end inclusive
	GetAllCustomerRewardsInRange(ctx context.Context, start, end time.Time) ([]rewards.Summary, error)
}

// TransactionService defines the interface for transaction operations
type TransactionService interface {
	CreateTransaction(ctx context.Context, req *models.TransactionRequest) (*models.Transaction, error)
}

// CustomerService defines the interface for customer operations
type CustomerService interface {
	CreateCustomer(ctx context.Context, req *models.CustomerRequest) (*models.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
	ListCustomers(ctx context.Context) ([]*models.Customer, error)
}
