package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/retailrewards/rewards-backend/internal/models"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	FindByID(ctx context.Context, id int64) (*models.Customer, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*models.Customer, error)
	FindAll(ctx context.Context) ([]*models.Customer, error)
	Count(ctx context.Context) (int64, error)
	DeleteByIDs(ctx context.Context, ids []int64) error
}

// TransactionRepository defines the interface for transaction data operations.
// Date ranges are inclusive on both ends.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	CreateMany(ctx context.Context, transactions []*models.Transaction) error
	FindByCustomerIDAndDateRange(ctx context.Context, customerID int64, start, end time.Time) ([]*models.Transaction, error)
	FindByDateRange(ctx context.Context, start, end time.Time) ([]*models.Transaction, error)
	Count(ctx context.Context) (int64, error)
}
