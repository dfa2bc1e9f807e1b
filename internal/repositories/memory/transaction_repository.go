package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/retailrewards/rewards-backend/internal/models"
	"github.com/retailrewards/rewards-backend/internal/repositories"
)

// Compile-time check to ensure TransactionRepository implements the interface
var _ repositories.TransactionRepository = (*TransactionRepository)(nil)

// TransactionRepository keeps transactions in process memory
type TransactionRepository struct {
	mu           sync.RWMutex
	nextID       int64
	transactions []models.Transaction
	err          error
}

// NewTransactionRepository creates an empty TransactionRepository
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{}
}

// WithError makes every subsequent call fail with err. Used by tests.
func (r *TransactionRepository) WithError(err error) *TransactionRepository {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
	return r
}

// Create assigns the next ID and stores the transaction
func (r *TransactionRepository) Create(_ context.Context, transaction *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	r.insert(transaction)
	return nil
}

// CreateMany stores several transactions at once
func (r *TransactionRepository) CreateMany(_ context.Context, transactions []*models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	for _, transaction := range transactions {
		r.insert(transaction)
	}
	return nil
}

func (r *TransactionRepository) insert(transaction *models.Transaction) {
	r.nextID++
	transaction.ID = r.nextID
	if transaction.CreatedAt.IsZero() {
		transaction.CreatedAt = time.Now().UTC()
	}
	r.transactions = append(r.transactions, *transaction)
}

// FindByCustomerIDAndDateRange finds a customer's transactions between start and end inclusive
func (r *TransactionRepository) FindByCustomerIDAndDateRange(_ context.Context, customerID int64, start, end time.Time) ([]*models.Transaction, error) {
	return r.filter(func(t *models.Transaction) bool {
		return t.CustomerID == customerID && inRange(t.TransactionDate, start, end)
	})
}

// FindByDateRange finds all transactions between start and end inclusive
func (r *TransactionRepository) FindByDateRange(_ context.Context, start, end time.Time) ([]*models.Transaction, error) {
	return r.filter(func(t *models.Transaction) bool {
		return inRange(t.TransactionDate, start, end)
	})
}

// Count counts all transactions
func (r *TransactionRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.transactions)), nil
}

func (r *TransactionRepository) filter(keep func(*models.Transaction) bool) ([]*models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.err != nil {
		return nil, r.err
	}
	matched := []*models.Transaction{}
	for i := range r.transactions {
		t := r.transactions[i]
		if keep(&t) {
			matched = append(matched, &t)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].TransactionDate.Before(matched[j].TransactionDate)
	})
	return matched, nil
}

func inRange(date, start, end time.Time) bool {
	return !date.Before(start) && !date.After(end)
}
