package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/retailrewards/rewards-backend/internal/models"
	"github.com/retailrewards/rewards-backend/internal/repositories"
)

// Compile-time check to ensure CustomerRepository implements the interface
var _ repositories.CustomerRepository = (*CustomerRepository)(nil)

// CustomerRepository keeps customers in process memory. It backs the
// "memory" storage driver and unit tests.
type CustomerRepository struct {
	mu        sync.RWMutex
	nextID    int64
	customers map[int64]models.Customer
}

// NewCustomerRepository creates an empty CustomerRepository
func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{
		customers: make(map[int64]models.Customer),
	}
}

// Create assigns the next ID and stores the customer
func (r *CustomerRepository) Create(_ context.Context, customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	customer.ID = r.nextID
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now().UTC()
	}
	r.customers[customer.ID] = *customer
	return nil
}

// FindByID finds a customer by ID
func (r *CustomerRepository) FindByID(_ context.Context, id int64) (*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.customers[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &customer, nil
}

// FindByIDs returns the customers that exist among ids, ordered by ID
func (r *CustomerRepository) FindByIDs(_ context.Context, ids []int64) ([]*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[int64]bool, len(ids))
	customers := []*models.Customer{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if customer, ok := r.customers[id]; ok {
			c := customer
			customers = append(customers, &c)
		}
	}
	sortCustomers(customers)
	return customers, nil
}

// FindAll returns every customer ordered by ID
func (r *CustomerRepository) FindAll(_ context.Context) ([]*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customers := make([]*models.Customer, 0, len(r.customers))
	for _, customer := range r.customers {
		c := customer
		customers = append(customers, &c)
	}
	sortCustomers(customers)
	return customers, nil
}

// Count counts all customers
func (r *CustomerRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.customers)), nil
}

// DeleteByIDs removes the customers with the given IDs; unknown IDs are ignored
func (r *CustomerRepository) DeleteByIDs(_ context.Context, ids []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		delete(r.customers, id)
	}
	return nil
}

func sortCustomers(customers []*models.Customer) {
	sort.Slice(customers, func(i, j int) bool { return customers[i].ID < customers[j].ID })
}
