package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/retailrewards/rewards-backend/internal/models"
	"github.com/retailrewards/rewards-backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure CustomerServiceImpl implements CustomerService
var _ CustomerService = (*CustomerServiceImpl)(nil)

// CustomerServiceImpl handles customer-related business logic
type CustomerServiceImpl struct {
	customerRepo repositories.CustomerRepository
	logger       *logrus.Logger
}

// NewCustomerService creates a new CustomerServiceImpl
func NewCustomerService(customerRepo repositories.CustomerRepository, logger *logrus.Logger) *CustomerServiceImpl {
	return &CustomerServiceImpl{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// CreateCustomer enrols a new customer
func (s *CustomerServiceImpl) CreateCustomer(ctx context.Context, req *models.CustomerRequest) (*models.Customer, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	fields := map[string]string{}
	if name == "" {
		fields["name"] = "Name is required"
	}
	if email == "" {
		fields["email"] = "Email is required"
	}
	if len(fields) > 0 {
		return nil, newValidationError(fields)
	}

	customer := &models.Customer{
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"customerId": customer.ID}).Info("Customer created")
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerServiceImpl) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, customerNotFound(id)
		}
		return nil, fmt.Errorf("failed to retrieve customer: %w", err)
	}
	return customer, nil
}

// ListCustomers retrieves every customer
func (s *CustomerServiceImpl) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	customers, err := s.customerRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}
