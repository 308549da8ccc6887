package service

import (
	"context"
	"errors"
	"fmt"

	"repair-shop/internal/core/logger"
	"repair-shop/internal/features/customers/domain"
	"repair-shop/internal/features/customers/ports"

	"go.uber.org/zap"
)

// CustomerService keeps one customer record per phone number.
type CustomerService struct {
	repo ports.CustomerRepository
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(repo ports.CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo}
}

// Upsert finds the customer by phone and merges contact into it, creating the
// customer on first contact. created reports whether a new record was made.
func (s *CustomerService) Upsert(ctx context.Context, contact domain.Contact) (customer *domain.Customer, created bool, err error) {
	phone := domain.NormalizePhone(contact.Phone)
	if phone == "" {
		return nil, false, domain.ErrPhoneRequired
	}

	existing, err := s.repo.FindByPhone(ctx, phone)
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		customer, err = domain.NewCustomer(contact)
		if err != nil {
			return nil, false, err
		}
		if err := s.repo.Save(ctx, customer); err != nil {
			return nil, false, fmt.Errorf("service: failed to create customer: %w", err)
		}
		logger.Named("customers").Info("Customer created", zap.String("customer_id", customer.ID))
		return customer, true, nil
	case err != nil:
		return nil, false, fmt.Errorf("service: failed to look up customer: %w", err)
	}

	if existing.Merge(contact) {
		if err := s.repo.Save(ctx, existing); err != nil {
			return nil, false, fmt.Errorf("service: failed to update customer: %w", err)
		}
		logger.Named("customers").Debug("Customer updated", zap.String("customer_id", existing.ID))
	}
	return existing, false, nil
}

// GetCustomer returns a customer by id.
func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get customer: %w", err)
	}
	return c, nil
}

// ListCustomers returns customers ordered by name.
func (s *CustomerService) ListCustomers(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list customers: %w", err)
	}
	return list, nil
}
