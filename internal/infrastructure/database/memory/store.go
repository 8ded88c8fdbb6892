// Package memory keeps customers and credits in process memory. It honours
// the same constraints as the PostgreSQL schema: unique CPF and email,
// credits must reference an existing customer, and deleting a customer
// removes their credits.
package memory

import (
	"context"
	"credit-application-system/internal/domain/credit"
	"credit-application-system/internal/domain/customer"
	"credit-application-system/internal/pkg/apperrors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Store struct {
	mutex          sync.RWMutex
	customers      map[int64]customer.Customer
	credits        []credit.Credit
	nextCustomerID int64
	nextCreditID   int64
	logger         *slog.Logger
}

func NewStore(logger *slog.Logger) *Store {
	return &Store{
		customers: make(map[int64]customer.Customer),
		logger:    logger.With("component", "MemoryStore"),
	}
}

func (s *Store) Customers() *CustomerRepository {
	return &CustomerRepository{store: s}
}

func (s *Store) Credits() *CreditRepository {
	return &CreditRepository{store: s}
}

type CustomerRepository struct {
	store *Store
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func (r *CustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	s := r.store
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if cust.ID != 0 {
		existing, ok := s.customers[cust.ID]
		if !ok {
			return apperrors.ErrNotFound
		}
		existing.FirstName = cust.FirstName
		existing.LastName = cust.LastName
		existing.Income = cust.Income
		existing.Address = cust.Address
		existing.UpdatedAt = time.Now()
		s.customers[cust.ID] = existing
		cust.UpdatedAt = existing.UpdatedAt
		return nil
	}

	for _, c := range s.customers {
		if c.CPF == cust.CPF {
			return fmt.Errorf("%w: customers_cpf_key", apperrors.ErrAlreadyExists)
		}
		if c.Email == cust.Email {
			return fmt.Errorf("%w: customers_email_key", apperrors.ErrAlreadyExists)
		}
	}

	s.nextCustomerID++
	now := time.Now()
	cust.ID = s.nextCustomerID
	cust.CreatedAt = now
	cust.UpdatedAt = now
	s.customers[cust.ID] = *cust
	s.logger.DebugContext(ctx, "Customer stored", slog.Int64("customerID", cust.ID))
	return nil
}

func (r *CustomerRepository) FindByID(_ context.Context, customerID int64) (*customer.Customer, error) {
	s := r.store
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	c, ok := s.customers[customerID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (r *CustomerRepository) FindByEmail(_ context.Context, email string) (*customer.Customer, error) {
	s := r.store
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, c := range s.customers {
		if c.Email == email {
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *CustomerRepository) Delete(ctx context.Context, customerID int64) error {
	s := r.store
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.customers[customerID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.customers, customerID)

	kept := s.credits[:0]
	for _, c := range s.credits {
		if c.CustomerID != customerID {
			kept = append(kept, c)
		}
	}
	removed := len(s.credits) - len(kept)
	s.credits = kept
	s.logger.DebugContext(ctx, "Customer deleted", slog.Int64("customerID", customerID), slog.Int("creditsRemoved", removed))
	return nil
}

func (r *CustomerRepository) DeleteAll(_ context.Context) error {
	s := r.store
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.customers = make(map[int64]customer.Customer)
	s.credits = nil
	return nil
}

type CreditRepository struct {
	store *Store
}

var _ credit.Repository = (*CreditRepository)(nil)

func (r *CreditRepository) Save(ctx context.Context, c *credit.Credit) error {
	if c == nil {
		return fmt.Errorf("%w: credit cannot be nil", apperrors.ErrInvalidArgument)
	}
	s := r.store
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.customers[c.CustomerID]; !ok {
		return fmt.Errorf("%w: credits_customer_id_fkey", apperrors.ErrNotFound)
	}
	for _, existing := range s.credits {
		if existing.CreditCode == c.CreditCode {
			return fmt.Errorf("%w: credits_credit_code_key", apperrors.ErrAlreadyExists)
		}
	}

	s.nextCreditID++
	c.ID = s.nextCreditID
	c.CreatedAt = time.Now()
	s.credits = append(s.credits, *c)
	s.logger.DebugContext(ctx, "Credit stored", slog.Int64("creditID", c.ID), slog.Int64("customerID", c.CustomerID))
	return nil
}

func (r *CreditRepository) FindByCreditCode(_ context.Context, code uuid.UUID) (*credit.Credit, error) {
	s := r.store
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, c := range s.credits {
		if c.CreditCode == code {
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *CreditRepository) FindAllByCustomerID(_ context.Context, customerID int64) ([]*credit.Credit, error) {
	s := r.store
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	credits := make([]*credit.Credit, 0)
	for _, c := range s.credits {
		if c.CustomerID == customerID {
			credits = append(credits, &c)
		}
	}
	return credits, nil
}

func (r *CreditRepository) DeleteAll(_ context.Context) error {
	s := r.store
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.credits = nil
	return nil
}
