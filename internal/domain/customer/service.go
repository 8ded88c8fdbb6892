package customer

import (
	"context"
	"credit-application-system/internal/infrastructure/monitoring"
	"credit-application-system/internal/pkg/apperrors"
	"credit-application-system/internal/pkg/validation"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const customerNotFound = "Customer not found by repository"

type CustomerService interface {
	RegisterCustomer(ctx context.Context, req RegisterRequest) (*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
	UpdateCustomer(ctx context.Context, customerID int64, req UpdateRequest) (*Customer, error)
	DeleteCustomer(ctx context.Context, customerID int64) error
	Authenticate(ctx context.Context, email, password string) (*Customer, error)
}

// ErrInvalidCredentials is returned for an unknown email and for a wrong
// password alike.
var ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo       CustomerRepository
	logger     *slog.Logger
	bcryptCost int
}

func NewCustomerService(repo CustomerRepository, logger *slog.Logger) CustomerService {
	return newCustomerService(repo, logger, bcrypt.DefaultCost)
}

func newCustomerService(repo CustomerRepository, logger *slog.Logger, cost int) *customerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}
	return &customerService{
		repo:       repo,
		logger:     logger.With(slog.String("component", "customerService")),
		bcryptCost: cost,
	}
}

func (s *customerService) RegisterCustomer(ctx context.Context, req RegisterRequest) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to register new customer")

	req.normalize()
	if err := validation.Struct(req); err != nil {
		s.logger.WarnContext(ctx, "Validation failed for new customer", slog.Any("error", err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to hash customer password", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to hash password: %v", apperrors.ErrInternalServer, err)
	}

	cust := NewCustomer(req.FirstName, req.LastName, req.CPF, req.Email, req.Income, string(hash),
		Address{ZipCode: req.ZipCode, Street: req.Street})

	s.logger.DebugContext(ctx, "Calling repository Save")
	if err := s.repo.Save(ctx, cust); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			s.logger.WarnContext(ctx, "Customer already registered", slog.Any("error", err))
			return nil, ErrAlreadyRegistered
		}
		s.logger.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}

	monitoring.RecordCustomerRegistered()
	s.logger.InfoContext(ctx, "Successfully registered new customer", slog.Int64("customerID", cust.ID))
	return cust, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	log := s.logger.With(slog.Int64("customerID", customerID))
	log.DebugContext(ctx, "Attempting to get customer by ID")

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.WarnContext(ctx, customerNotFound)
			return nil, fmt.Errorf("%w %d", ErrNotFound, customerID)
		}
		log.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	log.DebugContext(ctx, "Successfully retrieved customer")
	return cust, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, customerID int64, req UpdateRequest) (*Customer, error) {
	log := s.logger.With(slog.Int64("customerID", customerID))
	log.InfoContext(ctx, "Attempting to update customer")

	req.normalize()
	if err := validation.Struct(req); err != nil {
		log.WarnContext(ctx, "Validation failed for customer update", slog.Any("error", err))
		return nil, err
	}

	cust, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	cust.Apply(req)
	if err := s.repo.Save(ctx, cust); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.ErrorContext(ctx, "Customer disappeared before save completed")
			return nil, fmt.Errorf("%w %d", ErrNotFound, customerID)
		}
		log.ErrorContext(ctx, "Repository failed to save customer update", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save update for customer %d: %w", customerID, err)
	}

	log.InfoContext(ctx, "Successfully updated customer")
	return cust, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	log := s.logger.With(slog.Int64("customerID", customerID))
	log.InfoContext(ctx, "Attempting to delete customer")

	if err := s.repo.Delete(ctx, customerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.WarnContext(ctx, customerNotFound)
			return fmt.Errorf("%w %d", ErrNotFound, customerID)
		}
		log.ErrorContext(ctx, "Repository error deleting customer", slog.Any("error", err))
		return fmt.Errorf("failed to delete customer %d: %w", customerID, err)
	}

	log.InfoContext(ctx, "Successfully deleted customer")
	return nil
}

// Authenticate checks a login email and password against the stored bcrypt
// hash and returns the matching customer.
func (s *customerService) Authenticate(ctx context.Context, email, password string) (*Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	cust, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		s.logger.ErrorContext(ctx, "Repository error finding customer by email", slog.Any("error", err))
		return nil, fmt.Errorf("failed to authenticate customer: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cust.PasswordHash), []byte(password)); err != nil {
		s.logger.WarnContext(ctx, "Login attempt with wrong password", slog.Int64("customerID", cust.ID))
		return nil, ErrInvalidCredentials
	}

	s.logger.InfoContext(ctx, "Customer authenticated", slog.Int64("customerID", cust.ID))
	return cust, nil
}
