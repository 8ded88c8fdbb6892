package credit

import (
	"context"
	"credit-application-system/internal/domain/customer"
	"credit-application-system/internal/infrastructure/monitoring"
	"credit-application-system/internal/pkg/apperrors"
	"credit-application-system/internal/pkg/validation"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type CreditService interface {
	CreateCredit(ctx context.Context, req CreateCreditRequest) (*CreditView, error)

	ListCreditsByCustomer(ctx context.Context, customerID int64) ([]*Credit, error)

	FindCreditByCode(ctx context.Context, customerID int64, code uuid.UUID) (*CreditView, error)
}

type creditServiceImpl struct {
	repo            Repository
	customerService customer.CustomerService
	limits          Limits
	logger          *slog.Logger
	now             func() time.Time
}

func NewCreditService(r Repository, cs customer.CustomerService, limits Limits, logger *slog.Logger) CreditService {
	return &creditServiceImpl{
		repo:            r,
		customerService: cs,
		limits:          limits.withDefaults(),
		logger:          logger.With("component", "creditService"),
		now:             time.Now,
	}
}

// CreateCredit resolves the customer before judging the request's fields, so
// a request naming an unknown customer is always reported as not found. A
// non-positive customerId cannot name anyone and is reported with the other
// field violations.
func (s *creditServiceImpl) CreateCredit(ctx context.Context, req CreateCreditRequest) (*CreditView, error) {
	log := s.logger.With(slog.Int64("customerID", req.CustomerID))
	log.InfoContext(ctx, "Creating new credit")

	var cust *customer.Customer
	if req.CustomerID > 0 {
		var err error
		cust, err = s.customerService.GetCustomer(ctx, req.CustomerID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				log.WarnContext(ctx, "Customer not found", slog.Any("error", err))
				monitoring.RecordCreditRequest("customer_not_found")
				return nil, err
			}
			log.ErrorContext(ctx, "Failed to get customer details from customer service", slog.Any("error", err))
			monitoring.RecordCreditRequest("error")
			return nil, fmt.Errorf("failed to verify customer: %w", err)
		}
	}

	if err := s.validate(req); err != nil {
		log.WarnContext(ctx, "Credit request rejected by validation", slog.Any("error", err))
		monitoring.RecordCreditRequest("rejected_validation")
		return nil, err
	}

	if err := s.checkFirstInstallmentWindow(req.DayFirstInstallment); err != nil {
		log.WarnContext(ctx, "Credit request rejected by business rule", slog.Any("error", err))
		monitoring.RecordCreditRequest("rejected_business")
		return nil, err
	}

	newCredit := NewCredit(req)
	if err := s.repo.Save(ctx, newCredit); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.WarnContext(ctx, "Customer removed before credit could be saved", slog.Any("error", err))
			monitoring.RecordCreditRequest("customer_not_found")
			return nil, fmt.Errorf("%w %d", customer.ErrNotFound, req.CustomerID)
		}
		log.ErrorContext(ctx, "Failed to save credit", slog.Any("error", err))
		monitoring.RecordCreditRequest("error")
		return nil, fmt.Errorf("%w: failed to save credit: %w", apperrors.ErrInternalServer, err)
	}

	monitoring.RecordCreditRequest("created")
	log.InfoContext(ctx, "Credit created successfully", slog.String("creditCode", newCredit.CreditCode.String()))

	return &CreditView{
		Credit:         newCredit,
		CustomerEmail:  cust.Email,
		CustomerIncome: cust.Income,
	}, nil
}

func (s *creditServiceImpl) validate(req CreateCreditRequest) error {
	violations, err := validation.Collect(req)
	if err != nil {
		return err
	}
	if req.NumberOfInstallments > s.limits.MaxInstallments {
		violations.Add("numberOfInstallments", fmt.Sprintf("must be less than or equal to %d", s.limits.MaxInstallments))
	}
	if violations.HasViolations() {
		return violations
	}
	return nil
}

func (s *creditServiceImpl) checkFirstInstallmentWindow(day time.Time) error {
	latest := validation.AddMonths(validation.CalendarDate(s.now()), s.limits.MaxFirstInstallmentMonths)
	if validation.CalendarDate(day).After(latest) {
		return fmt.Errorf("%w: invalid date, the first installment must be at most %d months from today",
			apperrors.ErrBusinessRule, s.limits.MaxFirstInstallmentMonths)
	}
	return nil
}

func (s *creditServiceImpl) ListCreditsByCustomer(ctx context.Context, customerID int64) ([]*Credit, error) {
	s.logger.DebugContext(ctx, "Listing credits for customer", "customerID", customerID)
	credits, err := s.repo.FindAllByCustomerID(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list credits", "customerID", customerID, "error", err)
		return nil, fmt.Errorf("%w: failed to list credits for customer %d: %w", apperrors.ErrInternalServer, customerID, err)
	}
	if credits == nil {
		credits = []*Credit{}
	}
	return credits, nil
}

func (s *creditServiceImpl) FindCreditByCode(ctx context.Context, customerID int64, code uuid.UUID) (*CreditView, error) {
	log := s.logger.With(slog.Int64("customerID", customerID), slog.String("creditCode", code.String()))
	log.DebugContext(ctx, "Finding credit by code")

	found, err := s.repo.FindByCreditCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.WarnContext(ctx, "Credit not found")
			return nil, fmt.Errorf("%w %s", ErrNotFound, code)
		}
		log.ErrorContext(ctx, "Failed to find credit", "error", err)
		return nil, fmt.Errorf("%w: failed to find credit %s: %w", apperrors.ErrInternalServer, code, err)
	}

	if found.CustomerID != customerID {
		log.WarnContext(ctx, "Credit requested by a customer who does not own it")
		return nil, fmt.Errorf("%w: contact admin", apperrors.ErrBusinessRule)
	}

	cust, err := s.customerService.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return &CreditView{
		Credit:         found,
		CustomerEmail:  cust.Email,
		CustomerIncome: cust.Income,
	}, nil
}
