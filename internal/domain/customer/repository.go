package customer

import (
	"context"
	"credit-application-system/internal/pkg/apperrors"
	"fmt"
)

var (
	ErrNotFound = fmt.Errorf("%w: customer", apperrors.ErrNotFound)

	ErrAlreadyRegistered = fmt.Errorf("%w: customer with this cpf or email", apperrors.ErrAlreadyExists)
)

// CustomerRepository persists customers. Implementations return an error
// wrapping apperrors.ErrNotFound when the customer does not exist and one
// wrapping apperrors.ErrAlreadyExists on a cpf/email uniqueness conflict.
type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	FindByEmail(ctx context.Context, email string) (*Customer, error)

	Delete(ctx context.Context, customerID int64) error

	DeleteAll(ctx context.Context) error
}
