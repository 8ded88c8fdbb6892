package credit

import (
	"context"
	"credit-application-system/internal/pkg/apperrors"
	"fmt"

	"github.com/google/uuid"
)

var ErrNotFound = fmt.Errorf("%w: credit", apperrors.ErrNotFound)

type Repository interface {
	Save(ctx context.Context, credit *Credit) error

	FindByCreditCode(ctx context.Context, code uuid.UUID) (*Credit, error)

	// FindAllByCustomerID returns the customer's credits in insertion order.
	FindAllByCustomerID(ctx context.Context, customerID int64) ([]*Credit, error)

	DeleteAll(ctx context.Context) error
}
