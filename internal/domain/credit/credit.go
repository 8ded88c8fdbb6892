package credit

import (
	"credit-application-system/internal/pkg/apperrors"
	"credit-application-system/internal/pkg/validation"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultMaxInstallments           = 48
	DefaultMaxFirstInstallmentMonths = 3
)

type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusApproved   Status = "APPROVED"
	StatusReject     Status = "REJECT"
)

type Credit struct {
	ID                   int64
	CreditCode           uuid.UUID
	CreditValue          decimal.Decimal
	DayFirstInstallment  time.Time
	NumberOfInstallments int
	Status               Status
	CustomerID           int64
	CreatedAt            time.Time
}

// Installment is one scheduled repayment of a credit.
type Installment struct {
	Number  int
	DueDate time.Time
	Amount  decimal.Decimal
}

type CreateCreditRequest struct {
	CreditValue          decimal.Decimal `json:"creditValue" validate:"gt=0,lte=9999999999999.99,maxscale=2"`
	DayFirstInstallment  time.Time       `json:"dayFirstOfInstallment" validate:"required,future"`
	NumberOfInstallments int             `json:"numberOfInstallments" validate:"min=1"`
	CustomerID           int64           `json:"customerId" validate:"required,gt=0"`
}

// Limits bounds what a customer may request.
type Limits struct {
	MaxInstallments           int
	MaxFirstInstallmentMonths int
}

func DefaultLimits() Limits {
	return Limits{
		MaxInstallments:           DefaultMaxInstallments,
		MaxFirstInstallmentMonths: DefaultMaxFirstInstallmentMonths,
	}
}

func (l Limits) withDefaults() Limits {
	if l.MaxInstallments <= 0 {
		l.MaxInstallments = DefaultMaxInstallments
	}
	if l.MaxFirstInstallmentMonths <= 0 {
		l.MaxFirstInstallmentMonths = DefaultMaxFirstInstallmentMonths
	}
	return l
}

// CreditView is a credit together with the owning customer's contact and
// income data.
type CreditView struct {
	Credit         *Credit
	CustomerEmail  string
	CustomerIncome decimal.Decimal
}

func NewCredit(req CreateCreditRequest) *Credit {
	return &Credit{
		CreditCode:           uuid.New(),
		CreditValue:          req.CreditValue,
		DayFirstInstallment:  validation.CalendarDate(req.DayFirstInstallment),
		NumberOfInstallments: req.NumberOfInstallments,
		Status:               StatusInProgress,
		CustomerID:           req.CustomerID,
		CreatedAt:            time.Now(),
	}
}

// Installments splits the credit value into monthly installments starting at
// the first installment date. Amounts are rounded to cents and the last
// installment absorbs the rounding difference. Due dates keep the first
// installment's day, clamped to the end of shorter months.
func (c *Credit) Installments() ([]Installment, error) {
	if c.NumberOfInstallments <= 0 || !c.CreditValue.IsPositive() {
		return nil, fmt.Errorf("%w: invalid credit terms for installment schedule", apperrors.ErrInvalidArgument)
	}

	n := decimal.NewFromInt(int64(c.NumberOfInstallments))
	regular := c.CreditValue.Div(n).Round(2)

	schedule := make([]Installment, 0, c.NumberOfInstallments)
	accumulated := decimal.Zero
	for i := 1; i <= c.NumberOfInstallments; i++ {
		amount := regular
		if i == c.NumberOfInstallments {
			amount = c.CreditValue.Sub(accumulated)
		}
		schedule = append(schedule, Installment{
			Number:  i,
			DueDate: validation.AddMonths(c.DayFirstInstallment, i-1),
			Amount:  amount,
		})
		accumulated = accumulated.Add(amount)
	}

	if !accumulated.Equal(c.CreditValue) {
		return nil, fmt.Errorf("%w: installment schedule sum %s != credit value %s",
			apperrors.ErrInternalServer, accumulated.StringFixed(2), c.CreditValue.StringFixed(2))
	}
	return schedule, nil
}
