package credit_test

import (
	"context"
	"credit-application-system/internal/domain/credit"
	"credit-application-system/internal/domain/customer"
	"credit-application-system/internal/pkg/apperrors"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTest() (*credit.MockRepository, *credit.MockCustomerService, credit.CreditService) {
	mockRepo := new(credit.MockRepository)
	mockCustomers := new(credit.MockCustomerService)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := credit.NewCreditService(mockRepo, mockCustomers, credit.DefaultLimits(), logger)
	return mockRepo, mockCustomers, service
}

func felipe() *customer.Customer {
	return &customer.Customer{
		ID:        1,
		FirstName: "Felipe",
		LastName:  "Fruhauf",
		CPF:       "12345678910",
		Email:     "felipe@teste.com",
		Income:    decimal.NewFromFloat(3000.0),
	}
}

func validCreditRequest() credit.CreateCreditRequest {
	return credit.CreateCreditRequest{
		CreditValue:          decimal.NewFromFloat(1000.0),
		DayFirstInstallment:  time.Now().AddDate(0, 0, 10),
		NumberOfInstallments: 15,
		CustomerID:           1,
	}
}

func TestCreditService_CreateCredit(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo, mockCustomers, service := setupTest()
		mockCustomers.On("GetCustomer", ctx, int64(1)).Return(felipe(), nil).Once()
		mockRepo.On("Save", ctx, mock.MatchedBy(func(c *credit.Credit) bool {
			match := c.CustomerID == 1 && c.NumberOfInstallments == 15 && c.Status == credit.StatusInProgress
			if match {
				c.ID = 10
			}
			return match
		})).Return(nil).Once()

		view, err := service.CreateCredit(ctx, validCreditRequest())

		require.NoError(t, err)
		require.NotNil(t, view)
		assert.Equal(t, int64(10), view.Credit.ID)
		assert.NotEqual(t, uuid.Nil, view.Credit.CreditCode)
		assert.True(t, decimal.NewFromInt(1000).Equal(view.Credit.CreditValue))
		assert.Equal(t, "felipe@teste.com", view.CustomerEmail)
		assert.True(t, decimal.NewFromInt(3000).Equal(view.CustomerIncome))
		mockRepo.AssertExpectations(t)
		mockCustomers.AssertExpectations(t)
	})

	t.Run("Success - Installment Bounds Are Inclusive", func(t *testing.T) {
		for _, n := range []int{1, 48} {
			mockRepo, mockCustomers, service := setupTest()
			mockCustomers.On("GetCustomer", ctx, int64(1)).Return(felipe(), nil).Once()
			mockRepo.On("Save", ctx, mock.AnythingOfType("*credit.Credit")).Return(nil).Once()

			req := validCreditRequest()
			req.NumberOfInstallments = n
			view, err := service.CreateCredit(ctx, req)

			require.NoError(t, err, "installments %d", n)
			assert.Equal(t, n, view.Credit.NumberOfInstallments)
		}
	})

	t.Run("Error - Too Many Installments", func(t *testing.T) {
		mockRepo, mockCustomers, service := setupTest()
		mockCustomers.On("GetCustomer", ctx, int64(1)).Return(felipe(), nil).Once()
		req := validCreditRequest()
		req.NumberOfInstallments = 50

		view, err := service.CreateCredit(ctx, req)

		assert.Nil(t, view)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		var violations *apperrors.ValidationErrors
		require.ErrorAs(t, err, &violations)
		assert.Equal(t, []string{"numberOfInstallments: must be less than or equal to 48"}, violations.Details())
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Error - Credit Value Out Of Range", func(t *testing.T) {
		cases := map[string]string{
			"1e400":   "creditValue: must be less than or equal to 9999999999999.99",
			"0.001":   "creditValue: must have at most 2 decimal places",
			"100.999": "creditValue: must have at most 2 decimal places",
		}
		for raw, detail := range cases {
			mockRepo, mockCustomers, service := setupTest()
			mockCustomers.On("GetCustomer", ctx, int64(1)).Return(felipe(), nil).Once()
			req := validCreditRequest()
			req.CreditValue = decimal.RequireFromString(raw)

			_, err := service.CreateCredit(ctx, req)

			var violations *apperrors.ValidationErrors
			require.ErrorAs(t, err, &violations, raw)
			assert.Equal(t, []string{detail}, violations.Details(), raw)
			mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		}
	})

	t.Run("Error - Unknown Customer Is Reported Before Field Errors", func(t *testing.T) {
		mockRepo, mockCustomers, service := setupTest()
		notFound := fmt.Errorf("%w %d", customer.ErrNotFound, 999)
		mockCustomers.On("GetCustomer", ctx, int64(999)).Return(nil, notFound).Once()
		req := credit.CreateCreditRequest{
			CreditValue:          decimal.Zero,
			DayFirstInstallment:  time.Now().AddDate(0, 0, -1),
			NumberOfInstallments: 50,
			CustomerID:           999,
		}

		_, err := service.CreateCredit(ctx, req)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.NotErrorIs(t, err, apperrors.ErrValidation)
		assert.EqualError(t, err, "resource not found: customer 999")
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Error - Every Invalid Field Is Reported", func(t *testing.T) {
		mockRepo, mockCustomers, service := setupTest()
		req := credit.CreateCreditRequest{
			CreditValue:          decimal.Zero,
			DayFirstInstallment:  time.Now().AddDate(0, 0, -1),
			NumberOfInstallments: 0,
			CustomerID:           0,
		}

		_, err := service.CreateCredit(ctx, req)

		var violations *apperrors.ValidationErrors
		require.ErrorAs(t, err, &violations)
		assert.ElementsMatch(t, []string{
			"creditValue: must be greater than 0",
			"dayFirstOfInstallment: must be a future date",
			"numberOfInstallments: must be greater than or equal to 1",
			"customerId: must not be empty",
		}, violations.Details())
		mockCustomers.AssertNotCalled(t, "GetCustomer", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Error - Today Is Not A Future Date", func(t *testing.T) {
		_, mockCustomers, service := setupTest()
		mockCustomers.On("GetCustomer", ctx, int64(1)).Return(felipe(), nil).Once()
		req := validCreditRequest()
		req.DayFirstInstallment = time.Now()

		_, err := service.CreateCredit(ctx, req)

		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("Error - Customer Not Found", func(t *testing.T) {
		mockRepo, mockCustomers, service := setupTest()
		req := validCreditRequest()
		req.CustomerID = 2
		notFound := fmt.Errorf("%w %d", customer.ErrNotFound, 2)
		mockCustomers.On("GetCustomer", ctx, int64(2)).Return(nil, notFound).Once()

		view, err := service.CreateCredit(ctx, req)

		assert.Nil(t, view)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.EqualError(t, err, "resource not found: customer 2")
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Error - First Installment Too Far Ahead", func(t *testing.T) {
		mockRepo, mockCustomers, service := setupTest()
		mockCustomers.On("GetCustomer", ctx, int64(1)).Return(felipe(), nil).Once()
		req := validCreditRequest()
		req.DayFirstInstallment = time.Now().AddDate(0, 3, 2)

		_, err := service.CreateCredit(ctx, req)

		assert.ErrorIs(t, err, apperrors.ErrBusinessRule)
		assert.Contains(t, err.Error(), "invalid date")
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Error - Customer Removed Before Save", func(t *testing.T) {
		mockRepo, mockCustomers, service := setupTest()
		mockCustomers.On("GetCustomer", ctx, int64(1)).Return(felipe(), nil).Once()
		mockRepo.On("Save", ctx, mock.AnythingOfType("*credit.Credit")).
			Return(fmt.Errorf("%w: credits_customer_id_fkey", apperrors.ErrNotFound)).Once()

		_, err := service.CreateCredit(ctx, validCreditRequest())

		assert.ErrorIs(t, err, customer.ErrNotFound)
	})

	t.Run("Error - Repository Save Failure", func(t *testing.T) {
		mockRepo, mockCustomers, service := setupTest()
		dbError := errors.New("database connection failed")
		mockCustomers.On("GetCustomer", ctx, int64(1)).Return(felipe(), nil).Once()
		mockRepo.On("Save", ctx, mock.AnythingOfType("*credit.Credit")).Return(dbError).Once()

		view, err := service.CreateCredit(ctx, validCreditRequest())

		assert.Nil(t, view)
		assert.ErrorIs(t, err, dbError)
		assert.ErrorIs(t, err, apperrors.ErrInternalServer)
		mockRepo.AssertExpectations(t)
	})
}

func TestCreditService_ListCreditsByCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		expected := []*credit.Credit{
			{ID: 1, CreditCode: uuid.New(), CustomerID: 1},
			{ID: 2, CreditCode: uuid.New(), CustomerID: 1},
		}
		mockRepo.On("FindAllByCustomerID", ctx, int64(1)).Return(expected, nil).Once()

		credits, err := service.ListCreditsByCustomer(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, expected, credits)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success - Empty", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("FindAllByCustomerID", ctx, int64(9)).Return(nil, nil).Once()

		credits, err := service.ListCreditsByCustomer(ctx, 9)

		require.NoError(t, err)
		assert.NotNil(t, credits)
		assert.Empty(t, credits)
	})

	t.Run("Error - Repository Failure", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		dbError := errors.New("timeout")
		mockRepo.On("FindAllByCustomerID", ctx, int64(1)).Return(nil, dbError).Once()

		_, err := service.ListCreditsByCustomer(ctx, 1)

		assert.ErrorIs(t, err, dbError)
		assert.ErrorIs(t, err, apperrors.ErrInternalServer)
	})
}

func TestCreditService_FindCreditByCode(t *testing.T) {
	ctx := context.Background()
	code := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockRepo, mockCustomers, service := setupTest()
		stored := &credit.Credit{ID: 3, CreditCode: code, CustomerID: 1, Status: credit.StatusInProgress}
		mockRepo.On("FindByCreditCode", ctx, code).Return(stored, nil).Once()
		mockCustomers.On("GetCustomer", ctx, int64(1)).Return(felipe(), nil).Once()

		view, err := service.FindCreditByCode(ctx, 1, code)

		require.NoError(t, err)
		assert.Equal(t, stored, view.Credit)
		assert.Equal(t, "felipe@teste.com", view.CustomerEmail)
	})

	t.Run("Error - Not Found", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("FindByCreditCode", ctx, code).Return(nil, apperrors.ErrNotFound).Once()

		_, err := service.FindCreditByCode(ctx, 1, code)

		assert.ErrorIs(t, err, credit.ErrNotFound)
		assert.Contains(t, err.Error(), code.String())
	})

	t.Run("Error - Credit Belongs To Another Customer", func(t *testing.T) {
		mockRepo, mockCustomers, service := setupTest()
		stored := &credit.Credit{ID: 3, CreditCode: code, CustomerID: 2}
		mockRepo.On("FindByCreditCode", ctx, code).Return(stored, nil).Once()

		_, err := service.FindCreditByCode(ctx, 1, code)

		assert.ErrorIs(t, err, apperrors.ErrBusinessRule)
		assert.Contains(t, err.Error(), "contact admin")
		mockCustomers.AssertNotCalled(t, "GetCustomer", mock.Anything, mock.Anything)
	})
}
