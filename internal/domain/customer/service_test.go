package customer_test

import (
	"context"
	"credit-application-system/internal/domain/customer"
	"credit-application-system/internal/pkg/apperrors"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupTest() (*customer.MockCustomerRepository, customer.CustomerService) {
	mockRepo := new(customer.MockCustomerRepository)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := customer.NewCustomerService(mockRepo, logger)
	return mockRepo, service
}

func validRegisterRequest() customer.RegisterRequest {
	return customer.RegisterRequest{
		FirstName: "  Felipe ",
		LastName:  "Fruhauf",
		CPF:       "12345678910",
		Email:     "Felipe@Teste.com",
		Income:    decimal.NewFromFloat(3000.0),
		Password:  "123456",
		ZipCode:   "99555000",
		Street:    "Rua dos Testes",
	}
}

func TestCustomerService_RegisterCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo, service := setupTest()

		mockRepo.On("Save", ctx, mock.MatchedBy(func(c *customer.Customer) bool {
			match := c.FirstName == "Felipe" && c.Email == "felipe@teste.com" && c.CPF == "12345678910"
			if match {
				c.ID = 1
			}
			return match
		})).Return(nil).Once()

		created, err := service.RegisterCustomer(ctx, validRegisterRequest())

		require.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)
		assert.Equal(t, "Felipe Fruhauf", created.FullName())
		assert.Equal(t, customer.Address{ZipCode: "99555000", Street: "Rua dos Testes"}, created.Address)
		assert.NotEqual(t, "123456", created.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("123456")))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error - Every Invalid Field Is Reported", func(t *testing.T) {
		mockRepo, service := setupTest()
		req := customer.RegisterRequest{
			CPF:    "123",
			Email:  "nope",
			Income: decimal.NewFromInt(-1),
		}

		_, err := service.RegisterCustomer(ctx, req)

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		var violations *apperrors.ValidationErrors
		require.ErrorAs(t, err, &violations)
		assert.Len(t, violations.Violations, 8)
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Error - Income Beyond Cents", func(t *testing.T) {
		mockRepo, service := setupTest()
		req := validRegisterRequest()
		req.Income = decimal.RequireFromString("0.001")

		_, err := service.RegisterCustomer(ctx, req)

		var violations *apperrors.ValidationErrors
		require.ErrorAs(t, err, &violations)
		assert.Equal(t, []string{"income: must have at most 2 decimal places"}, violations.Details())
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Error - Duplicate CPF", func(t *testing.T) {
		mockRepo, service := setupTest()
		mockRepo.On("Save", ctx, mock.AnythingOfType("*customer.Customer")).
			Return(fmt.Errorf("%w: customers_cpf_key", apperrors.ErrAlreadyExists)).Once()

		_, err := service.RegisterCustomer(ctx, validRegisterRequest())

		assert.ErrorIs(t, err, customer.ErrAlreadyRegistered)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error - Repository Save Failure", func(t *testing.T) {
		mockRepo, service := setupTest()
		dbError := errors.New("database connection failed")
		mockRepo.On("Save", ctx, mock.AnythingOfType("*customer.Customer")).Return(dbError).Once()

		created, err := service.RegisterCustomer(ctx, validRegisterRequest())

		assert.Nil(t, created)
		assert.ErrorIs(t, err, dbError)
		assert.Contains(t, err.Error(), "failed to save new customer")
		mockRepo.AssertExpectations(t)
	})
}

func TestCustomerService_GetCustomer(t *testing.T) {
	ctx := context.Background()
	customerID := int64(42)

	t.Run("Success", func(t *testing.T) {
		mockRepo, service := setupTest()
		expected := &customer.Customer{ID: customerID, FirstName: "Test"}
		mockRepo.On("FindByID", ctx, customerID).Return(expected, nil).Once()

		cust, err := service.GetCustomer(ctx, customerID)

		assert.NoError(t, err)
		assert.Equal(t, expected, cust)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error - Not Found", func(t *testing.T) {
		mockRepo, service := setupTest()
		mockRepo.On("FindByID", ctx, customerID).Return(nil, apperrors.ErrNotFound).Once()

		cust, err := service.GetCustomer(ctx, customerID)

		assert.Nil(t, cust)
		assert.ErrorIs(t, err, customer.ErrNotFound)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.EqualError(t, err, "resource not found: customer 42")
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error - Repository Failure", func(t *testing.T) {
		mockRepo, service := setupTest()
		dbError := errors.New("internal server error")
		mockRepo.On("FindByID", ctx, customerID).Return(nil, dbError).Once()

		cust, err := service.GetCustomer(ctx, customerID)

		assert.Nil(t, cust)
		assert.ErrorIs(t, err, dbError)
		assert.NotErrorIs(t, err, apperrors.ErrNotFound)
		assert.Contains(t, err.Error(), fmt.Sprintf("failed to get customer %d", customerID))
		mockRepo.AssertExpectations(t)
	})
}

func TestCustomerService_UpdateCustomer(t *testing.T) {
	ctx := context.Background()
	customerID := int64(7)
	update := customer.UpdateRequest{
		FirstName: "Filipe",
		LastName:  "Silva",
		Income:    decimal.NewFromInt(4500),
		ZipCode:   "11000",
		Street:    " Rua Nova ",
	}

	t.Run("Success", func(t *testing.T) {
		mockRepo, service := setupTest()
		existing := &customer.Customer{ID: customerID, FirstName: "Felipe", CPF: "12345678910"}
		mockRepo.On("FindByID", ctx, customerID).Return(existing, nil).Once()
		mockRepo.On("Save", ctx, existing).Return(nil).Once()

		updated, err := service.UpdateCustomer(ctx, customerID, update)

		require.NoError(t, err)
		assert.Equal(t, "Filipe Silva", updated.FullName())
		assert.Equal(t, "Rua Nova", updated.Address.Street)
		assert.Equal(t, "12345678910", updated.CPF)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error - Validation", func(t *testing.T) {
		mockRepo, service := setupTest()

		_, err := service.UpdateCustomer(ctx, customerID, customer.UpdateRequest{Income: decimal.NewFromInt(-10)})
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		tooLarge := update
		tooLarge.Income = decimal.RequireFromString("1e400")
		_, err = service.UpdateCustomer(ctx, customerID, tooLarge)
		var violations *apperrors.ValidationErrors
		require.ErrorAs(t, err, &violations)
		assert.Equal(t, []string{"income: must be less than or equal to 9999999999999.99"}, violations.Details())

		mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Error - Not Found", func(t *testing.T) {
		mockRepo, service := setupTest()
		mockRepo.On("FindByID", ctx, customerID).Return(nil, apperrors.ErrNotFound).Once()

		_, err := service.UpdateCustomer(ctx, customerID, update)

		assert.ErrorIs(t, err, customer.ErrNotFound)
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_DeleteCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo, service := setupTest()
		mockRepo.On("Delete", ctx, int64(3)).Return(nil).Once()

		assert.NoError(t, service.DeleteCustomer(ctx, 3))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error - Not Found", func(t *testing.T) {
		mockRepo, service := setupTest()
		mockRepo.On("Delete", ctx, int64(4)).Return(apperrors.ErrNotFound).Once()

		err := service.DeleteCustomer(ctx, 4)

		assert.ErrorIs(t, err, customer.ErrNotFound)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error - Repository Failure", func(t *testing.T) {
		mockRepo, service := setupTest()
		mockRepo.On("Delete", ctx, int64(5)).Return(apperrors.ErrDatabase).Once()

		err := service.DeleteCustomer(ctx, 5)

		assert.ErrorIs(t, err, apperrors.ErrDatabase)
		assert.Contains(t, err.Error(), "failed to delete customer 5")
	})
}

func TestCustomerService_Authenticate(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &customer.Customer{ID: 1, Email: "felipe@teste.com", PasswordHash: string(hash)}

	t.Run("Success", func(t *testing.T) {
		mockRepo, service := setupTest()
		mockRepo.On("FindByEmail", ctx, "felipe@teste.com").Return(stored, nil).Once()

		cust, err := service.Authenticate(ctx, " Felipe@Teste.com ", "123456")

		require.NoError(t, err)
		assert.Equal(t, int64(1), cust.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error - Wrong Password", func(t *testing.T) {
		mockRepo, service := setupTest()
		mockRepo.On("FindByEmail", ctx, "felipe@teste.com").Return(stored, nil).Once()

		cust, err := service.Authenticate(ctx, "felipe@teste.com", "654321")

		assert.Nil(t, cust)
		assert.ErrorIs(t, err, customer.ErrInvalidCredentials)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("Error - Unknown Email", func(t *testing.T) {
		mockRepo, service := setupTest()
		mockRepo.On("FindByEmail", ctx, "ghost@teste.com").Return(nil, apperrors.ErrNotFound).Once()

		_, err := service.Authenticate(ctx, "ghost@teste.com", "123456")

		assert.ErrorIs(t, err, customer.ErrInvalidCredentials)
		assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Error - Missing Credentials", func(t *testing.T) {
		mockRepo, service := setupTest()

		_, err := service.Authenticate(ctx, "", "")

		assert.ErrorIs(t, err, customer.ErrInvalidCredentials)
		mockRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})

	t.Run("Error - Repository Failure", func(t *testing.T) {
		mockRepo, service := setupTest()
		mockRepo.On("FindByEmail", ctx, "felipe@teste.com").Return(nil, apperrors.ErrDatabase).Once()

		_, err := service.Authenticate(ctx, "felipe@teste.com", "123456")

		assert.ErrorIs(t, err, apperrors.ErrDatabase)
		assert.NotErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}
