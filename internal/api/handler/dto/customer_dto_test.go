package dto

import (
	"credit-application-system/internal/domain/customer"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCustomerRequestToDomain(t *testing.T) {
	var req CreateCustomerRequest
	err := json.Unmarshal([]byte(`{
		"firstName": "Felipe", "lastName": "Fruhauf", "cpf": "12345678910",
		"email": "felipe@teste.com", "income": 3000.0, "password": "123456",
		"zipCode": "99555000", "street": "Rua dos Testes"
	}`), &req)
	require.NoError(t, err)

	got := req.ToDomain()

	assert.Equal(t, "Felipe", got.FirstName)
	assert.Equal(t, "12345678910", got.CPF)
	assert.Equal(t, "123456", got.Password)
	assert.True(t, decimal.NewFromInt(3000).Equal(got.Income))
	assert.Equal(t, "Rua dos Testes", got.Street)
}

func TestUpdateCustomerRequestToDomain(t *testing.T) {
	req := UpdateCustomerRequest{FirstName: "A", LastName: "B", Income: decimal.NewFromInt(1), ZipCode: "1", Street: "S"}

	assert.Equal(t, customer.UpdateRequest{FirstName: "A", LastName: "B", Income: req.Income, ZipCode: "1", Street: "S"}, req.ToDomain())
}

func TestNewCustomerResponseOmitsPassword(t *testing.T) {
	c := &customer.Customer{
		ID:           1,
		FirstName:    "Felipe",
		LastName:     "Fruhauf",
		CPF:          "12345678910",
		Email:        "felipe@teste.com",
		Income:       decimal.NewFromFloat(3000.0),
		PasswordHash: "$2a$10$secret",
		Address:      customer.Address{ZipCode: "99555000", Street: "Rua dos Testes"},
	}

	resp := NewCustomerResponse(c)
	b, err := json.Marshal(resp)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": 1, "firstName": "Felipe", "lastName": "Fruhauf", "cpf": "12345678910",
		"email": "felipe@teste.com", "income": 3000, "zipCode": "99555000", "street": "Rua dos Testes"
	}`, string(b))
}
