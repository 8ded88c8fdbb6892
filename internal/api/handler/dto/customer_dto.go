package dto

import (
	"credit-application-system/internal/domain/customer"

	"github.com/shopspring/decimal"
)

type CreateCustomerRequest struct {
	FirstName string          `json:"firstName" example:"Felipe"`
	LastName  string          `json:"lastName" example:"Fruhauf"`
	CPF       string          `json:"cpf" example:"12345678910"`
	Email     string          `json:"email" example:"felipe@teste.com"`
	Income    decimal.Decimal `json:"income" swaggertype:"number" example:"3000.0"`
	Password  string          `json:"password" example:"123456"`
	ZipCode   string          `json:"zipCode" example:"99555000"`
	Street    string          `json:"street" example:"Rua dos Testes"`
}

func (r CreateCustomerRequest) ToDomain() customer.RegisterRequest {
	return customer.RegisterRequest{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		CPF:       r.CPF,
		Email:     r.Email,
		Income:    r.Income,
		Password:  r.Password,
		ZipCode:   r.ZipCode,
		Street:    r.Street,
	}
}

type UpdateCustomerRequest struct {
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Income    decimal.Decimal `json:"income" swaggertype:"number"`
	ZipCode   string          `json:"zipCode"`
	Street    string          `json:"street"`
}

func (r UpdateCustomerRequest) ToDomain() customer.UpdateRequest {
	return customer.UpdateRequest{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Income:    r.Income,
		ZipCode:   r.ZipCode,
		Street:    r.Street,
	}
}

type CustomerResponse struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	CPF       string  `json:"cpf"`
	Email     string  `json:"email"`
	Income    float64 `json:"income"`
	ZipCode   string  `json:"zipCode"`
	Street    string  `json:"street"`
}

func NewCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		CPF:       c.CPF,
		Email:     c.Email,
		Income:    c.Income.InexactFloat64(),
		ZipCode:   c.Address.ZipCode,
		Street:    c.Address.Street,
	}
}
