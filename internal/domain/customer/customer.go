package customer

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Address struct {
	ZipCode string `json:"zipCode"`
	Street  string `json:"street"`
}

type Customer struct {
	ID           int64           `json:"id"`
	FirstName    string          `json:"firstName"`
	LastName     string          `json:"lastName"`
	CPF          string          `json:"cpf"`
	Email        string          `json:"email"`
	Income       decimal.Decimal `json:"income"`
	PasswordHash string          `json:"-"`
	Address      Address         `json:"address"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// RegisterRequest carries the data needed to sign a customer up. Password is
// plain text here and is only ever stored hashed.
type RegisterRequest struct {
	FirstName string          `json:"firstName" validate:"required"`
	LastName  string          `json:"lastName" validate:"required"`
	CPF       string          `json:"cpf" validate:"required,len=11,numeric"`
	Email     string          `json:"email" validate:"required,email"`
	Income    decimal.Decimal `json:"income" validate:"gte=0,lte=9999999999999.99,maxscale=2"`
	Password  string          `json:"password" validate:"required,min=6"`
	ZipCode   string          `json:"zipCode" validate:"required"`
	Street    string          `json:"street" validate:"required"`
}

func (r *RegisterRequest) normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.CPF = strings.TrimSpace(r.CPF)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.ZipCode = strings.TrimSpace(r.ZipCode)
	r.Street = strings.TrimSpace(r.Street)
}

type UpdateRequest struct {
	FirstName string          `json:"firstName" validate:"required"`
	LastName  string          `json:"lastName" validate:"required"`
	Income    decimal.Decimal `json:"income" validate:"gte=0,lte=9999999999999.99,maxscale=2"`
	ZipCode   string          `json:"zipCode" validate:"required"`
	Street    string          `json:"street" validate:"required"`
}

func (r *UpdateRequest) normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.ZipCode = strings.TrimSpace(r.ZipCode)
	r.Street = strings.TrimSpace(r.Street)
}

func NewCustomer(firstName, lastName, cpf, email string, income decimal.Decimal, passwordHash string, address Address) *Customer {
	now := time.Now()
	return &Customer{
		FirstName:    firstName,
		LastName:     lastName,
		CPF:          cpf,
		Email:        email,
		Income:       income,
		PasswordHash: passwordHash,
		Address:      address,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Apply copies the mutable fields of req onto the customer. Identity
// fields (CPF, email, password) are never changed by an update.
func (c *Customer) Apply(req UpdateRequest) {
	c.FirstName = req.FirstName
	c.LastName = req.LastName
	c.Income = req.Income
	c.Address = Address{ZipCode: req.ZipCode, Street: req.Street}
	c.UpdatedAt = time.Now()
}

func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
