package dto

import (
	"credit-application-system/internal/domain/credit"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = time.DateOnly

// Date is a calendar date carried as "YYYY-MM-DD" on the wire.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

type CreateCreditRequest struct {
	CreditValue           decimal.Decimal `json:"creditValue" swaggertype:"number" example:"1000.0"`
	DayFirstOfInstallment Date            `json:"dayFirstOfInstallment" swaggertype:"string" format:"date" example:"2030-01-15"`
	NumberOfInstallments  int             `json:"numberOfInstallments" example:"10"`
	CustomerID            int64           `json:"customerId" example:"1"`
}

func (r CreateCreditRequest) ToDomain() credit.CreateCreditRequest {
	return credit.CreateCreditRequest{
		CreditValue:          r.CreditValue,
		DayFirstInstallment:  r.DayFirstOfInstallment.Time,
		NumberOfInstallments: r.NumberOfInstallments,
		CustomerID:           r.CustomerID,
	}
}

type CreditViewResponse struct {
	CreditCode          string                `json:"creditCode"`
	CreditValue         float64               `json:"creditValue"`
	NumberOfInstallment int                   `json:"numberOfInstallment"`
	DayFirstInstallment string                `json:"dayFirstInstallment"`
	Status              string                `json:"status"`
	EmailCustomer       string                `json:"emailCustomer"`
	IncomeCustomer      float64               `json:"incomeCustomer"`
	Schedule            []InstallmentResponse `json:"schedule,omitempty"`
}

type InstallmentResponse struct {
	Number  int    `json:"number"`
	DueDate string `json:"dueDate"`
	Amount  string `json:"amount"`
}

type CreditSummaryResponse struct {
	CreditCode           string  `json:"creditCode"`
	CreditValue          float64 `json:"creditValue"`
	NumberOfInstallments int     `json:"numberOfInstallments"`
	Status               string  `json:"status"`
}

func NewCreditViewResponse(view *credit.CreditView, includeSchedule bool) (CreditViewResponse, error) {
	c := view.Credit
	resp := CreditViewResponse{
		CreditCode:          c.CreditCode.String(),
		CreditValue:         c.CreditValue.InexactFloat64(),
		NumberOfInstallment: c.NumberOfInstallments,
		DayFirstInstallment: c.DayFirstInstallment.Format(dateLayout),
		Status:              string(c.Status),
		EmailCustomer:       view.CustomerEmail,
		IncomeCustomer:      view.CustomerIncome.InexactFloat64(),
	}

	if includeSchedule {
		installments, err := c.Installments()
		if err != nil {
			return CreditViewResponse{}, err
		}
		resp.Schedule = make([]InstallmentResponse, len(installments))
		for i, inst := range installments {
			resp.Schedule[i] = InstallmentResponse{
				Number:  inst.Number,
				DueDate: inst.DueDate.Format(dateLayout),
				Amount:  inst.Amount.StringFixed(2),
			}
		}
	}
	return resp, nil
}

func NewCreditSummaryResponses(credits []*credit.Credit) []CreditSummaryResponse {
	summaries := make([]CreditSummaryResponse, 0, len(credits))
	for _, c := range credits {
		summaries = append(summaries, CreditSummaryResponse{
			CreditCode:           c.CreditCode.String(),
			CreditValue:          c.CreditValue.InexactFloat64(),
			NumberOfInstallments: c.NumberOfInstallments,
			Status:               string(c.Status),
		})
	}
	return summaries
}
