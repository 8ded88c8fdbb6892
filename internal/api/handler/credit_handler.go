package handler

import (
	"credit-application-system/internal/api/handler/dto"
	"credit-application-system/internal/domain/credit"
	"credit-application-system/internal/pkg/apperrors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CreditHandler struct {
	service credit.CreditService
	logger  *slog.Logger
}

func NewCreditHandler(s credit.CreditService, l *slog.Logger) *CreditHandler {
	return &CreditHandler{
		service: s,
		logger:  l.With("component", "CreditHandler"),
	}
}

// CreateCredit handles a customer's credit application.
//
// @Summary Request a new credit
// @Description Validates the request, checks that the customer exists and that the first installment falls within the allowed window, then stores the credit with status IN_PROGRESS.
// @Tags Credits
// @Accept json
// @Produce json
// @Param request body dto.CreateCreditRequest true "Credit request payload"
// @Success 201 {object} dto.CreditViewResponse "Credit successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload, validation or business rule failure"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/credits [post]
// @Security BearerAuth
func (h *CreditHandler) CreateCredit(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCreditRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode credit request", "error", err)
		respondError(w, err)
		return
	}

	view, err := h.service.CreateCredit(r.Context(), req.ToDomain())
	if err != nil {
		respondError(w, err)
		return
	}

	resp, err := dto.NewCreditViewResponse(view, false)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}

// ListCredits lists every credit owned by a customer.
//
// @Summary List credits by customer
// @Description Returns the customer's credits in the order they were created. A customer without credits yields an empty array.
// @Tags Credits
// @Produce json
// @Param customerId query int true "Customer ID"
// @Success 200 {array} dto.CreditSummaryResponse "Credits of the customer"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid customerId"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/credits [get]
// @Security BearerAuth
func (h *CreditHandler) ListCredits(w http.ResponseWriter, r *http.Request) {
	customerID, err := positiveIDParam(r.URL.Query().Get("customerId"), "customerId")
	if err != nil {
		respondError(w, err)
		return
	}

	credits, err := h.service.ListCreditsByCustomer(r.Context(), customerID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCreditSummaryResponses(credits))
}

// GetCredit retrieves one credit of a customer by its code.
//
// @Summary Retrieve a credit
// @Description Retrieves a credit by its code. The credit must belong to the given customer. Add `include=schedule` to receive the monthly installment schedule.
// @Tags Credits
// @Produce json
// @Param creditCode path string true "Credit code (UUID)"
// @Param customerId query int true "Customer ID"
// @Param include query string false "Use 'schedule' to include the installment schedule"
// @Success 200 {object} dto.CreditViewResponse "Credit details"
// @Failure 400 {object} dto.ErrorResponse "Invalid parameters or credit owned by another customer"
// @Failure 404 {object} dto.ErrorResponse "Credit or customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/credits/{creditCode} [get]
// @Security BearerAuth
func (h *CreditHandler) GetCredit(w http.ResponseWriter, r *http.Request) {
	code, err := uuid.Parse(chi.URLParam(r, "creditCode"))
	if err != nil {
		respondError(w, apperrors.NewValidationError("creditCode", "must be a valid UUID"))
		return
	}
	customerID, err := positiveIDParam(r.URL.Query().Get("customerId"), "customerId")
	if err != nil {
		respondError(w, err)
		return
	}

	view, err := h.service.FindCreditByCode(r.Context(), customerID, code)
	if err != nil {
		respondError(w, err)
		return
	}

	includeSchedule := r.URL.Query().Get("include") == "schedule"
	resp, err := dto.NewCreditViewResponse(view, includeSchedule)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
