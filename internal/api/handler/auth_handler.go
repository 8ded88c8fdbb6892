package handler

import (
	"context"
	"credit-application-system/internal/api/handler/dto"
	"credit-application-system/internal/config"
	"credit-application-system/internal/domain/customer"
	"credit-application-system/internal/pkg/apperrors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 24 * time.Hour

// Authenticator verifies a customer's login credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*customer.Customer, error)
}

type AuthHandler struct {
	customers Authenticator
	cfg       config.AuthConfig
	logger    *slog.Logger
	now       func() time.Time
}

func NewAuthHandler(customers Authenticator, cfg config.AuthConfig, l *slog.Logger) *AuthHandler {
	return &AuthHandler{
		customers: customers,
		cfg:       cfg,
		logger:    l.With("component", "AuthHandler"),
		now:       time.Now,
	}
}

// GenerateBearerToken issues a signed JWT for a registered customer whose
// email and password match.
//
// @Summary Generate a JWT bearer token
// @Description Checks the customer's email and password and issues an HS256 token valid for 24 hours, to be sent as `Authorization: Bearer <token>` when authentication is enabled.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.TokenRequest true "Customer credentials"
// @Success 200 {object} dto.TokenResponse "Token successfully generated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/token [post]
func (h *AuthHandler) GenerateBearerToken(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenRequest
	h.logger.InfoContext(r.Context(), "Generating bearer token")
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode token request", "error", err)
		respondError(w, err)
		return
	}

	violations := &apperrors.ValidationErrors{}
	if strings.TrimSpace(req.Email) == "" {
		violations.Add("email", "must not be empty")
	}
	if req.Password == "" {
		violations.Add("password", "must not be empty")
	}
	if violations.HasViolations() {
		respondError(w, violations)
		return
	}

	cust, err := h.customers.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Token request refused", "error", err)
		respondError(w, err)
		return
	}

	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(cust.ID, 10),
		"email": cust.Email,
		"exp":   h.now().Add(tokenTTL).Unix(),
		"iat":   h.now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to sign token", "error", err)
		respondError(w, fmt.Errorf("%w: failed to sign token: %v", apperrors.ErrInternalServer, err))
		return
	}
	respondJSON(w, http.StatusOK, dto.TokenResponse{Token: fmt.Sprintf("Bearer %s", tokenString)})
}
