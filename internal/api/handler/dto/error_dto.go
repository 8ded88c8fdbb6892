package dto

import (
	"fmt"
	"net/http"
	"time"
)

const (
	ExceptionValidation   = "ValidationError"
	ExceptionBusiness     = "BusinessError"
	ExceptionNotFound     = "NotFoundError"
	ExceptionConflict     = "ConflictError"
	ExceptionUnauthorized = "UnauthorizedError"
	ExceptionRateLimit    = "RateLimitError"
	ExceptionInternal     = "InternalError"
)

// ErrorResponse is the body of every 4xx and 5xx response.
type ErrorResponse struct {
	Title     string    `json:"title" example:"Bad Request! Consult the documentation"`
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status" example:"400"`
	Exception string    `json:"exception" example:"ValidationError"`
	Details   []string  `json:"details"`
}

func NewErrorResponse(status int, exception string, details ...string) ErrorResponse {
	if details == nil {
		details = []string{}
	}
	return ErrorResponse{
		Title:     errorTitle(status),
		Timestamp: time.Now(),
		Status:    status,
		Exception: exception,
		Details:   details,
	}
}

func errorTitle(status int) string {
	if status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return fmt.Sprintf("%s! Consult the documentation", http.StatusText(status))
}

type TokenRequest struct {
	Email    string `json:"email" example:"felipe@teste.com"`
	Password string `json:"password" example:"123456"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
