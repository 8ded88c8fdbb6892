package handler

import (
	"credit-application-system/internal/api/handler/dto"
	"credit-application-system/internal/pkg/apperrors"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

const internalErrorDetail = "An unexpected error occurred."

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("%w: no request body", apperrors.ErrInvalidArgument)
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", apperrors.ErrInvalidArgument, err)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"title":"Internal Server Error","status":500,"exception":"InternalError","details":[]}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

// respondError maps err onto the status, exception class and detail list of
// the error body.
func respondError(w http.ResponseWriter, err error) {
	status, exception, details := classifyError(err)
	respondJSON(w, status, dto.NewErrorResponse(status, exception, details...))
}

func classifyError(err error) (int, string, []string) {
	var violations *apperrors.ValidationErrors
	var violation *apperrors.ValidationError

	switch {
	case errors.As(err, &violations):
		return http.StatusBadRequest, dto.ExceptionValidation, violations.Details()
	case errors.As(err, &violation):
		return http.StatusBadRequest, dto.ExceptionValidation, []string{violation.Detail()}
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, dto.ExceptionValidation, []string{err.Error()}
	case errors.Is(err, apperrors.ErrBusinessRule):
		return http.StatusBadRequest, dto.ExceptionBusiness, []string{err.Error()}
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, dto.ExceptionNotFound, []string{err.Error()}
	case errors.Is(err, apperrors.ErrAlreadyExists):
		return http.StatusConflict, dto.ExceptionConflict, []string{err.Error()}
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, dto.ExceptionUnauthorized, []string{err.Error()}
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
		return http.StatusInternalServerError, dto.ExceptionInternal, []string{internalErrorDetail}
	}
}

// positiveIDParam parses a positive integer identifier; field names the
// parameter in the violation reported on failure.
func positiveIDParam(raw, field string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(field, "must be a positive integer")
	}
	return id, nil
}
