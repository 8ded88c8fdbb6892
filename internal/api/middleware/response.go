package middleware

import (
	"credit-application-system/internal/api/handler/dto"
	"encoding/json"
	"net/http"
)

func writeError(w http.ResponseWriter, status int, exception string, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.NewErrorResponse(status, exception, detail))
}
