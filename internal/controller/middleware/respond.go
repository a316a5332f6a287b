// Package middleware contains HTTP middleware for the booking API.
package middleware

import (
	"encoding/json"
	"net/http"

	"dtapi/pkg/api"
)

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(api.ErrorResponse{Error: message})
}
