package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"noous-backend/internal/services"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, v interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// respondServiceError maps a service error to an HTTP response. Rate-limit
// rejections become 429 with a Retry-After header; everything else falls
// back to the given status.
func respondServiceError(w http.ResponseWriter, err error, fallbackStatus int) {
	var rateErr *services.RateLimitError
	if errors.As(err, &rateErr) {
		w.Header().Set("Retry-After", strconv.Itoa(rateErr.RetryAfterMinutes()*60))
		respondError(w, rateErr.Error(), http.StatusTooManyRequests)
		return
	}
	respondError(w, err.Error(), fallbackStatus)
}

// decodeAndValidate decodes a JSON request body and runs struct validation
func decodeAndValidate(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("invalid request body")
	}
	if err := validate.Struct(v); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			return errors.New("invalid field: " + fields[0].Field())
		}
		return err
	}
	return nil
}
