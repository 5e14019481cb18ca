package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"concert-storefront/internal/log"
	"concert-storefront/internal/models"
)

// defaultErrorMessage is returned for failures that carry no user-facing text
const defaultErrorMessage = "Une erreur est survenue"

// Response is the envelope every API endpoint answers with
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Response{Success: true, Data: data})
}

// writeError maps domain errors to HTTP statuses
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := defaultErrorMessage

	switch {
	case errors.Is(err, models.ErrEventNotFound),
		errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrTicketTypeNotFound),
		errors.Is(err, models.ErrTransactionNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrAttendeeMismatch),
		errors.Is(err, models.ErrInvalidDonation):
		status = http.StatusBadRequest
		message = err.Error()
	default:
		log.FromContext(r.Context()).WithError(err).Error("Request failed")
	}

	writeJSON(w, status, Response{Success: false, Message: message})
}

// decodeBody decodes a JSON request body into dst
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: request body must be valid JSON", models.ErrInvalidInput)
	}
	return nil
}
