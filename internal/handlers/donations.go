package handlers

import (
	"net/http"

	"concert-storefront/internal/models"
	"concert-storefront/internal/services"
)

// DonationHandler records standalone donations
type DonationHandler struct {
	donations services.DonationGateway
}

// NewDonationHandler creates a new donation handler
func NewDonationHandler(donations services.DonationGateway) *DonationHandler {
	return &DonationHandler{donations: donations}
}

// Donate handles POST /donations
func (h *DonationHandler) Donate(w http.ResponseWriter, r *http.Request) {
	var req models.DonationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = models.DonationPaymentMethod
	}

	donation, err := h.donations.Donate(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, map[string]any{"donation": donation})
}
