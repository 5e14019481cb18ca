package handlers

import (
	"net/http"

	"concert-storefront/internal/models"
	"concert-storefront/internal/services"

	"github.com/go-chi/chi/v5"
)

// OrderBackend is what the ticket endpoints need from the backend
type OrderBackend interface {
	services.OrderGateway
	services.PaymentStatusSource
}

// TicketHandler handles ticket purchases and order lookups
type TicketHandler struct {
	orders OrderBackend
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(orders OrderBackend) *TicketHandler {
	return &TicketHandler{orders: orders}
}

// PurchaseTickets handles POST /tickets/purchase
func (h *TicketHandler) PurchaseTickets(w http.ResponseWriter, r *http.Request) {
	var req models.OrderCreateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	order, err := h.orders.PurchaseTickets(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, map[string]any{"order": order})
}

// GetOrderByNumber handles GET /tickets/order/{orderNumber}?email=
func (h *TicketHandler) GetOrderByNumber(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrderByNumber(r.Context(), chi.URLParam(r, "orderNumber"), r.URL.Query().Get("email"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{"order": order})
}

// InitiatePayment handles POST /payments/initiate
func (h *TicketHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	var req models.PaymentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	initiation, err := h.orders.InitiatePayment(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, initiation)
}

// GetPaymentStatus handles GET /payments/status/{transactionId}
func (h *TicketHandler) GetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.orders.GetPaymentStatus(r.Context(), chi.URLParam(r, "transactionId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, status)
}
