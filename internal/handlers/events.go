package handlers

import (
	"net/http"

	"concert-storefront/internal/services"

	"github.com/go-chi/chi/v5"
)

// EventHandler serves the public event, its content and ticket types
type EventHandler struct {
	events   services.EventSource
	language string
}

// NewEventHandler creates a new event handler
func NewEventHandler(events services.EventSource, language string) *EventHandler {
	return &EventHandler{events: events, language: language}
}

// GetEventBySlug handles GET /events/public/{slug}
func (h *EventHandler) GetEventBySlug(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.GetEventBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{"event": event})
}

// GetEventContent handles GET /content/public/event/{eventId}?lang=
func (h *EventHandler) GetEventContent(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = r.Header.Get("Accept-Language")
	}
	if lang == "" {
		lang = h.language
	}

	content, err := h.events.GetEventContent(r.Context(), chi.URLParam(r, "eventId"), lang)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{"content": content})
}

// GetTicketTypes handles GET /tickets/event/{eventId}/types
func (h *EventHandler) GetTicketTypes(w http.ResponseWriter, r *http.Request) {
	ticketTypes, err := h.events.GetTicketTypes(r.Context(), chi.URLParam(r, "eventId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{"ticketTypes": ticketTypes})
}
