package models

import (
	"errors"
	"strings"
)

// TicketType represents a purchasable ticket category for the event
type TicketType struct {
	ID          string   `json:"_id"`
	EventID     string   `json:"eventId,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       int      `json:"price"` // whole XOF francs
	Benefits    []string `json:"benefits,omitempty"`
	Featured    bool     `json:"featured,omitempty"`
}

// AttendeeInfo identifies the holder of one ticket unit.
// Blank placeholders are allowed until the order is submitted.
type AttendeeInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// IssuedTicket is a ticket issued by the backend for a completed order
type IssuedTicket struct {
	TicketNumber string       `json:"ticketNumber"`
	TicketType   string       `json:"ticketType,omitempty"`
	Attendee     AttendeeInfo `json:"attendee"`
	QRCode       string       `json:"qrCode,omitempty"`
}

// Validate validates the ticket type data
func (tt *TicketType) Validate() error {
	if err := validateTicketTypeID(tt.ID); err != nil {
		return err
	}

	if err := validateTicketTypeName(tt.Name); err != nil {
		return err
	}

	return validateTicketTypePrice(tt.Price)
}

// IsPlaceholder returns true if no attendee detail has been filled in yet
func (a AttendeeInfo) IsPlaceholder() bool {
	return strings.TrimSpace(a.FirstName) == "" &&
		strings.TrimSpace(a.LastName) == "" &&
		strings.TrimSpace(a.Email) == ""
}

// FullName returns the attendee display name
func (a AttendeeInfo) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

func validateTicketTypeID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("ticket type id is required")
	}
	return nil
}

// validateTicketTypeName validates a ticket type name
func validateTicketTypeName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("ticket type name is required")
	}

	if len(name) > 100 {
		return errors.New("ticket type name must be less than 100 characters")
	}

	return nil
}

// validateTicketTypePrice validates a ticket type price
func validateTicketTypePrice(price int) error {
	if price < 0 {
		return errors.New("ticket price cannot be negative")
	}

	return nil
}
