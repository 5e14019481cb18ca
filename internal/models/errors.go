package models

import (
	"errors"
	"fmt"
)

// Common errors used throughout the application
var (
	ErrEventNotFound       = errors.New("event not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrTicketTypeNotFound  = errors.New("ticket type not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidQuantity     = errors.New("quantity must be greater than 0")
	ErrAttendeeMismatch    = errors.New("attendee count does not match ticket quantity")
	ErrTooManyAttendees    = fmt.Errorf("%w: more attendees than tickets", ErrAttendeeMismatch)
	ErrMissingAttendees    = fmt.Errorf("%w: fewer attendees than tickets", ErrAttendeeMismatch)
	ErrInvalidDonation     = errors.New("invalid donation amount")
)
