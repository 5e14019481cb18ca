package models

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"
)

// OrderStatus represents the payment status of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderFailed    OrderStatus = "failed"
	OrderCancelled OrderStatus = "cancelled"
)

// PaymentStatus is the status reported by the payment status endpoint
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentSuccess   PaymentStatus = "success"
	PaymentFailed    PaymentStatus = "failed"
)

// BuyerInfo holds the purchaser contact details for one checkout attempt
type BuyerInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Order is the backend's snapshot of a ticket purchase
type Order struct {
	ID          string         `json:"_id"`
	OrderNumber string         `json:"orderNumber"`
	Status      OrderStatus    `json:"status"`
	Buyer       BuyerInfo      `json:"buyer"`
	Tickets     []IssuedTicket `json:"tickets"`
	Event       *EventSnapshot `json:"event,omitempty"`
	Subtotal    int            `json:"subtotal"`
	ServiceFee  int            `json:"serviceFee"`
	Donation    int            `json:"donation"`
	Total       int            `json:"total"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// EventSnapshot is the event data embedded in an order
type EventSnapshot struct {
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	Venue     string    `json:"venue"`
}

// OrderItemRequest is one cart line in a purchase request
type OrderItemRequest struct {
	TicketTypeID string         `json:"ticketTypeId"`
	Quantity     int            `json:"quantity"`
	Attendees    []AttendeeInfo `json:"attendees"`
}

// OrderCreateRequest is the body of POST /tickets/purchase
type OrderCreateRequest struct {
	Items    []OrderItemRequest `json:"items"`
	Donation int                `json:"donation"`
	Buyer    BuyerInfo          `json:"buyer"`
}

// PaymentRequest is the body of POST /payments/initiate
type PaymentRequest struct {
	OrderID  string        `json:"orderId"`
	Method   PaymentMethod `json:"method"`
	Provider string        `json:"provider"`
	Amount   int           `json:"amount"`
	Phone    string        `json:"phone"`
	Email    string        `json:"email"`
}

// PaymentInitiation is the backend answer to a payment request
type PaymentInitiation struct {
	TransactionID string `json:"transactionId,omitempty"`
	RedirectURL   string `json:"redirectUrl,omitempty"`
}

// PaymentStatusResult is the answer of the status endpoints
type PaymentStatusResult struct {
	Status  PaymentStatus `json:"status"`
	Order   *Order        `json:"order,omitempty"`
	Message string        `json:"message,omitempty"`
}

var (
	// Order number format: ORD-YYYYMMDD-XXXXXX (e.g., ORD-20240101-123456)
	orderNumberRegex = regexp.MustCompile(`^ORD-\d{8}-\d{6}$`)
	// Same pattern the checkout form applies
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Validate checks that every buyer field is present and the email is well formed
func (b BuyerInfo) Validate() error {
	if b.MissingFields() {
		return errors.New("first name, last name, email and phone are required")
	}

	if !IsValidEmail(b.Email) {
		return errors.New("email format is invalid")
	}

	return nil
}

// MissingFields returns true if any buyer field is blank
func (b BuyerInfo) MissingFields() bool {
	return strings.TrimSpace(b.FirstName) == "" ||
		strings.TrimSpace(b.LastName) == "" ||
		strings.TrimSpace(b.Email) == "" ||
		strings.TrimSpace(b.Phone) == ""
}

// FullName returns the buyer display name
func (b BuyerInfo) FullName() string {
	return strings.TrimSpace(b.FirstName + " " + b.LastName)
}

// IsValidEmail reports whether email looks like local@domain.tld
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidOrderNumber reports whether the order number has the ORD-YYYYMMDD-XXXXXX shape
func IsValidOrderNumber(orderNumber string) bool {
	return orderNumberRegex.MatchString(orderNumber)
}

// Validate validates a purchase request before it leaves the client
func (req *OrderCreateRequest) Validate() error {
	if len(req.Items) == 0 {
		return errors.New("order must contain at least one item")
	}

	for _, item := range req.Items {
		if item.TicketTypeID == "" {
			return errors.New("ticket type id is required")
		}
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if len(item.Attendees) > item.Quantity {
			return fmt.Errorf("ticket type %s: %w", item.TicketTypeID, ErrTooManyAttendees)
		}
		if len(item.Attendees) < item.Quantity {
			return fmt.Errorf("ticket type %s: %w", item.TicketTypeID, ErrMissingAttendees)
		}
	}

	if req.Donation < 0 {
		return ErrInvalidDonation
	}

	return req.Buyer.Validate()
}

// IsTerminal returns true if no further status change is expected
func (s PaymentStatus) IsTerminal() bool {
	return s.IsSuccessful() || s == PaymentFailed
}

// IsSuccessful returns true for both success spellings the backend uses
func (s PaymentStatus) IsSuccessful() bool {
	return s == PaymentCompleted || s == PaymentSuccess
}

// PaymentStatus maps an order status to the payment status vocabulary
func (s OrderStatus) PaymentStatus() PaymentStatus {
	switch s {
	case OrderCompleted:
		return PaymentCompleted
	case OrderFailed, OrderCancelled:
		return PaymentFailed
	default:
		return PaymentPending
	}
}

// TicketCount returns the number of tickets issued for the order
func (o *Order) TicketCount() int {
	return len(o.Tickets)
}

// GenerateOrderNumber generates a unique order number
func GenerateOrderNumber() string {
	now := time.Now()
	dateStr := now.Format("20060102")

	// Generate a 6-digit random number using crypto/rand for better uniqueness
	max := big.NewInt(1000000)
	randomNum, err := rand.Int(rand.Reader, max)
	if err != nil {
		// Fallback to timestamp-based generation if crypto/rand fails
		timestamp := now.UnixNano()
		randomPart := timestamp % 1000000
		return fmt.Sprintf("ORD-%s-%06d", dateStr, randomPart)
	}

	return fmt.Sprintf("ORD-%s-%06d", dateStr, randomNum.Int64())
}
