package services

import (
	"context"

	"concert-storefront/internal/models"
)

// EventSource provides the public event data
type EventSource interface {
	GetEventBySlug(ctx context.Context, slug string) (*models.Event, error)
	GetEventContent(ctx context.Context, eventID, lang string) (models.Content, error)
	GetTicketTypes(ctx context.Context, eventID string) ([]models.TicketType, error)
}

// OrderGateway creates orders and starts payments for them
type OrderGateway interface {
	PurchaseTickets(ctx context.Context, req *models.OrderCreateRequest) (*models.Order, error)
	InitiatePayment(ctx context.Context, req *models.PaymentRequest) (*models.PaymentInitiation, error)
}

// PaymentStatusSource answers payment status queries
type PaymentStatusSource interface {
	GetPaymentStatus(ctx context.Context, transactionID string) (*models.PaymentStatusResult, error)
	GetOrderByNumber(ctx context.Context, orderNumber, email string) (*models.Order, error)
}

// DonationGateway records standalone donations
type DonationGateway interface {
	Donate(ctx context.Context, req *models.DonationRequest) (*models.Donation, error)
}

// Backend is the full remote ticketing API
type Backend interface {
	EventSource
	OrderGateway
	PaymentStatusSource
	DonationGateway
}

// CartReader is the read side of the cart store
type CartReader interface {
	Snapshot() models.Cart
	Subtotal() int
	ServiceFee() int
	Total() int
	TotalTicketCount() int
	IsEmpty() bool
}

// CartClearer is what the confirmation poller needs from the cart
type CartClearer interface {
	ClearCart(ctx context.Context) error
}

var _ Backend = (*BackendClient)(nil)
