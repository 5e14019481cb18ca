package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"concert-storefront/internal/log"
	"concert-storefront/internal/models"
	"concert-storefront/internal/repositories"
)

// DefaultCartKey is the local storage key holding the cart record
const DefaultCartKey = "cart"

// CartStore is the single source of truth for the buyer's ticket selection.
// Every mutation is written to local storage before it becomes visible, so
// the durable record always matches the in-memory cart.
type CartStore struct {
	mu      sync.Mutex
	storage repositories.LocalStorage
	key     string
	cart    models.Cart
}

// NewCartStore creates a cart store and rehydrates it from storage.
// Missing or unreadable records yield an empty cart.
func NewCartStore(ctx context.Context, storage repositories.LocalStorage, key string) *CartStore {
	if key == "" {
		key = DefaultCartKey
	}

	s := &CartStore{
		storage: storage,
		key:     key,
		cart:    models.Cart{Items: []models.CartLineItem{}},
	}
	s.cart = s.load(ctx)

	return s
}

// Reload discards the in-memory cart and reads the durable record again
func (s *CartStore) Reload(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = s.load(ctx)
}

func (s *CartStore) load(ctx context.Context) models.Cart {
	logger := log.FromContext(ctx).WithField("key", s.key)
	empty := models.Cart{Items: []models.CartLineItem{}}

	raw, found, err := s.storage.GetItem(ctx, s.key)
	if err != nil {
		logger.WithError(err).Warn("Failed to load cart")
		return empty
	}
	if !found {
		return empty
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		logger.WithError(err).Warn("Failed to load cart, starting empty")
		return empty
	}
	cart.Normalize()

	return cart
}

// commit persists next and, once written, makes it the current cart
func (s *CartStore) commit(ctx context.Context, next models.Cart) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := s.storage.SetItem(ctx, s.key, string(data)); err != nil {
		log.FromContext(ctx).WithError(err).Error("Failed to persist cart")
		return fmt.Errorf("failed to persist cart: %w", err)
	}

	s.cart = next
	return nil
}

// AddItem adds quantity tickets of ticketType. An existing line for the same
// ticket type is merged: quantities add up and attendees are appended.
func (s *CartStore) AddItem(ctx context.Context, ticketType models.TicketType, quantity int, attendees []models.AttendeeInfo) error {
	if quantity <= 0 {
		return models.ErrInvalidQuantity
	}
	if err := ticketType.Validate(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	fitted, err := models.FitAttendees(attendees, quantity)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cart.Clone()
	if index := next.FindItem(ticketType.ID); index >= 0 {
		item := &next.Items[index]
		item.Quantity += quantity
		item.Attendees = append(item.Attendees, fitted...)
		item.TotalPrice = item.UnitPrice * item.Quantity
	} else {
		next.Items = append(next.Items, models.NewCartLineItem(ticketType, quantity, fitted))
	}

	log.FromContext(ctx).
		WithField("ticket_type_id", ticketType.ID).
		WithField("quantity", quantity).
		Debug("Adding tickets to cart")

	return s.commit(ctx, next)
}

// UpdateItemQuantity replaces the quantity and attendees of a line.
// A quantity of zero or less removes the line.
func (s *CartStore) UpdateItemQuantity(ctx context.Context, ticketTypeID string, quantity int, attendees []models.AttendeeInfo) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, ticketTypeID)
	}

	fitted, err := models.FitAttendees(attendees, quantity)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.cart.FindItem(ticketTypeID)
	if index < 0 {
		return nil
	}

	next := s.cart.Clone()
	item := &next.Items[index]
	item.Quantity = quantity
	item.Attendees = fitted
	item.TotalPrice = item.UnitPrice * quantity

	return s.commit(ctx, next)
}

// RemoveItem deletes the line for ticketTypeID; unknown ids are ignored
func (s *CartStore) RemoveItem(ctx context.Context, ticketTypeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.cart.FindItem(ticketTypeID)
	if index < 0 {
		return nil
	}

	next := s.cart.Clone()
	next.Items = append(next.Items[:index], next.Items[index+1:]...)

	return s.commit(ctx, next)
}

// SetDonation replaces the donation amount. Zero clears it; other amounts
// must satisfy models.ValidateDonation.
func (s *CartStore) SetDonation(ctx context.Context, amount int) error {
	if err := models.ValidateDonation(amount); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cart.Clone()
	next.Donation = amount

	return s.commit(ctx, next)
}

// ClearCart empties the cart and erases the durable record
func (s *CartStore) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.RemoveItem(ctx, s.key); err != nil {
		log.FromContext(ctx).WithError(err).Error("Failed to erase cart")
		return fmt.Errorf("failed to erase cart: %w", err)
	}

	s.cart = models.Cart{Items: []models.CartLineItem{}}
	return nil
}

// Snapshot returns a copy of the current cart
func (s *CartStore) Snapshot() models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Clone()
}

// Items returns a copy of the line items in display order
func (s *CartStore) Items() []models.CartLineItem {
	return s.Snapshot().Items
}

// Donation returns the current donation amount
func (s *CartStore) Donation() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Donation
}

func (s *CartStore) Subtotal() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Subtotal()
}

func (s *CartStore) ServiceFee() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.ServiceFee()
}

func (s *CartStore) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Total()
}

func (s *CartStore) TotalTicketCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.TotalTicketCount()
}

func (s *CartStore) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.IsEmpty()
}

var (
	_ CartReader  = (*CartStore)(nil)
	_ CartClearer = (*CartStore)(nil)
)
