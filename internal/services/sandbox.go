package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"concert-storefront/internal/log"
	"concert-storefront/internal/metrics"
	"concert-storefront/internal/models"

	"github.com/google/uuid"
)

// SandboxFailingPhoneSuffix makes mobile payments from matching phone numbers fail
const SandboxFailingPhoneSuffix = "0000"

// MsgSandboxDeclined is the failure message reported for declined sandbox payments
const MsgSandboxDeclined = "Paiement refusé par l'opérateur"

// SandboxConfig seeds the in-memory backend
type SandboxConfig struct {
	Event       models.Event
	Content     map[string]models.Content // by language
	TicketTypes []models.TicketType
	// ConfirmAfter is the number of status checks before a mobile payment settles
	ConfirmAfter int
	// PublicBaseURL prefixes the card checkout redirect URL
	PublicBaseURL string
}

type sandboxOrder struct {
	order models.Order
	items []models.OrderItemRequest
}

// SandboxTransaction is a payment tracked by the sandbox
type SandboxTransaction struct {
	ID       string
	OrderID  string
	Method   models.PaymentMethod
	Provider string
	Amount   int
	Phone    string
	Status   models.PaymentStatus
	Message  string
	Checks   int
}

// SandboxBackend is an in-memory implementation of the ticketing API.
// Mobile payments settle after ConfirmAfter status checks; card payments
// settle when the sandbox checkout page is submitted.
type SandboxBackend struct {
	mu           sync.Mutex
	cfg          SandboxConfig
	orders       map[string]*sandboxOrder
	orderNumbers map[string]string
	transactions map[string]*SandboxTransaction
	donations    []models.Donation
}

// NewSandboxBackend creates a sandbox seeded with cfg
func NewSandboxBackend(cfg SandboxConfig) *SandboxBackend {
	if cfg.ConfirmAfter <= 0 {
		cfg.ConfirmAfter = 1
	}
	if cfg.Content == nil {
		cfg.Content = map[string]models.Content{}
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")

	return &SandboxBackend{
		cfg:          cfg,
		orders:       make(map[string]*sandboxOrder),
		orderNumbers: make(map[string]string),
		transactions: make(map[string]*SandboxTransaction),
	}
}

// DefaultSandboxConfig returns the demo concert the sandbox serves by default
func DefaultSandboxConfig(slug string) SandboxConfig {
	start := time.Date(2026, time.December, 12, 18, 0, 0, 0, time.UTC)
	eventID := "evt-" + slug

	return SandboxConfig{
		Event: models.Event{
			ID:          eventID,
			Slug:        slug,
			Name:        "Adorons Ensemble",
			Description: "Une soirée de louange et d'adoration",
			StartDate:   start,
			EndDate:     start.Add(5 * time.Hour),
			Venue:       models.Venue{Name: "Palais de la Culture", City: "Abidjan"},
			Schedule: []models.ScheduleItem{
				{Time: "18:00", Title: "Ouverture des portes"},
				{Time: "19:00", Title: "Louange"},
				{Time: "21:00", Title: "Adoration"},
			},
		},
		Content: map[string]models.Content{
			"fr": {"heroTitle": "Adorons Ensemble", "heroSubtitle": "Un moment unique de louange"},
			"en": {"heroTitle": "Let Us Worship Together", "heroSubtitle": "A unique night of praise"},
		},
		TicketTypes: []models.TicketType{
			{ID: "tt-standard", EventID: eventID, Name: "Standard", Price: 10000, Benefits: []string{"Accès à la salle"}},
			{ID: "tt-vip", EventID: eventID, Name: "VIP", Price: 25000, Benefits: []string{"Places réservées", "Cocktail"}, Featured: true},
			{ID: "tt-vvip", EventID: eventID, Name: "VVIP", Price: 50000, Benefits: []string{"Premier rang", "Rencontre avec les artistes"}},
		},
		ConfirmAfter: 3,
	}
}

func (s *SandboxBackend) GetEventBySlug(_ context.Context, slug string) (*models.Event, error) {
	if slug != s.cfg.Event.Slug {
		return nil, models.ErrEventNotFound
	}
	event := s.cfg.Event
	return &event, nil
}

func (s *SandboxBackend) GetEventContent(_ context.Context, eventID, lang string) (models.Content, error) {
	if eventID != s.cfg.Event.ID {
		return nil, models.ErrEventNotFound
	}
	if content, ok := s.cfg.Content[lang]; ok {
		return content, nil
	}
	if content, ok := s.cfg.Content["fr"]; ok {
		return content, nil
	}
	return models.Content{}, nil
}

func (s *SandboxBackend) GetTicketTypes(_ context.Context, eventID string) ([]models.TicketType, error) {
	if eventID != s.cfg.Event.ID {
		return nil, models.ErrEventNotFound
	}
	return append([]models.TicketType(nil), s.cfg.TicketTypes...), nil
}

func (s *SandboxBackend) ticketType(id string) (models.TicketType, bool) {
	for _, tt := range s.cfg.TicketTypes {
		if tt.ID == id {
			return tt, true
		}
	}
	return models.TicketType{}, false
}

// PurchaseTickets prices the request with the sandbox catalogue and creates a pending order
func (s *SandboxBackend) PurchaseTickets(ctx context.Context, req *models.OrderCreateRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	if err := models.ValidateDonation(req.Donation); err != nil {
		return nil, err
	}

	subtotal := 0
	for _, item := range req.Items {
		tt, ok := s.ticketType(item.TicketTypeID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", models.ErrTicketTypeNotFound, item.TicketTypeID)
		}
		subtotal += tt.Price * item.Quantity
	}
	fee := models.ServiceFee(subtotal)

	s.mu.Lock()
	defer s.mu.Unlock()

	number := models.GenerateOrderNumber()
	for _, taken := s.orderNumbers[number]; taken; _, taken = s.orderNumbers[number] {
		number = models.GenerateOrderNumber()
	}

	order := models.Order{
		ID:          uuid.NewString(),
		OrderNumber: number,
		Status:      models.OrderPending,
		Buyer:       req.Buyer,
		Event:       s.cfg.Event.Snapshot(),
		Subtotal:    subtotal,
		ServiceFee:  fee,
		Donation:    req.Donation,
		Total:       subtotal + fee + req.Donation,
		CreatedAt:   time.Now(),
	}
	s.orders[order.ID] = &sandboxOrder{order: order, items: req.Items}
	s.orderNumbers[number] = order.ID
	metrics.OrdersCreated.Inc()

	log.FromContext(ctx).
		WithField("order_id", order.ID).
		WithField("order_number", number).
		WithField("total", order.Total).
		Info("Sandbox order created")

	return copyOrder(order), nil
}

// InitiatePayment opens a transaction for a pending order
func (s *SandboxBackend) InitiatePayment(ctx context.Context, req *models.PaymentRequest) (*models.PaymentInitiation, error) {
	if !req.Method.IsValid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", models.ErrInvalidInput, req.Method)
	}
	if req.Method == models.PaymentMethodMobile && !models.MobileProvider(req.Provider).IsValid() {
		return nil, fmt.Errorf("%w: unknown mobile money provider %q", models.ErrInvalidInput, req.Provider)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.orders[req.OrderID]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	if stored.order.Status != models.OrderPending {
		return nil, fmt.Errorf("%w: order is %s", models.ErrInvalidInput, stored.order.Status)
	}
	if req.Amount != stored.order.Total {
		return nil, fmt.Errorf("%w: amount %d does not match order total %d", models.ErrInvalidInput, req.Amount, stored.order.Total)
	}

	tx := &SandboxTransaction{
		ID:       "tx_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		OrderID:  req.OrderID,
		Method:   req.Method,
		Provider: req.Provider,
		Amount:   req.Amount,
		Phone:    req.Phone,
		Status:   models.PaymentPending,
	}
	s.transactions[tx.ID] = tx
	metrics.PaymentsInitiated.WithLabelValues(string(req.Method), req.Provider).Inc()

	log.FromContext(ctx).
		WithField("order_id", req.OrderID).
		WithField("transaction_id", tx.ID).
		WithField("method", req.Method).
		Info("Sandbox payment initiated")

	initiation := &models.PaymentInitiation{TransactionID: tx.ID}
	if req.Method == models.PaymentMethodCard {
		initiation.RedirectURL = s.cfg.PublicBaseURL + "/sandbox/checkout/" + tx.ID
	}
	return initiation, nil
}

// GetPaymentStatus reports a transaction status; each call counts as one
// operator check for mobile payments
func (s *SandboxBackend) GetPaymentStatus(ctx context.Context, transactionID string) (*models.PaymentStatusResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[transactionID]
	if !ok {
		return nil, models.ErrTransactionNotFound
	}

	if tx.Status == models.PaymentPending && tx.Method == models.PaymentMethodMobile {
		tx.Checks++
		if tx.Checks >= s.cfg.ConfirmAfter {
			s.settle(ctx, tx, !strings.HasSuffix(tx.Phone, SandboxFailingPhoneSuffix))
		}
	}

	result := &models.PaymentStatusResult{Status: tx.Status, Message: tx.Message}
	if stored, ok := s.orders[tx.OrderID]; ok {
		result.Order = copyOrder(stored.order)
	}
	return result, nil
}

// CompleteCardPayment settles a card transaction from the sandbox checkout page
func (s *SandboxBackend) CompleteCardPayment(ctx context.Context, transactionID string, approved bool) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[transactionID]
	if !ok || tx.Method != models.PaymentMethodCard {
		return nil, models.ErrTransactionNotFound
	}
	if tx.Status == models.PaymentPending {
		s.settle(ctx, tx, approved)
	}

	stored := s.orders[tx.OrderID]
	return copyOrder(stored.order), nil
}

// Transaction returns a copy of a tracked transaction
func (s *SandboxBackend) Transaction(transactionID string) (SandboxTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[transactionID]
	if !ok {
		return SandboxTransaction{}, models.ErrTransactionNotFound
	}
	return *tx, nil
}

// settle finalizes tx and its order; callers hold s.mu
func (s *SandboxBackend) settle(ctx context.Context, tx *SandboxTransaction, approved bool) {
	stored := s.orders[tx.OrderID]
	logger := log.FromContext(ctx).
		WithField("transaction_id", tx.ID).
		WithField("order_id", tx.OrderID)

	if !approved {
		tx.Status = models.PaymentFailed
		tx.Message = MsgSandboxDeclined
		stored.order.Status = models.OrderFailed
		metrics.PaymentsSettled.WithLabelValues(string(models.PaymentFailed)).Inc()
		logger.Info("Sandbox payment declined")
		return
	}

	tx.Status = models.PaymentCompleted
	stored.order.Status = models.OrderCompleted
	stored.order.Tickets = issueTickets(stored, s.cfg.TicketTypes)
	metrics.PaymentsSettled.WithLabelValues(string(models.PaymentCompleted)).Inc()
	logger.WithField("tickets", len(stored.order.Tickets)).Info("Sandbox payment completed")
}

func issueTickets(stored *sandboxOrder, ticketTypes []models.TicketType) []models.IssuedTicket {
	names := make(map[string]string, len(ticketTypes))
	for _, tt := range ticketTypes {
		names[tt.ID] = tt.Name
	}

	var tickets []models.IssuedTicket
	for _, item := range stored.items {
		for _, attendee := range item.Attendees {
			if attendee.IsPlaceholder() {
				attendee = models.AttendeeInfo{
					FirstName: stored.order.Buyer.FirstName,
					LastName:  stored.order.Buyer.LastName,
					Email:     stored.order.Buyer.Email,
				}
			}
			number := "TKT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
			tickets = append(tickets, models.IssuedTicket{
				TicketNumber: number,
				TicketType:   names[item.TicketTypeID],
				Attendee:     attendee,
				QRCode:       number,
			})
		}
	}
	return tickets
}

// GetOrderByNumber returns the order; a non-empty email must match the buyer's
func (s *SandboxBackend) GetOrderByNumber(_ context.Context, orderNumber, email string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.orderNumbers[orderNumber]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	stored := s.orders[id]
	if email != "" && !strings.EqualFold(email, stored.order.Buyer.Email) {
		return nil, models.ErrOrderNotFound
	}
	return copyOrder(stored.order), nil
}

// Donate records a pending donation
func (s *SandboxBackend) Donate(ctx context.Context, req *models.DonationRequest) (*models.Donation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.EventID != s.cfg.Event.ID {
		return nil, models.ErrEventNotFound
	}

	donation := models.Donation{
		ID:        uuid.NewString(),
		EventID:   req.EventID,
		Amount:    req.Amount,
		Status:    "pending",
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.donations = append(s.donations, donation)
	s.mu.Unlock()

	metrics.DonationsRecorded.Add(float64(req.Amount))
	log.FromContext(ctx).
		WithField("donation_id", donation.ID).
		WithField("amount", req.Amount).
		Info("Sandbox donation recorded")

	return &donation, nil
}

// Donations returns the recorded donations
func (s *SandboxBackend) Donations() []models.Donation {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.Donation(nil), s.donations...)
}

func copyOrder(order models.Order) *models.Order {
	order.Tickets = append([]models.IssuedTicket(nil), order.Tickets...)
	if order.Event != nil {
		event := *order.Event
		order.Event = &event
	}
	return &order
}

var _ Backend = (*SandboxBackend)(nil)
