package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"concert-storefront/internal/log"
	"concert-storefront/internal/models"
)

// Checkout messages shown to the buyer
const (
	MsgEmptyCart      = "Your cart is empty"
	MsgFillRequired   = "Please fill in all required fields"
	MsgInvalidEmail   = "Please enter a valid email address"
	MsgSelectPayment  = "Please select a payment method"
	MsgSelectProvider = "Please select a mobile money provider"
	MsgPaymentFailed  = "Payment failed, please try again"
)

var (
	// ErrSubmissionInProgress is returned when a submit is triggered while one is in flight
	ErrSubmissionInProgress = errors.New("a submission is already in progress")
	// ErrStepInvalid wraps the validation failure of the current step
	ErrStepInvalid = errors.New("checkout step is invalid")
	// ErrCheckoutAbandoned is returned when results arrive after the flow was abandoned
	ErrCheckoutAbandoned = errors.New("checkout was abandoned")
)

// CheckoutCart is the part of the cart store the checkout flow works with
type CheckoutCart interface {
	CartReader
	UpdateItemQuantity(ctx context.Context, ticketTypeID string, quantity int, attendees []models.AttendeeInfo) error
	RemoveItem(ctx context.Context, ticketTypeID string) error
	SetDonation(ctx context.Context, amount int) error
}

// CheckoutResult describes where a successful submission sent the buyer
type CheckoutResult struct {
	Order         *models.Order
	TransactionID string
	RedirectURL   string
}

// CheckoutFlow drives the review, buyer and payment steps and submits the
// order and payment once all three are valid.
type CheckoutFlow struct {
	mu        sync.Mutex
	cart      CheckoutCart
	gateway   OrderGateway
	navigator Navigator
	session   models.CheckoutSession
	abandoned bool
}

// NewCheckoutFlow creates a flow positioned on the review step
func NewCheckoutFlow(cart CheckoutCart, gateway OrderGateway, navigator Navigator) *CheckoutFlow {
	return &CheckoutFlow{
		cart:      cart,
		gateway:   gateway,
		navigator: navigator,
		session:   models.NewCheckoutSession(),
	}
}

// Session returns a copy of the current session
func (f *CheckoutFlow) Session() models.CheckoutSession {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.session
}

// SetBuyerInfo replaces the buyer contact details
func (f *CheckoutFlow) SetBuyerInfo(buyer models.BuyerInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.session.Buyer = buyer
}

// SelectPaymentMethod chooses mobile money or card
func (f *CheckoutFlow) SelectPaymentMethod(method models.PaymentMethod) error {
	if !method.IsValid() {
		return fmt.Errorf("%w: unknown payment method %q", models.ErrInvalidInput, method)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.session.PaymentMethod = method
	return nil
}

// SelectMobileProvider chooses the mobile money operator
func (f *CheckoutFlow) SelectMobileProvider(provider models.MobileProvider) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: unknown mobile money provider %q", models.ErrInvalidInput, provider)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.session.MobileProvider = provider
	return nil
}

// UpdateItemQuantity edits a cart line from the review step
func (f *CheckoutFlow) UpdateItemQuantity(ctx context.Context, ticketTypeID string, quantity int, attendees []models.AttendeeInfo) error {
	return f.cart.UpdateItemQuantity(ctx, ticketTypeID, quantity, attendees)
}

// RemoveItem removes a cart line from the review step
func (f *CheckoutFlow) RemoveItem(ctx context.Context, ticketTypeID string) error {
	return f.cart.RemoveItem(ctx, ticketTypeID)
}

// SetDonation changes the donation from the review step
func (f *CheckoutFlow) SetDonation(ctx context.Context, amount int) error {
	return f.cart.SetDonation(ctx, amount)
}

// Back returns to the previous step keeping every input
func (f *CheckoutFlow) Back() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.session.IsSubmitting || f.session.Step <= models.StepReview {
		return
	}
	f.session.LastError = ""
	f.session.Step--
}

// Abandon marks the flow as gone; late backend results are dropped
func (f *CheckoutFlow) Abandon() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.abandoned = true
}

// Next validates the current step. Steps 1 and 2 advance on success; step 3
// submits the order and payment. A nil result with a nil error means the
// flow advanced without submitting.
func (f *CheckoutFlow) Next(ctx context.Context) (*CheckoutResult, error) {
	f.mu.Lock()

	if f.session.IsSubmitting {
		f.mu.Unlock()
		return nil, ErrSubmissionInProgress
	}

	f.session.LastError = ""
	if msg := f.validateStep(); msg != "" {
		f.session.LastError = msg
		f.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrStepInvalid, msg)
	}

	if f.session.Step < models.StepPayment {
		f.session.Step++
		f.mu.Unlock()
		return nil, nil
	}

	f.session.IsSubmitting = true
	session := f.session
	f.mu.Unlock()

	return f.submit(ctx, session)
}

// validateStep returns the message for the first failed rule of the current step
func (f *CheckoutFlow) validateStep() string {
	switch f.session.Step {
	case models.StepReview:
		if f.cart.IsEmpty() {
			return MsgEmptyCart
		}
	case models.StepBuyer:
		if f.session.Buyer.MissingFields() {
			return MsgFillRequired
		}
		if !models.IsValidEmail(f.session.Buyer.Email) {
			return MsgInvalidEmail
		}
	case models.StepPayment:
		if !f.session.PaymentMethod.IsValid() {
			return MsgSelectPayment
		}
		if f.session.PaymentMethod == models.PaymentMethodMobile && !f.session.MobileProvider.IsValid() {
			return MsgSelectProvider
		}
	}
	return ""
}

func (f *CheckoutFlow) submit(ctx context.Context, session models.CheckoutSession) (*CheckoutResult, error) {
	cart := f.cart.Snapshot()
	logger := log.FromContext(ctx).
		WithField("payment_method", session.PaymentMethod).
		WithField("tickets", cart.TotalTicketCount())

	orderReq := &models.OrderCreateRequest{
		Items:    make([]models.OrderItemRequest, 0, len(cart.Items)),
		Donation: cart.Donation,
		Buyer:    session.Buyer,
	}
	for _, item := range cart.Items {
		orderReq.Items = append(orderReq.Items, models.OrderItemRequest{
			TicketTypeID: item.TicketType.ID,
			Quantity:     item.Quantity,
			Attendees:    item.Attendees,
		})
	}
	if err := orderReq.Validate(); err != nil {
		return nil, f.fail(err.Error(), fmt.Errorf("%w: %v", ErrStepInvalid, err))
	}

	logger.Info("Creating order")
	order, err := f.gateway.PurchaseTickets(ctx, orderReq)
	if err != nil {
		logger.WithError(err).Warn("Order creation failed")
		return nil, f.fail(submitMessage(err), fmt.Errorf("failed to create order: %w", err))
	}
	if !f.alive() {
		return nil, ErrCheckoutAbandoned
	}

	logger = logger.WithField("order_id", order.ID)
	paymentReq := &models.PaymentRequest{
		OrderID:  order.ID,
		Method:   session.PaymentMethod,
		Provider: models.ProviderFor(session.PaymentMethod, session.MobileProvider),
		Amount:   cart.Total(),
		Phone:    session.Buyer.Phone,
		Email:    session.Buyer.Email,
	}

	logger.WithField("amount", paymentReq.Amount).Info("Initiating payment")
	payment, err := f.gateway.InitiatePayment(ctx, paymentReq)
	if err != nil {
		logger.WithError(err).Warn("Payment initiation failed")
		return nil, f.fail(submitMessage(err), fmt.Errorf("failed to initiate payment: %w", err))
	}
	if !f.alive() {
		return nil, ErrCheckoutAbandoned
	}

	result := &CheckoutResult{Order: order}
	switch session.PaymentMethod {
	case models.PaymentMethodCard:
		if payment.RedirectURL == "" {
			return nil, f.fail(MsgPaymentFailed, errors.New("card payment returned no redirect url"))
		}
		result.RedirectURL = payment.RedirectURL
		logger.Info("Redirecting to card checkout")
		f.navigator.Redirect(payment.RedirectURL)
	default:
		if payment.TransactionID == "" {
			return nil, f.fail(MsgPaymentFailed, errors.New("mobile payment returned no transaction id"))
		}
		result.TransactionID = payment.TransactionID
		logger.WithField("transaction_id", payment.TransactionID).Info("Awaiting mobile money confirmation")
		f.navigator.Navigate(RouteConfirmation, url.Values{"transactionId": {payment.TransactionID}})
	}

	return result, nil
}

// fail records msg on the session and releases the submission lock
func (f *CheckoutFlow) fail(msg string, err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.abandoned {
		return ErrCheckoutAbandoned
	}
	f.session.LastError = msg
	f.session.IsSubmitting = false
	return err
}

func (f *CheckoutFlow) alive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return !f.abandoned
}

func submitMessage(err error) string {
	return UserMessage(err, MsgPaymentFailed)
}
