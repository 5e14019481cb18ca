package services

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"concert-storefront/internal/log"
	"concert-storefront/internal/models"
)

// Confirmation messages shown to the buyer
const (
	MsgNoTransaction    = "No transaction or order number was provided"
	MsgConfirmFailed    = "Payment failed"
	MsgConfirmTimeout   = "Your payment may still be processing. Check again in a moment."
	MsgConfirmTransport = "Unable to check the payment status"
)

const (
	DefaultPollInterval    = 3 * time.Second
	DefaultPollMaxAttempts = 20
)

// ErrPollInProgress is returned when a second poll loop is started for the same poller
var ErrPollInProgress = errors.New("confirmation polling already in progress")

// ConfirmationState is the lifecycle state of a confirmation
type ConfirmationState string

const (
	ConfirmationPending ConfirmationState = "pending"
	ConfirmationSuccess ConfirmationState = "success"
	ConfirmationFailed  ConfirmationState = "failed"
	ConfirmationTimeout ConfirmationState = "timeout"
	ConfirmationError   ConfirmationState = "error"
)

// IsTerminal returns true once polling has stopped for good or until CheckAgain
func (s ConfirmationState) IsTerminal() bool {
	return s != ConfirmationPending
}

// Retryable returns true for states CheckAgain can resume from
func (s ConfirmationState) Retryable() bool {
	return s == ConfirmationTimeout || s == ConfirmationError
}

// ConfirmationQuery identifies the payment to confirm
type ConfirmationQuery struct {
	TransactionID string
	OrderNumber   string
	Email         string
}

// ConfirmationQueryFromValues reads the query from confirmation route parameters
func ConfirmationQueryFromValues(values url.Values) ConfirmationQuery {
	return ConfirmationQuery{
		TransactionID: values.Get("transactionId"),
		OrderNumber:   values.Get("orderNumber"),
		Email:         values.Get("email"),
	}
}

// IsEmpty returns true if neither identifier is set
func (q ConfirmationQuery) IsEmpty() bool {
	return q.TransactionID == "" && q.OrderNumber == ""
}

// PollerOptions tunes the polling cadence
type PollerOptions struct {
	Interval    time.Duration
	MaxAttempts int
}

// ConfirmationStatus is a snapshot of the poller
type ConfirmationStatus struct {
	State    ConfirmationState
	Order    *models.Order
	Message  string
	Attempts int
}

// ConfirmationPoller resolves a payment to success, failed or timeout by
// querying the backend at a fixed interval.
type ConfirmationPoller struct {
	mu          sync.Mutex
	source      PaymentStatusSource
	cart        CartClearer
	query       ConfirmationQuery
	opts        PollerOptions
	status      ConfirmationStatus
	running     bool
	cartCleared bool
}

// NewConfirmationPoller creates a poller in the pending state
func NewConfirmationPoller(source PaymentStatusSource, cart CartClearer, query ConfirmationQuery, opts PollerOptions) *ConfirmationPoller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultPollMaxAttempts
	}

	return &ConfirmationPoller{
		source: source,
		cart:   cart,
		query:  query,
		opts:   opts,
		status: ConfirmationStatus{State: ConfirmationPending},
	}
}

// Status returns the current snapshot
func (p *ConfirmationPoller) Status() ConfirmationStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.status
}

// Run polls until a terminal state is reached or ctx is done.
// Cancelling ctx stops the pending timer and leaves the state untouched.
func (p *ConfirmationPoller) Run(ctx context.Context) (ConfirmationStatus, error) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return ConfirmationStatus{}, ErrPollInProgress
	}
	if p.status.State.IsTerminal() {
		status := p.status
		p.mu.Unlock()
		return status, nil
	}
	p.running = true
	p.mu.Unlock()

	return p.loop(ctx)
}

// CheckAgain restarts polling with a fresh attempt budget after a timeout
// or a transport error. In any other state it behaves like Run.
func (p *ConfirmationPoller) CheckAgain(ctx context.Context) (ConfirmationStatus, error) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return ConfirmationStatus{}, ErrPollInProgress
	}
	if p.status.State.Retryable() && !p.query.IsEmpty() {
		p.status = ConfirmationStatus{State: ConfirmationPending}
	}
	p.mu.Unlock()

	return p.Run(ctx)
}

func (p *ConfirmationPoller) loop(ctx context.Context) (ConfirmationStatus, error) {
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	logger := log.FromContext(ctx).
		WithField("transaction_id", p.query.TransactionID).
		WithField("order_number", p.query.OrderNumber)

	if p.query.IsEmpty() {
		return p.finish(ctx, ConfirmationStatus{State: ConfirmationError, Message: MsgNoTransaction}), nil
	}

	for {
		status, err := p.check(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return p.Status(), ctx.Err()
			}
			logger.WithError(err).Warn("Payment status check failed")
			return p.finish(ctx, ConfirmationStatus{
				State:    ConfirmationError,
				Message:  UserMessage(err, MsgConfirmTransport),
				Attempts: status.Attempts,
			}), nil
		}

		logger.WithField("attempt", status.Attempts).
			WithField("state", status.State).
			Debug("Payment status checked")

		if status.State != ConfirmationPending {
			return p.finish(ctx, status), nil
		}

		if status.Attempts >= p.opts.MaxAttempts {
			logger.WithField("attempt", status.Attempts).Info("Payment confirmation timed out")
			status.State = ConfirmationTimeout
			status.Message = MsgConfirmTimeout
			return p.finish(ctx, status), nil
		}

		timer := time.NewTimer(p.opts.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return p.Status(), ctx.Err()
		case <-timer.C:
		}
	}
}

// check performs one status query and records the pending snapshot
func (p *ConfirmationPoller) check(ctx context.Context) (ConfirmationStatus, error) {
	p.mu.Lock()
	p.status.Attempts++
	status := p.status
	p.mu.Unlock()

	var (
		paymentStatus models.PaymentStatus
		order         *models.Order
		message       string
	)

	if p.query.TransactionID != "" {
		result, err := p.source.GetPaymentStatus(ctx, p.query.TransactionID)
		if err != nil {
			return status, err
		}
		paymentStatus, order, message = result.Status, result.Order, result.Message
	} else {
		result, err := p.source.GetOrderByNumber(ctx, p.query.OrderNumber, p.query.Email)
		if err != nil {
			return status, err
		}
		paymentStatus, order = result.Status.PaymentStatus(), result
	}

	switch {
	case paymentStatus.IsSuccessful():
		status.State = ConfirmationSuccess
		status.Order = order
	case paymentStatus == models.PaymentFailed:
		status.State = ConfirmationFailed
		status.Message = message
		if status.Message == "" {
			status.Message = MsgConfirmFailed
		}
	default:
		status.State = ConfirmationPending
	}

	return status, nil
}

// finish stores a terminal status and clears the cart on the first success
func (p *ConfirmationPoller) finish(ctx context.Context, status ConfirmationStatus) ConfirmationStatus {
	p.mu.Lock()
	p.status = status
	shouldClear := status.State == ConfirmationSuccess && !p.cartCleared
	if shouldClear {
		p.cartCleared = true
	}
	p.mu.Unlock()

	if shouldClear && p.cart != nil {
		if err := p.cart.ClearCart(ctx); err != nil {
			log.FromContext(ctx).WithError(err).Warn("Failed to clear cart after payment")
		}
	}

	return status
}
