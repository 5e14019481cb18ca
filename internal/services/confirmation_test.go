package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"concert-storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// scriptedStatusSource answers status queries from a fixed script; the
// last entry repeats once the script runs out
type scriptedStatusSource struct {
	mu      sync.Mutex
	script  []models.PaymentStatusResult
	errs    map[int]error
	calls   int
	onCall  func(call int)
	byOrder []string
}

func (s *scriptedStatusSource) next() (models.PaymentStatusResult, error) {
	s.mu.Lock()
	s.calls++
	call := s.calls
	hook := s.onCall
	s.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	if err, ok := s.errs[call]; ok {
		return models.PaymentStatusResult{}, err
	}

	index := call - 1
	if index >= len(s.script) {
		index = len(s.script) - 1
	}
	return s.script[index], nil
}

func (s *scriptedStatusSource) GetPaymentStatus(_ context.Context, _ string) (*models.PaymentStatusResult, error) {
	result, err := s.next()
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *scriptedStatusSource) GetOrderByNumber(_ context.Context, orderNumber, email string) (*models.Order, error) {
	s.mu.Lock()
	s.byOrder = append(s.byOrder, orderNumber+"|"+email)
	s.mu.Unlock()

	result, err := s.next()
	if err != nil {
		return nil, err
	}
	order := &models.Order{OrderNumber: orderNumber, Status: models.OrderPending}
	switch result.Status {
	case models.PaymentCompleted, models.PaymentSuccess:
		order.Status = models.OrderCompleted
	case models.PaymentFailed:
		order.Status = models.OrderFailed
	}
	return order, nil
}

func (s *scriptedStatusSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}

// countingCart records ClearCart calls
type countingCart struct {
	mu     sync.Mutex
	clears int
}

func (c *countingCart) ClearCart(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clears++
	return nil
}

func (c *countingCart) Clears() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.clears
}

func pending() models.PaymentStatusResult {
	return models.PaymentStatusResult{Status: models.PaymentPending}
}

var fastPolling = PollerOptions{Interval: time.Millisecond, MaxAttempts: DefaultPollMaxAttempts}

func TestConfirmationPoller_SuccessAfterPending(t *testing.T) {
	defer goleak.VerifyNone(t)

	order := &models.Order{ID: "order-1", OrderNumber: "ORD-20260101-000001", Status: models.OrderCompleted}
	source := &scriptedStatusSource{script: []models.PaymentStatusResult{
		pending(), pending(), pending(),
		{Status: models.PaymentCompleted, Order: order},
	}}
	cart := &countingCart{}
	poller := NewConfirmationPoller(source, cart, ConfirmationQuery{TransactionID: "tx-1"}, fastPolling)

	status, err := poller.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ConfirmationSuccess, status.State)
	assert.Equal(t, order, status.Order)
	assert.Equal(t, 4, status.Attempts)
	assert.Equal(t, 4, source.Calls())
	assert.Equal(t, 1, cart.Clears())

	// a terminal poller does not query or clear again
	status, err = poller.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ConfirmationSuccess, status.State)
	assert.Equal(t, 4, source.Calls())
	assert.Equal(t, 1, cart.Clears())
}

func TestConfirmationPoller_SuccessSpelling(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := &scriptedStatusSource{script: []models.PaymentStatusResult{{Status: models.PaymentSuccess}}}
	cart := &countingCart{}
	poller := NewConfirmationPoller(source, cart, ConfirmationQuery{TransactionID: "tx-1"}, fastPolling)

	status, err := poller.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ConfirmationSuccess, status.State)
	assert.Equal(t, 1, cart.Clears())
}

func TestConfirmationPoller_Timeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := &scriptedStatusSource{script: []models.PaymentStatusResult{pending()}}
	cart := &countingCart{}
	poller := NewConfirmationPoller(source, cart, ConfirmationQuery{TransactionID: "tx-1"}, fastPolling)

	status, err := poller.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ConfirmationTimeout, status.State)
	assert.Equal(t, MsgConfirmTimeout, status.Message)
	assert.Equal(t, 20, source.Calls())
	assert.Equal(t, 0, cart.Clears())

	t.Run("check again resumes with a fresh budget", func(t *testing.T) {
		source.mu.Lock()
		source.script = append(source.script, models.PaymentStatusResult{Status: models.PaymentCompleted})
		source.mu.Unlock()

		status, err := poller.CheckAgain(context.Background())

		require.NoError(t, err)
		assert.Equal(t, ConfirmationSuccess, status.State)
		assert.Equal(t, 1, status.Attempts)
		assert.Equal(t, 21, source.Calls())
		assert.Equal(t, 1, cart.Clears())
	})
}

func TestConfirmationPoller_Failed(t *testing.T) {
	defer goleak.VerifyNone(t)

	tests := []struct {
		name        string
		result      models.PaymentStatusResult
		wantMessage string
	}{
		{
			name:        "backend message",
			result:      models.PaymentStatusResult{Status: models.PaymentFailed, Message: "Solde insuffisant"},
			wantMessage: "Solde insuffisant",
		},
		{
			name:        "default message",
			result:      models.PaymentStatusResult{Status: models.PaymentFailed},
			wantMessage: MsgConfirmFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &scriptedStatusSource{script: []models.PaymentStatusResult{pending(), tt.result}}
			cart := &countingCart{}
			poller := NewConfirmationPoller(source, cart, ConfirmationQuery{TransactionID: "tx-1"}, fastPolling)

			status, err := poller.Run(context.Background())

			require.NoError(t, err)
			assert.Equal(t, ConfirmationFailed, status.State)
			assert.Equal(t, tt.wantMessage, status.Message)
			assert.Equal(t, 0, cart.Clears())

			// failed is final: check again does not query
			_, err = poller.CheckAgain(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 2, source.Calls())
		})
	}
}

func TestConfirmationPoller_MissingIdentifiers(t *testing.T) {
	source := &scriptedStatusSource{script: []models.PaymentStatusResult{pending()}}
	poller := NewConfirmationPoller(source, &countingCart{}, ConfirmationQuery{}, fastPolling)

	status, err := poller.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ConfirmationError, status.State)
	assert.Equal(t, MsgNoTransaction, status.Message)
	assert.Equal(t, 0, source.Calls())
}

func TestConfirmationPoller_OrderNumber(t *testing.T) {
	source := &scriptedStatusSource{script: []models.PaymentStatusResult{pending(), {Status: models.PaymentCompleted}}}
	cart := &countingCart{}
	query := ConfirmationQuery{OrderNumber: "ORD-20260101-000001", Email: "awa@example.com"}
	poller := NewConfirmationPoller(source, cart, query, fastPolling)

	status, err := poller.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ConfirmationSuccess, status.State)
	require.NotNil(t, status.Order)
	assert.Equal(t, "ORD-20260101-000001", status.Order.OrderNumber)
	assert.Equal(t, []string{"ORD-20260101-000001|awa@example.com", "ORD-20260101-000001|awa@example.com"}, source.byOrder)
	assert.Equal(t, 1, cart.Clears())
}

func TestConfirmationPoller_TransportError(t *testing.T) {
	source := &scriptedStatusSource{
		script: []models.PaymentStatusResult{pending(), {Status: models.PaymentCompleted}},
		errs:   map[int]error{2: errors.New("connection reset")},
	}
	poller := NewConfirmationPoller(source, &countingCart{}, ConfirmationQuery{TransactionID: "tx-1"}, fastPolling)

	status, err := poller.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ConfirmationError, status.State)
	assert.Equal(t, MsgConfirmTransport, status.Message)

	status, err = poller.CheckAgain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ConfirmationSuccess, status.State)
}

func TestConfirmationPoller_Cancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := &scriptedStatusSource{script: []models.PaymentStatusResult{pending()}}
	cart := &countingCart{}
	poller := NewConfirmationPoller(source, cart, ConfirmationQuery{TransactionID: "tx-1"}, PollerOptions{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	source.onCall = func(call int) {
		if call == 1 {
			cancel()
		}
	}

	status, err := poller.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, ConfirmationPending, status.State)
	assert.Equal(t, 1, source.Calls())
	assert.Equal(t, 0, cart.Clears())
}

func TestConfirmationPoller_SingleLoop(t *testing.T) {
	defer goleak.VerifyNone(t)

	started := make(chan struct{})
	release := make(chan struct{})
	source := &scriptedStatusSource{script: []models.PaymentStatusResult{{Status: models.PaymentCompleted}}}
	source.onCall = func(call int) {
		if call == 1 {
			close(started)
			<-release
		}
	}
	poller := NewConfirmationPoller(source, &countingCart{}, ConfirmationQuery{TransactionID: "tx-1"}, fastPolling)

	done := make(chan ConfirmationStatus)
	go func() {
		status, _ := poller.Run(context.Background())
		done <- status
	}()

	<-started
	_, err := poller.Run(context.Background())
	assert.ErrorIs(t, err, ErrPollInProgress)
	_, err = poller.CheckAgain(context.Background())
	assert.ErrorIs(t, err, ErrPollInProgress)

	close(release)
	status := <-done
	assert.Equal(t, ConfirmationSuccess, status.State)
	assert.Equal(t, 1, source.Calls())
}
