package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"concert-storefront/internal/log"
	"concert-storefront/internal/models"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultErrorMessage is shown when the backend gives no usable message
const DefaultErrorMessage = "Une erreur est survenue"

// ErrMalformedResponse is returned when a response does not match the endpoint schema
var ErrMalformedResponse = errors.New("malformed backend response")

// BackendConfig represents the ticketing API client configuration
type BackendConfig struct {
	BaseURL  string
	Timeout  time.Duration
	Language string
}

// BackendClient talks to the remote ticketing API
type BackendClient struct {
	config  BackendConfig
	client  *http.Client
	baseURL string
}

// NewBackendClient creates a new ticketing API client
func NewBackendClient(config BackendConfig) *BackendClient {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.Language == "" {
		config.Language = "fr"
	}

	return &BackendClient{
		config: config,
		client: &http.Client{
			Timeout:   config.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: config.BaseURL,
	}
}

// APIError represents an error response from the ticketing API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (%d): %s", e.StatusCode, e.Message)
}

// MalformedResponseError describes which part of a response broke the schema
type MalformedResponseError struct {
	Endpoint string
	Reason   string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrMalformedResponse, e.Endpoint, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error {
	return ErrMalformedResponse
}

// UserMessage returns the text to show for err: the backend message when
// there is one, otherwise fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// envelope is the wrapper every endpoint answers with
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *T     `json:"data"`
}

type eventData struct {
	Event *models.Event `json:"event"`
}

type contentData struct {
	Content models.Content `json:"content"`
}

type ticketTypesData struct {
	TicketTypes []models.TicketType `json:"ticketTypes"`
}

type orderData struct {
	Order *models.Order `json:"order"`
}

type donationData struct {
	Donation *models.Donation `json:"donation"`
}

// GetEventBySlug fetches the public event descriptor
func (c *BackendClient) GetEventBySlug(ctx context.Context, slug string) (*models.Event, error) {
	endpoint := "/events/public/" + url.PathEscape(slug)

	data, err := doRequest[eventData](ctx, c, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if data.Event == nil || data.Event.ID == "" {
		return nil, &MalformedResponseError{Endpoint: endpoint, Reason: "event is missing"}
	}

	return data.Event, nil
}

// GetEventContent fetches the CMS content bundle for the event
func (c *BackendClient) GetEventContent(ctx context.Context, eventID, lang string) (models.Content, error) {
	if lang == "" {
		lang = c.config.Language
	}
	endpoint := "/content/public/event/" + url.PathEscape(eventID) + "?" + url.Values{"lang": {lang}}.Encode()

	data, err := doRequest[contentData](ctx, c, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if data.Content == nil {
		return models.Content{}, nil
	}

	return data.Content, nil
}

// GetTicketTypes lists the ticket types on sale for the event
func (c *BackendClient) GetTicketTypes(ctx context.Context, eventID string) ([]models.TicketType, error) {
	endpoint := "/tickets/event/" + url.PathEscape(eventID) + "/types"

	data, err := doRequest[ticketTypesData](ctx, c, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	for _, tt := range data.TicketTypes {
		if err := tt.Validate(); err != nil {
			return nil, &MalformedResponseError{Endpoint: endpoint, Reason: err.Error()}
		}
	}

	return data.TicketTypes, nil
}

// PurchaseTickets creates an order for the cart content
func (c *BackendClient) PurchaseTickets(ctx context.Context, req *models.OrderCreateRequest) (*models.Order, error) {
	endpoint := "/tickets/purchase"

	data, err := doRequest[orderData](ctx, c, http.MethodPost, endpoint, req)
	if err != nil {
		return nil, err
	}
	if data.Order == nil || data.Order.ID == "" {
		return nil, &MalformedResponseError{Endpoint: endpoint, Reason: "order id is missing"}
	}

	return data.Order, nil
}

// GetOrderByNumber fetches an order snapshot
func (c *BackendClient) GetOrderByNumber(ctx context.Context, orderNumber, email string) (*models.Order, error) {
	endpoint := "/tickets/order/" + url.PathEscape(orderNumber)
	if email != "" {
		endpoint += "?" + url.Values{"email": {email}}.Encode()
	}

	data, err := doRequest[orderData](ctx, c, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if data.Order == nil {
		return nil, &MalformedResponseError{Endpoint: endpoint, Reason: "order is missing"}
	}

	return data.Order, nil
}

// InitiatePayment starts a payment for an order
func (c *BackendClient) InitiatePayment(ctx context.Context, req *models.PaymentRequest) (*models.PaymentInitiation, error) {
	endpoint := "/payments/initiate"

	data, err := doRequest[models.PaymentInitiation](ctx, c, http.MethodPost, endpoint, req)
	if err != nil {
		return nil, err
	}
	if data.TransactionID == "" && data.RedirectURL == "" {
		return nil, &MalformedResponseError{Endpoint: endpoint, Reason: "neither transactionId nor redirectUrl present"}
	}

	return data, nil
}

// GetPaymentStatus fetches the status of a payment transaction
func (c *BackendClient) GetPaymentStatus(ctx context.Context, transactionID string) (*models.PaymentStatusResult, error) {
	endpoint := "/payments/status/" + url.PathEscape(transactionID)

	data, err := doRequest[models.PaymentStatusResult](ctx, c, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if data.Status == "" {
		return nil, &MalformedResponseError{Endpoint: endpoint, Reason: "status is missing"}
	}

	return data, nil
}

// Donate records a standalone donation
func (c *BackendClient) Donate(ctx context.Context, req *models.DonationRequest) (*models.Donation, error) {
	endpoint := "/donations"

	data, err := doRequest[donationData](ctx, c, http.MethodPost, endpoint, req)
	if err != nil {
		return nil, err
	}
	if data.Donation == nil {
		return nil, &MalformedResponseError{Endpoint: endpoint, Reason: "donation is missing"}
	}

	return data.Donation, nil
}

func doRequest[T any](ctx context.Context, c *BackendClient, method, endpoint string, body any) (*T, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	correlationID := log.CorrelationIDFromContext(ctx)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Accept-Language", c.config.Language)
	httpReq.Header.Set("Correlation-ID", correlationID)

	logger := log.FromContext(ctx).WithField("correlation_id", correlationID).
		WithField("method", method).
		WithField("endpoint", endpoint)

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		logger.WithError(err).Warn("Backend request failed")
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	logger.WithField("status", resp.StatusCode).
		WithField("duration", time.Since(start)).
		Debug("Backend request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, handleAPIError(resp.StatusCode, bodyBytes)
	}

	var env envelope[T]
	if err := json.Unmarshal(bodyBytes, &env); err != nil {
		return nil, &MalformedResponseError{Endpoint: endpoint, Reason: err.Error()}
	}
	if !env.Success && env.Message != "" {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if env.Data == nil {
		return nil, &MalformedResponseError{Endpoint: endpoint, Reason: "data is missing"}
	}

	return env.Data, nil
}

// handleAPIError extracts the envelope message from an error response
func handleAPIError(statusCode int, body []byte) error {
	var env envelope[json.RawMessage]
	if err := json.Unmarshal(body, &env); err != nil || env.Message == "" {
		return &APIError{StatusCode: statusCode, Message: DefaultErrorMessage}
	}

	return &APIError{StatusCode: statusCode, Message: env.Message}
}
