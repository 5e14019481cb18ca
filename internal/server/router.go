package server

import (
	"net/http"
	"time"

	"concert-storefront/internal/handlers"
	"concert-storefront/internal/middleware"
	"concert-storefront/internal/services"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// APIPrefix is the path the ticketing API is mounted under
const APIPrefix = "/api/v1"

// Options configures the sandbox router
type Options struct {
	Backend        *services.SandboxBackend
	Language       string
	AllowedOrigins []string
	// StorefrontURL, when set, is linked from the card checkout result page
	StorefrontURL string
	// SubmitLimiter rate limits order and payment submissions; nil disables it
	SubmitLimiter *middleware.SubmitRateLimiter
}

// NewRouter wires the sandbox ticketing API
func NewRouter(opts Options) http.Handler {
	eventHandler := handlers.NewEventHandler(opts.Backend, opts.Language)
	ticketHandler := handlers.NewTicketHandler(opts.Backend)
	donationHandler := handlers.NewDonationHandler(opts.Backend)
	checkoutPage := handlers.NewCheckoutPageHandler(opts.Backend, opts.StorefrontURL)

	corsConfig := middleware.DefaultCORSConfig()
	if len(opts.AllowedOrigins) > 0 {
		corsConfig.AllowedOrigins = opts.AllowedOrigins
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.ErrorHandlingMiddleware)
	r.Use(middleware.CORSMiddleware(corsConfig))
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.NotFound(middleware.NotFoundHandler().ServeHTTP)
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler().ServeHTTP)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route(APIPrefix, func(r chi.Router) {
		r.Get("/events/public/{slug}", eventHandler.GetEventBySlug)
		r.Get("/content/public/event/{eventId}", eventHandler.GetEventContent)
		r.Get("/tickets/event/{eventId}/types", eventHandler.GetTicketTypes)
		r.Get("/tickets/order/{orderNumber}", ticketHandler.GetOrderByNumber)
		r.Get("/payments/status/{transactionId}", ticketHandler.GetPaymentStatus)

		r.Group(func(r chi.Router) {
			if opts.SubmitLimiter != nil {
				r.Use(middleware.SubmitRateLimit(opts.SubmitLimiter))
			}
			r.Post("/tickets/purchase", ticketHandler.PurchaseTickets)
			r.Post("/payments/initiate", ticketHandler.InitiatePayment)
			r.Post("/donations", donationHandler.Donate)
		})
	})

	r.Get("/sandbox/checkout/{transactionId}", checkoutPage.Show)
	r.Post("/sandbox/checkout/{transactionId}", checkoutPage.Submit)

	return r
}
