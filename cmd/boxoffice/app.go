package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"concert-storefront/internal/config"
	"concert-storefront/internal/models"
	"concert-storefront/internal/services"

	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
)

// app holds everything a box-office command works with
type app struct {
	cfg     *config.Config
	backend services.Backend
	sandbox *services.SandboxBackend
	cart    *services.CartStore
	events  *services.EventService
	prompt  *prompter
	out     io.Writer
	close   func() error
}

func newApp(c *cli.Context, cfg *config.Config) (*app, error) {
	if driver := c.String("storage"); driver != "" {
		cfg.Storage.Driver = strings.ToLower(driver)
	}
	if lang := c.String("lang"); lang != "" {
		cfg.Backend.Language = lang
	}

	storage, closeStorage, err := openStorage(cfg.Storage)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		cart:   services.NewCartStore(c.Context, storage, cfg.Storage.CartKey),
		prompt: newPrompter(c.App.Reader, c.App.Writer),
		out:    c.App.Writer,
		close:  closeStorage,
	}

	if c.Bool("sandbox") {
		sandboxConfig := services.DefaultSandboxConfig(cfg.Backend.EventSlug)
		sandboxConfig.ConfirmAfter = cfg.Sandbox.ConfirmAfter
		sandboxConfig.PublicBaseURL = cfg.Sandbox.PublicBaseURL
		a.sandbox = services.NewSandboxBackend(sandboxConfig)
		a.backend = a.sandbox
	} else {
		a.backend = services.NewBackendClient(services.BackendConfig{
			BaseURL:  cfg.Backend.BaseURL,
			Timeout:  cfg.Backend.Timeout,
			Language: cfg.Backend.Language,
		})
	}
	a.events = services.NewEventService(a.backend, cfg.Backend.EventSlug, cfg.Backend.Language)

	return a, nil
}

func (a *app) Close() error {
	return a.close()
}

// loadEvent fetches the event, its content and ticket types once per command
func (a *app) loadEvent(ctx context.Context) error {
	if err := a.events.Load(ctx); err != nil {
		return fmt.Errorf("%s: %w", services.UserMessage(err, services.DefaultErrorMessage), err)
	}
	return nil
}

func (a *app) pollerOptions() services.PollerOptions {
	return services.PollerOptions{
		Interval:    a.cfg.Polling.Interval,
		MaxAttempts: a.cfg.Polling.MaxAttempts,
	}
}

// confirm polls the payment and offers to check again after a timeout or a
// transport error.
func (a *app) confirm(ctx context.Context, query services.ConfirmationQuery) error {
	if query.IsEmpty() {
		return errors.New(services.MsgNoTransaction)
	}

	poller := services.NewConfirmationPoller(a.backend, a.cart, query, a.pollerOptions())

	fmt.Fprintln(a.out, "Waiting for payment confirmation...")
	status, err := poller.Run(ctx)
	for {
		if err != nil {
			return err
		}
		printStatus(a.out, status)
		if !status.State.Retryable() {
			return nil
		}

		again, promptErr := a.prompt.confirm("Check again?")
		if promptErr != nil {
			return promptErr
		}
		if !again {
			return nil
		}
		status, err = poller.CheckAgain(ctx)
	}
}

// parseAttendees reads "First Last" names into attendee records
func parseAttendees(names []string) []models.AttendeeInfo {
	attendees := make([]models.AttendeeInfo, 0, len(names))
	for _, name := range names {
		first, last, _ := strings.Cut(strings.TrimSpace(name), " ")
		attendees = append(attendees, models.AttendeeInfo{
			FirstName: first,
			LastName:  strings.TrimSpace(last),
		})
	}
	return attendees
}

// resizedAttendees returns the attendees of the cart line for ticketTypeID cut
// to quantity. Growing lines keep every name; the store pads the rest.
func (a *app) resizedAttendees(ticketTypeID string, quantity int) []models.AttendeeInfo {
	item, found := lo.Find(a.cart.Items(), func(item models.CartLineItem) bool {
		return item.TicketType.ID == ticketTypeID
	})
	if !found || quantity <= 0 {
		return nil
	}
	if len(item.Attendees) > quantity {
		return item.Attendees[:quantity]
	}
	return item.Attendees
}
