package services

import (
	"context"
	"fmt"
	"sync"

	"concert-storefront/internal/log"
	"concert-storefront/internal/models"

	"golang.org/x/sync/errgroup"
)

// EventService loads the single event the storefront sells tickets for,
// together with its CMS content and ticket types.
type EventService struct {
	source EventSource
	slug   string
	lang   string

	mu          sync.RWMutex
	event       *models.Event
	content     models.Content
	ticketTypes []models.TicketType
	loading     bool
	err         error
}

// NewEventService creates an event loader for slug in lang
func NewEventService(source EventSource, slug, lang string) *EventService {
	return &EventService{
		source:  source,
		slug:    slug,
		lang:    lang,
		content: models.Content{},
	}
}

// Load fetches the event by slug, then its content and ticket types.
// A failure is kept in Err; whatever was fetched before it stays available.
func (s *EventService) Load(ctx context.Context) error {
	if s.slug == "" {
		return fmt.Errorf("%w: event slug is required", models.ErrInvalidInput)
	}

	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	err := s.load(ctx)

	s.mu.Lock()
	s.loading = false
	s.err = err
	s.mu.Unlock()

	return err
}

func (s *EventService) load(ctx context.Context) error {
	logger := log.FromContext(ctx).WithField("slug", s.slug)

	event, err := s.source.GetEventBySlug(ctx, s.slug)
	if err != nil {
		logger.WithError(err).Warn("Failed to load event")
		return fmt.Errorf("failed to load event: %w", err)
	}

	s.mu.Lock()
	s.event = event
	s.mu.Unlock()

	var (
		content     models.Content
		ticketTypes []models.TicketType
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.source.GetEventContent(gctx, event.ID, s.lang)
		if err != nil {
			return fmt.Errorf("failed to load event content: %w", err)
		}
		content = c
		return nil
	})
	g.Go(func() error {
		tt, err := s.source.GetTicketTypes(gctx, event.ID)
		if err != nil {
			return fmt.Errorf("failed to load ticket types: %w", err)
		}
		ticketTypes = tt
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.WithError(err).Warn("Failed to load event details")
		return err
	}

	if content == nil {
		content = models.Content{}
	}

	s.mu.Lock()
	s.content = content
	s.ticketTypes = ticketTypes
	s.mu.Unlock()

	logger.WithField("event_id", event.ID).
		WithField("ticket_types", len(ticketTypes)).
		Info("Event loaded")

	return nil
}

// Refresh reloads only the event descriptor
func (s *EventService) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	event, err := s.source.GetEventBySlug(ctx, s.slug)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = false
	if err != nil {
		s.err = fmt.Errorf("failed to refresh event: %w", err)
		return s.err
	}
	s.event = event
	return nil
}

// Event returns the loaded event, or nil before a successful load
func (s *EventService) Event() *models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.event
}

func (s *EventService) Content() models.Content {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.content
}

// TicketTypes returns the ticket types on sale, in backend order
func (s *EventService) TicketTypes() []models.TicketType {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.TicketType(nil), s.ticketTypes...)
}

// TicketType looks up a ticket type by id
func (s *EventService) TicketType(id string) (models.TicketType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tt := range s.ticketTypes {
		if tt.ID == id {
			return tt, nil
		}
	}
	return models.TicketType{}, models.ErrTicketTypeNotFound
}

func (s *EventService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loading
}

// Err returns the error of the last load or refresh
func (s *EventService) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.err
}
