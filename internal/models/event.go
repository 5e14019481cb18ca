package models

import (
	"errors"
	"strings"
	"time"
)

// Event is the public descriptor of the concert
type Event struct {
	ID          string         `json:"_id"`
	Slug        string         `json:"slug"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	StartDate   time.Time      `json:"startDate"`
	EndDate     time.Time      `json:"endDate"`
	Venue       Venue          `json:"venue"`
	Schedule    []ScheduleItem `json:"schedule,omitempty"`
	Performers  []Performer    `json:"performers,omitempty"`
}

// Venue describes where the event takes place
type Venue struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
}

// ScheduleItem is one entry of the event program
type ScheduleItem struct {
	Time        string `json:"time"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Performer is an artist on the bill
type Performer struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
	Bio  string `json:"bio,omitempty"`
}

// Content is the CMS bundle for the event, keyed by section
type Content map[string]any

// Validate checks the fields the storefront relies on
func (e *Event) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("event id is required")
	}

	if strings.TrimSpace(e.Name) == "" {
		return errors.New("event name is required")
	}

	if !e.EndDate.IsZero() && e.StartDate.After(e.EndDate) {
		return errors.New("event start date must be before end date")
	}

	return nil
}

// Snapshot returns the event data embedded in orders
func (e *Event) Snapshot() *EventSnapshot {
	return &EventSnapshot{
		Name:      e.Name,
		StartDate: e.StartDate,
		Venue:     e.Venue.Name,
	}
}

// IsUpcoming returns true if the event has not started yet
func (e *Event) IsUpcoming() bool {
	return time.Now().Before(e.StartDate)
}

// Section returns the content section as a string, or "" if absent
func (c Content) Section(key string) string {
	value, ok := c[key].(string)
	if !ok {
		return ""
	}
	return value
}
