package services

import (
	"net/url"
	"sync"
)

// Routes reachable inside the storefront
const (
	RouteHome         = "/"
	RouteConfirmation = "/confirmation"
)

// SectionTickets is the landing page section listing the ticket types
const SectionTickets = "tickets"

// Navigator moves the user around. Navigate stays inside the storefront,
// Redirect hands the user over to an external page and ScrollTo focuses a
// landing page section.
type Navigator interface {
	Navigate(route string, params url.Values)
	Redirect(target string)
	ScrollTo(section string)
}

// NavigationKind distinguishes history entries
type NavigationKind string

const (
	NavigationInternal NavigationKind = "navigate"
	NavigationExternal NavigationKind = "redirect"
	NavigationScroll   NavigationKind = "scroll"
)

// NavigationEntry is one recorded navigation
type NavigationEntry struct {
	Kind   NavigationKind
	Target string
	Params url.Values
}

// URL renders the entry as a location string
func (e NavigationEntry) URL() string {
	switch e.Kind {
	case NavigationScroll:
		return RouteHome + "#" + e.Target
	case NavigationInternal:
		if len(e.Params) > 0 {
			return e.Target + "?" + e.Params.Encode()
		}
	}
	return e.Target
}

// HistoryNavigator records navigations; the CLI reads it to decide what to do next
type HistoryNavigator struct {
	mu      sync.Mutex
	entries []NavigationEntry
}

// NewHistoryNavigator creates an empty history
func NewHistoryNavigator() *HistoryNavigator {
	return &HistoryNavigator{}
}

func (n *HistoryNavigator) Navigate(route string, params url.Values) {
	n.push(NavigationEntry{Kind: NavigationInternal, Target: route, Params: params})
}

func (n *HistoryNavigator) Redirect(target string) {
	n.push(NavigationEntry{Kind: NavigationExternal, Target: target})
}

func (n *HistoryNavigator) ScrollTo(section string) {
	n.push(NavigationEntry{Kind: NavigationScroll, Target: section})
}

func (n *HistoryNavigator) push(entry NavigationEntry) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.entries = append(n.entries, entry)
}

// Entries returns a copy of the recorded history, oldest first
func (n *HistoryNavigator) Entries() []NavigationEntry {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]NavigationEntry(nil), n.entries...)
}

// Last returns the most recent entry
func (n *HistoryNavigator) Last() (NavigationEntry, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.entries) == 0 {
		return NavigationEntry{}, false
	}
	return n.entries[len(n.entries)-1], true
}
