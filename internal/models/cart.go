package models

import (
	"math"

	"github.com/samber/lo"
)

// ServiceFeeRate is the surcharge applied to the ticket subtotal
const ServiceFeeRate = 0.02

// Cart is the buyer's ticket selection plus an optional donation.
// Totals are always derived from Items and never stored.
type Cart struct {
	Items    []CartLineItem `json:"items"`
	Donation int            `json:"donation"`
}

// CartLineItem aggregates all units of a single ticket type
type CartLineItem struct {
	TicketType TicketType     `json:"ticketType"`
	Quantity   int            `json:"quantity"`
	Attendees  []AttendeeInfo `json:"attendees"`
	UnitPrice  int            `json:"unitPrice"`
	TotalPrice int            `json:"totalPrice"`
}

// NewCartLineItem creates a line item pricing the ticket type at its current price
func NewCartLineItem(ticketType TicketType, quantity int, attendees []AttendeeInfo) CartLineItem {
	return CartLineItem{
		TicketType: ticketType,
		Quantity:   quantity,
		Attendees:  attendees,
		UnitPrice:  ticketType.Price,
		TotalPrice: ticketType.Price * quantity,
	}
}

// Subtotal returns the sum of all line totals
func (c *Cart) Subtotal() int {
	return lo.SumBy(c.Items, func(item CartLineItem) int {
		return item.TotalPrice
	})
}

// ServiceFee returns the 2% service fee rounded to the nearest franc
func (c *Cart) ServiceFee() int {
	return ServiceFee(c.Subtotal())
}

// Total returns subtotal + service fee + donation
func (c *Cart) Total() int {
	subtotal := c.Subtotal()
	return subtotal + ServiceFee(subtotal) + c.Donation
}

// TotalTicketCount returns the number of ticket units in the cart
func (c *Cart) TotalTicketCount() int {
	return lo.SumBy(c.Items, func(item CartLineItem) int {
		return item.Quantity
	})
}

// IsEmpty returns true if the cart holds no line items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindItem returns the index of the line for the ticket type, or -1
func (c *Cart) FindItem(ticketTypeID string) int {
	_, index, found := lo.FindIndexOf(c.Items, func(item CartLineItem) bool {
		return item.TicketType.ID == ticketTypeID
	})
	if !found {
		return -1
	}
	return index
}

// Clone returns a deep copy of the cart
func (c *Cart) Clone() Cart {
	clone := Cart{
		Items:    make([]CartLineItem, len(c.Items)),
		Donation: c.Donation,
	}
	for i, item := range c.Items {
		item.Attendees = append([]AttendeeInfo(nil), item.Attendees...)
		item.TicketType.Benefits = append([]string(nil), item.TicketType.Benefits...)
		clone.Items[i] = item
	}
	return clone
}

// Normalize repairs data read from storage: drops lines with no quantity or
// with more attendees than tickets, pads short attendee lists, recomputes
// line totals and clamps a negative donation to zero.
func (c *Cart) Normalize() {
	c.Items = lo.FilterMap(c.Items, func(item CartLineItem, _ int) (CartLineItem, bool) {
		if item.Quantity <= 0 || item.TicketType.ID == "" {
			return item, false
		}
		attendees, err := FitAttendees(item.Attendees, item.Quantity)
		if err != nil {
			return item, false
		}
		item.Attendees = attendees
		item.TotalPrice = item.UnitPrice * item.Quantity
		return item, true
	})
	if c.Items == nil {
		c.Items = []CartLineItem{}
	}
	if c.Donation < 0 {
		c.Donation = 0
	}
}

// ServiceFee computes the fee for a subtotal
func ServiceFee(subtotal int) int {
	return int(math.Round(float64(subtotal) * ServiceFeeRate))
}

// FitAttendees pads attendees with blank placeholders up to quantity.
// A list longer than quantity is rejected.
func FitAttendees(attendees []AttendeeInfo, quantity int) ([]AttendeeInfo, error) {
	if len(attendees) > quantity {
		return nil, ErrTooManyAttendees
	}

	fitted := make([]AttendeeInfo, quantity)
	copy(fitted, attendees)
	return fitted, nil
}
