package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_Totals(t *testing.T) {
	standard := TicketType{ID: "standard", Name: "STANDARD", Price: 10000}
	vip := TicketType{ID: "vip", Name: "VIP", Price: 20000}

	tests := []struct {
		name         string
		cart         Cart
		wantSubtotal int
		wantFee      int
		wantTotal    int
		wantTickets  int
	}{
		{
			name:         "empty cart",
			cart:         Cart{},
			wantSubtotal: 0,
			wantFee:      0,
			wantTotal:    0,
			wantTickets:  0,
		},
		{
			name: "two ticket types",
			cart: Cart{Items: []CartLineItem{
				NewCartLineItem(standard, 2, make([]AttendeeInfo, 2)),
				NewCartLineItem(vip, 1, make([]AttendeeInfo, 1)),
			}},
			wantSubtotal: 40000,
			wantFee:      800,
			wantTotal:    40800,
			wantTickets:  3,
		},
		{
			name: "donation is added after the fee",
			cart: Cart{
				Items:    []CartLineItem{NewCartLineItem(standard, 1, make([]AttendeeInfo, 1))},
				Donation: 5000,
			},
			wantSubtotal: 10000,
			wantFee:      200,
			wantTotal:    15200,
			wantTickets:  1,
		},
		{
			name: "fee is rounded to the nearest franc",
			cart: Cart{Items: []CartLineItem{
				NewCartLineItem(TicketType{ID: "odd", Name: "ODD", Price: 1025}, 1, make([]AttendeeInfo, 1)),
			}},
			wantSubtotal: 1025,
			wantFee:      21,
			wantTotal:    1046,
			wantTickets:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantSubtotal, tt.cart.Subtotal())
			assert.Equal(t, tt.wantFee, tt.cart.ServiceFee())
			assert.Equal(t, tt.wantTotal, tt.cart.Total())
			assert.Equal(t, tt.wantTickets, tt.cart.TotalTicketCount())
			assert.Equal(t, tt.wantTickets == 0, tt.cart.IsEmpty())
		})
	}
}

func TestCart_FindItem(t *testing.T) {
	cart := Cart{Items: []CartLineItem{
		NewCartLineItem(TicketType{ID: "standard", Price: 10000}, 1, nil),
		NewCartLineItem(TicketType{ID: "vip", Price: 20000}, 1, nil),
	}}

	assert.Equal(t, 0, cart.FindItem("standard"))
	assert.Equal(t, 1, cart.FindItem("vip"))
	assert.Equal(t, -1, cart.FindItem("backstage"))
}

func TestCart_CloneIsDeep(t *testing.T) {
	cart := Cart{Items: []CartLineItem{
		NewCartLineItem(TicketType{ID: "standard", Price: 10000}, 1, []AttendeeInfo{{FirstName: "Awa"}}),
	}}

	clone := cart.Clone()
	clone.Items[0].Attendees[0].FirstName = "Koffi"
	clone.Items[0].Quantity = 5

	assert.Equal(t, "Awa", cart.Items[0].Attendees[0].FirstName)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestCart_Normalize(t *testing.T) {
	cart := Cart{
		Items: []CartLineItem{
			{TicketType: TicketType{ID: "standard"}, Quantity: 2, UnitPrice: 10000, TotalPrice: 1},
			{TicketType: TicketType{ID: "ghost"}, Quantity: 0, UnitPrice: 10000},
			{TicketType: TicketType{ID: ""}, Quantity: 1, UnitPrice: 10000},
			{TicketType: TicketType{ID: "vip"}, Quantity: 1, UnitPrice: 25000, Attendees: make([]AttendeeInfo, 2)},
		},
		Donation: -50,
	}

	cart.Normalize()

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 20000, cart.Items[0].TotalPrice)
	assert.Len(t, cart.Items[0].Attendees, 2)
	assert.Equal(t, 0, cart.Donation)
}

func TestFitAttendees(t *testing.T) {
	tests := []struct {
		name      string
		attendees []AttendeeInfo
		quantity  int
		wantLen   int
		wantErr   error
	}{
		{name: "exact", attendees: []AttendeeInfo{{FirstName: "A"}, {FirstName: "B"}}, quantity: 2, wantLen: 2},
		{name: "short list is padded", attendees: []AttendeeInfo{{FirstName: "A"}}, quantity: 3, wantLen: 3},
		{name: "nil list is padded", attendees: nil, quantity: 2, wantLen: 2},
		{name: "long list is rejected", attendees: make([]AttendeeInfo, 3), quantity: 2, wantErr: ErrTooManyAttendees},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FitAttendees(tt.attendees, tt.quantity)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
			if len(tt.attendees) > 0 {
				assert.Equal(t, tt.attendees[0], got[0])
			}
			assert.True(t, got[len(got)-1].IsPlaceholder() || len(tt.attendees) == tt.quantity)
		})
	}
}
