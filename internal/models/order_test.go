package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuyerInfo_Validate(t *testing.T) {
	valid := BuyerInfo{FirstName: "Awa", LastName: "Kone", Email: "awa@example.ci", Phone: "+2250700000000"}

	tests := []struct {
		name    string
		modify  func(b *BuyerInfo)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid buyer",
			modify:  func(b *BuyerInfo) {},
			wantErr: false,
		},
		{
			name:    "missing first name",
			modify:  func(b *BuyerInfo) { b.FirstName = "" },
			wantErr: true,
			errMsg:  "first name, last name, email and phone are required",
		},
		{
			name:    "whitespace phone",
			modify:  func(b *BuyerInfo) { b.Phone = "   " },
			wantErr: true,
			errMsg:  "first name, last name, email and phone are required",
		},
		{
			name:    "invalid email",
			modify:  func(b *BuyerInfo) { b.Email = "not-an-email" },
			wantErr: true,
			errMsg:  "email format is invalid",
		},
		{
			name:    "email without tld",
			modify:  func(b *BuyerInfo) { b.Email = "awa@example" },
			wantErr: true,
			errMsg:  "email format is invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buyer := valid
			tt.modify(&buyer)

			err := buyer.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("BuyerInfo.Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && err.Error() != tt.errMsg {
				t.Errorf("BuyerInfo.Validate() error = %v, want %v", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestOrderCreateRequest_Validate(t *testing.T) {
	buyer := BuyerInfo{FirstName: "Awa", LastName: "Kone", Email: "awa@example.ci", Phone: "0700000000"}

	req := OrderCreateRequest{
		Items: []OrderItemRequest{{TicketTypeID: "standard", Quantity: 2, Attendees: make([]AttendeeInfo, 2)}},
		Buyer: buyer,
	}
	assert.NoError(t, req.Validate())

	mismatch := req
	mismatch.Items = []OrderItemRequest{{TicketTypeID: "standard", Quantity: 2, Attendees: make([]AttendeeInfo, 1)}}
	err := mismatch.Validate()
	assert.ErrorIs(t, err, ErrMissingAttendees)
	assert.ErrorIs(t, err, ErrAttendeeMismatch)
	assert.NotErrorIs(t, err, ErrTooManyAttendees)

	mismatch.Items = []OrderItemRequest{{TicketTypeID: "standard", Quantity: 1, Attendees: make([]AttendeeInfo, 2)}}
	assert.ErrorIs(t, mismatch.Validate(), ErrTooManyAttendees)

	empty := req
	empty.Items = nil
	assert.Error(t, empty.Validate())
}

func TestPaymentStatus(t *testing.T) {
	assert.True(t, PaymentCompleted.IsSuccessful())
	assert.True(t, PaymentSuccess.IsSuccessful())
	assert.False(t, PaymentPending.IsTerminal())
	assert.True(t, PaymentFailed.IsTerminal())
	assert.False(t, PaymentStatus("processing").IsTerminal())

	assert.Equal(t, PaymentCompleted, OrderCompleted.PaymentStatus())
	assert.Equal(t, PaymentFailed, OrderCancelled.PaymentStatus())
	assert.Equal(t, PaymentPending, OrderPending.PaymentStatus())
}

func TestGenerateOrderNumber(t *testing.T) {
	for i := 0; i < 20; i++ {
		assert.True(t, IsValidOrderNumber(GenerateOrderNumber()))
	}
	assert.False(t, IsValidOrderNumber("INVALID-123"))
}
