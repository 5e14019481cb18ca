package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDonation(t *testing.T) {
	tests := []struct {
		name    string
		amount  int
		wantErr bool
	}{
		{name: "no donation", amount: 0, wantErr: false},
		{name: "minimum", amount: MinDonationAmount, wantErr: false},
		{name: "large", amount: 100000, wantErr: false},
		{name: "below minimum", amount: 999, wantErr: true},
		{name: "negative", amount: -1000, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDonation(tt.amount)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDonation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDonationRequest_Validate(t *testing.T) {
	donor := BuyerInfo{FirstName: "Awa", LastName: "Kone", Email: "awa@example.ci", Phone: "0700000000"}

	tests := []struct {
		name    string
		req     DonationRequest
		wantErr error
	}{
		{
			name: "valid",
			req:  DonationRequest{EventID: "evt-1", Donor: donor, Amount: 10000, PaymentMethod: DonationPaymentMethod},
		},
		{
			name:    "missing event",
			req:     DonationRequest{Donor: donor, Amount: 10000},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "zero amount",
			req:     DonationRequest{EventID: "evt-1", Donor: donor},
			wantErr: ErrInvalidDonation,
		},
		{
			name:    "below minimum",
			req:     DonationRequest{EventID: "evt-1", Donor: donor, Amount: 500},
			wantErr: ErrInvalidDonation,
		},
		{
			name:    "missing donor phone",
			req:     DonationRequest{EventID: "evt-1", Donor: BuyerInfo{FirstName: "Awa", LastName: "Kone", Email: "awa@example.ci"}, Amount: 5000},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFormatXOF(t *testing.T) {
	assert.Equal(t, "0 FCFA", FormatXOF(0))
	assert.Equal(t, "800 FCFA", FormatXOF(800))
	assert.Equal(t, "1 000 FCFA", FormatXOF(1000))
	assert.Equal(t, "40 800 FCFA", FormatXOF(40800))
	assert.Equal(t, "100 000 FCFA", FormatXOF(100000))
	assert.Equal(t, "1 250 000 FCFA", FormatXOF(1250000))
	assert.Equal(t, "-5 000 FCFA", FormatXOF(-5000))
}
