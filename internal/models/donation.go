package models

import (
	"fmt"
	"strings"
	"time"
)

// MinDonationAmount is the smallest accepted donation, in XOF
const MinDonationAmount = 1000

// DonationPaymentMethod is the channel used by the standalone donation form
const DonationPaymentMethod = "wave"

// DonationPresets are the suggested donation amounts, smallest first
var DonationPresets = []int{5000, 10000, 25000, 35000, 45000, 50000, 60000, 75000, 100000}

// DonationRequest is the body of POST /donations
type DonationRequest struct {
	EventID       string    `json:"eventId"`
	Donor         BuyerInfo `json:"donor"`
	Amount        int       `json:"amount"`
	PaymentMethod string    `json:"paymentMethod"`
}

// Donation is the backend acknowledgement of a recorded donation
type Donation struct {
	ID        string    `json:"_id"`
	EventID   string    `json:"eventId"`
	Amount    int       `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ValidateDonation is the single donation rule: zero means no donation,
// anything else must reach MinDonationAmount.
func ValidateDonation(amount int) error {
	if amount < 0 {
		return fmt.Errorf("%w: cannot be negative", ErrInvalidDonation)
	}

	if amount > 0 && amount < MinDonationAmount {
		return fmt.Errorf("%w: minimum is %s", ErrInvalidDonation, FormatXOF(MinDonationAmount))
	}

	return nil
}

// Validate validates a standalone donation
func (req *DonationRequest) Validate() error {
	if strings.TrimSpace(req.EventID) == "" {
		return fmt.Errorf("%w: event is required", ErrInvalidInput)
	}

	if req.Amount == 0 {
		return fmt.Errorf("%w: minimum is %s", ErrInvalidDonation, FormatXOF(MinDonationAmount))
	}

	if err := ValidateDonation(req.Amount); err != nil {
		return err
	}

	if req.Donor.MissingFields() {
		return fmt.Errorf("%w: donor first name, last name, email and phone are required", ErrInvalidInput)
	}

	if !IsValidEmail(req.Donor.Email) {
		return fmt.Errorf("%w: donor email format is invalid", ErrInvalidInput)
	}

	return nil
}
