package services

import (
	"context"
	"fmt"

	"concert-storefront/internal/log"
	"concert-storefront/internal/models"
)

// DonationService records standalone donations, independent of the cart
type DonationService struct {
	gateway DonationGateway
}

// NewDonationService creates a new donation service
func NewDonationService(gateway DonationGateway) *DonationService {
	return &DonationService{gateway: gateway}
}

// Donate validates the donor and amount and records the donation for eventID
func (s *DonationService) Donate(ctx context.Context, eventID string, donor models.BuyerInfo, amount int) (*models.Donation, error) {
	req := &models.DonationRequest{
		EventID:       eventID,
		Donor:         donor,
		Amount:        amount,
		PaymentMethod: models.DonationPaymentMethod,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	logger := log.FromContext(ctx).
		WithField("event_id", eventID).
		WithField("amount", amount)

	donation, err := s.gateway.Donate(ctx, req)
	if err != nil {
		logger.WithError(err).Warn("Donation failed")
		return nil, fmt.Errorf("failed to record donation: %w", err)
	}

	logger.WithField("donation_id", donation.ID).Info("Donation recorded")
	return donation, nil
}
