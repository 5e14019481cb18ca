package models

// PaymentMethod is the payment channel chosen at step 3
type PaymentMethod string

const (
	PaymentMethodNone   PaymentMethod = ""
	PaymentMethodMobile PaymentMethod = "mobile"
	PaymentMethodCard   PaymentMethod = "card"
)

// MobileProvider is a mobile money operator
type MobileProvider string

const (
	ProviderNone   MobileProvider = ""
	ProviderWave   MobileProvider = "wave"
	ProviderOrange MobileProvider = "orange"
	ProviderMTN    MobileProvider = "mtn"
	ProviderMoov   MobileProvider = "moov"
)

// CardProvider is the provider name sent for card payments
const CardProvider = "stripe"

// CheckoutStep is one of the three ordered checkout steps
type CheckoutStep int

const (
	StepReview  CheckoutStep = 1
	StepBuyer   CheckoutStep = 2
	StepPayment CheckoutStep = 3
)

// CheckoutSession is the transient state of one checkout attempt
type CheckoutSession struct {
	Step           CheckoutStep
	PaymentMethod  PaymentMethod
	MobileProvider MobileProvider
	Buyer          BuyerInfo
	LastError      string
	IsSubmitting   bool
}

// NewCheckoutSession returns a session positioned on the review step
func NewCheckoutSession() CheckoutSession {
	return CheckoutSession{Step: StepReview}
}

// MobileProviders lists the supported mobile money operators in display order
func MobileProviders() []MobileProvider {
	return []MobileProvider{ProviderWave, ProviderOrange, ProviderMTN, ProviderMoov}
}

// IsValid returns true for a known payment method
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodMobile || m == PaymentMethodCard
}

// IsValid returns true for a known mobile money operator
func (p MobileProvider) IsValid() bool {
	switch p {
	case ProviderWave, ProviderOrange, ProviderMTN, ProviderMoov:
		return true
	default:
		return false
	}
}

// DisplayName returns the operator's commercial name
func (p MobileProvider) DisplayName() string {
	switch p {
	case ProviderWave:
		return "Wave"
	case ProviderOrange:
		return "Orange Money"
	case ProviderMTN:
		return "MTN Money"
	case ProviderMoov:
		return "Moov Money"
	default:
		return string(p)
	}
}

// ProviderFor returns the provider field of a payment request
func ProviderFor(method PaymentMethod, provider MobileProvider) string {
	if method == PaymentMethodMobile {
		return string(provider)
	}
	return CardProvider
}
