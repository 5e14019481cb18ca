package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"

	"concert-storefront/internal/models"
	"concert-storefront/internal/services"

	"github.com/samber/lo"
)

// runCheckout walks the buyer through review, details and payment, then
// follows the flow's navigation to the confirmation.
func (a *app) runCheckout(ctx context.Context) error {
	if a.cart.IsEmpty() {
		return errors.New(services.MsgEmptyCart)
	}

	nav := services.NewHistoryNavigator()
	flow := services.NewCheckoutFlow(a.cart, a.backend, nav)

	for {
		if err := a.fillStep(ctx, flow); err != nil {
			flow.Abandon()
			if errors.Is(err, errCheckoutCancelled) {
				return nil
			}
			return err
		}

		result, err := flow.Next(ctx)
		switch {
		case errors.Is(err, services.ErrStepInvalid):
			fmt.Fprintln(a.out, flow.Session().LastError)
			continue
		case err != nil:
			fmt.Fprintln(a.out, flow.Session().LastError)
			retry, promptErr := a.prompt.confirm("Try again?")
			if promptErr != nil || !retry {
				flow.Abandon()
				return err
			}
			continue
		case result == nil:
			continue
		}

		return a.followNavigation(ctx, nav, result, flow.Session().Buyer)
	}
}

// errCheckoutCancelled is returned when the buyer declines to continue at review
var errCheckoutCancelled = errors.New("checkout cancelled")

func (a *app) fillStep(ctx context.Context, flow *services.CheckoutFlow) error {
	session := flow.Session()

	switch session.Step {
	case models.StepReview:
		return a.reviewCart(ctx, flow)

	case models.StepBuyer:
		buyer, err := a.askBuyer(session.Buyer)
		if err != nil {
			return err
		}
		flow.SetBuyerInfo(buyer)

	case models.StepPayment:
		fmt.Fprintf(a.out, "Amount due: %s\n", models.FormatXOF(a.cart.Total()))
		choice, err := a.prompt.choose("Payment method", []string{"Mobile money", "Card"})
		if err != nil {
			return err
		}
		if choice == 1 {
			return flow.SelectPaymentMethod(models.PaymentMethodCard)
		}
		if err := flow.SelectPaymentMethod(models.PaymentMethodMobile); err != nil {
			return err
		}

		providers := models.MobileProviders()
		names := make([]string, len(providers))
		for i, provider := range providers {
			names[i] = provider.DisplayName()
		}
		choice, err = a.prompt.choose("Mobile money provider", names)
		if err != nil {
			return err
		}
		return flow.SelectMobileProvider(providers[choice])
	}

	return nil
}

// Review step actions, in menu order
const (
	reviewContinue = iota
	reviewQuantity
	reviewRemove
	reviewDonation
	reviewCancel
)

// reviewCart lets the buyer edit the cart through the flow until they
// continue or cancel.
func (a *app) reviewCart(ctx context.Context, flow *services.CheckoutFlow) error {
	for {
		printCart(a.out, a.cart.Snapshot())
		action, err := a.prompt.choose("Review your order", []string{
			"Continue to your details",
			"Change a quantity",
			"Remove a ticket type",
			"Set the donation",
			"Cancel",
		})
		if err != nil {
			return err
		}

		switch action {
		case reviewContinue:
			return nil
		case reviewCancel:
			return errCheckoutCancelled
		case reviewDonation:
			amount, err := a.askAmount("Donation (0 for none)", a.cart.Donation())
			if err != nil {
				return err
			}
			if err := flow.SetDonation(ctx, amount); err != nil {
				fmt.Fprintln(a.out, err)
			}
			continue
		}

		items := a.cart.Items()
		if len(items) == 0 {
			fmt.Fprintln(a.out, services.MsgEmptyCart)
			continue
		}
		names := lo.Map(items, func(item models.CartLineItem, _ int) string {
			return fmt.Sprintf("%s (%d)", item.TicketType.Name, item.Quantity)
		})
		line, err := a.prompt.choose("Ticket type", names)
		if err != nil {
			return err
		}
		item := items[line]

		if action == reviewRemove {
			err = flow.RemoveItem(ctx, item.TicketType.ID)
		} else {
			quantity, askErr := a.askAmount("Quantity (0 removes)", item.Quantity)
			if askErr != nil {
				return askErr
			}
			err = flow.UpdateItemQuantity(ctx, item.TicketType.ID, quantity,
				a.resizedAttendees(item.TicketType.ID, quantity))
		}
		if err != nil {
			fmt.Fprintln(a.out, err)
		}
	}
}

// askAmount reads a whole number, re-asking until one is given
func (a *app) askAmount(label string, current int) (int, error) {
	for {
		answer, err := a.prompt.ask(label, strconv.Itoa(current))
		if err != nil {
			return 0, err
		}
		if n, err := strconv.Atoi(answer); err == nil {
			return n, nil
		}
		fmt.Fprintln(a.out, "Enter a whole number")
	}
}

func (a *app) askBuyer(current models.BuyerInfo) (models.BuyerInfo, error) {
	var err error
	fields := []struct {
		label string
		value *string
	}{
		{"First name", &current.FirstName},
		{"Last name", &current.LastName},
		{"Email", &current.Email},
		{"Phone", &current.Phone},
	}

	for _, field := range fields {
		if *field.value, err = a.prompt.ask(field.label, *field.value); err != nil {
			return models.BuyerInfo{}, err
		}
	}

	return current, nil
}

// followNavigation continues where the flow sent the buyer: the hosted card
// page for card payments, the confirmation route for mobile money.
func (a *app) followNavigation(ctx context.Context, nav *services.HistoryNavigator, result *services.CheckoutResult, buyer models.BuyerInfo) error {
	last, ok := nav.Last()
	if !ok {
		return errors.New("checkout finished without navigating")
	}

	if last.Kind == services.NavigationInternal {
		fmt.Fprintf(a.out, "Approve the payment on your phone (order %s)\n", result.Order.OrderNumber)
		return a.confirm(ctx, services.ConfirmationQueryFromValues(last.Params))
	}

	fmt.Fprintf(a.out, "Complete the card payment at:\n  %s\n", last.Target)
	if a.sandbox != nil {
		approved, err := a.prompt.confirm("Approve the sandbox card payment?")
		if err != nil {
			return err
		}
		if _, err := a.sandbox.CompleteCardPayment(ctx, sandboxTransactionID(last.Target), approved); err != nil {
			return err
		}
	} else if _, err := a.prompt.ask("Press enter once the payment is complete", ""); err != nil {
		return err
	}

	return a.confirm(ctx, services.ConfirmationQuery{
		OrderNumber: result.Order.OrderNumber,
		Email:       buyer.Email,
	})
}

// sandboxTransactionID extracts the transaction id from a hosted checkout URL
func sandboxTransactionID(redirectURL string) string {
	if parsed, err := url.Parse(redirectURL); err == nil {
		return path.Base(parsed.Path)
	}
	return path.Base(redirectURL)
}
