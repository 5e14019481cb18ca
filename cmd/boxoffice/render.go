package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"concert-storefront/internal/models"
	"concert-storefront/internal/services"
)

func printEvent(out io.Writer, event *models.Event, content models.Content, ticketTypes []models.TicketType) {
	fmt.Fprintln(out, event.Name)
	if title := content.Section("heroTitle"); title != "" && title != event.Name {
		fmt.Fprintln(out, title)
	}
	if !event.StartDate.IsZero() {
		fmt.Fprintf(out, "%s, %s\n", event.StartDate.Format("02/01/2006 15:04"), venueLine(event.Venue))
	}
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTICKET\tPRICE\t")
	for _, tt := range ticketTypes {
		name := tt.Name
		if tt.Featured {
			name += " *"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t\n", tt.ID, name, models.FormatXOF(tt.Price))
	}
	w.Flush()
}

func venueLine(venue models.Venue) string {
	parts := make([]string, 0, 2)
	for _, part := range []string{venue.Name, venue.City} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

func printCart(out io.Writer, cart models.Cart) {
	if cart.IsEmpty() {
		fmt.Fprintln(out, services.MsgEmptyCart)
		if cart.Donation > 0 {
			fmt.Fprintf(out, "Donation: %s\n", models.FormatXOF(cart.Donation))
		}
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TICKET\tQTY\tUNIT\tTOTAL\t")
	for _, item := range cart.Items {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t\n",
			item.TicketType.Name, item.Quantity, models.FormatXOF(item.UnitPrice), models.FormatXOF(item.TotalPrice))
	}
	fmt.Fprintln(w, "\t\t\t\t")
	fmt.Fprintf(w, "Subtotal\t\t\t%s\t\n", models.FormatXOF(cart.Subtotal()))
	fmt.Fprintf(w, "Service fee (2%%)\t\t\t%s\t\n", models.FormatXOF(cart.ServiceFee()))
	if cart.Donation > 0 {
		fmt.Fprintf(w, "Donation\t\t\t%s\t\n", models.FormatXOF(cart.Donation))
	}
	fmt.Fprintf(w, "Total\t\t\t%s\t\n", models.FormatXOF(cart.Total()))
	w.Flush()
}

func printStatus(out io.Writer, status services.ConfirmationStatus) {
	switch status.State {
	case services.ConfirmationSuccess:
		fmt.Fprintln(out, "Payment confirmed")
		if status.Order == nil {
			return
		}
		fmt.Fprintf(out, "Order %s, %d tickets, %s\n",
			status.Order.OrderNumber, status.Order.TicketCount(), models.FormatXOF(status.Order.Total))
		for _, ticket := range status.Order.Tickets {
			fmt.Fprintf(out, "  %s  %s\n", ticket.TicketNumber, ticket.Attendee.FullName())
		}
	case services.ConfirmationPending:
		fmt.Fprintf(out, "Waiting for payment confirmation (%d checks)\n", status.Attempts)
	default:
		fmt.Fprintln(out, status.Message)
	}
}
