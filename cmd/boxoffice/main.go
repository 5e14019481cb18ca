package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"concert-storefront/internal/config"
	"concert-storefront/internal/log"
	"concert-storefront/internal/models"
	"concert-storefront/internal/services"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	log.InitFromString(cfg.Log.Level)

	if err := newCLI(cfg).RunContext(ctx, os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func newCLI(cfg *config.Config) *cli.App {
	// withApp opens storage and the backend around a command action
	withApp := func(action func(c *cli.Context, a *app) error) cli.ActionFunc {
		return func(c *cli.Context) error {
			a, err := newApp(c, cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			return action(c, a)
		}
	}

	return &cli.App{
		Name:  "boxoffice",
		Usage: "Sell tickets for the concert from the terminal",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "sandbox", Usage: "use the in-process sandbox backend instead of the remote API"},
			&cli.StringFlag{Name: "storage", Usage: "cart storage driver: sqlite, redis or memory"},
			&cli.StringFlag{Name: "lang", Usage: "content language"},
		},
		Commands: []*cli.Command{
			{
				Name:  "event",
				Usage: "show the event and its ticket types",
				Action: withApp(func(c *cli.Context, a *app) error {
					if err := a.loadEvent(c.Context); err != nil {
						return err
					}
					printEvent(a.out, a.events.Event(), a.events.Content(), a.events.TicketTypes())
					return nil
				}),
			},
			{
				Name:        "cart",
				Usage:       "manage the cart",
				Subcommands: cartCommands(withApp),
			},
			{
				Name:  "checkout",
				Usage: "check out the cart",
				Action: withApp(func(c *cli.Context, a *app) error {
					return a.runCheckout(c.Context)
				}),
			},
			{
				Name:  "confirm",
				Usage: "wait for a payment confirmation",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "transaction-id"},
					&cli.StringFlag{Name: "order-number"},
					&cli.StringFlag{Name: "email"},
				},
				Action: withApp(func(c *cli.Context, a *app) error {
					return a.confirm(c.Context, services.ConfirmationQuery{
						TransactionID: c.String("transaction-id"),
						OrderNumber:   c.String("order-number"),
						Email:         c.String("email"),
					})
				}),
			},
			{
				Name:      "donate",
				Usage:     "make a standalone donation",
				ArgsUsage: "<amount>",
				Action: withApp(func(c *cli.Context, a *app) error {
					amount, err := amountArg(c)
					if err != nil {
						return err
					}
					if err := a.loadEvent(c.Context); err != nil {
						return err
					}
					donor, err := a.askBuyer(models.BuyerInfo{})
					if err != nil {
						return err
					}

					donation, err := services.NewDonationService(a.backend).Donate(c.Context, a.events.Event().ID, donor, amount)
					if err != nil {
						return fmt.Errorf("%s: %w", services.UserMessage(err, services.DefaultErrorMessage), err)
					}
					fmt.Fprintf(a.out, "Thank you for your donation of %s\n", models.FormatXOF(donation.Amount))
					return nil
				}),
			},
		},
	}
}

func cartCommands(withApp func(func(*cli.Context, *app) error) cli.ActionFunc) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "show",
			Usage: "print the cart",
			Action: withApp(func(c *cli.Context, a *app) error {
				printCart(a.out, a.cart.Snapshot())
				return nil
			}),
		},
		{
			Name:      "add",
			Usage:     "add tickets to the cart",
			ArgsUsage: "<ticket-type-id> <quantity>",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{Name: "attendee", Usage: "attendee name, once per ticket"},
			},
			Action: withApp(func(c *cli.Context, a *app) error {
				quantity, err := strconv.Atoi(c.Args().Get(1))
				if err != nil {
					return fmt.Errorf("invalid quantity %q", c.Args().Get(1))
				}
				if err := a.loadEvent(c.Context); err != nil {
					return err
				}
				ticketType, err := a.events.TicketType(c.Args().First())
				if err != nil {
					return err
				}
				if err := a.cart.AddItem(c.Context, ticketType, quantity, parseAttendees(c.StringSlice("attendee"))); err != nil {
					return err
				}
				printCart(a.out, a.cart.Snapshot())
				return nil
			}),
		},
		{
			Name:      "update",
			Usage:     "change the quantity of a ticket type; 0 removes it",
			ArgsUsage: "<ticket-type-id> <quantity>",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{Name: "attendee", Usage: "replace the attendee names, once per ticket"},
			},
			Action: withApp(func(c *cli.Context, a *app) error {
				quantity, err := strconv.Atoi(c.Args().Get(1))
				if err != nil {
					return fmt.Errorf("invalid quantity %q", c.Args().Get(1))
				}
				ticketTypeID := c.Args().First()
				attendees := a.resizedAttendees(ticketTypeID, quantity)
				if names := c.StringSlice("attendee"); len(names) > 0 {
					attendees = parseAttendees(names)
				}
				if err := a.cart.UpdateItemQuantity(c.Context, ticketTypeID, quantity, attendees); err != nil {
					return err
				}
				printCart(a.out, a.cart.Snapshot())
				return nil
			}),
		},
		{
			Name:      "remove",
			Usage:     "remove a ticket type",
			ArgsUsage: "<ticket-type-id>",
			Action: withApp(func(c *cli.Context, a *app) error {
				if err := a.cart.RemoveItem(c.Context, c.Args().First()); err != nil {
					return err
				}
				printCart(a.out, a.cart.Snapshot())
				return nil
			}),
		},
		{
			Name:      "donate",
			Usage:     "set the donation added to the order; 0 removes it",
			ArgsUsage: "<amount>",
			Action: withApp(func(c *cli.Context, a *app) error {
				amount, err := amountArg(c)
				if err != nil {
					return err
				}
				if err := a.cart.SetDonation(c.Context, amount); err != nil {
					return err
				}
				printCart(a.out, a.cart.Snapshot())
				return nil
			}),
		},
		{
			Name:  "clear",
			Usage: "empty the cart",
			Action: withApp(func(c *cli.Context, a *app) error {
				return a.cart.ClearCart(c.Context)
			}),
		},
	}
}

func amountArg(c *cli.Context) (int, error) {
	amount, err := strconv.Atoi(c.Args().First())
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", c.Args().First())
	}
	return amount, nil
}
