package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"concert-storefront/internal/config"
	"concert-storefront/internal/models"
	"concert-storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Backend: config.BackendConfig{EventSlug: "adorons-ensemble", Language: "fr"},
		Storage: config.StorageConfig{
			Driver:  config.StorageSQLite,
			Path:    filepath.Join(t.TempDir(), "boxoffice.db"),
			CartKey: services.DefaultCartKey,
		},
		Polling: config.PollingConfig{Interval: time.Millisecond, MaxAttempts: 20},
		Sandbox: config.SandboxConfig{ConfirmAfter: 3, PublicBaseURL: "http://sandbox.local"},
	}
}

// run executes one boxoffice invocation against the sandbox and returns its output
func run(t *testing.T, cfg *config.Config, input string, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	app := newCLI(cfg)
	app.Reader = strings.NewReader(input)
	app.Writer = &out

	require.NoError(t, app.Run(append([]string{"boxoffice", "--sandbox"}, args...)))
	return out.String()
}

func TestBoxOffice_Event(t *testing.T) {
	out := run(t, testConfig(t), "", "event")

	assert.Contains(t, out, "Adorons Ensemble")
	assert.Contains(t, out, "tt-vip")
	assert.Contains(t, out, "25 000 FCFA")
}

func TestBoxOffice_CartCommands(t *testing.T) {
	cfg := testConfig(t)

	run(t, cfg, "", "cart", "add", "tt-standard", "4")
	out := run(t, cfg, "", "cart", "show")
	assert.Contains(t, out, "40 800 FCFA")

	out = run(t, cfg, "", "cart", "donate", "5000")
	assert.Contains(t, out, "45 800 FCFA")

	out = run(t, cfg, "", "cart", "update", "tt-standard", "0")
	assert.Contains(t, out, services.MsgEmptyCart)
	assert.Contains(t, out, "5 000 FCFA")

	run(t, cfg, "", "cart", "clear")
	out = run(t, cfg, "", "cart", "show")
	assert.Equal(t, services.MsgEmptyCart+"\n", out)
}

func TestBoxOffice_MobileMoneyCheckout(t *testing.T) {
	cfg := testConfig(t)
	run(t, cfg, "", "cart", "add", "tt-standard", "2", "--attendee", "Jean Yao")

	input := strings.Join([]string{
		"1",
		"Awa", "Kone", "awa@example.com", "+2250700000001",
		"1", "2",
	}, "\n") + "\n"
	out := run(t, cfg, input, "checkout")

	assert.Contains(t, out, "Amount due: 20 400 FCFA")
	assert.Contains(t, out, "Payment confirmed")
	assert.Contains(t, out, "Jean Yao")
	assert.Contains(t, run(t, cfg, "", "cart", "show"), services.MsgEmptyCart)
}

func TestBoxOffice_CardCheckout(t *testing.T) {
	cfg := testConfig(t)
	run(t, cfg, "", "cart", "add", "tt-vip", "1")

	input := strings.Join([]string{
		"1",
		"Awa", "Kone", "awa@example.com", "+2250700000001",
		"2",
		"y",
	}, "\n") + "\n"
	out := run(t, cfg, input, "checkout")

	assert.Contains(t, out, "http://sandbox.local/sandbox/checkout/tx_")
	assert.Contains(t, out, "Payment confirmed")
}

func TestBoxOffice_CheckoutValidation(t *testing.T) {
	cfg := testConfig(t)
	run(t, cfg, "", "cart", "add", "tt-standard", "1")

	input := strings.Join([]string{
		"1",
		"Awa", "Kone", "not-an-email", "+2250700000001",
		"", "", "awa@example.com", "",
		"3", "1", "9", "1",
	}, "\n") + "\n"
	out := run(t, cfg, input, "checkout")

	assert.Contains(t, out, services.MsgInvalidEmail)
	assert.Contains(t, out, "Enter a number between 1 and 2")
	assert.Contains(t, out, "Enter a number between 1 and 4")
	assert.Contains(t, out, "Payment confirmed")
}

func TestBoxOffice_CancelAtReview(t *testing.T) {
	cfg := testConfig(t)
	run(t, cfg, "", "cart", "add", "tt-standard", "1")

	run(t, cfg, "5\n", "checkout")

	assert.Contains(t, run(t, cfg, "", "cart", "show"), "10 200 FCFA")
}

func TestBoxOffice_DeclinedPayment(t *testing.T) {
	cfg := testConfig(t)
	run(t, cfg, "", "cart", "add", "tt-standard", "1")

	input := strings.Join([]string{
		"1",
		"Awa", "Kone", "awa@example.com", "+2250700000000",
		"1", "1",
	}, "\n") + "\n"
	out := run(t, cfg, input, "checkout")

	assert.Contains(t, out, services.MsgSandboxDeclined)
	assert.NotContains(t, run(t, cfg, "", "cart", "show"), services.MsgEmptyCart)
}

func TestBoxOffice_UpdateKeepsAttendees(t *testing.T) {
	cfg := testConfig(t)
	run(t, cfg, "", "cart", "add", "tt-standard", "2", "--attendee", "Jean Yao", "--attendee", "Awa Kone")

	run(t, cfg, "", "cart", "update", "tt-standard", "3")
	attendees := storedAttendees(t, cfg, "tt-standard")
	require.Len(t, attendees, 3)
	assert.Equal(t, "Jean", attendees[0].FirstName)
	assert.Equal(t, "Awa", attendees[1].FirstName)
	assert.Empty(t, attendees[2].FirstName)

	run(t, cfg, "", "cart", "update", "tt-standard", "1")
	attendees = storedAttendees(t, cfg, "tt-standard")
	require.Len(t, attendees, 1)
	assert.Equal(t, "Yao", attendees[0].LastName)

	run(t, cfg, "", "cart", "update", "tt-standard", "2", "--attendee", "Marie Koffi")
	attendees = storedAttendees(t, cfg, "tt-standard")
	require.Len(t, attendees, 2)
	assert.Equal(t, "Marie", attendees[0].FirstName)
}

// storedAttendees reads the persisted cart line for ticketTypeID
func storedAttendees(t *testing.T, cfg *config.Config, ticketTypeID string) []models.AttendeeInfo {
	t.Helper()

	storage, closeStorage, err := openStorage(cfg.Storage)
	require.NoError(t, err)
	defer closeStorage()

	cart := services.NewCartStore(context.Background(), storage, cfg.Storage.CartKey)
	for _, item := range cart.Items() {
		if item.TicketType.ID == ticketTypeID {
			return item.Attendees
		}
	}
	t.Fatalf("no cart line for %s", ticketTypeID)
	return nil
}

func TestBoxOffice_ReviewEdits(t *testing.T) {
	cfg := testConfig(t)
	run(t, cfg, "", "cart", "add", "tt-standard", "2", "--attendee", "Jean Yao")
	run(t, cfg, "", "cart", "add", "tt-vip", "1")

	input := strings.Join([]string{
		"2", "1", "3", // standard quantity 2 -> 3
		"3", "2", // remove VIP
		"4", "5000", // donation
		"4", "10", // rejected donation keeps 5000
		"1",
		"Awa", "Kone", "awa@example.com", "+2250700000001",
		"1", "1",
	}, "\n") + "\n"
	out := run(t, cfg, input, "checkout")

	assert.Contains(t, out, models.ErrInvalidDonation.Error())
	assert.Contains(t, out, "Amount due: 35 600 FCFA")
	assert.Contains(t, out, "3 tickets")
	assert.Contains(t, out, "Jean Yao")
	assert.Contains(t, out, "Payment confirmed")
}

func TestParseAttendees(t *testing.T) {
	attendees := parseAttendees([]string{"Jean Yao", "Marie Claire Koffi", "Awa"})

	require.Len(t, attendees, 3)
	assert.Equal(t, "Jean", attendees[0].FirstName)
	assert.Equal(t, "Claire Koffi", attendees[1].LastName)
	assert.Empty(t, attendees[2].LastName)
}
