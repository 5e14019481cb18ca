package handlers

import (
	"context"
	"html/template"
	"net/http"
	"net/url"

	"concert-storefront/internal/log"
	"concert-storefront/internal/models"
	"concert-storefront/internal/services"

	"github.com/go-chi/chi/v5"
)

// CardProcessor settles card payments from the hosted checkout page
type CardProcessor interface {
	Transaction(transactionID string) (services.SandboxTransaction, error)
	CompleteCardPayment(ctx context.Context, transactionID string, approved bool) (*models.Order, error)
}

var checkoutPage = template.Must(template.New("checkout").Funcs(template.FuncMap{
	"xof": models.FormatXOF,
}).Parse(`<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Paiement par carte (sandbox)</title></head>
<body>
{{if .Order}}
	<h1>{{if eq .Tx.Status "completed"}}Paiement accepté{{else}}Paiement refusé{{end}}</h1>
	<p>Commande {{.Order.OrderNumber}} : {{xof .Order.Total}}</p>
	{{if .ReturnURL}}<p><a href="{{.ReturnURL}}">Retour à la boutique</a></p>{{end}}
{{else}}
	<h1>Paiement par carte (sandbox)</h1>
	<p>Montant : {{xof .Tx.Amount}}</p>
	<form method="post">
		<button name="decision" value="approve">Payer</button>
		<button name="decision" value="decline">Refuser</button>
	</form>
{{end}}
</body>
</html>`))

type checkoutPageData struct {
	Tx        services.SandboxTransaction
	Order     *models.Order
	ReturnURL string
}

// CheckoutPageHandler plays the card provider's hosted checkout page
type CheckoutPageHandler struct {
	cards         CardProcessor
	storefrontURL string
}

// NewCheckoutPageHandler creates the hosted checkout page. When storefrontURL
// is set the result page links back to its confirmation route.
func NewCheckoutPageHandler(cards CardProcessor, storefrontURL string) *CheckoutPageHandler {
	return &CheckoutPageHandler{cards: cards, storefrontURL: storefrontURL}
}

// Show handles GET /sandbox/checkout/{transactionId}
func (h *CheckoutPageHandler) Show(w http.ResponseWriter, r *http.Request) {
	tx, err := h.cards.Transaction(chi.URLParam(r, "transactionId"))
	if err != nil || tx.Method != models.PaymentMethodCard {
		http.Error(w, "Transaction introuvable", http.StatusNotFound)
		return
	}

	h.render(w, r, checkoutPageData{Tx: tx})
}

// Submit handles POST /sandbox/checkout/{transactionId}
func (h *CheckoutPageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Formulaire invalide", http.StatusBadRequest)
		return
	}
	approved := r.FormValue("decision") == "approve"

	order, err := h.cards.CompleteCardPayment(r.Context(), transactionID, approved)
	if err != nil {
		http.Error(w, "Transaction introuvable", http.StatusNotFound)
		return
	}
	tx, err := h.cards.Transaction(transactionID)
	if err != nil {
		http.Error(w, "Transaction introuvable", http.StatusNotFound)
		return
	}

	log.FromContext(r.Context()).
		WithField("transaction_id", transactionID).
		WithField("approved", approved).
		Info("Card checkout submitted")

	data := checkoutPageData{Tx: tx, Order: order}
	if h.storefrontURL != "" {
		data.ReturnURL = h.storefrontURL + services.RouteConfirmation + "?" +
			url.Values{"orderNumber": {order.OrderNumber}, "email": {order.Buyer.Email}}.Encode()
	}
	h.render(w, r, data)
}

func (h *CheckoutPageHandler) render(w http.ResponseWriter, r *http.Request, data checkoutPageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := checkoutPage.Execute(w, data); err != nil {
		log.FromContext(r.Context()).WithError(err).Error("Failed to render checkout page")
	}
}
