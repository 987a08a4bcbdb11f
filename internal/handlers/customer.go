package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/skip2/go-qrcode"

	"cocktailbar/internal/bar"
	applog "cocktailbar/internal/log"
	"cocktailbar/internal/views/pages"
)

const qrSize = 700

var schemePattern = regexp.MustCompile(`(?i)^https?://`)

// Home shows the landing page with the menu QR code.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pages.Home(pages.HomeData{
		MenuURL:            h.menuURL(r),
		WhatsAppConfigured: h.service.NotificationsConfigured(),
	}))
}

// QRCode renders a PNG QR code encoding the menu URL.
func (h *Handler) QRCode(w http.ResponseWriter, r *http.Request) {
	png, err := qrcode.Encode(h.menuURL(r), qrcode.Medium, qrSize)
	if err != nil {
		h.handleError(w, r, fmt.Errorf("encode qr code: %w", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(png); err != nil {
		applog.Error(r.Context(), "failed to write qr code", "error", err)
	}
}

// Menu lists the cocktails and the order form.
func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	cocktails, err := h.service.Menu(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	query := r.URL.Query()
	selected, _ := bar.ParseID(query.Get("cocktail_id"))
	h.render(w, r, http.StatusOK, pages.Menu(pages.MenuData{
		Cocktails:          cocktails,
		SelectedID:         selected,
		OrderError:         query.Get("order_error"),
		OrderSuccess:       query.Get("order_success"),
		WhatsAppConfigured: h.service.NotificationsConfigured(),
	}))
}

// PlaceOrder stores an order and sends the customer to its confirmation.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		applog.Debug(r.Context(), "failed to parse order form", "error", err)
		redirect(w, r, "/menu", map[string]string{"order_error": bar.MsgOrderIncomplete})
		return
	}

	res, err := h.service.PlaceOrder(r.Context(), bar.OrderRequest{
		CustomerName: r.PostFormValue("customer_name"),
		CocktailID:   r.PostFormValue("cocktail_id"),
		Note:         r.PostFormValue("note"),
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if res.Outcome != bar.OutcomeOK {
		redirect(w, r, "/menu", map[string]string{
			"order_error": res.Message,
			"cocktail_id": res.SelectedID,
		})
		return
	}

	params := map[string]string{
		"order_id":     fmt.Sprint(res.Order.ID),
		"whatsapp_url": res.Delivery.ManualURL,
	}
	if res.Delivery.Fallback() {
		params["fallback"] = "1"
	}
	redirect(w, r, "/order/success", params)
}

// OrderSuccess renders the order confirmation.
func (h *Handler) OrderSuccess(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	conf, outcome, err := h.service.OrderConfirmation(r.Context(), query.Get("order_id"), query.Get("whatsapp_url"), query.Get("fallback") == "1")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if outcome != bar.OutcomeOK {
		redirect(w, r, "/menu", nil)
		return
	}
	h.render(w, r, http.StatusOK, pages.OrderSuccess(pages.OrderSuccessData{
		Order:     *conf.Order,
		ManualURL: conf.ManualURL,
		Fallback:  conf.Fallback,
	}))
}

// Cocktail renders a single cocktail or the 404 page.
func (h *Handler) Cocktail(w http.ResponseWriter, r *http.Request) {
	cocktail, outcome, err := h.service.Cocktail(r.Context(), r.PathValue("id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if outcome != bar.OutcomeOK {
		h.NotFound(w, r)
		return
	}
	h.render(w, r, http.StatusOK, pages.CocktailDetail(*cocktail))
}

func (h *Handler) menuURL(r *http.Request) string {
	return normalizeBaseURL(h.publicBaseURL, r) + "/menu"
}

// normalizeBaseURL prefers the configured public URL, adding https:// when
// no scheme is given, and otherwise derives the base from the request.
func normalizeBaseURL(configured string, r *http.Request) string {
	configured = strings.TrimSpace(configured)
	if configured != "" {
		if !schemePattern.MatchString(configured) {
			configured = "https://" + configured
		}
		return strings.TrimRight(configured, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
