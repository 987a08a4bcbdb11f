package notify

import (
	"net/url"
	"strings"

	"cocktailbar/models"
)

const deepLinkPrefix = "https://wa.me/"

// BuildMessage renders the staff notification for an order. The note line is
// left out entirely when the customer did not write one.
func BuildMessage(order models.Order) string {
	lines := []string{
		"Hello! New cocktail order:",
		"Name: " + strings.TrimSpace(order.CustomerName),
		"Drink: " + strings.TrimSpace(order.CocktailName),
	}
	if note := strings.TrimSpace(order.Note); note != "" {
		lines = append(lines, "Details: "+note)
	}
	return strings.Join(lines, "\n")
}

// NormalizeNumber keeps only the digits of a phone number.
func NormalizeNumber(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeAddress converts a phone number into a whatsapp:+<digits> address.
// Values already carrying the whatsapp: scheme are kept as they are.
func NormalizeAddress(value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "whatsapp:") {
		return raw
	}
	if strings.HasPrefix(raw, "+") {
		return "whatsapp:" + raw
	}
	digits := NormalizeNumber(raw)
	if digits == "" {
		return ""
	}
	return "whatsapp:+" + digits
}

// DeepLink builds a wa.me link pre-filled with message. It returns an empty
// string when number has no digits.
func DeepLink(number, message string) string {
	digits := NormalizeNumber(number)
	if digits == "" {
		return ""
	}
	return deepLinkPrefix + digits + "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}

// IsDeepLink reports whether link points at the wa.me domain.
func IsDeepLink(link string) bool {
	return strings.HasPrefix(strings.TrimSpace(link), deepLinkPrefix)
}
