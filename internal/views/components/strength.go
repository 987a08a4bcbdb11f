package components

import (
	"sort"
	"strings"
)

// StrengthDefinition describes one of the strength levels offered on the
// cocktail form.
type StrengthDefinition struct {
	ID          string
	Label       string
	Description string
}

var strengthRegistry = map[string]StrengthDefinition{
	"none": {
		ID:          "none",
		Label:       "Alcohol-free",
		Description: "No spirits at all.",
	},
	"light": {
		ID:          "light",
		Label:       "Light",
		Description: "Long drinks and spritzes.",
	},
	"medium": {
		ID:          "medium",
		Label:       "Medium",
		Description: "Sours and classic shaken drinks.",
	},
	"strong": {
		ID:          "strong",
		Label:       "Strong",
		Description: "Stirred, spirit-forward drinks.",
	},
}

// StrengthByID returns the definition for id. Values outside the registry
// are shown as they were typed.
func StrengthByID(id string) (StrengthDefinition, bool) {
	key := strings.ToLower(strings.TrimSpace(id))
	if def, ok := strengthRegistry[key]; ok {
		return def, true
	}
	return StrengthDefinition{ID: id, Label: strings.TrimSpace(id)}, false
}

// StrengthOptions lists the known strength levels sorted by label.
func StrengthOptions() []StrengthDefinition {
	options := make([]StrengthDefinition, 0, len(strengthRegistry))
	for _, def := range strengthRegistry {
		options = append(options, def)
	}
	sort.Slice(options, func(i, j int) bool {
		return options[i].Label < options[j].Label
	})
	return options
}
