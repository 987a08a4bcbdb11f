package pages

import (
	"fmt"

	"github.com/a-h/templ"

	"cocktailbar/internal/views/components"
	"cocktailbar/internal/views/layout"
	"cocktailbar/models"
)

// AdminLogin renders the password form with an optional error.
func AdminLogin(message string) templ.Component {
	content := components.Func(func(p *components.Writer) {
		p.Raw(`<section class="login"><h1>Admin</h1>`)
		p.Render(components.Alert("error", message))
		p.Raw(`<form method="post" action="/admin/login">`)
		p.Raw(`<label>Password <input type="password" name="password" required autofocus autocomplete="current-password"></label>`)
		p.Raw(`<button type="submit">Sign in</button></form></section>`)
	})
	return layout.Layout("Admin login · "+venueName, nil, content, true)
}

// DashboardData feeds the admin dashboard. Draft holds rejected create-form
// values; Editing is the cocktail open in the edit form.
type DashboardData struct {
	Cocktails           []models.Cocktail
	Orders              []models.Order
	Editing             *models.Cocktail
	Draft               *models.Cocktail
	Error               string
	Success             string
	RequireInstructions bool
}

// AdminDashboard lists cocktails and orders with the management forms.
func AdminDashboard(data DashboardData) templ.Component {
	content := components.Func(func(p *components.Writer) {
		p.Raw(`<h1>Dashboard</h1>`)
		p.Render(components.Alert("error", data.Error))
		p.Render(components.Alert("success", data.Success))

		if data.Editing != nil {
			p.Render(components.CocktailForm(components.CocktailFormData{
				Action:              fmt.Sprintf("/admin/cocktails/%d/update", data.Editing.ID),
				Title:               "Edit " + data.Editing.Name,
				Submit:              "Update cocktail",
				Cocktail:            *data.Editing,
				RequireInstructions: data.RequireInstructions,
				ShowCancel:          true,
			}))
		}

		draft := models.Cocktail{}
		if data.Draft != nil {
			draft = *data.Draft
		}
		p.Render(components.CocktailForm(components.CocktailFormData{
			Action:              "/admin/cocktails",
			Title:               "Add cocktail",
			Submit:              "Save cocktail",
			Cocktail:            draft,
			RequireInstructions: data.RequireInstructions,
		}))

		p.Raw(`<section><h2>Cocktails (`)
		p.Text(fmt.Sprint(len(data.Cocktails)))
		p.Raw(`)</h2>`)
		p.Render(components.CocktailTable(data.Cocktails))
		p.Raw(`</section><section><h2>Latest orders</h2>`)
		p.Render(components.OrderTable(data.Orders))
		p.Raw(`</section>`)
	})
	return layout.Layout("Dashboard · "+venueName, layout.AdminNav(), content, true)
}
