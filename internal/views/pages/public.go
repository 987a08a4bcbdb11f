// Package pages renders the full pages served by the handlers.
package pages

import (
	"fmt"

	"github.com/a-h/templ"

	"cocktailbar/internal/views/components"
	"cocktailbar/internal/views/layout"
	"cocktailbar/models"
)

const venueName = "Cocktail Bar"

// HomeData feeds the landing page.
type HomeData struct {
	MenuURL            string
	WhatsAppConfigured bool
}

// Home shows the QR code pointing at the menu.
func Home(data HomeData) templ.Component {
	content := components.Func(func(p *components.Writer) {
		p.Raw(`<section class="home"><h1>`)
		p.Text(venueName)
		p.Raw(`</h1><p>Scan the code to open the menu and order.</p>`)
		p.Raw(`<img class="qr" src="/qr.png" alt="Menu QR code" width="350" height="350">`)
		p.Raw(`<p class="menu-url"><a href="`)
		p.URL(data.MenuURL)
		p.Raw(`">`)
		p.Text(data.MenuURL)
		p.Raw(`</a></p>`)
		if !data.WhatsAppConfigured {
			p.Render(components.Alert("warning", "WhatsApp ordering is not configured yet. Orders are still saved for the bar."))
		}
		p.Raw(`</section>`)
	})
	return layout.Layout(venueName, nil, content, false)
}

// MenuData feeds the menu page.
type MenuData struct {
	Cocktails          []models.Cocktail
	SelectedID         uint
	OrderError         string
	OrderSuccess       string
	WhatsAppConfigured bool
}

// Menu lists the cocktails and the order form.
func Menu(data MenuData) templ.Component {
	content := components.Func(func(p *components.Writer) {
		p.Raw(`<h1>Menu</h1>`)
		p.Render(components.Alert("error", data.OrderError))
		p.Render(components.Alert("success", data.OrderSuccess))

		if len(data.Cocktails) == 0 {
			p.Raw(`<p class="empty">The menu is empty for now.</p>`)
			return
		}

		p.Raw(`<section class="menu">`)
		for _, c := range data.Cocktails {
			p.Render(components.CocktailCard(c))
		}
		p.Raw(`</section>`)

		p.Raw(`<form class="order-form" method="post" action="/order"><h2>Order</h2>`)
		p.Raw(`<label>Your name <input type="text" name="customer_name" required maxlength="100"></label>`)
		p.Raw(`<label>Drink <select name="cocktail_id" required><option value="">Choose a drink</option>`)
		for _, c := range data.Cocktails {
			p.Raw(`<option value="`)
			p.Text(fmt.Sprint(c.ID))
			p.Raw(`"`)
			if c.ID == data.SelectedID {
				p.Raw(` selected`)
			}
			p.Raw(`>`)
			p.Text(c.Name)
			p.Raw(`</option>`)
		}
		p.Raw(`</select></label>`)
		p.Raw(`<label>Details <textarea name="note" rows="2" maxlength="1000" placeholder="No ice, less sugar..."></textarea></label>`)
		p.Raw(`<button type="submit">Place order</button></form>`)
		if !data.WhatsAppConfigured {
			p.Raw(`<p class="hint">Your order goes straight to the bar team.</p>`)
		}
	})
	return layout.Layout("Menu · "+venueName, nil, content, false)
}

// OrderSuccessData feeds the order confirmation page.
type OrderSuccessData struct {
	Order     models.Order
	ManualURL string
	Fallback  bool
}

// OrderSuccess confirms an order and offers the manual WhatsApp button when
// a link is available.
func OrderSuccess(data OrderSuccessData) templ.Component {
	content := components.Func(func(p *components.Writer) {
		p.Raw(`<section class="order-success"><h1>Thank you, `)
		p.Text(data.Order.CustomerName)
		p.Raw(`!</h1><p>Your order #`)
		p.Text(fmt.Sprint(data.Order.ID))
		p.Raw(` for <strong>`)
		p.Text(data.Order.CocktailName)
		p.Raw(`</strong> was received.</p>`)
		if data.Fallback {
			p.Render(components.Alert("warning", "We could not notify the bar automatically. Please send the order on WhatsApp."))
		}
		if data.ManualURL != "" {
			p.Raw(`<p><a class="button whatsapp" href="`)
			p.URL(data.ManualURL)
			p.Raw(`" target="_blank" rel="noopener">Send on WhatsApp</a></p>`)
		}
		p.Raw(`<p><a href="/menu">Back to the menu</a></p></section>`)
	})
	return layout.Layout("Order received · "+venueName, nil, content, false)
}

// CocktailDetail shows one cocktail with all its metadata.
func CocktailDetail(c models.Cocktail) templ.Component {
	content := components.Func(func(p *components.Writer) {
		p.Raw(`<article class="cocktail"><h1>`)
		p.Text(c.Name)
		p.Raw(`</h1>`)
		p.Render(components.CocktailImage(c))
		p.Raw(`<h2>Ingredients</h2><p class="ingredients">`)
		p.Text(c.Ingredients)
		p.Raw(`</p>`)
		if c.Instructions != "" {
			p.Raw(`<h2>Preparation</h2><p class="instructions">`)
			p.Text(c.Instructions)
			p.Raw(`</p>`)
		}
		p.Render(components.Details(c))
		p.Render(components.Tags(c))
		p.Raw(`<p><a class="button" href="/menu?cocktail_id=`)
		p.Text(fmt.Sprint(c.ID))
		p.Raw(`">Order this</a> <a href="/menu">Back to the menu</a></p></article>`)
	})
	return layout.Layout(c.Name+" · "+venueName, nil, content, false)
}

// NotFound is the 404 page.
func NotFound() templ.Component {
	content := components.Func(func(p *components.Writer) {
		p.Raw(`<section class="not-found"><h1>Page not found</h1><p><a href="/menu">Go to the menu</a></p></section>`)
	})
	return layout.Layout("Not found · "+venueName, nil, content, false)
}
