// Package components holds the reusable pieces shared by the pages.
package components

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"cocktailbar/models"
)

const timeLayout = "2006-01-02 15:04"

// Alert renders a status banner. Empty messages render nothing.
func Alert(kind, message string) templ.Component {
	return Func(func(p *Writer) {
		if strings.TrimSpace(message) == "" {
			return
		}
		p.Raw(`<div class="alert alert-`)
		p.Text(kind)
		p.Raw(`" role="status">`)
		p.Text(message)
		p.Raw(`</div>`)
	})
}

// CocktailImage renders the cocktail photo when it has one.
func CocktailImage(c models.Cocktail) templ.Component {
	return Func(func(p *Writer) {
		if !c.HasImage() {
			return
		}
		p.Raw(`<img class="cocktail-image" src="`)
		p.URL(c.ImagePath)
		p.Raw(`" alt="`)
		p.Text(c.Name)
		p.Raw(`" loading="lazy">`)
	})
}

// Details renders the optional preparation metadata as a definition list.
func Details(c models.Cocktail) templ.Component {
	return Func(func(p *Writer) {
		rows := [][2]string{}
		if c.Strength != "" {
			def, _ := StrengthByID(c.Strength)
			rows = append(rows, [2]string{"Strength", def.Label})
		}
		if c.GlassType != "" {
			rows = append(rows, [2]string{"Glass", c.GlassType})
		}
		if c.Garnish != "" {
			rows = append(rows, [2]string{"Garnish", c.Garnish})
		}
		if len(rows) == 0 {
			return
		}
		p.Raw(`<dl class="details">`)
		for _, row := range rows {
			p.Raw(`<dt>`)
			p.Text(row[0])
			p.Raw(`</dt><dd>`)
			p.Text(row[1])
			p.Raw(`</dd>`)
		}
		p.Raw(`</dl>`)
	})
}

// Tags renders the cocktail tags as chips.
func Tags(c models.Cocktail) templ.Component {
	return Func(func(p *Writer) {
		tags := c.TagList()
		if len(tags) == 0 {
			return
		}
		p.Raw(`<ul class="tags">`)
		for _, tag := range tags {
			p.Raw(`<li>`)
			p.Text(tag)
			p.Raw(`</li>`)
		}
		p.Raw(`</ul>`)
	})
}

// CocktailCard is a menu entry linking to the cocktail page.
func CocktailCard(c models.Cocktail) templ.Component {
	return Func(func(p *Writer) {
		p.Raw(`<article class="cocktail-card" id="cocktail-`)
		p.Text(fmt.Sprint(c.ID))
		p.Raw(`">`)
		p.Render(CocktailImage(c))
		p.Raw(`<h3><a href="/cocktail/`)
		p.Text(fmt.Sprint(c.ID))
		p.Raw(`">`)
		p.Text(c.Name)
		p.Raw(`</a></h3><p class="ingredients">`)
		p.Text(c.Ingredients)
		p.Raw(`</p>`)
		p.Render(Tags(c))
		p.Raw(`</article>`)
	})
}

// CocktailFormData configures the admin cocktail form.
type CocktailFormData struct {
	Action              string
	Title               string
	Submit              string
	Cocktail            models.Cocktail
	RequireInstructions bool
	ShowCancel          bool
}

// CocktailForm renders the create or edit form. Values from Cocktail
// prefill the inputs.
func CocktailForm(data CocktailFormData) templ.Component {
	return Func(func(p *Writer) {
		c := data.Cocktail
		p.Raw(`<form class="cocktail-form" method="post" enctype="multipart/form-data" action="`)
		p.URL(data.Action)
		p.Raw(`"><h2>`)
		p.Text(data.Title)
		p.Raw(`</h2>`)

		textInput(p, "name", "Name", c.Name, true)
		textArea(p, "ingredients", "Ingredients", c.Ingredients, true)
		textArea(p, "instructions", "Instructions", c.Instructions, data.RequireInstructions)

		p.Raw(`<label>Strength <select name="strength"><option value="">-</option>`)
		for _, option := range StrengthOptions() {
			p.Raw(`<option value="`)
			p.Text(option.ID)
			p.Raw(`"`)
			if strings.EqualFold(option.ID, c.Strength) {
				p.Raw(` selected`)
			}
			p.Raw(`>`)
			p.Text(option.Label)
			p.Raw(`</option>`)
		}
		p.Raw(`</select></label>`)

		textInput(p, "glass_type", "Glass", c.GlassType, false)
		textInput(p, "garnish", "Garnish", c.Garnish, false)
		textInput(p, "tags", "Tags (comma separated)", c.Tags, false)

		if c.HasImage() {
			p.Raw(`<div class="current-image">`)
			p.Render(CocktailImage(c))
			p.Raw(`</div>`)
		}
		p.Raw(`<label>Image <input type="file" name="image" accept="image/*"></label>`)
		p.Raw(`<button type="submit">`)
		p.Text(data.Submit)
		p.Raw(`</button>`)
		if data.ShowCancel {
			p.Raw(` <a href="/admin">Cancel</a>`)
		}
		p.Raw(`</form>`)
	})
}

func textInput(p *Writer, name, label, value string, required bool) {
	p.Raw(`<label>`)
	p.Text(label)
	p.Raw(` <input type="text" name="`)
	p.Text(name)
	p.Raw(`" value="`)
	p.Text(value)
	p.Raw(`"`)
	if required {
		p.Raw(` required`)
	}
	p.Raw(`></label>`)
}

func textArea(p *Writer, name, label, value string, required bool) {
	p.Raw(`<label>`)
	p.Text(label)
	p.Raw(` <textarea name="`)
	p.Text(name)
	p.Raw(`" rows="3"`)
	if required {
		p.Raw(` required`)
	}
	p.Raw(`>`)
	p.Text(value)
	p.Raw(`</textarea></label>`)
}

// DeleteButton is a single-button POST form.
func DeleteButton(action, label, confirm string) templ.Component {
	return Func(func(p *Writer) {
		p.Raw(`<form class="inline" method="post" action="`)
		p.URL(action)
		p.Raw(`" onsubmit="return confirm('`)
		p.Text(strings.ReplaceAll(confirm, "'", ""))
		p.Raw(`');"><button type="submit" class="danger">`)
		p.Text(label)
		p.Raw(`</button></form>`)
	})
}

// CocktailTable lists cocktails with edit and delete actions.
func CocktailTable(cocktails []models.Cocktail) templ.Component {
	return Func(func(p *Writer) {
		if len(cocktails) == 0 {
			p.Raw(`<p class="empty">No cocktails yet.</p>`)
			return
		}
		p.Raw(`<table class="cocktails"><thead><tr><th>Name</th><th>Ingredients</th><th>Image</th><th>Added</th><th></th></tr></thead><tbody>`)
		for _, c := range cocktails {
			id := fmt.Sprint(c.ID)
			p.Raw(`<tr><td>`)
			p.Text(c.Name)
			p.Raw(`</td><td>`)
			p.Text(c.Ingredients)
			p.Raw(`</td><td>`)
			if c.HasImage() {
				p.Raw(`yes`)
			}
			p.Raw(`</td><td>`)
			p.Text(c.CreatedAt.Format(timeLayout))
			p.Raw(`</td><td><a href="/admin?edit_id=`)
			p.Text(id)
			p.Raw(`">Edit</a> `)
			p.Render(DeleteButton("/admin/cocktails/"+id+"/delete", "Delete", "Delete "+c.Name+" and its orders?"))
			p.Raw(`</td></tr>`)
		}
		p.Raw(`</tbody></table>`)
	})
}

// OrderTable lists orders newest first with a delete action.
func OrderTable(orders []models.Order) templ.Component {
	return Func(func(p *Writer) {
		if len(orders) == 0 {
			p.Raw(`<p class="empty">No orders yet.</p>`)
			return
		}
		p.Raw(`<table class="orders"><thead><tr><th>#</th><th>Customer</th><th>Cocktail</th><th>Note</th><th>Placed</th><th></th></tr></thead><tbody>`)
		for _, o := range orders {
			id := fmt.Sprint(o.ID)
			p.Raw(`<tr><td>`)
			p.Text(id)
			p.Raw(`</td><td>`)
			p.Text(o.CustomerName)
			p.Raw(`</td><td>`)
			p.Text(o.CocktailName)
			p.Raw(`</td><td>`)
			p.Text(o.Note)
			p.Raw(`</td><td>`)
			p.Text(o.CreatedAt.Format(timeLayout))
			p.Raw(`</td><td>`)
			p.Render(DeleteButton("/admin/orders/"+id+"/delete", "Delete", "Delete this order?"))
			p.Raw(`</td></tr>`)
		}
		p.Raw(`</tbody></table>`)
	})
}
