// Package layout provides the HTML document shell.
package layout

import (
	"github.com/a-h/templ"

	"cocktailbar/internal/views/components"
)

const stylesheet = "/assets/styles.css"

// Layout renders a full HTML document. nav may be nil; admin pages get the
// wider dashboard container.
func Layout(title string, nav, content templ.Component, admin bool) templ.Component {
	return components.Func(func(p *components.Writer) {
		p.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		p.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		p.Raw(`<title>`)
		p.Text(title)
		p.Raw(`</title><link rel="stylesheet" href="`)
		p.Raw(stylesheet)
		p.Raw(`"></head><body class="`)
		p.Raw(bodyWrapperClass(admin))
		p.Raw(`">`)
		if nav != nil {
			p.Raw(`<header class="site-header">`)
			p.Render(nav)
			p.Raw(`</header>`)
		}
		p.Raw(`<main class="`)
		p.Raw(mainClass(admin))
		p.Raw(`">`)
		p.Render(content)
		p.Raw(`</main></body></html>`)
	})
}

// AdminNav is the dashboard header with the logout action.
func AdminNav() templ.Component {
	return components.Func(func(p *components.Writer) {
		p.Raw(`<nav><a href="/admin">Dashboard</a> <a href="/menu">Menu</a> `)
		p.Raw(`<form class="inline" method="post" action="/admin/logout"><button type="submit">Log out</button></form></nav>`)
	})
}

func bodyWrapperClass(admin bool) string {
	if admin {
		return "admin"
	}
	return "guest"
}

func mainClass(admin bool) string {
	if admin {
		return "container container-wide"
	}
	return "container"
}
