package layouts

import (
	cmp "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	g "maragu.dev/gomponents/html"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

// Base wraps page content in the shared HTML document.
func Base(title string, body ...cmp.Node) cmp.Node {
	return c.HTML5(c.HTML5Props{
		Title:    CalculateTitle(title),
		Language: "en",
		Head: []cmp.Node{
			g.Link(g.Rel("stylesheet"), g.Href("/static/style.css")),
			g.Script(g.Src(htmxSrc)),
			g.Script(g.Src("/static/app.js"), g.Defer()),
		},
		Body: body,
	})
}
