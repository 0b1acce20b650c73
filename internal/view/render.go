package view

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

var drawer = template.Must(template.ParseFS(templateFS, "templates/drawer.html"))

// Render writes the box drawer for m. Names and messages are escaped.
func Render(w io.Writer, m Model) error {
	return drawer.ExecuteTemplate(w, "drawer.html", m)
}
