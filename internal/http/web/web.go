// Package web holds the server-rendered pages. Everything is embedded
// so the binary stays self-contained.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templatesFS embed.FS

func Templates() *template.Template {
	return template.Must(template.ParseFS(templatesFS, "templates/*.html"))
}
