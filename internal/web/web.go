// Package web embeds the HTML templates and the client script served by the
// stock board.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var funcMap = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("2006-01-02")
	},
	"price": func(p float64) string {
		return strconv.FormatFloat(p, 'f', -1, 64)
	},
}

// Templates parses every page and fragment. Templates are addressed by file
// name, e.g. "stocks_table.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
}

// MustTemplates is Templates for program start-up
func MustTemplates() *template.Template {
	return template.Must(Templates())
}

// Static serves the embedded client assets
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
