// Package server carries the HTML templates and static assets, embedded into
// the binary so the server ships as a single file.
package server

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/pages/*.tmpl templates/admin/*.tmpl templates/partials/*.tmpl
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// templateFuncs are the helpers available to every template.
var templateFuncs = template.FuncMap{
	"truncate": func(s string, n int) string {
		if len(s) <= n {
			return s
		}
		return s[:n] + "..."
	},
}

// LoadTemplates parses all embedded templates. Each file defines its own
// path-style name (e.g. "pages/index.tmpl"), which is the name handlers
// render by.
func LoadTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templatesFS,
		"templates/pages/*.tmpl",
		"templates/admin/*.tmpl",
		"templates/partials/*.tmpl",
	)
}

// GetStaticSubFS returns the static assets rooted at static/ for
// http.FileServer.
func GetStaticSubFS() (fs.FS, error) {
	return fs.Sub(staticFS, "static")
}
