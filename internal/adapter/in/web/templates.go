// Package web serves the HTML pages: feeds, post pages, the post form and
// the login/signup forms.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"time"
)

//go:embed templates/*.html
var templatesFS embed.FS

const layoutFile = "base.html"

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("2 January 2006")
	},
	"rfc3339": func(t time.Time) string {
		return t.Format(time.RFC3339)
	},
}

// Templates holds one parsed set per page, each combined with the layout.
type Templates struct {
	pages map[string]*template.Template
}

func NewTemplates() (*Templates, error) {
	names, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		page := path.Base(name)
		if page == layoutFile {
			continue
		}
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(templatesFS, "templates/"+layoutFile, name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %q: %w", page, err)
		}
		pages[page] = tmpl
	}
	return &Templates{pages: pages}, nil
}

// Render executes page name into a buffer first so that a failing template
// never leaves a half written response.
func (t *Templates) Render(w http.ResponseWriter, status int, name string, data any) error {
	tmpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("failed to execute template %q: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
