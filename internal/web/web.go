// Package web renders the storefront's server-side HTML pages.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"github.com/cafesang/storefront/internal/enum"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// Page names accepted by Render.
const (
	PageIndex        = "index"
	PageOrder        = "order"
	PageConfirmation = "confirmation"
	PagePhotos       = "photos"
	PageError        = "error"
)

var pages = []string{PageIndex, PageOrder, PageConfirmation, PagePhotos, PageError}

var funcs = template.FuncMap{
	"price": FormatPrice,
	"query": url.QueryEscape,
	"isDark": func(theme string) bool {
		return theme == enum.ThemeDark
	},
	"add": func(a, b int) int { return a + b },
}

// Templates holds every page parsed against the shared layout.
type Templates struct {
	pages map[string]*template.Template
}

// Parse loads the embedded templates.
func Parse() (*Templates, error) {
	t := &Templates{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		tmpl, err := template.New("layout.gohtml").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.gohtml",
			"templates/"+name+".gohtml",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		t.pages[name] = tmpl
	}
	return t, nil
}

// Render writes page with data. Output is buffered so a template error
// never leaves a half-written page behind.
func (t *Templates) Render(w io.Writer, page string, data any) error {
	tmpl, ok := t.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.gohtml", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
