// Package views renders the HTML pages and serves the offline support assets.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/ray-remotestate/comandas/models"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

type IndexPage struct {
	Flashes    []string
	Categories []models.Category
	Lines      []models.PricedLineItem
	Total      decimal.Decimal
}

type ReceiptPage struct {
	Flashes   []string
	Timestamp string
	Table     string
	Lines     []models.PricedLineItem
	Total     decimal.Decimal
}

type HistoryPage struct {
	Flashes []string
	Orders  []models.OrderRecord
}

type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, page := range []string{"index", "receipt", "history"} {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFiles, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

func (r *Renderer) Index(w io.Writer, p IndexPage) error {
	return r.pages["index"].Execute(w, p)
}

func (r *Renderer) Receipt(w io.Writer, p ReceiptPage) error {
	return r.pages["receipt"].Execute(w, p)
}

func (r *Renderer) History(w io.Writer, p HistoryPage) error {
	return r.pages["history"].Execute(w, p)
}

// Static is the file system behind /static/ and /sw.js.
func Static() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
