// Package view renders the HTML-surface pages. Page layout lives outside
// this repository; handlers only pick a page name and hand over its data.
//
//	view.Page{Name: "cart", Data: cartView}
//
// The JSON renderer is the default. It writes the page as a JSON document
// so a front-end (or a test) can consume the same flows the templates
// would.
package view

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/grocery/pkg/session"
)

// Page is one rendered view.
type Page struct {
	Name    string            `json:"page"`
	Data    any               `json:"data,omitempty"`
	User    any               `json:"user,omitempty"`
	Flashes []session.Message `json:"flashes,omitempty"`
}

// Renderer writes a page to the response.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, page Page) error
}

// JSON renders pages as JSON.
type JSON struct{}

func (JSON) Render(w http.ResponseWriter, _ *http.Request, status int, page Page) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(page)
}

// Redirect sends a 303 so the browser follows with a GET.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}
