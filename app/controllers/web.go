package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/grocery/app/services"
	"github.com/shashiranjanraj/grocery/pkg/logger"
	"github.com/shashiranjanraj/grocery/pkg/session"
	"github.com/shashiranjanraj/grocery/pkg/view"
)

// formMemory is how much of a multipart form is held in memory before
// spilling to temporary files.
const formMemory = 1 << 20

// web holds what every page handler needs.
type web struct {
	render  view.Renderer
	maxBody int64
}

func (c web) page(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	p := view.Page{
		Name:    name,
		Data:    data,
		Flashes: session.FromCtx(r).Flashes(),
	}
	if u := CurrentUser(r.Context()); u != nil {
		p.User = u
	}
	if err := c.render.Render(w, r, status, p); err != nil {
		logger.WithCtx(r.Context()).Error("render failed", "page", name, "error", err)
	}
}

// redirect queues a flash and redirects.
func (c web) redirect(w http.ResponseWriter, r *http.Request, to, category, text string) {
	if text != "" {
		session.FromCtx(r).Flash(category, text)
	}
	view.Redirect(w, r, to)
}

// fail logs an unexpected error and redirects with a generic message.
func (c web) fail(w http.ResponseWriter, r *http.Request, err error, to, text string) {
	logger.WithCtx(r.Context()).Error("request failed",
		"method", r.Method, "path", r.URL.Path, "error", err)
	c.redirect(w, r, to, session.FlashDanger, text)
}

func (c web) notFound(w http.ResponseWriter, r *http.Request) {
	c.page(w, r, http.StatusNotFound, "not_found", nil)
}

// parseForm reads an urlencoded or multipart body capped at maxBody.
func (c web) parseForm(w http.ResponseWriter, r *http.Request) error {
	if c.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, c.maxBody)
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(formMemory)
	}
	return r.ParseForm()
}

// formValue returns a pointer to the posted value, or nil when the field
// was not submitted at all.
func formValue(r *http.Request, key string) *string {
	vs, ok := r.PostForm[key]
	if !ok || len(vs) == 0 {
		return nil
	}
	v := strings.TrimSpace(vs[0])
	return &v
}

// pathID parses a positive id from a URL parameter.
func pathID(r *http.Request, key string) (uint, bool) {
	return parseID(chi.URLParam(r, key))
}

// parseID accepts a positive base-10 id.
func parseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 0)
	return uint(id), err == nil && id > 0
}

// formInt parses a base-10 integer; "0x10" and "010" are not 16 and 8.
func formInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

// localPath accepts only same-site relative paths as redirect targets.
func localPath(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	if u, err := url.Parse(next); err != nil || u.Host != "" || u.Scheme != "" {
		return fallback
	}
	return next
}

// firstMessage picks the message of the first invalid field, by name.
func firstMessage(err error, fallback string) string {
	var verr *services.ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) == 0 {
		return fallback
	}
	keys := make([]string, 0, len(verr.Fields))
	for k := range verr.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return verr.Fields[keys[0]]
}
