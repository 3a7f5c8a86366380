package app

// pkg/app/kernel.go builds the http.Handler. Global middleware and the
// infrastructure endpoints live here; domain routes come from the
// RouteFuncs.

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/grocery/pkg/bind"
	"github.com/shashiranjanraj/grocery/pkg/metrics"
	"github.com/shashiranjanraj/grocery/pkg/middleware"
	"github.com/shashiranjanraj/grocery/pkg/reqid"
	"github.com/shashiranjanraj/grocery/pkg/response"
	"github.com/shashiranjanraj/grocery/pkg/router"
	"github.com/shashiranjanraj/grocery/pkg/storage"
)

// Router builds the router with the global middleware, the
// infrastructure endpoints and every registered route.
func (a *Application) Router() (*router.Router, error) {
	r := router.New()

	// Global middleware, outermost first. Recovery sits inside the logger
	// so a panic is logged as a 500 under the request's id.
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(a.Sessions.Middleware)
	r.Use(bind.Limit(a.Config.MaxBodyBytes))
	cors := middleware.DefaultCORSOptions()
	if len(a.Config.CORSOrigins) > 0 {
		cors.Origins = a.Config.CORSOrigins
	}
	r.Use(middleware.CORS(cors))
	if a.limiter != nil {
		r.Use(a.limiter.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { response.NotFound(w) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Handle("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "healthz", a.healthz)

	if local, ok := a.Disk.(*storage.Local); ok {
		prefix := "/" + strings.Trim(a.Config.Storage.URL, "/")
		if prefix == "/" {
			prefix = "/storage"
		}
		files := http.StripPrefix(prefix, http.FileServer(local.Files()))
		r.Handle(prefix+"/*", "storage", files)
	}

	for _, fn := range a.routeFns {
		if err := fn(r, a); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Handler returns the complete HTTP handler.
func (a *Application) Handler() (http.Handler, error) {
	r, err := a.Router()
	if err != nil {
		return nil, err
	}
	return r.Handler(), nil
}
