// Package app assembles the shop's infrastructure: logging, the database
// handle, sessions, image storage, the event dispatcher and the live
// feed hub. It knows nothing about products or carts; the domain routes
// are attached with Routes and receive the Application to build their
// services from.
//
//	cfg, _ := config.FromEnv()
//	a, err := app.New(ctx, cfg)
//	if err != nil { ... }
//	defer a.Close()
//	a.Routes(routes.Register)
//	err = a.Serve(ctx)
//
// The grocery CLI wraps the same builder:
//
//	grocery serve
//	grocery migrate
//	grocery seed
//	grocery route:list
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shashiranjanraj/grocery/config"
	"github.com/shashiranjanraj/grocery/pkg/auth"
	"github.com/shashiranjanraj/grocery/pkg/cache"
	"github.com/shashiranjanraj/grocery/pkg/database"
	"github.com/shashiranjanraj/grocery/pkg/event"
	"github.com/shashiranjanraj/grocery/pkg/logger"
	"github.com/shashiranjanraj/grocery/pkg/metrics"
	"github.com/shashiranjanraj/grocery/pkg/middleware"
	"github.com/shashiranjanraj/grocery/pkg/router"
	"github.com/shashiranjanraj/grocery/pkg/session"
	"github.com/shashiranjanraj/grocery/pkg/storage"
	"github.com/shashiranjanraj/grocery/pkg/view"
	"github.com/shashiranjanraj/grocery/pkg/workerpool"
	"github.com/shashiranjanraj/grocery/pkg/ws"
	"gorm.io/gorm"
)

// ImageDir is the storage directory for product images.
const ImageDir = "product_images"

// eventWorkers bounds the goroutines running asynchronous listeners.
const eventWorkers = 4

// RouteFunc registers routes. It runs once per Handler build.
type RouteFunc func(r *router.Router, a *Application) error

// ─── Application Builder ──────────────────────────────────────────────────────

// Application is the central object for the shop. Build one with New (or
// Bare for an unconnected instance), attach routes, then Serve.
type Application struct {
	Config   config.Config
	DB       *gorm.DB
	Sessions *session.Manager
	Disk     storage.Disk
	Images   *storage.ImageStore
	Events   *event.Dispatcher
	Feed     *ws.Hub
	Tokens   *auth.Tokens
	Renderer view.Renderer

	limiter  *middleware.Limiter
	routeFns []RouteFunc
	closers  []io.Closer
}

// Bare builds an Application without any outside connection: sessions
// live in memory and there is no database or disk. route:list and tests
// start from it.
func Bare(cfg config.Config) *Application {
	a := &Application{
		Config:   cfg,
		Events:   event.New(),
		Feed:     ws.NewHub(nil),
		Tokens:   auth.NewTokens(cfg.SecretKey, auth.DefaultTokenTTL),
		Renderer: view.JSON{},
	}
	pool := workerpool.New(eventWorkers)
	a.Events.UsePool(pool)
	a.closers = append(a.closers, closerFunc(func() error {
		a.Events.Wait()
		pool.Shutdown()
		return nil
	}))
	a.Sessions = session.NewManager(cache.NewMemory(), cfg.SecretKey, sessionOptions(cfg.Session))
	if cfg.RateLimitPerMinute > 0 {
		a.limiter = middleware.NewLimiter(cfg.RateLimitPerMinute, time.Minute)
	}
	return a
}

// New connects everything cfg names. On error, whatever was opened is
// closed again.
func New(ctx context.Context, cfg config.Config) (*Application, error) {
	a := Bare(cfg)
	a.closers = append(a.closers, logger.Setup(logger.Options{
		Production: cfg.Env == "production",
		File:       cfg.LogFile,
	}))

	if err := a.connect(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	logger.Info("app: ready",
		"env", cfg.Env, "db", cfg.Database.Driver, "sessions", cfg.Session.Driver, "disk", cfg.Storage.Disk)
	return a, nil
}

func (a *Application) connect(ctx context.Context) error {
	cfg := a.Config

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	a.DB = db
	a.closers = append(a.closers, closerFunc(func() error { return database.Close(db) }))
	if err := db.Use(metrics.GormPlugin{}); err != nil {
		return fmt.Errorf("app: gorm metrics: %w", err)
	}

	switch cfg.Session.Driver {
	case "", "memory":
	case "redis":
		store, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, "grocery:")
		if err != nil {
			return err
		}
		a.closers = append(a.closers, store)
		a.Sessions = session.NewManager(store, cfg.SecretKey, sessionOptions(cfg.Session))
	default:
		return fmt.Errorf("app: unknown session driver %q", cfg.Session.Driver)
	}

	disk, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	a.UseDisk(disk)
	return nil
}

// UseDisk switches image storage to disk.
func (a *Application) UseDisk(disk storage.Disk) {
	a.Disk = disk
	a.Images = storage.NewImageStore(disk, ImageDir)
}

func sessionOptions(cfg config.SessionConfig) session.Options {
	opts := session.DefaultOptions()
	if cfg.CookieName != "" {
		opts.CookieName = cfg.CookieName
	}
	if cfg.TTLSeconds > 0 {
		opts.TTL = time.Duration(cfg.TTLSeconds) * time.Second
	}
	opts.Secure = cfg.Secure
	return opts
}

// Routes adds route-registration callbacks, run in order.
func (a *Application) Routes(fns ...RouteFunc) *Application {
	a.routeFns = append(a.routeFns, fns...)
	return a
}

// Ping reports whether the database answers.
func (a *Application) Ping(ctx context.Context) error {
	if a.DB == nil {
		return errors.New("app: no database")
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases every opened resource in reverse order.
func (a *Application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// healthz answers 200 when the database is reachable and 503 otherwise.
func (a *Application) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	status, state := http.StatusOK, "ok"
	if err := a.Ping(ctx); err != nil {
		logger.WithCtx(ctx).Warn("healthz: database unreachable", "error", err)
		status, state = http.StatusServiceUnavailable, "unavailable"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"status":%q}`+"\n", state)
}
