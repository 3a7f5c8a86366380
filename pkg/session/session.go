// Package session provides server-side HTTP sessions. The cookie carries
// only a signed session ID; the data lives in a cache.Store (memory or
// Redis).
//
// Usage (middleware):
//
//	mgr := session.NewManager(store, secret, session.DefaultOptions())
//	r.Use(mgr.Middleware)
//
// Usage (handler):
//
//	sess := session.FromCtx(r)
//	sess.Set("user_id", 42)
//	sess.Flash(session.FlashSuccess, "Saved")
//
// Changes are persisted before the response headers are written.
package session

import (
	"bufio"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/shashiranjanraj/grocery/pkg/cache"
	"github.com/shashiranjanraj/grocery/pkg/logger"
	"github.com/spf13/cast"
)

// Flash categories.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

const (
	keyUserID = "user_id"
	keyFlash  = "_flash"
)

// Options configures session behaviour.
type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

// DefaultOptions returns development defaults.
func DefaultOptions() Options {
	return Options{
		CookieName: "grocery_session",
		TTL:        2 * time.Hour,
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

// Message is one flash message.
type Message struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// Manager loads and saves sessions.
type Manager struct {
	store cache.Store
	codec *securecookie.SecureCookie
	opts  Options
}

// NewManager builds a Manager. secret signs the cookie; the signing and
// encryption keys are derived from it.
func NewManager(store cache.Store, secret string, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = DefaultOptions().CookieName
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultOptions().TTL
	}
	if opts.Path == "" {
		opts.Path = "/"
	}
	hashKey := sha256.Sum256([]byte("session-hash:" + secret))
	blockKey := sha256.Sum256([]byte("session-block:" + secret))
	codec := securecookie.New(hashKey[:], blockKey[:])
	codec.MaxAge(int(opts.TTL.Seconds()))
	return &Manager{store: store, codec: codec, opts: opts}
}

// Options returns the manager's options.
func (m *Manager) Options() Options { return m.opts }

func storeKey(id string) string { return "session:" + id }

func newID() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("session: crypto/rand: %v", err))
	}
	return hex.EncodeToString(b)
}

// Session is an in-request session handle. It is not safe for concurrent
// use by multiple goroutines.
type Session struct {
	id      string
	data    map[string]interface{}
	changed bool
	staleID string // previous id after Regenerate
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Set stores a value under key.
func (s *Session) Set(key string, value interface{}) {
	s.data[key] = value
	s.changed = true
}

// Get retrieves a value.
func (s *Session) Get(key string) (interface{}, bool) {
	v, ok := s.data[key]
	return v, ok
}

// Delete removes a key.
func (s *Session) Delete(key string) {
	if _, ok := s.data[key]; ok {
		delete(s.data, key)
		s.changed = true
	}
}

// UserID returns the authenticated user id, if any.
func (s *Session) UserID() (uint, bool) {
	v, ok := s.data[keyUserID]
	if !ok {
		return 0, false
	}
	id, err := cast.ToUintE(v)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// Login binds the session to userID under a fresh session ID.
func (s *Session) Login(userID uint) {
	s.Regenerate()
	s.Set(keyUserID, userID)
}

// Logout unbinds the user and rotates the session ID. The session
// survives, so a flash queued afterwards still reaches the next page.
func (s *Session) Logout() {
	s.Delete(keyUserID)
	s.Regenerate()
}

// Regenerate moves the data to a new session ID.
func (s *Session) Regenerate() {
	if s.staleID == "" {
		s.staleID = s.id
	}
	s.id = newID()
	s.changed = true
}

// Flash queues a message for the next page render.
func (s *Session) Flash(category, text string) {
	msgs := s.peekFlashes()
	msgs = append(msgs, Message{Category: category, Text: text})
	s.Set(keyFlash, msgs)
}

// Flashes returns and clears all queued messages.
func (s *Session) Flashes() []Message {
	msgs := s.peekFlashes()
	s.Delete(keyFlash)
	return msgs
}

func (s *Session) peekFlashes() []Message {
	v, ok := s.data[keyFlash]
	if !ok {
		return nil
	}
	switch msgs := v.(type) {
	case []Message:
		return msgs
	case []interface{}:
		out := make([]Message, 0, len(msgs))
		for _, raw := range msgs {
			m := cast.ToStringMapString(raw)
			out = append(out, Message{Category: m["category"], Text: m["text"]})
		}
		return out
	}
	return nil
}

// Load resolves the request's session, or starts a new one.
func (m *Manager) Load(r *http.Request) *Session {
	sess := &Session{data: map[string]interface{}{}}
	if cookie, err := r.Cookie(m.opts.CookieName); err == nil {
		var id string
		if err := m.codec.Decode(m.opts.CookieName, cookie.Value, &id); err == nil && id != "" {
			var data map[string]interface{}
			err := m.store.Get(r.Context(), storeKey(id), &data)
			switch {
			case err == nil:
				sess.id, sess.data = id, data
				return sess
			case !errors.Is(err, cache.ErrMiss):
				logger.WithCtx(r.Context()).Warn("session: load failed", "error", err)
			}
		}
	}
	sess.id = newID()
	return sess
}

// Save persists the session and writes the cookie.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if !s.changed {
		return nil
	}
	if s.staleID != "" {
		_ = m.store.Del(ctx, storeKey(s.staleID))
		s.staleID = ""
	}

	if err := m.store.Set(ctx, storeKey(s.id), s.data, m.opts.TTL); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}
	encoded, err := m.codec.Encode(m.opts.CookieName, s.id)
	if err != nil {
		return fmt.Errorf("session: encode cookie: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    encoded,
		Path:     m.opts.Path,
		MaxAge:   int(m.opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: m.opts.SameSite,
	})
	s.changed = false
	return nil
}

type ctxKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromCtx retrieves the session from the request context. Without the
// middleware it returns a detached session that is never saved.
func FromCtx(r *http.Request) *Session {
	if s, ok := r.Context().Value(ctxKey{}).(*Session); ok {
		return s
	}
	return &Session{id: newID(), data: map[string]interface{}{}}
}

// Middleware loads the session for every request and saves it right
// before the response headers go out.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := m.Load(r)
		r = r.WithContext(WithSession(r.Context(), sess))
		sw := &saveWriter{ResponseWriter: w, save: func() {
			if err := m.Save(r.Context(), w, sess); err != nil {
				logger.WithCtx(r.Context()).Error("session: save failed", "error", err)
			}
		}}
		next.ServeHTTP(sw, r)
		sw.flushSession()
	})
}

// saveWriter saves the session once, before the first header write.
type saveWriter struct {
	http.ResponseWriter
	save  func()
	saved bool
}

func (w *saveWriter) flushSession() {
	if !w.saved {
		w.saved = true
		w.save()
	}
}

func (w *saveWriter) WriteHeader(code int) {
	w.flushSession()
	w.ResponseWriter.WriteHeader(code)
}

func (w *saveWriter) Write(b []byte) (int, error) {
	w.flushSession()
	return w.ResponseWriter.Write(b)
}

func (w *saveWriter) Flush() {
	w.flushSession()
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack supports websocket upgrades behind the middleware.
func (w *saveWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	w.flushSession()
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("session: response writer does not support hijacking")
	}
	return h.Hijack()
}

func (w *saveWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
