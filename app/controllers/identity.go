// Package controllers adapts HTTP requests onto the services. Web handlers
// answer with rendered pages, flashes and redirects; API handlers answer
// with the JSON envelope.
package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/shashiranjanraj/grocery/app/models"
	"github.com/shashiranjanraj/grocery/app/services"
	"github.com/shashiranjanraj/grocery/pkg/logger"
	"github.com/shashiranjanraj/grocery/pkg/middleware"
	"github.com/shashiranjanraj/grocery/pkg/rbac"
	"github.com/shashiranjanraj/grocery/pkg/response"
	"github.com/shashiranjanraj/grocery/pkg/session"
	"github.com/shashiranjanraj/grocery/pkg/view"
)

type userKey struct{}

// CurrentUser returns the user resolved by Identity.Resolve, or nil.
func CurrentUser(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey{}).(*models.User)
	return u
}

// Identity resolves who is calling from a bearer token or the session.
type Identity struct {
	auth *services.AuthService
}

func NewIdentity(auth *services.AuthService) *Identity {
	return &Identity{auth: auth}
}

// Resolve stores the caller and its rbac.Principal in the request
// context. Anonymous requests pass through; an invalid bearer token is
// rejected with 401.
func (id *Identity) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := id.resolve(r)
		switch {
		case errors.Is(err, services.ErrUnauthorized):
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		case err != nil:
			logger.WithCtx(r.Context()).Error("identity: bearer lookup", "error", err)
			response.Internal(w, r)
			return
		}
		if user != nil {
			ctx := context.WithValue(r.Context(), userKey{}, user)
			ctx = rbac.WithPrincipal(ctx, rbac.Principal{UserID: user.ID, Role: user.Role})
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

func (id *Identity) resolve(r *http.Request) (*models.User, error) {
	ctx := r.Context()
	if raw := middleware.BearerToken(r); raw != "" {
		return id.auth.Authenticate(ctx, raw)
	}

	sess := session.FromCtx(r)
	uid, ok := sess.UserID()
	if !ok {
		return nil, nil
	}
	user, err := id.auth.CurrentUser(ctx, uid)
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		// account is gone; drop the stale binding
		sess.Logout()
		return nil, nil
	case err != nil:
		logger.WithCtx(ctx).Error("identity: load session user", "user_id", uid, "error", err)
		return nil, nil
	}
	return user, nil
}

const loginPath = "/auth/user-login"

// RequireLogin sends anonymous browsers to the login page and remembers
// where they were heading.
func RequireLogin(next http.Handler) http.Handler {
	return rbac.Require(htmlDeny)(next)
}

// RequireAdmin lets only admins through. Shoppers are sent home with a
// warning.
func RequireAdmin(next http.Handler) http.Handler {
	return rbac.Require(htmlDeny, models.RoleAdmin)(next)
}

// RequireAdminAPI is the JSON counterpart of RequireAdmin.
func RequireAdminAPI(next http.Handler) http.Handler {
	return rbac.Require(rbac.JSONDeny, models.RoleAdmin)(next)
}

// RequireLoginAPI is the JSON counterpart of RequireLogin.
func RequireLoginAPI(next http.Handler) http.Handler {
	return rbac.Require(rbac.JSONDeny)(next)
}

func htmlDeny(w http.ResponseWriter, r *http.Request, authenticated bool) {
	sess := session.FromCtx(r)
	if !authenticated {
		sess.Flash(session.FlashInfo, "Please log in to access this page.")
		view.Redirect(w, r, loginPath+"?next="+url.QueryEscape(r.URL.RequestURI()))
		return
	}
	sess.Flash(session.FlashWarning, "Access restricted to admins only.")
	view.Redirect(w, r, "/home")
}
