// Package rbac gates handlers on the caller's role. The caller's identity
// is resolved upstream and stored with WithPrincipal.
package rbac

import (
	"context"
	"net/http"

	"github.com/shashiranjanraj/grocery/pkg/response"
)

// Principal is the authenticated caller.
type Principal struct {
	UserID uint
	Role   string
}

type ctxKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromCtx returns the principal stored in ctx.
func FromCtx(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok && p.UserID != 0
}

// HasRole reports whether p holds one of roles. An empty roles list
// accepts any authenticated principal.
func HasRole(p Principal, roles ...string) bool {
	if p.UserID == 0 {
		return false
	}
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// DenyFunc answers a request that failed the gate. authenticated tells a
// missing login apart from a wrong role.
type DenyFunc func(w http.ResponseWriter, r *http.Request, authenticated bool)

// JSONDeny answers 401 for anonymous callers and 403 otherwise.
func JSONDeny(w http.ResponseWriter, _ *http.Request, authenticated bool) {
	if !authenticated {
		response.Unauthorized(w)
		return
	}
	response.Forbidden(w)
}

// Require returns middleware that lets through only principals holding
// one of roles, or any principal when roles is empty.
func Require(deny DenyFunc, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := FromCtx(r.Context())
			if !ok || !HasRole(p, roles...) {
				deny(w, r, ok)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
