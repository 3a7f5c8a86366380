package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// CORSOptions configures CORS.
type CORSOptions struct {
	Origins []string // "*" allows any origin
	Methods []string
	Headers []string
	MaxAge  int // preflight cache, seconds
}

// DefaultCORSOptions allows any origin to call the JSON API with a bearer
// token.
func DefaultCORSOptions() CORSOptions {
	return CORSOptions{
		Origins: []string{"*"},
		Methods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		Headers: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:  300,
	}
}

// CORS adds Access-Control headers for allowed origins and answers
// preflight requests with 204.
func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	methods := strings.Join(opts.Methods, ", ")
	headers := strings.Join(opts.Headers, ", ")
	wildcard := slices.Contains(opts.Origins, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (wildcard || slices.Contains(opts.Origins, origin)) {
				h := w.Header()
				if wildcard {
					h.Set("Access-Control-Allow-Origin", "*")
				} else {
					h.Add("Vary", "Origin")
					h.Set("Access-Control-Allow-Origin", origin)
				}
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				if opts.MaxAge > 0 {
					h.Set("Access-Control-Max-Age", strconv.Itoa(opts.MaxAge))
				}
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
