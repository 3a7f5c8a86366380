// Package response writes the shop's JSON envelope from plain http
// handlers and middleware. pkg/ctx uses the same Envelope for controllers.
//
//	{"status":404,"message":"Not found"}
//	{"status":500,"message":"Internal server error","request_id":"..."}
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/grocery/pkg/reqid"
)

// Envelope is the body of every JSON answer.
type Envelope struct {
	Status    int    `json:"status"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	Errors    any    `json:"errors,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Write sends body with status. A 204 has no body.
func Write(w http.ResponseWriter, status int, body Envelope) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Error sends status with message.
func Error(w http.ResponseWriter, status int, message string) {
	Write(w, status, Envelope{Status: status, Message: message})
}

// Internal sends a 500 that names only the request id, so the cause stays
// in the log.
func Internal(w http.ResponseWriter, r *http.Request) {
	Write(w, http.StatusInternalServerError, Envelope{
		Status:    http.StatusInternalServerError,
		Message:   "Internal server error",
		RequestID: reqid.FromCtx(r.Context()),
	})
}

func Unauthorized(w http.ResponseWriter) { Error(w, http.StatusUnauthorized, "Unauthorized") }

func Forbidden(w http.ResponseWriter) { Error(w, http.StatusForbidden, "Forbidden") }

func NotFound(w http.ResponseWriter) { Error(w, http.StatusNotFound, "Not found") }

func TooManyRequests(w http.ResponseWriter) {
	Error(w, http.StatusTooManyRequests, "Too many requests")
}
