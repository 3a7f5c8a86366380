package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/grocery/app/services"
	"github.com/shashiranjanraj/grocery/pkg/ctx"
)

// apiError maps a service error onto the JSON envelope. Anything not
// recognised is logged and answered with a generic 500.
func apiError(c *ctx.Context, err error) {
	var (
		verr *services.ValidationError
		serr *services.StockError
	)
	switch {
	case errors.As(err, &verr):
		c.ValidationError(verr.Fields)
	case errors.As(err, &serr):
		c.Conflict("Not enough stock available for " + serr.Name + ".")
	case errors.Is(err, services.ErrNotFound):
		c.NotFound()
	case errors.Is(err, services.ErrConflict):
		c.Conflict(conflictMessage(err))
	case errors.Is(err, services.ErrEmptyCart):
		c.Error(http.StatusBadRequest, "Your cart is empty.")
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Unauthorized("Invalid email or password.")
	case errors.Is(err, services.ErrUnauthorized):
		c.Unauthorized()
	case errors.Is(err, services.ErrForbidden):
		c.Forbidden()
	default:
		c.ServerError(err)
	}
}

// conflictMessage drops the sentinel prefix from a wrapped ErrConflict.
func conflictMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), services.ErrConflict.Error()+": ")
	if msg == "" || msg == services.ErrConflict.Error() {
		return "Conflict"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// idParam reads {id}, answering 404 when it is not a positive integer.
func idParam(c *ctx.Context) (uint, bool) {
	id, err := c.ParamUint("id")
	if err != nil {
		c.NotFound()
		return 0, false
	}
	return id, true
}
