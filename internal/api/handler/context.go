package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/tripline/travel-booking/internal/core/access"
)

// ctxCaller extracts the identity injected by the Auth middleware. Routes
// behind OptionalAuth may yield a zero (anonymous) caller; routes behind Auth
// always carry an id and role.
func ctxCaller(c echo.Context) access.Caller {
	id, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	return access.Caller{ID: id, Role: role}
}
