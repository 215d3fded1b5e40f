// Package handler implements the HTTP handlers for the parking garage
// API. Handlers depend on small store interfaces rather than concrete
// repositories so the request flows can be exercised against in-memory
// fakes.
package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-garage-api/internal/middleware"
)

// authClaims is the caller identity extracted from the verified token by
// the auth middleware.
type authClaims struct {
	UserID    uint64
	FirstName string
	LastName  string
	Admin     bool
}

// currentUser reads the authenticated caller's claims from the context.
// It fails only when the route was registered without the auth
// middleware, which is a wiring bug rather than a client error.
func currentUser(c echo.Context) (authClaims, error) {
	uid, ok := c.Get(middleware.CtxUserID).(uint64)
	if !ok || uid == 0 {
		return authClaims{}, errors.New("no authenticated user in context")
	}
	first, _ := c.Get(middleware.CtxFirstName).(string)
	last, _ := c.Get(middleware.CtxLastName).(string)
	admin, _ := c.Get(middleware.CtxIsAdmin).(bool)
	return authClaims{UserID: uid, FirstName: first, LastName: last, Admin: admin}, nil
}

// parseID parses the :id route parameter. Malformed ids are not
// distinguished from unknown ones: both surface as 404 so the API gives a
// uniform "resource absent" signal.
func parseID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
