// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-garage-api/internal/config"
	"github.com/iliyamo/parking-garage-api/internal/handler"
	"github.com/iliyamo/parking-garage-api/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication or
// handlers. Currently that is only the health check used by load
// balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI wires the four resource groups under /api.
//
// The guard layering follows one rule: reads are open to everyone,
// garage and spot mutations require an authenticated admin, user and
// vehicle mutations require any authenticated caller. Registration,
// login and the password reset are the unauthenticated entry points.
func RegisterAPI(e *echo.Echo, cfg config.Config,
	uh *handler.UserHandler, gh *handler.GarageHandler,
	sh *handler.SpotHandler, vh *handler.VehicleHandler) {

	auth := middleware.TokenAuth(cfg.JWTSecret)
	admin := middleware.RequireAdmin()

	api := e.Group("/api")

	// Users: self-registration and login issue the credential; reads are
	// open; name update and delete need a valid token but no ownership.
	api.POST("/users", uh.Register)
	api.POST("/users/login", uh.Login)
	api.GET("/users", uh.List)
	api.GET("/users/:id", uh.Get)
	api.PUT("/users/new/password", uh.ResetPassword)
	api.PUT("/users/:id", uh.Update, auth)
	api.DELETE("/users/:id", uh.Delete, auth)

	// Garages: mutation is admin-gated, reads are open.
	api.POST("/garages", gh.Create, auth, admin)
	api.GET("/garages", gh.List)
	api.GET("/garages/:id", gh.Get)
	api.PUT("/garages/:id", gh.Update, auth, admin)
	api.DELETE("/garages/:id", gh.Delete, auth, admin)

	// Spots: same gating as garages. Status toggling rides the same
	// admin-gated PUT; it carries no additional guard of its own.
	api.POST("/spots", sh.Create, auth, admin)
	api.GET("/spots", sh.List)
	api.GET("/spots/:id", sh.Get)
	api.PUT("/spots/:id", sh.Update, auth, admin)
	api.DELETE("/spots/:id", sh.Delete, auth, admin)

	// Vehicles: any authenticated caller may mutate.
	api.POST("/vehicles", vh.Create, auth)
	api.GET("/vehicles", vh.List)
	api.GET("/vehicles/:id", vh.Get)
	api.PUT("/vehicles/:id", vh.Update, auth)
	api.DELETE("/vehicles/:id", vh.Delete, auth)
}
