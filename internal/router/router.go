package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/homebase-finder/internal/handler"
	"github.com/iliyamo/homebase-finder/internal/kv"
	"github.com/iliyamo/homebase-finder/internal/middleware"
	"github.com/iliyamo/homebase-finder/internal/model"
)

// RegisterRoutes registers routes that do not require authentication and
// do not touch listings.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo, store kv.Store) {
	e.GET("/healthz", handler.Health(store))
}

// RegisterAuth registers the session endpoints under /v1/auth and the
// signed-in account endpoints under /v1.  limit guards the unauthenticated
// routes against credential stuffing.
//
// Middleware is attached per route rather than on a /v1 group: a group
// with middleware also routes its unmatched paths through it, which would
// turn every unknown /v1 path into a 401.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, acc *handler.AccountHandler, users middleware.AccountLookup, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register, limit)
	g.POST("/login", a.Login, limit)
	// rotates the refresh token
	g.POST("/refresh", a.Refresh, limit)
	g.POST("/refresh-access", a.RefreshAccess, limit)
	// no JWT needed: the body's refresh_token or a bearer token decides
	// what gets revoked
	g.POST("/logout", a.Logout, limit)

	signedIn := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOwner, model.RoleTenant),
		middleware.RequireAccount(users),
	}
	e.GET("/v1/me", a.Me, signedIn...)
	e.PATCH("/v1/me", acc.UpdateProfile, signedIn...)
	e.DELETE("/v1/me", acc.DeleteAccount, signedIn...)
}

// RegisterPublic registers the unauthenticated browse endpoints used by
// tenants and guests.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	e.GET("/v1/boardinghouses", p.ListBoardinghouses)
	e.GET("/v1/boardinghouses/:id", p.GetBoardinghouse)
	e.GET("/v1/locations", p.Locations)
}

// RegisterGeo registers the address cascade lookups.  The list endpoints
// are static reference data and go through cache.
func RegisterGeo(e *echo.Echo, g *handler.GeoHandler, cache echo.MiddlewareFunc) {
	geo := e.Group("/v1/geo")
	geo.GET("/regions", g.Regions, cache)
	geo.GET("/regions/:code/provinces", g.Provinces, cache)
	geo.GET("/provinces/:code/cities", g.Cities, cache)
	geo.GET("/cities/:code/barangays", g.Barangays, cache)
	geo.POST("/resolve", g.Resolve)
}
