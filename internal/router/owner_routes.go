package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/homebase-finder/internal/handler"    // owner handlers
	"github.com/iliyamo/homebase-finder/internal/middleware" // JWT + role middlewares
	"github.com/iliyamo/homebase-finder/internal/model"
)

// RegisterOwner registers owner-scoped endpoints under /v1.
// All routes require a valid JWT for a live account with the owner role.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, users middleware.AccountLookup, jwtSecret string) {
	g := e.Group("/v1")
	owner := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOwner),
		middleware.RequireAccount(users),
	}

	// ---- Boardinghouses ----
	// NOTE: GET /v1/boardinghouses is the public browse list; owners read
	// their own through /v1/owner/boardinghouses.
	g.POST("/boardinghouses", o.CreateBoardinghouse, owner...)
	g.PUT("/boardinghouses/:id", o.UpdateBoardinghouse, owner...)
	g.PATCH("/boardinghouses/:id", o.UpdateBoardinghouse, owner...)
	g.DELETE("/boardinghouses/:id", o.DeleteBoardinghouse, owner...)

	// ---- Rooms ----
	g.POST("/boardinghouses/:id/rooms", o.AddRoom, owner...)
	g.PUT("/boardinghouses/:id/rooms/:room_id", o.UpdateRoom, owner...)
	g.PATCH("/boardinghouses/:id/rooms/:room_id", o.UpdateRoom, owner...)
	g.DELETE("/boardinghouses/:id/rooms/:room_id", o.DeleteRoom, owner...)

	// ---- Dashboard ----
	g.GET("/owner/boardinghouses", o.ListMyBoardinghouses, owner...)
	g.GET("/owner/dashboard", o.GetDashboard, owner...)
}
