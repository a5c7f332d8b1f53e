package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/lookaround/property-booking/internal/handler"
	"github.com/lookaround/property-booking/internal/middleware"
)

// RegisterPublic registers routes that require no authentication: the
// health check and the iCal export feed.  The export URL embeds a
// per-property random token; possession of the URL is the credential,
// which is exactly how Airbnb and Booking.com consume partner feeds.
func RegisterPublic(e *echo.Echo, o *handler.OwnerHandler, cache echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)
	// The export URL is the credential, so the guest cache partition is
	// already per-property here.
	e.GET("/ical/export/:token", o.ExportCalendar, cache)
}

// RegisterAuth registers authentication routes.  Unauthenticated
// operations live under /v1/auth, the protected /v1/me sits behind the
// JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh) // rotates the refresh token
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout stays outside the JWT middleware so an expired session can
	// still terminate itself with its refresh token.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterOwner registers the OWNER-scoped API under /v1.  Every route
// requires a valid JWT with the OWNER role.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	// Cache sits after the auth middlewares so entries are keyed by the
	// authenticated user, never shared between owners.
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
		cache,
	)

	// ---- Properties ----
	g.POST("/properties", o.CreateProperty)
	g.GET("/properties", o.ListProperties)
	g.GET("/properties/:id", o.GetProperty)
	g.PUT("/properties/:id", o.UpdateProperty)
	g.PATCH("/properties/:id", o.UpdateProperty)
	g.DELETE("/properties/:id", o.DeleteProperty)

	// ---- Rooms ----
	g.POST("/properties/:id/rooms", o.CreateRoom)
	g.GET("/properties/:id/rooms", o.ListRooms)
	g.DELETE("/rooms/:id", o.DeleteRoom)

	// ---- Bookings ----
	g.POST("/properties/:id/bookings", o.CreateBooking)
	g.GET("/properties/:id/bookings", o.ListBookings)
	g.DELETE("/bookings/:id", o.CancelBooking) // cancel, rows are kept

	// ---- Blocks ----
	g.POST("/properties/:id/blocks", o.CreateBlock)
	g.GET("/properties/:id/blocks", o.ListBlocks)
	g.DELETE("/blocks/:id", o.DeleteBlock)

	// ---- Calendar ----
	g.GET("/listings", o.ListListings)
	g.GET("/calendar", o.Calendar)

	// ---- iCal feeds ----
	g.POST("/properties/:id/feeds", o.CreateFeed)
	g.GET("/feeds", o.ListFeeds)
	g.DELETE("/feeds/:id", o.DeleteFeed)
	g.POST("/feeds/:id/sync", o.SyncFeed)
}
