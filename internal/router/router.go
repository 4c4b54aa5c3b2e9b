// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/movielab/movie-reservation/internal/handler"
	"github.com/movielab/movie-reservation/internal/middleware"
	"github.com/movielab/movie-reservation/internal/model"
)

// Handlers groups everything the router needs to register the API.
type Handlers struct {
	Auth        *handler.AuthHandler
	Movie       *handler.MovieHandler
	Showtime    *handler.ShowtimeHandler
	Reservation *handler.ReservationHandler
	Admin       *handler.AdminHandler

	JWTSecret string
	// Cache wraps public browse GETs with the Redis response cache.
	// Nil disables caching.
	Cache echo.MiddlewareFunc
}

// Register sets up all routes. Public browsing needs no token, booking
// and cancellation need any authenticated user, and catalog mutation
// plus reporting need the admin role.
func Register(e *echo.Echo, h Handlers) {
	e.GET("/healthz", handler.Health)

	// Session endpoints. Logout also works with just a bearer token,
	// so it is registered again inside the protected group.
	auth := e.Group("/v1/auth")
	auth.POST("/signup", h.Auth.Signup)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	// Public browsing, cached when Redis is up.
	browse := e.Group("/v1")
	if h.Cache != nil {
		browse.Use(h.Cache)
	}
	browse.GET("/movies", h.Movie.List)
	browse.GET("/movies/schedule", h.Movie.Schedule)
	browse.GET("/movies/:id", h.Movie.Get)
	browse.GET("/showtimes/:id", h.Showtime.Get)
	browse.GET("/showtimes/:id/seats", h.Showtime.Seats)
	browse.GET("/showtimes/:id/available-seats", h.Showtime.AvailableSeats)

	// Any authenticated user.
	user := e.Group("/v1", middleware.JWTAuth(h.JWTSecret), middleware.RequireRole(model.RoleUser, model.RoleAdmin))
	user.GET("/me", h.Auth.Me)
	user.POST("/auth/logout-all", h.Auth.Logout)
	user.POST("/reservations", h.Reservation.Create)
	user.GET("/reservations/my", h.Reservation.ListMine)
	user.DELETE("/reservations/:id", h.Reservation.Cancel)

	// Admin only.
	admin := e.Group("/v1", middleware.JWTAuth(h.JWTSecret), middleware.RequireRole(model.RoleAdmin))
	admin.POST("/movies", h.Movie.Create)
	admin.PUT("/movies/:id", h.Movie.Update)
	admin.DELETE("/movies/:id", h.Movie.Delete)
	admin.POST("/showtimes", h.Showtime.Create)
	admin.GET("/admin/report/reservations", h.Admin.Report)
	admin.POST("/admin/users/:id/promote", h.Admin.Promote)
}
