package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/movielab/movie-reservation/internal/repository"
)

// AdminHandler serves the admin-only report and user management
// endpoints. Route-level role middleware keeps non-admins out.
type AdminHandler struct {
	Users        *repository.UserRepo
	Reservations *repository.ReservationRepo
}

func NewAdminHandler(users *repository.UserRepo, reservations *repository.ReservationRepo) *AdminHandler {
	return &AdminHandler{Users: users, Reservations: reservations}
}

// Report handles GET /admin/report/reservations: per-showtime counts,
// revenue and occupancy of confirmed reservations. Optional start_date
// and end_date query params (YYYY-MM-DD) bound the showtime range;
// end_date is inclusive of the whole day.
func (h *AdminHandler) Report(c echo.Context) error {
	var from, to time.Time
	if raw := c.QueryParam("start_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date, expected YYYY-MM-DD"})
		}
		from = parsed
	}
	if raw := c.QueryParam("end_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date, expected YYYY-MM-DD"})
		}
		to = parsed.Add(24 * time.Hour)
	}
	rows, err := h.Reservations.Report(c.Request().Context(), from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load report failed"})
	}
	var totalSeats uint32
	var totalRevenue float64
	for _, r := range rows {
		totalSeats += r.ConfirmedSeats
		totalRevenue += r.Revenue
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":         rows,
		"total_seats":   totalSeats,
		"total_revenue": totalRevenue,
	})
}

// Promote handles POST /admin/users/:id/promote, elevating a user to
// admin. Promoting an admin again succeeds without change.
func (h *AdminHandler) Promote(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if err := h.Users.Promote(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "promote user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"promoted": id})
}
