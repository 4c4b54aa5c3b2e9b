package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/movielab/movie-reservation/internal/repository"
	"github.com/movielab/movie-reservation/internal/service"
)

// ReservationHandler exposes the booking engine over HTTP.
type ReservationHandler struct {
	Reservations *service.ReservationService
}

func NewReservationHandler(reservations *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{Reservations: reservations}
}

type createReservationReq struct {
	ShowtimeID uint64   `json:"showtime_id" validate:"required,min=1"`
	SeatIDs    []uint64 `json:"seat_ids" validate:"required,min=1,dive,min=1"`
}

type reservationResp struct {
	ID         uint64 `json:"id"`
	ShowtimeID uint64 `json:"showtime_id"`
	SeatID     uint64 `json:"seat_id"`
	SeatLabel  string `json:"seat_label"`
	Status     string `json:"status"`
}

// Create handles POST /reservations. All requested seats are booked
// atomically; any failure leaves none of them reserved.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.Reservations.Book(c.Request().Context(), userID, req.ShowtimeID, req.SeatIDs)
	if err != nil {
		return bookingError(c, err)
	}

	items := make([]reservationResp, 0, len(result.Reservations))
	for i, rv := range result.Reservations {
		items = append(items, reservationResp{
			ID:         rv.ID,
			ShowtimeID: rv.ShowtimeID,
			SeatID:     rv.SeatID,
			SeatLabel:  result.Seats[i].Label(),
			Status:     string(rv.Status),
		})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"reservations": items,
		"movie_title":  result.Movie.Title,
		"start_time":   result.Showtime.StartTime,
		"total_price":  result.TotalPrice,
	})
}

// ListMine handles GET /reservations/my, the caller's confirmed
// reservations. With upcoming_only=true only future showtimes are
// returned.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	upcomingOnly := strings.EqualFold(c.QueryParam("upcoming_only"), "true")
	details, err := h.Reservations.ListForUser(c.Request().Context(), userID, upcomingOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservations failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// Cancel handles DELETE /reservations/:id. Only the owner may cancel,
// and only before the showtime starts.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	switch err := h.Reservations.Cancel(c.Request().Context(), userID, id); {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, repository.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.Is(err, service.ErrNotOwner):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "reservation belongs to another user"})
	case errors.Is(err, service.ErrPastReservation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot cancel a reservation for a past showtime"})
	case errors.Is(err, service.ErrAlreadyCancelled):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation is already cancelled"})
	case errors.Is(err, repository.ErrLockWaitTimeout):
		return lockTimeout(c)
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel reservation failed"})
	}
}

// bookingError maps engine failures onto HTTP responses. The order of
// cases mirrors the engine's validation order.
func bookingError(c echo.Context, err error) error {
	var notFound *service.SeatsNotFoundError
	var conflict *service.SeatConflictError
	switch {
	case errors.Is(err, service.ErrNoSeats):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one seat is required"})
	case errors.Is(err, repository.ErrShowtimeNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
	case errors.Is(err, repository.ErrMovieNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	case errors.Is(err, service.ErrPastShowtime):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "showtime has already started"})
	case errors.As(err, &notFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error":    "some seats do not exist for this showtime",
			"seat_ids": notFound.SeatIDs,
		})
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": conflict.Error(),
			"seats": conflict.Labels,
		})
	case errors.Is(err, repository.ErrLockWaitTimeout):
		return lockTimeout(c)
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}
}

func lockTimeout(c echo.Context) error {
	c.Response().Header().Set("Retry-After", "1")
	return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "seats are contended, please retry"})
}
