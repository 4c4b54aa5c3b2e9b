package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/movielab/movie-reservation/internal/model"
	"github.com/movielab/movie-reservation/internal/repository"
	"github.com/movielab/movie-reservation/internal/service"
)

// ShowtimeHandler serves showtime provisioning and the seat map views.
type ShowtimeHandler struct {
	Showtimes *service.ShowtimeService
}

func NewShowtimeHandler(showtimes *service.ShowtimeService) *ShowtimeHandler {
	return &ShowtimeHandler{Showtimes: showtimes}
}

type createShowtimeReq struct {
	MovieID    uint64    `json:"movie_id" validate:"required,min=1"`
	StartTime  time.Time `json:"start_time" validate:"required"`
	HallNumber uint32    `json:"hall_number" validate:"required,min=1"`
	Price      float64   `json:"price" validate:"required,gt=0"`
	TotalSeats uint32    `json:"total_seats"`
}

type showtimeResp struct {
	ID         uint64    `json:"id"`
	MovieID    uint64    `json:"movie_id"`
	StartTime  time.Time `json:"start_time"`
	HallNumber uint32    `json:"hall_number"`
	Price      float64   `json:"price"`
	TotalSeats uint32    `json:"total_seats"`
}

func toShowtimeResp(st model.Showtime) showtimeResp {
	return showtimeResp{
		ID:         st.ID,
		MovieID:    st.MovieID,
		StartTime:  st.StartTime,
		HallNumber: st.HallNumber,
		Price:      st.Price,
		TotalSeats: st.TotalSeats,
	}
}

type seatResp struct {
	ID         uint64 `json:"id"`
	Row        string `json:"row"`
	Number     uint32 `json:"number"`
	Label      string `json:"label"`
	IsReserved bool   `json:"is_reserved"`
}

func toSeatResps(seats []model.Seat) []seatResp {
	out := make([]seatResp, 0, len(seats))
	for _, s := range seats {
		out = append(out, seatResp{
			ID:         s.ID,
			Row:        s.Row,
			Number:     s.Number,
			Label:      s.Label(),
			IsReserved: s.IsReserved,
		})
	}
	return out
}

// Create handles POST /showtimes (admin). The showtime and its full
// seat grid are provisioned in one transaction.
func (h *ShowtimeHandler) Create(c echo.Context) error {
	var req createShowtimeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	st, err := h.Showtimes.Create(c.Request().Context(), service.ShowtimeInput{
		MovieID:    req.MovieID,
		StartTime:  req.StartTime,
		HallNumber: req.HallNumber,
		Price:      req.Price,
		TotalSeats: req.TotalSeats,
	})
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create showtime failed"})
	}
	return c.JSON(http.StatusCreated, toShowtimeResp(st))
}

// Get handles GET /showtimes/:id.
func (h *ShowtimeHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	st, err := h.Showtimes.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load showtime failed"})
	}
	return c.JSON(http.StatusOK, toShowtimeResp(st))
}

// Seats handles GET /showtimes/:id/seats, the full seat map.
func (h *ShowtimeHandler) Seats(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	seats, err := h.Showtimes.SeatMap(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load seats failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toSeatResps(seats)})
}

// AvailableSeats handles GET /showtimes/:id/available-seats. An
// unknown showtime answers with an empty list rather than 404. The
// result is a point-in-time snapshot; booking re-checks under locks.
func (h *ShowtimeHandler) AvailableSeats(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	seats, err := h.Showtimes.AvailableSeats(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load seats failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": toSeatResps(seats),
		"count": len(seats),
	})
}
