package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/movielab/movie-reservation/internal/model"
	"github.com/movielab/movie-reservation/internal/repository"
)

// MovieHandler serves the movie catalog: public browsing plus the
// admin-only CRUD operations.
type MovieHandler struct {
	Movies    *repository.MovieRepo
	Showtimes *repository.ShowtimeRepo
	Seats     *repository.SeatRepo
}

func NewMovieHandler(movies *repository.MovieRepo, showtimes *repository.ShowtimeRepo, seats *repository.SeatRepo) *MovieHandler {
	return &MovieHandler{Movies: movies, Showtimes: showtimes, Seats: seats}
}

type movieReq struct {
	Title           string  `json:"title" validate:"required,max=255"`
	Description     *string `json:"description"`
	PosterURL       *string `json:"poster_url" validate:"omitempty,url"`
	Genre           string  `json:"genre" validate:"required,max=64"`
	DurationMinutes uint32  `json:"duration_minutes" validate:"required,min=1"`
}

type movieResp struct {
	ID              uint64  `json:"id"`
	Title           string  `json:"title"`
	Description     *string `json:"description"`
	PosterURL       *string `json:"poster_url"`
	Genre           string  `json:"genre"`
	DurationMinutes uint32  `json:"duration_minutes"`
}

func toMovieResp(m model.Movie) movieResp {
	return movieResp{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		PosterURL:       m.PosterURL,
		Genre:           m.Genre,
		DurationMinutes: m.DurationMinutes,
	}
}

// Create handles POST /movies (admin).
func (h *MovieHandler) Create(c echo.Context) error {
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	m := model.Movie{
		Title:           req.Title,
		Description:     req.Description,
		PosterURL:       req.PosterURL,
		Genre:           req.Genre,
		DurationMinutes: req.DurationMinutes,
	}
	if err := h.Movies.Create(c.Request().Context(), &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create movie failed"})
	}
	return c.JSON(http.StatusCreated, toMovieResp(m))
}

// List handles GET /movies.
func (h *MovieHandler) List(c echo.Context) error {
	movies, err := h.Movies.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load movies failed"})
	}
	items := make([]movieResp, 0, len(movies))
	for _, m := range movies {
		items = append(items, toMovieResp(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /movies/:id.
func (h *MovieHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	m, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load movie failed"})
	}
	return c.JSON(http.StatusOK, toMovieResp(m))
}

// Update handles PUT /movies/:id (admin). Omitted fields keep their
// current values; the stored row is loaded first and merged.
func (h *MovieHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx := c.Request().Context()
	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load movie failed"})
	}

	var req struct {
		Title           *string `json:"title" validate:"omitempty,max=255"`
		Description     *string `json:"description"`
		PosterURL       *string `json:"poster_url" validate:"omitempty,url"`
		Genre           *string `json:"genre" validate:"omitempty,max=64"`
		DurationMinutes *uint32 `json:"duration_minutes" validate:"omitempty,min=1"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.Description != nil {
		m.Description = req.Description
	}
	if req.PosterURL != nil {
		m.PosterURL = req.PosterURL
	}
	if req.Genre != nil {
		m.Genre = *req.Genre
	}
	if req.DurationMinutes != nil {
		m.DurationMinutes = *req.DurationMinutes
	}
	if err := h.Movies.Update(ctx, &m); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update movie failed"})
	}
	return c.JSON(http.StatusOK, toMovieResp(m))
}

// Delete handles DELETE /movies/:id (admin). Showtimes and their seats
// go with it via the schema's cascading deletes.
func (h *MovieHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	if err := h.Movies.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete movie failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

type scheduleShowtime struct {
	showtimeResp
	AvailableSeats int `json:"available_seats"`
}

type scheduleEntry struct {
	Movie     movieResp          `json:"movie"`
	Showtimes []scheduleShowtime `json:"showtimes"`
}

// Schedule handles GET /movies/schedule?date=YYYY-MM-DD. It returns
// the movies showing on the given day together with that day's
// showtimes and their remaining seat counts. The date defaults to
// today (UTC).
func (h *MovieHandler) Schedule(c echo.Context) error {
	day := time.Now().UTC()
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
		}
		day = parsed
	}
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	ctx := c.Request().Context()
	movies, err := h.Movies.ListShowingBetween(ctx, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load schedule failed"})
	}
	entries := make([]scheduleEntry, 0, len(movies))
	for _, m := range movies {
		showtimes, err := h.Showtimes.ListByMovieBetween(ctx, m.ID, from, to)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load schedule failed"})
		}
		sts := make([]scheduleShowtime, 0, len(showtimes))
		for _, st := range showtimes {
			available, err := h.Seats.CountAvailable(ctx, st.ID)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load schedule failed"})
			}
			sts = append(sts, scheduleShowtime{showtimeResp: toShowtimeResp(st), AvailableSeats: available})
		}
		entries = append(entries, scheduleEntry{Movie: toMovieResp(m), Showtimes: sts})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date":  from.Format("2006-01-02"),
		"items": entries,
	})
}
