package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/movielab/movie-reservation/internal/model"
)

// ErrMovieNotFound is returned when a movie lookup yields no rows.
var ErrMovieNotFound = errors.New("movie not found")

// MovieRepo provides CRUD operations for the movie catalog.
type MovieRepo struct{ DB *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{DB: db} }

const movieCols = "id, title, description, poster_url, genre, duration_minutes"

// Create inserts a movie and populates its generated ID.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO movies (title, description, poster_url, genre, duration_minutes) VALUES (?,?,?,?,?)",
		m.Title, m.Description, m.PosterURL, m.Genre, m.DurationMinutes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// GetByID fetches a single movie.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (model.Movie, error) {
	var m model.Movie
	err := r.DB.QueryRowContext(ctx, "SELECT "+movieCols+" FROM movies WHERE id=?", id).
		Scan(&m.ID, &m.Title, &m.Description, &m.PosterURL, &m.Genre, &m.DurationMinutes)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Movie{}, ErrMovieNotFound
	}
	if err != nil {
		return model.Movie{}, err
	}
	return m, nil
}

// List returns the full catalog ordered by title.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+movieCols+" FROM movies ORDER BY title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	movies := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.PosterURL, &m.Genre, &m.DurationMinutes); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// Update overwrites every mutable column of a movie. Partial updates
// are assembled by the caller, which loads the current row first.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE movies SET title=?, description=?, poster_url=?, genre=?, duration_minutes=? WHERE id=?",
		m.Title, m.Description, m.PosterURL, m.Genre, m.DurationMinutes, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, gerr := r.GetByID(ctx, m.ID); gerr != nil {
			return gerr
		}
	}
	return nil
}

// Delete removes a movie. The schema cascades the delete to the
// movie's showtimes and, through them, to their seats.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM movies WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	return nil
}

// ListShowingBetween returns movies that have at least one showtime in
// [from, to), ordered by title. Used by the daily schedule view.
func (r *MovieRepo) ListShowingBetween(ctx context.Context, from, to time.Time) ([]model.Movie, error) {
	const q = `SELECT DISTINCT m.id, m.title, m.description, m.poster_url, m.genre, m.duration_minutes
	           FROM movies m
	           JOIN showtimes st ON st.movie_id = m.id
	           WHERE st.start_time >= ? AND st.start_time < ?
	           ORDER BY m.title`
	rows, err := r.DB.QueryContext(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	movies := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.PosterURL, &m.Genre, &m.DurationMinutes); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}
