package model

// Movie mirrors a row of the `movies` table. A movie owns its
// showtimes; deleting a movie cascades to them (and through them to
// their seats).
type Movie struct {
	ID              uint64  // movies.id
	Title           string  // movies.title
	Description     *string // movies.description (nullable)
	PosterURL       *string // movies.poster_url (nullable)
	Genre           string  // movies.genre
	DurationMinutes uint32  // movies.duration_minutes
}
