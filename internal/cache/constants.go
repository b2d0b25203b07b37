package cache

import (
	"errors"
	"fmt"
)

// key names definition
const (
	SessionKey = "session:%s" // key of a user session, '%s' is the opaque session id

	MovieKey             = "tmdb:movie:%d"               // movie details from the movie API, '%d' is the movie id
	MovieReleaseDatesKey = "tmdb:movie:%d:release_dates" // release dates of a movie
	MovieCreditsKey      = "tmdb:movie:%d:credits"       // cast and crew of a movie
)

func MakeSessionKey(sessionID string) string {
	return fmt.Sprintf(SessionKey, sessionID)
}

func MakeMovieKey(movieID int) string {
	return fmt.Sprintf(MovieKey, movieID)
}

func MakeMovieReleaseDatesKey(movieID int) string {
	return fmt.Sprintf(MovieReleaseDatesKey, movieID)
}

func MakeMovieCreditsKey(movieID int) string {
	return fmt.Sprintf(MovieCreditsKey, movieID)
}

// errors
var (
	ErrCacheMiss = errors.New("cache miss")
)
