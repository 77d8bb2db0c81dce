package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTLs.
// Pattern: cinetix:{module}:{operation}:{identifier}:{params?}

const CACHE_PREFIX = "cinetix"

// ================== MOVIES MODULE ==================

const (
	CACHE_KEY_MOVIES_LIST  = CACHE_PREFIX + ":movies:list"         // + :page:X:limit:Y
	CACHE_KEY_MOVIE_DETAIL = CACHE_PREFIX + ":movies:detail:uuid:" // + movie-id
)

const (
	TTL_MOVIES_LIST  = 1 * time.Hour
	TTL_MOVIE_DETAIL = 2 * time.Hour
)

// ================== SHOWTIMES MODULE ==================

const (
	CACHE_KEY_SHOWTIMES_LIST = CACHE_PREFIX + ":showtimes:list"     // + :movie:X:date:Y:page:Z
	CACHE_KEY_SEAT_MAP       = CACHE_PREFIX + ":showtimes:seatmap:" // + showtime-id
)

// Seat availability is real-time sensitive; keep it short and invalidate
// on every claim, cancel and expiry.
const (
	TTL_SHOWTIMES_LIST = 5 * time.Minute
	TTL_SEAT_MAP       = 30 * time.Second
)

// ================== INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_MOVIES_ALL    = CACHE_KEY_MOVIES_LIST + "*"
	PATTERN_INVALIDATE_SHOWTIMES_ALL = CACHE_KEY_SHOWTIMES_LIST + "*"
)

// BuildMoviesListKey builds the cache key for a paginated movie listing
func BuildMoviesListKey(page, limit int, genre, search string) string {
	return fmt.Sprintf("%s:page:%d:limit:%d:genre:%s:search:%s",
		CACHE_KEY_MOVIES_LIST, page, limit, genre, search)
}

// BuildMovieDetailKey builds the cache key for a single movie
func BuildMovieDetailKey(movieID string) string {
	return CACHE_KEY_MOVIE_DETAIL + movieID
}

// BuildShowtimesListKey builds the cache key for a filtered showtime listing
func BuildShowtimesListKey(movieID, date string, page, limit int) string {
	return fmt.Sprintf("%s:movie:%s:date:%s:page:%d:limit:%d",
		CACHE_KEY_SHOWTIMES_LIST, movieID, date, page, limit)
}

// BuildSeatMapKey builds the cache key for a showtime's seat availability map
func BuildSeatMapKey(showtimeID string) string {
	return CACHE_KEY_SEAT_MAP + showtimeID
}
