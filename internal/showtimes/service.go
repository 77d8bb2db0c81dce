package showtimes

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"cinetix/internal/movies"
	"cinetix/internal/shared/constants"
	"cinetix/internal/shared/errs"
	"cinetix/internal/theaters"
	"cinetix/pkg/cache"
	"cinetix/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	// Service dependency injection
	SetMovieService(movieService MovieService)
	SetTheaterService(theaterService TheaterService)
	SetCacheService(cacheService cache.Service)

	CreateShowtime(req CreateShowtimeRequest) (*ShowtimeResponse, error)
	GetShowtimeByID(id uuid.UUID) (*ShowtimeResponse, error)
	DeleteShowtime(id uuid.UUID) error
	GetAllShowtimes(query ShowtimeListQuery) (*PaginatedShowtimes, error)
	GetSeatMap(showtimeID uuid.UUID) (*SeatMapResponse, error)

	// InvalidateSeatMap drops the cached seat projection after a claim,
	// cancel or expiry changes availability.
	InvalidateSeatMap(ctx context.Context, showtimeID uuid.UUID)
}

// MovieService interface to avoid circular dependencies
type MovieService interface {
	GetMovieByID(id uuid.UUID) (*movies.MovieResponse, error)
}

// TheaterService interface to avoid circular dependencies
type TheaterService interface {
	GetTheaterByID(id uuid.UUID) (*theaters.TheaterResponse, error)
}

type service struct {
	repo           Repository
	movieService   MovieService
	theaterService TheaterService
	cacheService   cache.Service
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) SetMovieService(movieService MovieService) {
	s.movieService = movieService
}

func (s *service) SetTheaterService(theaterService TheaterService) {
	s.theaterService = theaterService
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) setCache(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Set(ctx, key, value, ttl); err != nil {
		logger.Warn("failed to cache showtimes", "key", key, "error", err)
	}
}

func (s *service) getCache(ctx context.Context, key string, dest interface{}) error {
	if s.cacheService == nil {
		return fmt.Errorf("cache service not available")
	}
	return s.cacheService.Get(ctx, key, dest)
}

func (s *service) invalidateListCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_SHOWTIMES_ALL); err != nil {
		logger.Warn("failed to invalidate showtime list cache", "error", err)
	}
}

func (s *service) InvalidateSeatMap(ctx context.Context, showtimeID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Delete(ctx, constants.BuildSeatMapKey(showtimeID.String())); err != nil {
		logger.Warn("failed to invalidate seat map cache", "showtime_id", showtimeID, "error", err)
	}
	s.invalidateListCache(ctx)
}

func (s *service) CreateShowtime(req CreateShowtimeRequest) (*ShowtimeResponse, error) {
	if req.Price < 0 {
		return nil, errs.ErrInvalidPrice
	}

	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, fmt.Errorf("invalid movie ID: %w", err)
	}
	theaterID, err := uuid.Parse(req.TheaterID)
	if err != nil {
		return nil, fmt.Errorf("invalid theater ID: %w", err)
	}

	movie, err := s.movieService.GetMovieByID(movieID)
	if err != nil {
		return nil, err
	}
	if _, err := s.theaterService.GetTheaterByID(theaterID); err != nil {
		return nil, err
	}

	endTime := req.EndTime
	if endTime.IsZero() {
		endTime = req.StartTime.Add(time.Duration(movie.DurationMinutes) * time.Minute)
	}
	if !endTime.After(req.StartTime) {
		return nil, errs.ErrInvalidTimeWindow
	}

	// Pre-check against scheduled shows; the exclusion constraint is the
	// hard guard for concurrent inserts.
	overlapping, err := s.repo.FindOverlapping(theaterID, req.StartTime, endTime)
	if err != nil {
		return nil, fmt.Errorf("failed to check for overlapping showtimes: %w", err)
	}
	if len(overlapping) > 0 {
		return nil, errs.ErrShowtimeOverlap
	}

	showtime := &Showtime{
		MovieID:   movieID,
		TheaterID: theaterID,
		StartTime: req.StartTime,
		EndTime:   endTime,
		Price:     req.Price,
	}

	if err := s.repo.Create(showtime); err != nil {
		if isOverlapConstraintViolation(err) {
			return nil, errs.ErrShowtimeOverlap
		}
		return nil, fmt.Errorf("failed to create showtime: %w", err)
	}

	logger.GetDefault().LogShowtimeCreated(context.Background(), showtime.ID.String(), theaterID.String())
	s.invalidateListCache(context.Background())

	return s.GetShowtimeByID(showtime.ID)
}

func (s *service) GetShowtimeByID(id uuid.UUID) (*ShowtimeResponse, error) {
	showtime, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrShowtimeNotFound
		}
		return nil, fmt.Errorf("failed to get showtime: %w", err)
	}

	totalSeats, reservedSeats, err := s.seatCounts(showtime)
	if err != nil {
		return nil, err
	}

	response := showtime.ToResponse(totalSeats, reservedSeats)
	return &response, nil
}

func (s *service) DeleteShowtime(id uuid.UUID) error {
	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrShowtimeNotFound
		}
		return fmt.Errorf("failed to get showtime: %w", err)
	}

	count, err := s.repo.CountActiveReservations(id)
	if err != nil {
		return fmt.Errorf("failed to check showtime reservations: %w", err)
	}
	if count > 0 {
		return errs.ErrShowtimeHasReservations
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete showtime: %w", err)
	}

	ctx := context.Background()
	s.InvalidateSeatMap(ctx, id)

	return nil
}

func (s *service) GetAllShowtimes(query ShowtimeListQuery) (*PaginatedShowtimes, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	ctx := context.Background()
	cacheKey := constants.BuildShowtimesListKey(query.MovieID, query.Date, query.Page, query.Limit)

	var cached PaginatedShowtimes
	if err := s.getCache(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	showtimes, totalCount, err := s.repo.GetAll(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get showtimes: %w", err)
	}

	responses := make([]ShowtimeResponse, len(showtimes))
	for i := range showtimes {
		totalSeats, reservedSeats, err := s.seatCounts(&showtimes[i])
		if err != nil {
			return nil, err
		}
		responses[i] = showtimes[i].ToResponse(totalSeats, reservedSeats)
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(query.Limit)))

	result := &PaginatedShowtimes{
		Showtimes:  responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}

	s.setCache(ctx, cacheKey, result, constants.TTL_SHOWTIMES_LIST)

	return result, nil
}

func (s *service) GetSeatMap(showtimeID uuid.UUID) (*SeatMapResponse, error) {
	ctx := context.Background()
	cacheKey := constants.BuildSeatMapKey(showtimeID.String())

	var cached SeatMapResponse
	if err := s.getCache(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	showtime, err := s.repo.GetByID(showtimeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrShowtimeNotFound
		}
		return nil, fmt.Errorf("failed to get showtime: %w", err)
	}

	rows, err := s.repo.GetSeatStatuses(showtimeID, showtime.TheaterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seat statuses: %w", err)
	}

	now := time.Now()
	entries := make([]SeatMapEntry, len(rows))
	available := 0
	for i, row := range rows {
		status := resolveSeatStatus(row, now)
		if status == SeatStatusAvailable {
			available++
		}
		entries[i] = SeatMapEntry{
			SeatID:     row.ID.String(),
			Label:      row.Label,
			Row:        row.Row,
			Number:     row.Number,
			Type:       row.Type,
			ExtraPrice: row.ExtraPrice,
			Status:     status,
		}
	}

	result := &SeatMapResponse{
		ShowtimeID:     showtimeID.String(),
		Seats:          entries,
		TotalSeats:     len(entries),
		AvailableSeats: available,
	}

	s.setCache(ctx, cacheKey, result, constants.TTL_SEAT_MAP)

	return result, nil
}

func (s *service) seatCounts(showtime *Showtime) (int64, int64, error) {
	totalSeats, err := s.repo.CountTheaterSeats(showtime.TheaterID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count theater seats: %w", err)
	}
	reservedSeats, err := s.repo.CountActiveReservedSeats(showtime.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count reserved seats: %w", err)
	}
	return totalSeats, reservedSeats, nil
}

// resolveSeatStatus maps an unreleased reservation row to the seat's
// effective status. Lapsed holds that the reaper has not swept yet read
// as available.
func resolveSeatStatus(row SeatStatusRow, now time.Time) SeatStatus {
	if row.Status == nil {
		return SeatStatusAvailable
	}
	switch *row.Status {
	case "BOOKED":
		return SeatStatusBooked
	case "HELD":
		if row.ExpiresAt != nil && row.ExpiresAt.Before(now) {
			return SeatStatusAvailable
		}
		return SeatStatusHeld
	default:
		return SeatStatusAvailable
	}
}

// isOverlapConstraintViolation detects the theater schedule exclusion
// constraint without taking a direct driver dependency.
func isOverlapConstraintViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "excl_theater_showtime_overlap")
}
