package showtimes

import (
	"errors"
	"testing"
	"time"

	"cinetix/internal/movies"
	"cinetix/internal/shared/errs"
	"cinetix/internal/theaters"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRepository is a func-field mock of Repository.
type MockRepository struct {
	CreateFunc                   func(showtime *Showtime) error
	GetByIDFunc                  func(id uuid.UUID) (*Showtime, error)
	DeleteFunc                   func(id uuid.UUID) error
	GetAllFunc                   func(query ShowtimeListQuery) ([]Showtime, int64, error)
	FindOverlappingFunc          func(theaterID uuid.UUID, start, end time.Time) ([]Showtime, error)
	CountTheaterSeatsFunc        func(theaterID uuid.UUID) (int64, error)
	CountActiveReservedSeatsFunc func(showtimeID uuid.UUID) (int64, error)
	GetSeatStatusesFunc          func(showtimeID, theaterID uuid.UUID) ([]SeatStatusRow, error)
	CountActiveReservationsFunc  func(showtimeID uuid.UUID) (int64, error)
}

func (m *MockRepository) Create(showtime *Showtime) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(showtime)
	}
	showtime.ID = uuid.New()
	return nil
}

func (m *MockRepository) GetByID(id uuid.UUID) (*Showtime, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(id)
	}
	return nil, errors.New("not stubbed")
}

func (m *MockRepository) Delete(id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(id)
	}
	return nil
}

func (m *MockRepository) GetAll(query ShowtimeListQuery) ([]Showtime, int64, error) {
	if m.GetAllFunc != nil {
		return m.GetAllFunc(query)
	}
	return nil, 0, nil
}

func (m *MockRepository) FindOverlapping(theaterID uuid.UUID, start, end time.Time) ([]Showtime, error) {
	if m.FindOverlappingFunc != nil {
		return m.FindOverlappingFunc(theaterID, start, end)
	}
	return nil, nil
}

func (m *MockRepository) CountTheaterSeats(theaterID uuid.UUID) (int64, error) {
	if m.CountTheaterSeatsFunc != nil {
		return m.CountTheaterSeatsFunc(theaterID)
	}
	return 0, nil
}

func (m *MockRepository) CountActiveReservedSeats(showtimeID uuid.UUID) (int64, error) {
	if m.CountActiveReservedSeatsFunc != nil {
		return m.CountActiveReservedSeatsFunc(showtimeID)
	}
	return 0, nil
}

func (m *MockRepository) GetSeatStatuses(showtimeID, theaterID uuid.UUID) ([]SeatStatusRow, error) {
	if m.GetSeatStatusesFunc != nil {
		return m.GetSeatStatusesFunc(showtimeID, theaterID)
	}
	return nil, nil
}

func (m *MockRepository) CountActiveReservations(showtimeID uuid.UUID) (int64, error) {
	if m.CountActiveReservationsFunc != nil {
		return m.CountActiveReservationsFunc(showtimeID)
	}
	return 0, nil
}

type stubMovieService struct {
	movie *movies.MovieResponse
	err   error
}

func (s *stubMovieService) GetMovieByID(id uuid.UUID) (*movies.MovieResponse, error) {
	return s.movie, s.err
}

type stubTheaterService struct {
	theater *theaters.TheaterResponse
	err     error
}

func (s *stubTheaterService) GetTheaterByID(id uuid.UUID) (*theaters.TheaterResponse, error) {
	return s.theater, s.err
}

func newTestService(repo Repository, durationMinutes int) Service {
	svc := NewService(repo)
	svc.SetMovieService(&stubMovieService{movie: &movies.MovieResponse{
		ID:              uuid.New().String(),
		Title:           "Midnight Orbit",
		DurationMinutes: durationMinutes,
	}})
	svc.SetTheaterService(&stubTheaterService{theater: &theaters.TheaterResponse{
		ID:   uuid.New().String(),
		Name: "Grand Screen 1",
	}})
	return svc
}

func validRequest(start time.Time) CreateShowtimeRequest {
	return CreateShowtimeRequest{
		MovieID:   uuid.New().String(),
		TheaterID: uuid.New().String(),
		StartTime: start,
		Price:     12.50,
	}
}

func TestCreateShowtimeDerivesEndTime(t *testing.T) {
	var created *Showtime
	id := uuid.New()
	repo := &MockRepository{
		CreateFunc: func(s *Showtime) error {
			s.ID = id
			created = s
			return nil
		},
		GetByIDFunc: func(uuid.UUID) (*Showtime, error) { return created, nil },
	}
	svc := newTestService(repo, 128)

	start := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	resp, err := svc.CreateShowtime(validRequest(start))
	require.NoError(t, err)

	assert.Equal(t, start.Add(128*time.Minute), resp.EndTime)
}

func TestCreateShowtimeExplicitEndTime(t *testing.T) {
	var created *Showtime
	repo := &MockRepository{
		CreateFunc: func(s *Showtime) error {
			s.ID = uuid.New()
			created = s
			return nil
		},
		GetByIDFunc: func(uuid.UUID) (*Showtime, error) { return created, nil },
	}
	svc := newTestService(repo, 90)

	start := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	req := validRequest(start)
	// explicit end covers trailers and cleanup beyond the runtime
	req.EndTime = start.Add(2 * time.Hour)

	resp, err := svc.CreateShowtime(req)
	require.NoError(t, err)
	assert.Equal(t, req.EndTime, resp.EndTime)
}

func TestCreateShowtimeRejectsInvalidWindow(t *testing.T) {
	svc := newTestService(&MockRepository{}, 120)

	start := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	req := validRequest(start)
	req.EndTime = start // zero-length window

	_, err := svc.CreateShowtime(req)
	assert.ErrorIs(t, err, errs.ErrInvalidTimeWindow)
}

func TestCreateShowtimeRejectsNegativePrice(t *testing.T) {
	svc := newTestService(&MockRepository{}, 120)

	req := validRequest(time.Now().Add(time.Hour))
	req.Price = -1

	_, err := svc.CreateShowtime(req)
	assert.ErrorIs(t, err, errs.ErrInvalidPrice)
}

func TestCreateShowtimeOverlap(t *testing.T) {
	t.Run("pre-check finds a clash", func(t *testing.T) {
		repo := &MockRepository{
			FindOverlappingFunc: func(theaterID uuid.UUID, start, end time.Time) ([]Showtime, error) {
				return []Showtime{{ID: uuid.New()}}, nil
			},
		}
		svc := newTestService(repo, 120)

		_, err := svc.CreateShowtime(validRequest(time.Now().Add(time.Hour)))
		assert.ErrorIs(t, err, errs.ErrShowtimeOverlap)
	})

	t.Run("constraint violation on insert maps to overlap", func(t *testing.T) {
		repo := &MockRepository{
			CreateFunc: func(s *Showtime) error {
				return errors.New(`ERROR: conflicting key value violates exclusion constraint "excl_theater_showtime_overlap" (SQLSTATE 23P01)`)
			},
		}
		svc := newTestService(repo, 120)

		_, err := svc.CreateShowtime(validRequest(time.Now().Add(time.Hour)))
		assert.ErrorIs(t, err, errs.ErrShowtimeOverlap)
	})

	t.Run("back-to-back slots do not clash", func(t *testing.T) {
		// The repository query is half-open: start < new_end AND end > new_start.
		// A show ending exactly when the next starts must not be returned,
		// so an empty result here means creation succeeds.
		var created *Showtime
		repo := &MockRepository{
			FindOverlappingFunc: func(theaterID uuid.UUID, start, end time.Time) ([]Showtime, error) {
				return nil, nil
			},
			CreateFunc: func(s *Showtime) error {
				s.ID = uuid.New()
				created = s
				return nil
			},
			GetByIDFunc: func(uuid.UUID) (*Showtime, error) { return created, nil },
		}
		svc := newTestService(repo, 120)

		_, err := svc.CreateShowtime(validRequest(time.Now().Add(time.Hour)))
		assert.NoError(t, err)
	})
}

func TestDeleteShowtimeRefusesWithReservations(t *testing.T) {
	id := uuid.New()
	repo := &MockRepository{
		GetByIDFunc: func(uuid.UUID) (*Showtime, error) {
			return &Showtime{ID: id}, nil
		},
		CountActiveReservationsFunc: func(uuid.UUID) (int64, error) { return 2, nil },
	}
	svc := NewService(repo)

	err := svc.DeleteShowtime(id)
	assert.ErrorIs(t, err, errs.ErrShowtimeHasReservations)
}

func TestResolveSeatStatus(t *testing.T) {
	now := time.Now()
	booked := "BOOKED"
	held := "HELD"
	future := now.Add(5 * time.Minute)
	past := now.Add(-5 * time.Minute)

	tests := []struct {
		name string
		row  SeatStatusRow
		want SeatStatus
	}{
		{"no reservation", SeatStatusRow{}, SeatStatusAvailable},
		{"booked", SeatStatusRow{Status: &booked}, SeatStatusBooked},
		{"active hold", SeatStatusRow{Status: &held, ExpiresAt: &future}, SeatStatusHeld},
		{"lapsed hold reads available", SeatStatusRow{Status: &held, ExpiresAt: &past}, SeatStatusAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveSeatStatus(tt.row, now))
		})
	}
}

func TestGetSeatMapCountsAvailability(t *testing.T) {
	showtimeID := uuid.New()
	theaterID := uuid.New()
	booked := "BOOKED"
	held := "HELD"
	future := time.Now().Add(10 * time.Minute)

	repo := &MockRepository{
		GetByIDFunc: func(uuid.UUID) (*Showtime, error) {
			return &Showtime{ID: showtimeID, TheaterID: theaterID}, nil
		},
		GetSeatStatusesFunc: func(sID, tID uuid.UUID) ([]SeatStatusRow, error) {
			assert.Equal(t, showtimeID, sID)
			assert.Equal(t, theaterID, tID)
			return []SeatStatusRow{
				{ID: uuid.New(), Label: "A1"},
				{ID: uuid.New(), Label: "A2", Status: &booked},
				{ID: uuid.New(), Label: "A3", Status: &held, ExpiresAt: &future},
			}, nil
		},
	}
	svc := NewService(repo)

	seatMap, err := svc.GetSeatMap(showtimeID)
	require.NoError(t, err)

	assert.Equal(t, 3, seatMap.TotalSeats)
	assert.Equal(t, 1, seatMap.AvailableSeats)
	assert.Equal(t, SeatStatusAvailable, seatMap.Seats[0].Status)
	assert.Equal(t, SeatStatusBooked, seatMap.Seats[1].Status)
	assert.Equal(t, SeatStatusHeld, seatMap.Seats[2].Status)
}
