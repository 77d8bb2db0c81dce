package reservations

import (
	"context"
	"testing"
	"time"

	"cinetix/internal/shared/config"
	"cinetix/internal/shared/errs"
	"cinetix/internal/showtimes"
	"cinetix/internal/theaters"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockRepository is a func-field mock of Repository.
type MockRepository struct {
	CreateWithClaimFunc  func(reservation *Reservation) error
	GetByIDFunc          func(id uuid.UUID) (*Reservation, error)
	ConfirmFunc          func(id uuid.UUID) (*Reservation, error)
	CancelFunc           func(id uuid.UUID) (*Reservation, error)
	ExpireStaleHoldsFunc func(batch int) ([]ExpiredHold, error)
	ListByUserFunc       func(userID uuid.UUID, query ReservationListQuery) ([]Reservation, int64, error)
	ListByShowtimeFunc   func(showtimeID uuid.UUID) ([]Reservation, error)
}

func (m *MockRepository) CreateWithClaim(reservation *Reservation) error {
	if m.CreateWithClaimFunc != nil {
		return m.CreateWithClaimFunc(reservation)
	}
	return nil
}

func (m *MockRepository) GetByID(id uuid.UUID) (*Reservation, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockRepository) Confirm(id uuid.UUID) (*Reservation, error) {
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockRepository) Cancel(id uuid.UUID) (*Reservation, error) {
	if m.CancelFunc != nil {
		return m.CancelFunc(id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockRepository) ExpireStaleHolds(batch int) ([]ExpiredHold, error) {
	if m.ExpireStaleHoldsFunc != nil {
		return m.ExpireStaleHoldsFunc(batch)
	}
	return nil, nil
}

func (m *MockRepository) ListByUser(userID uuid.UUID, query ReservationListQuery) ([]Reservation, int64, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(userID, query)
	}
	return nil, 0, nil
}

func (m *MockRepository) ListByShowtime(showtimeID uuid.UUID) ([]Reservation, error) {
	if m.ListByShowtimeFunc != nil {
		return m.ListByShowtimeFunc(showtimeID)
	}
	return nil, nil
}

// MockShowtimeService is a func-field mock of ShowtimeService.
type MockShowtimeService struct {
	GetShowtimeByIDFunc  func(id uuid.UUID) (*showtimes.ShowtimeResponse, error)
	InvalidatedShowtimes []uuid.UUID
}

func (m *MockShowtimeService) GetShowtimeByID(id uuid.UUID) (*showtimes.ShowtimeResponse, error) {
	if m.GetShowtimeByIDFunc != nil {
		return m.GetShowtimeByIDFunc(id)
	}
	return nil, errs.ErrShowtimeNotFound
}

func (m *MockShowtimeService) InvalidateSeatMap(ctx context.Context, showtimeID uuid.UUID) {
	m.InvalidatedShowtimes = append(m.InvalidatedShowtimes, showtimeID)
}

// MockTheaterService is a func-field mock of TheaterService.
type MockTheaterService struct {
	GetSeatsForShowtimeFunc func(theaterID uuid.UUID, seatIDs []uuid.UUID) ([]theaters.Seat, error)
}

func (m *MockTheaterService) GetSeatsForShowtime(theaterID uuid.UUID, seatIDs []uuid.UUID) ([]theaters.Seat, error) {
	if m.GetSeatsForShowtimeFunc != nil {
		return m.GetSeatsForShowtimeFunc(theaterID, seatIDs)
	}
	return nil, errs.ErrSeatNotFound
}

// MockPublisher records published events.
type MockPublisher struct {
	Events []string
}

func (m *MockPublisher) PublishReservationEvent(ctx context.Context, eventType string, reservation *Reservation) {
	m.Events = append(m.Events, eventType)
}

func testConfig() config.ReservationConfig {
	return config.ReservationConfig{
		HoldTTL:        15 * time.Minute,
		ReaperInterval: 30 * time.Second,
		ReaperBatch:    100,
	}
}

func newTestService(repo Repository, st *MockShowtimeService, th *MockTheaterService, pub *MockPublisher) Service {
	svc := NewService(repo, testConfig())
	svc.SetShowtimeService(st)
	svc.SetTheaterService(th)
	if pub != nil {
		svc.SetEventPublisher(pub)
	}
	return svc
}

func futureShowtime(theaterID uuid.UUID, price float64) *showtimes.ShowtimeResponse {
	start := time.Now().Add(2 * time.Hour)
	return &showtimes.ShowtimeResponse{
		ID:        uuid.New().String(),
		TheaterID: theaterID.String(),
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		Price:     price,
	}
}

func TestParseSeatSelection(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	t.Run("rejects empty selection", func(t *testing.T) {
		_, err := parseSeatSelection(nil)
		assert.ErrorIs(t, err, errs.ErrEmptySeatSelection)
	})

	t.Run("rejects duplicate seats", func(t *testing.T) {
		_, err := parseSeatSelection([]string{a.String(), b.String(), a.String()})
		assert.ErrorIs(t, err, errs.ErrDuplicateSeatIDs)
	})

	t.Run("rejects malformed seat ids", func(t *testing.T) {
		_, err := parseSeatSelection([]string{"not-a-uuid"})
		assert.Error(t, err)
	})

	t.Run("preserves order", func(t *testing.T) {
		ids, err := parseSeatSelection([]string{a.String(), b.String()})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{a, b}, ids)
	})
}

func TestCreateReservationPricing(t *testing.T) {
	theaterID := uuid.New()
	showtimeID := uuid.New()
	userID := uuid.New()

	seats := []theaters.Seat{
		{ID: uuid.New(), TheaterID: theaterID, Label: "A1", ExtraPrice: 0},
		{ID: uuid.New(), TheaterID: theaterID, Label: "H1", ExtraPrice: 3.50},
	}

	var created *Reservation
	repo := &MockRepository{
		CreateWithClaimFunc: func(r *Reservation) error {
			r.ID = uuid.New()
			created = r
			return nil
		},
		GetByIDFunc: func(id uuid.UUID) (*Reservation, error) {
			return created, nil
		},
	}
	st := &MockShowtimeService{
		GetShowtimeByIDFunc: func(id uuid.UUID) (*showtimes.ShowtimeResponse, error) {
			return futureShowtime(theaterID, 10.00), nil
		},
	}
	th := &MockTheaterService{
		GetSeatsForShowtimeFunc: func(theaterID uuid.UUID, seatIDs []uuid.UUID) ([]theaters.Seat, error) {
			return seats, nil
		},
	}
	pub := &MockPublisher{}

	svc := newTestService(repo, st, th, pub)

	resp, err := svc.CreateReservation(userID, CreateReservationRequest{
		ShowtimeID: showtimeID.String(),
		SeatIDs:    []string{seats[0].ID.String(), seats[1].ID.String()},
	})
	require.NoError(t, err)

	// base price per seat plus the premium surcharge
	assert.Equal(t, 23.50, resp.TotalPrice)
	assert.Equal(t, StatusHeld, resp.Status)

	require.Len(t, created.Seats, 2)
	for _, rs := range created.Seats {
		assert.Equal(t, 10.00, rs.PriceAtBooking)
		assert.Equal(t, showtimeID, rs.ShowtimeID)
	}
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), created.ExpiresAt, 5*time.Second)

	assert.Equal(t, []string{EventReservationCreated}, pub.Events)
	assert.Equal(t, []uuid.UUID{showtimeID}, st.InvalidatedShowtimes)
}

func TestCreateReservationRejectsStartedShowtime(t *testing.T) {
	theaterID := uuid.New()
	st := &MockShowtimeService{
		GetShowtimeByIDFunc: func(id uuid.UUID) (*showtimes.ShowtimeResponse, error) {
			past := futureShowtime(theaterID, 10.00)
			past.StartTime = time.Now().Add(-time.Minute)
			return past, nil
		},
	}
	svc := newTestService(&MockRepository{}, st, &MockTheaterService{}, nil)

	_, err := svc.CreateReservation(uuid.New(), CreateReservationRequest{
		ShowtimeID: uuid.New().String(),
		SeatIDs:    []string{uuid.New().String()},
	})
	assert.ErrorIs(t, err, errs.ErrShowtimeAlreadyStarted)
}

func TestCreateReservationConflict(t *testing.T) {
	theaterID := uuid.New()
	seatID := uuid.New()

	repo := &MockRepository{
		CreateWithClaimFunc: func(r *Reservation) error {
			return errs.ErrSeatsAlreadyReserved
		},
	}
	st := &MockShowtimeService{
		GetShowtimeByIDFunc: func(id uuid.UUID) (*showtimes.ShowtimeResponse, error) {
			return futureShowtime(theaterID, 10.00), nil
		},
	}
	th := &MockTheaterService{
		GetSeatsForShowtimeFunc: func(theaterID uuid.UUID, seatIDs []uuid.UUID) ([]theaters.Seat, error) {
			return []theaters.Seat{{ID: seatID, TheaterID: theaterID}}, nil
		},
	}
	pub := &MockPublisher{}
	svc := newTestService(repo, st, th, pub)

	_, err := svc.CreateReservation(uuid.New(), CreateReservationRequest{
		ShowtimeID: uuid.New().String(),
		SeatIDs:    []string{seatID.String()},
	})

	// the whole claim fails, nothing is published or invalidated
	assert.ErrorIs(t, err, errs.ErrSeatsAlreadyReserved)
	assert.Empty(t, pub.Events)
	assert.Empty(t, st.InvalidatedShowtimes)
}

func TestConfirmReservation(t *testing.T) {
	userID := uuid.New()
	reservationID := uuid.New()
	showtimeID := uuid.New()

	held := &Reservation{
		ID:         reservationID,
		UserID:     userID,
		ShowtimeID: showtimeID,
		Status:     StatusHeld,
		ExpiresAt:  time.Now().Add(10 * time.Minute),
	}

	t.Run("owner can confirm", func(t *testing.T) {
		booked := *held
		booked.Status = StatusBooked

		repo := &MockRepository{
			GetByIDFunc: func(id uuid.UUID) (*Reservation, error) { return &booked, nil },
			ConfirmFunc: func(id uuid.UUID) (*Reservation, error) { return &booked, nil },
		}
		pub := &MockPublisher{}
		svc := newTestService(repo, &MockShowtimeService{}, &MockTheaterService{}, pub)

		resp, err := svc.ConfirmReservation(reservationID, userID, false)
		require.NoError(t, err)
		assert.Equal(t, StatusBooked, resp.Status)
		assert.Equal(t, []string{EventReservationConfirmed}, pub.Events)
	})

	t.Run("stranger is rejected before any state change", func(t *testing.T) {
		confirmCalled := false
		repo := &MockRepository{
			GetByIDFunc: func(id uuid.UUID) (*Reservation, error) { return held, nil },
			ConfirmFunc: func(id uuid.UUID) (*Reservation, error) {
				confirmCalled = true
				return held, nil
			},
		}
		svc := newTestService(repo, &MockShowtimeService{}, &MockTheaterService{}, nil)

		_, err := svc.ConfirmReservation(reservationID, uuid.New(), false)
		assert.ErrorIs(t, err, errs.ErrNotReservationOwner)
		assert.False(t, confirmCalled)
	})

	t.Run("admin may confirm on behalf of the owner", func(t *testing.T) {
		booked := *held
		booked.Status = StatusBooked
		repo := &MockRepository{
			GetByIDFunc: func(id uuid.UUID) (*Reservation, error) { return &booked, nil },
			ConfirmFunc: func(id uuid.UUID) (*Reservation, error) { return &booked, nil },
		}
		svc := newTestService(repo, &MockShowtimeService{}, &MockTheaterService{}, nil)

		_, err := svc.ConfirmReservation(reservationID, uuid.New(), true)
		assert.NoError(t, err)
	})

	t.Run("expired hold surfaces and frees the seat map", func(t *testing.T) {
		repo := &MockRepository{
			GetByIDFunc: func(id uuid.UUID) (*Reservation, error) { return held, nil },
			ConfirmFunc: func(id uuid.UUID) (*Reservation, error) { return nil, errs.ErrHoldExpired },
		}
		st := &MockShowtimeService{}
		pub := &MockPublisher{}
		svc := newTestService(repo, st, &MockTheaterService{}, pub)

		_, err := svc.ConfirmReservation(reservationID, userID, false)
		assert.ErrorIs(t, err, errs.ErrHoldExpired)
		assert.Equal(t, []uuid.UUID{showtimeID}, st.InvalidatedShowtimes)
		assert.Equal(t, []string{EventReservationExpired}, pub.Events)
	})

	t.Run("missing reservation maps to not found", func(t *testing.T) {
		svc := newTestService(&MockRepository{}, &MockShowtimeService{}, &MockTheaterService{}, nil)
		_, err := svc.ConfirmReservation(uuid.New(), userID, false)
		assert.ErrorIs(t, err, errs.ErrReservationNotFound)
	})
}

func TestCancelReservation(t *testing.T) {
	userID := uuid.New()
	reservationID := uuid.New()
	showtimeID := uuid.New()

	makeHeld := func(start time.Time) *Reservation {
		return &Reservation{
			ID:         reservationID,
			UserID:     userID,
			ShowtimeID: showtimeID,
			Status:     StatusHeld,
			ExpiresAt:  time.Now().Add(10 * time.Minute),
			Showtime: &showtimes.Showtime{
				ID:        showtimeID,
				StartTime: start,
				EndTime:   start.Add(2 * time.Hour),
			},
		}
	}

	t.Run("owner cancels before the show", func(t *testing.T) {
		held := makeHeld(time.Now().Add(time.Hour))
		cancelled := *held
		cancelled.Status = StatusCancelled
		now := time.Now()
		cancelled.CancelledAt = &now

		repo := &MockRepository{
			GetByIDFunc: func(id uuid.UUID) (*Reservation, error) { return held, nil },
			CancelFunc:  func(id uuid.UUID) (*Reservation, error) { return &cancelled, nil },
		}
		st := &MockShowtimeService{}
		pub := &MockPublisher{}
		svc := newTestService(repo, st, &MockTheaterService{}, pub)

		_, err := svc.CancelReservation(reservationID, userID, false)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{showtimeID}, st.InvalidatedShowtimes)
		assert.Equal(t, []string{EventReservationCancelled}, pub.Events)
	})

	t.Run("started showtime wins over status", func(t *testing.T) {
		started := makeHeld(time.Now().Add(-time.Minute))
		started.Status = StatusExpired // terminal, but the time check runs first

		repo := &MockRepository{
			GetByIDFunc: func(id uuid.UUID) (*Reservation, error) { return started, nil },
		}
		svc := newTestService(repo, &MockShowtimeService{}, &MockTheaterService{}, nil)

		_, err := svc.CancelReservation(reservationID, userID, false)
		assert.ErrorIs(t, err, errs.ErrShowtimeAlreadyStarted)
	})

	t.Run("ownership is checked before the time window", func(t *testing.T) {
		started := makeHeld(time.Now().Add(-time.Minute))
		repo := &MockRepository{
			GetByIDFunc: func(id uuid.UUID) (*Reservation, error) { return started, nil },
		}
		svc := newTestService(repo, &MockShowtimeService{}, &MockTheaterService{}, nil)

		_, err := svc.CancelReservation(reservationID, uuid.New(), false)
		assert.ErrorIs(t, err, errs.ErrNotReservationOwner)
	})

	t.Run("terminal reservation is rejected", func(t *testing.T) {
		held := makeHeld(time.Now().Add(time.Hour))
		repo := &MockRepository{
			GetByIDFunc: func(id uuid.UUID) (*Reservation, error) { return held, nil },
			CancelFunc:  func(id uuid.UUID) (*Reservation, error) { return nil, errs.ErrReservationTerminal },
		}
		svc := newTestService(repo, &MockShowtimeService{}, &MockTheaterService{}, nil)

		_, err := svc.CancelReservation(reservationID, userID, false)
		assert.ErrorIs(t, err, errs.ErrReservationTerminal)
	})
}

func TestExpireStaleHolds(t *testing.T) {
	showtimeA := uuid.New()
	showtimeB := uuid.New()

	repo := &MockRepository{
		ExpireStaleHoldsFunc: func(batch int) ([]ExpiredHold, error) {
			assert.Equal(t, 100, batch)
			return []ExpiredHold{
				{ReservationID: uuid.New(), ShowtimeID: showtimeA},
				{ReservationID: uuid.New(), ShowtimeID: showtimeA},
				{ReservationID: uuid.New(), ShowtimeID: showtimeB},
			}, nil
		},
	}
	st := &MockShowtimeService{}
	pub := &MockPublisher{}
	svc := newTestService(repo, st, &MockTheaterService{}, pub)

	count, err := svc.ExpireStaleHolds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// one invalidation per showtime, one event per hold
	assert.ElementsMatch(t, []uuid.UUID{showtimeA, showtimeB}, st.InvalidatedShowtimes)
	assert.Equal(t, []string{
		EventReservationExpired,
		EventReservationExpired,
		EventReservationExpired,
	}, pub.Events)
}

func TestExpireStaleHoldsEmpty(t *testing.T) {
	st := &MockShowtimeService{}
	svc := newTestService(&MockRepository{}, st, &MockTheaterService{}, nil)

	count, err := svc.ExpireStaleHolds(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, st.InvalidatedShowtimes)
}
