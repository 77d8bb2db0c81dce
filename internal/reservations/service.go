package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinetix/internal/shared/config"
	"cinetix/internal/shared/errs"
	"cinetix/internal/showtimes"
	"cinetix/internal/theaters"
	"cinetix/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reservation lifecycle event types published to Kafka.
const (
	EventReservationCreated   = "reservation.created"
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationCancelled = "reservation.cancelled"
	EventReservationExpired   = "reservation.expired"
)

type Service interface {
	// Service dependency injection
	SetShowtimeService(showtimeService ShowtimeService)
	SetTheaterService(theaterService TheaterService)
	SetEventPublisher(publisher EventPublisher)

	CreateReservation(userID uuid.UUID, req CreateReservationRequest) (*ReservationResponse, error)
	ConfirmReservation(id, actorID uuid.UUID, isAdmin bool) (*ReservationResponse, error)
	CancelReservation(id, actorID uuid.UUID, isAdmin bool) (*ReservationResponse, error)
	GetReservationByID(id, actorID uuid.UUID, isAdmin bool) (*ReservationResponse, error)
	ListUserReservations(userID uuid.UUID, query ReservationListQuery) (*PaginatedReservations, error)
	ListShowtimeReservations(showtimeID uuid.UUID) ([]ReservationResponse, error)

	// ExpireStaleHolds releases lapsed holds; the background reaper calls
	// it on every tick.
	ExpireStaleHolds(ctx context.Context) (int, error)
}

// ShowtimeService interface to avoid circular dependencies
type ShowtimeService interface {
	GetShowtimeByID(id uuid.UUID) (*showtimes.ShowtimeResponse, error)
	InvalidateSeatMap(ctx context.Context, showtimeID uuid.UUID)
}

// TheaterService interface to avoid circular dependencies
type TheaterService interface {
	GetSeatsForShowtime(theaterID uuid.UUID, seatIDs []uuid.UUID) ([]theaters.Seat, error)
}

// EventPublisher emits reservation lifecycle events. Implementations must
// be best-effort: a publish failure never fails the booking path.
type EventPublisher interface {
	PublishReservationEvent(ctx context.Context, eventType string, reservation *Reservation)
}

type service struct {
	repo            Repository
	showtimeService ShowtimeService
	theaterService  TheaterService
	publisher       EventPublisher
	holdTTL         time.Duration
	reaperBatch     int
}

func NewService(repo Repository, cfg config.ReservationConfig) Service {
	return &service{
		repo:        repo,
		holdTTL:     cfg.HoldTTL,
		reaperBatch: cfg.ReaperBatch,
	}
}

func (s *service) SetShowtimeService(showtimeService ShowtimeService) {
	s.showtimeService = showtimeService
}

func (s *service) SetTheaterService(theaterService TheaterService) {
	s.theaterService = theaterService
}

func (s *service) SetEventPublisher(publisher EventPublisher) {
	s.publisher = publisher
}

func (s *service) CreateReservation(userID uuid.UUID, req CreateReservationRequest) (*ReservationResponse, error) {
	showtimeID, err := uuid.Parse(req.ShowtimeID)
	if err != nil {
		return nil, fmt.Errorf("invalid showtime ID: %w", err)
	}

	seatIDs, err := parseSeatSelection(req.SeatIDs)
	if err != nil {
		return nil, err
	}

	showtime, err := s.showtimeService.GetShowtimeByID(showtimeID)
	if err != nil {
		return nil, err
	}
	if !showtime.StartTime.After(time.Now()) {
		return nil, errs.ErrShowtimeAlreadyStarted
	}

	theaterID, err := uuid.Parse(showtime.TheaterID)
	if err != nil {
		return nil, fmt.Errorf("invalid theater ID on showtime: %w", err)
	}

	seats, err := s.theaterService.GetSeatsForShowtime(theaterID, seatIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	reservation := &Reservation{
		UserID:     userID,
		ShowtimeID: showtimeID,
		Status:     StatusHeld,
		ExpiresAt:  now.Add(s.holdTTL),
	}

	totalPrice := showtime.Price * float64(len(seats))
	reservation.Seats = make([]ReservationSeat, len(seats))
	for i, seat := range seats {
		totalPrice += seat.ExtraPrice
		reservation.Seats[i] = ReservationSeat{
			ShowtimeID:     showtimeID,
			SeatID:         seat.ID,
			PriceAtBooking: showtime.Price,
		}
	}
	reservation.TotalPrice = totalPrice

	if err := s.repo.CreateWithClaim(reservation); err != nil {
		return nil, err
	}

	ctx := context.Background()
	s.showtimeService.InvalidateSeatMap(ctx, showtimeID)
	s.publish(ctx, EventReservationCreated, reservation)
	logger.GetDefault().LogReservationCreated(ctx, reservation.ID.String(), showtimeID.String(), userID.String(), len(seats))

	return s.load(reservation.ID)
}

func (s *service) ConfirmReservation(id, actorID uuid.UUID, isAdmin bool) (*ReservationResponse, error) {
	reservation, err := s.getOwned(id, actorID, isAdmin)
	if err != nil {
		return nil, err
	}

	confirmed, err := s.repo.Confirm(reservation.ID)
	if err != nil {
		ctx := context.Background()
		if errors.Is(err, errs.ErrHoldExpired) {
			// The confirm swept the lapsed hold; availability changed.
			s.showtimeService.InvalidateSeatMap(ctx, reservation.ShowtimeID)
			s.publish(ctx, EventReservationExpired, reservation)
		}
		return nil, err
	}

	ctx := context.Background()
	s.publish(ctx, EventReservationConfirmed, confirmed)
	logger.GetDefault().LogReservationConfirmed(ctx, confirmed.ID.String())

	return s.load(confirmed.ID)
}

func (s *service) CancelReservation(id, actorID uuid.UUID, isAdmin bool) (*ReservationResponse, error) {
	reservation, err := s.getOwned(id, actorID, isAdmin)
	if err != nil {
		return nil, err
	}

	// The time window is checked before the status so a stale cancel of a
	// started show reports the schedule problem, not the state one.
	if reservation.Showtime != nil && !reservation.Showtime.StartTime.After(time.Now()) {
		return nil, errs.ErrShowtimeAlreadyStarted
	}

	cancelled, err := s.repo.Cancel(reservation.ID)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	s.showtimeService.InvalidateSeatMap(ctx, cancelled.ShowtimeID)
	s.publish(ctx, EventReservationCancelled, cancelled)
	logger.GetDefault().LogReservationCancelled(ctx, cancelled.ID.String(), actorID.String(), isAdmin)

	return s.load(cancelled.ID)
}

func (s *service) GetReservationByID(id, actorID uuid.UUID, isAdmin bool) (*ReservationResponse, error) {
	reservation, err := s.getOwned(id, actorID, isAdmin)
	if err != nil {
		return nil, err
	}
	response := reservation.ToResponse()
	return &response, nil
}

func (s *service) ListUserReservations(userID uuid.UUID, query ReservationListQuery) (*PaginatedReservations, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	reservations, totalCount, err := s.repo.ListByUser(userID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	responses := make([]ReservationResponse, len(reservations))
	for i := range reservations {
		responses[i] = reservations[i].ToResponse()
	}

	totalPages := int(totalCount) / query.Limit
	if int(totalCount)%query.Limit > 0 {
		totalPages++
	}

	return &PaginatedReservations{
		Reservations: responses,
		TotalCount:   totalCount,
		Page:         query.Page,
		Limit:        query.Limit,
		TotalPages:   totalPages,
	}, nil
}

func (s *service) ListShowtimeReservations(showtimeID uuid.UUID) ([]ReservationResponse, error) {
	if _, err := s.showtimeService.GetShowtimeByID(showtimeID); err != nil {
		return nil, err
	}

	reservations, err := s.repo.ListByShowtime(showtimeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list showtime reservations: %w", err)
	}

	responses := make([]ReservationResponse, len(reservations))
	for i := range reservations {
		responses[i] = reservations[i].ToResponse()
	}
	return responses, nil
}

func (s *service) ExpireStaleHolds(ctx context.Context) (int, error) {
	expired, err := s.repo.ExpireStaleHolds(s.reaperBatch)
	if err != nil {
		return 0, fmt.Errorf("failed to expire stale holds: %w", err)
	}
	if len(expired) == 0 {
		return 0, nil
	}

	seen := make(map[uuid.UUID]bool)
	for _, hold := range expired {
		if !seen[hold.ShowtimeID] {
			seen[hold.ShowtimeID] = true
			s.showtimeService.InvalidateSeatMap(ctx, hold.ShowtimeID)
		}
		s.publish(ctx, EventReservationExpired, &Reservation{
			ID:         hold.ReservationID,
			ShowtimeID: hold.ShowtimeID,
			Status:     StatusExpired,
		})
	}

	logger.GetDefault().LogHoldsExpired(ctx, len(expired))
	return len(expired), nil
}

func (s *service) getOwned(id, actorID uuid.UUID, isAdmin bool) (*Reservation, error) {
	reservation, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	if !isAdmin && reservation.UserID != actorID {
		return nil, errs.ErrNotReservationOwner
	}
	return reservation, nil
}

func (s *service) load(id uuid.UUID) (*ReservationResponse, error) {
	reservation, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservation: %w", err)
	}
	response := reservation.ToResponse()
	return &response, nil
}

func (s *service) publish(ctx context.Context, eventType string, reservation *Reservation) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishReservationEvent(ctx, eventType, reservation)
}

// parseSeatSelection validates and parses the requested seat IDs.
func parseSeatSelection(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, errs.ErrEmptySeatSelection
	}

	seen := make(map[uuid.UUID]bool, len(raw))
	seatIDs := make([]uuid.UUID, 0, len(raw))
	for _, idStr := range raw {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid seat ID %q: %w", idStr, err)
		}
		if seen[id] {
			return nil, errs.ErrDuplicateSeatIDs
		}
		seen[id] = true
		seatIDs = append(seatIDs, id)
	}
	return seatIDs, nil
}
